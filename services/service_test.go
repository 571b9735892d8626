package services

import (
	"context"
	"net/http"
	"testing"

	"go.uber.org/zap"

	"betyaClient/internal/api"
	"betyaClient/internal/session"
	"betyaClient/internal/transport"
	"betyaClient/internal/types/challenge"
	"betyaClient/tests/helpers"
)

// newTestEnv wires a fake service, a memory session store signed in as
// userID (0 leaves the store empty) and an api client routed through the
// real transport.
func newTestEnv(t *testing.T, userID int) (*helpers.FakeAPI, *session.MemoryStore, *api.Client) {
	t.Helper()

	fake := helpers.NewFakeAPI(t)
	store := session.NewMemoryStore()
	if userID != 0 {
		err := store.Save(context.Background(), &session.Session{
			Token:  helpers.GenerateToken(t, userID),
			UserID: userID,
		})
		if err != nil {
			t.Fatalf("seed session: %v", err)
		}
	}

	tokenFn := func(ctx context.Context) (string, bool) {
		sess, err := store.Load(ctx)
		if err != nil {
			return "", false
		}
		return sess.Token, true
	}
	httpClient := &http.Client{Transport: transport.New(nil, tokenFn, zap.NewNop())}
	client := api.New(fake.URL(), httpClient, zap.NewNop())
	return fake, store, client
}

// fixtureChallenge: time-bound challenge authored by user 99 with two
// accepted participants, one pending invitee, a weighted-subtask task and a
// direct-completion task.
func fixtureChallenge() challenge.Challenge {
	desc := "read every day"
	start := "2025-01-01T00:00:00"
	end := "2025-01-03"
	return challenge.Challenge{
		ID:          1,
		Name:        "Reading sprint",
		Description: &desc,
		TimeBound:   true,
		StartDate:   &start,
		EndDate:     &end,
		AuthorID:    99,
		Participants: []challenge.Participant{
			{ID: 1, Username: "ania", Accepted: true},
			{ID: 2, Username: "bartek", Accepted: true},
			{ID: 3, Username: "celina", Accepted: false},
		},
		DailyTasks: []challenge.DailyTask{
			{ID: 10, Name: "read", Subtasks: []challenge.Subtask{
				{ID: 100, Name: "morning pages", Required: true, Weight: 1},
				{ID: 101, Name: "evening chapter", Weight: 3},
			}},
			{ID: 20, Name: "stretch"},
		},
	}
}

func fixedToday(date string) func() string {
	return func() string { return date }
}
