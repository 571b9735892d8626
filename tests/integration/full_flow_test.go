package integration

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"betyaClient/internal/api"
	"betyaClient/internal/progress"
	"betyaClient/internal/session"
	"betyaClient/internal/transport"
	"betyaClient/internal/types/challenge"
	"betyaClient/internal/types/friendship"
	"betyaClient/internal/types/user"
	"betyaClient/services"
	"betyaClient/tests/helpers"
)

func newClient(t *testing.T, fake *helpers.FakeAPI, store session.Store) *api.Client {
	t.Helper()

	tokenFn := func(ctx context.Context) (string, bool) {
		sess, err := store.Load(ctx)
		if err != nil {
			return "", false
		}
		return sess.Token, true
	}
	httpClient := &http.Client{Transport: transport.New(nil, tokenFn, zap.NewNop())}
	return api.New(fake.URL(), httpClient, zap.NewNop())
}

// TestFullChallengeFlow simulates the complete flow: sign in, land on the
// home screen, open a challenge, tick off a subtask and watch the chart
// follow.
func TestFullChallengeFlow(t *testing.T) {
	// Setup: fake service, on-disk session store, real transport.
	fake := helpers.NewFakeAPI(t)
	fake.Users["ania"] = user.User{ID: 1, Username: "ania", Email: "ania@example.com"}
	fake.Friends = []friendship.Friend{{ID: 2, Username: "bartek", Email: "bartek@example.com"}}

	store, err := session.OpenSQLite(filepath.Join(t.TempDir(), "betya.db"))
	require.NoError(t, err)
	defer store.Close()

	log := zap.NewNop()
	client := newClient(t, fake, store)

	authService := services.NewAuthService(client, store, log)
	homeService := services.NewHomeService(client, store, log)
	challengeService := services.NewChallengeService(client, log)
	progressService := services.NewProgressService(client, store, log)

	ctx := context.Background()

	// Step 1: Sign in
	t.Log("Step 1: User signs in")

	signedIn, err := authService.Login(ctx, "ania", "secret")
	require.NoError(t, err)
	assert.Equal(t, 1, signedIn.ID)
	assert.Equal(t, 1, authService.CurrentUserID(ctx))

	// Step 2: Create an open-ended challenge
	t.Log("Step 2: User creates a challenge")

	created, err := challengeService.Create(ctx, challenge.CreateRequest{
		Name:           "Reading sprint",
		ParticipantIDs: []int{2},
		DailyTasks: []challenge.CreateDailyTask{{
			Name: "read",
			Subtasks: []challenge.CreateSubtask{
				{Name: "morning pages", Required: true, Weight: 1},
				{Name: "evening chapter", Weight: 3},
			},
		}},
	})
	require.NoError(t, err)
	require.Len(t, created.DailyTasks, 1)
	require.Len(t, created.DailyTasks[0].Subtasks, 2)

	// The fake does not materialize memberships, so patch in the
	// participant list the real service would return.
	ch := fake.Challenges[created.ID]
	ch.AuthorID = 1
	ch.Participants = []challenge.Participant{
		{ID: 1, Username: "ania", Accepted: true},
		{ID: 2, Username: "bartek", Accepted: true},
	}
	fake.Challenges[created.ID] = ch

	// Step 3: Home screen
	t.Log("Step 3: User lands on the home screen")

	snap, err := homeService.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Failed)
	require.Len(t, snap.Challenges, 1)
	require.Len(t, snap.Friends, 1)

	// Step 4: Open the challenge
	t.Log("Step 4: User opens the challenge detail")

	detail, err := challengeService.Get(ctx, created.ID)
	require.NoError(t, err)

	view, err := progressService.LoadChallenge(ctx, detail)
	require.NoError(t, err)
	assert.True(t, view.CanEdit)
	assert.Len(t, view.Active, 2)

	task := detail.DailyTasks[0]
	assert.Equal(t, 0, progressService.TaskPercent(task))

	// Step 5: Tick a subtask
	t.Log("Step 5: User completes the heavier subtask")

	heavy := task.Subtasks[1]
	result, err := progressService.ToggleSubtask(ctx, detail, heavy.ID)
	require.NoError(t, err)
	assert.Equal(t, services.ToggleApplied, result.Outcome)
	assert.True(t, result.Value)
	assert.Equal(t, 75, progressService.TaskPercent(task))

	// Step 6: Chart
	t.Log("Step 6: The chart covers the visible window")

	series, err := progressService.RefreshSeries(ctx, detail, task.ID)
	require.NoError(t, err)
	// No history yet, so the window collapses to today.
	require.Len(t, series, 1)
	assert.Equal(t, progress.Today(), series[0].Date)
	assert.Contains(t, series[0].Values, "ania")
	assert.Contains(t, series[0].Values, "bartek")

	// Step 7: Sign out
	t.Log("Step 7: User signs out")

	require.NoError(t, authService.Logout(ctx))
	assert.Equal(t, 0, authService.CurrentUserID(ctx))

	_, err = homeService.Load(ctx)
	assert.ErrorIs(t, err, api.ErrSessionExpired, "unauthenticated calls are refused")
}

// TestSessionSurvivesRestart is the CLI's whole reason for a durable store:
// a second process sees the token the first one saved.
func TestSessionSurvivesRestart(t *testing.T) {
	fake := helpers.NewFakeAPI(t)
	fake.Users["ania"] = user.User{ID: 1, Username: "ania"}

	dbPath := filepath.Join(t.TempDir(), "betya.db")

	store, err := session.OpenSQLite(dbPath)
	require.NoError(t, err)

	client := newClient(t, fake, store)
	_, err = services.NewAuthService(client, store, zap.NewNop()).Login(context.Background(), "ania", "secret")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := session.OpenSQLite(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	sess, err := reopened.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sess.UserID)
	assert.NotEmpty(t, sess.Token)
}
