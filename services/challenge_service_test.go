package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"betyaClient/internal/api"
	"betyaClient/internal/types/challenge"
)

func TestChallengeCreate_Validation(t *testing.T) {
	_, _, client := newTestEnv(t, 1)
	svc := NewChallengeService(client, zap.NewNop())

	start := "2025-03-10T00:00:00"
	end := "2025-03-01"

	cases := []struct {
		name string
		req  challenge.CreateRequest
	}{
		{"missing name", challenge.CreateRequest{}},
		{"start after end", challenge.CreateRequest{
			Name: "x", TimeBound: true, StartDate: &start, EndDate: &end,
		}},
		{"unnamed task", challenge.CreateRequest{
			Name:       "x",
			DailyTasks: []challenge.CreateDailyTask{{}},
		}},
		{"negative weight", challenge.CreateRequest{
			Name: "x",
			DailyTasks: []challenge.CreateDailyTask{{
				Name:     "read",
				Subtasks: []challenge.CreateSubtask{{Name: "pages", Weight: -1}},
			}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.req)
			assert.ErrorIs(t, err, ErrInvalidChallenge)
		})
	}
}

func TestChallengeCreate(t *testing.T) {
	fake, _, client := newTestEnv(t, 1)
	svc := NewChallengeService(client, zap.NewNop())

	created, err := svc.Create(context.Background(), challenge.CreateRequest{
		Name: "Reading sprint",
		DailyTasks: []challenge.CreateDailyTask{{
			Name:     "read",
			Subtasks: []challenge.CreateSubtask{{Name: "morning pages", Weight: 1}},
		}},
	})

	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Reading sprint", created.Name)
	require.Len(t, created.DailyTasks, 1)
	assert.Len(t, created.DailyTasks[0].Subtasks, 1)
	assert.Contains(t, fake.Challenges, created.ID)
}

func TestChallengeGet_NotFound(t *testing.T) {
	_, _, client := newTestEnv(t, 1)
	svc := NewChallengeService(client, zap.NewNop())

	_, err := svc.Get(context.Background(), 999)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "challenge not found", apiErr.Message)
}

func TestChallengeDelete(t *testing.T) {
	fake, _, client := newTestEnv(t, 1)
	fake.Challenges[1] = fixtureChallenge()
	svc := NewChallengeService(client, zap.NewNop())

	message, deleted, err := svc.Delete(context.Background(), 1)

	require.NoError(t, err)
	assert.True(t, deleted)
	assert.NotEmpty(t, message)
	assert.NotContains(t, fake.Challenges, 1)
}

func TestChallengeDelete_DeniedForNonAdmin(t *testing.T) {
	fake, _, client := newTestEnv(t, 1)
	fake.Challenges[1] = fixtureChallenge()
	fake.DenyDeletes = true
	svc := NewChallengeService(client, zap.NewNop())

	message, deleted, err := svc.Delete(context.Background(), 1)

	require.NoError(t, err, "the refusal is informational, not an error")
	assert.False(t, deleted)
	assert.Equal(t, "Only an administrator can delete a challenge.", message)
	assert.Contains(t, fake.Challenges, 1, "challenge left in place")
}

func TestChallengeAcceptInvitation(t *testing.T) {
	fake, _, client := newTestEnv(t, 1)
	fake.Challenges[1] = fixtureChallenge()
	fake.InvitationsIn = []challenge.ReceivedInvitation{
		{MembershipID: 50, ChallengeID: 1, Name: "Reading sprint", AuthorID: 99},
	}
	svc := NewChallengeService(client, zap.NewNop())

	accepted, err := svc.AcceptInvitation(context.Background(), 50, 1)

	require.NoError(t, err)
	assert.Equal(t, "Reading sprint", accepted.Name)
	assert.Empty(t, fake.InvitationsIn)

	// A second accept of the same invitation was already resolved.
	_, err = svc.AcceptInvitation(context.Background(), 50, 1)
	assert.ErrorIs(t, err, api.ErrInvitationHandled)
}

func TestChallengeRejectInvitation_AlreadyHandled(t *testing.T) {
	_, _, client := newTestEnv(t, 1)
	svc := NewChallengeService(client, zap.NewNop())

	err := svc.RejectInvitation(context.Background(), 50)

	assert.ErrorIs(t, err, api.ErrInvitationHandled)
}
