package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"betyaClient/internal/api"
	"betyaClient/internal/progress"
	"betyaClient/internal/types/challenge"
)

var ErrInvalidChallenge = errors.New("invalid challenge")

type ChallengeService struct {
	api *api.Client
	log *zap.Logger
}

func NewChallengeService(apiClient *api.Client, log *zap.Logger) *ChallengeService {
	return &ChallengeService{api: apiClient, log: log}
}

func (s *ChallengeService) List(ctx context.Context) ([]challenge.Challenge, error) {
	return s.api.Challenges(ctx)
}

func (s *ChallengeService) Get(ctx context.Context, id int) (*challenge.Challenge, error) {
	return s.api.Challenge(ctx, id)
}

// Create validates the request client-side before sending it; the service
// still enforces its own rules.
func (s *ChallengeService) Create(ctx context.Context, req challenge.CreateRequest) (*challenge.Challenge, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}
	created, err := s.api.CreateChallenge(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create challenge: %w", err)
	}
	s.log.Info("challenge created", zap.Int("id", created.ID), zap.String("name", created.Name))
	return created, nil
}

// Delete asks the service to remove a challenge. deleted is false when the
// service declined (non-admin callers get an informational message, not an
// error).
func (s *ChallengeService) Delete(ctx context.Context, id int) (message string, deleted bool, err error) {
	resp, err := s.api.DeleteChallenge(ctx, id)
	if err != nil {
		return "", false, err
	}
	return resp.Message, resp.Status == "success", nil
}

// AcceptInvitation accepts a challenge invitation and fetches the full
// challenge so it can be added to the local list. api.ErrInvitationHandled
// passes through untouched; the caller prunes the stale entry.
func (s *ChallengeService) AcceptInvitation(ctx context.Context, membershipID, challengeID int) (*challenge.Challenge, error) {
	if err := s.api.AcceptChallengeInvitation(ctx, membershipID); err != nil {
		return nil, err
	}
	accepted, err := s.api.Challenge(ctx, challengeID)
	if err != nil {
		return nil, fmt.Errorf("load accepted challenge: %w", err)
	}
	return accepted, nil
}

func (s *ChallengeService) RejectInvitation(ctx context.Context, membershipID int) error {
	return s.api.RejectChallengeInvitation(ctx, membershipID)
}

func validateCreate(req challenge.CreateRequest) error {
	if req.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidChallenge)
	}
	if req.TimeBound && req.StartDate != nil && req.EndDate != nil {
		start := progress.NormalizeDate(*req.StartDate)
		end := progress.NormalizeDate(*req.EndDate)
		if start > end {
			return fmt.Errorf("%w: start date %s is after end date %s", ErrInvalidChallenge, start, end)
		}
	}
	for _, task := range req.DailyTasks {
		if task.Name == "" {
			return fmt.Errorf("%w: daily task name is required", ErrInvalidChallenge)
		}
		for _, st := range task.Subtasks {
			if st.Name == "" {
				return fmt.Errorf("%w: subtask name is required", ErrInvalidChallenge)
			}
			if st.Weight < 0 {
				return fmt.Errorf("%w: subtask %q has negative weight", ErrInvalidChallenge, st.Name)
			}
		}
	}
	return nil
}
