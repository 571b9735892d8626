package services

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"betyaClient/internal/api"
	"betyaClient/internal/session"
	"betyaClient/internal/types/challenge"
	"betyaClient/internal/types/friendship"
)

// HomeSnapshot is the combined result of the six home-screen collections.
// Failed records per-resource errors so one broken list does not blank the
// whole screen; session expiry is the only failure that aborts everything.
type HomeSnapshot struct {
	Friends                []friendship.Friend
	SentFriendRequests     []friendship.PendingRequest
	ReceivedFriendRequests []friendship.PendingRequest
	Challenges             []challenge.Challenge
	ReceivedInvitations    []challenge.ReceivedInvitation
	SentInvitations        []challenge.SentInvitation

	Failed map[string]error
}

type HomeService struct {
	api   *api.Client
	store session.Store
	log   *zap.Logger
}

func NewHomeService(apiClient *api.Client, store session.Store, log *zap.Logger) *HomeService {
	return &HomeService{api: apiClient, store: store, log: log}
}

// Load fetches all six collections concurrently and joins them. On detected
// session expiry it clears the stored token and returns api.ErrSessionExpired
// so the caller can force a fresh login.
func (s *HomeService) Load(ctx context.Context) (*HomeSnapshot, error) {
	snap := &HomeSnapshot{Failed: map[string]error{}}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	fetch := func(name string, fn func(context.Context) error) {
		g.Go(func() error {
			err := fn(gctx)
			if err == nil {
				return nil
			}
			if errors.Is(err, api.ErrSessionExpired) {
				return err
			}
			s.log.Warn("home resource failed", zap.String("resource", name), zap.Error(err))
			mu.Lock()
			snap.Failed[name] = err
			mu.Unlock()
			return nil
		})
	}

	fetch("friends", func(ctx context.Context) error {
		friends, err := s.api.Friends(ctx)
		snap.Friends = friends
		return err
	})
	fetch("pending_sent", func(ctx context.Context) error {
		pending, err := s.api.PendingSent(ctx)
		snap.SentFriendRequests = pending
		return err
	})
	fetch("pending_received", func(ctx context.Context) error {
		pending, err := s.api.PendingReceived(ctx)
		snap.ReceivedFriendRequests = pending
		return err
	})
	fetch("challenges", func(ctx context.Context) error {
		challenges, err := s.api.Challenges(ctx)
		snap.Challenges = challenges
		return err
	})
	fetch("challenge_invitations_received", func(ctx context.Context) error {
		invitations, err := s.api.ReceivedChallengeInvitations(ctx)
		snap.ReceivedInvitations = invitations
		return err
	})
	fetch("challenge_invitations_sent", func(ctx context.Context) error {
		invitations, err := s.api.SentChallengeInvitations(ctx)
		snap.SentInvitations = invitations
		return err
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, api.ErrSessionExpired) {
			s.log.Info("session expired, clearing stored token")
			if clearErr := s.store.Clear(ctx); clearErr != nil {
				s.log.Warn("could not clear session", zap.Error(clearErr))
			}
		}
		return nil, err
	}
	return snap, nil
}

func (s *HomeService) Stats(ctx context.Context) (*friendship.Stats, error) {
	stats, err := s.api.FriendStats(ctx)
	if err != nil {
		if errors.Is(err, api.ErrSessionExpired) {
			if clearErr := s.store.Clear(ctx); clearErr != nil {
				s.log.Warn("could not clear session", zap.Error(clearErr))
			}
		}
		return nil, err
	}
	return stats, nil
}
