package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"betyaClient/internal/api"
	"betyaClient/internal/types/friendship"
	"betyaClient/internal/types/user"
)

type FriendService struct {
	api *api.Client
	log *zap.Logger
}

func NewFriendService(apiClient *api.Client, log *zap.Logger) *FriendService {
	return &FriendService{api: apiClient, log: log}
}

func (s *FriendService) Search(ctx context.Context, query string) ([]user.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	return s.api.SearchUsers(ctx, query)
}

func (s *FriendService) SendRequest(ctx context.Context, friendID int) (*friendship.Invitation, error) {
	invitation, err := s.api.AddFriend(ctx, friendID)
	if err != nil {
		return nil, fmt.Errorf("send friend request: %w", err)
	}
	s.log.Info("friend request sent", zap.Int("friend_id", friendID))
	return invitation, nil
}

// Accept resolves a received request and returns the refreshed friend list,
// since accepting changes it server-side. A 404 surfaces as
// api.ErrInvitationHandled: the request was already resolved elsewhere and
// should just be pruned locally.
func (s *FriendService) Accept(ctx context.Context, relationID int) ([]friendship.Friend, error) {
	if _, err := s.api.AcceptFriendRequest(ctx, relationID); err != nil {
		return nil, err
	}
	friends, err := s.api.Friends(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh friends: %w", err)
	}
	return friends, nil
}

func (s *FriendService) Reject(ctx context.Context, relationID int) error {
	if _, err := s.api.RejectFriendRequest(ctx, relationID); err != nil {
		return err
	}
	return nil
}

func (s *FriendService) Stats(ctx context.Context) (*friendship.Stats, error) {
	return s.api.FriendStats(ctx)
}
