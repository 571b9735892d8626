package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"betyaClient/internal/api"
	"betyaClient/internal/identity"
	"betyaClient/internal/session"
	"betyaClient/internal/types/user"
)

type AuthService struct {
	api   *api.Client
	store session.Store
	log   *zap.Logger
}

func NewAuthService(apiClient *api.Client, store session.Store, log *zap.Logger) *AuthService {
	return &AuthService{api: apiClient, store: store, log: log}
}

// Login authenticates against the service and persists the issued token so
// later invocations stay signed in.
func (s *AuthService) Login(ctx context.Context, username, password string) (*user.User, error) {
	resp, err := s.api.Login(ctx, user.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := s.persist(ctx, resp); err != nil {
		return nil, err
	}
	s.log.Info("signed in", zap.String("username", resp.User.Username))
	return &resp.User, nil
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*user.User, error) {
	resp, err := s.api.Register(ctx, user.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if err := s.persist(ctx, resp); err != nil {
		return nil, err
	}
	s.log.Info("registered", zap.String("username", resp.User.Username))
	return &resp.User, nil
}

func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// CurrentUserID resolves the signed-in user's id from the stored token, or 0
// when nobody is signed in or the token does not decode.
func (s *AuthService) CurrentUserID(ctx context.Context) int {
	sess, err := s.store.Load(ctx)
	if err != nil {
		return 0
	}
	return identity.UserIDFromToken(sess.Token)
}

func (s *AuthService) persist(ctx context.Context, resp *user.AuthResponse) error {
	sess := &session.Session{
		Token:    resp.AccessToken,
		UserID:   resp.User.ID,
		Username: resp.User.Username,
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}
