package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"betyaClient/internal/session"
	"betyaClient/internal/types/user"
)

func TestLogin_PersistsSession(t *testing.T) {
	fake, store, client := newTestEnv(t, 0)
	fake.Users["ania"] = user.User{ID: 7, Username: "ania", Email: "ania@example.com"}

	svc := NewAuthService(client, store, zap.NewNop())

	signedIn, err := svc.Login(context.Background(), "ania", "secret")

	require.NoError(t, err)
	assert.Equal(t, 7, signedIn.ID)
	assert.Equal(t, "ania", signedIn.Username)

	sess, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, 7, sess.UserID)

	assert.Equal(t, 7, svc.CurrentUserID(context.Background()), "user id decodes from the stored token")
}

func TestLogin_WrongCredentials(t *testing.T) {
	_, store, client := newTestEnv(t, 0)

	svc := NewAuthService(client, store, zap.NewNop())

	_, err := svc.Login(context.Background(), "nobody", "secret")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "wrong username or password")

	_, err = store.Load(context.Background())
	assert.ErrorIs(t, err, session.ErrNoSession, "failed login leaves nothing behind")
}

func TestRegister_SignsIn(t *testing.T) {
	_, store, client := newTestEnv(t, 0)

	svc := NewAuthService(client, store, zap.NewNop())

	account, err := svc.Register(context.Background(), "bartek", "bartek@example.com", "secret")

	require.NoError(t, err)
	assert.Equal(t, "bartek", account.Username)
	assert.Equal(t, account.ID, svc.CurrentUserID(context.Background()))
}

func TestLogout_ClearsSession(t *testing.T) {
	_, store, client := newTestEnv(t, 3)

	svc := NewAuthService(client, store, zap.NewNop())
	require.Equal(t, 3, svc.CurrentUserID(context.Background()))

	require.NoError(t, svc.Logout(context.Background()))

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, session.ErrNoSession)
	assert.Equal(t, 0, svc.CurrentUserID(context.Background()))
}
