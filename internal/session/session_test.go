package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_SaveLoadClear(t *testing.T) {
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	// Empty store has no session.
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	err = store.Save(ctx, &Session{Token: "tok-1", UserID: 7, Username: "ania"})
	require.NoError(t, err)

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", loaded.Token)
	assert.Equal(t, 7, loaded.UserID)
	assert.Equal(t, "ania", loaded.Username)

	// Saving again overwrites the single row.
	err = store.Save(ctx, &Session{Token: "tok-2", UserID: 8, Username: "bartek"})
	require.NoError(t, err)

	loaded, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", loaded.Token)
	assert.Equal(t, 8, loaded.UserID)

	require.NoError(t, store.Clear(ctx))
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSQLiteStore_PersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, &Session{Token: "tok", UserID: 1, Username: "ania"}))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", loaded.Token)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, store.Save(ctx, &Session{Token: "tok", UserID: 3}))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.UserID)

	// The store hands out copies, not its internal pointer.
	loaded.Token = "mutated"
	again, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", again.Token)

	require.NoError(t, store.Clear(ctx))
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
}
