// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reader_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-reader/internal/platform/sec"
	"github.com/taibuivan/yomira-reader/internal/reader"
	"github.com/taibuivan/yomira-reader/internal/users/auth"
)

/*
TestSessionStores runs the same contract against both store implementations.
*/
func TestSessionStores(t *testing.T) {
	ctx := context.Background()
	state := reader.SessionState{User: auth.User{ID: "u1", Username: "reader"}, AccessToken: "tok"}

	stores := map[string]reader.SessionStore{
		"memory": &reader.MemoryStore{},
		"file":   reader.NewFileStore(filepath.Join(t.TempDir(), "session.json")),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			_, ok, err := store.Load(ctx)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.Save(ctx, state))
			loaded, ok, err := store.Load(ctx)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "tok", loaded.AccessToken)
			assert.Equal(t, "reader", loaded.User.Username)

			require.NoError(t, store.Clear(ctx))
			require.NoError(t, store.Clear(ctx), "clearing twice is fine")
			_, ok, err = store.Load(ctx)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}

	t.Run("file_permissions", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		require.NoError(t, reader.NewFileStore(path).Save(ctx, state))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("file_corrupt", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

		_, _, err := reader.NewFileStore(path).Load(ctx)
		assert.Error(t, err)
	})
}

/*
TestSession_Lifecycle signs in, restores from the store and signs out.
*/
func TestSession_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := &reader.MemoryStore{}
	authenticator := &fakeAuthenticator{}

	session := reader.NewSession(store, nil)
	assert.False(t, session.IsAuthenticated())
	assert.Empty(t, session.Token())

	require.NoError(t, session.SignIn(ctx, authenticator, "reader@gmail.com", "Secret#1"))
	assert.Equal(t, []string{sec.DigestPassword("Secret#1")}, authenticator.digests, "only the digest leaves the device")
	assert.True(t, session.IsAuthenticated())
	assert.True(t, session.IsAdmin())
	assert.Equal(t, "token-signin", session.Token())

	restored := reader.NewSession(store, nil)
	found, err := restored.Restore(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	profile, ok := restored.Profile()
	require.True(t, ok)
	assert.Equal(t, "u1", profile.ID)

	require.NoError(t, restored.SignOut(ctx))
	assert.False(t, restored.IsAuthenticated())

	found, err = reader.NewSession(store, nil).Restore(ctx)
	require.NoError(t, err)
	assert.False(t, found)
}

/*
TestSession_Register validates locally before calling the backend.
*/
func TestSession_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("rejected_locally", func(t *testing.T) {
		authenticator := &fakeAuthenticator{}
		session := reader.NewSession(&reader.MemoryStore{}, nil)

		err := session.Register(ctx, authenticator, reader.DefaultRegisterRules(),
			reader.RegisterForm{Username: "new", Email: "new@yahoo.com", Password: "Secret#1"})
		require.Error(t, err)
		assert.Empty(t, authenticator.digests)
		assert.False(t, session.IsAuthenticated())
	})

	t.Run("opens_session", func(t *testing.T) {
		authenticator := &fakeAuthenticator{}
		session := reader.NewSession(&reader.MemoryStore{}, nil)

		require.NoError(t, session.Register(ctx, authenticator, reader.DefaultRegisterRules(),
			reader.RegisterForm{Username: "new", Email: "new@gmail.com", Password: "Secret#1"}))
		assert.Equal(t, "token-new", session.Token())
		assert.False(t, session.IsAdmin())
	})

	t.Run("backend_failure", func(t *testing.T) {
		authenticator := &fakeAuthenticator{err: errOffline}
		session := reader.NewSession(&reader.MemoryStore{}, nil)

		err := session.Register(ctx, authenticator, reader.DefaultRegisterRules(),
			reader.RegisterForm{Username: "new", Email: "new@gmail.com", Password: "Secret#1"})
		require.ErrorIs(t, err, errOffline)
		assert.False(t, session.IsAuthenticated())
	})
}
