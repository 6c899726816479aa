// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/taibuivan/yomira-reader/internal/platform/sec"
	"github.com/taibuivan/yomira-reader/internal/users/auth"
)

// ErrNotSignedIn is returned by operations that need a signed-in user.
var ErrNotSignedIn = errors.New("reader: not signed in")

// # State

// SessionState is the persisted part of a session.
type SessionState struct {
	User        auth.User `json:"user"`
	AccessToken string    `json:"access_token"`
}

// SessionStore persists the session between launches.
type SessionStore interface {
	// Load returns the stored state; ok is false when nothing was stored.
	Load(ctx context.Context) (state SessionState, ok bool, err error)
	Save(ctx context.Context, state SessionState) error
	Clear(ctx context.Context) error
}

// Authenticator is the subset of [Backend] used to open a session.
type Authenticator interface {
	Register(ctx context.Context, username, email, passwordDigest string) (auth.AuthSession, error)
	SignIn(ctx context.Context, email, passwordDigest string) (auth.AuthSession, error)
}

// # Session

// Session holds the signed-in profile and its access token.
//
// # Concurrency
//
// Session is safe for concurrent use; [Session.Token] is meant to be handed
// to [WithTokenSource].
type Session struct {
	mu     sync.RWMutex
	store  SessionStore
	state  *SessionState
	logger *slog.Logger
}

// NewSession creates a signed-out session backed by store.
func NewSession(store SessionStore, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{store: store, logger: logger}
}

// Restore loads a previously saved session. It reports whether one was found.
func (session *Session) Restore(ctx context.Context) (bool, error) {
	state, ok, err := session.store.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("reader: restore session: %w", err)
	}
	if !ok || state.AccessToken == "" {
		return false, nil
	}

	session.mu.Lock()
	session.state = &state
	session.mu.Unlock()
	return true, nil
}

// SignIn authenticates with the plain password; only its digest leaves the device.
func (session *Session) SignIn(ctx context.Context, authenticator Authenticator, email, password string) error {
	opened, err := authenticator.SignIn(ctx, email, sec.DigestPassword(password))
	if err != nil {
		session.logger.WarnContext(ctx, "session_signin_failed", slog.Any("error", err))
		return err
	}
	return session.open(ctx, opened)
}

// Register validates the form against rules, creates the account and signs in.
func (session *Session) Register(ctx context.Context, authenticator Authenticator, rules RegisterRules, form RegisterForm) error {
	if err := rules.Validate(form); err != nil {
		return err
	}

	opened, err := authenticator.Register(ctx, form.Username, form.Email, sec.DigestPassword(form.Password))
	if err != nil {
		session.logger.WarnContext(ctx, "session_register_failed", slog.Any("error", err))
		return err
	}
	return session.open(ctx, opened)
}

func (session *Session) open(ctx context.Context, opened auth.AuthSession) error {
	if opened.AccessToken == "" || opened.User == nil {
		return errors.New("reader: backend returned an empty session")
	}

	state := SessionState{User: *opened.User, AccessToken: opened.AccessToken}
	if err := session.store.Save(ctx, state); err != nil {
		return fmt.Errorf("reader: save session: %w", err)
	}

	session.mu.Lock()
	session.state = &state
	session.mu.Unlock()

	session.logger.InfoContext(ctx, "session_opened", slog.String("user_id", state.User.ID))
	return nil
}

// SignOut forgets the session locally and in the store.
func (session *Session) SignOut(ctx context.Context) error {
	session.mu.Lock()
	session.state = nil
	session.mu.Unlock()

	if err := session.store.Clear(ctx); err != nil {
		return fmt.Errorf("reader: clear session: %w", err)
	}
	return nil
}

// Profile returns the signed-in user.
func (session *Session) Profile() (auth.User, bool) {
	session.mu.RLock()
	defer session.mu.RUnlock()

	if session.state == nil {
		return auth.User{}, false
	}
	return session.state.User, true
}

// Token returns the access token, or "" when signed out.
func (session *Session) Token() string {
	session.mu.RLock()
	defer session.mu.RUnlock()

	if session.state == nil {
		return ""
	}
	return session.state.AccessToken
}

// IsAuthenticated reports whether a user is signed in.
func (session *Session) IsAuthenticated() bool {
	return session.Token() != ""
}

// IsAdmin reports whether the signed-in user may moderate.
func (session *Session) IsAdmin() bool {
	user, ok := session.Profile()
	return ok && user.IsAdmin()
}

// # Stores

// MemoryStore keeps the session for the lifetime of the process.
type MemoryStore struct {
	mu    sync.Mutex
	state *SessionState
}

// Load implements [SessionStore].
func (store *MemoryStore) Load(_ context.Context) (SessionState, bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.state == nil {
		return SessionState{}, false, nil
	}
	return *store.state, true, nil
}

// Save implements [SessionStore].
func (store *MemoryStore) Save(_ context.Context, state SessionState) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.state = &state
	return nil
}

// Clear implements [SessionStore].
func (store *MemoryStore) Clear(_ context.Context) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.state = nil
	return nil
}

// FileStore keeps the session as a JSON file readable only by its owner.
type FileStore struct {
	path string
}

// NewFileStore creates a store writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load implements [SessionStore]. A missing file is an empty store.
func (store *FileStore) Load(_ context.Context) (SessionState, bool, error) {
	payload, err := os.ReadFile(store.path)
	if errors.Is(err, os.ErrNotExist) {
		return SessionState{}, false, nil
	}
	if err != nil {
		return SessionState{}, false, err
	}

	var state SessionState
	if err := json.Unmarshal(payload, &state); err != nil {
		return SessionState{}, false, fmt.Errorf("decode %s: %w", store.path, err)
	}
	return state, true, nil
}

// Save implements [SessionStore]. The file is replaced atomically.
func (store *FileStore) Save(_ context.Context, state SessionState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}

	temp, err := os.CreateTemp(filepath.Dir(store.path), ".session-*")
	if err != nil {
		return err
	}
	defer os.Remove(temp.Name())

	if err := temp.Chmod(0o600); err != nil {
		temp.Close()
		return err
	}
	if _, err := temp.Write(payload); err != nil {
		temp.Close()
		return err
	}
	if err := temp.Close(); err != nil {
		return err
	}
	return os.Rename(temp.Name(), store.path)
}

// Clear implements [SessionStore].
func (store *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(store.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
