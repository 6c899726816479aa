// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/yomira-reader/internal/platform/apperr"
	"github.com/taibuivan/yomira-reader/internal/users/auth"
)

type memoryUsers struct {
	mu    sync.Mutex
	byID  map[string]*auth.User
	fails error
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: map[string]*auth.User{}}
}

func (repo *memoryUsers) FindByID(_ context.Context, id string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.fails != nil {
		return nil, repo.fails
	}
	user, ok := repo.byID[id]
	if !ok {
		return nil, apperr.NotFound("Account")
	}
	clone := *user
	return &clone, nil
}

func (repo *memoryUsers) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.fails != nil {
		return nil, repo.fails
	}
	for _, user := range repo.byID {
		if strings.EqualFold(user.Email, email) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Account")
}

func (repo *memoryUsers) Create(_ context.Context, user *auth.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, existing := range repo.byID {
		if existing.Username == user.Username {
			return apperr.Conflict("Account already exists")
		}
	}
	clone := *user
	repo.byID[user.ID] = &clone
	return nil
}

func (repo *memoryUsers) SetBannedUntil(_ context.Context, userID string, until time.Time) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	user, ok := repo.byID[userID]
	if !ok {
		return apperr.NotFound("Account")
	}
	user.BannedUntil = &until
	return nil
}

type memoryBans struct {
	mu      sync.Mutex
	entries map[string]time.Time
	readErr error
	reads   int
}

func newMemoryBans() *memoryBans {
	return &memoryBans{entries: map[string]time.Time{}}
}

func (cache *memoryBans) Set(_ context.Context, userID string, until time.Time) error {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.entries[userID] = until
	return nil
}

func (cache *memoryBans) Get(_ context.Context, userID string) (time.Time, bool, error) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.reads++
	if cache.readErr != nil {
		return time.Time{}, false, cache.readErr
	}
	until, ok := cache.entries[userID]
	return until, ok, nil
}

type stubTokens struct{}

func (stubTokens) GenerateAccessToken(userID, username, role string, _ time.Duration) (string, error) {
	if userID == "" {
		return "", errors.New("missing subject")
	}
	return "token:" + userID + ":" + role, nil
}
