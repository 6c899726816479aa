// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/taibuivan/yomira-reader/internal/platform/apperr"
	"github.com/taibuivan/yomira-reader/internal/platform/constants"
	"github.com/taibuivan/yomira-reader/internal/platform/sec"
	"github.com/taibuivan/yomira-reader/pkg/uuidv7"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	GenerateAccessToken(userID, username, role string, timeToLive time.Duration) (string, error)
}

// ServiceConfig carries the optional collaborators of [Service].
type ServiceConfig struct {
	// IsAdminEmail decides which registrations receive the admin role.
	IsAdminEmail func(email string) bool
	// TokenTTL overrides [constants.AccessTokenTTL].
	TokenTTL time.Duration
	Logger   *slog.Logger
	// Now overrides the clock in tests.
	Now func() time.Time
}

// Service implements account use cases.
type Service struct {
	userRepository UserRepository
	banCache       BanCache
	tokenProvider  TokenProvider
	isAdminEmail   func(string) bool
	tokenTTL       time.Duration
	logger         *slog.Logger
	now            func() time.Time
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(users UserRepository, bans BanCache, tokens TokenProvider, config ServiceConfig) *Service {
	service := &Service{
		userRepository: users,
		banCache:       bans,
		tokenProvider:  tokens,
		isAdminEmail:   config.IsAdminEmail,
		tokenTTL:       config.TokenTTL,
		logger:         config.Logger,
		now:            config.Now,
	}
	if service.isAdminEmail == nil {
		service.isAdminEmail = func(string) bool { return false }
	}
	if service.tokenTTL <= 0 {
		service.tokenTTL = constants.AccessTokenTTL
	}
	if service.logger == nil {
		service.logger = slog.Default()
	}
	if service.now == nil {
		service.now = time.Now
	}
	return service
}

// AuthSession is the outcome of a successful registration or sign-in.
type AuthSession struct {
	AccessToken string `json:"access_token"`
	User        *User  `json:"user"`
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new reader.
type RegisterInput struct {
	Username string
	Email    string
	// PasswordHash is the client-side SHA-256 hex digest of the password.
	PasswordHash string
}

/*
Register persists a brand new account and signs it in.

Description: The submitted digest is hashed again with bcrypt. Accounts
whose email is on the admin list receive the admin role.

Returns:
  - *AuthSession: access token and created entity
  - err: Conflict (if identity exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*AuthSession, error) {
	email := strings.TrimSpace(input.Email)

	// Early, client-safe conflict. The unique index still guards races.
	if _, err := service.userRepository.FindByEmail(context, email); err == nil {
		return nil, apperr.Conflict("Email is already registered")
	} else if !isNotFound(err) {
		return nil, err
	}

	hashedPassword, err := sec.HashPassword(strings.ToLower(input.PasswordHash))
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_hash_failed: %w", err))
	}

	role := sec.RoleMember
	if service.isAdminEmail(email) {
		role = sec.RoleAdmin
	}

	user := &User{
		ID:           uuidv7.New(),
		Username:     strings.TrimSpace(input.Username),
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         role,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "user_registered",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)

	return service.issue(user)
}

// # Authentication Flow

// SignInInput defines credentials for an authentication attempt.
type SignInInput struct {
	Email        string
	PasswordHash string
}

/*
SignIn validates credentials and issues an access token.

Returns:
  - *AuthSession: access token and account
  - err: Unauthorized for bad credentials, BANNED (403) for banned accounts
*/
func (service *Service) SignIn(context context.Context, input SignInInput) (*AuthSession, error) {
	user, err := service.userRepository.FindByEmail(context, strings.TrimSpace(input.Email))
	if err != nil {
		if isNotFound(err) {
			// Generic message to prevent enumeration.
			return nil, apperr.Unauthorized("Invalid login credentials")
		}
		return nil, err
	}

	if !sec.CheckPasswordHash(strings.ToLower(input.PasswordHash), user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	if user.BannedAt(service.now()) {
		return nil, apperr.Banned(*user.BannedUntil)
	}

	return service.issue(user)
}

func (service *Service) issue(user *User) (*AuthSession, error) {
	token, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Username, string(user.Role), service.tokenTTL)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_token_failed: %w", err))
	}
	return &AuthSession{AccessToken: token, User: user}, nil
}

// # Moderation

/*
Ban blocks the account from signing in and commenting for duration.

Description: PostgreSQL is written first; the Redis mirror is best effort
because [Service.EnsureNotBanned] falls back to the database on a miss.

Returns:
  - time.Time: the end of the ban
  - error: apperr.NotFound if the account does not exist
*/
func (service *Service) Ban(context context.Context, userID string, duration time.Duration) (time.Time, error) {
	until := service.now().Add(duration).UTC().Truncate(time.Second)

	if err := service.userRepository.SetBannedUntil(context, userID, until); err != nil {
		return time.Time{}, err
	}

	if err := service.banCache.Set(context, userID, until); err != nil {
		service.logger.WarnContext(context, "ban_cache_write_failed",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
	}

	service.logger.InfoContext(context, "user_banned",
		slog.String("user_id", userID),
		slog.Time("until", until),
	)
	return until, nil
}

/*
EnsureNotBanned returns a BANNED error while the account's ban is active.

Description: The Redis mirror answers first. A miss or a cache failure falls
back to the account row.
*/
func (service *Service) EnsureNotBanned(context context.Context, userID string) error {
	now := service.now()

	until, banned, err := service.banCache.Get(context, userID)
	if err == nil && banned {
		return apperr.Banned(until)
	}
	if err != nil {
		service.logger.WarnContext(context, "ban_cache_read_failed",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
	}

	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return err
	}
	if user.BannedAt(now) {
		return apperr.Banned(*user.BannedUntil)
	}
	return nil
}

func isNotFound(err error) bool {
	appErr := apperr.As(err)
	return appErr != nil && appErr.HTTPStatus == http.StatusNotFound
}
