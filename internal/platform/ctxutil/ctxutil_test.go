// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-reader/internal/platform/ctxutil"
	"github.com/taibuivan/yomira-reader/internal/platform/sec"
)

/*
TestContext_RequestID verifies that Request IDs can be injected and retrieved.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	ctx = ctxutil.WithRequestID(ctx, "0192f1a4-reader")
	assert.Equal(t, "0192f1a4-reader", ctxutil.GetRequestID(ctx))
}

/*
TestContext_Logger verifies that a custom logger can be stored in context.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Equal(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestContext_AuthUser verifies claims storage.
*/
func TestContext_AuthUser(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, ctxutil.GetAuthUser(ctx))

	member := ctxutil.WithAuthUser(ctx, &sec.AuthClaims{UserID: "user-123", Role: string(sec.RoleMember)})
	retrieved := ctxutil.GetAuthUser(member)
	require.NotNil(t, retrieved)
	assert.Equal(t, "user-123", retrieved.UserID)
	assert.Equal(t, string(sec.RoleMember), retrieved.Role)
}
