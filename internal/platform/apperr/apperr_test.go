// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-reader/internal/platform/apperr"
)

/*
TestAs_WrappedChain verifies that an AppError is found through fmt.Errorf wrapping.
*/
func TestAs_WrappedChain(t *testing.T) {
	base := apperr.NotFound("Bookmark")
	wrapped := fmt.Errorf("bookmark_service_delete_failed: %w", base)

	ae := apperr.As(wrapped)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
	assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
	assert.Equal(t, "Bookmark not found", ae.Error())
	assert.True(t, apperr.IsAppError(wrapped))
	assert.Nil(t, apperr.As(errors.New("plain")))
}

/*
TestInternal_HidesCause checks that the cause stays reachable but out of the message.
*/
func TestInternal_HidesCause(t *testing.T) {
	cause := errors.New("duplicate key value violates unique constraint")
	ae := apperr.Internal(cause)

	assert.NotContains(t, ae.Error(), "duplicate")
	assert.ErrorIs(t, ae, cause)
}

/*
TestBanned_Message renders the ban expiry in UTC.
*/
func TestBanned_Message(t *testing.T) {
	until := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ae := apperr.Banned(until)

	assert.Equal(t, "BANNED", ae.Code)
	assert.Equal(t, http.StatusForbidden, ae.HTTPStatus)
	assert.Contains(t, ae.Message, "2026-03-01T12:00:00Z")
}
