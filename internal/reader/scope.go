// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package reader is the client side of the reading app: a typed backend client,
the signed-in session and the view models of the reading page.

View models:

  - CommentThread: optimistic comment posting with exact rollback and
    pessimistic two-step deletion.
  - BookmarkList: request-then-refetch bookmark saving and two-step deletion.

Every view model is bound to a [Scope]. Closing the scope cancels in-flight
calls and freezes the model: completions arriving afterwards change nothing.
*/
package reader

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by view-model operations started after their scope closed.
var ErrClosed = errors.New("reader: scope closed")

// Scope ties the lifetime of a screen to the calls it issues.
type Scope struct {
	mu      sync.Mutex
	context context.Context
	cancel  context.CancelFunc
	closed  bool
}

// NewScope derives a scope from parent. Cancelling parent closes the scope too.
func NewScope(parent context.Context) *Scope {
	scopeContext, cancel := context.WithCancel(parent)
	return &Scope{context: scopeContext, cancel: cancel}
}

// Context returns the context every call of the scope must use.
func (scope *Scope) Context() context.Context {
	return scope.context
}

// Close cancels in-flight calls. It is safe to call more than once.
func (scope *Scope) Close() {
	scope.mu.Lock()
	defer scope.mu.Unlock()

	scope.closed = true
	scope.cancel()
}

// Closed reports whether the scope was closed or its parent cancelled.
func (scope *Scope) Closed() bool {
	scope.mu.Lock()
	defer scope.mu.Unlock()

	return scope.closed || scope.context.Err() != nil
}
