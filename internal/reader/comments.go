// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reader

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/yomira-reader/internal/platform/constants"
	"github.com/taibuivan/yomira-reader/internal/platform/validate"
	"github.com/taibuivan/yomira-reader/internal/social/comment"
	"github.com/taibuivan/yomira-reader/internal/users/auth"
	"github.com/taibuivan/yomira-reader/pkg/uuidv7"
)

var (
	// ErrUnknownComment is returned when an id matches no confirmed entry.
	ErrUnknownComment = errors.New("reader: unknown comment")
	// ErrDeleteNotRequested is returned by ConfirmDelete without a matching RequestDelete.
	ErrDeleteNotRequested = errors.New("reader: delete was not requested")
)

// # Entries

// EntryState tags a thread entry.
type EntryState int

const (
	// Pending entries carry a temporary id and wait for the backend.
	Pending EntryState = iota
	// Confirmed entries carry the id assigned by the backend.
	Confirmed
)

func (s EntryState) String() string {
	if s == Pending {
		return "pending"
	}
	return "confirmed"
}

// ThreadEntry is one visible comment. While Pending, Comment.ID equals TempID.
type ThreadEntry struct {
	State   EntryState
	TempID  string
	Comment comment.Comment
}

// CommentBackend is the subset of [Backend] used by a thread.
type CommentBackend interface {
	Comments(ctx context.Context, filter comment.PageFilter) ([]comment.Comment, error)
	PostComment(ctx context.Context, draft CommentDraft) (comment.Comment, error)
	DeleteComment(ctx context.Context, commentID string) error
}

// Identity returns the signed-in user. [Session] implements it.
type Identity interface {
	Profile() (auth.User, bool)
}

// # Thread

// CommentThread is the comment list of one reader page.
//
// Posting is optimistic: the entry shows up at once and is reconciled by its
// temporary id. Deleting is pessimistic: the entry stays until the backend
// confirms.
//
// # Concurrency
//
// All methods are safe for concurrent use; network calls run without the lock.
type CommentThread struct {
	mu              sync.Mutex
	scope           *Scope
	backend         CommentBackend
	identity        Identity
	filter          comment.PageFilter
	entries         []ThreadEntry
	draft           string
	deleteCandidate string
	logger          *slog.Logger
	now             func() time.Time

	// seq numbers the confirmations and removals recorded in changes while
	// at least one Load is in flight.
	seq     uint64
	loading int
	changes map[string]change
}

// change is the last confirmation or removal of a comment id.
type change struct {
	seq     uint64
	removed bool
}

// NewCommentThread creates an empty thread for the page described by filter.
func NewCommentThread(scope *Scope, backend CommentBackend, identity Identity, filter comment.PageFilter, logger *slog.Logger) *CommentThread {
	if logger == nil {
		logger = slog.Default()
	}
	return &CommentThread{
		scope:    scope,
		backend:  backend,
		identity: identity,
		filter:   filter,
		logger:   logger,
		now:      time.Now,
		changes:  map[string]change{},
	}
}

// Entries returns a snapshot of the visible list.
func (thread *CommentThread) Entries() []ThreadEntry {
	thread.mu.Lock()
	defer thread.mu.Unlock()

	return slices.Clone(thread.entries)
}

// SetDraft replaces the composer text.
func (thread *CommentThread) SetDraft(text string) {
	thread.mu.Lock()
	defer thread.mu.Unlock()

	thread.draft = text
}

// Draft returns the composer text.
func (thread *CommentThread) Draft() string {
	thread.mu.Lock()
	defer thread.mu.Unlock()

	return thread.draft
}

// Close cancels in-flight calls and freezes the thread.
func (thread *CommentThread) Close() {
	thread.scope.Close()
}

// # Loading

/*
Load replaces the confirmed entries with the backend listing.

The listing may predate changes made while it was in flight: comments
confirmed after the request started are kept even when the listing lacks
them, and comments removed after it started stay removed. Pending entries
survive a reload; one whose comment already appears in the listing is
dropped when it is confirmed.
*/
func (thread *CommentThread) Load() error {
	thread.mu.Lock()
	if thread.scope.Closed() {
		thread.mu.Unlock()
		return ErrClosed
	}
	started := thread.seq
	thread.loading++
	thread.mu.Unlock()

	comments, err := thread.backend.Comments(thread.scope.Context(), thread.filter)

	thread.mu.Lock()
	defer thread.mu.Unlock()

	defer func() {
		thread.loading--
		if thread.loading == 0 {
			clear(thread.changes)
		}
	}()

	if thread.scope.Closed() {
		return ErrClosed
	}
	if err != nil {
		thread.logger.WarnContext(thread.scope.Context(), "comment_thread_load_failed", slog.Any("error", err))
		return err
	}

	changedSince := func(commentID string, removed bool) bool {
		last, ok := thread.changes[commentID]
		return ok && last.seq > started && last.removed == removed
	}

	entries := make([]ThreadEntry, 0, len(comments)+len(thread.entries))
	listed := make(map[string]struct{}, len(comments))
	for _, loaded := range comments {
		listed[loaded.ID] = struct{}{}
		if changedSince(loaded.ID, true) {
			continue
		}
		entries = append(entries, ThreadEntry{State: Confirmed, Comment: loaded})
	}
	for _, entry := range thread.entries {
		if entry.State != Confirmed {
			continue
		}
		if _, ok := listed[entry.Comment.ID]; !ok && changedSince(entry.Comment.ID, false) {
			entries = append(entries, entry)
		}
	}
	for _, entry := range thread.entries {
		if entry.State == Pending {
			entries = append(entries, entry)
		}
	}
	thread.entries = entries
	return nil
}

// record notes a confirmation or removal for the loads in flight.
func (thread *CommentThread) record(commentID string, removed bool) {
	if thread.loading == 0 {
		return
	}
	thread.seq++
	thread.changes[commentID] = change{seq: thread.seq, removed: removed}
}

// # Posting

/*
Submit posts the current draft.

The draft is cleared and a Pending entry inserted before the request is sent.
On success that entry is replaced in place by the stored comment; on failure
it is removed, leaving the list exactly as it was, and the error is returned.
The draft stays cleared in both cases.
*/
func (thread *CommentThread) Submit() error {
	user, ok := thread.identity.Profile()
	if !ok {
		return ErrNotSignedIn
	}

	thread.mu.Lock()
	if thread.scope.Closed() {
		thread.mu.Unlock()
		return ErrClosed
	}

	body := strings.TrimSpace(thread.draft)
	validator := &validate.Validator{}
	validator.Required("comment_text", body).
		MaxLen("comment_text", body, constants.CommentMaxLength)
	if err := validator.Err(); err != nil {
		thread.mu.Unlock()
		return err
	}

	tempID := uuidv7.New()
	thread.entries = append(thread.entries, ThreadEntry{
		State:  Pending,
		TempID: tempID,
		Comment: comment.Comment{
			ID:        tempID,
			UserID:    user.ID,
			Username:  user.Username,
			MangaID:   thread.filter.MangaID,
			ChapterID: thread.filter.ChapterID,
			PageIndex: thread.filter.PageIndex,
			Body:      body,
			CreatedAt: thread.now(),
		},
	})
	thread.draft = ""
	thread.mu.Unlock()

	posted, err := thread.backend.PostComment(thread.scope.Context(), CommentDraft{
		UserID:    user.ID,
		MangaID:   thread.filter.MangaID,
		ChapterID: thread.filter.ChapterID,
		PageIndex: thread.filter.PageIndex,
		Body:      body,
	})

	thread.mu.Lock()
	defer thread.mu.Unlock()

	if thread.scope.Closed() {
		return ErrClosed
	}

	index := thread.indexOf(func(entry ThreadEntry) bool { return entry.TempID == tempID })
	if err != nil {
		if index >= 0 {
			thread.entries = slices.Delete(thread.entries, index, index+1)
		}
		thread.logger.WarnContext(thread.scope.Context(), "comment_post_rolled_back",
			slog.String("temp_id", tempID),
			slog.Any("error", err),
		)
		return err
	}
	if index < 0 {
		return nil
	}

	if thread.confirmedIndex(posted.ID) >= 0 {
		thread.entries = slices.Delete(thread.entries, index, index+1)
		return nil
	}
	thread.entries[index] = ThreadEntry{State: Confirmed, Comment: posted}
	thread.record(posted.ID, false)
	return nil
}

// # Deleting

// RequestDelete marks a confirmed comment for deletion; nothing is sent yet.
func (thread *CommentThread) RequestDelete(commentID string) error {
	thread.mu.Lock()
	defer thread.mu.Unlock()

	if thread.confirmedIndex(commentID) < 0 {
		return ErrUnknownComment
	}
	thread.deleteCandidate = commentID
	return nil
}

// CancelDelete drops the pending deletion request.
func (thread *CommentThread) CancelDelete() {
	thread.mu.Lock()
	defer thread.mu.Unlock()

	thread.deleteCandidate = ""
}

// DeleteRequested returns the comment awaiting confirmation, if any.
func (thread *CommentThread) DeleteRequested() (string, bool) {
	thread.mu.Lock()
	defer thread.mu.Unlock()

	return thread.deleteCandidate, thread.deleteCandidate != ""
}

// ConfirmDelete sends the requested deletion and removes the entry once the
// backend accepted it. On failure the list is left unchanged.
func (thread *CommentThread) ConfirmDelete(commentID string) error {
	thread.mu.Lock()
	if thread.scope.Closed() {
		thread.mu.Unlock()
		return ErrClosed
	}
	if commentID == "" || thread.deleteCandidate != commentID {
		thread.mu.Unlock()
		return ErrDeleteNotRequested
	}
	thread.deleteCandidate = ""
	thread.mu.Unlock()

	err := thread.backend.DeleteComment(thread.scope.Context(), commentID)

	thread.mu.Lock()
	defer thread.mu.Unlock()

	if thread.scope.Closed() {
		return ErrClosed
	}
	if err != nil {
		thread.logger.WarnContext(thread.scope.Context(), "comment_delete_failed",
			slog.String("comment_id", commentID),
			slog.Any("error", err),
		)
		return err
	}

	thread.remove(commentID)
	return nil
}

// # Live updates

// Apply merges an event of the live feed. Events of other pages are ignored.
func (thread *CommentThread) Apply(event comment.Event) {
	thread.mu.Lock()
	defer thread.mu.Unlock()

	if thread.scope.Closed() || event.ChapterID != thread.filter.ChapterID {
		return
	}

	switch event.Type {
	case comment.EventCreated:
		if event.Comment == nil || event.Comment.PageIndex != thread.filter.PageIndex {
			return
		}
		if thread.confirmedIndex(event.Comment.ID) >= 0 {
			return
		}
		thread.entries = append(thread.entries, ThreadEntry{State: Confirmed, Comment: *event.Comment})
		thread.record(event.Comment.ID, false)
	case comment.EventDeleted:
		thread.remove(event.CommentID)
	}
}

func (thread *CommentThread) remove(commentID string) {
	thread.record(commentID, true)
	if index := thread.confirmedIndex(commentID); index >= 0 {
		thread.entries = slices.Delete(thread.entries, index, index+1)
	}
	if thread.deleteCandidate == commentID {
		thread.deleteCandidate = ""
	}
}

func (thread *CommentThread) confirmedIndex(commentID string) int {
	return thread.indexOf(func(entry ThreadEntry) bool {
		return entry.State == Confirmed && entry.Comment.ID == commentID
	})
}

func (thread *CommentThread) indexOf(match func(ThreadEntry) bool) int {
	return slices.IndexFunc(thread.entries, match)
}
