// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reader

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/taibuivan/yomira-reader/internal/catalog"
	"github.com/taibuivan/yomira-reader/internal/library/bookmark"
)

// ErrUnknownBookmark is returned when a chapter has no bookmark in the list.
var ErrUnknownBookmark = errors.New("reader: unknown bookmark")

// # Notices

// NoticeKind tells the screen how to render a [Notice].
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a one-shot message shown after a write.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// # Bookmark list

// BookmarkBackend is the subset of [Backend] used by a bookmark list.
type BookmarkBackend interface {
	Bookmarks(ctx context.Context) ([]bookmark.Bookmark, error)
	SaveBookmark(ctx context.Context, draft BookmarkDraft) (bookmark.Bookmark, error)
	DeleteBookmark(ctx context.Context, chapterID string) error
}

// BookmarkDescriber enriches bookmarks for display. [catalog.Service] implements it.
type BookmarkDescriber interface {
	DescribeBookmarks(ctx context.Context, bookmarks []catalog.BookmarkRef) []catalog.BookmarkView
}

// BookmarkList is the bookmark screen. It never patches itself after a save:
// the list is fetched again. Deletion is two-step and pessimistic.
type BookmarkList struct {
	mu              sync.Mutex
	scope           *Scope
	backend         BookmarkBackend
	describer       BookmarkDescriber
	identity        Identity
	items           []catalog.BookmarkView
	deleteCandidate string
	logger          *slog.Logger
}

// NewBookmarkList creates an empty list. Call Refresh to populate it.
func NewBookmarkList(scope *Scope, backend BookmarkBackend, describer BookmarkDescriber, identity Identity, logger *slog.Logger) *BookmarkList {
	if logger == nil {
		logger = slog.Default()
	}
	return &BookmarkList{
		scope:     scope,
		backend:   backend,
		describer: describer,
		identity:  identity,
		logger:    logger,
	}
}

// Items returns a snapshot of the described bookmarks.
func (list *BookmarkList) Items() []catalog.BookmarkView {
	list.mu.Lock()
	defer list.mu.Unlock()

	return slices.Clone(list.items)
}

// Close cancels in-flight calls and freezes the list.
func (list *BookmarkList) Close() {
	list.scope.Close()
}

// Refresh fetches and describes the caller's bookmarks.
func (list *BookmarkList) Refresh() error {
	ctx := list.scope.Context()
	if list.scope.Closed() {
		return ErrClosed
	}

	bookmarks, err := list.backend.Bookmarks(ctx)
	if err != nil {
		list.logger.WarnContext(ctx, "bookmark_list_refresh_failed", slog.Any("error", err))
		return err
	}

	refs := make([]catalog.BookmarkRef, 0, len(bookmarks))
	for _, saved := range bookmarks {
		refs = append(refs, catalog.BookmarkRef{ChapterID: saved.ChapterID, PageIndex: saved.PageIndex})
	}
	views := list.describer.DescribeBookmarks(ctx, refs)

	list.mu.Lock()
	defer list.mu.Unlock()

	if list.scope.Closed() {
		return ErrClosed
	}
	list.items = views
	return nil
}

/*
Add saves a reading position with a single request.

The returned notice reports the outcome; on success the list is fetched
again. A failed refresh is logged and does not turn the notice into an error.
*/
func (list *BookmarkList) Add(mangaID, chapterID string, pageIndex int) (Notice, error) {
	user, ok := list.identity.Profile()
	if !ok {
		return Notice{Kind: NoticeError, Message: "Sign in to save bookmarks"}, ErrNotSignedIn
	}
	if list.scope.Closed() {
		return Notice{}, ErrClosed
	}

	ctx := list.scope.Context()
	_, err := list.backend.SaveBookmark(ctx, BookmarkDraft{
		UserID:    user.ID,
		MangaID:   mangaID,
		ChapterID: chapterID,
		PageIndex: pageIndex,
	})
	if list.scope.Closed() {
		return Notice{}, ErrClosed
	}
	if err != nil {
		list.logger.WarnContext(ctx, "bookmark_save_failed",
			slog.String("chapter_id", chapterID),
			slog.Any("error", err),
		)
		return Notice{Kind: NoticeError, Message: "Could not save the bookmark"}, err
	}

	if err := list.Refresh(); err != nil && !errors.Is(err, ErrClosed) {
		list.logger.WarnContext(ctx, "bookmark_refetch_failed", slog.Any("error", err))
	}
	return Notice{Kind: NoticeSuccess, Message: "Bookmark saved"}, nil
}

// RequestDelete marks the bookmark of a chapter for deletion.
func (list *BookmarkList) RequestDelete(chapterID string) error {
	list.mu.Lock()
	defer list.mu.Unlock()

	if list.indexOf(chapterID) < 0 {
		return ErrUnknownBookmark
	}
	list.deleteCandidate = chapterID
	return nil
}

// CancelDelete drops the pending deletion request.
func (list *BookmarkList) CancelDelete() {
	list.mu.Lock()
	defer list.mu.Unlock()

	list.deleteCandidate = ""
}

// ConfirmDelete sends the requested deletion; the entry is removed only after
// the backend accepted it.
func (list *BookmarkList) ConfirmDelete(chapterID string) error {
	list.mu.Lock()
	if list.scope.Closed() {
		list.mu.Unlock()
		return ErrClosed
	}
	if chapterID == "" || list.deleteCandidate != chapterID {
		list.mu.Unlock()
		return ErrDeleteNotRequested
	}
	list.deleteCandidate = ""
	list.mu.Unlock()

	err := list.backend.DeleteBookmark(list.scope.Context(), chapterID)

	list.mu.Lock()
	defer list.mu.Unlock()

	if list.scope.Closed() {
		return ErrClosed
	}
	if err != nil {
		list.logger.WarnContext(list.scope.Context(), "bookmark_delete_failed",
			slog.String("chapter_id", chapterID),
			slog.Any("error", err),
		)
		return err
	}

	if index := list.indexOf(chapterID); index >= 0 {
		list.items = slices.Delete(list.items, index, index+1)
	}
	return nil
}

func (list *BookmarkList) indexOf(chapterID string) int {
	return slices.IndexFunc(list.items, func(item catalog.BookmarkView) bool {
		return item.ChapterID == chapterID
	})
}
