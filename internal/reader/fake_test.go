// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reader_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/taibuivan/yomira-reader/internal/catalog"
	"github.com/taibuivan/yomira-reader/internal/library/bookmark"
	"github.com/taibuivan/yomira-reader/internal/reader"
	"github.com/taibuivan/yomira-reader/internal/social/comment"
	"github.com/taibuivan/yomira-reader/internal/users/auth"
)

const (
	mangaID   = "a96676e5-8ae2-425e-b549-7f15dd34a6d8"
	chapterID = "0e3a5bd4-2c4f-4a36-a4e9-5f2b1b4f1c11"
)

var (
	errOffline = errors.New("offline")

	page = comment.PageFilter{MangaID: mangaID, ChapterID: chapterID, PageIndex: 3}
)

// staticIdentity always returns the same user.
type staticIdentity struct {
	user *auth.User
}

func (identity staticIdentity) Profile() (auth.User, bool) {
	if identity.user == nil {
		return auth.User{}, false
	}
	return *identity.user, true
}

var signedIn = staticIdentity{user: &auth.User{ID: "u1", Username: "reader"}}

// fakeBackend serves comments and bookmarks from memory. A non-nil gate makes
// writes block until a value is received, so tests can observe pending state.
type fakeBackend struct {
	mu        sync.Mutex
	comments  []comment.Comment
	bookmarks []bookmark.Bookmark
	nextID    int

	postErr   error
	deleteErr error
	listErr   error
	gate      chan struct{}
	waiting   int

	// A non-nil listGate holds Comments after its snapshot is taken; the
	// snapshot is announced on listTaken.
	listGate  chan struct{}
	listTaken chan struct{}

	saved   []reader.BookmarkDraft
	deleted []string
}

func (backend *fakeBackend) wait(ctx context.Context) error {
	if backend.gate == nil {
		return nil
	}
	backend.mu.Lock()
	backend.waiting++
	backend.mu.Unlock()
	defer func() {
		backend.mu.Lock()
		backend.waiting--
		backend.mu.Unlock()
	}()

	select {
	case <-backend.gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// inFlight reports how many calls are blocked on the gate.
func (backend *fakeBackend) inFlight() int {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	return backend.waiting
}

func (backend *fakeBackend) Comments(ctx context.Context, filter comment.PageFilter) ([]comment.Comment, error) {
	backend.mu.Lock()
	if backend.listErr != nil {
		backend.mu.Unlock()
		return nil, backend.listErr
	}
	var out []comment.Comment
	for _, c := range backend.comments {
		if c.ChapterID == filter.ChapterID && c.PageIndex == filter.PageIndex {
			out = append(out, c)
		}
	}
	listGate, listTaken := backend.listGate, backend.listTaken
	backend.mu.Unlock()

	if listGate == nil {
		return out, nil
	}
	listTaken <- struct{}{}
	select {
	case <-listGate:
		return out, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (backend *fakeBackend) PostComment(ctx context.Context, draft reader.CommentDraft) (comment.Comment, error) {
	if err := backend.wait(ctx); err != nil {
		return comment.Comment{}, err
	}

	backend.mu.Lock()
	defer backend.mu.Unlock()

	if backend.postErr != nil {
		return comment.Comment{}, backend.postErr
	}
	backend.nextID++
	posted := comment.Comment{
		ID:        fmt.Sprintf("srv-%d", backend.nextID),
		UserID:    draft.UserID,
		Username:  "reader",
		MangaID:   draft.MangaID,
		ChapterID: draft.ChapterID,
		PageIndex: draft.PageIndex,
		Body:      draft.Body,
		CreatedAt: time.Now(),
	}
	backend.comments = append(backend.comments, posted)
	return posted, nil
}

func (backend *fakeBackend) DeleteComment(ctx context.Context, commentID string) error {
	if err := backend.wait(ctx); err != nil {
		return err
	}

	backend.mu.Lock()
	defer backend.mu.Unlock()

	if backend.deleteErr != nil {
		return backend.deleteErr
	}
	backend.deleted = append(backend.deleted, commentID)
	return nil
}

func (backend *fakeBackend) Bookmarks(_ context.Context) ([]bookmark.Bookmark, error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()

	if backend.listErr != nil {
		return nil, backend.listErr
	}
	return append([]bookmark.Bookmark(nil), backend.bookmarks...), nil
}

func (backend *fakeBackend) SaveBookmark(ctx context.Context, draft reader.BookmarkDraft) (bookmark.Bookmark, error) {
	if err := backend.wait(ctx); err != nil {
		return bookmark.Bookmark{}, err
	}

	backend.mu.Lock()
	defer backend.mu.Unlock()

	if backend.postErr != nil {
		return bookmark.Bookmark{}, backend.postErr
	}
	backend.saved = append(backend.saved, draft)
	saved := bookmark.Bookmark{
		ID:        "b-" + draft.ChapterID,
		UserID:    draft.UserID,
		MangaID:   draft.MangaID,
		ChapterID: draft.ChapterID,
		PageIndex: draft.PageIndex,
	}
	backend.bookmarks = append(backend.bookmarks, saved)
	return saved, nil
}

func (backend *fakeBackend) DeleteBookmark(ctx context.Context, chapterID string) error {
	if err := backend.wait(ctx); err != nil {
		return err
	}

	backend.mu.Lock()
	defer backend.mu.Unlock()

	if backend.deleteErr != nil {
		return backend.deleteErr
	}
	backend.deleted = append(backend.deleted, chapterID)
	for i, saved := range backend.bookmarks {
		if saved.ChapterID == chapterID {
			backend.bookmarks = append(backend.bookmarks[:i], backend.bookmarks[i+1:]...)
			break
		}
	}
	return nil
}

// titleDescriber names every bookmark after its chapter.
type titleDescriber struct{}

func (titleDescriber) DescribeBookmarks(_ context.Context, refs []catalog.BookmarkRef) []catalog.BookmarkView {
	views := make([]catalog.BookmarkView, 0, len(refs))
	for _, ref := range refs {
		views = append(views, catalog.BookmarkView{
			ChapterID:    ref.ChapterID,
			PageIndex:    ref.PageIndex,
			MangaID:      mangaID,
			ChapterTitle: "Chapter " + ref.ChapterID,
		})
	}
	return views
}

// fakeAuthenticator records the digests it receives.
type fakeAuthenticator struct {
	digests []string
	err     error
}

func (authenticator *fakeAuthenticator) Register(_ context.Context, username, email, digest string) (auth.AuthSession, error) {
	authenticator.digests = append(authenticator.digests, digest)
	if authenticator.err != nil {
		return auth.AuthSession{}, authenticator.err
	}
	return auth.AuthSession{AccessToken: "token-" + username, User: &auth.User{ID: "u-" + username, Username: username, Email: email}}, nil
}

func (authenticator *fakeAuthenticator) SignIn(_ context.Context, email, digest string) (auth.AuthSession, error) {
	authenticator.digests = append(authenticator.digests, digest)
	if authenticator.err != nil {
		return auth.AuthSession{}, authenticator.err
	}
	return auth.AuthSession{AccessToken: "token-signin", User: &auth.User{ID: "u1", Username: "reader", Email: email, Role: "admin"}}, nil
}
