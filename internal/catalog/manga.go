// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package catalog talks to the remote manga catalog (a MangaDex-shaped REST API)
and aggregates its paged, relationship-based resources into what the reader
screens display.

Architecture:

  - Client: one typed method per remote endpoint, rate limited and timed.
  - FetchAllPages: exhausts a paged collection, fail-fast.
  - CoverResolver: fans out cover lookups with de-duplication and isolated failure.
  - Service: composes the above into the search, details, chapter and bookmark views.
  - Handler: exposes the Service to the mobile app through the backend.
*/
package catalog

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/taibuivan/yomira-reader/internal/platform/constants"
)

// # Relationship kinds

const (
	RelCoverArt = "cover_art"
	RelAuthor   = "author"
	RelArtist   = "artist"
	RelManga    = "manga"
)

// # Domain types

// Relationship is a typed reference from one catalog resource to another.
type Relationship struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// Manga is a catalog item as displayed in lists. It is immutable once fetched.
type Manga struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Status      string   `json:"status,omitempty"`
	Year        int      `json:"year,omitempty"`
	Tags        []string `json:"tags"`

	// CoverID is empty when the item carries no cover_art relationship.
	CoverID  string `json:"cover_id,omitempty"`
	AuthorID string `json:"author_id,omitempty"`
	ArtistID string `json:"artist_id,omitempty"`

	Relationships []Relationship `json:"-"`
}

// HasTag reports whether the item carries the English tag name exactly.
func (m Manga) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Chapter is a single chapter of a manga.
type Chapter struct {
	ID          string    `json:"id"`
	MangaID     string    `json:"manga_id"`
	Number      string    `json:"number,omitempty"`
	Title       string    `json:"title"`
	Volume      string    `json:"volume,omitempty"`
	Language    string    `json:"language,omitempty"`
	Pages       int       `json:"pages"`
	PublishedAt time.Time `json:"published_at,omitzero"`
}

// Cover is a cover_art resource.
type Cover struct {
	ID       string
	MangaID  string
	FileName string
}

// Person is an author or artist resource.
type Person struct {
	ID   string
	Name string
}

// AtHome describes where the image files of a chapter are served from.
type AtHome struct {
	BaseURL   string
	Hash      string
	Data      []string
	DataSaver []string
}

// Page is one page of a remote collection.
type Page[T any] struct {
	Items  []T
	Limit  int
	Offset int
	Total  int
}

// # Wire format

type resource struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Attributes    json.RawMessage `json:"attributes"`
	Relationships []Relationship  `json:"relationships"`
}

type listEnvelope struct {
	Data   []resource `json:"data"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
	Total  int        `json:"total"`
}

type entityEnvelope struct {
	Data resource `json:"data"`
}

type atHomeEnvelope struct {
	BaseURL string `json:"baseUrl"`
	Chapter struct {
		Hash      string   `json:"hash"`
		Data      []string `json:"data"`
		DataSaver []string `json:"dataSaver"`
	} `json:"chapter"`
}

type localized map[string]string

type mangaAttributes struct {
	Title       localized `json:"title"`
	Description localized `json:"description"`
	Status      string    `json:"status"`
	Year        int       `json:"year"`
	Tags        []struct {
		Attributes struct {
			Name localized `json:"name"`
		} `json:"attributes"`
	} `json:"tags"`
}

type chapterAttributes struct {
	Chapter            *string   `json:"chapter"`
	Title              *string   `json:"title"`
	Volume             *string   `json:"volume"`
	TranslatedLanguage string    `json:"translatedLanguage"`
	Pages              int       `json:"pages"`
	PublishAt          time.Time `json:"publishAt"`
}

type coverAttributes struct {
	FileName string `json:"fileName"`
}

type personAttributes struct {
	Name string `json:"name"`
}

// # Decoding

// relationship returns the id of the first relationship of the given kind.
func relationship(relationships []Relationship, kind string) (string, bool) {
	for _, rel := range relationships {
		if rel.Type == kind && rel.ID != "" {
			return rel.ID, true
		}
	}
	return "", false
}

// pickTitle resolves a localized title: en, then ja, then the first remaining
// language in key order, then the placeholder.
func pickTitle(titles localized) string {
	for _, lang := range []string{"en", "ja"} {
		if title := titles[lang]; title != "" {
			return title
		}
	}

	languages := make([]string, 0, len(titles))
	for lang, title := range titles {
		if title != "" {
			languages = append(languages, lang)
		}
	}
	if len(languages) == 0 {
		return constants.UntitledPlaceholder
	}
	sort.Strings(languages)
	return titles[languages[0]]
}

func decodeManga(res resource) (Manga, error) {
	var attributes mangaAttributes
	if len(res.Attributes) > 0 {
		if err := json.Unmarshal(res.Attributes, &attributes); err != nil {
			return Manga{}, err
		}
	}

	manga := Manga{
		ID:            res.ID,
		Title:         pickTitle(attributes.Title),
		Description:   attributes.Description["en"],
		Status:        attributes.Status,
		Year:          attributes.Year,
		Tags:          make([]string, 0, len(attributes.Tags)),
		Relationships: res.Relationships,
	}

	seen := make(map[string]struct{}, len(attributes.Tags))
	for _, tag := range attributes.Tags {
		name := tag.Attributes.Name["en"]
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		manga.Tags = append(manga.Tags, name)
	}

	manga.CoverID, _ = relationship(res.Relationships, RelCoverArt)
	manga.AuthorID, _ = relationship(res.Relationships, RelAuthor)
	manga.ArtistID, _ = relationship(res.Relationships, RelArtist)

	return manga, nil
}

func decodeChapter(res resource) (Chapter, error) {
	var attributes chapterAttributes
	if len(res.Attributes) > 0 {
		if err := json.Unmarshal(res.Attributes, &attributes); err != nil {
			return Chapter{}, err
		}
	}

	chapter := Chapter{
		ID:          res.ID,
		Title:       constants.UntitledPlaceholder,
		Language:    attributes.TranslatedLanguage,
		Pages:       attributes.Pages,
		PublishedAt: attributes.PublishAt,
	}
	if attributes.Title != nil && *attributes.Title != "" {
		chapter.Title = *attributes.Title
	}
	if attributes.Chapter != nil {
		chapter.Number = *attributes.Chapter
	}
	if attributes.Volume != nil {
		chapter.Volume = *attributes.Volume
	}
	chapter.MangaID, _ = relationship(res.Relationships, RelManga)

	return chapter, nil
}

func decodeCover(res resource) (Cover, error) {
	var attributes coverAttributes
	if err := json.Unmarshal(res.Attributes, &attributes); err != nil {
		return Cover{}, err
	}

	mangaID, _ := relationship(res.Relationships, RelManga)
	return Cover{ID: res.ID, MangaID: mangaID, FileName: attributes.FileName}, nil
}

func decodePerson(res resource) (Person, error) {
	var attributes personAttributes
	if err := json.Unmarshal(res.Attributes, &attributes); err != nil {
		return Person{}, err
	}
	return Person{ID: res.ID, Name: attributes.Name}, nil
}
