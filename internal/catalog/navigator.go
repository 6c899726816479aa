// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

// Navigator walks the pages of one chapter. Moves are clamped to the page range.
type Navigator struct {
	pages []string
	index int
}

// NewNavigator starts at start, clamped to the available pages.
func NewNavigator(pages []string, start int) *Navigator {
	navigator := &Navigator{pages: pages}
	navigator.Seek(start)
	return navigator
}

// Len returns the number of pages.
func (navigator *Navigator) Len() int { return len(navigator.pages) }

// Index returns the current page index.
func (navigator *Navigator) Index() int { return navigator.index }

// Current returns the current page URL, or "" for an empty chapter.
func (navigator *Navigator) Current() string {
	if len(navigator.pages) == 0 {
		return ""
	}
	return navigator.pages[navigator.index]
}

// HasNext reports whether Next would move.
func (navigator *Navigator) HasNext() bool { return navigator.index < len(navigator.pages)-1 }

// HasPrev reports whether Prev would move.
func (navigator *Navigator) HasPrev() bool { return navigator.index > 0 }

// Next advances one page and returns the new current page.
func (navigator *Navigator) Next() string {
	navigator.Seek(navigator.index + 1)
	return navigator.Current()
}

// Prev goes back one page and returns the new current page.
func (navigator *Navigator) Prev() string {
	navigator.Seek(navigator.index - 1)
	return navigator.Current()
}

// Seek jumps to index, clamped to [0, Len()-1].
func (navigator *Navigator) Seek(index int) {
	last := len(navigator.pages) - 1
	switch {
	case last < 0 || index < 0:
		navigator.index = 0
	case index > last:
		navigator.index = last
	default:
		navigator.index = index
	}
}
