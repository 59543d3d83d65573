// Package gallery pages through a fixed, ordered list of captured screenshots.
//
// A Gallery holds no cursor of its own. The caller owns the index, so the
// position survives mode switches and remounts; every method takes the
// current index and returns a new one.
package gallery

import (
	"fmt"
)

// Screenshot is one captured image and its caption.
type Screenshot struct {
	ImageRef string `yaml:"image" json:"image"`
	Title    string `yaml:"title" json:"title"`
}

// Gallery is an immutable ordered sequence of screenshots.
type Gallery struct {
	shots []Screenshot
}

// New copies shots into a gallery.
func New(shots []Screenshot) Gallery {
	return Gallery{shots: append([]Screenshot(nil), shots...)}
}

// Len returns the number of screenshots.
func (g Gallery) Len() int {
	return len(g.shots)
}

// Empty reports whether there is nothing to navigate.
func (g Gallery) Empty() bool {
	return len(g.shots) == 0
}

// Previous returns the index before i, wrapping from 0 to Len()-1.
// ok is false for an empty gallery.
func (g Gallery) Previous(i int) (int, bool) {
	n := len(g.shots)
	if n == 0 {
		return 0, false
	}
	i = g.Clamp(i)
	if i > 0 {
		return i - 1, true
	}
	return n - 1, true
}

// Next returns the index after i, wrapping from Len()-1 to 0.
// ok is false for an empty gallery.
func (g Gallery) Next(i int) (int, bool) {
	n := len(g.shots)
	if n == 0 {
		return 0, false
	}
	i = g.Clamp(i)
	if i < n-1 {
		return i + 1, true
	}
	return 0, true
}

// Clamp maps i into [0, Len()) so a stale caller index never panics.
func (g Gallery) Clamp(i int) int {
	switch {
	case len(g.shots) == 0 || i < 0:
		return 0
	case i >= len(g.shots):
		return len(g.shots) - 1
	}
	return i
}

// At returns the screenshot at i.
func (g Gallery) At(i int) (Screenshot, bool) {
	if len(g.shots) == 0 {
		return Screenshot{}, false
	}
	return g.shots[g.Clamp(i)], true
}

// Position renders the "i / N" indicator, 1-based.
func (g Gallery) Position(i int) string {
	if len(g.shots) == 0 {
		return "0 / 0"
	}
	return fmt.Sprintf("%d / %d", g.Clamp(i)+1, len(g.shots))
}
