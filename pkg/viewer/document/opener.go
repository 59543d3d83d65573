package document

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Opener opens a URL in a new browsing context.
type Opener interface {
	Open(url string) error
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(url string) error

// Open implements Opener.
func (f OpenerFunc) Open(url string) error { return f(url) }

// ClipboardOpener hands the URL to the user through the system clipboard;
// a terminal has no browsing context of its own.
type ClipboardOpener struct{}

// Open implements Opener.
func (ClipboardOpener) Open(url string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard unavailable, open manually: %s", url)
	}
	if err := clipboard.WriteAll(url); err != nil {
		return fmt.Errorf("failed to copy link: %w", err)
	}
	return nil
}
