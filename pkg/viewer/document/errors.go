package document

import (
	"errors"
	"fmt"
)

// DisplayPrefix is prepended to every error shown in place of a document.
const DisplayPrefix = "Failed to display document: "

// ErrNoDocument is returned when a job is started without a reference.
var ErrNoDocument = errors.New("no document reference")

var (
	errBinary  = errors.New("content is not text")
	errNoBody  = errors.New("missing word/document.xml")
	errNoPages = errors.New("document has no pages")
)

// FetchError is a non-success response while fetching a document.
type FetchError struct {
	Status int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("Failed to fetch document: %d", e.Status)
}

// RenderError is a document whose bytes could not be rendered.
type RenderError struct {
	Format string
	Err    error
}

func (e *RenderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("Failed to render %s document", e.Format)
	}
	return fmt.Sprintf("Failed to render %s document: %v", e.Format, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// DisplayMessage returns the inline text shown for err.
func DisplayMessage(err error) string {
	if err == nil {
		return ""
	}
	return DisplayPrefix + err.Error()
}

// IsFetchError reports whether err came from the fetch stage.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// IsRenderError reports whether err came from the render stage.
func IsRenderError(err error) bool {
	var re *RenderError
	return errors.As(err, &re)
}
