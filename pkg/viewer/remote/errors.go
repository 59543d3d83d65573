package remote

import (
	"errors"
	"fmt"
)

var (
	// ErrConnectionUnavailable means no endpoint has been supplied yet.
	// Callers render the waiting placeholder; it is not a failure.
	ErrConnectionUnavailable = errors.New("remote session not started")

	ErrUnsupportedSecurity = errors.New("remote desktop requires unsupported authentication")
	ErrViewerUnavailable   = errors.New("streaming viewer unavailable")
)

// ConnectError wraps a failed connection with the stage it failed in.
type ConnectError struct {
	Stage string
	URL   string
	Err   error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect %s (%s): %v", e.URL, e.Stage, e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

func wrapConnectError(stage, url string, err error) *ConnectError {
	return &ConnectError{Stage: stage, URL: url, Err: err}
}

// IsHandshakeError returns true if the error happened after the transport
// was established.
func IsHandshakeError(err error) bool {
	var ce *ConnectError
	if errors.As(err, &ce) {
		return ce.Stage == stageHandshake
	}
	return false
}
