package types

import (
	"time"

	"github.com/entrhq/lookout/pkg/viewer"
	"github.com/entrhq/lookout/pkg/viewer/document"
	"github.com/entrhq/lookout/pkg/viewer/remote"
)

// ToastNotification represents a temporary notification message
type ToastNotification struct {
	Active    bool
	Message   string
	Details   string
	Icon      string
	IsError   bool
	ShowUntil time.Time
}

// ToastMsg is a message type for showing toast notifications
type ToastMsg struct {
	Message string
	Details string
	Icon    string
	IsError bool
}

// DocumentResultMsg carries a finished document fetch and render.
type DocumentResultMsg struct {
	Result document.Result
}

// SurfaceMsg carries the outcome of a remote connection attempt.
type SurfaceMsg struct {
	Surface remote.Surface
}

// SessionMsg is a caller refresh of the session state.
type SessionMsg struct {
	Props viewer.Props
}

// SessionErrMsg reports a session file that could not be read.
type SessionErrMsg struct {
	Err error
}

// ConfigSavedMsg reports the outcome of a background settings save.
type ConfigSavedMsg struct {
	Err error
}
