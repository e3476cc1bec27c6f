// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/md-assets/pkg/types"
)

var (
	// ErrTransport wraps connection, timeout and body read failures.
	ErrTransport = errors.New("transport error")

	// ErrWrite wraps disk and permission failures while saving a file.
	ErrWrite = errors.New("write error")
)

// StatusError reports a response other than 200 OK.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.Code, e.URL)
}

// Classify maps a download error onto the failure taxonomy.
func Classify(err error) types.FailureKind {
	var se *StatusError
	switch {
	case err == nil:
		return types.FailureNone
	case errors.As(err, &se):
		return types.FailureHTTPStatus
	case errors.Is(err, ErrWrite):
		return types.FailureWrite
	default:
		return types.FailureTransport
	}
}

// Reason returns a short human-readable cause for a failed outcome.
func Reason(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return fmt.Sprintf("HTTP %d", se.Code)
	}
	return strings.TrimSpace(err.Error())
}
