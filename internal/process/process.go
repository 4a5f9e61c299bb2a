// Package process terminates browser process trees left behind by an
// interrupted export.
package process

import "errors"

// ErrInvalidPID is returned for pids that would target the caller's own
// process group.
var ErrInvalidPID = errors.New("invalid pid")
