package synccache

import "github.com/pkg/errors"

// Error kinds per failure class. Callers branch with errors.Is; the wrapped
// messages stay descriptive and user-visible.
var (
	// ErrValidation marks input rejected before any remote call.
	ErrValidation = errors.New("validation failed")

	// ErrRemoteUnavailable marks transient read-path failures. These are
	// always recovered locally and never surfaced as user-facing failures.
	ErrRemoteUnavailable = errors.New("remote store unavailable")

	// ErrRemoteMutation marks a write or delete rejected by the remote
	// store. In-memory and local-cache state are left untouched.
	ErrRemoteMutation = errors.New("remote mutation failed")
)
