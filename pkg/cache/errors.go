package cache

import (
	"context"
	"errors"
	"time"

	"github.com/matzehuels/umlsync/pkg/httputil"
)

// Sentinel errors for cache construction and remote backends.
var (
	// ErrUnknownBackend is returned by [Open] for an unrecognized backend name.
	ErrUnknownBackend = errors.New("unknown cache backend")

	// ErrUnavailable wraps connection failures of remote backends.
	ErrUnavailable = errors.New("cache backend unavailable")
)

// Remote backend calls sit on the render path, so their retry budget is
// small: retryAttempts tries starting at retryDelay.
const retryAttempts = 3

var retryDelay = 50 * time.Millisecond

// retry runs a Redis or MongoDB operation, retrying failures marked
// with [transient].
func retry(ctx context.Context, fn func() error) error {
	return httputil.Retry(ctx, retryAttempts, retryDelay, fn)
}

// transient marks a network or timeout failure as worth retrying.
func transient(err error) error {
	return httputil.Retryable(err)
}
