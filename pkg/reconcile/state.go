package reconcile

import (
	"errors"
	"fmt"
)

// ConnState is the reconciler's view of the remote note service.
type ConnState int

const (
	// Connected means the last remote call succeeded.
	Connected ConnState = iota
	// Degraded means the last remote call failed and reads come from the local cache.
	Degraded
)

func (s ConnState) String() string {
	switch s {
	case Connected:
		return "connected"
	case Degraded:
		return "degraded"
	}
	return fmt.Sprintf("ConnState(%d)", int(s))
}

// RefreshError reports a failed remote read that was answered from the local cache.
// It is informational: the collection has already been updated.
type RefreshError struct {
	Err       error
	FromCache bool
	Cached    int
}

func (e *RefreshError) Error() string {
	if e.FromCache {
		return fmt.Sprintf("showing %d cached notes: %v", e.Cached, e.Err)
	}
	return e.Err.Error()
}

func (e *RefreshError) Unwrap() error { return e.Err }

// IsOffline reports whether err is a RefreshError, i.e. the view shows cached data.
func IsOffline(err error) bool {
	var re *RefreshError
	return errors.As(err, &re)
}
