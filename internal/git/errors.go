package git

import (
	"errors"
	"fmt"
)

// ErrBackendUnavailable reports that the open target is not a git
// repository. Callers recover by offering a one-time init instead of
// rendering a graph.
var ErrBackendUnavailable = errors.New("repository unavailable")

// QueryError wraps a failed read of commits, refs or HEAD. A query failure
// aborts the whole snapshot; no partial data is returned.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// CheckoutError reports a checkout that could not complete. HEAD is left
// exactly where it was.
type CheckoutError struct {
	Hash   string
	Reason string
}

func (e *CheckoutError) Error() string {
	return fmt.Sprintf("checkout %s: %s", shortHash(e.Hash), e.Reason)
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
