package permits

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports malformed input with per-field messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid input"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// NotFoundError reports a missing package or document.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// IllegalTransitionError reports a status change rejected by the
// transition rules, with the reason the machine gave.
type IllegalTransitionError struct {
	From   string
	To     string
	Reason string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("cannot move package from %s to %s: %s", e.From, e.To, e.Reason)
}

// RepositoryError wraps a persistence failure. It is not locally
// recoverable; callers map it to a server-side failure.
type RepositoryError struct {
	Op  string
	Err error
}

func (e *RepositoryError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}
