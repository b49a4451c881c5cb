package xq

import (
	"errors"
	"fmt"
)

// Kind classifies exchange-queue failures. LostRace and AlreadyClaimed
// are expected outcomes under concurrent use, not exceptional failures;
// callers handle them by re-checking the queue rather than retrying the
// same claim.
type Kind string

const (
	// KindNotConfigured means no handoff project is resolvable for the
	// instance, or the board's buckets are missing.
	KindNotConfigured Kind = "not_configured"

	// KindInsufficientPermission means the credential lacks rights for
	// the attempted operation.
	KindInsufficientPermission Kind = "insufficient_permission"

	// KindTaskNotFound means the task does not exist or is not part of
	// the handoff project.
	KindTaskNotFound Kind = "task_not_found"

	// KindAlreadyClaimed means the claim precondition was violated
	// before the attempt: the task carries a claim marker or has left
	// the Handoff bucket.
	KindAlreadyClaimed Kind = "already_claimed"

	// KindLostRace means a concurrent claim was detected after this
	// session's write. The competitor won; the task was not mutated
	// further.
	KindLostRace Kind = "lost_race"

	// KindNotClaimedByCaller means the task is claimed by a different
	// session, or is not in Review at all.
	KindNotClaimedByCaller Kind = "not_claimed_by_caller"

	// KindRemoteUnavailable means the underlying service call failed.
	KindRemoteUnavailable Kind = "remote_unavailable"
)

// Error is an exchange-queue operation failure with its classification.
type Error struct {
	Kind     Kind
	Op       string
	Instance string
	TaskID   int64
	Message  string
	Err      error
}

func (e *Error) Error() string {
	var b []byte
	b = fmt.Appendf(b, "xq %s", e.Op)
	if e.Instance != "" {
		b = fmt.Appendf(b, " (instance %s)", e.Instance)
	}
	if e.TaskID != 0 {
		b = fmt.Appendf(b, " task %d", e.TaskID)
	}
	b = fmt.Appendf(b, ": %s", e.Kind)
	if e.Message != "" {
		b = fmt.Appendf(b, ": %s", e.Message)
	}
	if e.Err != nil {
		b = fmt.Appendf(b, ": %v", e.Err)
	}
	return string(b)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err, or "" when err carries no *Error.
func KindOf(err error) Kind {
	var xqErr *Error
	if errors.As(err, &xqErr) {
		return xqErr.Kind
	}
	return ""
}

// IsKind reports whether err carries an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
