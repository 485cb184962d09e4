// Package errs defines the error taxonomy shared by the reg, token,
// channel, order and runner packages.
package errs

import "fmt"

// =============================================================================
// ERROR CODES
// =============================================================================

const (
	// CodeTypeMismatch indicates a requested type differs from a register's tag.
	CodeTypeMismatch = "TYPE_MISMATCH"

	// CodeDuplicateName indicates a channel name was registered twice.
	CodeDuplicateName = "DUPLICATE_NAME"

	// CodeEmptyName indicates registration was attempted with an empty name.
	CodeEmptyName = "EMPTY_NAME"

	// CodeNotFound indicates a channel name was never registered.
	CodeNotFound = "NOT_FOUND"

	// CodeNoOwner indicates a read or behind bind against a still-Pending channel.
	CodeNoOwner = "NO_OWNER"

	// CodeAlreadyOwned indicates try_obtain_ownership on an already-Owned channel.
	CodeAlreadyOwned = "ALREADY_OWNED"

	// CodeCycle indicates the planner found a directed cycle in the non-behind graph.
	CodeCycle = "CYCLE"

	// CodeInvalidToken indicates grab was called with a default or out-of-range token.
	CodeInvalidToken = "INVALID_TOKEN"

	// CodeLifecycleViolation indicates the runner state machine was used out of order.
	CodeLifecycleViolation = "LIFECYCLE_VIOLATION"

	// CodeBorrowConflict indicates concurrent mutable/immutable access to one register.
	CodeBorrowConflict = "BORROW_CONFLICT"
)

// Error is the concrete error type returned throughout the module.
type Error struct {
	Code    string
	Message string
	cause   error
	context map[string]string
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause, if any, for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error with the same Code, so sentinel
// comparisons via errors.Is work without pointer identity.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return other.Code == e.Code
}

// WithContext attaches diagnostic key/value context and returns the receiver.
func (e *Error) WithContext(key, value string) *Error {
	if e.context == nil {
		e.context = make(map[string]string)
	}
	e.context[key] = value
	return e
}

// New builds a new Error with the given code, message and optional cause.
func New(code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// =============================================================================
// SENTINEL ERRORS (for errors.Is comparisons against a bare kind)
// =============================================================================

var (
	// ErrTypeMismatchSentinel is matched by errors.Is regardless of message/context.
	ErrTypeMismatchSentinel = New(CodeTypeMismatch, "type mismatch", nil)

	// ErrDuplicateNameSentinel is matched by errors.Is regardless of message/context.
	ErrDuplicateNameSentinel = New(CodeDuplicateName, "duplicate channel name", nil)

	// ErrEmptyNameSentinel is matched by errors.Is regardless of message/context.
	ErrEmptyNameSentinel = New(CodeEmptyName, "empty channel name", nil)

	// ErrNotFoundSentinel is matched by errors.Is regardless of message/context.
	ErrNotFoundSentinel = New(CodeNotFound, "channel not found", nil)

	// ErrNoOwnerSentinel is matched by errors.Is regardless of message/context.
	ErrNoOwnerSentinel = New(CodeNoOwner, "channel has no owner", nil)

	// ErrAlreadyOwnedSentinel is matched by errors.Is regardless of message/context.
	ErrAlreadyOwnedSentinel = New(CodeAlreadyOwned, "channel already owned", nil)

	// ErrCycleSentinel is matched by errors.Is regardless of message/context.
	ErrCycleSentinel = New(CodeCycle, "cycle detected", nil)

	// ErrInvalidTokenSentinel is matched by errors.Is regardless of message/context.
	ErrInvalidTokenSentinel = New(CodeInvalidToken, "invalid token", nil)

	// ErrLifecycleViolationSentinel is matched by errors.Is regardless of message/context.
	ErrLifecycleViolationSentinel = New(CodeLifecycleViolation, "lifecycle violation", nil)

	// ErrBorrowConflictSentinel is matched by errors.Is regardless of message/context.
	ErrBorrowConflictSentinel = New(CodeBorrowConflict, "register already borrowed", nil)
)

// =============================================================================
// ERROR CONSTRUCTORS
// =============================================================================

// TypeMismatchf builds a contextual type-mismatch error from preformatted type names.
func TypeMismatchf(subject, want, got string) *Error {
	return New(
		CodeTypeMismatch,
		fmt.Sprintf("%s: requested type %s does not match stored type %s", subject, want, got),
		nil,
	).WithContext("subject", subject).WithContext("want", want).WithContext("got", got)
}

// DuplicateName builds an error for a channel name registered more than once.
func DuplicateName(name string) *Error {
	return New(
		CodeDuplicateName,
		fmt.Sprintf("channel %q is already registered", name),
		nil,
	).WithContext("name", name)
}

// EmptyName builds an error for registration attempted with an empty name.
func EmptyName() *Error {
	return New(CodeEmptyName, "channel name cannot be empty", nil)
}

// NotFound builds an error for a name that was never registered.
func NotFound(name string) *Error {
	return New(
		CodeNotFound,
		fmt.Sprintf("channel %q was never registered", name),
		nil,
	).WithContext("name", name)
}

// NoOwner builds an error for a read or behind bind against a Pending channel.
func NoOwner(name string) *Error {
	return New(
		CodeNoOwner,
		fmt.Sprintf("channel %q has no owner yet", name),
		nil,
	).WithContext("name", name)
}

// AlreadyOwned builds an error for try_obtain_ownership on an Owned channel.
func AlreadyOwned(name string) *Error {
	return New(
		CodeAlreadyOwned,
		fmt.Sprintf("channel %q already has an owner", name),
		nil,
	).WithContext("name", name)
}

// Cycle builds an error describing the node at which a cycle was detected.
func Cycle(nodeID int) *Error {
	return New(
		CodeCycle,
		fmt.Sprintf("cycle detected while visiting component %d", nodeID),
		nil,
	).WithContext("node", fmt.Sprintf("%d", nodeID))
}

// InvalidToken builds an error for grab called on a default or out-of-range token.
func InvalidToken(reason string) *Error {
	return New(CodeInvalidToken, fmt.Sprintf("invalid token: %s", reason), nil)
}

// LifecycleViolation builds an error for runner state machine misuse.
func LifecycleViolation(msg string) *Error {
	return New(CodeLifecycleViolation, msg, nil)
}

// BorrowConflict builds an error for reentrant mutable/immutable access of one register.
func BorrowConflict(accessorID int) *Error {
	return New(
		CodeBorrowConflict,
		fmt.Sprintf("register %d is already borrowed this tick", accessorID),
		nil,
	).WithContext("accessor", fmt.Sprintf("%d", accessorID))
}
