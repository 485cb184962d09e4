// Package reg implements the type-erased typed register: a single cell
// holding one value of an arbitrary user-declared type, with runtime
// type-identity checks on every access.
package reg

import (
	"reflect"

	"github.com/riverline/dataflow/errs"
)

// Register holds exactly one typed value behind a runtime type tag
// captured at construction time. The tag never changes for the
// lifetime of the Register; every Get/Set re-verifies it.
type Register struct {
	typeTag reflect.Type
	value   any
	inUse   bool
}

// New creates a Register holding value, capturing its type as the tag.
func New[T any](value T) *Register {
	return &Register{
		typeTag: reflect.TypeOf(value),
		value:   deepCopy(value),
	}
}

// TypeName returns a human-readable name for the register's declared type.
func TypeName(r *Register) string {
	return typeNameOf(r.typeTag)
}

// MatchesType reports whether T is the register's declared type.
func MatchesType[T any](r *Register) bool {
	var zero T
	return r.typeTag == reflect.TypeOf(zero)
}

// TryGet returns a clone of the stored value, or ErrTypeMismatchSentinel
// if T does not match the register's declared type.
func TryGet[T any](r *Register) (T, error) {
	var zero T
	if !MatchesType[T](r) {
		return zero, errs.TypeMismatchf("register", typeName[T](), typeNameOf(r.typeTag))
	}
	return deepCopy(r.value.(T)), nil
}

// Get returns a clone of the stored value. It panics if T does not match
// the register's declared type: per the type-identity invariant, this is
// a programming error, not a recoverable condition.
func Get[T any](r *Register) T {
	v, err := TryGet[T](r)
	if err != nil {
		panic(err)
	}
	return v
}

// TrySet replaces the stored value, or returns ErrTypeMismatchSentinel if
// T does not match the register's declared type.
func TrySet[T any](r *Register, value T) error {
	if !MatchesType[T](r) {
		return errs.TypeMismatchf("register", typeName[T](), typeNameOf(r.typeTag))
	}
	r.value = deepCopy(value)
	return nil
}

// Set replaces the stored value. It panics if T does not match the
// register's declared type.
func Set[T any](r *Register, value T) {
	if err := TrySet(r, value); err != nil {
		panic(err)
	}
}

// Clone returns an independent Register with the same type tag and a
// deep-cloned copy of the current value.
func (r *Register) Clone() *Register {
	return &Register{
		typeTag: r.typeTag,
		value:   deepCopyAny(r.value),
	}
}

// CloneFrom replaces the receiver's value with a deep clone of other's
// value. It panics if the two registers' type tags differ.
func (r *Register) CloneFrom(other *Register) {
	if r.typeTag != other.typeTag {
		panic(errs.TypeMismatchf("clone_from", typeNameOf(r.typeTag), typeNameOf(other.typeTag)))
	}
	r.value = deepCopyAny(other.value)
}

// acquire marks the register as currently viewed, returning an error if
// it is already borrowed. release clears the flag. These exist solely to
// catch the case of re-entrant mutable+immutable access of a single
// register within one dispatch (spec says this is not expected to occur
// in correct component code, but is guarded against defensively).
func (r *Register) acquire(accessorID int) error {
	if r.inUse {
		return errs.BorrowConflict(accessorID)
	}
	r.inUse = true
	return nil
}

func (r *Register) release() {
	r.inUse = false
}

// Acquire and Release expose the borrow guard to the channel package,
// whose views bracket each Get and Set with them.
func (r *Register) Acquire(accessorID int) error { return r.acquire(accessorID) }
func (r *Register) Release()                     { r.release() }

func typeName[T any]() string {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

func typeNameOf(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
