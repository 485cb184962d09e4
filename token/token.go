// Package token defines the three phantom-typed token handles returned by
// channel registration: Owner, Reader and Behind. Tokens carry no
// reference into the store, only an accessor index and a validity bit;
// they re-resolve against the store at every access.
package token

// Owner is returned by RegisterWrite and TryObtainOwnership. It grants a
// mutable view of a channel's current register.
type Owner[T any] struct {
	accessorID int
	valid      bool
}

// Reader is returned by RegisterDangling and BindRead. It grants a
// read-only view of a channel's current register.
type Reader[T any] struct {
	accessorID int
	valid      bool
}

// Behind is returned by BindBehind. It grants a read-only view of a
// channel's previous-tick register.
type Behind[T any] struct {
	accessorID int
	valid      bool
}

// NewOwner builds a valid Owner token for the given accessor id.
func NewOwner[T any](accessorID int) Owner[T] { return Owner[T]{accessorID: accessorID, valid: true} }

// NewReader builds a valid Reader token for the given accessor id.
func NewReader[T any](accessorID int) Reader[T] {
	return Reader[T]{accessorID: accessorID, valid: true}
}

// NewBehind builds a valid Behind token for the given accessor id.
func NewBehind[T any](accessorID int) Behind[T] {
	return Behind[T]{accessorID: accessorID, valid: true}
}

// AccessorID returns the accessor index this token resolves to.
func (t Owner[T]) AccessorID() int { return t.accessorID }

// Valid reports whether the token was returned by registration (as
// opposed to a zero-value placeholder).
func (t Owner[T]) Valid() bool { return t.valid }

// AccessorID returns the accessor index this token resolves to.
func (t Reader[T]) AccessorID() int { return t.accessorID }

// Valid reports whether the token was returned by registration (as
// opposed to a zero-value placeholder).
func (t Reader[T]) Valid() bool { return t.valid }

// AccessorID returns the accessor index this token resolves to.
func (t Behind[T]) AccessorID() int { return t.accessorID }

// Valid reports whether the token was returned by registration (as
// opposed to a zero-value placeholder).
func (t Behind[T]) Valid() bool { return t.valid }
