package channel

import (
	"github.com/riverline/dataflow/errs"
	"github.com/riverline/dataflow/reg"
	"github.com/riverline/dataflow/token"
)

// MutView is the Owner view: get/set access to a channel's current
// register.
type MutView[T any] struct {
	r          *reg.Register
	accessorID int
}

// Get returns the current value.
func (v MutView[T]) Get() T {
	v.acquire()
	defer v.r.Release()
	return reg.Get[T](v.r)
}

// Set replaces the current value.
func (v MutView[T]) Set(value T) {
	v.acquire()
	defer v.r.Release()
	reg.Set[T](v.r, value)
}

func (v MutView[T]) acquire() {
	if err := v.r.Acquire(v.accessorID); err != nil {
		panic(err)
	}
}

// ReadView is the Reader/Behind view: read-only access to a register.
type ReadView[T any] struct {
	r          *reg.Register
	accessorID int
}

// Get returns the current value of the viewed register.
func (v ReadView[T]) Get() T {
	if err := v.r.Acquire(v.accessorID); err != nil {
		panic(err)
	}
	defer v.r.Release()
	return reg.Get[T](v.r)
}

func resolve(s *Store, accessorID int) (*Channel, error) {
	if accessorID < 0 || accessorID >= len(s.channels) {
		return nil, errs.InvalidToken("accessor id out of range")
	}
	return s.channels[accessorID], nil
}

// GrabOwner resolves an Owner token to a mutable view of its channel's
// current register. Phase: Runtime (dispatch).
func GrabOwner[T any](s *Store, tok token.Owner[T]) (MutView[T], error) {
	if !tok.Valid() {
		return MutView[T]{}, errs.InvalidToken("owner token is default-constructed")
	}
	ch, err := resolve(s, tok.AccessorID())
	if err != nil {
		return MutView[T]{}, err
	}
	return MutView[T]{r: ch.Reg, accessorID: tok.AccessorID()}, nil
}

// GrabReader resolves a Reader token to a read-only view of its
// channel's current register. Phase: Runtime (dispatch).
func GrabReader[T any](s *Store, tok token.Reader[T]) (ReadView[T], error) {
	if !tok.Valid() {
		return ReadView[T]{}, errs.InvalidToken("reader token is default-constructed")
	}
	ch, err := resolve(s, tok.AccessorID())
	if err != nil {
		return ReadView[T]{}, err
	}
	return ReadView[T]{r: ch.Reg, accessorID: tok.AccessorID()}, nil
}

// GrabBehind resolves a Behind token to a read-only view of its
// channel's previous-tick register. Phase: Runtime (dispatch).
func GrabBehind[T any](s *Store, tok token.Behind[T]) (ReadView[T], error) {
	if !tok.Valid() {
		return ReadView[T]{}, errs.InvalidToken("behind token is default-constructed")
	}
	ch, err := resolve(s, tok.AccessorID())
	if err != nil {
		return ReadView[T]{}, err
	}
	if ch.BehindReg == nil {
		// Internal invariant: BindBehind always creates BehindReg before
		// handing out a valid Behind token.
		return ReadView[T]{}, errs.InvalidToken("behind register missing for channel " + ch.Name)
	}
	return ReadView[T]{r: ch.BehindReg, accessorID: tok.AccessorID()}, nil
}

// MustGrabOwner is GrabOwner that panics on error, for use by builders
// and components in contexts where a bad token is a programming error.
func MustGrabOwner[T any](s *Store, tok token.Owner[T]) MutView[T] {
	v, err := GrabOwner(s, tok)
	if err != nil {
		panic(err)
	}
	return v
}

// MustGrabReader is GrabReader that panics on error.
func MustGrabReader[T any](s *Store, tok token.Reader[T]) ReadView[T] {
	v, err := GrabReader(s, tok)
	if err != nil {
		panic(err)
	}
	return v
}

// MustGrabBehind is GrabBehind that panics on error.
func MustGrabBehind[T any](s *Store, tok token.Behind[T]) ReadView[T] {
	v, err := GrabBehind(s, tok)
	if err != nil {
		panic(err)
	}
	return v
}
