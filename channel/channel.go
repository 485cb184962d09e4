// Package channel implements the channel store: a flat, append-only
// collection of named, typed channels indexed by stable accessor ids,
// mediating registration, ownership, binding and access via opaque
// tokens from the token package.
package channel

import "github.com/riverline/dataflow/reg"

// ownerState distinguishes a channel that already has a producer from
// one still awaiting a claim.
type ownerState int

const (
	// pending means the channel was created by a would-be reader and
	// awaits a producer to claim ownership.
	pending ownerState = iota
	// owned means the channel has a committed producer.
	owned
)

// owner is the two-state Owned(component_id)/Pending(reader_id) sum type
// from the data model, re-expressed as a tagged struct since Go has no
// native sum types.
type owner struct {
	state ownerState
	id    int // component id if owned, reader id if pending
}

// Channel is one named cell: its current-value register, an optional
// previous-tick register, and its owner/pending state.
//
// A dangling channel's original Reader token remains usable via its
// accessor id even while the channel stays Pending — reading it never
// adds a graph edge, and it keeps returning its default value until (and
// unless) a producer claims ownership. This is documented, intentional
// behavior preserved from the source this framework was distilled from:
// it is the mechanism by which a component exposes an optional,
// externally-overridable input.
type Channel struct {
	Name      string
	owner     owner
	Reg       *reg.Register
	BehindReg *reg.Register // nil until at least one BindBehind call
}

// IsOwned reports whether the channel has a committed producer.
func (c *Channel) IsOwned() bool { return c.owner.state == owned }

// OwnerID returns the owning component id. Only meaningful when IsOwned
// is true.
func (c *Channel) OwnerID() int { return c.owner.id }

// PendingReaderID returns the id of the component that created this
// dangling channel. Only meaningful when IsOwned is false.
func (c *Channel) PendingReaderID() int { return c.owner.id }
