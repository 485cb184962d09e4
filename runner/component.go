// Package runner orchestrates the strictly phased initialization
// (dangling -> write -> read) followed by repeated in-order dispatch
// with a post-tick commit of behind registers.
package runner

import "github.com/riverline/dataflow/channel"

// Component is the capability every user component must satisfy: four
// operations, each free to be a no-op. Embedding BaseComponent supplies
// no-op bodies for the three registration phases, so a component only
// has to write out the phases (and Dispatch) it actually needs.
type Component interface {
	// RegisterDangling declares a channel the component needs without
	// committing to who will supply it.
	RegisterDangling(b channel.DanglingBuilder, s *channel.Store)

	// RegisterWrite registers the channels the component owns, whether
	// freshly created or claimed from a dangling registration.
	RegisterWrite(b channel.WriteBuilder, s *channel.Store)

	// RegisterRead binds current-value or behind reads of channels
	// owned elsewhere.
	RegisterRead(b channel.ReadBuilder, s *channel.Store)

	// Dispatch runs once per tick, in topological order.
	Dispatch(s *channel.Store)
}

// BaseComponent supplies no-op bodies for the three registration
// phases. Embed it in a Component implementation that only needs
// Dispatch, or override individual phases as needed.
type BaseComponent struct{}

// RegisterDangling is a no-op.
func (BaseComponent) RegisterDangling(b channel.DanglingBuilder, s *channel.Store) {}

// RegisterWrite is a no-op.
func (BaseComponent) RegisterWrite(b channel.WriteBuilder, s *channel.Store) {}

// RegisterRead is a no-op.
func (BaseComponent) RegisterRead(b channel.ReadBuilder, s *channel.Store) {}
