package channel

import (
	"reflect"

	"github.com/riverline/dataflow/errs"
	"github.com/riverline/dataflow/order"
	"github.com/riverline/dataflow/reg"
	"github.com/riverline/dataflow/token"
)

// Store is the channel store: an append-only collection of channels
// indexed by stable accessor ids, plus the embedded producer/consumer
// node graph being built during registration.
//
// Every exported operation below is intended to be called only during
// the phase named in its doc comment; the store itself does not enforce
// phase ordering (that is the runner's job, per the design rationale:
// dangling registration must precede write registration since dangling
// channels may be claimed by a later producer, and read binding must
// come last so every channel has a well-defined owner when an edge is
// added).
type Store struct {
	channels   []*Channel
	byName     map[string]int
	graph      *order.Graph
	behindSet  map[int]bool
	graphTaken bool
}

// NewStore creates an empty channel store.
func NewStore() *Store {
	return &Store{
		byName:    make(map[string]int),
		graph:     order.NewGraph(),
		behindSet: make(map[int]bool),
	}
}

func (s *Store) appendChannel(name string, o owner, r *reg.Register) int {
	accessorID := len(s.channels)
	s.channels = append(s.channels, &Channel{Name: name, owner: o, Reg: r})
	s.byName[name] = accessorID
	return accessorID
}

// RegisterWrite appends a new Owned channel with the given initial
// value, returning an Owner token. Phase: Write.
func RegisterWrite[T any](s *Store, name string, ownerID int, init T) (token.Owner[T], error) {
	if name == "" {
		return token.Owner[T]{}, errs.EmptyName()
	}
	if _, exists := s.byName[name]; exists {
		return token.Owner[T]{}, errs.DuplicateName(name)
	}

	accessorID := s.appendChannel(name, owner{state: owned, id: ownerID}, reg.New(init))
	return token.NewOwner[T](accessorID), nil
}

// RegisterDangling appends a new Pending channel holding a default
// value, returning a Reader token. Phase: Dangling. The token stays
// readable while the channel remains Pending, and reading through it
// never adds a graph edge.
func RegisterDangling[T any](s *Store, name string, readerID int, def T) (token.Reader[T], error) {
	if name == "" {
		return token.Reader[T]{}, errs.EmptyName()
	}
	if _, exists := s.byName[name]; exists {
		return token.Reader[T]{}, errs.DuplicateName(name)
	}

	accessorID := s.appendChannel(name, owner{state: pending, id: readerID}, reg.New(def))
	return token.NewReader[T](accessorID), nil
}

// TryObtainOwnership claims a Pending channel for ownerID, provided the
// channel's register holds type T. It flips the channel to Owned and
// adds a graph edge from the new owner to the reader that originally
// created the dangling channel. Phase: Write.
func TryObtainOwnership[T any](s *Store, name string, ownerID int) (token.Owner[T], error) {
	accessorID, ok := s.byName[name]
	if !ok {
		return token.Owner[T]{}, errs.NotFound(name)
	}

	ch := s.channels[accessorID]
	if ch.IsOwned() {
		return token.Owner[T]{}, errs.AlreadyOwned(name)
	}
	if !reg.MatchesType[T](ch.Reg) {
		return token.Owner[T]{}, errs.TypeMismatchf(name, typeNameFor[T](), reg.TypeName(ch.Reg))
	}

	originalReader := ch.PendingReaderID()
	ch.owner = owner{state: owned, id: ownerID}
	s.graph.AddEdge(ownerID, originalReader)

	return token.NewOwner[T](accessorID), nil
}

// BindRead binds a Reader token to an Owned channel's current register,
// adding a graph edge from its owner to readerID. Phase: Read.
func BindRead[T any](s *Store, name string, readerID int) (token.Reader[T], error) {
	accessorID, ok := s.byName[name]
	if !ok {
		return token.Reader[T]{}, errs.NotFound(name)
	}

	ch := s.channels[accessorID]
	if !ch.IsOwned() {
		return token.Reader[T]{}, errs.NoOwner(name)
	}
	if !reg.MatchesType[T](ch.Reg) {
		return token.Reader[T]{}, errs.TypeMismatchf(name, typeNameFor[T](), reg.TypeName(ch.Reg))
	}

	s.graph.AddEdge(ch.OwnerID(), readerID)

	return token.NewReader[T](accessorID), nil
}

// BindBehind binds a Behind token to an Owned channel's previous-tick
// register, creating that register (as a clone of the current one) the
// first time any component binds behind on this channel. Binding behind
// never adds a graph edge, since a behind read does not constrain
// execution order. Phase: Read.
func BindBehind[T any](s *Store, name string) (token.Behind[T], error) {
	accessorID, ok := s.byName[name]
	if !ok {
		return token.Behind[T]{}, errs.NotFound(name)
	}

	ch := s.channels[accessorID]
	if !ch.IsOwned() {
		return token.Behind[T]{}, errs.NoOwner(name)
	}
	if !reg.MatchesType[T](ch.Reg) {
		return token.Behind[T]{}, errs.TypeMismatchf(name, typeNameFor[T](), reg.TypeName(ch.Reg))
	}

	if ch.BehindReg == nil {
		ch.BehindReg = ch.Reg.Clone()
	}
	s.behindSet[accessorID] = true

	return token.NewBehind[T](accessorID), nil
}

// QueryUnownedNames returns the names of all channels still in Pending
// state, in insertion order. Phase: Write.
func (s *Store) QueryUnownedNames() []string {
	var names []string
	for _, ch := range s.channels {
		if !ch.IsOwned() {
			names = append(names, ch.Name)
		}
	}
	return names
}

// UpdateBehindRegisters copies each behind-bound channel's current
// register into its behind register. Called once, at the end of every
// tick, by the runner.
func (s *Store) UpdateBehindRegisters() {
	for accessorID := range s.behindSet {
		ch := s.channels[accessorID]
		ch.BehindReg.CloneFrom(ch.Reg)
	}
}

// TakeNodeGraph moves the node graph out of the store for the planner.
// Registration after this call is undefined; the runner guarantees it
// never happens (initialize() calls this only after the read-binding
// phase completes).
func (s *Store) TakeNodeGraph() *order.Graph {
	g := s.graph
	s.graph = nil
	s.graphTaken = true
	return g
}

// Channels exposes the registered channels in accessor-id order, for
// diagnostics and for the demo CLI's snapshot feature.
func (s *Store) Channels() []*Channel {
	return s.channels
}

func typeNameFor[T any]() string {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
