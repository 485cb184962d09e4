package channel

import "github.com/riverline/dataflow/token"

// DanglingBuilder is the phase-restricted façade handed to each
// component's dangling-registration callback. It carries the
// component's assigned id so the store knows which component is
// creating each dangling channel.
type DanglingBuilder struct {
	componentID int
}

// NewDanglingBuilder builds a DanglingBuilder for componentID.
func NewDanglingBuilder(componentID int) DanglingBuilder {
	return DanglingBuilder{componentID: componentID}
}

// ComponentID returns the id of the component this builder was issued to.
func (b DanglingBuilder) ComponentID() int { return b.componentID }

// RegisterDanglingChannel creates a Pending channel owned, for now, by
// no one, returning a Reader token that stays usable whether or not a
// producer ever claims it: it reads the default value while the channel
// is Pending, and the claiming owner's writes once it is claimed.
func RegisterDanglingChannel[T any](b DanglingBuilder, s *Store, name string, def T) (token.Reader[T], error) {
	return RegisterDangling[T](s, name, b.componentID, def)
}

// WriteBuilder is the phase-restricted façade handed to each
// component's write-registration callback.
type WriteBuilder struct {
	componentID int
}

// NewWriteBuilder builds a WriteBuilder for componentID.
func NewWriteBuilder(componentID int) WriteBuilder {
	return WriteBuilder{componentID: componentID}
}

// ComponentID returns the id of the component this builder was issued to.
func (b WriteBuilder) ComponentID() int { return b.componentID }

// RegisterWriteChannel creates a new Owned channel with the given
// initial value.
func RegisterWriteChannel[T any](b WriteBuilder, s *Store, name string, init T) (token.Owner[T], error) {
	return RegisterWrite[T](s, name, b.componentID, init)
}

// TryObtainChannelOwnership claims an existing Pending channel, flipping
// it to Owned by this builder's component.
func TryObtainChannelOwnership[T any](b WriteBuilder, s *Store, name string) (token.Owner[T], error) {
	return TryObtainOwnership[T](s, name, b.componentID)
}

// QueryUnownedDanglingChannelNames returns the names of channels still
// awaiting a producer, in insertion order.
func (b WriteBuilder) QueryUnownedDanglingChannelNames(s *Store) []string {
	return s.QueryUnownedNames()
}

// ReadBuilder is the phase-restricted façade handed to each component's
// read-registration callback.
type ReadBuilder struct {
	componentID int
}

// NewReadBuilder builds a ReadBuilder for componentID.
func NewReadBuilder(componentID int) ReadBuilder {
	return ReadBuilder{componentID: componentID}
}

// ComponentID returns the id of the component this builder was issued to.
func (b ReadBuilder) ComponentID() int { return b.componentID }

// BindReadChannel binds this builder's component as a current-value
// reader of an Owned channel.
func BindReadChannel[T any](b ReadBuilder, s *Store, name string) (token.Reader[T], error) {
	return BindRead[T](s, name, b.componentID)
}

// BindBehindChannel binds this builder's component as a previous-tick
// reader of an Owned channel. Does not add a scheduling edge.
func BindBehindChannel[T any](b ReadBuilder, s *Store, name string) (token.Behind[T], error) {
	return BindBehind[T](s, name)
}
