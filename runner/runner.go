package runner

import (
	"go.uber.org/zap"

	"github.com/riverline/dataflow/channel"
	"github.com/riverline/dataflow/errs"
	"github.com/riverline/dataflow/order"
)

type state int

const (
	building state = iota
	initialized
)

// Runner drives the component lifecycle: Building (add components,
// initialize once) then Initialized (dispatch repeatedly).
type Runner struct {
	components []*componentHolder
	store      *channel.Store
	nextID     int
	state      state
	logger     *zap.Logger
	tick       int
}

type componentHolder struct {
	id        int
	component Component
}

// Option configures a Runner at construction time.
type Option func(*Runner)

// WithLogger attaches a structured logger; component additions, phase
// transitions, and the start and end of each dispatch tick (the end
// entry follows the behind commit) are logged at Debug level. Defaults
// to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates an empty Runner in the Building state.
func New(opts ...Option) *Runner {
	r := &Runner{
		store:  channel.NewStore(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Store exposes the underlying channel store, for tests and for
// components that need it outside the normal registration/dispatch
// flow (e.g. the demo CLI's snapshot feature).
func (r *Runner) Store() *channel.Store { return r.store }

// AddComponent assigns the component the next sequential id and appends
// it to the runner. Valid only in the Building state.
func (r *Runner) AddComponent(c Component) error {
	if r.state != building {
		return errs.LifecycleViolation("add_component called after initialize")
	}

	id := r.nextID
	r.nextID++
	r.components = append(r.components, &componentHolder{id: id, component: c})

	r.logger.Debug("component added", zap.Int("component_id", id))

	return nil
}

// Initialize runs the four-phase registration sequence (dangling,
// write, read, then plan) and transitions to Initialized. Valid only in
// the Building state; calling it twice is a lifecycle violation.
func (r *Runner) Initialize() error {
	if r.state != building {
		return errs.LifecycleViolation("initialize called more than once")
	}

	r.logger.Debug("initialize: dangling phase")
	for _, h := range r.components {
		h.component.RegisterDangling(channel.NewDanglingBuilder(h.id), r.store)
	}

	r.logger.Debug("initialize: write phase")
	for _, h := range r.components {
		h.component.RegisterWrite(channel.NewWriteBuilder(h.id), r.store)
	}

	r.logger.Debug("initialize: read phase")
	for _, h := range r.components {
		h.component.RegisterRead(channel.NewReadBuilder(h.id), r.store)
	}

	graph := r.store.TakeNodeGraph()

	ids := make([]int, len(r.components))
	for i, h := range r.components {
		ids[i] = h.id
	}

	ordering, err := order.NewPlanner(ids, graph).Order()
	if err != nil {
		return err
	}

	r.reorder(ordering)
	r.state = initialized

	r.logger.Debug("initialize: complete", zap.Ints("order", ordering))

	return nil
}

// reorder rearranges r.components in-place to match ordering, a
// permutation of component ids.
func (r *Runner) reorder(ordering []int) {
	byID := make(map[int]*componentHolder, len(r.components))
	for _, h := range r.components {
		byID[h.id] = h
	}

	reordered := make([]*componentHolder, len(ordering))
	for i, id := range ordering {
		reordered[i] = byID[id]
	}
	r.components = reordered
}

// Dispatch invokes every component's Dispatch in topological order, then
// commits behind registers so every Behind view lags its owner by
// exactly one tick. Valid only in the Initialized state.
func (r *Runner) Dispatch() error {
	if r.state != initialized {
		return errs.LifecycleViolation("dispatch called before initialize")
	}

	r.tick++
	r.logger.Debug("dispatch: tick start", zap.Int("tick", r.tick))

	for _, h := range r.components {
		h.component.Dispatch(r.store)
	}

	r.store.UpdateBehindRegisters()

	r.logger.Debug("dispatch: tick complete", zap.Int("tick", r.tick))

	return nil
}
