package runner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riverline/dataflow/channel"
	"github.com/riverline/dataflow/runner"
	"github.com/riverline/dataflow/token"
)

// scenarioProducer owns a fixed-value channel and rewrites it every tick.
type scenarioProducer struct {
	runner.BaseComponent
	name  string
	value int64
	tok   token.Owner[int64]
}

func (p *scenarioProducer) RegisterWrite(b channel.WriteBuilder, s *channel.Store) {
	p.tok, _ = channel.RegisterWriteChannel[int64](b, s, p.name, p.value)
}

func (p *scenarioProducer) Dispatch(s *channel.Store) {
	channel.MustGrabOwner(s, p.tok).Set(p.value)
}

// scenarioModifier claims whichever dangling channel is still unowned and
// increments it by one every tick.
type scenarioModifier struct {
	runner.BaseComponent
	tok token.Owner[int64]
}

func (m *scenarioModifier) RegisterWrite(b channel.WriteBuilder, s *channel.Store) {
	names := b.QueryUnownedDanglingChannelNames(s)
	m.tok, _ = channel.TryObtainChannelOwnership[int64](b, s, names[len(names)-1])
}

func (m *scenarioModifier) Dispatch(s *channel.Store) {
	view := channel.MustGrabOwner(s, m.tok)
	view.Set(view.Get() + 1)
}

// scenarioAdder declares the modifier's input as a dangling channel, owns
// an accumulator, and reads both an upstream producer and the modifier's
// output every tick.
type scenarioAdder struct {
	runner.BaseComponent
	inputName, outputName, modName string

	inputTok  token.Reader[int64]
	outputTok token.Owner[int64]
	modTok    token.Reader[int64]

	observed []int64
}

func (a *scenarioAdder) RegisterDangling(b channel.DanglingBuilder, s *channel.Store) {
	a.modTok, _ = channel.RegisterDanglingChannel[int64](b, s, a.modName, int64(10))
}

func (a *scenarioAdder) RegisterWrite(b channel.WriteBuilder, s *channel.Store) {
	a.outputTok, _ = channel.RegisterWriteChannel[int64](b, s, a.outputName, int64(0))
}

func (a *scenarioAdder) RegisterRead(b channel.ReadBuilder, s *channel.Store) {
	a.inputTok, _ = channel.BindReadChannel[int64](b, s, a.inputName)
}

func (a *scenarioAdder) Dispatch(s *channel.Store) {
	inputValue := channel.MustGrabReader(s, a.inputTok).Get()
	out := channel.MustGrabOwner(s, a.outputTok)
	currentCount := out.Get()
	modValue := channel.MustGrabReader(s, a.modTok).Get()
	out.Set(currentCount + inputValue + modValue)
	a.observed = append(a.observed, out.Get())
}

// TestScenario_S1_ProducerAdderModifier pins the dangling-claim walkthrough:
// a producer feeds a fixed value, a modifier claims the adder's dangling
// input and bumps it each tick, and the adder accumulates across ticks.
func TestScenario_S1_ProducerAdderModifier(t *testing.T) {
	adder := &scenarioAdder{
		inputName:  "test.channel",
		outputName: "test.channel.add",
		modName:    "test.channel.mod",
	}
	producer := &scenarioProducer{name: "test.channel", value: 40}
	modifier := &scenarioModifier{}

	r := runner.New()
	require.NoError(t, r.AddComponent(adder))
	require.NoError(t, r.AddComponent(producer))
	require.NoError(t, r.AddComponent(modifier))
	require.NoError(t, r.Initialize())

	require.NoError(t, r.Dispatch())
	require.NoError(t, r.Dispatch())

	assert.Equal(t, []int64{51, 103}, adder.observed)
}

// scenarioCycleRW owns one channel and reads another, either at its
// current value or one tick behind, forming a cycle that the planner can
// only schedule because one leg reads behind.
type scenarioCycleRW struct {
	runner.BaseComponent
	readName  string
	asBehind  bool
	writeName string

	readTok   token.Reader[int64]
	behindTok token.Behind[int64]
	writeTok  token.Owner[int64]

	observed []int64
}

func (c *scenarioCycleRW) RegisterWrite(b channel.WriteBuilder, s *channel.Store) {
	c.writeTok, _ = channel.RegisterWriteChannel[int64](b, s, c.writeName, int64(34))
}

func (c *scenarioCycleRW) RegisterRead(b channel.ReadBuilder, s *channel.Store) {
	if c.asBehind {
		c.behindTok, _ = channel.BindBehindChannel[int64](b, s, c.readName)
		return
	}
	c.readTok, _ = channel.BindReadChannel[int64](b, s, c.readName)
}

func (c *scenarioCycleRW) Dispatch(s *channel.Store) {
	var observed int64
	if c.asBehind {
		observed = channel.MustGrabBehind(s, c.behindTok).Get()
	} else {
		observed = channel.MustGrabReader(s, c.readTok).Get()
	}
	c.observed = append(c.observed, observed)
	channel.MustGrabOwner(s, c.writeTok).Set(int64(100))
}

// TestScenario_S2_MutualCycleBrokenByBehindRead pins the one-tick-lag
// walkthrough: two components each own one channel and read the other's,
// and the cycle is only schedulable because one side reads behind.
func TestScenario_S2_MutualCycleBrokenByBehindRead(t *testing.T) {
	cycle1 := &scenarioCycleRW{
		readName:  "test.channel.cycle.2",
		writeName: "test.channel.cycle.1",
		asBehind:  false,
	}
	cycle2 := &scenarioCycleRW{
		readName:  "test.channel.cycle.1",
		writeName: "test.channel.cycle.2",
		asBehind:  true,
	}

	r := runner.New()
	require.NoError(t, r.AddComponent(cycle1))
	require.NoError(t, r.AddComponent(cycle2))
	require.NoError(t, r.Initialize())

	require.NoError(t, r.Dispatch())
	require.NoError(t, r.Dispatch())

	assert.Equal(t, []int64{34, 100}, cycle2.observed)
	assert.Equal(t, []int64{100, 100}, cycle1.observed)
}

// TestScenario_AllFiveComponentsTogether exercises the full registration
// order (dangling before write before read) and the full five-component
// graph in one runner, mirroring both scenarios running side by side.
func TestScenario_AllFiveComponentsTogether(t *testing.T) {
	adder := &scenarioAdder{
		inputName:  "test.channel",
		outputName: "test.channel.add",
		modName:    "test.channel.mod",
	}
	producer := &scenarioProducer{name: "test.channel", value: 40}
	modifier := &scenarioModifier{}
	cycle1 := &scenarioCycleRW{
		readName:  "test.channel.cycle.2",
		writeName: "test.channel.cycle.1",
		asBehind:  false,
	}
	cycle2 := &scenarioCycleRW{
		readName:  "test.channel.cycle.1",
		writeName: "test.channel.cycle.2",
		asBehind:  true,
	}

	r := runner.New()
	require.NoError(t, r.AddComponent(adder))
	require.NoError(t, r.AddComponent(producer))
	require.NoError(t, r.AddComponent(modifier))
	require.NoError(t, r.AddComponent(cycle1))
	require.NoError(t, r.AddComponent(cycle2))
	require.NoError(t, r.Initialize())

	require.NoError(t, r.Dispatch())
	require.NoError(t, r.Dispatch())

	assert.Equal(t, []int64{51, 103}, adder.observed)
	assert.Equal(t, []int64{34, 100}, cycle2.observed)
	assert.Equal(t, []int64{100, 100}, cycle1.observed)
}
