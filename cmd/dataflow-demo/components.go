package main

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/riverline/dataflow/channel"
	"github.com/riverline/dataflow/runner"
	"github.com/riverline/dataflow/token"
)

// CounterComponent owns a single counter channel and increments it every
// tick, seeded from an optional YAML file.
type CounterComponent struct {
	runner.BaseComponent
	name string
	init int64

	tok  token.Owner[int64]
	last int64
}

func (c *CounterComponent) RegisterWrite(b channel.WriteBuilder, s *channel.Store) {
	c.tok, _ = channel.RegisterWriteChannel[int64](b, s, c.name, c.init)
}

func (c *CounterComponent) Dispatch(s *channel.Store) {
	view := channel.MustGrabOwner(s, c.tok)
	view.Set(view.Get() + 1)
	c.last = view.Get()
}

// RedisSnapshotComponent reads an upstream channel each tick and SETs its
// value into redis. It owns a small status channel counting successful
// writes, so its effect on the graph is visible to other components the
// way any other owner is. Dispatch stays synchronous: no goroutines, one
// blocking call per tick, matching the runner's single-threaded contract.
type RedisSnapshotComponent struct {
	runner.BaseComponent
	client    *redis.Client
	key       string
	inputName string

	inputTok  token.Reader[int64]
	statusTok token.Owner[int64]
}

func (r *RedisSnapshotComponent) RegisterWrite(b channel.WriteBuilder, s *channel.Store) {
	r.statusTok, _ = channel.RegisterWriteChannel[int64](b, s, "demo.redis.snapshot.writes", 0)
}

func (r *RedisSnapshotComponent) RegisterRead(b channel.ReadBuilder, s *channel.Store) {
	r.inputTok, _ = channel.BindReadChannel[int64](b, s, r.inputName)
}

func (r *RedisSnapshotComponent) Dispatch(s *channel.Store) {
	value := channel.MustGrabReader(s, r.inputTok).Get()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := r.client.Set(ctx, r.key, value, 0).Err(); err != nil {
		return
	}

	status := channel.MustGrabOwner(s, r.statusTok)
	status.Set(status.Get() + 1)
}
