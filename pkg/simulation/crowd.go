package simulation

import (
	"context"
	"fmt"
	"time"

	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/planner"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/spatial"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/log"
)

// Crowd runs a scenario on an actor system: one CrowdActor and one
// AgentActor per agent.
type Crowd struct {
	System    actor.ActorSystem
	pid       *actor.PID
	cfg       *Config
	snapshots chan *Snapshot
	logger    log.Logger
}

// Option customizes a Crowd.
type Option func(*crowdOptions)

type crowdOptions struct {
	logger log.Logger
	paths  PathPlanner
	build  spatial.Builder
}

// WithLogger sets the actor system logger. The default discards everything.
func WithLogger(l log.Logger) Option {
	return func(o *crowdOptions) { o.logger = l }
}

// WithPathPlanner replaces the straight-line route.
func WithPathPlanner(p PathPlanner) Option {
	return func(o *crowdOptions) { o.paths = p }
}

// WithIndexBuilder replaces the index selected by Config.Index.
func WithIndexBuilder(b spatial.Builder) Option {
	return func(o *crowdOptions) { o.build = b }
}

// IndexBuilder returns the neighbour index configured by c.Index.
func (c *Config) IndexBuilder() spatial.Builder {
	switch c.Index {
	case IndexGrid:
		return spatial.GridBuilder(c.GridCellSize)
	case IndexLinear:
		return func(discs []spatial.Disc) spatial.Index {
			return append(spatial.Linear(nil), discs...)
		}
	default:
		return spatial.BuildRTree
	}
}

// NewCrowd validates cfg, starts an actor system and spawns the scenario.
func NewCrowd(ctx context.Context, cfg *Config, steering planner.Steering, opts ...Option) (*Crowd, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := crowdOptions{
		logger: log.DiscardLogger,
		paths:  StraightLine{},
		build:  cfg.IndexBuilder(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	system, err := actor.NewActorSystem("Crowd",
		actor.WithLogger(o.logger),
		actor.WithActorInitMaxRetries(3))
	if err != nil {
		return nil, fmt.Errorf("failed to create actor system: %w", err)
	}
	if err := system.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start actor system: %w", err)
	}

	// Buffer to avoid blocking the crowd on a slow viewer
	snapshots := make(chan *Snapshot, 10)
	crowd := NewCrowdActor(ctx, cfg, steering, o.paths, o.build, snapshots)
	pid, err := system.Spawn(ctx, "crowd", crowd)
	if err != nil {
		_ = system.Stop(ctx)
		return nil, fmt.Errorf("failed to spawn crowd: %w", err)
	}
	return &Crowd{
		System:    system,
		pid:       pid,
		cfg:       cfg,
		snapshots: snapshots,
		logger:    o.logger,
	}, nil
}

// tickTimeout bounds a whole tick: every agent may use its step timeout.
func (c *Crowd) tickTimeout() time.Duration {
	return time.Duration(c.cfg.StepTimeoutMs) * time.Millisecond * time.Duration(c.cfg.Agents+1)
}

// Step runs one tick and waits for its snapshot.
func (c *Crowd) Step(ctx context.Context) (*Snapshot, error) {
	reply, err := actor.Ask(ctx, c.pid, stepMessage(), c.tickTimeout())
	if err != nil {
		return nil, fmt.Errorf("tick failed: %w", err)
	}
	return decodeSnapshot(reply)
}

// Tick starts one tick without waiting. The snapshot is delivered on Snapshots.
func (c *Crowd) Tick(ctx context.Context) error {
	return actor.Tell(ctx, c.pid, tickMessage())
}

// Snapshots delivers the snapshot of every tick while a reader keeps up.
// Ticks are dropped when the buffer is full.
func (c *Crowd) Snapshots() <-chan *Snapshot {
	return c.snapshots
}

// Current returns the latest snapshot without running a tick.
func (c *Crowd) Current(ctx context.Context) (*Snapshot, error) {
	reply, err := actor.Ask(ctx, c.pid, getStateMessage(), c.tickTimeout())
	if err != nil {
		return nil, fmt.Errorf("snapshot failed: %w", err)
	}
	return decodeSnapshot(reply)
}

// Run steps until every agent arrived, maxTicks ticks ran (0 is unbounded)
// or ctx is done. observe, when not nil, sees every snapshot.
func (c *Crowd) Run(ctx context.Context, maxTicks int, observe func(*Snapshot)) (*Snapshot, error) {
	var last *Snapshot
	for n := 0; maxTicks == 0 || n < maxTicks; n++ {
		if err := ctx.Err(); err != nil {
			return last, err
		}
		snap, err := c.Step(ctx)
		if err != nil {
			return last, err
		}
		last = snap
		if observe != nil {
			observe(snap)
		}
		if snap.Done() {
			c.logger.Infof("all %d agents arrived after %d ticks", len(snap.Agents), snap.Tick)
			return snap, nil
		}
	}
	if last != nil {
		c.logger.Warnf("stopped after %d ticks with %d/%d agents arrived", last.Tick, last.Arrived, len(last.Agents))
	}
	return last, nil
}

// Stop shuts the actor system down.
func (c *Crowd) Stop(ctx context.Context) error {
	return c.System.Stop(ctx)
}
