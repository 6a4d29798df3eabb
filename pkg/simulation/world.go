package simulation

import (
	"context"
	"time"

	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/planner"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/spatial"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"google.golang.org/protobuf/types/known/structpb"
)

// CrowdActor owns the authoritative agent states and drives the tick:
// rebuild the neighbour index, tell every agent to plan, then ask every
// agent for its new state.
type CrowdActor struct {
	ctx      context.Context
	cfg      *Config
	steering planner.Steering
	paths    PathPlanner
	build    spatial.Builder
	index    *sharedIndex

	pids   []*actor.PID
	states []AgentState
	discs  []spatial.Disc
	tick   uint64

	// Communication with UI
	snapshotCh chan<- *Snapshot

	// --- Benchmark Stats ---
	msgSentCount int
	lastLogTime  time.Time
	tickDuration time.Duration
}

var _ actor.Actor = (*CrowdActor)(nil)

func NewCrowdActor(ctx context.Context, cfg *Config, steering planner.Steering, paths PathPlanner,
	build spatial.Builder, snapshotCh chan<- *Snapshot) *CrowdActor {
	return &CrowdActor{
		ctx:         ctx,
		cfg:         cfg,
		steering:    steering,
		paths:       paths,
		build:       build,
		index:       &sharedIndex{},
		snapshotCh:  snapshotCh,
		lastLogTime: time.Now(),
	}
}

func (w *CrowdActor) PreStart(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("Crowd is spawning %d agents (%s)...", w.cfg.Agents, w.cfg.Scenario)
	return nil
}

func (w *CrowdActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("Crowd is shutdown after %d ticks", w.tick)
	return nil
}

func (w *CrowdActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *goaktpb.PostStart:
		w.spawnCrowd(ctx)

	case *structpb.Struct:
		switch kindOf(msg) {
		case kindTick, kindStep:
			start := time.Now()
			snap := w.step(ctx)
			w.tickDuration = time.Since(start)
			w.logBenchmarks(ctx)
			w.pushSnapshot(snap)
			if kindOf(msg) == kindStep {
				ctx.Response(snapshotMessage(snap))
			}
		case kindGetState:
			ctx.Response(snapshotMessage(w.buildSnapshot()))
		default:
			ctx.Unhandled()
		}

	default:
		ctx.Unhandled()
	}
}

func (w *CrowdActor) spawnCrowd(ctx *actor.ReceiveContext) {
	spawns, err := w.cfg.Layout()
	if err != nil {
		ctx.Logger().Errorf("Crowd cannot lay out scenario: %v", err)
		return
	}
	params := w.cfg.agentParams()
	for i, s := range spawns {
		agent := NewAgent(i+1, s, params, w.paths)
		pid := ctx.Spawn(s.Name, NewAgentActor(agent, w.steering, w.index, w.cfg.Async))
		w.pids = append(w.pids, pid)
		// recorded now so that the first tick already sees every agent
		w.states = append(w.states, agent.State())
	}
	ctx.Logger().Infof("Crowd spawned %d agents", len(w.pids))
}

// step runs one tick and returns the resulting snapshot.
func (w *CrowdActor) step(ctx *actor.ReceiveContext) *Snapshot {
	w.tick++
	w.rebuildIndex()

	before := beforeUpdateMessage(w.tick, w.cfg.TickInterval)
	for i, pid := range w.pids {
		if w.states[i].Arrived {
			continue
		}
		w.msgSentCount++
		ctx.Tell(pid, before)
	}

	after := afterUpdateMessage()
	timeout := w.stepTimeout()
	for i, pid := range w.pids {
		if w.states[i].Arrived {
			continue
		}
		w.msgSentCount++
		reply, err := actor.Ask(w.ctx, pid, after, timeout)
		if err != nil {
			ctx.Logger().Warnf("Crowd tick %d: %s did not answer: %v", w.tick, w.states[i].Name, err)
			continue
		}
		state, err := decodeAgentState(reply)
		if err != nil {
			ctx.Logger().Warnf("Crowd tick %d: %s: %v", w.tick, w.states[i].Name, err)
			continue
		}
		if state.Arrived {
			ctx.Logger().Infof("%s arrived at %s on tick %d", state.Name, state.Position, w.tick)
		}
		w.states[i] = state
	}
	return w.buildSnapshot()
}

func (w *CrowdActor) stepTimeout() time.Duration {
	return time.Duration(w.cfg.StepTimeoutMs) * time.Millisecond
}

// rebuildIndex publishes the discs of the last known positions.
func (w *CrowdActor) rebuildIndex() {
	w.discs = w.discs[:0]
	for _, s := range w.states {
		w.discs = append(w.discs, spatial.Disc{ID: s.ID, Center: s.Position, Radius: s.Radius})
	}
	w.index.Store(w.build(w.discs))
}

func (w *CrowdActor) logBenchmarks(ctx *actor.ReceiveContext) {
	if time.Since(w.lastLogTime) >= time.Second {
		ctx.Logger().Infof("📊 tick %d: %d msg/sec | last tick %s | agents: %d",
			w.tick, w.msgSentCount, w.tickDuration, len(w.pids))
		w.msgSentCount = 0
		w.lastLogTime = time.Now()
	}
}

func (w *CrowdActor) pushSnapshot(snap *Snapshot) {
	if w.snapshotCh == nil {
		return
	}
	select {
	case w.snapshotCh <- snap:
	default:
		// UI busy, skip frame
	}
}

func (w *CrowdActor) buildSnapshot() *Snapshot {
	snap := &Snapshot{
		Tick:   w.tick,
		Agents: make([]AgentState, len(w.states)),
	}
	copy(snap.Agents, w.states)
	for _, s := range w.states {
		if s.Arrived {
			snap.Arrived++
		}
	}
	return snap
}
