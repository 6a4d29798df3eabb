package simulation

import (
	"sync/atomic"

	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/planner"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/spatial"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"google.golang.org/protobuf/types/known/structpb"
)

// sharedIndex publishes the neighbour snapshot of the current tick to every
// agent actor. The crowd stores a new index only once all agents answered
// the previous tick.
type sharedIndex struct {
	p atomic.Pointer[indexRef]
}

type indexRef struct {
	spatial.Index
}

func (s *sharedIndex) Store(idx spatial.Index) {
	s.p.Store(&indexRef{Index: idx})
}

func (s *sharedIndex) Load() spatial.Index {
	if ref := s.p.Load(); ref != nil && ref.Index != nil {
		return ref.Index
	}
	return spatial.Empty{}
}

// AgentActor owns one Agent and runs its two update phases.
type AgentActor struct {
	agent    *Agent
	steering planner.Steering
	index    *sharedIndex
	async    bool
}

var _ actor.Actor = (*AgentActor)(nil)

func NewAgentActor(agent *Agent, steering planner.Steering, index *sharedIndex, async bool) *AgentActor {
	return &AgentActor{
		agent:    agent,
		steering: steering,
		index:    index,
		async:    async,
	}
}

// ============================================================================
// Actor Lifecycle Hooks
// ============================================================================

func (a *AgentActor) PreStart(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Debugf("[%s] born at %s heading to %s",
		ctx.ActorName(), a.agent.Position, a.agent.Destination)
	return nil
}

func (a *AgentActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Debugf("[%s] stopped at %s", ctx.ActorName(), a.agent.Position)
	return nil
}

// ============================================================================
// Message Routing
// ============================================================================

func (a *AgentActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *goaktpb.PostStart:
		ctx.Logger().Debugf("[%s] ready", a.agent.Name)

	case *structpb.Struct:
		switch kindOf(msg) {
		case kindBeforeUpdate:
			tick := uint64(number(msg, "tick"))
			a.agent.BeforeUpdate(a.steering, tick, number(msg, "dt"), a.index.Load(), a.async)
		case kindAfterUpdate:
			a.agent.AfterUpdate()
			ctx.Response(agentStateMessage(a.agent.State()))
		case kindGetState:
			ctx.Response(agentStateMessage(a.agent.State()))
		default:
			ctx.Unhandled()
		}

	default:
		ctx.Unhandled()
	}
}
