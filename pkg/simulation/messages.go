package simulation

import (
	"fmt"

	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/geometry"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Every actor message is a structpb.Struct tagged with a "kind" field.
const (
	kindTick         = "tick" // fire and forget, snapshot on the channel only
	kindStep         = "step" // tick answered with the snapshot
	kindBeforeUpdate = "before_update"
	kindAfterUpdate  = "after_update"
	kindGetState     = "get_state"
	kindAgentState   = "agent_state"
	kindSnapshot     = "snapshot"
)

// AgentState is the public view of an agent after a tick.
type AgentState struct {
	ID          int
	Name        string
	Position    geometry.Vector2D
	Forward     geometry.Vector2D
	Velocity    geometry.Vector2D
	Corner      geometry.Vector2D
	Destination geometry.Vector2D
	Radius      float64
	Arrived     bool
}

// Snapshot is the crowd after a tick.
type Snapshot struct {
	Tick    uint64
	Agents  []AgentState
	Arrived int
}

// Done reports whether every agent reached its destination.
func (s *Snapshot) Done() bool {
	return s != nil && len(s.Agents) > 0 && s.Arrived == len(s.Agents)
}

func newMessage(kind string, fields map[string]*structpb.Value) *structpb.Struct {
	if fields == nil {
		fields = make(map[string]*structpb.Value, 1)
	}
	fields["kind"] = structpb.NewStringValue(kind)
	return &structpb.Struct{Fields: fields}
}

func kindOf(msg proto.Message) string {
	s, ok := msg.(*structpb.Struct)
	if !ok {
		return ""
	}
	return s.GetFields()["kind"].GetStringValue()
}

func number(s *structpb.Struct, key string) float64 {
	return s.GetFields()[key].GetNumberValue()
}

func vectorValue(v geometry.Vector2D) *structpb.Value {
	return structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
		"x": structpb.NewNumberValue(v.X),
		"y": structpb.NewNumberValue(v.Y),
	}})
}

func vectorOf(v *structpb.Value) geometry.Vector2D {
	s := v.GetStructValue()
	return geometry.Vector2D{X: number(s, "x"), Y: number(s, "y")}
}

func tickMessage() *structpb.Struct {
	return newMessage(kindTick, nil)
}

func stepMessage() *structpb.Struct {
	return newMessage(kindStep, nil)
}

func beforeUpdateMessage(tick uint64, dt float64) *structpb.Struct {
	return newMessage(kindBeforeUpdate, map[string]*structpb.Value{
		"tick": structpb.NewNumberValue(float64(tick)),
		"dt":   structpb.NewNumberValue(dt),
	})
}

func afterUpdateMessage() *structpb.Struct {
	return newMessage(kindAfterUpdate, nil)
}

func getStateMessage() *structpb.Struct {
	return newMessage(kindGetState, nil)
}

func (a *Agent) State() AgentState {
	return AgentState{
		ID:          a.ID,
		Name:        a.Name,
		Position:    a.Position,
		Forward:     a.Forward,
		Velocity:    a.Velocity,
		Corner:      a.Corner(),
		Destination: a.Destination,
		Radius:      a.params.Radius,
		Arrived:     a.arrived,
	}
}

func (s AgentState) fields() map[string]*structpb.Value {
	return map[string]*structpb.Value{
		"id":          structpb.NewNumberValue(float64(s.ID)),
		"name":        structpb.NewStringValue(s.Name),
		"position":    vectorValue(s.Position),
		"forward":     vectorValue(s.Forward),
		"velocity":    vectorValue(s.Velocity),
		"corner":      vectorValue(s.Corner),
		"destination": vectorValue(s.Destination),
		"radius":      structpb.NewNumberValue(s.Radius),
		"arrived":     structpb.NewBoolValue(s.Arrived),
	}
}

func agentStateMessage(s AgentState) *structpb.Struct {
	return newMessage(kindAgentState, s.fields())
}

func agentStateFrom(s *structpb.Struct) AgentState {
	f := s.GetFields()
	return AgentState{
		ID:          int(f["id"].GetNumberValue()),
		Name:        f["name"].GetStringValue(),
		Position:    vectorOf(f["position"]),
		Forward:     vectorOf(f["forward"]),
		Velocity:    vectorOf(f["velocity"]),
		Corner:      vectorOf(f["corner"]),
		Destination: vectorOf(f["destination"]),
		Radius:      f["radius"].GetNumberValue(),
		Arrived:     f["arrived"].GetBoolValue(),
	}
}

// decodeAgentState checks the kind of an agent reply.
func decodeAgentState(msg proto.Message) (AgentState, error) {
	if kindOf(msg) != kindAgentState {
		return AgentState{}, fmt.Errorf("unexpected reply %T (kind %q)", msg, kindOf(msg))
	}
	return agentStateFrom(msg.(*structpb.Struct)), nil
}

func snapshotMessage(snap *Snapshot) *structpb.Struct {
	agents := make([]*structpb.Value, len(snap.Agents))
	for i, a := range snap.Agents {
		agents[i] = structpb.NewStructValue(&structpb.Struct{Fields: a.fields()})
	}
	return newMessage(kindSnapshot, map[string]*structpb.Value{
		"tick":    structpb.NewNumberValue(float64(snap.Tick)),
		"arrived": structpb.NewNumberValue(float64(snap.Arrived)),
		"agents":  structpb.NewListValue(&structpb.ListValue{Values: agents}),
	})
}

func decodeSnapshot(msg proto.Message) (*Snapshot, error) {
	if kindOf(msg) != kindSnapshot {
		return nil, fmt.Errorf("unexpected reply %T (kind %q)", msg, kindOf(msg))
	}
	s := msg.(*structpb.Struct)
	values := s.GetFields()["agents"].GetListValue().GetValues()
	snap := &Snapshot{
		Tick:    uint64(number(s, "tick")),
		Arrived: int(number(s, "arrived")),
		Agents:  make([]AgentState, len(values)),
	}
	for i, v := range values {
		snap.Agents[i] = agentStateFrom(v.GetStructValue())
	}
	return snap, nil
}
