package simulation

import (
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/planner"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/spatial"
)

// PathPlanner produces the corner waypoints of the global route from one
// point to another. The last corner is the destination.
type PathPlanner interface {
	Corners(from, to geometry.Vector2D) []geometry.Vector2D
}

// StraightLine routes directly to the destination.
type StraightLine struct{}

func (StraightLine) Corners(_, to geometry.Vector2D) []geometry.Vector2D {
	return []geometry.Vector2D{to}
}

// Waypoints routes through fixed points before the destination.
type Waypoints []geometry.Vector2D

func (w Waypoints) Corners(_, to geometry.Vector2D) []geometry.Vector2D {
	corners := make([]geometry.Vector2D, 0, len(w)+1)
	corners = append(corners, w...)
	return append(corners, to)
}

// AgentParams are the body and kinematic limits shared by all agents.
type AgentParams struct {
	Speed           float64
	Radius          float64
	MaxAcceleration float64
	ArriveDistance  float64
	CornerDistance  float64
}

func (c *Config) agentParams() AgentParams {
	return AgentParams{
		Speed:           c.AgentSpeed,
		Radius:          c.AgentRadius,
		MaxAcceleration: c.MaxAcceleration,
		ArriveDistance:  c.ArriveDistance,
		CornerDistance:  c.CornerDistance,
	}
}

// Agent is the kinematic state of one walker. It is owned by a single
// goroutine: an AgentActor, or a test.
type Agent struct {
	ID          int
	Name        string
	Position    geometry.Vector2D
	Forward     geometry.Vector2D
	Velocity    geometry.Vector2D // displacement applied on the last tick
	Destination geometry.Vector2D

	params        AgentParams
	previousSpeed float64
	corners       []geometry.Vector2D
	corner        int
	arrived       bool
	tickInterval  float64
	job           *planner.Job
}

// NewAgent places an agent at start, facing its first corner.
func NewAgent(id int, spawn Spawn, params AgentParams, paths PathPlanner) *Agent {
	a := &Agent{
		ID:          id,
		Name:        spawn.Name,
		Position:    spawn.Start,
		Destination: spawn.Destination,
		params:      params,
	}
	a.corners = paths.Corners(spawn.Start, spawn.Destination)
	if len(a.corners) == 0 {
		a.corners = []geometry.Vector2D{spawn.Destination}
	}
	a.Forward = a.Corner().Sub(a.Position).Heading(geometry.UnitX)
	return a
}

// Corner is the waypoint the agent is currently steering to.
func (a *Agent) Corner() geometry.Vector2D {
	return a.corners[a.corner]
}

// Arrived reports whether the agent stopped at its destination.
func (a *Agent) Arrived() bool { return a.arrived }

// Planning reports whether a job is in flight.
func (a *Agent) Planning() bool { return a.job != nil }

// Disc is the agent body as seen by the neighbour index.
func (a *Agent) Disc() spatial.Disc {
	return spatial.Disc{ID: a.ID, Center: a.Position, Radius: a.params.Radius}
}

// Scene is what the planner sees of this agent for one tick.
func (a *Agent) Scene(tick uint64, dt float64, index spatial.Index) planner.Scene {
	return planner.Scene{
		AgentID:         a.ID,
		Tick:            tick,
		Position:        a.Position,
		Destination:     a.Corner(),
		Forward:         a.Forward,
		Speed:           a.params.Speed,
		PreviousSpeed:   a.previousSpeed,
		Radius:          a.params.Radius,
		MaxAcceleration: a.params.MaxAcceleration,
		TickInterval:    dt,
		Index:           index,
	}
}

// BeforeUpdate submits the planning job of this tick. An agent within
// ArriveDistance of its destination stops instead. With async the job runs
// on its own goroutine until AfterUpdate joins it.
func (a *Agent) BeforeUpdate(steering planner.Steering, tick uint64, dt float64, index spatial.Index, async bool) {
	if a.arrived || a.job != nil {
		return
	}
	if a.Position.DistanceTo(a.Destination) <= a.params.ArriveDistance {
		a.stop()
		return
	}
	a.tickInterval = dt
	scene := a.Scene(tick, dt, index)
	if async {
		a.job = planner.Schedule(steering, scene)
	} else {
		a.job = planner.Inline(steering, scene)
	}
}

// AfterUpdate joins the job, moves by the winner velocity and advances to the
// next corner when the current one is within CornerDistance.
func (a *Agent) AfterUpdate() {
	if a.job == nil {
		return
	}
	res := a.job.Complete()
	a.job = nil

	a.Velocity = res.Velocity
	a.Position = res.Target
	a.previousSpeed = res.Velocity.Len() / a.tickInterval
	a.Forward = res.Velocity.Heading(a.Forward)

	last := len(a.corners) - 1
	if a.corner < last && a.Position.DistanceTo(a.Corner()) < a.params.CornerDistance {
		a.corner++
	}
	if a.Position.DistanceTo(a.Destination) <= a.params.ArriveDistance {
		a.stop()
	}
}

func (a *Agent) stop() {
	a.arrived = true
	a.Velocity = geometry.Vector2D{}
	a.previousSpeed = 0
}
