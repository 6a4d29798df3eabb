// Package storage keeps the diagnostic run logs produced by planners.
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/planner"
	"github.com/tochemey/goakt/v3/log"
)

var (
	ErrNotFound       = errors.New("run not found")
	ErrNotInitialized = errors.New("store is not initialized")
)

// RunFilter narrows ListRuns. Zero values match everything.
type RunFilter struct {
	AgentID *int
	Limit   int
}

// GenerationAverage is the mean over stored runs of one generation's records.
type GenerationAverage struct {
	Generation int
	Best       float64
	Mean       float64
	Runs       int
}

// Store persists run logs.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run planner.RunLog) error
	GetRun(ctx context.Context, id uuid.UUID) (planner.RunLog, error)
	// ListRuns returns runs without their records, oldest first.
	ListRuns(ctx context.Context, filter RunFilter) ([]planner.RunLog, error)
	GenerationAverages(ctx context.Context) ([]GenerationAverage, error)
	Close() error
}

// Sink adapts a Store to planner.Sink. Failures are logged and returned.
type Sink struct {
	ctx    context.Context
	store  Store
	logger log.Logger
}

func NewSink(ctx context.Context, store Store, logger log.Logger) *Sink {
	return &Sink{ctx: ctx, store: store, logger: logger}
}

func (s *Sink) Append(run planner.RunLog) error {
	if err := s.store.SaveRun(s.ctx, run); err != nil {
		s.logger.Warnf("failed to save run %s of agent %d: %v", run.RunID, run.AgentID, err)
		return err
	}
	return nil
}
