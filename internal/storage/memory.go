package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/planner"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[uuid.UUID]planner.RunLog
	order       []uuid.UUID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[uuid.UUID]planner.RunLog)
	s.order = nil
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run planner.RunLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}
	if _, ok := s.runs[run.RunID]; !ok {
		s.order = append(s.order, run.RunID)
	}
	run.Records = cloneRecords(run.Records)
	s.runs[run.RunID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id uuid.UUID) (planner.RunLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return planner.RunLog{}, ErrNotInitialized
	}
	run, ok := s.runs[id]
	if !ok {
		return planner.RunLog{}, ErrNotFound
	}
	run.Records = cloneRecords(run.Records)
	return run, nil
}

func (s *MemoryStore) ListRuns(_ context.Context, filter RunFilter) ([]planner.RunLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, ErrNotInitialized
	}
	var out []planner.RunLog
	for _, id := range s.order {
		run := s.runs[id]
		if filter.AgentID != nil && run.AgentID != *filter.AgentID {
			continue
		}
		run.Records = nil
		out = append(out, run)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (s *MemoryStore) GenerationAverages(_ context.Context) ([]GenerationAverage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, ErrNotInitialized
	}
	byGen := make(map[int]*GenerationAverage)
	for _, run := range s.runs {
		for _, rec := range run.Records {
			avg, ok := byGen[rec.Generation]
			if !ok {
				avg = &GenerationAverage{Generation: rec.Generation}
				byGen[rec.Generation] = avg
			}
			avg.Best += rec.Best
			avg.Mean += rec.Mean
			avg.Runs++
		}
	}
	out := make([]GenerationAverage, 0, len(byGen))
	for _, avg := range byGen {
		avg.Best /= float64(avg.Runs)
		avg.Mean /= float64(avg.Runs)
		out = append(out, *avg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Generation < out[j].Generation })
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

func cloneRecords(in []planner.GenerationRecord) []planner.GenerationRecord {
	if in == nil {
		return nil
	}
	out := make([]planner.GenerationRecord, len(in))
	for i, rec := range in {
		rec.BestPath = append([]geometry.Vector2D(nil), rec.BestPath...)
		out[i] = rec
	}
	return out
}
