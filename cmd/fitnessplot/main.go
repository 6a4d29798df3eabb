package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/google/uuid"
	"github.com/lao-tseu-is-alive/go-ga-steering/internal/report"
	"github.com/lao-tseu-is-alive/go-ga-steering/internal/storage"
	"github.com/tochemey/goakt/v3/log"
)

func main() {
	dbPath := flag.String("db", "runs.db", "sqlite file written by plan -db")
	out := flag.String("out", "fitness.png", "fitness history PNG")
	runID := flag.String("run", "", "also plot the best paths of this run id")
	agent := flag.Int("agent", -1, "also plot the best paths of this agent's last run")
	pathsOut := flag.String("paths", "paths.png", "best paths PNG")
	flag.Parse()

	logger := log.New(log.InfoLevel, os.Stdout)
	ctx := context.Background()

	if _, err := os.Stat(*dbPath); err != nil {
		logger.Fatalf("database: %v", err)
	}
	store := storage.NewSQLiteStore(*dbPath)
	if err := store.Init(ctx); err != nil {
		logger.Fatalf("storage: %v", err)
	}
	defer store.Close()

	avgs, err := store.GenerationAverages(ctx)
	if err != nil {
		logger.Fatalf("averages: %v", err)
	}
	if err := report.FitnessHistory(avgs, *out); err != nil {
		logger.Fatalf("plot: %v", err)
	}
	logger.Infof("wrote %s from %d generations", *out, len(avgs))

	id, err := pickRun(ctx, store, *runID, *agent)
	if errors.Is(err, storage.ErrNotFound) {
		logger.Warnf("no run to plot paths for")
		return
	}
	if err != nil {
		logger.Fatalf("run: %v", err)
	}
	if id == uuid.Nil {
		return
	}
	run, err := store.GetRun(ctx, id)
	if err != nil {
		logger.Fatalf("run %s: %v", id, err)
	}
	if err := report.BestPaths(run, nil, *pathsOut); err != nil {
		logger.Fatalf("plot: %v", err)
	}
	logger.Infof("wrote %s for run %s", *pathsOut, id)
}

// pickRun resolves -run or -agent to a run id. uuid.Nil means neither was given.
func pickRun(ctx context.Context, store storage.Store, runID string, agent int) (uuid.UUID, error) {
	if runID != "" {
		return uuid.Parse(runID)
	}
	if agent < 0 {
		return uuid.Nil, nil
	}
	runs, err := store.ListRuns(ctx, storage.RunFilter{AgentID: &agent})
	if err != nil {
		return uuid.Nil, err
	}
	if len(runs) == 0 {
		return uuid.Nil, storage.ErrNotFound
	}
	return runs[len(runs)-1].RunID, nil
}
