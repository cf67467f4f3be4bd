package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/leoyin88/user-api/internal/metrics"
	"github.com/leoyin88/user-api/internal/repo"
)

// DefaultSpec refreshes the stats gauges once a minute.
const DefaultSpec = "* * * * *"

// Stats is a background job that periodically publishes the stored-user count
// and connection-pool stats to the prometheus gauges.
type Stats struct {
	DB   *sql.DB
	Repo *repo.UserRepo
	cron *cron.Cron
}

func NewStats(db *sql.DB, userRepo *repo.UserRepo) *Stats {
	return &Stats{DB: db, Repo: userRepo}
}

// Start registers the refresh job with the given cron spec and starts the
// scheduler. An immediate refresh runs first so gauges are populated before
// the first tick.
func (s *Stats) Start(spec string) error {
	if spec == "" {
		spec = DefaultSpec
	}
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(spec, s.refresh); err != nil {
		return err
	}
	s.refresh()
	s.cron.Start()
	return nil
}

// Stop halts the scheduler and waits for a running refresh to finish.
func (s *Stats) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

func (s *Stats) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if n, err := s.Repo.Count(ctx); err != nil {
		slog.Warn("stats: count users", "error", err)
	} else {
		metrics.SetUsersTotal(n)
	}

	st := s.DB.Stats()
	metrics.SetPoolStats(st.InUse, st.Idle)
}
