package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const (
	HourlySpec      = "@hourly"
	EveryTenMinutes = "@every 10m"
)

type TokenCleaner interface {
	CleanupExpired(ctx context.Context) (int64, error)
}

type Pruner interface {
	Prune() int
}

// Scheduler runs the periodic housekeeping jobs of the API server.
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		log:  log.With().Str("component", "scheduler").Logger(),
	}
}

// AddTokenCleanup purges expired refresh tokens on the given cron schedule.
func (s *Scheduler) AddTokenCleanup(schedule string, cleaner TokenCleaner) error {
	_, err := s.cron.AddFunc(schedule, func() { s.cleanupTokens(cleaner) })
	return err
}

// AddLimiterPrune drops idle rate limiter buckets on the given cron schedule.
func (s *Scheduler) AddLimiterPrune(schedule string, p Pruner) error {
	_, err := s.cron.AddFunc(schedule, func() {
		if n := p.Prune(); n > 0 {
			s.log.Debug().Int("removed", n).Msg("pruned rate limiter buckets")
		}
	})
	return err
}

func (s *Scheduler) cleanupTokens(cleaner TokenCleaner) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := cleaner.CleanupExpired(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("refresh token cleanup failed")
		return
	}
	s.log.Info().Int64("removed", n).Msg("expired refresh tokens purged")
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Int("jobs", len(s.cron.Entries())).Msg("scheduler started")
}

// Stop halts scheduling and waits for running jobs up to ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}
