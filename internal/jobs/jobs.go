// Package jobs runs the periodic housekeeping tasks of the API.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/harentsoaR/healthcare-api/internal/models"
)

const (
	SweepSchedule  = "@every 5m"
	DigestSchedule = "0 8 * * *"
)

// Sweeper drops revocation entries whose tokens have expired.
type Sweeper interface {
	Sweep(now time.Time) int
}

type PendingDoctorLister interface {
	PendingDoctors(ctx context.Context) ([]models.User, error)
}

type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	pending PendingDoctorLister
	now     func() time.Time
	log     zerolog.Logger
}

// New wires the jobs. sweeper may be nil when revocations live in Redis,
// which expires them itself.
func New(sweeper Sweeper, pending PendingDoctorLister, log zerolog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(),
		sweeper: sweeper,
		pending: pending,
		now:     time.Now,
		log:     log.With().Str("component", "jobs").Logger(),
	}

	if sweeper != nil {
		if _, err := s.cron.AddFunc(SweepSchedule, s.SweepRevocations); err != nil {
			return nil, err
		}
	}
	if _, err := s.cron.AddFunc(DigestSchedule, s.DigestPendingDoctors); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Int("jobs", len(s.cron.Entries())).Msg("scheduler started")
}

// Stop waits for running jobs to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) SweepRevocations() {
	if s.sweeper == nil {
		return
	}
	if n := s.sweeper.Sweep(s.now()); n > 0 {
		s.log.Debug().Int("removed", n).Msg("expired revocations swept")
	}
}

// DigestPendingDoctors logs the doctors still waiting for an admin decision.
func (s *Scheduler) DigestPendingDoctors() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	doctors, err := s.pending.PendingDoctors(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("list pending doctors")
		return
	}
	if len(doctors) == 0 {
		return
	}

	ids := make([]string, 0, len(doctors))
	oldest := doctors[0].CreatedAt
	for _, d := range doctors {
		ids = append(ids, d.ID.Hex())
		if d.CreatedAt.Before(oldest) {
			oldest = d.CreatedAt
		}
	}
	s.log.Warn().
		Int("count", len(doctors)).
		Strs("doctor_ids", ids).
		Dur("oldest_wait", s.now().Sub(oldest)).
		Msg("doctors awaiting approval")
}
