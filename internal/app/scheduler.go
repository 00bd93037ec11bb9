package app

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/guttosm/tradepulse/internal/logger"
	"github.com/guttosm/tradepulse/internal/report"
	"github.com/guttosm/tradepulse/internal/service"
)

// Scheduler runs jobs on cron specs that include a seconds field.
type Scheduler struct {
	cron    *cron.Cron
	baseCtx context.Context
	log     zerolog.Logger
}

// NewScheduler builds a stopped scheduler; jobs receive baseCtx.
func NewScheduler(baseCtx context.Context) *Scheduler {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		baseCtx: baseCtx,
		log:     logger.Component("scheduler"),
	}
}

// Add registers job under spec, e.g. "CRON_TZ=Asia/Taipei 0 30 14 * * MON-FRI".
func (s *Scheduler) Add(name, spec string, job func(context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() {
		if err := job(s.baseCtx); err != nil {
			s.log.Error().Err(err).Str("job", name).Msg("scheduled job failed")
			return
		}
		s.log.Info().Str("job", name).Msg("scheduled job done")
	})
	if err != nil {
		return fmt.Errorf("schedule %s %q: %w", name, spec, err)
	}
	return nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.log.Info().Int("jobs", len(s.cron.Entries())).Msg("scheduler started")
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// Pusher delivers chat messages.
type Pusher interface {
	Push(ctx context.Context, to string, texts ...string) error
}

// PushReport generates a fresh report and pushes it in LINE-sized chunks.
func PushReport(ctx context.Context, reports service.ReportService, pusher Pusher, to string) error {
	r, err := reports.Generate(ctx)
	if err != nil {
		return err
	}
	msgs := report.Messages(r, report.LineTextLimit)
	if err := pusher.Push(ctx, to, msgs...); err != nil {
		return fmt.Errorf("push report: %w", err)
	}
	logger.L().Info().Int("messages", len(msgs)).Int("records", r.Summary.Total).Msg("report pushed")
	return nil
}
