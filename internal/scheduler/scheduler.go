package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	Timezone              = "UTC"
	TimezoneOffsetSeconds = 0
	purgeTimeout          = 30 * time.Second
)

// Purger drops expired entries and reports how many were removed.
type Purger interface {
	PurgeExpired(ctx context.Context) (int, error)
}

// Scheduler periodically purges expired follow-up sessions.
type Scheduler struct {
	ctx    context.Context
	cron   *cron.Cron
	spec   string
	purger Purger
	log    *slog.Logger
}

func New(ctx context.Context, spec string, purger Purger, log *slog.Logger) *Scheduler {
	c := cron.New(cron.WithLocation(time.FixedZone(Timezone, TimezoneOffsetSeconds)))

	return &Scheduler{
		ctx:    ctx,
		cron:   c,
		spec:   spec,
		purger: purger,
		log:    log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.purgeSessions); err != nil {
		return err
	}

	s.cron.Start()

	return nil
}

// Stop stops the schedule and waits for a running purge to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) purgeSessions() {
	ctx, cancel := context.WithTimeout(s.ctx, purgeTimeout)
	defer cancel()

	select {
	case <-ctx.Done():
		s.log.InfoContext(ctx, "Scheduler context is done",
			"error", ctx.Err())
		return
	default:
	}

	purged, err := s.purger.PurgeExpired(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to purge expired sessions",
			"error", err)
		return
	}

	if purged > 0 {
		s.log.DebugContext(ctx, "Purged expired sessions",
			"count", purged)
	}
}
