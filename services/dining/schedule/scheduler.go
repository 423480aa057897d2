package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"umddining-backend/lib/timezone"

	"github.com/robfig/cron/v3"
)

const DefaultSpec = "0 6 * * *"

type Options struct {
	// standard 5 field cron spec in the site's timezone, if unspecified,
	// DefaultSpec
	Spec string
	// how long a single run may take, if unspecified, 10 minutes
	Timeout time.Duration
	// called with the result of every run
	OnResult func(Result)
}

// Scheduler scrapes today's menus on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	runner Runner
	opts   Options
}

func NewScheduler(runner Runner, opts Options) (*Scheduler, error) {
	if opts.Spec == "" {
		opts.Spec = DefaultSpec
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Minute
	}
	_, err := cron.ParseStandard(opts.Spec)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule '%s': %w", opts.Spec, err)
	}

	s := &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLogger{}),
			cron.WithLocation(timezone.Location),
		),
		runner: runner,
		opts:   opts,
	}
	return s, nil
}

// Run starts the schedule and blocks until ctx is done, then waits for a
// run in progress to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.opts.Spec, func() {
		runCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()

		result := Invoke(runCtx, s.runner, "")
		slog.InfoContext(
			ctx, "scheduled scrape finished",
			"success", result.Success,
			"date", result.Date,
			"items_scraped", result.ItemsScraped,
		)
		if s.opts.OnResult != nil {
			s.opts.OnResult(result)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	slog.InfoContext(ctx, "started scrape schedule", "spec", s.opts.Spec)

	<-ctx.Done()
	<-s.cron.Stop().Done()
	return nil
}

type cronLogger struct{}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error("cron: "+msg, append(keysAndValues, "err", err)...)
}
