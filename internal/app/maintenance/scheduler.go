package maintenance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/charlesng35/paintstore/pkg/logger"
)

const defaultJobTimeout = 2 * time.Minute

// Job is a background task run on a cron schedule, such as rebuilding the
// recommendation index.
type Job struct {
	Name string
	// Spec is a cron specification or descriptor such as "@every 15m".
	Spec string
	Run  func(ctx context.Context) error
}

// Scheduler runs maintenance jobs on their schedules.
type Scheduler struct {
	cron    *cron.Cron
	log     *zap.Logger
	timeout time.Duration
	jobs    []Job
	started bool
}

// Option customises the Scheduler.
type Option func(*Scheduler)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.cron = c
		}
	}
}

// WithLogger overrides the scheduler logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Scheduler) {
		if log != nil {
			s.log = log
		}
	}
}

// WithJobTimeout bounds how long a single scheduled run may take.
func WithJobTimeout(timeout time.Duration) Option {
	return func(s *Scheduler) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// NewScheduler constructs an idle Scheduler.
func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{
		log:     logger.WithModule("maintenance"),
		timeout: defaultJobTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cron == nil {
		s.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}
	return s
}

// Add registers a job. Jobs must be added before Start.
func (s *Scheduler) Add(job Job) error {
	job.Name = strings.TrimSpace(job.Name)
	job.Spec = strings.TrimSpace(job.Spec)
	if job.Name == "" {
		return errors.New("maintenance: job name is required")
	}
	if job.Run == nil {
		return fmt.Errorf("maintenance: job %s has no run function", job.Name)
	}
	if s.started {
		return fmt.Errorf("maintenance: job %s added after start", job.Name)
	}
	if _, err := cron.ParseStandard(job.Spec); err != nil {
		return fmt.Errorf("maintenance: job %s: invalid schedule %q: %w", job.Name, job.Spec, err)
	}
	s.jobs = append(s.jobs, job)
	return nil
}

// Jobs returns the registered job names.
func (s *Scheduler) Jobs() []string {
	names := make([]string, len(s.jobs))
	for i, job := range s.jobs {
		names[i] = job.Name
	}
	return names
}

// Start registers jobs with the cron scheduler and launches it if at least
// one job exists.
func (s *Scheduler) Start() error {
	if len(s.jobs) == 0 || s.started {
		return nil
	}

	for _, job := range s.jobs {
		job := job
		if _, err := s.cron.AddFunc(job.Spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
			defer cancel()
			s.run(ctx, job)
		}); err != nil {
			return fmt.Errorf("maintenance: schedule %s: %w", job.Name, err)
		}
	}

	s.cron.Start()
	s.started = true
	return nil
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (s *Scheduler) Stop() context.Context {
	if s.cron == nil {
		return context.Background()
	}
	return s.cron.Stop()
}

// RunOnce executes every job sequentially. Used at startup to warm state and
// in tests.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var errs error
	for _, job := range s.jobs {
		if err := s.run(ctx, job); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", job.Name, err))
		}
	}
	return errs
}

func (s *Scheduler) run(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			s.log.Warn("maintenance job failed", zap.String("job", job.Name), zap.Error(err))
		}
	}()
	return job.Run(ctx)
}
