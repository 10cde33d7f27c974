package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/charlesng35/paintstore/internal/api"
	"github.com/charlesng35/paintstore/internal/app"
	"github.com/charlesng35/paintstore/internal/app/maintenance"
	"github.com/charlesng35/paintstore/internal/firebase"
	"github.com/charlesng35/paintstore/internal/monitoring"
	"github.com/charlesng35/paintstore/internal/monitoring/checks"
	"github.com/charlesng35/paintstore/internal/recommender"
)

const (
	indexJobName = "recommendation_index"
	// a scheduled index is stale after this many missed runs
	staleAfterRuns = 3
)

// runtimeDeps are the external handles the stack is built on. Source
// overrides the Realtime Database orders source.
type runtimeDeps struct {
	Firebase *firebase.App
	Source   recommender.OrderSource
}

// runtimeStack bundles long-lived services used by the HTTP server.
type runtimeStack struct {
	Monitoring  *monitoring.Module
	Recommender *recommender.Service
	Scheduler   *maintenance.Scheduler
	Router      *gin.Engine
}

// bootstrapRuntime initialises monitoring, the recommender, its refresh
// schedule and the HTTP router.
func bootstrapRuntime(ctx context.Context, cfg *app.Config, log *zap.Logger, deps runtimeDeps) (*runtimeStack, error) {
	stack := &runtimeStack{}
	var err error
	success := false

	defer func() {
		if !success {
			_ = stack.Shutdown(context.Background(), log)
		}
	}()

	// enable gin debug mod
	if debug, _ := os.LookupEnv("GIN_DEBUG"); debug != "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.Monitoring.Prometheus.Enabled || cfg.Monitoring.Health.Enabled {
		stack.Monitoring, err = monitoring.NewModule(monitoring.Options{})
		if err != nil {
			return nil, fmt.Errorf("initialise monitoring: %w", err)
		}
		monitoring.SetModule(stack.Monitoring)
	}

	source := deps.Source
	if source == nil {
		if deps.Firebase == nil {
			return nil, errors.New("firebase app must be provided")
		}
		source = recommender.NewDatabaseSource(deps.Firebase.Reader(), cfg.Recommender.OrdersRef)
	}

	schedule := strings.TrimSpace(cfg.Recommender.RefreshSchedule)
	stack.Recommender, err = recommender.NewService(source, recommender.WithCaching(schedule != ""))
	if err != nil {
		return nil, fmt.Errorf("initialise recommender: %w", err)
	}

	if deps.Firebase != nil {
		stack.Monitoring.Health().RegisterReadiness(checks.Firebase(deps.Firebase.Ready))
	}

	if schedule != "" {
		stack.Scheduler = maintenance.NewScheduler()
		if err := stack.Scheduler.Add(maintenance.Job{
			Name: indexJobName,
			Spec: schedule,
			Run: func(ctx context.Context) error {
				_, err := stack.Recommender.Refresh(ctx)
				return err
			},
		}); err != nil {
			return nil, err
		}

		stack.Monitoring.Health().RegisterReadiness(checks.RecommendationIndex(staleAfter(schedule, time.Now())))

		// a failed warm-up is retried by the schedule; queries load on demand meanwhile
		if err := stack.Scheduler.RunOnce(ctx); err != nil {
			log.Warn("initial recommendation index build failed", zap.Error(err))
		}
		if err := stack.Scheduler.Start(); err != nil {
			return nil, fmt.Errorf("start maintenance jobs: %w", err)
		}
		log.Info("recommendation index scheduled", zap.String("schedule", schedule))
	}

	stack.Router, err = api.NewRouter(cfg, api.Dependencies{
		Recommender: stack.Recommender,
		Monitoring:  stack.Monitoring,
	})
	if err != nil {
		return nil, fmt.Errorf("build api router: %w", err)
	}

	success = true
	return stack, nil
}

// Shutdown gracefully stops background jobs and releases resources.
func (s *runtimeStack) Shutdown(ctx context.Context, log *zap.Logger) error {
	if s == nil {
		return nil
	}

	var errs error
	if s.Scheduler != nil {
		select {
		case <-s.Scheduler.Stop().Done():
		case <-ctx.Done():
			errs = multierr.Append(errs, fmt.Errorf("stop maintenance jobs: %w", ctx.Err()))
		}
	}

	if s.Monitoring != nil && monitoring.CurrentModule() == s.Monitoring {
		monitoring.SetModule(nil)
	}

	if errs != nil {
		log.Warn("runtime shutdown", zap.Error(errs))
	}
	return errs
}

// staleAfter derives how old a scheduled index may get before readiness
// degrades. Zero disables the check when the interval cannot be determined.
func staleAfter(spec string, now time.Time) time.Duration {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return 0
	}
	first := schedule.Next(now)
	second := schedule.Next(first)
	if first.IsZero() || second.IsZero() {
		return 0
	}
	return staleAfterRuns * second.Sub(first)
}
