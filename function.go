// Package paintstore registers the paint store's Cloud Functions. Importing it
// registers NotifyOnOrderUpdate with the Functions Framework.
package paintstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/cloudevents/sdk-go/v2/event"
	"go.uber.org/zap"

	"github.com/charlesng35/paintstore/internal/app"
	"github.com/charlesng35/paintstore/internal/firebase"
	"github.com/charlesng35/paintstore/internal/forwarder"
	"github.com/charlesng35/paintstore/internal/monitoring"
	"github.com/charlesng35/paintstore/internal/rtdb"
	"github.com/charlesng35/paintstore/pkg/logger"
)

// FunctionName is the entry point name the function is deployed under.
const FunctionName = "NotifyOnOrderUpdate"

func init() {
	functions.CloudEvent(FunctionName, NotifyOnOrderUpdate)
}

var (
	handlerMu sync.Mutex
	handler   eventHandler

	// replaced in tests
	buildHandler = newForwarder
)

type eventHandler interface {
	HandleEvent(ctx context.Context, e event.Event) error
}

// NotifyOnOrderUpdate sends a push notification to the user's topic for every
// record created under the watched notifications ref.
func NotifyOnOrderUpdate(ctx context.Context, e event.Event) error {
	h, err := loadHandler(ctx)
	if err != nil {
		return err
	}
	return h.HandleEvent(ctx, e)
}

// loadHandler builds the forwarder on first use and keeps it for the life of
// the instance. A failed build is retried on the next event.
func loadHandler(ctx context.Context) (eventHandler, error) {
	handlerMu.Lock()
	defer handlerMu.Unlock()

	if handler != nil {
		return handler, nil
	}

	h, err := buildHandler(context.WithoutCancel(ctx))
	if err != nil {
		logger.WithModule("function").Error("function initialisation failed", zap.Error(err))
		return nil, err
	}
	handler = h
	return handler, nil
}

func newForwarder(ctx context.Context) (eventHandler, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return nil, err
	}
	if _, err := app.ApplyRuntimeDefaults(cfg, nil); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := app.ConfigureLogging(cfg.Server.LogLevel, cfg.Server.LogFormat); err != nil {
		return nil, fmt.Errorf("configure logging: %w", err)
	}

	if cfg.Monitoring.Prometheus.Enabled && monitoring.CurrentModule() == nil {
		module, err := monitoring.NewModule(monitoring.Options{})
		if err != nil {
			return nil, fmt.Errorf("initialise monitoring: %w", err)
		}
		monitoring.SetModule(module)
	}

	pattern, err := rtdb.Compile(cfg.Forwarder.Ref)
	if err != nil {
		return nil, err
	}

	fbApp, err := firebase.New(ctx, cfg.FirebaseOptions())
	if err != nil {
		return nil, err
	}
	sender, err := fbApp.Sender(ctx, cfg.Forwarder.DryRun)
	if err != nil {
		return nil, err
	}

	fwd, err := forwarder.New(sender, forwarder.WithPattern(pattern))
	if err != nil {
		return nil, err
	}

	logger.WithModule("function").Info("function initialised",
		zap.String("function", FunctionName),
		zap.String("ref", pattern.String()),
		zap.String("project_id", cfg.Firebase.ProjectID),
		zap.Bool("dry_run", cfg.Forwarder.DryRun),
	)
	return fwd, nil
}
