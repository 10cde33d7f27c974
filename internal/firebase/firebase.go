// Package firebase owns the Firebase Admin SDK handle shared by the function
// and the API server: one app per process, with lazily built messaging and
// database clients.
package firebase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	fb "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"firebase.google.com/go/v4/messaging"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

// Scopes requested for the Admin SDK credentials.
var Scopes = []string{
	"https://www.googleapis.com/auth/cloud-platform",
	"https://www.googleapis.com/auth/firebase.database",
	"https://www.googleapis.com/auth/firebase.messaging",
	"https://www.googleapis.com/auth/userinfo.email",
}

// Config identifies the Firebase project and how to authenticate against it.
type Config struct {
	ProjectID   string
	DatabaseURL string
	// CredentialsFile points at a service account key. Empty means
	// Application Default Credentials, which is what the hosted function uses.
	CredentialsFile string
}

// App wraps the Admin SDK app. It is safe for concurrent use.
type App struct {
	app *fb.App
	cfg Config

	messagingOnce sync.Once
	messaging     *messaging.Client
	messagingErr  error

	databaseOnce sync.Once
	database     *db.Client
	databaseErr  error
}

// New initialises the Admin SDK app. Clients are created on first use.
func New(ctx context.Context, cfg Config) (*App, error) {
	opts, err := ClientOptions(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app, err := fb.NewApp(ctx, &fb.Config{
		ProjectID:   strings.TrimSpace(cfg.ProjectID),
		DatabaseURL: strings.TrimSpace(cfg.DatabaseURL),
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase: initialise app: %w", err)
	}

	return &App{app: app, cfg: cfg}, nil
}

// ClientOptions resolves credentials for the Admin SDK. A configured
// credentials file wins over Application Default Credentials.
func ClientOptions(ctx context.Context, cfg Config) ([]option.ClientOption, error) {
	path := strings.TrimSpace(cfg.CredentialsFile)
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("firebase: read credentials file: %w", err)
		}
		creds, err := google.CredentialsFromJSON(ctx, data, Scopes...)
		if err != nil {
			return nil, fmt.Errorf("firebase: parse credentials file: %w", err)
		}
		return []option.ClientOption{option.WithCredentials(creds)}, nil
	}

	creds, err := google.FindDefaultCredentials(ctx, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("firebase: find default credentials: %w", err)
	}
	return []option.ClientOption{option.WithCredentials(creds)}, nil
}

// Messaging returns the Cloud Messaging client.
func (a *App) Messaging(ctx context.Context) (*messaging.Client, error) {
	if a == nil || a.app == nil {
		return nil, errors.New("firebase: app not initialised")
	}
	a.messagingOnce.Do(func() {
		a.messaging, a.messagingErr = a.app.Messaging(ctx)
		if a.messagingErr != nil {
			a.messagingErr = fmt.Errorf("firebase: messaging client: %w", a.messagingErr)
		}
	})
	return a.messaging, a.messagingErr
}

// Database returns the Realtime Database client for the configured URL.
func (a *App) Database(ctx context.Context) (*db.Client, error) {
	if a == nil || a.app == nil {
		return nil, errors.New("firebase: app not initialised")
	}
	a.databaseOnce.Do(func() {
		if strings.TrimSpace(a.cfg.DatabaseURL) == "" {
			a.databaseErr = errors.New("firebase: database url is not configured")
			return
		}
		a.database, a.databaseErr = a.app.Database(ctx)
		if a.databaseErr != nil {
			a.databaseErr = fmt.Errorf("firebase: database client: %w", a.databaseErr)
		}
	})
	return a.database, a.databaseErr
}

// Ready reports whether the app was initialised. It is meant for health probes.
func (a *App) Ready() error {
	if a == nil || a.app == nil {
		return errors.New("firebase: app not initialised")
	}
	return nil
}
