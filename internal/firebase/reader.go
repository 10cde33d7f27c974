package firebase

import (
	"context"
	"fmt"
)

// RefReader reads the value stored at a database path.
type RefReader interface {
	Get(ctx context.Context, path string, v interface{}) error
}

type databaseReader struct {
	app *App
}

func (r databaseReader) Get(ctx context.Context, path string, v interface{}) error {
	client, err := r.app.Database(ctx)
	if err != nil {
		return err
	}
	if err := client.NewRef(path).Get(ctx, v); err != nil {
		return fmt.Errorf("firebase: read %q: %w", path, err)
	}
	return nil
}

// Reader returns a RefReader backed by the Realtime Database client. The
// client is created on the first read.
func (a *App) Reader() RefReader {
	return databaseReader{app: a}
}
