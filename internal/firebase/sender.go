package firebase

import (
	"context"

	"firebase.google.com/go/v4/messaging"
)

// MessageSender submits one push message and returns the delivery service's
// message id.
type MessageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// dryRunSender validates messages with the delivery service without
// delivering them to devices.
type dryRunSender struct {
	client *messaging.Client
}

func (s dryRunSender) Send(ctx context.Context, message *messaging.Message) (string, error) {
	return s.client.SendDryRun(ctx, message)
}

// Sender returns the messaging client as a MessageSender. With dryRun the
// messages are validated by the service but never delivered.
func (a *App) Sender(ctx context.Context, dryRun bool) (MessageSender, error) {
	client, err := a.Messaging(ctx)
	if err != nil {
		return nil, err
	}
	if dryRun {
		return dryRunSender{client: client}, nil
	}
	return client, nil
}
