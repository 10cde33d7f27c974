package forwarder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"firebase.google.com/go/v4/messaging"
	"github.com/cloudevents/sdk-go/v2/event"
	"go.uber.org/zap"

	"github.com/charlesng35/paintstore/internal/monitoring"
	"github.com/charlesng35/paintstore/internal/rtdb"
	appErrors "github.com/charlesng35/paintstore/pkg/errors"
	"github.com/charlesng35/paintstore/pkg/logger"
)

// DefaultRef is the watched notifications path.
const DefaultRef = "/users/{uid}/notifications/{nid}"

// Wildcards the watched ref must capture.
const (
	ParamUserID         = "uid"
	ParamNotificationID = "nid"
)

// Sender submits a push message to the delivery service. *messaging.Client
// satisfies it.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// Forwarder handles notification creation events. It holds no per-event
// state and is safe for concurrent use.
type Forwarder struct {
	sender  Sender
	pattern *rtdb.Pattern
	log     *zap.Logger
	now     func() time.Time
}

// Option customises the Forwarder.
type Option func(*Forwarder)

// WithPattern overrides the watched ref template.
func WithPattern(p *rtdb.Pattern) Option {
	return func(f *Forwarder) {
		if p != nil {
			f.pattern = p
		}
	}
}

// WithLogger overrides the module logger.
func WithLogger(log *zap.Logger) Option {
	return func(f *Forwarder) {
		if log != nil {
			f.log = log
		}
	}
}

// WithNow overrides the clock used to time sends.
func WithNow(now func() time.Time) Option {
	return func(f *Forwarder) {
		if now != nil {
			f.now = now
		}
	}
}

// New constructs a Forwarder around a long-lived sender.
func New(sender Sender, opts ...Option) (*Forwarder, error) {
	if sender == nil {
		return nil, errors.New("forwarder: sender is required")
	}

	f := &Forwarder{
		sender:  sender,
		pattern: rtdb.MustCompile(DefaultRef),
		log:     logger.WithModule("forwarder"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}

	params := map[string]bool{}
	for _, name := range f.pattern.Params() {
		params[name] = true
	}
	if !params[ParamUserID] || !params[ParamNotificationID] {
		return nil, fmt.Errorf("forwarder: ref %q must capture {%s} and {%s}", f.pattern, ParamUserID, ParamNotificationID)
	}

	return f, nil
}

// HandleEvent processes one database trigger event. Events other than
// creations are ignored. Decoding failures and delivery failures are returned
// to the host unhandled.
func (f *Forwarder) HandleEvent(ctx context.Context, e event.Event) error {
	log := f.log.With(zap.String("event_id", e.ID()))

	if e.Type() != rtdb.EventTypeCreated {
		monitoring.RecordTriggerEvent(monitoring.TriggerSkipped)
		log.Warn("ignoring non-create trigger event", zap.String("type", e.Type()))
		return nil
	}

	change, err := rtdb.Decode(e, f.pattern)
	if err != nil {
		monitoring.RecordTriggerEvent(monitoring.TriggerInvalid)
		log.Error("trigger event rejected", zap.Error(err))
		return err
	}
	monitoring.RecordTriggerEvent(monitoring.TriggerAccepted)

	notification := NewNotificationEvent(change.Param(ParamUserID), change.Param(ParamNotificationID), change.After)
	log.Debug("notification created",
		zap.String("ref", change.Ref),
		zap.String("uid", notification.UserID),
		zap.String("nid", notification.NotificationID),
	)

	_, err = f.Forward(ctx, notification)
	return err
}

// Forward sends the push message for one notification and waits for the
// delivery service to accept or reject it. It returns the service's message id.
func (f *Forwarder) Forward(ctx context.Context, n NotificationEvent) (string, error) {
	msg := n.Message()
	log := f.log.With(zap.String("topic", msg.Topic), zap.String("nid", n.NotificationID))

	start := f.now()
	id, err := f.sender.Send(ctx, msg)
	elapsed := f.now().Sub(start)

	if err != nil {
		class := Classify(err)
		monitoring.RecordPushSend(class, err.Error(), elapsed)
		log.Error("push delivery failed",
			zap.String("error_class", class),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
		return "", appErrors.ErrDeliveryFailed.WithInternal(fmt.Errorf("send to topic %s: %w", msg.Topic, err))
	}

	monitoring.RecordPushSend(monitoring.ResultSuccess, "", elapsed)
	log.Info("push sent",
		zap.String("message_id", id),
		zap.String("order_id", n.OrderID),
		zap.String("status", n.Status),
		zap.Duration("duration", elapsed),
	)
	return id, nil
}
