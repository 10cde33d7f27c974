package forwarder

import (
	"firebase.google.com/go/v4/messaging"

	"github.com/charlesng35/paintstore/internal/rtdb"
)

// Defaults applied when the record leaves a display field empty.
const (
	DefaultTitle = "Order Update"
	DefaultBody  = "Your order status changed"
)

const (
	// TopicPrefix is prepended to the user id to form the push topic.
	TopicPrefix = "user_"
	// MessageType is the data "type" value the mobile app routes on.
	MessageType = "order_status"
	// AndroidPriority asks FCM for high priority delivery on Android.
	AndroidPriority = "high"
)

// Payload keys read from the notification record.
const (
	fieldTitle   = "title"
	fieldMessage = "message"
	fieldOrderID = "orderId"
	fieldStatus  = "status"
)

// Data keys written into the push message.
const (
	DataType           = "type"
	DataOrderID        = "orderId"
	DataStatus         = "status"
	DataNotificationID = "nid"
)

// NotificationEvent is the notification record observed at creation time.
type NotificationEvent struct {
	UserID         string
	NotificationID string
	Title          string
	Body           string
	OrderID        string
	Status         string
}

// NewNotificationEvent reads the record payload field by field. The payload
// may be nil or not an object at all; every missing, empty or non-scalar field
// falls back to its default.
func NewNotificationEvent(userID, notificationID string, payload any) NotificationEvent {
	record := rtdb.Object(payload)

	return NotificationEvent{
		UserID:         userID,
		NotificationID: notificationID,
		Title:          textOr(record, fieldTitle, DefaultTitle),
		Body:           textOr(record, fieldMessage, DefaultBody),
		OrderID:        textOr(record, fieldOrderID, ""),
		Status:         textOr(record, fieldStatus, ""),
	}
}

// Topic is the push topic the user's devices subscribe to.
func (e NotificationEvent) Topic() string {
	return TopicPrefix + e.UserID
}

// Message builds the push message for the event.
func (e NotificationEvent) Message() *messaging.Message {
	return &messaging.Message{
		Topic: e.Topic(),
		Notification: &messaging.Notification{
			Title: e.Title,
			Body:  e.Body,
		},
		Data: map[string]string{
			DataType:           MessageType,
			DataOrderID:        e.OrderID,
			DataStatus:         e.Status,
			DataNotificationID: e.NotificationID,
		},
		Android: &messaging.AndroidConfig{
			Priority: AndroidPriority,
		},
	}
}

func textOr(record map[string]any, key, fallback string) string {
	v, ok := record[key]
	if !ok || !rtdb.Truthy(v) {
		return fallback
	}
	s, ok := rtdb.Text(v)
	if !ok {
		return fallback
	}
	return s
}
