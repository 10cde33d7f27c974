package forwarder

import (
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/require"
)

func TestMessagePopulatedPayload(t *testing.T) {
	payload := map[string]any{
		"title":   "Shipped!",
		"message": "Your order left the warehouse",
		"orderId": float64(123),
		"status":  "shipped",
	}

	msg := NewNotificationEvent("u1", "n1", payload).Message()

	require.Equal(t, &messaging.Message{
		Topic: "user_u1",
		Notification: &messaging.Notification{
			Title: "Shipped!",
			Body:  "Your order left the warehouse",
		},
		Data: map[string]string{
			"type":    "order_status",
			"orderId": "123",
			"status":  "shipped",
			"nid":     "n1",
		},
		Android: &messaging.AndroidConfig{Priority: "high"},
	}, msg)
}

func TestMessageEmptyPayload(t *testing.T) {
	msg := NewNotificationEvent("u2", "n2", map[string]any{}).Message()

	require.Equal(t, "user_u2", msg.Topic)
	require.Equal(t, "Order Update", msg.Notification.Title)
	require.Equal(t, "Your order status changed", msg.Notification.Body)
	require.Equal(t, map[string]string{
		"type":    "order_status",
		"orderId": "",
		"status":  "",
		"nid":     "n2",
	}, msg.Data)
}

func TestMessageToleratesNonObjectPayloads(t *testing.T) {
	for _, payload := range []any{nil, "just text", float64(7), []any{"a", "b"}, true} {
		msg := NewNotificationEvent("u3", "n3", payload).Message()

		require.Equal(t, DefaultTitle, msg.Notification.Title, "%#v", payload)
		require.Equal(t, DefaultBody, msg.Notification.Body, "%#v", payload)
		require.Equal(t, "", msg.Data[DataOrderID], "%#v", payload)
		require.Equal(t, "", msg.Data[DataStatus], "%#v", payload)
		require.Equal(t, "n3", msg.Data[DataNotificationID], "%#v", payload)
	}
}

func TestFieldDefaulting(t *testing.T) {
	cases := []struct {
		name    string
		payload map[string]any
		title   string
		body    string
		orderID string
		status  string
	}{
		{
			name:    "only title",
			payload: map[string]any{"title": "Packed"},
			title:   "Packed",
			body:    DefaultBody,
		},
		{
			name:    "only message",
			payload: map[string]any{"message": "We are packing your paint"},
			title:   DefaultTitle,
			body:    "We are packing your paint",
		},
		{
			name:    "empty strings fall back",
			payload: map[string]any{"title": "", "message": "", "orderId": "", "status": ""},
			title:   DefaultTitle,
			body:    DefaultBody,
		},
		{
			name:    "null values fall back",
			payload: map[string]any{"title": nil, "message": nil, "orderId": nil, "status": nil},
			title:   DefaultTitle,
			body:    DefaultBody,
		},
		{
			name:    "zero and false are absent",
			payload: map[string]any{"orderId": float64(0), "status": false},
			title:   DefaultTitle,
			body:    DefaultBody,
		},
		{
			name:    "scalars are coerced",
			payload: map[string]any{"title": float64(42), "orderId": "ORD-9", "status": float64(3)},
			title:   "42",
			body:    DefaultBody,
			orderID: "ORD-9",
			status:  "3",
		},
		{
			name:    "objects are not text",
			payload: map[string]any{"title": map[string]any{"en": "Hi"}, "orderId": []any{float64(1)}},
			title:   DefaultTitle,
			body:    DefaultBody,
		},
		{
			name:    "body field is not read",
			payload: map[string]any{"body": "ignored"},
			title:   DefaultTitle,
			body:    DefaultBody,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev := NewNotificationEvent("u", "n", tc.payload)
			require.Equal(t, tc.title, ev.Title)
			require.Equal(t, tc.body, ev.Body)
			require.Equal(t, tc.orderID, ev.OrderID)
			require.Equal(t, tc.status, ev.Status)

			msg := ev.Message()
			require.Contains(t, msg.Data, DataOrderID)
			require.Contains(t, msg.Data, DataStatus)
		})
	}
}

func TestUserIDComesFromPathOnly(t *testing.T) {
	payload := map[string]any{"uid": "intruder", "userId": "intruder", "nid": "other"}
	msg := NewNotificationEvent("u7", "n7", payload).Message()

	require.Equal(t, "user_u7", msg.Topic)
	require.Equal(t, "n7", msg.Data[DataNotificationID])
}
