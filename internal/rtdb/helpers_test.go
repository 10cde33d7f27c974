package rtdb

import (
	"testing"

	"github.com/cloudevents/sdk-go/v2/event"
	"github.com/stretchr/testify/require"
)

func newTestEvent(t *testing.T, ref string, data any) event.Event {
	t.Helper()

	e := event.New()
	e.SetID("evt-1")
	e.SetType(EventTypeCreated)
	e.SetSource("//firebasedatabase.googleapis.com/projects/_/locations/us-central1/instances/paint-store")
	if ref != "" {
		e.SetSubject("refs/" + ref)
	}
	e.SetExtension(ExtensionInstance, "paint-store")
	e.SetExtension(ExtensionLocation, "us-central1")
	if data != nil {
		require.NoError(t, e.SetData(event.ApplicationJSON, data))
	}
	return e
}
