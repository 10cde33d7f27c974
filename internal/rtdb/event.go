package rtdb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudevents/sdk-go/v2/event"
	"github.com/cloudevents/sdk-go/v2/types"

	appErrors "github.com/charlesng35/paintstore/pkg/errors"
)

// CloudEvent types emitted by Realtime Database triggers.
const (
	EventTypeCreated = "google.firebase.database.ref.v1.created"
	EventTypeUpdated = "google.firebase.database.ref.v1.updated"
	EventTypeDeleted = "google.firebase.database.ref.v1.deleted"
	EventTypeWritten = "google.firebase.database.ref.v1.written"
)

// Extension attributes set on Realtime Database CloudEvents.
const (
	ExtensionRef      = "ref"
	ExtensionInstance = "instance"
	ExtensionLocation = "location"
)

const subjectPrefix = "refs/"

// payload is the CloudEvent data: the value before the change and the delta
// written by it. For a creation Data is null and Delta is the new value.
type payload struct {
	Data  json.RawMessage `json:"data"`
	Delta json.RawMessage `json:"delta"`
}

// Change is a decoded database trigger event.
type Change struct {
	ID       string
	Type     string
	Ref      string
	Instance string
	Location string
	// Params holds the wildcard values captured by the watched ref template.
	Params map[string]string
	// Before is the value at Ref prior to the change (nil for creations).
	Before any
	// After is the delta written by the change (nil for deletions).
	After any
}

// Param returns a captured wildcard value.
func (c *Change) Param(name string) string {
	if c == nil {
		return ""
	}
	return c.Params[name]
}

// Decode extracts the ref, path params and values from a database trigger
// event. The ref is matched against pattern; a mismatch yields ErrUnmatchedRef.
func Decode(e event.Event, pattern *Pattern) (*Change, error) {
	ref, err := RefOf(e)
	if err != nil {
		return nil, err
	}

	params, ok := pattern.Match(ref)
	if !ok {
		return nil, appErrors.ErrUnmatchedRef.WithInternal(fmt.Errorf("ref %q does not match %q", ref, pattern))
	}

	var body payload
	if raw := bytes.TrimSpace(e.Data()); len(raw) > 0 {
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, appErrors.ErrInvalidEvent.WithInternal(fmt.Errorf("decode event data: %w", err))
		}
	}

	before, err := decodeValue(body.Data)
	if err != nil {
		return nil, appErrors.ErrInvalidEvent.WithInternal(fmt.Errorf("decode data: %w", err))
	}
	after, err := decodeValue(body.Delta)
	if err != nil {
		return nil, appErrors.ErrInvalidEvent.WithInternal(fmt.Errorf("decode delta: %w", err))
	}

	return &Change{
		ID:       e.ID(),
		Type:     e.Type(),
		Ref:      ref,
		Instance: extension(e, ExtensionInstance),
		Location: extension(e, ExtensionLocation),
		Params:   params,
		Before:   before,
		After:    after,
	}, nil
}

// RefOf returns the database path the event refers to, normalised with a
// leading slash. The ref extension wins over the subject.
func RefOf(e event.Event) (string, error) {
	ref := extension(e, ExtensionRef)
	if ref == "" {
		ref = strings.TrimPrefix(e.Subject(), subjectPrefix)
	}
	ref = strings.Trim(strings.TrimSpace(ref), "/")
	if ref == "" {
		return "", appErrors.ErrInvalidEvent.WithMessage("Trigger event carries no database ref")
	}
	return "/" + ref, nil
}

func extension(e event.Event, name string) string {
	v, ok := e.Extensions()[name]
	if !ok {
		return ""
	}
	s, err := types.ToString(v)
	if err != nil {
		return ""
	}
	return s
}

func decodeValue(raw json.RawMessage) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}
