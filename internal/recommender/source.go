package recommender

import (
	"context"
	"strings"

	"github.com/charlesng35/paintstore/internal/firebase"
	"github.com/charlesng35/paintstore/internal/rtdb"
	apperrors "github.com/charlesng35/paintstore/pkg/errors"
)

// DefaultOrdersRef is the database path holding one child per order.
const DefaultOrdersRef = "orders"

// Order is the part of a stored order the recommender looks at.
type Order struct {
	ID    string
	Items []string
}

// OrderSource loads every order known to the store.
type OrderSource interface {
	Orders(ctx context.Context) ([]Order, error)
}

// DatabaseSource reads orders from a Realtime Database path.
type DatabaseSource struct {
	reader firebase.RefReader
	ref    string
}

// NewDatabaseSource returns a source reading ref through reader. An empty ref
// selects DefaultOrdersRef.
func NewDatabaseSource(reader firebase.RefReader, ref string) *DatabaseSource {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		ref = DefaultOrdersRef
	}
	return &DatabaseSource{reader: reader, ref: ref}
}

// Ref returns the database path orders are read from.
func (s *DatabaseSource) Ref() string {
	return s.ref
}

// Orders reads the orders ref. A missing or non-object root yields no
// orders.
func (s *DatabaseSource) Orders(ctx context.Context) ([]Order, error) {
	if s == nil || s.reader == nil {
		return nil, apperrors.ErrSourceUnavailable.WithMessage("orders source is not configured")
	}

	var raw any
	if err := s.reader.Get(ctx, s.ref, &raw); err != nil {
		return nil, apperrors.ErrSourceUnavailable.WithInternal(err)
	}
	return ParseOrders(raw), nil
}

// ParseOrders converts the decoded value of the orders ref. Children that
// are not objects are skipped.
func ParseOrders(raw any) []Order {
	root := rtdb.Object(raw)
	if root == nil {
		return []Order{}
	}

	orders := make([]Order, 0, len(root))
	for id, child := range root {
		obj := rtdb.Object(child)
		if obj == nil {
			continue
		}
		orders = append(orders, Order{ID: id, Items: parseItems(obj["items"])})
	}
	return orders
}

// parseItems accepts a list of product keys or an object keyed by product.
func parseItems(v any) []string {
	switch t := v.(type) {
	case []any:
		items := make([]string, 0, len(t))
		for _, el := range t {
			if key, ok := rtdb.Text(el); ok && key != "" {
				items = append(items, key)
			}
		}
		return items
	case map[string]any:
		items := make([]string, 0, len(t))
		for key := range t {
			if key != "" {
				items = append(items, key)
			}
		}
		return items
	default:
		return nil
	}
}

// StaticSource serves a fixed set of orders.
type StaticSource []Order

func (s StaticSource) Orders(context.Context) ([]Order, error) {
	return append([]Order(nil), s...), nil
}
