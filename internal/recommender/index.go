package recommender

import "time"

// Index is an immutable snapshot of the statistics derived from a set of
// orders. It is safe for concurrent readers.
type Index struct {
	counts  map[string]int
	co      Cooccurrence
	orders  int
	builtAt time.Time
}

// NewIndex derives counts and co-occurrences from orders.
func NewIndex(orders []Order, builtAt time.Time) *Index {
	return &Index{
		counts:  BuildCounts(orders),
		co:      BuildCooccurrence(orders),
		orders:  len(orders),
		builtAt: builtAt,
	}
}

// Popular returns up to limit of the most ordered products.
func (i *Index) Popular(limit int) []string {
	if i == nil {
		return []string{}
	}
	return Popular(i.counts, limit)
}

// Similar returns up to k products most often bought together with product.
func (i *Index) Similar(product string, k int) []string {
	if i == nil {
		return []string{}
	}
	return Neighbors(product, i.co, k)
}

// Products is the number of distinct products seen in orders.
func (i *Index) Products() int {
	if i == nil {
		return 0
	}
	return len(i.counts)
}

// Orders is the number of orders the index was built from.
func (i *Index) Orders() int {
	if i == nil {
		return 0
	}
	return i.orders
}

func (i *Index) BuiltAt() time.Time {
	if i == nil {
		return time.Time{}
	}
	return i.builtAt
}
