package recommender

import (
	"math"
	"sort"
)

// Vector maps a product key to a co-occurrence count.
type Vector map[string]int

// Cooccurrence maps each product to the counts of products bought with it.
type Cooccurrence map[string]Vector

// BuildCounts counts how often each product appears across orders.
func BuildCounts(orders []Order) map[string]int {
	counts := make(map[string]int)
	for _, o := range orders {
		for _, item := range o.Items {
			if item == "" {
				continue
			}
			counts[item]++
		}
	}
	return counts
}

// BuildCooccurrence counts, for every pair of positions in an order holding
// different products, one co-occurrence in each direction.
func BuildCooccurrence(orders []Order) Cooccurrence {
	co := make(Cooccurrence)
	for _, o := range orders {
		items := make([]string, 0, len(o.Items))
		for _, item := range o.Items {
			if item != "" {
				items = append(items, item)
			}
		}

		for i := 0; i < len(items); i++ {
			for j := i + 1; j < len(items); j++ {
				a, b := items[i], items[j]
				if a == b {
					continue
				}
				co.add(a, b)
				co.add(b, a)
			}
		}
	}
	return co
}

func (co Cooccurrence) add(a, b string) {
	vec, ok := co[a]
	if !ok {
		vec = make(Vector)
		co[a] = vec
	}
	vec[b]++
}

// Cosine returns the cosine similarity of two count vectors. Each norm is
// floored at 1, and empty vectors have no similarity.
func Cosine(a, b Vector) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	var dot, na, nb float64
	for _, v := range a {
		na += float64(v) * float64(v)
	}
	for _, v := range b {
		nb += float64(v) * float64(v)
	}
	for k, va := range a {
		if vb, ok := b[k]; ok {
			dot += float64(va) * float64(vb)
		}
	}

	return dot / (math.Sqrt(math.Max(na, 1)) * math.Sqrt(math.Max(nb, 1)))
}

type scored struct {
	key   string
	score float64
}

// Neighbors ranks every other product by the cosine similarity of its
// co-occurrence vector to the target's and returns up to k keys with a
// positive score. Ties are broken by key.
func Neighbors(product string, co Cooccurrence, k int) []string {
	if k <= 0 {
		return []string{}
	}

	target := co[product]
	scores := make([]scored, 0, len(co))
	for other, vec := range co {
		if other == product {
			continue
		}
		if s := Cosine(target, vec); s > 0 {
			scores = append(scores, scored{key: other, score: s})
		}
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].score != scores[j].score {
			return scores[i].score > scores[j].score
		}
		return scores[i].key < scores[j].key
	})

	return topKeys(scores, k)
}

// Popular returns up to limit product keys ordered by count, ties by key.
func Popular(counts map[string]int, limit int) []string {
	if limit <= 0 {
		return []string{}
	}

	ranked := make([]scored, 0, len(counts))
	for key, n := range counts {
		ranked = append(ranked, scored{key: key, score: float64(n)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].key < ranked[j].key
	})

	return topKeys(ranked, limit)
}

func topKeys(ranked []scored, n int) []string {
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	keys := make([]string, len(ranked))
	for i, r := range ranked {
		keys[i] = r.key
	}
	return keys
}
