// Package overrides collects, stores and prompts for narration-level ledger
// overrides. An override applies only to narrations that recur within the
// statement being processed.
package overrides

import (
	"sort"

	"fjacquet/bank-tally/internal/models"
)

// Narration is a normalized narration that occurs more than once.
type Narration struct {
	// Key is the normalized form used in override maps.
	Key string `json:"key"`
	// Sample is the first original spelling seen in the statement.
	Sample string `json:"sample"`
	Count  int    `json:"count"`

	first int
}

// Repeated returns the narrations occurring more than once in rows, ordered
// by descending count and then by first appearance. Blank narrations are
// never offered for override.
func Repeated(rows []models.Transaction) []Narration {
	byKey := make(map[string]*Narration)
	var order []*Narration

	for i, tx := range rows {
		key := models.NormalizeNarration(tx.Narration)
		if key == "" {
			continue
		}
		if n, ok := byKey[key]; ok {
			n.Count++
			continue
		}
		n := &Narration{Key: key, Sample: tx.Narration, Count: 1, first: i}
		byKey[key] = n
		order = append(order, n)
	}

	out := make([]Narration, 0, len(order))
	for _, n := range order {
		if n.Count > 1 {
			out = append(out, *n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].first < out[j].first
	})
	return out
}
