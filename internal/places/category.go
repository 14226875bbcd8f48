package places

import (
	"fmt"
	"sort"
	"strings"
)

// Broad categories, in priority order.
var Categories = []string{
	"Beach", "Temple", "Mountain", "Historical Site",
	"Museum", "Park", "Restaurant", "Shopping Mall",
}

var categoryKeywords = map[string][]string{
	"Beach":           {"beach", "seaside", "coast", "ocean"},
	"Temple":          {"temple", "hindu_temple", "church", "mosque", "synagogue"},
	"Mountain":        {"mountain", "hill", "peak", "trekking_area", "nature_reserve"},
	"Park":            {"park", "garden", "zoo", "botanical_garden"},
	"Restaurant":      {"restaurant", "cafe", "food", "bar"},
	"Shopping Mall":   {"shopping_mall", "department_store"},
	"Museum":          {"museum", "art_gallery"},
	"Historical Site": {"historical_site", "landmark", "ruin", "palace", "fort"},
}

// BroadCategory maps place types to broad categories. Exact type matches are
// tried first; only when none hit are types scanned for keyword substrings.
// The result follows Categories order and has no duplicates.
func BroadCategory(types []string) []string {
	if len(types) == 0 {
		return nil
	}

	has := make(map[string]bool, len(types))
	for _, t := range types {
		has[strings.ToLower(t)] = true
	}

	var out []string
	for _, cat := range Categories {
		for _, kw := range categoryKeywords[cat] {
			if has[kw] {
				out = append(out, cat)
				break
			}
		}
	}
	if len(out) > 0 {
		return out
	}

	for _, cat := range Categories {
	scan:
		for _, t := range types {
			t = strings.ToLower(t)
			for _, kw := range categoryKeywords[cat] {
				if strings.Contains(t, kw) {
					out = append(out, cat)
					break scan
				}
			}
		}
	}
	return out
}

// Recommendation suggests a follow-up search for a category the user keeps
// returning to.
type Recommendation struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Query    string  `json:"query"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	RadiusM  float64 `json:"radius_m"`
}

// Recommender counts the categories of places seen and fires once per
// category when its count reaches Threshold. Not safe for concurrent use.
type Recommender struct {
	Threshold int
	RadiusM   float64

	counts map[string]int
	shown  map[string]bool
}

// NewRecommender creates a Recommender. Non-positive arguments fall back to
// a threshold of 3 and a 50 km radius.
func NewRecommender(threshold int, radiusM float64) *Recommender {
	if threshold <= 0 {
		threshold = 3
	}
	if radiusM <= 0 {
		radiusM = 50000
	}
	return &Recommender{
		Threshold: threshold,
		RadiusM:   radiusM,
		counts:    make(map[string]int),
		shown:     make(map[string]bool),
	}
}

// Observe records the categories of places.
func (r *Recommender) Observe(places ...Place) {
	for _, p := range places {
		for _, cat := range p.Categories() {
			r.counts[cat]++
		}
	}
}

// Count returns how many places of category have been observed.
func (r *Recommender) Count(category string) int {
	return r.counts[category]
}

// Next returns the highest-count category at or above the threshold that
// has not been recommended yet, and marks it shown. Ties follow category
// priority order.
func (r *Recommender) Next(lat, lng float64) (Recommendation, bool) {
	cands := make([]string, 0, len(r.counts))
	for cat, n := range r.counts {
		if n >= r.Threshold && !r.shown[cat] {
			cands = append(cands, cat)
		}
	}
	if len(cands) == 0 {
		return Recommendation{}, false
	}

	sort.Slice(cands, func(i, j int) bool {
		ci, cj := r.counts[cands[i]], r.counts[cands[j]]
		if ci != cj {
			return ci > cj
		}
		return priority(cands[i]) < priority(cands[j])
	})

	cat := cands[0]
	r.shown[cat] = true
	return Recommendation{
		Category: cat,
		Count:    r.counts[cat],
		Query:    fmt.Sprintf("%s near %.4f,%.4f", cat, lat, lng),
		Lat:      lat,
		Lng:      lng,
		RadiusM:  r.RadiusM,
	}, true
}

// Reset clears all counts and shown categories.
func (r *Recommender) Reset() {
	r.counts = make(map[string]int)
	r.shown = make(map[string]bool)
}

func priority(cat string) int {
	for i, c := range Categories {
		if c == cat {
			return i
		}
	}
	return len(Categories)
}
