package features

import (
	"sort"
	"strings"
)

// CategoricalFields are the one-hot encoded groups, in feature order.
var CategoricalFields = []string{"city", "district", "category", "season"}

// DefaultSeasons is used when neither the model file nor the reference data
// names any season levels.
var DefaultSeasons = []string{"offpeak", "peak"}

// Group is the set of training-time levels for one categorical field.
// Levels are kept sorted and include the reference level.
type Group struct {
	Field     string   `json:"field"`
	Reference string   `json:"reference"`
	Levels    []string `json:"levels"`
}

// Encoded returns the levels that get an indicator column, in order.
func (g Group) Encoded() []string {
	out := make([]string, 0, len(g.Levels))
	for _, l := range g.Levels {
		if l != g.Reference {
			out = append(out, l)
		}
	}
	return out
}

// Has reports whether level is part of the training-time universe.
func (g Group) Has(level string) bool {
	for _, l := range g.Levels {
		if l == level {
			return true
		}
	}
	return false
}

// Match resolves level to the group's own spelling, ignoring case. Exact
// matches take precedence.
func (g Group) Match(level string) (string, bool) {
	level = strings.TrimSpace(level)
	if level == "" {
		return "", false
	}
	if g.Has(level) {
		return level, true
	}
	for _, l := range g.Levels {
		if strings.EqualFold(l, level) {
			return l, true
		}
	}
	return "", false
}

// FeatureName returns the indicator column name for a level.
func (g Group) FeatureName(level string) string {
	return g.Field + "_" + level
}

// Universe is the training-time category universe for every one-hot group.
type Universe struct {
	Groups []Group `json:"groups"`
}

// NewGroup builds a group whose reference level is the lexicographically
// first level, matching drop-first dummy encoding.
func NewGroup(field string, levels []string) Group {
	set := make(map[string]struct{}, len(levels))
	var sorted []string
	for _, l := range levels {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if _, ok := set[l]; ok {
			continue
		}
		set[l] = struct{}{}
		sorted = append(sorted, l)
	}
	sort.Strings(sorted)

	g := Group{Field: field, Levels: sorted}
	if len(sorted) > 0 {
		g.Reference = sorted[0]
	}
	return g
}

// LevelSource supplies distinct levels for a categorical field.
type LevelSource interface {
	Levels(field string) []string
}

// DeriveUniverse builds a universe from the reference data.
func DeriveUniverse(src LevelSource) Universe {
	var u Universe
	for _, f := range CategoricalFields {
		levels := src.Levels(f)
		if f == "season" && len(levels) == 0 {
			levels = DefaultSeasons
		}
		u.Groups = append(u.Groups, NewGroup(f, levels))
	}
	return u
}

// Group returns the group for field.
func (u Universe) Group(field string) (Group, bool) {
	for _, g := range u.Groups {
		if g.Field == field {
			return g, true
		}
	}
	return Group{}, false
}

// FeatureNames returns every indicator column name, group by group.
func (u Universe) FeatureNames() []string {
	var names []string
	for _, g := range u.Groups {
		for _, l := range g.Encoded() {
			names = append(names, g.FeatureName(l))
		}
	}
	return names
}

// Normalize sorts each group's levels and fills a missing reference level.
// A reference level given explicitly is kept even if it is not first.
func (u Universe) Normalize() Universe {
	out := Universe{Groups: make([]Group, 0, len(u.Groups))}
	for _, g := range u.Groups {
		ng := NewGroup(g.Field, append(append([]string(nil), g.Levels...), g.Reference))
		if g.Reference != "" {
			ng.Reference = g.Reference
		}
		out.Groups = append(out.Groups, ng)
	}
	return out
}

// IsZero reports whether the universe has no groups.
func (u Universe) IsZero() bool { return len(u.Groups) == 0 }
