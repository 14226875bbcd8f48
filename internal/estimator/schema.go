package estimator

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/wander/internal/features"
)

// ErrSchemaMismatch indicates a row does not have the shape an estimator
// was trained on.
var ErrSchemaMismatch = errors.New("estimator: schema mismatch")

// Schema is the named, versioned, ordered feature list an estimator was
// trained on.
type Schema struct {
	Name     string   `json:"name"`
	Version  string   `json:"version"`
	Features []string `json:"features"`
}

// ID identifies the schema for row checks.
func (s Schema) ID() string {
	return s.Name + "@" + s.Version
}

// Width returns the number of features.
func (s Schema) Width() int { return len(s.Features) }

// Validate rejects empty and duplicate feature names.
func (s Schema) Validate() error {
	seen := make(map[string]struct{}, len(s.Features))
	for i, f := range s.Features {
		if f == "" {
			return fmt.Errorf("schema %s: feature %d has empty name", s.ID(), i)
		}
		if _, ok := seen[f]; ok {
			return fmt.Errorf("schema %s: duplicate feature %q", s.ID(), f)
		}
		seen[f] = struct{}{}
	}
	return nil
}

// Row is a single-sample input aligned to one schema.
type Row struct {
	Schema string
	Values []float64
	// Filled names the schema features absent from the source vector.
	Filled []string
}

// Reindex restricts and reorders v to exactly the schema's features.
// Features missing from v are filled with 0; features not in the schema
// are dropped.
func Reindex(v features.Vector, s Schema) (Row, error) {
	if err := s.Validate(); err != nil {
		return Row{}, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}

	row := Row{Schema: s.ID(), Values: make([]float64, len(s.Features))}
	for i, name := range s.Features {
		x, ok := v.Get(name)
		if !ok {
			row.Filled = append(row.Filled, name)
			continue
		}
		row.Values[i] = x
	}
	return row, nil
}

// check verifies that row was built for s.
func (s Schema) check(row Row) error {
	if row.Schema != s.ID() {
		return fmt.Errorf("%w: row built for %q, estimator expects %q", ErrSchemaMismatch, row.Schema, s.ID())
	}
	if len(row.Values) != len(s.Features) {
		return fmt.Errorf("%w: %s expects %d features, got %d", ErrSchemaMismatch, s.ID(), len(s.Features), len(row.Values))
	}
	return nil
}
