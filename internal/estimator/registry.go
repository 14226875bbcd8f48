package estimator

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/theirongolddev/wander/internal/features"
	"github.com/theirongolddev/wander/internal/model"
)

// ErrModelNotFound indicates no estimator is registered for a target.
var ErrModelNotFound = errors.New("estimator: model not found")

// Target component names. Tiered components are suffixed with the tier.
const (
	Hotel               = "hotel"
	Food                = "food"
	LocalTransportUrban = "local_transport_urban"
	LocalTransportRural = "local_transport_rural"
)

// TargetKey returns the registry key for a tiered component.
func TargetKey(component string, tier model.Tier) string {
	return component + "_" + string(tier)
}

// Registry maps target keys to estimators. It is read-only after
// construction.
type Registry struct {
	version  string
	universe *features.Universe
	byTarget map[string]Estimator
	targets  []string
}

// New registers estimators under their target names.
func New(version string, ests ...Estimator) (*Registry, error) {
	r := &Registry{version: version, byTarget: make(map[string]Estimator, len(ests))}
	for _, e := range ests {
		if _, dup := r.byTarget[e.Target()]; dup {
			return nil, fmt.Errorf("duplicate estimator for %q", e.Target())
		}
		r.byTarget[e.Target()] = e
		r.targets = append(r.targets, e.Target())
	}
	sort.Strings(r.targets)
	return r, nil
}

// Lookup resolves a target key.
func (r *Registry) Lookup(target string) (Estimator, error) {
	e, ok := r.byTarget[target]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrModelNotFound, target)
	}
	return e, nil
}

// Schema returns the feature schema for a target.
func (r *Registry) Schema(target string) (Schema, error) {
	e, err := r.Lookup(target)
	if err != nil {
		return Schema{}, err
	}
	return e.Schema(), nil
}

// Targets returns the registered target keys, sorted.
func (r *Registry) Targets() []string { return append([]string(nil), r.targets...) }

// Version returns the model file version string.
func (r *Registry) Version() string { return r.version }

// Universe returns the category universe stored with the models, if any.
func (r *Registry) Universe() (features.Universe, bool) {
	if r.universe == nil {
		return features.Universe{}, false
	}
	return *r.universe, true
}

// Tiers returns the tiers that have both hotel and food estimators.
func (r *Registry) Tiers() []model.Tier {
	var out []model.Tier
	seen := make(map[model.Tier]struct{})
	for _, t := range r.targets {
		if len(t) <= len(Hotel)+1 || t[:len(Hotel)+1] != Hotel+"_" {
			continue
		}
		tier := model.Tier(t[len(Hotel)+1:])
		if _, ok := r.byTarget[TargetKey(Food, tier)]; !ok {
			continue
		}
		if _, ok := seen[tier]; !ok {
			seen[tier] = struct{}{}
			out = append(out, tier)
		}
	}
	return out
}

type fileFormat struct {
	Version  string                `json:"version"`
	Universe *features.Universe    `json:"universe,omitempty"`
	Targets  map[string]targetSpec `json:"targets"`
}

type targetSpec struct {
	Kind         string    `json:"kind"`
	Schema       Schema    `json:"schema"`
	Intercept    float64   `json:"intercept,omitempty"`
	Coefficients []float64 `json:"coefficients,omitempty"`
	Trees        []Tree    `json:"trees,omitempty"`
	Value        float64   `json:"value,omitempty"`
}

// Load reads a model registry from a JSON file.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from config
	if err != nil {
		return nil, fmt.Errorf("reading models: %w", err)
	}
	return Parse(data)
}

// Parse decodes a model registry document.
func Parse(data []byte) (*Registry, error) {
	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing models: %w", err)
	}
	if len(f.Targets) == 0 {
		return nil, errors.New("models: no targets defined")
	}

	names := make([]string, 0, len(f.Targets))
	for name := range f.Targets {
		names = append(names, name)
	}
	sort.Strings(names)

	ests := make([]Estimator, 0, len(names))
	for _, name := range names {
		e, err := build(name, f.Targets[name])
		if err != nil {
			return nil, fmt.Errorf("target %s: %w", name, err)
		}
		ests = append(ests, e)
	}

	r, err := New(f.Version, ests...)
	if err != nil {
		return nil, err
	}
	if f.Universe != nil && !f.Universe.IsZero() {
		u := f.Universe.Normalize()
		r.universe = &u
	}
	return r, nil
}

func build(target string, spec targetSpec) (Estimator, error) {
	if spec.Schema.Name == "" {
		spec.Schema.Name = target
	}
	switch spec.Kind {
	case "linear":
		return NewLinear(target, spec.Schema, spec.Intercept, spec.Coefficients)
	case "forest":
		return NewForest(target, spec.Schema, spec.Trees)
	case "constant":
		return NewConstant(target, spec.Schema, spec.Value)
	default:
		return nil, fmt.Errorf("unknown estimator kind %q", spec.Kind)
	}
}
