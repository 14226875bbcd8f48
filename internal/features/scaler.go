package features

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrScalerUnavailable indicates the scaler file could not be loaded.
// Callers may continue with unscaled numeric features.
var ErrScalerUnavailable = errors.New("features: scaler unavailable")

// Param is the fitted mean and scale of one numeric feature.
type Param struct {
	Name  string  `json:"name"`
	Mean  float64 `json:"mean"`
	Scale float64 `json:"scale"`
}

// Scaler standardizes numeric features with fixed per-feature parameters.
type Scaler struct {
	params []Param
	index  map[string]int
}

// NewScaler returns a scaler over params. Later duplicates override earlier
// entries.
func NewScaler(params []Param) *Scaler {
	s := &Scaler{index: make(map[string]int, len(params))}
	for _, p := range params {
		if i, ok := s.index[p.Name]; ok {
			s.params[i] = p
			continue
		}
		s.index[p.Name] = len(s.params)
		s.params = append(s.params, p)
	}
	return s
}

type scalerFile struct {
	Features []Param `json:"features"`
}

// LoadScaler reads scaler parameters from a JSON file. Every failure wraps
// ErrScalerUnavailable.
func LoadScaler(path string) (*Scaler, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from config
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScalerUnavailable, err)
	}

	var f scalerFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrScalerUnavailable, path, err)
	}
	if len(f.Features) == 0 {
		return nil, fmt.Errorf("%w: %s has no features", ErrScalerUnavailable, path)
	}
	return NewScaler(f.Features), nil
}

// Apply standardizes v if name was fitted. A zero scale is treated as 1.
func (s *Scaler) Apply(name string, v float64) (float64, bool) {
	if s == nil {
		return v, false
	}
	i, ok := s.index[name]
	if !ok {
		return v, false
	}
	p := s.params[i]
	scale := p.Scale
	if scale == 0 {
		scale = 1
	}
	return (v - p.Mean) / scale, true
}

// Len returns the number of fitted features.
func (s *Scaler) Len() int {
	if s == nil {
		return 0
	}
	return len(s.params)
}

// Params returns a copy of the fitted parameters in file order.
func (s *Scaler) Params() []Param {
	if s == nil {
		return nil
	}
	return append([]Param(nil), s.params...)
}
