// Package reference holds the read-only city reference dataset.
package reference

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/theirongolddev/wander/internal/model"
)

// ErrCityNotFound indicates no reference record matches a city name.
var ErrCityNotFound = errors.New("reference: city not found")

// Store indexes city records by name. It is never mutated after New,
// so a single Store may be shared by any number of goroutines.
type Store struct {
	byKey   map[string]model.CityRecord
	cities  []model.CityRecord
	seasons []string
}

// New builds a store. Names match case-insensitively and the first record
// for a name wins.
func New(records []model.CityRecord, seasons []string) *Store {
	s := &Store{byKey: make(map[string]model.CityRecord, len(records))}
	for _, r := range records {
		key := normalize(r.City)
		if key == "" {
			continue
		}
		if _, ok := s.byKey[key]; ok {
			continue
		}
		s.byKey[key] = r
		s.cities = append(s.cities, r)
	}
	sort.Slice(s.cities, func(i, j int) bool { return s.cities[i].City < s.cities[j].City })

	s.seasons = uniqueSorted(seasons)
	return s
}

// Load reads the dataset at path into a store.
func Load(path string) (*Store, error) {
	res, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return New(res.Records, res.Seasons), nil
}

// Lookup returns the record for city.
func (s *Store) Lookup(city string) (model.CityRecord, error) {
	rec, ok := s.byKey[normalize(city)]
	if !ok {
		return model.CityRecord{}, fmt.Errorf("%w: %q", ErrCityNotFound, city)
	}
	return rec, nil
}

// Has reports whether city is known.
func (s *Store) Has(city string) bool {
	_, ok := s.byKey[normalize(city)]
	return ok
}

// Cities returns all records sorted by name. The slice is a copy.
func (s *Store) Cities() []model.CityRecord {
	out := make([]model.CityRecord, len(s.cities))
	copy(out, s.cities)
	return out
}

// Names returns the sorted city names.
func (s *Store) Names() []string {
	out := make([]string, len(s.cities))
	for i, c := range s.cities {
		out[i] = c.City
	}
	return out
}

// Len returns the number of cities.
func (s *Store) Len() int { return len(s.cities) }

// Levels returns the sorted distinct values of a categorical column:
// city, district, category or season.
func (s *Store) Levels(field string) []string {
	if field == "season" {
		return append([]string(nil), s.seasons...)
	}
	var vals []string
	for _, c := range s.cities {
		switch field {
		case "city":
			vals = append(vals, c.City)
		case "district":
			vals = append(vals, c.District)
		case "category":
			vals = append(vals, c.Category)
		}
	}
	return uniqueSorted(vals)
}

// FilterByDistrict returns the cities whose district contains substr,
// case-insensitively.
func (s *Store) FilterByDistrict(substr string) []model.CityRecord {
	substr = normalize(substr)
	var out []model.CityRecord
	for _, c := range s.cities {
		if strings.Contains(normalize(c.District), substr) {
			out = append(out, c)
		}
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func uniqueSorted(vals []string) []string {
	set := make(map[string]struct{}, len(vals))
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v == "" {
			continue
		}
		if _, ok := set[v]; ok {
			continue
		}
		set[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
