// Package geocode resolves place names to coordinates and back.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/wander/internal/reference"
)

// ErrNotFound indicates no geocoder could resolve the input.
var ErrNotFound = errors.New("geocode: location not found")

// DefaultCenter is the map centre used when nothing better is known.
var DefaultCenter = Location{Name: "India", Lat: 20.5937, Lng: 78.9629, Source: "default"}

// Location is a resolved place.
type Location struct {
	Name    string  `json:"name"`
	Address string  `json:"address,omitempty"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Source  string  `json:"source"`
}

// Geocoder resolves names and coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (Location, error)
	Reverse(ctx context.Context, lat, lng float64) (Location, error)
}

// ReferenceGeocoder resolves against the city reference set.
type ReferenceGeocoder struct {
	cities *reference.Store
	// MaxKm bounds reverse lookups; zero means any distance.
	MaxKm float64
}

// NewReferenceGeocoder wraps a city store.
func NewReferenceGeocoder(cities *reference.Store, maxKm float64) *ReferenceGeocoder {
	return &ReferenceGeocoder{cities: cities, MaxKm: maxKm}
}

// Geocode implements Geocoder.
func (g *ReferenceGeocoder) Geocode(_ context.Context, query string) (Location, error) {
	rec, err := g.cities.Lookup(query)
	if err != nil {
		if errors.Is(err, reference.ErrCityNotFound) {
			return Location{}, fmt.Errorf("%w: %q", ErrNotFound, query)
		}
		return Location{}, err
	}
	return Location{
		Name:    rec.City,
		Address: strings.Trim(rec.City+", "+rec.District, ", "),
		Lat:     rec.Lat,
		Lng:     rec.Lng,
		Source:  "reference",
	}, nil
}

// Reverse returns the nearest reference city.
func (g *ReferenceGeocoder) Reverse(_ context.Context, lat, lng float64) (Location, error) {
	var (
		best  Location
		bestD = -1.0
	)
	for _, rec := range g.cities.Cities() {
		d := reference.GreatCircleKm(lat, lng, rec.Lat, rec.Lng)
		if bestD < 0 || d < bestD {
			bestD = d
			best = Location{
				Name:    rec.City,
				Address: strings.Trim(rec.City+", "+rec.District, ", "),
				Lat:     rec.Lat,
				Lng:     rec.Lng,
				Source:  "reference",
			}
		}
	}
	if bestD < 0 || (g.MaxKm > 0 && bestD > g.MaxKm) {
		return Location{}, fmt.Errorf("%w: %.4f,%.4f", ErrNotFound, lat, lng)
	}
	return best, nil
}

// Chain tries each geocoder in order. A not-found answer moves on to the
// next one; any other error is remembered and reported only if no later
// geocoder succeeds.
type Chain []Geocoder

// Geocode implements Geocoder.
func (c Chain) Geocode(ctx context.Context, query string) (Location, error) {
	return c.try(func(g Geocoder) (Location, error) { return g.Geocode(ctx, query) })
}

// Reverse implements Geocoder.
func (c Chain) Reverse(ctx context.Context, lat, lng float64) (Location, error) {
	return c.try(func(g Geocoder) (Location, error) { return g.Reverse(ctx, lat, lng) })
}

func (c Chain) try(fn func(Geocoder) (Location, error)) (Location, error) {
	var lastErr error
	for _, g := range c {
		if g == nil {
			continue
		}
		loc, err := fn(g)
		if err == nil {
			return loc, nil
		}
		if !errors.Is(err, ErrNotFound) {
			lastErr = err
		}
	}
	if lastErr != nil {
		return Location{}, lastErr
	}
	return Location{}, ErrNotFound
}
