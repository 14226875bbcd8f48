// Package features rebuilds the tabular feature representation the budget
// estimators were trained on.
package features

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/wander/internal/model"

	"go.uber.org/zap"
)

// NumericFeatures are copied from the city record and standardized.
var NumericFeatures = []string{
	"lat",
	"lng",
	"bus_km_rate",
	"train_km_rate",
	"flight_base_rate",
	"local_transport_urban",
	"local_transport_rural",
}

// FlagFeatures carry transport availability as 0/1 and are never scaled.
var FlagFeatures = []string{"bus_available", "train_available", "flight_available"}

// CityLookup resolves a city to its reference record.
type CityLookup interface {
	Lookup(city string) (model.CityRecord, error)
}

// Reconstructor builds feature vectors from reference data. It holds no
// mutable state and is safe for concurrent use.
type Reconstructor struct {
	cities   CityLookup
	universe Universe
	scaler   *Scaler
	log      *zap.Logger
}

// NewReconstructor returns a reconstructor. A nil scaler leaves numeric
// features unscaled.
func NewReconstructor(cities CityLookup, universe Universe, scaler *Scaler, log *zap.Logger) *Reconstructor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconstructor{cities: cities, universe: universe, scaler: scaler, log: log}
}

// Universe returns the category universe in use.
func (r *Reconstructor) Universe() Universe { return r.universe }

// FeatureNames returns the comprehensive feature order Build produces.
func (r *Reconstructor) FeatureNames() []string {
	names := append([]string(nil), NumericFeatures...)
	names = append(names, FlagFeatures...)
	return append(names, r.universe.FeatureNames()...)
}

// Build returns the comprehensive feature vector for (city, season).
func (r *Reconstructor) Build(city, season string) (Vector, error) {
	rec, err := r.cities.Lookup(city)
	if err != nil {
		return Vector{}, err
	}

	v := newVector(len(NumericFeatures) + len(FlagFeatures) + 32)

	raw := numericValues(rec)
	for _, name := range NumericFeatures {
		x, _ := r.scaler.Apply(name, raw[name])
		v.set(name, x)
	}
	for _, name := range FlagFeatures {
		v.set(name, raw[name])
	}

	inputs := map[string]string{
		"city":     rec.City,
		"district": rec.District,
		"category": rec.Category,
		"season":   strings.ToLower(strings.TrimSpace(season)),
	}
	for _, g := range r.universe.Groups {
		level, ok := g.Match(inputs[g.Field])
		if !ok {
			v.Unseen = append(v.Unseen, UnseenLevel{Field: g.Field, Level: inputs[g.Field]})
		}
		for _, l := range g.Encoded() {
			var x float64
			if l == level {
				x = 1
			}
			v.set(g.FeatureName(l), x)
		}
	}

	for _, u := range v.Unseen {
		r.log.Warn("unseen category level, encoding as reference",
			zap.String("field", u.Field),
			zap.String("level", u.Level),
			zap.String("city", rec.City),
		)
	}

	return v, nil
}

func numericValues(rec model.CityRecord) map[string]float64 {
	return map[string]float64{
		"lat":                   rec.Lat,
		"lng":                   rec.Lng,
		"bus_km_rate":           rec.BusKmRate,
		"train_km_rate":         rec.TrainKmRate,
		"flight_base_rate":      rec.FlightBaseRate,
		"local_transport_urban": rec.LocalTransportUrban,
		"local_transport_rural": rec.LocalTransportRural,
		"bus_available":         flag(rec.BusAvailable),
		"train_available":       flag(rec.TrainAvailable),
		"flight_available":      flag(rec.FlightAvailable),
	}
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// String renders a vector for debugging.
func (v Vector) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, n := range v.names {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%g", n, v.values[i])
	}
	b.WriteByte('}')
	return b.String()
}
