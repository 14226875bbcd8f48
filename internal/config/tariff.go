package config

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
)

// ErrInvalidTariff reports a mode override that cannot be priced.
var ErrInvalidTariff = errors.New("invalid tariff")

// RateColumns lists the city dataset columns a mode may price from.
var RateColumns = []string{
	"bus_km_rate",
	"train_km_rate",
	"flight_base_rate",
	"local_transport_urban",
	"local_transport_rural",
}

// TariffConfig holds the non-ML transport cost constants.
type TariffConfig struct {
	RoundTripFactor float64               `toml:"round_trip_factor"`
	FlightPerKm     float64               `toml:"flight_per_km"`
	Modes           map[string]ModeTariff `toml:"modes,omitempty"`
}

// ModeTariff describes how one transport mode is priced.
// Kind is "per_km" (record rate x km x round trip) or "flight"
// (record base rate + km x FlightPerKm).
type ModeTariff struct {
	Kind   string `toml:"kind"`
	Column string `toml:"column,omitempty"`
}

// Mode pricing kinds.
const (
	KindPerKm  = "per_km"
	KindFlight = "flight"
)

// DefaultModes maps the supported modes to their pricing rules.
var DefaultModes = map[string]ModeTariff{
	"bus":    {Kind: KindPerKm, Column: "bus_km_rate"},
	"train":  {Kind: KindPerKm, Column: "train_km_rate"},
	"flight": {Kind: KindFlight, Column: "flight_base_rate"},
}

// DefaultTariff returns the standard round-trip factor and flight surcharge.
func DefaultTariff() TariffConfig {
	return TariffConfig{
		RoundTripFactor: 2,
		FlightPerKm:     8,
	}
}

// NormalizeMode trims and lower-cases a transport mode.
func NormalizeMode(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// LookupMode returns the pricing rule for a mode. Overrides from the config
// file win over DefaultModes. Returns false for unknown modes.
func (t TariffConfig) LookupMode(mode string) (ModeTariff, bool) {
	mode = NormalizeMode(mode)
	if mt, ok := t.Modes[mode]; ok {
		return mt, true
	}
	mt, ok := DefaultModes[mode]
	return mt, ok
}

// ModeNames returns every mode with a pricing rule, defaults first.
func (t TariffConfig) ModeNames() []string {
	var extra []string
	for m := range t.Modes {
		if _, ok := DefaultModes[m]; !ok {
			extra = append(extra, m)
		}
	}
	sort.Strings(extra)
	return append([]string{"bus", "train", "flight"}, extra...)
}

// Normalized fills zero values with the defaults.
func (t TariffConfig) Normalized() TariffConfig {
	d := DefaultTariff()
	if t.RoundTripFactor <= 0 {
		t.RoundTripFactor = d.RoundTripFactor
	}
	if t.FlightPerKm <= 0 {
		t.FlightPerKm = d.FlightPerKm
	}
	return t
}

// Validate checks every mode override for a known kind and rate column.
func (t TariffConfig) Validate() error {
	modes := make([]string, 0, len(t.Modes))
	for m := range t.Modes {
		modes = append(modes, m)
	}
	sort.Strings(modes)

	for _, m := range modes {
		mt := t.Modes[m]
		if mt.Kind != KindPerKm && mt.Kind != KindFlight {
			return fmt.Errorf("%w: mode %q has kind %q", ErrInvalidTariff, m, mt.Kind)
		}
		if !slices.Contains(RateColumns, mt.Column) {
			return fmt.Errorf("%w: mode %q has column %q, want one of %s",
				ErrInvalidTariff, m, mt.Column, strings.Join(RateColumns, ", "))
		}
	}
	return nil
}
