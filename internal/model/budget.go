package model

import "strings"

// Tier selects which lodging/food estimators a prediction uses.
type Tier string

const (
	TierBudget Tier = "budget"
	TierLuxury Tier = "luxury"
)

// Tiers lists the tiers offered to users, in display order.
var Tiers = []Tier{TierBudget, TierLuxury}

// ParseTier normalizes user input. It does not validate: an unsupported
// tier surfaces later as a missing model.
func ParseTier(s string) Tier {
	return Tier(strings.ToLower(strings.TrimSpace(s)))
}

// Season values known to the reference data.
const (
	SeasonOffPeak = "offpeak"
	SeasonPeak    = "peak"
)

// Seasons lists the seasons offered to users.
var Seasons = []string{SeasonPeak, SeasonOffPeak}

// Bundle is the result of one budget prediction for a (city, season, tier).
// All four components are non-negative.
type Bundle struct {
	City   string `json:"city"`
	Season string `json:"season"`
	Tier   Tier   `json:"tier"`

	Hotel               float64 `json:"hotel"`
	Food                float64 `json:"food"`
	LocalTransportUrban float64 `json:"local_transport_urban"`
	LocalTransportRural float64 `json:"local_transport_rural"`
}

// Components returns the bundle as a labeled map.
func (b Bundle) Components() map[string]float64 {
	return map[string]float64{
		"hotel":                 b.Hotel,
		"food":                  b.Food,
		"local_transport_urban": b.LocalTransportUrban,
		"local_transport_rural": b.LocalTransportRural,
	}
}
