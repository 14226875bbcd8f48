package model

import "time"

// DayKind distinguishes inter-city travel days from stay days.
type DayKind string

const (
	DayTravel DayKind = "travel"
	DayStay   DayKind = "stay"
)

// DayRequest holds the user's parameters for one day.
// Travel days use From, To, Season and Mode. Stay days use Stay.
type DayRequest struct {
	Kind   DayKind `json:"kind"`
	From   string  `json:"from,omitempty"`
	To     string  `json:"to,omitempty"`
	Season string  `json:"season,omitempty"`
	Mode   string  `json:"mode,omitempty"`
	Stay   string  `json:"stay,omitempty"`
}

// City returns the city whose costs the day is priced against.
func (r DayRequest) City() string {
	if r.Kind == DayStay {
		return r.Stay
	}
	return r.From
}

// DayPlan is one resolved day of an itinerary.
type DayPlan struct {
	Day        int        `json:"day"`
	Request    DayRequest `json:"request"`
	DistanceKm float64    `json:"distance_km,omitempty"`

	Accommodation  float64 `json:"accommodation"`
	Food           float64 `json:"food"`
	Transport      float64 `json:"transport"`
	LocalTransport float64 `json:"local_transport"`
	Total          float64 `json:"total"`
}

// Itinerary is an ordered list of day plans and their running total.
type Itinerary struct {
	ID        string    `json:"id,omitempty"`
	Name      string    `json:"name,omitempty"`
	Tier      Tier      `json:"tier"`
	People    int       `json:"people"`
	Days      int       `json:"days"`
	Plans     []DayPlan `json:"plans"`
	Total     float64   `json:"total"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// SumDays recomputes the total from the day plans.
func (it Itinerary) SumDays() float64 {
	var sum float64
	for _, p := range it.Plans {
		sum += p.Total
	}
	return sum
}
