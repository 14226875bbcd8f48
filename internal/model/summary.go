package model

// TripSummary holds the aggregate view of an itinerary.
type TripSummary struct {
	Days       int
	TravelDays int
	StayDays   int

	Accommodation  float64
	Food           float64
	Transport      float64
	LocalTransport float64
	Total          float64

	DistanceKm float64
	PerPerson  float64
	PerDay     float64

	// PriciestDay is the 1-based index of the most expensive day, 0 if none.
	PriciestDay   int
	PriciestTotal float64

	// ByCity sums day totals against the city each day was priced for.
	ByCity []CityTotal
}

// CityTotal is one city's share of a trip.
type CityTotal struct {
	City  string
	Days  int
	Total float64
	Share float64
}
