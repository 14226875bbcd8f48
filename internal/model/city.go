// Package model defines the domain types shared across wander's packages.
package model

// CityRecord is one row of the city reference dataset.
type CityRecord struct {
	City     string  `json:"city"`
	District string  `json:"district"`
	Category string  `json:"category"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`

	BusKmRate      float64 `json:"bus_km_rate"`
	TrainKmRate    float64 `json:"train_km_rate"`
	FlightBaseRate float64 `json:"flight_base_rate"`

	LocalTransportUrban float64 `json:"local_transport_urban"`
	LocalTransportRural float64 `json:"local_transport_rural"`

	BusAvailable    bool `json:"bus_available"`
	TrainAvailable  bool `json:"train_available"`
	FlightAvailable bool `json:"flight_available"`
}

// Modes returns the transport modes flagged as available for the city.
func (c CityRecord) Modes() []string {
	var modes []string
	if c.BusAvailable {
		modes = append(modes, "bus")
	}
	if c.TrainAvailable {
		modes = append(modes, "train")
	}
	if c.FlightAvailable {
		modes = append(modes, "flight")
	}
	return modes
}
