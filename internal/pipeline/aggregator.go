package pipeline

import (
	"sort"
	"strings"

	"github.com/theirongolddev/wander/internal/model"
)

// Summarize computes the aggregate view of an itinerary.
func Summarize(it model.Itinerary) model.TripSummary {
	var s model.TripSummary
	byCity := make(map[string]*model.CityTotal)
	var order []string

	for _, p := range it.Plans {
		s.Days++
		switch p.Request.Kind {
		case model.DayTravel:
			s.TravelDays++
		case model.DayStay:
			s.StayDays++
		}

		s.Accommodation += p.Accommodation
		s.Food += p.Food
		s.Transport += p.Transport
		s.LocalTransport += p.LocalTransport
		s.Total += p.Total
		s.DistanceKm += p.DistanceKm

		if p.Total > s.PriciestTotal || s.PriciestDay == 0 {
			s.PriciestDay = p.Day
			s.PriciestTotal = p.Total
		}

		city := p.Request.City()
		key := strings.ToLower(city)
		ct, ok := byCity[key]
		if !ok {
			ct = &model.CityTotal{City: city}
			byCity[key] = ct
			order = append(order, key)
		}
		ct.Days++
		ct.Total += p.Total
	}

	if it.People > 0 {
		s.PerPerson = s.Total / float64(it.People)
	}
	if s.Days > 0 {
		s.PerDay = s.Total / float64(s.Days)
	}

	for _, k := range order {
		ct := byCity[k]
		if s.Total > 0 {
			ct.Share = ct.Total / s.Total
		}
		s.ByCity = append(s.ByCity, *ct)
	}
	sort.SliceStable(s.ByCity, func(i, j int) bool {
		return s.ByCity[i].Total > s.ByCity[j].Total
	})

	return s
}
