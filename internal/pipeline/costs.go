package pipeline

import (
	"strings"

	"github.com/theirongolddev/wander/internal/config"
	"github.com/theirongolddev/wander/internal/model"

	"go.uber.org/zap"
)

// TransportCost prices a trip of distanceKm leaving city by mode.
// Per-km modes cost rate x km x round-trip factor; flights cost the base
// rate plus km x the per-km surcharge. Unknown modes cost 0 and log a
// warning. An unknown city is an error.
func (p *Predictor) TransportCost(city, mode string, distanceKm float64) (float64, error) {
	rec, err := p.rt.Cities.Lookup(city)
	if err != nil {
		return 0, err
	}

	mode = config.NormalizeMode(mode)
	mt, ok := p.tariff.LookupMode(mode)
	if !ok {
		p.log.Warn("unknown transport mode, cost is zero",
			zap.String("mode", mode),
			zap.String("city", rec.City),
		)
		return 0, nil
	}

	rate, ok := rateColumn(rec, mt.Column)
	if !ok {
		p.log.Warn("unknown tariff column, cost is zero",
			zap.String("mode", mode),
			zap.String("column", mt.Column),
		)
		return 0, nil
	}

	switch mt.Kind {
	case config.KindFlight:
		return rate + distanceKm*p.tariff.FlightPerKm, nil
	case config.KindPerKm:
		return rate * distanceKm * p.tariff.RoundTripFactor, nil
	}

	p.log.Warn("unknown tariff kind, cost is zero",
		zap.String("mode", mode),
		zap.String("kind", mt.Kind),
	)
	return 0, nil
}

// Distance returns the great-circle distance between two known cities.
func (p *Predictor) Distance(from, to string) (float64, error) {
	return p.rt.Cities.Distance(from, to)
}

func rateColumn(rec model.CityRecord, column string) (float64, bool) {
	switch column {
	case "bus_km_rate":
		return rec.BusKmRate, true
	case "train_km_rate":
		return rec.TrainKmRate, true
	case "flight_base_rate":
		return rec.FlightBaseRate, true
	case "local_transport_urban":
		return rec.LocalTransportUrban, true
	case "local_transport_rural":
		return rec.LocalTransportRural, true
	}
	return 0, false
}

func normalizeSeason(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
