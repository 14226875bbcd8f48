package cmd

import (
	"errors"
	"time"

	"github.com/theirongolddev/wander/internal/geocode"
	"github.com/theirongolddev/wander/internal/places"
	"github.com/theirongolddev/wander/internal/reference"
	"github.com/theirongolddev/wander/internal/weather"
)

var (
	errNoWeatherKey = errors.New("no OpenWeatherMap key: set OPENWEATHER_API_KEY or run `wander setup`")
	errNoPlacesKey  = errors.New("no Google Places key: set GOOGLE_PLACES_API_KEY or run `wander setup`")
)

func newWeatherClient() (*weather.Client, error) {
	c := weather.NewClient(cfg.WeatherKey(),
		weather.WithBaseURL(cfg.Weather.BaseURL),
		weather.WithUnits(cfg.Weather.Units),
		weather.WithCacheTTL(time.Duration(cfg.Weather.CacheTTLMinutes)*time.Minute),
	)
	if c == nil {
		return nil, errNoWeatherKey
	}
	return c, nil
}

func newPlacesClient() (*places.Client, error) {
	c := places.NewClient(cfg.PlacesKey(), cfg.Places.BaseURL)
	if c == nil {
		return nil, errNoPlacesKey
	}
	return c, nil
}

func newExplorer() *places.Explorer {
	return places.NewExplorer(cfg.Places.OverpassURL, 30*time.Second)
}

// newGeocoder resolves names against the reference cities first and falls
// back to Nominatim.
func newGeocoder(cities *reference.Store) geocode.Chain {
	return geocode.Chain{
		geocode.NewReferenceGeocoder(cities, 25),
		geocode.NewNominatim(cfg.Geocode.NominatimURL, cfg.Geocode.UserAgent, time.Hour),
	}
}
