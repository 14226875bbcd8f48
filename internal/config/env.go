package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadEnv loads a .env file from dir, then from the config directory.
// Variables already set in the process environment are never overwritten.
// Missing files are not an error.
func LoadEnv(dir string) []string {
	var loaded []string
	for _, p := range []string{filepath.Join(dir, ".env"), filepath.Join(ConfigDir(), ".env")} {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err == nil {
			loaded = append(loaded, p)
		}
	}
	return loaded
}

// WeatherKey returns the OpenWeatherMap key from env var or config, in that order.
func (c Config) WeatherKey() string {
	return firstNonEmpty(os.Getenv("OPENWEATHER_API_KEY"), c.Weather.APIKey)
}

// PlacesKey returns the Google Places key from env var or config.
func (c Config) PlacesKey() string {
	return firstNonEmpty(os.Getenv("GOOGLE_PLACES_API_KEY"), c.Places.APIKey)
}

// SentimentKey returns the key for the configured sentiment provider.
func (c Config) SentimentKey() string {
	env := "OPENAI_API_KEY"
	if c.Sentiment.Provider == "gemini" {
		env = "GEMINI_API_KEY"
	}
	return firstNonEmpty(os.Getenv(env), c.Sentiment.APIKey)
}

// StoreDSN returns the saved-trips database DSN. WANDER_DATABASE_URL wins,
// then the config file, then a sqlite file under DataHome.
func (c Config) StoreDSN() string {
	if dsn := os.Getenv("WANDER_DATABASE_URL"); dsn != "" {
		return dsn
	}
	if c.Store.DSN != "" {
		return c.Store.DSN
	}
	return filepath.Join(DataHome(), "trips.db")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
