// Package config loads and saves wander's TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all wander configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Itinerary  ItineraryConfig  `toml:"itinerary"`
	Tariff     TariffConfig     `toml:"tariff"`
	Weather    WeatherConfig    `toml:"weather"`
	Places     PlacesConfig     `toml:"places"`
	Sentiment  SentimentConfig  `toml:"sentiment"`
	Geocode    GeocodeConfig    `toml:"geocode"`
	Store      StoreConfig      `toml:"store"`
	Server     ServerConfig     `toml:"server"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig locates the offline-produced data files.
type GeneralConfig struct {
	DataDir    string `toml:"data_dir,omitempty"`
	CitiesFile string `toml:"cities_file"`
	ScalerFile string `toml:"scaler_file"`
	ModelsFile string `toml:"models_file"`
}

// ItineraryConfig holds the itinerary cost constants and input bounds.
type ItineraryConfig struct {
	StaySeason           string  `toml:"stay_season"`
	TravelLocalTransport float64 `toml:"travel_local_transport"`
	MaxPeople            int     `toml:"max_people"`
	MaxDays              int     `toml:"max_days"`
	DefaultTier          string  `toml:"default_tier"`
}

// WeatherConfig holds OpenWeatherMap settings.
type WeatherConfig struct {
	BaseURL         string `toml:"base_url,omitempty"`
	APIKey          string `toml:"api_key,omitempty"`
	Units           string `toml:"units"`
	CacheTTLMinutes int    `toml:"cache_ttl_minutes"`
}

// PlacesConfig holds Google Places and Overpass settings.
type PlacesConfig struct {
	BaseURL            string  `toml:"base_url,omitempty"`
	APIKey             string  `toml:"api_key,omitempty"`
	OverpassURL        string  `toml:"overpass_url,omitempty"`
	NearbyRadiusM      float64 `toml:"nearby_radius_m"`
	RecommendRadiusM   float64 `toml:"recommend_radius_m"`
	RecommendThreshold int     `toml:"recommend_threshold"`
	MaxResults         int     `toml:"max_results"`
}

// SentimentConfig selects the review classifier.
type SentimentConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model,omitempty"`
	APIKey   string `toml:"api_key,omitempty"`
}

// GeocodeConfig holds Nominatim settings.
type GeocodeConfig struct {
	NominatimURL string `toml:"nominatim_url,omitempty"`
	UserAgent    string `toml:"user_agent"`
}

// StoreConfig selects the saved-trips database.
type StoreConfig struct {
	Driver string `toml:"driver"`
	DSN    string `toml:"dsn,omitempty"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
	Mode string `toml:"mode"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DataDir:    "data",
			CitiesFile: "cities.csv",
			ScalerFile: "scaler.json",
			ModelsFile: "models.json",
		},
		Itinerary: ItineraryConfig{
			StaySeason:           "offpeak",
			TravelLocalTransport: 500,
			MaxPeople:            20,
			MaxDays:              31,
			DefaultTier:          "budget",
		},
		Tariff: DefaultTariff(),
		Weather: WeatherConfig{
			Units:           "metric",
			CacheTTLMinutes: 10,
		},
		Places: PlacesConfig{
			NearbyRadiusM:      5000,
			RecommendRadiusM:   50000,
			RecommendThreshold: 3,
			MaxResults:         10,
		},
		Sentiment: SentimentConfig{
			Provider: "openai",
		},
		Geocode: GeocodeConfig{
			UserAgent: "wander/1.0",
		},
		Store: StoreConfig{
			Driver: "sqlite",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
			Mode: "release",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "wander")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "wander")
}

// DataHome returns the XDG data directory used for the saved-trips database.
func DataHome() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "wander")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "wander")
}

// pathOverride is set by SetPath for the --config flag.
var pathOverride string

// SetPath points Load, Save and Exists at a specific file.
func SetPath(p string) { pathOverride = p }

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	if pathOverride != "" {
		return pathOverride
	}
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Tariff.Validate(); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	path := ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// CitiesPath returns the reference dataset location.
func (c Config) CitiesPath() string { return c.dataFile(c.General.CitiesFile) }

// ScalerPath returns the scaler parameters location.
func (c Config) ScalerPath() string { return c.dataFile(c.General.ScalerFile) }

// ModelsPath returns the model registry location.
func (c Config) ModelsPath() string { return c.dataFile(c.General.ModelsFile) }

func (c Config) dataFile(name string) string {
	if filepath.IsAbs(name) || c.General.DataDir == "" {
		return name
	}
	return filepath.Join(c.General.DataDir, name)
}
