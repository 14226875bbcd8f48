package tui

import (
	"strings"

	"github.com/theirongolddev/wander/internal/config"
	"github.com/theirongolddev/wander/internal/model"
	"github.com/theirongolddev/wander/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues are the answers bound to the setup form.
type SetupValues struct {
	DataDir           string
	DefaultTier       string
	StaySeason        string
	WeatherKey        string
	PlacesKey         string
	SentimentProvider string
	SentimentKey      string
	StoreDriver       string
	Theme             string
}

// NewSetupValues pre-fills the form from cfg.
func NewSetupValues(cfg config.Config) SetupValues {
	return SetupValues{
		DataDir:           cfg.General.DataDir,
		DefaultTier:       cfg.Itinerary.DefaultTier,
		StaySeason:        cfg.Itinerary.StaySeason,
		WeatherKey:        cfg.Weather.APIKey,
		PlacesKey:         cfg.Places.APIKey,
		SentimentProvider: cfg.Sentiment.Provider,
		SentimentKey:      cfg.Sentiment.APIKey,
		StoreDriver:       cfg.Store.Driver,
		Theme:             cfg.Appearance.Theme,
	}
}

// Apply writes the answers into cfg. Blank keys leave existing keys alone.
func (v SetupValues) Apply(cfg *config.Config) {
	if d := strings.TrimSpace(v.DataDir); d != "" {
		cfg.General.DataDir = d
	}
	if v.DefaultTier != "" {
		cfg.Itinerary.DefaultTier = v.DefaultTier
	}
	if v.StaySeason != "" {
		cfg.Itinerary.StaySeason = v.StaySeason
	}
	if k := strings.TrimSpace(v.WeatherKey); k != "" {
		cfg.Weather.APIKey = k
	}
	if k := strings.TrimSpace(v.PlacesKey); k != "" {
		cfg.Places.APIKey = k
	}
	if v.SentimentProvider != "" {
		cfg.Sentiment.Provider = v.SentimentProvider
	}
	if k := strings.TrimSpace(v.SentimentKey); k != "" {
		cfg.Sentiment.APIKey = k
	}
	if v.StoreDriver != "" {
		cfg.Store.Driver = v.StoreDriver
	}
	if v.Theme != "" {
		cfg.Appearance.Theme = v.Theme
		theme.SetActive(v.Theme)
	}
}

// NewSetupForm builds the first-run setup wizard.
func NewSetupForm(v *SetupValues) *huh.Form {
	tiers := make([]string, len(model.Tiers))
	for i, t := range model.Tiers {
		tiers[i] = string(t)
	}

	secret := func(title, desc string, val *string) *huh.Input {
		return huh.NewInput().
			Title(title).
			Description(desc).
			Placeholder("leave blank to keep current").
			EchoMode(huh.EchoModePassword).
			Value(val)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to wander").
				Description("Plan trips across India and see what they cost.\nLet's set up a few things."),
			huh.NewInput().
				Title("Data directory").
				Description("Holds cities.csv, scaler.json and models.json").
				Value(&v.DataDir),
			huh.NewSelect[string]().
				Title("Default budget tier").
				Options(huh.NewOptions(tiers...)...).
				Value(&v.DefaultTier),
			huh.NewSelect[string]().
				Title("Season used for stay days").
				Options(huh.NewOptions(model.Seasons...)...).
				Value(&v.StaySeason),
		),
		huh.NewGroup(
			secret("OpenWeatherMap API key", "For weather at your destinations", &v.WeatherKey),
			secret("Google Places API key", "For place search and reviews", &v.PlacesKey),
			huh.NewSelect[string]().
				Title("Review sentiment provider").
				Options(huh.NewOption("OpenAI", "openai"), huh.NewOption("Gemini", "gemini")).
				Value(&v.SentimentProvider),
			secret("Sentiment API key", "OpenAI or Gemini key, matching the provider", &v.SentimentKey),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Saved trips database").
				Options(huh.NewOption("SQLite (local file)", "sqlite"), huh.NewOption("PostgreSQL", "postgres")).
				Value(&v.StoreDriver),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&v.Theme),
		),
	)
}
