package cmd

import (
	"fmt"

	"github.com/theirongolddev/wander/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Cities:  %s\n", cfg.CitiesPath())
	fmt.Printf("    Scaler:  %s\n", cfg.ScalerPath())
	fmt.Printf("    Models:  %s\n", cfg.ModelsPath())
	fmt.Println()

	fmt.Println("  [Itinerary]")
	fmt.Printf("    Default tier:           %s\n", cfg.Itinerary.DefaultTier)
	fmt.Printf("    Stay season:            %s\n", cfg.Itinerary.StaySeason)
	fmt.Printf("    Travel local transport: %.0f\n", cfg.Itinerary.TravelLocalTransport)
	fmt.Printf("    Max people / days:      %d / %d\n", cfg.Itinerary.MaxPeople, cfg.Itinerary.MaxDays)
	fmt.Println()

	fmt.Println("  [Tariff]")
	fmt.Printf("    Round trip factor: %.1f\n", cfg.Tariff.RoundTripFactor)
	fmt.Printf("    Flight per km:     %.1f\n", cfg.Tariff.FlightPerKm)
	fmt.Printf("    Modes:             %v\n", cfg.Tariff.ModeNames())
	fmt.Println()

	fmt.Println("  [Services]")
	printKey("Weather key", cfg.WeatherKey())
	printKey("Places key", cfg.PlacesKey())
	printKey(fmt.Sprintf("Sentiment key (%s)", cfg.Sentiment.Provider), cfg.SentimentKey())
	fmt.Println()

	fmt.Println("  [Store]")
	fmt.Printf("    Driver: %s\n", cfg.Store.Driver)
	if cfg.Store.Driver == "postgres" {
		fmt.Println("    DSN:    (hidden)")
	} else {
		fmt.Printf("    DSN:    %s\n", cfg.StoreDSN())
	}
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address: %s (%s)\n", cfg.Server.Addr, cfg.Server.Mode)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `wander setup` to reconfigure.")
	return nil
}

func printKey(label, key string) {
	if key == "" {
		fmt.Printf("    %-24s not configured\n", label+":")
		return
	}
	fmt.Printf("    %-24s %s\n", label+":", maskAPIKey(key))
}
