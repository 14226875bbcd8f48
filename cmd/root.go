// Package cmd implements the wander CLI commands.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/theirongolddev/wander/internal/config"
	"github.com/theirongolddev/wander/internal/itinerary"
	"github.com/theirongolddev/wander/internal/logging"
	"github.com/theirongolddev/wander/internal/model"
	"github.com/theirongolddev/wander/internal/pipeline"
	"github.com/theirongolddev/wander/internal/store"
	"github.com/theirongolddev/wander/internal/tui/theme"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagConfig  string
	flagDataDir string
	flagVerbose bool
	flagQuiet   bool
)

// Set up by the root command's PersistentPreRunE.
var (
	cfg config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "wander",
	Short: "Trip budget planner for India",
	Long:  "Predict hotel, food and transport costs for Indian cities and plan day-by-day trip budgets.",

	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "  Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default "+config.ConfigPath()+")")
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Directory holding cities.csv, scaler.json and models.json")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

func setup(cmd *cobra.Command, _ []string) error {
	if flagConfig != "" {
		config.SetPath(flagConfig)
	}
	wd, _ := os.Getwd()
	config.LoadEnv(wd)

	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}
	if flagDataDir != "" {
		cfg.General.DataDir = flagDataDir
	}
	theme.SetActive(cfg.Appearance.Theme)

	level := ""
	if flagVerbose {
		level = "debug"
	}
	log, err = logging.New(logging.Options{Level: level, JSON: cmd.Name() == "serve"})
	return err
}

// loadRuntime is the shared data loading path used by all prediction commands.
func loadRuntime() (*pipeline.Predictor, error) {
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Loading reference data from %s...\n", cfg.General.DataDir)
	}

	rt, err := pipeline.Load(pipeline.Paths{
		Cities: cfg.CitiesPath(),
		Scaler: cfg.ScalerPath(),
		Models: cfg.ModelsPath(),
	}, log)
	if err != nil {
		return nil, err
	}

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Loaded %d cities, models %s (%s)\n",
			rt.Cities.Len(), rt.Registry.Version(), rt.LoadTime.Round(time.Millisecond))
		if rt.Degraded {
			fmt.Fprintf(os.Stderr, "  Scaler unavailable, predictions use unscaled features\n")
		}
	}
	return pipeline.NewPredictor(rt, cfg.Tariff, log), nil
}

// openStore opens the saved-trips database named by the config.
func openStore() (*store.Store, error) {
	return store.Open(cfg.Store.Driver, cfg.StoreDSN())
}

func itineraryOptions() itinerary.Options {
	return itinerary.Options{
		StaySeason:           cfg.Itinerary.StaySeason,
		TravelLocalTransport: cfg.Itinerary.TravelLocalTransport,
		MaxPeople:            cfg.Itinerary.MaxPeople,
		MaxDays:              cfg.Itinerary.MaxDays,
	}
}

// tierFlag resolves a --tier value against the configured default.
func tierFlag(v string) model.Tier {
	if v == "" {
		v = cfg.Itinerary.DefaultTier
	}
	return model.ParseTier(v)
}
