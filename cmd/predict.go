package cmd

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/theirongolddev/wander/internal/cli"
	"github.com/theirongolddev/wander/internal/model"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagSeason string
	flagTier   string
	flagAll    bool
)

var predictCmd = &cobra.Command{
	Use:   "predict [CITY]",
	Short: "Predict daily hotel, food and local transport costs for a city",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPredict,
}

var transportCmd = &cobra.Command{
	Use:   "transport CITY MODE KM",
	Short: "Price a journey leaving CITY by bus, train or flight",
	Args:  cobra.ExactArgs(3),
	RunE:  runTransport,
}

var distanceCmd = &cobra.Command{
	Use:   "distance FROM TO",
	Short: "Great-circle distance between two cities",
	Args:  cobra.ExactArgs(2),
	RunE:  runDistance,
}

func init() {
	predictCmd.Flags().StringVarP(&flagSeason, "season", "s", model.SeasonPeak, "Season (peak or offpeak)")
	predictCmd.Flags().StringVarP(&flagTier, "tier", "t", "", "Budget tier (budget or luxury)")
	predictCmd.Flags().BoolVar(&flagAll, "all", false, "Predict every known city")

	rootCmd.AddCommand(predictCmd, transportCmd, distanceCmd)
}

func runPredict(_ *cobra.Command, args []string) error {
	if flagAll {
		return runPredictAll()
	}
	if len(args) == 0 {
		return errors.New("a city is required (or use --all)")
	}

	pred, err := loadRuntime()
	if err != nil {
		return err
	}
	b, err := pred.PredictBudget(args[0], flagSeason, tierFlag(flagTier))
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("DAILY COSTS  %s  %s / %s", b.City, b.Season, b.Tier)))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Item", "Per day"},
		Rows: [][]string{
			{"Hotel", cli.FormatCurrency(b.Hotel)},
			{"Food", cli.FormatCurrency(b.Food)},
			{cli.Separator},
			{"Local transport (urban)", cli.FormatCurrency(b.LocalTransportUrban)},
			{"Local transport (rural)", cli.FormatCurrency(b.LocalTransportRural)},
			{cli.Separator},
			{"Hotel + food", cli.FormatCurrency(b.Hotel + b.Food)},
		},
	}))
	return nil
}

func runPredictAll() error {
	pred, err := loadRuntime()
	if err != nil {
		return err
	}
	names := pred.Runtime().Cities.Names()
	tier := tierFlag(flagTier)

	results := pred.PredictAll(names, flagSeason, tier, func(current, total int) {
		if flagQuiet {
			return
		}
		fmt.Fprintf(os.Stderr, "\r  Predicting %s", cli.RenderProgressBar(current, total, 30))
	})
	if !flagQuiet {
		fmt.Fprintln(os.Stderr)
	}

	sort.SliceStable(results, func(i, j int) bool {
		bi, bj := results[i].Bundle, results[j].Bundle
		return bi.Hotel+bi.Food > bj.Hotel+bj.Food
	})

	rows := make([][]string, 0, len(results))
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			log.Warn("prediction failed", zap.String("city", r.City), zap.Error(r.Err))
			continue
		}
		rows = append(rows, []string{
			r.City,
			cli.FormatCurrency(r.Bundle.Hotel),
			cli.FormatCurrency(r.Bundle.Food),
			cli.FormatCurrency(r.Bundle.LocalTransportUrban),
			cli.FormatCurrency(r.Bundle.Hotel + r.Bundle.Food),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:    fmt.Sprintf("All cities  %s / %s", flagSeason, tier),
		Headers:  []string{"City", "Hotel", "Food", "Local", "Hotel + food"},
		Rows:     rows,
		LeftCols: 1,
	}))
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "\n  %d cities could not be predicted\n", failed)
	}
	return nil
}

func runTransport(_ *cobra.Command, args []string) error {
	km, err := strconv.ParseFloat(args[2], 64)
	if err != nil || km < 0 {
		return fmt.Errorf("invalid distance %q", args[2])
	}

	pred, err := loadRuntime()
	if err != nil {
		return err
	}
	cost, err := pred.TransportCost(args[0], args[1], km)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Print(cli.RenderKeyValues([][2]string{
		{"From", args[0]},
		{"Mode", args[1]},
		{"Distance", cli.FormatKm(km)},
		{"Fare", cli.RenderMoney(cost)},
	}))
	if cost == 0 {
		fmt.Println(cli.RenderWarning(fmt.Sprintf("no fare for %q from %s; known modes: %v",
			args[1], args[0], pred.Tariff().ModeNames())))
	}
	return nil
}

func runDistance(_ *cobra.Command, args []string) error {
	pred, err := loadRuntime()
	if err != nil {
		return err
	}
	km, err := pred.Distance(args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Printf("\n  %s to %s: %s\n", args[0], args[1], cli.FormatKm(km))
	return nil
}
