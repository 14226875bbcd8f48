package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/wander/internal/cli"

	"github.com/spf13/cobra"
)

var flagDistrict string

var citiesCmd = &cobra.Command{
	Use:   "cities",
	Short: "List known cities and the transport available from each",
	Args:  cobra.NoArgs,
	RunE:  runCities,
}

func init() {
	citiesCmd.Flags().StringVar(&flagDistrict, "district", "", "Filter to district (substring match)")
	rootCmd.AddCommand(citiesCmd)
}

func runCities(_ *cobra.Command, _ []string) error {
	pred, err := loadRuntime()
	if err != nil {
		return err
	}
	store := pred.Runtime().Cities

	records := store.Cities()
	if flagDistrict != "" {
		records = store.FilterByDistrict(flagDistrict)
	}
	if len(records) == 0 {
		fmt.Println("\n  No cities found.")
		return nil
	}

	rows := make([][]string, 0, len(records))
	for _, c := range records {
		rows = append(rows, []string{
			c.City,
			c.District,
			c.Category,
			fmt.Sprintf("%.2f, %.2f", c.Lat, c.Lng),
			strings.Join(c.Modes(), " "),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:    fmt.Sprintf("%s cities", cli.FormatNumber(int64(len(records)))),
		Headers:  []string{"City", "District", "Category", "Lat, Lng", "Modes"},
		Rows:     rows,
		LeftCols: 5,
	}))
	return nil
}
