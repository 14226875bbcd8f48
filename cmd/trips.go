package cmd

import (
	"fmt"

	"github.com/theirongolddev/wander/internal/cli"

	"github.com/spf13/cobra"
)

var flagBrowse bool

var tripsCmd = &cobra.Command{
	Use:   "trips",
	Short: "Manage saved trips",
}

var tripsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved trips",
	Args:  cobra.NoArgs,
	RunE:  runTripsList,
}

var tripsShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a saved trip",
	Args:  cobra.ExactArgs(1),
	RunE:  runTripsShow,
}

var tripsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a saved trip",
	Args:  cobra.ExactArgs(1),
	RunE:  runTripsDelete,
}

func init() {
	tripsShowCmd.Flags().BoolVar(&flagBrowse, "browse", false, "Open the trip in the itinerary browser")

	tripsCmd.AddCommand(tripsListCmd, tripsShowCmd, tripsDeleteCmd)
	rootCmd.AddCommand(tripsCmd)
}

func runTripsList(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	trips, err := st.ListTrips(cmd.Context())
	if err != nil {
		return err
	}
	if len(trips) == 0 {
		fmt.Println("\n  No saved trips. Plan one with `wander plan --save`.")
		return nil
	}

	rows := make([][]string, 0, len(trips))
	for _, it := range trips {
		rows = append(rows, []string{
			it.ID,
			cli.Truncate(it.Name, 24),
			string(it.Tier),
			fmt.Sprintf("%d", it.People),
			fmt.Sprintf("%d", it.Days),
			cli.FormatDate(it.CreatedAt),
			cli.FormatCurrency(it.Total),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:    "Saved trips",
		Headers:  []string{"ID", "Name", "Tier", "People", "Days", "Created", "Total"},
		Rows:     rows,
		LeftCols: 3,
	}))
	return nil
}

func runTripsShow(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	it, err := st.GetTrip(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if flagBrowse {
		prepareTerminal()
		return browse(it)
	}
	printItinerary(it)
	return nil
}

func runTripsDelete(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.DeleteTrip(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("  Deleted trip %s\n", args[0])
	return nil
}
