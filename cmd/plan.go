package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/theirongolddev/wander/internal/cli"
	"github.com/theirongolddev/wander/internal/itinerary"
	"github.com/theirongolddev/wander/internal/model"
	"github.com/theirongolddev/wander/internal/pipeline"
	"github.com/theirongolddev/wander/internal/tui"
	"github.com/theirongolddev/wander/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagBatch     string
	flagSave      bool
	flagNoBrowser bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan a trip day by day and see what it costs",
	Long: "Plan a trip interactively, or price a whole trip from a JSON file with --batch.\n" +
		"The batch file holds {\"name\", \"tier\", \"people\", \"days\": [{\"kind\": \"travel\"|\"stay\", ...}]}.",
	Args: cobra.NoArgs,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVar(&flagBatch, "batch", "", "Price the trip described in a JSON file")
	planCmd.Flags().BoolVar(&flagSave, "save", false, "Save the trip without asking")
	planCmd.Flags().BoolVar(&flagNoBrowser, "no-browser", false, "Print the itinerary instead of opening the browser")
	rootCmd.AddCommand(planCmd)
}

// planFile is the --batch input format.
type planFile struct {
	Name   string             `json:"name"`
	Tier   string             `json:"tier"`
	People int                `json:"people"`
	Days   []model.DayRequest `json:"days"`
}

func readPlanFile(path string) (planFile, error) {
	var pf planFile
	data, err := os.ReadFile(path) //nolint:gosec // plan path is supplied by the local user
	if err != nil {
		return pf, fmt.Errorf("reading plan: %w", err)
	}
	if err := json.Unmarshal(data, &pf); err != nil {
		return pf, fmt.Errorf("parsing plan %s: %w", path, err)
	}
	if len(pf.Days) == 0 {
		return pf, fmt.Errorf("plan %s has no days", path)
	}
	return pf, nil
}

func runPlan(_ *cobra.Command, _ []string) error {
	pred, err := loadRuntime()
	if err != nil {
		return err
	}
	if flagBatch != "" {
		return runPlanBatch(pred)
	}

	prepareTerminal()
	planner := &tui.Planner{
		Pred:    pred,
		Cities:  pred.Runtime().Cities.Names(),
		Seasons: model.Seasons,
		Modes:   pred.Tariff().ModeNames(),
		Options: itineraryOptions(),
		Theme:   theme.Active.Huh(),
		Out:     os.Stdout,
		Defaults: tui.TripValues{
			Tier:   string(tierFlag("")),
			People: "2",
			Days:   "3",
		},
	}

	it, err := planner.Run()
	if errors.Is(err, huh.ErrUserAborted) {
		if len(it.Plans) == 0 {
			fmt.Println("\n  Planning cancelled.")
			return nil
		}
		fmt.Printf("\n  Stopped after %d of %d days.\n", len(it.Plans), it.Days)
	} else if err != nil {
		return err
	}
	if len(it.Plans) == 0 {
		return nil
	}

	if flagNoBrowser {
		printItinerary(it)
		return maybeSave(it)
	}
	return browse(it)
}

func runPlanBatch(pred *pipeline.Predictor) error {
	pf, err := readPlanFile(flagBatch)
	if err != nil {
		return err
	}
	tier := tierFlag(pf.Tier)

	it, err := itinerary.Build(pred, pf.Days, tier, pf.People, itineraryOptions())
	it.Name = pf.Name
	if err != nil {
		var de *itinerary.DayError
		if errors.As(err, &de) && len(it.Plans) > 0 {
			printItinerary(it)
			fmt.Fprintf(os.Stderr, "\n  Stopped at day %d\n", de.Day)
		}
		return err
	}

	printItinerary(it)
	return maybeSave(it)
}

// browse opens the itinerary browser with saving wired to the store.
func browse(it model.Itinerary) error {
	st, err := openStore()
	if err != nil {
		log.Warn("trip store unavailable, saving disabled", zap.Error(err))
	} else {
		defer st.Close()
	}

	var save tui.SaveFunc
	if st != nil {
		save = func(it model.Itinerary) (model.Itinerary, error) {
			return st.SaveTrip(context.Background(), it)
		}
	}

	p := tea.NewProgram(tui.NewBrowser(it, save), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	if b, ok := final.(tui.Browser); ok && b.Itinerary().ID != "" {
		fmt.Printf("  Saved trip %s\n", b.Itinerary().ID)
	}
	return nil
}

func maybeSave(it model.Itinerary) error {
	if !flagSave {
		return nil
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	saved, err := st.SaveTrip(context.Background(), it)
	if err != nil {
		return err
	}
	fmt.Printf("\n  Saved trip %s\n", saved.ID)
	return nil
}

// prepareTerminal matches lipgloss to the terminal before a TUI starts.
func prepareTerminal() {
	out := termenv.NewOutput(os.Stdout)
	lipgloss.SetColorProfile(out.EnvColorProfile())
	lipgloss.SetHasDarkBackground(out.HasDarkBackground())
}

// printItinerary renders a trip as a day table plus summary.
func printItinerary(it model.Itinerary) {
	s := pipeline.Summarize(it)

	title := "ITINERARY"
	if it.Name != "" {
		title += "  " + it.Name
	}
	fmt.Println()
	fmt.Println(cli.RenderTitle(title))
	fmt.Println()

	rows := make([][]string, 0, len(it.Plans)+2)
	for _, p := range it.Plans {
		route := p.Request.Stay
		if p.Request.Kind == model.DayTravel {
			route = fmt.Sprintf("%s → %s (%s)", p.Request.From, p.Request.To, p.Request.Mode)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", p.Day),
			string(p.Request.Kind),
			route,
			cli.FormatKm(p.DistanceKm),
			cli.FormatCurrency(p.Accommodation),
			cli.FormatCurrency(p.Food),
			cli.FormatCurrency(p.Transport),
			cli.FormatCurrency(p.LocalTransport),
			cli.FormatCurrency(p.Total),
		})
	}
	rows = append(rows, []string{cli.Separator})
	rows = append(rows, []string{"", "", "Total", cli.FormatKm(s.DistanceKm), "", "", "", "", cli.FormatCurrency(it.Total)})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers:  []string{"Day", "Kind", "Route", "Km", "Hotel", "Food", "Fare", "Local", "Day total"},
		Rows:     rows,
		LeftCols: 3,
	}))

	fmt.Println()
	pairs := [][2]string{
		{"Tier", string(it.Tier)},
		{"Travellers", fmt.Sprintf("%d", it.People)},
		{"Days", fmt.Sprintf("%d planned of %d (%d travel, %d stay)", s.Days, it.Days, s.TravelDays, s.StayDays)},
		{"Per person", cli.RenderMoney(s.PerPerson)},
		{"Per day", cli.RenderMoney(s.PerDay)},
	}
	if s.PriciestDay > 0 {
		pairs = append(pairs, [2]string{"Priciest day", fmt.Sprintf("day %d, %s", s.PriciestDay, cli.FormatCurrency(s.PriciestTotal))})
	}
	pairs = append(pairs, [2]string{"Total", cli.RenderMoney(it.Total)})
	fmt.Print(cli.RenderKeyValues(pairs))

	if len(s.ByCity) > 1 {
		fmt.Println()
		for _, ct := range s.ByCity {
			fmt.Println(cli.RenderShareBar(ct.City, ct.Share, 30))
		}
	}
}
