package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/theirongolddev/wander/internal/cli"
	"github.com/theirongolddev/wander/internal/places"
	"github.com/theirongolddev/wander/internal/sentiment"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagPlacesTier   string
	flagPlacesNear   string
	flagPlacesRadius float64
	flagSentiment    bool
)

var placesCmd = &cobra.Command{
	Use:   "places",
	Short: "Find things to see and do",
}

var placesSearchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Search Google Places",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPlacesSearch,
}

var placesNearbyCmd = &cobra.Command{
	Use:   "nearby CITY",
	Short: "List OpenStreetMap attractions around a city",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPlacesNearby,
}

var placesDetailsCmd = &cobra.Command{
	Use:   "details ID",
	Short: "Show a place with its reviews",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlacesDetails,
}

func init() {
	placesSearchCmd.Flags().StringVarP(&flagPlacesTier, "tier", "t", "", "Filter by price for a budget tier")
	placesSearchCmd.Flags().StringVar(&flagPlacesNear, "near", "", "Bias results towards a city")
	placesNearbyCmd.Flags().Float64Var(&flagPlacesRadius, "radius", 0, "Search radius in metres (default from config)")
	placesDetailsCmd.Flags().BoolVar(&flagSentiment, "sentiment", true, "Classify review sentiment when a key is configured")

	placesCmd.AddCommand(placesSearchCmd, placesNearbyCmd, placesDetailsCmd)
	rootCmd.AddCommand(placesCmd)
}

func runPlacesSearch(cmd *cobra.Command, args []string) error {
	client, err := newPlacesClient()
	if err != nil {
		return err
	}
	query := strings.Join(args, " ")

	opts := places.SearchOptions{MaxResults: cfg.Places.MaxResults}
	if flagPlacesTier != "" {
		opts.PriceLevels = places.PriceLevelsForTier(tierFlag(flagPlacesTier))
	}
	if flagPlacesNear != "" {
		pred, err := loadRuntime()
		if err != nil {
			return err
		}
		loc, err := newGeocoder(pred.Runtime().Cities).Geocode(cmd.Context(), flagPlacesNear)
		if err != nil {
			return err
		}
		opts.Lat, opts.Lng, opts.RadiusM = loc.Lat, loc.Lng, cfg.Places.RecommendRadiusM
	}

	results, err := client.Search(cmd.Context(), query, opts)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("\n  No places found.")
		return nil
	}

	printPlaces("Results  "+query, results)

	rec := places.NewRecommender(cfg.Places.RecommendThreshold, cfg.Places.RecommendRadiusM)
	rec.Observe(results...)
	lat, lng := opts.Lat, opts.Lng
	if lat == 0 && lng == 0 {
		lat, lng = results[0].Lat, results[0].Lng
	}
	if r, ok := rec.Next(lat, lng); ok {
		fmt.Printf("\n  %d results are %s. Try: wander places search %q\n", r.Count, strings.ToLower(r.Category), r.Query)
	}
	return nil
}

func runPlacesNearby(cmd *cobra.Command, args []string) error {
	pred, err := loadRuntime()
	if err != nil {
		return err
	}
	name := strings.Join(args, " ")
	loc, err := newGeocoder(pred.Runtime().Cities).Geocode(cmd.Context(), name)
	if err != nil {
		return err
	}

	radius := flagPlacesRadius
	if radius <= 0 {
		radius = cfg.Places.NearbyRadiusM
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Querying OpenStreetMap within %s of %s...\n", cli.FormatKm(radius/1000), loc.Name)
	}

	found, err := newExplorer().Nearby(cmd.Context(), loc.Lat, loc.Lng, radius)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		fmt.Println("\n  No attractions found.")
		return nil
	}
	printPlaces("Around "+loc.Name, found)
	return nil
}

func runPlacesDetails(cmd *cobra.Command, args []string) error {
	client, err := newPlacesClient()
	if err != nil {
		return err
	}
	p, err := client.Details(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(strings.ToUpper(p.Name)))
	fmt.Println()
	pairs := [][2]string{
		{"Address", p.Address},
		{"Rating", cli.FormatRating(p.Rating, p.RatingCount)},
		{"Price", places.PriceLabel(p.PriceLevel)},
		{"Categories", strings.Join(p.Categories(), ", ")},
	}
	if p.Website != "" {
		pairs = append(pairs, [2]string{"Website", p.Website})
	}
	if p.Phone != "" {
		pairs = append(pairs, [2]string{"Phone", p.Phone})
	}
	if len(p.Photos) > 0 {
		pairs = append(pairs, [2]string{"Photo", client.PhotoURL(p.Photos[0].Name, 400)})
	}
	fmt.Print(cli.RenderKeyValues(pairs))

	if p.Summary != "" {
		fmt.Printf("\n  %s\n", p.Summary)
	}
	for _, h := range p.OpeningHours {
		fmt.Printf("  %s\n", h)
	}

	if len(p.Reviews) == 0 {
		return nil
	}
	fmt.Println()
	for _, r := range p.Reviews {
		fmt.Printf("  %s  %s\n", cli.FormatRating(r.Rating, 0), r.Author)
		fmt.Printf("    %s\n", cli.Truncate(strings.ReplaceAll(r.Text, "\n", " "), 100))
	}

	if !flagSentiment {
		return nil
	}
	classifier, err := sentiment.New(cmd.Context(), sentiment.Options{
		Provider: cfg.Sentiment.Provider,
		Model:    cfg.Sentiment.Model,
		APIKey:   cfg.SentimentKey(),
	})
	if err != nil {
		log.Debug("sentiment disabled", zap.Error(err))
		return nil
	}
	if c, ok := classifier.(interface{ Close() error }); ok {
		defer func() { _ = c.Close() }()
	}

	texts := make([]string, len(p.Reviews))
	for i, r := range p.Reviews {
		texts[i] = r.Text
	}
	s := sentiment.AnalyzeReviews(cmd.Context(), classifier, texts, log)

	fmt.Println()
	fmt.Print(cli.RenderKeyValues([][2]string{
		{"Sentiment", s.Overall},
		{"Reviews", fmt.Sprintf("%d positive, %d negative, %d neutral", s.Positive, s.Negative, s.Neutral)},
	}))
	if s.Failed > 0 {
		fmt.Fprintf(os.Stderr, "\n  %d reviews could not be classified\n", s.Failed)
	}
	return nil
}

func printPlaces(title string, list []places.Place) {
	rows := make([][]string, 0, len(list))
	for _, p := range list {
		rows = append(rows, []string{
			cli.Truncate(p.Name, 32),
			cli.Truncate(strings.Join(p.Categories(), ", "), 24),
			places.PriceLabel(p.PriceLevel),
			cli.FormatRating(p.Rating, p.RatingCount),
		})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:    title,
		Headers:  []string{"Name", "Category", "Price", "Rating"},
		Rows:     rows,
		LeftCols: 3,
	}))
}
