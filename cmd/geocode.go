package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/wander/internal/cli"
	"github.com/theirongolddev/wander/internal/geocode"

	"github.com/spf13/cobra"
)

var flagReverse bool

var geocodeCmd = &cobra.Command{
	Use:   "geocode NAME | --reverse LAT LNG",
	Short: "Resolve a place name to coordinates, or coordinates to a place",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runGeocode,
}

func init() {
	geocodeCmd.Flags().BoolVar(&flagReverse, "reverse", false, "Reverse-geocode LAT LNG")
	rootCmd.AddCommand(geocodeCmd)
}

func runGeocode(cmd *cobra.Command, args []string) error {
	pred, err := loadRuntime()
	if err != nil {
		return err
	}
	g := newGeocoder(pred.Runtime().Cities)

	var loc geocode.Location
	if flagReverse {
		if len(args) != 2 {
			return errors.New("--reverse takes LAT LNG")
		}
		lat, err1 := strconv.ParseFloat(args[0], 64)
		lng, err2 := strconv.ParseFloat(args[1], 64)
		if err1 != nil || err2 != nil {
			return fmt.Errorf("invalid coordinates %q %q", args[0], args[1])
		}
		loc, err = g.Reverse(cmd.Context(), lat, lng)
	} else {
		loc, err = g.Geocode(cmd.Context(), strings.Join(args, " "))
	}
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Print(cli.RenderKeyValues([][2]string{
		{"Name", loc.Name},
		{"Address", loc.Address},
		{"Coordinates", fmt.Sprintf("%.4f, %.4f", loc.Lat, loc.Lng)},
		{"Source", loc.Source},
	}))
	return nil
}
