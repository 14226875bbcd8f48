package cmd

import (
	"fmt"

	"github.com/theirongolddev/wander/internal/cli"

	"github.com/spf13/cobra"
)

var flagWeatherDays int

var weatherCmd = &cobra.Command{
	Use:   "weather CITY",
	Short: "Current weather or a daily forecast for a city",
	Args:  cobra.ExactArgs(1),
	RunE:  runWeather,
}

func init() {
	weatherCmd.Flags().IntVar(&flagWeatherDays, "days", 0, "Show a daily forecast for up to 5 days")
	rootCmd.AddCommand(weatherCmd)
}

func runWeather(cmd *cobra.Command, args []string) error {
	client, err := newWeatherClient()
	if err != nil {
		return err
	}
	units := cfg.Weather.Units

	if flagWeatherDays > 0 {
		days, err := client.Forecast(cmd.Context(), args[0], flagWeatherDays)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(days))
		for _, d := range days {
			rows = append(rows, []string{
				d.Date,
				d.Description,
				cli.FormatTemp(d.TempMin, units),
				cli.FormatTemp(d.TempMax, units),
			})
		}
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:    "Forecast  " + args[0],
			Headers:  []string{"Date", "Conditions", "Low", "High"},
			Rows:     rows,
			LeftCols: 2,
		}))
		return nil
	}

	cur, err := client.Current(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("WEATHER  %s, %s", cur.City, cur.Country)))
	fmt.Println()
	fmt.Print(cli.RenderKeyValues([][2]string{
		{"Conditions", cur.Description},
		{"Temperature", cli.FormatTemp(cur.Temp, units)},
		{"Feels like", cli.FormatTemp(cur.FeelsLike, units)},
		{"Humidity", fmt.Sprintf("%.0f%%", cur.Humidity)},
		{"Wind", fmt.Sprintf("%.1f", cur.WindSpeed)},
		{"Sunrise", cur.Sunrise.Local().Format("15:04")},
		{"Sunset", cur.Sunset.Local().Format("15:04")},
	}))
	return nil
}
