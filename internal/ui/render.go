package ui

import (
	"bufio"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/bobby-s-dev/weather-lookup/internal/models"
)

const title = "Weather Forecast"

// Render writes the view as plain text: the results panel when a search
// succeeded, then the forecast table or its fallback when expanded.
func Render(w io.Writer, v models.View) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, title)

	if v.ShowResults() {
		fmt.Fprintf(bw, "\n%s: %s\n", v.City, v.Current.Summary)
		fmt.Fprintln(bw, v.Current.Description)
		fmt.Fprintln(bw, v.Current.TemperatureLabel())
		fmt.Fprintf(bw, "wind speed: %s\n", v.Current.WindLabel())
		fmt.Fprintf(bw, "[f] %s\n", v.ToggleLabel())
	} else if msg := v.CurrentStatus.Message(); msg != "" {
		fmt.Fprintf(bw, "\n%s\n", msg)
	}

	if v.ForecastVisible() {
		fmt.Fprintln(bw)
		if len(v.Forecast) > 0 {
			if err := renderForecast(bw, v.Forecast); err != nil {
				return err
			}
		} else {
			fmt.Fprintln(bw, models.NoForecastMessage)
		}
	}

	return bw.Flush()
}

func renderForecast(w io.Writer, rows []models.ForecastEntry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Date/Time\tTemp (°C)\tMin (°C)\tMax (°C)\tWind (m/s)\tDescription")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%.1f\t%.1f\t%.1f\t%.1f\t%s\n",
			row.Timestamp, row.TemperatureC, row.MinTempC, row.MaxTempC, row.WindSpeedMs, row.Description)
	}
	return tw.Flush()
}
