package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/export"
	"github.com/i474232898/weather-dashboard/internal/render"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

type viewFlags struct {
	location string
	rangeVal string
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.location, "location", "l", "", "location to build, e.g. \"Lagos, NG\"")
	cmd.Flags().StringVarP(&f.rangeVal, "range", "r", string(weather.Range7Days), "range code: 24h, 7d, 30d, 90d or 1y")
}

func (f *viewFlags) request() weather.Request {
	return weather.Request{Location: f.location, Range: weather.RangeCode(f.rangeVal).Normalize()}
}

// buildOnce loads config and runs one build, reporting fallback data on stderr.
func buildOnce(cmd *cobra.Command, req weather.Request) (weather.Aggregate, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return weather.Aggregate{}, fmt.Errorf("failed to load config: %w", err)
	}

	res := newBuilder(cfg).BuildResult(cmd.Context(), req)
	if !res.Live() {
		log.Printf("Warning: serving fallback data: %v", res.Err)
	}
	for _, d := range res.Degraded {
		log.Printf("Warning: %v", d)
	}
	return res.Aggregate, nil
}

func buildCmd() *cobra.Command {
	var (
		flags  viewFlags
		format string
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build one dashboard aggregate",
		Long:  "Fetch provider data for a location and print the dashboard aggregate",
		RunE: func(cmd *cobra.Command, args []string) error {
			agg, err := buildOnce(cmd, flags.request())
			if err != nil {
				return err
			}
			return render.Write(os.Stdout, format, agg)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", render.FormatJSON, "output format: json or table")
	return cmd
}

func exportCmd() *cobra.Command {
	var (
		flags viewFlags
		out   string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export one dashboard aggregate as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := flags.request()
			agg, err := buildOnce(cmd, req)
			if err != nil {
				return err
			}

			now := time.Now()
			if out == "" {
				out = export.FileName(req.Location, now)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer f.Close()

			if err := export.Write(f, req.Location, agg, now); err != nil {
				return err
			}
			fmt.Printf("Exported %s to %s\n", agg.Location, out)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default weather-data-<location>-<date>.csv)")
	return cmd
}
