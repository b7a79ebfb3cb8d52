package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/urbansurvey/stopsync/gtfsrt"
	"github.com/urbansurvey/stopsync/schedule"
)

var departuresFlags struct {
	at       string
	limit    int
	feed     string
	noCache  bool
	realtime bool
}

var departuresCmd = &cobra.Command{
	Use:   "departures <stop_code>",
	Short: "Show the next departures at a stop from the schedule feed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stopCode := args[0]
		feedPath := cfg.Schedule.FeedPath
		if departuresFlags.feed != "" {
			feedPath = departuresFlags.feed
		}
		if feedPath == "" {
			return fmt.Errorf("no schedule feed configured; set schedule.feed_path or pass --feed")
		}
		idx, err := loadScheduleIndex(feedPath)
		if err != nil {
			return err
		}

		at := departuresFlags.at
		if at == "" {
			at = time.Now().Format("15:04") + ":00"
		}
		deps := idx.NextDepartures(stopCode, at, departuresFlags.limit)

		if departuresFlags.realtime && cfg.Schedule.TripUpdatesURL != "" {
			delays, err := gtfsrt.NewClient().FetchTripDelays(cfg.Schedule.TripUpdatesURL)
			if err != nil {
				zap.L().Warn("realtime feed unavailable; showing scheduled times", zap.Error(err))
			} else {
				deps = schedule.Annotate(deps, delays)
			}
		}

		if name := idx.StopName(stopCode); name != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", name, stopCode)
		}
		if len(deps) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no upcoming departures")
			return nil
		}
		for _, d := range deps {
			if d.Realtime {
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%+ds)\n", d.Time, d.Route, d.DelaySeconds)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", d.Time, d.Route)
			}
		}
		return nil
	},
}

// loadScheduleIndex returns the cached index when the cache is fresh,
// otherwise parses the feed and rewrites the cache best-effort.
func loadScheduleIndex(feedPath string) (*schedule.Index, error) {
	cachePath := cfg.Schedule.CachePath
	if cachePath != "" && !departuresFlags.noCache {
		if idx, err := schedule.LoadIndexFile(cachePath); err == nil {
			zap.L().Debug("loaded schedule index from cache", zap.String("path", cachePath))
			return idx, nil
		}
	}
	idx, err := schedule.LoadPath(feedPath)
	if err != nil {
		return nil, fmt.Errorf("load schedule feed: %w", err)
	}
	if cachePath != "" {
		if err := schedule.SaveIndexFile(idx, cachePath); err != nil {
			zap.L().Warn("failed to write schedule cache", zap.Error(err))
		}
	}
	return idx, nil
}

func init() {
	departuresCmd.Flags().StringVar(&departuresFlags.at, "at", "", "query time as HH:MM:SS (default now)")
	departuresCmd.Flags().IntVar(&departuresFlags.limit, "limit", 5, "maximum departures to show")
	departuresCmd.Flags().StringVar(&departuresFlags.feed, "feed", "", "schedule feed path (overrides config)")
	departuresCmd.Flags().BoolVar(&departuresFlags.noCache, "no-cache", false, "ignore the cached index and re-parse the feed")
	departuresCmd.Flags().BoolVar(&departuresFlags.realtime, "realtime", false, "annotate departures with TripUpdates delays")
	rootCmd.AddCommand(departuresCmd)
}
