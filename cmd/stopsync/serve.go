package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/urbansurvey/stopsync/schedule"
	"github.com/urbansurvey/stopsync/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the collection and departures over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, sess, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		var idx *schedule.Index
		if cfg.Schedule.FeedPath != "" {
			idx, err = loadScheduleIndex(cfg.Schedule.FeedPath)
			if err != nil {
				zap.L().Warn("schedule feed unavailable; departures disabled", zap.Error(err))
				idx = nil
			}
		}

		srv := server.New(cfg.Server.Port, sess, idx)
		srv.Start()
		srv.WaitForShutdown()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
