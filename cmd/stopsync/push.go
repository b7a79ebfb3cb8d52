package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/urbansurvey/stopsync/remote"
	"github.com/urbansurvey/stopsync/stops"
)

var pushFlags struct {
	url string
}

var pushCmd = &cobra.Command{
	Use:   "push <stop_id>",
	Short: "Push one edited stop back to the remote catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("stop_id must be an integer: %q", args[0])
		}
		baseURL := cfg.API.BaseURL
		if pushFlags.url != "" {
			baseURL = pushFlags.url
		}

		ctx := cmd.Context()
		st, sess, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		stop := sess.Find(id)
		if stop == nil {
			return stops.ErrStopNotFound
		}
		client := remote.NewClient(baseURL, cfg.API.TimeoutMS)
		if err := client.UpdateStop(stop); err != nil {
			return err
		}
		zap.L().Info("pushed stop to catalog", zap.Int64("id", id), zap.String("url", baseURL))
		fmt.Fprintf(cmd.OutOrStdout(), "pushed %s\n", stop.Code)
		return nil
	},
}

func init() {
	pushCmd.Flags().StringVar(&pushFlags.url, "url", "", "catalog URL (overrides config)")
	rootCmd.AddCommand(pushCmd)
}
