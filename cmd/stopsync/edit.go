package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/urbansurvey/stopsync/stops"
)

var editFlags struct {
	name string
	desc string
	lat  float64
	lon  float64
}

var editCmd = &cobra.Command{
	Use:   "edit <stop_id>",
	Short: "Edit an existing stop; omitted flags keep the current value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("stop_id must be an integer: %q", args[0])
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
		name, desc, lat, lon := stop.Name, stop.Desc, stop.Lat, stop.Lon
		if cmd.Flags().Changed("name") {
			name = editFlags.name
		}
		if cmd.Flags().Changed("desc") {
			desc = editFlags.desc
		}
		if cmd.Flags().Changed("lat") {
			lat = editFlags.lat
		}
		if cmd.Flags().Changed("lon") {
			lon = editFlags.lon
		}
		if err := sess.Edit(id, name, desc, lat, lon); err != nil {
			return err
		}
		if err := saveSession(ctx, st, sess); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", stop.Code)
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <stop_id>",
	Short: "Remove a stop from the collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("stop_id must be an integer: %q", args[0])
		}

		ctx := cmd.Context()
		st, sess, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := sess.Delete(id); err != nil {
			return err
		}
		if err := saveSession(ctx, st, sess); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d\n", id)
		return nil
	},
}

func init() {
	editCmd.Flags().StringVar(&editFlags.name, "name", "", "new stop name")
	editCmd.Flags().StringVar(&editFlags.desc, "desc", "", "new stop description")
	editCmd.Flags().Float64Var(&editFlags.lat, "lat", 0, "new latitude")
	editCmd.Flags().Float64Var(&editFlags.lon, "lon", 0, "new longitude")
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(removeCmd)
}
