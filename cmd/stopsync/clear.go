package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/urbansurvey/stopsync/store"
)

var clearFlags struct {
	force bool
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop the saved collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !clearFlags.force {
			return fmt.Errorf("refusing to clear without --force")
		}
		st, err := store.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.ClearStops(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "cleared")
		return nil
	},
}

func init() {
	clearCmd.Flags().BoolVar(&clearFlags.force, "force", false, "confirm dropping the saved collection")
	rootCmd.AddCommand(clearCmd)
}
