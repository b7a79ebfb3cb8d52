package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the current stop collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, sess, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		for _, stop := range sess.Stops() {
			name := stop.Name
			if name == "" {
				name = "(unnamed)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%.6f,%.6f\n",
				stop.ID, stop.Code, name, stop.Lat, stop.Lon)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d stops\n", sess.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
