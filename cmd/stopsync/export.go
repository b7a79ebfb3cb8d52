package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var exportFlags struct {
	format string
	api    bool
	out    string
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the collection to a timestamped export file",
	Long: "export serializes the collection. --format json always emits the " +
		"catalog schema. --format txt emits the catalog schema with --api, " +
		"otherwise it reuses the original header of the last tabular import " +
		"when one is active and falls back to the six canonical columns.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, sess, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		var (
			data []byte
			name string
		)
		switch exportFlags.format {
		case "json":
			data, name, err = sess.ExportJSON()
		case "txt":
			data, name, err = sess.ExportText(exportFlags.api)
		default:
			return fmt.Errorf("unknown format %q (want txt or json)", exportFlags.format)
		}
		if err != nil {
			return err
		}

		path := filepath.Join(exportFlags.out, name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		zap.L().Info("exported stops", zap.String("path", path), zap.Int("count", sess.Len()))
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFlags.format, "format", "txt", "export format: txt or json")
	exportCmd.Flags().BoolVar(&exportFlags.api, "api", false, "force the catalog schema for txt exports")
	exportCmd.Flags().StringVar(&exportFlags.out, "out", ".", "directory to write the export into")
	rootCmd.AddCommand(exportCmd)
}
