package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/urbansurvey/stopsync/config"
	"github.com/urbansurvey/stopsync/logging"
)

var (
	cfg     *config.AppConfig
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "stopsync",
	Short: "Capture geolocated stops and reconcile them with external sources",
	Long: "stopsync keeps a local collection of geolocated stop records and " +
		"exchanges it with delimited files, JSON dumps and the remote catalog " +
		"API without losing columns it does not understand. A static schedule " +
		"feed can be loaded to answer next-departure queries per stop.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var paths []string
		if cfgFile != "" {
			paths = append(paths, cfgFile)
		}
		c, err := config.Load(paths...)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
		if err := logging.Init(cfg.Log.Level); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config.yml")
}
