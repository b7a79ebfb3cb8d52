package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/urbansurvey/stopsync/stops"
)

var recordFlags struct {
	lat   float64
	lon   float64
	name  string
	desc  string
	photo string
}

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Capture a new stop at the given coordinates",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := stops.CaptureInput{
			Name: recordFlags.name,
			Desc: recordFlags.desc,
			Lat:  recordFlags.lat,
			Lon:  recordFlags.lon,
		}
		if recordFlags.photo != "" {
			data, err := os.ReadFile(recordFlags.photo)
			if err != nil {
				return fmt.Errorf("read photo: %w", err)
			}
			in.PhotoName = filepath.Base(recordFlags.photo)
			in.Photo = data
		}

		ctx := cmd.Context()
		st, sess, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		stop := sess.Record(in)
		if err := saveSession(ctx, st, sess); err != nil {
			return err
		}
		zap.L().Info("recorded stop",
			zap.Int64("id", stop.ID),
			zap.String("code", stop.Code),
			zap.Float64("lat", stop.Lat),
			zap.Float64("lon", stop.Lon))
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", stop.Code)
		return nil
	},
}

func init() {
	recordCmd.Flags().Float64Var(&recordFlags.lat, "lat", 0, "latitude (required)")
	recordCmd.Flags().Float64Var(&recordFlags.lon, "lon", 0, "longitude (required)")
	recordCmd.Flags().StringVar(&recordFlags.name, "name", "", "stop name")
	recordCmd.Flags().StringVar(&recordFlags.desc, "desc", "", "stop description")
	recordCmd.Flags().StringVar(&recordFlags.photo, "photo", "", "path to a photo of the stop")
	_ = recordCmd.MarkFlagRequired("lat")
	_ = recordCmd.MarkFlagRequired("lon")
	rootCmd.AddCommand(recordCmd)
}
