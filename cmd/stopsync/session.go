package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/urbansurvey/stopsync/stops"
	"github.com/urbansurvey/stopsync/store"
)

// openSession opens the autosave store and restores the saved collection.
// A missing or unreadable snapshot means starting fresh, never a failure.
func openSession(ctx context.Context) (*store.Store, *stops.Session, error) {
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, nil, err
	}
	sess := stops.NewSession()
	data, err := st.LoadStops(ctx)
	if err != nil {
		zap.L().Warn("failed to read autosave; starting fresh", zap.Error(err))
		return st, sess, nil
	}
	if err := sess.Restore(data); err != nil {
		zap.L().Warn("autosave is corrupted; starting fresh", zap.Error(err))
	}
	return st, sess, nil
}

// saveSession rewrites the stored collection. Called after every mutating
// operation.
func saveSession(ctx context.Context, st *store.Store, sess *stops.Session) error {
	data, err := sess.Snapshot()
	if err != nil {
		return err
	}
	return st.SaveStops(ctx, data)
}
