package orders

import (
	"io"
	"log/slog"

	"dockside/internal/config"
	"dockside/internal/errors"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open returns the store selected by cfg.Data.Driver together with a closer
// for any resources it holds.
func Open(cfg *config.Config, logger *slog.Logger) (Store, io.Closer, error) {
	switch cfg.Data.Driver {
	case config.DriverFile, "":
		path := cfg.DataFile()
		if _, _, err := DetectFormat(path); err != nil {
			return nil, nil, err
		}
		logger.Debug("Using file orders store", "path", path)
		return NewFileStore(path), nopCloser{}, nil
	case config.DriverSQLite:
		store, err := OpenSQLite(cfg.SQLitePath(), logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("Using sqlite orders store", "path", store.Path())
		return store, store, nil
	default:
		return nil, nil, errors.New(errors.ConfigInvalid, "unknown data driver "+cfg.Data.Driver, nil)
	}
}
