package main

import (
	"io"
	"log/slog"

	"dockside/internal/config"
	"dockside/internal/handler"
	"dockside/internal/orders"
	"dockside/internal/resource"
	"dockside/internal/router"
)

// newRouter wires the handlers for cfg. The closer releases the order store.
func newRouter(cfg *config.Config, logger *slog.Logger) (*router.Router, io.Closer, error) {
	store, closer, err := orders.Open(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	pages := resource.NewDirLoader(cfg.PublicDir())
	r := router.New(
		handler.NewStatic(pages),
		handler.NewAPI(pages, store, logger),
		logger,
	)
	r.Use(
		handler.RequestIDMiddleware(),
		handler.LoggingMiddleware(logger),
		handler.RecoveryMiddleware(pages, logger),
	)
	return r, closer, nil
}
