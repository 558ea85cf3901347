// Package router selects the handler for a request and writes its
// serialized response.
package router

import (
	"context"
	"io"
	"log/slog"

	"dockside/internal/errors"
	"dockside/internal/handler"
	"dockside/internal/request"
	"dockside/internal/response"
)

// Route names a routing decision.
type Route string

// Routing decisions.
const (
	RouteStatic Route = "static"
	RouteAPI    Route = "api"
)

// Router dispatches GET requests under /api to the API handler and every
// other GET to the static handler. Requests with any other method go to
// the API handler regardless of path.
type Router struct {
	static      handler.Handler
	api         handler.Handler
	logger      *slog.Logger
	middlewares []handler.Middleware
}

// New creates a router over the two handlers.
func New(static, api handler.Handler, logger *slog.Logger) *Router {
	return &Router{static: static, api: api, logger: logger}
}

// Select returns the routing decision for req.
func Select(req *request.Request) Route {
	if !req.Method.IsGet() {
		return RouteAPI
	}
	if req.Segments()[0] == handler.APINamespace {
		return RouteAPI
	}
	return RouteStatic
}

// Handler returns the handler chosen for req.
func (r *Router) Handler(req *request.Request) handler.Handler {
	if Select(req) == RouteAPI {
		return r.api
	}
	return r.static
}

// Use appends middlewares wrapped around every routed request. The first
// one registered is outermost.
func (r *Router) Use(middlewares ...handler.Middleware) {
	r.middlewares = append(r.middlewares, middlewares...)
}

// Handle implements handler.Handler: it runs the selected handler inside
// the registered middlewares.
func (r *Router) Handle(ctx context.Context, req *request.Request) *response.Response {
	dispatch := handler.HandlerFunc(func(ctx context.Context, req *request.Request) *response.Response {
		return r.Handler(req).Handle(ctx, req)
	})
	return handler.Chain(dispatch, r.middlewares...).Handle(ctx, req)
}

// Route handles req and writes exactly one serialized response to w.
// A write failure is returned as a WRITE_FAILED error and not retried.
func (r *Router) Route(ctx context.Context, req *request.Request, w io.Writer) error {
	resp := r.Handle(ctx, req)
	if r.logger != nil {
		r.logger.Debug("Routed request",
			"route", string(Select(req)),
			"method", string(req.Method),
			"path", req.Path,
			"status", resp.StatusCode(),
		)
	}
	if err := resp.Serialize(w); err != nil {
		return errors.New(errors.WriteFailed, "failed to write response", err)
	}
	return nil
}
