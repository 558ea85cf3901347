package handler

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"dockside/internal/request"
	"dockside/internal/resource"
	"dockside/internal/response"
)

// Middleware wraps a Handler with additional behavior.
type Middleware func(Handler) Handler

// Chain applies middlewares so that the first one is outermost.
func Chain(h Handler, middlewares ...Middleware) Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

type contextKey string

const requestIDKey contextKey = "requestID"

// WithRequestID returns a copy of ctx carrying id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the request ID stored in ctx, or "".
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// RequestIDMiddleware makes sure every request has an ID in its context.
// An X-Request-ID header wins over a generated one; an ID already in the
// context wins over both.
func RequestIDMiddleware() Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, req *request.Request) *response.Response {
			if RequestID(ctx) == "" {
				id := req.Header("X-Request-ID")
				if id == "" {
					id = uuid.New().String()
				}
				ctx = WithRequestID(ctx, id)
			}
			return next.Handle(ctx, req)
		})
	}
}

// LoggingMiddleware logs each request and the status it was answered with.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, req *request.Request) *response.Response {
			start := time.Now()
			resp := next.Handle(ctx, req)
			logger.Info("Handled request",
				"method", string(req.Method),
				"path", req.Path,
				"status", resp.StatusCode(),
				"bytes", resp.ContentLength(),
				"durationMs", time.Since(start).Milliseconds(),
				"requestID", RequestID(ctx),
			)
			return resp
		})
	}
}

// RecoveryMiddleware turns a panic in next into a 500 response with the
// 500.html page.
func RecoveryMiddleware(pages resource.Loader, logger *slog.Logger) Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, req *request.Request) (resp *response.Response) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Panic recovered",
						"error", fmt.Sprintf("%v", r),
						"path", req.Path,
						"requestID", RequestID(ctx),
						"stack", string(debug.Stack()),
					)
					resp = pageResponse(pages, response.StatusInternalServerError, InternalErrorPage)
				}
			}()
			return next.Handle(ctx, req)
		})
	}
}
