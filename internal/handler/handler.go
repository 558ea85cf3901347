// Package handler defines the handler contract and the handler variants that
// answer routed requests: static pages, the shipping orders API and the
// generic not-found page.
//
// Handlers never fail: every outcome, including a broken data source, is
// expressed as a response. Their collaborators (page loader, order store,
// logger) are supplied at construction.
package handler

import (
	"context"

	"dockside/internal/request"
	"dockside/internal/resource"
	"dockside/internal/response"
)

// Page names served by the handlers.
const (
	IndexPage         = "index.html"
	HealthPage        = "health.html"
	NotFoundPage      = "404.html"
	InternalErrorPage = "500.html"
)

// Handler produces the response for one request.
type Handler interface {
	Handle(ctx context.Context, req *request.Request) *response.Response
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, req *request.Request) *response.Response

// Handle calls f(ctx, req).
func (f HandlerFunc) Handle(ctx context.Context, req *request.Request) *response.Response {
	return f(ctx, req)
}

// pageResponse builds a response with the default headers and the named
// page as body, or an empty body when the page is absent.
func pageResponse(pages resource.Loader, status, name string) *response.Response {
	body, _ := pages.Load(name)
	return response.New(status, nil, body)
}
