package handler

import (
	"context"

	"dockside/internal/request"
	"dockside/internal/resource"
	"dockside/internal/response"
)

// NotFound answers every request with 404 and the 404.html page.
type NotFound struct {
	Pages resource.Loader
}

// NewNotFound creates a not-found handler reading pages from pages.
func NewNotFound(pages resource.Loader) *NotFound {
	return &NotFound{Pages: pages}
}

// Handle implements Handler.
func (h *NotFound) Handle(_ context.Context, _ *request.Request) *response.Response {
	return h.Response()
}

// Response returns the not-found response without needing a request.
func (h *NotFound) Response() *response.Response {
	return pageResponse(h.Pages, response.StatusNotFound, NotFoundPage)
}
