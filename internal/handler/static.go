package handler

import (
	"context"
	"strings"

	"dockside/internal/request"
	"dockside/internal/resource"
	"dockside/internal/response"
)

// healthRoute is the route token for the health page. The spelling is part
// of the public path and is kept as is.
const healthRoute = "headlth"

// Static serves pages from the content root. Only the first path segment
// names the page; deeper segments are ignored.
type Static struct {
	Pages    resource.Loader
	notFound *NotFound
}

// NewStatic creates a static handler reading pages from pages.
func NewStatic(pages resource.Loader) *Static {
	return &Static{Pages: pages, notFound: NewNotFound(pages)}
}

// Handle implements Handler.
func (h *Static) Handle(_ context.Context, req *request.Request) *response.Response {
	name := req.Segments()[0]
	switch name {
	case "":
		return h.page(IndexPage)
	case healthRoute:
		return h.page(HealthPage)
	}

	body, ok := h.Pages.Load(name)
	if !ok {
		return h.notFoundResponse()
	}
	return response.WithContentType(response.StatusOK, ContentTypeFor(name), body)
}

func (h *Static) page(name string) *response.Response {
	body, ok := h.Pages.Load(name)
	if !ok {
		return h.notFoundResponse()
	}
	return response.New(response.StatusOK, nil, body)
}

func (h *Static) notFoundResponse() *response.Response {
	if h.notFound == nil {
		return NewNotFound(h.Pages).Response()
	}
	return h.notFound.Response()
}

// ContentTypeFor picks the Content-Type for a page name by its extension.
func ContentTypeFor(name string) string {
	switch {
	case strings.HasSuffix(name, ".css"):
		return response.ContentTypeCSS
	case strings.HasSuffix(name, ".js"):
		return response.ContentTypeJavaScript
	default:
		return response.ContentTypeHTML
	}
}
