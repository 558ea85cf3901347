package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"dockside/internal/errors"
	"dockside/internal/orders"
	"dockside/internal/request"
	"dockside/internal/resource"
	"dockside/internal/response"
)

// APINamespace is the first path segment routed to the API handler.
const APINamespace = "api"

// API serves the shipping orders collection under /api/shipping/orders.
//
//	/api/shipping/orders        the whole collection as a JSON array
//	/api/shipping/orders/<id>   one order as a JSON object
//
// Any other path answers 404. A store failure answers 500 with the 500.html
// page and is logged.
type API struct {
	Pages    resource.Loader
	Store    orders.Store
	Logger   *slog.Logger
	notFound *NotFound
}

// NewAPI creates the API handler.
func NewAPI(pages resource.Loader, store orders.Store, logger *slog.Logger) *API {
	return &API{
		Pages:    pages,
		Store:    store,
		Logger:   logger,
		notFound: NewNotFound(pages),
	}
}

// Handle implements Handler.
func (h *API) Handle(ctx context.Context, req *request.Request) *response.Response {
	segs := req.Segments()
	if len(segs) < 3 || segs[0] != APINamespace || segs[1] != "shipping" || segs[2] != "orders" {
		return h.notFoundResponse()
	}

	switch {
	case len(segs) == 3 || (len(segs) == 4 && segs[3] == ""):
		return h.collection(ctx, req)
	case len(segs) == 4:
		id, ok := parseOrderID(segs[3])
		if !ok {
			return h.notFoundResponse()
		}
		return h.single(ctx, req, id)
	default:
		return h.notFoundResponse()
	}
}

// parseOrderID accepts only the canonical decimal form of an id, so
// "+1", "01" and "-0" do not alias order 1 or 0.
func parseOrderID(seg string) (int, bool) {
	id, err := strconv.Atoi(seg)
	if err != nil || strconv.Itoa(id) != seg {
		return 0, false
	}
	return id, true
}

func (h *API) collection(ctx context.Context, req *request.Request) *response.Response {
	list, err := h.Store.Orders(ctx)
	if err != nil {
		return h.failure(req, err)
	}
	if list == nil {
		list = []orders.Order{}
	}
	return h.json(req, list)
}

func (h *API) single(ctx context.Context, req *request.Request, id int) *response.Response {
	list, err := h.Store.Orders(ctx)
	if err != nil {
		return h.failure(req, err)
	}
	order, ok := orders.Find(list, id)
	if !ok {
		return h.notFoundResponse()
	}
	return h.json(req, order)
}

func (h *API) json(req *request.Request, v any) *response.Response {
	body, err := json.Marshal(v)
	if err != nil {
		return h.failure(req, errors.New(errors.InternalError, "failed to encode orders", err))
	}
	return response.WithContentType(response.StatusOK, response.ContentTypeJSON, string(body))
}

func (h *API) failure(req *request.Request, err error) *response.Response {
	code := errors.CodeOf(err)
	if h.Logger != nil {
		h.Logger.Error("Order store failed",
			"path", req.Path,
			"code", string(code),
			"error", err.Error(),
		)
	}
	if errors.StatusFor(code) == response.StatusNotFound {
		return h.notFoundResponse()
	}
	return pageResponse(h.Pages, response.StatusInternalServerError, InternalErrorPage)
}

func (h *API) notFoundResponse() *response.Response {
	if h.notFound == nil {
		return NewNotFound(h.Pages).Response()
	}
	return h.notFound.Response()
}
