package handler

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"dockside/internal/errors"
	"dockside/internal/orders"
	"dockside/internal/request"
	"dockside/internal/resource"
	"dockside/internal/response"
	"dockside/internal/slogutil"
	"dockside/internal/testutil"
)

type storeFunc func(ctx context.Context) ([]orders.Order, error)

func (f storeFunc) Orders(ctx context.Context) ([]orders.Order, error) { return f(ctx) }

var sampleOrders = []orders.Order{
	{ID: 1, Data: "21 Jan 2020", Status: "Delivered"},
	{ID: 2, Data: "2 Feb 2020", Status: "Pending"},
}

func staticStore(list []orders.Order) orders.Store {
	return storeFunc(func(context.Context) ([]orders.Order, error) { return list, nil })
}

func pages() resource.MapLoader {
	m := resource.MapLoader{}
	for k, v := range testutil.DefaultPages {
		m[k] = v
	}
	return m
}

func get(t *testing.T, target string) *request.Request {
	t.Helper()
	req, err := request.New(request.MethodGet, target)
	if err != nil {
		t.Fatalf("request.New(%q): %v", target, err)
	}
	return req
}

func contentType(t *testing.T, resp *response.Response) string {
	t.Helper()
	ct, ok := resp.Header("Content-Type")
	if !ok {
		t.Fatalf("response has no Content-Type")
	}
	return ct
}

func TestStatic(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantStatus string
		wantType   string
		wantBody   string
	}{
		{"root serves index", "/", "200", "text/html", "<h1>Hello</h1>"},
		{"health route", "/headlth", "200", "text/html", "<p>ok</p>"},
		{"correct spelling is not special", "/health", "404", "text/html", "<h1>Not here</h1>"},
		{"stylesheet", "/styles.css", "200", "text/css", "body{margin:0}"},
		{"script", "/app.js", "200", "text/javascript", "console.log(1);"},
		{"html by name", "/404.html", "200", "text/html", "<h1>Not here</h1>"},
		{"missing file", "/missing.png", "404", "text/html", "<h1>Not here</h1>"},
		{"only first segment counts", "/styles.css/extra", "200", "text/css", "body{margin:0}"},
		{"query ignored", "/?page=2", "200", "text/html", "<h1>Hello</h1>"},
	}

	h := NewStatic(pages())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := h.Handle(context.Background(), get(t, tt.target))
			if resp.StatusCode() != tt.wantStatus {
				t.Errorf("status = %s, want %s", resp.StatusCode(), tt.wantStatus)
			}
			if ct := contentType(t, resp); ct != tt.wantType {
				t.Errorf("Content-Type = %s, want %s", ct, tt.wantType)
			}
			if resp.Body() != tt.wantBody {
				t.Errorf("body = %q, want %q", resp.Body(), tt.wantBody)
			}
		})
	}
}

func TestStatic_RequestsIndexForRoot(t *testing.T) {
	var requested []string
	loader := resource.LoaderFunc(func(name string) (string, bool) {
		requested = append(requested, name)
		return "home", true
	})

	resp := NewStatic(loader).Handle(context.Background(), get(t, "/"))

	if resp.Body() != "home" {
		t.Errorf("body = %q", resp.Body())
	}
	if len(requested) != 1 || requested[0] != IndexPage {
		t.Errorf("requested %v, want [%s]", requested, IndexPage)
	}
}

func TestStatic_MissingPagesGiveEmpty404(t *testing.T) {
	h := NewStatic(resource.MapLoader{})

	for _, target := range []string{"/", "/headlth", "/nope.css"} {
		resp := h.Handle(context.Background(), get(t, target))
		if resp.StatusCode() != response.StatusNotFound {
			t.Errorf("%s: status = %s, want 404", target, resp.StatusCode())
		}
		if resp.Body() != "" {
			t.Errorf("%s: body = %q, want empty", target, resp.Body())
		}
	}
}

func TestContentTypeFor(t *testing.T) {
	tests := map[string]string{
		"styles.css":    "text/css",
		"app.js":        "text/javascript",
		"index.html":    "text/html",
		"README":        "text/html",
		"data.json":     "text/html",
		"styles.css.js": "text/javascript",
	}
	for name, want := range tests {
		if got := ContentTypeFor(name); got != want {
			t.Errorf("ContentTypeFor(%q) = %s, want %s", name, got, want)
		}
	}
}

func TestNotFound(t *testing.T) {
	resp := NewNotFound(pages()).Handle(context.Background(), get(t, "/anything"))
	if resp.StatusCode() != "404" || resp.StatusText() != "Not Found" {
		t.Errorf("status = %s %s", resp.StatusCode(), resp.StatusText())
	}
	if resp.Body() != "<h1>Not here</h1>" {
		t.Errorf("body = %q", resp.Body())
	}

	empty := NewNotFound(resource.MapLoader{}).Response()
	if empty.Body() != "" || empty.ContentLength() != 0 {
		t.Errorf("expected empty body, got %q", empty.Body())
	}
}

func TestAPI_Collection(t *testing.T) {
	h := NewAPI(pages(), staticStore(sampleOrders), slogutil.NewDiscardLogger())

	for _, target := range []string{"/api/shipping/orders", "/api/shipping/orders/"} {
		resp := h.Handle(context.Background(), get(t, target))
		if resp.StatusCode() != "200" {
			t.Fatalf("%s: status = %s", target, resp.StatusCode())
		}
		if ct := contentType(t, resp); ct != "application/json" {
			t.Errorf("%s: Content-Type = %s", target, ct)
		}
		want := `[{"order_id":1,"order_data":"21 Jan 2020","order_status":"Delivered"},` +
			`{"order_id":2,"order_data":"2 Feb 2020","order_status":"Pending"}]`
		if resp.Body() != want {
			t.Errorf("%s: body = %s", target, resp.Body())
		}
	}
}

func TestParseOrderID(t *testing.T) {
	tests := []struct {
		seg    string
		wantID int
		wantOK bool
	}{
		{"1", 1, true},
		{"42", 42, true},
		{"0", 0, true},
		{"-3", -3, true},
		{"+1", 0, false},
		{"01", 0, false},
		{"-0", 0, false},
		{" 1", 0, false},
		{"", 0, false},
		{"1e3", 0, false},
	}

	for _, tt := range tests {
		id, ok := parseOrderID(tt.seg)
		if id != tt.wantID || ok != tt.wantOK {
			t.Errorf("parseOrderID(%q) = %d, %v, want %d, %v", tt.seg, id, ok, tt.wantID, tt.wantOK)
		}
	}
}

func TestAPI_EmptyCollection(t *testing.T) {
	h := NewAPI(pages(), staticStore(nil), slogutil.NewDiscardLogger())

	resp := h.Handle(context.Background(), get(t, "/api/shipping/orders"))
	if resp.StatusCode() != "200" || resp.Body() != "[]" {
		t.Errorf("got %s %q, want 200 []", resp.StatusCode(), resp.Body())
	}
}

func TestAPI_SingleOrder(t *testing.T) {
	h := NewAPI(pages(), staticStore(sampleOrders), slogutil.NewDiscardLogger())

	tests := []struct {
		target     string
		wantStatus string
		wantBody   string
	}{
		{"/api/shipping/orders/2", "200", `{"order_id":2,"order_data":"2 Feb 2020","order_status":"Pending"}`},
		{"/api/shipping/orders/9", "404", "<h1>Not here</h1>"},
		{"/api/shipping/orders/abc", "404", "<h1>Not here</h1>"},
		{"/api/shipping/orders/+1", "404", "<h1>Not here</h1>"},
		{"/api/shipping/orders/01", "404", "<h1>Not here</h1>"},
		{"/api/shipping/orders/-0", "404", "<h1>Not here</h1>"},
		{"/api/shipping/orders/1/items", "404", "<h1>Not here</h1>"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			resp := h.Handle(context.Background(), get(t, tt.target))
			if resp.StatusCode() != tt.wantStatus {
				t.Errorf("status = %s, want %s", resp.StatusCode(), tt.wantStatus)
			}
			if resp.Body() != tt.wantBody {
				t.Errorf("body = %q, want %q", resp.Body(), tt.wantBody)
			}
		})
	}
}

func TestAPI_UnmatchedPaths(t *testing.T) {
	calls := 0
	store := storeFunc(func(context.Context) ([]orders.Order, error) {
		calls++
		return sampleOrders, nil
	})
	h := NewAPI(pages(), store, slogutil.NewDiscardLogger())

	for _, target := range []string{"/", "/api", "/api/shipping", "/api/shipping/invoices", "/api/billing/orders", "/shipping/orders"} {
		resp := h.Handle(context.Background(), get(t, target))
		if resp.StatusCode() != "404" {
			t.Errorf("%s: status = %s, want 404", target, resp.StatusCode())
		}
		if resp.Body() != "<h1>Not here</h1>" {
			t.Errorf("%s: body = %q", target, resp.Body())
		}
	}
	if calls != 0 {
		t.Errorf("store read %d times for unmatched paths", calls)
	}
}

func TestAPI_StoreFailure(t *testing.T) {
	var logs bytes.Buffer
	logger := slogutil.NewLogger(&logs, slogutil.LevelFromString("debug"))
	failing := storeFunc(func(context.Context) ([]orders.Order, error) {
		return nil, errors.New(errors.DataSourceMalformed, "failed to decode orders", fmt.Errorf("unexpected EOF"))
	})

	withPage := pages()
	withPage[InternalErrorPage] = "<h1>Broken</h1>"

	tests := []struct {
		name     string
		pages    resource.Loader
		wantBody string
	}{
		{"with 500 page", withPage, "<h1>Broken</h1>"},
		{"without 500 page", pages(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs.Reset()
			h := NewAPI(tt.pages, failing, logger)

			for _, target := range []string{"/api/shipping/orders", "/api/shipping/orders/1"} {
				resp := h.Handle(context.Background(), get(t, target))
				if resp.StatusCode() != "500" || resp.StatusText() != "Internal Server Error" {
					t.Errorf("%s: status = %s %s", target, resp.StatusCode(), resp.StatusText())
				}
				if resp.Body() != tt.wantBody {
					t.Errorf("%s: body = %q, want %q", target, resp.Body(), tt.wantBody)
				}
			}
			if !strings.Contains(logs.String(), "code=DATA_SOURCE_MALFORMED") {
				t.Errorf("failure not logged: %q", logs.String())
			}
		})
	}
}

func TestAPI_IgnoresMethod(t *testing.T) {
	h := NewAPI(pages(), staticStore(sampleOrders), slogutil.NewDiscardLogger())
	req, err := request.New(request.MethodPost, "/api/shipping/orders")
	if err != nil {
		t.Fatal(err)
	}

	if resp := h.Handle(context.Background(), req); resp.StatusCode() != "200" {
		t.Errorf("status = %s, want 200", resp.StatusCode())
	}
}

func TestAPI_FileStore(t *testing.T) {
	site := testutil.NewSite(t, testutil.DefaultPages)
	h := NewAPI(resource.NewDirLoader(site.PublicDir), orders.NewFileStore(site.OrdersPath()), slogutil.NewDiscardLogger())

	resp := h.Handle(context.Background(), get(t, "/api/shipping/orders/1"))
	want := `{"order_id":1,"order_data":"21 Jan 2020","order_status":"Delivered"}`
	if resp.StatusCode() != "200" || resp.Body() != want {
		t.Errorf("got %s %q", resp.StatusCode(), resp.Body())
	}

	testutil.WriteFile(t, site.OrdersPath(), "[{")
	resp = h.Handle(context.Background(), get(t, "/api/shipping/orders"))
	if resp.StatusCode() != "500" {
		t.Errorf("malformed file: status = %s, want 500", resp.StatusCode())
	}
}
