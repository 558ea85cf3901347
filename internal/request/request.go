// Package request parses raw HTTP/1.1 request bytes into a structured Request.
package request

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"dockside/internal/errors"
)

// Method is the request method token. Only GET is distinguished by the
// router; every other token is treated alike.
type Method string

// Known methods.
const (
	MethodGet  Method = "GET"
	MethodPost Method = "POST"
)

// IsGet reports whether m is GET.
func (m Method) IsGet() bool {
	return m == MethodGet
}

// Request is an immutable parsed request.
type Request struct {
	Method  Method
	Path    string // always begins with "/"
	Query   string
	Version string
	Headers map[string]string // keys lower-cased
	Body    string
}

// Header returns the value of a header, case-insensitively.
func (r *Request) Header(name string) string {
	return r.Headers[strings.ToLower(name)]
}

// Segments returns the route segments of r.Path.
func (r *Request) Segments() []string {
	return Segments(r.Path)
}

// Segments splits a path on "/" and drops the empty segment before the
// leading slash: "/" yields [""] and "/api/shipping/orders" yields
// ["api", "shipping", "orders"].
func Segments(path string) []string {
	parts := strings.Split(path, "/")
	if len(parts) > 1 && parts[0] == "" {
		return parts[1:]
	}
	return parts
}

// Limits bounds what Parse accepts.
type Limits struct {
	MaxHeaderBytes int
	MaxBodyBytes   int
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{
		MaxHeaderBytes: 8 << 10,
		MaxBodyBytes:   1 << 20,
	}
}

// New builds a request directly, for callers that already know the method and path.
func New(method Method, target string) (*Request, error) {
	path, query, err := splitTarget(target)
	if err != nil {
		return nil, err
	}
	return &Request{
		Method:  method,
		Path:    path,
		Query:   query,
		Version: "HTTP/1.1",
		Headers: map[string]string{},
	}, nil
}

// Parse reads one request from r. Zero or negative limits fall back to
// DefaultLimits.
func Parse(r *bufio.Reader, limits Limits) (*Request, error) {
	if limits.MaxHeaderBytes <= 0 {
		limits.MaxHeaderBytes = DefaultLimits().MaxHeaderBytes
	}
	if limits.MaxBodyBytes <= 0 {
		limits.MaxBodyBytes = DefaultLimits().MaxBodyBytes
	}

	budget := limits.MaxHeaderBytes
	line, err := readLine(r, &budget)
	if err != nil {
		return nil, err
	}

	parts := strings.Fields(line)
	if len(parts) != 3 {
		return nil, invalid("malformed request line", fmt.Errorf("%q", line))
	}
	if !strings.HasPrefix(parts[2], "HTTP/") {
		return nil, invalid("unsupported protocol", fmt.Errorf("%q", parts[2]))
	}

	path, query, err := splitTarget(parts[1])
	if err != nil {
		return nil, err
	}

	req := &Request{
		Method:  Method(strings.ToUpper(parts[0])),
		Path:    path,
		Query:   query,
		Version: parts[2],
		Headers: make(map[string]string),
	}

	for {
		line, err := readLine(r, &budget)
		if err != nil {
			return nil, err
		}
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, invalid("malformed header line", fmt.Errorf("%q", line))
		}
		req.Headers[strings.ToLower(strings.TrimSpace(name))] = strings.TrimSpace(value)
	}

	if cl, ok := req.Headers["content-length"]; ok {
		n, err := strconv.Atoi(cl)
		if err != nil || n < 0 {
			return nil, invalid("invalid Content-Length", err)
		}
		if n > limits.MaxBodyBytes {
			return nil, invalid("request body too large", fmt.Errorf("%d > %d bytes", n, limits.MaxBodyBytes))
		}
		body := make([]byte, n)
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, invalid("truncated request body", err)
		}
		req.Body = string(body)
	}

	return req, nil
}

func splitTarget(target string) (string, string, error) {
	if !strings.HasPrefix(target, "/") {
		return "", "", invalid("request target must begin with /", fmt.Errorf("%q", target))
	}
	path, query, _ := strings.Cut(target, "?")
	return path, query, nil
}

// readLine reads a CRLF or LF terminated line, charging its length to budget.
func readLine(r *bufio.Reader, budget *int) (string, error) {
	var sb strings.Builder
	for {
		chunk, isPrefix, err := r.ReadLine()
		if err != nil {
			if err == io.EOF && sb.Len() == 0 {
				return "", invalid("connection closed before request completed", err)
			}
			return "", invalid("failed to read request", err)
		}
		*budget -= len(chunk) + 2
		if *budget < 0 {
			return "", invalid("request header too large", nil)
		}
		sb.Write(chunk)
		if !isPrefix {
			return sb.String(), nil
		}
	}
}

func invalid(message string, cause error) error {
	return errors.New(errors.InvalidRequest, message, cause)
}
