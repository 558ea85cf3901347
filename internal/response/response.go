// Package response models a logical HTTP/1.1 response and serializes it to
// the exact bytes written on the wire.
//
// Wire layout:
//
//	<version> <status_code> <status_text>\r\n
//	<name>:<value>\r\n            (one per header)
//	Content-Length: <n>\r\n
//	\r\n
//	<body>
package response

import (
	"bytes"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Version is the fixed protocol label of every response.
const Version = "HTTP/1.1"

// Status codes with a known reason text.
const (
	StatusOK                  = "200"
	StatusBadRequest          = "400"
	StatusNotFound            = "404"
	StatusInternalServerError = "500"
)

// Common content types.
const (
	ContentTypeHTML       = "text/html"
	ContentTypeCSS        = "text/css"
	ContentTypeJavaScript = "text/javascript"
	ContentTypeJSON       = "application/json"
)

const (
	headerContentType   = "Content-Type"
	headerContentLength = "Content-Length"
	crlf                = "\r\n"
)

var statusText = map[string]string{
	StatusOK:                  "OK",
	StatusBadRequest:          "Bad Request",
	StatusNotFound:            "Not Found",
	StatusInternalServerError: "Internal Server Error",
}

// StatusText returns the reason text for code, or "Not Defined" for codes
// outside the table.
func StatusText(code string) string {
	if text, ok := statusText[code]; ok {
		return text
	}
	return "Not Defined"
}

// DefaultHeaders returns the header mapping used when none is supplied.
func DefaultHeaders() map[string]string {
	return map[string]string{headerContentType: ContentTypeHTML}
}

// Response is an immutable HTTP response. Build one with New.
type Response struct {
	statusCode string
	headers    map[string]string
	body       string
}

// New constructs a response. An empty statusCode means "200" and a nil
// headers map means {Content-Type: text/html}. The headers map is copied.
func New(statusCode string, headers map[string]string, body string) *Response {
	if statusCode == "" {
		statusCode = StatusOK
	}

	h := make(map[string]string, len(headers))
	if headers == nil {
		h = DefaultHeaders()
	}
	for k, v := range headers {
		h[k] = v
	}

	return &Response{
		statusCode: statusCode,
		headers:    h,
		body:       body,
	}
}

// WithContentType constructs a response with a single Content-Type header.
func WithContentType(statusCode, contentType, body string) *Response {
	return New(statusCode, map[string]string{headerContentType: contentType}, body)
}

// Version returns the protocol label.
func (r *Response) Version() string { return Version }

// StatusCode returns the status code.
func (r *Response) StatusCode() string { return r.statusCode }

// StatusText returns the reason text derived from the status code.
func (r *Response) StatusText() string { return StatusText(r.statusCode) }

// Body returns the stored body.
func (r *Response) Body() string { return r.body }

// Header returns the value stored under name, matched exactly.
func (r *Response) Header(name string) (string, bool) {
	v, ok := r.headers[name]
	return v, ok
}

// Headers returns a copy of the header mapping.
func (r *Response) Headers() map[string]string {
	out := make(map[string]string, len(r.headers))
	for k, v := range r.headers {
		out[k] = v
	}
	return out
}

// ContentLength is the byte length of the body.
func (r *Response) ContentLength() int {
	return len(r.body)
}

// Serialize writes the wire form of the response to w.
func (r *Response) Serialize(w io.Writer) error {
	_, err := r.WriteTo(w)
	return err
}

// WriteTo implements io.WriterTo.
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	r.encode(&buf)
	return buf.WriteTo(w)
}

// Bytes returns the wire form of the response.
func (r *Response) Bytes() []byte {
	var buf bytes.Buffer
	r.encode(&buf)
	return buf.Bytes()
}

// String returns the wire form of the response.
func (r *Response) String() string {
	return string(r.Bytes())
}

func (r *Response) encode(buf *bytes.Buffer) {
	buf.WriteString(Version)
	buf.WriteByte(' ')
	buf.WriteString(r.statusCode)
	buf.WriteByte(' ')
	buf.WriteString(r.StatusText())
	buf.WriteString(crlf)

	// Header order carries no meaning; sorting keeps output reproducible.
	names := make([]string, 0, len(r.headers))
	for name := range r.headers {
		if strings.EqualFold(name, headerContentLength) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		buf.WriteString(name)
		buf.WriteByte(':')
		buf.WriteString(r.headers[name])
		buf.WriteString(crlf)
	}

	buf.WriteString(headerContentLength)
	buf.WriteString(": ")
	buf.WriteString(strconv.Itoa(len(r.body)))
	buf.WriteString(crlf)
	buf.WriteString(crlf)
	buf.WriteString(r.body)
}

// ShowCRLF makes line endings of a wire dump visible: each "\r\n" becomes
// the two characters `\r` followed by a real newline.
func ShowCRLF(s string) string {
	return strings.ReplaceAll(s, crlf, `\r`+"\n")
}
