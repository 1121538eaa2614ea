package mock

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"github.com/kode4food/flowdesk/pkg/log"
)

type (
	// Request is the intercepted call handed to a rule's handler
	Request struct {
		*http.Request
		Params map[string]string
		Body   []byte
	}

	// Response is the synthetic reply produced by a handler. When Err is
	// set the call fails at the transport level instead
	Response struct {
		Status int
		Header http.Header
		Body   []byte
		Err    error
	}

	// Handler synthesizes a response for a matched request
	Handler func(*Request) *Response
)

const contentTypeJSON = "application/json"

// Param returns the value captured for a named path segment
func (r *Request) Param(name string) string {
	return r.Params[name]
}

// Get extracts a field from the JSON request body using a gjson path
func (r *Request) Get(path string) gjson.Result {
	return gjson.GetBytes(r.Body, path)
}

// Decode unmarshals the JSON request body into v
func (r *Request) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

// JSON builds a response with status and v encoded as the body
func JSON(status int, v any) *Response {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to marshal mock response",
			log.StatusCode(status),
			log.Error(err))
		return &Response{Err: err}
	}
	return &Response{
		Status: status,
		Header: http.Header{"Content-Type": {contentTypeJSON}},
		Body:   body,
	}
}

// OK builds a 200 JSON response
func OK(v any) *Response {
	return JSON(http.StatusOK, v)
}

// Message builds a JSON error body of the form {"message": msg}
func Message(status int, msg string) *Response {
	return JSON(status, map[string]any{"message": msg})
}

// NetworkError makes the intercepted call fail as if the connection broke
func NetworkError(err error) *Response {
	return &Response{Err: err}
}

// Static returns a handler that always produces the same response
func Static(res *Response) Handler {
	return func(*Request) *Response {
		return res.clone()
	}
}

func (r *Response) toHTTP(req *http.Request) *http.Response {
	status := r.Status
	if status == 0 {
		status = http.StatusOK
	}
	header := r.Header.Clone()
	if header == nil {
		header = http.Header{}
	}
	header.Set("Content-Length", strconv.Itoa(len(r.Body)))
	header.Set("Date", time.Now().UTC().Format(http.TimeFormat))

	return &http.Response{
		Status:        strconv.Itoa(status) + " " + http.StatusText(status),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(r.Body)),
		ContentLength: int64(len(r.Body)),
		Request:       req,
	}
}

func (r *Response) clone() *Response {
	res := *r
	res.Header = r.Header.Clone()
	res.Body = bytes.Clone(r.Body)
	return &res
}
