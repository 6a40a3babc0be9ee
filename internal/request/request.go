package request

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

// DefaultMaxBodyBytes caps the body read when no limit is configured.
const DefaultMaxBodyBytes int64 = 1 << 20

var (
	ErrEmptyBody     = errors.New("request body is empty")
	ErrMalformedBody = errors.New("request body is not a JSON object")
	ErrBodyTooLarge  = errors.New("request body too large")
)

// HTTPRequest exposes the query parameters and the JSON body of an
// *http.Request. The body is read and parsed at most once.
type HTTPRequest struct {
	req          *http.Request
	maxBodyBytes int64

	queryOnce sync.Once
	query     url.Values

	bodyOnce sync.Once
	payload  map[string]any
	bodyErr  error
}

// New wraps r. A non-positive maxBodyBytes falls back to DefaultMaxBodyBytes.
func New(r *http.Request, maxBodyBytes int64) *HTTPRequest {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}

	return &HTTPRequest{
		req:          r,
		maxBodyBytes: maxBodyBytes,
	}
}

// Parameter returns the first query value for name.
func (h *HTTPRequest) Parameter(name string) (string, bool) {
	h.queryOnce.Do(func() {
		h.query = h.req.URL.Query()
	})

	values, ok := h.query[name]
	if !ok || len(values) == 0 {
		return "", false
	}

	return values[0], true
}

// Body decodes the request content as a JSON object. The payload or error
// of the first call is returned on every later call.
func (h *HTTPRequest) Body() (map[string]any, error) {
	h.bodyOnce.Do(func() {
		h.payload, h.bodyErr = h.parseBody()
	})

	return h.payload, h.bodyErr
}

func (h *HTTPRequest) parseBody() (map[string]any, error) {
	if h.req.Body == nil || h.req.Body == http.NoBody {
		return nil, ErrEmptyBody
	}

	raw, err := io.ReadAll(io.LimitReader(h.req.Body, h.maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if int64(len(raw)) > h.maxBodyBytes {
		return nil, fmt.Errorf("%w: limit %d bytes", ErrBodyTooLarge, h.maxBodyBytes)
	}

	if len(raw) == 0 {
		return nil, ErrEmptyBody
	}

	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedBody)
	}

	if !gjson.ParseBytes(raw).IsObject() {
		return nil, fmt.Errorf("%w: top-level value is not an object", ErrMalformedBody)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	return payload, nil
}

// Reason classifies a body error for logs and metrics.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyBody):
		return "empty"
	case errors.Is(err, ErrBodyTooLarge):
		return "too_large"
	case errors.Is(err, ErrMalformedBody):
		return "malformed"
	default:
		return "unreadable"
	}
}
