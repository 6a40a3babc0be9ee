package resolver

import (
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"
)

// Request is the view of an incoming request the resolver needs.
type Request interface {
	// Parameter returns the query-style parameter with the given name.
	Parameter(name string) (string, bool)
	// Body parses the request content into a structured payload.
	// It fails when the content is absent or malformed.
	Body() (map[string]any, error)
}

type Source string

const (
	SourceNone       Source = "none"
	SourceParameters Source = "parameters"
	SourceBody       Source = "body"
)

// Resolved is the outcome of a resolution. Found is false for the
// "not found" marker, in which case Source is SourceNone.
type Resolved struct {
	Value  string
	Found  bool
	Source Source
}

// NotFound returns the "not found" marker.
func NotFound() Resolved {
	return Resolved{Source: SourceNone}
}

// Resolve returns the value for key, looking at the request parameters
// first and falling back to the body payload.
func Resolve(req Request, key string) Resolved {
	return ResolveWith(req, key, nil)
}

// ResolveWith behaves like Resolve. If the body cannot be parsed, observe is
// called with the parse error; the result is unaffected.
func ResolveWith(req Request, key string, observe func(error)) Resolved {
	if value, ok := req.Parameter(key); ok && value != "" {
		return Resolved{Value: value, Found: true, Source: SourceParameters}
	}

	payload, err := req.Body()
	if err != nil {
		if observe != nil {
			observe(err)
		}
		return NotFound()
	}

	raw, ok := payload[key]
	if !ok {
		return NotFound()
	}

	return Resolved{Value: stringify(raw), Found: true, Source: SourceBody}
}

// stringify renders a decoded JSON value as text. Strings are returned
// verbatim, everything else as its JSON encoding.
func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(raw)
	}
}
