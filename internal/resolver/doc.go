// Package resolver determines a single named value from the sources attached
// to an incoming request.
//
// Query-style parameters take precedence over the structured body. A body that
// is absent or malformed never produces an error: it simply contributes no value.
//
// Usage:
//
//	res := resolver.Resolve(req, "name")
//	if res.Found {
//	    fmt.Println(res.Value, res.Source)
//	}
package resolver
