// Package function implements the HTTP trigger functions. Each function greets
// the caller by a resolved name or, when no name is supplied, answers with its
// own fallback text.
package function
