// Package request adapts net/http requests to the resolver.Request interface.
package request
