// Package requestctx carries the request id through context so services can
// tag their output without depending on the HTTP layer.
package requestctx

import "context"

type key int

const requestIDKey key = iota

// WithRequestID stores the id assigned by the request-id middleware.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID returns the request id, or "" outside a request.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
