// Package reqctx carries per-request metadata through context so service
// layers can log it without depending on the HTTP framework.
package reqctx

import "context"

// Request captures metadata about the inbound request.
type Request struct {
	ID        string
	IPAddress string
	UserAgent string
}

type requestContextKey struct{}

// WithRequest injects request metadata into ctx.
func WithRequest(ctx context.Context, req Request) context.Context {
	if ctx == nil {
		return context.WithValue(context.Background(), requestContextKey{}, req)
	}
	return context.WithValue(ctx, requestContextKey{}, req)
}

// FromContext extracts previously stored request metadata.
func FromContext(ctx context.Context) (Request, bool) {
	if ctx == nil {
		return Request{}, false
	}
	req, ok := ctx.Value(requestContextKey{}).(Request)
	return req, ok
}

// RequestID returns the request id stored in ctx, or "".
func RequestID(ctx context.Context) string {
	req, _ := FromContext(ctx)
	return req.ID
}
