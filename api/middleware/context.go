package middleware

import "context"

type contextKey string

const (
	ctxBakerID    contextKey = "baker_id"
	ctxBakerEmail contextKey = "baker_email"
)

func BakerIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxBakerID).(string); ok {
		return v
	}
	return ""
}

func BakerEmailFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxBakerEmail).(string); ok {
		return v
	}
	return ""
}

// WithBakerID injects the authenticated baker identifier into the context.
func WithBakerID(ctx context.Context, bakerID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxBakerID, bakerID)
}

// WithBakerEmail injects the authenticated baker email into the context.
func WithBakerEmail(ctx context.Context, email string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxBakerEmail, email)
}
