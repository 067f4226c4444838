package services

import "context"

type contextKey string

const (
	operationKey contextKey = "operation"
	outputKey    contextKey = "output_path"
	requestIDKey contextKey = "request_id"
)

// WithOperation annotates context with the high level operation name (mux, extract, identify).
func WithOperation(ctx context.Context, op string) context.Context {
	if op == "" {
		return ctx
	}
	return context.WithValue(ctx, operationKey, op)
}

// OperationFromContext returns the operation name if present.
func OperationFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(operationKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithOutputPath annotates context with the file being produced.
func WithOutputPath(ctx context.Context, path string) context.Context {
	if path == "" {
		return ctx
	}
	return context.WithValue(ctx, outputKey, path)
}

// OutputPathFromContext returns the output path if present.
func OutputPathFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(outputKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
