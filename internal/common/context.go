package common

import (
	"context"
	"time"
)

// Context keys for storing values in context
type contextKey string

const (
	ContextKeySourceFile contextKey = "source_file"
	ContextKeyJobID      contextKey = "job_id"
)

// WithSourceFile tags the context with the input file being processed
func WithSourceFile(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, ContextKeySourceFile, path)
}

// SourceFileFromContext extracts the input file path from context
func SourceFileFromContext(ctx context.Context) string {
	if path, ok := ctx.Value(ContextKeySourceFile).(string); ok {
		return path
	}
	return ""
}

// WithJobID tags the context with the remote analysis job identifier
func WithJobID(ctx context.Context, jobID string) context.Context {
	return context.WithValue(ctx, ContextKeyJobID, jobID)
}

// JobIDFromContext extracts the analysis job identifier from context
func JobIDFromContext(ctx context.Context) string {
	if jobID, ok := ctx.Value(ContextKeyJobID).(string); ok {
		return jobID
	}
	return ""
}

// WithTimeout creates a context with the specified timeout
func WithTimeout(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}
