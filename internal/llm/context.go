package llm

import "context"

// Tag labels a request in the LLM event log and diagnostics.
type Tag struct {
	// Purpose names what the request produces, e.g. "quiz".
	Purpose string
	// Topic is the study topic the request is about. Optional.
	Topic string
}

const untagged = "unknown"

type tagKey struct{}

// WithTag attaches t to ctx.
func WithTag(ctx context.Context, t Tag) context.Context {
	return context.WithValue(ctx, tagKey{}, t)
}

// TagFrom returns the tag attached to ctx. Untagged requests report the
// purpose "unknown".
func TagFrom(ctx context.Context) Tag {
	t, _ := ctx.Value(tagKey{}).(Tag)
	if t.Purpose == "" {
		t.Purpose = untagged
	}
	return t
}
