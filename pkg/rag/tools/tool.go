package tools

import (
	"context"

	"ai-coursechat-be/pkg/llm"
	"ai-coursechat-be/pkg/store"
)

// ContentStore is the retrieval backend consumed by the tools. Search never
// returns a Go error: backend failures are reported inside SearchResults so
// the model sees them as tool output, not as a fault.
type ContentStore interface {
	Search(ctx context.Context, query, courseName string, lessonNumber *int) *store.SearchResults
	GetLessonLink(ctx context.Context, courseTitle string, lessonNumber int) string
	GetCourseOutline(ctx context.Context, courseName string) *store.CourseOutline
}

// Tool is one retrieval capability exposed to the completion service.
// Execute returns the text fed back to the model; an error means the
// invocation itself was invalid (bad arguments), not that the lookup
// came back empty.
type Tool interface {
	Definition() llm.ToolDefinition
	Execute(ctx context.Context, args map[string]any) (string, error)
	LastSources() []store.Source
	ResetSources()
}

// stringArg extracts an optional string argument.
func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

// intArg extracts an optional integer argument. JSON decoding delivers
// numbers as float64, so both forms are accepted.
func intArg(args map[string]any, key string) *int {
	switch v := args[key].(type) {
	case int:
		return &v
	case float64:
		n := int(v)
		return &n
	}
	return nil
}
