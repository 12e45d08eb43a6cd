package tools

import (
	"context"
	"fmt"
	"strings"

	"ai-coursechat-be/pkg/llm"
	"ai-coursechat-be/pkg/store"
)

const SearchToolName = "search_course_content"

// SearchTool searches course content with optional course/lesson filters.
type SearchTool struct {
	store       ContentStore
	lastSources []store.Source
}

func NewSearchTool(cs ContentStore) *SearchTool {
	return &SearchTool{store: cs}
}

func (t *SearchTool) Definition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Name:        SearchToolName,
		Description: "Search course materials with smart course name matching and lesson filtering",
		InputSchema: llm.InputSchema{
			Type: "object",
			Properties: map[string]llm.Property{
				"query": {
					Type:        "string",
					Description: "What to search for in the course content",
				},
				"course_name": {
					Type:        "string",
					Description: "Course title (partial matches work, e.g. 'MCP', 'Introduction')",
				},
				"lesson_number": {
					Type:        "integer",
					Description: "Specific lesson number to search within (e.g. 1, 2, 3)",
				},
			},
			Required: []string{"query"},
		},
	}
}

func (t *SearchTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	query := stringArg(args, "query")
	if query == "" {
		return "", fmt.Errorf("%s requires a 'query' argument", SearchToolName)
	}
	courseName := stringArg(args, "course_name")
	lessonNumber := intArg(args, "lesson_number")

	results := t.store.Search(ctx, query, courseName, lessonNumber)

	// Backend errors pass through verbatim as tool output.
	if results.Err != "" {
		return results.Err, nil
	}

	if results.Empty() {
		return noContentMessage(courseName, lessonNumber), nil
	}

	return t.formatResults(ctx, results), nil
}

// noContentMessage qualifies the empty-result message with whichever
// filters were supplied.
func noContentMessage(courseName string, lessonNumber *int) string {
	msg := "No relevant content found"
	if courseName != "" {
		msg += fmt.Sprintf(" in course '%s'", courseName)
	}
	if lessonNumber != nil {
		msg += fmt.Sprintf(" in lesson %d", *lessonNumber)
	}
	return msg + "."
}

// formatResults renders each match as a headed block, in backend order, and
// records one source per distinct course/lesson key (first seen wins).
func (t *SearchTool) formatResults(ctx context.Context, results *store.SearchResults) string {
	blocks := make([]string, 0, len(results.Documents))
	seen := make(map[string]bool)

	for i, doc := range results.Documents {
		meta := results.Metadata[i]

		header := "[" + meta.CourseTitle
		sourceKey := meta.CourseTitle
		if meta.LessonNumber != nil {
			header += fmt.Sprintf(" - Lesson %d", *meta.LessonNumber)
			sourceKey += fmt.Sprintf(" - Lesson %d", *meta.LessonNumber)
		}
		header += "]"

		blocks = append(blocks, header+"\n"+doc)

		// Several chunks from the same lesson collapse into one citation,
		// keyed by the composite text, independent of link value.
		if seen[sourceKey] {
			continue
		}
		seen[sourceKey] = true

		link := ""
		if meta.LessonNumber != nil {
			link = t.store.GetLessonLink(ctx, meta.CourseTitle, *meta.LessonNumber)
		}
		t.lastSources = append(t.lastSources, store.Source{Text: sourceKey, Link: link})
	}

	return strings.Join(blocks, "\n\n")
}

func (t *SearchTool) LastSources() []store.Source {
	return t.lastSources
}

func (t *SearchTool) ResetSources() {
	t.lastSources = nil
}
