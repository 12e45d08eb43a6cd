package tools

import (
	"context"
	"fmt"
	"strings"

	"ai-coursechat-be/pkg/llm"
	"ai-coursechat-be/pkg/store"
)

const OutlineToolName = "get_course_outline"

// OutlineTool resolves a course outline: title, link, instructor and the
// complete lesson list.
type OutlineTool struct {
	store       ContentStore
	lastSources []store.Source
}

func NewOutlineTool(cs ContentStore) *OutlineTool {
	return &OutlineTool{store: cs}
}

func (t *OutlineTool) Definition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Name:        OutlineToolName,
		Description: "Get the outline of a course including its title, link, and complete lesson list",
		InputSchema: llm.InputSchema{
			Type: "object",
			Properties: map[string]llm.Property{
				"course_name": {
					Type:        "string",
					Description: "Course title (partial matches work, e.g. 'MCP', 'Introduction')",
				},
			},
			Required: []string{"course_name"},
		},
	}
}

func (t *OutlineTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	courseName := stringArg(args, "course_name")
	if courseName == "" {
		return "", fmt.Errorf("%s requires a 'course_name' argument", OutlineToolName)
	}

	outline := t.store.GetCourseOutline(ctx, courseName)
	if outline == nil {
		return fmt.Sprintf("No course found matching '%s'", courseName), nil
	}

	t.recordSources(outline)
	return formatOutline(outline), nil
}

func formatOutline(outline *store.CourseOutline) string {
	var sb strings.Builder

	sb.WriteString("Course: " + outline.CourseTitle + "\n")
	if outline.CourseLink != "" {
		sb.WriteString("Course Link: " + outline.CourseLink + "\n")
	}
	if outline.Instructor != "" {
		sb.WriteString("Instructor: " + outline.Instructor + "\n")
	}

	sb.WriteString(fmt.Sprintf("\nLessons (%d total):\n", len(outline.Lessons)))
	for _, lesson := range outline.Lessons {
		sb.WriteString(fmt.Sprintf("Lesson %d: %s", lesson.LessonNumber, lesson.LessonTitle))
		if lesson.LessonLink != "" {
			sb.WriteString(" (" + lesson.LessonLink + ")")
		}
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

// recordSources keeps the course link first, then lesson links, deduplicated
// by link value: lessons sharing one URL collapse to a single citation.
func (t *OutlineTool) recordSources(outline *store.CourseOutline) {
	seen := make(map[string]bool)

	if outline.CourseLink != "" {
		seen[outline.CourseLink] = true
		t.lastSources = append(t.lastSources, store.Source{
			Text: outline.CourseTitle,
			Link: outline.CourseLink,
		})
	}

	for _, lesson := range outline.Lessons {
		if lesson.LessonLink == "" || seen[lesson.LessonLink] {
			continue
		}
		seen[lesson.LessonLink] = true
		t.lastSources = append(t.lastSources, store.Source{
			Text: fmt.Sprintf("%s - Lesson %d", outline.CourseTitle, lesson.LessonNumber),
			Link: lesson.LessonLink,
		})
	}
}

func (t *OutlineTool) LastSources() []store.Source {
	return t.lastSources
}

func (t *OutlineTool) ResetSources() {
	t.lastSources = nil
}
