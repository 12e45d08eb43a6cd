package tools

import (
	"context"
	"testing"

	"ai-coursechat-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutlineToolDefinition(t *testing.T) {
	tool := NewOutlineTool(&fakeContentStore{})
	def := tool.Definition()

	assert.Equal(t, "get_course_outline", def.Name)
	assert.Equal(t, []string{"course_name"}, def.InputSchema.Required)
}

func TestOutlineToolRequiresCourseName(t *testing.T) {
	tool := NewOutlineTool(&fakeContentStore{})

	_, err := tool.Execute(context.Background(), map[string]any{})
	assert.Error(t, err)
}

func TestOutlineToolNoMatch(t *testing.T) {
	tool := NewOutlineTool(&fakeContentStore{outline: nil})

	out, err := tool.Execute(context.Background(), map[string]any{"course_name": "Quantum"})
	require.NoError(t, err)

	assert.Equal(t, "No course found matching 'Quantum'", out)
	assert.Empty(t, tool.LastSources())
}

func TestOutlineToolFormatsOutline(t *testing.T) {
	cs := &fakeContentStore{
		outline: &store.CourseOutline{
			CourseTitle: "MCP Basics",
			CourseLink:  "https://example.com/mcp",
			Instructor:  "Ada",
			Lessons: []store.LessonRef{
				{LessonNumber: 1, LessonTitle: "Introduction", LessonLink: "https://example.com/mcp/1"},
				{LessonNumber: 2, LessonTitle: "Servers"},
			},
		},
	}
	tool := NewOutlineTool(cs)

	out, err := tool.Execute(context.Background(), map[string]any{"course_name": "MCP"})
	require.NoError(t, err)

	want := "Course: MCP Basics\n" +
		"Course Link: https://example.com/mcp\n" +
		"Instructor: Ada\n" +
		"\nLessons (2 total):\n" +
		"Lesson 1: Introduction (https://example.com/mcp/1)\n" +
		"Lesson 2: Servers"
	assert.Equal(t, want, out)
}

func TestOutlineToolOmitsEmptyHeaderFields(t *testing.T) {
	cs := &fakeContentStore{
		outline: &store.CourseOutline{
			CourseTitle: "MCP Basics",
			Lessons:     []store.LessonRef{{LessonNumber: 1, LessonTitle: "Introduction"}},
		},
	}
	tool := NewOutlineTool(cs)

	out, err := tool.Execute(context.Background(), map[string]any{"course_name": "MCP"})
	require.NoError(t, err)

	assert.NotContains(t, out, "Course Link:")
	assert.NotContains(t, out, "Instructor:")
}

func TestOutlineToolSourcesDedupByLink(t *testing.T) {
	// The course link comes first; lessons sharing a link with the course or
	// with each other collapse, and lessons without links record nothing.
	cs := &fakeContentStore{
		outline: &store.CourseOutline{
			CourseTitle: "MCP Basics",
			CourseLink:  "https://example.com/mcp",
			Lessons: []store.LessonRef{
				{LessonNumber: 1, LessonTitle: "Introduction", LessonLink: "https://example.com/mcp"},
				{LessonNumber: 2, LessonTitle: "Servers", LessonLink: "https://example.com/mcp/2"},
				{LessonNumber: 3, LessonTitle: "Clients", LessonLink: "https://example.com/mcp/2"},
				{LessonNumber: 4, LessonTitle: "Recap"},
			},
		},
	}
	tool := NewOutlineTool(cs)

	_, err := tool.Execute(context.Background(), map[string]any{"course_name": "MCP"})
	require.NoError(t, err)

	sources := tool.LastSources()
	require.Len(t, sources, 2)
	assert.Equal(t, store.Source{Text: "MCP Basics", Link: "https://example.com/mcp"}, sources[0])
	assert.Equal(t, store.Source{Text: "MCP Basics - Lesson 2", Link: "https://example.com/mcp/2"}, sources[1])
}
