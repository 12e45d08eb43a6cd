package tools

import (
	"context"
	"fmt"
	"testing"

	"ai-coursechat-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeContentStore scripts the retrieval backend for tool tests.
type fakeContentStore struct {
	results *store.SearchResults
	links   map[string]string // "title#lesson" -> link
	outline *store.CourseOutline

	lastQuery      string
	lastCourseName string
	lastLesson     *int
}

func (f *fakeContentStore) Search(ctx context.Context, query, courseName string, lessonNumber *int) *store.SearchResults {
	f.lastQuery = query
	f.lastCourseName = courseName
	f.lastLesson = lessonNumber
	if f.results != nil {
		return f.results
	}
	return &store.SearchResults{}
}

func (f *fakeContentStore) GetLessonLink(ctx context.Context, courseTitle string, lessonNumber int) string {
	return f.links[fmt.Sprintf("%s#%d", courseTitle, lessonNumber)]
}

func (f *fakeContentStore) GetCourseOutline(ctx context.Context, courseName string) *store.CourseOutline {
	return f.outline
}

func intPtr(n int) *int { return &n }

func TestSearchToolDefinition(t *testing.T) {
	tool := NewSearchTool(&fakeContentStore{})
	def := tool.Definition()

	assert.Equal(t, "search_course_content", def.Name)
	assert.Equal(t, []string{"query"}, def.InputSchema.Required)
	assert.Contains(t, def.InputSchema.Properties, "query")
	assert.Contains(t, def.InputSchema.Properties, "course_name")
	assert.Contains(t, def.InputSchema.Properties, "lesson_number")
}

func TestSearchToolRequiresQuery(t *testing.T) {
	tool := NewSearchTool(&fakeContentStore{})

	_, err := tool.Execute(context.Background(), map[string]any{})
	assert.Error(t, err)
}

func TestSearchToolPassesFiltersThrough(t *testing.T) {
	cs := &fakeContentStore{}
	tool := NewSearchTool(cs)

	_, err := tool.Execute(context.Background(), map[string]any{
		"query":         "what is MCP",
		"course_name":   "MCP",
		"lesson_number": float64(3), // JSON numbers decode as float64
	})
	require.NoError(t, err)

	assert.Equal(t, "what is MCP", cs.lastQuery)
	assert.Equal(t, "MCP", cs.lastCourseName)
	require.NotNil(t, cs.lastLesson)
	assert.Equal(t, 3, *cs.lastLesson)
}

func TestSearchToolBackendErrorPassthrough(t *testing.T) {
	cs := &fakeContentStore{results: store.ErrorResults("Search error: connection refused")}
	tool := NewSearchTool(cs)

	out, err := tool.Execute(context.Background(), map[string]any{"query": "anything"})
	require.NoError(t, err)

	assert.Equal(t, "Search error: connection refused", out)
	assert.Empty(t, tool.LastSources())
}

func TestSearchToolNoContentMessages(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{
			name: "no filters",
			args: map[string]any{"query": "q"},
			want: "No relevant content found.",
		},
		{
			name: "course filter",
			args: map[string]any{"query": "q", "course_name": "MCP"},
			want: "No relevant content found in course 'MCP'.",
		},
		{
			name: "lesson filter",
			args: map[string]any{"query": "q", "lesson_number": 2},
			want: "No relevant content found in lesson 2.",
		},
		{
			name: "both filters",
			args: map[string]any{"query": "q", "course_name": "MCP", "lesson_number": 3},
			want: "No relevant content found in course 'MCP' in lesson 3.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := NewSearchTool(&fakeContentStore{})
			out, err := tool.Execute(context.Background(), tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestSearchToolFormatsResults(t *testing.T) {
	cs := &fakeContentStore{
		results: &store.SearchResults{
			Documents: []string{"MCP lets models call tools.", "Clients connect over stdio."},
			Metadata: []store.ChunkMetadata{
				{CourseTitle: "MCP Basics", LessonNumber: intPtr(1)},
				{CourseTitle: "MCP Basics", LessonNumber: intPtr(2)},
			},
			Distances: []float64{0.1, 0.2},
		},
		links: map[string]string{
			"MCP Basics#1": "https://example.com/mcp/1",
			"MCP Basics#2": "https://example.com/mcp/2",
		},
	}
	tool := NewSearchTool(cs)

	out, err := tool.Execute(context.Background(), map[string]any{"query": "mcp"})
	require.NoError(t, err)

	want := "[MCP Basics - Lesson 1]\nMCP lets models call tools.\n\n" +
		"[MCP Basics - Lesson 2]\nClients connect over stdio."
	assert.Equal(t, want, out)

	sources := tool.LastSources()
	require.Len(t, sources, 2)
	assert.Equal(t, store.Source{Text: "MCP Basics - Lesson 1", Link: "https://example.com/mcp/1"}, sources[0])
	assert.Equal(t, store.Source{Text: "MCP Basics - Lesson 2", Link: "https://example.com/mcp/2"}, sources[1])
}

func TestSearchToolHeaderWithoutLesson(t *testing.T) {
	cs := &fakeContentStore{
		results: &store.SearchResults{
			Documents: []string{"course-wide summary"},
			Metadata:  []store.ChunkMetadata{{CourseTitle: "MCP Basics"}},
			Distances: []float64{0.3},
		},
	}
	tool := NewSearchTool(cs)

	out, err := tool.Execute(context.Background(), map[string]any{"query": "overview"})
	require.NoError(t, err)

	assert.Equal(t, "[MCP Basics]\ncourse-wide summary", out)

	sources := tool.LastSources()
	require.Len(t, sources, 1)
	assert.Equal(t, "MCP Basics", sources[0].Text)
	assert.Empty(t, sources[0].Link)
}

func TestSearchToolDeduplicatesSourcesByTextKey(t *testing.T) {
	// Three chunks from the same lesson collapse into one citation, and the
	// dedup key ignores the link value entirely.
	cs := &fakeContentStore{
		results: &store.SearchResults{
			Documents: []string{"chunk a", "chunk b", "chunk c"},
			Metadata: []store.ChunkMetadata{
				{CourseTitle: "MCP Basics", LessonNumber: intPtr(1)},
				{CourseTitle: "MCP Basics", LessonNumber: intPtr(1)},
				{CourseTitle: "MCP Basics", LessonNumber: intPtr(2)},
			},
			Distances: []float64{0.1, 0.2, 0.3},
		},
		links: map[string]string{"MCP Basics#1": "https://example.com/mcp/1"},
	}
	tool := NewSearchTool(cs)

	out, err := tool.Execute(context.Background(), map[string]any{"query": "mcp"})
	require.NoError(t, err)

	// All three documents render even though only two citations are recorded.
	assert.Contains(t, out, "chunk a")
	assert.Contains(t, out, "chunk b")
	assert.Contains(t, out, "chunk c")

	sources := tool.LastSources()
	require.Len(t, sources, 2)
	assert.Equal(t, "MCP Basics - Lesson 1", sources[0].Text)
	assert.Equal(t, "MCP Basics - Lesson 2", sources[1].Text)
}

func TestSearchToolSourcesAccumulateUntilReset(t *testing.T) {
	cs := &fakeContentStore{
		results: &store.SearchResults{
			Documents: []string{"doc"},
			Metadata:  []store.ChunkMetadata{{CourseTitle: "Course A", LessonNumber: intPtr(1)}},
			Distances: []float64{0.1},
		},
	}
	tool := NewSearchTool(cs)

	_, err := tool.Execute(context.Background(), map[string]any{"query": "first"})
	require.NoError(t, err)

	cs.results.Metadata = []store.ChunkMetadata{{CourseTitle: "Course B", LessonNumber: intPtr(2)}}
	_, err = tool.Execute(context.Background(), map[string]any{"query": "second"})
	require.NoError(t, err)

	sources := tool.LastSources()
	require.Len(t, sources, 2)
	assert.Equal(t, "Course A - Lesson 1", sources[0].Text)
	assert.Equal(t, "Course B - Lesson 2", sources[1].Text)

	tool.ResetSources()
	assert.Empty(t, tool.LastSources())
}
