package store

// ChunkMetadata describes where a matched course chunk came from.
// LessonNumber is nil for course-level material (e.g. the course overview).
type ChunkMetadata struct {
	CourseTitle  string `json:"course_title"`
	LessonNumber *int   `json:"lesson_number"`
	ChunkIndex   int    `json:"chunk_index"`
}

// SearchResults is the outcome of one vector search against the course
// content store. Documents, Metadata and Distances are parallel slices.
// When Err is set all three are empty and Err is authoritative.
type SearchResults struct {
	Documents []string        `json:"documents"`
	Metadata  []ChunkMetadata `json:"metadata"`
	Distances []float64       `json:"distances"`
	Err       string          `json:"error,omitempty"`
}

// Empty reports whether the search matched nothing (and carried no error).
func (r *SearchResults) Empty() bool {
	return r.Err == "" && len(r.Documents) == 0
}

// ErrorResults builds a SearchResults carrying only an error message.
func ErrorResults(msg string) *SearchResults {
	return &SearchResults{Err: msg}
}

// Source is a citation surfaced to the end user alongside an answer.
// Link is empty when no URL is known for the cited material.
type Source struct {
	Text string `json:"text"`
	Link string `json:"link,omitempty"`
}

// LessonRef is one lesson entry inside a course outline.
type LessonRef struct {
	LessonNumber int    `json:"lesson_number"`
	LessonTitle  string `json:"lesson_title"`
	LessonLink   string `json:"lesson_link,omitempty"`
}

// CourseOutline is the resolved structure of a single course.
type CourseOutline struct {
	CourseTitle string      `json:"course_title"`
	CourseLink  string      `json:"course_link,omitempty"`
	Instructor  string      `json:"instructor,omitempty"`
	Lessons     []LessonRef `json:"lessons"`
}
