package dto

type CourseStatsResponse struct {
	TotalCourses int64    `json:"total_courses"`
	CourseTitles []string `json:"course_titles"`
}
