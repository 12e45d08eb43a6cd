package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TitleMatches filters courses by partial title match (case-insensitive).
type TitleMatches struct {
	Title string
}

func (s TitleMatches) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Title + "%"
	return db.Where("title ILIKE ?", pattern)
}

// ByTitle filters by exact title match.
type ByTitle struct {
	Title string
}

func (s ByTitle) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("title = ?", s.Title)
}

type ByCourseID struct {
	CourseID uuid.UUID
}

func (s ByCourseID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("course_id = ?", s.CourseID)
}

type ByLessonNumber struct {
	LessonNumber int
}

func (s ByLessonNumber) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("lesson_number = ?", s.LessonNumber)
}
