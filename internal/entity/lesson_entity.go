package entity

import (
	"time"

	"github.com/google/uuid"
)

type Lesson struct {
	Id           uuid.UUID
	CourseId     uuid.UUID
	LessonNumber int
	Title        string
	Link         string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	DeletedAt    *time.Time
	IsDeleted    bool
}
