package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Lesson struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CourseId     uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_lessons_course_number"`
	LessonNumber int       `gorm:"not null;uniqueIndex:idx_lessons_course_number"`
	Title        string    `gorm:"type:text;not null"`
	Link         string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (Lesson) TableName() string {
	return "lessons"
}
