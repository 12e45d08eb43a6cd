package entity

import (
	"time"

	"github.com/google/uuid"
)

type CourseChunk struct {
	Id             uuid.UUID
	Document       string
	EmbeddingValue []float32
	CourseId       uuid.UUID
	LessonNumber   *int
	ChunkIndex     int
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}
