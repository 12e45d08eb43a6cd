package contract

import (
	"context"

	"ai-coursechat-be/internal/entity"
	"ai-coursechat-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredCourseChunk wraps CourseChunk with its similarity score
type ScoredCourseChunk struct {
	Chunk      *entity.CourseChunk
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type CourseChunkRepository interface {
	Create(ctx context.Context, chunk *entity.CourseChunk) error
	CreateBulk(ctx context.Context, chunks []*entity.CourseChunk) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByCourseId(ctx context.Context, courseId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CourseChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// Advanced
	SearchSimilar(ctx context.Context, embedding []float32, limit int, courseId *uuid.UUID, lessonNumber *int) ([]*ScoredCourseChunk, error)
}
