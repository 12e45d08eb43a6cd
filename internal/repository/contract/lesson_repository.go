package contract

import (
	"context"

	"ai-coursechat-be/internal/entity"
	"ai-coursechat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type LessonRepository interface {
	Create(ctx context.Context, lesson *entity.Lesson) error
	CreateBulk(ctx context.Context, lessons []*entity.Lesson) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByCourseId(ctx context.Context, courseId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Lesson, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Lesson, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
