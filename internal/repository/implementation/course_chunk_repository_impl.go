package implementation

import (
	"context"

	"ai-coursechat-be/internal/entity"
	"ai-coursechat-be/internal/mapper"
	"ai-coursechat-be/internal/model"
	"ai-coursechat-be/internal/repository/contract"
	"ai-coursechat-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type CourseChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CourseChunkMapper
}

func NewCourseChunkRepository(db *gorm.DB) contract.CourseChunkRepository {
	return &CourseChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewCourseChunkMapper(),
	}
}

func (r *CourseChunkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CourseChunkRepositoryImpl) Create(ctx context.Context, chunk *entity.CourseChunk) error {
	m := r.mapper.ToModel(chunk)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*chunk = *r.mapper.ToEntity(m)
	return nil
}

func (r *CourseChunkRepositoryImpl) CreateBulk(ctx context.Context, chunks []*entity.CourseChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := r.mapper.ToModels(chunks)
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*chunks[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *CourseChunkRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.CourseChunk{}, id).Error
}

func (r *CourseChunkRepositoryImpl) DeleteByCourseId(ctx context.Context, courseId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("course_id = ?", courseId).Delete(&model.CourseChunk{}).Error
}

func (r *CourseChunkRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CourseChunk, error) {
	var models []*model.CourseChunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *CourseChunkRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.CourseChunk{}), specs...)
	err := query.Count(&count).Error
	return count, err
}

// SearchSimilar returns the closest chunks by cosine distance, optionally
// constrained to one course and one lesson number.
func (r *CourseChunkRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, limit int, courseId *uuid.UUID, lessonNumber *int) ([]*contract.ScoredCourseChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	// Cosine distance in pgvector is: 1 - cosine_similarity
	// So we compute: 1 - (embedding_value <=> query_vector) = cosine_similarity
	type result struct {
		model.CourseChunk
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	query := r.db.WithContext(ctx).
		Table("course_chunks").
		Select("course_chunks.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Joins("JOIN courses ON courses.id = course_chunks.course_id").
		Where("course_chunks.deleted_at IS NULL").
		Where("courses.deleted_at IS NULL")

	if courseId != nil {
		query = query.Where("course_chunks.course_id = ?", *courseId)
	}
	if lessonNumber != nil {
		query = query.Where("course_chunks.lesson_number = ?", *lessonNumber)
	}

	err := query.
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredCourseChunk, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredCourseChunk{
			Chunk:      r.mapper.ToEntity(&res.CourseChunk),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
