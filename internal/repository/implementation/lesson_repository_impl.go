package implementation

import (
	"context"
	"errors"

	"ai-coursechat-be/internal/entity"
	"ai-coursechat-be/internal/mapper"
	"ai-coursechat-be/internal/model"
	"ai-coursechat-be/internal/repository/contract"
	"ai-coursechat-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LessonRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.LessonMapper
}

func NewLessonRepository(db *gorm.DB) contract.LessonRepository {
	return &LessonRepositoryImpl{
		db:     db,
		mapper: mapper.NewLessonMapper(),
	}
}

func (r *LessonRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *LessonRepositoryImpl) Create(ctx context.Context, lesson *entity.Lesson) error {
	m := r.mapper.ToModel(lesson)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*lesson = *r.mapper.ToEntity(m)
	return nil
}

func (r *LessonRepositoryImpl) CreateBulk(ctx context.Context, lessons []*entity.Lesson) error {
	if len(lessons) == 0 {
		return nil
	}
	models := r.mapper.ToModels(lessons)
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*lessons[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *LessonRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Lesson{}, id).Error
}

func (r *LessonRepositoryImpl) DeleteByCourseId(ctx context.Context, courseId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("course_id = ?", courseId).Delete(&model.Lesson{}).Error
}

func (r *LessonRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Lesson, error) {
	var m model.Lesson
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *LessonRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Lesson, error) {
	var models []*model.Lesson
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *LessonRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Lesson{}), specs...)
	err := query.Count(&count).Error
	return count, err
}
