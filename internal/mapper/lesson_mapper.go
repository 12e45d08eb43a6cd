package mapper

import (
	"time"

	"ai-coursechat-be/internal/entity"
	"ai-coursechat-be/internal/model"

	"gorm.io/gorm"
)

type LessonMapper struct{}

func NewLessonMapper() *LessonMapper {
	return &LessonMapper{}
}

func (m *LessonMapper) ToEntity(l *model.Lesson) *entity.Lesson {
	if l == nil {
		return nil
	}

	var deletedAt *time.Time
	if l.DeletedAt.Valid {
		t := l.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !l.UpdatedAt.IsZero() {
		t := l.UpdatedAt
		updatedAt = &t
	}

	return &entity.Lesson{
		Id:           l.Id,
		CourseId:     l.CourseId,
		LessonNumber: l.LessonNumber,
		Title:        l.Title,
		Link:         l.Link,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    updatedAt,
		DeletedAt:    deletedAt,
		IsDeleted:    l.DeletedAt.Valid,
	}
}

func (m *LessonMapper) ToModel(l *entity.Lesson) *model.Lesson {
	if l == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if l.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *l.DeletedAt, Valid: true}
	} else if l.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if l.UpdatedAt != nil {
		updatedAt = *l.UpdatedAt
	}

	return &model.Lesson{
		Id:           l.Id,
		CourseId:     l.CourseId,
		LessonNumber: l.LessonNumber,
		Title:        l.Title,
		Link:         l.Link,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    updatedAt,
		DeletedAt:    deletedAt,
	}
}

func (m *LessonMapper) ToEntities(lessons []*model.Lesson) []*entity.Lesson {
	entities := make([]*entity.Lesson, len(lessons))
	for i, l := range lessons {
		entities[i] = m.ToEntity(l)
	}
	return entities
}

func (m *LessonMapper) ToModels(lessons []*entity.Lesson) []*model.Lesson {
	models := make([]*model.Lesson, len(lessons))
	for i, l := range lessons {
		models[i] = m.ToModel(l)
	}
	return models
}
