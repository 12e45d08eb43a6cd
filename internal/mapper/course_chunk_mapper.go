package mapper

import (
	"time"

	"ai-coursechat-be/internal/entity"
	"ai-coursechat-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type CourseChunkMapper struct{}

func NewCourseChunkMapper() *CourseChunkMapper {
	return &CourseChunkMapper{}
}

func (m *CourseChunkMapper) ToEntity(c *model.CourseChunk) *entity.CourseChunk {
	if c == nil {
		return nil
	}

	var deletedAt *time.Time
	if c.DeletedAt.Valid {
		t := c.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	return &entity.CourseChunk{
		Id:             c.Id,
		Document:       c.Document,
		EmbeddingValue: c.EmbeddingValue.Slice(),
		CourseId:       c.CourseId,
		LessonNumber:   c.LessonNumber,
		ChunkIndex:     c.ChunkIndex,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
		IsDeleted:      c.DeletedAt.Valid,
	}
}

func (m *CourseChunkMapper) ToModel(c *entity.CourseChunk) *model.CourseChunk {
	if c == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if c.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *c.DeletedAt, Valid: true}
	} else if c.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	return &model.CourseChunk{
		Id:             c.Id,
		Document:       c.Document,
		EmbeddingValue: pgvector.NewVector(c.EmbeddingValue),
		CourseId:       c.CourseId,
		LessonNumber:   c.LessonNumber,
		ChunkIndex:     c.ChunkIndex,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
	}
}

func (m *CourseChunkMapper) ToEntities(chunks []*model.CourseChunk) []*entity.CourseChunk {
	entities := make([]*entity.CourseChunk, len(chunks))
	for i, c := range chunks {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

func (m *CourseChunkMapper) ToModels(chunks []*entity.CourseChunk) []*model.CourseChunk {
	models := make([]*model.CourseChunk, len(chunks))
	for i, c := range chunks {
		models[i] = m.ToModel(c)
	}
	return models
}
