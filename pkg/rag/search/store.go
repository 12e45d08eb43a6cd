package search

import (
	"context"
	"fmt"
	"time"

	"ai-coursechat-be/internal/pkg/logger"
	"ai-coursechat-be/internal/repository/contract"
	"ai-coursechat-be/internal/repository/specification"
	"ai-coursechat-be/internal/repository/unitofwork"
	"ai-coursechat-be/pkg/embedding"
	"ai-coursechat-be/pkg/store"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const (
	defaultTopK         = 5
	linkCacheExpiration = time.Hour
	linkCacheCleanup    = 10 * time.Minute
)

// Store answers semantic search, lesson link and outline lookups over the
// course catalog. Search never returns a Go error: backend failures are
// reported through the Err field so they reach the model as tool output.
type Store struct {
	repoFactory unitofwork.RepositoryFactory
	embedder    embedding.Provider
	linkCache   *cache.Cache
	topK        int
	logger      logger.ILogger
}

func NewStore(repoFactory unitofwork.RepositoryFactory, embedder embedding.Provider, topK int, log logger.ILogger) *Store {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &Store{
		repoFactory: repoFactory,
		embedder:    embedder,
		linkCache:   cache.New(linkCacheExpiration, linkCacheCleanup),
		topK:        topK,
		logger:      log,
	}
}

// Search embeds the query and returns the closest chunks, optionally scoped
// to a partially-matched course title and a lesson number.
func (s *Store) Search(ctx context.Context, query string, courseName string, lessonNumber *int) *store.SearchResults {
	uow := s.repoFactory.NewUnitOfWork(ctx)

	var courseId *uuid.UUID
	titleById := make(map[uuid.UUID]string)

	if courseName != "" {
		course, err := uow.CourseRepository().FindOne(ctx, specification.TitleMatches{Title: courseName})
		if err != nil {
			return store.ErrorResults(fmt.Sprintf("Search error: %v", err))
		}
		if course == nil {
			return store.ErrorResults(fmt.Sprintf("No course found matching '%s'", courseName))
		}
		courseId = &course.Id
		titleById[course.Id] = course.Title
	}

	vec, err := s.embedder.Generate(ctx, query)
	if err != nil {
		return store.ErrorResults(fmt.Sprintf("Search error: %v", err))
	}

	scored, err := uow.CourseChunkRepository().SearchSimilar(ctx, vec, s.topK, courseId, lessonNumber)
	if err != nil {
		return store.ErrorResults(fmt.Sprintf("Search error: %v", err))
	}

	s.debug("vector search complete", map[string]interface{}{
		"query_len": len(query),
		"results":   len(scored),
	})

	if err := s.resolveCourseTitles(ctx, uow, scored, titleById); err != nil {
		return store.ErrorResults(fmt.Sprintf("Search error: %v", err))
	}

	results := &store.SearchResults{
		Documents: make([]string, 0, len(scored)),
		Metadata:  make([]store.ChunkMetadata, 0, len(scored)),
		Distances: make([]float64, 0, len(scored)),
	}
	for _, sc := range scored {
		results.Documents = append(results.Documents, sc.Chunk.Document)
		results.Metadata = append(results.Metadata, store.ChunkMetadata{
			CourseTitle:  titleById[sc.Chunk.CourseId],
			LessonNumber: sc.Chunk.LessonNumber,
			ChunkIndex:   sc.Chunk.ChunkIndex,
		})
		results.Distances = append(results.Distances, 1-sc.Similarity)
	}
	return results
}

// resolveCourseTitles fills titleById for every course referenced by the
// scored chunks that is not already known.
func (s *Store) resolveCourseTitles(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	scored []*contract.ScoredCourseChunk,
	titleById map[uuid.UUID]string,
) error {

	var missing []uuid.UUID
	for _, sc := range scored {
		if _, ok := titleById[sc.Chunk.CourseId]; !ok {
			missing = append(missing, sc.Chunk.CourseId)
			titleById[sc.Chunk.CourseId] = "" // mark queued
		}
	}
	if len(missing) == 0 {
		return nil
	}

	courses, err := uow.CourseRepository().FindAll(ctx, specification.ByIDs{IDs: missing})
	if err != nil {
		return err
	}
	for _, c := range courses {
		titleById[c.Id] = c.Title
	}
	return nil
}

// GetLessonLink resolves the link of one lesson, cached per course/lesson
// pair since search result formatting hits this repeatedly.
func (s *Store) GetLessonLink(ctx context.Context, courseTitle string, lessonNumber int) string {
	key := fmt.Sprintf("%s#%d", courseTitle, lessonNumber)
	if cached, ok := s.linkCache.Get(key); ok {
		return cached.(string)
	}

	uow := s.repoFactory.NewUnitOfWork(ctx)

	course, err := uow.CourseRepository().FindOne(ctx, specification.ByTitle{Title: courseTitle})
	if err != nil || course == nil {
		return ""
	}

	lesson, err := uow.LessonRepository().FindOne(ctx,
		specification.ByCourseID{CourseID: course.Id},
		specification.ByLessonNumber{LessonNumber: lessonNumber},
	)
	if err != nil || lesson == nil {
		return ""
	}

	s.linkCache.Set(key, lesson.Link, cache.DefaultExpiration)
	return lesson.Link
}

// GetCourseOutline resolves a course by partial title match and returns its
// full lesson list, or nil when no course matches.
func (s *Store) GetCourseOutline(ctx context.Context, courseName string) *store.CourseOutline {
	uow := s.repoFactory.NewUnitOfWork(ctx)

	course, err := uow.CourseRepository().FindOne(ctx, specification.TitleMatches{Title: courseName})
	if err != nil || course == nil {
		return nil
	}

	lessons, err := uow.LessonRepository().FindAll(ctx,
		specification.ByCourseID{CourseID: course.Id},
		specification.OrderBy{Field: "lesson_number"},
	)
	if err != nil {
		return nil
	}

	outline := &store.CourseOutline{
		CourseTitle: course.Title,
		CourseLink:  course.Link,
		Instructor:  course.Instructor,
	}
	for _, lesson := range lessons {
		outline.Lessons = append(outline.Lessons, store.LessonRef{
			LessonNumber: lesson.LessonNumber,
			LessonTitle:  lesson.Title,
			LessonLink:   lesson.Link,
		})
	}
	return outline
}

func (s *Store) debug(message string, details map[string]interface{}) {
	if s.logger != nil {
		s.logger.Debug("search-store", message, details)
	}
}
