package service

import (
	"context"

	"ai-coursechat-be/internal/dto"
	"ai-coursechat-be/internal/repository/unitofwork"
)

type ICourseService interface {
	GetCourseStats(ctx context.Context) (*dto.CourseStatsResponse, error)
}

type courseService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewCourseService(uowFactory unitofwork.RepositoryFactory) ICourseService {
	return &courseService{uowFactory: uowFactory}
}

// GetCourseStats returns the catalog size and the full title list
func (cs *courseService) GetCourseStats(ctx context.Context) (*dto.CourseStatsResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	courses, err := uow.CourseRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(courses))
	for _, c := range courses {
		titles = append(titles, c.Title)
	}

	return &dto.CourseStatsResponse{
		TotalCourses: int64(len(titles)),
		CourseTitles: titles,
	}, nil
}
