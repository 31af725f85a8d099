package service

import (
	"context"
	"fmt"

	"github.com/blog-api/internal/models"
	"github.com/blog-api/internal/repository"
)

type statsService struct {
	repos *repository.Repositories
}

func newStatsService(repos *repository.Repositories) *statsService {
	return &statsService{repos: repos}
}

func (s *statsService) Counts(ctx context.Context) (*models.Counts, error) {
	users, err := s.repos.User.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	articles, err := s.repos.Article.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count articles: %w", err)
	}
	comments, err := s.repos.Comment.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}
	return &models.Counts{Users: users, Articles: articles, Comments: comments}, nil
}
