package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/blog-api/internal/models"
	"github.com/blog-api/internal/repository"
	"github.com/blog-api/internal/validation"
)

// articleService is the concrete implementation of ArticleService.
// Ownership is never checked here by reading first; the repositories
// apply the creator filter inside the mutating statement.
type articleService struct {
	articles repository.ArticleRepository
	comments repository.CommentRepository
	log      zerolog.Logger
	now      func() time.Time
}

func newArticleService(articles repository.ArticleRepository, comments repository.CommentRepository, log zerolog.Logger) *articleService {
	return &articleService{
		articles: articles,
		comments: comments,
		log:      log.With().Str("service", "article").Logger(),
		now:      time.Now,
	}
}

func (s *articleService) stamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

func (s *articleService) Create(ctx context.Context, caller *models.User, in models.ArticleInput) (*models.Article, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	if err := validation.ValidateArticle(&in); err != nil {
		return nil, invalid(err)
	}

	createdAt := in.CreatedAt
	if createdAt == "" {
		createdAt = s.stamp()
	}

	article := &models.Article{
		ID:          uuid.New().String(),
		CreatorID:   caller.ID,
		CreatorName: caller.Name,
		Title:       in.Title,
		Text:        in.Text,
		CreatedAt:   createdAt,
		Likes:       []string{},
		Comments:    []models.Comment{},
	}

	if err := s.articles.Create(ctx, article); err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}

	s.log.Info().Str("article_id", article.ID).Str("user_id", caller.ID).Msg("Article created")
	return article, nil
}

func (s *articleService) Get(ctx context.Context, id string) (*models.Article, error) {
	if !validation.IsValidID(id) {
		return nil, ErrInvalidID
	}

	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if article == nil {
		return nil, ErrNotFound
	}
	return article, nil
}

func (s *articleService) List(ctx context.Context) ([]*models.Article, error) {
	articles, err := s.articles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return articles, nil
}

// Update applies patch only if caller created the article
func (s *articleService) Update(ctx context.Context, caller *models.User, id string, patch models.ArticlePatch) (*models.Article, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	if !validation.IsValidID(id) {
		return nil, ErrInvalidID
	}
	if err := validation.ValidatePatch(&patch); err != nil {
		return nil, invalid(err)
	}
	if patch.EditedAt == nil || *patch.EditedAt == "" {
		stamp := s.stamp()
		patch.EditedAt = &stamp
	}

	article, err := s.articles.UpdateOwned(ctx, id, caller.ID, patch)
	if err != nil {
		return nil, fmt.Errorf("update article: %w", err)
	}
	// absent and not-owned are indistinguishable to the caller
	if article == nil {
		return nil, ErrNotFound
	}

	s.log.Info().Str("article_id", id).Str("user_id", caller.ID).Msg("Article updated")
	return article, nil
}

// Delete removes the article and its comments if caller created it
func (s *articleService) Delete(ctx context.Context, caller *models.User, id string) (*models.Article, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	if !validation.IsValidID(id) {
		return nil, ErrInvalidID
	}

	article, err := s.articles.DeleteOwned(ctx, id, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("delete article: %w", err)
	}
	if article == nil {
		return nil, ErrNotFound
	}

	s.log.Info().Str("article_id", id).Str("user_id", caller.ID).Msg("Article deleted")
	return article, nil
}

func (s *articleService) AddComment(ctx context.Context, caller *models.User, articleID string, in models.CommentInput) (*models.Comment, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	if !validation.IsValidID(articleID) {
		return nil, ErrNotFound
	}
	if err := validation.ValidateComment(&in); err != nil {
		return nil, invalid(err)
	}

	createdAt := in.CreatedAt
	if createdAt == "" {
		createdAt = s.stamp()
	}

	comment := &models.Comment{
		ID:          uuid.New().String(),
		CreatorID:   caller.ID,
		CreatorName: caller.Name,
		Text:        in.Text,
		CreatedAt:   createdAt,
	}

	ok, err := s.comments.Create(ctx, articleID, comment)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	if !ok {
		return nil, ErrNotFound
	}

	s.log.Info().Str("article_id", articleID).Str("comment_id", comment.ID).Msg("Comment added")
	return comment, nil
}

func (s *articleService) DeleteComment(ctx context.Context, caller *models.User, articleID, commentID string) error {
	if caller == nil {
		return ErrUnauthenticated
	}
	if !validation.IsValidID(articleID) || !validation.IsValidID(commentID) {
		return ErrNotFound
	}

	ok, err := s.comments.DeleteOwned(ctx, articleID, commentID, caller.ID)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if !ok {
		return ErrNotFound
	}

	s.log.Info().Str("article_id", articleID).Str("comment_id", commentID).Msg("Comment deleted")
	return nil
}

func (s *articleService) AddLike(ctx context.Context, caller *models.User, articleID string) error {
	if caller == nil {
		return ErrUnauthenticated
	}
	if !validation.IsValidID(articleID) {
		return ErrNotFound
	}

	added, err := s.articles.AddLike(ctx, articleID, caller.ID)
	if err != nil {
		return fmt.Errorf("add like: %w", err)
	}
	if added {
		return nil
	}

	// Nothing changed: either the like is already there or there is no article
	exists, err := s.articles.Exists(ctx, articleID)
	if err != nil {
		return fmt.Errorf("check article: %w", err)
	}
	if exists {
		return ErrDuplicateOperation
	}
	return ErrNotFound
}

func (s *articleService) RemoveLike(ctx context.Context, caller *models.User, articleID string) error {
	if caller == nil {
		return ErrUnauthenticated
	}
	if !validation.IsValidID(articleID) {
		return ErrNotFound
	}

	removed, err := s.articles.RemoveLike(ctx, articleID, caller.ID)
	if err != nil {
		return fmt.Errorf("remove like: %w", err)
	}
	if !removed {
		return ErrNotFound
	}
	return nil
}
