package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/blog-api/internal/auth"
	"github.com/blog-api/internal/config"
	"github.com/blog-api/internal/models"
	"github.com/blog-api/internal/repository"
)

// UserService covers registration, login and session tokens
type UserService interface {
	Register(ctx context.Context, in models.RegisterInput) (*models.User, string, error)
	Login(ctx context.Context, in models.LoginInput) (*models.User, string, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
	Logout(ctx context.Context, caller *models.User, token string) error
}

// ArticleService covers articles and their comments and likes.
// Mutations take the authenticated caller; a nil caller is rejected.
type ArticleService interface {
	Create(ctx context.Context, caller *models.User, in models.ArticleInput) (*models.Article, error)
	Get(ctx context.Context, id string) (*models.Article, error)
	List(ctx context.Context) ([]*models.Article, error)
	Update(ctx context.Context, caller *models.User, id string, patch models.ArticlePatch) (*models.Article, error)
	Delete(ctx context.Context, caller *models.User, id string) (*models.Article, error)
	AddComment(ctx context.Context, caller *models.User, articleID string, in models.CommentInput) (*models.Comment, error)
	DeleteComment(ctx context.Context, caller *models.User, articleID, commentID string) error
	AddLike(ctx context.Context, caller *models.User, articleID string) error
	RemoveLike(ctx context.Context, caller *models.User, articleID string) error
}

// StatsService reports record counts for /metrics
type StatsService interface {
	Counts(ctx context.Context) (*models.Counts, error)
}

// AttemptTracker throttles repeated failed logins for a name
type AttemptTracker interface {
	Locked(ctx context.Context, key string) (bool, error)
	RecordFailure(ctx context.Context, key string) (int64, error)
	Reset(ctx context.Context, key string) error
}

// Services holds all service interfaces
type Services struct {
	User    UserService
	Article ArticleService
	Stats   StatsService
}

// NewServices creates all services. tracker may be nil to disable throttling.
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger, tracker AttemptTracker) *Services {
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)

	return &Services{
		User:    newUserService(repos.User, tokens, hasher, tracker, log),
		Article: newArticleService(repos.Article, repos.Comment, log),
		Stats:   newStatsService(repos),
	}
}
