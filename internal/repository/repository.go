package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/blog-api/internal/database"
	"github.com/blog-api/internal/models"
	"github.com/lib/pq"
)

// ErrUniqueViolation is returned when an insert collides with a unique index
var ErrUniqueViolation = errors.New("unique constraint violation")

// UserRepository defines the interface for user and session token storage.
// Lookups return (nil, nil) when no row matches.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByName(ctx context.Context, name string) (*models.User, error)
	FindByToken(ctx context.Context, id, scope, token string) (*models.User, error)
	AddToken(ctx context.Context, userID string, token models.Token) error
	RemoveToken(ctx context.Context, userID, token string) error
	Count(ctx context.Context) (int, error)
}

// ArticleRepository defines the interface for article storage.
// Every *Owned method and the like operations apply their filter in
// the same statement that mutates the row.
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	GetByID(ctx context.Context, id string) (*models.Article, error)
	List(ctx context.Context) ([]*models.Article, error)
	Exists(ctx context.Context, id string) (bool, error)
	UpdateOwned(ctx context.Context, id, creatorID string, patch models.ArticlePatch) (*models.Article, error)
	DeleteOwned(ctx context.Context, id, creatorID string) (*models.Article, error)
	AddLike(ctx context.Context, id, userID string) (bool, error)
	RemoveLike(ctx context.Context, id, userID string) (bool, error)
	Count(ctx context.Context) (int, error)
}

// CommentRepository defines the interface for comments embedded in articles
type CommentRepository interface {
	Create(ctx context.Context, articleID string, comment *models.Comment) (bool, error)
	DeleteOwned(ctx context.Context, articleID, commentID, creatorID string) (bool, error)
	ListByArticle(ctx context.Context, articleID string) ([]models.Comment, error)
	Count(ctx context.Context) (int, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	User    UserRepository
	Article ArticleRepository
	Comment CommentRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		User:    NewUserRepo(db),
		Article: NewArticleRepo(db),
		Comment: NewCommentRepo(db),
	}
}

// querier is satisfied by both *database.DB and *sql.Tx
type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func rowsAffected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
