package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/blog-api/internal/database"
	"github.com/blog-api/internal/models"
	"github.com/lib/pq"
)

const articleColumns = `id, creator_id, creator_name, title, text, created_at, edited_at, likes`

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	db *database.DB
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(db *database.DB) ArticleRepository {
	return &articleRepo{db: db}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanArticle(s rowScanner) (*models.Article, error) {
	var article models.Article
	var editedAt sql.NullString
	var likes pq.StringArray

	err := s.Scan(
		&article.ID, &article.CreatorID, &article.CreatorName, &article.Title, &article.Text,
		&article.CreatedAt, &editedAt, &likes,
	)
	if err != nil {
		return nil, err
	}

	if editedAt.Valid {
		article.EditedAt = &editedAt.String
	}
	article.Likes = []string(likes)
	if article.Likes == nil {
		article.Likes = []string{}
	}
	article.Comments = []models.Comment{}

	return &article, nil
}

// Create inserts a new article with empty likes
func (r *articleRepo) Create(ctx context.Context, article *models.Article) error {
	if article.Likes == nil {
		article.Likes = []string{}
	}

	query := `
		INSERT INTO articles (id, creator_id, creator_name, title, text, created_at, edited_at, likes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		article.ID, article.CreatorID, article.CreatorName, article.Title, article.Text,
		article.CreatedAt, article.EditedAt, pq.Array(article.Likes),
	)
	if err != nil {
		return fmt.Errorf("insert article: %w", err)
	}
	return nil
}

// GetByID retrieves an article with its comments
func (r *articleRepo) GetByID(ctx context.Context, id string) (*models.Article, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+articleColumns+" FROM articles WHERE id = $1", id)
	article, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	article.Comments, err = commentsOf(ctx, r.db, article.ID)
	if err != nil {
		return nil, err
	}
	return article, nil
}

// List retrieves every article with its comments, in no particular order
func (r *articleRepo) List(ctx context.Context) ([]*models.Article, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+articleColumns+" FROM articles")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := []*models.Article{}
	ids := []string{}
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
		ids = append(ids, article.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return articles, nil
	}

	byArticle, err := commentsOfMany(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for _, a := range articles {
		if c, ok := byArticle[a.ID]; ok {
			a.Comments = c
		}
	}
	return articles, nil
}

// Exists checks if an article with the given ID exists
func (r *articleRepo) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM articles WHERE id = $1)", id).Scan(&exists)
	return exists, err
}

// UpdateOwned patches the article only when creatorID owns it.
// Returns (nil, nil) when the id is absent or owned by someone else.
func (r *articleRepo) UpdateOwned(ctx context.Context, id, creatorID string, patch models.ArticlePatch) (*models.Article, error) {
	query := `
		UPDATE articles SET
			title = COALESCE($3, title),
			text = COALESCE($4, text),
			edited_at = COALESCE($5, edited_at)
		WHERE id = $1 AND creator_id = $2
		RETURNING ` + articleColumns

	row := r.db.QueryRowContext(ctx, query, id, creatorID, patch.Title, patch.Text, patch.EditedAt)
	article, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update article: %w", err)
	}

	article.Comments, err = commentsOf(ctx, r.db, article.ID)
	if err != nil {
		return nil, err
	}
	return article, nil
}

// DeleteOwned removes the article, and through the cascade its comments,
// only when creatorID owns it. The removed article is returned with the
// comments it had; (nil, nil) means nothing matched.
func (r *articleRepo) DeleteOwned(ctx context.Context, id, creatorID string) (*models.Article, error) {
	var removed *models.Article

	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		// lock the owned row so no comment lands between reading and deleting
		var locked string
		err := tx.QueryRowContext(ctx,
			"SELECT id FROM articles WHERE id = $1 AND creator_id = $2 FOR UPDATE", id, creatorID,
		).Scan(&locked)
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}

		comments, err := commentsOf(ctx, tx, id)
		if err != nil {
			return err
		}

		row := tx.QueryRowContext(ctx,
			"DELETE FROM articles WHERE id = $1 AND creator_id = $2 RETURNING "+articleColumns, id, creatorID)
		article, err := scanArticle(row)
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}
		article.Comments = comments
		removed = article
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("delete article: %w", err)
	}
	return removed, nil
}

// AddLike appends userID to likes unless it is already present.
// false means the article is absent or already liked by userID.
func (r *articleRepo) AddLike(ctx context.Context, id, userID string) (bool, error) {
	query := `
		UPDATE articles SET likes = array_append(likes, $2::uuid)
		WHERE id = $1 AND NOT ($2::uuid = ANY(likes))
	`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return false, fmt.Errorf("add like: %w", err)
	}
	return rowsAffected(res)
}

// RemoveLike removes userID from likes; false means nothing was removed
func (r *articleRepo) RemoveLike(ctx context.Context, id, userID string) (bool, error) {
	query := `
		UPDATE articles SET likes = array_remove(likes, $2::uuid)
		WHERE id = $1 AND $2::uuid = ANY(likes)
	`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return false, fmt.Errorf("remove like: %w", err)
	}
	return rowsAffected(res)
}

// Count returns the total number of articles
func (r *articleRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles").Scan(&count)
	return count, err
}
