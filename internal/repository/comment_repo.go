package repository

import (
	"context"
	"fmt"

	"github.com/blog-api/internal/database"
	"github.com/blog-api/internal/models"
	"github.com/lib/pq"
)

const commentColumns = `id, creator_id, creator_name, text, created_at`

// commentRepo is the concrete implementation of CommentRepository
type commentRepo struct {
	db *database.DB
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(db *database.DB) CommentRepository {
	return &commentRepo{db: db}
}

// Create appends a comment to the article in one statement.
// false means the article does not exist.
func (r *commentRepo) Create(ctx context.Context, articleID string, comment *models.Comment) (bool, error) {
	query := `
		INSERT INTO comments (id, article_id, creator_id, creator_name, text, created_at)
		SELECT $1::uuid, $2::uuid, $3::uuid, $4::text, $5::text, $6::text
		WHERE EXISTS (SELECT 1 FROM articles WHERE id = $2::uuid)
	`
	res, err := r.db.ExecContext(ctx, query,
		comment.ID, articleID, comment.CreatorID, comment.CreatorName, comment.Text, comment.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert comment: %w", err)
	}
	return rowsAffected(res)
}

// DeleteOwned removes the comment only when it belongs to the article and
// was written by creatorID. false means nothing was removed.
func (r *commentRepo) DeleteOwned(ctx context.Context, articleID, commentID, creatorID string) (bool, error) {
	query := `DELETE FROM comments WHERE id = $1 AND article_id = $2 AND creator_id = $3`
	res, err := r.db.ExecContext(ctx, query, commentID, articleID, creatorID)
	if err != nil {
		return false, fmt.Errorf("delete comment: %w", err)
	}
	return rowsAffected(res)
}

// ListByArticle returns the comments of an article in insertion order
func (r *commentRepo) ListByArticle(ctx context.Context, articleID string) ([]models.Comment, error) {
	return commentsOf(ctx, r.db, articleID)
}

// Count returns the total number of comments
func (r *commentRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM comments").Scan(&count)
	return count, err
}

func commentsOf(ctx context.Context, q querier, articleID string) ([]models.Comment, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE article_id = $1 ORDER BY seq", articleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.CreatorID, &c.CreatorName, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func commentsOfMany(ctx context.Context, q querier, articleIDs []string) (map[string][]models.Comment, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT article_id, "+commentColumns+" FROM comments WHERE article_id = ANY($1) ORDER BY seq",
		pq.Array(articleIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byArticle := make(map[string][]models.Comment, len(articleIDs))
	for rows.Next() {
		var articleID string
		var c models.Comment
		if err := rows.Scan(&articleID, &c.ID, &c.CreatorID, &c.CreatorName, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		byArticle[articleID] = append(byArticle[articleID], c)
	}
	return byArticle, rows.Err()
}
