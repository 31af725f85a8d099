package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/blog-api/internal/database"
	"github.com/blog-api/internal/models"
)

// userRepo is the concrete implementation of UserRepository
type userRepo struct {
	db *database.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *database.DB) UserRepository {
	return &userRepo{db: db}
}

// Create inserts a new user; a taken name yields ErrUniqueViolation
func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO users (id, name, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query, user.ID, user.Name, user.PasswordHash, user.CreatedAt)
	if isUniqueViolation(err) {
		return ErrUniqueViolation
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID retrieves a user with its tokens by ID
func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT id, name, password_hash, created_at FROM users WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByName retrieves a user with its tokens by unique name
func (r *userRepo) GetByName(ctx context.Context, name string) (*models.User, error) {
	query := `SELECT id, name, password_hash, created_at FROM users WHERE name = $1`
	return r.getOne(ctx, query, name)
}

// FindByToken retrieves the user only while the (id, scope, token) triple is live
func (r *userRepo) FindByToken(ctx context.Context, id, scope, token string) (*models.User, error) {
	query := `
		SELECT u.id, u.name, u.password_hash, u.created_at
		FROM users u
		WHERE u.id = $1 AND EXISTS (
			SELECT 1 FROM user_tokens t
			WHERE t.user_id = u.id AND t.token = $2 AND t.scope = $3
		)
	`
	return r.getOne(ctx, query, id, token, scope)
}

// AddToken appends a session token to the user's list
func (r *userRepo) AddToken(ctx context.Context, userID string, token models.Token) error {
	query := `INSERT INTO user_tokens (user_id, scope, token) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, query, userID, token.Scope, token.Token); err != nil {
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

// RemoveToken deletes exactly the given token of the user; other sessions survive
func (r *userRepo) RemoveToken(ctx context.Context, userID, token string) error {
	query := `DELETE FROM user_tokens WHERE user_id = $1 AND token = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, token); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// Count returns the total number of users
func (r *userRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

func (r *userRepo) getOne(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID, &user.Name, &user.PasswordHash, &user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	tokens, err := r.tokens(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Tokens = tokens

	return &user, nil
}

func (r *userRepo) tokens(ctx context.Context, userID string) ([]models.Token, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT scope, token FROM user_tokens WHERE user_id = $1 ORDER BY seq", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tokens := []models.Token{}
	for rows.Next() {
		var t models.Token
		if err := rows.Scan(&t.Scope, &t.Token); err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}
