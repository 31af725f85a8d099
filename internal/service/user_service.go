package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/blog-api/internal/auth"
	"github.com/blog-api/internal/models"
	"github.com/blog-api/internal/repository"
	pkgvalidation "github.com/blog-api/internal/validation"
)

// userService is the concrete implementation of UserService
type userService struct {
	users   repository.UserRepository
	tokens  *auth.TokenManager
	hasher  *auth.PasswordHasher
	tracker AttemptTracker
	log     zerolog.Logger
}

func newUserService(users repository.UserRepository, tokens *auth.TokenManager, hasher *auth.PasswordHasher, tracker AttemptTracker, log zerolog.Logger) *userService {
	return &userService{
		users:   users,
		tokens:  tokens,
		hasher:  hasher,
		tracker: tracker,
		log:     log.With().Str("service", "user").Logger(),
	}
}

// Register creates a user and issues its first session token
func (s *userService) Register(ctx context.Context, in models.RegisterInput) (*models.User, string, error) {
	if err := pkgvalidation.ValidateRegistration(&in); err != nil {
		return nil, "", invalid(err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Name:         in.Name,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	// The unique index on name decides races between concurrent registrations
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, "", invalid(validation.Errors{"name": errors.New("already taken")})
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}

	s.log.Info().Str("user_id", user.ID).Msg("User registered")
	return user, token, nil
}

// Login verifies credentials and issues a new session token
func (s *userService) Login(ctx context.Context, in models.LoginInput) (*models.User, string, error) {
	if err := pkgvalidation.ValidateLogin(&in); err != nil {
		return nil, "", invalid(err)
	}

	if s.locked(ctx, in.Name) {
		return nil, "", ErrTooManyAttempts
	}

	user, err := s.users.GetByName(ctx, in.Name)
	if err != nil {
		return nil, "", fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		s.hasher.CompareDummy(in.Password)
		s.recordFailure(ctx, in.Name)
		return nil, "", ErrInvalidCredentials
	}

	if err := s.hasher.Compare(user.PasswordHash, in.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.recordFailure(ctx, in.Name)
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("compare password: %w", err)
	}

	if s.tracker != nil {
		if err := s.tracker.Reset(ctx, in.Name); err != nil {
			s.log.Error().Err(err).Msg("Failed to reset login attempts")
		}
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}

	s.log.Info().Str("user_id", user.ID).Msg("User logged in")
	return user, token, nil
}

// Authenticate resolves a presented token to the user holding it
func (s *userService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	if claims.Scope != models.TokenScopeAuth || !pkgvalidation.IsValidID(claims.UserID) {
		return nil, ErrUnauthenticated
	}

	// A verified signature is not enough; the token must still be on file
	user, err := s.users.FindByToken(ctx, claims.UserID, claims.Scope, token)
	if err != nil {
		return nil, fmt.Errorf("find by token: %w", err)
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// Logout revokes exactly the presented token
func (s *userService) Logout(ctx context.Context, caller *models.User, token string) error {
	if caller == nil {
		return ErrUnauthenticated
	}
	if err := s.users.RemoveToken(ctx, caller.ID, token); err != nil {
		return fmt.Errorf("remove token: %w", err)
	}
	s.log.Info().Str("user_id", caller.ID).Msg("User logged out")
	return nil
}

func (s *userService) issueToken(ctx context.Context, user *models.User) (string, error) {
	token, err := s.tokens.Generate(user.ID, models.TokenScopeAuth)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	t := models.Token{Scope: models.TokenScopeAuth, Token: token}
	if err := s.users.AddToken(ctx, user.ID, t); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	user.Tokens = append(user.Tokens, t)
	return token, nil
}

// Tracker failures never block a login attempt
func (s *userService) locked(ctx context.Context, name string) bool {
	if s.tracker == nil {
		return false
	}
	locked, err := s.tracker.Locked(ctx, name)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to read login lock")
		return false
	}
	return locked
}

func (s *userService) recordFailure(ctx context.Context, name string) {
	if s.tracker == nil {
		return
	}
	if _, err := s.tracker.RecordFailure(ctx, name); err != nil {
		s.log.Error().Err(err).Msg("Failed to record login failure")
	}
}
