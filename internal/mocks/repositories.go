package mocks

import (
	"context"
	"sync"

	"github.com/blog-api/internal/models"
	"github.com/blog-api/internal/repository"
)

var (
	_ repository.UserRepository    = (*MockUserRepository)(nil)
	_ repository.ArticleRepository = (*MockArticleRepository)(nil)
	_ repository.CommentRepository = (*MockCommentRepository)(nil)
)

// NewRepositories wires in-memory repositories sharing one article store
func NewRepositories() *repository.Repositories {
	articles := NewMockArticleRepository()
	return &repository.Repositories{
		User:    NewMockUserRepository(),
		Article: articles,
		Comment: NewMockCommentRepository(articles),
	}
}

// MockUserRepository is an in-memory UserRepository
type MockUserRepository struct {
	mu         sync.Mutex
	Users      map[string]*models.User
	NameToUser map[string]*models.User
	Err        error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:      make(map[string]*models.User),
		NameToUser: make(map[string]*models.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, taken := m.NameToUser[user.Name]; taken {
		return repository.ErrUniqueViolation
	}
	stored := copyUser(user)
	m.Users[user.ID] = stored
	m.NameToUser[user.Name] = stored
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return copyUser(m.Users[id]), nil
}

func (m *MockUserRepository) GetByName(ctx context.Context, name string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return copyUser(m.NameToUser[name]), nil
}

func (m *MockUserRepository) FindByToken(ctx context.Context, id, scope, token string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	u := m.Users[id]
	if u == nil || !u.HasToken(scope, token) {
		return nil, nil
	}
	return copyUser(u), nil
}

func (m *MockUserRepository) AddToken(ctx context.Context, userID string, token models.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if u := m.Users[userID]; u != nil {
		u.Tokens = append(u.Tokens, token)
	}
	return nil
}

func (m *MockUserRepository) RemoveToken(ctx context.Context, userID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	u := m.Users[userID]
	if u == nil {
		return nil
	}
	kept := u.Tokens[:0]
	for _, t := range u.Tokens {
		if t.Token != token {
			kept = append(kept, t)
		}
	}
	u.Tokens = kept
	return nil
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Users), m.Err
}

// MockArticleRepository is an in-memory ArticleRepository. Comments live
// inside the stored articles so MockCommentRepository shares this store.
type MockArticleRepository struct {
	mu       sync.Mutex
	Articles map[string]*models.Article
	order    []string
	Err      error
}

func NewMockArticleRepository() *MockArticleRepository {
	return &MockArticleRepository{Articles: make(map[string]*models.Article)}
}

func (m *MockArticleRepository) Create(ctx context.Context, article *models.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if article.Likes == nil {
		article.Likes = []string{}
	}
	if article.Comments == nil {
		article.Comments = []models.Comment{}
	}
	m.Articles[article.ID] = copyArticle(article)
	m.order = append(m.order, article.ID)
	return nil
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id string) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return copyArticle(m.Articles[id]), nil
}

func (m *MockArticleRepository) List(ctx context.Context) ([]*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	articles := make([]*models.Article, 0, len(m.Articles))
	for _, id := range m.order {
		if a, ok := m.Articles[id]; ok {
			articles = append(articles, copyArticle(a))
		}
	}
	return articles, nil
}

func (m *MockArticleRepository) Exists(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, exists := m.Articles[id]
	return exists, m.Err
}

func (m *MockArticleRepository) UpdateOwned(ctx context.Context, id, creatorID string, patch models.ArticlePatch) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	a := m.Articles[id]
	if a == nil || a.CreatorID != creatorID {
		return nil, nil
	}
	if patch.Title != nil {
		a.Title = *patch.Title
	}
	if patch.Text != nil {
		a.Text = *patch.Text
	}
	if patch.EditedAt != nil {
		edited := *patch.EditedAt
		a.EditedAt = &edited
	}
	return copyArticle(a), nil
}

func (m *MockArticleRepository) DeleteOwned(ctx context.Context, id, creatorID string) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	a := m.Articles[id]
	if a == nil || a.CreatorID != creatorID {
		return nil, nil
	}
	delete(m.Articles, id)
	return a, nil
}

func (m *MockArticleRepository) AddLike(ctx context.Context, id, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	a := m.Articles[id]
	if a == nil || a.HasLike(userID) {
		return false, nil
	}
	a.Likes = append(a.Likes, userID)
	return true, nil
}

func (m *MockArticleRepository) RemoveLike(ctx context.Context, id, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	a := m.Articles[id]
	if a == nil || !a.HasLike(userID) {
		return false, nil
	}
	kept := make([]string, 0, len(a.Likes))
	for _, l := range a.Likes {
		if l != userID {
			kept = append(kept, l)
		}
	}
	a.Likes = kept
	return true, nil
}

func (m *MockArticleRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Articles), m.Err
}

// MockCommentRepository operates on the comments held by a MockArticleRepository
type MockCommentRepository struct {
	store *MockArticleRepository
}

func NewMockCommentRepository(store *MockArticleRepository) *MockCommentRepository {
	return &MockCommentRepository{store: store}
}

func (m *MockCommentRepository) Create(ctx context.Context, articleID string, comment *models.Comment) (bool, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if m.store.Err != nil {
		return false, m.store.Err
	}
	a := m.store.Articles[articleID]
	if a == nil {
		return false, nil
	}
	a.Comments = append(a.Comments, *comment)
	return true, nil
}

func (m *MockCommentRepository) DeleteOwned(ctx context.Context, articleID, commentID, creatorID string) (bool, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if m.store.Err != nil {
		return false, m.store.Err
	}
	a := m.store.Articles[articleID]
	if a == nil {
		return false, nil
	}
	for i, c := range a.Comments {
		if c.ID == commentID && c.CreatorID == creatorID {
			a.Comments = append(a.Comments[:i:i], a.Comments[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *MockCommentRepository) ListByArticle(ctx context.Context, articleID string) ([]models.Comment, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if m.store.Err != nil {
		return nil, m.store.Err
	}
	a := m.store.Articles[articleID]
	if a == nil {
		return []models.Comment{}, nil
	}
	return append([]models.Comment{}, a.Comments...), nil
}

func (m *MockCommentRepository) Count(ctx context.Context) (int, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	n := 0
	for _, a := range m.store.Articles {
		n += len(a.Comments)
	}
	return n, m.store.Err
}

func copyUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	c.Tokens = append([]models.Token(nil), u.Tokens...)
	return &c
}

func copyArticle(a *models.Article) *models.Article {
	if a == nil {
		return nil
	}
	c := *a
	if a.EditedAt != nil {
		edited := *a.EditedAt
		c.EditedAt = &edited
	}
	c.Likes = append([]string{}, a.Likes...)
	c.Comments = append([]models.Comment{}, a.Comments...)
	return &c
}
