package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/blog-api/internal/api"
	"github.com/blog-api/internal/config"
	"github.com/blog-api/internal/mocks"
	"github.com/blog-api/internal/models"
	"github.com/blog-api/internal/repository"
	"github.com/blog-api/internal/service"
)

const absentID = "00000000-0000-0000-0000-000000000000"

type fakeHealth struct{ err error }

func (f fakeHealth) HealthCheck(ctx context.Context) error { return f.err }

type testEnv struct {
	router   *gin.Engine
	services *service.Services
	repos    *repository.Repositories
}

func setupTestRouter(t *testing.T, health api.HealthChecker) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server: config.ServerConfig{Port: "3000"},
		Auth:   config.AuthConfig{JWTSecret: "test-secret", BcryptCost: bcrypt.MinCost},
	}

	repos := mocks.NewRepositories()
	services := service.NewServices(repos, cfg, zerolog.Nop(), nil)

	return &testEnv{
		router:   api.NewRouter(services, cfg, zerolog.Nop(), health),
		services: services,
		repos:    repos,
	}
}

func (e *testEnv) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			json.NewEncoder(&buf).Encode(body)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(api.AuthHeader, token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// register signs up name with password name+"123" and returns the user and its token
func (e *testEnv) register(t *testing.T, name string) (*models.User, string) {
	t.Helper()
	user, token, err := e.services.User.Register(context.Background(), models.RegisterInput{Name: name, Password: name + "123"})
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return user, token
}

// seed creates the two fixture articles, the first by Mike and the second by Steve
func (e *testEnv) seed(t *testing.T) (mike, steve *models.User, mikeToken, steveToken string, articles []*models.Article) {
	t.Helper()
	mike, mikeToken = e.register(t, "Mike")
	steve, steveToken = e.register(t, "Steve")

	ctx := context.Background()
	first, err := e.services.Article.Create(ctx, mike, models.ArticleInput{
		Title: "Graphene silicon of the future?", Text: "Will it be?", CreatedAt: "1372018",
	})
	if err != nil {
		t.Fatalf("seed article: %v", err)
	}
	second, err := e.services.Article.Create(ctx, steve, models.ArticleInput{
		Title: "Is fusion finaly here ?", Text: "Or not.", CreatedAt: "1572018",
	})
	if err != nil {
		t.Fatalf("seed article: %v", err)
	}
	return mike, steve, mikeToken, steveToken, []*models.Article{first, second}
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func (e *testEnv) article(t *testing.T, id string) *models.Article {
	t.Helper()
	a, err := e.repos.Article.GetByID(context.Background(), id)
	if err != nil || a == nil {
		t.Fatalf("article %s missing: %v", id, err)
	}
	return a
}

func TestHealthEndpoint(t *testing.T) {
	env := setupTestRouter(t, fakeHealth{})

	w := env.do("GET", "/health", nil, "")
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	decode(t, w, &response)
	if response["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", response["status"])
	}
	if response["service"] != "blog-api" {
		t.Errorf("Expected service name, got %v", response["service"])
	}
}

func TestHealthEndpoint_Degraded(t *testing.T) {
	env := setupTestRouter(t, fakeHealth{err: errors.New("connection refused")})

	w := env.do("GET", "/health", nil, "")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := setupTestRouter(t, nil)
	env.seed(t)

	w := env.do("GET", "/metrics", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response struct {
		Database models.Counts `json:"database"`
	}
	decode(t, w, &response)
	if response.Database.Users != 2 || response.Database.Articles != 2 {
		t.Errorf("Unexpected counts: %+v", response.Database)
	}
}

func TestCORSPreflight(t *testing.T) {
	env := setupTestRouter(t, nil)

	w := env.do("OPTIONS", "/article", nil, "")
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Expose-Headers"); got != api.AuthHeader {
		t.Errorf("Expected x-auth to be exposed, got %q", got)
	}
}

func TestRegister(t *testing.T) {
	env := setupTestRouter(t, nil)

	w := env.do("POST", "/user", models.RegisterInput{Name: "Mike", Password: "mike123"}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if w.Header().Get(api.AuthHeader) == "" {
		t.Error("Expected x-auth header")
	}

	var body map[string]interface{}
	decode(t, w, &body)
	if body["name"] != "Mike" || body["id"] == "" {
		t.Errorf("Unexpected body: %v", body)
	}
	if _, leaked := body["passwordHash"]; leaked {
		t.Error("Password hash must not be serialized")
	}

	stored, _ := env.repos.User.GetByName(context.Background(), "Mike")
	if stored == nil {
		t.Fatal("User should be stored")
	}
	if stored.PasswordHash == "mike123" {
		t.Error("Stored password must be hashed")
	}
}

func TestRegister_Rejected(t *testing.T) {
	env := setupTestRouter(t, nil)
	env.register(t, "Mike")

	tests := []struct {
		name string
		body interface{}
	}{
		{"short name", models.RegisterInput{Name: "Mi", Password: "mike123"}},
		{"short password", models.RegisterInput{Name: "Steve", Password: "123"}},
		{"duplicate name", models.RegisterInput{Name: "Mike", Password: "other123"}},
		{"malformed json", `{"name": "Mike"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do("POST", "/user", tt.body, "")
			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", w.Code)
			}
			if w.Header().Get(api.AuthHeader) != "" {
				t.Error("No token should be issued")
			}
		})
	}
}

func TestLogin(t *testing.T) {
	env := setupTestRouter(t, nil)
	env.register(t, "Mike")

	w := env.do("POST", "/user/login", models.LoginInput{Name: "Mike", Password: "Mike123"}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if w.Header().Get(api.AuthHeader) == "" {
		t.Error("Expected x-auth header")
	}

	w = env.do("POST", "/user/login", models.LoginInput{Name: "Mike", Password: "wrong-one"}, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for wrong password, got %d", w.Code)
	}

	w = env.do("POST", "/user/login", models.LoginInput{Name: "Nobody", Password: "Mike123"}, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for unknown name, got %d", w.Code)
	}
}

func TestLogout(t *testing.T) {
	env := setupTestRouter(t, nil)
	_, first := env.register(t, "Mike")
	_, second, err := env.services.User.Login(context.Background(), models.LoginInput{Name: "Mike", Password: "Mike123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	w := env.do("DELETE", "/user/logout", nil, first)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	w = env.do("DELETE", "/user/logout", nil, first)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Reused token: expected 401, got %d", w.Code)
	}

	w = env.do("POST", "/article", models.ArticleInput{Title: "Still here", Text: "yes"}, second)
	if w.Code != http.StatusOK {
		t.Errorf("Other token should survive logout, got %d", w.Code)
	}
}

func TestListAndGetArticles(t *testing.T) {
	env := setupTestRouter(t, nil)
	_, _, _, _, seeded := env.seed(t)

	w := env.do("GET", "/articles", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var list []models.Article
	decode(t, w, &list)
	if len(list) != 2 {
		t.Fatalf("Expected 2 articles, got %d", len(list))
	}
	if list[0].ID != seeded[1].ID {
		t.Errorf("Expected newest article first, got %s", list[0].Title)
	}

	w = env.do("GET", "/article/"+seeded[0].ID, nil, "")
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	w = env.do("GET", "/article/123abc", nil, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Bad id: expected 400, got %d", w.Code)
	}

	w = env.do("GET", "/article/"+absentID, nil, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("Absent id: expected 404, got %d", w.Code)
	}
}

func TestCreateArticle(t *testing.T) {
	env := setupTestRouter(t, nil)
	mike, token := env.register(t, "Mike")

	w := env.do("POST", "/article", models.ArticleInput{Title: "A title", Text: "Body"}, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("No token: expected 401, got %d", w.Code)
	}

	w = env.do("POST", "/article", models.ArticleInput{Title: "A title", Text: "Body"}, "garbage")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Bad token: expected 401, got %d", w.Code)
	}

	w = env.do("POST", "/article", models.ArticleInput{Title: "ab", Text: "Body"}, token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Short title: expected 400, got %d", w.Code)
	}

	w = env.do("POST", "/article", models.ArticleInput{Title: "A title", Text: "Body"}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var created models.Article
	decode(t, w, &created)
	if created.CreatorID != mike.ID || created.CreatorName != "Mike" {
		t.Errorf("Creator must be the caller, got %s/%s", created.CreatorID, created.CreatorName)
	}
	if created.CreatedAt == "" {
		t.Error("createdAt should be stamped")
	}
}

func TestUpdateArticle_OwnershipGated(t *testing.T) {
	env := setupTestRouter(t, nil)
	_, _, mikeToken, steveToken, seeded := env.seed(t)
	target := seeded[0]

	w := env.do("PATCH", "/article/"+target.ID, map[string]string{"title": "Hijacked"}, steveToken)
	if w.Code != http.StatusNotFound {
		t.Errorf("Foreign update: expected 404, got %d", w.Code)
	}
	if got := env.article(t, target.ID); got.Title != target.Title || got.EditedAt != nil {
		t.Errorf("Article must be unchanged, got %+v", got)
	}

	w = env.do("PATCH", "/article/"+target.ID, map[string]string{}, mikeToken)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Empty patch: expected 400, got %d", w.Code)
	}

	w = env.do("PATCH", "/article/nope", map[string]string{"title": "New title"}, mikeToken)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Bad id: expected 400, got %d", w.Code)
	}

	w = env.do("PATCH", "/article/"+target.ID, map[string]string{"title": "New title", "editedAt": "1672018"}, mikeToken)
	if w.Code != http.StatusOK {
		t.Fatalf("Owner update: expected 200, got %d", w.Code)
	}
	var updated models.Article
	decode(t, w, &updated)
	if updated.Title != "New title" || updated.Text != target.Text {
		t.Errorf("Unexpected update result: %+v", updated)
	}
	if updated.EditedAt == nil || *updated.EditedAt != "1672018" {
		t.Errorf("editedAt should be recorded, got %v", updated.EditedAt)
	}
}

func TestDeleteArticle_OwnershipGated(t *testing.T) {
	env := setupTestRouter(t, nil)
	_, _, mikeToken, steveToken, seeded := env.seed(t)
	target := seeded[0]

	w := env.do("DELETE", "/article/"+target.ID, nil, steveToken)
	if w.Code != http.StatusNotFound {
		t.Errorf("Foreign delete: expected 404, got %d", w.Code)
	}
	env.article(t, target.ID)

	w = env.do("DELETE", "/article/"+target.ID, nil, mikeToken)
	if w.Code != http.StatusOK {
		t.Fatalf("Owner delete: expected 200, got %d", w.Code)
	}
	var removed models.Article
	decode(t, w, &removed)
	if removed.ID != target.ID {
		t.Errorf("Expected removed article in body, got %s", removed.ID)
	}

	w = env.do("GET", "/article/"+target.ID, nil, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("Deleted article: expected 404, got %d", w.Code)
	}
}

func TestLikes(t *testing.T) {
	env := setupTestRouter(t, nil)
	_, steve, mikeToken, steveToken, seeded := env.seed(t)
	target := seeded[0]
	path := "/article/" + target.ID + "/like"

	if w := env.do("POST", path, nil, steveToken); w.Code != http.StatusOK {
		t.Fatalf("First like: expected 200, got %d", w.Code)
	}
	if w := env.do("POST", path, nil, steveToken); w.Code != http.StatusBadRequest {
		t.Errorf("Second like: expected 400, got %d", w.Code)
	}
	if got := env.article(t, target.ID); len(got.Likes) != 1 || got.Likes[0] != steve.ID {
		t.Errorf("Expected exactly one like by Steve, got %v", got.Likes)
	}

	// Mike has not liked the article
	if w := env.do("DELETE", path, nil, mikeToken); w.Code != http.StatusNotFound {
		t.Errorf("Foreign unlike: expected 404, got %d", w.Code)
	}
	if got := env.article(t, target.ID); len(got.Likes) != 1 {
		t.Errorf("Likes must be unchanged, got %v", got.Likes)
	}

	if w := env.do("DELETE", path, nil, steveToken); w.Code != http.StatusOK {
		t.Errorf("Unlike: expected 200, got %d", w.Code)
	}
	if w := env.do("POST", "/article/"+absentID+"/like", nil, steveToken); w.Code != http.StatusNotFound {
		t.Errorf("Absent article: expected 404, got %d", w.Code)
	}
	if w := env.do("POST", path, nil, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("No token: expected 401, got %d", w.Code)
	}
}

func TestComments(t *testing.T) {
	env := setupTestRouter(t, nil)
	_, steve, mikeToken, steveToken, seeded := env.seed(t)
	target := seeded[0]
	base := "/article/" + target.ID + "/comment"

	w := env.do("POST", base, models.CommentInput{Text: "Great read"}, steveToken)
	if w.Code != http.StatusOK {
		t.Fatalf("Add comment: expected 200, got %d", w.Code)
	}
	var comment models.Comment
	decode(t, w, &comment)
	if comment.CreatorID != steve.ID || comment.Text != "Great read" {
		t.Errorf("Unexpected comment: %+v", comment)
	}

	if w := env.do("POST", base, models.CommentInput{Text: "  "}, steveToken); w.Code != http.StatusBadRequest {
		t.Errorf("Empty comment: expected 400, got %d", w.Code)
	}
	if w := env.do("POST", "/article/"+absentID+"/comment", models.CommentInput{Text: "hi"}, steveToken); w.Code != http.StatusNotFound {
		t.Errorf("Absent article: expected 404, got %d", w.Code)
	}

	// the article author cannot remove Steve's comment
	if w := env.do("DELETE", base+"/"+comment.ID, nil, mikeToken); w.Code != http.StatusNotFound {
		t.Errorf("Foreign comment delete: expected 404, got %d", w.Code)
	}
	if w := env.do("DELETE", base+"/"+absentID, nil, steveToken); w.Code != http.StatusNotFound {
		t.Errorf("Absent comment delete: expected 404, got %d", w.Code)
	}
	if got := env.article(t, target.ID); len(got.Comments) != 1 {
		t.Errorf("Comments must be unchanged, got %d", len(got.Comments))
	}

	if w := env.do("DELETE", base+"/"+comment.ID, nil, steveToken); w.Code != http.StatusOK {
		t.Errorf("Own comment delete: expected 200, got %d", w.Code)
	}
	if got := env.article(t, target.ID); len(got.Comments) != 0 {
		t.Errorf("Expected no comments, got %d", len(got.Comments))
	}
}

func TestStoreFailureIs500(t *testing.T) {
	env := setupTestRouter(t, nil)
	env.repos.Article.(*mocks.MockArticleRepository).Err = errors.New("connection reset")

	w := env.do("GET", "/articles", nil, "")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
}
