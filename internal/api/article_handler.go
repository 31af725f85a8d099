package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/blog-api/internal/models"
	"github.com/blog-api/internal/service"
)

// ArticleHandler handles article, comment and like endpoints
type ArticleHandler struct {
	articles service.ArticleService
	log      zerolog.Logger
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(services *service.Services, log zerolog.Logger) *ArticleHandler {
	return &ArticleHandler{
		articles: services.Article,
		log:      log.With().Str("handler", "article").Logger(),
	}
}

// Create handles POST /article
func (h *ArticleHandler) Create(c *gin.Context) {
	var in models.ArticleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c)
		return
	}

	article, err := h.articles.Create(c.Request.Context(), callerFrom(c), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// List handles GET /articles, newest first
func (h *ArticleHandler) List(c *gin.Context) {
	articles, err := h.articles.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	sortNewestFirst(articles)
	c.JSON(http.StatusOK, articles)
}

// Get handles GET /article/:id
func (h *ArticleHandler) Get(c *gin.Context) {
	article, err := h.articles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// Update handles PATCH /article/:id
func (h *ArticleHandler) Update(c *gin.Context) {
	var patch models.ArticlePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badBody(c)
		return
	}

	article, err := h.articles.Update(c.Request.Context(), callerFrom(c), c.Param("id"), patch)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// Delete handles DELETE /article/:id
func (h *ArticleHandler) Delete(c *gin.Context) {
	article, err := h.articles.Delete(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// AddComment handles POST /article/:id/comment
func (h *ArticleHandler) AddComment(c *gin.Context) {
	var in models.CommentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c)
		return
	}

	comment, err := h.articles.AddComment(c.Request.Context(), callerFrom(c), c.Param("id"), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// DeleteComment handles DELETE /article/:id/comment/:cid
func (h *ArticleHandler) DeleteComment(c *gin.Context) {
	err := h.articles.DeleteComment(c.Request.Context(), callerFrom(c), c.Param("id"), c.Param("cid"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusOK)
}

// AddLike handles POST /article/:id/like
func (h *ArticleHandler) AddLike(c *gin.Context) {
	if err := h.articles.AddLike(c.Request.Context(), callerFrom(c), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusOK)
}

// RemoveLike handles DELETE /article/:id/like
func (h *ArticleHandler) RemoveLike(c *gin.Context) {
	if err := h.articles.RemoveLike(c.Request.Context(), callerFrom(c), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusOK)
}
