package rest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	platformerrors "github.com/jmgilman/go/errors"
	"github.com/labstack/echo/v4"

	"github.com/daniilsolovey/havaasa/internal/newsportal"
	"github.com/daniilsolovey/havaasa/internal/storage"
)

const staleHeader = "X-Data-Stale"

// ImageStore stores article images.
type ImageStore interface {
	Upload(ctx context.Context, originalName, contentType string, size int64, r io.Reader) (*storage.Upload, error)
	Delete(ctx context.Context, key string) error
}

// TokenVerifier checks a bearer token with the auth service.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) error
}

type HandlerOption func(*ArticleHandler)

// WithMutator enables the admin article endpoints.
func WithMutator(m newsportal.Mutator) HandlerOption {
	return func(h *ArticleHandler) {
		h.mutator = m
	}
}

// WithImages enables the admin image endpoints. They write to storage
// directly, so they are only mounted together with WithTokenVerifier.
func WithImages(s ImageStore) HandlerOption {
	return func(h *ArticleHandler) {
		h.images = s
	}
}

func WithTokenVerifier(v TokenVerifier) HandlerOption {
	return func(h *ArticleHandler) {
		h.verifier = v
	}
}

func WithMetricsHandler(handler http.Handler) HandlerOption {
	return func(h *ArticleHandler) {
		h.metrics = handler
	}
}

type ArticleHandler struct {
	cache   *newsportal.Cache
	mutator  newsportal.Mutator
	images   ImageStore
	verifier TokenVerifier
	metrics  http.Handler
	log      *slog.Logger
}

func NewArticleHandler(cache *newsportal.Cache, log *slog.Logger, opts ...HandlerOption) *ArticleHandler {
	h := &ArticleHandler{
		cache: cache,
		log:   log,
	}
	for _, opt := range opts {
		opt(h)
	}

	return h
}

func (h *ArticleHandler) handleError(c echo.Context, err error, statusCode int, message string) error {
	h.log.Error("handleError", "error", err, "statusCode", statusCode, "message", message)
	return c.JSON(statusCode, Error{Error: message})
}

// handleDomainError maps a classified error to its HTTP status.
func (h *ArticleHandler) handleDomainError(c echo.Context, err error) error {
	statusCode, message := statusOf(err)
	return h.handleError(c, err, statusCode, message)
}

// Articles handles GET /api/v1/articles
// @Summary Get all articles
// @Description Returns the cached article collection in backend order. When a refresh fails and an older snapshot exists, the snapshot is returned with the X-Data-Stale header.
// @Tags articles
// @Produce json
// @Success 200 {array} rest.Article
// @Failure 502,503,504 {object} rest.Error
// @Router /api/v1/articles [get]
func (h *ArticleHandler) Articles(c echo.Context) error {
	articles, err := h.cache.Articles(c.Request().Context())
	if err != nil {
		return h.staleOrError(c, err)
	}

	return c.JSON(http.StatusOK, NewArticles(articles))
}

// FeaturedArticle handles GET /api/v1/articles/featured
// @Summary Get the featured article
// @Description Returns the most recently created article
// @Tags articles
// @Produce json
// @Success 200 {object} rest.Article
// @Failure 404,502,503,504 {object} rest.Error
// @Router /api/v1/articles/featured [get]
func (h *ArticleHandler) FeaturedArticle(c echo.Context) error {
	featured, err := h.cache.FeaturedArticle(c.Request().Context())
	if err != nil {
		return h.handleDomainError(c, err)
	}
	if featured == nil {
		return c.JSON(http.StatusNotFound, Error{Error: "no articles"})
	}

	return c.JSON(http.StatusOK, NewArticle(*featured))
}

// ArticleByID handles GET /api/v1/articles/:id
// @Summary Get article by ID
// @Description Returns a single article, served from the cache when possible
// @Tags articles
// @Produce json
// @Param id path string true "Article ID"
// @Success 200 {object} rest.Article
// @Failure 400,404,502,503,504 {object} rest.Error
// @Router /api/v1/articles/{id} [get]
func (h *ArticleHandler) ArticleByID(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return h.handleError(c, nil, http.StatusBadRequest, "invalid id")
	}

	article, err := h.cache.ArticleByID(c.Request().Context(), id)
	if err != nil {
		return h.handleDomainError(c, err)
	}
	if article == nil {
		return c.JSON(http.StatusNotFound, Error{Error: "article not found"})
	}

	return c.JSON(http.StatusOK, NewArticle(*article))
}

// Categories handles GET /api/v1/categories
// @Summary Get all categories
// @Description Returns the site taxonomy in canonical order
// @Tags categories
// @Produce json
// @Success 200 {array} rest.Category
// @Router /api/v1/categories [get]
func (h *ArticleHandler) Categories(c echo.Context) error {
	return c.JSON(http.StatusOK, Map(newsportal.Categories(), NewCategory))
}

// ArticlesByCategory handles GET /api/v1/categories/:category/articles
// @Summary Get articles by category
// @Description Filters the cached collection by category label. "all" returns everything, "unclassified" returns articles with an unknown category id.
// @Tags categories
// @Produce json
// @Param category path string true "Category label"
// @Success 200 {array} rest.Article
// @Failure 400,502,503,504 {object} rest.Error
// @Router /api/v1/categories/{category}/articles [get]
func (h *ArticleHandler) ArticlesByCategory(c echo.Context) error {
	category, err := newsportal.ParseCategory(c.Param("category"))
	if err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "unknown category")
	}

	articles, err := h.cache.ArticlesByCategory(c.Request().Context(), category)
	if err != nil {
		return h.handleDomainError(c, err)
	}

	return c.JSON(http.StatusOK, NewArticles(articles))
}

// CreateArticle handles POST /api/v1/admin/articles
// @Summary Create article
// @Description Forwards the bearer token to the backend and invalidates the cache on success
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param article body rest.ArticleRequest true "Article"
// @Success 201 {object} rest.Article
// @Failure 400,401,403,502,503 {object} rest.Error
// @Router /api/v1/admin/articles [post]
func (h *ArticleHandler) CreateArticle(c echo.Context) error {
	token, in, reqErr := mutationInput(c)
	if reqErr != nil {
		return h.handleError(c, reqErr.err, reqErr.status, reqErr.message)
	}

	article, err := h.mutator.CreateArticle(c.Request().Context(), token, in)
	if err != nil {
		return h.handleDomainError(c, err)
	}
	h.cache.Invalidate()

	return c.JSON(http.StatusCreated, NewArticle(*article))
}

// UpdateArticle handles PUT /api/v1/admin/articles/:id
// @Summary Update article
// @Description Forwards the bearer token to the backend and invalidates the cache on success
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Article ID"
// @Param article body rest.ArticleRequest true "Article"
// @Success 200 {object} rest.Article
// @Failure 400,401,403,404,502,503 {object} rest.Error
// @Router /api/v1/admin/articles/{id} [put]
func (h *ArticleHandler) UpdateArticle(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return h.handleError(c, nil, http.StatusBadRequest, "invalid id")
	}

	token, in, reqErr := mutationInput(c)
	if reqErr != nil {
		return h.handleError(c, reqErr.err, reqErr.status, reqErr.message)
	}

	article, err := h.mutator.UpdateArticle(c.Request().Context(), token, id, in)
	if err != nil {
		return h.handleDomainError(c, err)
	}
	h.cache.Invalidate()

	return c.JSON(http.StatusOK, NewArticle(*article))
}

// DeleteArticle handles DELETE /api/v1/admin/articles/:id
// @Summary Delete article
// @Description Forwards the bearer token to the backend and invalidates the cache on success
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Article ID"
// @Success 204
// @Failure 400,401,403,404,502,503 {object} rest.Error
// @Router /api/v1/admin/articles/{id} [delete]
func (h *ArticleHandler) DeleteArticle(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return h.handleError(c, nil, http.StatusBadRequest, "invalid id")
	}

	token, ok := bearerToken(c.Request())
	if !ok {
		return h.handleError(c, nil, http.StatusUnauthorized, "missing bearer token")
	}

	if err := h.mutator.DeleteArticle(c.Request().Context(), token, id); err != nil {
		return h.handleDomainError(c, err)
	}
	h.cache.Invalidate()

	return c.NoContent(http.StatusNoContent)
}

// UploadImage handles POST /api/v1/admin/images
// @Summary Upload article image
// @Description Stores a JPEG, PNG, GIF or WebP image of at most 5MB and returns a presigned URL usable as image_url
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Image"
// @Success 201 {object} rest.Image
// @Failure 400,401,403,503 {object} rest.Error
// @Router /api/v1/admin/images [post]
func (h *ArticleHandler) UploadImage(c echo.Context) error {
	if rerr := h.authorize(c); rerr != nil {
		return h.handleError(c, rerr.err, rerr.status, rerr.message)
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "image file is required")
	}

	file, err := fh.Open()
	if err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid image file")
	}
	defer file.Close()

	upload, err := h.images.Upload(c.Request().Context(), fh.Filename, fh.Header.Get(echo.HeaderContentType), fh.Size, file)
	if err != nil {
		return h.handleDomainError(c, err)
	}

	return c.JSON(http.StatusCreated, NewImage(*upload))
}

// DeleteImage handles DELETE /api/v1/admin/images/{key}
// @Summary Delete article image
// @Tags admin
// @Security BearerAuth
// @Param key path string true "Object key"
// @Success 204
// @Failure 400,401,503 {object} rest.Error
// @Router /api/v1/admin/images/{key} [delete]
func (h *ArticleHandler) DeleteImage(c echo.Context) error {
	if rerr := h.authorize(c); rerr != nil {
		return h.handleError(c, rerr.err, rerr.status, rerr.message)
	}

	key := strings.TrimSpace(c.Param("key"))
	if key == "" {
		return h.handleError(c, nil, http.StatusBadRequest, "invalid key")
	}

	if err := h.images.Delete(c.Request().Context(), key); err != nil {
		return h.handleDomainError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// Health handles GET /health
// @Summary Health check
// @Description Reports the size and age of the cached snapshot
// @Tags health
// @Produce json
// @Success 200 {object} rest.Health
// @Router /health [get]
func (h *ArticleHandler) Health(c echo.Context) error {
	articles, fetchedAt := h.cache.Snapshot()
	health := Health{
		Status:   "ok",
		Articles: len(articles),
	}
	if !fetchedAt.IsZero() {
		health.FetchedAt = fetchedAt.UTC().Format(time.RFC3339)
	}

	return c.JSON(http.StatusOK, health)
}

// staleOrError serves the last good snapshot when a refresh fails.
func (h *ArticleHandler) staleOrError(c echo.Context, err error) error {
	if errors.Is(err, context.Canceled) {
		return h.handleDomainError(c, err)
	}

	articles, fetchedAt := h.cache.Snapshot()
	if fetchedAt.IsZero() {
		return h.handleDomainError(c, err)
	}

	h.log.Warn("serving stale articles", "error", err, "fetchedAt", fetchedAt, "count", len(articles))
	c.Response().Header().Set(staleHeader, "true")

	return c.JSON(http.StatusOK, NewArticles(articles))
}

type requestError struct {
	status  int
	message string
	err     error
}

// mutationInput extracts the bearer token and the validated payload.
func mutationInput(c echo.Context) (string, newsportal.ArticleInput, *requestError) {
	token, ok := bearerToken(c.Request())
	if !ok {
		return "", newsportal.ArticleInput{}, &requestError{status: http.StatusUnauthorized, message: "missing bearer token"}
	}

	var req ArticleRequest
	if err := c.Bind(&req); err != nil {
		return "", newsportal.ArticleInput{}, &requestError{status: http.StatusBadRequest, message: "invalid request body", err: err}
	}

	in, err := req.ToModel()
	if err != nil {
		return "", newsportal.ArticleInput{}, &requestError{status: http.StatusBadRequest, message: err.Error(), err: err}
	}

	return token, in, nil
}

// authorize verifies the caller's token for routes that do not go through
// the backend. Rejected tokens are 401; an unreachable auth service keeps its
// own status.
func (h *ArticleHandler) authorize(c echo.Context) *requestError {
	token, ok := bearerToken(c.Request())
	if !ok {
		return &requestError{status: http.StatusUnauthorized, message: "missing bearer token"}
	}

	err := h.verifier.Verify(c.Request().Context(), token)
	switch code := platformerrors.GetCode(err); {
	case err == nil:
		return nil
	case code == platformerrors.CodeUnauthorized || code == platformerrors.CodeForbidden:
		return &requestError{status: http.StatusUnauthorized, message: "invalid or expired token", err: err}
	default:
		status, message := statusOf(err)
		return &requestError{status: status, message: message, err: err}
	}
}

func bearerToken(r *http.Request) (string, bool) {
	const prefix = "bearer "
	header := strings.TrimSpace(r.Header.Get(echo.HeaderAuthorization))
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])

	return token, token != ""
}

func statusOf(err error) (int, string) {
	if errors.Is(err, context.Canceled) {
		return 499, "request canceled"
	}

	switch platformerrors.GetCode(err) {
	case platformerrors.CodeInvalidInput:
		return http.StatusBadRequest, "invalid request"
	case platformerrors.CodeUnauthorized:
		return http.StatusUnauthorized, "unauthorized"
	case platformerrors.CodeForbidden:
		return http.StatusForbidden, "forbidden"
	case platformerrors.CodeNotFound:
		return http.StatusNotFound, "not found"
	case platformerrors.CodeConflict:
		return http.StatusConflict, "conflict"
	case platformerrors.CodeTimeout:
		return http.StatusGatewayTimeout, "upstream timeout"
	case platformerrors.CodeSchemaFailed:
		return http.StatusBadGateway, "unexpected upstream response"
	case platformerrors.CodeNetwork, platformerrors.CodeUnavailable, platformerrors.CodeRateLimit, platformerrors.CodeDatabase:
		return http.StatusServiceUnavailable, "articles are temporarily unavailable"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
