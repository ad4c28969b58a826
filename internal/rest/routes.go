package rest

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/swaggo/swag"
)

const (
	apiV1Prefix = "/api/v1"

	healthPath  = "/health"
	metricsPath = "/metrics"
	swaggerPath = "/swagger/doc.json"
)

// RegisterRoutes registers all routes for the handler. Admin article routes
// need a mutator, admin image routes need both an image store and a token
// verifier.
func (h *ArticleHandler) RegisterRoutes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(h.loggingMiddleware)

	e.GET(healthPath, h.Health)
	e.GET(swaggerPath, h.swaggerDoc)
	if h.metrics != nil {
		e.GET(metricsPath, echo.WrapHandler(h.metrics))
	}

	api := e.Group(apiV1Prefix)
	api.GET("/articles", h.Articles)
	api.GET("/articles/featured", h.FeaturedArticle)
	api.GET("/articles/:id", h.ArticleByID)
	api.GET("/categories", h.Categories)
	api.GET("/categories/:category/articles", h.ArticlesByCategory)

	admin := api.Group("/admin")
	if h.mutator != nil {
		admin.POST("/articles", h.CreateArticle)
		admin.PUT("/articles/:id", h.UpdateArticle)
		admin.DELETE("/articles/:id", h.DeleteArticle)
	}
	if h.images != nil && h.verifier != nil {
		admin.POST("/images", h.UploadImage)
		admin.DELETE("/images/:key", h.DeleteImage)
	}

	return e
}

func (h *ArticleHandler) swaggerDoc(c echo.Context) error {
	doc, err := swag.ReadDoc()
	if err != nil {
		return h.handleError(c, err, http.StatusNotFound, "swagger doc is not registered")
	}

	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, []byte(doc))
}

func (h *ArticleHandler) loggingMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		if err := next(c); err != nil {
			c.Error(err)
		}

		req := c.Request()
		h.log.Info("HTTP request",
			"method", req.Method,
			"path", req.URL.Path,
			"status", c.Response().Status,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote_addr", c.RealIP(),
		)

		return nil
	}
}
