package books

import (
	"github.com/labstack/echo/v4"
	"github.com/mebookmeta/backend/pkg/uploads"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers book routes on a pre-configured group. The
// uploadLimiter middleware is applied to every file-bearing route.
func RegisterRoutes(g *echo.Group, db *bun.DB, store *uploads.Store, uploadLimiter echo.MiddlewareFunc) {
	bookService := NewService(db, store)

	h := &handler{bookService: bookService}

	g.POST("", h.create, uploadLimiter)
	g.POST("/draft", h.saveDraft, uploadLimiter)
	g.GET("", h.list)
	g.GET("/stats", h.stats)
	g.GET("/slug/:slug", h.retrieveBySlug)
	g.GET("/:id", h.retrieve)
	g.PUT("/:id", h.update, uploadLimiter)
	g.PATCH("/:id/status", h.updateStatus)
	g.DELETE("/:id", h.remove)
}
