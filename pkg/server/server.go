package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mebookmeta/backend/pkg/auth"
	"github.com/mebookmeta/backend/pkg/binder"
	"github.com/mebookmeta/backend/pkg/books"
	"github.com/mebookmeta/backend/pkg/config"
	"github.com/mebookmeta/backend/pkg/errcodes"
	"github.com/mebookmeta/backend/pkg/health"
	"github.com/mebookmeta/backend/pkg/notify"
	"github.com/mebookmeta/backend/pkg/uploads"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"
	"golang.org/x/time/rate"
)

func New(cfg *config.Config, db *bun.DB, store *uploads.Store) (*http.Server, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
	}))

	e.GET("/", root)
	e.Static("/uploads", cfg.UploadDir)

	sender := notify.NewLogSender()

	// File-bearing routes get their own rate limit on top of whatever sits
	// in front of the service.
	uploadLimiter := middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.UploadRateLimit)))

	api := e.Group("/api")
	health.RegisterRoutes(api.Group("/health"), cfg.Environment)
	auth.RegisterRoutes(api.Group("/auth"), db, sender, cfg.JWTSecret)
	books.RegisterRoutes(api.Group("/books"), db, store, uploadLimiter)

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func root(c echo.Context) error {
	return errors.WithStack(c.JSON(http.StatusOK, map[string]string{"message": "MeBookMeta Backend is running!"}))
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
