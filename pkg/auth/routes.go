package auth

import (
	"github.com/labstack/echo/v4"
	"github.com/mebookmeta/backend/pkg/notify"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers the OTP flow on a pre-configured group.
func RegisterRoutes(g *echo.Group, db *bun.DB, sender notify.Sender, jwtSecret string) {
	authService := NewService(db, sender, jwtSecret)

	h := &handler{authService: authService}

	g.POST("/register", h.register)
	g.POST("/verify-otp", h.verifyOTP)
	g.POST("/complete-profile", h.completeProfile)
	g.POST("/login", h.sendLoginOTP)
}
