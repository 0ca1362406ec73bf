package auth

import (
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/mebookmeta/backend/pkg/models"
	"github.com/mebookmeta/backend/pkg/notify"
	"github.com/mebookmeta/backend/pkg/respond"
	"github.com/pkg/errors"
)

type handler struct {
	authService *Service
}

func channelFor(identifier string) string {
	if notify.IsEmail(identifier) {
		return "email"
	}
	return "phone"
}

func (h *handler) register(c echo.Context) error {
	ctx := c.Request().Context()

	// Bind params.
	params := RegisterPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	code, err := h.authService.Register(ctx, params.Identifier)
	if err != nil {
		return errors.WithStack(err)
	}

	msg := fmt.Sprintf("%s OTP sent successfully to your %s", code, channelFor(params.Identifier))

	return errors.WithStack(respond.OK(c, msg, map[string]interface{}{"step": models.StepIssued}))
}

func (h *handler) verifyOTP(c echo.Context) error {
	ctx := c.Request().Context()

	// Bind params.
	params := VerifyOTPPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	if err := h.authService.VerifyOTP(ctx, params.Identifier, params.OTP); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(respond.OK(c, "OTP verified successfully", map[string]interface{}{"step": models.StepVerified}))
}

func (h *handler) completeProfile(c echo.Context) error {
	ctx := c.Request().Context()

	// Bind params.
	params := CompleteProfilePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	session, token, err := h.authService.CompleteProfile(ctx, params.Identifier, params.Name, params.DOB, params.Gender)
	if err != nil {
		return errors.WithStack(err)
	}

	data := map[string]interface{}{
		"user":  session,
		"token": token,
		"step":  models.StepComplete,
	}

	return errors.WithStack(respond.OK(c, "Profile completed successfully", data))
}

func (h *handler) sendLoginOTP(c echo.Context) error {
	ctx := c.Request().Context()

	// Bind params.
	params := LoginPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	code, err := h.authService.SendLoginOTP(ctx, params.Identifier)
	if err != nil {
		return errors.WithStack(err)
	}

	msg := fmt.Sprintf("%s OTP sent successfully to your %s", code, channelFor(params.Identifier))

	return errors.WithStack(respond.OK(c, msg, map[string]interface{}{"step": models.StepIssued}))
}
