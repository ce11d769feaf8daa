// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"net/url"

	"multimusic/config"
	deliverycontext "multimusic/internal/delivery/context"
	"multimusic/internal/delivery/http/response"
	"multimusic/internal/usecase"

	"github.com/labstack/echo/v4"
)

// AuthHandler holds dependencies for SSO sign-in handlers.
type AuthHandler struct {
	uc          usecase.IdentityUsecase
	frontendURL string
	logger      *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.IdentityUsecase, cfg *config.Config, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		uc:          uc,
		frontendURL: cfg.Frontend.BaseURL,
		logger:      logger,
	}
}

// loginResponse is the JSON body returned by Login.
type loginResponse struct {
	AuthURL string `json:"authUrl"`
	State   string `json:"state"`
}

// Login starts the SSO flow and returns the provider consent URL.
func (h *AuthHandler) Login(c echo.Context) error {
	out, err := h.uc.BeginLogin(c.Request().Context(), c.Param("provider"))
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, loginResponse{
		AuthURL: out.AuthURL,
		State:   out.State,
	}, "Login URL generated")
}

// Callback finishes the SSO flow. The browser lands here from the provider,
// so outcomes are communicated by redirecting back to the frontend.
func (h *AuthHandler) Callback(c echo.Context) error {
	if providerErr := c.QueryParam("error"); providerErr != "" {
		return h.redirectError(c, providerErr)
	}

	code := c.QueryParam("code")
	state := c.QueryParam("state")
	if code == "" || state == "" {
		return h.redirectError(c, "missing_code_or_state")
	}

	out, err := h.uc.CompleteLogin(c.Request().Context(), usecase.CompleteLoginInput{
		Provider: c.Param("provider"),
		Code:     code,
		State:    state,
	})
	if err != nil {
		h.log(c).Warn("Login callback failed",
			slog.String("provider", c.Param("provider")), slog.Any("error", err))

		return h.redirectError(c, "authentication_failed")
	}

	target := h.frontendURL + "?session=" + url.QueryEscape(out.SessionToken)

	return c.Redirect(http.StatusFound, target)
}

func (h *AuthHandler) redirectError(c echo.Context, reason string) error {
	return c.Redirect(http.StatusFound, h.frontendURL+"?error="+url.QueryEscape(reason))
}

func (h *AuthHandler) log(c echo.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(c.Request().Context(), h.logger)
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
