package handler

import (
	"log/slog"
	"net/http"
	"net/url"

	"multimusic/config"
	deliverycontext "multimusic/internal/delivery/context"
	"multimusic/internal/delivery/http/response"
	domainerrors "multimusic/internal/domain/errors"
	"multimusic/internal/usecase"

	"github.com/labstack/echo/v4"
)

// PlatformHandler holds dependencies for platform connection handlers.
type PlatformHandler struct {
	uc          usecase.PlatformUsecase
	frontendURL string
	logger      *slog.Logger
}

// NewPlatformHandler is the constructor for PlatformHandler, injected by Fx.
func NewPlatformHandler(uc usecase.PlatformUsecase, cfg *config.Config, logger *slog.Logger) *PlatformHandler {
	return &PlatformHandler{
		uc:          uc,
		frontendURL: cfg.Frontend.BaseURL,
		logger:      logger,
	}
}

// connectResponse is the JSON body returned by Connect.
type connectResponse struct {
	AuthURL string `json:"authUrl"`
	State   string `json:"state"`
}

// refreshResponse is the JSON body returned by Refresh.
type refreshResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// Connect starts a platform connection flow for the signed-in account.
func (h *PlatformHandler) Connect(c echo.Context) error {
	accountID := deliverycontext.GetAccountID(c)
	if accountID == "" {
		return response.Unauthorized(c, domainerrors.ErrInvalidSession.ErrorCode(), domainerrors.ErrInvalidSession.Message())
	}

	out, err := h.uc.BeginConnect(c.Request().Context(), accountID, c.Param("platform"))
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, connectResponse{
		AuthURL: out.AuthURL,
		State:   out.State,
	}, "Connect URL generated")
}

// Callback finishes a platform connection flow. The browser lands here from
// the platform, so outcomes redirect back to the frontend dashboard.
func (h *PlatformHandler) Callback(c echo.Context) error {
	platform := c.Param("platform")

	if platformErr := c.QueryParam("error"); platformErr != "" {
		return h.redirectError(c, platformErr)
	}

	code := c.QueryParam("code")
	state := c.QueryParam("state")
	if code == "" || state == "" {
		return h.redirectError(c, "missing_code_or_state")
	}

	_, err := h.uc.CompleteConnect(c.Request().Context(), usecase.CompleteConnectInput{
		Platform: platform,
		Code:     code,
		State:    state,
	})
	if err != nil {
		h.log(c).Warn("Platform callback failed",
			slog.String("platform", platform), slog.Any("error", err))

		return h.redirectError(c, "connection_failed")
	}

	target := h.frontendURL + "/dashboard?" + url.QueryEscape(platform) + "=connected"

	return c.Redirect(http.StatusFound, target)
}

// Refresh exchanges the stored refresh token for a fresh access token.
func (h *PlatformHandler) Refresh(c echo.Context) error {
	accountID := deliverycontext.GetAccountID(c)
	if accountID == "" {
		return response.Unauthorized(c, domainerrors.ErrInvalidSession.ErrorCode(), domainerrors.ErrInvalidSession.Message())
	}

	out, err := h.uc.Refresh(c.Request().Context(), accountID, c.Param("platform"))
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, refreshResponse{
		AccessToken: out.AccessToken,
		ExpiresIn:   out.ExpiresIn,
	}, "Access token refreshed")
}

func (h *PlatformHandler) redirectError(c echo.Context, reason string) error {
	return c.Redirect(http.StatusFound, h.frontendURL+"/dashboard?error="+url.QueryEscape(reason))
}

func (h *PlatformHandler) log(c echo.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(c.Request().Context(), h.logger)
}
