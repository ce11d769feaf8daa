package handler

import (
	"net/http"
	"time"

	deliverycontext "multimusic/internal/delivery/context"
	"multimusic/internal/delivery/http/response"
	domainerrors "multimusic/internal/domain/errors"
	"multimusic/internal/usecase"

	"github.com/labstack/echo/v4"
)

// UserHandler holds dependencies for account-scoped handlers.
type UserHandler struct {
	profileUC  usecase.ProfileUsecase
	identityUC usecase.IdentityUsecase
	platformUC usecase.PlatformUsecase
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(profileUC usecase.ProfileUsecase, identityUC usecase.IdentityUsecase, platformUC usecase.PlatformUsecase) *UserHandler {
	return &UserHandler{
		profileUC:  profileUC,
		identityUC: identityUC,
		platformUC: platformUC,
	}
}

// --- response DTOs ---

type profileResponse struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	DisplayName     string    `json:"displayName"`
	AvatarURL       string    `json:"avatarUrl"`
	PrimaryProvider string    `json:"primaryProvider"`
	CreatedAt       time.Time `json:"createdAt"`
}

type authProviderResponse struct {
	Provider string    `json:"provider"`
	Email    string    `json:"email"`
	Linked   bool      `json:"linked"`
	LinkedAt time.Time `json:"linkedAt"`
}

type platformResponse struct {
	Platform       string    `json:"platform"`
	PlatformUserID string    `json:"platformUserId"`
	Connected      bool      `json:"connected"`
	TokenExpired   bool      `json:"tokenExpired"`
	Scope          string    `json:"scope"`
	ExpiresAt      time.Time `json:"expiresAt"`
	ConnectedAt    time.Time `json:"connectedAt"`
}

type linkProviderRequest struct {
	Code string `json:"code" validate:"required"`
}

func accountID(c echo.Context) (string, bool) {
	id := deliverycontext.GetAccountID(c)

	return id, id != ""
}

// GetProfile returns the signed-in account's profile.
func (h *UserHandler) GetProfile(c echo.Context) error {
	id, ok := accountID(c)
	if !ok {
		return response.Unauthorized(c, domainerrors.ErrInvalidSession.ErrorCode(), domainerrors.ErrInvalidSession.Message())
	}

	account, err := h.profileUC.GetProfile(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, profileResponse{
		ID:              account.ID,
		Email:           account.Email,
		DisplayName:     account.DisplayName,
		AvatarURL:       account.AvatarURL,
		PrimaryProvider: string(account.PrimaryProvider),
		CreatedAt:       account.CreatedAt,
	}, "Profile retrieved")
}

// ListAuthProviders returns the SSO identities linked to the account.
func (h *UserHandler) ListAuthProviders(c echo.Context) error {
	id, ok := accountID(c)
	if !ok {
		return response.Unauthorized(c, domainerrors.ErrInvalidSession.ErrorCode(), domainerrors.ErrInvalidSession.Message())
	}

	infos, err := h.profileUC.ListAuthProviders(c.Request().Context(), id)
	if err != nil {
		return err
	}

	providers := make([]authProviderResponse, 0, len(infos))
	for _, info := range infos {
		providers = append(providers, authProviderResponse{
			Provider: string(info.Provider),
			Email:    info.Email,
			Linked:   true,
			LinkedAt: info.LinkedAt,
		})
	}

	return response.Success(c, http.StatusOK, providers, "Auth providers retrieved")
}

// ListPlatforms returns the platform connections of the account.
func (h *UserHandler) ListPlatforms(c echo.Context) error {
	id, ok := accountID(c)
	if !ok {
		return response.Unauthorized(c, domainerrors.ErrInvalidSession.ErrorCode(), domainerrors.ErrInvalidSession.Message())
	}

	infos, err := h.profileUC.ListPlatforms(c.Request().Context(), id)
	if err != nil {
		return err
	}

	platforms := make([]platformResponse, 0, len(infos))
	for _, info := range infos {
		platforms = append(platforms, platformResponse{
			Platform:       string(info.Platform),
			PlatformUserID: info.PlatformUserID,
			Connected:      info.Connected,
			TokenExpired:   info.TokenExpired,
			Scope:          info.Scope,
			ExpiresAt:      info.ExpiresAt,
			ConnectedAt:    info.ConnectedAt,
		})
	}

	return response.Success(c, http.StatusOK, platforms, "Platforms retrieved")
}

// DisconnectPlatform removes a platform connection. Disconnecting an absent
// platform still succeeds.
func (h *UserHandler) DisconnectPlatform(c echo.Context) error {
	id, ok := accountID(c)
	if !ok {
		return response.Unauthorized(c, domainerrors.ErrInvalidSession.ErrorCode(), domainerrors.ErrInvalidSession.Message())
	}

	if err := h.platformUC.Disconnect(c.Request().Context(), id, c.Param("platform")); err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, map[string]string{"platform": c.Param("platform")}, "Platform disconnected")
}

// LinkProvider attaches an additional SSO identity to the account.
func (h *UserHandler) LinkProvider(c echo.Context) error {
	id, ok := accountID(c)
	if !ok {
		return response.Unauthorized(c, domainerrors.ErrInvalidSession.ErrorCode(), domainerrors.ErrInvalidSession.Message())
	}

	var input linkProviderRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, domainerrors.ErrValidationFailed.ErrorCode(), "Invalid link input")
	}
	if err := c.Validate(&input); err != nil {
		return response.BindingError(c, domainerrors.ErrValidationFailed.ErrorCode(), "Authorization code is required")
	}

	link, err := h.identityUC.LinkProvider(c.Request().Context(), usecase.LinkProviderInput{
		AccountID: id,
		Provider:  c.Param("provider"),
		Code:      input.Code,
	})
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, authProviderResponse{
		Provider: string(link.Provider),
		Email:    link.Email,
		Linked:   true,
		LinkedAt: link.LinkedAt,
	}, "Provider linked")
}

// UnlinkProvider removes an SSO identity link from the account.
func (h *UserHandler) UnlinkProvider(c echo.Context) error {
	id, ok := accountID(c)
	if !ok {
		return response.Unauthorized(c, domainerrors.ErrInvalidSession.ErrorCode(), domainerrors.ErrInvalidSession.Message())
	}

	if err := h.identityUC.UnlinkProvider(c.Request().Context(), id, c.Param("provider")); err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, map[string]string{"provider": c.Param("provider")}, "Provider unlinked")
}
