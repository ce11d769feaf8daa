// Package youtube implements the YouTube platform connection flow. YouTube
// rides on Google's OAuth endpoint with YouTube-specific scopes.
package youtube

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	googleOAuth "golang.org/x/oauth2/google"

	"multimusic/config"
	"multimusic/internal/domain/entity"
	"multimusic/internal/domain/service"
	"multimusic/internal/errors"
)

const channelsURL = "https://www.googleapis.com/youtube/v3/channels?part=id&mine=true"

var defaultScopes = []string{
	"https://www.googleapis.com/auth/youtube.readonly",
}

// Client implements service.PlatformClient for YouTube.
type Client struct {
	oauth *oauth2.Config
}

// NewClient builds the YouTube client from the registered OAuth client.
func NewClient(cfg *config.OAuthClientConfig) (*Client, error) {
	if cfg == nil || cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("youtube oauth client is not configured")
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = defaultScopes
	}

	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint:     googleOAuth.Endpoint,
		},
	}, nil
}

var _ service.PlatformClient = (*Client)(nil)

// Platform reports the platform name.
func (c *Client) Platform() entity.Platform {
	return entity.PlatformYouTube
}

// NewVerifier reports that the Google endpoint does not require PKCE here.
func (c *Client) NewVerifier() string {
	return ""
}

// AuthCodeURL builds the Google consent URL for the YouTube scopes. Offline
// access with forced consent makes Google return a refresh token on every
// authorization.
func (c *Client) AuthCodeURL(state, _ string) string {
	return c.oauth.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// Exchange redeems the authorization code and resolves the channel id owned
// by the authorizing account.
func (c *Client) Exchange(ctx context.Context, code, _ string) (*service.PlatformTokens, error) {
	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, errors.Wrap(err, "exchange authorization code")
	}

	channelID, err := c.fetchChannelID(ctx, token)
	if err != nil {
		return nil, err
	}

	return tokensFrom(token, channelID), nil
}

// Refresh obtains a fresh access token from the stored refresh token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*service.PlatformTokens, error) {
	token, err := c.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, errors.Wrap(err, "refresh access token")
	}

	return tokensFrom(token, ""), nil
}

func (c *Client) fetchChannelID(ctx context.Context, token *oauth2.Token) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, channelsURL, nil)
	if err != nil {
		return "", errors.Wrap(err, "build channels request")
	}

	resp, err := c.oauth.Client(ctx, token).Do(req)
	if err != nil {
		return "", errors.Wrap(err, "fetch channels")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("channels request failed with status %d", resp.StatusCode)
	}

	var channels struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&channels); err != nil {
		return "", errors.Wrap(err, "decode channels response")
	}
	if len(channels.Items) == 0 || channels.Items[0].ID == "" {
		return "", errors.New("authorizing account owns no channel")
	}

	return channels.Items[0].ID, nil
}

func tokensFrom(token *oauth2.Token, platformUserID string) *service.PlatformTokens {
	var expiresIn int64
	if !token.Expiry.IsZero() {
		expiresIn = int64(time.Until(token.Expiry).Seconds())
	}

	scope, _ := token.Extra("scope").(string)

	return &service.PlatformTokens{
		AccessToken:    token.AccessToken,
		RefreshToken:   token.RefreshToken,
		Scope:          scope,
		ExpiresIn:      expiresIn,
		PlatformUserID: platformUserID,
	}
}
