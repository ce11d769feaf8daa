// Package spotify implements the Spotify platform connection flow.
package spotify

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"multimusic/config"
	"multimusic/internal/domain/entity"
	"multimusic/internal/domain/service"
	"multimusic/internal/errors"
)

const meURL = "https://api.spotify.com/v1/me"

// Endpoint is Spotify's OAuth 2.0 endpoint.
var Endpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.spotify.com/authorize",
	TokenURL: "https://accounts.spotify.com/api/token",
}

var defaultScopes = []string{
	"user-read-email",
	"user-library-read",
	"playlist-read-private",
}

// Client implements service.PlatformClient for Spotify.
type Client struct {
	oauth *oauth2.Config
}

// NewClient builds the Spotify client from the registered OAuth client.
func NewClient(cfg *config.OAuthClientConfig) (*Client, error) {
	if cfg == nil || cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("spotify oauth client is not configured")
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
			Endpoint:     Endpoint,
		},
	}, nil
}

var _ service.PlatformClient = (*Client)(nil)

// Platform reports the platform name.
func (c *Client) Platform() entity.Platform {
	return entity.PlatformSpotify
}

// NewVerifier reports that Spotify does not use PKCE for confidential clients.
func (c *Client) NewVerifier() string {
	return ""
}

// AuthCodeURL builds the Spotify consent URL.
func (c *Client) AuthCodeURL(state, _ string) string {
	return c.oauth.AuthCodeURL(state)
}

// Exchange redeems the authorization code and resolves the Spotify user id.
func (c *Client) Exchange(ctx context.Context, code, _ string) (*service.PlatformTokens, error) {
	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, errors.Wrap(err, "exchange authorization code")
	}

	var profile struct {
		ID string `json:"id"`
	}
	if err := getJSON(ctx, c.oauth.Client(ctx, token), meURL, &profile); err != nil {
		return nil, err
	}
	if profile.ID == "" {
		return nil, errors.New("profile response has no user id")
	}

	return tokensFrom(token, profile.ID), nil
}

// Refresh obtains a fresh access token from the stored refresh token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*service.PlatformTokens, error) {
	token, err := c.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, errors.Wrap(err, "refresh access token")
	}

	return tokensFrom(token, ""), nil
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

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "build request")
	}

	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrap(err, "fetch profile")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("profile request failed with status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode profile response")
	}

	return nil
}
