// Package soundcloud implements the SoundCloud platform connection flow.
// SoundCloud mandates PKCE on top of the authorization-code grant.
package soundcloud

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"multimusic/config"
	"multimusic/internal/domain/entity"
	"multimusic/internal/domain/service"
	"multimusic/internal/errors"
)

const meURL = "https://api.soundcloud.com/me"

// Endpoint is SoundCloud's OAuth 2.1 endpoint.
var Endpoint = oauth2.Endpoint{
	AuthURL:  "https://secure.soundcloud.com/authorize",
	TokenURL: "https://secure.soundcloud.com/oauth/token",
}

// Client implements service.PlatformClient for SoundCloud.
type Client struct {
	oauth *oauth2.Config
}

// NewClient builds the SoundCloud client from the registered OAuth client.
func NewClient(cfg *config.OAuthClientConfig) (*Client, error) {
	if cfg == nil || cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("soundcloud oauth client is not configured")
	}

	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     Endpoint,
		},
	}, nil
}

var _ service.PlatformClient = (*Client)(nil)

// Platform reports the platform name.
func (c *Client) Platform() entity.Platform {
	return entity.PlatformSoundCloud
}

// NewVerifier mints a fresh PKCE code verifier. The caller keeps it
// server-side until Exchange.
func (c *Client) NewVerifier() string {
	return oauth2.GenerateVerifier()
}

// AuthCodeURL builds the consent URL carrying the S256 challenge derived
// from the verifier.
func (c *Client) AuthCodeURL(state, verifier string) string {
	return c.oauth.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
}

// Exchange redeems the authorization code, proving possession of the PKCE
// verifier, and resolves the SoundCloud user id.
func (c *Client) Exchange(ctx context.Context, code, verifier string) (*service.PlatformTokens, error) {
	token, err := c.oauth.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, errors.Wrap(err, "exchange authorization code")
	}

	var profile struct {
		ID int64 `json:"id"`
	}
	if err := c.getJSON(ctx, token, meURL, &profile); err != nil {
		return nil, err
	}
	if profile.ID == 0 {
		return nil, errors.New("profile response has no user id")
	}

	return tokensFrom(token, strconv.FormatInt(profile.ID, 10)), nil
}

// Refresh obtains a fresh access token from the stored refresh token.
// SoundCloud rotates refresh tokens, so the caller must persist the returned
// one when present.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*service.PlatformTokens, error) {
	token, err := c.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, errors.Wrap(err, "refresh access token")
	}

	return tokensFrom(token, ""), nil
}

func (c *Client) getJSON(ctx context.Context, token *oauth2.Token, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "build request")
	}

	resp, err := c.oauth.Client(ctx, token).Do(req)
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
