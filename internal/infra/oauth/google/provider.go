// Package google implements sign-in with Google through the standard
// authorization-code flow.
package google

import (
	"context"
	"encoding/json"
	"net/http"

	"golang.org/x/oauth2"
	googleOAuth "golang.org/x/oauth2/google"

	"multimusic/config"
	"multimusic/internal/domain/entity"
	"multimusic/internal/domain/service"
	"multimusic/internal/errors"
)

const userinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

var defaultScopes = []string{"openid", "email", "profile"}

// Provider implements service.SSOProvider for Google.
type Provider struct {
	oauth *oauth2.Config
}

// NewProvider builds the Google provider from the registered OAuth client.
func NewProvider(cfg *config.OAuthClientConfig) (*Provider, error) {
	if cfg == nil || cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("google oauth client is not configured")
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = defaultScopes
	}

	return &Provider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint:     googleOAuth.Endpoint,
		},
	}, nil
}

var _ service.SSOProvider = (*Provider)(nil)

// Provider reports the provider name.
func (p *Provider) Provider() entity.Provider {
	return entity.ProviderGoogle
}

// AuthCodeURL builds the Google consent URL. Offline access with forced
// consent makes Google return a refresh token on every authorization.
func (p *Provider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// Exchange redeems the authorization code and fetches the verified profile.
func (p *Provider) Exchange(ctx context.Context, code string) (*service.SSOIdentity, error) {
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, errors.Wrap(err, "exchange authorization code")
	}

	var info struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := fetchUserinfo(ctx, p.oauth.Client(ctx, token), &info); err != nil {
		return nil, err
	}
	if info.ID == "" {
		return nil, errors.New("userinfo response has no subject id")
	}

	return &service.SSOIdentity{
		SubjectID: info.ID,
		Email:     info.Email,
		Name:      info.Name,
		AvatarURL: info.Picture,
	}, nil
}

func fetchUserinfo(ctx context.Context, client *http.Client, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userinfoURL, nil)
	if err != nil {
		return errors.Wrap(err, "build userinfo request")
	}

	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrap(err, "fetch userinfo")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("userinfo request failed with status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode userinfo response")
	}

	return nil
}
