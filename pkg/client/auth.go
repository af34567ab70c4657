package client

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/blockpilot/rpckit/pkg/types"
)

// AuthType represents the authentication method for an endpoint
type AuthType string

const (
	AuthTypeNone        AuthType = "none"
	AuthTypeAPIKey      AuthType = "api_key"
	AuthTypeBearerToken AuthType = "bearer_token"
	AuthTypeOAuth       AuthType = "oauth"
)

// defaultAPIKeyHeader is used when an api_key auth config names no header.
const defaultAPIKeyHeader = "X-API-Key"

// AuthConfig describes how requests to an endpoint are authenticated.
// Managed RPC gateways commonly use API key headers or bearer tokens;
// OAuth client credentials cover gateways fronted by an identity provider.
type AuthConfig struct {
	Type AuthType `yaml:"type" json:"type"`

	// API key auth
	APIKey    string `yaml:"api_key,omitempty" json:"api_key,omitempty"`
	KeyHeader string `yaml:"key_header,omitempty" json:"key_header,omitempty"`

	// Static bearer token auth
	BearerToken string `yaml:"bearer_token,omitempty" json:"bearer_token,omitempty"`

	// OAuth2 client credentials auth
	TokenURL     string   `yaml:"token_url,omitempty" json:"token_url,omitempty"`
	ClientID     string   `yaml:"client_id,omitempty" json:"client_id,omitempty"`
	ClientSecret string   `yaml:"client_secret,omitempty" json:"client_secret,omitempty"`
	Scopes       []string `yaml:"scopes,omitempty" json:"scopes,omitempty"`
}

// authenticator applies credentials to outgoing requests
type authenticator struct {
	config      AuthConfig
	tokenSource oauth2.TokenSource
}

// newAuthenticator validates the auth config and sets up a token source
// for token-based auth types. Token refresh is handled by the source.
func newAuthenticator(ctx context.Context, config AuthConfig) (*authenticator, error) {
	a := &authenticator{config: config}

	switch config.Type {
	case "", AuthTypeNone:
		// Nothing to set up.

	case AuthTypeAPIKey:
		if config.APIKey == "" {
			return nil, fmt.Errorf("api_key auth requires an api key")
		}

	case AuthTypeBearerToken:
		if config.BearerToken == "" {
			return nil, fmt.Errorf("bearer_token auth requires a token")
		}
		a.tokenSource = oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: config.BearerToken,
			TokenType:   "Bearer",
		})

	case AuthTypeOAuth:
		if config.TokenURL == "" || config.ClientID == "" {
			return nil, fmt.Errorf("oauth auth requires token_url and client_id")
		}
		cc := &clientcredentials.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			TokenURL:     config.TokenURL,
			Scopes:       config.Scopes,
		}
		a.tokenSource = cc.TokenSource(ctx)

	default:
		return nil, fmt.Errorf("unsupported auth type: %s", config.Type)
	}

	return a, nil
}

// apply sets the authentication headers on req.
func (a *authenticator) apply(req *http.Request, endpoint string) error {
	switch a.config.Type {
	case "", AuthTypeNone:
		return nil

	case AuthTypeAPIKey:
		header := a.config.KeyHeader
		if header == "" {
			header = defaultAPIKeyHeader
		}
		req.Header.Set(header, a.config.APIKey)
		return nil

	default:
		token, err := a.tokenSource.Token()
		if err != nil {
			return types.NewClientError(endpoint, types.ErrCodeAuthentication,
				fmt.Sprintf("fetching auth token for %s failed: %v", endpoint, err)).WithOriginalErr(err)
		}
		token.SetAuthHeader(req)
		return nil
	}
}
