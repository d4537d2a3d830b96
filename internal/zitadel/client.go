// Package zitadel adapts the identity provider's management and OIDC APIs.
// Management calls authenticate with a service PAT; the OAuth endpoints use
// the configured client credentials or a caller-supplied access token.
package zitadel

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/infra-neo/portal-api/internal/upstream"
)

const serviceName = "zitadel"

// ErrUserNotFound is returned when a search yields no user.
var ErrUserNotFound = errors.New("zitadel: user not found")

// Client talks to one Zitadel instance.
type Client struct {
	api          *upstream.Client
	clientID     string
	clientSecret string
}

// New builds a client. domain is the instance base URL, apiToken the
// management PAT.
func New(domain, apiToken, clientID, clientSecret string) *Client {
	return &Client{
		api:          upstream.NewClient(serviceName, domain, apiToken),
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

type searchRequest struct {
	Queries []searchQuery `json:"queries,omitempty"`
}

type searchQuery struct {
	EmailQuery *emailQuery `json:"emailQuery,omitempty"`
}

type emailQuery struct {
	EmailAddress string `json:"emailAddress"`
}

type searchResponse struct {
	Result []User `json:"result"`
}

// ListUsers returns every user visible to the management token.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var resp searchResponse
	if err := c.api.DoJSON(ctx, http.MethodPost, "/management/v1/users/_search", searchRequest{}, &resp); err != nil {
		return nil, err
	}
	if resp.Result == nil {
		return []User{}, nil
	}
	return resp.Result, nil
}

// GetUser returns one user by id.
func (c *Client) GetUser(ctx context.Context, id string) (User, error) {
	var resp struct {
		User User `json:"user"`
	}
	if err := c.api.DoJSON(ctx, http.MethodGet, "/management/v1/users/"+url.PathEscape(id), nil, &resp); err != nil {
		return User{}, err
	}
	return resp.User, nil
}

// GetUserByEmail looks a user up by email address.
func (c *Client) GetUserByEmail(ctx context.Context, email string) (User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return User{}, errors.New("zitadel: email is required")
	}
	req := searchRequest{Queries: []searchQuery{{EmailQuery: &emailQuery{EmailAddress: email}}}}
	var resp searchResponse
	if err := c.api.DoJSON(ctx, http.MethodPost, "/management/v1/users/_search", req, &resp); err != nil {
		return User{}, err
	}
	if len(resp.Result) == 0 {
		return User{}, ErrUserNotFound
	}
	return resp.Result[0], nil
}

// GetUserGroups returns the ids of the groups a user belongs to.
func (c *Client) GetUserGroups(ctx context.Context, id string) ([]string, error) {
	var resp struct {
		Result []struct {
			GroupID string `json:"groupId"`
		} `json:"result"`
	}
	if err := c.api.DoJSON(ctx, http.MethodGet, "/management/v1/users/"+url.PathEscape(id)+"/memberships", nil, &resp); err != nil {
		return nil, err
	}
	groups := make([]string, 0, len(resp.Result))
	for _, m := range resp.Result {
		if m.GroupID != "" {
			groups = append(groups, m.GroupID)
		}
	}
	return groups, nil
}

// ExchangeCode trades an authorization code for tokens.
func (c *Client) ExchangeCode(ctx context.Context, code, redirectURI string) (TokenSet, error) {
	if strings.TrimSpace(code) == "" {
		return TokenSet{}, errors.New("zitadel: authorization code is required")
	}
	form := url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {redirectURI},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
	}
	var tokens TokenSet
	// The token endpoint authenticates via the form body, not a bearer.
	if err := c.api.DoForm(ctx, "/oauth/v2/token", form, "", &tokens); err != nil {
		return TokenSet{}, err
	}
	return tokens, nil
}

// UserInfo fetches the OIDC profile for an access token.
func (c *Client) UserInfo(ctx context.Context, accessToken string) (Profile, error) {
	if strings.TrimSpace(accessToken) == "" {
		return Profile{}, errors.New("zitadel: access token is required")
	}
	var profile Profile
	if err := c.api.Get(ctx, "/oidc/v1/userinfo", accessToken, &profile); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

// Introspect asks the provider whether a token is active.
func (c *Client) Introspect(ctx context.Context, token string) (Introspection, error) {
	form := url.Values{
		"token":         {token},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
	}
	var result Introspection
	if err := c.api.DoForm(ctx, "/oauth/v2/introspect", form, "", &result); err != nil {
		return Introspection{}, err
	}
	return result, nil
}
