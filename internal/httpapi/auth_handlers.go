package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/infra-neo/portal-api/internal/auth"
)

type callbackRequest struct {
	Code        string `json:"code"`
	RedirectURI string `json:"redirect_uri"`
}

type sessionResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	User      auth.Identity `json:"user"`
}

// handleAuthCallback exchanges an OAuth authorization code for an internal
// session token: code -> provider tokens -> userinfo -> signed session token.
func (a *API) handleAuthCallback(w http.ResponseWriter, r *http.Request) {
	var req callbackRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		writeError(w, r, http.StatusBadRequest, "authorization code required")
		return
	}
	redirectURI := strings.TrimSpace(req.RedirectURI)
	if redirectURI == "" {
		redirectURI = a.cfg.RedirectURI()
	}

	tokens, err := a.idp.ExchangeCode(r.Context(), req.Code, redirectURI)
	if err != nil {
		a.handleUpstreamError(w, r, err)
		return
	}

	profile, err := a.idp.UserInfo(r.Context(), tokens.AccessToken)
	if err != nil {
		a.handleUpstreamError(w, r, err)
		return
	}

	identity := auth.Identity{
		ID:     profile.Subject,
		Email:  profile.Email,
		Name:   profile.Name,
		Groups: profile.Groups,
		Roles:  profile.Roles,
	}
	token, expiresAt, err := a.codec.Issue(identity)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "token generation failed")
		return
	}

	_ = a.audit.Event(r.Context(), "auth.login", map[string]any{
		"user_id":    identity.ID,
		"email":      identity.Email,
		"expires_at": expiresAt.Format(time.RFC3339),
	})

	writeJSON(w, http.StatusOK, sessionResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      identity,
	})
}

type validateRequest struct {
	Token string `json:"token"`
}

type validateResponse struct {
	Valid bool           `json:"valid"`
	User  *auth.Identity `json:"user,omitempty"`
}

// handleAuthValidate reports whether a session token is still valid. An
// invalid token is a negative answer, not an error.
func (a *API) handleAuthValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Token) == "" {
		writeError(w, r, http.StatusBadRequest, "token required")
		return
	}

	claims, err := a.codec.Verify(req.Token)
	if err != nil {
		writeJSON(w, http.StatusOK, validateResponse{Valid: false})
		return
	}

	identity := claims.Identity()
	writeJSON(w, http.StatusOK, validateResponse{Valid: true, User: &identity})
}

type authConfigResponse struct {
	ZitadelDomain string   `json:"zitadelDomain"`
	ClientID      string   `json:"clientId"`
	RedirectURI   string   `json:"redirectUri"`
	Scopes        []string `json:"scopes"`
}

// handleAuthConfig exposes the OIDC settings the dashboard needs to start a
// login. The client secret never leaves the gateway.
func (a *API) handleAuthConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, authConfigResponse{
		ZitadelDomain: a.cfg.ZitadelDomain,
		ClientID:      a.cfg.ZitadelClientID,
		RedirectURI:   a.cfg.RedirectURI(),
		Scopes:        []string{"openid", "profile", "email", "groups"},
	})
}
