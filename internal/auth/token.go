package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const defaultIssuer = "portal-api"

// Typed verification failures. The gateway rejects all of them identically,
// but callers (and tests) can branch on the kind.
var (
	ErrTokenMalformed = errors.New("auth: token malformed")
	ErrTokenSignature = errors.New("auth: token signature invalid")
	ErrTokenExpired   = errors.New("auth: token expired")
)

// Identity is the verified subject attached to one authenticated request.
type Identity struct {
	ID     string   `json:"id"`
	Email  string   `json:"email"`
	Name   string   `json:"name"`
	Groups []string `json:"groups"`
	Roles  []string `json:"roles"`
}

// Claims is the session token payload.
type Claims struct {
	Email  string   `json:"email"`
	Name   string   `json:"name,omitempty"`
	Groups []string `json:"groups,omitempty"`
	Roles  []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// Identity converts verified claims to the request identity.
func (c *Claims) Identity() Identity {
	return Identity{
		ID:     c.Subject,
		Email:  c.Email,
		Name:   c.Name,
		Groups: c.Groups,
		Roles:  c.Roles,
	}
}

// Codec issues and verifies HS256 session tokens. The signing secret and
// lifetime are fixed at construction; there is no rotation or refresh.
type Codec struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewCodec builds a codec. It fails when the secret is absent so a
// misconfigured gateway refuses to start instead of minting unverifiable
// tokens.
func NewCodec(secret string, ttl time.Duration) (*Codec, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("auth: signing secret is not configured")
	}
	if ttl <= 0 {
		return nil, errors.New("auth: token ttl must be greater than zero")
	}
	return &Codec{secret: []byte(secret), issuer: defaultIssuer, ttl: ttl}, nil
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Issue signs a session token for the identity.
func (c *Codec) Issue(id Identity) (string, time.Time, error) {
	subject := strings.TrimSpace(id.ID)
	if subject == "" {
		return "", time.Time{}, errors.New("auth: subject is required")
	}

	now := time.Now().UTC()
	expiresAt := now.Add(c.ttl)
	claims := Claims{
		Email:  strings.TrimSpace(id.Email),
		Name:   strings.TrimSpace(id.Name),
		Groups: trimGroups(id.Groups),
		Roles:  NormalizeRoles(id.Roles),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks the signature and claims of a session token. Failures are one
// of ErrTokenMalformed, ErrTokenSignature or ErrTokenExpired; no partial
// claims are ever returned.
func (c *Codec) Verify(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrTokenMalformed
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrTokenSignature
		}
		return c.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, ErrTokenSignature):
			return nil, ErrTokenSignature
		default:
			return nil, ErrTokenMalformed
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenMalformed
	}
	if err := c.validateClaims(claims); err != nil {
		return nil, err
	}
	claims.Roles = NormalizeRoles(claims.Roles)
	claims.Groups = trimGroups(claims.Groups)
	return claims, nil
}

func (c *Codec) validateClaims(claims *Claims) error {
	if claims.Issuer != c.issuer {
		return ErrTokenMalformed
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return ErrTokenMalformed
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return ErrTokenMalformed
	}
	now := time.Now().UTC()
	if now.After(claims.ExpiresAt.Time) {
		return ErrTokenExpired
	}
	// Allow a small clock skew of 5 seconds when validating issued-at.
	if claims.IssuedAt.Time.After(now.Add(5 * time.Second)) {
		return ErrTokenMalformed
	}
	if claims.ExpiresAt.Time.Before(claims.IssuedAt.Time) {
		return ErrTokenMalformed
	}
	return nil
}

// NormalizeRoles lower-cases, trims and deduplicates a role list.
func NormalizeRoles(roles []string) []string {
	if len(roles) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(roles))
	var normalized []string
	for _, role := range roles {
		role = strings.TrimSpace(strings.ToLower(role))
		if role == "" {
			continue
		}
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		normalized = append(normalized, role)
	}
	return normalized
}

// trimGroups drops blank entries but preserves case and order; group names
// are matched verbatim against the catalog.
func trimGroups(groups []string) []string {
	if len(groups) == 0 {
		return nil
	}
	var out []string
	for _, g := range groups {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		out = append(out, g)
	}
	return out
}

// HasRole reports whether the identity carries the role.
func (id Identity) HasRole(role string) bool {
	role = strings.TrimSpace(strings.ToLower(role))
	if role == "" {
		return false
	}
	for _, r := range NormalizeRoles(id.Roles) {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the identity's role set intersects the given set.
func (id Identity) HasAnyRole(roles ...string) bool {
	for _, role := range roles {
		if id.HasRole(role) {
			return true
		}
	}
	return false
}
