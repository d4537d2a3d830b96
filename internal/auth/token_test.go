package auth

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	codec, err := NewCodec("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return codec
}

func TestNewCodecRequiresSecret(t *testing.T) {
	if _, err := NewCodec("   ", time.Hour); err == nil {
		t.Fatal("expected error for blank secret")
	}
	if _, err := NewCodec("secret", 0); err == nil {
		t.Fatal("expected error for zero ttl")
	}
}

func TestIssueAndVerify(t *testing.T) {
	codec := newTestCodec(t)

	token, expiresAt, err := codec.Issue(Identity{
		ID:     "user-42",
		Email:  "jane@example.com",
		Name:   "Jane",
		Groups: []string{"developers", " monitoring "},
		Roles:  []string{"Admin", "user", "admin"},
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("expected future expiration, got %v", expiresAt)
	}

	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "user-42" {
		t.Fatalf("unexpected subject: %s", claims.Subject)
	}
	if claims.Email != "jane@example.com" {
		t.Fatalf("unexpected email: %s", claims.Email)
	}
	if !slices.Equal(claims.Roles, []string{"admin", "user"}) {
		t.Fatalf("roles not normalized: %v", claims.Roles)
	}
	if !slices.Equal(claims.Groups, []string{"developers", "monitoring"}) {
		t.Fatalf("groups not preserved in order: %v", claims.Groups)
	}

	id := claims.Identity()
	if !id.HasRole("admin") || !id.HasRole("ADMIN") {
		t.Fatalf("HasRole missing admin: %v", id.Roles)
	}
	if id.HasRole("operator") {
		t.Fatal("unexpected role found")
	}
	if !id.HasAnyRole("operator", "user") {
		t.Fatal("HasAnyRole missed intersection")
	}
}

func TestIssueRequiresSubject(t *testing.T) {
	codec := newTestCodec(t)
	if _, _, err := codec.Issue(Identity{Email: "x@example.com"}); err == nil {
		t.Fatal("expected error for missing subject")
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	codec := newTestCodec(t)

	now := time.Now().UTC()
	claims := Claims{
		Email: "old@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    defaultIssuer,
			Subject:   "user-7",
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = codec.Verify(signed)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	codec := newTestCodec(t)
	other, err := NewCodec("another-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	token, _, err := other.Issue(Identity{ID: "user-1"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := codec.Verify(token); !errors.Is(err, ErrTokenSignature) {
		t.Fatalf("expected ErrTokenSignature, got %v", err)
	}
}

func TestVerifyMalformedToken(t *testing.T) {
	codec := newTestCodec(t)
	for _, token := range []string{"", "   ", "not-a-jwt", "a.b.c"} {
		if _, err := codec.Verify(token); !errors.Is(err, ErrTokenMalformed) {
			t.Fatalf("token %q: expected ErrTokenMalformed, got %v", token, err)
		}
	}
}

func TestVerifyRejectsForeignIssuer(t *testing.T) {
	codec := newTestCodec(t)

	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			Subject:   "user-7",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := codec.Verify(signed); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	id := Identity{ID: "user-7", Email: "seven@example.com", Roles: []string{"admin"}}
	ctx = ContextWithIdentity(ctx, id)
	ctx = ContextWithToken(ctx, "raw-token")

	got, ok := IdentityFromContext(ctx)
	if !ok || got.ID != "user-7" || got.Email != "seven@example.com" {
		t.Fatalf("unexpected identity: %+v ok=%v", got, ok)
	}
	token, ok := TokenFromContext(ctx)
	if !ok || token != "raw-token" {
		t.Fatalf("unexpected token: %q ok=%v", token, ok)
	}

	if _, ok := IdentityFromContext(context.Background()); ok {
		t.Fatal("expected no identity in empty context")
	}
	if _, ok := TokenFromContext(context.Background()); ok {
		t.Fatal("expected no token in empty context")
	}
}
