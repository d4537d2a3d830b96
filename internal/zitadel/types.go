package zitadel

// Human holds the profile fields of a human user.
type Human struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
}

// User is an identity-provider account.
type User struct {
	ID                 string   `json:"id"`
	State              string   `json:"state"`
	UserName           string   `json:"userName"`
	LoginNames         []string `json:"loginNames"`
	PreferredLoginName string   `json:"preferredLoginName"`
	Human              *Human   `json:"human,omitempty"`
}

// TokenSet is the result of an authorization-code exchange.
type TokenSet struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Profile is the OIDC userinfo response.
type Profile struct {
	Subject string   `json:"sub"`
	Email   string   `json:"email"`
	Name    string   `json:"name"`
	Groups  []string `json:"groups"`
	Roles   []string `json:"roles"`
}

// Introspection is the token-introspection result.
type Introspection struct {
	Active   bool   `json:"active"`
	Subject  string `json:"sub,omitempty"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	Expiry   int64  `json:"exp,omitempty"`
}
