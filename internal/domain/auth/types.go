package auth

import "time"

// Claims is the verified identity carried by a session token.
type Claims struct {
	UserID    string
	Email     string
	Role      string
	ExpiresAt time.Time
}

// Config controls token verification. Secret enables the HS256 path;
// IssuerURL enables OIDC discovery verification. At least one must be set
// for authenticated routes to work.
type Config struct {
	Secret    string
	IssuerURL string
}
