package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims is the JWT payload carried by access and refresh tokens.
type TokenClaims struct {
	UserID string   `json:"uid"`
	Role   UserRole `json:"role"`
	Type   string   `json:"typ"`
	jwt.RegisteredClaims
}

// TokenPair bundles the credentials returned on login/refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}
