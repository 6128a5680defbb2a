package model

import "github.com/golang-jwt/jwt/v5"

type AppClaims struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Identity rebuilds the token payload from decoded claims. Callers must use
// this rather than trusting any client-supplied identity.
func (c *AppClaims) Identity() Identity {
	return Identity{
		ID:       c.UserID,
		Username: c.Username,
		Role:     c.Role,
	}
}
