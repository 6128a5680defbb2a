// file: model/request.go

package model

// LoginRequest defines the payload for user authentication.
// It includes validation tags to ensure data integrity at the entry point.
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
}

// RefreshRequest defines the payload for exchanging a refresh token for a
// new access token.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// LogoutRequest defines the payload for revoking a refresh token.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}
