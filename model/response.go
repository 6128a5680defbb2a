// file: model/response.go

package model

// LoginResponse is returned on successful authentication: the identity plus
// the freshly issued token pair.
type LoginResponse struct {
	User         Identity `json:"user"`
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
}

// RefreshResponse carries the replacement access token. The refresh token is
// not rotated, so it is deliberately absent here.
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
