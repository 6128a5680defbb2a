// file: model/identity.go

package model

// Identity is the authenticated principal embedded in every issued token.
// It carries only non-secret attributes; the credential hash never leaves
// the users table.
type Identity struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
