// file: token/signer.go

package token

import (
	"errors"
	"fmt"
	"sn-inventory-api/model"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failures are reported as one of three distinguishable kinds so
// callers can decide between retry and reject behavior.
var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
	ErrBadSignature   = errors.New("token signature invalid")
)

// Signer issues and verifies the two token kinds. Access and refresh tokens
// are signed with distinct secrets, so one kind can never be replayed as the
// other.
type Signer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewSigner(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) (*Signer, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New("signer: secrets must not be empty")
	}
	if accessSecret == refreshSecret {
		return nil, errors.New("signer: access and refresh secrets must differ")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("signer: token lifetimes must be positive")
	}
	return &Signer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

func (s *Signer) AccessTTL() time.Duration  { return s.accessTTL }
func (s *Signer) RefreshTTL() time.Duration { return s.refreshTTL }

// IssueAccess creates a short-lived, self-contained access token for the
// given identity.
func (s *Signer) IssueAccess(identity model.Identity) (string, error) {
	return s.issue(identity, s.accessSecret, s.accessTTL)
}

// IssueRefresh creates a long-lived refresh token. Its validity additionally
// depends on presence in the refresh store, which the signer knows nothing
// about.
func (s *Signer) IssueRefresh(identity model.Identity) (string, error) {
	return s.issue(identity, s.refreshSecret, s.refreshTTL)
}

func (s *Signer) issue(identity model.Identity, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &model.AppClaims{
		UserID:   identity.ID,
		Username: identity.Username,
		Role:     identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}
	return tokenString, nil
}

// VerifyAccess checks an access token and returns its decoded claims.
func (s *Signer) VerifyAccess(tokenString string) (*model.AppClaims, error) {
	return s.verify(tokenString, s.accessSecret)
}

// VerifyRefresh checks a refresh token and returns its decoded claims.
func (s *Signer) VerifyRefresh(tokenString string) (*model.AppClaims, error) {
	return s.verify(tokenString, s.refreshSecret)
}

func (s *Signer) verify(tokenString string, secret []byte) (*model.AppClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	claims := &model.AppClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return nil, classifyParseError(err)
	}
	if !token.Valid {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	default:
		// Structural corruption, wrong algorithm, bad claims and anything
		// else the parser rejects collapses to malformed.
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
}
