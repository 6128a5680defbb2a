// file: service/auth_service.go

package service

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"sn-inventory-api/common"
	"sn-inventory-api/logger"
	"sn-inventory-api/model"
	"sn-inventory-api/repository"
	"sn-inventory-api/token"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// AuthService owns the token lifecycle: session issuance on login, access
// token re-issuance on refresh, and revocation on logout. It holds no mutable
// state of its own; everything shared lives in the refresh store.
type AuthService struct {
	userRepo     repository.IUserRepository
	refreshStore repository.IRefreshStore
	signer       *token.Signer
}

func NewAuthService(userRepo repository.IUserRepository, refreshStore repository.IRefreshStore, signer *token.Signer) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		refreshStore: refreshStore,
		signer:       signer,
	}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), err
}

func (s *AuthService) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// invalidCredentials is the single externally visible failure for every
// credential problem. Unknown username, wrong password and disabled account
// must be indistinguishable to the caller to prevent username enumeration;
// the internal cause is carried in the log fields only.
func invalidCredentials(internalCode string, username string) *common.AppError {
	logger.Log.WithFields(logrus.Fields{
		"username":      username,
		"internal_code": internalCode,
	}).Warn("Login rejected")
	return common.NewAppError(http.StatusUnauthorized, common.CodeInvalidCredentials, "invalid username or password", nil)
}

// Login verifies the submitted credentials and issues a fresh token pair.
// The refresh token is registered in the store before the pair is returned,
// so a successful login is always immediately refreshable.
func (s *AuthService) Login(ctx context.Context, username, password, deviceHint string) (*model.LoginResponse, *common.AppError) {
	user, err := s.userRepo.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invalidCredentials(common.CodeUserNotFound, username)
		}
		return nil, common.NewServerError(err)
	}

	if user.Status != model.StatusActive {
		return nil, invalidCredentials(common.CodeInvalidCredentials, username)
	}

	if !s.CheckPasswordHash(password, user.PasswordHash) {
		return nil, invalidCredentials(common.CodeInvalidCredentials, username)
	}

	// The token payload carries only non-secret attributes.
	identity := model.Identity{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
	}

	accessToken, err := s.signer.IssueAccess(identity)
	if err != nil {
		return nil, common.NewServerError(err)
	}

	refreshToken, err := s.signer.IssueRefresh(identity)
	if err != nil {
		return nil, common.NewServerError(err)
	}

	entry := repository.RefreshEntry{IssuedAt: time.Now(), DeviceHint: deviceHint}
	if err := s.refreshStore.Add(ctx, refreshToken, entry, s.signer.RefreshTTL()); err != nil {
		return nil, common.NewServerError(err)
	}

	logger.Log.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
	}).Info("User logged in")

	return &model.LoginResponse{
		User:         identity,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh exchanges a live refresh token for a new access token. The checks
// are strictly ordered: presence, store membership, then cryptographic
// verification. The membership check runs first so a logged-out token is
// rejected uniformly even when it is still structurally valid.
//
// The refresh token itself is not rotated: the same token stays valid until
// its own expiry or an explicit logout. Rotation would shrink the replay
// window but turns refresh into a single-use-then-reissue operation and
// changes the client contract; this implementation deliberately keeps the
// simpler scheme.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*model.RefreshResponse, *common.AppError) {
	if refreshToken == "" {
		return nil, common.NewAppError(http.StatusUnauthorized, common.CodeRefreshTokenMissing, "refresh token is required", nil)
	}

	present, err := s.refreshStore.Contains(ctx, refreshToken)
	if err != nil {
		// Store outage is an infrastructure failure, never "not found".
		return nil, common.NewServerError(err)
	}
	if !present {
		return nil, common.NewAppError(http.StatusUnauthorized, common.CodeRefreshTokenInvalid, "refresh token is invalid or logged out", nil)
	}

	claims, err := s.signer.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, common.NewAppError(http.StatusUnauthorized, common.CodeRefreshTokenExpired, "refresh token is invalid or expired", err)
	}

	// Re-derive the payload from the decoded token; a client-supplied
	// identity is never trusted.
	accessToken, err := s.signer.IssueAccess(claims.Identity())
	if err != nil {
		return nil, common.NewServerError(err)
	}

	logger.Log.WithField("user_id", claims.UserID).Info("Access token refreshed")

	return &model.RefreshResponse{AccessToken: accessToken}, nil
}

// Logout revokes the refresh token. Revoking an already-absent token is not
// an error, so logging out twice is harmless.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) *common.AppError {
	if refreshToken == "" {
		return nil
	}
	if err := s.refreshStore.Remove(ctx, refreshToken); err != nil {
		return common.NewServerError(err)
	}
	logger.Log.Info("Refresh token revoked")
	return nil
}
