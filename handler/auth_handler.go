// file: handler/auth_handler.go

package handler

import (
	"encoding/json"
	"net/http"
	"sn-inventory-api/common"
	"sn-inventory-api/model"
	"sn-inventory-api/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login godoc
// @Summary      Authenticate a user
// @Description  Verifies credentials and returns the identity with a fresh access/refresh token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      model.LoginRequest  true  "Login credentials"
// @Success      200  {object}  model.LoginResponse
// @Failure      401  {object}  common.AppError
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	result, appErr := h.authService.Login(r.Context(), req.Username, req.Password, r.UserAgent())
	if appErr != nil {
		return appErr
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	json.NewEncoder(w).Encode(result)
	return nil
}

// Refresh godoc
// @Summary      Exchange a refresh token for a new access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token  body      model.RefreshRequest  true  "Refresh token"
// @Success      200  {object}  model.RefreshResponse
// @Failure      401  {object}  common.AppError
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return common.NewAppError(http.StatusUnauthorized, common.CodeRefreshTokenMissing, "refresh token is required", err)
	}

	result, appErr := h.authService.Refresh(r.Context(), req.RefreshToken)
	if appErr != nil {
		return appErr
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	json.NewEncoder(w).Encode(result)
	return nil
}

// Logout godoc
// @Summary      Revoke a refresh token
// @Description  Idempotent; logging out an already-revoked token succeeds
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token  body      model.LogoutRequest  true  "Refresh token"
// @Success      200  {object}  model.MessageResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LogoutRequest
	// A missing or malformed body is treated as an already-logged-out
	// session; logout stays idempotent either way.
	_ = json.NewDecoder(r.Body).Decode(&req)

	if appErr := h.authService.Logout(r.Context(), req.RefreshToken); appErr != nil {
		return appErr
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	json.NewEncoder(w).Encode(model.MessageResponse{Message: "logged out"})
	return nil
}
