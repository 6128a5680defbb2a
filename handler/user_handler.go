package handler

import (
	"encoding/json"
	"net/http"
	"sn-inventory-api/common"
	"sn-inventory-api/repository"
)

type UserHandler struct {
	Repo repository.IUserRepository
}

func NewUserHandler(repo repository.IUserRepository) *UserHandler {
	return &UserHandler{Repo: repo}
}

// ListUsers godoc
// @Summary      List all users
// @Description  Admin-only listing of every account
// @Tags         users
// @Produce      json
// @Success      200  {array}   model.User
// @Failure      403  {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) *common.AppError {
	users, err := h.Repo.GetAllUsers()
	if err != nil {
		return common.NewServerError(err)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	json.NewEncoder(w).Encode(users)
	return nil
}
