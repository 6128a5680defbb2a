// file: handler/server_handler.go

package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"sn-inventory-api/common"
	"sn-inventory-api/service"
)

type ServerHandler struct {
	serverService *service.ServerService
}

func NewServerHandler(serverService *service.ServerService) *ServerHandler {
	return &ServerHandler{serverService: serverService}
}

// Search godoc
// @Summary      Search serial numbers
// @Description  Returns up to 20 serial numbers matching the keyword
// @Tags         inventory
// @Produce      json
// @Param        keyword  query     string  true  "Serial number fragment"
// @Success      200  {array}   string
// @Security     BearerAuth
// @Router       /api/sn/search [get]
func (h *ServerHandler) Search(w http.ResponseWriter, r *http.Request) *common.AppError {
	keyword := r.URL.Query().Get("keyword")
	if keyword == "" {
		return common.NewAppError(http.StatusBadRequest, common.CodeValidationError, "keyword query parameter is required", nil)
	}

	sns, err := h.serverService.SearchSN(keyword)
	if err != nil {
		return common.NewServerError(err)
	}
	if sns == nil {
		sns = []string{}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	json.NewEncoder(w).Encode(sns)
	return nil
}

// Detail godoc
// @Summary      Get inventory record by serial number
// @Tags         inventory
// @Produce      json
// @Param        sn   path      string  true  "Serial number"
// @Success      200  {object}  model.Server
// @Failure      404  {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/sn/{sn} [get]
func (h *ServerHandler) Detail(w http.ResponseWriter, r *http.Request) *common.AppError {
	sn := r.PathValue("sn")

	server, err := h.serverService.GetBySN(sn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.NewAppError(http.StatusNotFound, common.CodeNotFound, "server not found", nil)
		}
		return common.NewServerError(err)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	json.NewEncoder(w).Encode(server)
	return nil
}
