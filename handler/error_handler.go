package handler

import (
	"net/http"
	"sn-inventory-api/common"
)

// ErrorHandlingMiddleware lets handlers return a typed *AppError instead of
// writing error responses themselves. The middleware picks the HTTP status;
// handlers only classify.
func ErrorHandlingMiddleware(next func(http.ResponseWriter, *http.Request) *common.AppError) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := next(w, r); err != nil {
			err.Send(w)
		}
	}
}
