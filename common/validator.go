package common

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateAndDecode decodes the request body into payload and runs struct
// validation. On failure it writes the error envelope and returns false.
func ValidateAndDecode(w http.ResponseWriter, r *http.Request, payload interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		NewAppError(http.StatusBadRequest, CodeValidationError, "Invalid request body", err).Send(w)
		return false
	}

	if err := validate.Struct(payload); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		NewAppError(http.StatusBadRequest, CodeValidationError, validationErrors.Error(), nil).Send(w)
		return false
	}

	return true
}
