package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"impactplanner/apperrors"
	"impactplanner/models"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

func init() {
	Validate = validator.New()
}

// DecodeAndValidate decodes the request body into a structure and validates it
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		HandleMessageResponse(w, err.Error(), http.StatusBadRequest)
		return err
	}
	if err := Validate.Struct(v); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)

		for _, e := range validationErrors {
			errorMessages[e.Field()] = e.Tag()
		}
		HandleValidationResponse(w, http.StatusBadRequest, errorMessages)
		return err
	}
	return nil
}

// HandleServiceError maps a core error to its status code: validation
// failures are 400, missing entities 404, store outages 503, anything
// else 500.
func HandleServiceError(w http.ResponseWriter, err error) {
	var validation *apperrors.ValidationError
	if errors.As(err, &validation) {
		HandleMessageResponse(w, validation.Message, http.StatusBadRequest)
		return
	}
	var notFound *apperrors.NotFoundError
	if errors.As(err, &notFound) {
		HandleMessageResponse(w, notFound.Error(), http.StatusNotFound)
		return
	}
	var unavailable *apperrors.StoreUnavailableError
	if errors.As(err, &unavailable) {
		HandleMessageResponse(w, unavailable.Error(), http.StatusServiceUnavailable)
		return
	}
	HandleMessageResponse(w, err.Error(), http.StatusInternalServerError)
}

// HandleMessageResponse handles both success and error responses
func HandleMessageResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	response := models.NewMessageResponse(statusCode, message)
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

// HandleValidationResponse handles validation errors response for struct validation
func HandleValidationResponse(w http.ResponseWriter, statusCode int, validationErrors interface{}) {
	w.Header().Set("Content-Type", "application/json")
	response := models.NewValidationResponse(statusCode, validationErrors)
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

// HandleDataResponse handles success responses with data
func HandleDataResponse(w http.ResponseWriter, message string, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	response := models.NewDataResponse(statusCode, message, data)
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}
