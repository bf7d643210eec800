package utils

import (
	"errors"
	"net/http"
	"supervision-service/internal/pkg/constvars"
	"supervision-service/internal/pkg/dto/responses"
	"supervision-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

func BuildSuccessResponse(w http.ResponseWriter, code int, message string, data interface{}) {
	response := responses.ResponseDTO{
		Success: true,
		Message: message,
		Data:    data,
	}
	w.Header().Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(response)
}

// BuildErrorResponse writes err as the error envelope. Client errors are
// logged at warn level and server errors at error level. Dev details are only
// exposed outside production.
func BuildErrorResponse(log *zap.Logger, w http.ResponseWriter, err error) {
	response := exceptions.CustomError{
		StatusCode:    constvars.StatusInternalServerError,
		ClientMessage: constvars.ErrClientSomethingWrongWithApplication,
	}

	var customErr *exceptions.CustomError
	if errors.As(err, &customErr) {
		response.StatusCode = customErr.StatusCode
		response.ClientMessage = customErr.ClientMessage
	}

	fields := []zap.Field{zap.Int(constvars.LoggingStatusCodeKey, response.StatusCode)}
	message := err.Error()
	if customErr != nil {
		message = customErr.DevMessage
		fields = append(fields, zap.Any(constvars.LoggingLocationsKey, customErr.Locations))
	}
	if response.StatusCode >= constvars.StatusInternalServerError {
		log.Error(message, fields...)
	} else {
		log.Warn(message, fields...)
	}

	if customErr != nil && GetEnvString("APP_ENV", "development") != "production" {
		response.DevMessage = customErr.DevMessage
		response.Locations = customErr.Locations
	}

	w.Header().Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	w.WriteHeader(response.StatusCode)
	json.NewEncoder(w).Encode(response)
}
