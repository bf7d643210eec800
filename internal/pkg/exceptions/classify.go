package exceptions

import (
	"errors"
	"supervision-service/internal/pkg/constvars"
)

// StatusCode returns the HTTP status carried by err, 500 for plain errors.
func StatusCode(err error) int {
	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr.StatusCode
	}
	return constvars.StatusInternalServerError
}

// IsValidation reports caller mistakes that must be corrected before retrying.
func IsValidation(err error) bool {
	if err == nil {
		return false
	}
	code := StatusCode(err)
	return code >= 400 && code < 500 && code != constvars.StatusNotFound && code != constvars.StatusTooManyRequests
}

func IsNotFound(err error) bool {
	return err != nil && StatusCode(err) == constvars.StatusNotFound
}

func IsConflict(err error) bool {
	return err != nil && StatusCode(err) == constvars.StatusConflict
}

// IsTransient reports failures worth retrying unchanged.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	code := StatusCode(err)
	return code >= 500 || code == constvars.StatusTooManyRequests
}
