package utils

import (
	"net/http"
	"strings"
	"time"

	"supervision-service/internal/app/models"
)

func GetQueryParam(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// ParseDateOrToday parses a YYYY-MM-DD date in loc, returning today when the
// input is empty.
func ParseDateOrToday(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if value == "" {
		now := time.Now().In(loc)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc), nil
	}
	return time.ParseInLocation(models.DateLayout, value, loc)
}
