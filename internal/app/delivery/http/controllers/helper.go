package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"supervision-service/internal/pkg/exceptions"
	"supervision-service/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// decodeJSONBody unmarshals the request body into target. An empty body is
// accepted when allowEmpty is set and leaves target untouched.
func decodeJSONBody(r *http.Request, target interface{}, allowEmpty bool) error {
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return exceptions.ErrReadBody(err)
	}
	if len(body) == 0 && allowEmpty {
		return nil
	}
	err = json.Unmarshal(body, target)
	if err != nil {
		return exceptions.ErrCannotParseJSON(err)
	}
	return nil
}

func urlParam(r *http.Request, key string) (string, error) {
	value, err := url.PathUnescape(chi.URLParam(r, key))
	if err != nil {
		return "", exceptions.ErrURLParamValidation(err, key)
	}
	if value == "" {
		return "", exceptions.ErrURLParamValidation(nil, key)
	}
	return value, nil
}

func buildUsecaseErrorResponse(log *zap.Logger, w http.ResponseWriter, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		utils.BuildErrorResponse(log, w, exceptions.ErrServerDeadlineExceeded(context.DeadlineExceeded))
		return
	}
	utils.BuildErrorResponse(log, w, err)
}
