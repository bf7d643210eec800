package subjects

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"supervision-service/internal/app/contracts"
	"supervision-service/internal/app/models"
	"supervision-service/internal/pkg/constvars"
	"supervision-service/internal/pkg/exceptions"
	"supervision-service/internal/pkg/utils"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const serviceTokenSubject = "risk-assessment-engine"

type fieldValueResponse struct {
	Value models.AnswerValue `json:"value"`
}

type subjectHTTPProvider struct {
	BaseUrl          string
	JWTSecret        string
	JWTExpiryMinutes int
	HTTPClient       *http.Client
	RedisRepository  contracts.RedisRepository
	Log              *zap.Logger
}

var (
	subjectHTTPProviderInstance contracts.SubjectDataProvider
	onceSubjectHTTPProvider     sync.Once
)

// NewSubjectHTTPProvider reads static fields from the case-records service.
// redisRepository is optional and caches field values for a short time.
func NewSubjectHTTPProvider(
	baseUrl string,
	timeout time.Duration,
	jwtSecret string,
	jwtExpiryMinutes int,
	redisRepository contracts.RedisRepository,
	logger *zap.Logger,
) contracts.SubjectDataProvider {
	onceSubjectHTTPProvider.Do(func() {
		subjectHTTPProviderInstance = newSubjectHTTPProvider(baseUrl, &http.Client{Timeout: timeout}, jwtSecret, jwtExpiryMinutes, redisRepository, logger)
	})
	return subjectHTTPProviderInstance
}

func newSubjectHTTPProvider(
	baseUrl string,
	httpClient *http.Client,
	jwtSecret string,
	jwtExpiryMinutes int,
	redisRepository contracts.RedisRepository,
	logger *zap.Logger,
) *subjectHTTPProvider {
	return &subjectHTTPProvider{
		BaseUrl:          strings.TrimRight(baseUrl, "/"),
		JWTSecret:        jwtSecret,
		JWTExpiryMinutes: jwtExpiryMinutes,
		HTTPClient:       httpClient,
		RedisRepository:  redisRepository,
		Log:              logger,
	}
}

func (p *subjectHTTPProvider) GetStaticFieldValue(ctx context.Context, subjectID, tag string) (models.AnswerValue, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	p.Log.Info("subjectHTTPProvider.GetStaticFieldValue called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSubjectIDKey, subjectID),
		zap.String(constvars.LoggingQuestionTagKey, tag),
	)

	cacheKey := constvars.RedisKeySubjectCachePrefix + subjectID + ":" + tag
	if value, ok := p.cached(ctx, cacheKey); ok {
		return value, nil
	}

	token, err := utils.GenerateServiceJWT(serviceTokenSubject, p.JWTSecret, p.JWTExpiryMinutes)
	if err != nil {
		p.Log.Error("subjectHTTPProvider.GetStaticFieldValue error generating service token",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return models.AnswerValue{}, exceptions.ErrTokenGenerate(err)
	}

	endpoint := fmt.Sprintf("%s/subjects/%s/fields/%s", p.BaseUrl, url.PathEscape(subjectID), url.PathEscape(tag))
	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, endpoint, nil)
	if err != nil {
		p.Log.Error("subjectHTTPProvider.GetStaticFieldValue error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return models.AnswerValue{}, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationJSON)
	req.Header.Set(constvars.HeaderAuthorization, "Bearer "+token)
	if requestID != "" {
		req.Header.Set(constvars.HeaderXRequestID, requestID)
	}

	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		p.Log.Error("subjectHTTPProvider.GetStaticFieldValue error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return models.AnswerValue{}, exceptions.ErrSubjectProviderUnavailable(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == constvars.StatusNotFound:
		return models.AnswerValue{}, exceptions.ErrSubjectNotFound(nil, subjectID)
	case resp.StatusCode != constvars.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		p.Log.Error("subjectHTTPProvider.GetStaticFieldValue unexpected status",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingStatusCodeKey, resp.StatusCode),
			zap.ByteString(constvars.LoggingResponseKey, body),
		)
		return models.AnswerValue{}, exceptions.ErrSubjectProviderUnavailable(fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var payload fieldValueResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		p.Log.Error("subjectHTTPProvider.GetStaticFieldValue error decoding response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return models.AnswerValue{}, exceptions.ErrSubjectProviderUnavailable(err)
	}

	p.store(ctx, cacheKey, payload.Value)

	p.Log.Info("subjectHTTPProvider.GetStaticFieldValue succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQuestionTagKey, tag),
	)
	return payload.Value, nil
}

// cached ignores Redis failures; the provider is the source of truth.
func (p *subjectHTTPProvider) cached(ctx context.Context, key string) (models.AnswerValue, bool) {
	if p.RedisRepository == nil {
		return models.AnswerValue{}, false
	}
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	data, err := p.RedisRepository.Get(ctx, key)
	if err != nil {
		p.Log.Warn("subjectHTTPProvider.cached error reading Redis",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return models.AnswerValue{}, false
	}
	if data == "" {
		return models.AnswerValue{}, false
	}

	var value models.AnswerValue
	if err := json.Unmarshal([]byte(data), &value); err != nil {
		return models.AnswerValue{}, false
	}
	return value, true
}

func (p *subjectHTTPProvider) store(ctx context.Context, key string, value models.AnswerValue) {
	if p.RedisRepository == nil {
		return
	}
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	err := p.RedisRepository.Set(ctx, key, value, time.Duration(constvars.SubjectDataCacheTTLInSeconds)*time.Second)
	if err != nil {
		p.Log.Warn("subjectHTTPProvider.store error caching subject field",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}
}
