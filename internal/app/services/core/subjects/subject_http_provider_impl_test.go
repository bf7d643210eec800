package subjects

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"supervision-service/internal/app/models"
	"supervision-service/internal/pkg/constvars"
	"supervision-service/internal/pkg/exceptions"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockRedisRepository struct {
	mock.Mock
}

func (m *MockRedisRepository) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockRedisRepository) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	return m.Called(ctx, key, value, exp).Error(0)
}

func (m *MockRedisRepository) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockRedisRepository) Increment(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRedisRepository) TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, exp)
	return args.Bool(0), args.Error(1)
}

func (m *MockRedisRepository) DeleteIfEqual(ctx context.Context, key string, value interface{}) (bool, error) {
	args := m.Called(ctx, key, value)
	return args.Bool(0), args.Error(1)
}

func TestSubjectHTTPProviderGetStaticFieldValue(t *testing.T) {
	ctx := context.Background()

	t.Run("Reads Field With Service Token", func(t *testing.T) {
		var authorization, path string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authorization = r.Header.Get(constvars.HeaderAuthorization)
			path = r.URL.Path
			w.Header().Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
			_, _ = w.Write([]byte(`{"value": 19}`))
		}))
		defer server.Close()

		provider := newSubjectHTTPProvider(server.URL+"/", server.Client(), "secret", 5, nil, zap.NewNop())
		value, err := provider.GetStaticFieldValue(ctx, "subject-1", "age_at_start")

		require.NoError(t, err)
		assert.Equal(t, models.IntValue(19), value)
		assert.Equal(t, "/subjects/subject-1/fields/age_at_start", path)
		assert.True(t, strings.HasPrefix(authorization, "Bearer "), "service token should be sent")
	})

	t.Run("Missing Field Is Zero Value", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"value": null}`))
		}))
		defer server.Close()

		provider := newSubjectHTTPProvider(server.URL, server.Client(), "secret", 5, nil, zap.NewNop())
		value, err := provider.GetStaticFieldValue(ctx, "subject-1", "age_at_start")

		require.NoError(t, err)
		assert.True(t, value.IsZero())
	})

	t.Run("Unknown Subject", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		provider := newSubjectHTTPProvider(server.URL, server.Client(), "secret", 5, nil, zap.NewNop())
		_, err := provider.GetStaticFieldValue(ctx, "ghost", "age_at_start")

		assert.True(t, exceptions.IsNotFound(err))
	})

	t.Run("Server Error Is Transient", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		provider := newSubjectHTTPProvider(server.URL, server.Client(), "secret", 5, nil, zap.NewNop())
		_, err := provider.GetStaticFieldValue(ctx, "subject-1", "age_at_start")

		require.Error(t, err)
		assert.Equal(t, constvars.StatusServiceUnavailable, exceptions.StatusCode(err))
	})

	t.Run("Cache Hit Skips Provider", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
		}))
		defer server.Close()

		redisRepo := new(MockRedisRepository)
		redisRepo.On("Get", ctx, "assessment:subject:subject-1:has_job").Return("true", nil)

		provider := newSubjectHTTPProvider(server.URL, server.Client(), "secret", 5, redisRepo, zap.NewNop())
		value, err := provider.GetStaticFieldValue(ctx, "subject-1", "has_job")

		require.NoError(t, err)
		assert.Equal(t, models.BoolValue(true), value)
		assert.Zero(t, calls)
	})

	t.Run("Cache Failure Falls Back To Provider", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"value": "stable"}`))
		}))
		defer server.Close()

		redisRepo := new(MockRedisRepository)
		redisRepo.On("Get", ctx, mock.Anything).Return("", errors.New("redis down"))
		redisRepo.On("Set", ctx, "assessment:subject:subject-1:living", models.StringValue("stable"), 60*time.Second).Return(errors.New("redis down"))

		provider := newSubjectHTTPProvider(server.URL, server.Client(), "secret", 5, redisRepo, zap.NewNop())
		value, err := provider.GetStaticFieldValue(ctx, "subject-1", "living")

		require.NoError(t, err)
		assert.Equal(t, models.StringValue("stable"), value)
		redisRepo.AssertExpectations(t)
	})
}
