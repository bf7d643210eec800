// Package engineclient talks to the assessment API over HTTP. It is the
// session store behind the officer workflow in command line tools.
package engineclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"supervision-service/internal/app/models"
	"supervision-service/internal/pkg/constvars"
	"supervision-service/internal/pkg/dto/requests"
	"supervision-service/internal/pkg/dto/responses"
	"supervision-service/internal/pkg/exceptions"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	DevMessage string          `json:"dev_message"`
	Data       json.RawMessage `json:"data"`
}

type Client struct {
	BaseUrl    string
	HTTPClient *http.Client
	Log        *zap.Logger
}

// NewClient expects baseUrl to include the endpoint prefix, for example
// http://localhost:8080/api/v1.
func NewClient(baseUrl string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		BaseUrl:    strings.TrimRight(baseUrl, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
		Log:        logger,
	}
}

func (c *Client) StartSession(ctx context.Context, request *requests.StartSession) (*responses.StartSession, error) {
	result := new(responses.StartSession)
	err := c.do(ctx, constvars.MethodPost, "/assessments/sessions", request, result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) SaveAnswer(ctx context.Context, request *requests.SaveAnswer) (*responses.SaveAnswer, error) {
	path := fmt.Sprintf("/assessments/sessions/%s/answers/%s", url.PathEscape(request.SessionID), url.PathEscape(request.Tag))
	result := new(responses.SaveAnswer)
	err := c.do(ctx, constvars.MethodPut, path, request, result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) Calculate(ctx context.Context, sessionID string) (*responses.CalculateSession, error) {
	path := fmt.Sprintf("/assessments/sessions/%s/calculate", url.PathEscape(sessionID))
	result := new(responses.CalculateSession)
	err := c.do(ctx, constvars.MethodPost, path, nil, result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) Submit(ctx context.Context, request *requests.SubmitSession) (*models.AssessmentSession, error) {
	path := fmt.Sprintf("/assessments/sessions/%s/submit", url.PathEscape(request.SessionID))
	result := new(models.AssessmentSession)
	err := c.do(ctx, constvars.MethodPost, path, request, result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return exceptions.ErrCannotMarshalJSON(err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseUrl+path, reader)
	if err != nil {
		return exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationJSON)
	if body != nil {
		req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	}
	if requestID != "" {
		req.Header.Set(constvars.HeaderXRequestID, requestID)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Log.Error("Client.do error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingMethodKey, method),
			zap.String(constvars.LoggingPathKey, path),
			zap.Error(err),
		)
		return exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	var decoded envelope
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil && err != io.EOF {
		return exceptions.ErrServerProcess(err)
	}

	if resp.StatusCode >= constvars.StatusBadRequest {
		message := decoded.Message
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		// Keep the server status so callers can classify the failure.
		return exceptions.WrapWithoutError(resp.StatusCode, message, decoded.DevMessage)
	}

	if out == nil || len(decoded.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(decoded.Data, out); err != nil {
		return exceptions.ErrServerProcess(err)
	}
	return nil
}
