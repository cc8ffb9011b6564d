// Package transport is the HTTP client for the helpdesk backend. It owns
// the wire format: localized, dual-named server payloads are mapped into
// the canonical domain entities here and never leak past this package.
package transport

import (
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-client/internal/config"
	"github.com/spec-kit/helpdesk-client/internal/observability"
	"github.com/spec-kit/helpdesk-client/pkg/util"
)

// TokenSource yields the current session credential, or "" when logged
// out. Reading it per request keeps the client aligned with logout.
type TokenSource func() string

// Client wraps a resty client configured for the helpdesk API.
type Client struct {
	http    *resty.Client
	tokens  TokenSource
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewClient builds a client from configuration.
func NewClient(cfg config.APIConfig, tokens TokenSource, logger *zap.Logger, metrics *observability.Metrics) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout()).
		SetRetryCount(cfg.RetryCount).
		SetHeader("Accept", "application/json")

	if cfg.Debug {
		httpClient.SetDebug(true)
	}

	client := &Client{
		http:    httpClient,
		tokens:  tokens,
		logger:  logger,
		metrics: metrics,
	}

	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if tokens != nil {
			if token := tokens(); token != "" {
				req.SetHeader("Authorization", "Bearer "+token)
			}
		}
		return nil
	})

	return client
}

// evaluate converts a resty outcome into the client error taxonomy and
// records request metrics. resource names the entity for NotFound wording.
func (c *Client) evaluate(resp *resty.Response, err error, resource string) error {
	if err != nil {
		// resp can be nil when resty fails before the request is sent,
		// e.g. an unparsable base URL.
		if resp != nil && resp.Request != nil {
			c.metrics.RecordError(resp.Request.URL, resp.Request.Method, util.CodeNetworkUnavailable)
		}
		return util.NewNetworkUnavailable(err)
	}

	c.metrics.RecordRequest(resp.Request.URL, resp.Request.Method, resp.StatusCode(), resp.Time())
	if resp.IsSuccess() {
		return nil
	}

	switch resp.StatusCode() {
	case 401, 403:
		return util.NewAuthenticationFailed(serverMessage(resp))
	case 404:
		return util.NewNotFound(resource)
	case 400, 422:
		return util.NewValidationRejected(serverMessage(resp))
	default:
		return util.NewClientError(util.CodeInternalError, "unexpected server response", resp.StatusCode(), nil)
	}
}

func serverMessage(resp *resty.Response) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := unmarshalBody(resp, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return ""
}
