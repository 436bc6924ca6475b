/*
Copyright 2021 Gravitational, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package account

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/gravitational/trace"
	jsoniter "github.com/json-iterator/go"

	"github.com/gravitational/account-registration/lib"
	"github.com/gravitational/account-registration/lib/credentials"
	"github.com/gravitational/account-registration/lib/logger"
)

const (
	// DefaultBaseURL is the local development API.
	DefaultBaseURL = "http://localhost:4000"

	// RegisterPath is the register endpoint, relative to the base URL.
	RegisterPath = "/auth/register"

	apiMaxConns = 100
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Config configures a Client.
type Config struct {
	// BaseURL is the API address. Defaults to DefaultBaseURL.
	BaseURL string
	// Tokens supplies the bearer token, looked up for every request.
	// Usually a *credentials.Session.
	Tokens credentials.AccessTokenProvider
	// Timeout bounds each request. Zero leaves the transport default (none).
	Timeout time.Duration
	// HTTPClient overrides the underlying client, mostly for tests.
	HTTPClient *http.Client
}

func (c *Config) CheckAndSetDefaults() error {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	baseURL, err := lib.AddrToURL(c.BaseURL)
	if err != nil {
		return trace.Wrap(err)
	}
	c.BaseURL = strings.TrimSuffix(baseURL.String(), "/")

	if c.Tokens == nil {
		c.Tokens = credentials.NewStaticAccessTokenProvider("")
	}
	if c.Timeout < 0 {
		return trace.BadParameter("timeout must not be negative, got %v", c.Timeout)
	}
	return nil
}

// Client is a client for the account API.
type Client struct {
	client *resty.Client
	tokens credentials.AccessTokenProvider
}

// NewClient builds a new API client.
func NewClient(conf Config) (*Client, error) {
	if err := conf.CheckAndSetDefaults(); err != nil {
		return nil, trace.Wrap(err)
	}

	httpClient := conf.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: conf.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxConnsPerHost:     apiMaxConns,
				MaxIdleConnsPerHost: apiMaxConns,
			},
		}
	}

	client := resty.NewWithClient(httpClient).
		SetBaseURL(conf.BaseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)

	return &Client{
		client: client,
		tokens: conf.Tokens,
	}, nil
}

// newRequest prepares a request carrying the current access token, if any.
func (c *Client) newRequest(ctx context.Context, requestID string) (*resty.Request, error) {
	token, err := c.tokens.GetAccessToken()
	if err != nil {
		return nil, trace.Wrap(err, "failed to get access token")
	}

	req := c.client.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", requestID)
	if token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req, nil
}

// RegisterUser creates a new account. Any failure is returned as a
// *ResponseError wrapped with trace; see AsResponseError.
func (c *Client) RegisterUser(ctx context.Context, request RegisterRequest) (*Tokens, error) {
	requestID := uuid.NewString()
	ctx, log := logger.WithFields(ctx, logger.Fields{
		"request_id": requestID,
		"path":       RegisterPath,
	})

	req, err := c.newRequest(ctx, requestID)
	if err != nil {
		return nil, trace.Wrap(err)
	}

	log.Debug("Sending register request")
	resp, err := req.SetBody(request).Post(RegisterPath)
	if err != nil {
		switch {
		case lib.IsCanceled(err):
			log.Debug("Register request canceled")
		case lib.IsDeadline(err):
			log.WithError(err).Warn("Register request timed out")
		default:
			log.WithError(err).Debug("Register request did not complete")
		}
		return nil, trace.Wrap(&ResponseError{Message: msgUnreachable, Err: err})
	}

	log = log.WithField("status", resp.StatusCode())
	if !resp.IsSuccess() {
		respErr := responseError(resp)
		log.WithField("message", respErr.Message).Debug("Register request rejected")
		return nil, trace.Wrap(respErr)
	}

	tokens, err := decodeTokens(resp)
	if err != nil {
		log.WithError(err).Debug("Register response is malformed")
		return nil, trace.Wrap(err)
	}

	log.Debug("Register request succeeded")
	return tokens, nil
}

func decodeTokens(resp *resty.Response) (*Tokens, error) {
	malformed := &ResponseError{StatusCode: resp.StatusCode(), Message: msgMalformedResponse}

	var body tokensResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		malformed.Err = err
		return nil, malformed
	}

	tokens := body.tokens()
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		return nil, malformed
	}
	return &tokens, nil
}

func responseError(resp *resty.Response) *ResponseError {
	message := parseErrorMessage(resp.Body())
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", resp.StatusCode())
	}
	return &ResponseError{
		StatusCode: resp.StatusCode(),
		Message:    message,
	}
}
