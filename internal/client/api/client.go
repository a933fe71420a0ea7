// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api is the HTTP client used by the admin console and the shopper app
to talk to the storefront API.

Every failure is returned as either an [*Error] (the server answered with a
non-2xx status) or an error wrapping [ErrTransport] (no usable answer). Callers
never probe raw response bodies.

# Bearer Injection

The client asks its [TokenSource] for a token on every request, so a token
written by another component is picked up without restarting the client. A
401 on a request that carried a token fires the OnUnauthorized hook with
that token.
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// DefaultTimeout bounds every outbound call.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// ErrTransport wraps network, timeout and decoding failures.
var ErrTransport = errors.New("api: transport failure")

// TokenSource returns the bearer token to attach, or "" for none.
type TokenSource func(ctx context.Context) (string, error)

// Client performs JSON calls against the storefront API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	mutex          sync.RWMutex
	tokenSource    TokenSource
	onUnauthorized func(token string)
}

// Option customizes a [Client].
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(client *Client) {
		client.httpClient = httpClient
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(client *Client) {
		client.logger = logger
	}
}

// New creates a client for baseURL (e.g. "http://localhost:3000/api").
//
// A non-positive timeout falls back to [DefaultTimeout].
func New(baseURL string, timeout time.Duration, options ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     slog.Default(),
	}

	for _, option := range options {
		option(client)
	}

	return client
}

// SetTokenSource installs the bearer token provider.
func (client *Client) SetTokenSource(source TokenSource) {
	client.mutex.Lock()
	defer client.mutex.Unlock()
	client.tokenSource = source
}

// SetUnauthorizedHandler installs the hook fired on 401 for authenticated
// requests. It receives the token the rejected request carried.
func (client *Client) SetUnauthorizedHandler(handler func(token string)) {
	client.mutex.Lock()
	defer client.mutex.Unlock()
	client.onUnauthorized = handler
}

func (client *Client) hooks() (TokenSource, func(string)) {
	client.mutex.RLock()
	defer client.mutex.RUnlock()
	return client.tokenSource, client.onUnauthorized
}

/*
Do sends a JSON request and decodes a JSON response into out.

Parameters:
  - ctx: context.Context
  - method: HTTP method
  - path: Path relative to the base URL (e.g. "/auth/me")
  - body: Request payload, or nil
  - out: Destination for the response body, or nil

Returns:
  - error: *Error for non-2xx responses, ErrTransport for everything else
*/
func (client *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	tokenSource, onUnauthorized := client.hooks()

	// The token is read fresh for every call
	var token string
	if tokenSource != nil {
		token, err = tokenSource(ctx)
		if err != nil {
			client.logger.WarnContext(ctx, "token_source_failed", slog.Any("error", err))
		}
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrTransport, method, path, err)
	}
	defer response.Body.Close()

	if response.StatusCode >= http.StatusBadRequest {
		apiError := decodeError(response)

		if response.StatusCode == http.StatusUnauthorized && token != "" && onUnauthorized != nil {
			client.logger.InfoContext(ctx, "session_rejected_by_server", slog.String("path", path))
			onUnauthorized(token)
		}

		return apiError
	}

	if out == nil || response.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", ErrTransport, path, err)
	}

	return nil
}

// decodeError converts a non-2xx response into an [*Error].
func decodeError(response *http.Response) *Error {
	apiError := &Error{Status: response.StatusCode}

	var envelope struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	if err := json.NewDecoder(io.LimitReader(response.Body, maxErrorBody)).Decode(&envelope); err == nil {
		apiError.Message = envelope.Message
		apiError.Code = envelope.Code
	}

	if apiError.Message == "" {
		apiError.Message = http.StatusText(response.StatusCode)
	}

	return apiError
}
