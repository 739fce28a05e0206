// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api is the typed HTTP client for the facility-booking backend.
// The console owns no domain data; every list and mutation goes through
// this client. Authentication uses bearer tokens supplied per request by a
// TokenStore, with a single refresh-and-retry on 401.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors surfaced to the session layer.
var (
	// ErrInvalidCredentials means the login endpoint rejected the
	// email/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrCredentialExpired means the stored tokens are no longer usable:
	// the access token was rejected and the refresh attempt failed (or no
	// refresh token was available). The TokenStore has been cleared.
	ErrCredentialExpired = errors.New("credentials expired")
)

// Error is a non-auth backend failure carrying the HTTP status and the
// backend's message field when one was present.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

// TokenStore provides the current token pair for a request and persists
// replacements issued by the refresh endpoint. Implementations are backed
// by the per-browser server session.
type TokenStore interface {
	AccessToken(ctx context.Context) string
	RefreshToken(ctx context.Context) string
	SetTokens(ctx context.Context, access, refresh string)
	ClearTokens(ctx context.Context)
}

// Client talks to the booking backend.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
}

// New creates a backend client. baseURL has no trailing slash; tokens may
// be nil for unauthenticated use (login only).
func New(baseURL string, tokens TokenStore) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		tokens:  tokens,
	}
}

// NewWithHTTPClient creates a backend client with a caller-supplied
// http.Client, used by tests.
func NewWithHTTPClient(baseURL string, tokens TokenStore, hc *http.Client) *Client {
	c := New(baseURL, tokens)
	c.http = hc
	return c
}

// auth endpoints that must never trigger the refresh-and-retry path.
const (
	pathLogin   = "/auth/login"
	pathRefresh = "/auth/refresh"
)

// do performs one backend call with bearer auth and the single 401
// refresh-retry rule. out may be nil for 204-style responses.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	resp, err := c.send(ctx, method, path, query, body)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && path != pathLogin && path != pathRefresh {
		if err := resp.Body.Close(); err != nil {
			slog.Debug("closing 401 response body", "error", err)
		}
		if err := c.refresh(ctx); err != nil {
			return err
		}
		// One retry with the fresh access token; whatever this attempt
		// returns is the final answer.
		resp, err = c.send(ctx, method, path, query, body)
		if err != nil {
			return err
		}
		if resp.StatusCode == http.StatusUnauthorized {
			_ = resp.Body.Close()
			c.clearTokens(ctx)
			return ErrCredentialExpired
		}
	}

	return decode(resp, path, out)
}

// send builds and executes a single HTTP request.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding %s body: %w", path, err)
		}
		reader = bytes.NewReader(buf)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil {
		if token := c.tokens.AccessToken(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s %s: %w", method, path, err)
	}
	return resp, nil
}

// refresh exchanges the stored refresh token for a new pair. Exactly one
// attempt; failure clears the stored tokens so the session layer treats the
// user as logged out instead of looping.
func (c *Client) refresh(ctx context.Context) error {
	if c.tokens == nil {
		return ErrCredentialExpired
	}
	refreshToken := c.tokens.RefreshToken(ctx)
	if refreshToken == "" {
		c.clearTokens(ctx)
		return ErrCredentialExpired
	}

	resp, err := c.send(ctx, http.MethodPost, pathRefresh, nil, map[string]string{
		"refresh_token": refreshToken,
	})
	if err != nil {
		c.clearTokens(ctx)
		return ErrCredentialExpired
	}

	var tokens LoginResponse
	if err := decode(resp, pathRefresh, &tokens); err != nil || tokens.AccessToken == "" {
		c.clearTokens(ctx)
		return ErrCredentialExpired
	}

	c.tokens.SetTokens(ctx, tokens.AccessToken, tokens.RefreshToken)
	slog.Debug("access token refreshed")
	return nil
}

func (c *Client) clearTokens(ctx context.Context) {
	if c.tokens != nil {
		c.tokens.ClearTokens(ctx)
	}
}

// decode consumes a response body into out, mapping non-2xx statuses to
// *Error with the backend's message field when present.
func decode(resp *http.Response, path string, out any) error {
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode}
		var payload struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
			apiErr.Message = payload.Message
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

// UploadImage sends a multipart file to the backend upload endpoint and
// returns the stored file's URL. The file content is proxied untouched.
func (c *Client) UploadImage(ctx context.Context, filename string, file io.Reader) (*UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("building upload form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing upload form: %w", err)
	}

	// The multipart body is buffered so the request can be replayed once
	// after a token refresh, same as the JSON paths.
	payload := buf.Bytes()
	send := func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/upload", bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("building upload request: %w", err)
		}
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("X-Request-ID", uuid.NewString())
		if c.tokens != nil {
			if token := c.tokens.AccessToken(ctx); token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("uploading image: %w", err)
		}
		return resp, nil
	}

	resp, err := send()
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		_ = resp.Body.Close()
		if err := c.refresh(ctx); err != nil {
			return nil, err
		}
		if resp, err = send(); err != nil {
			return nil, err
		}
		if resp.StatusCode == http.StatusUnauthorized {
			_ = resp.Body.Close()
			c.clearTokens(ctx)
			return nil, ErrCredentialExpired
		}
	}

	var result UploadResult
	if err := decode(resp, "/auth/upload", &result); err != nil {
		return nil, err
	}
	return &result, nil
}
