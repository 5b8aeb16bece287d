// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package remote is the device-side client of the tracker REST API.

Every call sends and expects JSON. Failures come back as [*Error] values whose
[Kind] tells a transport failure apart from the HTTP statuses the persistence
layer cares about. There are no retries and no client-side timeout; callers
bound calls through their context.
*/
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/taibuivan/mangatrack/internal/library"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 16 << 20

// Client talks to the tracker API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	reach      *Reachability
}

// Option customizes a [Client].
type Option func(*Client)

// WithHTTPClient replaces the default [http.Client].
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a client for baseURL. reach receives the reachability updates;
// a nil reach gets a private flag.
func New(baseURL string, reach *Reachability, opts ...Option) *Client {
	if reach == nil {
		reach = NewReachability()
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		reach:      reach,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Reachability returns the flag this client updates.
func (c *Client) Reachability() *Reachability {
	return c.reach
}

// # Users

// ListUsers returns every registered username.
func (c *Client) ListUsers(ctx context.Context) ([]string, error) {
	users := []string{}
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser registers username and returns the name the server stored.
func (c *Client) CreateUser(ctx context.Context, username string) (string, error) {
	var result struct {
		Success  bool   `json:"success"`
		Username string `json:"username"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/users", map[string]string{"username": username}, &result); err != nil {
		return "", err
	}
	if result.Username == "" {
		result.Username = username
	}
	return result.Username, nil
}

// # Lists

// FetchList loads the list stored for username.
func (c *Client) FetchList(ctx context.Context, username string) ([]library.Item, error) {
	items := []library.Item{}
	if err := c.do(ctx, http.MethodGet, userPath(username, "manga"), nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []library.Item{}
	}
	return items, nil
}

// SaveList replaces the list stored for username.
func (c *Client) SaveList(ctx context.Context, username string, items []library.Item) error {
	if items == nil {
		items = []library.Item{}
	}
	return c.do(ctx, http.MethodPost, userPath(username, "manga"), items, nil)
}

// FetchStats loads the server-side aggregate for username.
func (c *Client) FetchStats(ctx context.Context, username string) (library.Stats, error) {
	var stats library.Stats
	if err := c.do(ctx, http.MethodGet, userPath(username, "stats"), nil, &stats); err != nil {
		return library.Stats{}, err
	}
	return stats, nil
}

// Health calls the liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	var status struct {
		Status string `json:"status"`
	}
	return c.do(ctx, http.MethodGet, "/api/health", nil, &status)
}

// # Transport

// do performs one JSON round trip. out may be nil when the body is ignored.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("remote: encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("remote: build request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		// A cancelled caller says nothing about the server.
		if ctx.Err() == nil {
			c.reach.markDown()
		}
		return &Error{Kind: KindNetwork, Message: err.Error(), Err: err}
	}
	defer response.Body.Close()

	data, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		if ctx.Err() == nil {
			c.reach.markDown()
		}
		return &Error{Kind: KindNetwork, Message: err.Error(), Err: err}
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return &Error{
			Kind:    kindForStatus(response.StatusCode),
			Status:  response.StatusCode,
			Message: errorMessage(data, response.StatusCode),
		}
	}

	c.reach.markUp()

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Kind: KindServer, Status: response.StatusCode, Message: "undecodable response body", Err: err}
	}
	return nil
}

// errorMessage prefers the server's "error" field.
func errorMessage(body []byte, status int) string {
	var envelope struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &envelope) == nil && envelope.Error != "" {
		return envelope.Error
	}
	return fmt.Sprintf("HTTP status %d", status)
}

func userPath(username, resource string) string {
	return "/api/users/" + url.PathEscape(username) + "/" + resource
}
