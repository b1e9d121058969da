// Package client talks to the Circle API and keeps a local view of the
// queried data, reconciled after every mutation.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

const DefaultStaleTime = 30 * time.Second

type APIError struct {
	Status  int
	Message string
}

func (v *APIError) Error() string {
	return fmt.Sprintf("circle api: %d %s", v.Status, v.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
	Cache   *QueryCache
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(v *Client) {
		v.http = client
	}
}

func WithStaleTime(staleTime time.Duration) Option {
	return func(v *Client) {
		v.Cache = NewQueryCache(staleTime)
	}
}

// New creates a client for the server at baseURL, for example
// http://localhost:5000. The session cookie lives in the client's jar.
func New(baseURL string, opts ...Option) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	client := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/") + "/api",
		http:    &http.Client{Jar: jar, Timeout: 30 * time.Second},
		Cache:   NewQueryCache(DefaultStaleTime),
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.http.Jar == nil {
		client.http.Jar = jar
	}

	return client, nil
}

func (v *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := jsoniter.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, v.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := v.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var payload struct {
			Error string `json:"error"`
		}
		_ = jsoniter.Unmarshal(raw, &payload)
		if len(payload.Error) == 0 {
			payload.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: payload.Error}
	}

	if out != nil && len(raw) > 0 {
		return jsoniter.Unmarshal(raw, out)
	}
	return nil
}

// query serves key from the cache or fetches path and caches the result.
func query[T any](ctx context.Context, v *Client, key, path string) (T, error) {
	if cached, ok := v.Cache.Get(key); ok {
		if value, ok := cached.(T); ok {
			return value, nil
		}
	}

	var out T
	if err := v.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return out, err
	}
	v.Cache.Set(key, out)
	return out, nil
}
