package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/kalambet/cgs/internal/config"
	"github.com/kalambet/cgs/internal/storage"
)

// reasonHeader mirrors the header the server sets on recommendation responses.
const reasonHeader = "X-Recommendation-Reason"

type apiClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var newAPIClient = func() (*apiClient, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	// A missing token is fine: public endpoints work without one.
	token, _ := config.SessionToken()

	return &apiClient{
		baseURL:    cfg.BaseURL(),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (c *apiClient) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshalling request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("server not reachable, is cgs running? (%w)", err)
	}
	return resp, nil
}

func (c *apiClient) get(ctx context.Context, path string) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *apiClient) post(ctx context.Context, path string, body any) (*http.Response, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

func (c *apiClient) patch(ctx context.Context, path string, body any) (*http.Response, error) {
	return c.do(ctx, http.MethodPatch, path, body)
}

func (c *apiClient) delete(ctx context.Context, path string) (*http.Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

func (c *apiClient) listCourses(ctx context.Context) ([]storage.Course, error) {
	resp, err := c.get(ctx, "/api/courses")
	if err != nil {
		return nil, err
	}
	var courses []storage.Course
	if err := decodeJSON(resp, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (c *apiClient) coursesBySkill(ctx context.Context, skill string) ([]storage.Course, error) {
	resp, err := c.get(ctx, "/api/courses/by-skill?skill="+url.QueryEscape(skill))
	if err != nil {
		return nil, err
	}
	var courses []storage.Course
	if err := decodeJSON(resp, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// recommend returns the recommended courses and the server's reason for the
// result.
func (c *apiClient) recommend(ctx context.Context) ([]storage.Course, string, error) {
	resp, err := c.get(ctx, "/api/recommend-courses")
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		return nil, "", fmt.Errorf("not logged in; run \"cgs login\" first")
	}
	reason := resp.Header.Get(reasonHeader)
	var courses []storage.Course
	if err := decodeJSON(resp, &courses); err != nil {
		return nil, "", err
	}
	return courses, reason, nil
}

func decodeJSON(resp *http.Response, v any) error {
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("server returned %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}
	if v == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
