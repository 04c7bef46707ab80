package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/terra-clan/nebula-guide/internal/models"
	"github.com/terra-clan/nebula-guide/internal/scoring"
	"github.com/terra-clan/nebula-guide/internal/wizard"
)

// Re-exported wizard types so callers can build actions without reaching into internal packages
type (
	Action       = wizard.Action
	View         = wizard.View
	State        = wizard.State
	Screen       = wizard.Screen
	ActionKind   = wizard.ActionKind
	ProfileField = wizard.ProfileField
	MoodSlot     = wizard.MoodSlot
)

// Client is a Go SDK for the nebula-guide API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new nebula-guide client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError is a failed API call
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (HTTP %d): %s - %s", e.StatusCode, e.Code, e.Message)
}

// Wizard is a wizard session as returned by the API
type Wizard struct {
	ID   string      `json:"id"`
	View wizard.View `json:"view"`
}

// Report is the content of the result screen
type Report struct {
	Title    string               `json:"title"`
	Profile  wizard.Profile       `json:"profile"`
	Mood     wizard.MoodSelection `json:"mood"`
	Scores   map[int]int          `json:"scores"`
	Analysis scoring.Analysis     `json:"analysis"`
}

// Questionnaire retrieves the questionnaire currently in effect
func (c *Client) Questionnaire(ctx context.Context) (*models.Questionnaire, error) {
	var q models.Questionnaire
	if err := c.call(ctx, http.MethodGet, "/api/v1/questionnaire", nil, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// CreateWizard starts a new wizard run
func (c *Client) CreateWizard(ctx context.Context) (*Wizard, error) {
	var w Wizard
	if err := c.call(ctx, http.MethodPost, "/api/v1/wizards", nil, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// GetWizard retrieves a wizard by ID
func (c *Client) GetWizard(ctx context.Context, id string) (*Wizard, error) {
	var w Wizard
	if err := c.call(ctx, http.MethodGet, "/api/v1/wizards/"+url.PathEscape(id), nil, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// Dispatch applies one action and returns the updated wizard
func (c *Client) Dispatch(ctx context.Context, id string, action Action) (*Wizard, error) {
	var w Wizard
	if err := c.call(ctx, http.MethodPost, "/api/v1/wizards/"+url.PathEscape(id)+"/actions", action, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// Report retrieves the report of a wizard on the result screen
func (c *Client) Report(ctx context.Context, id string) (*Report, error) {
	var r Report
	if err := c.call(ctx, http.MethodGet, "/api/v1/wizards/"+url.PathEscape(id)+"/report", nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// ShareLink returns the message link that shares page. An empty page uses
// the server's public URL.
func (c *Client) ShareLink(ctx context.Context, id, page string) (string, error) {
	path := "/api/v1/wizards/" + url.PathEscape(id) + "/share"
	if page != "" {
		path += "?page=" + url.QueryEscape(page)
	}

	var result struct {
		URL string `json:"url"`
	}
	if err := c.call(ctx, http.MethodGet, path, nil, &result); err != nil {
		return "", err
	}
	return result.URL, nil
}

// DeleteWizard discards a wizard
func (c *Client) DeleteWizard(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/api/v1/wizards/"+url.PathEscape(id), nil, nil)
}

// Health checks if the service is healthy
func (c *Client) Health(ctx context.Context) error {
	return c.call(ctx, http.MethodGet, "/health", nil, nil)
}

// call performs a request and unwraps the response envelope into out
func (c *Client) call(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	status, resp, err := c.doRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	var result struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(resp, &result); err != nil {
		if status >= 400 {
			return &APIError{StatusCode: status, Code: "http_error", Message: string(resp)}
		}
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if !result.Success {
		apiErr := &APIError{StatusCode: status, Code: "unknown"}
		if result.Error != nil {
			apiErr.Code = result.Error.Code
			apiErr.Message = result.Error.Message
		}
		return apiErr
	}

	if out == nil || len(result.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(result.Data, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// doRequest performs an HTTP request
func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}

	return resp.StatusCode, respBody, nil
}
