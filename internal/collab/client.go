// Package collab connects a canvas session to a workspace server: element
// persistence over the REST API and remote changes over the workspace
// websocket.
package collab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"tessera/internal/domain"
	models "tessera/internal/domain/models/canvas"
	canvasSvc "tessera/internal/domain/services/canvas"
)

// Config points a client at a server
type Config struct {
	BaseURL string
	// Token is sent as a bearer token when set
	Token string
	// ClientID identifies this connection so the server skips it when
	// broadcasting its own changes. Generated when empty.
	ClientID   string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client persists element changes through the REST API
type Client struct {
	base     *url.URL
	token    string
	clientID string
	http     *http.Client
	logger   *slog.Logger
}

// NewClient validates cfg and creates a client
func NewClient(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", cfg.BaseURL)
	}
	c := &Client{
		base:     base,
		token:    cfg.Token,
		clientID: cfg.ClientID,
		http:     cfg.HTTPClient,
		logger:   cfg.Logger,
	}
	if c.clientID == "" {
		c.clientID = uuid.NewString()
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 15 * time.Second}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c, nil
}

// ClientID returns the ID this client sends with every request
func (c *Client) ClientID() string { return c.clientID }

// ListElements fetches every element of a workspace
func (c *Client) ListElements(ctx context.Context, workspaceID string) ([]models.Element, error) {
	var out []models.Element
	err := c.do(ctx, http.MethodGet, "/api/workspaces/"+url.PathEscape(workspaceID)+"/elements", nil, &out)
	return out, err
}

// Create persists a new element and returns the stored copy
func (c *Client) Create(ctx context.Context, workspaceID string, draft models.Element) (*models.Element, error) {
	req := canvasSvc.CreateElementRequest{
		Type:       draft.Type,
		Position:   draft.Position,
		Dimensions: draft.Dimensions,
		Content:    draft.Content,
		Style:      draft.Style,
		Locked:     draft.Locked,
	}
	var out models.Element
	if err := c.do(ctx, http.MethodPost, "/api/workspaces/"+url.PathEscape(workspaceID)+"/elements", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces an element on the server
func (c *Client) Update(ctx context.Context, el models.Element) (*models.Element, error) {
	req := canvasSvc.UpdateElementRequest{
		Type:       el.Type,
		Position:   el.Position,
		Dimensions: el.Dimensions,
		Content:    el.Content,
		Style:      el.Style,
		Locked:     el.Locked,
	}
	var out models.Element
	if err := c.do(ctx, http.MethodPut, "/api/elements/"+url.PathEscape(el.ID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes an element on the server
func (c *Client) Delete(ctx context.Context, elementID string) error {
	return c.do(ctx, http.MethodDelete, "/api/elements/"+url.PathEscape(elementID), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Client-ID", c.clientID)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeProblem(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// APIError is a problem response returned by the server
type APIError struct {
	Status int
	Title  string
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Title, e.Detail)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Title)
}

// Is maps statuses onto the domain sentinels
func (e *APIError) Is(target error) bool {
	switch target {
	case domain.ErrNotFound:
		return e.Status == http.StatusNotFound
	case domain.ErrValidation:
		return e.Status == http.StatusBadRequest
	case domain.ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case domain.ErrForbidden:
		return e.Status == http.StatusForbidden
	case domain.ErrConflict:
		return e.Status == http.StatusConflict
	}
	return false
}

func decodeProblem(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Title: http.StatusText(resp.StatusCode)}
	var problem struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&problem); err == nil {
		if problem.Title != "" {
			apiErr.Title = problem.Title
		}
		apiErr.Detail = problem.Detail
	}
	return apiErr
}
