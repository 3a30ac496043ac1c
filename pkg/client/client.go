package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/naveenspark/jotter/pkg/domain"
)

// DefaultTimeout is the per-request timeout of the underlying HTTP client.
const DefaultTimeout = 30 * time.Second

// Client is the notes service API client.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a new API client.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token sent with subsequent requests.
// An empty token sends requests unauthenticated.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the bearer token currently in use.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp domain.LoginResponse
	creds := domain.Credentials{Username: username, Password: password}
	if err := c.post(ctx, "/auth/login", creds, &resp); err != nil {
		return "", fmt.Errorf("client.Login: %w", err)
	}
	if resp.Token == "" {
		return "", fmt.Errorf("client.Login: empty token in response")
	}
	return resp.Token, nil
}

// listNotesResponse is the body of GET /notes.
type listNotesResponse struct {
	Data       []domain.WireNote `json:"data"`
	TotalPages int               `json:"totalPages"`
}

// ListNotes fetches one page of notes. Pages are indexed from 1.
func (c *Client) ListNotes(ctx context.Context, page, limit int) (*domain.NotePage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))

	var resp listNotesResponse
	if err := c.get(ctx, "/notes?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("client.ListNotes: %w", err)
	}

	page := &domain.NotePage{Notes: make([]domain.Note, 0, len(resp.Data)), TotalPages: resp.TotalPages}
	for _, w := range resp.Data {
		n, err := w.Parse()
		if err != nil {
			// One bad record must not hide the rest of the page.
			n = domain.Note{ID: w.ID, Content: w.Content}
			page.BadDates = append(page.BadDates, w.ID)
		}
		page.Notes = append(page.Notes, n)
	}
	return page, nil
}

// CreateNote creates a note and returns the server's copy of it.
func (c *Client) CreateNote(ctx context.Context, content string) (*domain.Note, error) {
	var created domain.WireNote
	if err := c.post(ctx, "/notes", map[string]string{"content": content}, &created); err != nil {
		return nil, fmt.Errorf("client.CreateNote: %w", err)
	}
	n, err := created.Parse()
	if err != nil {
		return nil, fmt.Errorf("client.CreateNote: %w", err)
	}
	return &n, nil
}

// UpdateNote replaces a note's content. The response body is ignored.
func (c *Client) UpdateNote(ctx context.Context, id, content string) error {
	if err := c.doRequest(ctx, http.MethodPut, "/notes/"+url.PathEscape(id), map[string]string{"content": content}, nil); err != nil {
		return fmt.Errorf("client.UpdateNote: %w", err)
	}
	return nil
}

// DeleteNote deletes a note by ID.
func (c *Client) DeleteNote(ctx context.Context, id string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/notes/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteNote: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode}
		}
		var apiErr struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil {
			return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Message}
		}
		return &HTTPError{StatusCode: resp.StatusCode}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
