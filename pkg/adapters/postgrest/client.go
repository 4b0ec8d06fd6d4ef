// Package postgrest is the remote half of the note store: a client for a
// PostgREST-style notes table (the Supabase REST dialect).
package postgrest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/yesilw0rks/airnote/pkg/core"
)

// DefaultTable is the notes table name.
const DefaultTable = "notes"

// Config holds the connection settings.
type Config struct {
	URL         string // project URL, e.g. https://xyz.supabase.co
	APIKey      string
	AccessToken string // bearer token of the signed-in user; APIKey when empty
	Table       string
	Timeout     time.Duration
	HTTPClient  *http.Client
	Logger      *slog.Logger
}

// Client implements core.RemoteStore over HTTP.
type Client struct {
	base   string
	config Config
	http   *http.Client
	logger *slog.Logger
}

// New validates config and creates a client.
func New(config Config) (*Client, error) {
	if config.URL == "" {
		return nil, errors.New("postgrest: url is required")
	}
	if _, err := url.Parse(config.URL); err != nil {
		return nil, fmt.Errorf("postgrest: invalid url: %w", err)
	}
	if config.APIKey == "" {
		return nil, errors.New("postgrest: api key is required")
	}
	if config.Table == "" {
		config.Table = DefaultTable
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		base:   strings.TrimRight(config.URL, "/") + "/rest/v1/" + url.PathEscape(config.Table),
		config: config,
		http:   httpClient,
		logger: logger,
	}, nil
}

// List implements core.RemoteStore.
func (c *Client) List(ctx context.Context, f core.Filter) ([]core.Note, error) {
	q := "select=*"
	if f.UserID != "" {
		q += "&user_id=eq." + queryEscape(f.UserID)
	}
	if f.HasSpace() {
		q += "&space=eq." + queryEscape(f.Space)
	}
	q += "&order=updated_at.desc"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"?"+q, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrRemoteUnavailable, err)
	}
	c.authorize(req)

	body, err := c.do(req, "list", core.ErrRemoteUnavailable)
	if err != nil {
		return nil, err
	}

	var notes []core.Note
	if err := json.Unmarshal(body, &notes); err != nil {
		return nil, fmt.Errorf("%w: decode notes: %w", core.ErrRemoteUnavailable, err)
	}
	c.logger.Debug("remote list", "user_id", f.UserID, "space", f.Space, "count", len(notes))
	return notes, nil
}

// Upsert implements core.RemoteStore.
func (c *Client) Upsert(ctx context.Context, n core.Note) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("%w: encode note: %w", core.ErrRemoteWriteFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrRemoteWriteFailed, err)
	}
	c.authorize(req)
	req.Header.Set("Prefer", "resolution=merge-duplicates,return=minimal")

	if _, err := c.do(req, "upsert", core.ErrRemoteWriteFailed); err != nil {
		return err
	}
	c.logger.Debug("remote upsert", "id", n.ID)
	return nil
}

func (c *Client) authorize(req *http.Request) {
	token := c.config.AccessToken
	if token == "" {
		token = c.config.APIKey
	}
	req.Header.Set("apikey", c.config.APIKey)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}

// do sends req and returns the body of a 2xx response. Failures wrap class.
func (c *Client) do(req *http.Request, op string, class error) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", class, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", class, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	e := &Error{Op: op, Status: resp.StatusCode, class: class}
	if len(body) > 0 {
		// Non-JSON bodies (proxies, gateways) keep the status text.
		if jerr := json.Unmarshal(body, e); jerr != nil {
			e.Message = strings.TrimSpace(string(body))
		}
	}
	e.cause = classify(e.Status, e.Code, e.Message)
	c.logger.Debug("remote request failed", "op", op, "status", e.Status, "code", e.Code)
	return nil, e
}

func queryEscape(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
}

var _ core.RemoteStore = (*Client)(nil)
