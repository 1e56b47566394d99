package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/actvis/internal/dto"
	"github.com/aretw0/actvis/internal/logging"
	"github.com/aretw0/actvis/pkg/domain"
	"github.com/aretw0/actvis/pkg/ports"
	"github.com/aretw0/actvis/pkg/source"
)

// maxResponseSize caps how much of a graph service answer is read.
const maxResponseSize = 16 << 20

var (
	_ ports.GraphSource   = (*Client)(nil)
	_ ports.ActionCatalog = (*Client)(nil)
)

// Client talks to the graph service: POST /parse for graphs and
// POST /actions for the action catalog.
type Client struct {
	baseURL     string
	http        *http.Client
	maxTextSize int
	logger      *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout bounds every request made by the client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// WithMaxTextSize sets the source text size limit. Zero uses the default.
func WithMaxTextSize(n int) ClientOption {
	return func(c *Client) {
		c.maxTextSize = n
	}
}

// WithClientLogger sets the structured logger.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type parseRequest struct {
	Text   string `json:"text"`
	Action string `json:"action,omitempty"`
}

type actionsRequest struct {
	Text string `json:"text"`
}

// FetchGraph asks the service for the activity graph of text. A non-empty
// entry names the action to expand.
func (c *Client) FetchGraph(ctx context.Context, text, entry string) (domain.Graph, error) {
	clean, err := source.SanitizeText(text, c.maxTextSize)
	if err != nil {
		return domain.Graph{}, err
	}

	raw, err := c.post(ctx, "/parse", parseRequest{Text: clean, Action: entry})
	if err != nil {
		return domain.Graph{}, err
	}
	p, err := dto.DecodeGraphPayload(raw)
	if err != nil {
		return domain.Graph{}, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	if p.Error != "" {
		return domain.Graph{}, fmt.Errorf("%w: %s", domain.ErrSourceRejected, p.Error)
	}
	g, err := p.ToDomain()
	if err != nil {
		return domain.Graph{}, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	c.logger.Debug("graph fetched", "entry", entry, "nodes", len(g.Nodes), "edges", len(g.Edges))
	return g, nil
}

// ListActions asks the service for the actions defined by text.
func (c *Client) ListActions(ctx context.Context, text string) ([]domain.ActionInfo, error) {
	clean, err := source.SanitizeText(text, c.maxTextSize)
	if err != nil {
		return nil, err
	}

	raw, err := c.post(ctx, "/actions", actionsRequest{Text: clean})
	if err != nil {
		return nil, err
	}
	p, err := dto.DecodeActions(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	if p.Error != "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrSourceRejected, p.Error)
	}
	return p.Actions, nil
}

// post sends body as JSON and returns the decoded answer. Transport failures
// and 5xx answers map to ErrSourceUnavailable, 4xx answers to
// ErrSourceRejected carrying the service's error message.
func (c *Client) post(ctx context.Context, path string, body any) (any, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	decodeErr := dec.Decode(&raw)

	if resp.StatusCode >= 300 {
		msg := errorMessage(raw)
		if msg == "" {
			msg = strings.TrimSpace(string(data))
		}
		c.logger.Warn("graph service error", "path", path, "status", resp.StatusCode, "err", msg)
		if resp.StatusCode >= 500 {
			return nil, fmt.Errorf("%w: status %d: %s", domain.ErrSourceUnavailable, resp.StatusCode, msg)
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrSourceRejected, msg)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: invalid JSON response: %v", domain.ErrSourceUnavailable, decodeErr)
	}
	return raw, nil
}

func errorMessage(raw any) string {
	m, ok := raw.(map[string]any)
	if !ok {
		return ""
	}
	s, _ := m["error"].(string)
	return s
}
