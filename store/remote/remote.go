// Package remote implements store.Store against the graphboard REST server.
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
	"time"

	"graphboard/graph"
	"graphboard/store"
)

// Client talks to a server started with the serve command.
type Client struct {
	base string
	http *http.Client
}

var _ store.Store = (*Client)(nil)

// New returns a client for the server at baseURL. A nil httpClient uses a
// client with a 30 second timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{base: strings.TrimRight(baseURL, "/"), http: httpClient}
}

type errorBody struct {
	Error string `json:"error"`
}

// do sends a request and decodes a JSON response into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w: %v", method, path, store.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var eb errorBody
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		return fmt.Errorf("%s %s: %w", method, path, statusError(resp.StatusCode, eb.Error))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s: %w", method, path, err)
	}
	return nil
}

func statusError(status int, msg string) error {
	if msg == "" {
		msg = http.StatusText(status)
	}
	switch status {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", store.ErrNotFound, msg)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", store.ErrConflict, msg)
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %s", store.ErrUnavailable, msg)
	default:
		return fmt.Errorf("status %d: %s", status, msg)
	}
}

func (c *Client) ListNodes(ctx context.Context) ([]graph.Node, error) {
	var nodes []graph.Node
	err := c.do(ctx, http.MethodGet, "/api/nodes", nil, &nodes)
	return nodes, err
}

func (c *Client) ListRelations(ctx context.Context) ([]graph.Relation, error) {
	var rels []graph.Relation
	err := c.do(ctx, http.MethodGet, "/api/relations", nil, &rels)
	return rels, err
}

func (c *Client) CreateNode(ctx context.Context, draft graph.Draft) (graph.Node, error) {
	var n graph.Node
	err := c.do(ctx, http.MethodPost, "/api/nodes", draft, &n)
	return n, err
}

func (c *Client) UpdateNode(ctx context.Context, id string, patch graph.Patch) error {
	return c.do(ctx, http.MethodPatch, "/api/nodes/"+url.PathEscape(id), patch, nil)
}

func (c *Client) DeleteNode(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/nodes/"+url.PathEscape(id), nil, nil)
}

func (c *Client) CreateRelation(ctx context.Context, rel graph.Relation) (graph.Relation, error) {
	var out graph.Relation
	err := c.do(ctx, http.MethodPost, "/api/relations", rel, &out)
	return out, err
}

func (c *Client) DeleteRelation(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/relations/"+url.PathEscape(id), nil, nil)
}
