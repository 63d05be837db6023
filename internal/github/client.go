package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/tamnara/scrumbot/internal/tracking"
)

const (
	defaultEndpoint = "https://api.github.com/graphql"

	// MaxPages bounds FetchAll against a misbehaving cursor.
	MaxPages = 10
	pageSize = 100
)

type Client struct {
	token      string
	org        string
	number     int
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

type Option func(*Client)

// WithEndpoint points the client at another GraphQL endpoint.
func WithEndpoint(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.endpoint = url
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func NewClient(token, org string, projectNumber int, opts ...Option) *Client {
	c := &Client{
		token:      token,
		org:        org,
		number:     projectNumber,
		endpoint:   defaultEndpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(500*time.Millisecond), 2),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Page is one page of project items.
type Page struct {
	Items       []tracking.Item
	HasNextPage bool
	EndCursor   string
}

// FetchPage fetches the page after the given cursor ("" for the first page).
// Failures are logged and come back as an empty page: callers see "no data",
// never an error.
func (c *Client) FetchPage(ctx context.Context, after string) Page {
	page, err := c.fetchPage(ctx, after)
	if err != nil {
		c.logger.Error("project page fetch failed", "error", err, "after", after)
		return Page{Items: []tracking.Item{}}
	}
	return page
}

// FetchAll walks the pagination cursor until the last page or MaxPages,
// returning items in fetch order. A failing first page is an error; a later
// failing page ends the walk with whatever was collected before it. The walk
// also stops when the API reports more pages without a new cursor.
func (c *Client) FetchAll(ctx context.Context) ([]tracking.Item, error) {
	all := []tracking.Item{}
	cursor := ""

	for page := 1; ; page++ {
		p, err := c.fetchPage(ctx, cursor)
		if err != nil {
			if page == 1 {
				return nil, fmt.Errorf("failed to fetch first project page: %w", err)
			}
			c.logger.Error("project page fetch failed", "page", page, "error", err)
			break
		}

		all = append(all, p.Items...)
		c.logger.Debug("project page fetched", "page", page, "items", len(p.Items), "total", len(all))

		if !p.HasNextPage {
			break
		}
		if page >= MaxPages {
			c.logger.Warn("project page limit reached", "pages", MaxPages, "total", len(all))
			break
		}
		if p.EndCursor == "" || p.EndCursor == cursor {
			c.logger.Warn("project pagination cursor did not advance", "page", page, "cursor", p.EndCursor, "total", len(all))
			break
		}
		cursor = p.EndCursor
	}

	c.logger.Info("project items fetched", "total", len(all))
	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, after string) (Page, error) {
	vars := map[string]any{
		"org":    c.org,
		"number": c.number,
		"first":  pageSize,
	}
	if after != "" {
		vars["after"] = after
	}

	var data projectData
	if err := c.do(ctx, itemsQuery, vars, &data); err != nil {
		return Page{}, err
	}
	if data.Organization == nil || data.Organization.ProjectV2 == nil {
		return Page{}, fmt.Errorf("unexpected response shape: missing organization.projectV2")
	}

	conn := data.Organization.ProjectV2.Items
	items := make([]tracking.Item, 0, len(conn.Nodes))
	for _, n := range conn.Nodes {
		items = append(items, n.toItem())
	}

	return Page{
		Items:       items,
		HasNextPage: conn.PageInfo.HasNextPage,
		EndCursor:   conn.PageInfo.EndCursor,
	}, nil
}

// HealthCheck verifies the token by asking for the viewer login.
func (c *Client) HealthCheck(ctx context.Context) error {
	var data struct {
		Viewer struct {
			Login string `json:"login"`
		} `json:"viewer"`
	}
	if err := c.do(ctx, viewerQuery, nil, &data); err != nil {
		return err
	}
	if data.Viewer.Login == "" {
		return fmt.Errorf("health check returned no viewer")
	}
	return nil
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

func (c *Client) do(ctx context.Context, query string, vars map[string]any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	body, err := json.Marshal(graphQLRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("failed to encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(b))
	}

	var result graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("API reported %d error(s): %s", len(result.Errors), result.Errors[0].Message)
	}
	if len(result.Data) == 0 || string(result.Data) == "null" {
		return fmt.Errorf("response carried no data")
	}
	if err := json.Unmarshal(result.Data, out); err != nil {
		return fmt.Errorf("failed to decode data: %w", err)
	}
	return nil
}
