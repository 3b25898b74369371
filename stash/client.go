package stash

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const queryTimeout = 10 * time.Second

// Client talks to a Stash instance over its GraphQL and image endpoints
type Client struct {
	host   string
	apiKey string
	client *http.Client
	debug  bool
}

// NewClient creates a Stash client. apiKey may be empty when Stash runs
// without authentication.
func NewClient(host, apiKey string, debug bool) *Client {
	return &Client{
		host:   strings.TrimRight(host, "/"),
		apiKey: apiKey,
		client: &http.Client{
			Timeout: queryTimeout,
		},
		debug: debug,
	}
}

// Host returns the configured Stash base URL
func (c *Client) Host() string {
	return c.host
}

// findScenesEnvelope mirrors the GraphQL response shape
type findScenesEnvelope struct {
	Data struct {
		FindScenes struct {
			Scenes []SceneRecord `json:"scenes"`
		} `json:"findScenes"`
	} `json:"data"`
}

// FindScenes runs the scene query for a filter clause and returns the
// matching scenes in backend order.
func (c *Client) FindScenes(ctx context.Context, filterClause string) ([]SceneRecord, error) {
	query := SceneQuery(filterClause)

	if c.debug {
		log.Printf("GraphQL Query: %s", query)
		log.Printf("Stash Host: %s", c.host)
		log.Printf("Clickable GraphQL URL (encoded): %s/graphql?query=%s", c.host, url.QueryEscape(query))
	}

	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/graphql", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("ApiKey", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stash GraphQL error: status %d", resp.StatusCode)
	}

	var envelope findScenesEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return envelope.Data.FindScenes.Scenes, nil
}

// GetImage fetches an image resource (e.g. /scene/42/screenshot) and returns
// its bytes and content type.
func (c *Client) GetImage(ctx context.Context, resourcePath string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+resourcePath, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	// No Content-Type here; Stash decides what it serves
	if c.apiKey != "" {
		req.Header.Set("ApiKey", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("stash image error: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	return data, contentType, nil
}
