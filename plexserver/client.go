package plexserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	queryTimeout  = 10 * time.Second
	uploadTimeout = 30 * time.Second
)

// Client talks to a Plex Media Server, authenticated by token
type Client struct {
	url    string
	token  string
	query  *http.Client
	upload *http.Client
}

// NewClient creates a PMS client
func NewClient(serverURL, token string) *Client {
	return &Client{
		url:    strings.TrimRight(serverURL, "/"),
		token:  token,
		query:  &http.Client{Timeout: queryTimeout},
		upload: &http.Client{Timeout: uploadTimeout},
	}
}

// URL returns the configured PMS base URL
func (c *Client) URL() string {
	return c.url
}

type sectionsEnvelope struct {
	MediaContainer struct {
		Directory []struct {
			Type string `json:"type"`
			Key  string `json:"key"`
		} `json:"Directory"`
	} `json:"MediaContainer"`
}

type searchEnvelope struct {
	MediaContainer struct {
		Metadata []pmsItem `json:"Metadata"`
	} `json:"MediaContainer"`
}

type pmsItem struct {
	RatingKey string `json:"ratingKey"`
	GUID      string `json:"guid"`
	Guids     []struct {
		ID string `json:"id"`
	} `json:"Guid"`
}

// MovieSectionKeys lists the keys of all movie-type library sections
func (c *Client) MovieSectionKeys(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"/library/sections?"+c.tokenQuery(nil), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.query.Do(req)
	if err != nil {
		return nil, fmt.Errorf("PMS sections request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("PMS sections error: status %d", resp.StatusCode)
	}

	var envelope sectionsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("PMS sections decode: %w", err)
	}

	var keys []string
	for _, directory := range envelope.MediaContainer.Directory {
		if directory.Type == "movie" {
			keys = append(keys, directory.Key)
		}
	}
	return keys, nil
}

// FindItem searches the given sections once for an item whose guid matches.
// Section-level failures are logged and skipped so one bad section does not
// hide matches in the others.
func (c *Client) FindItem(ctx context.Context, sectionKeys []string, title, guid string) (string, bool) {
	for _, key := range sectionKeys {
		items, err := c.searchSection(ctx, key, title)
		if err != nil {
			log.Printf("⚠️ PMS section %s search failed: %v", key, err)
			continue
		}

		for _, item := range items {
			if item.GUID == guid {
				return item.RatingKey, true
			}
			for _, g := range item.Guids {
				if g.ID == guid {
					return item.RatingKey, true
				}
			}
		}
	}
	return "", false
}

func (c *Client) searchSection(ctx context.Context, sectionKey, title string) ([]pmsItem, error) {
	params := url.Values{}
	params.Set("type", "1")
	params.Set("title", title)

	endpoint := fmt.Sprintf("%s/library/sections/%s/all?%s", c.url, sectionKey, c.tokenQuery(params))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.query.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var envelope searchEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, err
	}
	return envelope.MediaContainer.Metadata, nil
}

// UploadPoster pushes raw poster bytes onto the item's poster endpoint
func (c *Client) UploadPoster(ctx context.Context, ratingKey string, poster []byte) error {
	endpoint := fmt.Sprintf("%s/library/metadata/%s/posters?%s", c.url, ratingKey, c.tokenQuery(nil))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(poster))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.upload.Do(req)
	if err != nil {
		return fmt.Errorf("PMS poster upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("PMS poster upload: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) tokenQuery(params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	params.Set("X-Plex-Token", c.token)
	return params.Encode()
}
