package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client provisions per-customer and per-order folders in the storage
// provider. Customer folder ids are memoized through the FolderCache so
// repeated orders by the same customer skip a remote round trip.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	folders    FolderCache
}

func NewClient(baseURL, apiKey string, folders FolderCache) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		folders: folders,
	}
}

func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

type folderRequest struct {
	Name   string `json:"name"`
	Parent string `json:"parent,omitempty"`
}

type folderResponse struct {
	ID string `json:"id"`
}

func (c *Client) createFolder(ctx context.Context, name, parent string) (string, error) {
	body, err := json.Marshal(folderRequest{Name: name, Parent: parent})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/folders", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("create folder failed with status: %d", resp.StatusCode)
	}

	var result folderResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if result.ID == "" {
		return "", fmt.Errorf("create folder: empty id in response")
	}
	return result.ID, nil
}

// EnsureCustomerFolder returns the folder id for a customer, creating it
// on first use.
func (c *Client) EnsureCustomerFolder(ctx context.Context, email string) (string, error) {
	if id, ok := c.folders.Get(email); ok {
		return id, nil
	}

	id, err := c.createFolder(ctx, email, "")
	if err != nil {
		return "", err
	}
	c.folders.Set(email, id)
	return id, nil
}

// CreateProjectFolder creates a folder for one order under the customer's
// folder and returns its id.
func (c *Client) CreateProjectFolder(ctx context.Context, email, name string) (string, error) {
	parent, err := c.EnsureCustomerFolder(ctx, email)
	if err != nil {
		return "", err
	}
	return c.createFolder(ctx, name, parent)
}
