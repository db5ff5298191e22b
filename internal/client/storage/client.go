package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/s21platform/chat-sync/internal/config"
)

type Client struct {
	baseURL    string
	publicURL  string
	httpClient *http.Client
}

func New(cfg *config.Config) *Client {
	publicURL := cfg.Storage.PublicURL
	if publicURL == "" {
		publicURL = cfg.Storage.BaseURL
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.Storage.BaseURL, "/"),
		publicURL: strings.TrimRight(publicURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Storage.Timeout,
		},
	}
}

func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// Upload stores body under path and returns the URL it can be downloaded from.
// Canceling ctx aborts the transfer.
func (c *Client) Upload(ctx context.Context, path, contentType string, body io.Reader) (string, error) {
	path = strings.TrimLeft(path, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/"+path, body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // .

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return c.publicURL + "/" + path, nil
}
