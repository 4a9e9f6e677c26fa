package qr

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client fetches QR code PNGs from the external QR generation API. Used to
// render customer-link URLs as printable/scannable codes.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Generate returns PNG bytes encoding data at size x size pixels.
func (c *Client) Generate(data string, size int) ([]byte, error) {
	if size <= 0 {
		size = 300
	}

	endpoint := strings.TrimSuffix(c.baseURL, "/") + "/create-qr-code/"
	query := url.Values{}
	query.Set("data", data)
	query.Set("size", fmt.Sprintf("%dx%d", size, size))
	query.Set("format", "png")

	req, err := http.NewRequest("GET", endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to generate qr code: status %d, body: %s", resp.StatusCode, string(body))
	}

	return body, nil
}
