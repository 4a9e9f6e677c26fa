package voice

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client wraps the calling provider's REST API. Outbound calls bridge a
// requested callback to the office line; call progress is tracked by SID.
type Client struct {
	baseURL    string
	accountSID string
	authToken  string
	fromNumber string
	httpClient *http.Client
}

type callResponse struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
}

func NewClient(baseURL, accountSID, authToken, fromNumber string) *Client {
	return &Client{
		baseURL:    baseURL,
		accountSID: accountSID,
		authToken:  authToken,
		fromNumber: fromNumber,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Configured reports whether call credentials are present. The callback
// endpoint degrades to record-only when they are not.
func (c *Client) Configured() bool {
	return c.accountSID != "" && c.authToken != "" && c.fromNumber != ""
}

// StartCall places an outbound call to the given number and returns the
// provider's call SID.
func (c *Client) StartCall(toNumber, callbackURL string) (string, error) {
	endpoint := strings.TrimSuffix(c.baseURL, "/") +
		"/Accounts/" + c.accountSID + "/Calls.json"

	form := url.Values{}
	form.Set("To", toNumber)
	form.Set("From", c.fromNumber)
	form.Set("Url", callbackURL)

	req, err := http.NewRequest("POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to start call: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result callResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w, body: %s", err, string(body))
	}

	if result.SID == "" {
		return "", fmt.Errorf("call sid is empty in response, body: %s", string(body))
	}

	return result.SID, nil
}
