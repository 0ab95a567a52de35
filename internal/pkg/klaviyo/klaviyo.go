// Package klaviyo is the client for the list-subscription provider. A
// non-2xx response is a terminal failure for the request; there is no retry
// inside the request path.
package klaviyo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/launch6/linkinbio-sub000/internal/pkg/env"
)

// SubscribeTimeout is the hard upper bound on one provider call. The
// request is aborted cleanly when it elapses instead of hanging the caller.
const SubscribeTimeout = 7 * time.Second

const defaultBaseURL = "https://a.klaviyo.com"

type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewClient builds a client from the environment. An empty API key leaves
// the client disabled; signups are then only recorded locally.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: SubscribeTimeout},
		apiKey:     env.GetEnv("KLAVIYO_API_KEY", ""),
		baseURL:    env.GetEnv("KLAVIYO_BASE_URL", defaultBaseURL),
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type subscribeRequest struct {
	Profiles []subscribeProfile `json:"profiles"`
}

type subscribeProfile struct {
	Email string `json:"email"`
}

// Subscribe adds one email to a list. The context carries the request
// deadline; the client timeout is the backstop.
func (c *Client) Subscribe(ctx context.Context, listID, email string) error {
	if !c.Enabled() {
		return fmt.Errorf("klaviyo API key is not set")
	}
	if listID == "" {
		return fmt.Errorf("klaviyo list id is empty")
	}

	body, err := json.Marshal(subscribeRequest{Profiles: []subscribeProfile{{Email: email}}})
	if err != nil {
		return fmt.Errorf("failed to encode klaviyo request: %w", err)
	}

	url := fmt.Sprintf("%s/api/v2/list/%s/subscribe?api_key=%s", c.baseURL, listID, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build klaviyo request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error would echo the full URL including the api_key query
		// param; report only the operation.
		return fmt.Errorf("klaviyo subscribe call failed: request aborted or timed out")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("klaviyo subscribe returned status %d", resp.StatusCode)
	}
	return nil
}
