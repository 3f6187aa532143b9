// Package karma talks to the Adjutor Karma blacklist API. It is consulted
// once at registration time, outside any store transaction.
package karma

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrVerificationFailed is returned when the blacklist cannot be consulted.
// Registration must not proceed on this error.
var ErrVerificationFailed = errors.New("Identity verification failed. Please try again later or contact support.")

// Checker reports whether a national identifier is blacklisted.
type Checker interface {
	IsBlacklisted(ctx context.Context, bvn string) (bool, error)
}

// Client is the HTTP Checker implementation.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a karma client for the given API base URL and key.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type karmaResponse struct {
	Data         json.RawMessage `json:"data"`
	MockResponse bool            `json:"mock-response"`
}

// IsBlacklisted looks up a BVN on the Karma blacklist. A 404 means the
// identity is not listed; any transport or server failure is reported as
// ErrVerificationFailed rather than silently passing the check.
func (c *Client) IsBlacklisted(ctx context.Context, bvn string) (bool, error) {
	url := fmt.Sprintf("%s/verification/karma/%s", c.baseURL, bvn)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, ErrVerificationFailed
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return false, ErrVerificationFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, ErrVerificationFailed
	}

	var body karmaResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, ErrVerificationFailed
	}
	if body.MockResponse {
		return false, nil
	}
	return len(body.Data) > 0 && string(body.Data) != "null", nil
}
