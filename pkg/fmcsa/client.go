// Package fmcsa looks up motor carriers in the FMCSA registry.
package fmcsa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://mobile.fmcsa.dot.gov/qc/services"

var (
	ErrNotFound = errors.New("carrier not found")
	ErrTimeout  = errors.New("fmcsa request timed out")
)

// StatusError is returned for any non-200, non-404 response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("FMCSA API error: %d", e.Code)
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Carrier is the subset of the registry record used for eligibility. Raw
// keeps the full document.
type Carrier struct {
	LegalName    string         `json:"legal_name"`
	Status       string         `json:"status"`
	OutOfService bool           `json:"out_of_service"`
	Raw          map[string]any `json:"-"`
}

func (c *Client) GetCarrier(ctx context.Context, mcNumber string) (*Carrier, error) {
	endpoint := fmt.Sprintf("%s/carriers/%s", c.baseURL, url.PathEscape(mcNumber))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, ErrTimeout
		}
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		if isTimeout(err) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("failed to parse JSON: %v", err)
	}

	carrier := &Carrier{Raw: raw}
	if s, ok := raw["legal_name"].(string); ok {
		carrier.LegalName = s
	}
	if s, ok := raw["status"].(string); ok {
		carrier.Status = s
	}
	if b, ok := raw["out_of_service"].(bool); ok {
		carrier.OutOfService = b
	}
	return carrier, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
