// Package client fetches pages of loans from the loans endpoint.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"loandash/internal/logger"
	"loandash/internal/models"
	"loandash/internal/query"
)

const LoansPath = "/api/loans"

// TransportError reports a failed fetch: the request never completed, the
// endpoint answered with a non-success status, or the body was unreadable.
type TransportError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	return e.Message
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransportError reports whether err is or wraps a *TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the request timeout on a copy of the current http.Client,
// so a client passed through WithHTTPClient is never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL is the full request URL for d.
func (c *Client) URL(d query.Descriptor) string {
	return c.baseURL + LoansPath + "?" + d.Encode()
}

// FetchPage performs one request for the page described by d.
func (c *Client) FetchPage(ctx context.Context, d query.Descriptor) (models.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(d), nil)
	if err != nil {
		return models.Page{}, &TransportError{Message: fmt.Sprintf("failed to build request: %v", err), Err: err}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.Page{}, &TransportError{Message: fmt.Sprintf("failed to fetch loans: %v", err), Err: err}
	}
	defer resp.Body.Close()

	logger.Log.WithFields(logrus.Fields{
		"query":    d.Encode(),
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("Fetched loans page")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return models.Page{}, &TransportError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("failed to fetch loans: %s", resp.Status),
		}
	}

	var page models.Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return models.Page{}, &TransportError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("failed to decode loans: %v", err),
			Err:        err,
		}
	}
	if page.Loans == nil {
		page.Loans = []models.Loan{}
	}
	return page, nil
}
