// Package ics fetches a festival catalog from a public iCalendar feed.
//
// Only the VEVENT subset the dashboard needs is consumed: SUMMARY, DTSTART
// and DTEND. All-day events use date-only values with an exclusive DTEND in
// the source format; parsing converts them to the inclusive closed intervals
// the domain works with.
package ics

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/helpline-analytics/internal/domain"
)

// maxFeedBytes caps how much of a feed body is read; public holiday feeds
// are a few hundred KB at most.
const maxFeedBytes = 8 << 20

// FeedUnavailableError wraps any network, HTTP, or parse failure while
// fetching the festival feed. Callers treat the catalog as empty rather
// than failing the session.
type FeedUnavailableError struct {
	URL string
	Err error
}

func (e *FeedUnavailableError) Error() string {
	return fmt.Sprintf("festival feed unavailable: %s: %v", e.URL, e.Err)
}

func (e *FeedUnavailableError) Unwrap() error { return e.Err }

// Client fetches festival intervals from an ICS feed over HTTP.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a feed client with a fixed request timeout.
func NewClient(url string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch performs one GET of the feed and parses it into an ordered festival
// catalog. Document order is preserved; it defines the catalog order the
// tagging tie-break depends on. Any failure is returned as a
// *FeedUnavailableError.
func (c *Client) Fetch(ctx context.Context) ([]domain.FestivalInterval, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, &FeedUnavailableError{URL: c.url, Err: fmt.Errorf("create request: %w", err)}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FeedUnavailableError{URL: c.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FeedUnavailableError{URL: c.url, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	catalog, err := ParseCalendar(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, &FeedUnavailableError{URL: c.url, Err: err}
	}

	c.logger.Info("festival feed fetched", "url", c.url, "events", len(catalog))
	return catalog, nil
}
