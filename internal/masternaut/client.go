// Package masternaut is the client for the Masternaut Connect fleet-tracking
// API, the upstream source of raw journey events. It owns the paging contract
// (fixed-size pages accumulated until the reported page count is exhausted)
// and nothing else — cleaning and persistence happen downstream.
package masternaut

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sethvargo/go-retry"
)

// ErrBadResponse marks a response that decoded but did not have the expected
// shape (most importantly: no "items" list). Callers can tell it apart from
// transport failures with errors.Is.
var ErrBadResponse = errors.New("unexpected api response")

const (
	journeyDetailPath = "/journey/detail/vehicle"

	// apiTimeFormat is the timestamp layout the API expects in query
	// parameters and returns in event fields. Always UTC.
	apiTimeFormat = "2006-01-02T15:04:05"

	defaultPageSize  = 200
	requestTimeout   = 40 * time.Second
	maxPageRetries   = 3
	retryBaseBackoff = 500 * time.Millisecond
)

// RawJourney is one journey event exactly as the API reports it. Optional
// fields are pointers so "absent" survives decoding; the normalizer supplies
// defaults.
type RawJourney struct {
	StartDate       string      `json:"startDate"`
	EndDate         string      `json:"endDate"`
	StartAddress    *string     `json:"startAddress,omitempty"`
	EndAddress      *string     `json:"endAddress,omitempty"`
	StartCoordinate *Coordinate `json:"startCoordinate,omitempty"`
	EndCoordinate   *Coordinate `json:"endCoordinate,omitempty"`
}

// Coordinate is a WGS84 pair carried opaquely through the pipeline.
type Coordinate struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// page is one decoded API page. Items and TotalPages are pointers so a
// response missing them is distinguishable from an empty list / zero count.
type page struct {
	Items      *[]RawJourney `json:"items"`
	TotalPages *int          `json:"totalPages"`
	TotalCount int           `json:"totalCount"`
}

// Client fetches vehicle journeys over HTTP with basic auth.
type Client struct {
	baseURL  string
	username string
	password string
	pageSize int
	http     *http.Client
}

// NewClient builds a Client for the given endpoint and credentials.
// baseURL is the API root without trailing slash.
func NewClient(baseURL, username, password string) *Client {
	return &Client{
		baseURL:  baseURL,
		username: username,
		password: password,
		pageSize: defaultPageSize,
		http:     &http.Client{Timeout: requestTimeout},
	}
}

// VehicleJourneys returns every raw journey event for the vehicle inside the
// [start, end] window, accumulated across all pages. The window bounds are
// converted to UTC for the API.
//
// Any page failing is fatal for the whole call: a partial window would make
// the downstream idle-time recomputation silently wrong.
func (c *Client) VehicleJourneys(ctx context.Context, vehicleID string, start, end time.Time) ([]RawJourney, error) {
	var items []RawJourney

	pageIndex := 0
	for {
		p, err := c.fetchPage(ctx, vehicleID, start, end, pageIndex)
		if err != nil {
			return nil, fmt.Errorf("masternaut.Client.VehicleJourneys: vehicle %s page %d: %w", vehicleID, pageIndex, err)
		}

		items = append(items, *p.Items...)
		pageIndex++

		if p.TotalPages == nil || pageIndex >= *p.TotalPages {
			break
		}
	}

	return items, nil
}

// fetchPage requests a single page, retrying transport-level failures with
// exponential backoff. Shape errors are not retried: a malformed body will
// not get better on the second attempt.
func (c *Client) fetchPage(ctx context.Context, vehicleID string, start, end time.Time, pageIndex int) (page, error) {
	q := url.Values{}
	q.Set("startDate", start.UTC().Format(apiTimeFormat))
	q.Set("endDate", end.UTC().Format(apiTimeFormat))
	q.Set("vehicleId", vehicleID)
	q.Set("pageSize", strconv.Itoa(c.pageSize))
	q.Set("pageIndex", strconv.Itoa(pageIndex))

	requestURL := c.baseURL + journeyDetailPath + "?" + q.Encode()

	var result page
	backoff := retry.WithMaxRetries(maxPageRetries, retry.NewExponential(retryBaseBackoff))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return err
		}
		req.SetBasicAuth(c.username, c.password)

		resp, err := c.http.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return retry.RetryableError(fmt.Errorf("status %s", resp.Status))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("status %s", resp.Status)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return retry.RetryableError(err)
		}

		var p page
		if err := json.Unmarshal(body, &p); err != nil {
			return fmt.Errorf("%w: %v", ErrBadResponse, err)
		}
		if p.Items == nil {
			return fmt.Errorf("%w: missing items list", ErrBadResponse)
		}

		result = p
		return nil
	})
	if err != nil {
		return page{}, err
	}
	return result, nil
}
