// Package fhirclient is a read-only client for FHIR R4 search endpoints.
// It issues a single GET per search and returns the searchset Bundle as sent
// by the server; paging links are not followed.
package fhirclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hcdl/provider-search/internal/platform/fhir"
)

const (
	mimeFHIRJSON = "application/fhir+json"

	// maxBodyBytes caps how much of an upstream response is read.
	maxBodyBytes = 16 << 20
)

// StatusError is returned when the server answers a search with a non-2xx status.
type StatusError struct {
	ResourceType string
	StatusCode   int
	Body         string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s search returned HTTP %d", e.ResourceType, e.StatusCode)
}

// OutcomeError is returned when a searchset carries an OperationOutcome entry
// with error or fatal issues.
type OutcomeError struct {
	ResourceType string
	Outcome      fhir.OperationOutcome
}

func (e *OutcomeError) Error() string {
	return fmt.Sprintf("%s search failed: %s", e.ResourceType, e.Outcome.Diagnostics())
}

// Searcher runs a FHIR type-level search. *Client satisfies it.
type Searcher interface {
	Search(ctx context.Context, resourceType string, params url.Values) (*fhir.Bundle, error)
}

// Client talks to one FHIR base URL.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger attaches a logger for per-request diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a client for baseURL (e.g. "https://flex.optum.com/fhirpublic/R4").
func New(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must be http or https", baseURL)
	}
	c := &Client{
		baseURL: u.String(),
		http:    &http.Client{Timeout: timeout},
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalised base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// SearchURL builds the type-level search URL for resourceType.
func (c *Client) SearchURL(resourceType string, params url.Values) string {
	u := c.baseURL + "/" + resourceType
	if q := params.Encode(); q != "" {
		u += "?" + q
	}
	return u
}

// Search runs GET [base]/[resourceType]?params and decodes the searchset Bundle.
func (c *Client) Search(ctx context.Context, resourceType string, params url.Values) (*fhir.Bundle, error) {
	target := c.SearchURL(resourceType, params)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s search request: %w", resourceType, err)
	}
	req.Header.Set("Accept", mimeFHIRJSON+", application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("resource", resourceType).Msg("upstream search failed")
		return nil, fmt.Errorf("querying %s: %w", resourceType, err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("resource", resourceType).
		Str("url", target).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("upstream search")

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", resourceType, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn().Str("resource", resourceType).Int("status", resp.StatusCode).Msg("upstream search rejected")
		return nil, &StatusError{ResourceType: resourceType, StatusCode: resp.StatusCode, Body: truncate(string(body), 512)}
	}

	var bundle fhir.Bundle
	if err := json.Unmarshal(body, &bundle); err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", resourceType, err)
	}
	if bundle.ResourceType != "Bundle" {
		return nil, fmt.Errorf("parsing %s response: expected Bundle, got resourceType %q", resourceType, bundle.ResourceType)
	}

	outcomes, err := bundle.Outcomes()
	if err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", resourceType, err)
	}
	for _, oo := range outcomes {
		if oo.HasErrors() {
			c.logger.Warn().Str("resource", resourceType).Str("diagnostics", oo.Diagnostics()).Msg("upstream search failed with outcome")
			return nil, &OutcomeError{ResourceType: resourceType, Outcome: oo}
		}
		c.logger.Debug().Str("resource", resourceType).Str("diagnostics", oo.Diagnostics()).Msg("upstream search outcome")
	}
	return &bundle, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
