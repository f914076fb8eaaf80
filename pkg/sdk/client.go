package matchdex

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Option configures the Client.
type Option interface {
	apply(*Client)
}

type optionFunc func(*Client)

func (f optionFunc) apply(c *Client) { f(c) }

// WithAPIKey sets the bearer token sent with every request.
func WithAPIKey(key string) Option {
	return optionFunc(func(c *Client) {
		c.apiKey = key
	})
}

// WithHTTPClient replaces the default HTTP client.
// The default has a 30s overall timeout; long-lived streams may need more.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *Client) {
		c.httpClient = hc
	})
}

// Client is the matchdex API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a client for the matchdex service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o.apply(c)
	}
	return c
}

// Search executes a hybrid search and returns the result stream.
// The caller must Close the stream.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchStream, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("matchdex: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("matchdex: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("matchdex: search: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, decodeAPIError(resp)
	}

	return &SearchStream{
		body:    resp.Body,
		scanner: bufio.NewScanner(resp.Body),
	}, nil
}

// SearchAll executes a search and collects the full stream into memory.
func (c *Client) SearchAll(ctx context.Context, req SearchRequest) ([]Hit, Metadata, error) {
	stream, err := c.Search(ctx, req)
	if err != nil {
		return nil, Metadata{}, err
	}
	defer stream.Close()

	var hits []Hit
	for stream.Next() {
		hits = append(hits, stream.Hit())
	}
	if err := stream.Err(); err != nil {
		return nil, Metadata{}, err
	}
	return hits, stream.Metadata(), nil
}

// Healthy reports whether the service is up. A degraded service
// returns an error naming the failing check.
func (c *Client) Healthy(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return fmt.Errorf("matchdex: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("matchdex: health: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("matchdex: service degraded (HTTP %d): %s", resp.StatusCode, bytes.TrimSpace(body))
}

// SearchStream iterates over an NDJSON result stream.
//
//	for stream.Next() { use(stream.Hit()) }
//	if stream.Err() != nil { ... }
//	meta := stream.Metadata()
type SearchStream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner

	current Hit
	meta    Metadata
	sawMeta bool
	err     error
	done    bool
}

// streamLine is the NDJSON envelope: everything plus a discriminator.
type streamLine struct {
	Type string `json:"type"`
	Hit
	Metadata
}

// Next advances to the next hit. Returns false at end of stream or on error.
func (s *SearchStream) Next() bool {
	if s.done {
		return false
	}
	for s.scanner.Scan() {
		line := bytes.TrimSpace(s.scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var l streamLine
		if err := json.Unmarshal(line, &l); err != nil {
			s.fail(fmt.Errorf("matchdex: malformed stream line: %w", err))
			return false
		}

		switch l.Type {
		case "hit":
			s.current = l.Hit
			return true
		case "metadata":
			s.meta = l.Metadata
			s.sawMeta = true
			s.done = true
			return false
		default:
			s.fail(fmt.Errorf("matchdex: unknown stream line type %q", l.Type))
			return false
		}
	}

	if err := s.scanner.Err(); err != nil {
		s.fail(fmt.Errorf("matchdex: read stream: %w", err))
		return false
	}
	// Stream ended without a metadata line: the server died mid-response.
	s.fail(errors.New("matchdex: stream truncated before metadata"))
	return false
}

// Hit returns the hit at the current position.
func (s *SearchStream) Hit() Hit { return s.current }

// Metadata returns the terminal metadata. Valid only after Next has
// returned false with a nil Err.
func (s *SearchStream) Metadata() Metadata { return s.meta }

// Err returns the first error encountered while iterating.
func (s *SearchStream) Err() error { return s.err }

// Close releases the underlying connection.
func (s *SearchStream) Close() error {
	s.done = true
	return s.body.Close()
}

func (s *SearchStream) fail(err error) {
	s.err = err
	s.done = true
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil || json.Unmarshal(body, apiErr) != nil || apiErr.Code == "" {
		apiErr.Code = "unknown"
		apiErr.Message = string(bytes.TrimSpace(body))
	}
	return apiErr
}
