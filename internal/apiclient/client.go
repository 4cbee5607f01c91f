package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"wordbook/internal/domain"
	"wordbook/internal/session"
)

// Client calls the vocabulary API on behalf of a session
type Client struct {
	baseURL    string
	sess       *session.Session
	httpClient *http.Client
}

// New creates a client for the API at baseURL
func New(baseURL string, sess *session.Session) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		sess:       sess,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// StatusError is returned for non-2xx API responses
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Body)
}

// ListVocab fetches records matching query, newest first. take <= 0 leaves the server default.
func (c *Client) ListVocab(ctx context.Context, query string, take int) ([]domain.Word, error) {
	params := url.Values{}
	if query != "" {
		params.Set("q", query)
	}
	if take > 0 {
		params.Set("take", strconv.Itoa(take))
	}

	path := "/vocab"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	resp, err := c.do(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}

	var words []domain.Word
	if err := decodeJSON(resp, &words); err != nil {
		return nil, err
	}
	return words, nil
}

func (c *Client) do(ctx context.Context, method, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	c.sess.Apply(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api not reachable at %s: %w", c.baseURL, err)
	}
	return resp, nil
}

func decodeJSON(resp *http.Response, v any) error {
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("server returned %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
