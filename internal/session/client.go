package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	loginPath  = "/auth/login"
	signupPath = "/auth/signup"
)

// emailPattern is deliberately loose and unanchored
var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// LooksLikeEmail reports whether v resembles an email address
func LooksLikeEmail(v string) bool {
	return emailPattern.MatchString(v)
}

// AuthError is returned when the auth service rejects a request.
// Its message is the last response body, or "HTTP <status>" when the body was empty.
type AuthError struct {
	Status int
	Body   string
}

func (e *AuthError) Error() string {
	if e.Body != "" {
		return e.Body
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// AuthUser is the user object returned by the auth service
type AuthUser struct {
	ID       any    `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// AuthResponse is the body of a successful login or signup
type AuthResponse struct {
	Token string    `json:"token,omitempty"`
	Email string    `json:"email,omitempty"`
	User  *AuthUser `json:"user,omitempty"`
}

// email returns the address reported by the auth service
func (r *AuthResponse) email() string {
	if r.User != nil {
		if e := strings.TrimSpace(r.User.Email); e != "" {
			return e
		}
	}
	return strings.TrimSpace(r.Email)
}

// Client talks to the external auth service
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates an auth client for the service at baseURL
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// loginCandidates lists the payload shapes tried for an identifier, in order
func loginCandidates(identifier, password string) []map[string]string {
	candidates := []map[string]string{
		{"identifier": identifier, "password": password},
	}
	if LooksLikeEmail(identifier) {
		return append(candidates,
			map[string]string{"email": identifier, "password": password},
			map[string]string{"username": identifier, "password": password},
		)
	}
	return append(candidates,
		map[string]string{"username": identifier, "password": password},
		map[string]string{"email": identifier, "password": password},
	)
}

// Login authenticates with a username or email and stores the result in sess.
// Payload shapes are tried in turn; only 400 and 401 move on to the next one.
func (c *Client) Login(ctx context.Context, sess *Session, identifier, password string) (*AuthResponse, error) {
	identifier = strings.TrimSpace(identifier)

	var lastErr *AuthError
	for i, payload := range loginCandidates(identifier, password) {
		status, body, err := c.post(ctx, loginPath, payload)
		if err != nil {
			return nil, err
		}

		if status >= 200 && status < 300 {
			resp, err := parseAuthResponse(body)
			if err != nil {
				return nil, err
			}

			email := resp.email()
			if email == "" && LooksLikeEmail(identifier) {
				email = identifier
			}
			if err := sess.store(resp.Token, email); err != nil {
				return nil, fmt.Errorf("saving session: %w", err)
			}

			c.logger.Info("Logged in",
				zap.String("email", email),
				zap.Int("attempt", i+1),
			)
			return resp, nil
		}

		lastErr = &AuthError{Status: status, Body: string(body)}
		c.logger.Debug("Login attempt rejected",
			zap.Int("attempt", i+1),
			zap.Int("status", status),
		)
		if status != http.StatusBadRequest && status != http.StatusUnauthorized {
			break
		}
	}

	return nil, lastErr
}

// Signup registers a new account and stores the result in sess
func (c *Client) Signup(ctx context.Context, sess *Session, username, email, password string) (*AuthResponse, error) {
	email = strings.TrimSpace(email)

	status, body, err := c.post(ctx, signupPath, map[string]string{
		"username": strings.TrimSpace(username),
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &AuthError{Status: status, Body: string(body)}
	}

	resp, err := parseAuthResponse(body)
	if err != nil {
		return nil, err
	}

	resolved := resp.email()
	if resolved == "" {
		resolved = email
	}
	if err := sess.store(resp.Token, resolved); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	c.logger.Info("Signed up", zap.String("email", resolved))
	return resp, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (int, []byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("marshalling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("auth service not reachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("reading response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// parseAuthResponse decodes a success body; an empty body is an empty response
func parseAuthResponse(body []byte) (*AuthResponse, error) {
	resp := &AuthResponse{}
	if len(bytes.TrimSpace(body)) == 0 {
		return resp, nil
	}
	if err := json.Unmarshal(body, resp); err != nil {
		return nil, fmt.Errorf("decoding auth response: %w", err)
	}
	return resp, nil
}
