// file: client/client.go

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sn-inventory-api/model"
	"time"
)

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// authFailure reports whether the response is the access-token rejection that
// should trigger the refresh protocol.
func (e *APIError) authFailure() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// Client is the outbound API client for the inventory service. It attaches
// the session's access token to every protected call; when a call is
// rejected with an authorization error it refreshes the access token through
// the shared session (at most one refresh in flight, however many calls fail
// at once) and replays the call exactly once.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		session:    NewSession(),
	}
}

// Session exposes the client's session state, e.g. for the application to
// detect the logged-out transition and redirect to re-authentication.
func (c *Client) Session() *Session {
	return c.session
}

// Login authenticates and installs the returned token pair on the session.
// An authorization failure here is a credential error, not a session-expiry
// event: it is surfaced directly and never triggers the refresh protocol.
func (c *Client) Login(ctx context.Context, username, password string) (*model.Identity, error) {
	body, err := json.Marshal(model.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, err
	}

	var resp model.LoginResponse
	if err := c.doOnce(ctx, http.MethodPost, "/api/auth/login", nil, body, "", &resp); err != nil {
		return nil, err
	}

	c.session.SetTokens(resp.AccessToken, resp.RefreshToken)
	return &resp.User, nil
}

// Logout revokes the refresh token server-side and destroys the session.
func (c *Client) Logout(ctx context.Context) error {
	refreshToken := c.session.RefreshToken()
	c.session.Clear()
	if refreshToken == "" {
		return nil
	}

	body, err := json.Marshal(model.LogoutRequest{RefreshToken: refreshToken})
	if err != nil {
		return err
	}
	var resp model.MessageResponse
	return c.doOnce(ctx, http.MethodPost, "/api/auth/logout", nil, body, "", &resp)
}

// SearchServers returns serial numbers matching the keyword.
func (c *Client) SearchServers(ctx context.Context, keyword string) ([]string, error) {
	query := url.Values{"keyword": {keyword}}
	var sns []string
	if err := c.doAuthed(ctx, http.MethodGet, "/api/sn/search", query, nil, &sns); err != nil {
		return nil, err
	}
	return sns, nil
}

// GetServer returns the inventory record for a serial number.
func (c *Client) GetServer(ctx context.Context, sn string) (*model.Server, error) {
	server := &model.Server{}
	if err := c.doAuthed(ctx, http.MethodGet, "/api/sn/"+url.PathEscape(sn), nil, nil, server); err != nil {
		return nil, err
	}
	return server, nil
}

// ListUsers returns every account. Requires an admin session.
func (c *Client) ListUsers(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	if err := c.doAuthed(ctx, http.MethodGet, "/api/users", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// doAuthed performs a protected call with the current access token. On an
// authorization failure it joins or leads the session's single refresh and
// replays once with the new token. A second authorization failure after the
// replay is returned as-is, so a permanently broken session cannot loop.
func (c *Client) doAuthed(ctx context.Context, method, path string, query url.Values, body []byte, out interface{}) error {
	err := c.doOnce(ctx, method, path, query, body, c.session.AccessToken(), out)

	var apiErr *APIError
	if !errors.As(err, &apiErr) || !apiErr.authFailure() {
		return err
	}

	if refreshErr := c.session.refreshOnce(ctx, c.refreshCall); refreshErr != nil {
		if errors.Is(refreshErr, context.Canceled) || errors.Is(refreshErr, context.DeadlineExceeded) {
			return refreshErr
		}
		return fmt.Errorf("%w: %v", ErrLoggedOut, refreshErr)
	}

	return c.doOnce(ctx, method, path, query, body, c.session.AccessToken(), out)
}

// refreshCall is the single HTTP round-trip to the refresh endpoint, run by
// the session's refresh leader.
func (c *Client) refreshCall(ctx context.Context, refreshToken string) (string, error) {
	body, err := json.Marshal(model.RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return "", err
	}

	var resp model.RefreshResponse
	if err := c.doOnce(ctx, http.MethodPost, "/api/auth/refresh", nil, body, "", &resp); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

func (c *Client) doOnce(ctx context.Context, method, path string, query url.Values, body []byte, accessToken string, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if decodeErr := json.NewDecoder(resp.Body).Decode(apiErr); decodeErr != nil {
			apiErr.Message = resp.Status
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
