// file: client/client_test.go

package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sn-inventory-api/model"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeAPI is a scripted stand-in for the inventory service. It tracks how
// many refresh calls it receives, which is the property most of these tests
// are really about.
type fakeAPI struct {
	mu           sync.Mutex
	validAccess  string
	validRefresh string
	refreshDelay time.Duration
	failRefresh  bool
	rejectSearch bool
	refreshCalls atomic.Int32
	loginCalls   atomic.Int32
}

func (f *fakeAPI) setValidAccess(accessToken string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.validAccess = accessToken
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()

	writeErr := func(w http.ResponseWriter, status int, code string) {
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]string{"code": code, "message": code})
	}

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		f.loginCalls.Add(1)
		var req model.LoginRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Username != "admin" || req.Password != "123456" {
			writeErr(w, http.StatusUnauthorized, "AUTH_INVALID_CREDENTIALS")
			return
		}
		f.mu.Lock()
		f.validAccess = "access-1"
		f.validRefresh = "refresh-1"
		f.mu.Unlock()
		json.NewEncoder(w).Encode(model.LoginResponse{
			User:         model.Identity{ID: 1, Username: "admin", Role: "admin"},
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
		})
	})

	mux.HandleFunc("POST /api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		f.refreshCalls.Add(1)
		f.mu.Lock()
		delay, fail, validRefresh := f.refreshDelay, f.failRefresh, f.validRefresh
		f.mu.Unlock()

		if delay > 0 {
			time.Sleep(delay)
		}

		var req model.RefreshRequest
		json.NewDecoder(r.Body).Decode(&req)
		if fail || req.RefreshToken != validRefresh {
			writeErr(w, http.StatusUnauthorized, "AUTH_REFRESH_TOKEN_INVALID")
			return
		}

		f.mu.Lock()
		f.validAccess = "access-2"
		f.mu.Unlock()
		json.NewEncoder(w).Encode(model.RefreshResponse{AccessToken: "access-2"})
	})

	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(model.MessageResponse{Message: "logged out"})
	})

	mux.HandleFunc("GET /api/sn/search", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		validAccess, reject := f.validAccess, f.rejectSearch
		f.mu.Unlock()
		if reject || validAccess == "" || r.Header.Get("Authorization") != "Bearer "+validAccess {
			writeErr(w, http.StatusUnauthorized, "AUTH_TOKEN_INVALID")
			return
		}
		json.NewEncoder(w).Encode([]string{"SN-A1B2C3D4"})
	})

	return mux
}

func newClientForTest(t *testing.T, api *fakeAPI) *Client {
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func loginForTest(t *testing.T, c *Client) {
	identity, err := c.Login(context.Background(), "admin", "123456")
	assert.NoError(t, err)
	assert.Equal(t, "admin", identity.Role)
}

func TestClient_TransparentRefreshAndReplay(t *testing.T) {
	api := &fakeAPI{}
	c := newClientForTest(t, api)
	loginForTest(t, c)

	// Simulate access token expiry server-side.
	api.setValidAccess("access-2")

	sns, err := c.SearchServers(context.Background(), "A1")
	assert.NoError(t, err, "caller should observe a transparent success")
	assert.Equal(t, []string{"SN-A1B2C3D4"}, sns)
	assert.Equal(t, int32(1), api.refreshCalls.Load())
	assert.Equal(t, "access-2", c.Session().AccessToken())
	assert.False(t, c.Session().LoggedOut())
}

func TestClient_ConcurrentFailuresShareOneRefresh(t *testing.T) {
	api := &fakeAPI{refreshDelay: 150 * time.Millisecond}
	c := newClientForTest(t, api)
	loginForTest(t, c)

	api.setValidAccess("access-2")

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.SearchServers(context.Background(), "A1")
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "call %d should succeed after the shared refresh", i)
	}
	// The invariant: N concurrently failing calls, exactly one refresh.
	assert.Equal(t, int32(1), api.refreshCalls.Load())
}

func TestClient_LoginFailureNeverTriggersRefresh(t *testing.T) {
	api := &fakeAPI{}
	c := newClientForTest(t, api)

	_, err := c.Login(context.Background(), "admin", "wrong-password")
	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "AUTH_INVALID_CREDENTIALS", apiErr.Code)
	assert.Equal(t, int32(0), api.refreshCalls.Load(), "a credential error is not a session-expiry event")
}

func TestClient_RefreshFailureLogsOutAllJoiners(t *testing.T) {
	api := &fakeAPI{refreshDelay: 100 * time.Millisecond, failRefresh: true}
	c := newClientForTest(t, api)
	loginForTest(t, c)

	api.setValidAccess("nope")

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.SearchServers(context.Background(), "A1")
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.ErrorIs(t, err, ErrLoggedOut, "call %d must fail together with the rest", i)
	}
	assert.True(t, c.Session().LoggedOut())
	assert.Empty(t, c.Session().AccessToken())
	assert.Equal(t, int32(1), api.refreshCalls.Load())
}

func TestClient_ReplayFailureDoesNotRefreshAgain(t *testing.T) {
	api := &fakeAPI{}
	c := newClientForTest(t, api)
	loginForTest(t, c)

	// The server rejects every access token from now on, including the
	// refreshed one; the client must not loop.
	api.mu.Lock()
	api.rejectSearch = true
	api.mu.Unlock()

	_, err := c.SearchServers(context.Background(), "A1")
	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, int32(1), api.refreshCalls.Load(), "at most one refresh per failing call")
}

func TestClient_CanceledJoinerDoesNotAffectOthers(t *testing.T) {
	api := &fakeAPI{refreshDelay: 200 * time.Millisecond}
	c := newClientForTest(t, api)
	loginForTest(t, c)

	api.setValidAccess("access-2")

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	var canceledErr, survivorErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		_, canceledErr = c.SearchServers(ctx, "A1")
	}()
	go func() {
		defer wg.Done()
		_, survivorErr = c.SearchServers(context.Background(), "A1")
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	wg.Wait()

	assert.Error(t, canceledErr)
	assert.NoError(t, survivorErr, "the surviving joiner must still get the refreshed token")
	assert.Equal(t, int32(1), api.refreshCalls.Load())
	assert.False(t, c.Session().LoggedOut())
}

func TestClient_LogoutClearsSession(t *testing.T) {
	api := &fakeAPI{}
	c := newClientForTest(t, api)
	loginForTest(t, c)

	assert.NoError(t, c.Logout(context.Background()))
	assert.True(t, c.Session().LoggedOut())
	assert.Empty(t, c.Session().RefreshToken())

	// Calls after logout fail terminally instead of refreshing.
	_, err := c.SearchServers(context.Background(), "A1")
	assert.ErrorIs(t, err, ErrLoggedOut)
	assert.Equal(t, int32(0), api.refreshCalls.Load())
}
