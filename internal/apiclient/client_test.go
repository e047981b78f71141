package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCreds is a minimal Credentials implementation with a settable token.
type testCreds struct {
	mu    sync.Mutex
	token string
	jar   http.CookieJar
}

func (c *testCreds) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *testCreds) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *testCreds) Jar() http.CookieJar { return c.jar }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL)
	require.NoError(t, err)
	return c
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	_, err := New("localhost")
	assert.Error(t, err)

	c, err := New("http://localhost:3000/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", c.BaseURL())
	assert.Equal(t, "http://localhost:3000/api/auth/google", c.GoogleLoginURL())
}

func TestNew_HTTPClientOptions(t *testing.T) {
	shared := &http.Client{Timeout: time.Minute}
	c, err := New("http://localhost:3000", WithHTTPClient(shared), WithTimeout(2*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, c.httpClient.Timeout)
	assert.Equal(t, time.Minute, shared.Timeout, "the caller's client is left alone")

	c, err = New("http://localhost:3000", WithHTTPClient(nil), WithTimeout(time.Second))
	require.NoError(t, err)
	assert.Equal(t, time.Second, c.httpClient.Timeout)

	c, err = New("http://localhost:3000")
	require.NoError(t, err)
	assert.Equal(t, defaultTimeout, c.httpClient.Timeout)
}

func TestSession_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, Response{Success: true})
	}))

	_, err := c.For(&testCreds{token: "abc"}).SendLoginOTP(context.Background(), "a@b.co")
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", gotAuth)
}

func TestSession_LoginDecodesEnvelope(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathLogin, r.URL.Path)
		var body LoginRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "user@example.com", body.Email)
		writeJSON(w, http.StatusOK, Response{Success: true, Token: "tok", User: &User{IsVerified: true}})
	}))

	resp, err := c.For(nil).Login(context.Background(), "user@example.com", "Secret1!")
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.Token)
	require.NotNil(t, resp.User)
	assert.True(t, resp.User.IsVerified)
}

func TestSession_FailureEnvelopeBecomesAPIError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, Response{Success: false, Message: "Invalid OTP"})
	}))

	_, err := c.For(nil).VerifyAccount(context.Background(), "a@b.co", "123456")
	require.Error(t, err)
	assert.Equal(t, "Invalid OTP", MessageOf(err))
}

func TestSession_Non2xxWithoutBody(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := c.For(nil).SendResetOTP(context.Background(), "a@b.co")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestSession_RefreshesOnceAndRetries(t *testing.T) {
	var loginCalls, refreshCalls int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PathRefreshToken:
			atomic.AddInt32(&refreshCalls, 1)
			writeJSON(w, http.StatusOK, Response{Success: true, Token: "fresh"})
		case PathLogin:
			n := atomic.AddInt32(&loginCalls, 1)
			if n == 1 {
				writeJSON(w, http.StatusUnauthorized, Response{Message: "jwt expired"})
				return
			}
			assert.Equal(t, "Bearer fresh", r.Header.Get("Authorization"))
			writeJSON(w, http.StatusOK, Response{Success: true, Token: "t"})
		}
	}))

	creds := &testCreds{token: "stale"}
	resp, err := c.For(creds).Login(context.Background(), "a@b.co", "pw")
	require.NoError(t, err)
	assert.Equal(t, "t", resp.Token)
	assert.EqualValues(t, 2, atomic.LoadInt32(&loginCalls))
	assert.EqualValues(t, 1, atomic.LoadInt32(&refreshCalls))
}

func TestSession_AnyRefresh2xxRetries(t *testing.T) {
	for name, refresh := range map[string]http.HandlerFunc{
		"empty body": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		},
		"no success flag": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"message": "refreshed"})
		},
		"no content": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		},
	} {
		t.Run(name, func(t *testing.T) {
			var loginCalls, refreshCalls int32
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				switch r.URL.Path {
				case PathRefreshToken:
					atomic.AddInt32(&refreshCalls, 1)
					refresh(w, r)
				case PathLogin:
					if atomic.AddInt32(&loginCalls, 1) == 1 {
						writeJSON(w, http.StatusUnauthorized, Response{Message: "jwt expired"})
						return
					}
					writeJSON(w, http.StatusOK, Response{Success: true, Token: "t"})
				}
			}))

			creds := &testCreds{token: "stale"}
			resp, err := c.For(creds).Login(context.Background(), "a@b.co", "pw")
			require.NoError(t, err)
			assert.Equal(t, "t", resp.Token)
			assert.Equal(t, "stale", creds.Token(), "no token in the refresh body, none stored")
			assert.EqualValues(t, 2, atomic.LoadInt32(&loginCalls))
			assert.EqualValues(t, 1, atomic.LoadInt32(&refreshCalls))
		})
	}
}

func TestSession_RefreshFailureSurfacesOriginalError(t *testing.T) {
	var refreshCalls int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PathRefreshToken:
			atomic.AddInt32(&refreshCalls, 1)
			writeJSON(w, http.StatusForbidden, Response{Message: "refresh denied"})
		default:
			writeJSON(w, http.StatusUnauthorized, Response{Message: "session expired"})
		}
	}))

	_, err := c.For(&testCreds{}).Login(context.Background(), "a@b.co", "pw")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "session expired", MessageOf(err))
	assert.EqualValues(t, 1, atomic.LoadInt32(&refreshCalls))
}

func TestSession_SecondUnauthorizedIsNotRetried(t *testing.T) {
	var loginCalls, refreshCalls int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PathRefreshToken:
			atomic.AddInt32(&refreshCalls, 1)
			writeJSON(w, http.StatusOK, Response{Success: true})
		default:
			atomic.AddInt32(&loginCalls, 1)
			writeJSON(w, http.StatusUnauthorized, Response{Message: "still expired"})
		}
	}))

	_, err := c.For(&testCreds{}).Login(context.Background(), "a@b.co", "pw")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.EqualValues(t, 2, atomic.LoadInt32(&loginCalls))
	assert.EqualValues(t, 1, atomic.LoadInt32(&refreshCalls))
}

func TestSession_UsesVisitorCookieJar(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PathLogin:
			http.SetCookie(w, &http.Cookie{Name: "refreshToken", Value: "r1", Path: "/"})
			writeJSON(w, http.StatusOK, Response{Success: true})
		case PathRefreshToken:
			cookie, err := r.Cookie("refreshToken")
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, Response{Message: "no cookie"})
				return
			}
			writeJSON(w, http.StatusOK, Response{Success: true, Token: cookie.Value})
		}
	}))

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	sess := c.For(&testCreds{jar: jar})

	_, err = sess.Login(context.Background(), "a@b.co", "pw")
	require.NoError(t, err)

	resp, err := sess.RefreshToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "r1", resp.Token)

	_, err = c.For(&testCreds{}).RefreshToken(context.Background())
	assert.True(t, IsUnauthorized(err), "another visitor must not see the cookie")
}
