package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, 5*time.Second, 100, 100)
	require.NoError(t, err)
	return c, srv
}

func TestNewRejectsRelativeBaseURL(t *testing.T) {
	_, err := New("localhost:1010/api", time.Second, 10, 10)
	require.Error(t, err)

	_, err = New("/api", time.Second, 10, 10)
	require.Error(t, err)
}

func TestNewTrimsTrailingSlash(t *testing.T) {
	var gotPath string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{}`))
	}))

	// rebuild with a trailing slash on the same server
	c2, err := New("http://"+c.Host()+"/", 5*time.Second, 100, 100)
	require.NoError(t, err)
	require.NoError(t, c2.GetJSON(context.Background(), "/auth/me", nil))
	require.Equal(t, "/auth/me", gotPath, "no double slash in the request path")
}

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		status   int
		body     string
		sentinel error
	}{
		{http.StatusNotFound, `{"message":"no profile"}`, ErrNotFound},
		{http.StatusForbidden, `{"message":"session expired"}`, ErrForbidden},
		{http.StatusConflict, `{"message":"stale version"}`, ErrConflict},
		{http.StatusBadRequest, `{"message":"title too short"}`, ErrValidation},
		{http.StatusUnprocessableEntity, `{}`, ErrValidation},
		{http.StatusInternalServerError, ``, ErrServer},
		{http.StatusBadGateway, ``, ErrServer},
	}

	for _, tt := range tests {
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			w.Write([]byte(tt.body))
		}))
		err := c.GetJSON(context.Background(), "/x", nil)
		require.ErrorIs(t, err, tt.sentinel, "status %d", tt.status)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, tt.status, apiErr.Status)
	}
}

func TestServerMessageExtraction(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"legacy envelope"}}`))
	}))
	err := c.GetJSON(context.Background(), "/x", nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "legacy envelope", apiErr.Message)
}

func TestServerMessageFallsBackToStatusText(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`not json at all`))
	}))
	err := c.GetJSON(context.Background(), "/x", nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusText(http.StatusConflict), apiErr.Message)
}

func TestConnectionRefusedIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close() // nothing listens there anymore

	c, err := New(base, time.Second, 100, 100)
	require.NoError(t, err)

	err = c.GetJSON(context.Background(), "/x", nil)
	require.ErrorIs(t, err, ErrNetwork)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Zero(t, apiErr.Status, "no response means no status code")
}

func TestCookieJarCarriesSession(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			http.SetCookie(w, &http.Cookie{Name: "sid", Value: "secret", Path: "/", HttpOnly: true})
			w.Write([]byte(`{"id":"u1"}`))
		case "/auth/me":
			if ck, err := r.Cookie("sid"); err != nil || ck.Value != "secret" {
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"message":"no session"}`))
				return
			}
			w.Write([]byte(`{"id":"u1"}`))
		}
	}))

	err := c.GetJSON(context.Background(), "/auth/me", nil)
	require.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, c.PostJSON(context.Background(), "/auth/login", map[string]string{"email": "e"}, nil))
	require.NoError(t, c.GetJSON(context.Background(), "/auth/me", nil), "cookie from login must ride along")
}

func TestClearSessionDropsJar(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			http.SetCookie(w, &http.Cookie{Name: "sid", Value: "secret", Path: "/"})
			w.Write([]byte(`{}`))
		case "/auth/me":
			if _, err := r.Cookie("sid"); err != nil {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			w.Write([]byte(`{}`))
		}
	}))

	require.NoError(t, c.PostJSON(context.Background(), "/auth/login", nil, nil))
	require.NoError(t, c.GetJSON(context.Background(), "/auth/me", nil))

	require.NoError(t, c.ClearSession())
	require.ErrorIs(t, c.GetJSON(context.Background(), "/auth/me", nil), ErrForbidden)
}

func TestDecodeIntoStruct(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "JobDesk/1.0 (+local)", r.Header.Get("User-Agent"))
		w.Write([]byte(`{"id":"u1","email":"ada@example.com"}`))
	}))

	var out struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	require.NoError(t, c.GetJSON(context.Background(), "/auth/me", &out))
	require.Equal(t, "u1", out.ID)
	require.Equal(t, "ada@example.com", out.Email)
}

func TestRawJSONReturnsBytes(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"profileType":"admin","id":"p1"}`))
	}))

	raw, err := c.RawJSON(context.Background(), http.MethodPatch, "/profile/p1", map[string]any{"version": 1})
	require.NoError(t, err)
	require.JSONEq(t, `{"profileType":"admin","id":"p1"}`, string(raw))
}
