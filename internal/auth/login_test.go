package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"farmops/internal/api"
	"farmops/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":{"accessToken":"jwt-1","admin":{"id":"a1","firstName":"Ada","lastName":"Obi","role":"Super Admin"}}}`)
	}))
	defer srv.Close()

	p, err := Login(context.Background(), api.NewClient(srv.URL, ""), " ada@farm.ng ", "pw")
	require.NoError(t, err)
	assert.Equal(t, "jwt-1", p.Token)
	assert.Equal(t, "Ada Obi", p.Name)
	assert.Equal(t, "ada@farm.ng", p.Email)
	assert.Equal(t, "super_admin", p.Role)
}

func TestLoginRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := Login(context.Background(), api.NewClient(srv.URL, ""), "ada@farm.ng", "wrong")
	require.Error(t, err)
	assert.True(t, errors.IsLoginFailed(err))
	assert.Contains(t, err.Error(), "invalid email or password")
}

func TestLoginRequiresCredentials(t *testing.T) {
	_, err := Login(context.Background(), api.NewClient("http://unused", ""), "  ", "")
	assert.True(t, errors.IsLoginFailed(err))
}

func TestLoginWithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":{"admin":{"id":"a1"}}}`)
	}))
	defer srv.Close()

	_, err := Login(context.Background(), api.NewClient(srv.URL, ""), "ada@farm.ng", "pw")
	assert.True(t, errors.IsLoginFailed(err))
}

func TestServiceClientRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		io.WriteString(w, `{"accessToken":"svc","admin":{"id":"svc"}}`)
	}))
	defer srv.Close()

	_, err := ServiceClient(context.Background(), api.NewClient(srv.URL, ""), ServiceCredentials{
		Email: "svc@farm.ng", Password: "pw", MaxRetries: 3, RetryDelay: time.Millisecond,
	})
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestServiceClientPrefersToken(t *testing.T) {
	c, err := ServiceClient(context.Background(), api.NewClient("http://unused", ""), ServiceCredentials{Token: "static"})
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestServiceClientNeedsCredentials(t *testing.T) {
	_, err := ServiceClient(context.Background(), api.NewClient("http://unused", ""), ServiceCredentials{})
	assert.True(t, errors.IsLoginFailed(err))
}

func TestNormalizeRole(t *testing.T) {
	assert.Equal(t, "super_admin", NormalizeRole(" Super-Admin "))
	assert.Equal(t, "finance", NormalizeRole("FINANCE"))
	assert.Equal(t, "", NormalizeRole("  "))
}
