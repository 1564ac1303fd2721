package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "farmops/internal/errors"
	"farmops/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "secret-token")
}

func TestUnwrap(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"enveloped", `{"data":{"total":3}}`, `{"total":3}`},
		{"bare object", `{"total":3}`, `{"total":3}`},
		{"null data falls back to body", `{"data":null,"total":3}`, `{"data":null,"total":3}`},
		{"array", `[1,2]`, `[1,2]`},
		{"empty", ``, `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Unwrap([]byte(tt.body))
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestEnvelopeAndBareDecodeIdentically(t *testing.T) {
	body := `{"total":10,"open":4,"inProgress":3,"resolved":2,"closed":1,"byPriority":{"high":2},"resolutionRate":30}`

	for _, wrapped := range []bool{true, false} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if wrapped {
				io.WriteString(w, `{"success":true,"data":`+body+`}`)
				return
			}
			io.WriteString(w, body)
		})

		kpis, err := c.Complaints().KPIs(context.Background(), model.DateRange{})
		require.NoError(t, err)
		assert.Equal(t, 10, kpis.Total)
		assert.Equal(t, 2, kpis.ByPriority.High)
		assert.Equal(t, 30.0, kpis.ResolutionRate)
	}
}

func TestComplaintListSendsQueryAndToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/complaints", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))

		q := r.URL.Query()
		assert.Equal(t, "maize", q.Get("search"))
		assert.Equal(t, "open", q.Get("status"))
		assert.Equal(t, "farmer", q.Get("complainantType"))
		assert.Equal(t, "2024-01-01", q.Get("startDate"))
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "20", q.Get("limit"))
		assert.False(t, q.Has("priority"), "empty filters are omitted")

		io.WriteString(w, `{"data":{"complaints":[{"id":"c1","reference":"CMP-001","title":"Late payment"}],"total":21,"page":2,"limit":20,"totalPages":2}}`)
	})

	page, err := c.Complaints().List(context.Background(), model.ListQuery{
		Search: "maize", Status: "open", PartyType: "farmer", StartDate: "2024-01-01", Page: 2, Limit: 20,
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "CMP-001", page.Items[0].Reference)
	assert.Equal(t, 21, page.Total)
	assert.Equal(t, 2, page.TotalPages)
}

func TestListComputesMissingTotalPages(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"payouts":[],"total":0,"limit":20}`)
	})

	page, err := c.Withdrawers().List(context.Background(), model.ListQuery{Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 1, page.TotalPages, "total pages is floored at one")
}

func TestListMissingCollectionIsShapeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":{"items":[],"total":0}}`)
	})

	_, err := c.Complaints().List(context.Background(), model.ListQuery{})
	require.Error(t, err)
	assert.True(t, apperrors.IsShape(err))
}

func TestStatusErrors(t *testing.T) {
	t.Run("unauthorized", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"message":"Token expired"}`)
		})
		_, err := c.Complaints().KPIs(context.Background(), model.DateRange{})
		assert.True(t, apperrors.IsSessionExpired(err))
	})

	t.Run("server message", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"statusCode":400,"message":["title should not be empty"]}`)
		})
		_, err := c.Complaints().Create(context.Background(), model.ComplaintCreate{})
		require.Error(t, err)
		assert.Equal(t, "title should not be empty", err.Error())
	})

	t.Run("no body", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		_, err := c.Withdrawers().Detail(context.Background(), "p1")
		var apiErr *apperrors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	})
}

func TestUpdateSendsPatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/complaints/c%2F1", r.URL.EscapedPath())

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "resolved", body["status"])
		assert.NotContains(t, body, "priority")

		io.WriteString(w, `{"data":{"id":"c/1","status":"resolved"}}`)
	})

	status := model.StatusResolved
	updated, err := c.Complaints().Update(context.Background(), "c/1", model.ComplaintUpdate{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, model.StatusResolved, updated.Status)
}

func TestUSSDNotFoundDegradesToEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	ussd := c.USSD("/admins/ussd/sessions", "/admins/ussd/stats")

	sessions, err := ussd.Sessions(context.Background(), model.ListQuery{Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, sessions.Items)

	stats, err := ussd.Stats(context.Background(), model.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, model.USSDStats{}, *stats)
}

func TestUSSDShapeMismatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":{"rows":[]}}`)
	})

	_, err := c.USSD("/ussd/sessions", "/ussd/stats").Sessions(context.Background(), model.ListQuery{})
	assert.True(t, apperrors.IsShape(err))
}

func TestAdminsListAndLogin(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/admins":
			assert.Equal(t, "limit=100&page=1&status=active", r.URL.RawQuery)
			io.WriteString(w, `{"data":{"admins":[{"id":"a1","firstName":"Ada","lastName":"Obi","email":"ada@farm.ng","isActive":true}],"total":1,"totalPages":1}}`)
		case "/auth/login":
			assert.Empty(t, r.Header.Get("Authorization"), "login must not send a bearer token")
			io.WriteString(w, `{"data":{"accessToken":"jwt","admin":{"id":"a1","email":"ada@farm.ng","role":"Finance"}}}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	admins, err := c.Admins().List(context.Background(), 1, 100, true)
	require.NoError(t, err)
	require.Len(t, admins.Items, 1)
	assert.Equal(t, 100, admins.Limit)

	res, err := c.Login(context.Background(), "ada@farm.ng", "pw")
	require.NoError(t, err)
	assert.Equal(t, "jwt", res.AccessToken)
	assert.Equal(t, "Finance", res.Admin.Role)
}

func TestAdminsListAllStatuses(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "limit=50&page=2", r.URL.RawQuery)
		io.WriteString(w, `{"admins":[],"total":0,"totalPages":1}`)
	})

	admins, err := c.Admins().List(context.Background(), 2, 50, false)
	require.NoError(t, err)
	assert.Empty(t, admins.Items)
}

func TestTransportFailureIsFetchError(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "")
	_, err := c.Complaints().KPIs(context.Background(), model.DateRange{})
	var fetchErr *apperrors.FetchError
	assert.ErrorAs(t, err, &fetchErr)
}
