package web

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"farmops/internal/dashboard"
	"farmops/internal/errors"

	"github.com/go-chi/chi/v5"
)

// listDesk is the part of a list controller the shared list verbs drive.
type listDesk interface {
	Load(ctx context.Context) error
	Refresh(ctx context.Context) error
	SetFilters(ctx context.Context, f dashboard.Filters) error
	SetPage(ctx context.Context, page int) error
	Reset(ctx context.Context) error
	Query() dashboard.Query
}

// listVerbs registers the filter, reset and refresh actions under base.
// Each action reloads and redirects back to the list (303), so a browser
// refresh never resubmits the form.
func (s *Server) listVerbs(r chi.Router, base string, desk func(*Session) listDesk) {
	act := func(do func(ctx context.Context, d listDesk, r *http.Request) error) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			sess := sessionFrom(r.Context())
			err := do(r.Context(), desk(sess), r)
			if s.expired(w, r, err) {
				return
			}
			if errors.IsValidation(err) {
				sess.Flash(errors.Message(err, "Invalid filters"))
			}
			http.Redirect(w, r, base, http.StatusSeeOther)
		}
	}

	r.Post("/filters", act(func(ctx context.Context, d listDesk, r *http.Request) error {
		return d.SetFilters(ctx, filtersFromForm(r))
	}))
	r.Post("/reset", act(func(ctx context.Context, d listDesk, _ *http.Request) error {
		return d.Reset(ctx)
	}))
	r.Post("/refresh", act(func(ctx context.Context, d listDesk, _ *http.Request) error {
		return d.Refresh(ctx)
	}))
}

// syncList brings desk up to date for a GET of the list page: ?page=N moves
// to that page, and a desk that never loaded loads once. Load failures are
// kept in the desk's snapshot and shown as a banner.
func (s *Server) syncList(w http.ResponseWriter, r *http.Request, d listDesk, loaded bool) bool {
	var err error
	if p := r.URL.Query().Get("page"); p != "" {
		n, convErr := strconv.Atoi(p)
		if convErr != nil {
			n = 1
		}
		if n != d.Query().Page || !loaded {
			err = d.SetPage(r.Context(), n)
		}
	} else if !loaded {
		err = d.Load(r.Context())
	}
	return s.expired(w, r, err)
}

// filtersFromForm reads the filter bar or export modal fields.
func filtersFromForm(r *http.Request) dashboard.Filters {
	get := func(key string) string { return strings.TrimSpace(r.FormValue(key)) }
	return dashboard.Filters{
		Search:    get("search"),
		Status:    get("status"),
		Priority:  get("priority"),
		PartyType: get("partyType"),
		StartDate: get("startDate"),
		EndDate:   get("endDate"),
		SortBy:    get("sortBy"),
		SortOrder: get("sortOrder"),
	}
}
