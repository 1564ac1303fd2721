package web

import (
	"net/http"
	"strings"

	"farmops/internal/dashboard"
	"farmops/internal/errors"
	"farmops/internal/model"
	"farmops/internal/storage"

	"golang.org/x/sync/errgroup"
)

type dashboardView struct {
	Complaints *model.ComplaintKPIs
	Payouts    *model.WithdrawerKPIs
}

// handleDashboard shows the KPI cards of every desk the role can open. Each
// desk that never loaded is loaded here, concurrently.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	role := sess.Principal.Role

	var desks []listDesk
	if s.opts.Authz.Allowed(role, "complaints") && sess.Complaints.Snapshot().State == dashboard.StateIdle {
		desks = append(desks, sess.Complaints)
	}
	if s.opts.Authz.Allowed(role, "withdrawers") && sess.Payouts.Snapshot().State == dashboard.StateIdle {
		desks = append(desks, sess.Payouts)
	}

	var g errgroup.Group
	for _, d := range desks {
		g.Go(func() error { return d.Load(r.Context()) })
	}
	err := g.Wait()
	if s.expired(w, r, err) {
		return
	}

	var view dashboardView
	if s.opts.Authz.Allowed(role, "complaints") {
		view.Complaints = sess.Complaints.Snapshot().KPIs
	}
	if s.opts.Authz.Allowed(role, "withdrawers") {
		view.Payouts = sess.Payouts.Snapshot().KPIs
	}

	data := s.page(r, "dashboard", "Dashboard", view)
	if err != nil {
		data.Error = errors.Message(err, "Failed to load KPIs")
	}
	s.render(w, http.StatusOK, "dashboard", data)
}

type ussdView struct {
	Snap     dashboard.Snapshot[model.USSDStats, model.USSDSession]
	Filters  dashboard.Filters
	Statuses []model.USSDStatus
}

func (s *Server) handleUSSD(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	loaded := sess.USSD.Snapshot().State != dashboard.StateIdle
	if s.syncList(w, r, sess.USSD, loaded) {
		return
	}

	snap := sess.USSD.Snapshot()
	data := s.page(r, "ussd", "USSD Analytics", ussdView{
		Snap:     snap,
		Filters:  dashboard.FiltersOf(snap.Query),
		Statuses: model.USSDStatuses,
	})
	data.Error = snap.Error
	s.render(w, http.StatusOK, "ussd", data)
}

type adminsView struct {
	Term   string
	Admins []model.Admin
}

func (s *Server) handleAdmins(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	term := strings.TrimSpace(r.URL.Query().Get("q"))

	admins, err := sess.Roster.All(r.Context())
	if s.expired(w, r, err) {
		return
	}

	data := s.page(r, "admins", "Admins", adminsView{Term: term, Admins: dashboard.FilterAdmins(admins, term)})
	if err != nil {
		data.Error = errors.Message(err, "Failed to load admins")
	}
	s.render(w, http.StatusOK, "admins", data)
}

type exportsView struct {
	Records []storage.Record
}

func (s *Server) handleExports(w http.ResponseWriter, r *http.Request) {
	data := s.page(r, "exports", "Export Log", exportsView{Records: s.opts.Audit.Recent(100)})
	s.render(w, http.StatusOK, "exports", data)
}
