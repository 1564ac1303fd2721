// Package web serves the operations dashboard: sign-in, role-gated pages,
// the complaint and withdrawer desks, statements and the export log.
package web

import (
	"bytes"
	"encoding/json"
	"html/template"
	"log"
	"net/http"
	"time"

	"farmops/internal/api"
	"farmops/internal/authz"
	"farmops/internal/dashboard"
	"farmops/internal/health"
	"farmops/internal/model"
	"farmops/internal/statement"
	"farmops/internal/storage"
	"farmops/internal/translate"

	"github.com/go-chi/chi/v5"
)

// Options wires a Server. API, Authz and Audit are required; the rest may
// be nil and their features degrade.
type Options struct {
	API        *api.Client
	Authz      *authz.Authorizer
	Audit      *storage.Storage
	Monitor    *health.Monitor
	Translator *translate.Translator
	Printer    *statement.Printer
	Logo       *statement.LogoLoader

	SessionTTL        time.Duration
	PageSize          int
	ExportLimit       int
	AdminPageSize     int
	RosterConcurrency int
	USSDSessionsPath  string
	USSDStatsPath     string
}

// Server holds the dashboard's shared dependencies.
type Server struct {
	opts      Options
	sessions  *SessionStore
	templates map[string]*template.Template

	// now is replaceable for tests.
	now func() time.Time
}

// New parses the templates and returns a Server.
func New(opts Options) (*Server, error) {
	tpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	if opts.Monitor == nil {
		opts.Monitor = health.NewMonitor()
	}
	return &Server{
		opts:      opts,
		sessions:  NewSessionStore(opts.SessionTTL),
		templates: tpl,
		now:       time.Now,
	}, nil
}

// Sessions exposes the session registry.
func (s *Server) Sessions() *SessionStore { return s.sessions }

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.opts.Monitor.Handler())
	r.Get("/login", s.handleLoginPage)
	r.Post("/login", s.handleLogin)
	r.Get("/logout", s.handleLogout)
	r.Post("/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(s.requireSession)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, s.opts.Authz.Landing(), http.StatusSeeOther)
		})
		r.With(s.requirePage("dashboard")).Get("/dashboard", s.handleDashboard)

		r.Route("/complaints", func(r chi.Router) {
			r.Use(s.requirePage("complaints"))
			r.Get("/", s.handleComplaints)
			s.listVerbs(r, "/complaints", func(sess *Session) listDesk { return sess.Complaints })
			r.Post("/new", s.handleCreateComplaint)
			r.Get("/assignees", s.handleAssignees)
			r.Get("/kpis.png", s.handleComplaintKPIImage)
			r.With(s.requirePage("exports")).Get("/export", s.handleComplaintExport)
			r.Get("/{id}", s.handleComplaintDetail)
			r.Post("/{id}/update", s.handleUpdateComplaint)
		})

		r.Route("/withdrawers", func(r chi.Router) {
			r.Use(s.requirePage("withdrawers"))
			r.Get("/", s.handleWithdrawers)
			s.listVerbs(r, "/withdrawers", func(sess *Session) listDesk { return sess.Payouts })
			r.With(s.requirePage("exports")).Get("/export", s.handlePayoutExport)
			r.Get("/{id}", s.handlePayoutDetail)
		})

		r.Route("/ussd", func(r chi.Router) {
			r.Use(s.requirePage("ussd"))
			r.Get("/", s.handleUSSD)
			s.listVerbs(r, "/ussd", func(sess *Session) listDesk { return sess.USSD })
		})

		r.With(s.requirePage("admins")).Get("/admins", s.handleAdmins)
		r.With(s.requirePage("exports")).Get("/exports", s.handleExports)
	})

	return r
}

// newSession builds the per-operator desks over a token-scoped client.
func (s *Server) newSession(p model.Principal) *Session {
	client := s.opts.API.WithToken(p.Token)
	roster := dashboard.NewRoster(client.Admins(), s.opts.AdminPageSize, s.opts.RosterConcurrency)

	sess := &Session{
		Principal:  p,
		Client:     client,
		Roster:     roster,
		Complaints: dashboard.NewComplaintDesk(client.Complaints(), roster, s.opts.PageSize, s.opts.ExportLimit),
		Payouts:    dashboard.NewPayoutDesk(client.Withdrawers(), s.opts.PageSize, s.opts.ExportLimit),
		USSD:       dashboard.NewUSSDDesk(client.USSD(s.opts.USSDSessionsPath, s.opts.USSDStatsPath), s.opts.PageSize),
	}
	sess.Complaints.OnLoad(s.opts.Monitor.RecordLoad)
	sess.Payouts.OnLoad(s.opts.Monitor.RecordLoad)
	sess.USSD.OnLoad(s.opts.Monitor.RecordLoad)
	return s.sessions.Add(sess)
}

// pageData is what every page template receives.
type pageData struct {
	Title     string
	Active    string
	Principal *model.Principal
	Nav       []authz.Page
	Flash     string
	Error     string
	Body      any
}

func (s *Server) page(r *http.Request, active, title string, body any) pageData {
	data := pageData{Title: title, Active: active, Body: body}
	if sess := sessionFrom(r.Context()); sess != nil {
		data.Principal = &sess.Principal
		data.Nav = s.opts.Authz.Navigation(sess.Principal.Role)
		data.Flash = sess.TakeFlash()
	}
	return data
}

// render executes a page template into a buffer first so a template error
// never leaves a half-written page.
func (s *Server) render(w http.ResponseWriter, status int, name string, data pageData) {
	t, ok := s.templates[name]
	if !ok {
		log.Printf("✗ Unknown template %q", name)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Printf("✗ Failed to render %s: %v", name, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request, what string) {
	data := s.page(r, "", "Not found", nil)
	data.Error = what + " was not found"
	s.render(w, http.StatusNotFound, "error", data)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
