package web

import (
	"fmt"
	"log"
	"net/http"

	"farmops/internal/dashboard"
	"farmops/internal/errors"
	"farmops/internal/model"
	"farmops/internal/summary"

	"github.com/go-chi/chi/v5"
)

type complaintsView struct {
	Snap       dashboard.Snapshot[model.ComplaintKPIs, model.Complaint]
	Filters    dashboard.Filters
	Statuses   []model.ComplaintStatus
	Priorities []model.Priority
	Types      []model.ComplainantType
	CanExport  bool

	// Create modal
	ShowCreate  bool
	Form        dashboard.ComplaintForm
	CreateError string
}

func (s *Server) complaintsView(r *http.Request, sess *Session) complaintsView {
	snap := sess.Complaints.Snapshot()
	return complaintsView{
		Snap:       snap,
		Filters:    dashboard.FiltersOf(snap.Query),
		Statuses:   model.ComplaintStatuses,
		Priorities: model.Priorities,
		Types:      model.ComplainantTypes,
		CanExport:  s.opts.Authz.Allowed(sess.Principal.Role, "exports"),
	}
}

func (s *Server) renderComplaints(w http.ResponseWriter, r *http.Request, status int, view complaintsView) {
	data := s.page(r, "complaints", "Complaints", view)
	data.Error = view.Snap.Error
	s.render(w, status, "complaints", data)
}

func (s *Server) handleComplaints(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	loaded := sess.Complaints.Snapshot().State != dashboard.StateIdle
	if s.syncList(w, r, sess.Complaints, loaded) {
		return
	}
	s.renderComplaints(w, r, http.StatusOK, s.complaintsView(r, sess))
}

func (s *Server) handleCreateComplaint(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	form := dashboard.ComplaintForm{
		ComplainantType:  r.FormValue("complainantType"),
		ComplainantName:  r.FormValue("complainantName"),
		ComplainantPhone: r.FormValue("complainantPhone"),
		Category:         r.FormValue("category"),
		Title:            r.FormValue("title"),
		Description:      r.FormValue("description"),
		Priority:         r.FormValue("priority"),
	}

	created, err := sess.Complaints.Create(r.Context(), form)
	if s.expired(w, r, err) {
		return
	}
	if err != nil {
		view := s.complaintsView(r, sess)
		view.ShowCreate = true
		view.Form = form
		view.CreateError = errors.Message(err, "Failed to create complaint")
		s.renderComplaints(w, r, http.StatusUnprocessableEntity, view)
		return
	}

	log.Printf("✓ %s created complaint %s", sess.Principal.Email, created.Reference)
	sess.Flash(fmt.Sprintf("Complaint %s created", created.Reference))
	http.Redirect(w, r, "/complaints", http.StatusSeeOther)
}

type complaintDetailView struct {
	Complaint    model.Complaint
	Statuses     []model.ComplaintStatus
	Priorities   []model.Priority
	CanTranslate bool
	Translated   []translatedField
	UpdateError  string
	Form         dashboard.UpdateForm
}

type translatedField struct {
	Label  string
	Text   string
	Source string
}

func (s *Server) handleComplaintDetail(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	c, ok := sess.Complaints.Find(chi.URLParam(r, "id"))
	if !ok {
		s.notFound(w, r, "Complaint")
		return
	}

	view := complaintDetailView{
		Complaint:    c,
		Statuses:     model.ComplaintStatuses,
		Priorities:   model.Priorities,
		CanTranslate: s.opts.Translator.Enabled(),
	}
	data := s.page(r, "complaints", c.Reference, nil)

	if r.URL.Query().Get("translate") != "" && view.CanTranslate {
		labels := []string{"Title", "Description", "Resolution notes"}
		res, err := s.opts.Translator.ToEnglish(r.Context(), []string{c.Title, c.Description, c.ResolutionNotes})
		if err != nil {
			log.Printf("  ⚠️  Translation unavailable for %s: %v", c.Reference, err)
		}
		for i, tr := range res {
			if tr.Translated {
				view.Translated = append(view.Translated, translatedField{Label: labels[i], Text: tr.Text, Source: tr.Source})
			}
		}
		if err == nil && len(view.Translated) == 0 {
			data.Flash = "This complaint is already in English"
		}
	}

	data.Body = view
	s.render(w, http.StatusOK, "complaint_detail", data)
}

func (s *Server) handleUpdateComplaint(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	id := chi.URLParam(r, "id")
	form := dashboard.UpdateForm{
		Status:          r.FormValue("status"),
		Priority:        r.FormValue("priority"),
		AssigneeID:      r.FormValue("assigneeId"),
		ResolutionNotes: r.FormValue("resolutionNotes"),
	}

	// Captured before the update reloads the page it sits on.
	before, found := sess.Complaints.Find(id)

	updated, err := sess.Complaints.Update(r.Context(), id, form)
	if s.expired(w, r, err) {
		return
	}
	if err != nil {
		if !found {
			s.notFound(w, r, "Complaint")
			return
		}
		data := s.page(r, "complaints", before.Reference, complaintDetailView{
			Complaint:    before,
			Statuses:     model.ComplaintStatuses,
			Priorities:   model.Priorities,
			CanTranslate: s.opts.Translator.Enabled(),
			UpdateError:  errors.Message(err, "Failed to update complaint"),
			Form:         form,
		})
		s.render(w, http.StatusUnprocessableEntity, "complaint_detail", data)
		return
	}

	log.Printf("✓ %s updated complaint %s", sess.Principal.Email, updated.Reference)
	sess.Flash(fmt.Sprintf("Complaint %s updated", updated.Reference))
	http.Redirect(w, r, "/complaints", http.StatusSeeOther)
}

type assigneeJSON struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s *Server) handleAssignees(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	admins, err := sess.Complaints.SearchAssignees(r.Context(), r.URL.Query().Get("q"))
	if s.expired(w, r, err) {
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusBadGateway)
		writeJSON(w, map[string]string{"error": errors.Message(err, "Failed to load admins")})
		return
	}

	out := make([]assigneeJSON, 0, len(admins))
	for _, a := range admins {
		out = append(out, assigneeJSON{ID: a.ID, Name: a.FullName(), Email: a.Email})
	}
	writeJSON(w, out)
}

func (s *Server) handleComplaintKPIImage(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	loaded := sess.Complaints.Snapshot().State != dashboard.StateIdle
	if s.syncList(w, r, sess.Complaints, loaded) {
		return
	}

	section, ok := summary.ComplaintSection(sess.Complaints.Snapshot().KPIs)
	if !ok {
		http.Error(w, "complaint KPIs are not loaded", http.StatusServiceUnavailable)
		return
	}
	png, err := summary.RenderCards("Complaints", []summary.Section{section}, s.now())
	if err != nil {
		log.Printf("✗ Failed to render KPI card: %v", err)
		http.Error(w, "could not render KPI card", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `attachment; filename="complaint-kpis.png"`)
	_, _ = w.Write(png)
}
