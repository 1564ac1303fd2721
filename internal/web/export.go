package web

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"farmops/internal/errors"
	"farmops/internal/statement"
	"farmops/internal/storage"
)

const (
	formatPDF  = "pdf"
	formatHTML = "html"
)

func (s *Server) handleComplaintExport(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	exp, err := sess.Complaints.Export(r.Context(), filtersFromForm(r))
	if s.expired(w, r, err) {
		return
	}
	if err != nil {
		sess.Flash("Export failed: " + errors.Message(err, "could not load complaints"))
		http.Redirect(w, r, "/complaints", http.StatusSeeOther)
		return
	}

	filters := exp.FilterLine()
	doc := statement.BuildComplaintStatement(exp.Rows, filters, s.opts.Logo.DataURI(r.Context()), exp.GeneratedAt)
	s.deliver(w, r, "/complaints", storage.Record{
		Kind:        exp.Kind,
		Filters:     filters,
		Rows:        len(exp.Rows),
		GeneratedAt: exp.GeneratedAt,
	}, doc)
}

func (s *Server) handlePayoutExport(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	exp, err := sess.Payouts.Export(r.Context(), filtersFromForm(r))
	if s.expired(w, r, err) {
		return
	}
	if err != nil {
		sess.Flash("Export failed: " + errors.Message(err, "could not load payouts"))
		http.Redirect(w, r, "/withdrawers", http.StatusSeeOther)
		return
	}

	filters := exp.FilterLine()
	doc := statement.BuildPayoutStatement(exp.Rows, filters, s.opts.Logo.DataURI(r.Context()), exp.GeneratedAt)
	s.deliver(w, r, "/withdrawers", storage.Record{
		Kind:        exp.Kind,
		Filters:     filters,
		Rows:        len(exp.Rows),
		GeneratedAt: exp.GeneratedAt,
	}, doc)
}

// deliver sends doc as a PDF attachment, or as a self-printing HTML page
// when format=html is asked for or no PDF renderer is available. Other
// render failures go back to the list as a banner.
func (s *Server) deliver(w http.ResponseWriter, r *http.Request, back string, rec storage.Record, doc string) {
	sess := sessionFrom(r.Context())
	rec.Operator = sess.Principal.Name
	rec.Role = s.opts.Authz.Resolve(sess.Principal.Role)

	format := strings.ToLower(r.URL.Query().Get("format"))
	if format != formatHTML {
		format = formatPDF
	}

	var pdf []byte
	if format == formatPDF {
		var err error
		pdf, err = s.opts.Printer.PrintPDF(r.Context(), doc)
		switch {
		case errors.IsRendererUnavailable(err):
			log.Printf("  ⚠️  PDF renderer unavailable, sending printable HTML: %v", err)
			format = formatHTML
		case err != nil:
			log.Printf("✗ Statement render failed: %v", err)
			sess.Flash("Could not render the statement. Please try again.")
			http.Redirect(w, r, back, http.StatusSeeOther)
			return
		}
	}

	rec.Format = format
	if _, err := s.opts.Audit.Append(rec); err != nil {
		log.Printf("⚠️  Failed to record export: %v", err)
	}

	name := fmt.Sprintf("%s-statement-%s", rec.Kind, rec.GeneratedAt.Format("20060102-1504"))
	if format == formatPDF {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, name))
		_, _ = w.Write(pdf)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="%s.html"`, name))
	_, _ = w.Write([]byte(statement.WithAutoPrint(doc)))
}
