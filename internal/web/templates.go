package web

import (
	"embed"
	"fmt"
	"html/template"
	"time"

	"farmops/internal/format"
	"farmops/internal/pagination"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = []string{
	"login",
	"error",
	"dashboard",
	"complaints",
	"complaint_detail",
	"withdrawers",
	"payout_detail",
	"ussd",
	"admins",
	"exports",
}

type pagerLinks struct {
	Base string
	pagination.Pager
}

var funcs = template.FuncMap{
	"currency": format.Currency,
	"date":     format.Date,
	"percent":  format.Percent,
	"count":    format.Count,
	"stamp": func(t time.Time) string {
		return t.In(format.DisplayZone).Format(format.DateLayout)
	},
	"pager": func(base string, p pagination.Pager) pagerLinks {
		return pagerLinks{Base: base, Pager: p}
	},
}

// parseTemplates builds one template set per page: the shared layout plus
// the page's own "content" block.
func parseTemplates() (map[string]*template.Template, error) {
	layout, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	out := make(map[string]*template.Template, len(pageTemplates))
	for _, name := range pageTemplates {
		t, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		out[name] = t
	}
	return out, nil
}
