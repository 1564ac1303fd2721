package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "farmops/internal/errors"
	"farmops/internal/model"
)

// ComplaintSource is the complaint API surface the desk needs.
type ComplaintSource interface {
	Source[model.ComplaintKPIs, model.Complaint]
	Create(ctx context.Context, in model.ComplaintCreate) (*model.Complaint, error)
	Update(ctx context.Context, id string, in model.ComplaintUpdate) (*model.Complaint, error)
}

// ComplaintDesk is the complaints page: list controller plus the create,
// update, assignment search and export flows.
type ComplaintDesk struct {
	*Controller[model.ComplaintKPIs, model.Complaint]
	src         ComplaintSource
	roster      *Roster
	exportLimit int
}

// NewComplaintDesk creates a desk listing pageSize complaints per page,
// newest first.
func NewComplaintDesk(src ComplaintSource, roster *Roster, pageSize, exportLimit int) *ComplaintDesk {
	defaults := Query{Page: 1, Limit: pageSize, SortBy: "createdAt", SortOrder: "desc"}
	return &ComplaintDesk{
		Controller:  NewController[model.ComplaintKPIs, model.Complaint]("complaints", src, defaults, validateComplaintQuery),
		src:         src,
		roster:      roster,
		exportLimit: exportLimit,
	}
}

func validateComplaintQuery(q Query) error {
	if q.Status != "" && !model.ComplaintStatus(q.Status).Valid() {
		return apperrors.NewValidationError("status", fmt.Sprintf("Unknown status %q", q.Status))
	}
	if q.Priority != "" && !model.Priority(q.Priority).Valid() {
		return apperrors.NewValidationError("priority", fmt.Sprintf("Unknown priority %q", q.Priority))
	}
	if q.PartyType != "" && !model.ComplainantType(q.PartyType).Valid() {
		return apperrors.NewValidationError("complainantType", fmt.Sprintf("Unknown complainant type %q", q.PartyType))
	}
	return nil
}

// ComplaintForm is the create-complaint modal.
type ComplaintForm struct {
	ComplainantType  string
	ComplainantName  string
	ComplainantPhone string
	Category         string
	Title            string
	Description      string
	Priority         string
}

// Validate trims the form and checks required fields.
func (f ComplaintForm) Validate() (model.ComplaintCreate, error) {
	in := model.ComplaintCreate{
		ComplainantType:  model.ComplainantType(strings.ToLower(strings.TrimSpace(f.ComplainantType))),
		ComplainantName:  strings.TrimSpace(f.ComplainantName),
		ComplainantPhone: strings.TrimSpace(f.ComplainantPhone),
		Category:         strings.TrimSpace(f.Category),
		Title:            strings.TrimSpace(f.Title),
		Description:      strings.TrimSpace(f.Description),
		Priority:         model.Priority(strings.ToLower(strings.TrimSpace(f.Priority))),
	}
	if in.ComplainantType == "" {
		in.ComplainantType = model.ComplainantFarmer
	}
	if in.Priority == "" {
		in.Priority = model.PriorityMedium
	}

	switch {
	case in.ComplainantName == "":
		return in, apperrors.NewValidationError("complainantName", "Complainant name is required")
	case in.Title == "":
		return in, apperrors.NewValidationError("title", "Title is required")
	case in.Description == "":
		return in, apperrors.NewValidationError("description", "Description is required")
	case !in.ComplainantType.Valid():
		return in, apperrors.NewValidationError("complainantType", fmt.Sprintf("Unknown complainant type %q", in.ComplainantType))
	case !in.Priority.Valid():
		return in, apperrors.NewValidationError("priority", fmt.Sprintf("Unknown priority %q", in.Priority))
	}
	return in, nil
}

// Create validates and submits form. The returned error belongs to the
// create modal; the list state is untouched on failure. On success the list
// is fully reloaded; a failed reload shows on the list, not the modal.
func (d *ComplaintDesk) Create(ctx context.Context, form ComplaintForm) (*model.Complaint, error) {
	in, err := form.Validate()
	if err != nil {
		return nil, err
	}
	created, err := d.src.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	_ = d.Refresh(ctx)
	return created, nil
}

// UpdateForm is the update-complaint modal. Blank fields are not sent.
type UpdateForm struct {
	Status          string
	Priority        string
	AssigneeID      string
	ResolutionNotes string
}

// Validate builds the partial update, rejecting unknown enum values and an
// update that changes nothing.
func (f UpdateForm) Validate() (model.ComplaintUpdate, error) {
	var up model.ComplaintUpdate

	if s := strings.ToLower(strings.TrimSpace(f.Status)); s != "" {
		status := model.ComplaintStatus(s)
		if !status.Valid() {
			return up, apperrors.NewValidationError("status", fmt.Sprintf("Unknown status %q", s))
		}
		up.Status = &status
	}
	if p := strings.ToLower(strings.TrimSpace(f.Priority)); p != "" {
		priority := model.Priority(p)
		if !priority.Valid() {
			return up, apperrors.NewValidationError("priority", fmt.Sprintf("Unknown priority %q", p))
		}
		up.Priority = &priority
	}
	if id := strings.TrimSpace(f.AssigneeID); id != "" {
		up.AssignedTo = &id
	}
	if notes := strings.TrimSpace(f.ResolutionNotes); notes != "" {
		up.ResolutionNotes = &notes
	}

	if up.Status != nil && *up.Status == model.StatusResolved && up.ResolutionNotes == nil {
		return up, apperrors.NewValidationError("resolutionNotes", "Resolution notes are required to resolve a complaint")
	}
	if up.Status == nil && up.Priority == nil && up.AssignedTo == nil && up.ResolutionNotes == nil {
		return up, apperrors.NewValidationError("status", "Nothing to update")
	}
	return up, nil
}

// Update validates and submits form for complaint id, then reloads the list.
func (d *ComplaintDesk) Update(ctx context.Context, id string, form UpdateForm) (*model.Complaint, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.NewValidationError("id", "Complaint id is required")
	}
	up, err := form.Validate()
	if err != nil {
		return nil, err
	}
	updated, err := d.src.Update(ctx, id, up)
	if err != nil {
		return nil, err
	}
	_ = d.Refresh(ctx)
	return updated, nil
}

// Find returns the complaint with id from the current page.
func (d *ComplaintDesk) Find(id string) (model.Complaint, bool) {
	for _, c := range d.Snapshot().Rows {
		if c.ID == id {
			return c, true
		}
	}
	return model.Complaint{}, false
}

// SearchAssignees filters the active admin roster by term.
func (d *ComplaintDesk) SearchAssignees(ctx context.Context, term string) ([]model.Admin, error) {
	admins, err := d.roster.All(ctx)
	if err != nil {
		return nil, err
	}
	return FilterAdmins(admins, term), nil
}

// Export re-queries complaints for a statement using the export modal's own
// filters. Invalid filters fail before any request.
func (d *ComplaintDesk) Export(ctx context.Context, f Filters) (*Export[model.Complaint], error) {
	q := f.apply(Query{})
	q.Page = 1
	q.Limit = d.exportLimit
	if q.SortBy == "" {
		q.SortBy, q.SortOrder = "createdAt", "desc"
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if err := validateComplaintQuery(q); err != nil {
		return nil, err
	}

	page, err := d.src.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return &Export[model.Complaint]{
		Kind:        "complaints",
		Query:       q,
		Rows:        page.Items,
		Total:       page.Total,
		Filters:     q.Summary("Complainant"),
		GeneratedAt: time.Now(),
	}, nil
}

// Export is the data behind one statement.
type Export[R any] struct {
	Kind        string
	Query       Query
	Rows        []R
	Total       int // server-side match count; can exceed len(Rows) at the export limit
	Filters     string
	GeneratedAt time.Time
}

// Truncated reports whether the export limit cut the result.
func (e *Export[R]) Truncated() bool { return e.Total > len(e.Rows) }

// FilterLine is the statement header's filter summary, noting when the
// export limit cut the result.
func (e *Export[R]) FilterLine() string {
	if e.Truncated() {
		return fmt.Sprintf("%s · First %d of %d", e.Filters, len(e.Rows), e.Total)
	}
	return e.Filters
}
