package model

import (
	"fmt"
	"strings"
	"time"

	apperrors "farmops/internal/errors"
)

// DateFormat is the wire and form format of query dates.
const DateFormat = "2006-01-02"

// ListQuery is the filter, sort and page state of a list view.
//
// PartyType is the complainant type for complaints and the user type for
// payouts. Empty strings mean "no filter".
type ListQuery struct {
	Search    string
	Status    string
	Priority  string
	PartyType string
	StartDate string
	EndDate   string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// Range returns the query's date range.
func (q ListQuery) Range() DateRange {
	return DateRange{Start: q.StartDate, End: q.EndDate}
}

// Normalized trims free-text fields and lower-cases enum-like ones.
func (q ListQuery) Normalized() ListQuery {
	q.Search = strings.TrimSpace(q.Search)
	q.Status = strings.ToLower(strings.TrimSpace(q.Status))
	q.Priority = strings.ToLower(strings.TrimSpace(q.Priority))
	q.PartyType = strings.ToLower(strings.TrimSpace(q.PartyType))
	q.StartDate = strings.TrimSpace(q.StartDate)
	q.EndDate = strings.TrimSpace(q.EndDate)
	q.SortBy = strings.TrimSpace(q.SortBy)
	q.SortOrder = strings.ToLower(strings.TrimSpace(q.SortOrder))
	return q
}

// Validate checks dates, date ordering and sort order. It never touches the
// network.
func (q ListQuery) Validate() error {
	return ValidateRange(q.Range(), q.SortOrder)
}

// ValidateRange checks that both dates parse and start is not after end.
func ValidateRange(r DateRange, sortOrder string) error {
	var start, end time.Time
	var err error
	if r.Start != "" {
		if start, err = time.Parse(DateFormat, r.Start); err != nil {
			return apperrors.NewValidationError("startDate", fmt.Sprintf("Start date %q is not a valid date", r.Start))
		}
	}
	if r.End != "" {
		if end, err = time.Parse(DateFormat, r.End); err != nil {
			return apperrors.NewValidationError("endDate", fmt.Sprintf("End date %q is not a valid date", r.End))
		}
	}
	if r.Start != "" && r.End != "" && start.After(end) {
		return apperrors.NewValidationError("startDate", "Start date cannot be after end date")
	}
	switch sortOrder {
	case "", "asc", "desc":
	default:
		return apperrors.NewValidationError("sortOrder", fmt.Sprintf("Unknown sort order %q", sortOrder))
	}
	return nil
}

// Summary describes the active filters for a statement header. An unfiltered
// query reads "All records".
func (q ListQuery) Summary(partyLabel string) string {
	var parts []string
	if q.Search != "" {
		parts = append(parts, fmt.Sprintf("Search: %q", q.Search))
	}
	if q.Status != "" {
		parts = append(parts, "Status: "+label(q.Status))
	}
	if q.Priority != "" {
		parts = append(parts, "Priority: "+label(q.Priority))
	}
	if q.PartyType != "" {
		parts = append(parts, partyLabel+": "+label(q.PartyType))
	}
	switch {
	case q.StartDate != "" && q.EndDate != "":
		parts = append(parts, fmt.Sprintf("From %s to %s", q.StartDate, q.EndDate))
	case q.StartDate != "":
		parts = append(parts, "From "+q.StartDate)
	case q.EndDate != "":
		parts = append(parts, "Until "+q.EndDate)
	}
	if len(parts) == 0 {
		return "All records"
	}
	return strings.Join(parts, " · ")
}
