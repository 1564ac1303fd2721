package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"

	"farmops/internal/model"
)

const (
	complaintsPath    = "/complaints"
	complaintKPIsPath = "/complaints/kpis"
)

// Complaints exposes the complaint endpoints.
type Complaints struct {
	c *Client
}

// Complaints returns the complaint endpoints bound to c.
func (c *Client) Complaints() *Complaints { return &Complaints{c: c} }

// List calls GET /complaints with the query's filters, sort and page.
func (s *Complaints) List(ctx context.Context, q model.ListQuery) (*model.Page[model.Complaint], error) {
	params := listParams(q)
	setIf(params, "complainantType", q.PartyType)

	payload, err := s.c.do(ctx, http.MethodGet, complaintsPath, params, nil)
	if err != nil {
		return nil, err
	}
	if err := requireKey(complaintsPath, payload, "complaints"); err != nil {
		return nil, err
	}

	var body struct {
		Complaints []model.Complaint `json:"complaints"`
		pageMeta
	}
	if err := decode(complaintsPath, payload, &body); err != nil {
		return nil, err
	}
	meta := body.pageMeta.normalize()
	return &model.Page[model.Complaint]{
		Items:      nonNil(body.Complaints),
		Total:      meta.Total,
		Page:       meta.Page,
		Limit:      meta.Limit,
		TotalPages: meta.TotalPages,
	}, nil
}

// KPIs calls GET /complaints/kpis for the date range.
func (s *Complaints) KPIs(ctx context.Context, r model.DateRange) (*model.ComplaintKPIs, error) {
	var kpis model.ComplaintKPIs
	if err := s.c.get(ctx, complaintKPIsPath, rangeParams(r), &kpis); err != nil {
		return nil, err
	}
	return &kpis, nil
}

// Create calls POST /complaints.
func (s *Complaints) Create(ctx context.Context, in model.ComplaintCreate) (*model.Complaint, error) {
	payload, err := s.c.do(ctx, http.MethodPost, complaintsPath, nil, in)
	if err != nil {
		return nil, err
	}
	var created model.Complaint
	if err := decodeOptional(complaintsPath, payload, &created); err != nil {
		return nil, err
	}
	log.Printf("  ✓ Complaint %s created", created.Reference)
	return &created, nil
}

// Update calls PATCH /complaints/:id.
func (s *Complaints) Update(ctx context.Context, id string, in model.ComplaintUpdate) (*model.Complaint, error) {
	path := complaintsPath + "/" + url.PathEscape(id)
	payload, err := s.c.do(ctx, http.MethodPatch, path, nil, in)
	if err != nil {
		return nil, err
	}
	var updated model.Complaint
	if err := decodeOptional(path, payload, &updated); err != nil {
		return nil, err
	}
	log.Printf("  ✓ Complaint %s updated", id)
	return &updated, nil
}

// listParams encodes the fields shared by every list endpoint. Empty values
// are omitted.
func listParams(q model.ListQuery) url.Values {
	params := rangeParams(q.Range())
	setIf(params, "search", q.Search)
	setIf(params, "status", q.Status)
	setIf(params, "priority", q.Priority)
	setIf(params, "sortBy", q.SortBy)
	setIf(params, "sortOrder", q.SortOrder)
	if q.Page > 0 {
		params.Set("page", itoa(q.Page))
	}
	if q.Limit > 0 {
		params.Set("limit", itoa(q.Limit))
	}
	return params
}

func rangeParams(r model.DateRange) url.Values {
	params := url.Values{}
	setIf(params, "startDate", r.Start)
	setIf(params, "endDate", r.End)
	return params
}

func setIf(params url.Values, key, value string) {
	if value != "" {
		params.Set(key, value)
	}
}

// decodeOptional tolerates write endpoints that answer with an empty body.
func decodeOptional(path string, payload json.RawMessage, out any) error {
	if isNull(payload) {
		return nil
	}
	return decode(path, payload, out)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
