package api

import (
	"context"
	"net/http"
	"net/url"

	"farmops/internal/model"
)

const (
	withdrawersPath    = "/admins/withdrawers"
	withdrawerKPIsPath = "/admins/withdrawers/kpis"
)

// Withdrawers exposes the withdrawer payout endpoints.
type Withdrawers struct {
	c *Client
}

func (c *Client) Withdrawers() *Withdrawers { return &Withdrawers{c: c} }

// List calls GET /admins/withdrawers.
func (s *Withdrawers) List(ctx context.Context, q model.ListQuery) (*model.Page[model.Payout], error) {
	params := listParams(q)
	setIf(params, "userType", q.PartyType)

	payload, err := s.c.do(ctx, http.MethodGet, withdrawersPath, params, nil)
	if err != nil {
		return nil, err
	}
	if err := requireKey(withdrawersPath, payload, "payouts"); err != nil {
		return nil, err
	}

	var body struct {
		Payouts []model.Payout `json:"payouts"`
		pageMeta
	}
	if err := decode(withdrawersPath, payload, &body); err != nil {
		return nil, err
	}
	meta := body.pageMeta.normalize()
	return &model.Page[model.Payout]{
		Items:      nonNil(body.Payouts),
		Total:      meta.Total,
		Page:       meta.Page,
		Limit:      meta.Limit,
		TotalPages: meta.TotalPages,
	}, nil
}

// KPIs calls GET /admins/withdrawers/kpis.
func (s *Withdrawers) KPIs(ctx context.Context, r model.DateRange) (*model.WithdrawerKPIs, error) {
	var kpis model.WithdrawerKPIs
	if err := s.c.get(ctx, withdrawerKPIsPath, rangeParams(r), &kpis); err != nil {
		return nil, err
	}
	return &kpis, nil
}

// Detail calls GET /admins/withdrawers/:id.
func (s *Withdrawers) Detail(ctx context.Context, id string) (*model.PayoutDetail, error) {
	var detail model.PayoutDetail
	if err := s.c.get(ctx, withdrawersPath+"/"+url.PathEscape(id), nil, &detail); err != nil {
		return nil, err
	}
	if detail.Transactions == nil {
		detail.Transactions = []model.Transaction{}
	}
	return &detail, nil
}
