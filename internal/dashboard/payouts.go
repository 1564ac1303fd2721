package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "farmops/internal/errors"
	"farmops/internal/model"
)

// PayoutSource is the withdrawer API surface the desk needs.
type PayoutSource interface {
	Source[model.WithdrawerKPIs, model.Payout]
	Detail(ctx context.Context, id string) (*model.PayoutDetail, error)
}

// PayoutDesk is the withdrawers page: list controller plus payout detail
// and statement export.
type PayoutDesk struct {
	*Controller[model.WithdrawerKPIs, model.Payout]
	src         PayoutSource
	exportLimit int
}

func NewPayoutDesk(src PayoutSource, pageSize, exportLimit int) *PayoutDesk {
	defaults := Query{Page: 1, Limit: pageSize, SortBy: "createdAt", SortOrder: "desc"}
	return &PayoutDesk{
		Controller:  NewController[model.WithdrawerKPIs, model.Payout]("payouts", src, defaults, validatePayoutQuery),
		src:         src,
		exportLimit: exportLimit,
	}
}

func validatePayoutQuery(q Query) error {
	if q.Status != "" && !model.PayoutStatus(q.Status).Valid() {
		return apperrors.NewValidationError("status", fmt.Sprintf("Unknown status %q", q.Status))
	}
	if q.PartyType != "" && !model.UserType(q.PartyType).Valid() {
		return apperrors.NewValidationError("userType", fmt.Sprintf("Unknown user type %q", q.PartyType))
	}
	if q.Priority != "" {
		return apperrors.NewValidationError("priority", "Payouts cannot be filtered by priority")
	}
	return nil
}

// Detail loads one payout with its linked transactions.
func (d *PayoutDesk) Detail(ctx context.Context, id string) (*model.PayoutDetail, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.NewValidationError("id", "Payout id is required")
	}
	return d.src.Detail(ctx, id)
}

// Export re-queries payouts for a statement using the export modal's filters.
func (d *PayoutDesk) Export(ctx context.Context, f Filters) (*Export[model.Payout], error) {
	q := f.apply(Query{})
	q.Page = 1
	q.Limit = d.exportLimit
	if q.SortBy == "" {
		q.SortBy, q.SortOrder = "createdAt", "desc"
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if err := validatePayoutQuery(q); err != nil {
		return nil, err
	}

	page, err := d.src.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return &Export[model.Payout]{
		Kind:        "withdrawers",
		Query:       q,
		Rows:        page.Items,
		Total:       page.Total,
		Filters:     q.Summary("User Type"),
		GeneratedAt: time.Now(),
	}, nil
}
