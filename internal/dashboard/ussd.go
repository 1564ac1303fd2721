package dashboard

import (
	"context"
	"fmt"

	apperrors "farmops/internal/errors"
	"farmops/internal/model"
)

// USSDSource is the USSD analytics API surface.
type USSDSource interface {
	Sessions(ctx context.Context, q model.ListQuery) (*model.Page[model.USSDSession], error)
	Stats(ctx context.Context, r model.DateRange) (*model.USSDStats, error)
}

type ussdAdapter struct{ src USSDSource }

func (a ussdAdapter) KPIs(ctx context.Context, r model.DateRange) (*model.USSDStats, error) {
	return a.src.Stats(ctx, r)
}

func (a ussdAdapter) List(ctx context.Context, q Query) (*model.Page[model.USSDSession], error) {
	return a.src.Sessions(ctx, q)
}

// USSDDesk is the USSD analytics page.
type USSDDesk = Controller[model.USSDStats, model.USSDSession]

// NewUSSDDesk creates a controller over the USSD endpoints. Sessions can be
// searched, date-filtered and filtered by session status.
func NewUSSDDesk(src USSDSource, pageSize int) *USSDDesk {
	defaults := Query{Page: 1, Limit: pageSize, SortBy: "startedAt", SortOrder: "desc"}
	return NewController[model.USSDStats, model.USSDSession]("ussd", ussdAdapter{src: src}, defaults, validateUSSDQuery)
}

func validateUSSDQuery(q Query) error {
	if q.Priority != "" || q.PartyType != "" {
		return apperrors.NewValidationError("filter", "USSD sessions can only be filtered by search, status and date")
	}
	if q.Status != "" && !model.USSDStatus(q.Status).Valid() {
		return apperrors.NewValidationError("status", fmt.Sprintf("Unknown session status %q", q.Status))
	}
	return nil
}
