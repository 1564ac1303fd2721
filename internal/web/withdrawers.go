package web

import (
	"net/http"

	"farmops/internal/dashboard"
	"farmops/internal/errors"
	"farmops/internal/model"

	"github.com/go-chi/chi/v5"
)

type withdrawersView struct {
	Snap      dashboard.Snapshot[model.WithdrawerKPIs, model.Payout]
	Filters   dashboard.Filters
	Statuses  []model.PayoutStatus
	UserTypes []model.UserType
	CanExport bool
}

func (s *Server) handleWithdrawers(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	loaded := sess.Payouts.Snapshot().State != dashboard.StateIdle
	if s.syncList(w, r, sess.Payouts, loaded) {
		return
	}

	snap := sess.Payouts.Snapshot()
	data := s.page(r, "withdrawers", "Withdrawer Payouts", withdrawersView{
		Snap:      snap,
		Filters:   dashboard.FiltersOf(snap.Query),
		Statuses:  model.PayoutStatuses,
		UserTypes: model.UserTypes,
		CanExport: s.opts.Authz.Allowed(sess.Principal.Role, "exports"),
	})
	data.Error = snap.Error
	s.render(w, http.StatusOK, "withdrawers", data)
}

func (s *Server) handlePayoutDetail(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	detail, err := sess.Payouts.Detail(r.Context(), chi.URLParam(r, "id"))
	if s.expired(w, r, err) {
		return
	}
	if errors.IsNotFound(err) {
		s.notFound(w, r, "Payout")
		return
	}
	if err != nil {
		data := s.page(r, "withdrawers", "Payout", nil)
		data.Error = errors.Message(err, "Failed to load payout")
		s.render(w, http.StatusBadGateway, "error", data)
		return
	}

	s.render(w, http.StatusOK, "payout_detail", s.page(r, "withdrawers", detail.TransactionReference, detail))
}
