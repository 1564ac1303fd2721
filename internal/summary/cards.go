package summary

import (
	"farmops/internal/format"
	"farmops/internal/model"
)

// ComplaintSection turns complaint KPIs into cards. A nil k yields nothing.
func ComplaintSection(k *model.ComplaintKPIs) (Section, bool) {
	if k == nil {
		return Section{}, false
	}
	return Section{
		Title: "Complaints",
		Cards: []Card{
			{Label: "Total", Value: format.Count(k.Total)},
			{Label: "Open", Value: format.Count(k.Open), Tone: ToneWarning},
			{Label: "In Progress", Value: format.Count(k.InProgress)},
			{Label: "Resolved", Value: format.Count(k.Resolved), Tone: TonePositive},
			{Label: "Critical", Value: format.Count(k.ByPriority.Critical), Tone: ToneNegative},
			{Label: "High Priority", Value: format.Count(k.ByPriority.High), Tone: ToneWarning},
			{Label: "Resolution Rate", Value: format.Percent(k.ResolutionRate), Tone: TonePositive},
			{Label: "Avg Resolution", Value: hours(k.AvgResolutionHours)},
		},
	}, true
}

// PayoutSection turns withdrawer KPIs into cards. A nil k yields nothing.
func PayoutSection(k *model.WithdrawerKPIs) (Section, bool) {
	if k == nil {
		return Section{}, false
	}
	return Section{
		Title: "Withdrawer Payouts",
		Cards: []Card{
			{Label: "Payouts", Value: format.Count(k.TotalPayouts)},
			{Label: "Pending", Value: format.Count(k.Pending + k.Processing), Tone: ToneWarning},
			{Label: "Retrying", Value: format.Count(k.Retrying), Tone: ToneWarning},
			{Label: "Failed", Value: format.Count(k.Failed), Tone: ToneNegative},
			{Label: "Completed Amount", Value: format.Currency(k.CompletedAmount), Tone: TonePositive},
			{Label: "Failed Amount", Value: format.Currency(k.FailedAmount), Tone: ToneNegative},
			{Label: "Success Rate", Value: format.Percent(k.SuccessRate), Tone: TonePositive},
			{Label: "Wallet Balance", Value: format.Currency(k.WalletBalance)},
		},
	}, true
}

func hours(h float64) string {
	return format.Count(int(h+0.5)) + " h"
}
