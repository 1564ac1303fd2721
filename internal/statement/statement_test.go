package statement

import (
	"strings"
	"testing"
	"time"

	"farmops/internal/model"

	"github.com/stretchr/testify/assert"
)

var generatedAt = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func TestEmptyStatementHasPlaceholderRow(t *testing.T) {
	doc := BuildComplaintStatement(nil, "All records", "", generatedAt)

	assert.Contains(t, doc, `<td class="empty" colspan="9">No records found</td>`)
	assert.Contains(t, doc, "0 record(s)")
	assert.Equal(t, 1, strings.Count(doc, "<tr><td"), "exactly one body row")
}

func TestPayoutEmptyPlaceholderSpansColumns(t *testing.T) {
	doc := BuildPayoutStatement([]model.Payout{}, "All records", "", generatedAt)
	assert.Contains(t, doc, `colspan="10">No records found`)
	assert.Contains(t, doc, "Total amount: ₦0.00")
}

func TestCellsAreEscapedExactlyOnce(t *testing.T) {
	rows := []model.Complaint{{
		Reference:   "CMP-1",
		Complainant: model.Complainant{Name: "Tom & Jerry", Type: model.ComplainantFarmer},
		Title:       `<script>alert("x")</script>`,
		Status:      model.StatusOpen,
		Priority:    model.PriorityHigh,
	}}

	doc := BuildComplaintStatement(rows, `Search: "<b>"`, "", generatedAt)

	assert.NotContains(t, doc, "<script>")
	assert.Contains(t, doc, "&lt;script&gt;alert(&quot;x&quot;)&lt;/script&gt;")
	assert.Contains(t, doc, "Tom &amp; Jerry")
	assert.NotContains(t, doc, "&amp;amp;", "nothing is escaped twice")
	assert.Contains(t, doc, "Search: &quot;&lt;b&gt;&quot;")
}

func TestPayoutStatementFormatsMoneyAndDates(t *testing.T) {
	rows := []model.Payout{
		{TransactionReference: "WD-1", Amount: 1234.5, Status: model.PayoutCompleted, Attempts: 1, MaxAttempts: 3,
			CreatedAt: "2024-04-30T10:00:00Z", ProcessedAt: "2024-04-30T10:05:00Z"},
		{TransactionReference: "WD-2", Amount: 100, Status: model.PayoutPending},
	}

	doc := BuildPayoutStatement(rows, "Status: Completed", "", generatedAt)

	assert.Contains(t, doc, "₦1,234.50")
	assert.Contains(t, doc, "30 Apr 2024, 11:05")
	assert.Contains(t, doc, "N/A", "missing settlement time")
	assert.Contains(t, doc, "1/3")
	assert.Contains(t, doc, "Total amount: ₦1,334.50")
	assert.Contains(t, doc, "2 record(s)")
}

func TestLogoSlot(t *testing.T) {
	blank := BuildComplaintStatement(nil, "All records", "", generatedAt)
	assert.Contains(t, blank, `<div class="logo"></div>`)
	assert.NotContains(t, blank, "<img")

	withLogo := BuildComplaintStatement(nil, "All records", "data:image/png;base64,AAAA", generatedAt)
	assert.Contains(t, withLogo, `<img class="logo" alt="logo" src="data:image/png;base64,AAAA">`)
}

func TestHeaderCarriesFiltersAndTime(t *testing.T) {
	doc := BuildComplaintStatement(nil, "Status: Open", "", generatedAt)
	assert.Contains(t, doc, "<h1>Complaints Statement</h1>")
	assert.Contains(t, doc, "Status: Open")
	assert.Contains(t, doc, "Generated 01 May 2024, 10:30")
}

func TestBuildIsDeterministic(t *testing.T) {
	rows := []model.Complaint{{Reference: "CMP-9", Title: "x"}}
	assert.Equal(t,
		BuildComplaintStatement(rows, "f", "", generatedAt),
		BuildComplaintStatement(rows, "f", "", generatedAt))
}

func TestWithAutoPrint(t *testing.T) {
	doc := WithAutoPrint(BuildComplaintStatement(nil, "All records", "", generatedAt))
	assert.Contains(t, doc, `<body onload="window.print()">`)
}
