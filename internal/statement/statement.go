// Package statement builds printable complaint and payout statements.
//
// Building is pure: rows, a filter summary, an optional logo and a
// timestamp go in, one self-contained HTML document comes out. Rendering
// that document to PDF is the Printer's job.
package statement

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"farmops/internal/format"
	"farmops/internal/model"
)

// EmptyMessage is the placeholder row text when nothing matched.
const EmptyMessage = "No records found"

// column is one statement column: a header and a cell extractor returning
// raw, unescaped text.
type column[R any] struct {
	header string
	cell   func(R) string
	class  string
}

var complaintColumns = []column[model.Complaint]{
	{"Reference", func(c model.Complaint) string { return c.Reference }, ""},
	{"Complainant", func(c model.Complaint) string { return c.Complainant.Name }, ""},
	{"Type", func(c model.Complaint) string { return c.Complainant.Type.Label() }, ""},
	{"Category", func(c model.Complaint) string { return c.Category }, ""},
	{"Title", func(c model.Complaint) string { return c.Title }, "wide"},
	{"Status", func(c model.Complaint) string { return c.Status.Label() }, ""},
	{"Priority", func(c model.Complaint) string { return c.Priority.Label() }, ""},
	{"Assigned To", func(c model.Complaint) string { return c.AssigneeName() }, ""},
	{"Created", func(c model.Complaint) string { return format.Date(c.CreatedAt) }, "nowrap"},
}

var payoutColumns = []column[model.Payout]{
	{"Reference", func(p model.Payout) string { return p.TransactionReference }, ""},
	{"User", func(p model.Payout) string { return p.User.Name }, ""},
	{"Type", func(p model.Payout) string { return p.User.Type.Label() }, ""},
	{"Bank", func(p model.Payout) string { return p.Bank.Name }, ""},
	{"Account", func(p model.Payout) string { return p.Bank.AccountNumber }, ""},
	{"Amount", func(p model.Payout) string { return format.Currency(p.Amount) }, "num"},
	{"Status", func(p model.Payout) string { return p.Status.Label() }, ""},
	{"Attempts", func(p model.Payout) string { return fmt.Sprintf("%d/%d", p.Attempts, p.MaxAttempts) }, "num"},
	{"Created", func(p model.Payout) string { return format.Date(p.CreatedAt) }, "nowrap"},
	{"Settled", func(p model.Payout) string { return settledAt(p) }, "nowrap"},
}

func settledAt(p model.Payout) string {
	if p.ProcessedAt != "" {
		return format.Date(p.ProcessedAt)
	}
	return format.Date(p.FailedAt)
}

// BuildComplaintStatement renders complaints as a printable HTML statement.
func BuildComplaintStatement(rows []model.Complaint, filters, logoDataURI string, generatedAt time.Time) string {
	return build("Complaints Statement", complaintColumns, rows, filters, logoDataURI, generatedAt, "")
}

// BuildPayoutStatement renders payouts as a printable HTML statement. The
// footer carries the total amount of the listed payouts.
func BuildPayoutStatement(rows []model.Payout, filters, logoDataURI string, generatedAt time.Time) string {
	var sum float64
	for _, p := range rows {
		sum += p.Amount
	}
	return build("Withdrawer Payouts Statement", payoutColumns, rows, filters, logoDataURI, generatedAt,
		"Total amount: "+format.Currency(sum))
}

func build[R any](title string, cols []column[R], rows []R, filters, logoDataURI string, generatedAt time.Time, extraFooter string) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n<title>")
	b.WriteString(format.EscapeHTML(title))
	b.WriteString("</title>\n<style>")
	b.WriteString(stylesheet)
	b.WriteString("</style>\n</head>\n<body>\n<header>\n")

	if logoDataURI != "" {
		b.WriteString(`<img class="logo" alt="logo" src="`)
		b.WriteString(format.EscapeHTML(logoDataURI))
		b.WriteString("\">\n")
	} else {
		b.WriteString("<div class=\"logo\"></div>\n")
	}

	b.WriteString("<div class=\"heading\">\n<h1>")
	b.WriteString(format.EscapeHTML(title))
	b.WriteString("</h1>\n<p class=\"filters\">")
	b.WriteString(format.EscapeHTML(filters))
	b.WriteString("</p>\n<p class=\"generated\">Generated ")
	b.WriteString(format.EscapeHTML(generatedAt.In(format.DisplayZone).Format(format.DateLayout)))
	b.WriteString("</p>\n</div>\n</header>\n")

	b.WriteString("<table>\n<thead>\n<tr>")
	for _, col := range cols {
		b.WriteString("<th>")
		b.WriteString(format.EscapeHTML(col.header))
		b.WriteString("</th>")
	}
	b.WriteString("</tr>\n</thead>\n<tbody>\n")

	if len(rows) == 0 {
		b.WriteString(`<tr><td class="empty" colspan="`)
		b.WriteString(strconv.Itoa(len(cols)))
		b.WriteString(`">`)
		b.WriteString(EmptyMessage)
		b.WriteString("</td></tr>\n")
	}
	for _, row := range rows {
		b.WriteString("<tr>")
		for _, col := range cols {
			if col.class != "" {
				b.WriteString(`<td class="` + col.class + `">`)
			} else {
				b.WriteString("<td>")
			}
			b.WriteString(format.EscapeHTML(col.cell(row)))
			b.WriteString("</td>")
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody>\n</table>\n<footer>\n<span>")
	b.WriteString(format.EscapeHTML(fmt.Sprintf("%d record(s)", len(rows))))
	b.WriteString("</span>")
	if extraFooter != "" {
		b.WriteString("\n<span>")
		b.WriteString(format.EscapeHTML(extraFooter))
		b.WriteString("</span>")
	}
	b.WriteString("\n</footer>\n</body>\n</html>\n")

	return b.String()
}

// WithAutoPrint adds an onload hook that opens the browser's print dialog.
// Used when the statement is served as HTML instead of a rendered PDF.
func WithAutoPrint(doc string) string {
	return strings.Replace(doc, "<body>", `<body onload="window.print()">`, 1)
}

const stylesheet = `
@page { size: A4 landscape; margin: 12mm; }
* { box-sizing: border-box; }
body { font-family: "DejaVu Sans", Arial, sans-serif; font-size: 10px; color: #1e293b; margin: 0; }
header { display: flex; align-items: center; gap: 16px; border-bottom: 2px solid #15803d; padding-bottom: 8px; margin-bottom: 12px; }
.logo { width: 64px; height: 64px; object-fit: contain; }
h1 { font-size: 18px; margin: 0 0 4px; color: #14532d; }
.filters, .generated { margin: 0; color: #475569; }
table { width: 100%; border-collapse: collapse; }
th { background: #15803d; color: #fff; text-align: left; padding: 6px; }
td { padding: 5px 6px; border-bottom: 1px solid #cbd5e1; vertical-align: top; }
tr:nth-child(even) td { background: #f1f5f9; }
td.num { text-align: right; white-space: nowrap; }
td.nowrap { white-space: nowrap; }
td.wide { min-width: 180px; }
td.empty { text-align: center; color: #64748b; padding: 24px; }
footer { margin-top: 12px; display: flex; justify-content: space-between; color: #475569; }
thead { display: table-header-group; }
tr { page-break-inside: avoid; }
`
