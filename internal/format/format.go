// Package format renders money, timestamps and untrusted text for display.
//
// Every function here is total: bad input yields a display-safe string,
// never a panic or error.
package format

import (
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencySymbol prefixes every formatted amount.
const CurrencySymbol = "₦"

// DateLayout is the display layout for timestamps.
const DateLayout = "02 Jan 2006, 15:04"

// DisplayZone is the zone timestamps are shown in (West Africa Time).
var DisplayZone = time.FixedZone("WAT", 60*60)

var printer = message.NewPrinter(language.English)

// Currency formats v with the naira symbol, thousands separators and exactly
// two fraction digits. NaN and infinities are shown as zero.
//
//	Currency(1234.5) → "₦1,234.50"
//	Currency(-5)     → "-₦5.00"
func Currency(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	// Round first so 0.005 style halves do not render as "-₦0.00".
	v = math.Round(v*100) / 100
	if v == 0 {
		sign = ""
	}
	return sign + CurrencySymbol + printer.Sprintf("%.2f", v)
}

// ParseCurrency is the inverse of Currency.
func ParseCurrency(s string) (float64, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimPrefix(s, CurrencySymbol)
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if neg {
		v = -v
	}
	return v, nil
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Date renders an ISO-8601 timestamp in DisplayZone. Empty input renders as
// "N/A"; input that does not parse is returned unchanged.
func Date(iso string) string {
	iso = strings.TrimSpace(iso)
	if iso == "" {
		return "N/A"
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, iso); err == nil {
			return t.In(DisplayZone).Format(DateLayout)
		}
	}
	return iso
}

// Percent renders a 0-100 rate with one decimal.
func Percent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

// Count renders an integer with thousands separators.
func Count(n int) string {
	return printer.Sprintf("%d", n)
}

// EscapeHTML makes s safe to splice into HTML text or a quoted attribute.
//
// The ampersand is replaced first so later entities are not re-escaped.
// Applying it twice double-escapes; callers escape exactly once at the
// point where text enters markup.
func EscapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	s = strings.ReplaceAll(s, "'", "&#39;")
	return s
}
