package format

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1234.5, "₦1,234.50"},
		{0, "₦0.00"},
		{1, "₦1.00"},
		{999.999, "₦1,000.00"},
		{1234567.891, "₦1,234,567.89"},
		{-5, "-₦5.00"},
		{-0.001, "₦0.00"},
		{math.NaN(), "₦0.00"},
		{math.Inf(1), "₦0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Currency(tt.in))
		})
	}
}

func TestCurrencyRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 0.1, 12.34, 1234.5, 98765.432, -250.75, 1e7} {
		formatted := Currency(v)
		parsed, err := ParseCurrency(formatted)
		require.NoError(t, err, formatted)
		assert.Equal(t, formatted, Currency(parsed))
	}
}

func TestParseCurrencyRejectsGarbage(t *testing.T) {
	_, err := ParseCurrency("₦abc")
	assert.Error(t, err)
}

func TestDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "N/A"},
		{"whitespace", "   ", "N/A"},
		{"utc timestamp", "2024-03-05T14:30:00Z", "05 Mar 2024, 15:30"},
		{"fractional seconds", "2024-03-05T14:30:00.123Z", "05 Mar 2024, 15:30"},
		{"offset", "2024-12-31T23:30:00+01:00", "31 Dec 2024, 23:30"},
		{"unparsable passes through", "yesterday", "yesterday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Date(tt.in))
		})
	}
}

func TestPercentAndCount(t *testing.T) {
	assert.Equal(t, "87.5%", Percent(87.5))
	assert.Equal(t, "0.0%", Percent(math.NaN()))
	assert.Equal(t, "1,234,567", Count(1234567))
}

func TestEscapeHTML(t *testing.T) {
	assert.Equal(t, "&lt;script&gt;alert(&quot;x&quot;)&lt;/script&gt;", EscapeHTML(`<script>alert("x")</script>`))
	assert.Equal(t, "Tom &amp; Jerry&#39;s", EscapeHTML("Tom & Jerry's"))
	assert.Equal(t, "plain text", EscapeHTML("plain text"))
}

func TestEscapeHTMLRemovesMarkup(t *testing.T) {
	inputs := []string{"<b>bold</b>", "a<b", "x>y", `"quoted" & 'single'`, "<<>>"}
	for _, in := range inputs {
		out := EscapeHTML(in)
		assert.False(t, strings.ContainsAny(out, `<>"'`), "escaped %q still contains markup: %q", in, out)
	}
}

func TestEscapeHTMLIsNotIdempotent(t *testing.T) {
	once := EscapeHTML("a & b")
	assert.Equal(t, "a &amp;amp; b", EscapeHTML(once))
}
