package market

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// digestTableRows bounds the printable table so the prompt stays a reasonable
// size; summary statistics still cover the full series.
const digestTableRows = 30

var hundred = decimal.NewFromInt(100)

// Digest renders a series into the human-readable table plus summary
// statistics embedded in the analysis prompt. Input order does not matter;
// the series is sorted newest first internally.
func Digest(points []Point) string {
	if len(points) == 0 {
		return "No historical data available."
	}

	sorted := make([]Point, len(points))
	copy(sorted, points)
	SortDescending(sorted)

	var b strings.Builder
	b.WriteString("Date | Close Price | Volume\n")
	b.WriteString("-----|------------|--------\n")

	rows := len(sorted)
	if rows > digestTableRows {
		rows = digestTableRows
	}
	for _, p := range sorted[:rows] {
		fmt.Fprintf(&b, "%s | $%s | %s\n",
			p.Date.Format("2006-01-02"), p.Close.StringFixed(2), groupDigits(p.Volume))
	}

	newest := sorted[0]
	oldest := sorted[len(sorted)-1]

	priceChange := newest.Close.Sub(oldest.Close)
	priceChangePct := decimal.Zero
	if !oldest.Close.IsZero() {
		priceChangePct = priceChange.Div(oldest.Close).Mul(hundred)
	}

	var totalVolume, maxVolume int64
	minVolume := sorted[0].Volume
	for _, p := range sorted {
		totalVolume += p.Volume
		if p.Volume > maxVolume {
			maxVolume = p.Volume
		}
		if p.Volume < minVolume {
			minVolume = p.Volume
		}
	}
	avgVolume := totalVolume / int64(len(sorted))

	b.WriteString("\nSummary Statistics:\n")
	fmt.Fprintf(&b, "- Date Range: %s to %s\n",
		oldest.Date.Format("2006-01-02"), newest.Date.Format("2006-01-02"))
	fmt.Fprintf(&b, "- Price Change: $%s (%s%%)\n",
		priceChange.StringFixed(2), priceChangePct.StringFixed(2))
	fmt.Fprintf(&b, "- Average Volume: %s\n", groupDigits(avgVolume))
	fmt.Fprintf(&b, "- Volume Range: %s to %s\n", groupDigits(minVolume), groupDigits(maxVolume))

	return b.String()
}

// groupDigits formats n with thousands separators, e.g. 1234567 -> 1,234,567.
func groupDigits(n int64) string {
	s := fmt.Sprintf("%d", n)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)

	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}
