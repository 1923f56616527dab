package quote

import (
	"fmt"
	"strings"
)

// FormatText renders a saved quote as plain text from its snapshot.
func FormatText(q Quote) string {
	b := q.Breakdown
	var sb strings.Builder

	title := q.Title
	if title == "" {
		title = "Quote " + q.ID
	}
	fmt.Fprintf(&sb, "%s\n", title)
	fmt.Fprintf(&sb, "ID: %s\n", q.ID)
	if !q.CreatedAt.IsZero() {
		fmt.Fprintf(&sb, "Date: %s\n", q.CreatedAt.Format(timeLayout))
	}
	fmt.Fprintf(&sb, "Style: %s\n", q.Style)
	fmt.Fprintf(&sb, "Method: %s\n", q.Method)
	fmt.Fprintf(&sb, "Quantity: %d (tier %s)\n", b.Quantity, b.Tier)
	sb.WriteString("\nPer unit:\n")
	for _, line := range b.Lines {
		fmt.Fprintf(&sb, "  %-24s %8.2f\n", line.Label, line.Amount)
	}
	fmt.Fprintf(&sb, "Unit price: %.2f\n", b.UnitPrice)
	if len(b.OrderLines) > 0 {
		sb.WriteString("\nPer order:\n")
		for _, line := range b.OrderLines {
			fmt.Fprintf(&sb, "  %-24s %8.2f\n", line.Label, line.Amount)
		}
	}
	fmt.Fprintf(&sb, "Total: %.2f USD\n", b.OrderTotal)
	if q.Notes != "" {
		fmt.Fprintf(&sb, "\nNotes: %s\n", q.Notes)
	}
	return sb.String()
}
