package entity

import (
	"strconv"
	"strings"

	"github.com/joseph-ayodele/order-wizard/internal/common"
)

// ParseOrderText extracts an Order from free-form pasted or OCR-derived
// text. The first non-empty line carries the order number (first token,
// verbatim) and the amount (last token, with an optional leading $ and
// thousands commas). Any further non-empty lines become the note.
//
// The parser does not validate the order number's shape beyond presence;
// merchant formats like NNN-NNNNNNN-NNNNNNN pass through unchanged.
func ParseOrderText(text string) (*Order, error) {
	lines := strings.Split(strings.TrimSpace(text), "\n")

	first := -1
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			first = i
			break
		}
	}
	if first < 0 {
		return nil, common.NewParseError("order_number", "No order number found")
	}

	tokens := strings.Fields(lines[first])
	if len(tokens) < 2 {
		return nil, common.NewParseError("amount", "No amount found")
	}

	amount, err := parseAmountToken(tokens[len(tokens)-1])
	if err != nil {
		return nil, err
	}

	order := &Order{
		OrderNumber: tokens[0],
		Amount:      amount,
	}

	var noteLines []string
	for _, line := range lines[first+1:] {
		if strings.TrimSpace(line) != "" {
			noteLines = append(noteLines, line)
		}
	}
	if len(noteLines) > 0 {
		note := strings.Join(noteLines, "\n")
		order.Note = &note
	}

	return order, nil
}

// parseAmountToken turns a token like "$12,345.67" into 12345.67.
func parseAmountToken(token string) (float64, error) {
	cleaned := strings.TrimPrefix(token, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, common.NewParseError("amount", "Invalid amount format")
	}
	return amount, nil
}
