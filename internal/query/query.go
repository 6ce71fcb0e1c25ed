// Package query holds the pure filtering and aggregation helpers the
// list view runs over an in-memory order snapshot. No I/O here.
package query

import (
	"math"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/order-wizard/internal/entity"
)

// DefaultAmountTolerance is the band for amount-proximity search.
// Tunable; the UI has shipped with both 2 and 3 over time.
const DefaultAmountTolerance = 2.0

// FilterByOrderNumber keeps orders whose number contains the substring,
// case-insensitively.
func FilterByOrderNumber(orders []*entity.Order, substring string) []*entity.Order {
	needle := strings.ToLower(substring)
	var out []*entity.Order
	for _, o := range orders {
		if strings.Contains(strings.ToLower(o.OrderNumber), needle) {
			out = append(out, o)
		}
	}
	return out
}

// FilterByAmount keeps orders within tolerance of the target amount. An
// unparsable target matches nothing; tolerant search, not an error.
func FilterByAmount(orders []*entity.Order, target string, tolerance float64) []*entity.Order {
	amount, err := strconv.ParseFloat(strings.TrimSpace(target), 64)
	if err != nil {
		return nil
	}
	var out []*entity.Order
	for _, o := range orders {
		if math.Abs(o.Amount-amount) <= tolerance {
			out = append(out, o)
		}
	}
	return out
}

// Search combines both filters the way the search box does: an order
// matches on number substring, or on amount proximity when the search
// text parses as a number.
func Search(orders []*entity.Order, text string, tolerance float64) []*entity.Order {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return orders
	}
	amount, numeric := parseAmount(needle)

	var out []*entity.Order
	for _, o := range orders {
		if strings.Contains(strings.ToLower(o.OrderNumber), needle) {
			out = append(out, o)
			continue
		}
		if numeric && math.Abs(o.Amount-amount) <= tolerance {
			out = append(out, o)
		}
	}
	return out
}

// TotalAmount sums order amounts, not reimbursed amounts.
func TotalAmount(orders []*entity.Order) float64 {
	var total float64
	for _, o := range orders {
		total += o.Amount
	}
	return total
}

// TotalReimbursed sums the amounts actually reimbursed so far.
func TotalReimbursed(orders []*entity.Order) float64 {
	var total float64
	for _, o := range orders {
		total += o.ReimbursedAmount
	}
	return total
}

func parseAmount(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}
