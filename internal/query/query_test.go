package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/order-wizard/internal/entity"
	"github.com/joseph-ayodele/order-wizard/internal/query"
)

func orders() []*entity.Order {
	return []*entity.Order{
		{ID: 1, OrderNumber: "113-2089298-0236240", Amount: 16.15, ReimbursedAmount: 16.15},
		{ID: 2, OrderNumber: "114-1111111-2222222", Amount: 42.00},
		{ID: 3, OrderNumber: "abc-7654321-1234567", Amount: 17.50, ReimbursedAmount: 10.00},
	}
}

func TestFilterByOrderNumber(t *testing.T) {
	got := query.FilterByOrderNumber(orders(), "2089298")
	assert.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)

	// case-insensitive containment
	got = query.FilterByOrderNumber(orders(), "ABC")
	assert.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].ID)

	assert.Empty(t, query.FilterByOrderNumber(orders(), "zzz"))
}

func TestFilterByAmount(t *testing.T) {
	got := query.FilterByAmount(orders(), "16", 2)
	assert.Len(t, got, 2) // 16.15 and 17.50 both within +/-2

	got = query.FilterByAmount(orders(), "42.00", 2)
	assert.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)

	// unparsable target matches nothing, not an error
	assert.Empty(t, query.FilterByAmount(orders(), "not-a-number", 2))
}

func TestSearch(t *testing.T) {
	// number substring match
	got := query.Search(orders(), "114", 2)
	assert.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)

	// numeric search also matches by amount proximity
	got = query.Search(orders(), "16", 2)
	assert.Len(t, got, 2)

	// blank search returns everything
	assert.Len(t, query.Search(orders(), "  ", 2), 3)
}

func TestTotals(t *testing.T) {
	assert.InDelta(t, 75.65, query.TotalAmount(orders()), 1e-9)
	assert.InDelta(t, 26.15, query.TotalReimbursed(orders()), 1e-9)
	assert.Zero(t, query.TotalAmount(nil))
}
