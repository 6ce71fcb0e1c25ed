package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/order-wizard/internal/common"
	"github.com/joseph-ayodele/order-wizard/internal/entity"
)

func TestParseOrderText(t *testing.T) {
	t.Run("order number and amount", func(t *testing.T) {
		order, err := entity.ParseOrderText("ABC-1234567-1234567 $19.99")
		require.NoError(t, err)
		assert.Equal(t, "ABC-1234567-1234567", order.OrderNumber)
		assert.Equal(t, 19.99, order.Amount)
		assert.Nil(t, order.Note)
	})

	t.Run("following lines become the note", func(t *testing.T) {
		order, err := entity.ParseOrderText("ABC-1234567-1234567 $19.99\nGift for mom")
		require.NoError(t, err)
		require.NotNil(t, order.Note)
		assert.Equal(t, "Gift for mom", *order.Note)
	})

	t.Run("multi-line note keeps line breaks", func(t *testing.T) {
		order, err := entity.ParseOrderText("113-2089298-0236240 $16.15\nfirst line\n\nsecond line\n")
		require.NoError(t, err)
		require.NotNil(t, order.Note)
		assert.Equal(t, "first line\nsecond line", *order.Note)
	})

	t.Run("thousands separators and dollar sign are stripped", func(t *testing.T) {
		order, err := entity.ParseOrderText("113-0000000-0000000 $12,345.67")
		require.NoError(t, err)
		assert.Equal(t, 12345.67, order.Amount)
	})

	t.Run("extra tokens between number and amount are ignored", func(t *testing.T) {
		order, err := entity.ParseOrderText("113-0000000-0000000 some widget 42.50")
		require.NoError(t, err)
		assert.Equal(t, "113-0000000-0000000", order.OrderNumber)
		assert.Equal(t, 42.5, order.Amount)
	})

	t.Run("leading blank lines are skipped", func(t *testing.T) {
		order, err := entity.ParseOrderText("\n\n  \nABC-1 $10.00")
		require.NoError(t, err)
		assert.Equal(t, "ABC-1", order.OrderNumber)
	})

	t.Run("single token fails", func(t *testing.T) {
		_, err := entity.ParseOrderText("onlyonetoken")
		var parseErr *common.ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, "amount", parseErr.Field)
	})

	t.Run("empty input fails", func(t *testing.T) {
		_, err := entity.ParseOrderText("   \n  ")
		var parseErr *common.ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, "order_number", parseErr.Field)
	})

	t.Run("garbage amount fails", func(t *testing.T) {
		_, err := entity.ParseOrderText("ABC-1 $19.99x")
		var parseErr *common.ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, "Invalid amount format", parseErr.Message)
	})
}
