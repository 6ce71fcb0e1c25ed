package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanOrderText(t *testing.T) {
	t.Run("reshapes noisy receipt text", func(t *testing.T) {
		in := "Order Total\n'ORDER # 113-2089298-0236240'\nTotal $16.15"
		assert.Equal(t, "113-2089298-0236240 $16.15", CleanOrderText(in))
	})

	t.Run("unrelated text passes through unchanged", func(t *testing.T) {
		in := "random unrelated text"
		assert.Equal(t, in, CleanOrderText(in))
	})

	t.Run("last amount wins", func(t *testing.T) {
		in := "subtotal $10.00\nORDER # 113-2089298-0236240\ntotal $16.15"
		assert.Equal(t, "113-2089298-0236240 $16.15", CleanOrderText(in))
	})

	t.Run("three fraction digits are not an amount", func(t *testing.T) {
		in := "ORDER # 113-2089298-0236240\nweight 0.250kg $12.345"
		assert.Equal(t, in, CleanOrderText(in))
	})

	t.Run("order number alone falls through unchanged", func(t *testing.T) {
		in := "ORDER # 113-2089298-0236240\nno price here"
		assert.Equal(t, in, CleanOrderText(in))
	})

	t.Run("order number after the amount is still paired", func(t *testing.T) {
		in := "Total $99.99\nsomething else\n'order # 113-2089298-0236240'"
		assert.Equal(t, "113-2089298-0236240 $99.99", CleanOrderText(in))
	})

	t.Run("order number requires the merchant shape", func(t *testing.T) {
		in := "ORDER # 12-345\nTotal $16.15"
		assert.Equal(t, in, CleanOrderText(in))
	})

	t.Run("quotes are stripped before matching", func(t *testing.T) {
		in := "'ORDER' '#' '113-2089298-0236240' costs $20.00"
		assert.Equal(t, "113-2089298-0236240 $20.00", CleanOrderText(in))
	})
}

func TestNormalizeWhitespace(t *testing.T) {
	in := "line one\r\nline\ttwo   spaced\n\n\n\nline three   \n"
	assert.Equal(t, "line one\nline two spaced\n\nline three", NormalizeWhitespace(in))

	assert.Equal(t, "", NormalizeWhitespace(""))
}

func TestFindAmount(t *testing.T) {
	assert.Equal(t, "$16.15", findAmount("Total $16.15"))
	assert.Equal(t, "$1234.56", findAmount("big $1234.56 spend"))
	assert.Equal(t, "", findAmount("$1.23"))      // needs at least 2 integer digits
	assert.Equal(t, "", findAmount("$12.345"))    // third fraction digit
	assert.Equal(t, "$20.00", findAmount("$12.345 then $20.00"))
}
