package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "$1,234.50", Format(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "$0.00", Format(decimal.Zero))
	assert.Equal(t, "$25.00", Format(decimal.NewFromInt(25)))
}

func TestFormatterCustomSymbol(t *testing.T) {
	f := NewFormatter("€")
	assert.Equal(t, "€9.99", f.Format(decimal.RequireFromString("9.99")))
}

func TestFormatterEmptySymbolFallsBack(t *testing.T) {
	f := NewFormatter("")
	assert.Equal(t, "$1.00", f.Format(decimal.NewFromInt(1)))
}
