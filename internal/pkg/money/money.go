// Package money formats decimal amounts for customer-facing output.
// Amounts are stored and computed as shopspring decimals; formatting
// only happens at the presentation edge (emails, invoices, exports).
package money

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

// Formatter renders decimal amounts in a fixed currency.
type Formatter struct {
	ac accounting.Accounting
}

// NewFormatter creates a Formatter for the given currency symbol.
func NewFormatter(symbol string) *Formatter {
	if symbol == "" {
		symbol = "$"
	}
	return &Formatter{ac: accounting.Accounting{Symbol: symbol, Precision: 2}}
}

// Format renders an amount like "$1,234.50".
func (f *Formatter) Format(amount decimal.Decimal) string {
	return f.ac.FormatMoneyDecimal(amount)
}

var defaultFormatter = NewFormatter("$")

// Format renders an amount with the default dollar formatter.
func Format(amount decimal.Decimal) string {
	return defaultFormatter.Format(amount)
}
