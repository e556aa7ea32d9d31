package formatter

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Money renders amounts in whole currency units with locale digit grouping,
// e.g. "RWF 1,234,567". Fractions are rounded half away from zero.
type Money struct {
	currency string
	printer  *message.Printer
}

// NewMoney builds a Money formatter. An unparsable locale falls back to
// English grouping.
func NewMoney(currency, locale string) Money {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return Money{
		currency: strings.ToUpper(strings.TrimSpace(currency)),
		printer:  message.NewPrinter(tag),
	}
}

// DefaultMoney formats Rwandan francs with English grouping.
func DefaultMoney() Money {
	return NewMoney("RWF", "en")
}

// Amount renders d without the currency code.
func (m Money) Amount(d decimal.Decimal) string {
	p := m.printer
	if p == nil {
		p = message.NewPrinter(language.English)
	}
	return p.Sprintf("%v", number.Decimal(d.Round(0).IntPart()))
}

// Format renders d with the currency code.
func (m Money) Format(d decimal.Decimal) string {
	if m.currency == "" {
		return m.Amount(d)
	}
	return m.currency + " " + m.Amount(d)
}

// Unit renders a unit cost, keeping up to two decimals when present.
func (m Money) Unit(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return m.Amount(d)
	}
	p := m.printer
	if p == nil {
		p = message.NewPrinter(language.English)
	}
	f, _ := d.Round(2).Float64()
	return p.Sprintf("%v", number.Decimal(f, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}
