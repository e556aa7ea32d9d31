package formatter

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMoney_Format(t *testing.T) {
	m := DefaultMoney()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"zero", "0", "RWF 0"},
		{"grouping", "4950006", "RWF 4,950,006"},
		{"rounds half away from zero", "2.5", "RWF 3"},
		{"rounds down", "1234.49", "RWF 1,234"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Format(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestMoney_UnitKeepsCents(t *testing.T) {
	m := DefaultMoney()
	assert.Equal(t, "1,250.75", m.Unit(decimal.RequireFromString("1250.75")))
	assert.Equal(t, "1,250", m.Unit(decimal.RequireFromString("1250")))
}

func TestMoney_CurrencyIsNormalised(t *testing.T) {
	m := NewMoney(" usd ", "not a locale!")
	assert.Equal(t, "USD 12", m.Format(decimal.NewFromInt(12)))
}

func TestMoney_ZeroValueStillFormats(t *testing.T) {
	var m Money
	assert.Equal(t, "1,000", m.Format(decimal.NewFromInt(1000)))
}
