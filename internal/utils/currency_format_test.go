package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "12.30", FormatMoney(decimal.RequireFromString("12.3")))
	assert.Equal(t, "220.00", FormatMoney(decimal.NewFromInt(220)))
	assert.Equal(t, "0.01", FormatMoney(decimal.RequireFromString("0.005")))
	assert.Equal(t, "-1.50", FormatMoney(decimal.RequireFromString("-1.5")))
}

func TestFormatWithPrecision(t *testing.T) {
	assert.Equal(t, "1.235", FormatWithPrecision(decimal.RequireFromString("1.23456"), 3))
	assert.Equal(t, "2", FormatWithPrecision(decimal.RequireFromString("2.000"), 6))
}

func TestHasMoneyScale(t *testing.T) {
	assert.True(t, HasMoneyScale(decimal.RequireFromString("10.25")))
	assert.True(t, HasMoneyScale(decimal.NewFromInt(3)))
	assert.False(t, HasMoneyScale(decimal.RequireFromString("10.255")))
}
