package rollup

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSafeDiv(t *testing.T) {
	assertDecimal(t, "2.5", SafeDiv(d("5"), d("2")))
	assert.True(t, SafeDiv(d("5"), decimal.Zero).IsZero())
	assert.True(t, SafeDiv(decimal.Zero, decimal.Zero).IsZero())
}

func TestPercent(t *testing.T) {
	assertDecimal(t, "25", Percent(d("1"), d("4")))
	assert.True(t, Percent(d("1"), decimal.Zero).IsZero())
}

func TestGainPercent(t *testing.T) {
	assertDecimal(t, "40.625", GainPercent(d("650"), d("1600")))
	assertDecimal(t, "-50", GainPercent(d("-50"), d("100")))
	assert.True(t, GainPercent(d("100"), decimal.Zero).IsZero())
	assert.True(t, GainPercent(d("100"), d("-10")).IsZero())
}
