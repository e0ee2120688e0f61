package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrderRefEncode(t *testing.T) {
	ref := OrderRef{
		Symbol:          "AAPL",
		Strategy:        "ma_crossover",
		Timestamp:       time.UnixMilli(1700000000000),
		TakeProfitPct:   0.02,
		StopLossPct:     0.02,
		TrailingStopPct: 0.01,
	}

	assert.Equal(t, "AAPL_ma_crossover_1700000000000|tp:2.0|sl:-2.0|ts:1.0", ref.Encode())
}

func TestOrderRefRoundtrip(t *testing.T) {
	ref := OrderRef{
		Symbol:          "BTC/USD",
		Strategy:        "volume_surge",
		Timestamp:       time.UnixMilli(1700000123456),
		TakeProfitPct:   0.03,
		StopLossPct:     0.02,
		TrailingStopPct: 0.015,
	}

	parsed, err := ParseOrderRef(ref.Encode())
	assert.Nil(t, err)
	assert.Equal(t, "BTC/USD", parsed.Symbol)
	assert.Equal(t, "volume_surge", parsed.Strategy)
	assert.True(t, parsed.Timestamp.Equal(ref.Timestamp))
	assert.InDelta(t, 0.03, parsed.TakeProfitPct, 1e-9)
	assert.InDelta(t, 0.02, parsed.StopLossPct, 1e-9)
	assert.InDelta(t, 0.015, parsed.TrailingStopPct, 1e-9)
}

func TestParseOrderRefStrategyWithUnderscores(t *testing.T) {
	parsed, err := ParseOrderRef("MSFT_mean_reversion_1700000000000|tp:2.0|sl:-2.0|ts:1.0")
	assert.Nil(t, err)
	assert.Equal(t, "MSFT", parsed.Symbol)
	assert.Equal(t, "mean_reversion", parsed.Strategy)
}

func TestParseOrderRefRejectsForeignIDs(t *testing.T) {
	_, err := ParseOrderRef("a1b2c3d4")
	assert.NotNil(t, err)

	_, err = ParseOrderRef("AAPL_manual_notamillis")
	assert.NotNil(t, err)
}
