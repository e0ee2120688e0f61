package services

import (
	"errors"
	"testing"
	"time"

	"github.com/deanturpin/lft/models"
	"github.com/stretchr/testify/assert"
)

func TestShouldEnable(t *testing.T) {
	profitable := &models.StrategyStats{TradesClosed: 5, ProfitableTrades: 4, LosingTrades: 1, TotalProfit: 20.0, TotalLoss: -5.0}
	assert.True(t, ShouldEnable(profitable, 3))

	// A single lucky trade is not a sample.
	lucky := &models.StrategyStats{TradesClosed: 1, ProfitableTrades: 1, TotalProfit: 150.0}
	assert.False(t, ShouldEnable(lucky, 3))

	loser := &models.StrategyStats{TradesClosed: 10, ProfitableTrades: 4, LosingTrades: 6, TotalProfit: 10.0, TotalLoss: -25.0}
	assert.False(t, ShouldEnable(loser, 3))
}

func TestCalibrateBacktestsVolumeSurgeRoundTrip(t *testing.T) {
	start := time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC)
	bars := flatBars(24, 100, 1000, start, time.Hour)
	surge := start.Add(24 * time.Hour)
	bars = append(bars, models.Bar{Timestamp: surge, Open: 100, High: 101, Low: 100, Close: 101, Volume: 6000})
	for i := 0; i < 3; i++ {
		bars = append(bars, models.Bar{
			Timestamp: surge.Add(time.Duration(i+1) * time.Hour),
			Open:      104, High: 104, Low: 104, Close: 104,
			Volume: 1000,
		})
	}

	broker := &mockBroker{bars: map[string][]models.Bar{"XYZ": bars}}
	cfg := models.NewTradingConfig()
	cfg.Symbols = []string{"XYZ"}

	service := NewCalibrationService(broker, cfg)
	result, err := service.Calibrate(cfg.Symbols, surge.Add(4*time.Hour))
	assert.Nil(t, err)

	stats := result.Stats["volume_surge"]
	assert.Equal(t, 1, stats.SignalsGenerated)
	assert.Equal(t, 1, stats.TradesExecuted)
	// The 1% surge bar opens the trade, the jump to 104 closes it at the
	// profit target.
	assert.Equal(t, 1, stats.TradesClosed)
	assert.Greater(t, stats.NetProfit(), 0.0)
	// Profitable but under the trade-count floor.
	assert.False(t, result.Enabled["volume_surge"])

	assert.Equal(t, len(bars), len(result.Bars["XYZ"]))
}

func TestCalibrateMarksOpenPositionToMarket(t *testing.T) {
	start := time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC)
	bars := flatBars(24, 100, 1000, start, time.Hour)
	// The surge bar is also the last bar, so the trade never sees an
	// exit and is closed at the final price for a small spread loss.
	bars = append(bars, models.Bar{Timestamp: start.Add(24 * time.Hour), Open: 100, High: 101, Low: 100, Close: 101, Volume: 6000})

	broker := &mockBroker{bars: map[string][]models.Bar{"XYZ": bars}}
	cfg := models.NewTradingConfig()
	cfg.Symbols = []string{"XYZ"}

	result, err := NewCalibrationService(broker, cfg).Calibrate(cfg.Symbols, start.Add(25*time.Hour))
	assert.Nil(t, err)

	stats := result.Stats["volume_surge"]
	assert.Equal(t, 1, stats.TradesExecuted)
	assert.Equal(t, 1, stats.TradesClosed)
	assert.Less(t, stats.NetProfit(), 0.0)
}

func TestBacktestResolvesCashContentionDeterministically(t *testing.T) {
	start := time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC)

	// Both symbols surge on the same bar with cash for only one trade.
	// AAA runs to the profit target, BBB collapses, so which one gets
	// the notional decides the sign of the result.
	surge := models.Bar{Timestamp: start.Add(24 * time.Hour), Open: 100, High: 101, Low: 100, Close: 101, Volume: 6000}
	aaa := append(flatBars(24, 100, 1000, start, time.Hour), surge)
	bbb := append(flatBars(24, 100, 1000, start, time.Hour), surge)
	for i := 0; i < 3; i++ {
		next := surge.Timestamp.Add(time.Duration(i+1) * time.Hour)
		aaa = append(aaa, models.Bar{Timestamp: next, Open: 104, High: 104, Low: 104, Close: 104, Volume: 1000})
		bbb = append(bbb, models.Bar{Timestamp: next, Open: 90, High: 90, Low: 90, Close: 90, Volume: 1000})
	}

	broker := &mockBroker{bars: map[string][]models.Bar{"AAA": aaa, "BBB": bbb}}
	cfg := models.NewTradingConfig()
	cfg.Symbols = []string{"AAA", "BBB"}
	cfg.StartingCash = 100

	// Symbol order in the replay is sorted, so AAA takes the single
	// notional on every run over identical data.
	for run := 0; run < 10; run++ {
		result, err := NewCalibrationService(broker, cfg).Calibrate(cfg.Symbols, surge.Timestamp.Add(4*time.Hour))
		assert.Nil(t, err)

		stats := result.Stats["volume_surge"]
		assert.Equal(t, 1, stats.TradesExecuted)
		assert.Equal(t, 1, stats.TradesClosed)
		assert.Greater(t, stats.NetProfit(), 0.0)
	}
}

func TestCalibrateFailsOnlyWhenNoSymbolHasData(t *testing.T) {
	broker := &mockBroker{
		bars: map[string][]models.Bar{
			"GOOD": flatBars(30, 100, 1000, time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC), time.Hour),
		},
		barsErr: map[string]error{"BAD": errors.New("status 404")},
	}
	cfg := models.NewTradingConfig()

	result, err := NewCalibrationService(broker, cfg).Calibrate([]string{"GOOD", "BAD"}, time.Now())
	assert.Nil(t, err)
	assert.Contains(t, result.Bars, "GOOD")
	assert.NotContains(t, result.Bars, "BAD")

	_, err = NewCalibrationService(broker, cfg).Calibrate([]string{"BAD"}, time.Now())
	assert.NotNil(t, err)
}
