package services

import (
	"testing"
	"time"

	"github.com/deanturpin/lft/market"
	"github.com/deanturpin/lft/models"
	"github.com/stretchr/testify/assert"
)

// Tuesday 13:00 in New York, mid session.
var entryNow = time.Date(2024, 3, 12, 17, 0, 0, 0, time.UTC)

func newEntryFixture(broker *mockBroker, cfg *models.TradingConfig) (*EntryService, *PositionTracker, map[string]*models.StrategyStats) {
	tracker := NewPositionTracker()
	histories := make(map[string]*market.PriceHistory)
	stats := map[string]*models.StrategyStats{
		"volume_surge": {StrategyName: "volume_surge"},
	}
	return NewEntryService(broker, cfg, tracker, histories, stats), tracker, stats
}

func surgeCalibration(symbol string, warmBars []models.Bar, expectedBps float64) *CalibrationResult {
	return &CalibrationResult{
		Stats:   map[string]*models.StrategyStats{"volume_surge": {StrategyName: "volume_surge"}},
		Enabled: map[string]bool{"volume_surge": true},
		ExpectedMoveBps: map[string]map[string]float64{
			"volume_surge": {symbol: expectedBps},
		},
		Bars: map[string][]models.Bar{symbol: warmBars},
	}
}

func TestEntryCyclePlacesOrderOnSignal(t *testing.T) {
	warmStart := entryNow.Add(-25 * time.Hour)
	warm := flatBars(25, 100, 1000, warmStart, time.Hour)
	liveBar := models.Bar{Timestamp: entryNow.Add(-15 * time.Minute), Open: 100, High: 101, Low: 100, Close: 101, Volume: 6000}

	broker := &mockBroker{
		account:   models.Account{Cash: 10000},
		snapshots: map[string]*models.Snapshot{"XYZ": {Symbol: "XYZ", Bid: 100.99, Ask: 101.01, LastTradePrice: 101}},
		bars:      map[string][]models.Bar{"XYZ": {liveBar}},
	}
	cfg := models.NewTradingConfig()
	cfg.Symbols = []string{"XYZ"}

	service, tracker, stats := newEntryFixture(broker, cfg)
	journal := &mockJournal{}
	service.SetJournal(journal)
	service.ApplyCalibration(surgeCalibration("XYZ", warm, 120))

	service.RunCycle(entryNow)

	assert.Equal(t, 1, len(broker.placed))
	request := broker.placed[0]
	assert.Equal(t, models.SideTypeBuy, request.Side)
	assert.Equal(t, 100.0, request.Notional)
	assert.Equal(t, 0.0, request.Qty)

	ref, err := models.ParseOrderRef(request.ClientOrderID)
	assert.Nil(t, err)
	assert.Equal(t, "XYZ", ref.Symbol)
	assert.Equal(t, "volume_surge", ref.Strategy)

	assert.True(t, tracker.IsTracked("XYZ"))
	assert.Equal(t, 1, stats["volume_surge"].SignalsGenerated)
	assert.Equal(t, 1, stats["volume_surge"].TradesExecuted)
	assert.Equal(t, []string{"volume_surge"}, journal.orders)
}

func TestEntryCycleSizesCryptoByQuantity(t *testing.T) {
	warmStart := entryNow.Add(-25 * time.Hour)
	warm := flatBars(25, 100, 1000, warmStart, time.Hour)
	liveBar := models.Bar{Timestamp: entryNow.Add(-15 * time.Minute), Open: 100, High: 101, Low: 100, Close: 101, Volume: 6000}

	broker := &mockBroker{
		account:   models.Account{Cash: 10000},
		snapshots: map[string]*models.Snapshot{"ETH/USD": {Symbol: "ETH/USD", Bid: 100.5, Ask: 101.5, LastTradePrice: 101}},
		bars:      map[string][]models.Bar{"ETH/USD": {liveBar}},
	}
	cfg := models.NewTradingConfig()
	cfg.Symbols = []string{"ETH/USD"}

	service, _, _ := newEntryFixture(broker, cfg)
	service.ApplyCalibration(surgeCalibration("ETH/USD", warm, 200))

	// Crypto ignores equity market hours, a Saturday works fine.
	service.RunCycle(time.Date(2024, 3, 16, 17, 0, 0, 0, time.UTC))

	assert.Equal(t, 1, len(broker.placed))
	request := broker.placed[0]
	assert.Equal(t, 0.0, request.Notional)
	assert.InDelta(t, 100.0/101.0, request.Qty, 1e-9)
}

func TestEntryCycleRespectsMarketHours(t *testing.T) {
	warmStart := entryNow.Add(-25 * time.Hour)
	warm := flatBars(25, 100, 1000, warmStart, time.Hour)
	liveBar := models.Bar{Timestamp: entryNow.Add(-15 * time.Minute), Open: 100, High: 101, Low: 100, Close: 101, Volume: 6000}

	broker := &mockBroker{
		account:   models.Account{Cash: 10000},
		snapshots: map[string]*models.Snapshot{"XYZ": {Symbol: "XYZ", Bid: 100.99, Ask: 101.01, LastTradePrice: 101}},
		bars:      map[string][]models.Bar{"XYZ": {liveBar}},
	}
	cfg := models.NewTradingConfig()
	cfg.Symbols = []string{"XYZ"}

	service, _, _ := newEntryFixture(broker, cfg)
	service.ApplyCalibration(surgeCalibration("XYZ", warm, 120))

	saturday := time.Date(2024, 3, 16, 17, 0, 0, 0, time.UTC)
	service.RunCycle(saturday)
	assert.Equal(t, 0, len(broker.placed))
}

func TestEntryCycleBlocksOnMissingEdge(t *testing.T) {
	warmStart := entryNow.Add(-25 * time.Hour)
	warm := flatBars(25, 100, 1000, warmStart, time.Hour)
	liveBar := models.Bar{Timestamp: entryNow.Add(-15 * time.Minute), Open: 100, High: 101, Low: 100, Close: 101, Volume: 6000}

	broker := &mockBroker{
		account:   models.Account{Cash: 10000},
		snapshots: map[string]*models.Snapshot{"XYZ": {Symbol: "XYZ", Bid: 100.99, Ask: 101.01, LastTradePrice: 101}},
		bars:      map[string][]models.Bar{"XYZ": {liveBar}},
	}
	cfg := models.NewTradingConfig()
	cfg.Symbols = []string{"XYZ"}

	service, tracker, _ := newEntryFixture(broker, cfg)
	journal := &mockJournal{}
	service.SetJournal(journal)
	// An expected move of 5 bps cannot pay the round-trip cost.
	service.ApplyCalibration(surgeCalibration("XYZ", warm, 5))

	service.RunCycle(entryNow)

	assert.Equal(t, 0, len(broker.placed))
	assert.False(t, tracker.IsTracked("XYZ"))
	assert.Equal(t, 1, len(journal.blocked))
	assert.Contains(t, journal.blocked[0], "edge")
}

func TestEntryCycleConfidenceGate(t *testing.T) {
	warmStart := entryNow.Add(-20 * time.Hour)
	warm := flatBars(19, 100, 1000, warmStart, time.Hour)
	// Ratio just above the surge trigger, confidence ratio/3 lands
	// under the 0.7 gate.
	liveBar := models.Bar{Timestamp: entryNow.Add(-15 * time.Minute), Open: 100, High: 101, Low: 100, Close: 101, Volume: 2170}

	broker := &mockBroker{
		account:   models.Account{Cash: 10000},
		snapshots: map[string]*models.Snapshot{"XYZ": {Symbol: "XYZ", Bid: 100.99, Ask: 101.01, LastTradePrice: 101}},
		bars:      map[string][]models.Bar{"XYZ": {liveBar}},
	}
	cfg := models.NewTradingConfig()
	cfg.Symbols = []string{"XYZ"}

	service, _, stats := newEntryFixture(broker, cfg)
	service.ApplyCalibration(surgeCalibration("XYZ", warm, 120))

	service.RunCycle(entryNow)

	assert.Equal(t, 0, len(broker.placed))
	assert.Equal(t, 1, stats["volume_surge"].SignalsGenerated)
}

func TestEntryCycleSkipsCooldownAndTracked(t *testing.T) {
	broker := &mockBroker{account: models.Account{Cash: 10000}}
	cfg := models.NewTradingConfig()
	cfg.Symbols = []string{"XYZ"}

	service, tracker, _ := newEntryFixture(broker, cfg)
	service.ApplyCalibration(surgeCalibration("XYZ", nil, 120))

	tracker.StartCooldown("XYZ", entryNow.Add(10*time.Minute))
	service.RunCycle(entryNow)
	assert.Equal(t, 0, len(broker.placed))

	tracker.Track(models.OrderRef{Symbol: "XYZ", Strategy: "volume_surge"}, 100)
	service.RunCycle(entryNow.Add(time.Hour))
	assert.Equal(t, 0, len(broker.placed))
}
