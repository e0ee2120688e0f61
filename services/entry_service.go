package services

import (
	"fmt"
	"time"

	"github.com/deanturpin/lft/helpers"
	"github.com/deanturpin/lft/interfaces"
	"github.com/deanturpin/lft/market"
	"github.com/deanturpin/lft/models"
	"github.com/deanturpin/lft/strategies"
)

const liveBarTimeframe = "15Min"

// Journal receives trade events for record keeping. Implementations are
// write-only, nothing in the trading path reads them back.
type Journal interface {
	RecordOrder(order models.Order, strategy string, reason string)
	RecordExit(symbol string, strategy string, trigger models.ExitTrigger, profit float64)
	RecordBlocked(symbol string, strategy string, reason string)
}

// EntryService evaluates enabled strategies each cadence and opens at
// most one position per symbol per cycle.
type EntryService struct {
	broker       interfaces.Broker
	cfg          *models.TradingConfig
	tracker      *PositionTracker
	histories    map[string]*market.PriceHistory
	stats        map[string]*models.StrategyStats
	enabled      []interfaces.Strategy
	expectedMove map[string]map[string]float64
	lastBarTime  map[string]time.Time
	journal      Journal
	log          *helpers.FileLogger
}

func NewEntryService(broker interfaces.Broker, cfg *models.TradingConfig, tracker *PositionTracker,
	histories map[string]*market.PriceHistory, stats map[string]*models.StrategyStats) *EntryService {
	return &EntryService{
		broker:       broker,
		cfg:          cfg,
		tracker:      tracker,
		histories:    histories,
		stats:        stats,
		expectedMove: make(map[string]map[string]float64),
		lastBarTime:  make(map[string]time.Time),
		log:          &helpers.Logger,
	}
}

func (s *EntryService) SetJournal(journal Journal) {
	s.journal = journal
}

// ApplyCalibration installs the enabled strategy set and the expected
// move table the edge gate consumes, and warms live histories from the
// calibration bars.
func (s *EntryService) ApplyCalibration(result *CalibrationResult) {
	s.enabled = nil
	for _, strategy := range strategies.All() {
		if result.Enabled[strategy.Name()] {
			s.enabled = append(s.enabled, strategy)
		}
	}
	s.expectedMove = result.ExpectedMoveBps

	for symbol, bars := range result.Bars {
		history, ok := s.histories[symbol]
		if !ok {
			history = market.NewPriceHistory()
			s.histories[symbol] = history
		}
		for _, bar := range bars {
			history.AddBar(bar)
			s.lastBarTime[symbol] = bar.Timestamp
		}
	}
}

func (s *EntryService) EnabledStrategies() []interfaces.Strategy {
	return s.enabled
}

// RunCycle evaluates every watchlist symbol once. All brokerage errors
// are local, a failing symbol is skipped for this cycle only.
func (s *EntryService) RunCycle(now time.Time) {
	if len(s.enabled) == 0 {
		return
	}
	account, err := s.broker.GetAccount()
	if err != nil {
		s.log.Errorln(fmt.Sprintf("entry: account fetch failed: %v", err))
		return
	}
	cash := account.Cash

	open := make(map[string]bool)
	positions, err := s.broker.GetPositions()
	if err != nil {
		s.log.Errorln(fmt.Sprintf("entry: positions fetch failed: %v", err))
		return
	}
	for _, position := range positions {
		open[position.Symbol] = true
	}

	for _, symbol := range s.cfg.Symbols {
		if open[symbol] || s.tracker.IsTracked(symbol) {
			continue
		}
		if s.tracker.InCooldown(symbol, now) {
			continue
		}
		crypto := helpers.IsCrypto(symbol)
		if !crypto {
			if !helpers.IsMarketHours(now) || helpers.IsPastEODCutoff(now) {
				continue
			}
			if s.cfg.RiskOffAfter > 0 && helpers.SinceMarketOpen(now) < s.cfg.RiskOffAfter {
				continue
			}
		}
		if cash < s.cfg.TradeNotional {
			s.log.Debugln(fmt.Sprintf("entry: %s skipped, cash %.2f below notional", symbol, cash))
			continue
		}
		if spent := s.evaluateSymbol(symbol, crypto, now); spent {
			cash -= s.cfg.TradeNotional
		}
	}
}

func (s *EntryService) evaluateSymbol(symbol string, crypto bool, now time.Time) bool {
	snapshot, err := s.broker.GetSnapshot(symbol)
	if err != nil {
		s.log.Warnln(fmt.Sprintf("entry: %s snapshot failed: %v", symbol, err))
		return false
	}
	s.refreshHistory(symbol, now)

	history, ok := s.histories[symbol]
	if !ok || history.Size() < minEntryHistory {
		return false
	}

	tradeable, blockReason := strategies.IsTradeable(snapshot, history,
		s.cfg.MaxSpreadBps(crypto), s.cfg.MinVolumeRatio)
	if !tradeable {
		s.log.Debugln(fmt.Sprintf("entry: %s not tradeable: %s", symbol, blockReason))
		if s.journal != nil {
			s.journal.RecordBlocked(symbol, "", blockReason)
		}
		return false
	}

	for _, strategy := range s.enabled {
		signal := strategy.Evaluate(history, s.histories)
		if !signal.ShouldBuy {
			continue
		}
		if stats, ok := s.stats[strategy.Name()]; ok {
			stats.SignalsGenerated++
		}
		confidence := strategies.AdjustedConfidence(signal, history)
		if confidence < s.cfg.MinConfidence {
			s.log.Debugln(fmt.Sprintf("entry: %s %s confidence %.2f below gate", symbol, strategy.Name(), confidence))
			continue
		}
		if ok, reason := s.hasEdge(symbol, strategy.Name(), snapshot); !ok {
			s.log.Infoln(fmt.Sprintf("entry: %s %s blocked: %s", symbol, strategy.Name(), reason))
			if s.journal != nil {
				s.journal.RecordBlocked(symbol, strategy.Name(), reason)
			}
			return false
		}
		return s.placeEntry(symbol, crypto, snapshot, signal, now)
	}
	return false
}

// refreshHistory appends any completed live bars newer than the last one
// absorbed. Repolls of the same bar are dropped on the timestamp.
func (s *EntryService) refreshHistory(symbol string, now time.Time) {
	bars, err := s.broker.GetBars(symbol, liveBarTimeframe, now.Add(-2*time.Hour), now, 8)
	if err != nil {
		s.log.Warnln(fmt.Sprintf("entry: %s bars failed: %v", symbol, err))
		return
	}
	history, ok := s.histories[symbol]
	if !ok {
		history = market.NewPriceHistory()
		s.histories[symbol] = history
	}
	for _, bar := range bars {
		if !bar.Timestamp.After(s.lastBarTime[symbol]) {
			continue
		}
		history.AddBar(bar)
		s.lastBarTime[symbol] = bar.Timestamp
	}
}

// hasEdge requires the calibrated expected move to clear the round-trip
// cost with room to spare. Without a calibration estimate the profit
// target stands in for the expected move.
func (s *EntryService) hasEdge(symbol string, strategyName string, snapshot *models.Snapshot) (bool, string) {
	expected, ok := s.expectedMove[strategyName][symbol]
	if !ok {
		expected = helpers.PctToBps(s.cfg.TakeProfitPct * 100.0)
	}
	cost := helpers.SpreadBps(snapshot.Bid, snapshot.Ask) + s.cfg.SlippageBufferBps + s.cfg.AdverseSelectionBps
	edge := expected - cost
	if edge < s.cfg.MinEdgeBps {
		return false, fmt.Sprintf("edge %.1f bps below minimum %.1f (expected %.1f, cost %.1f)",
			edge, s.cfg.MinEdgeBps, expected, cost)
	}
	return true, ""
}

func (s *EntryService) placeEntry(symbol string, crypto bool, snapshot *models.Snapshot,
	signal models.StrategySignal, now time.Time) bool {
	ref := models.OrderRef{
		Symbol:          symbol,
		Strategy:        signal.StrategyName,
		Timestamp:       now,
		TakeProfitPct:   s.cfg.TakeProfitPct,
		StopLossPct:     s.cfg.StopLossPct,
		TrailingStopPct: s.cfg.TrailingStopPct,
	}
	request := models.OrderRequest{
		Symbol:        symbol,
		Side:          models.SideTypeBuy,
		ClientOrderID: ref.Encode(),
	}
	if crypto {
		request.Qty = s.cfg.TradeNotional / snapshot.Mid()
	} else {
		request.Notional = s.cfg.TradeNotional
	}

	order, err := s.broker.PlaceOrder(request)
	if err != nil {
		s.log.Errorln(fmt.Sprintf("entry: %s order failed: %v", symbol, err))
		return false
	}

	entryPrice := order.FilledAvgPrice
	if entryPrice == 0.0 {
		entryPrice = snapshot.Mid()
	}
	s.tracker.Track(ref, entryPrice)
	if stats, ok := s.stats[signal.StrategyName]; ok {
		stats.TradesExecuted++
	}
	if s.journal != nil {
		s.journal.RecordOrder(*order, signal.StrategyName, signal.Reason)
	}
	s.log.Infoln(fmt.Sprintf("entry: bought %s via %s at %.2f (%s)",
		symbol, signal.StrategyName, entryPrice, signal.Reason))
	return true
}
