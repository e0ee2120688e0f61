package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/deanturpin/lft/helpers"
	"github.com/deanturpin/lft/interfaces"
	"github.com/deanturpin/lft/market"
	"github.com/deanturpin/lft/models"
	"github.com/deanturpin/lft/strategies"
)

const (
	calibrationTimeframe = "1Hour"
	minEntryHistory      = 20
	// Bars ahead used to estimate the expected move after a signal.
	forwardReturnHorizon = 10
)

// CalibrationResult is the outcome of backtesting every strategy over
// the recent history of the watchlist.
type CalibrationResult struct {
	Stats   map[string]*models.StrategyStats
	Enabled map[string]bool
	// ExpectedMoveBps[strategy][symbol] is the mean forward move after
	// that strategy's historical signals, feeding the live edge gate.
	ExpectedMoveBps map[string]map[string]float64
	// Bars kept so the session can warm live histories without refetching.
	Bars map[string][]models.Bar
}

// CalibrationService replays historical bars through each strategy
// independently and enables only the ones that would have made money.
type CalibrationService struct {
	data interfaces.MarketData
	cfg  *models.TradingConfig
	log  *helpers.FileLogger
}

func NewCalibrationService(data interfaces.MarketData, cfg *models.TradingConfig) *CalibrationService {
	return &CalibrationService{
		data: data,
		cfg:  cfg,
		log:  &helpers.Logger,
	}
}

func (s *CalibrationService) Calibrate(symbols []string, now time.Time) (*CalibrationResult, error) {
	bars := make(map[string][]models.Bar)
	start := now.AddDate(0, 0, -s.cfg.CalibrationDays)
	for _, symbol := range symbols {
		symbolBars, err := s.data.GetBars(symbol, calibrationTimeframe, start, now, market.WindowSize*10)
		if err != nil {
			s.log.Warnln(fmt.Sprintf("calibration: skipping %s: %v", symbol, err))
			continue
		}
		if len(symbolBars) == 0 {
			s.log.Warnln(fmt.Sprintf("calibration: no bars for %s", symbol))
			continue
		}
		bars[symbol] = symbolBars
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("calibration: no historical data for any of %d symbols", len(symbols))
	}

	result := &CalibrationResult{
		Stats:           make(map[string]*models.StrategyStats),
		Enabled:         make(map[string]bool),
		ExpectedMoveBps: make(map[string]map[string]float64),
		Bars:            bars,
	}

	for _, strategy := range strategies.All() {
		stats, expected := s.runBacktest(strategy, bars)
		result.Stats[strategy.Name()] = stats
		result.ExpectedMoveBps[strategy.Name()] = expected
		result.Enabled[strategy.Name()] = ShouldEnable(stats, s.cfg.MinTradesToEnable)
		s.log.Infoln(fmt.Sprintf("calibration: %s net %.2f over %d closed trades (win rate %.0f%%) enabled=%t",
			strategy.Name(), stats.NetProfit(), stats.TradesClosed, stats.WinRate(),
			result.Enabled[strategy.Name()]))
	}
	return result, nil
}

// ShouldEnable gates a strategy on both sign and sample size. A positive
// result from a handful of trades proves nothing.
func ShouldEnable(stats *models.StrategyStats, minTrades int) bool {
	return stats.NetProfit() > 0.0 && stats.TradesClosed >= minTrades
}

type simPosition struct {
	entryPrice float64
	qty        float64
	peakPrice  float64
}

// runBacktest walks the bar indices in two passes: first every symbol's
// history absorbs that index's bar, then per symbol exits are evaluated
// before entries. This mirrors the live ordering where an exit frees
// cash before the next entry looks for it.
func (s *CalibrationService) runBacktest(strategy interfaces.Strategy, barsBySymbol map[string][]models.Bar) (*models.StrategyStats, map[string]float64) {
	stats := &models.StrategyStats{StrategyName: strategy.Name()}
	histories := make(map[string]*market.PriceHistory)
	positions := make(map[string]*simPosition)
	signalBars := make(map[string][]int)
	cash := s.cfg.StartingCash

	// Sorted symbol order so cash contention between simultaneous
	// signals resolves the same way on every run over the same data.
	symbols := make([]string, 0, len(barsBySymbol))
	maxLen := 0
	for symbol, bars := range barsBySymbol {
		symbols = append(symbols, symbol)
		histories[symbol] = market.NewPriceHistory()
		if len(bars) > maxLen {
			maxLen = len(bars)
		}
	}
	sort.Strings(symbols)

	thresholds := ExitThresholds{
		TakeProfitPct:   s.cfg.TakeProfitPct,
		StopLossPct:     s.cfg.StopLossPct,
		TrailingStopPct: s.cfg.TrailingStopPct,
	}

	for i := 0; i < maxLen; i++ {
		for _, symbol := range symbols {
			if bars := barsBySymbol[symbol]; i < len(bars) {
				histories[symbol].AddBar(bars[i])
			}
		}

		for _, symbol := range symbols {
			bars := barsBySymbol[symbol]
			if i >= len(bars) {
				continue
			}
			bar := bars[i]
			crypto := helpers.IsCrypto(symbol)
			spread := s.cfg.SpreadFraction(crypto)
			history := histories[symbol]

			if position, open := positions[symbol]; open {
				if bar.Close > position.peakPrice {
					position.peakPrice = bar.Close
				}
				exit, _ := EvaluateExit(position.entryPrice, bar.Close, position.peakPrice, thresholds)
				if exit {
					fill := ApplySpread(bar.Close, spread, false)
					cash += position.qty * fill
					stats.RecordClose(position.qty * (fill - position.entryPrice))
					delete(positions, symbol)
				}
				continue
			}

			if s.skipForRiskOff(bar.Timestamp, crypto) {
				continue
			}
			if cash < s.cfg.TradeNotional || history.Size() < minEntryHistory {
				continue
			}
			signal := strategy.Evaluate(history, histories)
			if !signal.ShouldBuy {
				continue
			}
			stats.SignalsGenerated++
			signalBars[symbol] = append(signalBars[symbol], i)
			if strategies.AdjustedConfidence(signal, history) < s.cfg.MinConfidence {
				continue
			}

			fill := ApplySpread(bar.Close, spread, true)
			qty := s.cfg.TradeNotional / fill
			cash -= s.cfg.TradeNotional
			stats.TradesExecuted++
			positions[symbol] = &simPosition{entryPrice: fill, qty: qty, peakPrice: fill}
		}
	}

	// Mark-to-market whatever is still open at the final bar. These
	// always count as closed regardless of sign.
	for symbol, position := range positions {
		bars := barsBySymbol[symbol]
		finalPrice := bars[len(bars)-1].Close
		cash += position.qty * finalPrice
		stats.RecordClose(position.qty * (finalPrice - position.entryPrice))
	}

	return stats, s.expectedMoves(signalBars, barsBySymbol)
}

func (s *CalibrationService) skipForRiskOff(barTime time.Time, crypto bool) bool {
	if crypto || s.cfg.RiskOffAfter <= 0 {
		return false
	}
	elapsed := helpers.SinceMarketOpen(barTime)
	return elapsed >= 0 && elapsed < s.cfg.RiskOffAfter
}

// expectedMoves averages the forward move, in bps, a fixed horizon after
// each bar where the strategy signalled. Signals too close to the end of
// history are ignored.
func (s *CalibrationService) expectedMoves(signalBars map[string][]int, barsBySymbol map[string][]models.Bar) map[string]float64 {
	expected := make(map[string]float64)
	for symbol, indices := range signalBars {
		bars := barsBySymbol[symbol]
		total := 0.0
		count := 0
		for _, i := range indices {
			if i+forwardReturnHorizon >= len(bars) {
				continue
			}
			total += helpers.PriceChangeToBps(bars[i].Close, bars[i+forwardReturnHorizon].Close)
			count++
		}
		if count > 0 {
			expected[symbol] = total / float64(count)
		}
	}
	return expected
}
