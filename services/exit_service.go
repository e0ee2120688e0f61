package services

import (
	"fmt"
	"time"

	"github.com/deanturpin/lft/helpers"
	"github.com/deanturpin/lft/interfaces"
	"github.com/deanturpin/lft/market"
	"github.com/deanturpin/lft/models"
)

const noisePeriods = 20

// ExitService walks open positions each cadence and closes the ones
// whose exit conditions fire. A failed close is not retried internally,
// the position stays tracked and comes around again next cycle.
type ExitService struct {
	broker    interfaces.Broker
	cfg       *models.TradingConfig
	tracker   *PositionTracker
	histories map[string]*market.PriceHistory
	stats     map[string]*models.StrategyStats
	journal   Journal
	log       *helpers.FileLogger
}

func NewExitService(broker interfaces.Broker, cfg *models.TradingConfig, tracker *PositionTracker,
	histories map[string]*market.PriceHistory, stats map[string]*models.StrategyStats) *ExitService {
	return &ExitService{
		broker:    broker,
		cfg:       cfg,
		tracker:   tracker,
		histories: histories,
		stats:     stats,
		log:       &helpers.Logger,
	}
}

func (s *ExitService) SetJournal(journal Journal) {
	s.journal = journal
}

// RunCycle evaluates take-profit, stop-loss and trailing-stop on every
// open position.
func (s *ExitService) RunCycle(now time.Time) {
	positions, err := s.broker.GetPositions()
	if err != nil {
		s.log.Errorln(fmt.Sprintf("exit: positions fetch failed: %v", err))
		return
	}
	for i := range positions {
		position := &positions[i]
		current := s.currentPrice(position)
		if current == 0.0 {
			continue
		}
		s.recoverTracking(position, current)

		peak := s.tracker.UpdatePeak(position.Symbol, current)
		thresholds := s.thresholdsFor(position.Symbol)
		exit, trigger := EvaluateExit(position.AvgEntryPrice, current, peak, thresholds)
		if exit {
			s.close(position, trigger, now)
		}
	}
}

// RunPanicCycle is the fast catastrophic-loss check, bounding worst-case
// drawdown between normal exit polls.
func (s *ExitService) RunPanicCycle(now time.Time) {
	positions, err := s.broker.GetPositions()
	if err != nil {
		s.log.Errorln(fmt.Sprintf("exit: panic positions fetch failed: %v", err))
		return
	}
	for i := range positions {
		position := &positions[i]
		if position.PLPct() <= -s.cfg.PanicStopPct {
			s.close(position, models.ExitTriggerPanicStop, now)
		}
	}
}

// LiquidateEquities force-closes every non-crypto position at the end of
// the trading day. Crypto trades around the clock and stays open.
func (s *ExitService) LiquidateEquities(now time.Time) {
	positions, err := s.broker.GetPositions()
	if err != nil {
		s.log.Errorln(fmt.Sprintf("exit: liquidation positions fetch failed: %v", err))
		return
	}
	for i := range positions {
		position := &positions[i]
		if helpers.IsCrypto(position.Symbol) {
			continue
		}
		s.close(position, models.ExitTriggerEndOfDay, now)
	}
}

func (s *ExitService) currentPrice(position *models.Position) float64 {
	if position.CurrentPrice > 0.0 {
		return position.CurrentPrice
	}
	snapshot, err := s.broker.GetSnapshot(position.Symbol)
	if err != nil {
		s.log.Warnln(fmt.Sprintf("exit: %s snapshot failed: %v", position.Symbol, err))
		return 0.0
	}
	return snapshot.LastTradePrice
}

// recoverTracking rebuilds attribution for a position opened by an
// earlier process, decoding the client order ID we wrote at entry.
func (s *ExitService) recoverTracking(position *models.Position, current float64) {
	if s.tracker.IsTracked(position.Symbol) {
		return
	}
	ref := models.OrderRef{
		Symbol:          position.Symbol,
		Strategy:        "unknown",
		TakeProfitPct:   s.cfg.TakeProfitPct,
		StopLossPct:     s.cfg.StopLossPct,
		TrailingStopPct: s.cfg.TrailingStopPct,
	}
	orders, err := s.broker.GetOrders("filled", 100)
	if err == nil {
		for i := len(orders) - 1; i >= 0; i-- {
			order := orders[i]
			if order.Symbol != position.Symbol || order.Side != models.SideTypeBuy {
				continue
			}
			if parsed, parseErr := models.ParseOrderRef(order.ClientOrderID); parseErr == nil {
				ref = parsed
			}
			break
		}
	}
	basis := position.AvgEntryPrice
	if current > basis {
		basis = current
	}
	s.tracker.Track(ref, basis)
	s.log.Infoln(fmt.Sprintf("exit: recovered tracking for %s (strategy %s)", position.Symbol, ref.Strategy))
}

func (s *ExitService) thresholdsFor(symbol string) ExitThresholds {
	thresholds := ExitThresholds{
		TakeProfitPct:   s.cfg.TakeProfitPct,
		StopLossPct:     s.cfg.StopLossPct,
		TrailingStopPct: s.cfg.TrailingStopPct,
	}
	if ref, ok := s.tracker.Ref(symbol); ok {
		if ref.TakeProfitPct > 0.0 {
			thresholds.TakeProfitPct = ref.TakeProfitPct
		}
		if ref.StopLossPct > 0.0 {
			thresholds.StopLossPct = ref.StopLossPct
		}
		if ref.TrailingStopPct > 0.0 {
			thresholds.TrailingStopPct = ref.TrailingStopPct
		}
	}
	if s.cfg.AdaptiveExits {
		if history, ok := s.histories[symbol]; ok {
			noise := history.RecentNoise(noisePeriods)
			thresholds.TakeProfitPct = AdaptiveThreshold(thresholds.TakeProfitPct, noise)
			thresholds.StopLossPct = AdaptiveThreshold(thresholds.StopLossPct, noise)
		}
	}
	return thresholds
}

func (s *ExitService) close(position *models.Position, trigger models.ExitTrigger, now time.Time) {
	if err := s.broker.ClosePosition(position.Symbol); err != nil {
		s.log.Errorln(fmt.Sprintf("exit: close %s failed, will retry next cycle: %v", position.Symbol, err))
		return
	}
	strategy := s.tracker.Strategy(position.Symbol)
	profit := position.UnrealizedPL
	if stats, ok := s.stats[strategy]; ok {
		stats.RecordClose(profit)
	}
	if s.journal != nil {
		s.journal.RecordExit(position.Symbol, strategy, trigger, profit)
	}
	s.tracker.Release(position.Symbol)
	if s.cfg.Cooldown > 0 {
		s.tracker.StartCooldown(position.Symbol, now.Add(s.cfg.Cooldown))
	}
	s.log.Infoln(fmt.Sprintf("exit: closed %s (%s) via %s, P&L %.2f (%.2f%%)",
		position.Symbol, strategy, trigger, profit, position.PLPct()*100.0))
}
