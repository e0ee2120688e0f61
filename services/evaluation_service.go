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
	"github.com/sdcoffey/techan"
)

const rsiPeriods = 14

// EvaluationService builds the per-symbol indicator read-out consumed by
// the dashboard and the cycle logs. It never trades.
type EvaluationService struct {
	data      interfaces.MarketData
	cfg       *models.TradingConfig
	histories map[string]*market.PriceHistory
	ticks     map[string]*market.TickHistory
	bars      map[string][]models.Bar
	log       *helpers.FileLogger
}

func NewEvaluationService(data interfaces.MarketData, cfg *models.TradingConfig,
	histories map[string]*market.PriceHistory) *EvaluationService {
	return &EvaluationService{
		data:      data,
		cfg:       cfg,
		histories: histories,
		ticks:     make(map[string]*market.TickHistory),
		bars:      make(map[string][]models.Bar),
		log:       &helpers.Logger,
	}
}

// SetBars installs recent bars per symbol for the techan indicators.
func (s *EvaluationService) SetBars(bars map[string][]models.Bar) {
	s.bars = bars
}

func (s *EvaluationService) Evaluate(now time.Time) models.MarketEvaluation {
	evaluation := models.MarketEvaluation{Timestamp: now}

	symbols := make([]string, 0, len(s.histories))
	for symbol := range s.histories {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	for _, symbol := range symbols {
		history := s.histories[symbol]
		entry := models.SymbolEvaluation{
			Symbol:        symbol,
			LastPrice:     history.LastPrice(),
			ChangePercent: history.ChangePercent(),
			MA5:           history.MovingAverage(5),
			MA20:          history.MovingAverage(20),
			Volatility:    history.Volatility(),
			Noise:         history.RecentNoise(noisePeriods),
			VolumeRatio:   strategies.VolumeRatio(history),
			Tradeable:     true,
		}

		if snapshot, err := s.data.GetSnapshot(symbol); err == nil {
			entry.SpreadBps = helpers.SpreadBps(snapshot.Bid, snapshot.Ask)
			entry.Tradeable, _ = strategies.IsTradeable(snapshot, history,
				s.cfg.MaxSpreadBps(helpers.IsCrypto(symbol)), s.cfg.MinVolumeRatio)

			// Tick-level price movement between polls. A repoll of the
			// same trade is dropped on the timestamp so it reads 0.
			tick, ok := s.ticks[symbol]
			if !ok {
				tick = market.NewTickHistory()
				s.ticks[symbol] = tick
			}
			tick.AddPriceWithTimestamp(snapshot.LastTradePrice, snapshot.Timestamp)
			entry.TickChangePercent = tick.ChangePercent()
		} else {
			s.log.Debugln(fmt.Sprintf("evaluation: %s snapshot failed: %v", symbol, err))
		}

		if bars, ok := s.bars[symbol]; ok && len(bars) > rsiPeriods {
			series := market.TimeSeriesFromBars(bars, time.Hour)
			rsi := techan.NewRelativeStrengthIndexIndicator(techan.NewClosePriceIndicator(series), rsiPeriods)
			entry.RSI14 = rsi.Calculate(series.LastIndex()).Float()
			entry.UpDownRatio = helpers.PositiveNegativeRatio(barReturns(bars))
		}

		for _, strategy := range strategies.All() {
			entry.Signals = append(entry.Signals, strategy.Evaluate(history, s.histories))
		}
		evaluation.Symbols = append(evaluation.Symbols, entry)
	}
	return evaluation
}

func barReturns(bars []models.Bar) []float64 {
	returns := make([]float64, 0, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		if bars[i-1].Close == 0.0 {
			continue
		}
		returns = append(returns, (bars[i].Close-bars[i-1].Close)/bars[i-1].Close)
	}
	return returns
}
