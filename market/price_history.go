package market

import (
	"github.com/deanturpin/lft/helpers"
	"github.com/deanturpin/lft/models"
)

// WindowSize bounds every per-symbol series, oldest entries evicted first.
const WindowSize = 100

// priceSeries is the closing-price window shared by the bar-fed and
// tick-fed histories.
type priceSeries struct {
	prices        []float64
	changePercent float64
}

func (s *priceSeries) push(price float64) {
	if len(s.prices) > 0 {
		prev := s.prices[len(s.prices)-1]
		if prev != 0.0 {
			s.changePercent = (price - prev) / prev * 100.0
		}
	}
	s.prices = append(s.prices, price)
	if len(s.prices) > WindowSize {
		s.prices = s.prices[1:]
	}
}

func (s *priceSeries) Size() int {
	return len(s.prices)
}

// HasHistory is true once two prices exist and change percent is defined.
func (s *priceSeries) HasHistory() bool {
	return len(s.prices) >= 2
}

func (s *priceSeries) LastPrice() float64 {
	if len(s.prices) == 0 {
		return 0.0
	}
	return s.prices[len(s.prices)-1]
}

func (s *priceSeries) ChangePercent() float64 {
	return s.changePercent
}

// Prices exposes the retained window. Callers must not mutate it.
func (s *priceSeries) Prices() []float64 {
	return s.prices
}

// MovingAverage returns the mean of the last periods prices, or the 0.0
// sentinel when fewer points exist. Callers treat 0.0 as no data.
func (s *priceSeries) MovingAverage(periods int) float64 {
	if periods <= 0 || len(s.prices) < periods {
		return 0.0
	}
	return helpers.Mean(s.prices[len(s.prices)-periods:])
}

// Volatility is the population standard deviation of all retained prices.
func (s *priceSeries) Volatility() float64 {
	return helpers.PopulationStdDev(s.prices, helpers.Mean(s.prices))
}

// PriceHistory is the bar-fed history for one symbol. Highs, lows and
// volumes stay index-aligned with prices because bars are the only way
// in, tick feeds use TickHistory instead.
type PriceHistory struct {
	priceSeries
	highs   []float64
	lows    []float64
	volumes []int64
}

func NewPriceHistory() *PriceHistory {
	return &PriceHistory{}
}

func (h *PriceHistory) AddBar(bar models.Bar) {
	h.push(bar.Close)
	h.highs = append(h.highs, bar.High)
	if len(h.highs) > WindowSize {
		h.highs = h.highs[1:]
	}
	h.lows = append(h.lows, bar.Low)
	if len(h.lows) > WindowSize {
		h.lows = h.lows[1:]
	}
	h.volumes = append(h.volumes, bar.Volume)
	if len(h.volumes) > WindowSize {
		h.volumes = h.volumes[1:]
	}
}

func (h *PriceHistory) Highs() []float64 {
	return h.highs
}

func (h *PriceHistory) Lows() []float64 {
	return h.lows
}

func (h *PriceHistory) Volumes() []int64 {
	return h.volumes
}

func (h *PriceHistory) LatestVolume() int64 {
	if len(h.volumes) == 0 {
		return 0
	}
	return h.volumes[len(h.volumes)-1]
}

// RecentNoise is the mean of per-bar (high-low)/close over the last
// periods bars, 0.0 when the window is not yet full.
func (h *PriceHistory) RecentNoise(periods int) float64 {
	if periods <= 0 || len(h.prices) < periods || len(h.highs) < periods || len(h.lows) < periods {
		return 0.0
	}
	total := 0.0
	start := len(h.prices) - periods
	for i := start; i < len(h.prices); i++ {
		if h.prices[i] == 0.0 {
			return 0.0
		}
		total += (h.highs[i] - h.lows[i]) / h.prices[i]
	}
	return total / float64(periods)
}

// AvgVolume is the integer mean of retained volumes, 0 when empty.
func (h *PriceHistory) AvgVolume() int64 {
	if len(h.volumes) == 0 {
		return 0
	}
	var total int64
	for _, v := range h.volumes {
		total += v
	}
	return total / int64(len(h.volumes))
}

// VolumeFactor widens on thin volume. Used as a confidence divisor, so a
// bigger factor means less conviction.
func (h *PriceHistory) VolumeFactor() float64 {
	avg := h.AvgVolume()
	if avg == 0 || len(h.volumes) == 0 {
		return 1.0
	}
	latest := float64(h.LatestVolume())
	switch {
	case latest < 0.5*float64(avg):
		return 1.5
	case latest < 0.75*float64(avg):
		return 1.2
	default:
		return 1.0
	}
}
