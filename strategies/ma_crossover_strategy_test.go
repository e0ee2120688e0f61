package strategies

import (
	"testing"

	"github.com/deanturpin/lft/market"
	"github.com/deanturpin/lft/models"
	"github.com/stretchr/testify/assert"
)

func historyFromPrices(prices []float64, volume int64) *market.PriceHistory {
	history := market.NewPriceHistory()
	for _, price := range prices {
		history.AddBar(models.Bar{Open: price, High: price, Low: price, Close: price, Volume: volume})
	}
	return history
}

func repeat(price float64, n int) []float64 {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = price
	}
	return prices
}

func TestMACrossoverFiresOnTransition(t *testing.T) {
	strategy := NewMACrossoverStrategy()

	prices := append(repeat(100, 20), 110)
	history := historyFromPrices(prices, 1000)

	signal := strategy.Evaluate(history, nil)
	assert.True(t, signal.ShouldBuy)
	assert.Equal(t, "ma_crossover", signal.StrategyName)
	assert.Equal(t, 1.0, signal.Confidence)
}

func TestMACrossoverNoSignalWhileAlreadyAbove(t *testing.T) {
	strategy := NewMACrossoverStrategy()

	// One bar past the cross the short MA still leads, but there is no
	// transition anymore.
	prices := append(repeat(100, 20), 110, 110)
	history := historyFromPrices(prices, 1000)

	signal := strategy.Evaluate(history, nil)
	assert.False(t, signal.ShouldBuy)
}

func TestMACrossoverNoSignalOnSteadyUptrend(t *testing.T) {
	strategy := NewMACrossoverStrategy()

	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = float64(i + 1)
	}
	history := historyFromPrices(prices, 1000)

	signal := strategy.Evaluate(history, nil)
	assert.False(t, signal.ShouldBuy)
}

func TestMACrossoverNeedsTwentyOnePrices(t *testing.T) {
	strategy := NewMACrossoverStrategy()
	history := historyFromPrices(repeat(100, 20), 1000)

	signal := strategy.Evaluate(history, nil)
	assert.False(t, signal.ShouldBuy)
}
