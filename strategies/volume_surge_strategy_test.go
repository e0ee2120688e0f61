package strategies

import (
	"testing"

	"github.com/deanturpin/lft/market"
	"github.com/deanturpin/lft/models"
	"github.com/stretchr/testify/assert"
)

func TestVolumeSurgeBuysBurstWithRisingPrice(t *testing.T) {
	strategy := NewVolumeSurgeStrategy()

	// 25 quiet bars then a 1% up bar on six times the usual volume.
	history := market.NewPriceHistory()
	for i := 0; i < 25; i++ {
		history.AddBar(models.Bar{Open: 100, High: 100, Low: 100, Close: 100, Volume: 1000})
	}
	history.AddBar(models.Bar{Open: 100, High: 101, Low: 100, Close: 101, Volume: 6000})

	signal := strategy.Evaluate(history, nil)
	assert.True(t, signal.ShouldBuy)
	assert.Equal(t, "volume_surge", signal.StrategyName)
	assert.Equal(t, 1.0, signal.Confidence)
}

func TestVolumeSurgeConfidenceScalesWithRatio(t *testing.T) {
	strategy := NewVolumeSurgeStrategy()

	volumes := append(repeatInt64(1000, 19), 2600)
	prices := append(repeat(100, 19), 101)
	history := market.NewPriceHistory()
	for i := range prices {
		history.AddBar(models.Bar{Close: prices[i], High: prices[i], Low: prices[i], Volume: volumes[i]})
	}

	// avg volume 1080, ratio 2.407, confidence ratio/3.
	signal := strategy.Evaluate(history, nil)
	assert.True(t, signal.ShouldBuy)
	assert.InDelta(t, 0.8025, signal.Confidence, 0.0001)
}

func TestVolumeSurgeNeedsPriceConfirmation(t *testing.T) {
	strategy := NewVolumeSurgeStrategy()

	history := market.NewPriceHistory()
	for i := 0; i < 25; i++ {
		history.AddBar(models.Bar{Close: 100, High: 100, Low: 100, Volume: 1000})
	}
	// Burst volume on a flat bar.
	history.AddBar(models.Bar{Close: 100, High: 100, Low: 100, Volume: 6000})

	signal := strategy.Evaluate(history, nil)
	assert.False(t, signal.ShouldBuy)
}

func TestVolumeSurgeNeedsVolumeBaseline(t *testing.T) {
	strategy := NewVolumeSurgeStrategy()
	history := historyFromPrices(append(repeat(100, 5), 101), 1000)

	signal := strategy.Evaluate(history, nil)
	assert.False(t, signal.ShouldBuy)
}

func repeatInt64(v int64, n int) []int64 {
	volumes := make([]int64, n)
	for i := range volumes {
		volumes[i] = v
	}
	return volumes
}
