package strategies

import (
	"fmt"

	"github.com/deanturpin/lft/market"
	"github.com/deanturpin/lft/models"
)

const (
	surgeMinVolumes   = 20
	surgeRatio        = 2.0
	surgeMinChangePct = 0.5
)

// VolumeSurgeStrategy buys a rising price backed by an unusual burst of
// volume. Confidence scales with the surge, capped at 1.0.
type VolumeSurgeStrategy struct{}

func NewVolumeSurgeStrategy() *VolumeSurgeStrategy {
	return &VolumeSurgeStrategy{}
}

func (s *VolumeSurgeStrategy) Name() string {
	return "volume_surge"
}

func (s *VolumeSurgeStrategy) Evaluate(history *market.PriceHistory, all map[string]*market.PriceHistory) models.StrategySignal {
	signal := models.NoSignal(s.Name())
	if len(history.Volumes()) < surgeMinVolumes || history.Size() < 2 {
		return signal
	}
	avg := history.AvgVolume()
	if avg <= 0 {
		return signal
	}

	ratio := float64(history.LatestVolume()) / float64(avg)
	change := history.ChangePercent()

	if ratio > surgeRatio && change > surgeMinChangePct {
		signal.ShouldBuy = true
		signal.Confidence = ratio / 3.0
		if signal.Confidence > 1.0 {
			signal.Confidence = 1.0
		}
		signal.Reason = fmt.Sprintf("volume %.1fx average with change %.2f%%", ratio, change)
	}
	return signal
}
