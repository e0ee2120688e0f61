package strategies

import (
	"fmt"

	"github.com/deanturpin/lft/helpers"
	"github.com/deanturpin/lft/market"
	"github.com/deanturpin/lft/models"
)

// VolumeRatio is latest volume over window average, 0 when no baseline.
func VolumeRatio(history *market.PriceHistory) float64 {
	avg := history.AvgVolume()
	if avg <= 0 {
		return 0.0
	}
	return float64(history.LatestVolume()) / float64(avg)
}

// AdjustedConfidence divides a signal's confidence by the volume factor,
// so the same thin-volume penalty applies in calibration and live entry.
func AdjustedConfidence(signal models.StrategySignal, history *market.PriceHistory) float64 {
	factor := history.VolumeFactor()
	if factor == 0.0 {
		return signal.Confidence
	}
	return signal.Confidence / factor
}

// IsTradeable rejects symbols whose quote is too wide or whose volume is
// too thin to enter at acceptable cost. Returns the blocking reason.
func IsTradeable(snapshot *models.Snapshot, history *market.PriceHistory, maxSpreadBps float64, minVolumeRatio float64) (bool, string) {
	spread := helpers.SpreadBps(snapshot.Bid, snapshot.Ask)
	if spread > maxSpreadBps {
		return false, fmt.Sprintf("spread %.1f bps exceeds cap %.1f", spread, maxSpreadBps)
	}
	if len(history.Volumes()) > 0 {
		ratio := VolumeRatio(history)
		if ratio < minVolumeRatio {
			return false, fmt.Sprintf("volume ratio %.2f below floor %.2f", ratio, minVolumeRatio)
		}
	}
	return true, ""
}
