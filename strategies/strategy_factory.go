package strategies

import (
	"fmt"

	"github.com/deanturpin/lft/interfaces"
)

// All returns every strategy in evaluation order. The first buy signal
// in this order wins an entry cycle, so order is part of the contract.
func All() []interfaces.Strategy {
	return []interfaces.Strategy{
		NewMACrossoverStrategy(),
		NewMeanReversionStrategy(),
		NewVolatilityBreakoutStrategy(),
		NewRelativeStrengthStrategy(),
		NewVolumeSurgeStrategy(),
	}
}

func StrategyFactory(strategyName string) (interfaces.Strategy, error) {
	switch strategyName {
	case "ma_crossover":
		return NewMACrossoverStrategy(), nil
	case "mean_reversion":
		return NewMeanReversionStrategy(), nil
	case "volatility_breakout":
		return NewVolatilityBreakoutStrategy(), nil
	case "relative_strength":
		return NewRelativeStrengthStrategy(), nil
	case "volume_surge":
		return NewVolumeSurgeStrategy(), nil
	default:
		return nil, fmt.Errorf("%s is not a known strategy", strategyName)
	}
}
