package models

// StrategySignal is one strategy's verdict for one symbol on one cycle.
// Confidence defaults to 1.0, strategies lower it to express uncertainty.
type StrategySignal struct {
	ShouldBuy    bool
	StrategyName string
	Reason       string
	Confidence   float64
}

func NoSignal(strategyName string) StrategySignal {
	return StrategySignal{
		ShouldBuy:    false,
		StrategyName: strategyName,
		Reason:       "",
		Confidence:   1.0,
	}
}
