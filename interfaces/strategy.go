package interfaces

import (
	"github.com/deanturpin/lft/market"
	"github.com/deanturpin/lft/models"
)

// Strategy is a stateless-per-call signal generator. Evaluate receives
// the symbol's own history plus the full cross-symbol map, which only
// the relative-strength comparison consumes.
type Strategy interface {
	Name() string
	Evaluate(history *market.PriceHistory, all map[string]*market.PriceHistory) models.StrategySignal
}
