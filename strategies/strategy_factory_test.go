package strategies

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllOrderIsStable(t *testing.T) {
	names := []string{}
	for _, strategy := range All() {
		names = append(names, strategy.Name())
	}
	assert.Equal(t, []string{
		"ma_crossover",
		"mean_reversion",
		"volatility_breakout",
		"relative_strength",
		"volume_surge",
	}, names)
}

func TestStrategyFactory(t *testing.T) {
	for _, name := range []string{"ma_crossover", "mean_reversion", "volatility_breakout", "relative_strength", "volume_surge"} {
		strategy, err := StrategyFactory(name)
		assert.Nil(t, err)
		assert.Equal(t, name, strategy.Name())
	}

	strategy, err := StrategyFactory("momentum")
	assert.Nil(t, strategy)
	assert.NotNil(t, err)
}
