package bot

import (
	"time"

	"github.com/deanturpin/lft/market"
	"github.com/deanturpin/lft/services"
	"github.com/deanturpin/lft/ui"
	"github.com/urfave/cli/v2"
)

type DashboardRunner struct {
}

// Run calibrates once to warm the indicator histories, then renders the
// live terminal dashboard.
func (dr *DashboardRunner) Run(c *cli.Context) error {
	cfg := loadConfig(c)
	broker, err := buildBroker(cfg)
	if err != nil {
		return err
	}

	result, err := services.NewCalibrationService(broker, cfg).Calibrate(cfg.Symbols, time.Now())
	if err != nil {
		return err
	}

	histories := make(map[string]*market.PriceHistory)
	for symbol, bars := range result.Bars {
		history := market.NewPriceHistory()
		for _, bar := range bars {
			history.AddBar(bar)
		}
		histories[symbol] = history
	}

	evaluation := services.NewEvaluationService(broker, cfg, histories)
	evaluation.SetBars(result.Bars)

	return ui.NewDashboard(broker, evaluation, result.Stats).Run()
}
