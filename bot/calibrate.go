package bot

import (
	"fmt"
	"sort"
	"time"

	"github.com/deanturpin/lft/services"
	"github.com/urfave/cli/v2"
)

type Calibrator struct {
}

// Run backtests every strategy over recent history and prints the
// verdicts without trading anything.
func (cal *Calibrator) Run(c *cli.Context) error {
	cfg := loadConfig(c)
	broker, err := buildBroker(cfg)
	if err != nil {
		return err
	}

	result, err := services.NewCalibrationService(broker, cfg).Calibrate(cfg.Symbols, time.Now())
	if err != nil {
		return err
	}

	names := make([]string, 0, len(result.Stats))
	for name := range result.Stats {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("%-22s %8s %8s %8s %8s %10s  %s\n",
		"strategy", "signals", "trades", "closed", "win%", "net", "enabled")
	for _, name := range names {
		stats := result.Stats[name]
		fmt.Printf("%-22s %8d %8d %8d %8.0f %10.2f  %t\n",
			name, stats.SignalsGenerated, stats.TradesExecuted, stats.TradesClosed,
			stats.WinRate(), stats.NetProfit(), result.Enabled[name])
	}
	return nil
}
