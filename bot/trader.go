package bot

import (
	"fmt"
	"os"
	"strings"

	"github.com/deanturpin/lft/database"
	"github.com/deanturpin/lft/helpers"
	"github.com/deanturpin/lft/interfaces"
	"github.com/deanturpin/lft/models"
	"github.com/deanturpin/lft/providers/alpaca"
	binanceProvider "github.com/deanturpin/lft/providers/binance"
	"github.com/deanturpin/lft/providers/paper"
	"github.com/deanturpin/lft/services"
	"github.com/urfave/cli/v2"
)

type Trader struct {
}

// Run drives one trading session end to end and then returns, letting a
// supervisor restart the process for the next session with a fresh
// calibration.
func (t *Trader) Run(c *cli.Context) error {
	helpers.Logger.Infoln("🤖 lft session starting")

	cfg := loadConfig(c)
	broker, err := buildBroker(cfg)
	if err != nil {
		return err
	}

	session := services.NewSessionService(broker, cfg)
	journal, err := database.NewDBServiceFromEnv()
	if err != nil {
		helpers.Logger.Warnln(fmt.Sprintf("journal disabled: %v", err))
	} else if journal != nil {
		session.SetJournal(journal)
	}

	return session.Start()
}

func loadConfig(c *cli.Context) *models.TradingConfig {
	cfg := services.LoadConfigFromEnv()
	if symbols := c.String("symbols"); symbols != "" {
		cfg.Symbols = nil
		for _, symbol := range strings.Split(symbols, ",") {
			if trimmed := strings.TrimSpace(symbol); trimmed != "" {
				cfg.Symbols = append(cfg.Symbols, trimmed)
			}
		}
	}
	if c.Bool("paper") {
		cfg.PaperTrading = true
	}
	return cfg
}

// buildBroker picks live Alpaca or the paper broker over a data source.
// Missing credentials here are the one fatal startup condition.
func buildBroker(cfg *models.TradingConfig) (interfaces.Broker, error) {
	if !cfg.PaperTrading {
		return alpaca.NewAlpacaService()
	}

	var data interfaces.MarketData
	if os.Getenv("dataProvider") == "binance" {
		data = binanceProvider.NewBinanceService()
	} else {
		alpacaService, err := alpaca.NewAlpacaService()
		if err != nil {
			return nil, err
		}
		data = alpacaService
	}
	return paper.NewPaperService(data, cfg), nil
}
