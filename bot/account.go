package bot

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

type AccountViewer struct {
}

// Run prints the account summary and open positions.
func (av *AccountViewer) Run(c *cli.Context) error {
	cfg := loadConfig(c)
	broker, err := buildBroker(cfg)
	if err != nil {
		return err
	}

	account, err := broker.GetAccount()
	if err != nil {
		return err
	}
	fmt.Printf("Equity:       %12.2f %s\n", account.Equity, account.Currency)
	fmt.Printf("Cash:         %12.2f\n", account.Cash)
	fmt.Printf("Buying power: %12.2f\n", account.BuyingPower)
	fmt.Printf("Status:       %s\n", account.Status)

	positions, err := broker.GetPositions()
	if err != nil {
		return err
	}
	if len(positions) == 0 {
		fmt.Println("No open positions")
		return nil
	}
	fmt.Printf("\n%-10s %12s %12s %12s %12s %8s\n",
		"symbol", "qty", "entry", "current", "P&L", "P&L%")
	for _, position := range positions {
		fmt.Printf("%-10s %12.4f %12.2f %12.2f %12.2f %7.2f%%\n",
			position.Symbol, position.Qty, position.AvgEntryPrice,
			position.CurrentPrice, position.UnrealizedPL, position.PLPct()*100.0)
	}
	return nil
}
