package main

import (
	"os"

	"github.com/deanturpin/lft/bot"
	"github.com/deanturpin/lft/helpers"
	"github.com/urfave/cli/v2"
)

func main() {
	symbolsFlag := &cli.StringFlag{
		Name:  "symbols",
		Usage: "comma-separated watchlist, overrides the symbols env var",
	}
	paperFlag := &cli.BoolFlag{
		Name:  "paper",
		Usage: "simulate fills in-memory instead of sending orders",
	}

	app := &cli.App{
		Name:  "lft",
		Usage: "low-frequency multi-strategy trading bot",
		Commands: []*cli.Command{
			{
				Name:  "trade",
				Usage: "calibrate, then run one live trading session",
				Flags: []cli.Flag{symbolsFlag, paperFlag},
				Action: func(c *cli.Context) error {
					trader := bot.Trader{}
					return trader.Run(c)
				},
			},
			{
				Name:  "calibrate",
				Usage: "backtest every strategy and print the enable verdicts",
				Flags: []cli.Flag{symbolsFlag, paperFlag},
				Action: func(c *cli.Context) error {
					calibrator := bot.Calibrator{}
					return calibrator.Run(c)
				},
			},
			{
				Name:  "account",
				Usage: "print the account summary and open positions",
				Flags: []cli.Flag{paperFlag},
				Action: func(c *cli.Context) error {
					viewer := bot.AccountViewer{}
					return viewer.Run(c)
				},
			},
			{
				Name:  "dashboard",
				Usage: "terminal dashboard over the watchlist and positions",
				Flags: []cli.Flag{symbolsFlag, paperFlag},
				Action: func(c *cli.Context) error {
					dashboard := bot.DashboardRunner{}
					return dashboard.Run(c)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		helpers.Logger.Fatalln(err)
	}
}
