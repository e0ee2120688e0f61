package ui

import (
	"fmt"
	"time"

	"github.com/deanturpin/lft/interfaces"
	"github.com/deanturpin/lft/models"
	"github.com/deanturpin/lft/services"
	termui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"
)

// Dashboard renders the watchlist evaluation, open positions and
// strategy stats in the terminal. Read-only over the running session.
type Dashboard struct {
	broker     interfaces.Broker
	evaluation *services.EvaluationService
	stats      map[string]*models.StrategyStats
}

func NewDashboard(broker interfaces.Broker, evaluation *services.EvaluationService,
	stats map[string]*models.StrategyStats) *Dashboard {
	return &Dashboard{
		broker:     broker,
		evaluation: evaluation,
		stats:      stats,
	}
}

// Run blocks until q or Ctrl-C.
func (d *Dashboard) Run() error {
	if err := termui.Init(); err != nil {
		return fmt.Errorf("failed to initialize termui: %w", err)
	}
	defer termui.Close()

	d.render()
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	uiEvents := termui.PollEvents()

	for {
		select {
		case event := <-uiEvents:
			if event.ID == "q" || event.ID == "<C-c>" {
				return nil
			}
		case <-ticker.C:
			d.render()
		}
	}
}

func (d *Dashboard) render() {
	accountParagraph := widgets.NewParagraph()
	accountParagraph.Title = "Account"
	accountParagraph.BorderStyle.Fg = termui.ColorYellow
	accountParagraph.TitleStyle.Fg = termui.ColorYellow
	if account, err := d.broker.GetAccount(); err == nil {
		accountParagraph.Text = fmt.Sprintf("Equity: %.2f\n", account.Equity)
		accountParagraph.Text += fmt.Sprintf("Cash: %.2f\n", account.Cash)
		accountParagraph.Text += fmt.Sprintf("Buying Power: %.2f\n", account.BuyingPower)
		accountParagraph.Text += fmt.Sprintf("Status: %s", account.Status)
	} else {
		accountParagraph.Text = fmt.Sprintf("unavailable: %v", err)
	}
	accountParagraph.SetRect(0, 0, 40, 6)

	statsParagraph := widgets.NewParagraph()
	statsParagraph.Title = "Strategies"
	for _, stats := range d.stats {
		statsParagraph.Text += fmt.Sprintf("%s: trades %d closed %d win %.0f%% net %.2f\n",
			stats.StrategyName, stats.TradesExecuted, stats.TradesClosed,
			stats.WinRate(), stats.NetProfit())
	}
	statsParagraph.SetRect(40, 0, 110, 6)

	watchlist := widgets.NewTable()
	watchlist.Title = "Watchlist"
	watchlist.RowSeparator = false
	watchlist.Rows = [][]string{{"Symbol", "Price", "Chg%", "Tick%", "MA5", "MA20", "RSI", "VolRatio", "Spread", "Signal"}}
	evaluation := d.evaluation.Evaluate(time.Now())
	for _, symbol := range evaluation.Symbols {
		signal := "-"
		for _, s := range symbol.Signals {
			if s.ShouldBuy {
				signal = s.StrategyName
				break
			}
		}
		watchlist.Rows = append(watchlist.Rows, []string{
			symbol.Symbol,
			fmt.Sprintf("%.2f", symbol.LastPrice),
			fmt.Sprintf("%.2f", symbol.ChangePercent),
			fmt.Sprintf("%.2f", symbol.TickChangePercent),
			fmt.Sprintf("%.2f", symbol.MA5),
			fmt.Sprintf("%.2f", symbol.MA20),
			fmt.Sprintf("%.0f", symbol.RSI14),
			fmt.Sprintf("%.2f", symbol.VolumeRatio),
			fmt.Sprintf("%.1f", symbol.SpreadBps),
			signal,
		})
	}
	watchlist.SetRect(0, 6, 110, 6+2+len(evaluation.Symbols))

	positionsTable := widgets.NewTable()
	positionsTable.Title = "Open Positions"
	positionsTable.RowSeparator = false
	positionsTable.Rows = [][]string{{"Symbol", "Qty", "Entry", "Current", "P&L", "P&L%"}}
	if positions, err := d.broker.GetPositions(); err == nil {
		for _, position := range positions {
			positionsTable.Rows = append(positionsTable.Rows, []string{
				position.Symbol,
				fmt.Sprintf("%.4f", position.Qty),
				fmt.Sprintf("%.2f", position.AvgEntryPrice),
				fmt.Sprintf("%.2f", position.CurrentPrice),
				fmt.Sprintf("%.2f", position.UnrealizedPL),
				fmt.Sprintf("%.2f%%", position.PLPct()*100.0),
			})
		}
	}
	top := 6 + 2 + len(evaluation.Symbols)
	positionsTable.SetRect(0, top, 110, top+2+len(positionsTable.Rows))

	termui.Render(accountParagraph, statsParagraph, watchlist, positionsTable)
}
