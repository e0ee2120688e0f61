package models

// Position is an open trade as the brokerage reports it.
type Position struct {
	Symbol          string
	Qty             float64
	AvgEntryPrice   float64
	CurrentPrice    float64
	UnrealizedPL    float64
	UnrealizedPLPct float64
	MarketValue     float64
}

func (p *Position) CostBasis() float64 {
	return p.AvgEntryPrice * p.Qty
}

// PLPct recomputes the unrealized P&L fraction from prices, falling back
// to the brokerage-reported value when the cost basis is unusable.
func (p *Position) PLPct() float64 {
	basis := p.CostBasis()
	if basis == 0.0 {
		return p.UnrealizedPLPct
	}
	return p.UnrealizedPL / basis
}
