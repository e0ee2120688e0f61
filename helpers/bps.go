package helpers

// Basis point conversions. 1 bps = 0.01%.

func PctToBps(pct float64) float64 {
	return pct * 100.0
}

func BpsToPct(bps float64) float64 {
	return bps / 100.0
}

func BpsToFraction(bps float64) float64 {
	return bps / 10000.0
}

// PriceChangeToBps expresses a move from one price to another in basis
// points of the starting price. Zero start yields zero.
func PriceChangeToBps(from float64, to float64) float64 {
	if from == 0.0 {
		return 0.0
	}
	return (to - from) / from * 10000.0
}

// SpreadBps is the bid/ask spread in basis points of the mid price.
func SpreadBps(bid float64, ask float64) float64 {
	mid := (bid + ask) / 2.0
	if mid <= 0.0 || ask < bid {
		return 0.0
	}
	return (ask - bid) / mid * 10000.0
}
