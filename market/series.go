package market

import (
	"time"

	"github.com/deanturpin/lft/models"
	"github.com/sdcoffey/big"
	"github.com/sdcoffey/techan"
)

// TimeSeriesFromBars bridges brokerage bars into a techan series for the
// indicator read-outs the evaluation service and dashboard use.
func TimeSeriesFromBars(bars []models.Bar, period time.Duration) *techan.TimeSeries {
	series := techan.NewTimeSeries()
	for _, bar := range bars {
		candle := techan.NewCandle(techan.NewTimePeriod(bar.Timestamp, period))
		candle.OpenPrice = big.NewDecimal(bar.Open)
		candle.MaxPrice = big.NewDecimal(bar.High)
		candle.MinPrice = big.NewDecimal(bar.Low)
		candle.ClosePrice = big.NewDecimal(bar.Close)
		candle.Volume = big.NewDecimal(float64(bar.Volume))
		series.AddCandle(candle)
	}
	return series
}
