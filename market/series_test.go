package market

import (
	"testing"
	"time"

	"github.com/deanturpin/lft/models"
	"github.com/stretchr/testify/assert"
)

func TestTimeSeriesFromBars(t *testing.T) {
	start := time.Date(2024, 3, 12, 14, 0, 0, 0, time.UTC)
	bars := []models.Bar{
		{Timestamp: start, Open: 100, High: 102, Low: 99, Close: 101, Volume: 1000},
		{Timestamp: start.Add(time.Hour), Open: 101, High: 103, Low: 100, Close: 102, Volume: 1500},
	}

	series := TimeSeriesFromBars(bars, time.Hour)
	assert.Equal(t, 1, series.LastIndex())

	last := series.LastCandle()
	assert.Equal(t, 102.0, last.ClosePrice.Float())
	assert.Equal(t, 103.0, last.MaxPrice.Float())
	assert.Equal(t, 1500.0, last.Volume.Float())
}
