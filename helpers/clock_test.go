package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsMarketHours(t *testing.T) {
	// Tuesday 2024-03-12, New York is on daylight time (UTC-4).
	assert.True(t, IsMarketHours(time.Date(2024, 3, 12, 13, 30, 0, 0, time.UTC)))  // 09:30 open
	assert.True(t, IsMarketHours(time.Date(2024, 3, 12, 19, 59, 0, 0, time.UTC)))  // 15:59
	assert.False(t, IsMarketHours(time.Date(2024, 3, 12, 13, 29, 0, 0, time.UTC))) // 09:29
	assert.False(t, IsMarketHours(time.Date(2024, 3, 12, 20, 0, 0, 0, time.UTC)))  // 16:00 close
	// Saturday.
	assert.False(t, IsMarketHours(time.Date(2024, 3, 16, 17, 0, 0, 0, time.UTC)))
	// Sunday.
	assert.False(t, IsMarketHours(time.Date(2024, 3, 17, 17, 0, 0, 0, time.UTC)))
}

func TestIsPastEODCutoff(t *testing.T) {
	assert.False(t, IsPastEODCutoff(time.Date(2024, 3, 12, 19, 54, 0, 0, time.UTC))) // 15:54
	assert.True(t, IsPastEODCutoff(time.Date(2024, 3, 12, 19, 55, 0, 0, time.UTC)))  // 15:55
	assert.True(t, IsPastEODCutoff(time.Date(2024, 3, 12, 20, 30, 0, 0, time.UTC)))
}

func TestSinceMarketOpen(t *testing.T) {
	assert.Equal(t, 90*time.Minute, SinceMarketOpen(time.Date(2024, 3, 12, 15, 0, 0, 0, time.UTC)))
	assert.Equal(t, -30*time.Minute, SinceMarketOpen(time.Date(2024, 3, 12, 13, 0, 0, 0, time.UTC)))
}

func TestNextEntryTick(t *testing.T) {
	at := time.Date(2024, 3, 12, 14, 7, 12, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 12, 14, 8, 35, 0, time.UTC), NextEntryTick(at, time.Minute))
	assert.Equal(t, time.Date(2024, 3, 12, 14, 10, 35, 0, time.UTC), NextEntryTick(at, 5*time.Minute))
	// Zero cadence keeps the quarter-hour default.
	assert.Equal(t, time.Date(2024, 3, 12, 14, 15, 35, 0, time.UTC), NextEntryTick(at, 0))
}

func TestNextQuarterHour(t *testing.T) {
	at := time.Date(2024, 3, 12, 14, 7, 12, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 12, 14, 15, 35, 0, time.UTC), NextQuarterHour(at))

	onBoundary := time.Date(2024, 3, 12, 14, 15, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 12, 14, 30, 35, 0, time.UTC), NextQuarterHour(onBoundary))
}

func TestIsCrypto(t *testing.T) {
	assert.True(t, IsCrypto("BTC/USD"))
	assert.True(t, IsCrypto("ETH/USD"))
	assert.False(t, IsCrypto("AAPL"))
}
