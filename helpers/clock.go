package helpers

import (
	"strings"
	"time"
)

var exchangeTZ *time.Location

func init() {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}
	exchangeTZ = loc
}

func ExchangeTime(t time.Time) time.Time {
	return t.In(exchangeTZ)
}

// IsMarketHours reports the regular equities session, weekdays 9:30 to
// 16:00 exchange time. Computed locally, the broker's open flag is not
// consulted.
func IsMarketHours(t time.Time) bool {
	et := ExchangeTime(t)
	switch et.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	minutes := et.Hour()*60 + et.Minute()
	return minutes >= 9*60+30 && minutes < 16*60
}

// IsPastEODCutoff is true from 15:55 exchange time, when new equity
// entries stop and open equity positions get liquidated.
func IsPastEODCutoff(t time.Time) bool {
	et := ExchangeTime(t)
	minutes := et.Hour()*60 + et.Minute()
	return minutes >= 15*60+55
}

// SinceMarketOpen is the time elapsed since 9:30 exchange time, negative
// before the open.
func SinceMarketOpen(t time.Time) time.Duration {
	et := ExchangeTime(t)
	open := time.Date(et.Year(), et.Month(), et.Day(), 9, 30, 0, 0, et.Location())
	return et.Sub(open)
}

// NextEntryTick returns the next entry-cadence boundary after t, offset
// 35 seconds in so freshly minted bars are available when we fetch. A
// non-positive cadence falls back to quarter-hour alignment.
func NextEntryTick(t time.Time, cadence time.Duration) time.Time {
	if cadence <= 0 {
		cadence = 15 * time.Minute
	}
	boundary := t.Truncate(cadence).Add(cadence)
	return boundary.Add(35 * time.Second)
}

// NextQuarterHour is the default entry alignment.
func NextQuarterHour(t time.Time) time.Time {
	return NextEntryTick(t, 15*time.Minute)
}

// IsCrypto pairs carry a slash (BTC/USD), equities do not.
func IsCrypto(symbol string) bool {
	return strings.Contains(symbol, "/")
}
