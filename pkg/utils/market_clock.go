package utils

import "time"

// MarketPhase is the NSE trading session phase.
type MarketPhase string

const (
	PhasePreOpen MarketPhase = "PRE_OPEN"
	PhaseOpen    MarketPhase = "OPEN"
	PhaseClosed  MarketPhase = "CLOSED"
)

// NSE equity session in IST: pre-open 09:00-09:15, continuous 09:15-15:30.
const (
	preOpenStartMinute = 9 * 60
	openStartMinute    = 9*60 + 15
	closeMinute        = 15*60 + 30
)

// MarketPhaseAt returns the session phase at the given instant.
func MarketPhaseAt(t time.Time) MarketPhase {
	t = t.In(ISTLocation())
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return PhaseClosed
	}

	minute := t.Hour()*60 + t.Minute()
	switch {
	case minute >= preOpenStartMinute && minute < openStartMinute:
		return PhasePreOpen
	case minute >= openStartMinute && minute < closeMinute:
		return PhaseOpen
	default:
		return PhaseClosed
	}
}

// NextMarketOpen returns the next 09:15 IST on a trading day at or after t.
func NextMarketOpen(t time.Time) time.Time {
	t = t.In(ISTLocation())
	day := time.Date(t.Year(), t.Month(), t.Day(), 9, 15, 0, 0, ISTLocation())
	if !t.Before(day) {
		day = day.AddDate(0, 0, 1)
	}
	for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
		day = day.AddDate(0, 0, 1)
	}
	return day
}

// NextMarketClose returns the next 15:30 IST on a trading day at or after t.
func NextMarketClose(t time.Time) time.Time {
	t = t.In(ISTLocation())
	day := time.Date(t.Year(), t.Month(), t.Day(), 15, 30, 0, 0, ISTLocation())
	if !t.Before(day) {
		day = day.AddDate(0, 0, 1)
	}
	for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
		day = day.AddDate(0, 0, 1)
	}
	return day
}
