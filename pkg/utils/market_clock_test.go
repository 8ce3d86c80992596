package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ist(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, ISTLocation())
}

func TestMarketPhaseAt(t *testing.T) {
	// 2026-08-21 is a Friday.
	tests := []struct {
		name     string
		at       time.Time
		expected MarketPhase
	}{
		{"before pre-open", ist(2026, 8, 21, 8, 59), PhaseClosed},
		{"pre-open start", ist(2026, 8, 21, 9, 0), PhasePreOpen},
		{"pre-open end", ist(2026, 8, 21, 9, 14), PhasePreOpen},
		{"open start", ist(2026, 8, 21, 9, 15), PhaseOpen},
		{"mid session", ist(2026, 8, 21, 12, 30), PhaseOpen},
		{"last minute", ist(2026, 8, 21, 15, 29), PhaseOpen},
		{"close", ist(2026, 8, 21, 15, 30), PhaseClosed},
		{"saturday", ist(2026, 8, 22, 12, 0), PhaseClosed},
		{"sunday", ist(2026, 8, 23, 12, 0), PhaseClosed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MarketPhaseAt(tt.at))
		})
	}
}

func TestMarketPhaseAt_ConvertsToIST(t *testing.T) {
	// 04:00 UTC is 09:30 IST, inside the session.
	utc := time.Date(2026, 8, 21, 4, 0, 0, 0, time.UTC)
	assert.Equal(t, PhaseOpen, MarketPhaseAt(utc))
}

func TestNextMarketOpen_SkipsWeekend(t *testing.T) {
	// Friday after close rolls to Monday.
	fridayEvening := ist(2026, 8, 21, 16, 0)
	next := NextMarketOpen(fridayEvening)
	assert.Equal(t, time.Monday, next.Weekday())
	assert.Equal(t, ist(2026, 8, 24, 9, 15), next)

	// Mid-morning before open stays on the same day.
	monday := ist(2026, 8, 24, 8, 0)
	assert.Equal(t, ist(2026, 8, 24, 9, 15), NextMarketOpen(monday))
}

func TestNextMarketClose_SkipsWeekend(t *testing.T) {
	fridayEvening := ist(2026, 8, 21, 16, 0)
	assert.Equal(t, ist(2026, 8, 24, 15, 30), NextMarketClose(fridayEvening))

	fridayMorning := ist(2026, 8, 21, 10, 0)
	assert.Equal(t, ist(2026, 8, 21, 15, 30), NextMarketClose(fridayMorning))
}
