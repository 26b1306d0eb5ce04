package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMICForSymbol(t *testing.T) {
	assert.Equal(t, "xnys", MICForSymbol("IBM"))
	assert.Equal(t, "xlon", MICForSymbol("TSCO.L"))
	assert.Equal(t, "xtse", MICForSymbol("shop.to"))
	assert.Equal(t, "xnys", MICForSymbol("BRK.B"))
	assert.Equal(t, "xnys", MICForSymbol(".L"))
}

func TestFallbackSessionsSinceCountsWeekdays(t *testing.T) {
	tc := &TradingCalendar{MIC: "xnys", Fallback: true, Timezone: time.UTC}

	// Friday 2024-03-01 -> Thursday 2024-03-07: Mon..Wed in between
	last := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 3, 7, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, 3, tc.SessionsSince(last, now))

	// Same day or the next day is current
	assert.Equal(t, 0, tc.SessionsSince(last, last))
	assert.Equal(t, 0, tc.SessionsSince(last, last.AddDate(0, 0, 1)))

	// Over a weekend only
	assert.Equal(t, 0, tc.SessionsSince(last, time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)))
}

func TestSessionsSinceFutureBar(t *testing.T) {
	tc := &TradingCalendar{Fallback: true, Timezone: time.UTC}
	last := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, tc.SessionsSince(last, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestGetCalendarNeverNil(t *testing.T) {
	tc := GetCalendar("IBM")
	if assert.NotNil(t, tc) {
		assert.Equal(t, "xnys", tc.MIC)
		assert.NotNil(t, tc.Timezone)
	}
}
