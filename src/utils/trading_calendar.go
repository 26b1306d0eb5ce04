package utils

import (
	"strings"
	"sync"
	"time"

	"github.com/scmhub/calendar"
)

// TradingCalendar calculates trading days using scmhub/calendar.
type TradingCalendar struct {
	MIC      string
	Calendar *calendar.Calendar
	Fallback bool
	Timezone *time.Location
}

const defaultMIC = "xnys"

// maxSessionScanDays bounds SessionsSince for very old series.
const maxSessionScanDays = 3660

// Loaded calendars by MIC, building one is not free.
var calendarCache sync.Map

// Symbol suffix to MIC code (ISO 10383), see scmhub/calendar for supported MICs.
var suffixMIC = map[string]string{
	".L":  "xlon",
	".PA": "xpar",
	".DE": "xfra",
	".AS": "xams",
	".BR": "xbru",
	".MI": "xmil",
	".MC": "xmad",
	".ST": "xsto",
	".CO": "xcse",
	".HE": "xhel",
	".VI": "xwbo",
	".SW": "xswx",
	".TO": "xtse",
	".V":  "xtsx",
	".T":  "xtks",
	".HK": "xhkg",
	".AX": "xasx",
	".KS": "xkrx",
	".TW": "xtai",
	".SS": "xshg",
	".SZ": "xshe",
}

// -----------------------------------------------------------------------------

// MICForSymbol maps the exchange suffix of a symbol to a MIC code, NYSE when
// the symbol carries no known suffix.
func MICForSymbol(symbol string) string {
	symbol = strings.ToUpper(symbol)
	idx := strings.LastIndex(symbol, ".")
	if idx <= 0 {
		return defaultMIC
	}
	if mic, ok := suffixMIC[symbol[idx:]]; ok {
		return mic
	}
	return defaultMIC
}

// -----------------------------------------------------------------------------

func GetCalendar(symbol string) *TradingCalendar {
	mic := MICForSymbol(symbol)
	if tc, ok := calendarCache.Load(mic); ok {
		return tc.(*TradingCalendar)
	}

	tc := loadCalendar(mic)
	calendarCache.Store(mic, tc)
	return tc
}

// -----------------------------------------------------------------------------

func loadCalendar(mic string) *TradingCalendar {
	cal := calendar.GetCalendar(mic)
	if cal == nil && mic != defaultMIC {
		mic = defaultMIC
		cal = calendar.GetCalendar(mic)
	}

	if cal == nil {
		// Simple fallback: Mon-Fri in New York time
		nyLoc, _ := time.LoadLocation("America/New_York")
		if nyLoc == nil {
			nyLoc = time.UTC
		}
		return &TradingCalendar{MIC: mic, Fallback: true, Timezone: nyLoc}
	}

	loc := cal.Loc
	if loc == nil {
		loc = time.UTC
	}
	return &TradingCalendar{MIC: mic, Calendar: cal, Timezone: loc}
}

// -----------------------------------------------------------------------------

func (tc *TradingCalendar) IsTradingDay(date time.Time) bool {
	if tc.Fallback || tc.Calendar == nil {
		weekday := date.Weekday()
		return weekday != time.Saturday && weekday != time.Sunday
	}
	// Library handles IsHoliday / IsBusinessDay
	return tc.Calendar.IsBusinessDay(date)
}

// -----------------------------------------------------------------------------

// SessionsSince counts the trading days strictly between the calendar day of
// last and the calendar day of now, both read in the market's timezone.
// A result of 0 means the series is current.
func (tc *TradingCalendar) SessionsSince(last, now time.Time) int {
	loc := tc.Timezone
	if loc == nil {
		loc = time.UTC
	}

	// Bar dates carry no time of day, keep their calendar date as-is
	from := time.Date(last.Year(), last.Month(), last.Day(), 12, 0, 0, 0, loc)
	nowLocal := now.In(loc)
	to := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 12, 0, 0, 0, loc)

	count := 0
	day := from.AddDate(0, 0, 1)
	for i := 0; day.Before(to) && i < maxSessionScanDays; i++ {
		if tc.IsTradingDay(day) {
			count++
		}
		day = day.AddDate(0, 0, 1)
	}
	return count
}
