package clock

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"

	MinutesPerDay = 24 * 60
)

// BusinessLocation is the single fixed business timezone (UTC+7, no DST).
var BusinessLocation = time.FixedZone("WIB", 7*60*60)

// Clock answers "what time/date is it" in the business timezone.
// Calendar dates are represented as time.Time at 00:00 UTC, the same shape
// pgx returns for DATE columns.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// New returns a Clock backed by the system wall clock.
func New() *Clock {
	return &Clock{loc: BusinessLocation, now: time.Now}
}

// NewFixed returns a Clock frozen at t. Used by tests and replays.
func NewFixed(t time.Time) *Clock {
	return &Clock{loc: BusinessLocation, now: func() time.Time { return t }}
}

// NewWithFunc returns a Clock that reads the current instant from fn.
func NewWithFunc(fn func() time.Time) *Clock {
	return &Clock{loc: BusinessLocation, now: fn}
}

func (c *Clock) Location() *time.Location {
	return c.loc
}

// Now returns the current instant expressed in the business timezone.
func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// Today returns the current calendar date in the business timezone.
func (c *Clock) Today() time.Time {
	return c.DateOf(c.now())
}

// NowMinute returns the current minute-of-day in the business timezone.
func (c *Clock) NowMinute() int {
	return c.MinuteOfDay(c.now())
}

// DateOf returns the business calendar date an instant falls on.
func (c *Clock) DateOf(t time.Time) time.Time {
	local := t.In(c.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// MinuteOfDay returns hour*60+minute of t in the business timezone, in [0, 1440).
func (c *Clock) MinuteOfDay(t time.Time) int {
	local := t.In(c.loc)
	return local.Hour()*60 + local.Minute()
}

// Combine builds the absolute instant for a calendar date and minute-of-day
// in the business timezone.
func (c *Clock) Combine(date time.Time, minuteOfDay int) time.Time {
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, c.loc)
	return midnight.Add(time.Duration(minuteOfDay) * time.Minute)
}

// MonthStart returns the first calendar day of the current business month.
func (c *Clock) MonthStart() time.Time {
	today := c.Today()
	return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// ParseTimeOfDay parses "HH:MM[:SS]" into a minute-of-day. It never fails:
// missing or unparsable segments count as zero.
func ParseTimeOfDay(text string) int {
	parts := strings.Split(strings.TrimSpace(text), ":")

	hours := leadingInt(parts[0])
	minutes := 0
	if len(parts) > 1 {
		minutes = leadingInt(parts[1])
	}

	return hours*60 + minutes
}

// FormatTimeOfDay renders a minute-of-day as "HH:MM".
func FormatTimeOfDay(minuteOfDay int) string {
	return fmt.Sprintf("%02d:%02d", minuteOfDay/60, minuteOfDay%60)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(date time.Time) string {
	return date.Format(DateLayout)
}

// ParseMonth parses a strict YYYY-MM month into its first calendar day.
func ParseMonth(s string) (time.Time, error) {
	if len(s) != len(MonthLayout) {
		return time.Time{}, fmt.Errorf("month %q must be in YYYY-MM format", s)
	}
	return time.ParseInLocation(MonthLayout, s, time.UTC)
}

// AddDays shifts a calendar date by n days.
func AddDays(date time.Time, n int) time.Time {
	return date.AddDate(0, 0, n)
}

// leadingInt reads the leading decimal digits of s; anything else yields 0.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		if n > MinutesPerDay*60 {
			return 0
		}
	}
	return n
}
