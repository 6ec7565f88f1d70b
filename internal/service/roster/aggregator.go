package roster

import (
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/roster"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/technician"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/clock"
	"github.com/teambition/rrule-go"
)

// Summarize folds one technician's reconciled records into monthly counters.
func Summarize(tech technician.Technician, records []attendance.Attendance) roster.TechnicianSummary {
	summary := roster.TechnicianSummary{
		UserID:         tech.UserID,
		TechnicianName: tech.FullName,
		Email:          tech.Email,
	}

	var hours float64
	for _, att := range records {
		if att.ClockIn != nil {
			summary.DaysClockedIn++
			if att.ClockOut == nil {
				summary.MissingClockOut++
			}
		}
		if att.IsClosed() {
			summary.DaysComplete++
		}
		if att.TotalWorkHours != nil {
			hours += *att.TotalWorkHours
		}
		if att.IsLate {
			summary.LateDays++
		}
		if att.IsEarlyLeave {
			summary.EarlyLeaveDays++
		}
		if att.IsAutoCheckout {
			summary.AutoCheckoutDays++
		}
	}

	summary.TotalHours = roundHours(hours)
	summary.AvgHoursPerCompleteDay = averageHours(summary.TotalHours, summary.DaysComplete)

	return summary
}

// Aggregate builds one summary per technician, in roster order, plus tenant totals.
// Records of users missing from the roster are ignored.
func Aggregate(technicians []technician.Technician, records []attendance.Attendance) ([]roster.TechnicianSummary, roster.Totals) {
	byUser := make(map[string][]attendance.Attendance, len(technicians))
	for _, att := range records {
		byUser[att.UserID] = append(byUser[att.UserID], att)
	}

	summaries := make([]roster.TechnicianSummary, 0, len(technicians))
	for _, tech := range technicians {
		summaries = append(summaries, Summarize(tech, byUser[tech.UserID]))
	}

	return summaries, Total(summaries)
}

// Total sums per-technician counters. Hours are re-rounded after summation.
func Total(summaries []roster.TechnicianSummary) roster.Totals {
	totals := roster.Totals{Headcount: len(summaries)}

	var hours float64
	for _, s := range summaries {
		totals.DaysClockedIn += s.DaysClockedIn
		totals.DaysComplete += s.DaysComplete
		totals.MissingClockOut += s.MissingClockOut
		totals.LateDays += s.LateDays
		totals.EarlyLeaveDays += s.EarlyLeaveDays
		totals.AutoCheckoutDays += s.AutoCheckoutDays
		hours += s.TotalHours
	}

	totals.TotalHours = roundHours(hours)
	totals.AvgHoursPerCompleteDay = averageHours(totals.TotalHours, totals.DaysComplete)

	return totals
}

// MonthDays lists every calendar day of the month starting at monthStart.
func MonthDays(monthStart time.Time) ([]time.Time, error) {
	monthStart = time.Date(monthStart.Year(), monthStart.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.DAILY,
		Dtstart: monthStart,
		Until:   monthEnd,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build month recurrence: %w", err)
	}

	set := rrule.Set{}
	set.RRule(rule)

	return set.Between(monthStart, monthEnd, true), nil
}

// DayGrid fills every day of the month; days without a record carry a nil record.
func DayGrid(monthStart time.Time, records []attendance.Attendance) ([]roster.DayEntry, error) {
	days, err := MonthDays(monthStart)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]attendance.Attendance, len(records))
	for _, att := range records {
		byDate[clock.FormatDate(att.Date)] = att
	}

	grid := make([]roster.DayEntry, 0, len(days))
	for _, day := range days {
		entry := roster.DayEntry{
			Date:      clock.FormatDate(day),
			DayOfWeek: day.Weekday().String(),
		}
		if att, ok := byDate[entry.Date]; ok {
			r := attendance.ToResponse(att)
			entry.Record = &r
		}
		grid = append(grid, entry)
	}

	return grid, nil
}

func averageHours(total float64, days int) float64 {
	if days == 0 {
		return 0
	}
	return roundHours(total / float64(days))
}

func roundHours(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}
