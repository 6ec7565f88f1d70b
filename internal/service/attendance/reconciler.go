package attendance

import (
	"math"
	"time"

	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/workwindow"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/clock"
)

// hoursTolerance is how far a stored total may drift before it is rewritten.
const hoursTolerance = 0.01

// Reconciler derives the canonical attendance facts of one technician-day.
// It is pure: callers decide whether and how to persist its output.
type Reconciler struct {
	clock *clock.Clock
}

func NewReconciler(c *clock.Clock) *Reconciler {
	return &Reconciler{clock: c}
}

// ShouldForceClose reports whether an open record's business day has ended:
// any past date, or today once nowMinute has reached the end of the work window.
// Future-dated records are never closed.
func ShouldForceClose(att attendance.Attendance, today time.Time, nowMinute int, endMinute int) bool {
	if !att.IsOpen() {
		return false
	}

	switch cmp := compareDates(att.Date, today); {
	case cmp < 0:
		return true
	case cmp == 0:
		return nowMinute >= endMinute
	default:
		return false
	}
}

// ForceClose synthesizes a clock-out at the end of the work window on the record's date.
// Early leave is false by policy since the clock-out is not the technician's.
func (r *Reconciler) ForceClose(att attendance.Attendance, window workwindow.WorkWindow) attendance.Attendance {
	clockOut := r.clock.Combine(att.Date, window.EndMinute)

	att.ClockOut = &clockOut
	att.IsLate = r.isLate(att.ClockIn, window)
	att.IsEarlyLeave = false
	att.IsAutoCheckout = true
	att.TotalWorkHours = hoursBetween(att.ClockIn, att.ClockOut)

	if att.ClockIn != nil {
		clockIn := *att.ClockIn
		att.WorkStartTime = &clockIn
	}
	att.WorkEndTime = &clockOut

	return att
}

// Recompute refreshes the derived fields from the timestamps without closing the record.
// TotalWorkHours is nil whenever ClockOut is absent.
func (r *Reconciler) Recompute(att attendance.Attendance, window workwindow.WorkWindow) attendance.Attendance {
	att.IsLate = r.isLate(att.ClockIn, window)
	att.IsEarlyLeave = att.ClockOut != nil && r.clock.MinuteOfDay(*att.ClockOut) < window.EndMinute
	att.TotalWorkHours = hoursBetween(att.ClockIn, att.ClockOut)
	return att
}

// ReconcileOne force-closes or recomputes the record and reports whether the result
// differs from what is stored.
func (r *Reconciler) ReconcileOne(att attendance.Attendance, window workwindow.WorkWindow, today time.Time, nowMinute int) (attendance.Attendance, bool) {
	var next attendance.Attendance
	if ShouldForceClose(att, today, nowMinute, window.EndMinute) {
		next = r.ForceClose(att, window)
	} else {
		next = r.Recompute(att, window)
	}

	return next, IsDirty(att, next)
}

// IsDirty compares derived fields: booleans exactly, hours within hoursTolerance.
func IsDirty(stored, next attendance.Attendance) bool {
	if !sameInstant(stored.ClockOut, next.ClockOut) {
		return true
	}
	if stored.IsLate != next.IsLate || stored.IsEarlyLeave != next.IsEarlyLeave || stored.IsAutoCheckout != next.IsAutoCheckout {
		return true
	}
	return hoursDiffer(stored.TotalWorkHours, next.TotalWorkHours)
}

func (r *Reconciler) isLate(clockIn *time.Time, window workwindow.WorkWindow) bool {
	return clockIn != nil && r.clock.MinuteOfDay(*clockIn) > window.StartMinute
}

// hoursBetween returns the rounded duration in hours, nil when either end is missing
// or the arithmetic is unusable.
func hoursBetween(from, to *time.Time) *float64 {
	if from == nil || to == nil {
		return nil
	}
	if from.IsZero() || to.IsZero() {
		return round2(math.NaN())
	}

	d := to.Sub(*from)
	if d == math.MaxInt64 || d == math.MinInt64 {
		return round2(math.Inf(1))
	}

	hours := d.Hours()
	if hours < 0 {
		hours = 0
	}
	return round2(hours)
}

// round2 rounds to two decimals; non-finite input yields nil.
func round2(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	rounded := math.Round(v*100) / 100
	return &rounded
}

func hoursDiffer(a, b *float64) bool {
	if a == nil || b == nil {
		return a != b
	}
	return math.Abs(*a-*b) > hoursTolerance
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func compareDates(a, b time.Time) int {
	ka := a.Year()*10000 + int(a.Month())*100 + a.Day()
	kb := b.Year()*10000 + int(b.Month())*100 + b.Day()
	switch {
	case ka < kb:
		return -1
	case ka > kb:
		return 1
	default:
		return 0
	}
}
