package workwindow

import "github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/clock"

const (
	DefaultStartTime = "09:00:00"
	DefaultEndTime   = "18:00:00"
)

// WorkWindow is a tenant's effective start/end minute-of-day in the business timezone.
type WorkWindow struct {
	StartMinute int
	EndMinute   int
}

// Setting is the raw, free-text configuration row of a tenant. Either field may be absent.
type Setting struct {
	TenantID  string
	StartTime *string
	EndTime   *string
}

// TenantWindow pairs a tenant with its resolved window.
type TenantWindow struct {
	TenantID string
	Window   WorkWindow
}

// Resolve applies lenient time-of-day parsing, substituting the 09:00-18:00
// defaults for absent fields.
func Resolve(rawStart, rawEnd *string) WorkWindow {
	start := DefaultStartTime
	if rawStart != nil && *rawStart != "" {
		start = *rawStart
	}
	end := DefaultEndTime
	if rawEnd != nil && *rawEnd != "" {
		end = *rawEnd
	}

	return WorkWindow{
		StartMinute: clock.ParseTimeOfDay(start),
		EndMinute:   clock.ParseTimeOfDay(end),
	}
}

// Default is the window used when a tenant has no configuration row.
func Default() WorkWindow {
	return Resolve(nil, nil)
}

// Window resolves the setting row.
func (s Setting) Window() WorkWindow {
	return Resolve(s.StartTime, s.EndTime)
}

// ResolveAll turns raw settings rows into the injected tenant list the sweep consumes.
func ResolveAll(settings []Setting) []TenantWindow {
	windows := make([]TenantWindow, 0, len(settings))
	for _, s := range settings {
		windows = append(windows, TenantWindow{TenantID: s.TenantID, Window: s.Window()})
	}
	return windows
}
