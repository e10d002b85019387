package attendance

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPresent Status = "PRESENT"
	StatusAbsent  Status = "ABSENT"
	StatusHalfDay Status = "HALF_DAY"
	StatusOnLeave Status = "ON_LEAVE"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusHalfDay, StatusOnLeave:
		return true
	}
	return false
}

// Session is one clock-in/clock-out pair. ClockOut is nil while the employee is still clocked in.
type Session struct {
	ClockIn  time.Time  `json:"clockIn"`
	ClockOut *time.Time `json:"clockOut,omitempty"`
}

func (s Session) Open() bool {
	return s.ClockOut == nil
}

// Duration is zero for an open session.
func (s Session) Duration() time.Duration {
	if s.ClockOut == nil {
		return 0
	}
	return s.ClockOut.Sub(s.ClockIn)
}

// Sessions is the ordered list of a day's sessions. Only the last one may be open.
type Sessions []Session

func (ss Sessions) Validate() error {
	for i, s := range ss {
		if s.ClockIn.IsZero() {
			return fmt.Errorf("%w: session %d has no clock-in", ErrInvalidSession, i)
		}
		if s.Open() {
			if i != len(ss)-1 {
				return fmt.Errorf("%w: session %d is open but not last", ErrInvalidSession, i)
			}
			continue
		}
		if s.ClockOut.Before(s.ClockIn) {
			return fmt.Errorf("%w: session %d ends before it starts", ErrInvalidSession, i)
		}
	}
	return nil
}

// Last returns the most recent session, if any.
func (ss Sessions) Last() (Session, bool) {
	if len(ss) == 0 {
		return Session{}, false
	}
	return ss[len(ss)-1], true
}

func (ss Sessions) ClockedIn() bool {
	last, ok := ss.Last()
	return ok && last.Open()
}

// Worked sums the closed sessions.
func (ss Sessions) Worked() time.Duration {
	var total time.Duration
	for _, s := range ss {
		total += s.Duration()
	}
	return total
}

// ClockIn returns a copy with a new open session appended.
func (ss Sessions) ClockIn(at time.Time) (Sessions, error) {
	if ss.ClockedIn() {
		return nil, ErrAlreadyClockedIn
	}
	next := make(Sessions, len(ss), len(ss)+1)
	copy(next, ss)
	return append(next, Session{ClockIn: at}), nil
}

// ClockOut returns a copy with the open session closed at the given time.
func (ss Sessions) ClockOut(at time.Time) (Sessions, error) {
	if !ss.ClockedIn() {
		return nil, ErrNotClockedIn
	}
	last := ss[len(ss)-1]
	if at.Before(last.ClockIn) {
		return nil, fmt.Errorf("%w: clock-out before clock-in", ErrInvalidSession)
	}
	next := make(Sessions, len(ss))
	copy(next, ss)
	out := at
	next[len(next)-1].ClockOut = &out
	return next, nil
}

// Hours converts a duration to fractional hours, kept to 4 decimal places.
func Hours(d time.Duration) decimal.Decimal {
	return decimal.NewFromInt(int64(d / time.Second)).
		Div(decimal.NewFromInt(3600)).
		Round(4)
}

type Attendance struct {
	ID         string
	EmployeeID string
	Date       time.Time // calendar day, midnight UTC
	Sessions   Sessions
	TotalHours decimal.Decimal
	Overtime   decimal.Decimal
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Joined
	EmployeeName     *string
	EmployeePosition *string
}

// Recompute refreshes the derived totals from the sessions. Overtime is the time
// worked beyond dailyThreshold hours.
func (a *Attendance) Recompute(dailyThreshold decimal.Decimal) {
	a.TotalHours = Hours(a.Sessions.Worked())
	a.Overtime = decimal.Max(decimal.Zero, a.TotalHours.Sub(dailyThreshold))
}

// DateRange is a span of calendar days. Inclusive controls whether End itself is part
// of the range.
type DateRange struct {
	Start     time.Time
	End       time.Time
	Inclusive bool
}

// Day normalizes t to its calendar day in loc, expressed as midnight UTC so it
// compares cleanly with DATE columns.
func Day(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MonthHalfOpen is [first of month, first of next month).
func MonthHalfOpen(year int, month time.Month) DateRange {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return DateRange{Start: start, End: start.AddDate(0, 1, 0)}
}

// MonthInclusive is [first of month, last day of month].
func MonthInclusive(year int, month time.Month) DateRange {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return DateRange{Start: start, End: start.AddDate(0, 1, -1), Inclusive: true}
}

// DaysInMonth counts calendar days, not business days.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (r DateRange) Contains(day time.Time) bool {
	if day.Before(r.Start) {
		return false
	}
	if r.Inclusive {
		return !day.After(r.End)
	}
	return day.Before(r.End)
}

// Overlaps reports whether two ranges share at least one day. Both ranges must be inclusive.
func (r DateRange) Overlaps(o DateRange) bool {
	return r.Contains(o.Start) || o.Contains(r.Start)
}
