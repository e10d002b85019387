package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status of a payroll run. Payslips mirror their parent's status.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusGenerated Status = "GENERATED"
	StatusPaid      Status = "PAID"
)

// CanTransitionTo allows only PENDING -> GENERATED -> PAID.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusGenerated
	case StatusGenerated:
		return next == StatusPaid
	}
	return false
}

// Mode selects how pay is derived from attendance.
type Mode string

const (
	ModeHour Mode = "HOUR" // worked hours with monthly overtime threshold
	ModeDay  Mode = "DAY"  // days present against calendar days
)

func (m Mode) Valid() bool {
	return m == ModeHour || m == ModeDay
}

type Payroll struct {
	ID             string
	Month          int
	Year           int
	Mode           Mode
	TotalEmployees int
	TotalPayout    decimal.Decimal
	Status         Status
	GeneratedAt    time.Time
	PaidAt         *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Joined
	PayslipCount int
}

type Payslip struct {
	ID            string
	EmployeeID    string
	PayrollID     string
	BaseSalary    decimal.Decimal
	OvertimePay   decimal.Decimal
	Deductions    decimal.Decimal
	Taxes         decimal.Decimal
	Bonuses       decimal.Decimal
	NetPay        decimal.Decimal
	DaysPresent   int
	TotalHours    decimal.Decimal
	OvertimeHours decimal.Decimal
	Remarks       string
	Status        Status
	CreatedAt     time.Time

	// Joined
	EmployeeName     *string
	EmployeePosition *string
	Month            int
	Year             int
}

// Rates are the tunable constants of the pay rules.
type Rates struct {
	OvertimeRate         decimal.Decimal // currency units per overtime hour
	TaxRate              decimal.Decimal // fraction of gross, HOUR mode only
	MonthlyHourThreshold decimal.Decimal // hours per month before overtime starts
	DailyHourThreshold   decimal.Decimal // hours per day before a record counts overtime
}

func DefaultRates() Rates {
	return Rates{
		OvertimeRate:         decimal.NewFromInt(200),
		TaxRate:              decimal.RequireFromString("0.10"),
		MonthlyHourThreshold: decimal.NewFromInt(160),
		DailyHourThreshold:   decimal.NewFromInt(8),
	}
}

// AttendanceSummary is one employee's attendance reduced over a pay period.
type AttendanceSummary struct {
	DaysPresent      int
	TotalHours       decimal.Decimal
	SumDailyOvertime decimal.Decimal
}

// ExcessOver is the hours worked beyond threshold, never negative.
func (s AttendanceSummary) ExcessOver(threshold decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, s.TotalHours.Sub(threshold))
}

// PayComponents is the result of applying a mode's rules to one employee.
type PayComponents struct {
	BaseSalary    decimal.Decimal
	OvertimeHours decimal.Decimal
	OvertimePay   decimal.Decimal
	Deductions    decimal.Decimal
	Taxes         decimal.Decimal
	Bonuses       decimal.Decimal
	NetPay        decimal.Decimal
}
