package payroll

import (
	"fmt"

	"github.com/nexushr/hrms-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// Calculator applies the pay rules of a mode to one employee. Every money
// component is rounded to cents before net pay is derived from them.
type Calculator struct {
	rates payroll.Rates
}

func NewCalculator(rates payroll.Rates) Calculator {
	return Calculator{rates: rates}
}

func (c Calculator) Compute(mode payroll.Mode, salary decimal.Decimal, summary payroll.AttendanceSummary, daysInMonth int) (payroll.PayComponents, error) {
	switch mode {
	case payroll.ModeHour:
		return c.hourly(salary, summary), nil
	case payroll.ModeDay:
		if daysInMonth <= 0 {
			return payroll.PayComponents{}, payroll.ErrInvalidDaysInMonth
		}
		return c.daily(salary, summary, daysInMonth), nil
	}
	return payroll.PayComponents{}, fmt.Errorf("%w: %q", payroll.ErrInvalidMode, mode)
}

// hourly pays the nominal salary plus overtime beyond the monthly hour threshold,
// taxed at the flat rate. Deductions are not computed in this mode.
func (c Calculator) hourly(salary decimal.Decimal, summary payroll.AttendanceSummary) payroll.PayComponents {
	base := salary.Round(2)
	overtimeHours := summary.ExcessOver(c.rates.MonthlyHourThreshold)
	overtimePay := overtimeHours.Mul(c.rates.OvertimeRate).Round(2)
	deductions := decimal.Zero
	bonuses := decimal.Zero
	taxes := base.Add(overtimePay).Mul(c.rates.TaxRate).Round(0)

	return payroll.PayComponents{
		BaseSalary:    base,
		OvertimeHours: overtimeHours,
		OvertimePay:   overtimePay,
		Deductions:    deductions,
		Taxes:         taxes,
		Bonuses:       bonuses,
		NetPay:        nonNegative(base.Add(overtimePay).Add(bonuses).Sub(deductions).Sub(taxes)),
	}
}

// daily prorates the salary over calendar days. Absence is only deducted when
// the employee has at least one attendance record in the month.
func (c Calculator) daily(salary decimal.Decimal, summary payroll.AttendanceSummary, daysInMonth int) payroll.PayComponents {
	dailyRate := salary.Div(decimal.NewFromInt(int64(daysInMonth)))
	present := decimal.NewFromInt(int64(summary.DaysPresent))
	base := dailyRate.Mul(present).Round(2)

	deductions := decimal.Zero
	if summary.DaysPresent > 0 {
		absent := decimal.NewFromInt(int64(daysInMonth - summary.DaysPresent))
		deductions = nonNegative(absent.Mul(dailyRate)).Round(2)
	}

	return payroll.PayComponents{
		BaseSalary:    base,
		OvertimeHours: summary.SumDailyOvertime,
		OvertimePay:   decimal.Zero,
		Deductions:    deductions,
		Taxes:         decimal.Zero,
		Bonuses:       decimal.Zero,
		NetPay:        nonNegative(base.Sub(deductions)),
	}
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, d)
}
