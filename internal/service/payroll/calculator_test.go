package payroll

import (
	"testing"

	"github.com/nexushr/hrms-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), "%s: want %s, got %s", field, want, got.String())
}

func TestCalculator_HourMode_WorkedExample(t *testing.T) {
	calc := NewCalculator(payroll.DefaultRates())

	// Act
	pc, err := calc.Compute(payroll.ModeHour, dec("30000"), payroll.AttendanceSummary{
		DaysPresent: 1,
		TotalHours:  dec("170"),
	}, 31)

	// Assert
	require.NoError(t, err)
	assertDecimal(t, "30000", pc.BaseSalary, "base")
	assertDecimal(t, "10", pc.OvertimeHours, "overtime hours")
	assertDecimal(t, "2000", pc.OvertimePay, "overtime pay")
	assertDecimal(t, "0", pc.Deductions, "deductions")
	assertDecimal(t, "3200", pc.Taxes, "taxes")
	assertDecimal(t, "0", pc.Bonuses, "bonuses")
	assertDecimal(t, "28800", pc.NetPay, "net")
}

func TestCalculator_DayMode_WorkedExample(t *testing.T) {
	calc := NewCalculator(payroll.DefaultRates())

	// Act
	pc, err := calc.Compute(payroll.ModeDay, dec("30000"), payroll.AttendanceSummary{DaysPresent: 25}, 30)

	// Assert
	require.NoError(t, err)
	assertDecimal(t, "25000", pc.BaseSalary, "base component")
	assertDecimal(t, "5000", pc.Deductions, "deductions")
	assertDecimal(t, "0", pc.Taxes, "taxes")
	assertDecimal(t, "0", pc.Bonuses, "bonuses")
	assertDecimal(t, "20000", pc.NetPay, "net")
}

func TestCalculator_HourMode_BelowThresholdHasNoOvertime(t *testing.T) {
	calc := NewCalculator(payroll.DefaultRates())

	pc, err := calc.Compute(payroll.ModeHour, dec("30000"), payroll.AttendanceSummary{TotalHours: dec("159.5")}, 30)

	require.NoError(t, err)
	assertDecimal(t, "0", pc.OvertimePay, "overtime pay")
	assertDecimal(t, "3000", pc.Taxes, "taxes")
	assertDecimal(t, "27000", pc.NetPay, "net")
}

func TestCalculator_HourMode_TaxRoundsToWholeUnits(t *testing.T) {
	calc := NewCalculator(payroll.DefaultRates())

	// 0.25h overtime -> 50.00; (12345.67 + 50) * 0.10 = 1239.567 -> 1240
	pc, err := calc.Compute(payroll.ModeHour, dec("12345.67"), payroll.AttendanceSummary{TotalHours: dec("160.25")}, 30)

	require.NoError(t, err)
	assertDecimal(t, "50", pc.OvertimePay, "overtime pay")
	assertDecimal(t, "1240", pc.Taxes, "taxes")
	assertDecimal(t, "11155.67", pc.NetPay, "net")
}

func TestCalculator_DayMode_ZeroAttendanceHasNoDeduction(t *testing.T) {
	calc := NewCalculator(payroll.DefaultRates())

	pc, err := calc.Compute(payroll.ModeDay, dec("30000"), payroll.AttendanceSummary{}, 30)

	require.NoError(t, err)
	assertDecimal(t, "0", pc.BaseSalary, "base component")
	assertDecimal(t, "0", pc.Deductions, "deductions")
	assertDecimal(t, "0", pc.NetPay, "net")
}

func TestCalculator_DayMode_ProratesOverCalendarDays(t *testing.T) {
	calc := NewCalculator(payroll.DefaultRates())

	// 31-day month: daily rate 967.741935...
	pc, err := calc.Compute(payroll.ModeDay, dec("30000"), payroll.AttendanceSummary{DaysPresent: 31}, 31)

	require.NoError(t, err)
	assertDecimal(t, "30000", pc.BaseSalary, "full month")
	assertDecimal(t, "0", pc.Deductions, "deductions")
	assertDecimal(t, "30000", pc.NetPay, "net")
}

func TestCalculator_NetPayIsNeverNegative(t *testing.T) {
	harsh := payroll.DefaultRates()
	harsh.TaxRate = dec("1.5")
	calcs := []Calculator{NewCalculator(payroll.DefaultRates()), NewCalculator(harsh)}

	salaries := []string{"0", "0.01", "1000", "30000", "999999.99"}
	summaries := []payroll.AttendanceSummary{
		{},
		{DaysPresent: 1, TotalHours: dec("1")},
		{DaysPresent: 10, TotalHours: dec("400")},
		{DaysPresent: 30, TotalHours: dec("240")},
		{DaysPresent: 45, TotalHours: dec("0")}, // more records than days
	}

	for _, calc := range calcs {
		for _, mode := range []payroll.Mode{payroll.ModeHour, payroll.ModeDay} {
			for _, salary := range salaries {
				for _, summary := range summaries {
					pc, err := calc.Compute(mode, dec(salary), summary, 30)
					require.NoError(t, err)
					assert.False(t, pc.NetPay.IsNegative(), "mode=%s salary=%s days=%d", mode, salary, summary.DaysPresent)
					assert.False(t, pc.Deductions.IsNegative())
				}
			}
		}
	}
}

func TestCalculator_UsesConfiguredRates(t *testing.T) {
	calc := NewCalculator(payroll.Rates{
		OvertimeRate:         dec("350"),
		TaxRate:              dec("0"),
		MonthlyHourThreshold: dec("100"),
		DailyHourThreshold:   dec("8"),
	})

	pc, err := calc.Compute(payroll.ModeHour, dec("10000"), payroll.AttendanceSummary{TotalHours: dec("110")}, 30)

	require.NoError(t, err)
	assertDecimal(t, "3500", pc.OvertimePay, "overtime pay")
	assertDecimal(t, "0", pc.Taxes, "taxes")
	assertDecimal(t, "13500", pc.NetPay, "net")
}

func TestCalculator_RejectsBadInput(t *testing.T) {
	calc := NewCalculator(payroll.DefaultRates())

	_, err := calc.Compute(payroll.Mode("WEEK"), dec("1000"), payroll.AttendanceSummary{}, 30)
	assert.ErrorIs(t, err, payroll.ErrInvalidMode)

	_, err = calc.Compute(payroll.ModeDay, dec("1000"), payroll.AttendanceSummary{}, 0)
	assert.ErrorIs(t, err, payroll.ErrInvalidDaysInMonth)
}
