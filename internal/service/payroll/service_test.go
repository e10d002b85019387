package payroll

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nexushr/hrms-backend-go/internal/domain/attendance"
	"github.com/nexushr/hrms-backend-go/internal/domain/payroll"
	"github.com/nexushr/hrms-backend-go/internal/domain/user"
	"github.com/nexushr/hrms-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func salary(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// seedMay2025 gives three salaried employees with varied attendance and one without a salary.
func seedMay2025(s *store) (heavy, partial, absent string) {
	h := s.addEmployee("Hana", salary("30000"))
	p := s.addEmployee("Pavel", salary("31000"))
	a := s.addEmployee("Abel", salary("25000"))
	s.addEmployee("Volunteer", nil)

	// Hana: 17 days of 10h = 170h
	for d := 1; d <= 17; d++ {
		day := date(2025, time.May, d)
		s.addAttendance(h.ID, day, attendance.Sessions{closed(clock(day, 8, 0), clock(day, 18, 0))})
	}
	// Pavel: 20 days of 8h, plus an open session today
	for d := 1; d <= 20; d++ {
		day := date(2025, time.May, d)
		s.addAttendance(p.ID, day, attendance.Sessions{closed(clock(day, 9, 0), clock(day, 17, 0))})
	}
	last := date(2025, time.May, 31)
	s.addAttendance(p.ID, last, attendance.Sessions{{ClockIn: clock(last, 9, 0)}})

	return h.ID, p.ID, a.ID
}

func TestGenerate_PersistsPayrollAndPayslips(t *testing.T) {
	s := newStore()
	heavy, _, _ := seedMay2025(s)
	svc := newTestService(s)

	// Act
	resp, err := svc.Generate(context.Background(), payroll.GenerateRequest{Month: 5, Year: 2025, Mode: payroll.ModeHour})

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, resp.PayrollID)
	assert.Equal(t, 3, resp.TotalEmployees)

	p, err := fakePayrollRepo{s}.GetByID(context.Background(), resp.PayrollID)
	require.NoError(t, err)
	assert.Equal(t, payroll.StatusGenerated, p.Status)
	assert.Equal(t, 3, p.TotalEmployees)
	assert.True(t, p.TotalPayout.Equal(resp.TotalPayout))
	assert.Equal(t, 3, p.PayslipCount)

	slips, _ := fakePayrollRepo{s}.ListPayslipsByEmployee(context.Background(), heavy)
	require.Len(t, slips, 1)
	assertDecimal(t, "28800", slips[0].NetPay, "Hana net")
	assert.Equal(t, payroll.StatusGenerated, slips[0].Status)
	assert.Equal(t, "Payroll generated for 5/2025 (170.00h worked, 10.00h overtime)", slips[0].Remarks)

	sum := decimal.Zero
	for _, ps := range s.payslips {
		sum = sum.Add(ps.NetPay)
	}
	assert.True(t, sum.Equal(p.TotalPayout), "total payout is the sum of net pay")
}

func TestGenerate_DuplicatePeriodIsRejected(t *testing.T) {
	s := newStore()
	seedMay2025(s)
	svc := newTestService(s)
	req := payroll.GenerateRequest{Month: 5, Year: 2025, Mode: payroll.ModeDay}

	first, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	payrollsBefore, payslipsBefore := s.counts()

	// Act
	_, err = svc.Generate(context.Background(), req)

	// Assert
	require.ErrorIs(t, err, payroll.ErrPayrollAlreadyExists)
	assert.Contains(t, err.Error(), first.PayrollID)
	payrollsAfter, payslipsAfter := s.counts()
	assert.Equal(t, payrollsBefore, payrollsAfter)
	assert.Equal(t, payslipsBefore, payslipsAfter)

	// A different mode for the same period is still the same period
	_, err = svc.Generate(context.Background(), payroll.GenerateRequest{Month: 5, Year: 2025, Mode: payroll.ModeHour})
	assert.ErrorIs(t, err, payroll.ErrPayrollAlreadyExists)
}

func TestGenerate_ConstraintClosesTheCheckThenActRace(t *testing.T) {
	s := newStore()
	seedMay2025(s)
	s.hidePeriod = true
	svc := newTestService(s)
	req := payroll.GenerateRequest{Month: 5, Year: 2025, Mode: payroll.ModeHour}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.Generate(context.Background(), req)
		}()
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, payroll.ErrPayrollAlreadyExists):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, conflicts)

	payrolls, payslips := s.counts()
	assert.Equal(t, 1, payrolls)
	assert.Equal(t, 3, payslips)
}

func TestPreview_MatchesGenerate(t *testing.T) {
	for _, mode := range []payroll.Mode{payroll.ModeHour, payroll.ModeDay} {
		t.Run(string(mode), func(t *testing.T) {
			s := newStore()
			seedMay2025(s)
			svc := newTestService(s)
			req := payroll.GenerateRequest{Month: 5, Year: 2025, Mode: mode}

			preview, err := svc.Preview(context.Background(), req)
			require.NoError(t, err)

			payrolls, payslips := s.counts()
			assert.Zero(t, payrolls, "preview writes nothing")
			assert.Zero(t, payslips)

			gen, err := svc.Generate(context.Background(), req)
			require.NoError(t, err)

			assert.True(t, preview.TotalPayout.Equal(gen.TotalPayout), "preview %s vs generate %s", preview.TotalPayout, gen.TotalPayout)
			assert.Equal(t, gen.TotalEmployees, preview.TotalEmployees)

			stored := map[string]payroll.Payslip{}
			for _, ps := range s.payslips {
				stored[ps.EmployeeID] = ps
			}
			require.Len(t, preview.Payslips, len(stored))
			for _, p := range preview.Payslips {
				ps, ok := stored[p.EmployeeID]
				require.True(t, ok)
				assert.True(t, p.BaseSalary.Equal(ps.BaseSalary))
				assert.True(t, p.OvertimePay.Equal(ps.OvertimePay))
				assert.True(t, p.Deductions.Equal(ps.Deductions))
				assert.True(t, p.Taxes.Equal(ps.Taxes))
				assert.True(t, p.Bonuses.Equal(ps.Bonuses))
				assert.True(t, p.NetPay.Equal(ps.NetPay))
				assert.Equal(t, ps.DaysPresent, p.DaysPresent)
				assert.Equal(t, ps.Remarks, p.Remarks)
			}
		})
	}
}

func TestPreview_DayMode(t *testing.T) {
	s := newStore()
	heavy, partial, absent := seedMay2025(s)
	svc := newTestService(s)

	resp, err := svc.Preview(context.Background(), payroll.GenerateRequest{Month: 5, Year: 2025, Mode: payroll.ModeDay})
	require.NoError(t, err)

	byID := map[string]payroll.PayslipResponse{}
	for _, p := range resp.Payslips {
		byID[p.EmployeeID] = p
	}

	// Pavel: 21 records in a 31-day month, the open session still counts as present
	assert.Equal(t, 21, byID[partial].DaysPresent)
	assert.Equal(t, "Daywise payroll generated for 5/2025 (21 days present, 10 absent)", byID[partial].Remarks)
	assertDecimal(t, "21000", byID[partial].BaseSalary, "Pavel base")
	assertDecimal(t, "10000", byID[partial].Deductions, "Pavel deductions")
	assertDecimal(t, "11000", byID[partial].NetPay, "Pavel net")

	// Abel has no attendance at all: no base, no deduction
	assert.Equal(t, 0, byID[absent].DaysPresent)
	assertDecimal(t, "0", byID[absent].Deductions, "Abel deductions")
	assertDecimal(t, "0", byID[absent].NetPay, "Abel net")

	assert.Equal(t, 17, byID[heavy].DaysPresent)
}

func TestGenerate_ExcludesEmployeesWithoutSalary(t *testing.T) {
	s := newStore()
	seedMay2025(s)
	svc := newTestService(s)

	for _, mode := range []payroll.Mode{payroll.ModeHour, payroll.ModeDay} {
		preview, err := svc.Preview(context.Background(), payroll.GenerateRequest{Month: 5, Year: 2025, Mode: mode})
		require.NoError(t, err)
		assert.Equal(t, 3, preview.TotalEmployees)
		for _, p := range preview.Payslips {
			assert.NotEqual(t, "Volunteer Tester", p.EmployeeName)
		}
	}
}

func TestGenerate_NoSalariedEmployees(t *testing.T) {
	s := newStore()
	s.addEmployee("Volunteer", nil)
	svc := newTestService(s)

	_, err := svc.Generate(context.Background(), payroll.GenerateRequest{Month: 5, Year: 2025})
	assert.ErrorIs(t, err, payroll.ErrNoSalariedEmployees)

	_, err = svc.Preview(context.Background(), payroll.GenerateRequest{Month: 5, Year: 2025})
	assert.ErrorIs(t, err, payroll.ErrNoSalariedEmployees)

	payrolls, _ := s.counts()
	assert.Zero(t, payrolls)
}

func TestGenerate_InvalidInputTouchesNothing(t *testing.T) {
	s := newStore()
	seedMay2025(s)
	svc := newTestService(s)

	_, err := svc.Generate(context.Background(), payroll.GenerateRequest{Month: 0, Year: 2025, Mode: payroll.ModeHour})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	payrolls, _ := s.counts()
	assert.Zero(t, payrolls)
}

func TestGenerate_AttendanceFailureAbortsWholeRun(t *testing.T) {
	s := newStore()
	_, partial, _ := seedMay2025(s)
	s.attendanceErr[partial] = errors.New("attendance store unavailable")
	svc := newTestService(s)

	_, err := svc.Generate(context.Background(), payroll.GenerateRequest{Month: 5, Year: 2025})

	require.Error(t, err)
	payrolls, payslips := s.counts()
	assert.Zero(t, payrolls)
	assert.Zero(t, payslips)
}

func TestGenerate_PayslipWriteFailureRollsBack(t *testing.T) {
	s := newStore()
	seedMay2025(s)
	s.payslipErr = errors.New("disk full")
	svc := newTestService(s)

	_, err := svc.Generate(context.Background(), payroll.GenerateRequest{Month: 5, Year: 2025})

	require.ErrorContains(t, err, "disk full")
	payrolls, payslips := s.counts()
	assert.Zero(t, payrolls, "no PENDING or GENERATED payroll is left behind")
	assert.Zero(t, payslips)
}

func TestMarkPaid_CascadesToPayslips(t *testing.T) {
	s := newStore()
	seedMay2025(s)
	svc := newTestService(s)
	gen, err := svc.Generate(context.Background(), payroll.GenerateRequest{Month: 5, Year: 2025})
	require.NoError(t, err)

	// Act
	resp, err := svc.MarkPaid(context.Background(), gen.PayrollID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, payroll.StatusPaid, resp.Status)
	assert.NotNil(t, resp.PaidAt)
	for _, ps := range s.payslips {
		assert.Equal(t, payroll.StatusPaid, ps.Status)
	}
}

func TestMarkPaid_OnlyFromGenerated(t *testing.T) {
	s := newStore()
	seedMay2025(s)
	svc := newTestService(s)
	gen, err := svc.Generate(context.Background(), payroll.GenerateRequest{Month: 5, Year: 2025})
	require.NoError(t, err)
	_, err = svc.MarkPaid(context.Background(), gen.PayrollID)
	require.NoError(t, err)

	// Already paid
	_, err = svc.MarkPaid(context.Background(), gen.PayrollID)
	require.ErrorIs(t, err, payroll.ErrInvalidStatusTransition)
	assert.Contains(t, err.Error(), "PAID")

	// Pending
	pending, err := fakePayrollRepo{s}.Create(context.Background(), payroll.Payroll{Month: 6, Year: 2025, Mode: payroll.ModeHour, Status: payroll.StatusPending})
	require.NoError(t, err)
	_, err = svc.MarkPaid(context.Background(), pending.ID)
	require.ErrorIs(t, err, payroll.ErrInvalidStatusTransition)
	assert.Contains(t, err.Error(), "PENDING")

	still, _ := fakePayrollRepo{s}.GetByID(context.Background(), pending.ID)
	assert.Equal(t, payroll.StatusPending, still.Status)
}

func TestMarkPaid_UnknownPayroll(t *testing.T) {
	svc := newTestService(newStore())

	_, err := svc.MarkPaid(context.Background(), "0199a0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b")
	assert.ErrorIs(t, err, payroll.ErrPayrollNotFound)

	_, err = svc.MarkPaid(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, payroll.ErrPayrollNotFound)
}

func TestListAndGet(t *testing.T) {
	s := newStore()
	seedMay2025(s)
	svc := newTestService(s)
	gen, err := svc.Generate(context.Background(), payroll.GenerateRequest{Month: 5, Year: 2025})
	require.NoError(t, err)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, gen.PayrollID, list[0].ID)

	detail, err := svc.Get(context.Background(), gen.PayrollID)
	require.NoError(t, err)
	assert.Len(t, detail.Payslips, 3)
	assert.Equal(t, 5, detail.Payslips[0].Month)
}

func TestPayslipAccess(t *testing.T) {
	s := newStore()
	heavy, partial, _ := seedMay2025(s)
	svc := newTestService(s)
	_, err := svc.Generate(context.Background(), payroll.GenerateRequest{Month: 5, Year: 2025})
	require.NoError(t, err)

	self := user.WithIdentity(context.Background(), user.Identity{UserID: "u-hana", EmployeeID: &heavy, Role: user.RoleEmployee})
	manager := user.WithIdentity(context.Background(), user.Identity{UserID: "u-sm", Role: user.RoleSeniorManager})

	t.Run("employee reads own payslip", func(t *testing.T) {
		ps, err := svc.EmployeePayslip(self, payroll.PayslipLookupRequest{EmployeeID: heavy, Month: 5, Year: 2025})
		require.NoError(t, err)
		assertDecimal(t, "28800", ps.NetPay, "net")

		mine, err := svc.MyPayslips(self)
		require.NoError(t, err)
		assert.Len(t, mine, 1)
	})

	t.Run("employee cannot read a colleague", func(t *testing.T) {
		_, err := svc.EmployeePayslips(self, partial)
		assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
	})

	t.Run("token employee id is enough without a user link", func(t *testing.T) {
		unlinked := user.WithIdentity(context.Background(), user.Identity{UserID: "u-detached", EmployeeID: &heavy, Role: user.RoleEmployee})

		// Act
		slips, err := svc.EmployeePayslips(unlinked, heavy)

		// Assert
		require.NoError(t, err)
		assert.Len(t, slips, 1)
	})

	t.Run("malformed employee id is not found", func(t *testing.T) {
		// Act
		_, err := svc.EmployeePayslips(manager, partial+"-x")

		// Assert
		assert.ErrorIs(t, err, payroll.ErrPayslipNotFound)
	})

	t.Run("payroll viewers read anyone", func(t *testing.T) {
		slips, err := svc.EmployeePayslips(manager, partial)
		require.NoError(t, err)
		assert.Len(t, slips, 1)
	})

	t.Run("missing period", func(t *testing.T) {
		_, err := svc.EmployeePayslip(manager, payroll.PayslipLookupRequest{EmployeeID: partial, Month: 4, Year: 2025})
		assert.ErrorIs(t, err, payroll.ErrPayslipNotFound)
	})

	t.Run("no employee profile", func(t *testing.T) {
		ctx := user.WithIdentity(context.Background(), user.Identity{UserID: "u-admin", Role: user.RoleEmployee})
		_, err := svc.MyPayslips(ctx)
		assert.ErrorIs(t, err, user.ErrNoEmployeeProfile)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		_, err := svc.MyPayslips(context.Background())
		assert.ErrorIs(t, err, user.ErrInvalidToken)
	})
}
