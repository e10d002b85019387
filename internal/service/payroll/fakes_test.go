package payroll

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nexushr/hrms-backend-go/internal/domain/attendance"
	"github.com/nexushr/hrms-backend-go/internal/domain/employee"
	"github.com/nexushr/hrms-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// store is an in-memory stand-in for the payroll tables, with the same unique
// constraints the database enforces.
type store struct {
	mu         sync.Mutex
	employees  []employee.Employee
	attendance map[string][]attendance.Attendance
	payrolls   map[string]payroll.Payroll
	payslips   []payroll.Payslip

	attendanceErr map[string]error // per employee id
	payslipErr    error
	hidePeriod    bool // GetByPeriod always misses, to exercise the constraint path
}

func newStore() *store {
	return &store{
		attendance:    map[string][]attendance.Attendance{},
		payrolls:      map[string]payroll.Payroll{},
		attendanceErr: map[string]error{},
	}
}

func (s *store) addEmployee(first string, salary *decimal.Decimal) employee.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.Must(uuid.NewV7()).String()
	userID := uuid.Must(uuid.NewV7()).String()
	emp := employee.Employee{ID: id, UserID: &userID, FirstName: first, LastName: "Tester", Position: "Engineer", Salary: salary}
	s.employees = append(s.employees, emp)
	return emp
}

func (s *store) addAttendance(employeeID string, date time.Time, sessions attendance.Sessions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := attendance.Attendance{
		ID:         uuid.Must(uuid.NewV7()).String(),
		EmployeeID: employeeID,
		Date:       date,
		Sessions:   sessions,
		Status:     attendance.StatusPresent,
	}
	a.Recompute(decimal.NewFromInt(8))
	s.attendance[employeeID] = append(s.attendance[employeeID], a)
}

func (s *store) counts() (payrolls, payslips int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payrolls), len(s.payslips)
}

func (s *store) snapshot() func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	payrolls := make(map[string]payroll.Payroll, len(s.payrolls))
	for k, v := range s.payrolls {
		payrolls[k] = v
	}
	payslips := append([]payroll.Payslip(nil), s.payslips...)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.payrolls = payrolls
		s.payslips = payslips
	}
}

// fakeTransactor serializes transactions and restores the store when fn fails.
type fakeTransactor struct {
	mu    sync.Mutex
	store *store
}

func (t *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	restore := t.store.snapshot()
	if err := fn(ctx); err != nil {
		restore()
		return err
	}
	return nil
}

// ---- employee.EmployeeRepository ----

type fakeEmployeeRepo struct{ *store }

func (r fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r fakeEmployeeRepo) GetByUserID(_ context.Context, userID string) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.employees {
		if e.UserID != nil && *e.UserID == userID {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r fakeEmployeeRepo) List(_ context.Context) ([]employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]employee.Employee(nil), r.employees...), nil
}

func (r fakeEmployeeRepo) ListWithSalary(_ context.Context) ([]employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []employee.Employee
	for _, e := range r.employees {
		if e.Salary != nil {
			out = append(out, e)
		}
	}
	return out, nil
}

// ---- attendance.AttendanceRepository (read side only) ----

type fakeAttendanceRepo struct {
	attendance.AttendanceRepository
	*store
}

func (r fakeAttendanceRepo) ListByEmployee(_ context.Context, employeeID string, dr attendance.DateRange) ([]attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.attendanceErr[employeeID]; err != nil {
		return nil, err
	}
	var out []attendance.Attendance
	for _, a := range r.attendance[employeeID] {
		if dr.Contains(a.Date) {
			out = append(out, a)
		}
	}
	return out, nil
}

// ---- payroll.PayrollRepository ----

type fakePayrollRepo struct{ *store }

func (r fakePayrollRepo) Create(_ context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.payrolls {
		if existing.Month == p.Month && existing.Year == p.Year {
			return payroll.Payroll{}, payroll.ErrPayrollAlreadyExists
		}
	}
	p.ID = uuid.Must(uuid.NewV7()).String()
	p.GeneratedAt = time.Now()
	r.payrolls[p.ID] = p
	return p, nil
}

func (r fakePayrollRepo) GetByID(_ context.Context, id string) (payroll.Payroll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payrolls[id]
	if !ok {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	for _, ps := range r.payslips {
		if ps.PayrollID == id {
			p.PayslipCount++
		}
	}
	return p, nil
}

func (r fakePayrollRepo) GetByPeriod(_ context.Context, month, year int) (payroll.Payroll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hidePeriod {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	for _, p := range r.payrolls {
		if p.Month == month && p.Year == year {
			return p, nil
		}
	}
	return payroll.Payroll{}, payroll.ErrPayrollNotFound
}

func (r fakePayrollRepo) List(_ context.Context) ([]payroll.Payroll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []payroll.Payroll
	for _, p := range r.payrolls {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GeneratedAt.After(out[j].GeneratedAt) })
	return out, nil
}

func (r fakePayrollRepo) Finalize(_ context.Context, id string, totalEmployees int, totalPayout decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payrolls[id]
	if !ok || p.Status != payroll.StatusPending {
		return payroll.ErrInvalidStatusTransition
	}
	p.Status = payroll.StatusGenerated
	p.TotalEmployees = totalEmployees
	p.TotalPayout = totalPayout
	r.payrolls[id] = p
	return nil
}

func (r fakePayrollRepo) UpdateStatus(_ context.Context, id string, from, to payroll.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payrolls[id]
	if !ok || p.Status != from {
		return fmt.Errorf("%w: payroll %s is not %s", payroll.ErrInvalidStatusTransition, id, from)
	}
	p.Status = to
	if to == payroll.StatusPaid {
		now := time.Now()
		p.PaidAt = &now
	}
	r.payrolls[id] = p
	return nil
}

func (r fakePayrollRepo) CreatePayslips(_ context.Context, payslips []payroll.Payslip) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.payslipErr != nil {
		return r.payslipErr
	}
	for _, ps := range payslips {
		for _, existing := range r.payslips {
			if existing.EmployeeID == ps.EmployeeID && existing.PayrollID == ps.PayrollID {
				return errors.New("duplicate payslip")
			}
		}
		ps.ID = uuid.Must(uuid.NewV7()).String()
		r.payslips = append(r.payslips, ps)
	}
	return nil
}

func (r fakePayrollRepo) UpdatePayslipsStatus(_ context.Context, payrollID string, status payroll.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.payslips {
		if r.payslips[i].PayrollID == payrollID {
			r.payslips[i].Status = status
		}
	}
	return nil
}

func (r fakePayrollRepo) ListPayslipsByPayroll(_ context.Context, payrollID string) ([]payroll.Payslip, error) {
	return r.filterPayslips(func(ps payroll.Payslip) bool { return ps.PayrollID == payrollID }), nil
}

func (r fakePayrollRepo) ListPayslipsByEmployee(_ context.Context, employeeID string) ([]payroll.Payslip, error) {
	return r.filterPayslips(func(ps payroll.Payslip) bool { return ps.EmployeeID == employeeID }), nil
}

func (r fakePayrollRepo) GetPayslipByEmployeePeriod(_ context.Context, employeeID string, month, year int) (payroll.Payslip, error) {
	for _, ps := range r.filterPayslips(func(ps payroll.Payslip) bool { return ps.EmployeeID == employeeID }) {
		if ps.Month == month && ps.Year == year {
			return ps, nil
		}
	}
	return payroll.Payslip{}, payroll.ErrPayslipNotFound
}

func (r fakePayrollRepo) filterPayslips(keep func(payroll.Payslip) bool) []payroll.Payslip {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []payroll.Payslip
	for _, ps := range r.payslips {
		if !keep(ps) {
			continue
		}
		p := r.payrolls[ps.PayrollID]
		ps.Month, ps.Year = p.Month, p.Year
		out = append(out, ps)
	}
	return out
}

func newTestService(s *store) *PayrollServiceImpl {
	svc := NewPayrollService(
		&fakeTransactor{store: s},
		fakePayrollRepo{s},
		fakeEmployeeRepo{s},
		fakeAttendanceRepo{store: s},
		payroll.DefaultRates(),
		4,
	)
	return svc.(*PayrollServiceImpl)
}
