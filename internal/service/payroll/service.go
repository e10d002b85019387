package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nexushr/hrms-backend-go/internal/domain/attendance"
	"github.com/nexushr/hrms-backend-go/internal/domain/employee"
	"github.com/nexushr/hrms-backend-go/internal/domain/payroll"
	"github.com/nexushr/hrms-backend-go/internal/domain/user"
	"github.com/nexushr/hrms-backend-go/internal/pkg/database"
	"github.com/nexushr/hrms-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type PayrollServiceImpl struct {
	tx           database.Transactor
	payrollRepo  payroll.PayrollRepository
	employeeRepo employee.EmployeeRepository
	aggregator   *Aggregator
	calculator   Calculator
	workers      int
}

func NewPayrollService(
	tx database.Transactor,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	rates payroll.Rates,
	workers int,
) payroll.PayrollService {
	if workers < 1 {
		workers = 1
	}
	return &PayrollServiceImpl{
		tx:           tx,
		payrollRepo:  payrollRepo,
		employeeRepo: employeeRepo,
		aggregator:   NewAggregator(attendanceRepo),
		calculator:   NewCalculator(rates),
		workers:      workers,
	}
}

// run is the computed, not yet persisted, result of a payroll for one period.
type run struct {
	payslips    []payroll.Payslip
	totalPayout decimal.Decimal
}

// compute derives one payslip per salaried employee. Generate and Preview both
// go through here so a preview always matches what generation stores.
func (s *PayrollServiceImpl) compute(ctx context.Context, req payroll.GenerateRequest) (run, error) {
	employees, err := s.employeeRepo.ListWithSalary(ctx)
	if err != nil {
		return run{}, err
	}

	eligible := make([]employee.Employee, 0, len(employees))
	for _, emp := range employees {
		if emp.Salaried() {
			eligible = append(eligible, emp)
		}
	}
	if len(eligible) == 0 {
		return run{}, payroll.ErrNoSalariedEmployees
	}

	month := time.Month(req.Month)
	period := attendance.MonthHalfOpen(req.Year, month)
	if req.Mode == payroll.ModeDay {
		period = attendance.MonthInclusive(req.Year, month)
	}
	daysInMonth := attendance.DaysInMonth(req.Year, month)

	payslips := make([]payroll.Payslip, len(eligible))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, emp := range eligible {
		g.Go(func() error {
			summary, err := s.aggregator.Summarize(gctx, emp.ID, period)
			if err != nil {
				return err
			}
			pc, err := s.calculator.Compute(req.Mode, *emp.Salary, summary, daysInMonth)
			if err != nil {
				return fmt.Errorf("compute pay for employee %s: %w", emp.ID, err)
			}

			name, position := emp.FullName(), emp.Position
			payslips[i] = payroll.Payslip{
				EmployeeID:       emp.ID,
				BaseSalary:       pc.BaseSalary,
				OvertimePay:      pc.OvertimePay,
				Deductions:       pc.Deductions,
				Taxes:            pc.Taxes,
				Bonuses:          pc.Bonuses,
				NetPay:           pc.NetPay,
				DaysPresent:      summary.DaysPresent,
				TotalHours:       summary.TotalHours,
				OvertimeHours:    pc.OvertimeHours,
				Remarks:          remarks(req, summary, pc, daysInMonth),
				EmployeeName:     &name,
				EmployeePosition: &position,
				Month:            req.Month,
				Year:             req.Year,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return run{}, err
	}

	total := decimal.Zero
	for _, ps := range payslips {
		total = total.Add(ps.NetPay)
	}

	return run{payslips: payslips, totalPayout: total}, nil
}

func remarks(req payroll.GenerateRequest, summary payroll.AttendanceSummary, pc payroll.PayComponents, daysInMonth int) string {
	if req.Mode == payroll.ModeDay {
		return fmt.Sprintf("Daywise payroll generated for %d/%d (%d days present, %d absent)",
			req.Month, req.Year, summary.DaysPresent, daysInMonth-summary.DaysPresent)
	}
	return fmt.Sprintf("Payroll generated for %d/%d (%sh worked, %sh overtime)",
		req.Month, req.Year, summary.TotalHours.StringFixed(2), pc.OvertimeHours.StringFixed(2))
}

func (s *PayrollServiceImpl) Generate(ctx context.Context, req payroll.GenerateRequest) (payroll.GenerateResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.GenerateResponse{}, err
	}

	// Fast path only; the unique constraint on (month, year) is what actually guards.
	existing, err := s.payrollRepo.GetByPeriod(ctx, req.Month, req.Year)
	if err == nil {
		return payroll.GenerateResponse{}, alreadyExists(existing.ID, req)
	}
	if !errors.Is(err, payroll.ErrPayrollNotFound) {
		return payroll.GenerateResponse{}, err
	}

	r, err := s.compute(ctx, req)
	if err != nil {
		return payroll.GenerateResponse{}, err
	}

	var created payroll.Payroll
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		p, err := s.payrollRepo.Create(ctx, payroll.Payroll{
			Month:       req.Month,
			Year:        req.Year,
			Mode:        req.Mode,
			TotalPayout: decimal.Zero,
			Status:      payroll.StatusPending,
		})
		if err != nil {
			return err
		}

		for i := range r.payslips {
			r.payslips[i].PayrollID = p.ID
			r.payslips[i].Status = payroll.StatusGenerated
		}
		if err := s.payrollRepo.CreatePayslips(ctx, r.payslips); err != nil {
			return err
		}

		if err := s.payrollRepo.Finalize(ctx, p.ID, len(r.payslips), r.totalPayout); err != nil {
			return err
		}
		created = p
		return nil
	})
	if err != nil {
		if errors.Is(err, payroll.ErrPayrollAlreadyExists) {
			// Lost the race to a concurrent generation; report the winner.
			if winner, lookupErr := s.payrollRepo.GetByPeriod(ctx, req.Month, req.Year); lookupErr == nil {
				return payroll.GenerateResponse{}, alreadyExists(winner.ID, req)
			}
		}
		return payroll.GenerateResponse{}, err
	}

	slog.Info("payroll generated",
		"payroll_id", created.ID,
		"month", req.Month,
		"year", req.Year,
		"mode", req.Mode,
		"employees", len(r.payslips),
		"total_payout", r.totalPayout.String(),
	)

	return payroll.GenerateResponse{
		PayrollID:      created.ID,
		Month:          req.Month,
		Year:           req.Year,
		Mode:           req.Mode,
		TotalEmployees: len(r.payslips),
		TotalPayout:    r.totalPayout,
	}, nil
}

func alreadyExists(id string, req payroll.GenerateRequest) error {
	return fmt.Errorf("%w: payroll %s for %d/%d", payroll.ErrPayrollAlreadyExists, id, req.Month, req.Year)
}

func (s *PayrollServiceImpl) Preview(ctx context.Context, req payroll.GenerateRequest) (payroll.PreviewResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PreviewResponse{}, err
	}

	r, err := s.compute(ctx, req)
	if err != nil {
		return payroll.PreviewResponse{}, err
	}

	payslips := make([]payroll.PayslipResponse, 0, len(r.payslips))
	for _, ps := range r.payslips {
		payslips = append(payslips, payroll.ToPayslipResponse(ps))
	}

	return payroll.PreviewResponse{
		Month:          req.Month,
		Year:           req.Year,
		Mode:           req.Mode,
		TotalEmployees: len(r.payslips),
		TotalPayout:    r.totalPayout,
		Payslips:       payslips,
	}, nil
}

func (s *PayrollServiceImpl) MarkPaid(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	if !validator.IsValidUUID(id) {
		return payroll.PayrollResponse{}, payroll.ErrPayrollNotFound
	}

	var paid payroll.Payroll
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		p, err := s.payrollRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !p.Status.CanTransitionTo(payroll.StatusPaid) {
			return fmt.Errorf("%w: payroll is %s, only %s payrolls can be paid",
				payroll.ErrInvalidStatusTransition, p.Status, payroll.StatusGenerated)
		}

		if err := s.payrollRepo.UpdateStatus(ctx, id, payroll.StatusGenerated, payroll.StatusPaid); err != nil {
			return err
		}
		if err := s.payrollRepo.UpdatePayslipsStatus(ctx, id, payroll.StatusPaid); err != nil {
			return err
		}

		paid, err = s.payrollRepo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	slog.Info("payroll marked paid", "payroll_id", id, "month", paid.Month, "year", paid.Year)

	return payroll.ToPayrollResponse(paid), nil
}

func (s *PayrollServiceImpl) List(ctx context.Context) ([]payroll.PayrollResponse, error) {
	payrolls, err := s.payrollRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]payroll.PayrollResponse, 0, len(payrolls))
	for _, p := range payrolls {
		resp = append(resp, payroll.ToPayrollResponse(p))
	}
	return resp, nil
}

func (s *PayrollServiceImpl) Get(ctx context.Context, id string) (payroll.PayrollDetailResponse, error) {
	if !validator.IsValidUUID(id) {
		return payroll.PayrollDetailResponse{}, payroll.ErrPayrollNotFound
	}

	p, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayrollDetailResponse{}, err
	}
	payslips, err := s.payrollRepo.ListPayslipsByPayroll(ctx, id)
	if err != nil {
		return payroll.PayrollDetailResponse{}, err
	}

	return payroll.PayrollDetailResponse{
		PayrollResponse: payroll.ToPayrollResponse(p),
		Payslips:        toPayslipResponses(payslips),
	}, nil
}

// ========== PAYSLIPS ==========

func (s *PayrollServiceImpl) MyPayslips(ctx context.Context) ([]payroll.PayslipResponse, error) {
	caller, err := user.IdentityFromContext(ctx)
	if err != nil {
		return nil, err
	}
	employeeID, err := s.ownEmployeeID(ctx, caller)
	if err != nil {
		return nil, err
	}

	payslips, err := s.payrollRepo.ListPayslipsByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return toPayslipResponses(payslips), nil
}

func (s *PayrollServiceImpl) EmployeePayslips(ctx context.Context, employeeID string) ([]payroll.PayslipResponse, error) {
	if err := s.authorizePayslipAccess(ctx, employeeID); err != nil {
		return nil, err
	}

	payslips, err := s.payrollRepo.ListPayslipsByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return toPayslipResponses(payslips), nil
}

func (s *PayrollServiceImpl) EmployeePayslip(ctx context.Context, req payroll.PayslipLookupRequest) (payroll.PayslipResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayslipResponse{}, err
	}
	if err := s.authorizePayslipAccess(ctx, req.EmployeeID); err != nil {
		return payroll.PayslipResponse{}, err
	}

	ps, err := s.payrollRepo.GetPayslipByEmployeePeriod(ctx, req.EmployeeID, req.Month, req.Year)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}
	return payroll.ToPayslipResponse(ps), nil
}

// authorizePayslipAccess allows payroll viewers and the employee themselves.
func (s *PayrollServiceImpl) authorizePayslipAccess(ctx context.Context, employeeID string) error {
	caller, err := user.IdentityFromContext(ctx)
	if err != nil {
		return err
	}
	if !validator.IsValidUUID(employeeID) {
		return payroll.ErrPayslipNotFound
	}
	if caller.Can(user.PermissionPayrollView) || caller.IsEmployee(employeeID) {
		return nil
	}

	own, err := s.ownEmployeeID(ctx, caller)
	if err != nil {
		if errors.Is(err, user.ErrNoEmployeeProfile) {
			return user.ErrInsufficientPermissions
		}
		return err
	}
	if own != employeeID {
		return user.ErrInsufficientPermissions
	}
	return nil
}

// ownEmployeeID prefers the employee id carried by the token and falls back to the user link.
func (s *PayrollServiceImpl) ownEmployeeID(ctx context.Context, caller user.Identity) (string, error) {
	if caller.EmployeeID != nil && *caller.EmployeeID != "" {
		return *caller.EmployeeID, nil
	}
	emp, err := s.employeeRepo.GetByUserID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return "", user.ErrNoEmployeeProfile
		}
		return "", err
	}
	return emp.ID, nil
}

func toPayslipResponses(payslips []payroll.Payslip) []payroll.PayslipResponse {
	resp := make([]payroll.PayslipResponse, 0, len(payslips))
	for _, ps := range payslips {
		resp = append(resp, payroll.ToPayslipResponse(ps))
	}
	return resp
}
