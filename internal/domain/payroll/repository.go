package payroll

import (
	"context"

	"github.com/shopspring/decimal"
)

type PayrollRepository interface {
	// Create inserts a payroll run. A second run for the same (month, year)
	// fails with ErrPayrollAlreadyExists.
	Create(ctx context.Context, p Payroll) (Payroll, error)
	GetByID(ctx context.Context, id string) (Payroll, error)
	GetByPeriod(ctx context.Context, month, year int) (Payroll, error)

	// List returns every run, newest first, with payslip counts.
	List(ctx context.Context) ([]Payroll, error)

	// Finalize marks a PENDING run GENERATED with its totals.
	Finalize(ctx context.Context, id string, totalEmployees int, totalPayout decimal.Decimal) error

	// UpdateStatus moves the run from one status to another. It fails with
	// ErrInvalidStatusTransition when the run is no longer in from.
	UpdateStatus(ctx context.Context, id string, from, to Status) error

	// Payslips
	CreatePayslips(ctx context.Context, payslips []Payslip) error
	UpdatePayslipsStatus(ctx context.Context, payrollID string, status Status) error
	ListPayslipsByPayroll(ctx context.Context, payrollID string) ([]Payslip, error)
	ListPayslipsByEmployee(ctx context.Context, employeeID string) ([]Payslip, error)
	GetPayslipByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (Payslip, error)
}
