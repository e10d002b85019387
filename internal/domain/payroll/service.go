package payroll

import "context"

type PayrollService interface {
	// Generate computes and persists a run with one payslip per salaried employee.
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)

	// Preview runs the same computation as Generate and writes nothing.
	Preview(ctx context.Context, req GenerateRequest) (PreviewResponse, error)

	// MarkPaid moves a GENERATED run and all its payslips to PAID.
	MarkPaid(ctx context.Context, id string) (PayrollResponse, error)

	List(ctx context.Context) ([]PayrollResponse, error)
	Get(ctx context.Context, id string) (PayrollDetailResponse, error)

	// Payslips visible to the caller: their own, or any with payroll.view.
	MyPayslips(ctx context.Context) ([]PayslipResponse, error)
	EmployeePayslips(ctx context.Context, employeeID string) ([]PayslipResponse, error)
	EmployeePayslip(ctx context.Context, req PayslipLookupRequest) (PayslipResponse, error)
}
