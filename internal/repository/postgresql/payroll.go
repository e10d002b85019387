package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nexushr/hrms-backend-go/internal/domain/payroll"
	"github.com/nexushr/hrms-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payrollColumns = `p.id, p.month, p.year, p.mode, p.total_employees, p.total_payout, p.status,
	p.generated_at, p.paid_at, p.created_at, p.updated_at`

func scanPayroll(row pgx.Row, extra ...any) (payroll.Payroll, error) {
	var p payroll.Payroll
	dest := append([]any{
		&p.ID, &p.Month, &p.Year, &p.Mode, &p.TotalEmployees, &p.TotalPayout, &p.Status,
		&p.GeneratedAt, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt,
	}, extra...)
	err := row.Scan(dest...)
	return p, err
}

// ========== PAYROLLS ==========

func (r *payrollRepository) Create(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	if p.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return payroll.Payroll{}, fmt.Errorf("failed to generate payroll id: %w", err)
		}
		p.ID = id.String()
	}

	query := `
		INSERT INTO payrolls (id, month, year, mode, total_employees, total_payout, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING generated_at, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		p.ID, p.Month, p.Year, p.Mode, p.TotalEmployees, p.TotalPayout, p.Status,
	).Scan(&p.GeneratedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "uq_payrolls_month_year") {
			return payroll.Payroll{}, payroll.ErrPayrollAlreadyExists
		}
		return payroll.Payroll{}, fmt.Errorf("failed to create payroll: %w", err)
	}

	return p, nil
}

func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollColumns + `, (SELECT COUNT(*) FROM payslips s WHERE s.payroll_id = p.id)
		FROM payrolls p
		WHERE p.id = $1
	`

	var count int
	p, err := scanPayroll(q.QueryRow(ctx, query, id), &count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to get payroll %s: %w", id, err)
	}
	p.PayslipCount = count

	return p, nil
}

func (r *payrollRepository) GetByPeriod(ctx context.Context, month, year int) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollColumns + ` FROM payrolls p WHERE p.month = $1 AND p.year = $2`

	p, err := scanPayroll(q.QueryRow(ctx, query, month, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to get payroll for %d/%d: %w", month, year, err)
	}

	return p, nil
}

func (r *payrollRepository) List(ctx context.Context) ([]payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollColumns + `, COUNT(s.id)
		FROM payrolls p
		LEFT JOIN payslips s ON s.payroll_id = p.id
		GROUP BY p.id
		ORDER BY p.generated_at DESC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list payrolls: %w", err)
	}
	defer rows.Close()

	var payrolls []payroll.Payroll
	for rows.Next() {
		var count int
		p, err := scanPayroll(rows, &count)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll: %w", err)
		}
		p.PayslipCount = count
		payrolls = append(payrolls, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payrolls: %w", err)
	}

	return payrolls, nil
}

func (r *payrollRepository) Finalize(ctx context.Context, id string, totalEmployees int, totalPayout decimal.Decimal) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payrolls
		SET status = $1, total_employees = $2, total_payout = $3, generated_at = NOW(), updated_at = NOW()
		WHERE id = $4 AND status = $5
	`

	tag, err := q.Exec(ctx, query, payroll.StatusGenerated, totalEmployees, totalPayout, id, payroll.StatusPending)
	if err != nil {
		return fmt.Errorf("failed to finalize payroll: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: payroll %s is not PENDING", payroll.ErrInvalidStatusTransition, id)
	}

	return nil
}

func (r *payrollRepository) UpdateStatus(ctx context.Context, id string, from, to payroll.Status) error {
	q := GetQuerier(ctx, r.db)

	paidAt := "paid_at"
	if to == payroll.StatusPaid {
		paidAt = "NOW()"
	}
	query := `
		UPDATE payrolls
		SET status = $1, paid_at = ` + paidAt + `, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`

	tag, err := q.Exec(ctx, query, to, id, from)
	if err != nil {
		return fmt.Errorf("failed to update payroll status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: payroll %s is not %s", payroll.ErrInvalidStatusTransition, id, from)
	}

	return nil
}

// ========== PAYSLIPS ==========

const payslipColumns = `s.id, s.employee_id, s.payroll_id, s.base_salary, s.overtime_pay, s.deductions,
	s.taxes, s.bonuses, s.net_pay, s.days_present, s.total_hours, s.overtime_hours, s.remarks,
	s.status, s.created_at, e.first_name || ' ' || e.last_name, e.position, p.month, p.year`

const payslipFrom = `
	FROM payslips s
	JOIN employees e ON e.id = s.employee_id
	JOIN payrolls p ON p.id = s.payroll_id
`

func scanPayslip(row pgx.Row) (payroll.Payslip, error) {
	var s payroll.Payslip
	err := row.Scan(
		&s.ID, &s.EmployeeID, &s.PayrollID, &s.BaseSalary, &s.OvertimePay, &s.Deductions,
		&s.Taxes, &s.Bonuses, &s.NetPay, &s.DaysPresent, &s.TotalHours, &s.OvertimeHours, &s.Remarks,
		&s.Status, &s.CreatedAt, &s.EmployeeName, &s.EmployeePosition, &s.Month, &s.Year,
	)
	return s, err
}

// payslipChunk keeps multi-row inserts well under the 65535 bind parameter limit.
const payslipChunk = 500

// CreatePayslips inserts the payslips of a run with multi-row INSERTs.
func (r *payrollRepository) CreatePayslips(ctx context.Context, payslips []payroll.Payslip) error {
	for start := 0; start < len(payslips); start += payslipChunk {
		end := min(start+payslipChunk, len(payslips))
		if err := r.insertPayslips(ctx, payslips[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (r *payrollRepository) insertPayslips(ctx context.Context, payslips []payroll.Payslip) error {
	q := GetQuerier(ctx, r.db)

	const cols = 14
	valueStrings := make([]string, 0, len(payslips))
	valueArgs := make([]any, 0, len(payslips)*cols)

	for i, s := range payslips {
		if s.ID == "" {
			id, err := uuid.NewV7()
			if err != nil {
				return fmt.Errorf("failed to generate payslip id: %w", err)
			}
			s.ID = id.String()
		}

		placeholders := make([]string, cols)
		for c := range placeholders {
			placeholders[c] = fmt.Sprintf("$%d", i*cols+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ", ")+")")
		valueArgs = append(valueArgs,
			s.ID, s.EmployeeID, s.PayrollID,
			s.BaseSalary, s.OvertimePay, s.Deductions, s.Taxes, s.Bonuses, s.NetPay,
			s.DaysPresent, s.TotalHours, s.OvertimeHours, s.Remarks, s.Status,
		)
	}

	query := `
		INSERT INTO payslips (id, employee_id, payroll_id, base_salary, overtime_pay, deductions,
			taxes, bonuses, net_pay, days_present, total_hours, overtime_hours, remarks, status)
		VALUES ` + strings.Join(valueStrings, ", ")

	if _, err := q.Exec(ctx, query, valueArgs...); err != nil {
		if isUniqueViolation(err, "uq_payslips_employee_payroll") {
			return fmt.Errorf("%w: duplicate payslip in run", payroll.ErrPayrollAlreadyExists)
		}
		return fmt.Errorf("failed to create payslips: %w", err)
	}

	return nil
}

func (r *payrollRepository) UpdatePayslipsStatus(ctx context.Context, payrollID string, status payroll.Status) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `UPDATE payslips SET status = $1 WHERE payroll_id = $2`, status, payrollID)
	if err != nil {
		return fmt.Errorf("failed to update payslip status: %w", err)
	}

	return nil
}

func (r *payrollRepository) ListPayslipsByPayroll(ctx context.Context, payrollID string) ([]payroll.Payslip, error) {
	return r.listPayslips(ctx, `WHERE s.payroll_id = $1 ORDER BY e.first_name, e.last_name`, payrollID)
}

func (r *payrollRepository) ListPayslipsByEmployee(ctx context.Context, employeeID string) ([]payroll.Payslip, error) {
	return r.listPayslips(ctx, `WHERE s.employee_id = $1 ORDER BY p.year DESC, p.month DESC`, employeeID)
}

func (r *payrollRepository) listPayslips(ctx context.Context, clause string, args ...any) ([]payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+payslipColumns+payslipFrom+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslips: %w", err)
	}
	defer rows.Close()

	var payslips []payroll.Payslip
	for rows.Next() {
		s, err := scanPayslip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payslip: %w", err)
		}
		payslips = append(payslips, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payslips: %w", err)
	}

	return payslips, nil
}

func (r *payrollRepository) GetPayslipByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payslipColumns + payslipFrom + `WHERE s.employee_id = $1 AND p.month = $2 AND p.year = $3`

	s, err := scanPayslip(q.QueryRow(ctx, query, employeeID, month, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payslip{}, payroll.ErrPayslipNotFound
		}
		return payroll.Payslip{}, fmt.Errorf("failed to get payslip: %w", err)
	}

	return s, nil
}
