package payroll

import (
	"time"

	"github.com/nexushr/hrms-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type GenerateRequest struct {
	Month int  `json:"month"`
	Year  int  `json:"year"`
	Mode  Mode `json:"mode"`
}

// Validate checks the period and defaults an empty mode to HOUR.
func (r *GenerateRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidMonth(r.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be between 1 and 12"})
	}
	if !validator.IsValidYear(r.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "year must be between 2000 and 2100"})
	}
	if r.Mode == "" {
		r.Mode = ModeHour
	}
	if !r.Mode.Valid() {
		errs = append(errs, validator.ValidationError{Field: "mode", Message: "mode must be HOUR or DAY"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PayslipLookupRequest struct {
	EmployeeID string
	Month      int
	Year       int
}

func (r *PayslipLookupRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if !validator.IsValidMonth(r.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be between 1 and 12"})
	}
	if !validator.IsValidYear(r.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "year must be between 2000 and 2100"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type GenerateResponse struct {
	PayrollID      string          `json:"payroll_id"`
	Month          int             `json:"month"`
	Year           int             `json:"year"`
	Mode           Mode            `json:"mode"`
	TotalEmployees int             `json:"total_employees"`
	TotalPayout    decimal.Decimal `json:"total_payout"`
}

type PreviewResponse struct {
	Month          int               `json:"month"`
	Year           int               `json:"year"`
	Mode           Mode              `json:"mode"`
	TotalEmployees int               `json:"total_employees"`
	TotalPayout    decimal.Decimal   `json:"total_payout"`
	Payslips       []PayslipResponse `json:"payslips"`
}

type PayslipResponse struct {
	ID               string          `json:"id,omitempty" csv:"-"`
	PayrollID        string          `json:"payroll_id,omitempty" csv:"-"`
	EmployeeID       string          `json:"employee_id" csv:"employee_id"`
	EmployeeName     string          `json:"employee_name" csv:"employee_name"`
	EmployeePosition string          `json:"employee_position,omitempty" csv:"position"`
	Month            int             `json:"month" csv:"month"`
	Year             int             `json:"year" csv:"year"`
	BaseSalary       decimal.Decimal `json:"base_salary" csv:"base_salary"`
	OvertimePay      decimal.Decimal `json:"overtime_pay" csv:"overtime_pay"`
	Deductions       decimal.Decimal `json:"deductions" csv:"deductions"`
	Taxes            decimal.Decimal `json:"taxes" csv:"taxes"`
	Bonuses          decimal.Decimal `json:"bonuses" csv:"bonuses"`
	NetPay           decimal.Decimal `json:"net_pay" csv:"net_pay"`
	DaysPresent      int             `json:"days_present" csv:"days_present"`
	TotalHours       decimal.Decimal `json:"total_hours" csv:"total_hours"`
	OvertimeHours    decimal.Decimal `json:"overtime_hours" csv:"overtime_hours"`
	Remarks          string          `json:"remarks" csv:"remarks"`
	Status           Status          `json:"status,omitempty" csv:"status"`
}

type PayrollResponse struct {
	ID             string          `json:"id"`
	Month          int             `json:"month"`
	Year           int             `json:"year"`
	Mode           Mode            `json:"mode"`
	TotalEmployees int             `json:"total_employees"`
	TotalPayout    decimal.Decimal `json:"total_payout"`
	Status         Status          `json:"status"`
	GeneratedAt    time.Time       `json:"generated_at"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	PayslipCount   int             `json:"payslip_count"`
}

type PayrollDetailResponse struct {
	PayrollResponse
	Payslips []PayslipResponse `json:"payslips"`
}

func ToPayrollResponse(p Payroll) PayrollResponse {
	return PayrollResponse{
		ID:             p.ID,
		Month:          p.Month,
		Year:           p.Year,
		Mode:           p.Mode,
		TotalEmployees: p.TotalEmployees,
		TotalPayout:    p.TotalPayout,
		Status:         p.Status,
		GeneratedAt:    p.GeneratedAt,
		PaidAt:         p.PaidAt,
		PayslipCount:   p.PayslipCount,
	}
}

func ToPayslipResponse(ps Payslip) PayslipResponse {
	resp := PayslipResponse{
		ID:            ps.ID,
		PayrollID:     ps.PayrollID,
		EmployeeID:    ps.EmployeeID,
		Month:         ps.Month,
		Year:          ps.Year,
		BaseSalary:    ps.BaseSalary,
		OvertimePay:   ps.OvertimePay,
		Deductions:    ps.Deductions,
		Taxes:         ps.Taxes,
		Bonuses:       ps.Bonuses,
		NetPay:        ps.NetPay,
		DaysPresent:   ps.DaysPresent,
		TotalHours:    ps.TotalHours,
		OvertimeHours: ps.OvertimeHours,
		Remarks:       ps.Remarks,
		Status:        ps.Status,
	}
	if ps.EmployeeName != nil {
		resp.EmployeeName = *ps.EmployeeName
	}
	if ps.EmployeePosition != nil {
		resp.EmployeePosition = *ps.EmployeePosition
	}
	return resp
}
