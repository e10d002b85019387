package payroll

import "errors"

var (
	ErrPayrollNotFound         = errors.New("payroll not found")
	ErrPayrollAlreadyExists    = errors.New("payroll already exists for this period")
	ErrNoSalariedEmployees     = errors.New("no employees with a salary found")
	ErrInvalidStatusTransition = errors.New("invalid payroll status transition")
	ErrPayslipNotFound         = errors.New("payslip not found")
	ErrInvalidMode             = errors.New("invalid payroll mode")
	ErrInvalidDaysInMonth      = errors.New("days in month must be positive")
)
