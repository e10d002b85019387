// Package export renders payslips as downloadable spreadsheets.
package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/nexushr/hrms-backend-go/internal/domain/payroll"
	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// FileName builds the attachment name, e.g. payslips-2025-05.csv.
func (f Format) FileName(month, year int) string {
	return fmt.Sprintf("payslips-%04d-%02d.%s", year, month, f)
}

// Payslips encodes the rows in the requested format.
func Payslips(format Format, rows []payroll.PayslipResponse) ([]byte, error) {
	switch format {
	case FormatCSV:
		return CSV(rows)
	case FormatXLSX:
		return XLSX(rows)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

func CSV(rows []payroll.PayslipResponse) ([]byte, error) {
	if rows == nil {
		rows = []payroll.PayslipResponse{}
	}
	out, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, fmt.Errorf("encode payslips csv: %w", err)
	}
	return out, nil
}

const sheetName = "Payslips"

var xlsxHeader = []interface{}{
	"Employee ID", "Employee", "Position", "Month", "Year",
	"Base Salary", "Overtime Pay", "Deductions", "Taxes", "Bonuses", "Net Pay",
	"Days Present", "Total Hours", "Overtime Hours", "Remarks", "Status",
}

func XLSX(rows []payroll.PayslipResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &xlsxHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, p := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		// Money stays numeric so the sheet can sum it.
		row := []interface{}{
			p.EmployeeID, p.EmployeeName, p.EmployeePosition, p.Month, p.Year,
			p.BaseSalary.InexactFloat64(), p.OvertimePay.InexactFloat64(),
			p.Deductions.InexactFloat64(), p.Taxes.InexactFloat64(),
			p.Bonuses.InexactFloat64(), p.NetPay.InexactFloat64(),
			p.DaysPresent, p.TotalHours.InexactFloat64(), p.OvertimeHours.InexactFloat64(),
			p.Remarks, string(p.Status),
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode payslips xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
