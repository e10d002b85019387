package employee

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID        string
	UserID    *string
	FirstName string
	LastName  string
	Position  string
	Salary    *decimal.Decimal // nil means the employee is not on payroll
	ManagerID *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// Salaried reports whether the employee takes part in payroll runs.
func (e Employee) Salaried() bool {
	return e.Salary != nil
}
