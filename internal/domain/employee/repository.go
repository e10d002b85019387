package employee

import "context"

// EmployeeRepository is read-only: employee records are maintained by HR workflows elsewhere.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByUserID(ctx context.Context, userID string) (Employee, error)

	// List returns every employee ordered by name.
	List(ctx context.Context) ([]Employee, error)

	// ListWithSalary returns every employee whose salary is set, ordered by id.
	ListWithSalary(ctx context.Context) ([]Employee, error)
}
