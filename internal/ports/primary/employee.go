package primary

import (
	"context"
	"io"
)

// EmployeeService defines the primary port for the demo employee directory.
type EmployeeService interface {
	// ListEmployees lists employees, optionally filtered by role.
	ListEmployees(ctx context.Context, filters EmployeeFilters) ([]*Employee, error)

	// GetEmployee retrieves an employee by username.
	GetEmployee(ctx context.Context, username string) (*Employee, error)

	// AddEmployee creates a new employee.
	AddEmployee(ctx context.Context, req AddEmployeeRequest) (*Employee, error)

	// RemoveEmployee deletes an employee by username.
	RemoveEmployee(ctx context.Context, username string) error

	// ImportRoster reads a YAML roster and upserts every entry.
	ImportRoster(ctx context.Context, r io.Reader) (*ImportRosterResponse, error)
}

// Employee represents an employee at the port boundary.
type Employee struct {
	ID        string
	Username  string
	Name      string
	Role      string
	Active    bool
	CreatedAt string
}

// AddEmployeeRequest contains parameters for creating an employee.
type AddEmployeeRequest struct {
	Username string
	Name     string
	Role     string
}

// EmployeeFilters contains filter options for querying employees.
type EmployeeFilters struct {
	Role string
}

// ImportRosterResponse summarises a roster import.
type ImportRosterResponse struct {
	Created int
	Updated int
}
