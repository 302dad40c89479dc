package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	coreerrors "github.com/example/shiptrack/internal/core/errors"
	"github.com/example/shiptrack/internal/ports/secondary"
)

// EmployeeRepository implements secondary.EmployeeRepository with SQLite.
type EmployeeRepository struct {
	db *sql.DB
}

// NewEmployeeRepository creates a new SQLite employee repository.
func NewEmployeeRepository(db *sql.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// Create persists a new employee.
func (r *EmployeeRepository) Create(ctx context.Context, employee *secondary.EmployeeRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO employees (id, username, name, role, active) VALUES (?, ?, ?, ?, ?)",
		employee.ID,
		employee.Username,
		employee.Name,
		employee.Role,
		employee.Active,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", coreerrors.ErrUserExists, employee.Username)
	}
	if err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}
	return nil
}

// GetByUsername retrieves an employee by username.
func (r *EmployeeRepository) GetByUsername(ctx context.Context, username string) (*secondary.EmployeeRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, username, name, role, active, created_at, updated_at FROM employees WHERE username = ?",
		username,
	)
	record, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", coreerrors.ErrUserNotFound, username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return record, nil
}

// Update updates an existing employee's name, role and active flag.
func (r *EmployeeRepository) Update(ctx context.Context, employee *secondary.EmployeeRecord) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE employees SET name = ?, role = ?, active = ?, updated_at = CURRENT_TIMESTAMP WHERE username = ?",
		employee.Name,
		employee.Role,
		employee.Active,
		employee.Username,
	)
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %s", coreerrors.ErrUserNotFound, employee.Username)
	}
	return nil
}

// Delete removes an employee by username.
func (r *EmployeeRepository) Delete(ctx context.Context, username string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM employees WHERE username = ?", username)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %s", coreerrors.ErrUserNotFound, username)
	}
	return nil
}

// List retrieves employees matching the given filters, ordered by username.
func (r *EmployeeRepository) List(ctx context.Context, filters secondary.EmployeeFilters) ([]*secondary.EmployeeRecord, error) {
	query := "SELECT id, username, name, role, active, created_at, updated_at FROM employees WHERE 1=1"
	args := []any{}

	if filters.Role != "" {
		query += " AND role = ?"
		args = append(args, filters.Role)
	}

	if filters.ActiveOnly {
		query += " AND active = 1"
	}

	query += " ORDER BY username"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []*secondary.EmployeeRecord
	for rows.Next() {
		record, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	return employees, nil
}

// Upsert creates or updates every employee in one transaction.
func (r *EmployeeRepository) Upsert(ctx context.Context, employees []*secondary.EmployeeRecord) (created, updated int, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, e := range employees {
		result, err := tx.ExecContext(ctx,
			"UPDATE employees SET name = ?, role = ?, active = ?, updated_at = CURRENT_TIMESTAMP WHERE username = ?",
			e.Name, e.Role, e.Active, e.Username,
		)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to update employee %s: %w", e.Username, err)
		}
		if rows, _ := result.RowsAffected(); rows > 0 {
			updated++
			continue
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO employees (id, username, name, role, active) VALUES (?, ?, ?, ?, ?)",
			e.ID, e.Username, e.Name, e.Role, e.Active,
		)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to create employee %s: %w", e.Username, err)
		}
		created++
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit employees: %w", err)
	}
	return created, updated, nil
}

func scanEmployee(row rowScanner) (*secondary.EmployeeRecord, error) {
	var createdAt, updatedAt time.Time

	record := &secondary.EmployeeRecord{}
	err := row.Scan(&record.ID,
		&record.Username,
		&record.Name,
		&record.Role,
		&record.Active,
		&createdAt,
		&updatedAt)
	if err != nil {
		return nil, err
	}
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)
	return record, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// Ensure EmployeeRepository implements the interface
var _ secondary.EmployeeRepository = (*EmployeeRepository)(nil)
