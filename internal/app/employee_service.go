package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/example/shiptrack/internal/core/policy"
	"github.com/example/shiptrack/internal/ports/primary"
	"github.com/example/shiptrack/internal/ports/secondary"
)

// roster is the YAML document accepted by ImportRoster.
//
//	employees:
//	  - username: jdoe
//	    name: Jane Doe
//	    role: user
//	    active: false   # optional, defaults to true
type roster struct {
	Employees []rosterEntry `yaml:"employees"`
}

type rosterEntry struct {
	Username string `yaml:"username"`
	Name     string `yaml:"name"`
	Role     string `yaml:"role"`
	Active   *bool  `yaml:"active"`
}

// EmployeeServiceImpl implements the EmployeeService interface.
type EmployeeServiceImpl struct {
	employeeRepo secondary.EmployeeRepository
	logger       *zap.Logger
	newID        func() string
}

// NewEmployeeService creates a new EmployeeService with injected dependencies.
func NewEmployeeService(employeeRepo secondary.EmployeeRepository, logger *zap.Logger) *EmployeeServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		logger:       logger,
		newID:        uuid.NewString,
	}
}

// ListEmployees lists employees, optionally filtered by role.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filters primary.EmployeeFilters) ([]*primary.Employee, error) {
	role := ""
	if filters.Role != "" {
		r, err := policy.ParseRole(filters.Role)
		if err != nil {
			return nil, err
		}
		role = string(r)
	}

	records, err := s.employeeRepo.List(ctx, secondary.EmployeeFilters{Role: role})
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	employees := make([]*primary.Employee, len(records))
	for i, r := range records {
		employees[i] = s.recordToEmployee(r)
	}
	return employees, nil
}

// GetEmployee retrieves an employee by username.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, username string) (*primary.Employee, error) {
	record, err := s.employeeRepo.GetByUsername(ctx, normalizeUsername(username))
	if err != nil {
		return nil, err
	}
	return s.recordToEmployee(record), nil
}

// AddEmployee creates a new employee.
func (s *EmployeeServiceImpl) AddEmployee(ctx context.Context, req primary.AddEmployeeRequest) (*primary.Employee, error) {
	record, err := s.newRecord(req.Username, req.Name, req.Role, true)
	if err != nil {
		return nil, err
	}
	if err := s.employeeRepo.Create(ctx, record); err != nil {
		return nil, err
	}
	s.logger.Info("employee added", zap.String("username", record.Username), zap.String("role", record.Role))
	return s.GetEmployee(ctx, record.Username)
}

// RemoveEmployee deletes an employee by username.
func (s *EmployeeServiceImpl) RemoveEmployee(ctx context.Context, username string) error {
	username = normalizeUsername(username)
	if err := s.employeeRepo.Delete(ctx, username); err != nil {
		return err
	}
	s.logger.Info("employee removed", zap.String("username", username))
	return nil
}

// ImportRoster reads a YAML roster and upserts every entry. The whole
// roster is validated first and written in one transaction, so a failed
// import changes nothing.
func (s *EmployeeServiceImpl) ImportRoster(ctx context.Context, r io.Reader) (*primary.ImportRosterResponse, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc roster
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}

	records := make([]*secondary.EmployeeRecord, 0, len(doc.Employees))
	seen := make(map[string]bool)
	for i, e := range doc.Employees {
		active := e.Active == nil || *e.Active
		record, err := s.newRecord(e.Username, e.Name, e.Role, active)
		if err != nil {
			return nil, fmt.Errorf("roster entry %d: %w", i+1, err)
		}
		if seen[record.Username] {
			return nil, fmt.Errorf("roster entry %d: duplicate username %q", i+1, record.Username)
		}
		seen[record.Username] = true
		records = append(records, record)
	}

	created, updated, err := s.employeeRepo.Upsert(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("failed to import roster: %w", err)
	}
	resp := &primary.ImportRosterResponse{Created: created, Updated: updated}

	s.logger.Info("roster imported", zap.Int("created", resp.Created), zap.Int("updated", resp.Updated))
	return resp, nil
}

// Helper methods

func (s *EmployeeServiceImpl) newRecord(username, name, role string, active bool) (*secondary.EmployeeRecord, error) {
	username = normalizeUsername(username)
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if strings.ContainsAny(username, " \t") {
		return nil, fmt.Errorf("username %q must not contain whitespace", username)
	}
	r, err := policy.ParseRole(role)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = username
	}
	return &secondary.EmployeeRecord{
		ID:       s.newID(),
		Username: username,
		Name:     name,
		Role:     string(r),
		Active:   active,
	}, nil
}

func (s *EmployeeServiceImpl) recordToEmployee(r *secondary.EmployeeRecord) *primary.Employee {
	return &primary.Employee{
		ID:        r.ID,
		Username:  r.Username,
		Name:      r.Name,
		Role:      r.Role,
		Active:    r.Active,
		CreatedAt: r.CreatedAt,
	}
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Ensure EmployeeServiceImpl implements the interface
var _ primary.EmployeeService = (*EmployeeServiceImpl)(nil)
