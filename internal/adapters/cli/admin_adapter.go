package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/shiptrack/internal/ports/primary"
)

// AuditAdapter is a thin adapter that translates CLI operations to AuditService calls.
type AuditAdapter struct {
	service primary.AuditService
	out     io.Writer
}

// NewAuditAdapter creates a new AuditAdapter with the given service.
func NewAuditAdapter(service primary.AuditService, out io.Writer) *AuditAdapter {
	return &AuditAdapter{service: service, out: out}
}

// List prints audit entries, newest first.
func (a *AuditAdapter) List(ctx context.Context, filters primary.AuditFilters) error {
	entries, err := a.service.ListLogs(ctx, filters)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No audit entries found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-20s %-8s %-24s %-9s %-14s %s\n", "TIMESTAMP", "ACTOR", "ACTION", "ENTITY", "ID", "CHANGE")
	fmt.Fprintln(a.out, rule)
	for _, e := range entries {
		change := ""
		if e.FieldName != "" {
			change = fmt.Sprintf("%s: %s → %s", e.FieldName, orDash(e.OldValue), orDash(e.NewValue))
		}
		fmt.Fprintf(a.out, "%-20s %-8s %-24s %-9s %-14s %s\n", e.Timestamp, orDash(e.ActorID), e.Action, e.EntityType, e.EntityID, change)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Prune deletes entries older than days.
func (a *AuditAdapter) Prune(ctx context.Context, days int) error {
	count, err := a.service.PruneLogs(ctx, days)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Pruned %d audit entr%s older than %d day(s)\n", okMark, count, plural(count, "y", "ies"), days)
	return nil
}

// EmployeeAdapter is a thin adapter that translates CLI operations to EmployeeService calls.
type EmployeeAdapter struct {
	service primary.EmployeeService
	out     io.Writer
}

// NewEmployeeAdapter creates a new EmployeeAdapter with the given service.
func NewEmployeeAdapter(service primary.EmployeeService, out io.Writer) *EmployeeAdapter {
	return &EmployeeAdapter{service: service, out: out}
}

// List prints employees, optionally filtered by role.
func (a *EmployeeAdapter) List(ctx context.Context, role string) error {
	employees, err := a.service.ListEmployees(ctx, primary.EmployeeFilters{Role: role})
	if err != nil {
		return err
	}

	if len(employees) == 0 {
		fmt.Fprintln(a.out, "No employees found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-16s %-24s %-6s %s\n", "USERNAME", "NAME", "ROLE", "ACTIVE")
	fmt.Fprintln(a.out, rule)
	for _, e := range employees {
		active := "yes"
		if !e.Active {
			active = "no"
		}
		fmt.Fprintf(a.out, "%-16s %-24s %-6s %s\n", e.Username, e.Name, e.Role, active)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Add creates an employee.
func (a *EmployeeAdapter) Add(ctx context.Context, req primary.AddEmployeeRequest) error {
	emp, err := a.service.AddEmployee(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Added employee %s (%s)\n", okMark, emp.Username, emp.Role)
	return nil
}

// Remove deletes an employee.
func (a *EmployeeAdapter) Remove(ctx context.Context, username string) error {
	if err := a.service.RemoveEmployee(ctx, username); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Removed employee %s\n", okMark, username)
	return nil
}

// Import upserts every employee of a YAML roster.
func (a *EmployeeAdapter) Import(ctx context.Context, r io.Reader) error {
	resp, err := a.service.ImportRoster(ctx, r)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Roster imported: %d created, %d updated\n", okMark, resp.Created, resp.Updated)
	return nil
}

// SessionAdapter is a thin adapter that translates CLI operations to AuthService calls.
type SessionAdapter struct {
	service primary.AuthService
	out     io.Writer
}

// NewSessionAdapter creates a new SessionAdapter with the given service.
func NewSessionAdapter(service primary.AuthService, out io.Writer) *SessionAdapter {
	return &SessionAdapter{service: service, out: out}
}

// Login switches the session to username.
func (a *SessionAdapter) Login(ctx context.Context, username string) error {
	sess, err := a.service.Login(ctx, username)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Logged in as %s (%s)\n", okMark, sess.Username, sess.Role)
	return nil
}

// Logout ends the session.
func (a *SessionAdapter) Logout(ctx context.Context) error {
	if err := a.service.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Logged out\n", okMark)
	return nil
}

// WhoAmI prints the current session and what it may do.
func (a *SessionAdapter) WhoAmI(ctx context.Context) error {
	sess, err := a.service.CurrentSession(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "User:         %s\n", sess.Username)
	fmt.Fprintf(a.out, "Role:         %s\n", sess.Role)
	fmt.Fprintf(a.out, "Since:        %s\n", sess.LoggedInAt)
	fmt.Fprintf(a.out, "Capabilities: %v\n", sess.Capabilities)
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
