package db

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// DemoEmployees are the two hardcoded operators the login switch accepts.
var DemoEmployees = []struct {
	Username string
	Name     string
	Role     string
}{
	{"admin", "Demo Admin", "admin"},
	{"user", "Demo Operator", "user"},
}

// SeedFixtures inserts the demo employees if they are missing. It is safe
// to run more than once.
func SeedFixtures(database *sql.DB) error {
	for _, e := range DemoEmployees {
		if _, err := database.Exec(
			"INSERT OR IGNORE INTO employees (id, username, name, role, active) VALUES (?, ?, ?, ?, 1)",
			uuid.NewString(), e.Username, e.Name, e.Role,
		); err != nil {
			return fmt.Errorf("seed employees: %w", err)
		}
	}
	return nil
}
