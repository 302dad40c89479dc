package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	coreerrors "github.com/example/shiptrack/internal/core/errors"
	"github.com/example/shiptrack/internal/ctxutil"
	"github.com/example/shiptrack/internal/ports/secondary"
)

// Ensure mocks implement the interfaces
var (
	_ secondary.StateRepository    = (*mockStateRepository)(nil)
	_ secondary.AuditLogRepository = (*mockAuditLogRepository)(nil)
	_ secondary.LogWriter          = (*mockLogWriter)(nil)
	_ secondary.EmployeeRepository = (*mockEmployeeRepository)(nil)
	_ secondary.ReportWriter       = (*mockReportWriter)(nil)
	_ secondary.KeySource          = (*mockKeySource)(nil)
)

// mockStateRepository implements secondary.StateRepository in memory.
type mockStateRepository struct {
	mu      sync.Mutex
	values  map[string][]byte
	saveErr error
	saves   int
}

func newMockStateRepository() *mockStateRepository {
	return &mockStateRepository{values: make(map[string][]byte)}
}

func (m *mockStateRepository) Load(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *mockStateRepository) Save(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *mockStateRepository) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// mockAuditLogRepository implements secondary.AuditLogRepository for testing.
type mockAuditLogRepository struct {
	logs     []*secondary.AuditLogRecord
	pruned   []int
	pruneErr error
	listErr  error
}

func newMockAuditLogRepository() *mockAuditLogRepository {
	return &mockAuditLogRepository{}
}

func (m *mockAuditLogRepository) Create(ctx context.Context, log *secondary.AuditLogRecord) error {
	m.logs = append(m.logs, log)
	return nil
}

func (m *mockAuditLogRepository) GetByID(ctx context.Context, id string) (*secondary.AuditLogRecord, error) {
	for _, l := range m.logs {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, fmt.Errorf("audit log %s not found", id)
}

func (m *mockAuditLogRepository) List(ctx context.Context, filters secondary.AuditLogFilters) ([]*secondary.AuditLogRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*secondary.AuditLogRecord
	for i := len(m.logs) - 1; i >= 0; i-- {
		l := m.logs[i]
		if filters.ShipmentID != "" && l.ShipmentID != filters.ShipmentID {
			continue
		}
		if filters.Action != "" && l.Action != filters.Action {
			continue
		}
		if filters.ActorID != "" && l.ActorID != filters.ActorID {
			continue
		}
		result = append(result, l)
		if filters.Limit > 0 && len(result) == filters.Limit {
			break
		}
	}
	return result, nil
}

func (m *mockAuditLogRepository) PruneOlderThan(ctx context.Context, days int) (int, error) {
	if m.pruneErr != nil {
		return 0, m.pruneErr
	}
	m.pruned = append(m.pruned, days)
	return 2, nil
}

// mockLogWriter implements secondary.LogWriter and records every call.
type mockLogWriter struct {
	entries []loggedEntry
	err     error
}

type loggedEntry struct {
	op       string // create, update, delete
	action   string
	actor    string
	scope    secondary.LogScope
	field    string
	oldValue string
	newValue string
}

func (m *mockLogWriter) LogCreate(ctx context.Context, action string, scope secondary.LogScope) error {
	return m.add(ctx, loggedEntry{op: "create", action: action, scope: scope})
}

func (m *mockLogWriter) LogUpdate(ctx context.Context, action string, scope secondary.LogScope, fieldName, oldValue, newValue string) error {
	return m.add(ctx, loggedEntry{op: "update", action: action, scope: scope, field: fieldName, oldValue: oldValue, newValue: newValue})
}

func (m *mockLogWriter) LogDelete(ctx context.Context, action string, scope secondary.LogScope) error {
	return m.add(ctx, loggedEntry{op: "delete", action: action, scope: scope})
}

func (m *mockLogWriter) add(ctx context.Context, e loggedEntry) error {
	if m.err != nil {
		return m.err
	}
	e.actor = ctxutil.ActorFromContext(ctx)
	m.entries = append(m.entries, e)
	return nil
}

func (m *mockLogWriter) actions() []string {
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.action
	}
	return out
}

// mockEmployeeRepository implements secondary.EmployeeRepository for testing.
type mockEmployeeRepository struct {
	employees map[string]*secondary.EmployeeRecord
	failOn    string // Upsert fails when it reaches this username
}

func newMockEmployeeRepository() *mockEmployeeRepository {
	return &mockEmployeeRepository{employees: make(map[string]*secondary.EmployeeRecord)}
}

func (m *mockEmployeeRepository) Create(ctx context.Context, e *secondary.EmployeeRecord) error {
	if _, ok := m.employees[e.Username]; ok {
		return fmt.Errorf("%w: %s", coreerrors.ErrUserExists, e.Username)
	}
	copied := *e
	copied.CreatedAt = "2026-01-01T00:00:00Z"
	m.employees[e.Username] = &copied
	return nil
}

func (m *mockEmployeeRepository) GetByUsername(ctx context.Context, username string) (*secondary.EmployeeRecord, error) {
	if e, ok := m.employees[username]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, fmt.Errorf("%w: %s", coreerrors.ErrUserNotFound, username)
}

func (m *mockEmployeeRepository) Update(ctx context.Context, e *secondary.EmployeeRecord) error {
	existing, ok := m.employees[e.Username]
	if !ok {
		return fmt.Errorf("%w: %s", coreerrors.ErrUserNotFound, e.Username)
	}
	existing.Name = e.Name
	existing.Role = e.Role
	existing.Active = e.Active
	return nil
}

func (m *mockEmployeeRepository) Delete(ctx context.Context, username string) error {
	if _, ok := m.employees[username]; !ok {
		return fmt.Errorf("%w: %s", coreerrors.ErrUserNotFound, username)
	}
	delete(m.employees, username)
	return nil
}

func (m *mockEmployeeRepository) Upsert(ctx context.Context, employees []*secondary.EmployeeRecord) (int, int, error) {
	next := make(map[string]*secondary.EmployeeRecord, len(m.employees))
	for k, v := range m.employees {
		copied := *v
		next[k] = &copied
	}

	var created, updated int
	for _, e := range employees {
		if e.Username == m.failOn {
			return 0, 0, fmt.Errorf("failed to write %s", e.Username)
		}
		if existing, ok := next[e.Username]; ok {
			existing.Name, existing.Role, existing.Active = e.Name, e.Role, e.Active
			updated++
			continue
		}
		copied := *e
		next[e.Username] = &copied
		created++
	}
	m.employees = next
	return created, updated, nil
}

func (m *mockEmployeeRepository) List(ctx context.Context, filters secondary.EmployeeFilters) ([]*secondary.EmployeeRecord, error) {
	var result []*secondary.EmployeeRecord
	for _, e := range m.employees {
		if filters.Role != "" && e.Role != filters.Role {
			continue
		}
		if filters.ActiveOnly && !e.Active {
			continue
		}
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Username < result[j].Username })
	return result, nil
}

// mockReportWriter implements secondary.ReportWriter and captures the report.
type mockReportWriter struct {
	format string
	last   *secondary.Report
	err    error
}

func (m *mockReportWriter) Write(w io.Writer, report *secondary.Report) error {
	if m.err != nil {
		return m.err
	}
	m.last = report
	_, err := io.WriteString(w, m.format)
	return err
}

func (m *mockReportWriter) Format() string { return m.format }

// mockKeySource replays a fixed key sequence, then returns io.EOF. If
// onRead is set it runs before each key is delivered.
type mockKeySource struct {
	keys   []secondary.Key
	pos    int
	closed bool
	err    error
	onRead func(i int)
}

func keysFor(s string) []secondary.Key {
	var keys []secondary.Key
	for _, r := range s {
		switch r {
		case '\n':
			keys = append(keys, secondary.Key{Name: secondary.KeyEnter})
		case '\t':
			keys = append(keys, secondary.Key{Name: secondary.KeyTab})
		default:
			keys = append(keys, secondary.Key{Rune: r})
		}
	}
	return keys
}

func (m *mockKeySource) ReadKey(ctx context.Context) (secondary.Key, error) {
	if m.pos >= len(m.keys) {
		if m.err != nil {
			return secondary.Key{}, m.err
		}
		return secondary.Key{}, io.EOF
	}
	if m.onRead != nil {
		m.onRead(m.pos)
	}
	k := m.keys[m.pos]
	m.pos++
	return k, nil
}

func (m *mockKeySource) Close() error {
	m.closed = true
	return nil
}

var errBoom = errors.New("boom")
