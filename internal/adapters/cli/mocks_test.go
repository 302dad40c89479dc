package cli

import (
	"context"
	"fmt"
	"io"

	coreerrors "github.com/example/shiptrack/internal/core/errors"
	"github.com/example/shiptrack/internal/ports/primary"
)

// mockShipmentService implements primary.ShipmentService for testing
type mockShipmentService struct {
	resolveFn func(ctx context.Context, code string) (*primary.ShipmentResolution, error)
	current   *primary.Shipment
	shipments []*primary.Shipment
	err       error

	confirmed   []primary.ConfirmShipmentRequest
	transitions []string
	deleted     []string
	cleared     bool
}

func (m *mockShipmentService) ResolveShipment(ctx context.Context, code string) (*primary.ShipmentResolution, error) {
	if m.resolveFn != nil {
		return m.resolveFn(ctx, code)
	}
	return &primary.ShipmentResolution{
		Kind:     primary.ResolutionNew,
		Shipment: &primary.Shipment{ID: code, Status: "PENDING", Staged: true},
	}, nil
}

func (m *mockShipmentService) ConfirmShipment(ctx context.Context, req primary.ConfirmShipmentRequest) (*primary.Shipment, error) {
	m.confirmed = append(m.confirmed, req)
	if m.err != nil {
		return nil, m.err
	}
	m.current = &primary.Shipment{ID: req.Code, Status: "PENDING", Name: req.Name}
	return m.current, nil
}

func (m *mockShipmentService) CurrentShipment(ctx context.Context) (*primary.Shipment, error) {
	if m.current == nil {
		return nil, coreerrors.ErrNoCurrentShipment
	}
	return m.current, nil
}

func (m *mockShipmentService) GetShipment(ctx context.Context, code string) (*primary.Shipment, error) {
	for _, s := range m.shipments {
		if s.ID == code {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", coreerrors.ErrShipmentNotFound, code)
}

func (m *mockShipmentService) ListShipments(ctx context.Context, filters primary.ShipmentFilters) ([]*primary.Shipment, error) {
	return m.shipments, m.err
}

func (m *mockShipmentService) CreateShipment(ctx context.Context, code string) error {
	return m.transition("create", code)
}

func (m *mockShipmentService) CompleteShipment(ctx context.Context, code string) error {
	return m.transition("complete", code)
}

func (m *mockShipmentService) CancelShipment(ctx context.Context, code string) error {
	return m.transition("cancel", code)
}

func (m *mockShipmentService) transition(op, code string) error {
	if m.err != nil {
		return m.err
	}
	m.transitions = append(m.transitions, op+":"+code)
	return nil
}

func (m *mockShipmentService) ClearShipment(ctx context.Context) error {
	if m.err != nil {
		return m.err
	}
	m.cleared = true
	return nil
}

func (m *mockShipmentService) DeleteShipment(ctx context.Context, code string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, code)
	return nil
}

func (m *mockShipmentService) ShipmentLink(code string) string {
	return "shiptrack://shipments?code=" + code
}

// mockBillingService implements primary.BillingService for testing
type mockBillingService struct {
	kind     string
	billings []*primary.Billing
	err      error

	confirmed []string
	completed []string
	activated []string
	removed   []string
}

func (m *mockBillingService) ResolveBilling(ctx context.Context, shipmentID, number string) (*primary.BillingResolution, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &primary.BillingResolution{
		Kind:       m.kind,
		ShipmentID: shipmentID,
		Billing:    &primary.Billing{ID: number, Status: "COMPLETED", Items: []*primary.Item{{ID: "ITEM-1"}}},
	}, nil
}

func (m *mockBillingService) ConfirmBilling(ctx context.Context, shipmentID, number string) (*primary.BillingResolution, error) {
	m.confirmed = append(m.confirmed, shipmentID+"/"+number)
	return &primary.BillingResolution{
		Kind:       m.kind,
		ShipmentID: shipmentID,
		Billing:    &primary.Billing{ID: number, Status: "SCANNING", Active: true},
	}, nil
}

func (m *mockBillingService) ActivateBilling(ctx context.Context, shipmentID, number string) error {
	m.activated = append(m.activated, shipmentID+"/"+number)
	return m.err
}

func (m *mockBillingService) CompleteBilling(ctx context.Context, shipmentID, number string) error {
	m.completed = append(m.completed, shipmentID+"/"+number)
	return m.err
}

func (m *mockBillingService) RemoveBilling(ctx context.Context, shipmentID, number string) error {
	m.removed = append(m.removed, shipmentID+"/"+number)
	return m.err
}

func (m *mockBillingService) ListBillings(ctx context.Context, shipmentID string) ([]*primary.Billing, error) {
	return m.billings, m.err
}

func (m *mockBillingService) ActiveBilling(ctx context.Context) (*primary.ActiveBillingRef, error) {
	return nil, nil
}

// mockItemService implements primary.ItemService for testing
type mockItemService struct {
	traces  []*primary.ItemTrace
	err     error
	removed []primary.RemoveItemRequest
}

func (m *mockItemService) ScanItem(ctx context.Context, code string) (*primary.ScanItemResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &primary.ScanItemResponse{ShipmentID: "SH-1", BillingID: "BILL000001", Item: &primary.Item{ID: code}, ItemCount: 3}, nil
}

func (m *mockItemService) RemoveItem(ctx context.Context, req primary.RemoveItemRequest) error {
	m.removed = append(m.removed, req)
	return m.err
}

func (m *mockItemService) TraceItem(ctx context.Context, code string) ([]*primary.ItemTrace, error) {
	return m.traces, m.err
}

// mockAuditService implements primary.AuditService for testing
type mockAuditService struct {
	entries []*primary.AuditEntry
	pruned  int
	err     error
}

func (m *mockAuditService) ListLogs(ctx context.Context, filters primary.AuditFilters) ([]*primary.AuditEntry, error) {
	return m.entries, m.err
}

func (m *mockAuditService) GetLog(ctx context.Context, id string) (*primary.AuditEntry, error) {
	return nil, m.err
}

func (m *mockAuditService) PruneLogs(ctx context.Context, olderThanDays int) (int, error) {
	return m.pruned, m.err
}

// mockEmployeeService implements primary.EmployeeService for testing
type mockEmployeeService struct {
	employees []*primary.Employee
	imported  string
	err       error
}

func (m *mockEmployeeService) ListEmployees(ctx context.Context, filters primary.EmployeeFilters) ([]*primary.Employee, error) {
	return m.employees, m.err
}

func (m *mockEmployeeService) GetEmployee(ctx context.Context, username string) (*primary.Employee, error) {
	return nil, m.err
}

func (m *mockEmployeeService) AddEmployee(ctx context.Context, req primary.AddEmployeeRequest) (*primary.Employee, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &primary.Employee{Username: req.Username, Role: req.Role, Active: true}, nil
}

func (m *mockEmployeeService) RemoveEmployee(ctx context.Context, username string) error {
	return m.err
}

func (m *mockEmployeeService) ImportRoster(ctx context.Context, r io.Reader) (*primary.ImportRosterResponse, error) {
	data, _ := io.ReadAll(r)
	m.imported = string(data)
	if m.err != nil {
		return nil, m.err
	}
	return &primary.ImportRosterResponse{Created: 2, Updated: 1}, nil
}

// mockAuthService implements primary.AuthService for testing
type mockAuthService struct {
	session *primary.Session
	err     error
}

func (m *mockAuthService) Login(ctx context.Context, username string) (*primary.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.session = &primary.Session{Username: username, Role: username}
	return m.session, nil
}

func (m *mockAuthService) Logout(ctx context.Context) error {
	m.session = nil
	return m.err
}

func (m *mockAuthService) CurrentSession(ctx context.Context) (*primary.Session, error) {
	if m.session == nil {
		return nil, coreerrors.ErrNotLoggedIn
	}
	return m.session, nil
}

func (m *mockAuthService) Authorize(ctx context.Context, capability string) (*primary.Session, error) {
	return m.CurrentSession(ctx)
}
