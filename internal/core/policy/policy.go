// Package policy is the single place where a role is mapped to what it may do.
package policy

import (
	"fmt"
	"strings"
)

// Role is the operator role. Exactly two exist.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole parses a role name case-insensitively.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	}
	return "", fmt.Errorf("unknown role %q (want admin or user)", s)
}

// Capability is an action gated by role.
type Capability string

const (
	CapScan            Capability = "scan"             // resolve shipments, add billings/items
	CapManageShipments Capability = "manage_shipments" // create/complete/cancel/clear
	CapDeleteShipment  Capability = "delete_shipment"
	CapViewAdmin       Capability = "view_admin" // list all shipments across operators
	CapManageEmployees Capability = "manage_employees"
	CapViewAudit       Capability = "view_audit"
	CapPruneAudit      Capability = "prune_audit"
	CapExport          Capability = "export"
)

var grants = map[Role]map[Capability]bool{
	RoleAdmin: {
		CapScan:            true,
		CapManageShipments: true,
		CapDeleteShipment:  true,
		CapViewAdmin:       true,
		CapManageEmployees: true,
		CapViewAudit:       true,
		CapPruneAudit:      true,
		CapExport:          true,
	},
	RoleUser: {
		CapScan:            true,
		CapManageShipments: true,
	},
}

// Can reports whether role holds capability.
func Can(role Role, capability Capability) bool {
	return grants[role][capability]
}

// Capabilities lists the capabilities granted to role, in a stable order.
func Capabilities(role Role) []Capability {
	order := []Capability{
		CapScan, CapManageShipments, CapDeleteShipment, CapViewAdmin,
		CapManageEmployees, CapViewAudit, CapPruneAudit, CapExport,
	}
	var out []Capability
	for _, c := range order {
		if Can(role, c) {
			out = append(out, c)
		}
	}
	return out
}
