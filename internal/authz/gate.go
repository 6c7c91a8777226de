// Package authz holds the single decision table that gates every operation by role, ownership
// or the static admin key.
package authz

import (
	"github.com/noah-isme/review-desk-api/internal/models"
	appErrors "github.com/noah-isme/review-desk-api/pkg/errors"
)

// Action names an operation subject to authorization.
type Action string

const (
	ActionRegister             Action = "register"
	ActionLogin                Action = "login"
	ActionCreateWorkItem       Action = "work_item.create"
	ActionReadWorkItem         Action = "work_item.read"
	ActionListOwnWorkItems     Action = "work_item.list_own"
	ActionListStudentWorkItems Action = "work_item.list_student"
	ActionListAllWorkItems     Action = "work_item.list_all"
	ActionExportWorkItems      Action = "work_item.export"
	ActionEditWorkItem         Action = "work_item.edit"
	ActionDeleteWorkItem       Action = "work_item.delete"
	ActionSetWorkItemStatus    Action = "work_item.set_status"
	ActionListStudents         Action = "account.list_students"
	ActionListAccounts         Action = "account.list_all"
)

// Operation describes what the caller wants to do. OwnerID is set for actions on an existing item.
type Operation struct {
	Action  Action
	OwnerID string
}

// Decision is the outcome of evaluating an operation.
type Decision int

const (
	Allow Decision = iota
	DenyUnauthenticated
	DenyRole
	DenyOwnership
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case DenyUnauthenticated:
		return "deny_unauthenticated"
	case DenyRole:
		return "deny_role"
	case DenyOwnership:
		return "deny_ownership"
	default:
		return "unknown"
	}
}

type rule struct {
	anonymous bool
	adminKey  bool
	roles     []models.Role
	// ownerOnly requires OwnerID == caller unless the caller's role is in ownerBypass.
	ownerOnly   bool
	ownerBypass []models.Role
}

var table = map[Action]rule{
	ActionRegister:             {anonymous: true},
	ActionLogin:                {anonymous: true},
	ActionCreateWorkItem:       {roles: []models.Role{models.RoleStudent}},
	ActionReadWorkItem:         {roles: []models.Role{models.RoleStudent, models.RoleTeacher}, ownerOnly: true, ownerBypass: []models.Role{models.RoleTeacher}},
	ActionListOwnWorkItems:     {roles: []models.Role{models.RoleStudent, models.RoleTeacher}},
	ActionListStudentWorkItems: {roles: []models.Role{models.RoleTeacher}},
	ActionListAllWorkItems:     {adminKey: true},
	ActionExportWorkItems:      {adminKey: true},
	ActionListAccounts:         {adminKey: true},
	ActionEditWorkItem:         {roles: []models.Role{models.RoleStudent}, ownerOnly: true},
	ActionDeleteWorkItem:       {roles: []models.Role{models.RoleStudent}, ownerOnly: true},
	ActionSetWorkItemStatus:    {roles: []models.Role{models.RoleTeacher}},
	ActionListStudents:         {roles: []models.Role{models.RoleTeacher}},
}

// Gate evaluates operations against the decision table.
type Gate struct {
	adminKey string
}

// NewGate builds a gate. An empty adminKey disables every admin-key operation.
func NewGate(adminKey string) *Gate {
	return &Gate{adminKey: adminKey}
}

// CheckAdminKey compares the presented key to the configured one as a plain string.
func (g *Gate) CheckAdminKey(presented string) bool {
	return g.adminKey != "" && presented == g.adminKey
}

// AdminPrincipal returns the principal for a caller holding the admin key, or nil.
func (g *Gate) AdminPrincipal(presented string) *models.Principal {
	if !g.CheckAdminKey(presented) {
		return nil
	}
	return &models.Principal{AdminKey: true}
}

// Decide evaluates op for principal p. A nil principal is anonymous. Unknown actions are denied.
func (g *Gate) Decide(p *models.Principal, op Operation) Decision {
	r, ok := table[op.Action]
	if !ok {
		return DenyRole
	}
	if r.anonymous {
		return Allow
	}
	if p == nil {
		return DenyUnauthenticated
	}
	if r.adminKey {
		if p.AdminKey {
			return Allow
		}
		return DenyRole
	}
	if p.AdminKey || !hasRole(r.roles, p.Role) {
		return DenyRole
	}
	if r.ownerOnly && op.OwnerID != p.AccountID && !hasRole(r.ownerBypass, p.Role) {
		return DenyOwnership
	}
	return Allow
}

// Authorize collapses any denial into a uniform error.
func (g *Gate) Authorize(p *models.Principal, op Operation) error {
	return DecisionError(g.Decide(p, op))
}

// DecisionError maps a decision to the error surfaced to callers.
func DecisionError(d Decision) error {
	switch d {
	case Allow:
		return nil
	case DenyUnauthenticated:
		return appErrors.ErrUnauthenticated
	default:
		return appErrors.ErrForbidden
	}
}

func hasRole(roles []models.Role, role models.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
