package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/review-desk-api/internal/models"
	appErrors "github.com/noah-isme/review-desk-api/pkg/errors"
)

var (
	alice  = &models.Principal{AccountID: "alice", Role: models.RoleStudent}
	carol  = &models.Principal{AccountID: "carol", Role: models.RoleStudent}
	bob    = &models.Principal{AccountID: "bob", Role: models.RoleTeacher}
	admin  = &models.Principal{AdminKey: true}
	nobody *models.Principal
)

func TestGateDecisionTable(t *testing.T) {
	g := NewGate("superadmin")

	cases := []struct {
		name string
		p    *models.Principal
		op   Operation
		want Decision
	}{
		{"anonymous register", nobody, Operation{Action: ActionRegister}, Allow},
		{"anonymous login", nobody, Operation{Action: ActionLogin}, Allow},
		{"anonymous create", nobody, Operation{Action: ActionCreateWorkItem}, DenyUnauthenticated},
		{"student create", alice, Operation{Action: ActionCreateWorkItem}, Allow},
		{"teacher create", bob, Operation{Action: ActionCreateWorkItem}, DenyRole},
		{"owner read", alice, Operation{Action: ActionReadWorkItem, OwnerID: "alice"}, Allow},
		{"other student read", carol, Operation{Action: ActionReadWorkItem, OwnerID: "alice"}, DenyOwnership},
		{"teacher read", bob, Operation{Action: ActionReadWorkItem, OwnerID: "alice"}, Allow},
		{"student list own", alice, Operation{Action: ActionListOwnWorkItems}, Allow},
		{"teacher list own", bob, Operation{Action: ActionListOwnWorkItems}, Allow},
		{"teacher list student", bob, Operation{Action: ActionListStudentWorkItems}, Allow},
		{"student list student", alice, Operation{Action: ActionListStudentWorkItems}, DenyRole},
		{"owner edit", alice, Operation{Action: ActionEditWorkItem, OwnerID: "alice"}, Allow},
		{"non-owner edit", carol, Operation{Action: ActionEditWorkItem, OwnerID: "alice"}, DenyOwnership},
		{"teacher edit", bob, Operation{Action: ActionEditWorkItem, OwnerID: "alice"}, DenyRole},
		{"owner delete", alice, Operation{Action: ActionDeleteWorkItem, OwnerID: "alice"}, Allow},
		{"non-owner delete", carol, Operation{Action: ActionDeleteWorkItem, OwnerID: "alice"}, DenyOwnership},
		{"teacher set status", bob, Operation{Action: ActionSetWorkItemStatus, OwnerID: "alice"}, Allow},
		{"student set status", alice, Operation{Action: ActionSetWorkItemStatus, OwnerID: "alice"}, DenyRole},
		{"teacher list students", bob, Operation{Action: ActionListStudents}, Allow},
		{"student list students", alice, Operation{Action: ActionListStudents}, DenyRole},
		{"admin list all", admin, Operation{Action: ActionListAllWorkItems}, Allow},
		{"teacher list all", bob, Operation{Action: ActionListAllWorkItems}, DenyRole},
		{"admin export", admin, Operation{Action: ActionExportWorkItems}, Allow},
		{"admin accounts", admin, Operation{Action: ActionListAccounts}, Allow},
		{"admin create", admin, Operation{Action: ActionCreateWorkItem}, DenyRole},
		{"unknown action", bob, Operation{Action: Action("work_item.purge")}, DenyRole},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, g.Decide(tc.p, tc.op), "got %s", g.Decide(tc.p, tc.op))
		})
	}
}

func TestAuthorizeIsUniform(t *testing.T) {
	g := NewGate("k")

	assert.NoError(t, g.Authorize(alice, Operation{Action: ActionCreateWorkItem}))
	assert.ErrorIs(t, g.Authorize(bob, Operation{Action: ActionCreateWorkItem}), appErrors.ErrForbidden)
	assert.ErrorIs(t, g.Authorize(carol, Operation{Action: ActionEditWorkItem, OwnerID: "alice"}), appErrors.ErrForbidden)
	assert.ErrorIs(t, g.Authorize(nil, Operation{Action: ActionSetWorkItemStatus}), appErrors.ErrUnauthenticated)
}

func TestAdminKey(t *testing.T) {
	g := NewGate("superadmin")
	assert.True(t, g.CheckAdminKey("superadmin"))
	assert.False(t, g.CheckAdminKey("not_admin"))
	assert.False(t, g.CheckAdminKey(""))
	assert.NotNil(t, g.AdminPrincipal("superadmin"))
	assert.Nil(t, g.AdminPrincipal("nope"))

	disabled := NewGate("")
	assert.False(t, disabled.CheckAdminKey(""))
}
