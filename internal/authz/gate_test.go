package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mtran/volunteer-hub/internal/model"
)

func rolePtr(r model.Role) *model.Role { return &r }

func TestEvaluateLoadingWins(t *testing.T) {
	assert.Equal(t, Pending, Evaluate(true, false, nil, RequireAdmin))
	assert.Equal(t, Pending, Evaluate(true, true, rolePtr(model.RoleAdmin), RequireAdmin))
}

func TestEvaluateUnauthenticated(t *testing.T) {
	for _, req := range []Requirement{RequireNone, RequireAuthenticated, RequireVolunteer, RequireOrganizer, RequireAdmin} {
		assert.Equal(t, Unauthenticated, Evaluate(false, false, nil, req))
	}
}

func TestEvaluateUnresolvedProfile(t *testing.T) {
	// Authenticated but no role yet: still resolving.
	assert.Equal(t, Pending, Evaluate(false, true, nil, RequireAuthenticated))
}

func TestEvaluateRoleTable(t *testing.T) {
	cases := []struct {
		name string
		role model.Role
		req  Requirement
		want Decision
	}{
		{"admin/none", model.RoleAdmin, RequireNone, Allowed},
		{"admin/authenticated", model.RoleAdmin, RequireAuthenticated, Allowed},
		{"admin/volunteer", model.RoleAdmin, RequireVolunteer, Forbidden},
		{"admin/organizer", model.RoleAdmin, RequireOrganizer, Allowed},
		{"admin/admin", model.RoleAdmin, RequireAdmin, Allowed},

		{"organizer/none", model.RoleOrganizer, RequireNone, Allowed},
		{"organizer/authenticated", model.RoleOrganizer, RequireAuthenticated, Allowed},
		{"organizer/volunteer", model.RoleOrganizer, RequireVolunteer, Forbidden},
		{"organizer/organizer", model.RoleOrganizer, RequireOrganizer, Allowed},
		{"organizer/admin", model.RoleOrganizer, RequireAdmin, Forbidden},

		// Volunteers are denied on no-requirement surfaces. Intentional
		// asymmetry; see the Requirement docs.
		{"volunteer/none", model.RoleVolunteer, RequireNone, Forbidden},
		{"volunteer/authenticated", model.RoleVolunteer, RequireAuthenticated, Allowed},
		{"volunteer/volunteer", model.RoleVolunteer, RequireVolunteer, Allowed},
		{"volunteer/organizer", model.RoleVolunteer, RequireOrganizer, Forbidden},
		{"volunteer/admin", model.RoleVolunteer, RequireAdmin, Forbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(false, true, rolePtr(tc.role), tc.req)
			assert.Equal(t, tc.want, got, "role=%s req=%d", tc.role, tc.req)
		})
	}
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "unauthenticated", Unauthenticated.String())
	assert.Equal(t, "forbidden", Forbidden.String())
	assert.Equal(t, "allowed", Allowed.String())
}
