// Package authz holds the pure access decision consumed by route
// guarding. It has no dependencies on rendering or session state
// beyond the inputs passed in.
package authz

import "github.com/mtran/volunteer-hub/internal/model"

// Decision is the outcome of an access evaluation.
type Decision int

const (
	// Pending means the session is still resolving; the caller should
	// show a waiting indicator and render nothing conclusive.
	Pending Decision = iota

	// Unauthenticated means redirect to sign-in, preserving the
	// intended destination for post-auth resume.
	Unauthenticated

	// Forbidden means redirect to the access-denied page.
	Forbidden

	// Allowed means the navigation or mutation may proceed.
	Allowed
)

func (d Decision) String() string {
	switch d {
	case Pending:
		return "pending"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	case Allowed:
		return "allowed"
	}
	return "unknown"
}

// Requirement is the role demanded by a surface.
type Requirement int

const (
	// RequireNone marks a surface with no explicit role requirement.
	// Volunteers are still denied here; volunteer-only surfaces must
	// opt in with RequireVolunteer. Deliberately asymmetric; do not
	// "fix" without product sign-off.
	RequireNone Requirement = iota

	// RequireAuthenticated admits any signed-in role.
	RequireAuthenticated

	// RequireVolunteer admits exactly the volunteer role.
	RequireVolunteer

	// RequireOrganizer admits organizers and admins.
	RequireOrganizer

	// RequireAdmin admits exactly the admin role.
	RequireAdmin
)

// Evaluate decides access for the acting role, applying the rules in
// order: loading wins, then authentication, then profile resolution,
// then the role requirement.
func Evaluate(loading, authenticated bool, role *model.Role, req Requirement) Decision {
	if loading {
		return Pending
	}
	if !authenticated {
		return Unauthenticated
	}
	if role == nil {
		// Authenticated but the profile has not resolved yet.
		return Pending
	}

	switch req {
	case RequireAuthenticated:
		return Allowed
	case RequireVolunteer:
		if *role == model.RoleVolunteer {
			return Allowed
		}
		return Forbidden
	case RequireOrganizer:
		if *role == model.RoleOrganizer || *role == model.RoleAdmin {
			return Allowed
		}
		return Forbidden
	case RequireAdmin:
		if *role == model.RoleAdmin {
			return Allowed
		}
		return Forbidden
	default:
		if *role == model.RoleVolunteer {
			return Forbidden
		}
		return Allowed
	}
}
