package session

import "github.com/mtran/volunteer-hub/internal/model"

// EventKind identifies a session state change.
type EventKind string

const (
	EventSignedIn       EventKind = "signed-in"
	EventSignedOut      EventKind = "signed-out"
	EventProfileUpdated EventKind = "profile-updated"
)

// Surface names a navigation destination. The presentation layer maps
// surfaces to actual routes; the core only emits intents.
type Surface string

const (
	// SurfaceSignIn is the authentication page.
	SurfaceSignIn Surface = "sign-in"

	// SurfaceForbidden is the access-denied page.
	SurfaceForbidden Surface = "forbidden"

	// SurfaceManagement is the admin/organizer landing.
	SurfaceManagement Surface = "management"

	// SurfaceVolunteer is the volunteer landing.
	SurfaceVolunteer Surface = "volunteer"
)

// Redirect is a navigation intent emitted alongside session events.
type Redirect struct {
	// Target is the destination surface.
	Target Surface

	// Origin preserves the intended destination for post-auth resume
	// when Target is SurfaceSignIn.
	Origin string
}

// Event is a session state change plus an optional navigation intent.
type Event struct {
	Kind     EventKind
	Identity *model.Identity
	Profile  *model.Profile
	Redirect *Redirect
}

// landingRedirect computes the role-appropriate landing intent for a
// fresh sign-in. Nil while the profile (and so the role) is unresolved.
func landingRedirect(profile *model.Profile) *Redirect {
	if profile == nil {
		return nil
	}
	switch profile.Role {
	case model.RoleAdmin, model.RoleOrganizer:
		return &Redirect{Target: SurfaceManagement}
	default:
		return &Redirect{Target: SurfaceVolunteer}
	}
}
