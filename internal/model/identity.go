package model

import "time"

// Role is the access level of an authenticated actor.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleOrganizer Role = "organizer"
	RoleVolunteer Role = "volunteer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOrganizer, RoleVolunteer:
		return true
	}
	return false
}

// Identity holds the immutable core attributes of the authenticated actor.
// An Identity is replaced wholesale on sign-in and sign-out, never mutated.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// Profile extends an Identity with contact and gamification data.
// It is owned by the session manager and mutated only through
// profile updates.
type Profile struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	Role     Role     `json:"role"`
	Phone    string   `json:"phone"`
	Location string   `json:"location"`
	Skills   []string `json:"skills,omitempty"`

	// Gamification counters.
	HoursVolunteered float64 `json:"hours_volunteered"`
	Level            int     `json:"level"`
	XP               int     `json:"xp"`
	Streak           int     `json:"streak"`
	ImpactScore      int     `json:"impact_score"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Identity returns the immutable view of this profile.
func (p *Profile) Identity() Identity {
	return Identity{ID: p.ID, Email: p.Email, Name: p.Name, Role: p.Role}
}

// ProfilePatch is a partial profile update. Nil fields are left unchanged.
type ProfilePatch struct {
	Name     *string  `json:"name,omitempty"`
	Phone    *string  `json:"phone,omitempty"`
	Location *string  `json:"location,omitempty"`
	Skills   []string `json:"skills,omitempty"`

	HoursVolunteered *float64 `json:"hours_volunteered,omitempty"`
	Level            *int     `json:"level,omitempty"`
	XP               *int     `json:"xp,omitempty"`
	Streak           *int     `json:"streak,omitempty"`
	ImpactScore      *int     `json:"impact_score,omitempty"`
}

// Apply merges the patch into the profile and re-stamps UpdatedAt.
func (p *Profile) Apply(patch ProfilePatch, now time.Time) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Phone != nil {
		p.Phone = *patch.Phone
	}
	if patch.Location != nil {
		p.Location = *patch.Location
	}
	if patch.Skills != nil {
		p.Skills = patch.Skills
	}
	if patch.HoursVolunteered != nil {
		p.HoursVolunteered = *patch.HoursVolunteered
	}
	if patch.Level != nil {
		p.Level = *patch.Level
	}
	if patch.XP != nil {
		p.XP = *patch.XP
	}
	if patch.Streak != nil {
		p.Streak = *patch.Streak
	}
	if patch.ImpactScore != nil {
		p.ImpactScore = *patch.ImpactScore
	}
	p.UpdatedAt = now
}
