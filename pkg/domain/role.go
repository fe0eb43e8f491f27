package domain

// Role is the access level attached to an authenticated account. Core
// operations receive the actor's role explicitly; nothing reads it from
// ambient state.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleOfficer   Role = "OFFICER"
	RoleCandidate Role = "CANDIDATE"
	RoleVoter     Role = "VOTER"
)

// ParseRole validates a role string from a token or request.
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleAdmin, RoleOfficer, RoleCandidate, RoleVoter:
		return Role(raw), true
	}
	return "", false
}

// CanDecideNominations reports whether the role may approve or reject
// candidate nominations.
func (r Role) CanDecideNominations() bool {
	return r == RoleAdmin || r == RoleOfficer
}

// CanViewReports reports whether the role may read tallies and voter rolls.
func (r Role) CanViewReports() bool {
	return r == RoleAdmin || r == RoleOfficer
}
