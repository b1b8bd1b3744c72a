package auth

import (
	"gymtracker/gym-api/internal/domain"
)

// Decision is the outcome of a role check.
type Decision int

const (
	Allow Decision = iota
	Unauthenticated
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	}
	return "unknown"
}

// Authorize decides whether a caller with role may use a route open to allowed.
// An empty allowed set admits any authenticated role.
func Authorize(role domain.Role, allowed ...domain.Role) Decision {
	if role == "" {
		return Unauthenticated
	}
	if !role.Valid() {
		return Forbidden
	}
	if len(allowed) == 0 {
		return Allow
	}
	for _, r := range allowed {
		if r == role {
			return Allow
		}
	}
	return Forbidden
}
