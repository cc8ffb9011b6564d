// Package routing decides whether the current session may enter a route.
package routing

import (
	"github.com/spec-kit/helpdesk-client/internal/domain"
)

// Requirement is a route's declared access requirement.
type Requirement struct {
	RequiresAuth bool
	Roles        []domain.Role
}

// Decision is the guard's verdict.
type Decision int

const (
	// DecisionAllow lets navigation proceed.
	DecisionAllow Decision = iota
	// DecisionRedirectLogin sends the caller to the login flow.
	DecisionRedirectLogin
)

// Guard evaluates a route requirement against the session state. Role
// matching is normalized, so a localized role literal satisfies its
// legacy counterpart.
func Guard(req Requirement, authenticated bool, identity domain.Identity) Decision {
	if !req.RequiresAuth {
		return DecisionAllow
	}
	if !authenticated {
		return DecisionRedirectLogin
	}
	if len(req.Roles) == 0 {
		return DecisionAllow
	}

	role := domain.Normalize(string(identity.Role))
	for _, allowed := range req.Roles {
		if domain.Normalize(string(allowed)) == role {
			return DecisionAllow
		}
		// Either technician naming scheme satisfies a technician
		// requirement.
		if domain.IsTechnicianRole(allowed) && domain.IsTechnicianRole(identity.Role) {
			return DecisionAllow
		}
	}
	return DecisionRedirectLogin
}
