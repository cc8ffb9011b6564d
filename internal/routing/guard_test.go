package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/helpdesk-client/internal/domain"
)

func TestGuard(t *testing.T) {
	staff := Requirement{
		RequiresAuth: true,
		Roles:        []domain.Role{domain.RoleAdmin, domain.RoleManager, domain.RoleTechnician},
	}

	tests := []struct {
		name          string
		req           Requirement
		authenticated bool
		identity      domain.Identity
		want          Decision
	}{
		{
			name: "public route ignores session",
			req:  Requirement{},
			want: DecisionAllow,
		},
		{
			name: "public route ignores roles too",
			req:  Requirement{Roles: []domain.Role{domain.RoleAdmin}},
			want: DecisionAllow,
		},
		{
			name: "auth route without session redirects",
			req:  Requirement{RequiresAuth: true},
			want: DecisionRedirectLogin,
		},
		{
			name:          "auth route with session allows",
			req:           Requirement{RequiresAuth: true},
			authenticated: true,
			identity:      domain.Identity{Role: domain.RoleUser},
			want:          DecisionAllow,
		},
		{
			name:          "role route with matching role allows",
			req:           staff,
			authenticated: true,
			identity:      domain.Identity{Role: domain.RoleManager},
			want:          DecisionAllow,
		},
		{
			name:          "role route with wrong role redirects",
			req:           staff,
			authenticated: true,
			identity:      domain.Identity{Role: domain.RoleUser},
			want:          DecisionRedirectLogin,
		},
		{
			name:          "role matching is case and accent insensitive",
			req:           staff,
			authenticated: true,
			identity:      domain.Identity{Role: domain.Role("MANAGER")},
			want:          DecisionAllow,
		},
		{
			name:          "localized technician satisfies technician requirement",
			req:           staff,
			authenticated: true,
			identity:      domain.Identity{Role: domain.Role("Técnico")},
			want:          DecisionAllow,
		},
		{
			name:          "role route without session redirects before role check",
			req:           staff,
			authenticated: false,
			identity:      domain.Identity{Role: domain.RoleAdmin},
			want:          DecisionRedirectLogin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Guard(tt.req, tt.authenticated, tt.identity))
		})
	}
}
