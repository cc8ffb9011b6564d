package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "ABERTO", "aberto"},
		{"strips diacritics", "Técnico", "tecnico"},
		{"mixed accents", "Crítica", "critica"},
		{"cedilla", "Ção", "cao"},
		{"already plain", "user", "user"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalizeEquivalence(t *testing.T) {
	assert.Equal(t, Normalize("Técnico"), Normalize("tecnico"))
	assert.Equal(t, Normalize("Em Andamento"), Normalize("em andamento"))
}

func TestIsTechnicianRole(t *testing.T) {
	assert.True(t, IsTechnicianRole(Role("technician")))
	assert.True(t, IsTechnicianRole(Role("TECHNICIAN")))
	assert.True(t, IsTechnicianRole(Role("Técnico")))
	assert.True(t, IsTechnicianRole(Role("tecnico")))
	assert.False(t, IsTechnicianRole(Role("user")))
	assert.False(t, IsTechnicianRole(Role("manager")))
	assert.False(t, IsTechnicianRole(Role("")))
}
