package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDefault(t *testing.T) *Authorizer {
	t.Helper()
	a, err := Load("")
	require.NoError(t, err)
	return a
}

func TestAllowed(t *testing.T) {
	a := mustDefault(t)

	tests := []struct {
		name  string
		role  string
		pages []string
		want  bool
	}{
		{"finance denied admins", "finance", []string{"admins"}, false},
		{"super admin allowed admins", "super_admin", []string{"admins"}, true},
		{"finance allowed withdrawers", "finance", []string{"withdrawers"}, true},
		{"support denied withdrawers", "support", []string{"withdrawers"}, false},
		{"any intersecting page suffices", "support", []string{"withdrawers", "complaints"}, true},
		{"case insensitive", "  FINANCE ", []string{"withdrawers"}, true},
		{"no requirement", "viewer", nil, true},
		{"unknown role falls back to viewer", "intern", []string{"complaints"}, false},
		{"unknown role keeps viewer pages", "intern", []string{"dashboard"}, true},
		{"empty role", "", []string{"dashboard"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Allowed(tt.role, tt.pages...))
		})
	}
}

func TestNavigationAgreesWithGuard(t *testing.T) {
	a := mustDefault(t)

	for _, role := range append(a.Roles(), "unknown", "") {
		visible := map[string]bool{}
		for _, page := range a.Navigation(role) {
			visible[page.ID] = true
		}
		for _, page := range a.Pages() {
			assert.Equal(t, a.Allowed(role, page.ID), visible[page.ID], "role=%q page=%q", role, page.ID)
		}
	}
}

func TestNavigationOrder(t *testing.T) {
	a := mustDefault(t)

	var ids []string
	for _, p := range a.Navigation("finance") {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"dashboard", "withdrawers", "exports"}, ids)
	assert.Equal(t, "/dashboard", a.Landing())
}

func TestParseRejectsUnknownPage(t *testing.T) {
	_, err := Parse([]byte(`
fallback_role: viewer
pages: [{id: dashboard, title: Overview, path: /dashboard}]
roles:
  viewer: [dashboard, reports]
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reports")
}

func TestParseRequiresFallbackRole(t *testing.T) {
	_, err := Parse([]byte(`
fallback_role: guest
pages: [{id: dashboard, title: Overview, path: /dashboard}]
roles:
  viewer: [dashboard]
`))
	assert.Error(t, err)
}
