// Package authz gates dashboard pages by operator role.
//
// One policy table (policy.yaml) declares the pages and which roles may open
// them. It is loaded into a casbin enforcer that answers both questions the
// dashboard asks: which pages go in the sidebar, and whether a route may be
// rendered. This is navigation gating only; the API enforces real access.
package authz

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"gopkg.in/yaml.v3"
)

//go:embed policy.yaml
var defaultPolicy []byte

const modelText = `
[request_definition]
r = sub, obj

[policy_definition]
p = sub, obj

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj
`

// Page is one navigable dashboard page.
type Page struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	Path  string `yaml:"path"`
}

// Policy is the decoded policy table.
type Policy struct {
	Landing      string              `yaml:"landing"`
	FallbackRole string              `yaml:"fallback_role"`
	Pages        []Page              `yaml:"pages"`
	Roles        map[string][]string `yaml:"roles"`
}

// Authorizer answers page-access questions from the policy table.
type Authorizer struct {
	enforcer *casbin.Enforcer
	policy   Policy
}

// Load builds an Authorizer from the policy file at path, or from the
// embedded table when path is empty.
func Load(path string) (*Authorizer, error) {
	data := defaultPolicy
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("authz: read policy: %w", err)
		}
		data = b
	}
	return Parse(data)
}

// Parse builds an Authorizer from YAML policy bytes.
func Parse(data []byte) (*Authorizer, error) {
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("authz: parse policy: %w", err)
	}
	if p.Landing == "" {
		p.Landing = "/dashboard"
	}
	p.FallbackRole = SubjectFromRole(p.FallbackRole)
	if _, ok := p.Roles[p.FallbackRole]; !ok {
		return nil, fmt.Errorf("authz: fallback role %q has no entry in roles", p.FallbackRole)
	}

	known := make(map[string]bool, len(p.Pages))
	for _, page := range p.Pages {
		known[page.ID] = true
	}

	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("authz: model: %w", err)
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("authz: enforcer: %w", err)
	}

	roles := make(map[string][]string, len(p.Roles))
	for role, pages := range p.Roles {
		subject := SubjectFromRole(role)
		roles[subject] = pages
		for _, page := range pages {
			if !known[page] {
				return nil, fmt.Errorf("authz: role %q grants unknown page %q", role, page)
			}
			if _, err := enforcer.AddPolicy(subject, page); err != nil {
				return nil, fmt.Errorf("authz: add policy %s/%s: %w", role, page, err)
			}
		}
	}
	p.Roles = roles

	return &Authorizer{enforcer: enforcer, policy: p}, nil
}

// SubjectFromRole trims and lower-cases a role name.
func SubjectFromRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

// Resolve maps a role to the subject the table knows, falling back to the
// most restrictive role for unknown or empty roles.
func (a *Authorizer) Resolve(role string) string {
	subject := SubjectFromRole(role)
	if _, ok := a.policy.Roles[subject]; ok {
		return subject
	}
	return a.policy.FallbackRole
}

// Allowed reports whether role may open a route that requires any of pages.
// A route with no requirements is open to every role.
func (a *Authorizer) Allowed(role string, pages ...string) bool {
	if len(pages) == 0 {
		return true
	}
	subject := a.Resolve(role)
	for _, page := range pages {
		ok, err := a.enforcer.Enforce(subject, page)
		if err == nil && ok {
			return true
		}
	}
	return false
}

// Navigation returns the pages role may open, in table order.
func (a *Authorizer) Navigation(role string) []Page {
	var nav []Page
	for _, page := range a.policy.Pages {
		if a.Allowed(role, page.ID) {
			nav = append(nav, page)
		}
	}
	return nav
}

// Landing is where denied routes redirect to.
func (a *Authorizer) Landing() string { return a.policy.Landing }

// Pages returns every page in the table.
func (a *Authorizer) Pages() []Page { return a.policy.Pages }

// Roles returns the role names in the table.
func (a *Authorizer) Roles() []string {
	roles := make([]string, 0, len(a.policy.Roles))
	for role := range a.policy.Roles {
		roles = append(roles, role)
	}
	return roles
}
