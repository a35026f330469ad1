// Copyright (C) 2026 the Resource Catalogue Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//
// SPDX-License-Identifier: MIT

package security

import (
	"context"
	"strings"
)

// Roles granted to principals.
const (
	RoleAdmin    = "ROLE_ADMIN"
	RoleEPOT     = "ROLE_EPOT"
	RoleProvider = "ROLE_PROVIDER"
	RoleUser     = "ROLE_USER"
)

// Principal is the caller of a request.
type Principal struct {
	Subject       string
	Email         string
	Name          string
	Surname       string
	Roles         []string
	Authenticated bool
}

// Anonymous is the principal of requests without credentials.
var Anonymous = &Principal{}

// FullName joins name and surname.
func (p *Principal) FullName() string {
	return strings.TrimSpace(p.Name + " " + p.Surname)
}

// HasRole reports whether the principal holds role.
func (p *Principal) HasRole(role string) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the principal holds one of roles.
func (p *Principal) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if p.HasRole(r) {
			return true
		}
	}
	return false
}

// IsAdminOrEPOT reports whether the principal administers the whole catalogue.
func (p *Principal) IsAdminOrEPOT() bool {
	return p.HasAnyRole(RoleAdmin, RoleEPOT)
}

// Role returns the most privileged role, used in logging entries.
func (p *Principal) Role() string {
	for _, r := range []string{RoleAdmin, RoleEPOT, RoleProvider, RoleUser} {
		if p.HasRole(r) {
			return r
		}
	}
	return ""
}

func (p *Principal) addRole(role string) {
	if !p.HasRole(role) {
		p.Roles = append(p.Roles, role)
	}
}

type ctxKey string

const principalKey ctxKey = "principal"

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// FromContext returns the principal of ctx, or Anonymous.
func FromContext(ctx context.Context) *Principal {
	if v, ok := ctx.Value(principalKey).(*Principal); ok && v != nil {
		return v
	}
	return Anonymous
}

// Claims are the verified claims of a bearer token.
type Claims map[string]any

func (c Claims) GetString(key string) (string, bool) {
	v, ok := c[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (c Claims) strings(key string) []string {
	switch v := c[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return strings.Fields(v)
	}
	return nil
}

// RoleMapper turns verified claims into a principal.
type RoleMapper struct {
	Admins         []string
	OnboardingTeam []string
}

// Principal builds the principal of claims. Roles come from the roles,
// realm_access.roles and groups claims plus the configured admin lists.
func (m RoleMapper) Principal(c Claims) *Principal {
	p := &Principal{Authenticated: true}
	p.Subject, _ = c.GetString("sub")
	p.Email, _ = c.GetString("email")
	p.Name, _ = c.GetString("given_name")
	p.Surname, _ = c.GetString("family_name")
	if p.Name == "" && p.Surname == "" {
		p.Name, _ = c.GetString("name")
	}

	roles := c.strings("roles")
	if ra, ok := c["realm_access"].(map[string]any); ok {
		roles = append(roles, Claims(ra).strings("roles")...)
	}
	roles = append(roles, c.strings("groups")...)
	for _, r := range roles {
		r = strings.TrimPrefix(r, "/")
		if !strings.HasPrefix(strings.ToUpper(r), "ROLE_") {
			r = "ROLE_" + r
		}
		p.addRole(strings.ToUpper(r))
	}

	if containsFold(m.Admins, p.Email) {
		p.addRole(RoleAdmin)
	}
	if containsFold(m.OnboardingTeam, p.Email) {
		p.addRole(RoleEPOT)
	}
	p.addRole(RoleUser)
	return p
}

func containsFold(list []string, v string) bool {
	if v == "" {
		return false
	}
	for _, l := range list {
		if strings.EqualFold(strings.TrimSpace(l), v) {
			return true
		}
	}
	return false
}
