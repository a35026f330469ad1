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

package api

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madgik/resource-catalogue-go/internal/common"
	"github.com/madgik/resource-catalogue-go/internal/common/facetfilter"
	"github.com/madgik/resource-catalogue-go/internal/common/model"
	"github.com/madgik/resource-catalogue-go/internal/common/security"
	"github.com/madgik/resource-catalogue-go/internal/persistence"
)

var (
	admin = &security.Principal{Email: "admin@example.org", Name: "Ada", Surname: "Admin", Roles: []string{security.RoleAdmin}, Authenticated: true}
	alice = &security.Principal{Email: "alice@example.org", Name: "Alice", Surname: "Doe", Roles: []string{security.RoleUser}, Authenticated: true}
	bob   = &security.Principal{Email: "bob@example.org", Name: "Bob", Surname: "Roe", Roles: []string{security.RoleUser}, Authenticated: true}
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry(Options{
		Store: persistence.NewMemoryStore(),
		Catalogue: common.CatalogueConfig{
			ID:                "eosc",
			Name:              "EOSC",
			Homepage:          "https://eosc.example.org",
			RegistrationEmail: "registration@example.org",
			Resources: map[string]common.ResourceConfig{
				model.TypeProvider: {IDPrefix: "21.T15999"},
				model.TypeService:  {IDPrefix: "21.T15999"},
			},
		},
	})
	require.NoError(t, err)
	require.NoError(t, r.Bootstrap(context.Background()))
	return r
}

func newProvider(name, abbreviation string) *model.ProviderBundle {
	return model.NewBundle(&model.Provider{
		Name:         name,
		Abbreviation: abbreviation,
		Website:      "https://example.org/" + abbreviation,
	})
}

func newService(providerID, name string) *model.ServiceBundle {
	return model.NewBundle(&model.Service{
		Name:                 name,
		ResourceOrganisation: providerID,
		Webpage:              "https://example.org/service",
		Version:              "1.0",
	})
}

// approvedProvider onboards a provider for owner and approves it.
func approvedProvider(t *testing.T, r *Registry, owner *security.Principal, abbreviation string) *model.ProviderBundle {
	t.Helper()
	ctx := context.Background()
	b, err := r.Providers.Add(ctx, newProvider("Provider "+abbreviation, abbreviation), "", owner)
	require.NoError(t, err)
	b, err = r.Providers.Verify(ctx, b.ID, model.StatusApprovedProvider, nil, admin)
	require.NoError(t, err)
	return b
}

// approvedService onboards the template service of a provider and approves it.
func approvedService(t *testing.T, r *Registry, owner *security.Principal, providerID string) *model.ServiceBundle {
	t.Helper()
	ctx := context.Background()
	b, err := r.Services.Add(ctx, newService(providerID, "Compute"), "", owner)
	require.NoError(t, err)
	b, err = r.Services.Verify(ctx, b.ID, model.StatusApprovedResource, nil, admin)
	require.NoError(t, err)
	return b
}

func privateFilter(kind string) *facetfilter.FacetFilter {
	return facetfilter.New(kind).SetFilter(facetfilter.KeyPublished, "false")
}

func TestBootstrapCreatesDefaultCatalogue(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	cat, err := r.Catalogues.Get(ctx, "eosc", security.Anonymous)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApprovedCatalogue, cat.Status)
	assert.True(t, cat.Active)

	require.NoError(t, r.Bootstrap(ctx), "bootstrapping twice is harmless")
}

func TestDirectoryResolvesOwners(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	provider := approvedProvider(t, r, alice, "dir")
	service := approvedService(t, r, alice, provider.ID)

	users, err := r.ProviderUsers(ctx, provider.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice@example.org"}, model.UserEmails(users))

	owners, err := r.ResourceProviders(ctx, service.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{provider.ID}, owners)

	sec := r.Security()
	assert.True(t, sec.IsResourceAdmin(ctx, alice, service.ID))
	assert.False(t, sec.IsResourceAdmin(ctx, bob, service.ID))
	assert.NoError(t, sec.Guard(ctx, alice, model.TypeService, service.ID))
	assert.True(t, common.IsErrForbidden(sec.Guard(ctx, bob, model.TypeService, service.ID)))
}
