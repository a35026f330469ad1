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
	"github.com/madgik/resource-catalogue-go/internal/common/model"
	"github.com/madgik/resource-catalogue-go/internal/common/security"
)

func newCatalogue(name, abbreviation string) *model.CatalogueBundle {
	return model.NewBundle(&model.Catalogue{
		Name:         name,
		Abbreviation: abbreviation,
		Website:      "https://lab.example.org",
	})
}

func approvedCatalogue(t *testing.T, r *Registry, owner *security.Principal) *model.CatalogueBundle {
	t.Helper()
	ctx := context.Background()
	b, err := r.Catalogues.Add(ctx, newCatalogue("Lab One Catalogue", "Lab One"), owner)
	require.NoError(t, err)
	b, err = r.Catalogues.Verify(ctx, b.ID, model.StatusApprovedCatalogue, nil, admin)
	require.NoError(t, err)
	return b
}

func TestCatalogueRegistration(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	b, err := r.Catalogues.Add(ctx, newCatalogue("Lab One Catalogue", "Lab One"), alice)
	require.NoError(t, err)
	assert.Equal(t, "lab-one", b.ID)
	assert.Equal(t, model.StatusPendingCatalogue, b.Status)
	assert.False(t, b.Active)
	assert.True(t, b.Payload.HasUser(alice.Email))

	_, err = r.Catalogues.Add(ctx, newCatalogue("Again", "lab one"), bob)
	assert.True(t, common.IsErrConflict(err))

	bad := newCatalogue("Bad", "bad")
	bad.Payload.ID = "Not Valid"
	_, err = r.Catalogues.Add(ctx, bad, bob)
	assert.True(t, common.IsErrBadRequest(err))

	_, err = r.Catalogues.Get(ctx, b.ID, security.Anonymous)
	assert.True(t, common.IsErrUnauthorized(err))
	_, err = r.Catalogues.Get(ctx, b.ID, bob)
	assert.True(t, common.IsErrForbidden(err))
	_, err = r.Catalogues.Get(ctx, b.ID, alice)
	assert.NoError(t, err)

	_, err = r.Providers.Add(ctx, newProvider("Early", "early"), b.ID, alice)
	assert.True(t, common.IsErrConflict(err), "the catalogue is not approved yet")
}

func TestCatalogueDefaultCannotBeDeleted(t *testing.T) {
	r := newTestRegistry(t)
	_, err := r.Catalogues.Delete(context.Background(), "eosc", admin)
	assert.True(t, common.IsErrForbidden(err))
}

func TestExternalCatalogueOnboarding(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	cat := approvedCatalogue(t, r, alice)

	_, err := r.Providers.Add(ctx, newProvider("No id", "noid"), cat.ID, alice)
	assert.True(t, common.IsErrBadRequest(err), "external providers carry their own id")

	mismatch := newProvider("Mismatch", "mm")
	mismatch.Payload.ID = "lab/mm"
	mismatch.Payload.CatalogueID = "eosc"
	_, err = r.Providers.Add(ctx, mismatch, cat.ID, alice)
	assert.True(t, common.IsErrBadRequest(err))

	pb := newProvider("Lab Provider", "labp")
	pb.Payload.ID = "lab/prov1"
	provider, err := r.Providers.Add(ctx, pb, cat.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, "lab/prov1", provider.ID)
	assert.Equal(t, model.StatusApprovedProvider, provider.Status)
	assert.True(t, provider.Active)

	pub, err := r.Providers.PublicGet(ctx, publicID(cat.ID, provider.ID))
	require.NoError(t, err)
	assert.Equal(t, "lab-one", pub.Payload.CatalogueID)

	_, err = r.Providers.Get(ctx, "eosc", provider.ID, admin)
	assert.True(t, common.IsErrConflict(err), "provider belongs to another catalogue")
	_, err = r.Providers.Get(ctx, allCatalogues, provider.ID, admin)
	assert.NoError(t, err)

	sb := newService(provider.ID, "Lab Service")
	sb.Payload.ID = "lab/svc1"
	service, err := r.Services.Add(ctx, sb, cat.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApprovedResource, service.Status)

	_, err = r.Services.Add(ctx, newService(provider.ID, "Wrong catalogue"), "", alice)
	assert.True(t, common.IsErrBadRequest(err), "provider of another catalogue")

	_, err = r.Catalogues.Delete(ctx, cat.ID, admin)
	require.NoError(t, err)
	_, err = r.Providers.fetch(ctx, provider.ID)
	assert.True(t, common.IsErrNotFound(err))
	_, err = r.Services.fetch(ctx, service.ID)
	assert.True(t, common.IsErrNotFound(err))
	_, err = r.Services.fetch(ctx, publicID(cat.ID, service.ID))
	assert.True(t, common.IsErrNotFound(err))
}

func TestCatalogueSuspensionReachesProviders(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	cat := approvedCatalogue(t, r, alice)

	pb := newProvider("Lab Provider", "labp")
	pb.Payload.ID = "lab/prov1"
	provider, err := r.Providers.Add(ctx, pb, cat.ID, alice)
	require.NoError(t, err)

	_, err = r.Catalogues.Suspend(ctx, cat.ID, true, admin)
	require.NoError(t, err)
	got, err := r.Providers.fetch(ctx, provider.ID)
	require.NoError(t, err)
	assert.True(t, got.Suspended)

	_, err = r.Providers.Suspend(ctx, provider.ID, cat.ID, false, admin)
	assert.True(t, common.IsErrConflict(err), "catalogue still suspended")

	_, err = r.Catalogues.Suspend(ctx, cat.ID, false, admin)
	require.NoError(t, err)
	got, err = r.Providers.fetch(ctx, provider.ID)
	require.NoError(t, err)
	assert.False(t, got.Suspended)
}

func TestCatalogueUpdateReopensRejected(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	b, err := r.Catalogues.Add(ctx, newCatalogue("Lab One Catalogue", "Lab One"), alice)
	require.NoError(t, err)
	_, err = r.Catalogues.Verify(ctx, b.ID, model.StatusRejectedCatalogue, nil, admin)
	require.NoError(t, err)

	changed := newCatalogue("Lab One Catalogue v2", "Lab One")
	changed.Payload.ID = b.ID
	changed.Payload.Users = b.Payload.Users
	updated, err := r.Catalogues.Update(ctx, changed, "fixed", alice)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPendingCatalogue, updated.Status)

	mine, err := r.Catalogues.GetMy(ctx, privateFilter(model.TypeCatalogue), alice)
	require.NoError(t, err)
	assert.Equal(t, 1, mine.Total)
}
