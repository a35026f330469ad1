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
)

func newDatasource(serviceID string) *model.DatasourceBundle {
	return model.NewBundle(&model.Datasource{
		ServiceID:                serviceID,
		Jurisdiction:             "ds_jurisdiction-global",
		DatasourceClassification: "ds_classification-repository",
		ResearchEntityTypes:      []string{"ds_research_entity_type-research_data"},
	})
}

func approvedGuideline(t *testing.T, r *Registry, providerID string) *model.InteroperabilityRecordBundle {
	t.Helper()
	ctx := context.Background()
	ir, err := r.Guidelines.Add(ctx, model.NewBundle(&model.InteroperabilityRecord{
		Title:      "Metadata guideline",
		ProviderID: providerID,
	}), "", alice)
	require.NoError(t, err)
	ir, err = r.Guidelines.Verify(ctx, ir.ID, model.StatusApprovedInteroperabilityRecord, nil, admin)
	require.NoError(t, err)
	return ir
}

func TestDatasourceLifecycle(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	service := approvedService(t, r, alice, approvedProvider(t, r, alice, "ds").ID)

	ds, err := r.Datasources.Add(ctx, newDatasource(service.ID), alice)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPendingDatasource, ds.Status)
	assert.Equal(t, "eosc", ds.Payload.CatalogueID)
	assert.True(t, ds.Active, "inherits the activation of the service")

	_, err = r.Datasources.Add(ctx, newDatasource(service.ID), alice)
	assert.True(t, common.IsErrConflict(err), "one datasource per service")

	_, err = r.Datasources.PublicGet(ctx, publicID("eosc", ds.ID))
	assert.True(t, common.IsErrNotFound(err))

	_, err = r.Datasources.Verify(ctx, ds.ID, model.StatusApprovedDatasource, nil, admin)
	require.NoError(t, err)
	pub, err := r.Datasources.PublicGet(ctx, publicID("eosc", ds.ID))
	require.NoError(t, err)
	assert.Equal(t, ds.ID, pub.Identifiers.OriginalID)

	found, err := r.Datasources.GetByParent(ctx, service.ID, "eosc")
	require.NoError(t, err)
	assert.Equal(t, ds.ID, found.ID)

	_, err = r.Datasources.GetByParent(ctx, "21.T15999/none", "eosc")
	assert.True(t, common.IsErrNotFound(err))
}

func TestDatasourceRequiresPrivateParent(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	service := approvedService(t, r, alice, approvedProvider(t, r, alice, "par").ID)

	_, err := r.Datasources.Add(ctx, newDatasource(publicID("eosc", service.ID)), alice)
	assert.True(t, common.IsErrBadRequest(err))

	_, err = r.Datasources.Add(ctx, newDatasource(""), alice)
	assert.True(t, common.IsErrBadRequest(err))

	_, err = r.Datasources.Add(ctx, newDatasource("21.T15999/none"), alice)
	assert.True(t, common.IsErrNotFound(err))
}

func TestHelpdeskUpdateKeepsParent(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	provider := approvedProvider(t, r, alice, "hd")
	service := approvedService(t, r, alice, provider.ID)

	hd, err := r.Helpdesks.Add(ctx, model.NewBundle(&model.Helpdesk{ServiceID: service.ID, HelpdeskType: "direct usage"}), alice)
	require.NoError(t, err)
	assert.Empty(t, hd.Status)

	_, err = r.Helpdesks.PublicGet(ctx, publicID("eosc", hd.ID))
	require.NoError(t, err, "status-less extensions are published at once")

	changed := model.NewBundle(&model.Helpdesk{ID: hd.ID, ServiceID: service.ID, HelpdeskType: "ticket redirection"})
	updated, err := r.Helpdesks.Update(ctx, changed, "switch", alice)
	require.NoError(t, err)
	assert.Equal(t, "ticket redirection", updated.Payload.HelpdeskType)
	assert.Equal(t, "eosc", updated.Payload.CatalogueID)

	other := approvedService(t, r, bob, approvedProvider(t, r, bob, "hd2").ID)
	moved := model.NewBundle(&model.Helpdesk{ID: hd.ID, ServiceID: other.ID, HelpdeskType: "direct usage"})
	_, err = r.Helpdesks.Update(ctx, moved, "", alice)
	assert.True(t, common.IsErrBadRequest(err))
}

func TestMonitoringHasNoStatus(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	service := approvedService(t, r, alice, approvedProvider(t, r, alice, "mon").ID)

	mon, err := r.Monitorings.Add(ctx, model.NewBundle(&model.Monitoring{
		ServiceID:        service.ID,
		MonitoringGroups: []model.MonitoringGroup{{ServiceType: "eu.eosc.portal.services.url", Endpoint: "https://example.org/status"}},
	}), alice)
	require.NoError(t, err)
	assert.Empty(t, mon.Status)
	assert.True(t, mon.Active, "inherits the activation of the service")

	_, err = r.Monitorings.PublicGet(ctx, publicID("eosc", mon.ID))
	require.NoError(t, err)

	_, err = r.Monitorings.Verify(ctx, mon.ID, model.StatusApprovedDatasource, nil, admin)
	assert.True(t, common.IsErrBadRequest(err))
}

func TestServiceChangesReachExtensions(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	provider := approvedProvider(t, r, alice, "ext")
	service := approvedService(t, r, alice, provider.ID)

	hd, err := r.Helpdesks.Add(ctx, model.NewBundle(&model.Helpdesk{ServiceID: service.ID, HelpdeskType: "direct usage"}), alice)
	require.NoError(t, err)
	ds, err := r.Datasources.Add(ctx, newDatasource(service.ID), alice)
	require.NoError(t, err)

	_, err = r.Services.Suspend(ctx, service.ID, "eosc", true, admin)
	require.NoError(t, err)
	got, err := r.Helpdesks.Get(ctx, hd.ID)
	require.NoError(t, err)
	assert.True(t, got.Suspended)

	_, err = r.Services.Publish(ctx, service.ID, boolPtr(false), admin)
	require.NoError(t, err)
	got, err = r.Helpdesks.Get(ctx, hd.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	_, err = r.Services.Delete(ctx, service.ID, "eosc", admin)
	require.NoError(t, err)
	_, err = r.Helpdesks.Get(ctx, hd.ID)
	assert.True(t, common.IsErrNotFound(err))
	_, err = r.Datasources.Get(ctx, ds.ID)
	assert.True(t, common.IsErrNotFound(err))
	_, err = r.Helpdesks.Get(ctx, publicID("eosc", hd.ID))
	assert.True(t, common.IsErrNotFound(err))
}

func TestResourceInteroperabilityRecordNeedsApprovedGuideline(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	provider := approvedProvider(t, r, alice, "rir")
	service := approvedService(t, r, alice, provider.ID)

	pending, err := r.Guidelines.Add(ctx, model.NewBundle(&model.InteroperabilityRecord{
		Title:      "Pending guideline",
		ProviderID: provider.ID,
	}), "", alice)
	require.NoError(t, err)

	link := func(ids ...string) *model.ResourceInteroperabilityRecordBundle {
		return model.NewBundle(&model.ResourceInteroperabilityRecord{ResourceID: service.ID, InteroperabilityRecordIDs: ids})
	}
	_, err = r.ResourceInteroperabilityRecords.Add(ctx, link(pending.ID), alice)
	assert.True(t, common.IsErrConflict(err))

	approved := approvedGuideline(t, r, provider.ID)
	rir, err := r.ResourceInteroperabilityRecords.Add(ctx, link(approved.ID), alice)
	require.NoError(t, err)

	found, err := r.ResourceInteroperabilityRecords.ListByFacet(ctx, "interoperability_record_ids", approved.ID)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, rir.ID, found[0].ID)
}

func TestConfigurationTemplateInstanceFollowsFormModel(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	provider := approvedProvider(t, r, alice, "cti")
	service := approvedService(t, r, alice, provider.ID)
	ir := approvedGuideline(t, r, provider.ID)

	form := []byte(`{"type":"object","required":["url"],"properties":{"url":{"type":"string"}}}`)
	ct, err := r.ConfigurationTemplates.Add(ctx, model.NewBundle(&model.ConfigurationTemplate{
		InteroperabilityRecordID: ir.ID,
		Name:                     "Harvesting endpoint",
		FormModel:                form,
	}), admin)
	require.NoError(t, err)

	instance := func(payload string) *model.ConfigurationTemplateInstanceBundle {
		return model.NewBundle(&model.ConfigurationTemplateInstance{
			ResourceID:              service.ID,
			ConfigurationTemplateID: ct.ID,
			Payload:                 []byte(payload),
		})
	}

	_, err = r.ConfigurationTemplateInstances.Add(ctx, instance(`{"port":80}`), alice)
	verr, ok := common.IsValidationError(err)
	require.True(t, ok, "got %v", err)
	assert.NotEmpty(t, verr.Errors)

	cti, err := r.ConfigurationTemplateInstances.Add(ctx, instance(`{"url":"https://example.org/oai"}`), alice)
	require.NoError(t, err)
	assert.Equal(t, "eosc", cti.Payload.CatalogueID)

	missing := instance(`{}`)
	missing.Payload.ConfigurationTemplateID = "eosc/none"
	_, err = r.ConfigurationTemplateInstances.Add(ctx, missing, alice)
	assert.True(t, common.IsErrBadRequest(err))

	byIR, err := r.ConfigurationTemplatesByInteroperabilityRecord(ctx)
	require.NoError(t, err)
	require.Len(t, byIR[ir.ID], 1)
	assert.Equal(t, ct.ID, byIR[ir.ID][0].ID)

	page, err := r.ConfigurationTemplateInstances.ListByParent(ctx, facetfilter.New(model.TypeConfigurationTemplateInstance), service.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}
