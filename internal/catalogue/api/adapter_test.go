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
)

func newAdapter(name, linkedType, linkedID string) *model.AdapterBundle {
	return model.NewBundle(&model.Adapter{
		Name:           name,
		LinkedResource: &model.LinkedResource{Type: linkedType, ID: linkedID},
	})
}

func TestLinkedKind(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"service", "service", model.TypeService},
		{"capitalised service", "Service", model.TypeService},
		{"guideline", "Guideline", model.TypeInteroperabilityRecord},
		{"spaced record", "Interoperability Record", model.TypeInteroperabilityRecord},
		{"joined record", "InteroperabilityRecord", model.TypeInteroperabilityRecord},
		{"resource type", model.TypeInteroperabilityRecord, model.TypeInteroperabilityRecord},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, err := linkedKind(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, kind)
		})
	}

	for _, unknown := range []string{"", "datasource", "provider", "services"} {
		_, err := linkedKind(unknown)
		assert.True(t, common.IsErrBadRequest(err), "type %q", unknown)
	}
}

func TestAdapterLinkedResource(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	provider := approvedProvider(t, r, alice, "adp")
	service := approvedService(t, r, alice, provider.ID)
	guideline := approvedGuideline(t, r, provider.ID)

	tests := []struct {
		name    string
		adapter *model.AdapterBundle
		valid   bool
	}{
		{"existing service", newAdapter("Service adapter", "Service", service.ID), true},
		{"existing guideline", newAdapter("Guideline adapter", "Guideline", guideline.ID), true},
		{"missing service", newAdapter("Ghost adapter", "Service", "21.T15999/missing"), false},
		{"guideline id as service", newAdapter("Crossed adapter", "Service", guideline.ID), false},
		{"unknown type", newAdapter("Odd adapter", "Datasource", service.ID), false},
		{"no linked resource", model.NewBundle(&model.Adapter{Name: "Bare adapter"}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := r.Adapters.Add(ctx, tt.adapter, "", alice)
			if !tt.valid {
				assert.True(t, common.IsErrBadRequest(err), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, model.StatusPendingAdapter, b.Status)
			assert.False(t, b.Active)
			assert.Equal(t, []string{"alice@example.org"}, model.UserEmails(b.Payload.Admins))
		})
	}
}

func TestAdapterAdminsAreResourceAdmins(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	service := approvedService(t, r, alice, approvedProvider(t, r, alice, "own").ID)

	adapter, err := r.Adapters.Add(ctx, newAdapter("Bob's adapter", "Service", service.ID), "", bob)
	require.NoError(t, err)

	admins, err := r.AdapterAdmins(ctx, adapter.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob@example.org"}, model.UserEmails(admins))

	sec := r.Security()
	assert.True(t, sec.IsResourceAdmin(ctx, bob, adapter.ID))
	assert.False(t, sec.IsResourceAdmin(ctx, alice, adapter.ID), "owning the linked service grants nothing")
	assert.NoError(t, sec.Guard(ctx, bob, model.TypeAdapter, adapter.ID))
	assert.True(t, common.IsErrForbidden(sec.Guard(ctx, alice, model.TypeAdapter, adapter.ID)))

	_, err = r.Adapters.Get(ctx, "", adapter.ID, alice)
	assert.True(t, common.IsErrForbidden(err), "pending adapters are hidden from non admins")
	_, err = r.Adapters.Get(ctx, "", adapter.ID, bob)
	assert.NoError(t, err)
}

func TestAdapterVerifyAndPublish(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	service := approvedService(t, r, alice, approvedProvider(t, r, alice, "pub").ID)
	adapter, err := r.Adapters.Add(ctx, newAdapter("Adapter", "service", service.ID), "", alice)
	require.NoError(t, err)

	_, err = r.Adapters.Publish(ctx, adapter.ID, boolPtr(true), alice)
	assert.True(t, common.IsErrBadRequest(err), "pending adapters cannot be activated")

	_, err = r.Adapters.Verify(ctx, adapter.ID, model.StatusApprovedProvider, nil, admin)
	assert.True(t, common.IsErrBadRequest(err), "provider states do not apply to adapters")

	b, err := r.Adapters.Verify(ctx, adapter.ID, model.StatusApprovedAdapter, nil, admin)
	require.NoError(t, err)
	assert.True(t, b.Active)
	assert.Equal(t, model.StatusApprovedAdapter, b.Status)

	b, err = r.Adapters.Publish(ctx, adapter.ID, boolPtr(false), alice)
	require.NoError(t, err)
	assert.False(t, b.Active)
	require.NotNil(t, b.LatestUpdateInfo)
	assert.Equal(t, model.ActionDeactivated, b.LatestUpdateInfo.ActionType)
}

func TestLinkedResourceMaps(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	provider := approvedProvider(t, r, alice, "map")
	service := approvedService(t, r, alice, provider.ID)
	guideline := approvedGuideline(t, r, provider.ID)

	services, err := r.Adapters.LinkedResourceServiceMap(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{service.ID: "Compute"}, services, "public copies are left out")

	guidelines, err := r.Adapters.LinkedResourceGuidelineMap(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{guideline.ID: "Metadata guideline"}, guidelines)
}
