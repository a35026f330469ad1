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
	"fmt"
	"strings"

	"github.com/madgik/resource-catalogue-go/internal/common"
	"github.com/madgik/resource-catalogue-go/internal/common/facetfilter"
	"github.com/madgik/resource-catalogue-go/internal/common/model"
	"github.com/madgik/resource-catalogue-go/internal/common/security"
	"github.com/madgik/resource-catalogue-go/internal/notifications"
)

// AdapterManager implements the adapter lifecycle. Adapters are owned by
// the admins listed on their payload.
type AdapterManager struct {
	lifecycle[*model.Adapter]
}

func newAdapterManager(c *core) *AdapterManager {
	return &AdapterManager{lifecycle: newLifecycle[*model.Adapter](c, kindAdapter)}
}

// linkedKind maps the linkedResource type of an adapter to a resource type.
func linkedKind(t string) (string, error) {
	switch strings.ToLower(strings.ReplaceAll(t, " ", "_")) {
	case model.TypeService:
		return model.TypeService, nil
	case "guideline", "interoperabilityrecord", model.TypeInteroperabilityRecord:
		return model.TypeInteroperabilityRecord, nil
	}
	return "", common.NewErrBadRequest(fmt.Sprintf("Linked resource type '%s' must be 'Service' or 'Guideline'", t))
}

func (m *AdapterManager) checkLinkedResource(ctx context.Context, a *model.Adapter) error {
	if a.LinkedResource == nil {
		return common.NewErrBadRequest("Adapter linkedResource is required")
	}
	kind, err := linkedKind(a.LinkedResource.Type)
	if err != nil {
		return err
	}
	if _, err := m.store.Get(ctx, kind, a.LinkedResource.ID); err != nil {
		if common.IsErrNotFound(err) {
			return common.NewErrBadRequest(fmt.Sprintf("Linked resource with id '%s' does not exist", a.LinkedResource.ID))
		}
		return err
	}
	return nil
}

// Add onboards an adapter. The caller becomes one of its admins.
func (m *AdapterManager) Add(ctx context.Context, b *model.AdapterBundle, catalogueID string, p *security.Principal) (*model.AdapterBundle, error) {
	if !b.HasPayload() {
		return nil, common.NewErrBadRequest("Adapter payload is required")
	}
	cat := m.catalogueOrDefault(catalogueID)
	b.LoggingInfo = loggingInfoListOrRegistration(b.LoggingInfo, p)
	if m.isDefault(cat) {
		b.Payload.CatalogueID = cat
		id, err := m.ids.Generate(model.TypeAdapter)
		if err != nil {
			return nil, err
		}
		b.SetID(id)
		b.Active = false
		b.Status = model.StatusPendingAdapter
	} else {
		if err := m.checkCatalogueIDConsistency(ctx, b.Payload.CatalogueID, cat); err != nil {
			return nil, err
		}
		b.Payload.CatalogueID = cat
		if err := validateExternalID(b.Payload.ID); err != nil {
			return nil, err
		}
		b.SetID(b.Payload.ID)
		b.Active = true
		b.Status = model.StatusApprovedAdapter
		b.LoggingInfo = append(b.LoggingInfo, createLoggingInfo(p, model.LogTypeOnboard, model.ActionApproved, ""))
	}
	b.AuditState = model.AuditNotAudited
	b.RefreshLatest()
	if p.Email != "" {
		b.Payload.AddAdmin(model.User{Email: lower(p.Email), Name: p.Name, Surname: p.Surname})
	}
	b.Metadata = model.NewMetadata(p.FullName(), p.Email)
	b.Identifiers = createIdentifiers(b.ID)
	if err := m.validate(ctx, b.Payload); err != nil {
		return nil, err
	}
	if err := m.repo.Add(ctx, b); err != nil {
		return nil, err
	}
	if err := m.syncPublic(ctx, b); err != nil {
		return nil, err
	}
	m.notify(model.TypeAdapter, b.ID, notifications.ActionCreate, b)
	return b, nil
}

func (m *AdapterManager) validate(ctx context.Context, a *model.Adapter) error {
	if err := m.validator.Validate(a); err != nil {
		return err
	}
	return m.checkLinkedResource(ctx, a)
}

// Validate checks an adapter payload.
func (m *AdapterManager) Validate(ctx context.Context, a *model.Adapter) error {
	return m.validate(ctx, a)
}

// Update replaces the payload of an adapter, keeping its catalogue state.
func (m *AdapterManager) Update(ctx context.Context, b *model.AdapterBundle, catalogueID, comment string, p *security.Principal) (*model.AdapterBundle, error) {
	if !b.HasPayload() {
		return nil, common.NewErrBadRequest("Adapter payload is required")
	}
	existing, err := m.fetch(ctx, b.Payload.ID)
	if err != nil {
		return nil, err
	}
	if existing.Published() {
		return nil, common.NewErrForbidden("You cannot directly update a Public Adapter")
	}
	if b.Payload.CatalogueID == "" {
		b.Payload.CatalogueID = existing.CatalogueID()
	}
	if b.Payload.CatalogueID != existing.CatalogueID() && !p.IsAdminOrEPOT() {
		return nil, common.NewErrForbidden("You cannot change catalogueId")
	}
	if samePayload(existing.Payload, b.Payload) {
		return existing, nil
	}
	if cat := m.catalogueOrDefault(catalogueID); !m.isDefault(cat) {
		if err := m.checkCatalogueIDConsistency(ctx, b.Payload.CatalogueID, cat); err != nil {
			return nil, err
		}
	}
	if err := m.validate(ctx, b.Payload); err != nil {
		return nil, err
	}
	action := model.ActionUpdated
	if versionChanged(existing.Payload, b.Payload) {
		action = model.ActionUpdatedVersion
	}
	b.ID = existing.ID
	b.Metadata = model.UpdateMetadata(existing.Metadata, p.FullName(), p.Email)
	b.Identifiers = existing.Identifiers
	b.LoggingInfo = existing.LoggingInfo
	b.AppendLoggingInfo(createLoggingInfo(p, model.LogTypeUpdate, action, comment))
	b.Active = existing.Active
	b.Status = existing.Status
	b.Suspended = existing.Suspended
	b.Draft = existing.Draft
	b.AuditState = model.DetermineAuditState(b.LoggingInfo)
	if existing.Status == model.StatusRejectedAdapter {
		b.Status = model.StatusPendingAdapter
	}
	if err := m.save(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Get returns an adapter if the caller may see it.
func (m *AdapterManager) Get(ctx context.Context, catalogueID, id string, p *security.Principal) (*model.AdapterBundle, error) {
	b, err := m.getIn(ctx, id, catalogueID)
	if err != nil {
		return nil, err
	}
	if b.Status == model.StatusApprovedAdapter || p.IsAdminOrEPOT() || b.Payload.HasAdmin(p.Email) {
		return b, nil
	}
	if !p.Authenticated {
		return nil, common.NewErrUnauthorized("You cannot view the specific Adapter")
	}
	return nil, common.NewErrForbidden("You cannot view the specific Adapter")
}

// GetAll browses adapters with the visibility of the caller.
func (m *AdapterManager) GetAll(ctx context.Context, ff *facetfilter.FacetFilter, p *security.Principal) (*model.Paging[*model.AdapterBundle], error) {
	return m.browse(ctx, ff, p, func(own *facetfilter.FacetFilter) *facetfilter.FacetFilter {
		return own.SetFilter("admins", lower(p.Email))
	})
}

// GetMy lists the adapters the caller administers.
func (m *AdapterManager) GetMy(ctx context.Context, ff *facetfilter.FacetFilter, p *security.Principal) (*model.Paging[*model.AdapterBundle], error) {
	if !p.Authenticated {
		return nil, common.NewErrUnauthorized("full authentication is required to access this resource")
	}
	return m.repo.Search(ctx, private(ff.Clone()).SetFilter("admins", lower(p.Email)))
}

// Delete removes an adapter and its public copy.
func (m *AdapterManager) Delete(ctx context.Context, id, catalogueID string, p *security.Principal) (*model.AdapterBundle, error) {
	b, err := m.getIn(ctx, id, catalogueID)
	if err != nil {
		return nil, err
	}
	if err := m.blockDeletion(b); err != nil {
		return nil, err
	}
	if err := m.remove(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Verify moves an adapter to an Adapter state.
func (m *AdapterManager) Verify(ctx context.Context, id, status string, active *bool, p *security.Principal) (*model.AdapterBundle, error) {
	return m.verify(ctx, id, status, active, p, nil)
}

// Publish activates or deactivates an adapter.
func (m *AdapterManager) Publish(ctx context.Context, id string, active *bool, p *security.Principal) (*model.AdapterBundle, error) {
	b, err := m.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := m.checkActivation(b); err != nil {
		return nil, err
	}
	if err := m.setActive(ctx, b, boolOr(active, false), p); err != nil {
		return nil, err
	}
	return b, nil
}

// Suspend suspends or unsuspends an adapter.
func (m *AdapterManager) Suspend(ctx context.Context, id, catalogueID string, suspend bool, p *security.Principal) (*model.AdapterBundle, error) {
	b, err := m.getIn(ctx, id, catalogueID)
	if err != nil {
		return nil, err
	}
	if err := m.suspensionValidation(ctx, b.Published(), b.CatalogueID(), "", suspend); err != nil {
		return nil, err
	}
	if err := m.applySuspension(ctx, b, suspend, p); err != nil {
		return nil, err
	}
	return b, nil
}

// PublicMy lists the public copies of the caller's adapters.
func (m *AdapterManager) PublicMy(ctx context.Context, ff *facetfilter.FacetFilter, p *security.Principal) (*model.Paging[*model.AdapterBundle], error) {
	if !p.Authenticated {
		return nil, common.NewErrUnauthorized("full authentication is required to access this resource")
	}
	return m.repo.Search(ctx, ff.Clone().
		SetFilter(facetfilter.KeyPublished, "true").
		SetFilter("admins", lower(p.Email)))
}

// LinkedResourceServiceMap maps service ids to names for the adapter selectors.
func (m *AdapterManager) LinkedResourceServiceMap(ctx context.Context) (map[string]string, error) {
	return m.nameMap(ctx, model.TypeService)
}

// LinkedResourceGuidelineMap maps interoperability record ids to titles.
func (m *AdapterManager) LinkedResourceGuidelineMap(ctx context.Context) (map[string]string, error) {
	return m.nameMap(ctx, model.TypeInteroperabilityRecord)
}

func (m *AdapterManager) nameMap(ctx context.Context, kind string) (map[string]string, error) {
	ff := private(facetfilter.New(kind)).WithQuantity(maxQuantity)
	page, err := m.store.Search(ctx, ff)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(page.Records))
	for _, rec := range page.Records {
		out[rec.ID] = rec.Name
	}
	return out, nil
}
