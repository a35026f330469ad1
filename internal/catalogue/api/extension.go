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
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/madgik/resource-catalogue-go/internal/common"
	"github.com/madgik/resource-catalogue-go/internal/common/facetfilter"
	"github.com/madgik/resource-catalogue-go/internal/common/model"
	"github.com/madgik/resource-catalogue-go/internal/common/security"
	"github.com/madgik/resource-catalogue-go/internal/notifications"
	"github.com/madgik/resource-catalogue-go/internal/persistence"
)

// extensionSpec describes how an extension hangs off its parent.
type extensionSpec struct {
	kind        kindInfo
	parentKey   string
	parentKinds []string
	// single allows at most one extension per parent.
	single bool
}

// ExtensionManager implements the entries attached to a resource:
// datasources, helpdesks, monitorings, interoperability links and
// configuration templates with their instances.
type ExtensionManager[P ownedPayload] struct {
	lifecycle[P]
	spec  extensionSpec
	check func(ctx context.Context, b *model.Bundle[P]) error
}

func newExtensionManager[P ownedPayload](c *core, spec extensionSpec) *ExtensionManager[P] {
	return &ExtensionManager[P]{lifecycle: newLifecycle[P](c, spec.kind), spec: spec}
}

// parent loads the private entry an extension belongs to.
func (m *ExtensionManager[P]) parent(ctx context.Context, id string) (*persistence.Record, error) {
	if id == "" {
		return nil, common.NewErrBadRequest(fmt.Sprintf("%s must reference a parent through '%s'", m.kind.Label, m.spec.parentKey))
	}
	rec, err := m.findRecord(ctx, id, m.spec.parentKinds...)
	if err != nil {
		return nil, err
	}
	if rec.Published {
		return nil, common.NewErrBadRequest(fmt.Sprintf("%s cannot be attached to the public entry [%s]", m.kind.Label, id))
	}
	return rec, nil
}

func (m *ExtensionManager[P]) byParent(ctx context.Context, parentID string) ([]*model.Bundle[P], error) {
	return m.repo.List(ctx, facetfilter.New(m.kind.Type).
		SetFilter(facetfilter.KeyPublished, "false").
		SetFilter(m.spec.parentKey, parentID))
}

func (m *ExtensionManager[P]) validate(ctx context.Context, b *model.Bundle[P]) error {
	if err := m.validator.Validate(b.Payload); err != nil {
		return err
	}
	if m.check != nil {
		return m.check(ctx, b)
	}
	return nil
}

// Add attaches an extension to its parent. The extension inherits the
// catalogue and the activation of the parent.
func (m *ExtensionManager[P]) Add(ctx context.Context, b *model.Bundle[P], p *security.Principal) (*model.Bundle[P], error) {
	if !b.HasPayload() {
		return nil, common.NewErrBadRequest(fmt.Sprintf("%s payload is required", m.kind.Label))
	}
	parent, err := m.parent(ctx, b.Payload.OwnerID())
	if err != nil {
		return nil, err
	}
	if m.spec.single {
		existing, err := m.byParent(ctx, parent.ID)
		if err != nil {
			return nil, err
		}
		if len(existing) > 0 {
			return nil, common.NewErrConflict(fmt.Sprintf("%s with id [%s] is already registered for [%s]", m.kind.Label, existing[0].ID, parent.ID))
		}
	}
	id, err := m.ids.Generate(m.kind.Type)
	if err != nil {
		return nil, err
	}
	b.SetID(id)
	b.Payload.SetCatalogueID(m.catalogueOrDefault(parent.CatalogueID))
	b.Active = parent.Active
	b.Status = m.kind.Statuses.Pending
	b.AuditState = model.AuditNotAudited
	b.Metadata = model.NewMetadata(p.FullName(), p.Email)
	b.Identifiers = createIdentifiers(b.ID)
	b.LoggingInfo = loggingInfoListOrRegistration(b.LoggingInfo, p)
	b.RefreshLatest()
	if err := m.validate(ctx, b); err != nil {
		return nil, err
	}
	if err := m.repo.Add(ctx, b); err != nil {
		return nil, err
	}
	if err := m.syncPublic(ctx, b); err != nil {
		return nil, err
	}
	m.notify(m.kind.Type, b.ID, notifications.ActionCreate, b)
	return b, nil
}

// Update replaces the payload of an extension. The parent cannot change.
func (m *ExtensionManager[P]) Update(ctx context.Context, b *model.Bundle[P], comment string, p *security.Principal) (*model.Bundle[P], error) {
	if !b.HasPayload() {
		return nil, common.NewErrBadRequest(fmt.Sprintf("%s payload is required", m.kind.Label))
	}
	existing, err := m.fetch(ctx, b.Payload.GetID())
	if err != nil {
		return nil, err
	}
	if existing.Published() {
		return nil, common.NewErrForbidden(fmt.Sprintf("You cannot directly update a Public %s", m.kind.Label))
	}
	if b.Payload.OwnerID() != existing.Payload.OwnerID() {
		return nil, common.NewErrBadRequest(fmt.Sprintf("You cannot change the '%s' of a %s", m.spec.parentKey, m.kind.Label))
	}
	b.Payload.SetCatalogueID(existing.CatalogueID())
	if samePayload(existing.Payload, b.Payload) {
		return existing, nil
	}
	if err := m.validate(ctx, b); err != nil {
		return nil, err
	}
	b.ID = existing.ID
	b.Metadata = model.UpdateMetadata(existing.Metadata, p.FullName(), p.Email)
	b.Identifiers = existing.Identifiers
	b.LoggingInfo = existing.LoggingInfo
	b.AppendLoggingInfo(createLoggingInfo(p, model.LogTypeUpdate, model.ActionUpdated, comment))
	b.Active = existing.Active
	b.Status = existing.Status
	b.Suspended = existing.Suspended
	b.AuditState = model.DetermineAuditState(b.LoggingInfo)
	if m.kind.HasStatuses() && existing.Status == m.kind.Statuses.Rejected {
		b.Status = m.kind.Statuses.Pending
	}
	if err := m.save(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Get returns an extension by id.
func (m *ExtensionManager[P]) Get(ctx context.Context, id string) (*model.Bundle[P], error) {
	return m.fetch(ctx, id)
}

// GetByParent returns the extension of a parent.
func (m *ExtensionManager[P]) GetByParent(ctx context.Context, parentID, catalogueID string) (*model.Bundle[P], error) {
	ff := facetfilter.New(m.kind.Type).
		SetFilter(facetfilter.KeyPublished, "false").
		SetFilter(m.spec.parentKey, parentID)
	if catalogueID != allCatalogues {
		ff.SetFilter(facetfilter.KeyCatalogueID, m.catalogueOrDefault(catalogueID))
	}
	found, err := m.repo.List(ctx, ff)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, common.NewErrNotFound(fmt.Sprintf("%s of [%s] does not exist.", m.kind.Label, parentID))
	}
	return found[0], nil
}

// ListByParent lists the extensions of a parent.
func (m *ExtensionManager[P]) ListByParent(ctx context.Context, ff *facetfilter.FacetFilter, parentID string) (*model.Paging[*model.Bundle[P]], error) {
	return m.repo.Search(ctx, ff.Clone().
		SetFilter(facetfilter.KeyPublished, "false").
		SetFilter(m.spec.parentKey, parentID))
}

// ListByFacet lists the private extensions whose facet key holds value.
func (m *ExtensionManager[P]) ListByFacet(ctx context.Context, key, value string) ([]*model.Bundle[P], error) {
	return m.repo.List(ctx, facetfilter.New(m.kind.Type).
		SetFilter(facetfilter.KeyPublished, "false").
		SetFilter(key, value))
}

// GetAll lists the private extensions.
func (m *ExtensionManager[P]) GetAll(ctx context.Context, ff *facetfilter.FacetFilter) (*model.Paging[*model.Bundle[P]], error) {
	return m.repo.Search(ctx, ff.Clone().SetFilter(facetfilter.KeyPublished, "false"))
}

// Delete removes an extension with its public copy.
func (m *ExtensionManager[P]) Delete(ctx context.Context, id string) (*model.Bundle[P], error) {
	b, err := m.fetch(ctx, id)
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

// Verify moves a datasource to one of its onboarding states.
func (m *ExtensionManager[P]) Verify(ctx context.Context, id, status string, active *bool, p *security.Principal) (*model.Bundle[P], error) {
	return m.verify(ctx, id, status, active, p, nil)
}

// DeleteByParent removes every extension of a parent.
func (m *ExtensionManager[P]) DeleteByParent(ctx context.Context, parentID string, p *security.Principal) error {
	return m.deleteByParent(ctx, parentID, p)
}

// dependent is implemented by the extension managers so that changes of a
// resource reach its extensions.
type dependent interface {
	activateByParent(ctx context.Context, parentID string, active bool, p *security.Principal) error
	deleteByParent(ctx context.Context, parentID string, p *security.Principal) error
	suspendByParent(ctx context.Context, parentID string, suspend bool, p *security.Principal) error
	moveByParent(ctx context.Context, parentID, catalogueID string, p *security.Principal) error
}

func (m *ExtensionManager[P]) activateByParent(ctx context.Context, parentID string, active bool, p *security.Principal) error {
	all, err := m.byParent(ctx, parentID)
	if err != nil {
		return err
	}
	for _, b := range all {
		if b.Active == active || b.Draft {
			continue
		}
		if m.kind.HasStatuses() && b.Status != m.kind.Statuses.Approved && active {
			continue
		}
		if err := m.setActive(ctx, b, active, p); err != nil {
			return err
		}
	}
	return nil
}

func (m *ExtensionManager[P]) deleteByParent(ctx context.Context, parentID string, _ *security.Principal) error {
	all, err := m.byParent(ctx, parentID)
	if err != nil {
		return err
	}
	for _, b := range all {
		if err := m.remove(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

func (m *ExtensionManager[P]) suspendByParent(ctx context.Context, parentID string, suspend bool, p *security.Principal) error {
	all, err := m.byParent(ctx, parentID)
	if err != nil {
		return err
	}
	for _, b := range all {
		if b.Suspended == suspend {
			continue
		}
		if err := m.applySuspension(ctx, b, suspend, p); err != nil {
			return err
		}
	}
	return nil
}

func (m *ExtensionManager[P]) moveByParent(ctx context.Context, parentID, catalogueID string, p *security.Principal) error {
	all, err := m.byParent(ctx, parentID)
	if err != nil {
		return err
	}
	for _, b := range all {
		if m.public != nil {
			if err := m.public.Delete(ctx, b); err != nil {
				return err
			}
		}
		from := b.CatalogueID()
		b.Payload.SetCatalogueID(catalogueID)
		b.AppendLoggingInfo(createLoggingInfo(p, model.LogTypeMove, model.ActionMoved,
			fmt.Sprintf("Moved from catalogue [%s] to [%s]", from, catalogueID)))
		if err := m.save(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) dependents() []dependent {
	return []dependent{
		r.Datasources,
		r.Helpdesks,
		r.Monitorings,
		r.ResourceInteroperabilityRecords,
		r.ConfigurationTemplates,
		r.ConfigurationTemplateInstances,
	}
}

// cascade applies fn to every extension manager concurrently.
func (r *Registry) cascade(ctx context.Context, fn func(context.Context, dependent) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, d := range r.dependents() {
		g.Go(func() error { return fn(gctx, d) })
	}
	return g.Wait()
}

// checkResourceInteroperabilityRecord requires approved interoperability
// records of the catalogue of the resource.
func (r *Registry) checkResourceInteroperabilityRecord(ctx context.Context, b *model.ResourceInteroperabilityRecordBundle) error {
	for _, id := range b.Payload.InteroperabilityRecordIDs {
		ir, err := r.Guidelines.fetch(ctx, id)
		if err != nil {
			return err
		}
		if ir.Status != model.StatusApprovedInteroperabilityRecord {
			return common.NewErrConflict(fmt.Sprintf("Interoperability Record with id [%s] is not yet approved", id))
		}
		if ir.CatalogueID() != b.CatalogueID() {
			return common.NewErrBadRequest(fmt.Sprintf("Interoperability Record with id [%s] does not belong to the catalogue [%s]", id, b.CatalogueID()))
		}
	}
	return nil
}

// checkConfigurationTemplateInstance validates an instance against the
// form model of its template.
func (r *Registry) checkConfigurationTemplateInstance(ctx context.Context, b *model.ConfigurationTemplateInstanceBundle) error {
	template, err := r.ConfigurationTemplates.fetch(ctx, b.Payload.ConfigurationTemplateID)
	if err != nil {
		if common.IsErrNotFound(err) {
			return common.NewErrBadRequest(fmt.Sprintf("Configuration Template with id '%s' does not exist", b.Payload.ConfigurationTemplateID))
		}
		return err
	}
	if len(template.Payload.FormModel) == 0 {
		return nil
	}
	return r.validator.ValidateAgainst(template.Payload.FormModel, b.Payload.Payload)
}

// ConfigurationTemplatesByInteroperabilityRecord groups the configuration
// templates by the interoperability record they belong to.
func (r *Registry) ConfigurationTemplatesByInteroperabilityRecord(ctx context.Context) (map[string][]*model.ConfigurationTemplate, error) {
	all, err := r.ConfigurationTemplates.repo.List(ctx, facetfilter.New(model.TypeConfigurationTemplate).
		SetFilter(facetfilter.KeyPublished, "false"))
	if err != nil {
		return nil, err
	}
	out := map[string][]*model.ConfigurationTemplate{}
	for _, b := range all {
		irID := b.Payload.InteroperabilityRecordID
		out[irID] = append(out[irID], b.Payload)
	}
	for _, list := range out {
		sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	}
	return out, nil
}
