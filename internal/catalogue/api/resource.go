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
	"strings"

	"github.com/madgik/resource-catalogue-go/internal/common"
	"github.com/madgik/resource-catalogue-go/internal/common/facetfilter"
	"github.com/madgik/resource-catalogue-go/internal/common/model"
	"github.com/madgik/resource-catalogue-go/internal/common/security"
	"github.com/madgik/resource-catalogue-go/internal/notifications"
)

// ownedPayload is a payload hanging off a parent entry.
type ownedPayload interface {
	model.Payload
	model.Owned
}

// ResourceManager implements the lifecycle of the resources a provider
// registers: services, training resources, deployable services and
// interoperability records.
type ResourceManager[P ownedPayload] struct {
	lifecycle[P]
	ownerFacet   string
	usesTemplate bool
}

func newResourceManager[P ownedPayload](c *core, kind kindInfo, ownerFacet string, usesTemplate bool) *ResourceManager[P] {
	return &ResourceManager[P]{
		lifecycle:    newLifecycle[P](c, kind),
		ownerFacet:   ownerFacet,
		usesTemplate: usesTemplate,
	}
}

// Add onboards a resource of an approved provider.
func (m *ResourceManager[P]) Add(ctx context.Context, b *model.Bundle[P], catalogueID string, p *security.Principal) (*model.Bundle[P], error) {
	provider, err := m.onboard(ctx, b, catalogueID, p, true)
	if err != nil {
		return nil, err
	}
	if err := m.repo.Add(ctx, b); err != nil {
		return nil, err
	}
	if err := m.afterOnboard(ctx, b, provider); err != nil {
		return nil, err
	}
	m.notify(m.kind.Type, b.ID, notifications.ActionCreate, b)
	return b, nil
}

func (m *ResourceManager[P]) onboard(ctx context.Context, b *model.Bundle[P], catalogueID string, p *security.Principal, generate bool) (*model.ProviderBundle, error) {
	if !b.HasPayload() {
		return nil, common.NewErrBadRequest(fmt.Sprintf("%s payload is required", m.kind.Label))
	}
	provider, err := m.reg.Providers.fetch(ctx, b.Payload.OwnerID())
	if err != nil {
		return nil, err
	}
	if provider.Status != model.StatusApprovedProvider {
		return nil, common.NewErrConflict(fmt.Sprintf("The Provider '%s' you are trying to add a %s to is not yet approved", provider.Payload.Name, m.kind.Label))
	}
	if m.usesTemplate && provider.TemplateStatus == model.TemplatePending {
		return nil, common.NewErrConflict(fmt.Sprintf("The Provider with id %s has already registered a Resource Template.", provider.ID))
	}

	cat := m.catalogueOrDefault(catalogueID)
	b.LoggingInfo = loggingInfoListOrRegistration(b.LoggingInfo, p)
	if m.isDefault(cat) {
		b.Payload.SetCatalogueID(cat)
		if generate {
			id, err := m.ids.Generate(m.kind.Type)
			if err != nil {
				return nil, err
			}
			b.SetID(id)
		}
		if m.usesTemplate && provider.TemplateStatus == model.TemplateApproved {
			b.Active = true
			b.Status = m.kind.Statuses.Approved
			b.LoggingInfo = append(b.LoggingInfo, createLoggingInfo(p, model.LogTypeOnboard, model.ActionApproved, ""))
		} else {
			b.Active = false
			b.Status = m.kind.Statuses.Pending
		}
	} else {
		if err := m.checkCatalogueIDConsistency(ctx, b.Payload.GetCatalogueID(), cat); err != nil {
			return nil, err
		}
		b.Payload.SetCatalogueID(cat)
		if err := validateExternalID(b.Payload.GetID()); err != nil {
			return nil, err
		}
		b.SetID(b.Payload.GetID())
		b.Active = true
		b.Status = m.kind.Statuses.Approved
		b.LoggingInfo = append(b.LoggingInfo, createLoggingInfo(p, model.LogTypeOnboard, model.ActionApproved, ""))
	}
	b.AuditState = model.AuditNotAudited
	b.RefreshLatest()
	b.Metadata = model.NewMetadata(p.FullName(), p.Email)
	b.Identifiers = createIdentifiers(b.ID)
	if err := m.validate(ctx, b.Payload); err != nil {
		return nil, err
	}
	return provider, nil
}

// afterOnboard creates the public copy of approved resources and marks the
// first pending resource of a provider as its template.
func (m *ResourceManager[P]) afterOnboard(ctx context.Context, b *model.Bundle[P], provider *model.ProviderBundle) error {
	if err := m.syncPublic(ctx, b); err != nil {
		return err
	}
	if m.usesTemplate && b.Status == m.kind.Statuses.Pending && provider.TemplateStatus != model.TemplateApproved {
		return m.reg.Providers.setTemplateStatus(ctx, provider.ID, model.TemplatePending)
	}
	return nil
}

// validate checks the schema and the providers a resource references.
func (m *ResourceManager[P]) validate(ctx context.Context, payload P) error {
	if err := m.validator.Validate(payload); err != nil {
		return err
	}
	ids := []string{payload.OwnerID()}
	switch v := any(payload).(type) {
	case *model.Service:
		ids = append(ids, v.ResourceProviders...)
	case *model.TrainingResource:
		ids = append(ids, v.ResourceProviders...)
	}
	for _, id := range ids {
		provider, err := m.reg.Providers.fetch(ctx, id)
		if err != nil {
			return err
		}
		if provider.CatalogueID() != payload.GetCatalogueID() {
			return common.NewErrBadRequest(fmt.Sprintf("Provider '%s' does not belong to the catalogue '%s'", id, payload.GetCatalogueID()))
		}
	}
	return nil
}

// Validate checks a resource payload.
func (m *ResourceManager[P]) Validate(ctx context.Context, payload P) error {
	if payload.GetCatalogueID() == "" {
		payload.SetCatalogueID(m.cfg.ID)
	}
	return m.validate(ctx, payload)
}

// Update replaces the payload of a resource, keeping its catalogue state.
func (m *ResourceManager[P]) Update(ctx context.Context, b *model.Bundle[P], catalogueID, comment string, p *security.Principal) (*model.Bundle[P], error) {
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
	if b.Payload.GetCatalogueID() == "" {
		b.Payload.SetCatalogueID(existing.CatalogueID())
	}
	if b.Payload.GetCatalogueID() != existing.CatalogueID() && !p.IsAdminOrEPOT() {
		return nil, common.NewErrForbidden("You cannot change catalogueId")
	}
	if cat := m.catalogueOrDefault(catalogueID); !m.isDefault(cat) {
		if err := m.checkCatalogueIDConsistency(ctx, b.Payload.GetCatalogueID(), cat); err != nil {
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
	b.TemplateStatus = existing.TemplateStatus
	b.AuditState = model.DetermineAuditState(b.LoggingInfo)

	if m.usesTemplate && existing.Status == m.kind.Statuses.Rejected {
		provider, err := m.reg.Providers.fetch(ctx, b.Payload.OwnerID())
		if err != nil {
			return nil, err
		}
		if provider.TemplateStatus == model.TemplateRejected {
			b.Status = m.kind.Statuses.Pending
			b.Active = false
			if err := m.reg.Providers.setTemplateStatus(ctx, provider.ID, model.TemplatePending); err != nil {
				return nil, err
			}
		}
	}
	if err := m.save(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// versionChanged reports whether an update carries a new version.
func versionChanged(before, after model.Payload) bool {
	version := func(p model.Payload) (string, bool) {
		switch v := p.(type) {
		case *model.Service:
			return v.Version, true
		case *model.DeployableService:
			return v.Version, true
		case *model.Adapter:
			return v.Version, true
		}
		return "", false
	}
	a, ok := version(before)
	b, _ := version(after)
	return ok && a != b
}

// Get returns a resource if the caller may see it.
func (m *ResourceManager[P]) Get(ctx context.Context, catalogueID, id string, p *security.Principal) (*model.Bundle[P], error) {
	b, err := m.getIn(ctx, id, catalogueID)
	if err != nil {
		return nil, err
	}
	if b.Status == m.kind.Statuses.Approved && !b.Draft {
		return b, nil
	}
	if p.IsAdminOrEPOT() || m.security.IsProviderAdmin(ctx, p, b.Payload.OwnerID()) {
		return b, nil
	}
	if !p.Authenticated {
		return nil, common.NewErrUnauthorized(fmt.Sprintf("You cannot view the specific %s", m.kind.Label))
	}
	return nil, common.NewErrForbidden(fmt.Sprintf("You cannot view the specific %s", m.kind.Label))
}

// userProviderIDs returns the ids of the providers the caller administers.
func (m *ResourceManager[P]) userProviderIDs(ctx context.Context, p *security.Principal) ([]string, error) {
	providers, err := m.reg.Providers.GetUserProviders(ctx, p.Email)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(providers))
	for _, pb := range providers {
		ids = append(ids, pb.ID)
	}
	return ids, nil
}

// GetAll browses resources with the visibility of the caller.
func (m *ResourceManager[P]) GetAll(ctx context.Context, ff *facetfilter.FacetFilter, p *security.Principal) (*model.Paging[*model.Bundle[P]], error) {
	var ids []string
	if p.Authenticated && !p.IsAdminOrEPOT() {
		var err error
		if ids, err = m.userProviderIDs(ctx, p); err != nil {
			return nil, err
		}
	}
	return m.browse(ctx, ff, p, func(own *facetfilter.FacetFilter) *facetfilter.FacetFilter {
		if len(ids) == 0 {
			return nil
		}
		return own.SetFilter(m.ownerFacet, ids...)
	})
}

// GetMy lists the resources of the providers the caller administers.
func (m *ResourceManager[P]) GetMy(ctx context.Context, ff *facetfilter.FacetFilter, p *security.Principal) (*model.Paging[*model.Bundle[P]], error) {
	if !p.Authenticated {
		return nil, common.NewErrUnauthorized("full authentication is required to access this resource")
	}
	ids, err := m.userProviderIDs(ctx, p)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return model.NewPaging[*model.Bundle[P]](0, ff.From, nil, nil), nil
	}
	return m.repo.Search(ctx, private(ff.Clone()).SetFilter(m.ownerFacet, ids...))
}

// GetInactive lists the inactive resources.
func (m *ResourceManager[P]) GetInactive(ctx context.Context, ff *facetfilter.FacetFilter) (*model.Paging[*model.Bundle[P]], error) {
	return m.repo.Search(ctx, private(ff.Clone()).SetFilter(facetfilter.KeyActive, "false"))
}

// GetPending lists the resources waiting for approval.
func (m *ResourceManager[P]) GetPending(ctx context.Context, ff *facetfilter.FacetFilter) (*model.Paging[*model.Bundle[P]], error) {
	return m.repo.Search(ctx, private(ff.Clone()).SetFilter(facetfilter.KeyStatus, m.kind.Statuses.Pending))
}

// GetByProvider lists the resources of a provider.
func (m *ResourceManager[P]) GetByProvider(ctx context.Context, ff *facetfilter.FacetFilter, providerID, catalogueID string) (*model.Paging[*model.Bundle[P]], error) {
	ff = private(ff.Clone()).SetFilter(m.ownerFacet, providerID)
	if catalogueID != allCatalogues {
		ff.SetFilter(facetfilter.KeyCatalogueID, m.catalogueOrDefault(catalogueID))
	}
	return m.repo.Search(ctx, ff)
}

// GetByCatalogue lists the resources of a catalogue.
func (m *ResourceManager[P]) GetByCatalogue(ctx context.Context, ff *facetfilter.FacetFilter, catalogueID string) (*model.Paging[*model.Bundle[P]], error) {
	return m.repo.Search(ctx, private(ff.Clone()).SetFilter(facetfilter.KeyCatalogueID, m.catalogueOrDefault(catalogueID)))
}

// IDToNameMap lists the ids and names of the resources of a catalogue,
// keyed like "SERVICES_VOC".
func (m *ResourceManager[P]) IDToNameMap(ctx context.Context, catalogueID string) (map[string][]IDName, error) {
	all, err := m.repo.List(ctx, private(facetfilter.New(m.kind.Type)).
		SetFilter(facetfilter.KeyCatalogueID, m.catalogueOrDefault(catalogueID)))
	if err != nil {
		return nil, err
	}
	entries := make([]IDName, 0, len(all))
	for _, b := range all {
		entries = append(entries, IDName{ID: b.ID, Name: b.Payload.DisplayName()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return map[string][]IDName{strings.ToUpper(m.kind.Type) + "S_VOC": entries}, nil
}

func (m *ResourceManager[P]) rejected(ctx context.Context, ff *facetfilter.FacetFilter, providerID string) (*model.Paging[*model.Bundle[P]], error) {
	return m.repo.Search(ctx, private(ff.Clone()).
		SetFilter(m.ownerFacet, providerID).
		SetFilter(facetfilter.KeyStatus, m.kind.Statuses.Rejected))
}

// Verify moves a resource to one of its onboarding states. Template
// resources carry their state over to the provider.
func (m *ResourceManager[P]) Verify(ctx context.Context, id, status string, active *bool, p *security.Principal) (*model.Bundle[P], error) {
	return m.verify(ctx, id, status, active, p, func(b *model.Bundle[P]) error {
		if !m.usesTemplate {
			return nil
		}
		template := map[string]string{
			m.kind.Statuses.Pending:  model.TemplatePending,
			m.kind.Statuses.Approved: model.TemplateApproved,
			m.kind.Statuses.Rejected: model.TemplateRejected,
		}[status]
		return m.reg.Providers.setTemplateStatus(ctx, b.Payload.OwnerID(), template)
	})
}

// Publish activates or deactivates a resource and its extensions.
func (m *ResourceManager[P]) Publish(ctx context.Context, id string, active *bool, p *security.Principal) (*model.Bundle[P], error) {
	b, err := m.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := m.checkActivation(b); err != nil {
		return nil, err
	}
	act := boolOr(active, false)
	if act {
		provider, err := m.reg.Providers.fetch(ctx, b.Payload.OwnerID())
		if err != nil {
			return nil, err
		}
		if provider.Status != model.StatusApprovedProvider || !provider.Active {
			return nil, common.NewErrConflict(fmt.Sprintf("%s '%s' does not have active Providers", m.kind.Label, b.ID))
		}
	}
	if err := m.setActive(ctx, b, act, p); err != nil {
		return nil, err
	}
	if err := m.reg.cascade(ctx, func(ctx context.Context, d dependent) error {
		return d.activateByParent(ctx, b.ID, act, p)
	}); err != nil {
		return nil, err
	}
	return b, nil
}

// Delete removes a resource with its extensions.
func (m *ResourceManager[P]) Delete(ctx context.Context, id, catalogueID string, p *security.Principal) (*model.Bundle[P], error) {
	b, err := m.getIn(ctx, id, catalogueID)
	if err != nil {
		return nil, err
	}
	if err := m.blockDeletion(b); err != nil {
		return nil, err
	}
	if err := m.delete(ctx, b, p); err != nil {
		return nil, err
	}
	return b, nil
}

func (m *ResourceManager[P]) delete(ctx context.Context, b *model.Bundle[P], p *security.Principal) error {
	if err := m.reg.cascade(ctx, func(ctx context.Context, d dependent) error {
		return d.deleteByParent(ctx, b.ID, p)
	}); err != nil {
		return err
	}
	return m.remove(ctx, b)
}

// Suspend suspends or unsuspends a resource and its extensions.
func (m *ResourceManager[P]) Suspend(ctx context.Context, id, catalogueID string, suspend bool, p *security.Principal) (*model.Bundle[P], error) {
	b, err := m.getIn(ctx, id, catalogueID)
	if err != nil {
		return nil, err
	}
	if err := m.suspensionValidation(ctx, b.Published(), b.CatalogueID(), b.Payload.OwnerID(), suspend); err != nil {
		return nil, err
	}
	if err := m.suspend(ctx, b, suspend, p); err != nil {
		return nil, err
	}
	return b, nil
}

func (m *ResourceManager[P]) suspend(ctx context.Context, b *model.Bundle[P], suspend bool, p *security.Principal) error {
	if err := m.applySuspension(ctx, b, suspend, p); err != nil {
		return err
	}
	return m.reg.cascade(ctx, func(ctx context.Context, d dependent) error {
		return d.suspendByParent(ctx, b.ID, suspend, p)
	})
}

// ChangeProvider moves an approved resource to another provider of the same catalogue.
func (m *ResourceManager[P]) ChangeProvider(ctx context.Context, id, newProviderID, comment string, p *security.Principal) (*model.Bundle[P], error) {
	b, err := m.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Published() {
		return nil, common.NewErrForbidden(fmt.Sprintf("You cannot directly move a Public %s", m.kind.Label))
	}
	if b.Status != m.kind.Statuses.Approved {
		return nil, common.NewErrBadRequest(fmt.Sprintf("You cannot move a %s which is not approved", m.kind.Label))
	}
	oldProviderID := b.Payload.OwnerID()
	if oldProviderID == newProviderID {
		return nil, common.NewErrBadRequest(fmt.Sprintf("%s '%s' already belongs to Provider '%s'", m.kind.Label, id, newProviderID))
	}
	newProvider, err := m.reg.Providers.fetch(ctx, newProviderID)
	if err != nil {
		return nil, err
	}
	if newProvider.CatalogueID() != b.CatalogueID() {
		return nil, common.NewErrBadRequest("You cannot move a Resource to a Provider of another Catalogue")
	}

	b.Payload.SetOwnerID(newProviderID)
	replace := func(ids []string) []string {
		for i, v := range ids {
			if v == oldProviderID {
				ids[i] = newProviderID
			}
		}
		return ids
	}
	switch v := any(b.Payload).(type) {
	case *model.Service:
		v.ResourceProviders = replace(v.ResourceProviders)
	case *model.TrainingResource:
		v.ResourceProviders = replace(v.ResourceProviders)
	}
	if comment == "" {
		comment = fmt.Sprintf("Moved from Provider [%s] to [%s]", oldProviderID, newProviderID)
	}
	b.AppendLoggingInfo(createLoggingInfo(p, model.LogTypeMove, model.ActionMoved, comment))
	if b.Metadata != nil {
		b.Metadata.Terms = nil
	}
	if err := m.save(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// byProvider lists the private resources of a provider.
func (m *ResourceManager[P]) byProvider(ctx context.Context, providerID string, extra func(*facetfilter.FacetFilter)) ([]*model.Bundle[P], error) {
	ff := facetfilter.New(m.kind.Type).
		SetFilter(facetfilter.KeyPublished, "false").
		SetFilter(m.ownerFacet, providerID)
	if extra != nil {
		extra(ff)
	}
	return m.repo.List(ctx, ff)
}

func (m *ResourceManager[P]) deleteByProvider(ctx context.Context, providerID string, p *security.Principal) error {
	all, err := m.byProvider(ctx, providerID, nil)
	if err != nil {
		return err
	}
	for _, b := range all {
		if err := m.delete(ctx, b, p); err != nil {
			return err
		}
	}
	return nil
}

func (m *ResourceManager[P]) activateByProvider(ctx context.Context, providerID string, active bool, p *security.Principal) error {
	all, err := m.byProvider(ctx, providerID, func(ff *facetfilter.FacetFilter) {
		ff.SetFilter(facetfilter.KeyStatus, m.kind.Statuses.Approved)
		ff.SetFilter(facetfilter.KeyDraft, "false")
	})
	if err != nil {
		return err
	}
	for _, b := range all {
		if err := m.setActive(ctx, b, active, p); err != nil {
			return err
		}
		if err := m.reg.cascade(ctx, func(ctx context.Context, d dependent) error {
			return d.activateByParent(ctx, b.ID, active, p)
		}); err != nil {
			return err
		}
	}
	return nil
}

func (m *ResourceManager[P]) suspendByProvider(ctx context.Context, providerID string, suspend bool, p *security.Principal) error {
	all, err := m.byProvider(ctx, providerID, nil)
	if err != nil {
		return err
	}
	for _, b := range all {
		if err := m.suspend(ctx, b, suspend, p); err != nil {
			return err
		}
	}
	return nil
}

func (m *ResourceManager[P]) moveCatalogue(ctx context.Context, providerID, catalogueID string, p *security.Principal) error {
	all, err := m.byProvider(ctx, providerID, nil)
	if err != nil {
		return err
	}
	for _, b := range all {
		if err := m.public.Delete(ctx, b); err != nil {
			return err
		}
		from := b.CatalogueID()
		b.Payload.SetCatalogueID(catalogueID)
		b.AppendLoggingInfo(createLoggingInfo(p, model.LogTypeMove, model.ActionMoved,
			fmt.Sprintf("Moved from catalogue [%s] to [%s]", from, catalogueID)))
		if err := m.save(ctx, b); err != nil {
			return err
		}
		if err := m.reg.cascade(ctx, func(ctx context.Context, d dependent) error {
			return d.moveByParent(ctx, b.ID, catalogueID, p)
		}); err != nil {
			return err
		}
	}
	return nil
}

// AddDraft stores a resource draft.
func (m *ResourceManager[P]) AddDraft(ctx context.Context, b *model.Bundle[P], p *security.Principal) (*model.Bundle[P], error) {
	return m.addDraft(ctx, b, p)
}

// TransformDraft onboards a draft under its existing id.
func (m *ResourceManager[P]) TransformDraft(ctx context.Context, id string, p *security.Principal) (*model.Bundle[P], error) {
	b, err := m.undraft(ctx, id)
	if err != nil {
		return nil, err
	}
	provider, err := m.onboard(ctx, b, b.CatalogueID(), p, false)
	if err != nil {
		return nil, err
	}
	if err := m.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	if err := m.afterOnboard(ctx, b, provider); err != nil {
		return nil, err
	}
	m.notify(m.kind.Type, b.ID, notifications.ActionCreate, b)
	return b, nil
}

// GetMyDrafts lists the drafts of the providers the caller administers.
func (m *ResourceManager[P]) GetMyDrafts(ctx context.Context, ff *facetfilter.FacetFilter, p *security.Principal) (*model.Paging[*model.Bundle[P]], error) {
	if !p.Authenticated {
		return nil, common.NewErrUnauthorized("full authentication is required to access this resource")
	}
	ids, err := m.userProviderIDs(ctx, p)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return model.NewPaging[*model.Bundle[P]](0, ff.From, nil, nil), nil
	}
	return m.repo.Search(ctx, ff.Clone().
		SetFilter(facetfilter.KeyDraft, "true").
		SetFilter(m.ownerFacet, ids...))
}

// GetDraftsByProvider lists the drafts of a provider.
func (m *ResourceManager[P]) GetDraftsByProvider(ctx context.Context, ff *facetfilter.FacetFilter, providerID string) (*model.Paging[*model.Bundle[P]], error) {
	return m.repo.Search(ctx, ff.Clone().
		SetFilter(facetfilter.KeyDraft, "true").
		SetFilter(m.ownerFacet, providerID))
}

// PublicMy lists the public copies of the caller's resources.
func (m *ResourceManager[P]) PublicMy(ctx context.Context, ff *facetfilter.FacetFilter, p *security.Principal) (*model.Paging[*model.Bundle[P]], error) {
	if !p.Authenticated {
		return nil, common.NewErrUnauthorized("full authentication is required to access this resource")
	}
	providers, err := m.reg.Providers.GetUserProviders(ctx, p.Email)
	if err != nil {
		return nil, err
	}
	if len(providers) == 0 {
		return model.NewPaging[*model.Bundle[P]](0, ff.From, nil, nil), nil
	}
	owners := map[string]string{}
	for _, pb := range providers {
		owners[pb.ID] = pb.CatalogueID()
	}
	return m.repo.Search(ctx, ff.Clone().
		SetFilter(facetfilter.KeyPublished, "true").
		SetFilter(m.ownerFacet, m.publicIDs(owners)...))
}
