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
)

// ProviderManager implements the provider onboarding workflow.
type ProviderManager struct {
	lifecycle[*model.Provider]
}

func newProviderManager(c *core) *ProviderManager {
	return &ProviderManager{lifecycle: newLifecycle[*model.Provider](c, kindProvider)}
}

// providerResources are the managers of the resources a provider owns.
type providerResources interface {
	deleteByProvider(ctx context.Context, providerID string, p *security.Principal) error
	activateByProvider(ctx context.Context, providerID string, active bool, p *security.Principal) error
	suspendByProvider(ctx context.Context, providerID string, suspend bool, p *security.Principal) error
	moveCatalogue(ctx context.Context, providerID, catalogueID string, p *security.Principal) error
}

func (m *ProviderManager) resources() []providerResources {
	return []providerResources{m.reg.Services, m.reg.Trainings, m.reg.Deployables, m.reg.Guidelines}
}

// cascade runs fn concurrently over every resource manager.
func (m *ProviderManager) cascade(ctx context.Context, fn func(context.Context, providerResources) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, rm := range m.resources() {
		rm := rm
		g.Go(func() error { return fn(gctx, rm) })
	}
	return g.Wait()
}

// Add onboards a provider in catalogueID.
func (m *ProviderManager) Add(ctx context.Context, b *model.ProviderBundle, catalogueID string, p *security.Principal) (*model.ProviderBundle, error) {
	if err := m.onboard(ctx, b, catalogueID, p, true); err != nil {
		return nil, err
	}
	if err := m.repo.Add(ctx, b); err != nil {
		return nil, err
	}
	if err := m.syncPublic(ctx, b); err != nil {
		return nil, err
	}
	m.notify(model.TypeProvider, b.ID, notifications.ActionCreate, b)
	return b, nil
}

func (m *ProviderManager) onboard(ctx context.Context, b *model.ProviderBundle, catalogueID string, p *security.Principal, generate bool) error {
	if !b.HasPayload() {
		return common.NewErrBadRequest("Provider payload is required")
	}
	cat := m.catalogueOrDefault(catalogueID)
	if m.isDefault(cat) {
		b.Payload.CatalogueID = cat
		if generate {
			id, err := m.ids.Generate(model.TypeProvider)
			if err != nil {
				return err
			}
			b.SetID(id)
		}
		b.Active = false
		b.Status = model.StatusPendingProvider
		b.TemplateStatus = model.TemplateNoStatus
		b.LoggingInfo = loggingInfoListOrRegistration(b.LoggingInfo, p)
	} else {
		if err := m.checkCatalogueIDConsistency(ctx, b.Payload.CatalogueID, cat); err != nil {
			return err
		}
		b.Payload.CatalogueID = cat
		if err := validateExternalID(b.Payload.ID); err != nil {
			return err
		}
		b.SetID(b.Payload.ID)
		b.Active = true
		b.Status = model.StatusApprovedProvider
		b.TemplateStatus = model.TemplateApproved
		b.LoggingInfo = loggingInfoListOrRegistration(b.LoggingInfo, p)
		b.LoggingInfo = append(b.LoggingInfo, createLoggingInfo(p, model.LogTypeOnboard, model.ActionApproved, ""))
	}
	b.AuditState = model.AuditNotAudited
	b.RefreshLatest()
	if p.Email != "" {
		b.Payload.AddUser(model.User{Email: lower(p.Email), Name: p.Name, Surname: p.Surname})
	}
	b.Metadata = model.NewMetadata(p.FullName(), p.Email)
	b.Identifiers = createIdentifiers(b.ID)
	if err := m.validator.Validate(b.Payload); err != nil {
		return err
	}
	return m.checkAbbreviation(ctx, b.Payload)
}

// checkAbbreviation keeps provider abbreviations unique within a catalogue.
func (m *ProviderManager) checkAbbreviation(ctx context.Context, provider *model.Provider) error {
	ff := private(facetfilter.New(model.TypeProvider)).
		SetFilter("abbreviation", provider.Abbreviation).
		SetFilter(facetfilter.KeyCatalogueID, provider.CatalogueID)
	same, err := m.repo.List(ctx, ff)
	if err != nil {
		return err
	}
	for _, other := range same {
		if other.ID != provider.ID {
			return common.NewErrConflict(fmt.Sprintf("Provider with abbreviation '%s' already exists in the catalogue '%s'", provider.Abbreviation, provider.CatalogueID))
		}
	}
	return nil
}

// Update replaces the payload of a provider, keeping its catalogue state.
func (m *ProviderManager) Update(ctx context.Context, b *model.ProviderBundle, catalogueID, comment string, p *security.Principal) (*model.ProviderBundle, error) {
	if !b.HasPayload() {
		return nil, common.NewErrBadRequest("Provider payload is required")
	}
	existing, err := m.fetch(ctx, b.Payload.ID)
	if err != nil {
		return nil, err
	}
	if existing.Published() {
		return nil, common.NewErrForbidden("You cannot directly update a Public Provider")
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
	if err := m.validator.Validate(b.Payload); err != nil {
		return nil, err
	}
	if err := m.checkAbbreviation(ctx, b.Payload); err != nil {
		return nil, err
	}

	b.ID = existing.ID
	b.Metadata = model.UpdateMetadata(existing.Metadata, p.FullName(), p.Email)
	b.LoggingInfo = existing.LoggingInfo
	b.AppendLoggingInfo(createLoggingInfo(p, model.LogTypeUpdate, model.ActionUpdated, comment))
	b.Identifiers = existing.Identifiers
	b.Active = existing.Active
	b.Status = existing.Status
	b.TemplateStatus = existing.TemplateStatus
	b.Suspended = existing.Suspended
	b.Draft = existing.Draft
	b.AuditState = model.DetermineAuditState(b.LoggingInfo)
	if existing.Status == model.StatusRejectedProvider {
		b.Status = model.StatusPendingProvider
	}
	if err := m.save(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Get returns a provider if the caller may see it.
func (m *ProviderManager) Get(ctx context.Context, catalogueID, id string, p *security.Principal) (*model.ProviderBundle, error) {
	b, err := m.getIn(ctx, id, catalogueID)
	if err != nil {
		return nil, err
	}
	if p.IsAdminOrEPOT() || m.security.UserIsProviderAdmin(p, b) || b.Status == model.StatusApprovedProvider {
		return b, nil
	}
	if !p.Authenticated {
		return nil, common.NewErrUnauthorized("You cannot view the specific Provider")
	}
	return nil, common.NewErrForbidden("You cannot view the specific Provider")
}

// GetAll browses providers with the visibility of the caller.
func (m *ProviderManager) GetAll(ctx context.Context, ff *facetfilter.FacetFilter, p *security.Principal) (*model.Paging[*model.ProviderBundle], error) {
	return m.browse(ctx, ff, p, func(own *facetfilter.FacetFilter) *facetfilter.FacetFilter {
		return own.SetFilter("users", lower(p.Email))
	})
}

// GetMy lists the providers the caller administers.
func (m *ProviderManager) GetMy(ctx context.Context, ff *facetfilter.FacetFilter, p *security.Principal) (*model.Paging[*model.ProviderBundle], error) {
	if !p.Authenticated {
		return nil, common.NewErrUnauthorized("full authentication is required to access this resource")
	}
	ff = private(ff.Clone()).SetFilter("users", lower(p.Email))
	if len(ff.OrderBy) == 0 {
		ff.WithOrder(facetfilter.OrderName, false)
	}
	return m.repo.Search(ctx, ff)
}

// GetInactive lists the inactive providers.
func (m *ProviderManager) GetInactive(ctx context.Context, ff *facetfilter.FacetFilter) (*model.Paging[*model.ProviderBundle], error) {
	return m.repo.Search(ctx, private(ff.Clone()).SetFilter(facetfilter.KeyActive, "false"))
}

// GetUserProviders returns the providers listing email as a user.
func (m *ProviderManager) GetUserProviders(ctx context.Context, email string) ([]*model.ProviderBundle, error) {
	if email == "" {
		return nil, nil
	}
	return m.repo.List(ctx, private(facetfilter.New(model.TypeProvider)).SetFilter("users", lower(email)))
}

// Delete removes a provider with every resource it owns.
func (m *ProviderManager) Delete(ctx context.Context, id, catalogueID string, p *security.Principal) (*model.ProviderBundle, error) {
	b, err := m.getIn(ctx, id, catalogueID)
	if err != nil {
		return nil, err
	}
	if err := m.blockDeletion(b); err != nil {
		return nil, err
	}
	err = m.cascade(ctx, func(ctx context.Context, rm providerResources) error {
		return rm.deleteByProvider(ctx, b.ID, p)
	})
	if err != nil {
		return nil, err
	}
	if err := m.remove(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Verify moves a provider to a Provider state.
func (m *ProviderManager) Verify(ctx context.Context, id, status string, active *bool, p *security.Principal) (*model.ProviderBundle, error) {
	return m.verify(ctx, id, status, active, p, nil)
}

// Publish activates or deactivates a provider and its approved resources.
func (m *ProviderManager) Publish(ctx context.Context, id string, active *bool, p *security.Principal) (*model.ProviderBundle, error) {
	b, err := m.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := m.checkActivation(b); err != nil {
		return nil, err
	}
	act := boolOr(active, false)
	if err := m.setActive(ctx, b, act, p); err != nil {
		return nil, err
	}
	err = m.cascade(ctx, func(ctx context.Context, rm providerResources) error {
		return rm.activateByProvider(ctx, b.ID, act, p)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Suspend suspends or unsuspends a provider and its resources.
func (m *ProviderManager) Suspend(ctx context.Context, id, catalogueID string, suspend bool, p *security.Principal) (*model.ProviderBundle, error) {
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
	err = m.cascade(ctx, func(ctx context.Context, rm providerResources) error {
		return rm.suspendByProvider(ctx, b.ID, suspend, p)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// HasAdminAcceptedTerms reports whether the caller accepted the terms of a
// provider they administer. Non-administrators are not asked.
func (m *ProviderManager) HasAdminAcceptedTerms(ctx context.Context, id string, p *security.Principal) (bool, error) {
	b, err := m.fetch(ctx, id)
	if err != nil {
		return false, err
	}
	if !b.Payload.HasUser(p.Email) {
		return true, nil
	}
	return b.Metadata.HasAcceptedTerms(p.Email), nil
}

// AdminAcceptedTerms records that the caller accepted the terms.
func (m *ProviderManager) AdminAcceptedTerms(ctx context.Context, id string, p *security.Principal) error {
	b, err := m.fetch(ctx, id)
	if err != nil {
		return err
	}
	if b.Metadata.HasAcceptedTerms(p.Email) {
		return nil
	}
	if b.Metadata == nil {
		b.Metadata = &model.Metadata{}
	}
	b.Metadata.Terms = append(b.Metadata.Terms, p.Email)
	return m.save(ctx, b)
}

// ProviderIDToNameMap lists the providers of a catalogue together with the
// public providers of the other catalogues.
func (m *ProviderManager) ProviderIDToNameMap(ctx context.Context, catalogueID string) (map[string][]IDName, error) {
	cat := m.catalogueOrDefault(catalogueID)
	own, err := m.repo.List(ctx, private(facetfilter.New(model.TypeProvider)).SetFilter(facetfilter.KeyCatalogueID, cat))
	if err != nil {
		return nil, err
	}
	others, err := m.repo.List(ctx, facetfilter.New(model.TypeProvider).
		SetFilter(facetfilter.KeyPublished, "true").
		SetFilter(facetfilter.KeyCatalogueID, "!"+cat))
	if err != nil {
		return nil, err
	}
	entries := make([]IDName, 0, len(own)+len(others))
	for _, b := range append(own, others...) {
		entries = append(entries, IDName{ID: b.ID, Name: b.Payload.Name})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return map[string][]IDName{"PROVIDERS_VOC": entries}, nil
}

// ChangeCatalogue moves a provider and its resources to another catalogue.
func (m *ProviderManager) ChangeCatalogue(ctx context.Context, catalogueID, providerID, newCatalogueID string, p *security.Principal) (*model.ProviderBundle, error) {
	b, err := m.getIn(ctx, providerID, catalogueID)
	if err != nil {
		return nil, err
	}
	if b.Published() {
		return nil, common.NewErrForbidden("You cannot directly move a Public Provider")
	}
	if _, err := m.reg.Catalogues.fetch(ctx, newCatalogueID); err != nil {
		return nil, err
	}
	if err := m.public.Delete(ctx, b); err != nil {
		return nil, err
	}
	b.Payload.CatalogueID = newCatalogueID
	b.AppendLoggingInfo(createLoggingInfo(p, model.LogTypeMove, model.ActionMoved,
		fmt.Sprintf("Moved from catalogue [%s] to [%s]", m.catalogueOrDefault(catalogueID), newCatalogueID)))
	if err := m.save(ctx, b); err != nil {
		return nil, err
	}
	err = m.cascade(ctx, func(ctx context.Context, rm providerResources) error {
		return rm.moveCatalogue(ctx, b.ID, newCatalogueID, p)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// GetRejectedResources lists the rejected services or training resources of a provider.
func (m *ProviderManager) GetRejectedResources(ctx context.Context, ff *facetfilter.FacetFilter, providerID, resourceType string) (interface{}, error) {
	switch resourceType {
	case model.TypeService:
		return m.reg.Services.rejected(ctx, ff, providerID)
	case model.TypeTrainingResource:
		return m.reg.Trainings.rejected(ctx, ff, providerID)
	}
	return nil, common.NewErrBadRequest(fmt.Sprintf("resourceType must be '%s' or '%s'", model.TypeService, model.TypeTrainingResource))
}

// GetInactiveServices lists the inactive services of a provider.
func (m *ProviderManager) GetInactiveServices(ctx context.Context, providerID string) ([]*model.ServiceBundle, error) {
	ff := private(facetfilter.New(model.TypeService)).
		SetFilter("resource_organisation", providerID).
		SetFilter(facetfilter.KeyActive, "false")
	return m.reg.Services.repo.List(ctx, ff)
}

// setTemplateStatus records the onboarding state of a provider's first resource.
// An approved template activates the provider.
func (m *ProviderManager) setTemplateStatus(ctx context.Context, providerID, status string) error {
	b, err := m.fetch(ctx, providerID)
	if err != nil {
		return err
	}
	if b.TemplateStatus == status && (status != model.TemplateApproved || b.Active) {
		return nil
	}
	b.TemplateStatus = status
	if status == model.TemplateApproved {
		b.Active = true
	}
	return m.save(ctx, b)
}

// AddDraft stores a provider draft owned by the caller.
func (m *ProviderManager) AddDraft(ctx context.Context, b *model.ProviderBundle, p *security.Principal) (*model.ProviderBundle, error) {
	if b.HasPayload() && p.Email != "" {
		b.Payload.AddUser(model.User{Email: lower(p.Email), Name: p.Name, Surname: p.Surname})
	}
	return m.addDraft(ctx, b, p)
}

// TransformDraft onboards a draft under its existing id.
func (m *ProviderManager) TransformDraft(ctx context.Context, id string, p *security.Principal) (*model.ProviderBundle, error) {
	b, err := m.undraft(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := m.onboard(ctx, b, b.CatalogueID(), p, false); err != nil {
		return nil, err
	}
	if err := m.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	m.notify(model.TypeProvider, b.ID, notifications.ActionCreate, b)
	return b, nil
}

// GetMyDrafts lists the provider drafts of the caller.
func (m *ProviderManager) GetMyDrafts(ctx context.Context, ff *facetfilter.FacetFilter, p *security.Principal) (*model.Paging[*model.ProviderBundle], error) {
	if !p.Authenticated {
		return nil, common.NewErrUnauthorized("full authentication is required to access this resource")
	}
	return m.repo.Search(ctx, ff.Clone().
		SetFilter(facetfilter.KeyDraft, "true").
		SetFilter("users", lower(p.Email)))
}

// PublicMy lists the public copies of the caller's providers.
func (m *ProviderManager) PublicMy(ctx context.Context, ff *facetfilter.FacetFilter, p *security.Principal) (*model.Paging[*model.ProviderBundle], error) {
	if !p.Authenticated {
		return nil, common.NewErrUnauthorized("full authentication is required to access this resource")
	}
	return m.repo.Search(ctx, ff.Clone().
		SetFilter(facetfilter.KeyPublished, "true").
		SetFilter("users", lower(p.Email)))
}
