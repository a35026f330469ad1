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
	"github.com/madgik/resource-catalogue-go/internal/common/log"
	"github.com/madgik/resource-catalogue-go/internal/common/model"
	"github.com/madgik/resource-catalogue-go/internal/common/security"
	"github.com/madgik/resource-catalogue-go/internal/notifications"
)

// CatalogueManager implements the catalogue lifecycle.
type CatalogueManager struct {
	lifecycle[*model.Catalogue]
}

func newCatalogueManager(c *core) *CatalogueManager {
	return &CatalogueManager{lifecycle: newLifecycle[*model.Catalogue](c, kindCatalogue)}
}

// ensureDefault creates the configured default catalogue when it is missing.
func (m *CatalogueManager) ensureDefault(ctx context.Context) error {
	if _, err := m.repo.Get(ctx, m.cfg.ID); err == nil {
		return nil
	} else if !common.IsErrNotFound(err) {
		return err
	}
	name := m.cfg.Name
	if name == "" {
		name = strings.ToUpper(m.cfg.ID)
	}
	b := model.NewBundle(&model.Catalogue{
		ID:           m.cfg.ID,
		Abbreviation: strings.ToUpper(m.cfg.ID),
		Name:         name,
		Website:      m.cfg.Homepage,
	})
	b.Active = true
	b.Status = model.StatusApprovedCatalogue
	b.AuditState = model.AuditNotAudited
	b.Metadata = model.NewMetadata(systemPrincipal.FullName(), "")
	b.Identifiers = createIdentifiers(b.ID)
	b.AppendLoggingInfo(
		createLoggingInfo(systemPrincipal, model.LogTypeOnboard, model.ActionRegistered, ""),
		createLoggingInfo(systemPrincipal, model.LogTypeOnboard, model.ActionApproved, ""),
	)
	if err := m.repo.Add(ctx, b); err != nil && !common.IsErrConflict(err) {
		return err
	}
	log.L(ctx).Infof("Created default catalogue [%s]", b.ID)
	return nil
}

// Add registers a catalogue. The caller becomes one of its users.
func (m *CatalogueManager) Add(ctx context.Context, b *model.CatalogueBundle, p *security.Principal) (*model.CatalogueBundle, error) {
	if !b.HasPayload() {
		return nil, common.NewErrBadRequest("Catalogue payload is required")
	}
	id := b.Payload.ID
	if id == "" {
		id = catalogueIDFrom(b.Payload.Abbreviation)
	}
	if err := validateCatalogueID(id); err != nil {
		return nil, err
	}
	b.SetID(id)
	if _, err := m.repo.Get(ctx, id); err == nil {
		return nil, common.NewErrConflict(fmt.Sprintf("Catalogue with id '%s' already exists.", id))
	}
	if p.Email != "" {
		b.Payload.AddUser(model.User{Email: lower(p.Email), Name: p.Name, Surname: p.Surname})
	}
	b.Active = false
	b.Status = model.StatusPendingCatalogue
	b.AuditState = model.AuditNotAudited
	b.Metadata = model.NewMetadata(p.FullName(), p.Email)
	b.Identifiers = createIdentifiers(b.ID)
	b.LoggingInfo = loggingInfoListOrRegistration(b.LoggingInfo, p)
	b.RefreshLatest()
	if err := m.validator.Validate(b.Payload); err != nil {
		return nil, err
	}
	if err := m.repo.Add(ctx, b); err != nil {
		return nil, err
	}
	m.notify(model.TypeCatalogue, b.ID, notifications.ActionCreate, b)
	return b, nil
}

// Update replaces the payload of a catalogue, keeping its state.
func (m *CatalogueManager) Update(ctx context.Context, b *model.CatalogueBundle, comment string, p *security.Principal) (*model.CatalogueBundle, error) {
	if !b.HasPayload() {
		return nil, common.NewErrBadRequest("Catalogue payload is required")
	}
	existing, err := m.fetch(ctx, b.Payload.ID)
	if err != nil {
		return nil, err
	}
	if existing.Published() {
		return nil, common.NewErrForbidden("You cannot directly update a Public Catalogue")
	}
	if samePayload(existing.Payload, b.Payload) {
		return existing, nil
	}
	if err := m.validator.Validate(b.Payload); err != nil {
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
	if existing.Status == model.StatusRejectedCatalogue {
		b.Status = model.StatusPendingCatalogue
	}
	if err := m.save(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Get returns a catalogue. Catalogues that are not approved are only
// visible to administrators and their users.
func (m *CatalogueManager) Get(ctx context.Context, id string, p *security.Principal) (*model.CatalogueBundle, error) {
	b, err := m.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status == model.StatusApprovedCatalogue || p.IsAdminOrEPOT() || b.Payload.HasUser(p.Email) {
		return b, nil
	}
	if !p.Authenticated {
		return nil, common.NewErrUnauthorized("You cannot view the specific Catalogue")
	}
	return nil, common.NewErrForbidden("You cannot view the specific Catalogue")
}

// GetAll browses catalogues with the visibility of the caller.
func (m *CatalogueManager) GetAll(ctx context.Context, ff *facetfilter.FacetFilter, p *security.Principal) (*model.Paging[*model.CatalogueBundle], error) {
	return m.browse(ctx, ff, p, func(own *facetfilter.FacetFilter) *facetfilter.FacetFilter {
		return own.SetFilter("users", lower(p.Email))
	})
}

// GetMy lists the catalogues the caller administers.
func (m *CatalogueManager) GetMy(ctx context.Context, ff *facetfilter.FacetFilter, p *security.Principal) (*model.Paging[*model.CatalogueBundle], error) {
	if !p.Authenticated {
		return nil, common.NewErrUnauthorized("full authentication is required to access this resource")
	}
	return m.repo.Search(ctx, ff.Clone().SetFilter("users", lower(p.Email)))
}

// Verify moves a catalogue to a Catalogue state.
func (m *CatalogueManager) Verify(ctx context.Context, id, status string, active *bool, p *security.Principal) (*model.CatalogueBundle, error) {
	return m.verify(ctx, id, status, active, p, nil)
}

// Publish activates or deactivates a catalogue.
func (m *CatalogueManager) Publish(ctx context.Context, id string, active *bool, p *security.Principal) (*model.CatalogueBundle, error) {
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

func (m *CatalogueManager) providers(ctx context.Context, catalogueID string) ([]*model.ProviderBundle, error) {
	return m.reg.Providers.repo.List(ctx, facetfilter.New(model.TypeProvider).
		SetFilter(facetfilter.KeyPublished, "false").
		SetFilter(facetfilter.KeyCatalogueID, catalogueID))
}

// Delete removes a catalogue with all of its providers. The default
// catalogue cannot be deleted.
func (m *CatalogueManager) Delete(ctx context.Context, id string, p *security.Principal) (*model.CatalogueBundle, error) {
	if id == m.cfg.ID {
		return nil, common.NewErrForbidden(fmt.Sprintf("You cannot delete the '%s' Catalogue", m.cfg.ID))
	}
	b, err := m.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	providers, err := m.providers(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, pb := range providers {
		if _, err := m.reg.Providers.Delete(ctx, pb.ID, id, p); err != nil {
			return nil, err
		}
	}
	if err := m.remove(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Suspend suspends or unsuspends a catalogue with its providers and their resources.
func (m *CatalogueManager) Suspend(ctx context.Context, id string, suspend bool, p *security.Principal) (*model.CatalogueBundle, error) {
	b, err := m.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := m.applySuspension(ctx, b, suspend, p); err != nil {
		return nil, err
	}
	providers, err := m.providers(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, pb := range providers {
		if _, err := m.reg.Providers.Suspend(ctx, pb.ID, id, suspend, p); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// HasAdminAcceptedTerms reports whether the caller accepted the terms of a
// catalogue they administer.
func (m *CatalogueManager) HasAdminAcceptedTerms(ctx context.Context, id string, p *security.Principal) (bool, error) {
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
func (m *CatalogueManager) AdminAcceptedTerms(ctx context.Context, id string, p *security.Principal) error {
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
