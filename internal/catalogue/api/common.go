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
	"math/rand"

	"github.com/madgik/resource-catalogue-go/internal/common"
	"github.com/madgik/resource-catalogue-go/internal/common/facetfilter"
	"github.com/madgik/resource-catalogue-go/internal/common/model"
	"github.com/madgik/resource-catalogue-go/internal/common/security"
	"github.com/madgik/resource-catalogue-go/internal/notifications"
)

// defaultAuditingInterval is used when the configuration names none (months).
const defaultAuditingInterval = 6

// allCatalogues disables the catalogue check of catalogue-scoped reads.
const allCatalogues = "all"

// IDName is one entry of the id-to-name maps used by selectors.
type IDName struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func createLoggingInfo(p *security.Principal, logType, action, comment string) model.LoggingInfo {
	return model.NewLoggingInfo(p.Email, p.FullName(), p.Role(), logType, action, comment)
}

// loggingInfoListOrRegistration starts an empty history with a registration entry.
func loggingInfoListOrRegistration(list []model.LoggingInfo, p *security.Principal) []model.LoggingInfo {
	if len(list) == 0 {
		return []model.LoggingInfo{createLoggingInfo(p, model.LogTypeOnboard, model.ActionRegistered, "")}
	}
	return list
}

func activationLoggingInfo(p *security.Principal, active bool) model.LoggingInfo {
	action := model.ActionDeactivated
	if active {
		action = model.ActionActivated
	}
	return createLoggingInfo(p, model.LogTypeUpdate, action, "")
}

func createIdentifiers(id string) *model.Identifiers {
	return &model.Identifiers{OriginalID: id, PID: id}
}

func withoutDraftEntries(list []model.LoggingInfo) []model.LoggingInfo {
	out := make([]model.LoggingInfo, 0, len(list))
	for _, li := range list {
		if li.Type != model.LogTypeDraft {
			out = append(out, li)
		}
	}
	return out
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// lifecycle implements the operations every bundle kind shares.
type lifecycle[P model.Payload] struct {
	*core
	kind   kindInfo
	repo   *Repository[P]
	public *PublicManager[P]
}

func newLifecycle[P model.Payload](c *core, kind kindInfo) lifecycle[P] {
	l := lifecycle[P]{core: c, kind: kind, repo: NewRepository[P](c.store, kind.Type)}
	if kind.Public {
		l.public = newPublicManager[P](c, kind, l.repo)
	}
	return l
}

// Public returns the manager of the published copies, nil for private-only kinds.
func (l *lifecycle[P]) Public() *PublicManager[P] {
	return l.public
}

// fetch loads a bundle by id.
func (l *lifecycle[P]) fetch(ctx context.Context, id string) (*model.Bundle[P], error) {
	b, err := l.repo.Get(ctx, id)
	if err != nil {
		if common.IsErrNotFound(err) {
			return nil, common.NewErrNotFound(fmt.Sprintf("%s with id '%s' does not exist.", l.kind.Label, id))
		}
		return nil, err
	}
	return b, nil
}

// getIn loads a bundle and checks that it belongs to catalogueID.
func (l *lifecycle[P]) getIn(ctx context.Context, id, catalogueID string) (*model.Bundle[P], error) {
	b, err := l.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if catalogueID == allCatalogues || l.kind.Type == model.TypeCatalogue {
		return b, nil
	}
	cat := l.catalogueOrDefault(catalogueID)
	if _, err := l.reg.Catalogues.fetch(ctx, cat); err != nil {
		return nil, err
	}
	if b.CatalogueID() != cat {
		return nil, common.NewErrConflict(fmt.Sprintf("%s with id [%s] does not belong to the catalogue with id [%s]", l.kind.Label, id, cat))
	}
	return b, nil
}

// Search returns one page of bundles matching ff.
func (l *lifecycle[P]) Search(ctx context.Context, ff *facetfilter.FacetFilter) (*model.Paging[*model.Bundle[P]], error) {
	return l.repo.Search(ctx, ff)
}

// browse applies the visibility rules of listings: administrators see
// everything, authenticated users the approved entries and their own,
// anonymous callers the approved entries.
func (l *lifecycle[P]) browse(ctx context.Context, ff *facetfilter.FacetFilter, p *security.Principal, own func(*facetfilter.FacetFilter) *facetfilter.FacetFilter) (*model.Paging[*model.Bundle[P]], error) {
	if p.IsAdminOrEPOT() || !l.kind.HasStatuses() {
		return l.repo.Search(ctx, ff)
	}
	approved := ff.Clone().SetFilter(facetfilter.KeyStatus, l.kind.Statuses.Approved)
	if !p.Authenticated || own == nil {
		return l.repo.Search(ctx, approved)
	}
	mine := own(ff.Clone())
	if mine == nil {
		return l.repo.Search(ctx, approved)
	}
	return l.repo.SearchUnion(ctx, ff, approved, mine)
}

// LoggingInfoHistory returns the sorted history of a bundle.
func (l *lifecycle[P]) LoggingInfoHistory(ctx context.Context, id, catalogueID string) (model.LoggingInfoList, error) {
	b, err := l.getIn(ctx, id, catalogueID)
	if err != nil {
		return nil, err
	}
	list := append(model.LoggingInfoList(nil), b.LoggingInfo...)
	model.SortLoggingInfo(list)
	return list, nil
}

// Validate checks a payload against the schema of its kind.
func (l *lifecycle[P]) Validate(_ context.Context, payload P) error {
	return l.validator.Validate(payload)
}

// Audit records an audit verdict on a bundle.
func (l *lifecycle[P]) Audit(ctx context.Context, id, catalogueID, comment, action string, p *security.Principal) (*model.Bundle[P], error) {
	if action != model.ActionValid && action != model.ActionInvalid {
		return nil, common.NewErrBadRequest(fmt.Sprintf("Audit action must be '%s' or '%s'", model.ActionValid, model.ActionInvalid))
	}
	b, err := l.getIn(ctx, id, catalogueID)
	if err != nil {
		return nil, err
	}
	if b.Published() {
		return nil, common.NewErrForbidden(fmt.Sprintf("You cannot directly audit a Public %s", l.kind.Label))
	}
	b.AppendLoggingInfo(createLoggingInfo(p, model.LogTypeAudit, action, comment))
	if action == model.ActionValid {
		b.AuditState = model.AuditValid
	} else {
		b.AuditState = model.AuditInvalidAndNotUpdated
	}
	if err := l.save(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// RandomForAuditing picks approved bundles not audited within intervalMonths.
func (l *lifecycle[P]) RandomForAuditing(ctx context.Context, quantity, intervalMonths int) ([]*model.Bundle[P], error) {
	if intervalMonths <= 0 {
		intervalMonths = l.cfg.AuditingInterval
	}
	if intervalMonths <= 0 {
		intervalMonths = defaultAuditingInterval
	}
	ff := facetfilter.New(l.kind.Type).
		SetFilter(facetfilter.KeyPublished, "false").
		SetFilter(facetfilter.KeyDraft, "false")
	if l.kind.HasStatuses() {
		ff.SetFilter(facetfilter.KeyStatus, l.kind.Statuses.Approved)
	}
	all, err := l.repo.List(ctx, ff)
	if err != nil {
		return nil, err
	}
	cutoff := model.Now().AddDate(0, -intervalMonths, 0).UnixMilli()
	candidates := make([]*model.Bundle[P], 0, len(all))
	for _, b := range all {
		if b.LatestAuditInfo == nil || b.LatestAuditInfo.Millis() < cutoff {
			candidates = append(candidates, b)
		}
	}
	rand.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
	if quantity >= 0 && len(candidates) > quantity {
		candidates = candidates[:quantity]
	}
	return candidates, nil
}

// verify moves a bundle to one of the onboarding states of its kind.
func (l *lifecycle[P]) verify(ctx context.Context, id, status string, active *bool, p *security.Principal, hook func(*model.Bundle[P]) error) (*model.Bundle[P], error) {
	if !l.kind.HasStatuses() {
		return nil, common.NewErrBadRequest(fmt.Sprintf("A %s cannot be verified", l.kind.Label))
	}
	if !l.kind.Statuses.Contains(status) {
		return nil, common.NewErrBadRequest(fmt.Sprintf("Vocabulary %s does not consist a %s!", status, l.kind.Statuses.VocabularyType))
	}
	b, err := l.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Published() {
		return nil, common.NewErrForbidden(fmt.Sprintf("You cannot directly verify a Public %s", l.kind.Label))
	}
	b.Status = status
	switch status {
	case l.kind.Statuses.Approved:
		b.Active = boolOr(active, true)
		b.AppendLoggingInfo(createLoggingInfo(p, model.LogTypeOnboard, model.ActionApproved, ""))
	case l.kind.Statuses.Rejected:
		b.Active = false
		b.AppendLoggingInfo(createLoggingInfo(p, model.LogTypeOnboard, model.ActionRejected, ""))
	default:
		b.RefreshLatest()
	}
	if hook != nil {
		if err := hook(b); err != nil {
			return nil, err
		}
	}
	if err := l.save(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// checkActivation refuses to toggle bundles that never got approved.
func (l *lifecycle[P]) checkActivation(b *model.Bundle[P]) error {
	if !l.kind.HasStatuses() {
		return nil
	}
	if (b.Status == l.kind.Statuses.Pending || b.Status == l.kind.Statuses.Rejected) && !b.Active {
		return common.NewErrBadRequest(fmt.Sprintf("You cannot activate this %s, because it's Inactive with status = [%s]", l.kind.Label, b.Status))
	}
	return nil
}

// setActive records an activation change and stores the bundle.
func (l *lifecycle[P]) setActive(ctx context.Context, b *model.Bundle[P], active bool, p *security.Principal) error {
	b.Active = active
	b.AppendLoggingInfo(activationLoggingInfo(p, active))
	return l.save(ctx, b)
}

// applySuspension records a suspension change and stores the bundle.
func (l *lifecycle[P]) applySuspension(ctx context.Context, b *model.Bundle[P], suspend bool, p *security.Principal) error {
	action := model.ActionUnsuspended
	if suspend {
		action = model.ActionSuspended
	}
	b.Suspended = suspend
	b.AppendLoggingInfo(createLoggingInfo(p, model.LogTypeUpdate, action, ""))
	return l.save(ctx, b)
}

// save updates a private bundle and keeps its public copy in step.
func (l *lifecycle[P]) save(ctx context.Context, b *model.Bundle[P]) error {
	if err := l.repo.Update(ctx, b); err != nil {
		return err
	}
	if err := l.syncPublic(ctx, b); err != nil {
		return err
	}
	l.notify(l.kind.Type, b.ID, notifications.ActionUpdate, b)
	return nil
}

// syncPublic creates the public copy of approved bundles and refreshes it otherwise.
func (l *lifecycle[P]) syncPublic(ctx context.Context, b *model.Bundle[P]) error {
	if l.public == nil || b.Published() || b.Draft {
		return nil
	}
	if !l.kind.HasStatuses() || b.Status == l.kind.Statuses.Approved {
		_, err := l.public.Update(ctx, b)
		return err
	}
	return l.public.Refresh(ctx, b)
}

// remove deletes a bundle together with its public copy.
func (l *lifecycle[P]) remove(ctx context.Context, b *model.Bundle[P]) error {
	if err := l.repo.Delete(ctx, b.ID); err != nil {
		return err
	}
	if l.public != nil && !b.Published() {
		if err := l.public.Delete(ctx, b); err != nil {
			return err
		}
	}
	l.notify(l.kind.Type, b.ID, notifications.ActionDelete, b)
	return nil
}

func (l *lifecycle[P]) blockDeletion(b *model.Bundle[P]) error {
	if b.Published() {
		return common.NewErrForbidden(fmt.Sprintf("You cannot directly delete a Public %s", l.kind.Label))
	}
	return nil
}

// ensureID assigns a generated id to bundles that carry none.
func (l *lifecycle[P]) ensureID(b *model.Bundle[P]) error {
	id := b.Payload.GetID()
	if id == "" {
		var err error
		if id, err = l.ids.Generate(l.kind.Type); err != nil {
			return err
		}
	}
	b.SetID(id)
	return nil
}

// AddBundle stores a bundle as given, completing identifiers and metadata.
func (l *lifecycle[P]) AddBundle(ctx context.Context, b *model.Bundle[P], p *security.Principal) (*model.Bundle[P], error) {
	if !b.HasPayload() {
		return nil, common.NewErrBadRequest(fmt.Sprintf("%s payload is required", l.kind.Label))
	}
	if err := l.ensureID(b); err != nil {
		return nil, err
	}
	if b.Payload.GetCatalogueID() == "" {
		b.Payload.SetCatalogueID(l.cfg.ID)
	}
	if err := l.validator.Validate(b.Payload); err != nil {
		return nil, err
	}
	if b.Identifiers == nil {
		b.Identifiers = createIdentifiers(b.ID)
	}
	if b.Metadata == nil {
		b.Metadata = model.NewMetadata(p.FullName(), p.Email)
	}
	b.LoggingInfo = loggingInfoListOrRegistration(b.LoggingInfo, p)
	b.RefreshLatest()
	if b.AuditState == "" {
		b.AuditState = model.DetermineAuditState(b.LoggingInfo)
	}
	if err := l.repo.Add(ctx, b); err != nil {
		return nil, err
	}
	if err := l.syncPublic(ctx, b); err != nil {
		return nil, err
	}
	l.notify(l.kind.Type, b.ID, notifications.ActionCreate, b)
	return b, nil
}

// UpdateBundle replaces a stored bundle with b.
func (l *lifecycle[P]) UpdateBundle(ctx context.Context, b *model.Bundle[P], p *security.Principal) (*model.Bundle[P], error) {
	if !b.HasPayload() {
		return nil, common.NewErrBadRequest(fmt.Sprintf("%s payload is required", l.kind.Label))
	}
	existing, err := l.fetch(ctx, b.Payload.GetID())
	if err != nil {
		return nil, err
	}
	if err := l.validator.Validate(b.Payload); err != nil {
		return nil, err
	}
	b.ID = existing.ID
	b.Metadata = model.UpdateMetadata(b.Metadata, p.FullName(), "")
	if b.Identifiers == nil {
		b.Identifiers = existing.Identifiers
	}
	b.RefreshLatest()
	if err := l.save(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// AddBulk stores bundles one by one and returns how many were added.
// Failures are logged and skipped.
func (l *lifecycle[P]) AddBulk(ctx context.Context, bundles []*model.Bundle[P], p *security.Principal) int {
	added := 0
	for _, b := range bundles {
		if _, err := l.AddBundle(ctx, b, p); err != nil {
			logFailure(ctx, "add bulk "+l.kind.Type, b.ID, err)
			continue
		}
		added++
	}
	return added
}

// CreatePublic creates the public copy of a bundle.
func (l *lifecycle[P]) CreatePublic(ctx context.Context, b *model.Bundle[P]) (*model.Bundle[P], error) {
	if l.public == nil {
		return nil, common.NewErrBadRequest(fmt.Sprintf("A %s has no public copy", l.kind.Label))
	}
	return l.public.Add(ctx, b)
}

// addDraft stores b as a draft.
func (l *lifecycle[P]) addDraft(ctx context.Context, b *model.Bundle[P], p *security.Principal) (*model.Bundle[P], error) {
	if !b.HasPayload() {
		return nil, common.NewErrBadRequest(fmt.Sprintf("%s payload is required", l.kind.Label))
	}
	b.Payload.SetID("")
	if err := l.ensureID(b); err != nil {
		return nil, err
	}
	if b.Payload.GetCatalogueID() == "" {
		b.Payload.SetCatalogueID(l.cfg.ID)
	}
	b.Draft = true
	b.Active = false
	b.Status = l.kind.Statuses.Pending
	b.Metadata = model.NewMetadata(p.FullName(), p.Email)
	b.Identifiers = createIdentifiers(b.ID)
	b.LoggingInfo = nil
	b.AppendLoggingInfo(createLoggingInfo(p, model.LogTypeDraft, model.ActionDrafted, ""))
	if err := l.repo.Add(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateDraft replaces the payload of a draft.
func (l *lifecycle[P]) UpdateDraft(ctx context.Context, b *model.Bundle[P], p *security.Principal) (*model.Bundle[P], error) {
	if !b.HasPayload() {
		return nil, common.NewErrBadRequest(fmt.Sprintf("%s payload is required", l.kind.Label))
	}
	existing, err := l.draft(ctx, b.Payload.GetID())
	if err != nil {
		return nil, err
	}
	existing.Payload = b.Payload
	if existing.Payload.GetCatalogueID() == "" {
		existing.Payload.SetCatalogueID(l.cfg.ID)
	}
	existing.Metadata = model.UpdateMetadata(existing.Metadata, p.FullName(), "")
	existing.AppendLoggingInfo(createLoggingInfo(p, model.LogTypeDraft, model.ActionUpdated, ""))
	if err := l.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteDraft removes a draft. Non-draft bundles are refused.
func (l *lifecycle[P]) DeleteDraft(ctx context.Context, id string) (*model.Bundle[P], error) {
	b, err := l.draft(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := l.repo.Delete(ctx, b.ID); err != nil {
		return nil, err
	}
	return b, nil
}

// GetDraft returns the draft with the given id.
func (l *lifecycle[P]) GetDraft(ctx context.Context, id string) (*model.Bundle[P], error) {
	return l.draft(ctx, id)
}

func (l *lifecycle[P]) draft(ctx context.Context, id string) (*model.Bundle[P], error) {
	b, err := l.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.Draft {
		return nil, common.NewErrBadRequest(fmt.Sprintf("%s with id '%s' is not a draft", l.kind.Label, id))
	}
	return b, nil
}

// undraft turns a draft into a bundle ready for onboarding.
func (l *lifecycle[P]) undraft(ctx context.Context, id string) (*model.Bundle[P], error) {
	b, err := l.draft(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Draft = false
	b.LoggingInfo = withoutDraftEntries(b.LoggingInfo)
	b.RefreshLatest()
	return b, nil
}

// private restricts ff to private, non-draft copies.
func private(ff *facetfilter.FacetFilter) *facetfilter.FacetFilter {
	return ff.SetFilter(facetfilter.KeyPublished, "false").SetFilter(facetfilter.KeyDraft, "false")
}

// PublicGet returns a public copy, refusing private bundles.
func (l *lifecycle[P]) PublicGet(ctx context.Context, id string) (*model.Bundle[P], error) {
	b, err := l.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.Published() {
		return nil, common.NewErrForbidden(fmt.Sprintf("The specific %s does not consist a Public entity", l.kind.Label))
	}
	return b, nil
}

// PublicAll lists the active, approved public copies.
func (l *lifecycle[P]) PublicAll(ctx context.Context, ff *facetfilter.FacetFilter) (*model.Paging[*model.Bundle[P]], error) {
	ff = ff.Clone().
		SetFilter(facetfilter.KeyPublished, "true").
		SetFilter(facetfilter.KeyActive, "true")
	if l.kind.HasStatuses() {
		ff.SetFilter(facetfilter.KeyStatus, l.kind.Statuses.Approved)
	}
	return l.repo.Search(ctx, ff)
}

// PublicBundleAll lists every public copy.
func (l *lifecycle[P]) PublicBundleAll(ctx context.Context, ff *facetfilter.FacetFilter) (*model.Paging[*model.Bundle[P]], error) {
	return l.repo.Search(ctx, ff.Clone().SetFilter(facetfilter.KeyPublished, "true"))
}

// publicIDs maps private ids to the ids of their public copies.
func (l *lifecycle[P]) publicIDs(catalogueIDs map[string]string) []string {
	out := make([]string, 0, len(catalogueIDs))
	for id, cat := range catalogueIDs {
		out = append(out, publicID(l.catalogueOrDefault(cat), id))
	}
	return out
}
