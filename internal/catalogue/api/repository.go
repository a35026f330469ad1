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

	"github.com/madgik/resource-catalogue-go/internal/common"
	"github.com/madgik/resource-catalogue-go/internal/common/facetfilter"
	"github.com/madgik/resource-catalogue-go/internal/common/model"
	"github.com/madgik/resource-catalogue-go/internal/persistence"
)

// maxQuantity bounds the page size of internal "fetch everything" searches.
const maxQuantity = 10000

// Repository stores bundles of one kind as persistence records.
type Repository[P model.Payload] struct {
	store persistence.Store
	kind  string
}

func NewRepository[P model.Payload](store persistence.Store, kind string) *Repository[P] {
	return &Repository[P]{store: store, kind: kind}
}

// Kind returns the resource type of the repository.
func (r *Repository[P]) Kind() string {
	return r.kind
}

func (r *Repository[P]) Get(ctx context.Context, id string) (*model.Bundle[P], error) {
	rec, err := r.store.Get(ctx, r.kind, id)
	if err != nil {
		return nil, err
	}
	return decodeBundle[P](rec)
}

func (r *Repository[P]) Add(ctx context.Context, b *model.Bundle[P]) error {
	rec, err := r.record(b)
	if err != nil {
		return err
	}
	return r.store.Add(ctx, rec)
}

func (r *Repository[P]) Update(ctx context.Context, b *model.Bundle[P]) error {
	rec, err := r.record(b)
	if err != nil {
		return err
	}
	return r.store.Update(ctx, rec)
}

func (r *Repository[P]) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, r.kind, id)
}

// Search returns one page of bundles matching ff.
func (r *Repository[P]) Search(ctx context.Context, ff *facetfilter.FacetFilter) (*model.Paging[*model.Bundle[P]], error) {
	ff = ff.Clone()
	ff.ResourceType = r.kind
	page, err := r.store.Search(ctx, ff)
	if err != nil {
		return nil, err
	}
	results, err := decodeAll[P](page.Records)
	if err != nil {
		return nil, err
	}
	return model.NewPaging(page.Total, page.From, results, page.Facets), nil
}

// List returns every bundle matching ff, ignoring its paging.
func (r *Repository[P]) List(ctx context.Context, ff *facetfilter.FacetFilter) ([]*model.Bundle[P], error) {
	all := ff.Clone()
	all.From = 0
	all.Quantity = maxQuantity
	all.BrowseBy = nil
	page, err := r.Search(ctx, all)
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}

// SearchUnion pages over the union of the entries matched by each variant,
// ordered and faceted by ff.
func (r *Repository[P]) SearchUnion(ctx context.Context, ff *facetfilter.FacetFilter, variants ...*facetfilter.FacetFilter) (*model.Paging[*model.Bundle[P]], error) {
	seen := map[string]*persistence.Record{}
	for _, v := range variants {
		all := v.Clone()
		all.ResourceType = r.kind
		all.From = 0
		all.Quantity = maxQuantity
		page, err := r.store.Search(ctx, all)
		if err != nil {
			return nil, err
		}
		for _, rec := range page.Records {
			seen[rec.ID] = rec
		}
	}
	records := make([]*persistence.Record, 0, len(seen))
	for _, rec := range seen {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return ff.Less(records[i], records[j]) })

	docs := make([]facetfilter.Document, len(records))
	for i, rec := range records {
		docs[i] = rec
	}
	facets := ff.Facets(docs)

	var window []*persistence.Record
	if ff.Quantity > 0 && ff.From < len(records) {
		end := ff.From + ff.Quantity
		if end > len(records) {
			end = len(records)
		}
		window = records[ff.From:end]
	}
	results, err := decodeAll[P](window)
	if err != nil {
		return nil, err
	}
	return model.NewPaging(len(records), ff.From, results, facets), nil
}

func (r *Repository[P]) record(b *model.Bundle[P]) (*persistence.Record, error) {
	if !b.HasPayload() {
		return nil, common.NewErrBadRequest(fmt.Sprintf("%s payload is required", r.kind))
	}
	if b.ID == "" {
		b.ID = b.Payload.GetID()
	}
	raw, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("encode %s %s: %w", r.kind, b.ID, err)
	}
	facets := b.Payload.Facets()
	if facets == nil {
		facets = map[string][]string{}
	}
	add := func(key, value string) {
		if value != "" {
			facets[key] = append(facets[key], value)
		}
	}
	add("template_status", b.TemplateStatus)
	add("audit_state", b.AuditState)
	if b.Identifiers != nil {
		add("pid", b.Identifiers.PID)
		add("original_id", b.Identifiers.OriginalID)
	}
	return &persistence.Record{
		ResourceType: r.kind,
		ID:           b.ID,
		CatalogueID:  b.CatalogueID(),
		Status:       b.Status,
		Published:    b.Published(),
		Active:       b.Active,
		Suspended:    b.Suspended,
		Draft:        b.Draft,
		Name:         b.Payload.DisplayName(),
		Facets:       facets,
		SearchText:   b.Payload.SearchText(),
		Payload:      raw,
	}, nil
}

func decodeBundle[P model.Payload](rec *persistence.Record) (*model.Bundle[P], error) {
	b := new(model.Bundle[P])
	if err := json.Unmarshal(rec.Payload, b); err != nil {
		return nil, fmt.Errorf("decode %s %s: %w", rec.ResourceType, rec.ID, err)
	}
	return b, nil
}

func decodeAll[P model.Payload](records []*persistence.Record) ([]*model.Bundle[P], error) {
	out := make([]*model.Bundle[P], 0, len(records))
	for _, rec := range records {
		b, err := decodeBundle[P](rec)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// cloneBundle deep-copies b through its JSON form.
func cloneBundle[P model.Payload](b *model.Bundle[P]) (*model.Bundle[P], error) {
	raw, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}
	c := new(model.Bundle[P])
	if err := json.Unmarshal(raw, c); err != nil {
		return nil, err
	}
	return c, nil
}

// samePayload compares two payloads by their JSON form.
func samePayload(a, b model.Payload) bool {
	ra, errA := json.Marshal(a)
	rb, errB := json.Marshal(b)
	return errA == nil && errB == nil && string(ra) == string(rb)
}

// Payloads strips the bundles of a page.
func Payloads[P model.Payload](p *model.Paging[*model.Bundle[P]]) *model.Paging[P] {
	return model.MapPaging(p, func(b *model.Bundle[P]) P { return b.Payload })
}
