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

	lru "github.com/hashicorp/golang-lru"

	"github.com/madgik/resource-catalogue-go/internal/common"
	"github.com/madgik/resource-catalogue-go/internal/common/facetfilter"
	"github.com/madgik/resource-catalogue-go/internal/common/model"
	"github.com/madgik/resource-catalogue-go/internal/common/security"
	"github.com/madgik/resource-catalogue-go/internal/notifications"
)

const defaultVocabularyCacheSize = 512

// Regions accepted by Countries.
const (
	RegionEU        = "EU"
	RegionWorldwide = "WW"
)

var euCountries = []string{
	"AT", "BE", "BG", "HR", "CY", "CZ", "DK", "EE", "FI", "FR", "DE", "GR", "HU", "IE",
	"IT", "LV", "LT", "LU", "MT", "NL", "PL", "PT", "RO", "SK", "SI", "ES", "SE",
}

// VocabularyManager serves the controlled vocabularies. Reads go through an
// LRU cache that every write purges.
type VocabularyManager struct {
	lifecycle[*model.Vocabulary]
	cache *lru.Cache
}

func newVocabularyManager(c *core, size int) (*VocabularyManager, error) {
	if size <= 0 {
		size = defaultVocabularyCacheSize
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("vocabulary cache: %w", err)
	}
	return &VocabularyManager{lifecycle: newLifecycle[*model.Vocabulary](c, kindVocabulary), cache: cache}, nil
}

func (m *VocabularyManager) cached(key string, load func() (interface{}, error)) (interface{}, error) {
	if v, ok := m.cache.Get(key); ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return nil, err
	}
	m.cache.Add(key, v)
	return v, nil
}

// Add stores a vocabulary entry.
func (m *VocabularyManager) Add(ctx context.Context, v *model.Vocabulary, p *security.Principal) (*model.Vocabulary, error) {
	if err := m.add(ctx, v, p); err != nil {
		return nil, err
	}
	m.cache.Purge()
	return v, nil
}

func (m *VocabularyManager) add(ctx context.Context, v *model.Vocabulary, p *security.Principal) error {
	if v == nil {
		return common.NewErrBadRequest("Vocabulary payload is required")
	}
	if err := m.validator.Validate(v); err != nil {
		return err
	}
	if _, err := m.repo.Get(ctx, v.ID); err == nil {
		return common.NewErrConflict(fmt.Sprintf("Vocabulary with id '%s' already exists.", v.ID))
	}
	b := model.NewBundle(v)
	b.Metadata = model.NewMetadata(p.FullName(), "")
	if err := m.repo.Add(ctx, b); err != nil {
		return err
	}
	m.notify(model.TypeVocabulary, v.ID, notifications.ActionCreate, v)
	return nil
}

// Update replaces a vocabulary entry.
func (m *VocabularyManager) Update(ctx context.Context, v *model.Vocabulary, p *security.Principal) (*model.Vocabulary, error) {
	if err := m.update(ctx, v, p); err != nil {
		return nil, err
	}
	m.cache.Purge()
	return v, nil
}

func (m *VocabularyManager) update(ctx context.Context, v *model.Vocabulary, p *security.Principal) error {
	if v == nil {
		return common.NewErrBadRequest("Vocabulary payload is required")
	}
	existing, err := m.fetch(ctx, v.ID)
	if err != nil {
		return err
	}
	if err := m.validator.Validate(v); err != nil {
		return err
	}
	existing.Payload = v
	existing.Metadata = model.UpdateMetadata(existing.Metadata, p.FullName(), "")
	if err := m.repo.Update(ctx, existing); err != nil {
		return err
	}
	m.notify(model.TypeVocabulary, v.ID, notifications.ActionUpdate, v)
	return nil
}

// Delete removes a vocabulary entry.
func (m *VocabularyManager) Delete(ctx context.Context, id string) (*model.Vocabulary, error) {
	b, err := m.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := m.remove(ctx, b); err != nil {
		return nil, err
	}
	m.cache.Purge()
	return b.Payload, nil
}

// Get returns a vocabulary entry.
func (m *VocabularyManager) Get(ctx context.Context, id string) (*model.Vocabulary, error) {
	v, err := m.cached("id:"+id, func() (interface{}, error) {
		b, err := m.fetch(ctx, id)
		if err != nil {
			return nil, err
		}
		return b.Payload, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Vocabulary), nil
}

// GetAll browses the vocabulary entries.
func (m *VocabularyManager) GetAll(ctx context.Context, ff *facetfilter.FacetFilter) (*model.Paging[*model.Vocabulary], error) {
	page, err := m.repo.Search(ctx, ff)
	if err != nil {
		return nil, err
	}
	return Payloads(page), nil
}

func (m *VocabularyManager) all(ctx context.Context) ([]*model.Vocabulary, error) {
	v, err := m.cached("all", func() (interface{}, error) {
		bundles, err := m.repo.List(ctx, facetfilter.New(model.TypeVocabulary))
		if err != nil {
			return nil, err
		}
		out := make([]*model.Vocabulary, 0, len(bundles))
		for _, b := range bundles {
			out = append(out, b.Payload)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*model.Vocabulary), nil
}

// GetByType lists the entries of one vocabulary type ordered by id.
func (m *VocabularyManager) GetByType(ctx context.Context, vocabularyType string) ([]*model.Vocabulary, error) {
	all, err := m.all(ctx)
	if err != nil {
		return nil, err
	}
	var out []*model.Vocabulary
	for _, v := range all {
		if v.Type == vocabularyType {
			out = append(out, v)
		}
	}
	return out, nil
}

// GetAllByType groups every entry by its type.
func (m *VocabularyManager) GetAllByType(ctx context.Context) (map[string][]*model.Vocabulary, error) {
	all, err := m.all(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]*model.Vocabulary)
	for _, v := range all {
		out[v.Type] = append(out[v.Type], v)
	}
	return out, nil
}

// VocabularyMap indexes every entry by id.
func (m *VocabularyManager) VocabularyMap(ctx context.Context) (map[string]*model.Vocabulary, error) {
	all, err := m.all(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*model.Vocabulary, len(all))
	for _, v := range all {
		out[v.ID] = v
	}
	return out, nil
}

// VocabularyTree arranges the entries of a type by their parent. The root
// node carries no vocabulary; entries whose parent is missing hang off it.
func (m *VocabularyManager) VocabularyTree(ctx context.Context, vocabularyType string) (*model.VocabularyTree, error) {
	entries, err := m.GetByType(ctx, vocabularyType)
	if err != nil {
		return nil, err
	}
	nodes := make(map[string]*model.VocabularyTree, len(entries))
	for _, v := range entries {
		nodes[v.ID] = &model.VocabularyTree{Vocabulary: v}
	}
	root := &model.VocabularyTree{}
	for _, v := range entries {
		parent, ok := nodes[v.ParentID]
		if v.ParentID == "" || !ok {
			parent = root
		}
		parent.Children = append(parent.Children, nodes[v.ID])
	}
	return root, nil
}

// Countries returns the country codes of a region: the EU member states or
// every Country entry for WW.
func (m *VocabularyManager) Countries(ctx context.Context, region string) ([]string, error) {
	switch strings.ToUpper(region) {
	case RegionEU:
		return append([]string(nil), euCountries...), nil
	case RegionWorldwide:
		entries, err := m.GetByType(ctx, model.VocabularyTypeCountry)
		if err != nil {
			return nil, err
		}
		codes := make([]string, 0, len(entries))
		for _, v := range entries {
			codes = append(codes, countryCode(v))
		}
		sort.Strings(codes)
		return codes, nil
	}
	return nil, common.NewErrBadRequest(fmt.Sprintf("Region '%s' must be '%s' or '%s'", region, RegionEU, RegionWorldwide))
}

func countryCode(v *model.Vocabulary) string {
	if code := v.Extras["code"]; code != "" {
		return strings.ToUpper(code)
	}
	return strings.ToUpper(strings.TrimPrefix(v.ID, "country-"))
}

// AddBulk stores many entries. The first failure stops the run.
func (m *VocabularyManager) AddBulk(ctx context.Context, vs []*model.Vocabulary, p *security.Principal) error {
	defer m.cache.Purge()
	for _, v := range vs {
		if err := m.add(ctx, v, p); err != nil {
			return err
		}
	}
	return nil
}

// UpdateBulk replaces many entries. The first failure stops the run.
func (m *VocabularyManager) UpdateBulk(ctx context.Context, vs []*model.Vocabulary, p *security.Principal) error {
	defer m.cache.Purge()
	for _, v := range vs {
		if err := m.update(ctx, v, p); err != nil {
			return err
		}
	}
	return nil
}

// DeleteBulk removes the entries with the given ids. Missing ids are skipped.
func (m *VocabularyManager) DeleteBulk(ctx context.Context, ids []string) error {
	defer m.cache.Purge()
	for _, id := range ids {
		b, err := m.fetch(ctx, id)
		if common.IsErrNotFound(err) {
			continue
		}
		if err != nil {
			return err
		}
		if err := m.remove(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

// DeleteByType removes every entry of a vocabulary type.
func (m *VocabularyManager) DeleteByType(ctx context.Context, vocabularyType string) error {
	defer m.cache.Purge()
	bundles, err := m.repo.List(ctx, facetfilter.New(model.TypeVocabulary).SetFilter("type", vocabularyType))
	if err != nil {
		return err
	}
	for _, b := range bundles {
		if err := m.remove(ctx, b); err != nil {
			return err
		}
	}
	return nil
}
