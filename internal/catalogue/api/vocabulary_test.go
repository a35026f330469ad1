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

func seedVocabularies(t *testing.T, r *Registry) {
	t.Helper()
	require.NoError(t, r.Vocabularies.AddBulk(context.Background(), []*model.Vocabulary{
		{ID: "scientific_domain-natural_sciences", Name: "Natural Sciences", Type: "Scientific domain"},
		{ID: "scientific_subdomain-physics", Name: "Physics", Type: "Scientific domain", ParentID: "scientific_domain-natural_sciences"},
		{ID: "scientific_subdomain-chemistry", Name: "Chemistry", Type: "Scientific domain", ParentID: "scientific_domain-natural_sciences"},
		{ID: "scientific_subdomain-orphan", Name: "Orphan", Type: "Scientific domain", ParentID: "scientific_domain-gone"},
		{ID: "country-gr", Name: "Greece", Type: model.VocabularyTypeCountry},
		{ID: "country-japan", Name: "Japan", Type: model.VocabularyTypeCountry, Extras: map[string]string{"code": "jp"}},
	}, admin))
}

func TestVocabularyTree(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	seedVocabularies(t, r)

	tree, err := r.Vocabularies.VocabularyTree(ctx, "Scientific domain")
	require.NoError(t, err)
	assert.Nil(t, tree.Vocabulary)
	require.Len(t, tree.Children, 2)

	byID := map[string]*model.VocabularyTree{}
	for _, c := range tree.Children {
		byID[c.Vocabulary.ID] = c
	}
	require.Contains(t, byID, "scientific_domain-natural_sciences")
	require.Contains(t, byID, "scientific_subdomain-orphan")
	assert.Len(t, byID["scientific_domain-natural_sciences"].Children, 2)
}

func TestVocabularyCountries(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	seedVocabularies(t, r)

	eu, err := r.Vocabularies.Countries(ctx, "eu")
	require.NoError(t, err)
	assert.Len(t, eu, 27)
	assert.Contains(t, eu, "GR")

	ww, err := r.Vocabularies.Countries(ctx, RegionWorldwide)
	require.NoError(t, err)
	assert.Equal(t, []string{"GR", "JP"}, ww)

	_, err = r.Vocabularies.Countries(ctx, "mars")
	assert.True(t, common.IsErrBadRequest(err))
}

func TestVocabularyWritesRefreshCache(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	seedVocabularies(t, r)

	byType, err := r.Vocabularies.GetAllByType(ctx)
	require.NoError(t, err)
	assert.Len(t, byType[model.VocabularyTypeCountry], 2)

	_, err = r.Vocabularies.Add(ctx, &model.Vocabulary{ID: "country-fr", Name: "France", Type: model.VocabularyTypeCountry}, admin)
	require.NoError(t, err)
	countries, err := r.Vocabularies.GetByType(ctx, model.VocabularyTypeCountry)
	require.NoError(t, err)
	assert.Len(t, countries, 3)

	_, err = r.Vocabularies.Add(ctx, &model.Vocabulary{ID: "country-fr", Name: "France", Type: model.VocabularyTypeCountry}, admin)
	assert.True(t, common.IsErrConflict(err))

	v, err := r.Vocabularies.Get(ctx, "country-gr")
	require.NoError(t, err)
	assert.Equal(t, "Greece", v.Name)

	_, err = r.Vocabularies.Update(ctx, &model.Vocabulary{ID: "country-gr", Name: "Hellas", Type: model.VocabularyTypeCountry}, admin)
	require.NoError(t, err)
	v, err = r.Vocabularies.Get(ctx, "country-gr")
	require.NoError(t, err)
	assert.Equal(t, "Hellas", v.Name)

	require.NoError(t, r.Vocabularies.DeleteBulk(ctx, []string{"country-fr", "country-missing"}))
	require.NoError(t, r.Vocabularies.DeleteByType(ctx, "Scientific domain"))

	m, err := r.Vocabularies.VocabularyMap(ctx)
	require.NoError(t, err)
	assert.Len(t, m, 2)
	assert.Contains(t, m, "country-japan")
}
