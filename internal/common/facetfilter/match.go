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

package facetfilter

import (
	"sort"
	"strings"

	"github.com/madgik/resource-catalogue-go/internal/common/model"
)

// Document is the view of a stored record the matcher works on.
type Document interface {
	// Column returns the value of a column key, booleans as "true"/"false".
	Column(key string) string
	FacetValues(key string) []string
	Text() string
}

// Match reports whether doc satisfies the keyword and every filter key.
func (ff *FacetFilter) Match(doc Document) bool {
	if ff.Keyword != "" && !strings.Contains(doc.Text(), strings.ToLower(ff.Keyword)) {
		return false
	}
	for _, key := range ff.sortedKeys() {
		if !matchKey(doc, key, ff.Filter[key]) {
			return false
		}
	}
	return true
}

func matchKey(doc Document, key string, values []string) bool {
	positive, negative := terms(values)
	actual := valuesOf(doc, key)
	if boolKeys[key] {
		for i := range positive {
			positive[i] = normalizeBool(positive[i])
		}
		for i := range negative {
			negative[i] = normalizeBool(negative[i])
		}
	}
	for _, n := range negative {
		if contains(actual, n) {
			return false
		}
	}
	if len(positive) == 0 {
		return true
	}
	for _, p := range positive {
		if contains(actual, p) {
			return true
		}
	}
	return false
}

func valuesOf(doc Document, key string) []string {
	if IsColumn(key) {
		return []string{doc.Column(key)}
	}
	return doc.FacetValues(key)
}

func contains(list []string, v string) bool {
	for _, l := range list {
		if l == v {
			return true
		}
	}
	return false
}

// sortValue returns the value a document is ordered by for field.
func sortValue(doc Document, field string) string {
	if IsColumn(field) || field == OrderName || field == OrderCreatedAt || field == OrderModifiedAt {
		return doc.Column(field)
	}
	if v := doc.FacetValues(field); len(v) > 0 {
		return v[0]
	}
	return ""
}

// Less orders documents by the filter's ordering terms, then by id.
func (ff *FacetFilter) Less(a, b Document) bool {
	for _, o := range ff.OrderBy {
		va, vb := strings.ToLower(sortValue(a, o.Field)), strings.ToLower(sortValue(b, o.Field))
		if va == vb {
			continue
		}
		if o.Desc {
			return va > vb
		}
		return va < vb
	}
	return a.Column(KeyID) < b.Column(KeyID)
}

// Facets counts the values of every browse field over docs. Values are
// ordered by count descending, then by value.
func (ff *FacetFilter) Facets(docs []Document) []model.Facet {
	facets := make([]model.Facet, 0, len(ff.BrowseBy))
	for _, field := range ff.BrowseBy {
		counts := map[string]int{}
		for _, d := range docs {
			seen := map[string]bool{}
			for _, v := range valuesOf(d, field) {
				if v == "" || seen[v] {
					continue
				}
				seen[v] = true
				counts[v]++
			}
		}
		facets = append(facets, BuildFacet(field, counts))
	}
	return facets
}

// BuildFacet turns value counts into a sorted facet.
func BuildFacet(field string, counts map[string]int) model.Facet {
	values := make([]model.Value, 0, len(counts))
	for v, c := range counts {
		values = append(values, model.Value{Value: v, Label: v, Count: c})
	}
	sort.Slice(values, func(i, j int) bool {
		if values[i].Count != values[j].Count {
			return values[i].Count > values[j].Count
		}
		return values[i].Value < values[j].Value
	})
	return model.Facet{Field: field, Label: Label(field), Values: values}
}

// Label turns a snake_case field into a title.
func Label(field string) string {
	parts := strings.Split(field, "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
