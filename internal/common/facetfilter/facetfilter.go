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

// Package facetfilter implements the browse query used by every listing
// endpoint: keyword, paging, ordering, facet browsing and filters. A filter is
// evaluated either as goqu expressions against the resources table or in
// memory against a Document, with identical semantics.
package facetfilter

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/madgik/resource-catalogue-go/internal/common"
)

// Filter keys stored as table columns. Every other key is a facet key.
const (
	KeyID          = "id"
	KeyCatalogueID = "catalogue_id"
	KeyStatus      = "status"
	KeyPublished   = "published"
	KeyActive      = "active"
	KeySuspended   = "suspended"
	KeyDraft       = "draft"
)

// Fields accepted by orderField that are not filterable.
const (
	OrderName       = "name"
	OrderCreatedAt  = "created_at"
	OrderModifiedAt = "modified_at"
)

// DefaultQuantity is the page size used when the query names none.
const DefaultQuantity = 10

var columnKeys = map[string]bool{
	KeyID:          true,
	KeyCatalogueID: true,
	KeyStatus:      true,
	KeyPublished:   true,
	KeyActive:      true,
	KeySuspended:   true,
	KeyDraft:       true,
}

var boolKeys = map[string]bool{
	KeyPublished: true,
	KeyActive:    true,
	KeySuspended: true,
	KeyDraft:     true,
}

var reservedParams = map[string]bool{
	"query":      true,
	"keyword":    true,
	"from":       true,
	"quantity":   true,
	"order":      true,
	"orderField": true,
}

// IsColumn reports whether key is stored as a table column.
func IsColumn(key string) bool {
	return columnKeys[key]
}

// Order is one ordering term.
type Order struct {
	Field string
	Desc  bool
}

// FacetFilter is a browse query over one resource type.
type FacetFilter struct {
	Keyword      string
	From         int
	Quantity     int
	ResourceType string
	Filter       map[string][]string
	OrderBy      []Order
	BrowseBy     []string
}

// New returns an empty filter over resourceType with the default page size.
func New(resourceType string) *FacetFilter {
	return &FacetFilter{
		ResourceType: resourceType,
		Quantity:     DefaultQuantity,
		Filter:       map[string][]string{},
	}
}

// FromQuery reads paging, keyword, ordering and filters from query parameters.
// Parameters not listed in skip become filters.
func FromQuery(resourceType string, q url.Values, skip ...string) (*FacetFilter, error) {
	ff := New(resourceType)
	ignored := map[string]bool{}
	for _, s := range skip {
		ignored[s] = true
	}

	ff.Keyword = strings.TrimSpace(firstOf(q, "query", "keyword"))

	var err error
	if ff.From, err = parseNonNegative(q.Get("from"), 0, "from"); err != nil {
		return nil, err
	}
	if ff.Quantity, err = parseNonNegative(q.Get("quantity"), DefaultQuantity, "quantity"); err != nil {
		return nil, err
	}

	if field := q.Get("orderField"); field != "" {
		order := strings.ToLower(q.Get("order"))
		if order != "" && order != "asc" && order != "desc" {
			return nil, common.NewErrBadRequest("order must be asc or desc")
		}
		ff.WithOrder(field, order == "desc")
	}

	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if reservedParams[k] || ignored[k] {
			continue
		}
		values := splitValues(q[k])
		if len(values) == 0 {
			continue
		}
		if boolKeys[k] {
			for _, v := range values {
				if _, err := strconv.ParseBool(strings.TrimPrefix(v, "!")); err != nil {
					return nil, common.NewErrBadRequest(k + " must be true or false")
				}
			}
		}
		ff.AddFilter(k, values...)
	}
	return ff, nil
}

func firstOf(q url.Values, keys ...string) string {
	for _, k := range keys {
		if v := q.Get(k); v != "" {
			return v
		}
	}
	return ""
}

func parseNonNegative(v string, def int, name string) (int, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, common.NewErrBadRequest(name + " must be a non-negative integer")
	}
	return n, nil
}

func splitValues(raw []string) []string {
	var out []string
	for _, r := range raw {
		for _, v := range strings.Split(r, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// AddFilter appends values to key.
func (ff *FacetFilter) AddFilter(key string, values ...string) *FacetFilter {
	if ff.Filter == nil {
		ff.Filter = map[string][]string{}
	}
	ff.Filter[key] = append(ff.Filter[key], values...)
	return ff
}

// SetFilter replaces the values of key.
func (ff *FacetFilter) SetFilter(key string, values ...string) *FacetFilter {
	if ff.Filter == nil {
		ff.Filter = map[string][]string{}
	}
	ff.Filter[key] = append([]string(nil), values...)
	return ff
}

// RemoveFilter drops key.
func (ff *FacetFilter) RemoveFilter(key string) *FacetFilter {
	delete(ff.Filter, key)
	return ff
}

// Has reports whether key is filtered.
func (ff *FacetFilter) Has(key string) bool {
	_, ok := ff.Filter[key]
	return ok
}

// Get returns the values of key.
func (ff *FacetFilter) Get(key string) []string {
	return ff.Filter[key]
}

// WithOrder appends an ordering term.
func (ff *FacetFilter) WithOrder(field string, desc bool) *FacetFilter {
	ff.OrderBy = append(ff.OrderBy, Order{Field: field, Desc: desc})
	return ff
}

// WithQuantity sets the page size.
func (ff *FacetFilter) WithQuantity(n int) *FacetFilter {
	ff.Quantity = n
	return ff
}

// WithBrowseBy sets the fields facets are counted for.
func (ff *FacetFilter) WithBrowseBy(fields ...string) *FacetFilter {
	ff.BrowseBy = fields
	return ff
}

// CountOnly reports whether the caller asked for totals and facets without results.
func (ff *FacetFilter) CountOnly() bool {
	return ff.Quantity == 0 && ff.From == 0
}

// Clone returns a deep copy.
func (ff *FacetFilter) Clone() *FacetFilter {
	c := *ff
	c.Filter = make(map[string][]string, len(ff.Filter))
	for k, v := range ff.Filter {
		c.Filter[k] = append([]string(nil), v...)
	}
	c.OrderBy = append([]Order(nil), ff.OrderBy...)
	c.BrowseBy = append([]string(nil), ff.BrowseBy...)
	return &c
}

// sortedKeys returns the filter keys in a stable order.
func (ff *FacetFilter) sortedKeys() []string {
	keys := make([]string, 0, len(ff.Filter))
	for k := range ff.Filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// terms splits the values of a key into positive and negated terms.
func terms(values []string) (positive, negative []string) {
	for _, v := range values {
		if strings.HasPrefix(v, "!") {
			negative = append(negative, strings.TrimPrefix(v, "!"))
			continue
		}
		positive = append(positive, v)
	}
	return positive, negative
}

func normalizeBool(v string) string {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return v
	}
	return strconv.FormatBool(b)
}
