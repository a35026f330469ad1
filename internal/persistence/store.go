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

// Package persistence stores catalogue records. Every resource kind shares one
// table keyed by (resource_type, id); the payload is kept as JSON next to the
// indexed columns and facets that queries filter on.
package persistence

import (
	"context"
	"strconv"
	"time"

	"github.com/madgik/resource-catalogue-go/internal/common/facetfilter"
	"github.com/madgik/resource-catalogue-go/internal/common/model"
)

const tableName = "resources"

// Record is a stored bundle.
type Record struct {
	ResourceType string
	ID           string
	CatalogueID  string
	Status       string
	Published    bool
	Active       bool
	Suspended    bool
	Draft        bool
	Name         string
	Facets       map[string][]string
	SearchText   string
	Payload      []byte
	CreatedAt    time.Time
	ModifiedAt   time.Time
}

// Page is the result of a search.
type Page struct {
	Total   int
	From    int
	Records []*Record
	Facets  []model.Facet
}

// Store is implemented by every storage backend.
type Store interface {
	Add(ctx context.Context, rec *Record) error
	Update(ctx context.Context, rec *Record) error
	Get(ctx context.Context, resourceType, id string) (*Record, error)
	Delete(ctx context.Context, resourceType, id string) error
	Search(ctx context.Context, ff *facetfilter.FacetFilter) (*Page, error)
	Ping(ctx context.Context) error
}

const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Column implements facetfilter.Document.
func (r *Record) Column(key string) string {
	switch key {
	case facetfilter.KeyID:
		return r.ID
	case facetfilter.KeyCatalogueID:
		return r.CatalogueID
	case facetfilter.KeyStatus:
		return r.Status
	case facetfilter.KeyPublished:
		return strconv.FormatBool(r.Published)
	case facetfilter.KeyActive:
		return strconv.FormatBool(r.Active)
	case facetfilter.KeySuspended:
		return strconv.FormatBool(r.Suspended)
	case facetfilter.KeyDraft:
		return strconv.FormatBool(r.Draft)
	case facetfilter.OrderName:
		return r.Name
	case facetfilter.OrderCreatedAt:
		return r.CreatedAt.UTC().Format(timeLayout)
	case facetfilter.OrderModifiedAt:
		return r.ModifiedAt.UTC().Format(timeLayout)
	}
	return ""
}

// FacetValues implements facetfilter.Document.
func (r *Record) FacetValues(key string) []string {
	return r.Facets[key]
}

// Text implements facetfilter.Document.
func (r *Record) Text() string {
	return r.SearchText
}

// Clone returns a deep copy of r.
func (r *Record) Clone() *Record {
	c := *r
	c.Payload = append([]byte(nil), r.Payload...)
	c.Facets = make(map[string][]string, len(r.Facets))
	for k, v := range r.Facets {
		c.Facets[k] = append([]string(nil), v...)
	}
	return &c
}

func recordKey(resourceType, id string) string {
	return resourceType + "/" + id
}
