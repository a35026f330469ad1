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

package persistence

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/madgik/resource-catalogue-go/internal/common"
	"github.com/madgik/resource-catalogue-go/internal/common/facetfilter"
)

// MemoryStore keeps records in process. It evaluates filters with the same
// matcher the SQL translation mirrors.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]*Record{}}
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

func (s *MemoryStore) Add(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := recordKey(rec.ResourceType, rec.ID)
	if _, ok := s.records[key]; ok {
		return common.NewErrConflict(fmt.Sprintf("%s with id '%s' already exists", rec.ResourceType, rec.ID))
	}
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.ModifiedAt = now
	s.records[key] = rec.Clone()
	return nil
}

func (s *MemoryStore) Update(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := recordKey(rec.ResourceType, rec.ID)
	existing, ok := s.records[key]
	if !ok {
		return common.NewErrNotFound(fmt.Sprintf("%s with id '%s' does not exist", rec.ResourceType, rec.ID))
	}
	rec.CreatedAt = existing.CreatedAt
	rec.ModifiedAt = time.Now().UTC()
	s.records[key] = rec.Clone()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, resourceType, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[recordKey(resourceType, id)]
	if !ok {
		return nil, common.NewErrNotFound(fmt.Sprintf("%s with id '%s' does not exist", resourceType, id))
	}
	return rec.Clone(), nil
}

func (s *MemoryStore) Delete(_ context.Context, resourceType, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := recordKey(resourceType, id)
	if _, ok := s.records[key]; !ok {
		return common.NewErrNotFound(fmt.Sprintf("%s with id '%s' does not exist", resourceType, id))
	}
	delete(s.records, key)
	return nil
}

func (s *MemoryStore) Search(_ context.Context, ff *facetfilter.FacetFilter) (*Page, error) {
	// Where validates the filter the same way the SQL store does.
	if _, err := ff.Where(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	var hits []*Record
	for _, rec := range s.records {
		if ff.ResourceType != "" && rec.ResourceType != ff.ResourceType {
			continue
		}
		if ff.Match(rec) {
			hits = append(hits, rec.Clone())
		}
	}
	s.mu.RUnlock()

	sort.Slice(hits, func(i, j int) bool { return ff.Less(hits[i], hits[j]) })

	docs := make([]facetfilter.Document, len(hits))
	for i, h := range hits {
		docs[i] = h
	}
	page := &Page{Total: len(hits), From: ff.From, Facets: ff.Facets(docs)}
	if ff.Quantity > 0 && ff.From < len(hits) {
		end := ff.From + ff.Quantity
		if end > len(hits) {
			end = len(hits)
		}
		page.Records = hits[ff.From:end]
	}
	return page, nil
}
