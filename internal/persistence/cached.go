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
	"time"

	"github.com/karlseguin/ccache"

	"github.com/madgik/resource-catalogue-go/internal/common/facetfilter"
	"github.com/madgik/resource-catalogue-go/internal/common/log"
)

// CachedStore keeps recently read records in an LRU in front of another store.
// Searches always go to the backend.
type CachedStore struct {
	backend Store
	cache   *ccache.Cache
	ttl     time.Duration
}

// NewCachedStore wraps backend with a cache of at most size records.
func NewCachedStore(backend Store, size int64, ttl time.Duration) *CachedStore {
	return &CachedStore{
		backend: backend,
		cache:   ccache.New(ccache.Configure().MaxSize(size)),
		ttl:     ttl,
	}
}

func (s *CachedStore) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

func (s *CachedStore) Add(ctx context.Context, rec *Record) error {
	s.cache.Delete(recordKey(rec.ResourceType, rec.ID))
	return s.backend.Add(ctx, rec)
}

func (s *CachedStore) Update(ctx context.Context, rec *Record) error {
	key := recordKey(rec.ResourceType, rec.ID)
	s.cache.Delete(key)
	err := s.backend.Update(ctx, rec)
	s.cache.Delete(key)
	return err
}

func (s *CachedStore) Get(ctx context.Context, resourceType, id string) (*Record, error) {
	key := recordKey(resourceType, id)
	if cached := s.cache.Get(key); cached != nil && !cached.Expired() {
		log.L(ctx).Tracef("Cache hit for %s", key)
		return cached.Value().(*Record).Clone(), nil
	}
	rec, err := s.backend.Get(ctx, resourceType, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, rec.Clone(), s.ttl)
	return rec, nil
}

func (s *CachedStore) Delete(ctx context.Context, resourceType, id string) error {
	key := recordKey(resourceType, id)
	s.cache.Delete(key)
	return s.backend.Delete(ctx, resourceType, id)
}

func (s *CachedStore) Search(ctx context.Context, ff *facetfilter.FacetFilter) (*Page, error) {
	return s.backend.Search(ctx, ff)
}
