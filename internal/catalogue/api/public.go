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
	"github.com/madgik/resource-catalogue-go/internal/common/model"
	"github.com/madgik/resource-catalogue-go/internal/notifications"
)

// publicID returns the id of the public copy of id.
func publicID(catalogueID, id string) string {
	return catalogueID + "." + id
}

// PublicManager maintains the published copies of one kind.
type PublicManager[P model.Payload] struct {
	*core
	kind kindInfo
	repo *Repository[P]
}

func newPublicManager[P model.Payload](c *core, kind kindInfo, repo *Repository[P]) *PublicManager[P] {
	return &PublicManager[P]{core: c, kind: kind, repo: repo}
}

// Add creates the public copy of b.
func (m *PublicManager[P]) Add(ctx context.Context, b *model.Bundle[P]) (*model.Bundle[P], error) {
	cat := m.catalogueOrDefault(b.CatalogueID())
	if strings.HasPrefix(b.ID, cat+".") {
		return nil, common.NewErrConflict(fmt.Sprintf("%s with id [%s] is already a public copy of catalogue [%s]", m.kind.Label, b.ID, cat))
	}
	pub, err := m.toPublic(b, nil)
	if err != nil {
		return nil, err
	}
	if m.pidEnabled {
		if err := m.pid.Register(ctx, pub.Identifiers.PID, m.kind.Type); err != nil {
			logFailure(ctx, "pid registration", pub.Identifiers.PID, err)
		}
	}
	if err := m.repo.Add(ctx, pub); err != nil {
		return nil, err
	}
	m.notify(m.kind.Type, pub.ID, notifications.ActionCreate, pub)
	return pub, nil
}

// Update copies b onto its public copy, creating the copy when missing.
func (m *PublicManager[P]) Update(ctx context.Context, b *model.Bundle[P]) (*model.Bundle[P], error) {
	existing, err := m.repo.Get(ctx, publicID(m.catalogueOrDefault(b.CatalogueID()), b.ID))
	if err != nil {
		if common.IsErrNotFound(err) {
			return m.Add(ctx, b)
		}
		return nil, err
	}
	pub, err := m.toPublic(b, existing.Identifiers)
	if err != nil {
		return nil, err
	}
	if err := m.repo.Update(ctx, pub); err != nil {
		return nil, err
	}
	m.notify(m.kind.Type, pub.ID, notifications.ActionUpdate, pub)
	return pub, nil
}

// Refresh updates the public copy of b if it exists.
func (m *PublicManager[P]) Refresh(ctx context.Context, b *model.Bundle[P]) error {
	_, err := m.repo.Get(ctx, publicID(m.catalogueOrDefault(b.CatalogueID()), b.ID))
	if common.IsErrNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	_, err = m.Update(ctx, b)
	return err
}

// Delete removes the public copy of b. A missing copy is ignored.
func (m *PublicManager[P]) Delete(ctx context.Context, b *model.Bundle[P]) error {
	id := publicID(m.catalogueOrDefault(b.CatalogueID()), b.ID)
	if err := m.repo.Delete(ctx, id); err != nil {
		if common.IsErrNotFound(err) {
			return nil
		}
		return err
	}
	m.notify(m.kind.Type, id, notifications.ActionDelete, nil)
	return nil
}

// toPublic derives the public copy of b. Relations to other resources of
// the catalogue are rewritten to their public ids.
func (m *PublicManager[P]) toPublic(b *model.Bundle[P], identifiers *model.Identifiers) (*model.Bundle[P], error) {
	pub, err := cloneBundle(b)
	if err != nil {
		return nil, err
	}
	cat := m.catalogueOrDefault(b.CatalogueID())
	if identifiers == nil {
		identifiers = &model.Identifiers{OriginalID: b.ID, PID: m.pidFor(b)}
	}
	pub.Identifiers = identifiers
	pub.SetID(publicID(cat, b.ID))
	if pub.Metadata == nil {
		pub.Metadata = &model.Metadata{}
	}
	pub.Metadata.Published = true
	if rel, ok := any(pub.Payload).(model.Related); ok {
		rel.RewriteRelations(func(id string) string {
			if id == "" || strings.HasPrefix(id, cat+".") {
				return id
			}
			return publicID(cat, id)
		})
	}
	return pub, nil
}

// pidFor returns the handle of b, moved under the configured prefix of its kind.
func (m *PublicManager[P]) pidFor(b *model.Bundle[P]) string {
	pid := b.ID
	if b.Identifiers != nil && b.Identifiers.PID != "" {
		pid = b.Identifiers.PID
	}
	if prefix := m.pidPrefixes[m.kind.Type]; prefix != "" {
		pid = prefix + "/" + pid[strings.LastIndex(pid, "/")+1:]
	}
	return pid
}
