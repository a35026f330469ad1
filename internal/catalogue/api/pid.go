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

	"github.com/madgik/resource-catalogue-go/internal/common"
	"github.com/madgik/resource-catalogue-go/internal/common/facetfilter"
	"github.com/madgik/resource-catalogue-go/internal/common/model"
)

// pidKinds are the kinds whose public copies carry a handle, in lookup order.
var pidKinds = []string{
	model.TypeProvider,
	model.TypeService,
	model.TypeTrainingResource,
	model.TypeDeployableService,
	model.TypeInteroperabilityRecord,
	model.TypeAdapter,
}

// publicByPID finds the public copy whose handle or original id is pid.
func publicByPID[P model.Payload](ctx context.Context, l *lifecycle[P], pid string) (*model.Bundle[P], error) {
	if b, err := l.fetch(ctx, pid); err == nil {
		if b.Published() {
			return b, nil
		}
		if pub, err := l.fetch(ctx, publicID(l.catalogueOrDefault(b.CatalogueID()), b.ID)); err == nil {
			return pub, nil
		}
	}
	published, err := l.repo.List(ctx, facetfilter.New(l.kind.Type).SetFilter(facetfilter.KeyPublished, "true"))
	if err != nil {
		return nil, err
	}
	for _, b := range published {
		if b.Identifiers == nil {
			continue
		}
		if b.Identifiers.PID == pid || b.Identifiers.OriginalID == pid {
			return b, nil
		}
	}
	return nil, common.NewErrNotFound(fmt.Sprintf("%s with PID '%s' does not exist.", l.kind.Label, pid))
}

// resolvePID looks pid up in one kind and returns the public bundle.
func (r *Registry) resolvePID(ctx context.Context, pid, resourceType string) (interface{}, *model.Identifiers, error) {
	switch resourceType {
	case model.TypeProvider:
		b, err := publicByPID(ctx, &r.Providers.lifecycle, pid)
		return bundleResult(b, err)
	case model.TypeService:
		b, err := publicByPID(ctx, &r.Services.lifecycle, pid)
		return bundleResult(b, err)
	case model.TypeTrainingResource:
		b, err := publicByPID(ctx, &r.Trainings.lifecycle, pid)
		return bundleResult(b, err)
	case model.TypeDeployableService:
		b, err := publicByPID(ctx, &r.Deployables.lifecycle, pid)
		return bundleResult(b, err)
	case model.TypeInteroperabilityRecord:
		b, err := publicByPID(ctx, &r.Guidelines.lifecycle, pid)
		return bundleResult(b, err)
	case model.TypeAdapter:
		b, err := publicByPID(ctx, &r.Adapters.lifecycle, pid)
		return bundleResult(b, err)
	}
	return nil, nil, common.NewErrBadRequest(fmt.Sprintf("Resource type '%s' has no PID", resourceType))
}

func bundleResult[P model.Payload](b *model.Bundle[P], err error) (interface{}, *model.Identifiers, error) {
	if err != nil {
		return nil, nil, err
	}
	return b.Payload, b.Identifiers, nil
}

// ResolvePID returns the payload of the public entry registered under pid.
// An empty resourceType searches every kind that carries a handle.
func (r *Registry) ResolvePID(ctx context.Context, pid, resourceType string) (interface{}, error) {
	kinds := pidKinds
	if resourceType != "" {
		kinds = []string{resourceType}
	}
	for _, kind := range kinds {
		payload, _, err := r.resolvePID(ctx, pid, kind)
		if err == nil {
			return payload, nil
		}
		if !common.IsErrNotFound(err) {
			return nil, err
		}
	}
	return nil, common.NewErrNotFound(fmt.Sprintf("Resource with PID '%s' does not exist.", pid))
}

// RegisterPID (re)registers the handle of the public copy of id.
func (r *Registry) RegisterPID(ctx context.Context, id, resourceType string) error {
	_, identifiers, err := r.resolvePID(ctx, id, resourceType)
	if err != nil {
		return err
	}
	handle := id
	if identifiers != nil && identifiers.PID != "" {
		handle = identifiers.PID
	}
	return r.pid.Register(ctx, handle, resourceType)
}
