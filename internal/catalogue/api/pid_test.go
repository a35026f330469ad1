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
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madgik/resource-catalogue-go/internal/common"
	"github.com/madgik/resource-catalogue-go/internal/common/model"
)

type recordingRegistrar struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingRegistrar) Register(_ context.Context, pid, resourceType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, resourceType+":"+pid)
	return nil
}

func TestResolvePID(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	provider := approvedProvider(t, r, alice, "pidprov")
	service := approvedService(t, r, alice, provider.ID)

	got, err := r.ResolvePID(ctx, service.ID, model.TypeService)
	require.NoError(t, err)
	s, ok := got.(*model.Service)
	require.True(t, ok)
	assert.Equal(t, publicID("eosc", service.ID), s.ID)

	got, err = r.ResolvePID(ctx, provider.ID, "")
	require.NoError(t, err)
	_, ok = got.(*model.Provider)
	assert.True(t, ok)

	_, err = r.ResolvePID(ctx, "21.T15999/unknown", "")
	assert.True(t, common.IsErrNotFound(err))

	_, err = r.ResolvePID(ctx, service.ID, model.TypeEvent)
	assert.True(t, common.IsErrBadRequest(err))
}

func TestRegisterPID(t *testing.T) {
	r := newTestRegistry(t)
	rec := &recordingRegistrar{}
	r.pid = rec
	ctx := context.Background()
	provider := approvedProvider(t, r, alice, "pidreg")

	require.NoError(t, r.RegisterPID(ctx, provider.ID, model.TypeProvider))
	assert.Contains(t, rec.calls, model.TypeProvider+":"+provider.ID)

	err := r.RegisterPID(ctx, "21.T15999/unknown", model.TypeProvider)
	assert.True(t, common.IsErrNotFound(err))
}
