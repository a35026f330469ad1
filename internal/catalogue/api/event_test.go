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
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madgik/resource-catalogue-go/internal/common"
	"github.com/madgik/resource-catalogue-go/internal/common/model"
	"github.com/madgik/resource-catalogue-go/internal/common/security"
)

func millis(s string) int64 {
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return ts.UnixMilli()
}

func TestEventRecording(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	service := approvedService(t, r, alice, approvedProvider(t, r, alice, "ev").ID)

	visit, err := r.Events.AddVisit(ctx, service.ID, nil, security.Anonymous)
	require.NoError(t, err)
	assert.Equal(t, 1.0, visit.Value)
	assert.Empty(t, visit.User)
	assert.NotEmpty(t, visit.ID)

	_, err = r.Events.AddOrder(ctx, service.ID, nil, security.Anonymous)
	assert.True(t, common.IsErrUnauthorized(err))

	value := 3.0
	order, err := r.Events.AddOrder(ctx, service.ID, &value, bob)
	require.NoError(t, err)
	assert.Equal(t, 3.0, order.Value)
	assert.Equal(t, "bob@example.org", order.User)

	_, err = r.Events.AddToProject(ctx, "21.T15999/none", nil, bob)
	assert.True(t, common.IsErrNotFound(err))

	orders, err := r.Events.GetEvents(ctx, model.EventOrder, service.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)

	_, err = r.Events.GetAllEvents(ctx, "like")
	assert.True(t, common.IsErrBadRequest(err))
}

func TestEventAggregation(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	for _, e := range []*model.Event{
		{Service: "svc", Type: model.EventVisit, Value: 1, Timestamp: millis("2026-03-01T10:00:00Z")},
		{Service: "svc", Type: model.EventVisit, Value: 2, Timestamp: millis("2026-03-01T23:59:00Z")},
		{Service: "svc", Type: model.EventVisit, Value: 4, Timestamp: millis("2026-03-02T00:01:00Z")},
		{Service: "svc", Type: model.EventVisit, Value: 8, Timestamp: millis("2026-04-15T12:00:00Z")},
		{Service: "other", Type: model.EventVisit, Value: 16, Timestamp: millis("2026-03-01T12:00:00Z")},
		{Service: "svc", Type: model.EventOrder, Value: 32, Timestamp: millis("2026-03-01T12:00:00Z")},
	} {
		_, err := r.Events.Add(ctx, e, admin)
		require.NoError(t, err)
	}

	daily, err := r.Events.Aggregate(ctx, model.EventVisit, "svc", "")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{
		"2026-03-01": 3,
		"2026-03-02": 4,
		"2026-04-15": 8,
	}, daily)

	monthly, err := r.Events.Aggregate(ctx, model.EventVisit, "svc", AggregateByMonth)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"2026-03": 7, "2026-04": 8}, monthly)

	_, err = r.Events.Aggregate(ctx, model.EventVisit, "svc", "week")
	assert.True(t, common.IsErrBadRequest(err))

	events, err := r.Events.GetEvents(ctx, model.EventVisit, "svc")
	require.NoError(t, err)
	require.Len(t, events, 4)
	for i := 1; i < len(events); i++ {
		assert.LessOrEqual(t, events[i-1].Timestamp, events[i].Timestamp)
	}
}

func TestEventUpdateAndDelete(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	e, err := r.Events.Add(ctx, &model.Event{Service: "svc", Type: model.EventVisit, Value: 1}, admin)
	require.NoError(t, err)
	assert.NotZero(t, e.Timestamp)

	e.Value = 5
	_, err = r.Events.Update(ctx, e, admin)
	require.NoError(t, err)
	got, err := r.Events.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, got.Value)

	_, err = r.Events.Delete(ctx, e.ID)
	require.NoError(t, err)
	_, err = r.Events.Get(ctx, e.ID)
	assert.True(t, common.IsErrNotFound(err))
}
