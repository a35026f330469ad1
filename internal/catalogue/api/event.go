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
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/madgik/resource-catalogue-go/internal/common"
	"github.com/madgik/resource-catalogue-go/internal/common/facetfilter"
	"github.com/madgik/resource-catalogue-go/internal/common/model"
	"github.com/madgik/resource-catalogue-go/internal/common/security"
	"github.com/madgik/resource-catalogue-go/internal/notifications"
)

// Aggregation granularities of Aggregate.
const (
	AggregateByDay   = "day"
	AggregateByMonth = "month"
)

// EventManager records user interactions with services.
type EventManager struct {
	lifecycle[*model.Event]
}

func newEventManager(c *core) *EventManager {
	return &EventManager{lifecycle: newLifecycle[*model.Event](c, kindEvent)}
}

// Add stores an event under a fresh id.
func (m *EventManager) Add(ctx context.Context, e *model.Event, p *security.Principal) (*model.Event, error) {
	if e == nil {
		return nil, common.NewErrBadRequest("Event payload is required")
	}
	e.ID = uuid.NewString()
	if e.Timestamp == 0 {
		e.Timestamp = model.Now().UnixMilli()
	}
	if err := m.validator.Validate(e); err != nil {
		return nil, err
	}
	b := model.NewBundle(e)
	b.Metadata = model.NewMetadata(p.FullName(), "")
	if err := m.repo.Add(ctx, b); err != nil {
		return nil, err
	}
	m.notify(model.TypeEvent, e.ID, notifications.ActionCreate, e)
	return e, nil
}

// Update replaces a stored event.
func (m *EventManager) Update(ctx context.Context, e *model.Event, p *security.Principal) (*model.Event, error) {
	if e == nil {
		return nil, common.NewErrBadRequest("Event payload is required")
	}
	existing, err := m.fetch(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	if err := m.validator.Validate(e); err != nil {
		return nil, err
	}
	existing.Payload = e
	existing.Metadata = model.UpdateMetadata(existing.Metadata, p.FullName(), "")
	if err := m.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	m.notify(model.TypeEvent, e.ID, notifications.ActionUpdate, e)
	return e, nil
}

// Delete removes an event.
func (m *EventManager) Delete(ctx context.Context, id string) (*model.Event, error) {
	b, err := m.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := m.remove(ctx, b); err != nil {
		return nil, err
	}
	return b.Payload, nil
}

// Get returns an event by id.
func (m *EventManager) Get(ctx context.Context, id string) (*model.Event, error) {
	b, err := m.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	return b.Payload, nil
}

// AddVisit records a visit of a service page. Anonymous visits are allowed.
func (m *EventManager) AddVisit(ctx context.Context, serviceID string, value *float64, p *security.Principal) (*model.Event, error) {
	return m.record(ctx, serviceID, model.EventVisit, value, p)
}

// AddToProject records that the caller added a service to a project.
func (m *EventManager) AddToProject(ctx context.Context, serviceID string, value *float64, p *security.Principal) (*model.Event, error) {
	return m.record(ctx, serviceID, model.EventAddToProject, value, p)
}

// AddOrder records that the caller ordered a service.
func (m *EventManager) AddOrder(ctx context.Context, serviceID string, value *float64, p *security.Principal) (*model.Event, error) {
	return m.record(ctx, serviceID, model.EventOrder, value, p)
}

func (m *EventManager) record(ctx context.Context, serviceID, eventType string, value *float64, p *security.Principal) (*model.Event, error) {
	if eventType != model.EventVisit && !p.Authenticated {
		return nil, common.NewErrUnauthorized("full authentication is required to access this resource")
	}
	if _, err := m.findRecord(ctx, serviceID, model.TypeService); err != nil {
		if common.IsErrNotFound(err) {
			return nil, common.NewErrNotFound(fmt.Sprintf("Service with id '%s' does not exist.", serviceID))
		}
		return nil, err
	}
	e := &model.Event{
		Service: serviceID,
		Type:    eventType,
		Value:   1,
	}
	if value != nil {
		e.Value = *value
	}
	if p.Authenticated {
		e.User = lower(p.Email)
	}
	return m.Add(ctx, e, p)
}

func (m *EventManager) list(ctx context.Context, ff *facetfilter.FacetFilter) ([]*model.Event, error) {
	all, err := m.repo.List(ctx, ff)
	if err != nil {
		return nil, err
	}
	events := make([]*model.Event, 0, len(all))
	for _, b := range all {
		events = append(events, b.Payload)
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Timestamp < events[j].Timestamp })
	return events, nil
}

// GetEvents lists the events of a type recorded for a service, oldest first.
func (m *EventManager) GetEvents(ctx context.Context, eventType, serviceID string) ([]*model.Event, error) {
	if !model.ValidEventType(eventType) {
		return nil, common.NewErrBadRequest(fmt.Sprintf("Unknown event type '%s'", eventType))
	}
	return m.list(ctx, facetfilter.New(model.TypeEvent).
		SetFilter("type", eventType).
		SetFilter("service", serviceID))
}

// GetAllEvents lists every event of a type, oldest first.
func (m *EventManager) GetAllEvents(ctx context.Context, eventType string) ([]*model.Event, error) {
	if !model.ValidEventType(eventType) {
		return nil, common.NewErrBadRequest(fmt.Sprintf("Unknown event type '%s'", eventType))
	}
	return m.list(ctx, facetfilter.New(model.TypeEvent).SetFilter("type", eventType))
}

// Aggregate sums the values of the events of a service per day or month
// (UTC), keyed like "2026-01-02" or "2026-01".
func (m *EventManager) Aggregate(ctx context.Context, eventType, serviceID, by string) (map[string]float64, error) {
	layout := ""
	switch by {
	case AggregateByDay, "":
		layout = "2006-01-02"
	case AggregateByMonth:
		layout = "2006-01"
	default:
		return nil, common.NewErrBadRequest(fmt.Sprintf("Aggregation '%s' must be '%s' or '%s'", by, AggregateByDay, AggregateByMonth))
	}
	events, err := m.GetEvents(ctx, eventType, serviceID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64)
	for _, e := range events {
		out[time.UnixMilli(e.Timestamp).UTC().Format(layout)] += e.Value
	}
	return out, nil
}
