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

package catalogueapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/madgik/resource-catalogue-go/internal/catalogue/api"
	"github.com/madgik/resource-catalogue-go/internal/common/model"
	"github.com/madgik/resource-catalogue-go/internal/common/security"
)

// EventAPIController records and reports the interactions with services.
type EventAPIController struct {
	controller
	service *api.EventManager
}

// EventAPIOption for how the controller is set up.
type EventAPIOption func(*EventAPIController)

// WithEventAPIErrorHandler inject ErrorHandler into controller
func WithEventAPIErrorHandler(h model.ErrorHandler) EventAPIOption {
	return func(c *EventAPIController) {
		c.errorHandler = h
	}
}

// NewEventAPIController creates a default api controller
func NewEventAPIController(reg *api.Registry, opts ...EventAPIOption) *EventAPIController {
	controller := &EventAPIController{
		controller: newController(reg),
		service:    reg.Events,
	}
	for _, opt := range opts {
		opt(controller)
	}
	return controller
}

// Routes returns all the api routes for the EventAPIController
func (c *EventAPIController) Routes() model.Routes {
	return model.Routes{
		"AddVisit": model.Route{
			Method:      strings.ToUpper("Post"),
			Pattern:     "/event/visit/{prefix}/{suffix}",
			HandlerFunc: c.record(model.EventVisit),
		},
		"AddToProject": model.Route{
			Method:      strings.ToUpper("Post"),
			Pattern:     "/event/addToProject/{prefix}/{suffix}",
			HandlerFunc: c.record(model.EventAddToProject),
		},
		"AddOrder": model.Route{
			Method:      strings.ToUpper("Post"),
			Pattern:     "/event/order/{prefix}/{suffix}",
			HandlerFunc: c.record(model.EventOrder),
		},
		"GetVisits": model.Route{
			Method:      strings.ToUpper("Get"),
			Pattern:     "/event/visit/{prefix}/{suffix}",
			HandlerFunc: c.list(model.EventVisit),
		},
		"GetAddToProjects": model.Route{
			Method:      strings.ToUpper("Get"),
			Pattern:     "/event/addToProject/{prefix}/{suffix}",
			HandlerFunc: c.list(model.EventAddToProject),
		},
		"GetOrders": model.Route{
			Method:      strings.ToUpper("Get"),
			Pattern:     "/event/order/{prefix}/{suffix}",
			HandlerFunc: c.list(model.EventOrder),
		},
		"GetAllEvents": model.Route{
			Method:      strings.ToUpper("Get"),
			Pattern:     "/event/all",
			HandlerFunc: security.RequireAdmin(c.GetAllEvents),
		},
		"AggregateEvents": model.Route{
			Method:      strings.ToUpper("Get"),
			Pattern:     "/event/aggregate/{prefix}/{suffix}",
			HandlerFunc: c.Aggregate,
		},
		"GetEvent": model.Route{
			Method:      strings.ToUpper("Get"),
			Pattern:     "/event/{id}",
			HandlerFunc: security.RequireAdmin(c.Get),
		},
		"AddEvent": model.Route{
			Method:      strings.ToUpper("Post"),
			Pattern:     "/event",
			HandlerFunc: security.RequireAdmin(c.Add),
		},
		"UpdateEvent": model.Route{
			Method:      strings.ToUpper("Put"),
			Pattern:     "/event",
			HandlerFunc: security.RequireAdmin(c.Update),
		},
		"DeleteEvent": model.Route{
			Method:      strings.ToUpper("Delete"),
			Pattern:     "/event/{id}",
			HandlerFunc: security.RequireAdmin(c.Delete),
		},
	}
}

// record stores an event of eventType for the service in the path. Anonymous
// callers may only record visits.
func (c *EventAPIController) record(eventType string) http.HandlerFunc {
	op := "Add" + eventType
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		value, err := optionalFloat(r, "value")
		if err != nil {
			c.fail(w, r, op, err)
			return
		}
		p := security.FromContext(ctx)
		var e *model.Event
		switch eventType {
		case model.EventVisit:
			e, err = c.service.AddVisit(ctx, pathID(r), value, p)
		case model.EventAddToProject:
			e, err = c.service.AddToProject(ctx, pathID(r), value, p)
		default:
			e, err = c.service.AddOrder(ctx, pathID(r), value, p)
		}
		if err != nil {
			c.fail(w, r, op, err)
			return
		}
		c.respond(w, r, http.StatusCreated, e)
	}
}

func (c *EventAPIController) list(eventType string) http.HandlerFunc {
	op := "Get" + eventType
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := c.service.GetEvents(r.Context(), eventType, pathID(r))
		if err != nil {
			c.fail(w, r, op, err)
			return
		}
		c.respond(w, r, http.StatusOK, events)
	}
}

// GetAllEvents - lists every event of a type
func (c *EventAPIController) GetAllEvents(w http.ResponseWriter, r *http.Request) {
	eventType, err := requiredQuery(r, "type")
	if err != nil {
		c.fail(w, r, "GetAllEvents", err)
		return
	}
	events, err := c.service.GetAllEvents(r.Context(), eventType)
	if err != nil {
		c.fail(w, r, "GetAllEvents", err)
		return
	}
	c.respond(w, r, http.StatusOK, events)
}

// Aggregate - sums the event values of a service per day or month
func (c *EventAPIController) Aggregate(w http.ResponseWriter, r *http.Request) {
	eventType, err := requiredQuery(r, "type")
	if err != nil {
		c.fail(w, r, "AggregateEvents", err)
		return
	}
	totals, err := c.service.Aggregate(r.Context(), eventType, pathID(r), r.URL.Query().Get("by"))
	if err != nil {
		c.fail(w, r, "AggregateEvents", err)
		return
	}
	c.respond(w, r, http.StatusOK, totals)
}

// Get - returns an event
func (c *EventAPIController) Get(w http.ResponseWriter, r *http.Request) {
	e, err := c.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		c.fail(w, r, "GetEvent", err)
		return
	}
	c.respond(w, r, http.StatusOK, e)
}

// Add - stores an event
func (c *EventAPIController) Add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	e := &model.Event{}
	if err := decodeJSON(r, e); err != nil {
		c.fail(w, r, "AddEvent", err)
		return
	}
	e, err := c.service.Add(ctx, e, security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, "AddEvent", err)
		return
	}
	c.respond(w, r, http.StatusCreated, e)
}

// Update - replaces an event
func (c *EventAPIController) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	e := &model.Event{}
	if err := decodeJSON(r, e); err != nil {
		c.fail(w, r, "UpdateEvent", err)
		return
	}
	e, err := c.service.Update(ctx, e, security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, "UpdateEvent", err)
		return
	}
	c.respond(w, r, http.StatusOK, e)
}

// Delete - removes an event
func (c *EventAPIController) Delete(w http.ResponseWriter, r *http.Request) {
	e, err := c.service.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		c.fail(w, r, "DeleteEvent", err)
		return
	}
	c.respond(w, r, http.StatusOK, e)
}
