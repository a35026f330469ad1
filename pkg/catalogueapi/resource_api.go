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
	"github.com/madgik/resource-catalogue-go/internal/common"
	"github.com/madgik/resource-catalogue-go/internal/common/model"
	"github.com/madgik/resource-catalogue-go/internal/common/security"
)

type resourcePayload interface {
	model.Payload
	model.Owned
}

// ResourceAPIController serves one of the kinds registered by providers:
// services, training resources, deployable services and interoperability
// records.
type ResourceAPIController[P resourcePayload] struct {
	lifecycleAPI[P]
	service *api.ResourceManager[P]
}

// ResourceAPIOption for how the controller is set up.
type ResourceAPIOption[P resourcePayload] func(*ResourceAPIController[P])

// WithResourceAPIErrorHandler inject ErrorHandler into controller
func WithResourceAPIErrorHandler[P resourcePayload](h model.ErrorHandler) ResourceAPIOption[P] {
	return func(c *ResourceAPIController[P]) {
		c.errorHandler = h
	}
}

func newResourceAPIController[P resourcePayload](reg *api.Registry, kind kindRoute, m *api.ResourceManager[P], opts ...ResourceAPIOption[P]) *ResourceAPIController[P] {
	controller := &ResourceAPIController[P]{
		lifecycleAPI: newLifecycleAPI[P](reg, kind, m, m),
		service:      m,
	}
	for _, opt := range opts {
		opt(controller)
	}
	return controller
}

// NewServiceAPIController creates the controller of the service routes.
func NewServiceAPIController(reg *api.Registry, opts ...ResourceAPIOption[*model.Service]) *ResourceAPIController[*model.Service] {
	return newResourceAPIController(reg, serviceRoute, reg.Services, opts...)
}

// NewTrainingResourceAPIController creates the controller of the training resource routes.
func NewTrainingResourceAPIController(reg *api.Registry, opts ...ResourceAPIOption[*model.TrainingResource]) *ResourceAPIController[*model.TrainingResource] {
	return newResourceAPIController(reg, trainingRoute, reg.Trainings, opts...)
}

// NewDeployableServiceAPIController creates the controller of the deployable service routes.
func NewDeployableServiceAPIController(reg *api.Registry, opts ...ResourceAPIOption[*model.DeployableService]) *ResourceAPIController[*model.DeployableService] {
	return newResourceAPIController(reg, deployableRoute, reg.Deployables, opts...)
}

// NewInteroperabilityRecordAPIController creates the controller of the interoperability record routes.
func NewInteroperabilityRecordAPIController(reg *api.Registry, opts ...ResourceAPIOption[*model.InteroperabilityRecord]) *ResourceAPIController[*model.InteroperabilityRecord] {
	return newResourceAPIController(reg, guidelineRoute, reg.Guidelines, opts...)
}

// Routes returns all the api routes for the ResourceAPIController
func (c *ResourceAPIController[P]) Routes() model.Routes {
	k := c.kind
	routes := c.routes()
	routes["GetInactive"+k.Name+"s"] = model.Route{
		Method:      strings.ToUpper("Get"),
		Pattern:     k.path("inactive", "all"),
		HandlerFunc: security.RequireAdmin(c.GetInactive),
	}
	routes["GetPending"+k.Name+"s"] = model.Route{
		Method:      strings.ToUpper("Get"),
		Pattern:     k.path("pending", "all"),
		HandlerFunc: security.RequireAdmin(c.GetPending),
	}
	routes["Get"+k.Name+"sByProvider"] = model.Route{
		Method:      strings.ToUpper("Get"),
		Pattern:     k.path("byProvider", "{prefix}", "{suffix}"),
		HandlerFunc: c.GetByProvider,
	}
	routes["Get"+k.Name+"sByCatalogue"] = model.Route{
		Method:      strings.ToUpper("Get"),
		Pattern:     k.path("byCatalogue", "{id}"),
		HandlerFunc: c.GetByCatalogue,
	}
	routes["ChangeProvider"+k.Name] = model.Route{
		Method:      strings.ToUpper("Put"),
		Pattern:     k.path("changeProvider"),
		HandlerFunc: security.RequireAdmin(c.ChangeProvider),
	}
	routes[k.Name+"IDToNameMap"] = model.Route{
		Method:      strings.ToUpper("Get"),
		Pattern:     k.path("resourceIdToNameMap"),
		HandlerFunc: c.IDToNameMap,
	}
	routes["GetDraft"+k.Name+"sByProvider"] = model.Route{
		Method:      strings.ToUpper("Get"),
		Pattern:     k.path("draft", "byProvider", "{prefix}", "{suffix}"),
		HandlerFunc: c.GetDraftsByProvider,
	}
	return routes
}

// GetInactive - lists the inactive resources
func (c *ResourceAPIController[P]) GetInactive(w http.ResponseWriter, r *http.Request) {
	ff, err := browseFilter(r, c.kind.Type, c.defaultCatalogue())
	if err != nil {
		c.fail(w, r, "GetInactive"+c.kind.Name+"s", err)
		return
	}
	page, err := c.service.GetInactive(r.Context(), ff)
	if err != nil {
		c.fail(w, r, "GetInactive"+c.kind.Name+"s", err)
		return
	}
	c.respond(w, r, http.StatusOK, page)
}

// GetPending - lists the resources awaiting approval
func (c *ResourceAPIController[P]) GetPending(w http.ResponseWriter, r *http.Request) {
	ff, err := browseFilter(r, c.kind.Type, c.defaultCatalogue())
	if err != nil {
		c.fail(w, r, "GetPending"+c.kind.Name+"s", err)
		return
	}
	page, err := c.service.GetPending(r.Context(), ff)
	if err != nil {
		c.fail(w, r, "GetPending"+c.kind.Name+"s", err)
		return
	}
	c.respond(w, r, http.StatusOK, page)
}

// GetByProvider - lists the resources of a provider the caller manages
func (c *ResourceAPIController[P]) GetByProvider(w http.ResponseWriter, r *http.Request) {
	providerID := pathID(r)
	if !c.guard(w, r, "Get"+c.kind.Name+"sByProvider", model.TypeProvider, providerID) {
		return
	}
	c.byProvider(w, r, providerID, false)
}

// GetByCatalogueProvider - lists the resources of a provider inside a catalogue
func (c *ResourceAPIController[P]) GetByCatalogueProvider(w http.ResponseWriter, r *http.Request) {
	providerID := common.JoinID(chi.URLParam(r, "providerPrefix"), chi.URLParam(r, "providerSuffix"))
	c.byProvider(w, r, providerID, true)
}

func (c *ResourceAPIController[P]) byProvider(w http.ResponseWriter, r *http.Request, providerID string, payloads bool) {
	op := "Get" + c.kind.Name + "sByProvider"
	cat := catalogueParam(r, c.defaultCatalogue())
	ff, err := browseFilter(r, c.kind.Type, allCatalogues)
	if err != nil {
		c.fail(w, r, op, err)
		return
	}
	page, err := c.service.GetByProvider(r.Context(), ff, providerID, cat)
	if err != nil {
		c.fail(w, r, op, err)
		return
	}
	if payloads {
		c.respond(w, r, http.StatusOK, api.Payloads(page))
		return
	}
	c.respond(w, r, http.StatusOK, page)
}

// GetByCatalogue - lists the resources of a catalogue
func (c *ResourceAPIController[P]) GetByCatalogue(w http.ResponseWriter, r *http.Request) {
	catalogueID := chi.URLParam(r, "id")
	if !c.guard(w, r, "Get"+c.kind.Name+"sByCatalogue", model.TypeCatalogue, catalogueID) {
		return
	}
	ff, err := browseFilter(r, c.kind.Type, allCatalogues)
	if err != nil {
		c.fail(w, r, "Get"+c.kind.Name+"sByCatalogue", err)
		return
	}
	page, err := c.service.GetByCatalogue(r.Context(), ff, catalogueID)
	if err != nil {
		c.fail(w, r, "Get"+c.kind.Name+"sByCatalogue", err)
		return
	}
	c.respond(w, r, http.StatusOK, page)
}

// ChangeProvider - moves a resource to another provider
func (c *ResourceAPIController[P]) ChangeProvider(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := requiredQuery(r, "resourceId")
	if err != nil {
		c.fail(w, r, "ChangeProvider"+c.kind.Name, err)
		return
	}
	newProvider, err := requiredQuery(r, "newProvider")
	if err != nil {
		c.fail(w, r, "ChangeProvider"+c.kind.Name, err)
		return
	}
	b, err := c.service.ChangeProvider(ctx, id, newProvider, r.URL.Query().Get("comment"), security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, "ChangeProvider"+c.kind.Name, err)
		return
	}
	c.respond(w, r, http.StatusOK, b)
}

// IDToNameMap - maps resource ids to names for the selectors
func (c *ResourceAPIController[P]) IDToNameMap(w http.ResponseWriter, r *http.Request) {
	names, err := c.service.IDToNameMap(r.Context(), catalogueParam(r, c.defaultCatalogue()))
	if err != nil {
		c.fail(w, r, c.kind.Name+"IDToNameMap", err)
		return
	}
	c.respond(w, r, http.StatusOK, names)
}

// GetDraftsByProvider - lists the drafts of a provider the caller manages
func (c *ResourceAPIController[P]) GetDraftsByProvider(w http.ResponseWriter, r *http.Request) {
	providerID := pathID(r)
	if !c.guard(w, r, "GetDraft"+c.kind.Name+"sByProvider", model.TypeProvider, providerID) {
		return
	}
	ff, err := browseFilter(r, c.kind.Type, allCatalogues)
	if err != nil {
		c.fail(w, r, "GetDraft"+c.kind.Name+"sByProvider", err)
		return
	}
	page, err := c.service.GetDraftsByProvider(r.Context(), ff, providerID)
	if err != nil {
		c.fail(w, r, "GetDraft"+c.kind.Name+"sByProvider", err)
		return
	}
	c.respond(w, r, http.StatusOK, page)
}
