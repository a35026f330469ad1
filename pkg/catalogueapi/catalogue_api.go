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
	"github.com/madgik/resource-catalogue-go/internal/common/facetfilter"
	"github.com/madgik/resource-catalogue-go/internal/common/model"
	"github.com/madgik/resource-catalogue-go/internal/common/security"
)

// scopedRouter is a resource controller that can also be served inside a catalogue.
type scopedRouter interface {
	scopedRoutes() model.Routes
	routeKind() kindRoute
	setErrorHandler(h model.ErrorHandler)
	GetByCatalogueProvider(w http.ResponseWriter, r *http.Request)
}

func (c *lifecycleAPI[P]) routeKind() kindRoute {
	return c.kind
}

func (c *lifecycleAPI[P]) setErrorHandler(h model.ErrorHandler) {
	c.errorHandler = h
}

// CatalogueAPIController binds the catalogue routes, including the reads and
// writes of providers and resources of one catalogue.
type CatalogueAPIController struct {
	controller
	service   *api.CatalogueManager
	providers *ProviderAPIController
	resources []scopedRouter
}

// CatalogueAPIOption for how the controller is set up.
type CatalogueAPIOption func(*CatalogueAPIController)

// WithCatalogueAPIErrorHandler inject ErrorHandler into controller
func WithCatalogueAPIErrorHandler(h model.ErrorHandler) CatalogueAPIOption {
	return func(c *CatalogueAPIController) {
		c.errorHandler = h
		c.providers.setErrorHandler(h)
		for _, res := range c.resources {
			res.setErrorHandler(h)
		}
	}
}

// NewCatalogueAPIController creates a default api controller
func NewCatalogueAPIController(reg *api.Registry, opts ...CatalogueAPIOption) *CatalogueAPIController {
	controller := &CatalogueAPIController{
		controller: newController(reg),
		service:    reg.Catalogues,
		providers:  NewProviderAPIController(reg),
		resources: []scopedRouter{
			NewServiceAPIController(reg),
			NewTrainingResourceAPIController(reg),
			NewDeployableServiceAPIController(reg),
			NewInteroperabilityRecordAPIController(reg),
		},
	}
	for _, opt := range opts {
		opt(controller)
	}
	return controller
}

// Routes returns all the api routes for the CatalogueAPIController
func (c *CatalogueAPIController) Routes() model.Routes {
	routes := model.Routes{
		"GetCatalogue": model.Route{
			Method:      strings.ToUpper("Get"),
			Pattern:     "/catalogue/{id}",
			HandlerFunc: c.GetCatalogue,
		},
		"GetCatalogueBundle": model.Route{
			Method:      strings.ToUpper("Get"),
			Pattern:     "/catalogue/bundle/{id}",
			HandlerFunc: c.GetCatalogueBundle,
		},
		"AddCatalogue": model.Route{
			Method:      strings.ToUpper("Post"),
			Pattern:     "/catalogue",
			HandlerFunc: security.RequireAuthenticated(c.AddCatalogue),
		},
		"UpdateCatalogue": model.Route{
			Method:      strings.ToUpper("Put"),
			Pattern:     "/catalogue",
			HandlerFunc: c.UpdateCatalogue,
		},
		"DeleteCatalogue": model.Route{
			Method:      strings.ToUpper("Delete"),
			Pattern:     "/catalogue/{id}",
			HandlerFunc: security.RequireAdmin(c.DeleteCatalogue),
		},
		"GetAllCatalogues": model.Route{
			Method:      strings.ToUpper("Get"),
			Pattern:     "/catalogue/all",
			HandlerFunc: c.GetAllCatalogues,
		},
		"GetAllCatalogueBundles": model.Route{
			Method:      strings.ToUpper("Get"),
			Pattern:     "/catalogue/bundle/all",
			HandlerFunc: security.RequireAdmin(c.GetAllCatalogueBundles),
		},
		"GetMyCatalogues": model.Route{
			Method:      strings.ToUpper("Get"),
			Pattern:     "/catalogue/getMyCatalogues",
			HandlerFunc: security.RequireAuthenticated(c.GetMyCatalogues),
		},
		"VerifyCatalogue": model.Route{
			Method:      strings.ToUpper("Patch"),
			Pattern:     "/catalogue/verifyCatalogue/{id}",
			HandlerFunc: security.RequireAdmin(c.VerifyCatalogue),
		},
		"PublishCatalogue": model.Route{
			Method:      strings.ToUpper("Patch"),
			Pattern:     "/catalogue/publish/{id}",
			HandlerFunc: c.PublishCatalogue,
		},
		"SuspendCatalogue": model.Route{
			Method:      strings.ToUpper("Put"),
			Pattern:     "/catalogue/suspend",
			HandlerFunc: security.RequireAdmin(c.SuspendCatalogue),
		},
		"AuditCatalogue": model.Route{
			Method:      strings.ToUpper("Patch"),
			Pattern:     "/catalogue/auditCatalogue/{id}",
			HandlerFunc: security.RequireAdmin(c.AuditCatalogue),
		},
		"CatalogueLoggingInfoHistory": model.Route{
			Method:      strings.ToUpper("Get"),
			Pattern:     "/catalogue/loggingInfoHistory/{id}",
			HandlerFunc: c.LoggingInfoHistory,
		},
		"HasAdminAcceptedCatalogueTerms": model.Route{
			Method:      strings.ToUpper("Get"),
			Pattern:     "/catalogue/hasAdminAcceptedTerms",
			HandlerFunc: security.RequireAuthenticated(c.HasAdminAcceptedTerms),
		},
		"AdminAcceptedCatalogueTerms": model.Route{
			Method:      strings.ToUpper("Put"),
			Pattern:     "/catalogue/adminAcceptedTerms",
			HandlerFunc: security.RequireAuthenticated(c.AdminAcceptedTerms),
		},
		"AddBulkCatalogues": model.Route{
			Method:      strings.ToUpper("Post"),
			Pattern:     "/catalogue/addBulk",
			HandlerFunc: security.RequireAdmin(c.AddBulk),
		},
		"GetAllCatalogueProviders": model.Route{
			Method:      strings.ToUpper("Get"),
			Pattern:     "/catalogue/{catalogueId}/provider/all",
			HandlerFunc: c.GetAllCatalogueProviders,
		},
	}
	for name, route := range c.providers.scopedRoutes() {
		routes[name] = route
	}
	for _, res := range c.resources {
		for name, route := range res.scopedRoutes() {
			routes[name] = route
		}
		k := res.routeKind()
		routes["GetCatalogueProvider"+k.Name+"s"] = model.Route{
			Method:      strings.ToUpper("Get"),
			Pattern:     "/catalogue/{catalogueId}/{providerPrefix}/{providerSuffix}/" + k.Base + "/all",
			HandlerFunc: res.GetByCatalogueProvider,
		}
	}
	return routes
}

// GetCatalogue - returns a catalogue
func (c *CatalogueAPIController) GetCatalogue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	b, err := c.service.Get(ctx, chi.URLParam(r, "id"), security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, "GetCatalogue", err)
		return
	}
	c.respond(w, r, http.StatusOK, b.Payload)
}

// GetCatalogueBundle - returns a catalogue bundle to its users and administrators
func (c *CatalogueAPIController) GetCatalogueBundle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	if !c.guard(w, r, "GetCatalogueBundle", model.TypeCatalogue, id) {
		return
	}
	b, err := c.service.Get(ctx, id, security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, "GetCatalogueBundle", err)
		return
	}
	c.respond(w, r, http.StatusOK, b)
}

// AddCatalogue - registers a catalogue
func (c *CatalogueAPIController) AddCatalogue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	b, err := decodePayload[*model.Catalogue](r)
	if err != nil {
		c.fail(w, r, "AddCatalogue", err)
		return
	}
	b, err = c.service.Add(ctx, b, security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, "AddCatalogue", err)
		return
	}
	c.respond(w, r, http.StatusCreated, b.Payload)
}

// UpdateCatalogue - updates a catalogue the caller administers
func (c *CatalogueAPIController) UpdateCatalogue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	b, err := decodePayload[*model.Catalogue](r)
	if err != nil {
		c.fail(w, r, "UpdateCatalogue", err)
		return
	}
	if !c.guard(w, r, "UpdateCatalogue", model.TypeCatalogue, b.ID) {
		return
	}
	b, err = c.service.Update(ctx, b, commentParam(r), security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, "UpdateCatalogue", err)
		return
	}
	c.respond(w, r, http.StatusOK, b.Payload)
}

// DeleteCatalogue - deletes a catalogue with its providers
func (c *CatalogueAPIController) DeleteCatalogue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	b, err := c.service.Delete(ctx, chi.URLParam(r, "id"), security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, "DeleteCatalogue", err)
		return
	}
	c.respond(w, r, http.StatusOK, b)
}

// GetAllCatalogues - lists the active, approved catalogues
func (c *CatalogueAPIController) GetAllCatalogues(w http.ResponseWriter, r *http.Request) {
	ff, err := browseFilter(r, model.TypeCatalogue, allCatalogues)
	if err != nil {
		c.fail(w, r, "GetAllCatalogues", err)
		return
	}
	ff.SetFilter(facetfilter.KeyPublished, "false").
		SetFilter(facetfilter.KeyActive, "true").
		SetFilter(facetfilter.KeyStatus, model.StatusApprovedCatalogue)
	page, err := c.service.Search(r.Context(), ff)
	if err != nil {
		c.fail(w, r, "GetAllCatalogues", err)
		return
	}
	c.respond(w, r, http.StatusOK, api.Payloads(page))
}

// GetAllCatalogueBundles - lists every catalogue bundle
func (c *CatalogueAPIController) GetAllCatalogueBundles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ff, err := browseFilter(r, model.TypeCatalogue, allCatalogues)
	if err != nil {
		c.fail(w, r, "GetAllCatalogueBundles", err)
		return
	}
	ff.SetFilter(facetfilter.KeyPublished, "false")
	page, err := c.service.GetAll(ctx, ff, security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, "GetAllCatalogueBundles", err)
		return
	}
	c.respond(w, r, http.StatusOK, page)
}

// GetMyCatalogues - lists the catalogues of the caller
func (c *CatalogueAPIController) GetMyCatalogues(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ff, err := browseFilter(r, model.TypeCatalogue, allCatalogues)
	if err != nil {
		c.fail(w, r, "GetMyCatalogues", err)
		return
	}
	page, err := c.service.GetMy(ctx, ff, security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, "GetMyCatalogues", err)
		return
	}
	c.respond(w, r, http.StatusOK, page)
}

// VerifyCatalogue - moves a catalogue to another onboarding state
func (c *CatalogueAPIController) VerifyCatalogue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status, err := requiredQuery(r, "status")
	if err != nil {
		c.fail(w, r, "VerifyCatalogue", err)
		return
	}
	active, err := optionalBool(r, "active")
	if err != nil {
		c.fail(w, r, "VerifyCatalogue", err)
		return
	}
	b, err := c.service.Verify(ctx, chi.URLParam(r, "id"), status, active, security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, "VerifyCatalogue", err)
		return
	}
	c.respond(w, r, http.StatusOK, b)
}

// PublishCatalogue - activates or deactivates a catalogue
func (c *CatalogueAPIController) PublishCatalogue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	if !c.guard(w, r, "PublishCatalogue", model.TypeCatalogue, id) {
		return
	}
	active, err := optionalBool(r, "active")
	if err != nil {
		c.fail(w, r, "PublishCatalogue", err)
		return
	}
	b, err := c.service.Publish(ctx, id, active, security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, "PublishCatalogue", err)
		return
	}
	c.respond(w, r, http.StatusOK, b)
}

// SuspendCatalogue - suspends a catalogue with everything registered in it
func (c *CatalogueAPIController) SuspendCatalogue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := requiredQuery(r, "catalogueId")
	if err != nil {
		c.fail(w, r, "SuspendCatalogue", err)
		return
	}
	suspend, err := requiredBool(r, "suspend")
	if err != nil {
		c.fail(w, r, "SuspendCatalogue", err)
		return
	}
	b, err := c.service.Suspend(ctx, id, suspend, security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, "SuspendCatalogue", err)
		return
	}
	c.respond(w, r, http.StatusOK, b)
}

// AuditCatalogue - records the outcome of a catalogue audit
func (c *CatalogueAPIController) AuditCatalogue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	action, err := requiredQuery(r, "actionType")
	if err != nil {
		c.fail(w, r, "AuditCatalogue", err)
		return
	}
	b, err := c.service.Audit(ctx, chi.URLParam(r, "id"), "", r.URL.Query().Get("comment"), action, security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, "AuditCatalogue", err)
		return
	}
	c.respond(w, r, http.StatusOK, b)
}

// LoggingInfoHistory - returns the history of a catalogue
func (c *CatalogueAPIController) LoggingInfoHistory(w http.ResponseWriter, r *http.Request) {
	history, err := c.service.LoggingInfoHistory(r.Context(), chi.URLParam(r, "id"), "")
	if err != nil {
		c.fail(w, r, "CatalogueLoggingInfoHistory", err)
		return
	}
	c.respond(w, r, http.StatusOK, history)
}

// HasAdminAcceptedTerms - reports whether the caller accepted the terms of a catalogue
func (c *CatalogueAPIController) HasAdminAcceptedTerms(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := requiredQuery(r, "catalogueId")
	if err != nil {
		c.fail(w, r, "HasAdminAcceptedCatalogueTerms", err)
		return
	}
	accepted, err := c.service.HasAdminAcceptedTerms(ctx, id, security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, "HasAdminAcceptedCatalogueTerms", err)
		return
	}
	c.respond(w, r, http.StatusOK, accepted)
}

// AdminAcceptedTerms - records that the caller accepted the terms of a catalogue
func (c *CatalogueAPIController) AdminAcceptedTerms(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := requiredQuery(r, "catalogueId")
	if err != nil {
		c.fail(w, r, "AdminAcceptedCatalogueTerms", err)
		return
	}
	if err := c.service.AdminAcceptedTerms(ctx, id, security.FromContext(ctx)); err != nil {
		c.fail(w, r, "AdminAcceptedCatalogueTerms", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// AddBulk - stores a list of catalogue bundles
func (c *CatalogueAPIController) AddBulk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var bundles []*model.CatalogueBundle
	if err := decodeJSON(r, &bundles); err != nil {
		c.fail(w, r, "AddBulkCatalogues", err)
		return
	}
	added := c.service.AddBulk(ctx, bundles, security.FromContext(ctx))
	c.respond(w, r, http.StatusOK, map[string]int{"added": added})
}

// GetAllCatalogueProviders - lists the providers of a catalogue
func (c *CatalogueAPIController) GetAllCatalogueProviders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ff, err := browseFilter(r, model.TypeProvider, chi.URLParam(r, "catalogueId"))
	if err != nil {
		c.fail(w, r, "GetAllCatalogueProviders", err)
		return
	}
	ff.SetFilter(facetfilter.KeyPublished, "false")
	page, err := c.providers.service.GetAll(ctx, ff, security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, "GetAllCatalogueProviders", err)
		return
	}
	c.respond(w, r, http.StatusOK, api.Payloads(page))
}
