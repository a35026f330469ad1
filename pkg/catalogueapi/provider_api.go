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

	"github.com/madgik/resource-catalogue-go/internal/catalogue/api"
	"github.com/madgik/resource-catalogue-go/internal/common/model"
	"github.com/madgik/resource-catalogue-go/internal/common/security"
)

// ProviderAPIController binds the provider routes to the provider service.
type ProviderAPIController struct {
	lifecycleAPI[*model.Provider]
	service *api.ProviderManager
}

// ProviderAPIOption for how the controller is set up.
type ProviderAPIOption func(*ProviderAPIController)

// WithProviderAPIErrorHandler inject ErrorHandler into controller
func WithProviderAPIErrorHandler(h model.ErrorHandler) ProviderAPIOption {
	return func(c *ProviderAPIController) {
		c.errorHandler = h
	}
}

// NewProviderAPIController creates a default api controller
func NewProviderAPIController(reg *api.Registry, opts ...ProviderAPIOption) *ProviderAPIController {
	controller := &ProviderAPIController{
		lifecycleAPI: newLifecycleAPI[*model.Provider](reg, providerRoute, reg.Providers, reg.Providers),
		service:      reg.Providers,
	}
	for _, opt := range opts {
		opt(controller)
	}
	return controller
}

// Routes returns all the api routes for the ProviderAPIController
func (c *ProviderAPIController) Routes() model.Routes {
	routes := c.routes()
	routes["GetUserProviders"] = model.Route{
		Method:      strings.ToUpper("Get"),
		Pattern:     "/provider/getUserProviders",
		HandlerFunc: security.RequireAdmin(c.GetUserProviders),
	}
	routes["GetInactiveProviders"] = model.Route{
		Method:      strings.ToUpper("Get"),
		Pattern:     "/provider/inactive/all",
		HandlerFunc: security.RequireAdmin(c.GetInactive),
	}
	routes["GetInactiveServices"] = model.Route{
		Method:      strings.ToUpper("Get"),
		Pattern:     "/provider/services/inactive/{prefix}/{suffix}",
		HandlerFunc: c.GetInactiveServices,
	}
	routes["GetRejectedResources"] = model.Route{
		Method:      strings.ToUpper("Get"),
		Pattern:     "/provider/resources/rejected/{prefix}/{suffix}",
		HandlerFunc: c.GetRejectedResources,
	}
	routes["HasAdminAcceptedTerms"] = model.Route{
		Method:      strings.ToUpper("Get"),
		Pattern:     "/provider/hasAdminAcceptedTerms",
		HandlerFunc: security.RequireAuthenticated(c.HasAdminAcceptedTerms),
	}
	routes["AdminAcceptedTerms"] = model.Route{
		Method:      strings.ToUpper("Put"),
		Pattern:     "/provider/adminAcceptedTerms",
		HandlerFunc: security.RequireAuthenticated(c.AdminAcceptedTerms),
	}
	routes["ProviderIDToNameMap"] = model.Route{
		Method:      strings.ToUpper("Get"),
		Pattern:     "/provider/providerIdToNameMap",
		HandlerFunc: c.ProviderIDToNameMap,
	}
	routes["ChangeCatalogue"] = model.Route{
		Method:      strings.ToUpper("Put"),
		Pattern:     "/provider/changeCatalogue",
		HandlerFunc: security.RequireAdmin(c.ChangeCatalogue),
	}
	return routes
}

// GetUserProviders - lists the providers a user administers
func (c *ProviderAPIController) GetUserProviders(w http.ResponseWriter, r *http.Request) {
	email, err := requiredQuery(r, "email")
	if err != nil {
		c.fail(w, r, "GetUserProviders", err)
		return
	}
	providers, err := c.service.GetUserProviders(r.Context(), email)
	if err != nil {
		c.fail(w, r, "GetUserProviders", err)
		return
	}
	c.respond(w, r, http.StatusOK, providers)
}

// GetInactive - lists the inactive providers
func (c *ProviderAPIController) GetInactive(w http.ResponseWriter, r *http.Request) {
	ff, err := browseFilter(r, model.TypeProvider, c.defaultCatalogue())
	if err != nil {
		c.fail(w, r, "GetInactiveProviders", err)
		return
	}
	page, err := c.service.GetInactive(r.Context(), ff)
	if err != nil {
		c.fail(w, r, "GetInactiveProviders", err)
		return
	}
	c.respond(w, r, http.StatusOK, page)
}

// GetInactiveServices - lists the inactive services of a provider
func (c *ProviderAPIController) GetInactiveServices(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if !c.guard(w, r, "GetInactiveServices", model.TypeProvider, id) {
		return
	}
	services, err := c.service.GetInactiveServices(r.Context(), id)
	if err != nil {
		c.fail(w, r, "GetInactiveServices", err)
		return
	}
	c.respond(w, r, http.StatusOK, services)
}

// GetRejectedResources - lists the rejected resources of a provider
func (c *ProviderAPIController) GetRejectedResources(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if !c.guard(w, r, "GetRejectedResources", model.TypeProvider, id) {
		return
	}
	resourceType, err := requiredQuery(r, "resourceType")
	if err != nil {
		c.fail(w, r, "GetRejectedResources", err)
		return
	}
	ff, err := browseFilter(r, resourceType, allCatalogues, "resourceType")
	if err != nil {
		c.fail(w, r, "GetRejectedResources", err)
		return
	}
	page, err := c.service.GetRejectedResources(r.Context(), ff, id, resourceType)
	if err != nil {
		c.fail(w, r, "GetRejectedResources", err)
		return
	}
	c.respond(w, r, http.StatusOK, page)
}

// HasAdminAcceptedTerms - reports whether the caller accepted the terms of a provider
func (c *ProviderAPIController) HasAdminAcceptedTerms(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := requiredQuery(r, "providerId")
	if err != nil {
		c.fail(w, r, "HasAdminAcceptedTerms", err)
		return
	}
	accepted, err := c.service.HasAdminAcceptedTerms(ctx, id, security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, "HasAdminAcceptedTerms", err)
		return
	}
	c.respond(w, r, http.StatusOK, accepted)
}

// AdminAcceptedTerms - records that the caller accepted the terms of a provider
func (c *ProviderAPIController) AdminAcceptedTerms(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := requiredQuery(r, "providerId")
	if err != nil {
		c.fail(w, r, "AdminAcceptedTerms", err)
		return
	}
	if err := c.service.AdminAcceptedTerms(ctx, id, security.FromContext(ctx)); err != nil {
		c.fail(w, r, "AdminAcceptedTerms", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// ProviderIDToNameMap - maps provider ids to names for the selectors
func (c *ProviderAPIController) ProviderIDToNameMap(w http.ResponseWriter, r *http.Request) {
	names, err := c.service.ProviderIDToNameMap(r.Context(), catalogueParam(r, c.defaultCatalogue()))
	if err != nil {
		c.fail(w, r, "ProviderIDToNameMap", err)
		return
	}
	c.respond(w, r, http.StatusOK, names)
}

// ChangeCatalogue - moves a provider and its resources to another catalogue
func (c *ProviderAPIController) ChangeCatalogue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	providerID, err := requiredQuery(r, "providerId")
	if err != nil {
		c.fail(w, r, "ChangeCatalogue", err)
		return
	}
	newCatalogueID, err := requiredQuery(r, "newCatalogueId")
	if err != nil {
		c.fail(w, r, "ChangeCatalogue", err)
		return
	}
	b, err := c.service.ChangeCatalogue(ctx, catalogueParam(r, c.defaultCatalogue()), providerID, newCatalogueID, security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, "ChangeCatalogue", err)
		return
	}
	c.respond(w, r, http.StatusOK, b)
}
