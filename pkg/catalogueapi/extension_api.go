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

// ExtensionAPIController serves the entries attached to a resource.
type ExtensionAPIController[P resourcePayload] struct {
	controller
	kind    kindRoute
	service *api.ExtensionManager[P]
	// parentPath names the lookup by parent, e.g. "byService". Empty when the
	// kind allows many entries per parent.
	parentPath string
	verifiable bool
}

// ExtensionAPIOption for how the controller is set up.
type ExtensionAPIOption[P resourcePayload] func(*ExtensionAPIController[P])

// WithExtensionAPIErrorHandler inject ErrorHandler into controller
func WithExtensionAPIErrorHandler[P resourcePayload](h model.ErrorHandler) ExtensionAPIOption[P] {
	return func(c *ExtensionAPIController[P]) {
		c.errorHandler = h
	}
}

func newExtensionAPIController[P resourcePayload](reg *api.Registry, kind kindRoute, m *api.ExtensionManager[P], parentPath string, opts ...ExtensionAPIOption[P]) *ExtensionAPIController[P] {
	controller := &ExtensionAPIController[P]{
		controller: newController(reg),
		kind:       kind,
		service:    m,
		parentPath: parentPath,
		verifiable: kind.Approved != "",
	}
	for _, opt := range opts {
		opt(controller)
	}
	return controller
}

// NewDatasourceAPIController creates the controller of the datasource routes.
func NewDatasourceAPIController(reg *api.Registry, opts ...ExtensionAPIOption[*model.Datasource]) *ExtensionAPIController[*model.Datasource] {
	return newExtensionAPIController(reg, datasourceRoute, reg.Datasources, "byService", opts...)
}

// NewHelpdeskAPIController creates the controller of the helpdesk routes.
func NewHelpdeskAPIController(reg *api.Registry, opts ...ExtensionAPIOption[*model.Helpdesk]) *ExtensionAPIController[*model.Helpdesk] {
	return newExtensionAPIController(reg, helpdeskRoute, reg.Helpdesks, "byService", opts...)
}

// NewMonitoringAPIController creates the controller of the monitoring routes.
func NewMonitoringAPIController(reg *api.Registry, opts ...ExtensionAPIOption[*model.Monitoring]) *ExtensionAPIController[*model.Monitoring] {
	return newExtensionAPIController(reg, monitoringRoute, reg.Monitorings, "byService", opts...)
}

// NewResourceInteroperabilityRecordAPIController creates the controller of the
// resource interoperability record routes.
func NewResourceInteroperabilityRecordAPIController(reg *api.Registry, opts ...ExtensionAPIOption[*model.ResourceInteroperabilityRecord]) *ExtensionAPIController[*model.ResourceInteroperabilityRecord] {
	return newExtensionAPIController(reg, resourceInteroperabilityRoute, reg.ResourceInteroperabilityRecords, "byResource", opts...)
}

// Routes returns all the api routes for the ExtensionAPIController
func (c *ExtensionAPIController[P]) Routes() model.Routes {
	k := c.kind
	routes := model.Routes{
		"Get" + k.Name: model.Route{
			Method:      strings.ToUpper("Get"),
			Pattern:     k.path("{prefix}", "{suffix}"),
			HandlerFunc: c.Get,
		},
		"Get" + k.Name + "Bundle": model.Route{
			Method:      strings.ToUpper("Get"),
			Pattern:     k.path("bundle", "{prefix}", "{suffix}"),
			HandlerFunc: c.GetBundle,
		},
		"GetAll" + k.Name + "s": model.Route{
			Method:      strings.ToUpper("Get"),
			Pattern:     k.path("all"),
			HandlerFunc: c.GetAll,
		},
		"GetAll" + k.Name + "Bundles": model.Route{
			Method:      strings.ToUpper("Get"),
			Pattern:     k.path("bundle", "all"),
			HandlerFunc: security.RequireAdmin(c.GetAllBundles),
		},
		"Add" + k.Name: model.Route{
			Method:      strings.ToUpper("Post"),
			Pattern:     k.path(),
			HandlerFunc: security.RequireAuthenticated(c.Add),
		},
		"Update" + k.Name: model.Route{
			Method:      strings.ToUpper("Put"),
			Pattern:     k.path(),
			HandlerFunc: c.Update,
		},
		"Delete" + k.Name: model.Route{
			Method:      strings.ToUpper("Delete"),
			Pattern:     k.path("{prefix}", "{suffix}"),
			HandlerFunc: c.Delete,
		},
		"CreatePublic" + k.Name: model.Route{
			Method:      strings.ToUpper("Post"),
			Pattern:     k.path("createPublic" + k.Name),
			HandlerFunc: security.RequireAdmin(c.CreatePublic),
		},
	}
	if c.parentPath != "" {
		routes["Get"+k.Name+"ByParent"] = model.Route{
			Method:      strings.ToUpper("Get"),
			Pattern:     k.path(c.parentPath, "{prefix}", "{suffix}"),
			HandlerFunc: c.GetByParent,
		}
	}
	if c.verifiable {
		routes["Verify"+k.Name] = model.Route{
			Method:      strings.ToUpper("Patch"),
			Pattern:     k.path("verify"+k.Name, "{prefix}", "{suffix}"),
			HandlerFunc: security.RequireAdmin(c.Verify),
		}
	}
	return routes
}

// Get - returns an extension payload
func (c *ExtensionAPIController[P]) Get(w http.ResponseWriter, r *http.Request) {
	b, err := c.service.Get(r.Context(), pathID(r))
	if err != nil {
		c.fail(w, r, "Get"+c.kind.Name, err)
		return
	}
	c.respond(w, r, http.StatusOK, b.Payload)
}

// GetBundle - returns an extension bundle to the administrators of its resource
func (c *ExtensionAPIController[P]) GetBundle(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if !c.guard(w, r, "Get"+c.kind.Name+"Bundle", c.kind.Type, id) {
		return
	}
	b, err := c.service.Get(r.Context(), id)
	if err != nil {
		c.fail(w, r, "Get"+c.kind.Name+"Bundle", err)
		return
	}
	c.respond(w, r, http.StatusOK, b)
}

// GetByParent - returns the extension of a resource
func (c *ExtensionAPIController[P]) GetByParent(w http.ResponseWriter, r *http.Request) {
	b, err := c.service.GetByParent(r.Context(), pathID(r), catalogueParam(r, c.defaultCatalogue()))
	if err != nil {
		c.fail(w, r, "Get"+c.kind.Name+"ByParent", err)
		return
	}
	c.respond(w, r, http.StatusOK, b.Payload)
}

// GetAll - lists the extension payloads
func (c *ExtensionAPIController[P]) GetAll(w http.ResponseWriter, r *http.Request) {
	ff, err := browseFilter(r, c.kind.Type, c.defaultCatalogue())
	if err != nil {
		c.fail(w, r, "GetAll"+c.kind.Name+"s", err)
		return
	}
	page, err := c.service.GetAll(r.Context(), ff)
	if err != nil {
		c.fail(w, r, "GetAll"+c.kind.Name+"s", err)
		return
	}
	c.respond(w, r, http.StatusOK, api.Payloads(page))
}

// GetAllBundles - lists the extension bundles
func (c *ExtensionAPIController[P]) GetAllBundles(w http.ResponseWriter, r *http.Request) {
	ff, err := browseFilter(r, c.kind.Type, c.defaultCatalogue())
	if err != nil {
		c.fail(w, r, "GetAll"+c.kind.Name+"Bundles", err)
		return
	}
	page, err := c.service.GetAll(r.Context(), ff)
	if err != nil {
		c.fail(w, r, "GetAll"+c.kind.Name+"Bundles", err)
		return
	}
	c.respond(w, r, http.StatusOK, page)
}

// Add - attaches an extension to a resource the caller manages
func (c *ExtensionAPIController[P]) Add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	b, err := decodePayload[P](r)
	if err != nil {
		c.fail(w, r, "Add"+c.kind.Name, err)
		return
	}
	if !c.guard(w, r, "Add"+c.kind.Name, "", b.Payload.OwnerID()) {
		return
	}
	b, err = c.service.Add(ctx, b, security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, "Add"+c.kind.Name, err)
		return
	}
	c.respond(w, r, http.StatusCreated, b.Payload)
}

// Update - replaces the payload of an extension
func (c *ExtensionAPIController[P]) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	b, err := decodePayload[P](r)
	if err != nil {
		c.fail(w, r, "Update"+c.kind.Name, err)
		return
	}
	if !c.guard(w, r, "Update"+c.kind.Name, c.kind.Type, b.ID) {
		return
	}
	b, err = c.service.Update(ctx, b, commentParam(r), security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, "Update"+c.kind.Name, err)
		return
	}
	c.respond(w, r, http.StatusOK, b.Payload)
}

// Delete - removes an extension with its public copy
func (c *ExtensionAPIController[P]) Delete(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if !c.guard(w, r, "Delete"+c.kind.Name, c.kind.Type, id) {
		return
	}
	b, err := c.service.Delete(r.Context(), id)
	if err != nil {
		c.fail(w, r, "Delete"+c.kind.Name, err)
		return
	}
	c.respond(w, r, http.StatusOK, b)
}

// Verify - moves an extension to another onboarding state
func (c *ExtensionAPIController[P]) Verify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status, err := requiredQuery(r, "status")
	if err != nil {
		c.fail(w, r, "Verify"+c.kind.Name, err)
		return
	}
	active, err := optionalBool(r, "active")
	if err != nil {
		c.fail(w, r, "Verify"+c.kind.Name, err)
		return
	}
	b, err := c.service.Verify(ctx, pathID(r), status, active, security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, "Verify"+c.kind.Name, err)
		return
	}
	c.respond(w, r, http.StatusOK, b)
}

// CreatePublic - stores the public copy of an extension bundle
func (c *ExtensionAPIController[P]) CreatePublic(w http.ResponseWriter, r *http.Request) {
	b, err := decodeBundle[P](r)
	if err != nil {
		c.fail(w, r, "CreatePublic"+c.kind.Name, err)
		return
	}
	pub, err := c.service.CreatePublic(r.Context(), b)
	if err != nil {
		c.fail(w, r, "CreatePublic"+c.kind.Name, err)
		return
	}
	c.respond(w, r, http.StatusOK, pub)
}

// ConfigurationTemplateAPIController adds the lookups by interoperability
// record to the configuration template routes.
type ConfigurationTemplateAPIController struct {
	*ExtensionAPIController[*model.ConfigurationTemplate]
}

// NewConfigurationTemplateAPIController creates the controller of the configuration template routes.
func NewConfigurationTemplateAPIController(reg *api.Registry, opts ...ExtensionAPIOption[*model.ConfigurationTemplate]) *ConfigurationTemplateAPIController {
	return &ConfigurationTemplateAPIController{
		ExtensionAPIController: newExtensionAPIController(reg, configurationTemplateRoute, reg.ConfigurationTemplates, "", opts...),
	}
}

// Routes returns all the api routes for the ConfigurationTemplateAPIController
func (c *ConfigurationTemplateAPIController) Routes() model.Routes {
	routes := c.ExtensionAPIController.Routes()
	routes["GetAllByInteroperabilityRecordID"] = model.Route{
		Method:      strings.ToUpper("Get"),
		Pattern:     "/configurationTemplate/getAllByInteroperabilityRecordId/{prefix}/{suffix}",
		HandlerFunc: c.GetAllByInteroperabilityRecordID,
	}
	routes["InteroperabilityRecordIDToConfigurationTemplateListMap"] = model.Route{
		Method:      strings.ToUpper("Get"),
		Pattern:     "/configurationTemplate/interoperabilityRecordIdToConfigurationTemplateListMap",
		HandlerFunc: c.InteroperabilityRecordIDToConfigurationTemplateListMap,
	}
	routes["DeleteByInteroperabilityRecordID"] = model.Route{
		Method:      strings.ToUpper("Delete"),
		Pattern:     "/configurationTemplate/deleteByInteroperabilityRecordId/{prefix}/{suffix}",
		HandlerFunc: security.RequireAdmin(c.DeleteByInteroperabilityRecordID),
	}
	return routes
}

// GetAllByInteroperabilityRecordID - lists the templates of an interoperability record
func (c *ConfigurationTemplateAPIController) GetAllByInteroperabilityRecordID(w http.ResponseWriter, r *http.Request) {
	ff, err := browseFilter(r, c.kind.Type, allCatalogues)
	if err != nil {
		c.fail(w, r, "GetAllByInteroperabilityRecordID", err)
		return
	}
	page, err := c.service.ListByParent(r.Context(), ff, pathID(r))
	if err != nil {
		c.fail(w, r, "GetAllByInteroperabilityRecordID", err)
		return
	}
	c.respond(w, r, http.StatusOK, api.Payloads(page))
}

// InteroperabilityRecordIDToConfigurationTemplateListMap - groups the templates by interoperability record
func (c *ConfigurationTemplateAPIController) InteroperabilityRecordIDToConfigurationTemplateListMap(w http.ResponseWriter, r *http.Request) {
	grouped, err := c.reg.ConfigurationTemplatesByInteroperabilityRecord(r.Context())
	if err != nil {
		c.fail(w, r, "InteroperabilityRecordIDToConfigurationTemplateListMap", err)
		return
	}
	c.respond(w, r, http.StatusOK, grouped)
}

// DeleteByInteroperabilityRecordID - removes every template of an interoperability record
func (c *ConfigurationTemplateAPIController) DeleteByInteroperabilityRecordID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := c.service.DeleteByParent(ctx, pathID(r), security.FromContext(ctx)); err != nil {
		c.fail(w, r, "DeleteByInteroperabilityRecordID", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ConfigurationTemplateInstanceAPIController adds the lookups by resource and
// by template to the configuration template instance routes.
type ConfigurationTemplateInstanceAPIController struct {
	*ExtensionAPIController[*model.ConfigurationTemplateInstance]
}

// NewConfigurationTemplateInstanceAPIController creates the controller of the configuration template instance routes.
func NewConfigurationTemplateInstanceAPIController(reg *api.Registry, opts ...ExtensionAPIOption[*model.ConfigurationTemplateInstance]) *ConfigurationTemplateInstanceAPIController {
	return &ConfigurationTemplateInstanceAPIController{
		ExtensionAPIController: newExtensionAPIController(reg, configurationTemplateInstRoute, reg.ConfigurationTemplateInstances, "", opts...),
	}
}

// Routes returns all the api routes for the ConfigurationTemplateInstanceAPIController
func (c *ConfigurationTemplateInstanceAPIController) Routes() model.Routes {
	routes := c.ExtensionAPIController.Routes()
	routes["GetAllByResourceID"] = model.Route{
		Method:      strings.ToUpper("Get"),
		Pattern:     "/configurationTemplateInstance/getAllByResourceId/{prefix}/{suffix}",
		HandlerFunc: c.listBy("resource_id"),
	}
	routes["GetAllByConfigurationTemplateID"] = model.Route{
		Method:      strings.ToUpper("Get"),
		Pattern:     "/configurationTemplateInstance/getAllByConfigurationTemplateId/{prefix}/{suffix}",
		HandlerFunc: c.listBy("configuration_template_id"),
	}
	return routes
}

func (c *ConfigurationTemplateInstanceAPIController) listBy(facet string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		found, err := c.service.ListByFacet(r.Context(), facet, pathID(r))
		if err != nil {
			c.fail(w, r, "GetAllBy_"+facet, err)
			return
		}
		out := make([]*model.ConfigurationTemplateInstance, 0, len(found))
		for _, b := range found {
			out = append(out, b.Payload)
		}
		c.respond(w, r, http.StatusOK, out)
	}
}
