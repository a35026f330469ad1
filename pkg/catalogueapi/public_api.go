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
	"context"
	"net/http"
	"strings"

	"github.com/madgik/resource-catalogue-go/internal/catalogue/api"
	"github.com/madgik/resource-catalogue-go/internal/common"
	"github.com/madgik/resource-catalogue-go/internal/common/facetfilter"
	"github.com/madgik/resource-catalogue-go/internal/common/model"
	"github.com/madgik/resource-catalogue-go/internal/common/security"
)

type publicService[P model.Payload] interface {
	PublicGet(ctx context.Context, id string) (*model.Bundle[P], error)
	PublicAll(ctx context.Context, ff *facetfilter.FacetFilter) (*model.Paging[*model.Bundle[P]], error)
	PublicBundleAll(ctx context.Context, ff *facetfilter.FacetFilter) (*model.Paging[*model.Bundle[P]], error)
}

type publicOwnerService[P model.Payload] interface {
	PublicMy(ctx context.Context, ff *facetfilter.FacetFilter, p *security.Principal) (*model.Paging[*model.Bundle[P]], error)
}

// PublicAPIController serves the published copies of one kind.
type PublicAPIController[P model.Payload] struct {
	controller
	kind    kindRoute
	service publicService[P]
	owners  publicOwnerService[P]
}

// PublicAPIOption for how the controller is set up.
type PublicAPIOption[P model.Payload] func(*PublicAPIController[P])

// WithPublicAPIErrorHandler inject ErrorHandler into controller
func WithPublicAPIErrorHandler[P model.Payload](h model.ErrorHandler) PublicAPIOption[P] {
	return func(c *PublicAPIController[P]) {
		c.errorHandler = h
	}
}

// NewPublicAPIController creates the public controller of a kind. The "my"
// route is only served when service also lists the copies of the caller.
func NewPublicAPIController[P model.Payload](reg *api.Registry, kind kindRoute, service publicService[P], opts ...PublicAPIOption[P]) *PublicAPIController[P] {
	controller := &PublicAPIController[P]{
		controller: newController(reg),
		kind:       kind,
		service:    service,
	}
	if owners, ok := service.(publicOwnerService[P]); ok {
		controller.owners = owners
	}
	for _, opt := range opts {
		opt(controller)
	}
	return controller
}

func (c *PublicAPIController[P]) path(segments ...string) string {
	base := c.kind.Base[strings.LastIndex(c.kind.Base, "/")+1:]
	return "/" + strings.Join(append([]string{"public", base}, segments...), "/")
}

// Routes returns all the api routes for the PublicAPIController
func (c *PublicAPIController[P]) Routes() model.Routes {
	name := "Public" + c.kind.Name
	routes := model.Routes{
		"Get" + name: model.Route{
			Method:      strings.ToUpper("Get"),
			Pattern:     c.path("{prefix}", "{suffix}"),
			HandlerFunc: c.Get,
		},
		"Get" + name + "Bundle": model.Route{
			Method:      strings.ToUpper("Get"),
			Pattern:     c.path("bundle", "{prefix}", "{suffix}"),
			HandlerFunc: security.RequireAuthenticated(c.GetBundle),
		},
		"GetAll" + name + "s": model.Route{
			Method:      strings.ToUpper("Get"),
			Pattern:     c.path("all"),
			HandlerFunc: c.GetAll,
		},
		"GetAll" + name + "Bundles": model.Route{
			Method:      strings.ToUpper("Get"),
			Pattern:     c.path("bundle", "all"),
			HandlerFunc: security.RequireAdmin(c.GetAllBundles),
		},
	}
	if c.owners != nil {
		routes["GetMy"+name+"s"] = model.Route{
			Method:      strings.ToUpper("Get"),
			Pattern:     c.path("my"),
			HandlerFunc: security.RequireAuthenticated(c.GetMy),
		}
	}
	return routes
}

// get answers 403 with a message body when the entry is not public.
func (c *PublicAPIController[P]) get(w http.ResponseWriter, r *http.Request, op string) (*model.Bundle[P], bool) {
	b, err := c.service.PublicGet(r.Context(), pathID(r))
	if err != nil {
		if common.IsErrForbidden(err) {
			forbidden(w, common.ErrorMessage(err))
			return nil, false
		}
		c.fail(w, r, op, err)
		return nil, false
	}
	return b, true
}

// Get - returns a public payload
func (c *PublicAPIController[P]) Get(w http.ResponseWriter, r *http.Request) {
	b, ok := c.get(w, r, "GetPublic"+c.kind.Name)
	if !ok {
		return
	}
	c.respond(w, r, http.StatusOK, b.Payload)
}

// GetBundle - returns a public bundle to the administrators of its private entry
func (c *PublicAPIController[P]) GetBundle(w http.ResponseWriter, r *http.Request) {
	op := "GetPublic" + c.kind.Name + "Bundle"
	b, ok := c.get(w, r, op)
	if !ok {
		return
	}
	owner := b.ID
	if b.Identifiers != nil && b.Identifiers.OriginalID != "" {
		owner = b.Identifiers.OriginalID
	}
	if !c.guard(w, r, op, c.kind.Type, owner) {
		return
	}
	c.respond(w, r, http.StatusOK, b)
}

// GetAll - lists the active, approved public payloads
func (c *PublicAPIController[P]) GetAll(w http.ResponseWriter, r *http.Request) {
	ff, err := browseFilter(r, c.kind.Type, c.defaultCatalogue())
	if err != nil {
		c.fail(w, r, "GetAllPublic"+c.kind.Name+"s", err)
		return
	}
	page, err := c.service.PublicAll(r.Context(), ff)
	if err != nil {
		c.fail(w, r, "GetAllPublic"+c.kind.Name+"s", err)
		return
	}
	c.respond(w, r, http.StatusOK, api.Payloads(page))
}

// GetAllBundles - lists every public bundle
func (c *PublicAPIController[P]) GetAllBundles(w http.ResponseWriter, r *http.Request) {
	ff, err := browseFilter(r, c.kind.Type, c.defaultCatalogue())
	if err != nil {
		c.fail(w, r, "GetAllPublic"+c.kind.Name+"Bundles", err)
		return
	}
	page, err := c.service.PublicBundleAll(r.Context(), ff)
	if err != nil {
		c.fail(w, r, "GetAllPublic"+c.kind.Name+"Bundles", err)
		return
	}
	c.respond(w, r, http.StatusOK, page)
}

// GetMy - lists the public copies of the caller's entries
func (c *PublicAPIController[P]) GetMy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ff, err := browseFilter(r, c.kind.Type, allCatalogues)
	if err != nil {
		c.fail(w, r, "GetMyPublic"+c.kind.Name+"s", err)
		return
	}
	page, err := c.owners.PublicMy(ctx, ff, security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, "GetMyPublic"+c.kind.Name+"s", err)
		return
	}
	c.respond(w, r, http.StatusOK, page)
}

// NewPublicRouters creates the public controllers of every kind with a public copy.
func NewPublicRouters(reg *api.Registry) []model.Router {
	return []model.Router{
		NewPublicAPIController[*model.Provider](reg, providerRoute, reg.Providers),
		NewPublicAPIController[*model.Service](reg, serviceRoute, reg.Services),
		NewPublicAPIController[*model.TrainingResource](reg, trainingRoute, reg.Trainings),
		NewPublicAPIController[*model.DeployableService](reg, deployableRoute, reg.Deployables),
		NewPublicAPIController[*model.InteroperabilityRecord](reg, guidelineRoute, reg.Guidelines),
		NewPublicAPIController[*model.Adapter](reg, adapterRoute, reg.Adapters),
		NewPublicAPIController[*model.Datasource](reg, datasourceRoute, reg.Datasources),
		NewPublicAPIController[*model.Helpdesk](reg, helpdeskRoute, reg.Helpdesks),
		NewPublicAPIController[*model.Monitoring](reg, monitoringRoute, reg.Monitorings),
		NewPublicAPIController[*model.ResourceInteroperabilityRecord](reg, resourceInteroperabilityRoute, reg.ResourceInteroperabilityRecords),
		NewPublicAPIController[*model.ConfigurationTemplate](reg, configurationTemplateRoute, reg.ConfigurationTemplates),
		NewPublicAPIController[*model.ConfigurationTemplateInstance](reg, configurationTemplateInstRoute, reg.ConfigurationTemplateInstances),
	}
}
