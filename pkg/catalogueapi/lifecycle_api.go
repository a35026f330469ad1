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
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/madgik/resource-catalogue-go/internal/catalogue/api"
	"github.com/madgik/resource-catalogue-go/internal/common/facetfilter"
	"github.com/madgik/resource-catalogue-go/internal/common/model"
	"github.com/madgik/resource-catalogue-go/internal/common/security"
)

// onboardingManager is the service side of every kind that goes through
// registration, approval and publication.
type onboardingManager[P model.Payload] interface {
	Add(ctx context.Context, b *model.Bundle[P], catalogueID string, p *security.Principal) (*model.Bundle[P], error)
	Update(ctx context.Context, b *model.Bundle[P], catalogueID, comment string, p *security.Principal) (*model.Bundle[P], error)
	Get(ctx context.Context, catalogueID, id string, p *security.Principal) (*model.Bundle[P], error)
	GetAll(ctx context.Context, ff *facetfilter.FacetFilter, p *security.Principal) (*model.Paging[*model.Bundle[P]], error)
	GetMy(ctx context.Context, ff *facetfilter.FacetFilter, p *security.Principal) (*model.Paging[*model.Bundle[P]], error)
	Delete(ctx context.Context, id, catalogueID string, p *security.Principal) (*model.Bundle[P], error)
	Verify(ctx context.Context, id, status string, active *bool, p *security.Principal) (*model.Bundle[P], error)
	Publish(ctx context.Context, id string, active *bool, p *security.Principal) (*model.Bundle[P], error)
	Suspend(ctx context.Context, id, catalogueID string, suspend bool, p *security.Principal) (*model.Bundle[P], error)
	Audit(ctx context.Context, id, catalogueID, comment, action string, p *security.Principal) (*model.Bundle[P], error)
	LoggingInfoHistory(ctx context.Context, id, catalogueID string) (model.LoggingInfoList, error)
	Validate(ctx context.Context, payload P) error
	RandomForAuditing(ctx context.Context, quantity, intervalMonths int) ([]*model.Bundle[P], error)
	Search(ctx context.Context, ff *facetfilter.FacetFilter) (*model.Paging[*model.Bundle[P]], error)
	AddBundle(ctx context.Context, b *model.Bundle[P], p *security.Principal) (*model.Bundle[P], error)
	UpdateBundle(ctx context.Context, b *model.Bundle[P], p *security.Principal) (*model.Bundle[P], error)
	AddBulk(ctx context.Context, bundles []*model.Bundle[P], p *security.Principal) int
	CreatePublic(ctx context.Context, b *model.Bundle[P]) (*model.Bundle[P], error)
}

// draftManager is implemented by the kinds that keep drafts.
type draftManager[P model.Payload] interface {
	AddDraft(ctx context.Context, b *model.Bundle[P], p *security.Principal) (*model.Bundle[P], error)
	UpdateDraft(ctx context.Context, b *model.Bundle[P], p *security.Principal) (*model.Bundle[P], error)
	GetDraft(ctx context.Context, id string) (*model.Bundle[P], error)
	DeleteDraft(ctx context.Context, id string) (*model.Bundle[P], error)
	TransformDraft(ctx context.Context, id string, p *security.Principal) (*model.Bundle[P], error)
	GetMyDrafts(ctx context.Context, ff *facetfilter.FacetFilter, p *security.Principal) (*model.Paging[*model.Bundle[P]], error)
}

// lifecycleAPI serves the routes every onboarding kind shares.
type lifecycleAPI[P model.Payload] struct {
	controller
	kind    kindRoute
	manager onboardingManager[P]
	drafts  draftManager[P]
}

func newLifecycleAPI[P model.Payload](reg *api.Registry, kind kindRoute, manager onboardingManager[P], drafts draftManager[P]) lifecycleAPI[P] {
	return lifecycleAPI[P]{controller: newController(reg), kind: kind, manager: manager, drafts: drafts}
}

func (c *lifecycleAPI[P]) routes() model.Routes {
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
			HandlerFunc: security.RequireAdmin(c.Delete),
		},
		"GetAll" + k.Name: model.Route{
			Method:      strings.ToUpper("Get"),
			Pattern:     k.path("all"),
			HandlerFunc: c.GetAll,
		},
		"GetAll" + k.Name + "Bundles": model.Route{
			Method:      strings.ToUpper("Get"),
			Pattern:     k.path("bundle", "all"),
			HandlerFunc: security.RequireAdmin(c.GetAllBundles),
		},
		"GetMy" + k.Name: model.Route{
			Method:      strings.ToUpper("Get"),
			Pattern:     k.path(k.My),
			HandlerFunc: security.RequireAuthenticated(c.GetMy),
		},
		"Verify" + k.Name: model.Route{
			Method:      strings.ToUpper("Patch"),
			Pattern:     k.path("verify"+k.Name, "{prefix}", "{suffix}"),
			HandlerFunc: security.RequireAdmin(c.Verify),
		},
		"Publish" + k.Name: model.Route{
			Method:      strings.ToUpper("Patch"),
			Pattern:     k.path("publish", "{prefix}", "{suffix}"),
			HandlerFunc: c.Publish,
		},
		"Suspend" + k.Name: model.Route{
			Method:      strings.ToUpper("Put"),
			Pattern:     k.path("suspend"),
			HandlerFunc: security.RequireAdmin(c.Suspend),
		},
		"Audit" + k.Name: model.Route{
			Method:      strings.ToUpper("Patch"),
			Pattern:     k.path("audit"+k.Name, "{prefix}", "{suffix}"),
			HandlerFunc: security.RequireAdmin(c.Audit),
		},
		"Validate" + k.Name: model.Route{
			Method:      strings.ToUpper("Post"),
			Pattern:     k.path("validate"),
			HandlerFunc: c.Validate,
		},
		"LoggingInfoHistory" + k.Name: model.Route{
			Method:      strings.ToUpper("Get"),
			Pattern:     k.path("loggingInfoHistory", "{prefix}", "{suffix}"),
			HandlerFunc: c.LoggingInfoHistory,
		},
		"Random" + k.Name: model.Route{
			Method:      strings.ToUpper("Get"),
			Pattern:     k.path("random" + k.Name + "s"),
			HandlerFunc: security.RequireAdmin(c.Random),
		},
		"CreatePublic" + k.Name: model.Route{
			Method:      strings.ToUpper("Post"),
			Pattern:     k.path("createPublic" + k.Name),
			HandlerFunc: security.RequireAdmin(c.CreatePublic),
		},
		"Add" + k.Name + "Bundle": model.Route{
			Method:      strings.ToUpper("Post"),
			Pattern:     k.path("bundle"),
			HandlerFunc: security.RequireAdmin(c.AddBundle),
		},
		"Update" + k.Name + "Bundle": model.Route{
			Method:      strings.ToUpper("Put"),
			Pattern:     k.path("bundle"),
			HandlerFunc: security.RequireAdmin(c.UpdateBundle),
		},
		"AddBulk" + k.Name: model.Route{
			Method:      strings.ToUpper("Post"),
			Pattern:     k.path("addBulk"),
			HandlerFunc: security.RequireAdmin(c.AddBulk),
		},
	}
	if c.drafts == nil {
		return routes
	}
	routes["GetDraft"+k.Name] = model.Route{Method: strings.ToUpper("Get"), Pattern: k.path("draft", "{prefix}", "{suffix}"), HandlerFunc: c.GetDraft}
	routes["GetMyDraft"+k.Name+"s"] = model.Route{Method: strings.ToUpper("Get"), Pattern: k.path("draft", "getMyDrafts"), HandlerFunc: security.RequireAuthenticated(c.GetMyDrafts)}
	routes["AddDraft"+k.Name] = model.Route{Method: strings.ToUpper("Post"), Pattern: k.path("draft"), HandlerFunc: security.RequireAuthenticated(c.AddDraft)}
	routes["UpdateDraft"+k.Name] = model.Route{Method: strings.ToUpper("Put"), Pattern: k.path("draft"), HandlerFunc: c.UpdateDraft}
	routes["DeleteDraft"+k.Name] = model.Route{Method: strings.ToUpper("Delete"), Pattern: k.path("draft", "{prefix}", "{suffix}"), HandlerFunc: c.DeleteDraft}
	routes["TransformDraft"+k.Name] = model.Route{Method: strings.ToUpper("Put"), Pattern: k.path("draft", "transform"), HandlerFunc: c.TransformDraft}
	return routes
}

// scopedRoutes serves the entry routes inside one catalogue.
func (c *lifecycleAPI[P]) scopedRoutes() model.Routes {
	k := c.kind
	base := catalogueRoute.path("{catalogueId}", k.Base)
	return model.Routes{
		"GetCatalogue" + k.Name: model.Route{
			Method:      strings.ToUpper("Get"),
			Pattern:     base + "/{prefix}/{suffix}",
			HandlerFunc: c.Get,
		},
		"GetCatalogue" + k.Name + "Bundle": model.Route{
			Method:      strings.ToUpper("Get"),
			Pattern:     base + "/bundle/{prefix}/{suffix}",
			HandlerFunc: c.GetBundle,
		},
		"AddCatalogue" + k.Name: model.Route{
			Method:      strings.ToUpper("Post"),
			Pattern:     base,
			HandlerFunc: security.RequireAuthenticated(c.Add),
		},
		"UpdateCatalogue" + k.Name: model.Route{
			Method:      strings.ToUpper("Put"),
			Pattern:     base,
			HandlerFunc: c.Update,
		},
		"DeleteCatalogue" + k.Name: model.Route{
			Method:      strings.ToUpper("Delete"),
			Pattern:     base + "/{prefix}/{suffix}",
			HandlerFunc: c.Delete,
		},
	}
}

// Get returns the payload, hiding non-approved entries from strangers.
func (c *lifecycleAPI[P]) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	b, err := c.manager.Get(ctx, catalogueParam(r, c.defaultCatalogue()), pathID(r), security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, "Get"+c.kind.Name, err)
		return
	}
	c.respond(w, r, http.StatusOK, b.Payload)
}

// GetBundle returns the whole bundle to its owners and administrators.
func (c *lifecycleAPI[P]) GetBundle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := pathID(r)
	if !c.guard(w, r, "Get"+c.kind.Name+"Bundle", c.kind.Type, id) {
		return
	}
	b, err := c.manager.Get(ctx, catalogueParam(r, c.defaultCatalogue()), id, security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, "Get"+c.kind.Name+"Bundle", err)
		return
	}
	c.respond(w, r, http.StatusOK, b)
}

// Add onboards a payload, by default into the configured catalogue.
func (c *lifecycleAPI[P]) Add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	b, err := decodePayload[P](r)
	if err != nil {
		c.fail(w, r, "Add"+c.kind.Name, err)
		return
	}
	cat := catalogueParam(r, "")
	// resources may only be added by the administrators of their provider
	if owned, ok := any(b.Payload).(model.Owned); ok &&
		!c.guard(w, r, "Add"+c.kind.Name, model.TypeProvider, owned.OwnerID()) {
		return
	}
	b, err = c.manager.Add(ctx, b, cat, security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, "Add"+c.kind.Name, err)
		return
	}
	c.respond(w, r, http.StatusCreated, b.Payload)
}

// Update replaces the payload of an entry the caller manages.
func (c *lifecycleAPI[P]) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	b, err := decodePayload[P](r)
	if err != nil {
		c.fail(w, r, "Update"+c.kind.Name, err)
		return
	}
	if !c.guard(w, r, "Update"+c.kind.Name, c.kind.Type, b.ID) {
		return
	}
	b, err = c.manager.Update(ctx, b, catalogueParam(r, ""), commentParam(r), security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, "Update"+c.kind.Name, err)
		return
	}
	c.respond(w, r, http.StatusOK, b.Payload)
}

// Delete removes an entry of the default catalogue. Entries of other
// catalogues are deleted through the catalogue routes.
func (c *lifecycleAPI[P]) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := pathID(r)
	cat := catalogueParam(r, c.defaultCatalogue())
	if chi.URLParam(r, "catalogueId") != "" {
		// catalogue admins manage every entry of their catalogue
		if !c.guard(w, r, "Delete"+c.kind.Name, model.TypeCatalogue, cat) {
			return
		}
	} else if cat != c.defaultCatalogue() {
		forbidden(w, fmt.Sprintf("You cannot delete a %s of a non %s Catalogue.", c.kind.Label, c.defaultCatalogue()))
		return
	}
	b, err := c.manager.Delete(ctx, id, cat, security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, "Delete"+c.kind.Name, err)
		return
	}
	c.respond(w, r, http.StatusOK, b)
}

// GetAll lists the active, approved private entries as payloads.
func (c *lifecycleAPI[P]) GetAll(w http.ResponseWriter, r *http.Request) {
	ff, err := browseFilter(r, c.kind.Type, c.defaultCatalogue())
	if err != nil {
		c.fail(w, r, "GetAll"+c.kind.Name, err)
		return
	}
	ff.SetFilter(facetfilter.KeyPublished, "false").
		SetFilter(facetfilter.KeyActive, "true").
		SetFilter(facetfilter.KeyStatus, c.kind.Approved)
	page, err := c.manager.Search(r.Context(), ff)
	if err != nil {
		c.fail(w, r, "GetAll"+c.kind.Name, err)
		return
	}
	c.respond(w, r, http.StatusOK, api.Payloads(page))
}

// GetAllBundles lists every private bundle, drafts included.
func (c *lifecycleAPI[P]) GetAllBundles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ff, err := browseFilter(r, c.kind.Type, c.defaultCatalogue())
	if err != nil {
		c.fail(w, r, "GetAll"+c.kind.Name+"Bundles", err)
		return
	}
	ff.SetFilter(facetfilter.KeyPublished, "false")
	page, err := c.manager.GetAll(ctx, ff, security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, "GetAll"+c.kind.Name+"Bundles", err)
		return
	}
	c.respond(w, r, http.StatusOK, page)
}

// GetMy lists the bundles the caller manages.
func (c *lifecycleAPI[P]) GetMy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ff, err := browseFilter(r, c.kind.Type, allCatalogues)
	if err != nil {
		c.fail(w, r, "GetMy"+c.kind.Name, err)
		return
	}
	page, err := c.manager.GetMy(ctx, ff, security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, "GetMy"+c.kind.Name, err)
		return
	}
	c.respond(w, r, http.StatusOK, page)
}

// Verify moves an entry to another onboarding state.
func (c *lifecycleAPI[P]) Verify(w http.ResponseWriter, r *http.Request) {
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
	b, err := c.manager.Verify(ctx, pathID(r), status, active, security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, "Verify"+c.kind.Name, err)
		return
	}
	c.respond(w, r, http.StatusOK, b)
}

// Publish activates or deactivates an entry the caller manages.
func (c *lifecycleAPI[P]) Publish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := pathID(r)
	if !c.guard(w, r, "Publish"+c.kind.Name, c.kind.Type, id) {
		return
	}
	active, err := optionalBool(r, "active")
	if err != nil {
		c.fail(w, r, "Publish"+c.kind.Name, err)
		return
	}
	b, err := c.manager.Publish(ctx, id, active, security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, "Publish"+c.kind.Name, err)
		return
	}
	c.respond(w, r, http.StatusOK, b)
}

// Suspend suspends or unsuspends an entry.
func (c *lifecycleAPI[P]) Suspend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := firstQuery(r, c.kind.IDParam, "id")
	if id == "" {
		c.fail(w, r, "Suspend"+c.kind.Name, &model.ParsingError{Param: c.kind.IDParam, Err: errMissing})
		return
	}
	suspend, err := requiredBool(r, "suspend")
	if err != nil {
		c.fail(w, r, "Suspend"+c.kind.Name, err)
		return
	}
	b, err := c.manager.Suspend(ctx, id, catalogueParam(r, c.defaultCatalogue()), suspend, security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, "Suspend"+c.kind.Name, err)
		return
	}
	c.respond(w, r, http.StatusOK, b)
}

// Audit records the outcome of an audit.
func (c *lifecycleAPI[P]) Audit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	action, err := requiredQuery(r, "actionType")
	if err != nil {
		c.fail(w, r, "Audit"+c.kind.Name, err)
		return
	}
	b, err := c.manager.Audit(ctx, pathID(r), catalogueParam(r, c.defaultCatalogue()), r.URL.Query().Get("comment"), action, security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, "Audit"+c.kind.Name, err)
		return
	}
	c.respond(w, r, http.StatusOK, b)
}

// Validate checks a payload without storing it.
func (c *lifecycleAPI[P]) Validate(w http.ResponseWriter, r *http.Request) {
	b, err := decodePayload[P](r)
	if err != nil {
		c.fail(w, r, "Validate"+c.kind.Name, err)
		return
	}
	if err := c.manager.Validate(r.Context(), b.Payload); err != nil {
		c.fail(w, r, "Validate"+c.kind.Name, err)
		return
	}
	c.respond(w, r, http.StatusOK, true)
}

// LoggingInfoHistory returns the sorted history of an entry.
func (c *lifecycleAPI[P]) LoggingInfoHistory(w http.ResponseWriter, r *http.Request) {
	history, err := c.manager.LoggingInfoHistory(r.Context(), pathID(r), catalogueParam(r, c.defaultCatalogue()))
	if err != nil {
		c.fail(w, r, "LoggingInfoHistory"+c.kind.Name, err)
		return
	}
	c.respond(w, r, http.StatusOK, history)
}

// Random picks entries due for auditing.
func (c *lifecycleAPI[P]) Random(w http.ResponseWriter, r *http.Request) {
	quantity, err := intParam(r, "quantity", facetfilter.DefaultQuantity)
	if err != nil {
		c.fail(w, r, "Random"+c.kind.Name, err)
		return
	}
	bundles, err := c.manager.RandomForAuditing(r.Context(), quantity, c.reg.Config().AuditingInterval)
	if err != nil {
		c.fail(w, r, "Random"+c.kind.Name, err)
		return
	}
	c.respond(w, r, http.StatusOK, bundles)
}

// CreatePublic stores the public copy of a bundle.
func (c *lifecycleAPI[P]) CreatePublic(w http.ResponseWriter, r *http.Request) {
	b, err := decodeBundle[P](r)
	if err != nil {
		c.fail(w, r, "CreatePublic"+c.kind.Name, err)
		return
	}
	pub, err := c.manager.CreatePublic(r.Context(), b)
	if err != nil {
		c.fail(w, r, "CreatePublic"+c.kind.Name, err)
		return
	}
	c.respond(w, r, http.StatusOK, pub)
}

// AddBundle stores a complete bundle as given.
func (c *lifecycleAPI[P]) AddBundle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	b, err := decodeBundle[P](r)
	if err != nil {
		c.fail(w, r, "Add"+c.kind.Name+"Bundle", err)
		return
	}
	b, err = c.manager.AddBundle(ctx, b, security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, "Add"+c.kind.Name+"Bundle", err)
		return
	}
	c.respond(w, r, http.StatusCreated, b)
}

// UpdateBundle replaces a complete bundle.
func (c *lifecycleAPI[P]) UpdateBundle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	b, err := decodeBundle[P](r)
	if err != nil {
		c.fail(w, r, "Update"+c.kind.Name+"Bundle", err)
		return
	}
	b, err = c.manager.UpdateBundle(ctx, b, security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, "Update"+c.kind.Name+"Bundle", err)
		return
	}
	c.respond(w, r, http.StatusOK, b)
}

// AddBulk stores a list of bundles and reports how many were accepted.
func (c *lifecycleAPI[P]) AddBulk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var bundles []*model.Bundle[P]
	if err := decodeJSON(r, &bundles); err != nil {
		c.fail(w, r, "AddBulk"+c.kind.Name, err)
		return
	}
	added := c.manager.AddBulk(ctx, bundles, security.FromContext(ctx))
	c.respond(w, r, http.StatusOK, map[string]int{"added": added})
}

// GetDraft returns a draft to its owners.
func (c *lifecycleAPI[P]) GetDraft(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if !c.guard(w, r, "GetDraft"+c.kind.Name, c.kind.Type, id) {
		return
	}
	b, err := c.drafts.GetDraft(r.Context(), id)
	if err != nil {
		c.fail(w, r, "GetDraft"+c.kind.Name, err)
		return
	}
	c.respond(w, r, http.StatusOK, b.Payload)
}

// GetMyDrafts lists the drafts of the caller.
func (c *lifecycleAPI[P]) GetMyDrafts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ff, err := browseFilter(r, c.kind.Type, allCatalogues)
	if err != nil {
		c.fail(w, r, "GetMyDraft"+c.kind.Name+"s", err)
		return
	}
	page, err := c.drafts.GetMyDrafts(ctx, ff, security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, "GetMyDraft"+c.kind.Name+"s", err)
		return
	}
	c.respond(w, r, http.StatusOK, page)
}

// AddDraft stores a payload as a draft.
func (c *lifecycleAPI[P]) AddDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	b, err := decodePayload[P](r)
	if err != nil {
		c.fail(w, r, "AddDraft"+c.kind.Name, err)
		return
	}
	b, err = c.drafts.AddDraft(ctx, b, security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, "AddDraft"+c.kind.Name, err)
		return
	}
	c.respond(w, r, http.StatusCreated, b.Payload)
}

// UpdateDraft replaces the payload of a draft.
func (c *lifecycleAPI[P]) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	b, ok := c.saveDraft(w, r, "UpdateDraft"+c.kind.Name)
	if !ok {
		return
	}
	c.respond(w, r, http.StatusOK, b.Payload)
}

// DeleteDraft removes a draft.
func (c *lifecycleAPI[P]) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if !c.guard(w, r, "DeleteDraft"+c.kind.Name, c.kind.Type, id) {
		return
	}
	b, err := c.drafts.DeleteDraft(r.Context(), id)
	if err != nil {
		c.fail(w, r, "DeleteDraft"+c.kind.Name, err)
		return
	}
	c.respond(w, r, http.StatusOK, b)
}

// TransformDraft saves a draft and submits it for onboarding.
func (c *lifecycleAPI[P]) TransformDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	op := "TransformDraft" + c.kind.Name
	b, ok := c.saveDraft(w, r, op)
	if !ok {
		return
	}
	b, err := c.drafts.TransformDraft(ctx, b.ID, security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, op, err)
		return
	}
	c.respond(w, r, http.StatusOK, b.Payload)
}

func (c *lifecycleAPI[P]) saveDraft(w http.ResponseWriter, r *http.Request, op string) (*model.Bundle[P], bool) {
	ctx := r.Context()
	b, err := decodePayload[P](r)
	if err != nil {
		c.fail(w, r, op, err)
		return nil, false
	}
	if !c.guard(w, r, op, c.kind.Type, b.ID) {
		return nil, false
	}
	b, err = c.drafts.UpdateDraft(ctx, b, security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, op, err)
		return nil, false
	}
	return b, true
}
