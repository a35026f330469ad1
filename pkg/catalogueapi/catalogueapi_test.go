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
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madgik/resource-catalogue-go/internal/catalogue/api"
	"github.com/madgik/resource-catalogue-go/internal/common"
	"github.com/madgik/resource-catalogue-go/internal/common/model"
	"github.com/madgik/resource-catalogue-go/internal/common/security"
	"github.com/madgik/resource-catalogue-go/internal/persistence"
)

const principalHeader = "X-Test-Principal"

var principals = map[string]*security.Principal{
	"admin": {Email: "admin@example.org", Name: "Ada", Surname: "Admin", Roles: []string{security.RoleAdmin}, Authenticated: true},
	"alice": {Email: "alice@example.org", Name: "Alice", Surname: "Doe", Roles: []string{security.RoleUser}, Authenticated: true},
	"bob":   {Email: "bob@example.org", Name: "Bob", Surname: "Roe", Roles: []string{security.RoleUser}, Authenticated: true},
}

// withTestPrincipal stands in for the token middleware.
func withTestPrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, ok := principals[r.Header.Get(principalHeader)]; ok {
			r = r.WithContext(security.WithPrincipal(r.Context(), p))
		}
		next.ServeHTTP(w, r)
	})
}

func newTestServer(t *testing.T) (*api.Registry, http.Handler) {
	t.Helper()
	reg, err := api.NewRegistry(api.Options{
		Store: persistence.NewMemoryStore(),
		Catalogue: common.CatalogueConfig{
			ID:                "eosc",
			Name:              "EOSC",
			Homepage:          "https://eosc.example.org",
			RegistrationEmail: "registration@example.org",
			Resources: map[string]common.ResourceConfig{
				model.TypeProvider: {IDPrefix: "21.T15999"},
				model.TypeService:  {IDPrefix: "21.T15999"},
			},
		},
	})
	require.NoError(t, err)
	require.NoError(t, reg.Bootstrap(context.Background()))

	r := chi.NewRouter()
	r.Use(withTestPrincipal)
	model.Mount(r, NewRouters(reg, nil)...)
	return reg, r
}

func call(t *testing.T, h http.Handler, method, path, who string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if who != "" {
		req.Header.Set(principalHeader, who)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func onboardProvider(t *testing.T, h http.Handler, who, abbreviation string) string {
	t.Helper()
	rec := call(t, h, http.MethodPost, "/provider", who, map[string]interface{}{
		"name":         "Provider " + abbreviation,
		"abbreviation": abbreviation,
		"website":      "https://example.org/" + abbreviation,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var p model.Provider
	decode(t, rec, &p)
	return p.ID
}

func approve(t *testing.T, h http.Handler, base, name, id, status string) {
	t.Helper()
	rec := call(t, h, http.MethodPatch, "/"+base+"/verify"+name+"/"+id+"?status="+url.QueryEscape(status), "admin", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func onboardService(t *testing.T, h http.Handler, who, providerID string) string {
	t.Helper()
	rec := call(t, h, http.MethodPost, "/service", who, map[string]interface{}{
		"name":                 "Compute",
		"resourceOrganisation": providerID,
		"webpage":              "https://example.org/service",
		"version":              "1.0",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var s model.Service
	decode(t, rec, &s)
	return s.ID
}

func TestProviderRoutes(t *testing.T) {
	_, h := newTestServer(t)

	rec := call(t, h, http.MethodPost, "/provider", "", map[string]string{"name": "Anon"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	id := onboardProvider(t, h, "alice", "athena")
	assert.True(t, strings.HasPrefix(id, "21.T15999/"), id)

	assert.Equal(t, http.StatusUnauthorized, call(t, h, http.MethodGet, "/provider/"+id, "", nil).Code)
	assert.Equal(t, http.StatusOK, call(t, h, http.MethodGet, "/provider/"+id, "alice", nil).Code)

	var page model.Paging[*model.Provider]
	decode(t, call(t, h, http.MethodGet, "/provider/all", "", nil), &page)
	assert.Equal(t, 0, page.Total, "pending providers are not listed")

	rec = call(t, h, http.MethodPatch, "/provider/verifyProvider/"+id+"?status="+url.QueryEscape(model.StatusApprovedProvider), "alice", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	approve(t, h, "provider", "Provider", id, model.StatusApprovedProvider)

	decode(t, call(t, h, http.MethodGet, "/provider/all", "", nil), &page)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, id, page.Results[0].ID)

	assert.Equal(t, http.StatusForbidden, call(t, h, http.MethodGet, "/provider/bundle/"+id, "bob", nil).Code)
	rec = call(t, h, http.MethodGet, "/provider/bundle/"+id, "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var b model.ProviderBundle
	decode(t, rec, &b)
	assert.True(t, b.Active)
	assert.Equal(t, model.StatusApprovedProvider, b.Status)

	var mine model.Paging[*model.ProviderBundle]
	decode(t, call(t, h, http.MethodGet, "/provider/getMyProviders", "alice", nil), &mine)
	assert.Equal(t, 1, mine.Total)
	decode(t, call(t, h, http.MethodGet, "/provider/getMyProviders", "bob", nil), &mine)
	assert.Equal(t, 0, mine.Total)
}

func TestPublicProviderRoutes(t *testing.T) {
	_, h := newTestServer(t)
	id := onboardProvider(t, h, "alice", "athena")
	approve(t, h, "provider", "Provider", id, model.StatusApprovedProvider)

	rec := call(t, h, http.MethodGet, "/public/provider/eosc."+id, "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var p model.Provider
	decode(t, rec, &p)
	assert.Equal(t, "eosc."+id, p.ID)

	rec = call(t, h, http.MethodGet, "/public/provider/"+id, "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	var msg model.MessageBody
	decode(t, rec, &msg)
	assert.Equal(t, "The specific Provider does not consist a Public entity", msg.Message)

	assert.Equal(t, http.StatusForbidden, call(t, h, http.MethodGet, "/public/provider/bundle/eosc."+id, "bob", nil).Code)
	assert.Equal(t, http.StatusOK, call(t, h, http.MethodGet, "/public/provider/bundle/eosc."+id, "alice", nil).Code)

	var page model.Paging[*model.Provider]
	decode(t, call(t, h, http.MethodGet, "/public/provider/all", "", nil), &page)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "eosc."+id, page.Results[0].ID)

	var mine model.Paging[*model.ProviderBundle]
	decode(t, call(t, h, http.MethodGet, "/public/provider/my", "alice", nil), &mine)
	assert.Equal(t, 1, mine.Total)
}

func TestDeleteOutsideDefaultCatalogue(t *testing.T) {
	_, h := newTestServer(t)
	id := onboardProvider(t, h, "alice", "athena")

	assert.Equal(t, http.StatusForbidden, call(t, h, http.MethodDelete, "/provider/"+id, "alice", nil).Code)

	rec := call(t, h, http.MethodDelete, "/provider/"+id+"?catalogue_id=other", "admin", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	var msg model.MessageBody
	decode(t, rec, &msg)
	assert.Equal(t, "You cannot delete a Provider of a non eosc Catalogue.", msg.Message)

	rec = call(t, h, http.MethodDelete, "/provider/"+id, "admin", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, http.StatusNotFound, call(t, h, http.MethodGet, "/provider/"+id, "admin", nil).Code)
}

func TestCatalogueScopedWrites(t *testing.T) {
	_, h := newTestServer(t)
	providerID := onboardProvider(t, h, "alice", "athena")
	approve(t, h, "provider", "Provider", providerID, model.StatusApprovedProvider)

	t.Run("provider users cannot delete through the catalogue routes", func(t *testing.T) {
		rec := call(t, h, http.MethodDelete, "/catalogue/eosc/provider/"+providerID, "alice", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, http.StatusOK, call(t, h, http.MethodGet, "/catalogue/eosc/provider/"+providerID, "admin", nil).Code)
	})

	t.Run("resources are added by the administrators of their provider", func(t *testing.T) {
		service := map[string]interface{}{
			"name":                 "Compute",
			"resourceOrganisation": providerID,
			"webpage":              "https://example.org/service",
		}
		assert.Equal(t, http.StatusForbidden, call(t, h, http.MethodPost, "/catalogue/eosc/service", "bob", service).Code)
		rec := call(t, h, http.MethodPost, "/catalogue/eosc/service", "alice", service)
		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})

	t.Run("catalogue administrators delete entries of their catalogue", func(t *testing.T) {
		rec := call(t, h, http.MethodPost, "/catalogue", "bob", map[string]string{
			"name":         "Other",
			"abbreviation": "other",
			"website":      "https://other.example.org",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		approve(t, h, "catalogue", "Catalogue", "other", model.StatusApprovedCatalogue)

		rec = call(t, h, http.MethodPost, "/catalogue/other/provider", "alice", map[string]string{
			"id":           "other/hermes",
			"catalogueId":  "other",
			"name":         "Provider hermes",
			"abbreviation": "hermes",
			"website":      "https://example.org/hermes",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		assert.Equal(t, http.StatusForbidden, call(t, h, http.MethodDelete, "/catalogue/other/provider/other/hermes", "alice", nil).Code)
		rec = call(t, h, http.MethodDelete, "/catalogue/other/provider/other/hermes", "bob", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, http.StatusNotFound, call(t, h, http.MethodGet, "/catalogue/other/provider/other/hermes", "admin", nil).Code)
	})
}

func TestRequestErrors(t *testing.T) {
	_, h := newTestServer(t)
	id := onboardProvider(t, h, "alice", "athena")

	rec := call(t, h, http.MethodPatch, "/provider/verifyProvider/"+id, "admin", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "status is required")

	rec = call(t, h, http.MethodPost, "/provider/validate", "", map[string]string{"abbreviation": "x", "website": "https://example.org"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body common.ValidationErrorBody
	decode(t, rec, &body)
	assert.NotEmpty(t, body.Errors)

	rec = call(t, h, http.MethodPost, "/provider/validate", "", map[string]string{"name": "Athena", "abbreviation": "athena", "website": "https://example.org"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "true", strings.TrimSpace(rec.Body.String()))

	req := httptest.NewRequest(http.MethodPost, "/provider", strings.NewReader("{"))
	req.Header.Set(principalHeader, "alice")
	raw := httptest.NewRecorder()
	h.ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code, "malformed bodies are rejected")
}

func TestServiceRoutes(t *testing.T) {
	_, h := newTestServer(t)
	providerID := onboardProvider(t, h, "alice", "athena")
	approve(t, h, "provider", "Provider", providerID, model.StatusApprovedProvider)

	rec := call(t, h, http.MethodPost, "/service", "bob", map[string]interface{}{
		"name":                 "Compute",
		"resourceOrganisation": providerID,
		"webpage":              "https://example.org/service",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code, "only provider administrators add resources")

	serviceID := onboardService(t, h, "alice", providerID)

	assert.Equal(t, http.StatusForbidden, call(t, h, http.MethodGet, "/service/byProvider/"+providerID, "bob", nil).Code)
	var page model.Paging[*model.ServiceBundle]
	decode(t, call(t, h, http.MethodGet, "/service/byProvider/"+providerID, "alice", nil), &page)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, serviceID, page.Results[0].ID)

	var history model.LoggingInfoList
	decode(t, call(t, h, http.MethodGet, "/service/loggingInfoHistory/"+serviceID, "", nil), &history)
	assert.NotEmpty(t, history)
}

func TestAdapterRoutes(t *testing.T) {
	_, h := newTestServer(t)
	providerID := onboardProvider(t, h, "alice", "athena")
	approve(t, h, "provider", "Provider", providerID, model.StatusApprovedProvider)
	serviceID := onboardService(t, h, "alice", providerID)

	rec := call(t, h, http.MethodPost, "/adapter", "alice", map[string]interface{}{
		"name":           "Ghost adapter",
		"linkedResource": map[string]string{"type": "Service", "id": "21.T15999/missing"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	rec = call(t, h, http.MethodPost, "/adapter", "alice", map[string]interface{}{
		"name":           "Odd adapter",
		"linkedResource": map[string]string{"type": "Datasource", "id": serviceID},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	rec = call(t, h, http.MethodPost, "/adapter", "bob", map[string]interface{}{
		"name":           "Compute adapter",
		"linkedResource": map[string]string{"type": "Service", "id": serviceID},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var adapter model.Adapter
	decode(t, rec, &adapter)
	id := adapter.ID

	rec = call(t, h, http.MethodPatch, "/adapter/publish/"+id+"?active=true", "alice", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code, "the provider of the linked service does not manage the adapter")
	rec = call(t, h, http.MethodPatch, "/adapter/publish/"+id+"?active=true", "bob", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "pending adapters cannot be activated")

	rec = call(t, h, http.MethodPatch, "/adapter/verifyAdapter/"+id+"?status="+url.QueryEscape(model.StatusApprovedAdapter), "bob", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = call(t, h, http.MethodPatch, "/adapter/verifyAdapter/"+id+"?status="+url.QueryEscape(model.StatusApprovedProvider), "admin", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	approve(t, h, "adapter", "Adapter", id, model.StatusApprovedAdapter)

	var b model.AdapterBundle
	decode(t, call(t, h, http.MethodGet, "/adapter/bundle/"+id, "bob", nil), &b)
	assert.True(t, b.Active)
	assert.Equal(t, model.StatusApprovedAdapter, b.Status)

	rec = call(t, h, http.MethodPatch, "/adapter/publish/"+id+"?active=false", "bob", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &b)
	assert.False(t, b.Active)

	var names map[string]string
	decode(t, call(t, h, http.MethodGet, "/adapter/linkedResourceServiceMap", "", nil), &names)
	assert.Equal(t, map[string]string{serviceID: "Compute"}, names)
	var guidelines map[string]string
	decode(t, call(t, h, http.MethodGet, "/adapter/linkedResourceGuidelineMap", "", nil), &guidelines)
	assert.Empty(t, guidelines)
}

func TestEventRoutes(t *testing.T) {
	reg, h := newTestServer(t)
	providerID := onboardProvider(t, h, "alice", "athena")
	approve(t, h, "provider", "Provider", providerID, model.StatusApprovedProvider)
	serviceID := onboardService(t, h, "alice", providerID)
	approve(t, h, "service", "Resource", serviceID, model.StatusApprovedResource)

	assert.Equal(t, http.StatusCreated, call(t, h, http.MethodPost, "/event/visit/"+serviceID, "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, call(t, h, http.MethodPost, "/event/order/"+serviceID, "", nil).Code)
	rec := call(t, h, http.MethodPost, "/event/order/"+serviceID+"?value=3", "bob", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var orders []*model.Event
	decode(t, call(t, h, http.MethodGet, "/event/order/"+serviceID, "", nil), &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, 3.0, orders[0].Value)
	assert.Equal(t, "bob@example.org", orders[0].User)

	var totals map[string]float64
	decode(t, call(t, h, http.MethodGet, "/event/aggregate/"+serviceID+"?type=ORDER&by=month", "", nil), &totals)
	require.Len(t, totals, 1)
	for _, v := range totals {
		assert.Equal(t, 3.0, v)
	}

	assert.Equal(t, http.StatusBadRequest, call(t, h, http.MethodGet, "/event/all", "admin", nil).Code)
	assert.Equal(t, http.StatusForbidden, call(t, h, http.MethodGet, "/event/all?type=VISIT", "bob", nil).Code)

	assert.Equal(t, http.StatusOK, call(t, h, http.MethodDelete, "/event/"+orders[0].ID, "admin", nil).Code)
	events, err := reg.Events.GetEvents(context.Background(), model.EventOrder, serviceID)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestVocabularyRoutes(t *testing.T) {
	_, h := newTestServer(t)
	entries := []*model.Vocabulary{
		{ID: "scientific_domain-natural_sciences", Name: "Natural Sciences", Type: "Scientific domain"},
		{ID: "scientific_subdomain-physics", Name: "Physics", Type: "Scientific domain", ParentID: "scientific_domain-natural_sciences"},
		{ID: "country-gr", Name: "Greece", Type: model.VocabularyTypeCountry},
		{ID: "country-japan", Name: "Japan", Type: model.VocabularyTypeCountry, Extras: map[string]string{"code": "jp"}},
	}
	assert.Equal(t, http.StatusForbidden, call(t, h, http.MethodPost, "/vocabulary/addBulk", "alice", entries).Code)
	require.Equal(t, http.StatusOK, call(t, h, http.MethodPost, "/vocabulary/addBulk", "admin", entries).Code)

	var codes []string
	decode(t, call(t, h, http.MethodGet, "/vocabulary/countries/WW", "", nil), &codes)
	assert.Equal(t, []string{"GR", "JP"}, codes)

	var v model.Vocabulary
	decode(t, call(t, h, http.MethodGet, "/vocabulary/country-gr", "", nil), &v)
	assert.Equal(t, "Greece", v.Name)

	var tree model.VocabularyTree
	decode(t, call(t, h, http.MethodGet, "/vocabulary/vocabularyTree/Scientific%20domain", "", nil), &tree)
	require.Len(t, tree.Children, 1)
	require.Len(t, tree.Children[0].Children, 1)
	assert.Equal(t, "Physics", tree.Children[0].Children[0].Vocabulary.Name)

	require.Equal(t, http.StatusOK, call(t, h, http.MethodDelete, "/vocabulary/deleteByType/Country", "admin", nil).Code)
	decode(t, call(t, h, http.MethodGet, "/vocabulary/countries/WW", "", nil), &codes)
	assert.Empty(t, codes)
}

func TestPIDRoutes(t *testing.T) {
	_, h := newTestServer(t)
	id := onboardProvider(t, h, "alice", "athena")
	approve(t, h, "provider", "Provider", id, model.StatusApprovedProvider)

	rec := call(t, h, http.MethodGet, "/pid/"+id+"?resourceType=provider", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var p model.Provider
	decode(t, rec, &p)
	assert.Equal(t, "eosc."+id, p.ID)

	assert.Equal(t, http.StatusNotFound, call(t, h, http.MethodGet, "/pid/21.T15999/missing", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, call(t, h, http.MethodPost, "/pid/"+id+"?resourceType=provider", "alice", nil).Code)
}

func TestRoutesAreUnique(t *testing.T) {
	reg, _ := newTestServer(t)
	seen := map[string]bool{}
	for _, router := range NewRouters(reg, nil) {
		for _, route := range model.OrderedRoutes(router) {
			key := route.Method + " " + route.Pattern
			assert.False(t, seen[key], "duplicate route %s", key)
			seen[key] = true
		}
	}
}
