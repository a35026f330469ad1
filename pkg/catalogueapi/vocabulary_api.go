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

// VocabularyAPIController serves the controlled vocabularies.
type VocabularyAPIController struct {
	controller
	service *api.VocabularyManager
}

// VocabularyAPIOption for how the controller is set up.
type VocabularyAPIOption func(*VocabularyAPIController)

// WithVocabularyAPIErrorHandler inject ErrorHandler into controller
func WithVocabularyAPIErrorHandler(h model.ErrorHandler) VocabularyAPIOption {
	return func(c *VocabularyAPIController) {
		c.errorHandler = h
	}
}

// NewVocabularyAPIController creates a default api controller
func NewVocabularyAPIController(reg *api.Registry, opts ...VocabularyAPIOption) *VocabularyAPIController {
	controller := &VocabularyAPIController{
		controller: newController(reg),
		service:    reg.Vocabularies,
	}
	for _, opt := range opts {
		opt(controller)
	}
	return controller
}

// Routes returns all the api routes for the VocabularyAPIController
func (c *VocabularyAPIController) Routes() model.Routes {
	return model.Routes{
		"GetCountries": model.Route{
			Method:      strings.ToUpper("Get"),
			Pattern:     "/vocabulary/countries/{region}",
			HandlerFunc: c.GetCountries,
		},
		"GetVocabulary": model.Route{
			Method:      strings.ToUpper("Get"),
			Pattern:     "/vocabulary/{id}",
			HandlerFunc: c.Get,
		},
		"GetAllVocabularies": model.Route{
			Method:      strings.ToUpper("Get"),
			Pattern:     "/vocabulary/all",
			HandlerFunc: c.GetAll,
		},
		"GetVocabularyTree": model.Route{
			Method:      strings.ToUpper("Get"),
			Pattern:     "/vocabulary/vocabularyTree/{type}",
			HandlerFunc: c.GetVocabularyTree,
		},
		"GetVocabularyMap": model.Route{
			Method:      strings.ToUpper("Get"),
			Pattern:     "/vocabulary/vocabularyMap",
			HandlerFunc: c.GetVocabularyMap,
		},
		"GetAllVocabulariesByType": model.Route{
			Method:      strings.ToUpper("Get"),
			Pattern:     "/vocabulary/byType",
			HandlerFunc: c.GetAllByType,
		},
		"GetVocabulariesByType": model.Route{
			Method:      strings.ToUpper("Get"),
			Pattern:     "/vocabulary/byType/{type}",
			HandlerFunc: c.GetByType,
		},
		"AddVocabulary": model.Route{
			Method:      strings.ToUpper("Post"),
			Pattern:     "/vocabulary",
			HandlerFunc: security.RequireAdmin(c.Add),
		},
		"UpdateVocabulary": model.Route{
			Method:      strings.ToUpper("Put"),
			Pattern:     "/vocabulary",
			HandlerFunc: security.RequireAdmin(c.Update),
		},
		"DeleteVocabulary": model.Route{
			Method:      strings.ToUpper("Delete"),
			Pattern:     "/vocabulary/{id}",
			HandlerFunc: security.RequireAdmin(c.Delete),
		},
		"AddVocabularies": model.Route{
			Method:      strings.ToUpper("Post"),
			Pattern:     "/vocabulary/addBulk",
			HandlerFunc: security.RequireAdmin(c.AddBulk),
		},
		"UpdateVocabularies": model.Route{
			Method:      strings.ToUpper("Put"),
			Pattern:     "/vocabulary/updateBulk",
			HandlerFunc: security.RequireAdmin(c.UpdateBulk),
		},
		"DeleteVocabularies": model.Route{
			Method:      strings.ToUpper("Delete"),
			Pattern:     "/vocabulary/deleteBulk",
			HandlerFunc: security.RequireAdmin(c.DeleteBulk),
		},
		"DeleteVocabulariesByType": model.Route{
			Method:      strings.ToUpper("Delete"),
			Pattern:     "/vocabulary/deleteByType/{type}",
			HandlerFunc: security.RequireAdmin(c.DeleteByType),
		},
	}
}

// GetCountries - returns the country codes of a region
func (c *VocabularyAPIController) GetCountries(w http.ResponseWriter, r *http.Request) {
	codes, err := c.service.Countries(r.Context(), chi.URLParam(r, "region"))
	if err != nil {
		c.fail(w, r, "GetCountries", err)
		return
	}
	c.respond(w, r, http.StatusOK, codes)
}

// Get - returns a vocabulary entry
func (c *VocabularyAPIController) Get(w http.ResponseWriter, r *http.Request) {
	v, err := c.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		c.fail(w, r, "GetVocabulary", err)
		return
	}
	c.respond(w, r, http.StatusOK, v)
}

// GetAll - lists the vocabulary entries
func (c *VocabularyAPIController) GetAll(w http.ResponseWriter, r *http.Request) {
	ff, err := browseFilter(r, model.TypeVocabulary, allCatalogues)
	if err != nil {
		c.fail(w, r, "GetAllVocabularies", err)
		return
	}
	page, err := c.service.GetAll(r.Context(), ff)
	if err != nil {
		c.fail(w, r, "GetAllVocabularies", err)
		return
	}
	c.respond(w, r, http.StatusOK, page)
}

// GetVocabularyTree - returns the entries of a type as a tree
func (c *VocabularyAPIController) GetVocabularyTree(w http.ResponseWriter, r *http.Request) {
	tree, err := c.service.VocabularyTree(r.Context(), chi.URLParam(r, "type"))
	if err != nil {
		c.fail(w, r, "GetVocabularyTree", err)
		return
	}
	c.respond(w, r, http.StatusOK, tree)
}

// GetVocabularyMap - maps vocabulary ids to entries
func (c *VocabularyAPIController) GetVocabularyMap(w http.ResponseWriter, r *http.Request) {
	entries, err := c.service.VocabularyMap(r.Context())
	if err != nil {
		c.fail(w, r, "GetVocabularyMap", err)
		return
	}
	c.respond(w, r, http.StatusOK, entries)
}

// GetAllByType - groups the vocabulary entries by type
func (c *VocabularyAPIController) GetAllByType(w http.ResponseWriter, r *http.Request) {
	grouped, err := c.service.GetAllByType(r.Context())
	if err != nil {
		c.fail(w, r, "GetAllVocabulariesByType", err)
		return
	}
	c.respond(w, r, http.StatusOK, grouped)
}

// GetByType - lists the entries of one type
func (c *VocabularyAPIController) GetByType(w http.ResponseWriter, r *http.Request) {
	entries, err := c.service.GetByType(r.Context(), chi.URLParam(r, "type"))
	if err != nil {
		c.fail(w, r, "GetVocabulariesByType", err)
		return
	}
	c.respond(w, r, http.StatusOK, entries)
}

// Add - stores a vocabulary entry
func (c *VocabularyAPIController) Add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	v := &model.Vocabulary{}
	if err := decodeJSON(r, v); err != nil {
		c.fail(w, r, "AddVocabulary", err)
		return
	}
	v, err := c.service.Add(ctx, v, security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, "AddVocabulary", err)
		return
	}
	c.respond(w, r, http.StatusCreated, v)
}

// Update - replaces a vocabulary entry
func (c *VocabularyAPIController) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	v := &model.Vocabulary{}
	if err := decodeJSON(r, v); err != nil {
		c.fail(w, r, "UpdateVocabulary", err)
		return
	}
	v, err := c.service.Update(ctx, v, security.FromContext(ctx))
	if err != nil {
		c.fail(w, r, "UpdateVocabulary", err)
		return
	}
	c.respond(w, r, http.StatusOK, v)
}

// Delete - removes a vocabulary entry
func (c *VocabularyAPIController) Delete(w http.ResponseWriter, r *http.Request) {
	v, err := c.service.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		c.fail(w, r, "DeleteVocabulary", err)
		return
	}
	c.respond(w, r, http.StatusOK, v)
}

// AddBulk - stores many vocabulary entries
func (c *VocabularyAPIController) AddBulk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var entries []*model.Vocabulary
	if err := decodeJSON(r, &entries); err != nil {
		c.fail(w, r, "AddVocabularies", err)
		return
	}
	if err := c.service.AddBulk(ctx, entries, security.FromContext(ctx)); err != nil {
		c.fail(w, r, "AddVocabularies", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// UpdateBulk - replaces many vocabulary entries
func (c *VocabularyAPIController) UpdateBulk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var entries []*model.Vocabulary
	if err := decodeJSON(r, &entries); err != nil {
		c.fail(w, r, "UpdateVocabularies", err)
		return
	}
	if err := c.service.UpdateBulk(ctx, entries, security.FromContext(ctx)); err != nil {
		c.fail(w, r, "UpdateVocabularies", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// DeleteBulk - removes the vocabulary entries listed in the body
func (c *VocabularyAPIController) DeleteBulk(w http.ResponseWriter, r *http.Request) {
	var ids []string
	if err := decodeJSON(r, &ids); err != nil {
		c.fail(w, r, "DeleteVocabularies", err)
		return
	}
	if err := c.service.DeleteBulk(r.Context(), ids); err != nil {
		c.fail(w, r, "DeleteVocabularies", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// DeleteByType - removes every entry of a type
func (c *VocabularyAPIController) DeleteByType(w http.ResponseWriter, r *http.Request) {
	if err := c.service.DeleteByType(r.Context(), chi.URLParam(r, "type")); err != nil {
		c.fail(w, r, "DeleteVocabulariesByType", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
