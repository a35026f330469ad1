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

// PIDAPIController resolves and registers the handles of public entries.
type PIDAPIController struct {
	controller
}

// PIDAPIOption for how the controller is set up.
type PIDAPIOption func(*PIDAPIController)

// WithPIDAPIErrorHandler inject ErrorHandler into controller
func WithPIDAPIErrorHandler(h model.ErrorHandler) PIDAPIOption {
	return func(c *PIDAPIController) {
		c.errorHandler = h
	}
}

// NewPIDAPIController creates a default api controller
func NewPIDAPIController(reg *api.Registry, opts ...PIDAPIOption) *PIDAPIController {
	controller := &PIDAPIController{controller: newController(reg)}
	for _, opt := range opts {
		opt(controller)
	}
	return controller
}

// Routes returns all the api routes for the PIDAPIController
func (c *PIDAPIController) Routes() model.Routes {
	return model.Routes{
		"ResolvePID": model.Route{
			Method:      strings.ToUpper("Get"),
			Pattern:     "/pid/{prefix}/{suffix}",
			HandlerFunc: c.Resolve,
		},
		"RegisterPID": model.Route{
			Method:      strings.ToUpper("Post"),
			Pattern:     "/pid/{prefix}/{suffix}",
			HandlerFunc: security.RequireAdmin(c.Register),
		},
	}
}

// Resolve - returns the public payload registered under a handle
func (c *PIDAPIController) Resolve(w http.ResponseWriter, r *http.Request) {
	payload, err := c.reg.ResolvePID(r.Context(), pathID(r), r.URL.Query().Get("resourceType"))
	if err != nil {
		c.fail(w, r, "ResolvePID", err)
		return
	}
	c.respond(w, r, http.StatusOK, payload)
}

// Register - (re)registers the handle of a public entry
func (c *PIDAPIController) Register(w http.ResponseWriter, r *http.Request) {
	resourceType, err := requiredQuery(r, "resourceType")
	if err != nil {
		c.fail(w, r, "RegisterPID", err)
		return
	}
	if err := c.reg.RegisterPID(r.Context(), pathID(r), resourceType); err != nil {
		c.fail(w, r, "RegisterPID", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
