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
)

// AdapterAPIController binds the adapter routes to the adapter service.
type AdapterAPIController struct {
	lifecycleAPI[*model.Adapter]
	service *api.AdapterManager
}

// AdapterAPIOption for how the controller is set up.
type AdapterAPIOption func(*AdapterAPIController)

// WithAdapterAPIErrorHandler inject ErrorHandler into controller
func WithAdapterAPIErrorHandler(h model.ErrorHandler) AdapterAPIOption {
	return func(c *AdapterAPIController) {
		c.errorHandler = h
	}
}

// NewAdapterAPIController creates a default api controller
func NewAdapterAPIController(reg *api.Registry, opts ...AdapterAPIOption) *AdapterAPIController {
	controller := &AdapterAPIController{
		lifecycleAPI: newLifecycleAPI[*model.Adapter](reg, adapterRoute, reg.Adapters, nil),
		service:      reg.Adapters,
	}
	for _, opt := range opts {
		opt(controller)
	}
	return controller
}

// Routes returns all the api routes for the AdapterAPIController
func (c *AdapterAPIController) Routes() model.Routes {
	routes := c.routes()
	routes["LinkedResourceServiceMap"] = model.Route{
		Method:      strings.ToUpper("Get"),
		Pattern:     "/adapter/linkedResourceServiceMap",
		HandlerFunc: c.LinkedResourceServiceMap,
	}
	routes["LinkedResourceGuidelineMap"] = model.Route{
		Method:      strings.ToUpper("Get"),
		Pattern:     "/adapter/linkedResourceGuidelineMap",
		HandlerFunc: c.LinkedResourceGuidelineMap,
	}
	return routes
}

// LinkedResourceServiceMap - maps the service ids adapters may link to their names
func (c *AdapterAPIController) LinkedResourceServiceMap(w http.ResponseWriter, r *http.Request) {
	names, err := c.service.LinkedResourceServiceMap(r.Context())
	if err != nil {
		c.fail(w, r, "LinkedResourceServiceMap", err)
		return
	}
	c.respond(w, r, http.StatusOK, names)
}

// LinkedResourceGuidelineMap - maps the guideline ids adapters may link to their names
func (c *AdapterAPIController) LinkedResourceGuidelineMap(w http.ResponseWriter, r *http.Request) {
	names, err := c.service.LinkedResourceGuidelineMap(r.Context())
	if err != nil {
		c.fail(w, r, "LinkedResourceGuidelineMap", err)
		return
	}
	c.respond(w, r, http.StatusOK, names)
}
