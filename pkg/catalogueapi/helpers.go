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

// Package catalogueapi binds the catalogue services to HTTP routes.
package catalogueapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"

	"github.com/madgik/resource-catalogue-go/internal/catalogue/api"
	"github.com/madgik/resource-catalogue-go/internal/common"
	"github.com/madgik/resource-catalogue-go/internal/common/facetfilter"
	"github.com/madgik/resource-catalogue-go/internal/common/log"
	"github.com/madgik/resource-catalogue-go/internal/common/model"
	"github.com/madgik/resource-catalogue-go/internal/common/security"
)

const (
	componentName = "CATALOGUE_API"

	defaultComment = "no comment"
	allCatalogues  = "all"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var errMissing = errors.New("required parameter is missing")

// kindRoute binds a resource kind to the paths it is served under.
type kindRoute struct {
	Type  string
	Label string
	// Base is the first path segment, e.g. "trainingResource".
	Base string
	// Name is used in operation paths such as verifyTrainingResource.
	Name string
	// IDParam is the query parameter naming the entry in suspend requests.
	IDParam string
	// My is the path listing the entries of the caller.
	My       string
	Approved string
}

var (
	providerRoute   = kindRoute{Type: model.TypeProvider, Label: "Provider", Base: "provider", Name: "Provider", IDParam: "providerId", My: "getMyProviders", Approved: model.StatusApprovedProvider}
	serviceRoute    = kindRoute{Type: model.TypeService, Label: "Service", Base: "service", Name: "Resource", IDParam: "serviceId", My: "getMyServices", Approved: model.StatusApprovedResource}
	trainingRoute   = kindRoute{Type: model.TypeTrainingResource, Label: "Training Resource", Base: "trainingResource", Name: "TrainingResource", IDParam: "trainingResourceId", My: "getMyTrainingResources", Approved: model.StatusApprovedResource}
	deployableRoute = kindRoute{Type: model.TypeDeployableService, Label: "Deployable Service", Base: "deployableService", Name: "DeployableService", IDParam: "deployableServiceId", My: "getMyDeployableServices", Approved: model.StatusApprovedResource}
	guidelineRoute  = kindRoute{Type: model.TypeInteroperabilityRecord, Label: "Interoperability Record", Base: "interoperabilityRecord", Name: "InteroperabilityRecord", IDParam: "interoperabilityRecordId", My: "getMyInteroperabilityRecords", Approved: model.StatusApprovedInteroperabilityRecord}
	adapterRoute    = kindRoute{Type: model.TypeAdapter, Label: "Adapter", Base: "adapter", Name: "Adapter", IDParam: "adapterId", My: "getMyAdapters", Approved: model.StatusApprovedAdapter}
	catalogueRoute  = kindRoute{Type: model.TypeCatalogue, Label: "Catalogue", Base: "catalogue", Name: "Catalogue", IDParam: "catalogueId", My: "getMyCatalogues", Approved: model.StatusApprovedCatalogue}

	datasourceRoute                 = kindRoute{Type: model.TypeDatasource, Label: "Datasource", Base: "datasource", Name: "Datasource", Approved: model.StatusApprovedDatasource}
	helpdeskRoute                   = kindRoute{Type: model.TypeHelpdesk, Label: "Helpdesk", Base: "service-extensions/helpdesk", Name: "Helpdesk"}
	monitoringRoute                 = kindRoute{Type: model.TypeMonitoring, Label: "Monitoring", Base: "service-extensions/monitoring", Name: "Monitoring"}
	resourceInteroperabilityRoute   = kindRoute{Type: model.TypeResourceInteroperabilityRecord, Label: "Resource Interoperability Record", Base: "resourceInteroperabilityRecord", Name: "ResourceInteroperabilityRecord"}
	configurationTemplateRoute      = kindRoute{Type: model.TypeConfigurationTemplate, Label: "Configuration Template", Base: "configurationTemplate", Name: "ConfigurationTemplate"}
	configurationTemplateInstRoute  = kindRoute{Type: model.TypeConfigurationTemplateInstance, Label: "Configuration Template Instance", Base: "configurationTemplateInstance", Name: "ConfigurationTemplateInstance"}
)

func (k kindRoute) path(segments ...string) string {
	return "/" + strings.Join(append([]string{k.Base}, segments...), "/")
}

// controller holds what every catalogue controller shares.
type controller struct {
	reg          *api.Registry
	errorHandler model.ErrorHandler
}

func newController(reg *api.Registry) controller {
	return controller{reg: reg, errorHandler: model.DefaultErrorHandler}
}

func (c *controller) defaultCatalogue() string {
	return c.reg.Config().ID
}

// respond hides what the caller may not see and writes body as JSON.
func (c *controller) respond(w http.ResponseWriter, r *http.Request, status int, body interface{}) {
	c.reg.Security().SecureBody(r.Context(), security.FromContext(r.Context()), body)
	_ = model.EncodeJSONResponse(body, &status, w)
}

// fail logs err and hands the matching error response to the error handler.
func (c *controller) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	log.L(r.Context()).WithField("component", componentName).Debugf("%s failed: %v", op, err)

	var parsingErr *model.ParsingError
	var requiredErr *model.RequiredError
	if errors.As(err, &parsingErr) || errors.As(err, &requiredErr) {
		c.errorHandler(w, r, err, nil)
		return
	}

	var result model.ImplResponse
	if verr, ok := common.IsValidationError(err); ok {
		result = common.NewValidationErrorResponse(verr.Errors)
	} else {
		result = common.NewErrorResponseFromError(err, componentName, op)
	}
	c.errorHandler(w, r, err, &result)
}

// forbidden writes the short 403 body used by the catalogue and public checks.
func forbidden(w http.ResponseWriter, message string) {
	code := http.StatusForbidden
	_ = model.EncodeJSONResponse(model.MessageBody{Message: message}, &code, w)
}

// guard answers with 401 or 403 and returns false when the caller may not manage id.
func (c *controller) guard(w http.ResponseWriter, r *http.Request, op, resourceType, id string) bool {
	ctx := r.Context()
	if err := c.reg.Security().Guard(ctx, security.FromContext(ctx), resourceType, id); err != nil {
		c.fail(w, r, op, err)
		return false
	}
	return true
}

// pathID joins the {prefix}/{suffix} path parameters into an id.
func pathID(r *http.Request) string {
	return common.JoinID(chi.URLParam(r, "prefix"), chi.URLParam(r, "suffix"))
}

func firstQuery(r *http.Request, names ...string) string {
	q := r.URL.Query()
	for _, n := range names {
		if v := q.Get(n); v != "" {
			return v
		}
	}
	return ""
}

// catalogueParam reads the catalogue from the path, then from catalogue_id or
// catalogueId, and falls back to def.
func catalogueParam(r *http.Request, def string) string {
	if v := chi.URLParam(r, "catalogueId"); v != "" {
		return v
	}
	if v := firstQuery(r, "catalogue_id", "catalogueId"); v != "" {
		return v
	}
	return def
}

func commentParam(r *http.Request) string {
	if v := r.URL.Query().Get("comment"); v != "" {
		return v
	}
	return defaultComment
}

func requiredQuery(r *http.Request, name string) (string, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return "", &model.ParsingError{Param: name, Err: errMissing}
	}
	return v, nil
}

func optionalBool(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, &model.ParsingError{Param: name, Err: err}
	}
	return &v, nil
}

func requiredBool(r *http.Request, name string) (bool, error) {
	v, err := optionalBool(r, name)
	if err != nil {
		return false, err
	}
	if v == nil {
		return false, &model.ParsingError{Param: name, Err: errMissing}
	}
	return *v, nil
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, &model.ParsingError{Param: name, Err: fmt.Errorf("'%s' is not a non-negative integer", raw)}
	}
	return v, nil
}

func optionalFloat(r *http.Request, name string) (*float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, &model.ParsingError{Param: name, Err: err}
	}
	return &v, nil
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &model.ParsingError{Param: "body", Err: err}
	}
	return nil
}

// decodePayload reads a payload body and wraps it into a fresh bundle.
func decodePayload[P model.Payload](r *http.Request) (*model.Bundle[P], error) {
	var payload P
	if err := decodeJSON(r, &payload); err != nil {
		return nil, err
	}
	b := model.NewBundle(payload)
	if !b.HasPayload() {
		return nil, &model.RequiredError{Field: "body"}
	}
	return b, nil
}

func decodeBundle[P model.Payload](r *http.Request) (*model.Bundle[P], error) {
	b := &model.Bundle[P]{}
	if err := decodeJSON(r, b); err != nil {
		return nil, err
	}
	if !b.HasPayload() {
		return nil, &model.RequiredError{Field: "payload"}
	}
	return b, nil
}

// browseFilter builds the listing filter from the query. The catalogue
// defaults to def; "all" lifts the catalogue restriction.
func browseFilter(r *http.Request, resourceType, def string, skip ...string) (*facetfilter.FacetFilter, error) {
	q := r.URL.Query()
	cat := catalogueParam(r, def)
	q.Del("catalogueId")
	q.Del(facetfilter.KeyCatalogueID)
	ff, err := facetfilter.FromQuery(resourceType, q, skip...)
	if err != nil {
		return nil, err
	}
	if cat != "" && cat != allCatalogues {
		ff.SetFilter(facetfilter.KeyCatalogueID, cat)
	}
	return ff, nil
}
