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

package common

import (
	"net/http"
	"regexp"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/ghodss/yaml"

	"github.com/madgik/resource-catalogue-go/internal/common/model"
)

// OpenAPIConfig describes the generated document.
type OpenAPIConfig struct {
	BaseURL     string
	Title       string
	Version     string
	Description string
}

var (
	customRegexRemoval = regexp.MustCompile(`{(\w+)\:[^}]+}`)
	pathParam          = regexp.MustCompile(`{(\w+)}`)
)

// GenerateOpenAPI builds an OpenAPI 3 document from the registered routes. Route
// names become operation ids; the first path segment becomes the tag.
func GenerateOpenAPI(conf OpenAPIConfig, routers ...model.Router) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.0.2",
		Servers: openapi3.Servers{
			{URL: conf.BaseURL},
		},
		Info: &openapi3.Info{
			Title:       conf.Title,
			Version:     conf.Version,
			Description: conf.Description,
		},
		Components: openapi3.Components{
			Schemas: make(openapi3.Schemas),
		},
		Paths: openapi3.Paths{},
	}
	for _, r := range routers {
		routes := r.Routes()
		names := make([]string, 0, len(routes))
		for name := range routes {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			addRoute(doc, name, routes[name])
		}
	}
	return doc
}

func addRoute(doc *openapi3.T, name string, route model.Route) {
	path := customRegexRemoval.ReplaceAllString(route.Pattern, `{$1}`)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	pi, ok := doc.Paths[path]
	if !ok {
		pi = &openapi3.PathItem{}
		doc.Paths[path] = pi
	}

	op := &openapi3.Operation{
		OperationID: name,
		Tags:        []string{tagOf(path)},
		Responses:   openapi3.NewResponses(),
	}
	for _, m := range pathParam.FindAllStringSubmatch(path, -1) {
		op.Parameters = append(op.Parameters, &openapi3.ParameterRef{
			Value: &openapi3.Parameter{
				In:       openapi3.ParameterInPath,
				Name:     m[1],
				Required: true,
				Schema:   &openapi3.SchemaRef{Value: &openapi3.Schema{Type: "string"}},
			},
		})
	}
	if route.Method == http.MethodPost || route.Method == http.MethodPut {
		op.RequestBody = &openapi3.RequestBodyRef{
			Value: &openapi3.RequestBody{
				Content: openapi3.NewContentWithJSONSchema(&openapi3.Schema{Type: "object"}),
			},
		}
	}
	description := "Success"
	op.Responses["200"] = &openapi3.ResponseRef{
		Value: &openapi3.Response{
			Description: &description,
			Content:     openapi3.NewContentWithJSONSchema(&openapi3.Schema{}),
		},
	}

	switch route.Method {
	case http.MethodGet:
		pi.Get = op
	case http.MethodPut:
		pi.Put = op
	case http.MethodPost:
		pi.Post = op
	case http.MethodDelete:
		pi.Delete = op
	case http.MethodPatch:
		pi.Patch = op
	}
}

func tagOf(path string) string {
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(parts) > 1 && parts[0] == "public" {
		return "public " + parts[1]
	}
	return parts[0]
}

// OpenAPIYAML renders doc as YAML.
func OpenAPIYAML(doc *openapi3.T) ([]byte, error) {
	return yaml.Marshal(doc)
}
