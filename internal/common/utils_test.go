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
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madgik/resource-catalogue-go/internal/common/model"
)

func TestPaths(t *testing.T) {
	assert.Equal(t, "/", NormalizeBasePath(""))
	assert.Equal(t, "/api", NormalizeBasePath("api/"))
	assert.Equal(t, "/health", JoinPath("", "/health"))
	assert.Equal(t, "/api/health", JoinPath("/api/", "health"))
	assert.Equal(t, "a/b", JoinID("a", "b"))
	assert.Equal(t, "a", JoinID("a", ""))
	assert.True(t, ContainsFold([]string{"A@x.org"}, "a@X.org"))
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthEndpoint(t *testing.T) {
	cfg := &Config{Server: ServerConfig{ContextPath: "/api"}}
	up := chi.NewRouter()
	AddHealthEndpoint(up, cfg, pingFunc(func(context.Context) error { return nil }))
	rec := httptest.NewRecorder()
	up.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"UP"}`, rec.Body.String())

	down := chi.NewRouter()
	AddHealthEndpoint(down, cfg, pingFunc(func(context.Context) error { return errors.New("db down") }))
	rec = httptest.NewRecorder()
	down.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

type staticRouter model.Routes

func (s staticRouter) Routes() model.Routes { return model.Routes(s) }

func TestGenerateOpenAPI(t *testing.T) {
	noop := func(http.ResponseWriter, *http.Request) {}
	doc := GenerateOpenAPI(OpenAPIConfig{BaseURL: "http://localhost/api", Title: "Catalogue", Version: "1"}, staticRouter{
		"GetProvider":    {Method: http.MethodGet, Pattern: "/provider/{prefix}/{suffix}", HandlerFunc: noop},
		"AddProvider":    {Method: http.MethodPost, Pattern: "/provider", HandlerFunc: noop},
		"GetAllServices": {Method: http.MethodGet, Pattern: "/public/service/all", HandlerFunc: noop},
	})

	pi, ok := doc.Paths["/provider/{prefix}/{suffix}"]
	require.True(t, ok)
	require.NotNil(t, pi.Get)
	assert.Equal(t, "GetProvider", pi.Get.OperationID)
	assert.Len(t, pi.Get.Parameters, 2)
	require.NotNil(t, doc.Paths["/provider"].Post.RequestBody)
	assert.Equal(t, []string{"public service"}, doc.Paths["/public/service/all"].Get.Tags)

	out, err := OpenAPIYAML(doc)
	require.NoError(t, err)
	assert.Contains(t, string(out), "openapi: 3.0.2")
}

func TestSwaggerUI(t *testing.T) {
	r := chi.NewRouter()
	AddSwaggerUI(r, SwaggerUIConfig{Title: "Catalogue", UIPath: "/swagger", SpecPath: "/openapi.yaml", SpecContent: []byte("openapi: 3.0.2\n"), BasePath: "/"})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
	assert.Equal(t, "openapi: 3.0.2\n", rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger", nil))
	assert.Contains(t, rec.Body.String(), "Catalogue - Swagger UI")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
}
