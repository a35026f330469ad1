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

package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madgik/resource-catalogue-go/internal/common"
)

func runVersion(t *testing.T, args ...string) (string, error) {
	defer func() { shortened, output = false, "json" }()
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetArgs(append([]string{"version"}, args...))
	defer rootCmd.SetArgs([]string{})
	defer rootCmd.SetOut(nil)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCmdDefault(t *testing.T) {
	out, err := runVersion(t)
	assert.NoError(t, err)
	assert.Contains(t, out, `"License": "MIT"`)
}

func TestVersionCmdYAML(t *testing.T) {
	BuildVersionOverride = "1.2.3"
	defer func() { BuildVersionOverride = "" }()
	out, err := runVersion(t, "-o", "yaml")
	assert.NoError(t, err)
	assert.Contains(t, out, "Version: 1.2.3")
}

func TestVersionCmdShorthand(t *testing.T) {
	BuildVersionOverride = "1.2.3"
	defer func() { BuildVersionOverride = "" }()
	out, err := runVersion(t, "-s")
	assert.NoError(t, err)
	assert.Equal(t, "1.2.3\n", out)
}

func TestVersionCmdInvalidType(t *testing.T) {
	_, err := runVersion(t, "-o", "wrong")
	assert.EqualError(t, err, "invalid output 'wrong'")
}

func testConfig(t *testing.T) *common.Config {
	cfg, err := common.LoadConfig("")
	require.NoError(t, err)
	cfg.Storage.Backend = "memory"
	return cfg
}

func TestOpenStoreUnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Backend = "mongo"
	_, _, err := openStore(context.Background(), cfg)
	assert.EqualError(t, err, `unknown storage backend "mongo"`)
}

func TestServerRoutes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cfg := testConfig(t)
	cfg.Server.ContextPath = "/api"

	store, closer, err := openStore(ctx, cfg)
	require.NoError(t, err)
	defer func() { _ = closer.Close() }()
	s, err := newServer(ctx, cfg, store)
	require.NoError(t, err)
	defer s.Close()
	require.NotNil(t, s.hub)

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	rec := get("/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"UP"}`, rec.Body.String())

	rec = get("/api/openapi.yaml")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/provider/all")

	rec = get("/api/swagger")
	assert.Equal(t, http.StatusOK, rec.Code)

	// bootstrap creates the hosting catalogue
	rec = get("/api/catalogue/eosc")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get("/api/provider/all")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get("/provider/all")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServerWithoutSwaggerOrEvents(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Swagger.Enabled = false
	cfg.Events.Enabled = false
	cfg.Server.CacheEnabled = false

	store, _, err := openStore(ctx, cfg)
	require.NoError(t, err)
	s, err := newServer(ctx, cfg, store)
	require.NoError(t, err)
	defer s.Close()
	assert.Nil(t, s.hub)

	for _, path := range []string{"/openapi.yaml", "/events"} {
		rec := httptest.NewRecorder()
		s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func runHealthCheck(t *testing.T, args ...string) (string, error) {
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(append([]string{"healthcheck"}, args...))
	defer rootCmd.SetArgs([]string{})
	defer rootCmd.SetOut(nil)
	defer rootCmd.SetErr(nil)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestHealthCheckCmd(t *testing.T) {
	status := http.StatusOK
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"status":"UP"}`))
	}))
	defer ts.Close()

	out, err := runHealthCheck(t, ts.URL+"/health")
	assert.NoError(t, err)
	assert.Contains(t, out, `{"status":"UP"}`)

	status = http.StatusServiceUnavailable
	out, err = runHealthCheck(t, ts.URL+"/health")
	assert.EqualError(t, err, "HEALTHCHECK-UNHEALTHY: 503")
	assert.Contains(t, out, "HEALTHCHECK-UNHEALTHY: 503")
}

func TestDefaultHealthURL(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_CONTEXTPATH", "/api/")
	assert.Equal(t, "http://127.0.0.1:9090/api/health", defaultHealthURL())
}
