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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Storage.Backend)
	assert.Equal(t, "postgres", cfg.Postgres.Driver)
	assert.Equal(t, "eosc", cfg.Catalogue.ID)
	assert.Equal(t, 6, cfg.Catalogue.AuditingInterval)
	assert.Equal(t, "dat", cfg.Catalogue.IDPrefix("datasource"))
	assert.Equal(t, "non", cfg.Catalogue.IDPrefix("unknown"))
	assert.Equal(t, "/events", cfg.Events.Path)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
  contextPath: /api
storage:
  backend: memory
catalogue:
  id: demo
  admins:
    - admin@example.org
  resources:
    service:
      idPrefix: svc
`), 0o600))

	t.Setenv("POSTGRES_DBNAME", "fromenv")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/api", cfg.Server.ContextPath)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, "demo", cfg.Catalogue.ID)
	assert.Equal(t, []string{"admin@example.org"}, cfg.Catalogue.Admins)
	assert.Equal(t, "svc", cfg.Catalogue.IDPrefix("service"))
	assert.Equal(t, "fromenv", cfg.Postgres.DBName)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{User: "u", Password: "p", Host: "h", Port: 5432, DBName: "d"}
	assert.Equal(t, "postgres://u:p@h:5432/d?sslmode=disable", p.DSN())
}
