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
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/madgik/resource-catalogue-go/internal/catalogue/api"
	"github.com/madgik/resource-catalogue-go/internal/common"
	"github.com/madgik/resource-catalogue-go/internal/common/log"
	"github.com/madgik/resource-catalogue-go/internal/common/model"
	"github.com/madgik/resource-catalogue-go/internal/common/security"
	"github.com/madgik/resource-catalogue-go/internal/notifications"
	"github.com/madgik/resource-catalogue-go/internal/persistence"
	"github.com/madgik/resource-catalogue-go/internal/pid"
	"github.com/madgik/resource-catalogue-go/pkg/catalogueapi"
)

const shutdownTimeout = 10 * time.Second

type closeFunc func() error

func (f closeFunc) Close() error { return f() }

// openStore returns the configured record store and a closer releasing it.
func openStore(ctx context.Context, cfg *common.Config) (persistence.Store, io.Closer, error) {
	var (
		store  persistence.Store
		closer io.Closer = closeFunc(func() error { return nil })
	)
	switch cfg.Storage.Backend {
	case "", "postgres":
		db, err := common.InitializeDatabase(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Postgres.Migrate {
			if err := persistence.Migrate(db); err != nil {
				_ = db.Close()
				return nil, nil, err
			}
		}
		store, closer = persistence.NewPostgresStore(db), db
	case "memory":
		log.L(ctx).Warn("⚠️ Using the in-memory store, nothing survives a restart")
		store = persistence.NewMemoryStore()
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	if cfg.Server.CacheEnabled {
		store = persistence.NewCachedStore(store, cfg.Cache.Size, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
	}
	return store, closer, nil
}

type server struct {
	handler http.Handler
	hub     *notifications.Hub
}

// newServer assembles the registry and the router around store.
func newServer(ctx context.Context, cfg *common.Config, store persistence.Store) (*server, error) {
	s := &server{}
	var events notifications.Publisher = notifications.Discard{}
	if cfg.Events.Enabled {
		s.hub = notifications.NewHub(ctx, cfg.Events.Buffer)
		events = s.hub
	}
	var registrar pid.Registrar = pid.Noop{}
	if cfg.PID.Enabled {
		registrar = pid.NewClient(cfg.PID, nil)
	}

	reg, err := api.NewRegistry(api.Options{
		Store:               store,
		Catalogue:           cfg.Catalogue,
		Events:              events,
		PID:                 registrar,
		PIDEnabled:          cfg.PID.Enabled,
		PIDPrefixes:         cfg.PID.Prefixes,
		VocabularyCacheSize: cfg.Cache.VocabularySize,
	})
	if err != nil {
		return nil, err
	}
	if err := reg.Bootstrap(ctx); err != nil {
		return nil, err
	}

	// === Main Router ===
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(log.Middleware)
	common.AddCors(r, cfg)
	common.AddHealthEndpoint(r, cfg, store)

	base := common.NormalizeBasePath(cfg.Server.ContextPath)
	routers := catalogueapi.NewRouters(reg, nil)

	if cfg.Swagger.Enabled {
		doc := common.GenerateOpenAPI(common.OpenAPIConfig{
			BaseURL:     base,
			Title:       cfg.Catalogue.Name + " Resource Catalogue",
			Version:     "v1",
			Description: "Registry of providers, resources and their extensions",
		}, routers...)
		spec, err := common.OpenAPIYAML(doc)
		if err != nil {
			return nil, err
		}
		common.AddSwaggerUI(r, common.SwaggerUIConfig{
			Title:       cfg.Catalogue.Name + " Resource Catalogue",
			UIPath:      common.JoinPath(base, "/swagger"),
			SpecPath:    common.JoinPath(base, "/openapi.yaml"),
			SpecContent: spec,
		})
	}
	if s.hub != nil {
		r.Get(common.JoinPath(base, cfg.Events.Path), s.hub.ServeWS)
	}

	// === API Subrouter ===
	apiRouter := chi.NewRouter()
	if _, err := security.SetupSecurity(ctx, cfg, apiRouter); err != nil {
		return nil, err
	}
	model.Mount(apiRouter, routers...)
	r.Mount(base, apiRouter)

	s.handler = r
	return s, nil
}

func (s *server) Close() {
	if s.hub != nil {
		s.hub.Close()
	}
}

func runServer(ctx context.Context, cfg *common.Config) error {
	l := log.L(ctx)
	store, closer, err := openStore(ctx, cfg)
	if err != nil {
		l.Errorf("❌ Store setup failed: %v", err)
		return err
	}
	defer func() { _ = closer.Close() }()

	s, err := newServer(ctx, cfg, store)
	if err != nil {
		return err
	}
	defer s.Close()

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: s.handler, ReadHeaderTimeout: 10 * time.Second}
	l.Infof("▶️ Resource Catalogue %q listening on %s (contextPath=%q)", cfg.Catalogue.ID, addr, cfg.Server.ContextPath)

	errs := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		l.Errorf("Server error: %v", err)
		return err
	case <-ctx.Done():
	}
	l.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
