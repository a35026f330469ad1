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

// Package api implements the business logic of the resource catalogue.
//
// Every resource kind is handled by a manager built on a shared lifecycle:
// onboarding (registration, approval, rejection), activation, suspension,
// auditing, drafts and the published copy that public endpoints serve. The
// managers are wired together by a Registry, which is also the ownership
// directory the security layer consults.
package api

import (
	"context"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/madgik/resource-catalogue-go/internal/common"
	"github.com/madgik/resource-catalogue-go/internal/common/log"
	"github.com/madgik/resource-catalogue-go/internal/common/model"
	"github.com/madgik/resource-catalogue-go/internal/common/security"
	"github.com/madgik/resource-catalogue-go/internal/notifications"
	"github.com/madgik/resource-catalogue-go/internal/persistence"
	"github.com/madgik/resource-catalogue-go/internal/pid"
)

const componentName = "CATALOGUE"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Options configures a Registry.
type Options struct {
	Store               persistence.Store
	Catalogue           common.CatalogueConfig
	Events              notifications.Publisher
	PID                 pid.Registrar
	PIDEnabled          bool
	PIDPrefixes         map[string]string
	VocabularyCacheSize int
}

// core holds the collaborators shared by every manager.
type core struct {
	store       persistence.Store
	cfg         common.CatalogueConfig
	security    *security.Service
	events      notifications.Publisher
	pid         pid.Registrar
	pidEnabled  bool
	pidPrefixes map[string]string
	ids         *IDGenerator
	validator   *Validator
	reg         *Registry
}

// Registry wires the managers of every resource kind.
type Registry struct {
	*core

	Providers   *ProviderManager
	Services    *ResourceManager[*model.Service]
	Trainings   *ResourceManager[*model.TrainingResource]
	Deployables *ResourceManager[*model.DeployableService]
	Guidelines  *ResourceManager[*model.InteroperabilityRecord]
	Adapters    *AdapterManager
	Catalogues  *CatalogueManager

	Datasources                     *ExtensionManager[*model.Datasource]
	Helpdesks                       *ExtensionManager[*model.Helpdesk]
	Monitorings                     *ExtensionManager[*model.Monitoring]
	ResourceInteroperabilityRecords *ExtensionManager[*model.ResourceInteroperabilityRecord]
	ConfigurationTemplates          *ExtensionManager[*model.ConfigurationTemplate]
	ConfigurationTemplateInstances  *ExtensionManager[*model.ConfigurationTemplateInstance]

	Events       *EventManager
	Vocabularies *VocabularyManager
}

// NewRegistry builds every manager on top of opts.Store.
func NewRegistry(opts Options) (*Registry, error) {
	validator, err := NewValidator()
	if err != nil {
		return nil, err
	}
	if opts.Events == nil {
		opts.Events = notifications.Discard{}
	}
	if opts.PID == nil {
		opts.PID = pid.Noop{}
	}
	if opts.Catalogue.ID == "" {
		opts.Catalogue.ID = "eosc"
	}
	c := &core{
		store:       opts.Store,
		cfg:         opts.Catalogue,
		events:      opts.Events,
		pid:         opts.PID,
		pidEnabled:  opts.PIDEnabled,
		pidPrefixes: opts.PIDPrefixes,
		ids:         NewIDGenerator(opts.Catalogue.IDPrefix),
		validator:   validator,
	}
	r := &Registry{core: c}
	c.reg = r
	c.security = security.NewService(r, opts.Catalogue.RegistrationEmail)

	r.Catalogues = newCatalogueManager(c)
	r.Providers = newProviderManager(c)
	r.Services = newResourceManager[*model.Service](c, kindService, "resource_organisation", true)
	r.Trainings = newResourceManager[*model.TrainingResource](c, kindTraining, "resource_organisation", true)
	r.Deployables = newResourceManager[*model.DeployableService](c, kindDeployable, "resource_organisation", true)
	r.Guidelines = newResourceManager[*model.InteroperabilityRecord](c, kindGuideline, "provider_id", false)
	r.Adapters = newAdapterManager(c)

	r.Datasources = newExtensionManager[*model.Datasource](c, extensionSpec{
		kind: kindDatasource, parentKey: "service_id", parentKinds: []string{model.TypeService}, single: true,
	})
	r.Helpdesks = newExtensionManager[*model.Helpdesk](c, extensionSpec{
		kind: kindHelpdesk, parentKey: "service_id", parentKinds: serviceKinds, single: true,
	})
	r.Monitorings = newExtensionManager[*model.Monitoring](c, extensionSpec{
		kind: kindMonitoring, parentKey: "service_id", parentKinds: serviceKinds, single: true,
	})
	r.ResourceInteroperabilityRecords = newExtensionManager[*model.ResourceInteroperabilityRecord](c, extensionSpec{
		kind: kindResourceInteroperabilityRecord, parentKey: "resource_id", parentKinds: resourceKinds, single: true,
	})
	r.ResourceInteroperabilityRecords.check = r.checkResourceInteroperabilityRecord
	r.ConfigurationTemplates = newExtensionManager[*model.ConfigurationTemplate](c, extensionSpec{
		kind: kindConfigurationTemplate, parentKey: "interoperability_record_id", parentKinds: []string{model.TypeInteroperabilityRecord},
	})
	r.ConfigurationTemplateInstances = newExtensionManager[*model.ConfigurationTemplateInstance](c, extensionSpec{
		kind: kindConfigurationTemplateInstance, parentKey: "resource_id", parentKinds: resourceKinds,
	})
	r.ConfigurationTemplateInstances.check = r.checkConfigurationTemplateInstance

	r.Events = newEventManager(c)
	if r.Vocabularies, err = newVocabularyManager(c, opts.VocabularyCacheSize); err != nil {
		return nil, err
	}
	return r, nil
}

// Security returns the ownership service backed by this registry.
func (r *Registry) Security() *security.Service {
	return r.security
}

// Config returns the catalogue configuration.
func (r *Registry) Config() common.CatalogueConfig {
	return r.cfg
}

// Bootstrap creates the configured default catalogue when it is missing.
func (r *Registry) Bootstrap(ctx context.Context) error {
	return r.Catalogues.ensureDefault(ctx)
}

func (c *core) isDefault(catalogueID string) bool {
	return catalogueID == "" || catalogueID == c.cfg.ID
}

func (c *core) catalogueOrDefault(catalogueID string) string {
	if catalogueID == "" {
		return c.cfg.ID
	}
	return catalogueID
}

func (c *core) notify(resourceType, id, action string, payload interface{}) {
	c.events.Publish(notifications.New(resourceType, id, action, payload))
}

// checkCatalogueIDConsistency requires an approved catalogue and a payload
// catalogueId matching the one of the request.
func (c *core) checkCatalogueIDConsistency(ctx context.Context, payloadCatalogueID, catalogueID string) error {
	cat, err := c.reg.Catalogues.repo.Get(ctx, catalogueID)
	if err != nil {
		if common.IsErrNotFound(err) {
			return common.NewErrConflict(fmt.Sprintf("Catalogue with id '%s' does not exist.", catalogueID))
		}
		return err
	}
	if cat.Status != model.StatusApprovedCatalogue {
		return common.NewErrConflict(fmt.Sprintf("Catalogue with id '%s' is not Approved.", catalogueID))
	}
	if payloadCatalogueID != "" && payloadCatalogueID != catalogueID {
		return common.NewErrBadRequest("Parameter 'catalogueId' and Payload's 'catalogueId' don't match")
	}
	return nil
}

// suspensionValidation blocks suspending public copies and unsuspending
// entries whose catalogue or provider is still suspended.
func (c *core) suspensionValidation(ctx context.Context, published bool, catalogueID, providerID string, suspend bool) error {
	if published {
		return common.NewErrForbidden("You cannot directly suspend a Public resource")
	}
	if suspend {
		return nil
	}
	if cat, err := c.reg.Catalogues.repo.Get(ctx, c.catalogueOrDefault(catalogueID)); err == nil && cat.Suspended {
		return common.NewErrConflict("You cannot unsuspend a Resource when its Catalogue is suspended")
	}
	if providerID != "" {
		if prov, err := c.reg.Providers.repo.Get(ctx, providerID); err == nil && prov.Suspended {
			return common.NewErrConflict("You cannot unsuspend a Resource when its Provider is suspended")
		}
	}
	return nil
}

// ownerFacets names, per kind, the facet holding the id of the entry owning it.
var ownerFacets = []struct {
	kind       string
	facet      string
	isProvider bool
}{
	{model.TypeService, "resource_organisation", true},
	{model.TypeTrainingResource, "resource_organisation", true},
	{model.TypeDeployableService, "resource_organisation", true},
	{model.TypeInteroperabilityRecord, "provider_id", true},
	{model.TypeDatasource, "service_id", false},
	{model.TypeHelpdesk, "service_id", false},
	{model.TypeMonitoring, "service_id", false},
	{model.TypeResourceInteroperabilityRecord, "resource_id", false},
	{model.TypeConfigurationTemplateInstance, "resource_id", false},
	{model.TypeConfigurationTemplate, "interoperability_record_id", false},
}

// ProviderUsers implements security.Directory.
func (r *Registry) ProviderUsers(ctx context.Context, providerID string) ([]model.User, error) {
	b, err := r.Providers.repo.Get(ctx, providerID)
	if err != nil {
		return nil, err
	}
	return b.Payload.Users, nil
}

// CatalogueUsers implements security.Directory.
func (r *Registry) CatalogueUsers(ctx context.Context, catalogueID string) ([]model.User, error) {
	b, err := r.Catalogues.repo.Get(ctx, catalogueID)
	if err != nil {
		return nil, err
	}
	return b.Payload.Users, nil
}

// AdapterAdmins implements security.Directory.
func (r *Registry) AdapterAdmins(ctx context.Context, adapterID string) ([]model.User, error) {
	b, err := r.Adapters.repo.Get(ctx, adapterID)
	if err != nil {
		return nil, err
	}
	return b.Payload.Admins, nil
}

// ResourceProviders implements security.Directory. Extensions resolve through
// the resource they extend.
func (r *Registry) ResourceProviders(ctx context.Context, resourceID string) ([]string, error) {
	id := resourceID
	for depth := 0; depth < 3; depth++ {
		owner, isProvider, err := r.ownerOf(ctx, id)
		if err != nil {
			return nil, err
		}
		if isProvider {
			return []string{owner}, nil
		}
		id = owner
	}
	return nil, common.NewErrNotFound(resourceID)
}

func (r *Registry) ownerOf(ctx context.Context, id string) (string, bool, error) {
	for _, of := range ownerFacets {
		rec, err := r.store.Get(ctx, of.kind, id)
		if err != nil {
			if common.IsErrNotFound(err) {
				continue
			}
			return "", false, err
		}
		if values := rec.Facets[of.facet]; len(values) > 0 {
			return values[0], of.isProvider, nil
		}
	}
	return "", false, common.NewErrNotFound(id)
}

// findRecord looks id up across kinds and returns the first match.
func (c *core) findRecord(ctx context.Context, id string, kinds ...string) (*persistence.Record, error) {
	for _, kind := range kinds {
		rec, err := c.store.Get(ctx, kind, id)
		if err == nil {
			return rec, nil
		}
		if !common.IsErrNotFound(err) {
			return nil, err
		}
	}
	return nil, common.NewErrNotFound(fmt.Sprintf("Resource with id '%s' does not exist", id))
}

var systemPrincipal = &security.Principal{
	Name:          "System",
	Roles:         []string{security.RoleAdmin},
	Authenticated: true,
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func logFailure(ctx context.Context, op, id string, err error) {
	log.L(ctx).WithField("component", componentName).Warnf("%s failed for [%s]: %v", op, id, err)
}
