/*******************************************************************************
* Copyright (C) 2026 the Resource Catalogue Authors
*
* Permission is hereby granted, free of charge, to any person obtaining
* a copy of this software and associated documentation files (the
* "Software"), to deal in the Software without restriction, including
* without limitation the rights to use, copy, modify, merge, publish,
* distribute, sublicense, and/or sell copies of the Software, and to
* permit persons to whom the Software is furnished to do so, subject to
* the following conditions:
*
* The above copyright notice and this permission notice shall be
* included in all copies or substantial portions of the Software.
*
* THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
* EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
* MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND
* NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE
* LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION
* OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION
* WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
*
* SPDX-License-Identifier: MIT
******************************************************************************/

package model

import (
	"encoding/json"
	"strings"
)

type IdentifierInfo struct {
	Identifier     string `json:"identifier"`
	IdentifierType string `json:"identifierType"`
}

type ResourceTypeInfo struct {
	ResourceType        string `json:"resourceType"`
	ResourceTypeGeneral string `json:"resourceTypeGeneral"`
}

type Right struct {
	RightTitle      string `json:"rightTitle"`
	RightURI        string `json:"rightURI"`
	RightIdentifier string `json:"rightIdentifier"`
}

// InteroperabilityRecord is a guideline published by a provider.
type InteroperabilityRecord struct {
	ID                     string                  `json:"id"`
	CatalogueID            string                  `json:"catalogueId"`
	ProviderID             string                  `json:"providerId"`
	IdentifierInfo         *IdentifierInfo         `json:"identifierInfo,omitempty"`
	Creators               []Creator               `json:"creators,omitempty"`
	Title                  string                  `json:"title"`
	PublicationYear        int                     `json:"publicationYear,omitempty"`
	ResourceTypesInfo      []ResourceTypeInfo      `json:"resourceTypesInfo,omitempty"`
	Created                string                  `json:"created,omitempty"`
	Updated                string                  `json:"updated,omitempty"`
	RelatedStandards       []string                `json:"relatedStandards,omitempty"`
	Rights                 []Right                 `json:"rights,omitempty"`
	Description            string                  `json:"description,omitempty"`
	Status                 string                  `json:"status,omitempty"`
	Domain                 string                  `json:"domain,omitempty"`
	EOSCGuidelineType      string                  `json:"eoscGuidelineType,omitempty"`
	EOSCIntegrationOptions []string                `json:"eoscIntegrationOptions,omitempty"`
	AlternativeIdentifiers []AlternativeIdentifier `json:"alternativeIdentifiers,omitempty"`
}

func (i *InteroperabilityRecord) ResourceType() string { return TypeInteroperabilityRecord }
func (i *InteroperabilityRecord) GetID() string { return i.ID }
func (i *InteroperabilityRecord) SetID(id string) { i.ID = id }
func (i *InteroperabilityRecord) GetCatalogueID() string { return i.CatalogueID }
func (i *InteroperabilityRecord) SetCatalogueID(id string) { i.CatalogueID = id }
func (i *InteroperabilityRecord) DisplayName() string { return i.Title }
func (i *InteroperabilityRecord) OwnerID() string { return i.ProviderID }
func (i *InteroperabilityRecord) SetOwnerID(id string) { i.ProviderID = id }

func (i *InteroperabilityRecord) SearchText() string {
	return searchText(i.Title, i.Description, i.Domain)
}

func (i *InteroperabilityRecord) Facets() map[string][]string {
	f := facets{}
	f.add("provider_id", i.ProviderID)
	f.add("domain", i.Domain)
	f.add("eosc_guideline_type", i.EOSCGuidelineType)
	f.add("record_status", i.Status)
	f.add("eosc_integration_options", i.EOSCIntegrationOptions...)
	return f
}

func (i *InteroperabilityRecord) RewriteRelations(fn func(id string) string) {
	i.ProviderID = fn(i.ProviderID)
}

type InteroperabilityRecordBundle = Bundle[*InteroperabilityRecord]

// ResourceInteroperabilityRecord links a resource to the guidelines it complies with.
type ResourceInteroperabilityRecord struct {
	ID                        string   `json:"id"`
	ResourceID                string   `json:"resourceId"`
	CatalogueID               string   `json:"catalogueId"`
	InteroperabilityRecordIDs []string `json:"interoperabilityRecordIds"`
}

func (r *ResourceInteroperabilityRecord) ResourceType() string {
	return TypeResourceInteroperabilityRecord
}
func (r *ResourceInteroperabilityRecord) GetID() string { return r.ID }
func (r *ResourceInteroperabilityRecord) SetID(id string) { r.ID = id }
func (r *ResourceInteroperabilityRecord) GetCatalogueID() string { return r.CatalogueID }
func (r *ResourceInteroperabilityRecord) SetCatalogueID(id string) { r.CatalogueID = id }
func (r *ResourceInteroperabilityRecord) DisplayName() string { return r.ResourceID }
func (r *ResourceInteroperabilityRecord) OwnerID() string { return r.ResourceID }
func (r *ResourceInteroperabilityRecord) SetOwnerID(id string) { r.ResourceID = id }
func (r *ResourceInteroperabilityRecord) SearchText() string {
	return searchText(r.ResourceID, strings.Join(r.InteroperabilityRecordIDs, " "))
}

func (r *ResourceInteroperabilityRecord) Facets() map[string][]string {
	f := facets{}
	f.add("resource_id", r.ResourceID)
	f.add("interoperability_record_ids", r.InteroperabilityRecordIDs...)
	return f
}

func (r *ResourceInteroperabilityRecord) RewriteRelations(fn func(id string) string) {
	r.ResourceID = fn(r.ResourceID)
	r.InteroperabilityRecordIDs = rewriteAll(r.InteroperabilityRecordIDs, fn)
}

type ResourceInteroperabilityRecordBundle = Bundle[*ResourceInteroperabilityRecord]

// ConfigurationTemplate describes the configuration form of a guideline.
type ConfigurationTemplate struct {
	ID                       string          `json:"id"`
	InteroperabilityRecordID string          `json:"interoperabilityRecordId"`
	Name                     string          `json:"name"`
	CatalogueID              string          `json:"catalogueId"`
	Description              string          `json:"description,omitempty"`
	FormModel                json.RawMessage `json:"formModel,omitempty"`
}

func (c *ConfigurationTemplate) ResourceType() string { return TypeConfigurationTemplate }
func (c *ConfigurationTemplate) GetID() string { return c.ID }
func (c *ConfigurationTemplate) SetID(id string) { c.ID = id }
func (c *ConfigurationTemplate) GetCatalogueID() string { return c.CatalogueID }
func (c *ConfigurationTemplate) SetCatalogueID(id string) { c.CatalogueID = id }
func (c *ConfigurationTemplate) DisplayName() string { return c.Name }
func (c *ConfigurationTemplate) OwnerID() string { return c.InteroperabilityRecordID }
func (c *ConfigurationTemplate) SetOwnerID(id string) { c.InteroperabilityRecordID = id }
func (c *ConfigurationTemplate) SearchText() string { return searchText(c.Name, c.Description) }

func (c *ConfigurationTemplate) Facets() map[string][]string {
	return facets{}.add("interoperability_record_id", c.InteroperabilityRecordID)
}

func (c *ConfigurationTemplate) RewriteRelations(fn func(id string) string) {
	c.InteroperabilityRecordID = fn(c.InteroperabilityRecordID)
}

type ConfigurationTemplateBundle = Bundle[*ConfigurationTemplate]

// ConfigurationTemplateInstance holds the configuration of a resource for a template.
type ConfigurationTemplateInstance struct {
	ID                      string          `json:"id"`
	ResourceID              string          `json:"resourceId"`
	ConfigurationTemplateID string          `json:"configurationTemplateId"`
	CatalogueID             string          `json:"catalogueId"`
	Payload                 json.RawMessage `json:"payload,omitempty"`
}

func (c *ConfigurationTemplateInstance) ResourceType() string {
	return TypeConfigurationTemplateInstance
}
func (c *ConfigurationTemplateInstance) GetID() string { return c.ID }
func (c *ConfigurationTemplateInstance) SetID(id string) { c.ID = id }
func (c *ConfigurationTemplateInstance) GetCatalogueID() string { return c.CatalogueID }
func (c *ConfigurationTemplateInstance) SetCatalogueID(id string) { c.CatalogueID = id }
func (c *ConfigurationTemplateInstance) DisplayName() string { return c.ID }
func (c *ConfigurationTemplateInstance) OwnerID() string { return c.ResourceID }
func (c *ConfigurationTemplateInstance) SetOwnerID(id string) { c.ResourceID = id }
func (c *ConfigurationTemplateInstance) SearchText() string {
	return searchText(c.ResourceID, c.ConfigurationTemplateID)
}

func (c *ConfigurationTemplateInstance) Facets() map[string][]string {
	f := facets{}
	f.add("resource_id", c.ResourceID)
	f.add("configuration_template_id", c.ConfigurationTemplateID)
	return f
}

func (c *ConfigurationTemplateInstance) RewriteRelations(fn func(id string) string) {
	c.ResourceID = fn(c.ResourceID)
	c.ConfigurationTemplateID = fn(c.ConfigurationTemplateID)
}

type ConfigurationTemplateInstanceBundle = Bundle[*ConfigurationTemplateInstance]
