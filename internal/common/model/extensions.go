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

import "strings"

// Datasource extends a service with repository details.
type Datasource struct {
	ID                        string                     `json:"id"`
	ServiceID                 string                     `json:"serviceId"`
	CatalogueID               string                     `json:"catalogueId"`
	SubmissionPolicyURL       string                     `json:"submissionPolicyURL,omitempty"`
	PreservationPolicyURL     string                     `json:"preservationPolicyURL,omitempty"`
	VersionControl            *bool                      `json:"versionControl,omitempty"`
	PersistentIdentitySystems []PersistentIdentitySystem `json:"persistentIdentitySystems,omitempty"`
	Jurisdiction              string                     `json:"jurisdiction"`
	DatasourceClassification  string                     `json:"datasourceClassification"`
	ResearchEntityTypes       []string                   `json:"researchEntityTypes"`
	Thematic                  *bool                      `json:"thematic,omitempty"`
	Harvestable               *bool                      `json:"harvestable,omitempty"`
}

func (d *Datasource) ResourceType() string { return TypeDatasource }
func (d *Datasource) GetID() string { return d.ID }
func (d *Datasource) SetID(id string) { d.ID = id }
func (d *Datasource) GetCatalogueID() string { return d.CatalogueID }
func (d *Datasource) SetCatalogueID(id string) { d.CatalogueID = id }
func (d *Datasource) DisplayName() string { return d.ServiceID }
func (d *Datasource) OwnerID() string { return d.ServiceID }
func (d *Datasource) SetOwnerID(id string) { d.ServiceID = id }
func (d *Datasource) SearchText() string {
	return searchText(d.ServiceID, d.Jurisdiction, d.DatasourceClassification)
}

func (d *Datasource) Facets() map[string][]string {
	f := facets{}
	f.add("service_id", d.ServiceID)
	f.add("jurisdiction", d.Jurisdiction)
	f.add("datasource_classification", d.DatasourceClassification)
	f.add("research_entity_types", d.ResearchEntityTypes...)
	return f
}

func (d *Datasource) RewriteRelations(fn func(id string) string) {
	d.ServiceID = fn(d.ServiceID)
}

type DatasourceBundle = Bundle[*Datasource]

// Helpdesk describes the support channel of a service.
type Helpdesk struct {
	ID                 string   `json:"id"`
	ServiceID          string   `json:"serviceId"`
	CatalogueID        string   `json:"catalogueId"`
	Services           []string `json:"services,omitempty"`
	HelpdeskType       string   `json:"helpdeskType"`
	SupportGroups      []string `json:"supportGroups,omitempty"`
	Organisation       string   `json:"organisation,omitempty"`
	Emails             []string `json:"emails,omitempty"`
	Agents             []string `json:"agents,omitempty"`
	Signatures         []string `json:"signatures,omitempty"`
	TicketPreservation *bool    `json:"ticketPreservation,omitempty"`
	Webform            *bool    `json:"webform,omitempty"`
}

func (h *Helpdesk) ResourceType() string { return TypeHelpdesk }
func (h *Helpdesk) GetID() string { return h.ID }
func (h *Helpdesk) SetID(id string) { h.ID = id }
func (h *Helpdesk) GetCatalogueID() string { return h.CatalogueID }
func (h *Helpdesk) SetCatalogueID(id string) { h.CatalogueID = id }
func (h *Helpdesk) DisplayName() string { return h.ServiceID }
func (h *Helpdesk) OwnerID() string { return h.ServiceID }
func (h *Helpdesk) SetOwnerID(id string) { h.ServiceID = id }
func (h *Helpdesk) SearchText() string {
	return searchText(h.ServiceID, h.Organisation, strings.Join(h.SupportGroups, " "))
}

func (h *Helpdesk) Facets() map[string][]string {
	f := facets{}
	f.add("service_id", h.ServiceID)
	f.add("helpdesk_type", h.HelpdeskType)
	return f
}

func (h *Helpdesk) RewriteRelations(fn func(id string) string) {
	h.ServiceID = fn(h.ServiceID)
	h.Services = rewriteAll(h.Services, fn)
}

type HelpdeskBundle = Bundle[*Helpdesk]

// Monitoring lists the checks watching a service's endpoints.
type Monitoring struct {
	ID               string            `json:"id"`
	ServiceID        string            `json:"serviceId"`
	CatalogueID      string            `json:"catalogueId"`
	MonitoredBy      string            `json:"monitoredBy,omitempty"`
	MonitoringGroups []MonitoringGroup `json:"monitoringGroups"`
}

func (m *Monitoring) ResourceType() string { return TypeMonitoring }
func (m *Monitoring) GetID() string { return m.ID }
func (m *Monitoring) SetID(id string) { m.ID = id }
func (m *Monitoring) GetCatalogueID() string { return m.CatalogueID }
func (m *Monitoring) SetCatalogueID(id string) { m.CatalogueID = id }
func (m *Monitoring) DisplayName() string { return m.ServiceID }
func (m *Monitoring) OwnerID() string { return m.ServiceID }
func (m *Monitoring) SetOwnerID(id string) { m.ServiceID = id }
func (m *Monitoring) SearchText() string { return searchText(m.ServiceID, m.MonitoredBy) }

func (m *Monitoring) Facets() map[string][]string {
	f := facets{}
	f.add("service_id", m.ServiceID)
	f.add("monitored_by", m.MonitoredBy)
	for _, g := range m.MonitoringGroups {
		f.add("service_types", g.ServiceType)
	}
	return f
}

func (m *Monitoring) RewriteRelations(fn func(id string) string) {
	m.ServiceID = fn(m.ServiceID)
}

type MonitoringBundle = Bundle[*Monitoring]
