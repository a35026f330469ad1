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

// Provider is an organisation offering resources through a catalogue.
type Provider struct {
	ID                     string                  `json:"id"`
	Abbreviation           string                  `json:"abbreviation"`
	Name                   string                  `json:"name"`
	Website                string                  `json:"website,omitempty"`
	LegalEntity            bool                    `json:"legalEntity"`
	LegalStatus            string                  `json:"legalStatus,omitempty"`
	HostingLegalEntity     string                  `json:"hostingLegalEntity,omitempty"`
	AlternativeIdentifiers []AlternativeIdentifier `json:"alternativeIdentifiers,omitempty"`
	Description            string                  `json:"description,omitempty"`
	Logo                   string                  `json:"logo,omitempty"`
	Multimedia             []MultimediaPair        `json:"multimedia,omitempty"`
	ScientificDomains      []ScientificDomain      `json:"scientificDomains,omitempty"`
	Tags                   []string                `json:"tags,omitempty"`
	StructureTypes         []string                `json:"structureTypes,omitempty"`
	Location               *Location               `json:"location,omitempty"`
	MainContact            *MainContact            `json:"mainContact,omitempty"`
	PublicContacts         []PublicContact         `json:"publicContacts,omitempty"`
	LifeCycleStatus        string                  `json:"lifeCycleStatus,omitempty"`
	Certifications         []string                `json:"certifications,omitempty"`
	ParticipatingCountries []string                `json:"participatingCountries,omitempty"`
	Affiliations           []string                `json:"affiliations,omitempty"`
	Networks               []string                `json:"networks,omitempty"`
	CatalogueID            string                  `json:"catalogueId"`
	Users                  []User                  `json:"users,omitempty"`
}

func (p *Provider) ResourceType() string { return TypeProvider }
func (p *Provider) GetID() string { return p.ID }
func (p *Provider) SetID(id string) { p.ID = id }
func (p *Provider) GetCatalogueID() string { return p.CatalogueID }
func (p *Provider) SetCatalogueID(id string) { p.CatalogueID = id }
func (p *Provider) DisplayName() string { return p.Name }
func (p *Provider) StripPrivate() {
	p.MainContact = nil
	p.Users = nil
}
func (p *Provider) Secure(s Sanitizer) { securePayload(s, p) }
func (p *Provider) HasUser(email string) bool { return ContainsUser(p.Users, email) }
func (p *Provider) SearchText() string {
	return searchText(p.Name, p.Abbreviation, p.Description, strings.Join(p.Tags, " "))
}

func (p *Provider) Facets() map[string][]string {
	f := facets{}
	f.add("abbreviation", p.Abbreviation)
	f.add("users", UserEmails(p.Users)...)
	f.add("tags", p.Tags...)
	f.add("structure_types", p.StructureTypes...)
	f.add("life_cycle_status", p.LifeCycleStatus)
	f.add("legal_status", p.LegalStatus)
	f.add("hosting_legal_entity", p.HostingLegalEntity)
	f.add("networks", p.Networks...)
	f.add("participating_countries", p.ParticipatingCountries...)
	if p.Location != nil {
		f.add("country", p.Location.Country)
	}
	domainsFacets(f, p.ScientificDomains)
	return f
}

// AddUser appends u unless a user with the same email is present.
func (p *Provider) AddUser(u User) {
	if u.Email == "" || p.HasUser(u.Email) {
		return
	}
	p.Users = append(p.Users, u)
}

// ProviderBundle is the stored form of a provider.
type ProviderBundle = Bundle[*Provider]
