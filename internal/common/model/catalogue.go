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

// Catalogue is a partition of the registry run by its own team.
type Catalogue struct {
	ID                     string             `json:"id"`
	Abbreviation           string             `json:"abbreviation"`
	Name                   string             `json:"name"`
	Website                string             `json:"website,omitempty"`
	LegalEntity            bool               `json:"legalEntity"`
	LegalStatus            string             `json:"legalStatus,omitempty"`
	HostingLegalEntity     string             `json:"hostingLegalEntity,omitempty"`
	InclusionCriteria      string             `json:"inclusionCriteria,omitempty"`
	ValidationProcess      string             `json:"validationProcess,omitempty"`
	EndOfLife              string             `json:"endOfLife,omitempty"`
	Description            string             `json:"description,omitempty"`
	Scope                  string             `json:"scope,omitempty"`
	Logo                   string             `json:"logo,omitempty"`
	Multimedia             []MultimediaPair   `json:"multimedia,omitempty"`
	ScientificDomains      []ScientificDomain `json:"scientificDomains,omitempty"`
	Tags                   []string           `json:"tags,omitempty"`
	Location               *Location          `json:"location,omitempty"`
	MainContact            *MainContact       `json:"mainContact,omitempty"`
	PublicContacts         []PublicContact    `json:"publicContacts,omitempty"`
	ParticipatingCountries []string           `json:"participatingCountries,omitempty"`
	Affiliations           []string           `json:"affiliations,omitempty"`
	Networks               []string           `json:"networks,omitempty"`
	Users                  []User             `json:"users,omitempty"`
}

func (c *Catalogue) ResourceType() string { return TypeCatalogue }
func (c *Catalogue) GetID() string { return c.ID }
func (c *Catalogue) SetID(id string) { c.ID = id }
func (c *Catalogue) GetCatalogueID() string { return c.ID }
func (c *Catalogue) SetCatalogueID(string) {}
func (c *Catalogue) DisplayName() string { return c.Name }
func (c *Catalogue) StripPrivate() {
	c.MainContact = nil
	c.Users = nil
}
func (c *Catalogue) Secure(s Sanitizer) { securePayload(s, c) }
func (c *Catalogue) HasUser(email string) bool { return ContainsUser(c.Users, email) }
func (c *Catalogue) SearchText() string {
	return searchText(c.Name, c.Abbreviation, c.Description, c.Scope, strings.Join(c.Tags, " "))
}

func (c *Catalogue) Facets() map[string][]string {
	f := facets{}
	f.add("abbreviation", c.Abbreviation)
	f.add("users", UserEmails(c.Users)...)
	f.add("tags", c.Tags...)
	f.add("networks", c.Networks...)
	if c.Location != nil {
		f.add("country", c.Location.Country)
	}
	domainsFacets(f, c.ScientificDomains)
	return f
}

// AddUser appends u unless a user with the same email is present.
func (c *Catalogue) AddUser(u User) {
	if u.Email == "" || c.HasUser(u.Email) {
		return
	}
	c.Users = append(c.Users, u)
}

type CatalogueBundle = Bundle[*Catalogue]
