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

// AlternativeIdentifierEOSCPID marks an alternative identifier holding a handle PID.
const AlternativeIdentifierEOSCPID = "EOSC PID"

// User is a person allowed to administer a resource.
type User struct {
	ID      string `json:"id,omitempty"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Surname string `json:"surname,omitempty"`
}

// MainContact is the private contact of a resource.
type MainContact struct {
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Position     string `json:"position,omitempty"`
	Organisation string `json:"organisation,omitempty"`
}

// PublicContact is a contact shown to everyone.
type PublicContact struct {
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Position     string `json:"position,omitempty"`
	Organisation string `json:"organisation,omitempty"`
}

type AlternativeIdentifier struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type MultimediaPair struct {
	MultimediaURL  string `json:"multimediaURL"`
	MultimediaName string `json:"multimediaName,omitempty"`
}

type ScientificDomain struct {
	ScientificDomain    string `json:"scientificDomain"`
	ScientificSubdomain string `json:"scientificSubdomain"`
}

type Category struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
}

type Location struct {
	StreetNameAndNumber string `json:"streetNameAndNumber,omitempty"`
	PostalCode          string `json:"postalCode,omitempty"`
	City                string `json:"city,omitempty"`
	Region              string `json:"region,omitempty"`
	Country             string `json:"country,omitempty"`
}

type Creator struct {
	CreatorName        string `json:"creatorName"`
	CreatorAffiliation string `json:"creatorAffiliation,omitempty"`
	CreatorNameType    string `json:"creatorNameType,omitempty"`
}

// LinkedResource points an adapter at a service or guideline.
type LinkedResource struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type MonitoringGroup struct {
	ServiceType string `json:"serviceType"`
	Endpoint    string `json:"endpoint"`
}

type PersistentIdentitySystem struct {
	PersistentIdentityEntityType        string   `json:"persistentIdentityEntityType"`
	PersistentIdentityEntityTypeSchemes []string `json:"persistentIdentityEntityTypeSchemes,omitempty"`
}

// Related is implemented by payloads referencing other catalogue resources by id.
type Related interface {
	RewriteRelations(fn func(id string) string)
}

// HasAlternativeIdentifier reports whether ids contains an identifier of the given type.
func HasAlternativeIdentifier(ids []AlternativeIdentifier, idType string) bool {
	for _, id := range ids {
		if strings.EqualFold(id.Type, idType) {
			return true
		}
	}
	return false
}

// UserEmails returns the lower-cased emails of users.
func UserEmails(users []User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		if u.Email != "" {
			out = append(out, strings.ToLower(u.Email))
		}
	}
	return out
}

// ContainsUser reports whether users contains email, ignoring case.
func ContainsUser(users []User, email string) bool {
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

type facets map[string][]string

func (f facets) add(key string, values ...string) facets {
	for _, v := range values {
		if v != "" {
			f[key] = append(f[key], v)
		}
	}
	return f
}

func searchText(parts ...string) string {
	return strings.ToLower(strings.Join(parts, " "))
}

func domainsFacets(f facets, domains []ScientificDomain) {
	for _, d := range domains {
		f.add("scientific_domains", d.ScientificDomain)
		f.add("scientific_subdomains", d.ScientificSubdomain)
	}
}

func rewriteAll(ids []string, fn func(string) string) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = fn(id)
	}
	return out
}

func securePayload(s Sanitizer, p Payload) {
	if s.CanSeePrivate(p.ResourceType(), p.GetID()) {
		return
	}
	if pf, ok := p.(PrivateFields); ok {
		pf.StripPrivate()
	}
}
