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

// Service is a resource offered by a provider.
type Service struct {
	ID                     string                  `json:"id"`
	Name                   string                  `json:"name"`
	Abbreviation           string                  `json:"abbreviation,omitempty"`
	ResourceOrganisation   string                  `json:"resourceOrganisation"`
	ResourceProviders      []string                `json:"resourceProviders,omitempty"`
	Webpage                string                  `json:"webpage,omitempty"`
	AlternativeIdentifiers []AlternativeIdentifier `json:"alternativeIdentifiers,omitempty"`
	Description            string                  `json:"description,omitempty"`
	Tagline                string                  `json:"tagline,omitempty"`
	Logo                   string                  `json:"logo,omitempty"`
	ScientificDomains      []ScientificDomain      `json:"scientificDomains,omitempty"`
	Categories             []Category              `json:"categories,omitempty"`
	Tags                   []string                `json:"tags,omitempty"`
	TRL                    string                  `json:"trl,omitempty"`
	Version                string                  `json:"version,omitempty"`
	CatalogueID            string                  `json:"catalogueId"`
	MainContact            *MainContact            `json:"mainContact,omitempty"`
	PublicContacts         []PublicContact         `json:"publicContacts,omitempty"`
	HelpdeskEmail          string                  `json:"helpdeskEmail,omitempty"`
	SecurityContactEmail   string                  `json:"securityContactEmail,omitempty"`
	TermsOfUse             string                  `json:"termsOfUse,omitempty"`
	PrivacyPolicy          string                  `json:"privacyPolicy,omitempty"`
	AccessPolicy           string                  `json:"accessPolicy,omitempty"`
	OrderType              string                  `json:"orderType,omitempty"`
	Order                  string                  `json:"order,omitempty"`
	PaymentModel           string                  `json:"paymentModel,omitempty"`
	Pricing                string                  `json:"pricing,omitempty"`
}

func (s *Service) ResourceType() string { return TypeService }
func (s *Service) GetID() string { return s.ID }
func (s *Service) SetID(id string) { s.ID = id }
func (s *Service) GetCatalogueID() string { return s.CatalogueID }
func (s *Service) SetCatalogueID(id string) { s.CatalogueID = id }
func (s *Service) DisplayName() string { return s.Name }
func (s *Service) OwnerID() string { return s.ResourceOrganisation }
func (s *Service) SetOwnerID(id string) { s.ResourceOrganisation = id }
func (s *Service) Secure(sn Sanitizer) { securePayload(sn, s) }

func (s *Service) StripPrivate() {
	s.MainContact = nil
	s.SecurityContactEmail = ""
}

func (s *Service) SearchText() string {
	return searchText(s.Name, s.Abbreviation, s.Tagline, s.Description, strings.Join(s.Tags, " "))
}

func (s *Service) Facets() map[string][]string {
	f := facets{}
	f.add("resource_organisation", s.ResourceOrganisation)
	f.add("resource_providers", s.ResourceProviders...)
	f.add("tags", s.Tags...)
	f.add("trl", s.TRL)
	f.add("order_type", s.OrderType)
	for _, c := range s.Categories {
		f.add("categories", c.Category)
		f.add("subcategories", c.Subcategory)
	}
	domainsFacets(f, s.ScientificDomains)
	return f
}

func (s *Service) RewriteRelations(fn func(id string) string) {
	s.ResourceOrganisation = fn(s.ResourceOrganisation)
	s.ResourceProviders = rewriteAll(s.ResourceProviders, fn)
}

type ServiceBundle = Bundle[*Service]

// TrainingResource is a learning resource offered by a provider.
type TrainingResource struct {
	ID                       string                  `json:"id"`
	Title                    string                  `json:"title"`
	ResourceOrganisation     string                  `json:"resourceOrganisation"`
	ResourceProviders        []string                `json:"resourceProviders,omitempty"`
	Authors                  []string                `json:"authors,omitempty"`
	URL                      string                  `json:"url"`
	URLType                  string                  `json:"urlType,omitempty"`
	EOSCRelatedServices      []string                `json:"eoscRelatedServices,omitempty"`
	AlternativeIdentifiers   []AlternativeIdentifier `json:"alternativeIdentifiers,omitempty"`
	Description              string                  `json:"description,omitempty"`
	Keywords                 []string                `json:"keywords,omitempty"`
	License                  string                  `json:"license,omitempty"`
	AccessRights             string                  `json:"accessRights,omitempty"`
	VersionDate              string                  `json:"versionDate,omitempty"`
	TargetGroups             []string                `json:"targetGroups,omitempty"`
	LearningResourceTypes    []string                `json:"learningResourceTypes,omitempty"`
	LearningOutcomes         []string                `json:"learningOutcomes,omitempty"`
	ExpertiseLevel           string                  `json:"expertiseLevel,omitempty"`
	ContentResourceTypes     []string                `json:"contentResourceTypes,omitempty"`
	Qualifications           []string                `json:"qualifications,omitempty"`
	Duration                 string                  `json:"duration,omitempty"`
	Languages                []string                `json:"languages,omitempty"`
	GeographicalAvailability []string                `json:"geographicalAvailabilities,omitempty"`
	ScientificDomains        []ScientificDomain      `json:"scientificDomains,omitempty"`
	Contact                  *MainContact            `json:"contact,omitempty"`
	CatalogueID              string                  `json:"catalogueId"`
}

func (t *TrainingResource) ResourceType() string { return TypeTrainingResource }
func (t *TrainingResource) GetID() string { return t.ID }
func (t *TrainingResource) SetID(id string) { t.ID = id }
func (t *TrainingResource) GetCatalogueID() string { return t.CatalogueID }
func (t *TrainingResource) SetCatalogueID(id string) { t.CatalogueID = id }
func (t *TrainingResource) DisplayName() string { return t.Title }
func (t *TrainingResource) OwnerID() string { return t.ResourceOrganisation }
func (t *TrainingResource) SetOwnerID(id string) { t.ResourceOrganisation = id }
func (t *TrainingResource) StripPrivate() { t.Contact = nil }
func (t *TrainingResource) Secure(s Sanitizer) { securePayload(s, t) }

func (t *TrainingResource) SearchText() string {
	return searchText(t.Title, t.Description, strings.Join(t.Keywords, " "), strings.Join(t.Authors, " "))
}

func (t *TrainingResource) Facets() map[string][]string {
	f := facets{}
	f.add("resource_organisation", t.ResourceOrganisation)
	f.add("resource_providers", t.ResourceProviders...)
	f.add("keywords", t.Keywords...)
	f.add("languages", t.Languages...)
	f.add("target_groups", t.TargetGroups...)
	f.add("learning_resource_types", t.LearningResourceTypes...)
	f.add("expertise_level", t.ExpertiseLevel)
	f.add("access_rights", t.AccessRights)
	f.add("eosc_related_services", t.EOSCRelatedServices...)
	domainsFacets(f, t.ScientificDomains)
	return f
}

func (t *TrainingResource) RewriteRelations(fn func(id string) string) {
	t.ResourceOrganisation = fn(t.ResourceOrganisation)
	t.ResourceProviders = rewriteAll(t.ResourceProviders, fn)
	t.EOSCRelatedServices = rewriteAll(t.EOSCRelatedServices, fn)
}

type TrainingResourceBundle = Bundle[*TrainingResource]

// DeployableService is software a provider offers for self-deployment.
type DeployableService struct {
	ID                   string             `json:"id"`
	Name                 string             `json:"name"`
	Acronym              string             `json:"acronym,omitempty"`
	ResourceOrganisation string             `json:"resourceOrganisation"`
	CatalogueID          string             `json:"catalogueId"`
	URL                  string             `json:"url"`
	ScientificDomains    []ScientificDomain `json:"scientificDomains,omitempty"`
	Tags                 []string           `json:"tags,omitempty"`
	Creators             []Creator          `json:"creators,omitempty"`
	Description          string             `json:"description,omitempty"`
	Tagline              string             `json:"tagline,omitempty"`
	Logo                 string             `json:"logo,omitempty"`
	Version              string             `json:"version,omitempty"`
	LastUpdate           string             `json:"lastUpdate,omitempty"`
	SoftwareLicense      string             `json:"softwareLicense,omitempty"`
}

func (d *DeployableService) ResourceType() string { return TypeDeployableService }
func (d *DeployableService) GetID() string { return d.ID }
func (d *DeployableService) SetID(id string) { d.ID = id }
func (d *DeployableService) GetCatalogueID() string { return d.CatalogueID }
func (d *DeployableService) SetCatalogueID(id string) { d.CatalogueID = id }
func (d *DeployableService) DisplayName() string { return d.Name }
func (d *DeployableService) OwnerID() string { return d.ResourceOrganisation }
func (d *DeployableService) SetOwnerID(id string) { d.ResourceOrganisation = id }

func (d *DeployableService) SearchText() string {
	return searchText(d.Name, d.Acronym, d.Tagline, d.Description, strings.Join(d.Tags, " "))
}

func (d *DeployableService) Facets() map[string][]string {
	f := facets{}
	f.add("resource_organisation", d.ResourceOrganisation)
	f.add("tags", d.Tags...)
	f.add("software_license", d.SoftwareLicense)
	domainsFacets(f, d.ScientificDomains)
	return f
}

func (d *DeployableService) RewriteRelations(fn func(id string) string) {
	d.ResourceOrganisation = fn(d.ResourceOrganisation)
}

type DeployableServiceBundle = Bundle[*DeployableService]

// Adapter connects a service or guideline to external tooling.
type Adapter struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	CatalogueID         string          `json:"catalogueId"`
	Description         string          `json:"description,omitempty"`
	LinkedResource      *LinkedResource `json:"linkedResource,omitempty"`
	Tagline             string          `json:"tagline,omitempty"`
	Logo                string          `json:"logo,omitempty"`
	Documentation       string          `json:"documentation,omitempty"`
	Repository          string          `json:"repository,omitempty"`
	Releases            []string        `json:"releases,omitempty"`
	ProgrammingLanguage string          `json:"programmingLanguage,omitempty"`
	License             string          `json:"license,omitempty"`
	Version             string          `json:"version,omitempty"`
	ChangeLog           string          `json:"changeLog,omitempty"`
	LastUpdate          string          `json:"lastUpdate,omitempty"`
	Admins              []User          `json:"admins,omitempty"`
}

func (a *Adapter) ResourceType() string { return TypeAdapter }
func (a *Adapter) GetID() string { return a.ID }
func (a *Adapter) SetID(id string) { a.ID = id }
func (a *Adapter) GetCatalogueID() string { return a.CatalogueID }
func (a *Adapter) SetCatalogueID(id string) { a.CatalogueID = id }
func (a *Adapter) DisplayName() string { return a.Name }
func (a *Adapter) StripPrivate() { a.Admins = nil }
func (a *Adapter) Secure(s Sanitizer) { securePayload(s, a) }
func (a *Adapter) HasAdmin(email string) bool { return ContainsUser(a.Admins, email) }

func (a *Adapter) SearchText() string {
	return searchText(a.Name, a.Tagline, a.Description)
}

func (a *Adapter) Facets() map[string][]string {
	f := facets{}
	f.add("admins", UserEmails(a.Admins)...)
	f.add("programming_language", a.ProgrammingLanguage)
	f.add("license", a.License)
	if a.LinkedResource != nil {
		f.add("linked_resource_type", a.LinkedResource.Type)
		f.add("linked_resource_id", a.LinkedResource.ID)
	}
	return f
}

func (a *Adapter) RewriteRelations(fn func(id string) string) {
	if a.LinkedResource != nil {
		a.LinkedResource.ID = fn(a.LinkedResource.ID)
	}
}

// AddAdmin appends u unless an admin with the same email is present.
func (a *Adapter) AddAdmin(u User) {
	if u.Email == "" || a.HasAdmin(u.Email) {
		return
	}
	a.Admins = append(a.Admins, u)
}

type AdapterBundle = Bundle[*Adapter]
