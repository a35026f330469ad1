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

// Resource type names as stored in the resources table.
const (
	TypeProvider                       = "provider"
	TypeService                        = "service"
	TypeTrainingResource               = "training_resource"
	TypeDeployableService              = "deployable_service"
	TypeInteroperabilityRecord         = "interoperability_record"
	TypeAdapter                        = "adapter"
	TypeCatalogue                      = "catalogue"
	TypeDatasource                     = "datasource"
	TypeHelpdesk                       = "helpdesk"
	TypeMonitoring                     = "monitoring"
	TypeResourceInteroperabilityRecord = "resource_interoperability_record"
	TypeConfigurationTemplate          = "configuration_template"
	TypeConfigurationTemplateInstance  = "configuration_template_instance"
	TypeEvent                          = "event"
	TypeVocabulary                     = "vocabulary"
)

// Status vocabulary ids.
const (
	StatusPendingProvider  = "pending provider"
	StatusApprovedProvider = "approved provider"
	StatusRejectedProvider = "rejected provider"

	StatusPendingResource  = "pending resource"
	StatusApprovedResource = "approved resource"
	StatusRejectedResource = "rejected resource"

	StatusPendingInteroperabilityRecord  = "pending interoperability record"
	StatusApprovedInteroperabilityRecord = "approved interoperability record"
	StatusRejectedInteroperabilityRecord = "rejected interoperability record"

	StatusPendingCatalogue  = "pending catalogue"
	StatusApprovedCatalogue = "approved catalogue"
	StatusRejectedCatalogue = "rejected catalogue"

	StatusPendingAdapter  = "pending adapter"
	StatusApprovedAdapter = "approved adapter"
	StatusRejectedAdapter = "rejected adapter"

	StatusPendingDatasource  = "pending datasource"
	StatusApprovedDatasource = "approved datasource"
	StatusRejectedDatasource = "rejected datasource"

	TemplateNoStatus = "no template status"
	TemplatePending  = "pending template"
	TemplateApproved = "approved template"
	TemplateRejected = "rejected template"
)

// Audit states derived from the logging history.
const (
	AuditNotAudited           = "Not Audited"
	AuditValid                = "Valid"
	AuditInvalidAndUpdated    = "Invalid and updated"
	AuditInvalidAndNotUpdated = "Invalid and not updated"
)

// StatusSet groups the three onboarding states of a resource family together
// with the vocabulary type that owns them.
type StatusSet struct {
	VocabularyType string
	Pending        string
	Approved       string
	Rejected       string
}

// Contains reports whether status belongs to the set.
func (s StatusSet) Contains(status string) bool {
	return status == s.Pending || status == s.Approved || status == s.Rejected
}

var (
	ProviderStatuses = StatusSet{
		VocabularyType: "Provider state",
		Pending:        StatusPendingProvider,
		Approved:       StatusApprovedProvider,
		Rejected:       StatusRejectedProvider,
	}
	ResourceStatuses = StatusSet{
		VocabularyType: "Resource state",
		Pending:        StatusPendingResource,
		Approved:       StatusApprovedResource,
		Rejected:       StatusRejectedResource,
	}
	InteroperabilityRecordStatuses = StatusSet{
		VocabularyType: "Interoperability Record state",
		Pending:        StatusPendingInteroperabilityRecord,
		Approved:       StatusApprovedInteroperabilityRecord,
		Rejected:       StatusRejectedInteroperabilityRecord,
	}
	CatalogueStatuses = StatusSet{
		VocabularyType: "Catalogue state",
		Pending:        StatusPendingCatalogue,
		Approved:       StatusApprovedCatalogue,
		Rejected:       StatusRejectedCatalogue,
	}
	AdapterStatuses = StatusSet{
		VocabularyType: "Adapter state",
		Pending:        StatusPendingAdapter,
		Approved:       StatusApprovedAdapter,
		Rejected:       StatusRejectedAdapter,
	}
	DatasourceStatuses = StatusSet{
		VocabularyType: "Datasource state",
		Pending:        StatusPendingDatasource,
		Approved:       StatusApprovedDatasource,
		Rejected:       StatusRejectedDatasource,
	}
)

// StatusesFor returns the status family used by a resource type.
func StatusesFor(resourceType string) (StatusSet, bool) {
	switch resourceType {
	case TypeProvider:
		return ProviderStatuses, true
	case TypeService, TypeTrainingResource, TypeDeployableService:
		return ResourceStatuses, true
	case TypeInteroperabilityRecord:
		return InteroperabilityRecordStatuses, true
	case TypeCatalogue:
		return CatalogueStatuses, true
	case TypeAdapter:
		return AdapterStatuses, true
	case TypeDatasource:
		return DatasourceStatuses, true
	}
	return StatusSet{}, false
}
