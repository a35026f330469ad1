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

package api

import "github.com/madgik/resource-catalogue-go/internal/common/model"

// kindInfo describes a resource kind to the shared lifecycle.
type kindInfo struct {
	Type     string
	Label    string
	Statuses model.StatusSet
	Public   bool
}

// HasStatuses reports whether the kind goes through onboarding states.
func (k kindInfo) HasStatuses() bool {
	return k.Statuses.Approved != ""
}

var (
	kindProvider   = kindInfo{Type: model.TypeProvider, Label: "Provider", Statuses: model.ProviderStatuses, Public: true}
	kindService    = kindInfo{Type: model.TypeService, Label: "Service", Statuses: model.ResourceStatuses, Public: true}
	kindTraining   = kindInfo{Type: model.TypeTrainingResource, Label: "Training Resource", Statuses: model.ResourceStatuses, Public: true}
	kindDeployable = kindInfo{Type: model.TypeDeployableService, Label: "Deployable Service", Statuses: model.ResourceStatuses, Public: true}
	kindGuideline  = kindInfo{Type: model.TypeInteroperabilityRecord, Label: "Interoperability Record", Statuses: model.InteroperabilityRecordStatuses, Public: true}
	kindAdapter    = kindInfo{Type: model.TypeAdapter, Label: "Adapter", Statuses: model.AdapterStatuses, Public: true}
	kindCatalogue  = kindInfo{Type: model.TypeCatalogue, Label: "Catalogue", Statuses: model.CatalogueStatuses}

	kindDatasource                     = kindInfo{Type: model.TypeDatasource, Label: "Datasource", Statuses: model.DatasourceStatuses, Public: true}
	kindHelpdesk                       = kindInfo{Type: model.TypeHelpdesk, Label: "Helpdesk", Public: true}
	kindMonitoring                     = kindInfo{Type: model.TypeMonitoring, Label: "Monitoring", Public: true}
	kindResourceInteroperabilityRecord = kindInfo{Type: model.TypeResourceInteroperabilityRecord, Label: "Resource Interoperability Record", Public: true}
	kindConfigurationTemplate          = kindInfo{Type: model.TypeConfigurationTemplate, Label: "Configuration Template", Public: true}
	kindConfigurationTemplateInstance  = kindInfo{Type: model.TypeConfigurationTemplateInstance, Label: "Configuration Template Instance", Public: true}

	kindEvent      = kindInfo{Type: model.TypeEvent, Label: "Event"}
	kindVocabulary = kindInfo{Type: model.TypeVocabulary, Label: "Vocabulary"}
)

// serviceKinds may own datasources, helpdesks and monitorings.
var serviceKinds = []string{model.TypeService, model.TypeTrainingResource}

// resourceKinds may own interoperability links and configuration instances.
var resourceKinds = []string{model.TypeService, model.TypeTrainingResource, model.TypeDeployableService}
