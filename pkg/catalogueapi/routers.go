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

package catalogueapi

import (
	"github.com/madgik/resource-catalogue-go/internal/catalogue/api"
	"github.com/madgik/resource-catalogue-go/internal/common/model"
)

// NewRouters creates every controller of the catalogue, all sharing h as
// error handler. A nil h keeps the default handler.
func NewRouters(reg *api.Registry, h model.ErrorHandler) []model.Router {
	if h == nil {
		h = model.DefaultErrorHandler
	}
	routers := []model.Router{
		NewProviderAPIController(reg, WithProviderAPIErrorHandler(h)),
		NewServiceAPIController(reg, WithResourceAPIErrorHandler[*model.Service](h)),
		NewTrainingResourceAPIController(reg, WithResourceAPIErrorHandler[*model.TrainingResource](h)),
		NewDeployableServiceAPIController(reg, WithResourceAPIErrorHandler[*model.DeployableService](h)),
		NewInteroperabilityRecordAPIController(reg, WithResourceAPIErrorHandler[*model.InteroperabilityRecord](h)),
		NewCatalogueAPIController(reg, WithCatalogueAPIErrorHandler(h)),
		NewAdapterAPIController(reg, WithAdapterAPIErrorHandler(h)),
		NewDatasourceAPIController(reg, WithExtensionAPIErrorHandler[*model.Datasource](h)),
		NewHelpdeskAPIController(reg, WithExtensionAPIErrorHandler[*model.Helpdesk](h)),
		NewMonitoringAPIController(reg, WithExtensionAPIErrorHandler[*model.Monitoring](h)),
		NewResourceInteroperabilityRecordAPIController(reg, WithExtensionAPIErrorHandler[*model.ResourceInteroperabilityRecord](h)),
		NewConfigurationTemplateAPIController(reg, WithExtensionAPIErrorHandler[*model.ConfigurationTemplate](h)),
		NewConfigurationTemplateInstanceAPIController(reg, WithExtensionAPIErrorHandler[*model.ConfigurationTemplateInstance](h)),
		NewEventAPIController(reg, WithEventAPIErrorHandler(h)),
		NewVocabularyAPIController(reg, WithVocabularyAPIErrorHandler(h)),
		NewPIDAPIController(reg, WithPIDAPIErrorHandler(h)),
	}
	for _, public := range NewPublicRouters(reg) {
		routers = append(routers, public)
	}
	return routers
}
