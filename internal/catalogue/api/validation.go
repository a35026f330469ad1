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

import (
	"embed"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/xeipuuv/gojsonschema"

	"github.com/madgik/resource-catalogue-go/internal/common"
	"github.com/madgik/resource-catalogue-go/internal/common/model"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Validator checks payloads against the JSON schema of their kind and
// strips markup from free text.
type Validator struct {
	schemas map[string]*gojsonschema.Schema
	policy  *bluemonday.Policy
}

// NewValidator compiles the embedded schemas.
func NewValidator() (*Validator, error) {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, err
	}
	v := &Validator{schemas: map[string]*gojsonschema.Schema{}, policy: bluemonday.UGCPolicy()}
	for _, e := range entries {
		raw, err := schemaFS.ReadFile("schemas/" + e.Name())
		if err != nil {
			return nil, err
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", e.Name(), err)
		}
		v.schemas[strings.TrimSuffix(e.Name(), ".json")] = schema
	}
	return v, nil
}

// Validate sanitises the description of p and checks it against its schema.
func (v *Validator) Validate(p model.Payload) error {
	v.sanitize(p)
	schema, ok := v.schemas[p.ResourceType()]
	if !ok {
		return nil
	}
	doc, err := json.Marshal(p)
	if err != nil {
		return common.NewErrBadRequest(fmt.Sprintf("cannot encode %s: %v", p.ResourceType(), err))
	}
	return check(schema, doc)
}

// ValidateAgainst checks doc against a schema supplied at runtime.
func (v *Validator) ValidateAgainst(schema, doc []byte) error {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schema))
	if err != nil {
		return common.NewErrBadRequest(fmt.Sprintf("invalid form model: %v", err))
	}
	if len(doc) == 0 {
		doc = []byte("null")
	}
	return check(compiled, doc)
}

func check(schema *gojsonschema.Schema, doc []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return common.NewErrBadRequest(fmt.Sprintf("malformed payload: %v", err))
	}
	if result.Valid() {
		return nil
	}
	errs := make([]string, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		errs = append(errs, re.String())
	}
	return &common.ValidationError{Errors: errs}
}

func (v *Validator) sanitize(p model.Payload) {
	clean := func(s *string) {
		if *s != "" {
			*s = strings.TrimSpace(v.policy.Sanitize(*s))
		}
	}
	switch t := p.(type) {
	case *model.Provider:
		clean(&t.Description)
	case *model.Catalogue:
		clean(&t.Description)
	case *model.Service:
		clean(&t.Description)
	case *model.TrainingResource:
		clean(&t.Description)
	case *model.DeployableService:
		clean(&t.Description)
	case *model.InteroperabilityRecord:
		clean(&t.Description)
	case *model.Adapter:
		clean(&t.Description)
	case *model.ConfigurationTemplate:
		clean(&t.Description)
	case *model.Vocabulary:
		clean(&t.Description)
	}
}
