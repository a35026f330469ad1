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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madgik/resource-catalogue-go/internal/common"
	"github.com/madgik/resource-catalogue-go/internal/common/model"
)

func TestValidatorReportsSchemaViolations(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	err = v.Validate(&model.Provider{Abbreviation: "x", Website: "https://example.org"})
	verr, ok := common.IsValidationError(err)
	require.True(t, ok, "got %v", err)
	assert.NotEmpty(t, verr.Errors)

	assert.NoError(t, v.Validate(&model.Provider{Name: "Athena", Abbreviation: "athena", Website: "https://example.org"}))
}

func TestValidatorSanitizesDescriptions(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	p := &model.Provider{
		Name:         "Athena",
		Abbreviation: "athena",
		Website:      "https://example.org",
		Description:  `<p>Research <b>centre</b></p><script>alert(1)</script>`,
	}
	require.NoError(t, v.Validate(p))
	assert.Equal(t, "<p>Research <b>centre</b></p>", p.Description)
}

func TestValidateAgainstRuntimeSchema(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)
	schema := []byte(`{"type":"object","required":["url"]}`)

	assert.NoError(t, v.ValidateAgainst(schema, []byte(`{"url":"x"}`)))

	_, ok := common.IsValidationError(v.ValidateAgainst(schema, nil))
	assert.True(t, ok, "an empty document is null")

	assert.True(t, common.IsErrBadRequest(v.ValidateAgainst([]byte(`{"type":`), []byte(`{}`))))
}
