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
	"fmt"
	"regexp"
	"strings"

	"github.com/aidarkhanov/nanoid"

	"github.com/madgik/resource-catalogue-go/internal/common"
)

const (
	idAlphabet   = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	idSuffixSize = 6
)

var (
	externalIDPattern  = regexp.MustCompile(`^[^/]+/[^/]+$`)
	catalogueIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)
	nonAlphanumeric    = regexp.MustCompile(`[^a-z0-9]+`)
)

// IDGenerator creates {prefix}/{suffix} identifiers.
type IDGenerator struct {
	prefix func(resourceType string) string
}

func NewIDGenerator(prefix func(resourceType string) string) *IDGenerator {
	return &IDGenerator{prefix: prefix}
}

// Generate returns a fresh id for resourceType.
func (g *IDGenerator) Generate(resourceType string) (string, error) {
	suffix, err := nanoid.Generate(idAlphabet, idSuffixSize)
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return g.prefix(resourceType) + "/" + suffix, nil
}

// validateExternalID checks an id supplied by an external catalogue.
func validateExternalID(id string) error {
	if id == "" {
		return common.NewErrBadRequest("You need to provide an id when registering in an external Catalogue")
	}
	if !externalIDPattern.MatchString(id) {
		return common.NewErrBadRequest(fmt.Sprintf("Id '%s' must consist of a prefix and a suffix separated by '/'", id))
	}
	return nil
}

// catalogueIDFrom derives a catalogue id from its abbreviation.
func catalogueIDFrom(abbreviation string) string {
	id := nonAlphanumeric.ReplaceAllString(strings.ToLower(abbreviation), "-")
	return strings.Trim(id, "-")
}

func validateCatalogueID(id string) error {
	if !catalogueIDPattern.MatchString(id) {
		return common.NewErrBadRequest(fmt.Sprintf("Catalogue id '%s' may only contain lower case letters, digits, '-' and '_'", id))
	}
	return nil
}
