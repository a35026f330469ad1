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

// Metadata records who registered and last modified a bundle.
type Metadata struct {
	RegisteredBy string   `json:"registeredBy,omitempty"`
	RegisteredAt string   `json:"registeredAt,omitempty"`
	ModifiedBy   string   `json:"modifiedBy,omitempty"`
	ModifiedAt   string   `json:"modifiedAt,omitempty"`
	Terms        []string `json:"terms,omitempty"`
	Published    bool     `json:"published"`
}

// NewMetadata creates registration metadata. The registering user accepts the terms.
func NewMetadata(fullName, email string) *Metadata {
	now := NowMillis()
	m := &Metadata{
		RegisteredBy: fullName,
		RegisteredAt: now,
		ModifiedBy:   fullName,
		ModifiedAt:   now,
	}
	if email != "" {
		m.Terms = []string{email}
	}
	return m
}

// UpdateMetadata returns a copy of existing with the modification fields set.
// A nil existing value yields fresh registration metadata.
func UpdateMetadata(existing *Metadata, fullName, email string) *Metadata {
	if existing == nil {
		return NewMetadata(fullName, email)
	}
	m := *existing
	m.Terms = append([]string(nil), existing.Terms...)
	m.ModifiedBy = fullName
	m.ModifiedAt = NowMillis()
	if email != "" && !m.HasAcceptedTerms(email) {
		m.Terms = append(m.Terms, email)
	}
	return &m
}

// HasAcceptedTerms reports whether email is listed in the terms.
func (m *Metadata) HasAcceptedTerms(email string) bool {
	if m == nil {
		return false
	}
	for _, t := range m.Terms {
		if strings.EqualFold(t, email) {
			return true
		}
	}
	return false
}
