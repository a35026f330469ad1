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

// VocabularyTypeCountry is the vocabulary type holding ISO country codes.
const VocabularyTypeCountry = "Country"

// Vocabulary is a controlled term used by payload fields.
type Vocabulary struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	ParentID    string            `json:"parentId,omitempty"`
	Type        string            `json:"type"`
	Extras      map[string]string `json:"extras,omitempty"`
}

func (v *Vocabulary) ResourceType() string { return TypeVocabulary }
func (v *Vocabulary) GetID() string { return v.ID }
func (v *Vocabulary) SetID(id string) { v.ID = id }
func (v *Vocabulary) GetCatalogueID() string { return "" }
func (v *Vocabulary) SetCatalogueID(string) {}
func (v *Vocabulary) DisplayName() string { return v.Name }
func (v *Vocabulary) SearchText() string { return searchText(v.Name, v.Description) }

func (v *Vocabulary) Facets() map[string][]string {
	f := facets{}
	f.add("type", v.Type)
	f.add("parent_id", v.ParentID)
	return f
}

// VocabularyTree is a node of the vocabulary hierarchy.
type VocabularyTree struct {
	Vocabulary *Vocabulary       `json:"vocabulary,omitempty"`
	Children   []*VocabularyTree `json:"children,omitempty"`
}
