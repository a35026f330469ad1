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

import "strconv"

// Event kinds recorded against services.
const (
	EventVisit        = "VISIT"
	EventAddToProject = "ADD_TO_PROJECT"
	EventOrder        = "ORDER"
)

// Event is a user interaction with a service.
type Event struct {
	ID        string  `json:"id"`
	Timestamp int64   `json:"timestamp"`
	User      string  `json:"user,omitempty"`
	Service   string  `json:"service"`
	Type      string  `json:"type"`
	Value     float64 `json:"value"`
}

func (e *Event) ResourceType() string { return TypeEvent }
func (e *Event) GetID() string { return e.ID }
func (e *Event) SetID(id string) { e.ID = id }
func (e *Event) GetCatalogueID() string { return "" }
func (e *Event) SetCatalogueID(string) {}
func (e *Event) DisplayName() string { return strconv.FormatInt(e.Timestamp, 10) }
func (e *Event) SearchText() string { return searchText(e.Service, e.Type) }

func (e *Event) Facets() map[string][]string {
	f := facets{}
	f.add("type", e.Type)
	f.add("service", e.Service)
	f.add("user", e.User)
	return f
}

// ValidEventType reports whether t is a known event kind.
func ValidEventType(t string) bool {
	return t == EventVisit || t == EventAddToProject || t == EventOrder
}
