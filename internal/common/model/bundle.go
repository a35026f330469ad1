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

import "reflect"

// Payload is implemented by every domain object carried in a Bundle.
// Implementations use pointer receivers.
type Payload interface {
	ResourceType() string
	GetID() string
	SetID(id string)
	GetCatalogueID() string
	SetCatalogueID(id string)
	DisplayName() string
	// Facets returns the indexed, filterable values of the payload.
	Facets() map[string][]string
	// SearchText returns the text matched by keyword queries.
	SearchText() string
}

// Owned is implemented by payloads that hang off a parent resource.
type Owned interface {
	OwnerID() string
	SetOwnerID(id string)
}

// PrivateFields is implemented by payloads carrying contact data that only
// administrators of the resource may see.
type PrivateFields interface {
	StripPrivate()
}

// Sanitizer decides what a caller may see of a response body.
type Sanitizer interface {
	CanSeePrivate(resourceType, id string) bool
	AnonymizeLoggingInfo(li *LoggingInfo)
}

// Securable is implemented by response bodies that hide private data.
type Securable interface {
	Secure(s Sanitizer)
}

// Identifiers keeps the original id of a public copy and its PID.
type Identifiers struct {
	OriginalID string `json:"originalId,omitempty"`
	PID        string `json:"pid,omitempty"`
}

// Bundle wraps a payload with its catalogue state.
type Bundle[P Payload] struct {
	ID                   string        `json:"id"`
	Payload              P             `json:"payload"`
	Metadata             *Metadata     `json:"metadata,omitempty"`
	Active               bool          `json:"active"`
	Suspended            bool          `json:"suspended"`
	Draft                bool          `json:"draft"`
	Status               string        `json:"status,omitempty"`
	TemplateStatus       string        `json:"templateStatus,omitempty"`
	AuditState           string        `json:"auditState,omitempty"`
	Identifiers          *Identifiers  `json:"identifiers,omitempty"`
	LoggingInfo          []LoggingInfo `json:"loggingInfo,omitempty"`
	LatestAuditInfo      *LoggingInfo  `json:"latestAuditInfo,omitempty"`
	LatestOnboardingInfo *LoggingInfo  `json:"latestOnboardingInfo,omitempty"`
	LatestUpdateInfo     *LoggingInfo  `json:"latestUpdateInfo,omitempty"`
}

// NewBundle wraps payload in an empty bundle with the payload id.
func NewBundle[P Payload](payload P) *Bundle[P] {
	b := &Bundle[P]{Payload: payload}
	if b.HasPayload() {
		b.ID = payload.GetID()
	}
	return b
}

// HasPayload reports whether the bundle carries a non-nil payload.
func (b *Bundle[P]) HasPayload() bool {
	v := reflect.ValueOf(b.Payload)
	return v.IsValid() && !(v.Kind() == reflect.Ptr && v.IsNil())
}

// SetID keeps the bundle id and the payload id in sync.
func (b *Bundle[P]) SetID(id string) {
	b.ID = id
	if b.HasPayload() {
		b.Payload.SetID(id)
	}
}

// CatalogueID returns the catalogue of the payload.
func (b *Bundle[P]) CatalogueID() string {
	if !b.HasPayload() {
		return ""
	}
	return b.Payload.GetCatalogueID()
}

// Published reports whether this bundle is a public copy.
func (b *Bundle[P]) Published() bool {
	return b.Metadata != nil && b.Metadata.Published
}

// AppendLoggingInfo adds entries, keeps the list sorted and refreshes the latest-info shortcuts.
func (b *Bundle[P]) AppendLoggingInfo(entries ...LoggingInfo) {
	b.LoggingInfo = append(b.LoggingInfo, entries...)
	b.RefreshLatest()
}

// RefreshLatest sorts the history and recomputes the latest-info shortcuts.
func (b *Bundle[P]) RefreshLatest() {
	SortLoggingInfo(b.LoggingInfo)
	b.LatestOnboardingInfo = LatestOfType(b.LoggingInfo, LogTypeOnboard)
	b.LatestUpdateInfo = LatestOfType(b.LoggingInfo, LogTypeUpdate)
	b.LatestAuditInfo = LatestOfType(b.LoggingInfo, LogTypeAudit)
}

// Secure anonymises the history and strips private payload fields unless the
// caller administers the resource.
func (b *Bundle[P]) Secure(s Sanitizer) {
	for i := range b.LoggingInfo {
		s.AnonymizeLoggingInfo(&b.LoggingInfo[i])
	}
	for _, li := range []*LoggingInfo{b.LatestAuditInfo, b.LatestOnboardingInfo, b.LatestUpdateInfo} {
		if li != nil {
			s.AnonymizeLoggingInfo(li)
		}
	}
	if !b.HasPayload() || s.CanSeePrivate(b.Payload.ResourceType(), b.ID) {
		return
	}
	if pf, ok := any(b.Payload).(PrivateFields); ok {
		pf.StripPrivate()
	}
	if b.Metadata != nil {
		b.Metadata.Terms = nil
	}
}
