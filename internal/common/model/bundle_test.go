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

package model

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSanitizer struct {
	private map[string]bool
}

func (f fakeSanitizer) CanSeePrivate(resourceType, id string) bool {
	return f.private[resourceType+"/"+id]
}

func (f fakeSanitizer) AnonymizeLoggingInfo(li *LoggingInfo) {
	li.UserEmail = ""
	li.UserRole = ""
}

func entry(date int64, logType, action string) LoggingInfo {
	return LoggingInfo{Date: strconv.FormatInt(date, 10), Type: logType, ActionType: action}
}

func TestDetermineAuditState(t *testing.T) {
	tests := []struct {
		name string
		list []LoggingInfo
		want string
	}{
		{"no entries", nil, AuditNotAudited},
		{"only onboarding", []LoggingInfo{entry(1, LogTypeOnboard, ActionRegistered)}, AuditNotAudited},
		{"valid audit", []LoggingInfo{entry(1, LogTypeAudit, ActionValid)}, AuditValid},
		{
			"invalid then updated",
			[]LoggingInfo{entry(1, LogTypeAudit, ActionInvalid), entry(2, LogTypeUpdate, ActionUpdated)},
			AuditInvalidAndUpdated,
		},
		{
			"updated then invalid",
			[]LoggingInfo{entry(1, LogTypeUpdate, ActionUpdated), entry(2, LogTypeAudit, ActionInvalid)},
			AuditInvalidAndNotUpdated,
		},
		{
			"latest audit wins",
			[]LoggingInfo{entry(3, LogTypeAudit, ActionValid), entry(2, LogTypeAudit, ActionInvalid)},
			AuditValid,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineAuditState(tt.list))
		})
	}
}

func TestLatestOfTypeReturnsCopy(t *testing.T) {
	list := []LoggingInfo{entry(5, LogTypeUpdate, ActionUpdated), entry(9, LogTypeUpdate, ActionUpdatedVersion)}
	latest := LatestOfType(list, LogTypeUpdate)
	require.NotNil(t, latest)
	assert.Equal(t, ActionUpdatedVersion, latest.ActionType)

	latest.ActionType = "changed"
	assert.Equal(t, ActionUpdatedVersion, list[1].ActionType)
	assert.Nil(t, LatestOfType(list, LogTypeAudit))
}

func TestAppendLoggingInfoSortsAndRefreshes(t *testing.T) {
	b := NewBundle(&Provider{ID: "eosc/abc123", Name: "Provider"})
	b.AppendLoggingInfo(entry(20, LogTypeUpdate, ActionUpdated), entry(10, LogTypeOnboard, ActionRegistered))

	require.Len(t, b.LoggingInfo, 2)
	assert.Equal(t, LogTypeOnboard, b.LoggingInfo[0].Type)
	require.NotNil(t, b.LatestOnboardingInfo)
	require.NotNil(t, b.LatestUpdateInfo)
	assert.Nil(t, b.LatestAuditInfo)
	assert.Equal(t, "20", b.LatestUpdateInfo.Date)
}

func TestBundleSetIDSyncsPayload(t *testing.T) {
	b := NewBundle(&Service{ID: "a"})
	assert.Equal(t, "a", b.ID)
	b.SetID("eosc.a")
	assert.Equal(t, "eosc.a", b.Payload.ID)

	var empty Bundle[*Service]
	assert.False(t, empty.HasPayload())
	assert.Equal(t, "", empty.CatalogueID())
	empty.SetID("x")
	assert.Equal(t, "x", empty.ID)
}

func TestBundleSecureStripsPrivateFields(t *testing.T) {
	b := NewBundle(&Provider{
		ID:          "eosc/p1",
		MainContact: &MainContact{Email: "main@example.org"},
		Users:       []User{{Email: "user@example.org"}},
	})
	b.Metadata = &Metadata{Terms: []string{"user@example.org"}}
	b.AppendLoggingInfo(LoggingInfo{Date: "1", Type: LogTypeOnboard, ActionType: ActionRegistered, UserEmail: "user@example.org", UserRole: "ROLE_USER"})

	b.Secure(fakeSanitizer{})

	assert.Nil(t, b.Payload.MainContact)
	assert.Nil(t, b.Payload.Users)
	assert.Nil(t, b.Metadata.Terms)
	assert.Empty(t, b.LoggingInfo[0].UserEmail)
	assert.Empty(t, b.LatestOnboardingInfo.UserRole)
}

func TestBundleSecureKeepsFieldsForResourceAdmins(t *testing.T) {
	b := NewBundle(&Service{ID: "eosc/s1", MainContact: &MainContact{Email: "c@example.org"}, SecurityContactEmail: "sec@example.org"})
	b.Secure(fakeSanitizer{private: map[string]bool{TypeService + "/eosc/s1": true}})

	require.NotNil(t, b.Payload.MainContact)
	assert.Equal(t, "sec@example.org", b.Payload.SecurityContactEmail)
}

func TestPagingSecureWalksResults(t *testing.T) {
	page := NewPaging(2, 0, []*Bundle[*TrainingResource]{
		NewBundle(&TrainingResource{ID: "t1", Contact: &MainContact{Email: "x@example.org"}}),
		NewBundle(&TrainingResource{ID: "t2", Contact: &MainContact{Email: "y@example.org"}}),
	}, nil)
	page.Secure(fakeSanitizer{})

	assert.Equal(t, 2, page.To)
	assert.NotNil(t, page.Facets)
	for _, r := range page.Results {
		assert.Nil(t, r.Payload.Contact)
	}
}

func TestMapPagingKeepsTotals(t *testing.T) {
	page := NewPaging(12, 10, []int{1, 2}, []Facet{{Field: "tags"}})
	out := MapPaging(page, func(i int) string { return strconv.Itoa(i * 2) })
	assert.Equal(t, []string{"2", "4"}, out.Results)
	assert.Equal(t, 12, out.Total)
	assert.Equal(t, 12, out.To)
	assert.Len(t, out.Facets, 1)
}

func TestMetadata(t *testing.T) {
	defer func(prev func() time.Time) { Now = prev }(Now)
	Now = func() time.Time { return time.UnixMilli(1000) }

	m := NewMetadata("Jane Doe", "jane@example.org")
	assert.Equal(t, "1000", m.RegisteredAt)
	assert.Equal(t, []string{"jane@example.org"}, m.Terms)

	Now = func() time.Time { return time.UnixMilli(2000) }
	updated := UpdateMetadata(m, "John Roe", "JOHN@example.org")
	assert.Equal(t, "Jane Doe", updated.RegisteredBy)
	assert.Equal(t, "John Roe", updated.ModifiedBy)
	assert.Equal(t, "2000", updated.ModifiedAt)
	assert.Len(t, updated.Terms, 2)
	assert.Len(t, m.Terms, 1)

	again := UpdateMetadata(updated, "John Roe", "john@example.org")
	assert.Len(t, again.Terms, 2)

	var none *Metadata
	assert.False(t, none.HasAcceptedTerms("jane@example.org"))
	assert.NotNil(t, UpdateMetadata(nil, "a", "a@example.org"))
}

func TestStatusesFor(t *testing.T) {
	set, ok := StatusesFor(TypeTrainingResource)
	require.True(t, ok)
	assert.True(t, set.Contains(StatusApprovedResource))
	assert.False(t, set.Contains(StatusApprovedProvider))

	set, ok = StatusesFor(TypeInteroperabilityRecord)
	require.True(t, ok)
	assert.Equal(t, StatusPendingInteroperabilityRecord, set.Pending)

	_, ok = StatusesFor(TypeEvent)
	assert.False(t, ok)
}

func TestFacetsSkipEmptyValues(t *testing.T) {
	s := &Service{
		ResourceOrganisation: "eosc/p1",
		ResourceProviders:    []string{"eosc/p2", ""},
		Categories:           []Category{{Category: "cat", Subcategory: "sub"}},
		ScientificDomains:    []ScientificDomain{{ScientificDomain: "dom"}},
	}
	f := s.Facets()
	assert.Equal(t, []string{"eosc/p1"}, f["resource_organisation"])
	assert.Equal(t, []string{"eosc/p2"}, f["resource_providers"])
	assert.Equal(t, []string{"sub"}, f["subcategories"])
	assert.Equal(t, []string{"dom"}, f["scientific_domains"])
	_, ok := f["scientific_subdomains"]
	assert.False(t, ok)
}

func TestRewriteRelations(t *testing.T) {
	s := &Service{ResourceOrganisation: "p1", ResourceProviders: []string{"p1", "p2"}}
	s.RewriteRelations(func(id string) string { return "eosc." + id })
	assert.Equal(t, "eosc.p1", s.ResourceOrganisation)
	assert.Equal(t, []string{"eosc.p1", "eosc.p2"}, s.ResourceProviders)

	a := &Adapter{}
	a.RewriteRelations(func(id string) string { return "x" })
	assert.Nil(t, a.LinkedResource)
}
