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

package facetfilter

import (
	"net/url"
	"sort"
	"testing"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madgik/resource-catalogue-go/internal/common"
)

type fakeDoc struct {
	columns map[string]string
	facets  map[string][]string
	text    string
}

func (d fakeDoc) Column(key string) string        { return d.columns[key] }
func (d fakeDoc) FacetValues(key string) []string { return d.facets[key] }
func (d fakeDoc) Text() string                    { return d.text }

func doc(id, status string, published bool, tags ...string) fakeDoc {
	pub := "false"
	if published {
		pub = "true"
	}
	return fakeDoc{
		columns: map[string]string{KeyID: id, KeyStatus: status, KeyPublished: pub, OrderName: "name " + id},
		facets:  map[string][]string{"tags": tags},
		text:    "resource " + id + " about data",
	}
}

func TestFromQuery(t *testing.T) {
	q := url.Values{
		"query":        {"Data"},
		"from":         {"5"},
		"quantity":     {"20"},
		"order":        {"desc"},
		"orderField":   {"name"},
		"tags":         {"a,b", "c"},
		"published":    {"false"},
		"catalogue_id": {"eosc"},
	}
	ff, err := FromQuery("service", q, "catalogue_id")
	require.NoError(t, err)

	assert.Equal(t, "Data", ff.Keyword)
	assert.Equal(t, 5, ff.From)
	assert.Equal(t, 20, ff.Quantity)
	assert.Equal(t, []Order{{Field: "name", Desc: true}}, ff.OrderBy)
	assert.Equal(t, []string{"a", "b", "c"}, ff.Get("tags"))
	assert.Equal(t, []string{"false"}, ff.Get(KeyPublished))
	assert.False(t, ff.Has(KeyCatalogueID))
}

func TestFromQueryDefaults(t *testing.T) {
	ff, err := FromQuery("provider", url.Values{})
	require.NoError(t, err)
	assert.Equal(t, 0, ff.From)
	assert.Equal(t, DefaultQuantity, ff.Quantity)
	assert.Empty(t, ff.Filter)
	assert.False(t, ff.CountOnly())
}

func TestFromQueryRejectsInvalidValues(t *testing.T) {
	cases := map[string]url.Values{
		"negative from":     {"from": {"-1"}},
		"textual quantity":  {"quantity": {"ten"}},
		"invalid order":     {"orderField": {"name"}, "order": {"sideways"}},
		"non boolean value": {"active": {"maybe"}},
	}
	for name, q := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := FromQuery("service", q)
			require.Error(t, err)
			assert.True(t, common.IsErrBadRequest(err))
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	ff := New("service").AddFilter("tags", "a").WithOrder("name", false)
	c := ff.Clone()
	c.AddFilter("tags", "b")
	c.OrderBy[0].Desc = true

	assert.Equal(t, []string{"a"}, ff.Get("tags"))
	assert.False(t, ff.OrderBy[0].Desc)
}

func TestMatch(t *testing.T) {
	d := doc("s1", "approved resource", false, "ai", "ml")

	tests := []struct {
		name string
		ff   *FacetFilter
		want bool
	}{
		{"empty filter", New("service"), true},
		{"values of a key are ORed", New("service").AddFilter("tags", "x", "ml"), true},
		{"keys are ANDed", New("service").AddFilter("tags", "ai").AddFilter(KeyStatus, "pending resource"), false},
		{"negated facet", New("service").AddFilter("tags", "!ai"), false},
		{"negated column", New("service").AddFilter(KeyStatus, "!rejected resource"), true},
		{"boolean column", New("service").AddFilter(KeyPublished, "FALSE"), true},
		{"keyword is case insensitive", &FacetFilter{Keyword: "DATA"}, true},
		{"keyword misses", &FacetFilter{Keyword: "nothing"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ff.Match(d))
		})
	}
}

func TestLessOrdersByFieldThenID(t *testing.T) {
	docs := []Document{
		doc("c", "", false, "b"),
		doc("a", "", false, "b"),
		doc("b", "", false, "a"),
	}
	ff := New("service").WithOrder("tags", true)
	sort.Slice(docs, func(i, j int) bool { return ff.Less(docs[i], docs[j]) })

	ids := []string{}
	for _, d := range docs {
		ids = append(ids, d.Column(KeyID))
	}
	assert.Equal(t, []string{"a", "c", "b"}, ids)
}

func TestFacetsAreOrderedByCountThenValue(t *testing.T) {
	docs := []Document{
		doc("1", "", false, "b", "a"),
		doc("2", "", false, "b"),
		doc("3", "", false, "c", "c"),
	}
	facets := New("service").WithBrowseBy("tags").Facets(docs)
	require.Len(t, facets, 1)
	assert.Equal(t, "Tags", facets[0].Label)

	values := []string{}
	for _, v := range facets[0].Values {
		values = append(values, v.Value)
	}
	assert.Equal(t, []string{"b", "a", "c"}, values)
	assert.Equal(t, 2, facets[0].Values[0].Count)
	assert.Equal(t, 1, facets[0].Values[2].Count)
}

func TestWhereBuildsSQL(t *testing.T) {
	ff := New("service").
		AddFilter("tags", "ai", "!old").
		AddFilter(KeyStatus, "approved resource").
		AddFilter(KeyPublished, "true")
	ff.Keyword = "Data"

	where, err := ff.Where()
	require.NoError(t, err)

	sql, _, err := goqu.Dialect("postgres").From("resources").Where(where...).Order(ff.OrderExpressions()...).ToSQL()
	require.NoError(t, err)

	assert.Contains(t, sql, `"resource_type" = 'service'`)
	assert.Contains(t, sql, `search_text LIKE '%data%'`)
	assert.Contains(t, sql, `facets @> '{"tags":["ai"]}'::jsonb`)
	assert.Contains(t, sql, `NOT (facets @> '{"tags":["old"]}'::jsonb)`)
	assert.Contains(t, sql, `"status" = 'approved resource'`)
	assert.Contains(t, sql, `"published" IS TRUE`)
	assert.Contains(t, sql, `ORDER BY "id" ASC`)
}

func TestOrderExpressionsIgnoreCase(t *testing.T) {
	ff := New("service").
		WithOrder(OrderName, true).
		WithOrder(KeyActive, false).
		WithOrder(OrderCreatedAt, false).
		WithOrder("tags", false)

	sql, _, err := goqu.Dialect("postgres").From("resources").Order(ff.OrderExpressions()...).ToSQL()
	require.NoError(t, err)

	assert.Contains(t, sql, `ORDER BY lower("name") DESC, "active" ASC, "created_at" ASC, lower(facets->'tags'->>0) ASC, "id" ASC`)
}

func TestWhereRejectsInvalidBoolean(t *testing.T) {
	_, err := New("service").AddFilter(KeyActive, "yes please").Where()
	require.Error(t, err)
	assert.True(t, common.IsErrBadRequest(err))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Resource Organisation", Label("resource_organisation"))
	assert.Equal(t, "Tags", Label("tags"))
}
