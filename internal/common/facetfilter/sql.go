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
	"strconv"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	jsoniter "github.com/json-iterator/go"

	"github.com/madgik/resource-catalogue-go/internal/common"
)

// Table columns referenced by the generated SQL.
const (
	ColResourceType = "resource_type"
	ColFacets       = "facets"
	ColSearchText   = "search_text"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Where translates the filter into goqu expressions.
func (ff *FacetFilter) Where() ([]exp.Expression, error) {
	var out []exp.Expression
	if ff.ResourceType != "" {
		out = append(out, goqu.C(ColResourceType).Eq(ff.ResourceType))
	}
	if ff.Keyword != "" {
		out = append(out, goqu.L(ColSearchText+" LIKE ?", "%"+likeEscaper.Replace(strings.ToLower(ff.Keyword))+"%"))
	}
	for _, key := range ff.sortedKeys() {
		e, err := keyExpression(key, ff.Filter[key])
		if err != nil {
			return nil, err
		}
		if e != nil {
			out = append(out, e)
		}
	}
	return out, nil
}

func keyExpression(key string, values []string) (exp.Expression, error) {
	positive, negative := terms(values)
	if IsColumn(key) {
		return columnExpression(key, positive, negative)
	}

	var parts []exp.Expression
	if len(positive) > 0 {
		ors := make([]exp.Expression, 0, len(positive))
		for _, v := range positive {
			doc, err := containment(key, v)
			if err != nil {
				return nil, err
			}
			ors = append(ors, goqu.L(ColFacets+" @> ?::jsonb", doc))
		}
		parts = append(parts, goqu.Or(ors...))
	}
	for _, v := range negative {
		doc, err := containment(key, v)
		if err != nil {
			return nil, err
		}
		parts = append(parts, goqu.L("NOT ("+ColFacets+" @> ?::jsonb)", doc))
	}
	if len(parts) == 0 {
		return nil, nil
	}
	return goqu.And(parts...), nil
}

func columnExpression(key string, positive, negative []string) (exp.Expression, error) {
	if boolKeys[key] {
		pos, err := parseBools(key, positive)
		if err != nil {
			return nil, err
		}
		neg, err := parseBools(key, negative)
		if err != nil {
			return nil, err
		}
		return inNotIn(key, pos, neg), nil
	}
	return inNotIn(key, toInterfaces(positive), toInterfaces(negative)), nil
}

func inNotIn(key string, positive, negative []interface{}) exp.Expression {
	var parts []exp.Expression
	if len(positive) == 1 {
		parts = append(parts, goqu.C(key).Eq(positive[0]))
	} else if len(positive) > 1 {
		parts = append(parts, goqu.C(key).In(positive...))
	}
	if len(negative) == 1 {
		parts = append(parts, goqu.C(key).Neq(negative[0]))
	} else if len(negative) > 1 {
		parts = append(parts, goqu.C(key).NotIn(negative...))
	}
	if len(parts) == 0 {
		return nil
	}
	return goqu.And(parts...)
}

func parseBools(key string, values []string) ([]interface{}, error) {
	out := make([]interface{}, 0, len(values))
	for _, v := range values {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, common.NewErrBadRequest(key + " must be true or false")
		}
		out = append(out, b)
	}
	return out, nil
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func containment(key, value string) (string, error) {
	return jsoniter.ConfigCompatibleWithStandardLibrary.MarshalToString(map[string][]string{key: {value}})
}

// textColumns are compared case-insensitively, like Less does in memory.
var textColumns = map[string]bool{
	KeyID:          true,
	KeyCatalogueID: true,
	KeyStatus:      true,
	OrderName:      true,
}

// OrderExpressions translates the ordering terms, always ending with id.
func (ff *FacetFilter) OrderExpressions() []exp.OrderedExpression {
	out := make([]exp.OrderedExpression, 0, len(ff.OrderBy)+1)
	for _, o := range ff.OrderBy {
		var e exp.Orderable
		switch {
		case textColumns[o.Field]:
			e = goqu.Func("lower", goqu.C(o.Field))
		case IsColumn(o.Field), o.Field == OrderCreatedAt, o.Field == OrderModifiedAt:
			e = goqu.C(o.Field)
		default:
			e = goqu.L("lower("+ColFacets+"->?->>0)", o.Field)
		}
		if o.Desc {
			out = append(out, e.Desc())
		} else {
			out = append(out, e.Asc())
		}
	}
	return append(out, goqu.C(KeyID).Asc())
}
