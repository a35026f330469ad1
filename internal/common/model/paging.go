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

// Value is one bucket of a facet.
type Value struct {
	Value string `json:"value"`
	Label string `json:"label,omitempty"`
	Count int    `json:"count"`
}

// Facet groups the value counts of a browsable field.
type Facet struct {
	Field  string  `json:"field"`
	Label  string  `json:"label"`
	Values []Value `json:"values"`
}

// Paging is a page of results with the total hit count.
type Paging[T any] struct {
	Total   int     `json:"total"`
	From    int     `json:"from"`
	To      int     `json:"to"`
	Results []T     `json:"results"`
	Facets  []Facet `json:"facets"`
}

// NewPaging builds a page and computes its upper bound.
func NewPaging[T any](total, from int, results []T, facets []Facet) *Paging[T] {
	if results == nil {
		results = []T{}
	}
	if facets == nil {
		facets = []Facet{}
	}
	return &Paging[T]{
		Total:   total,
		From:    from,
		To:      from + len(results),
		Results: results,
		Facets:  facets,
	}
}

// MapPaging converts the results of a page, keeping totals and facets.
func MapPaging[T, U any](p *Paging[T], fn func(T) U) *Paging[U] {
	out := make([]U, 0, len(p.Results))
	for _, r := range p.Results {
		out = append(out, fn(r))
	}
	return &Paging[U]{Total: p.Total, From: p.From, To: p.To, Results: out, Facets: p.Facets}
}

// Secure forwards to every securable result.
func (p *Paging[T]) Secure(s Sanitizer) {
	for _, r := range p.Results {
		if sc, ok := any(r).(Securable); ok {
			sc.Secure(s)
		}
	}
}
