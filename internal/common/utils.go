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

// Package common provides utility functions and shared components
// used across the resource catalogue implementation.
//
//nolint:revive
package common

import (
	"strings"
	"time"
)

// GetCurrentTimestamp returns the current timestamp in RFC3339 format.
func GetCurrentTimestamp() string {
	timestamp := time.Now().Format(time.RFC3339)
	return timestamp
}

// NormalizeBasePath normalizes a URL path to ensure consistent formatting
// for API endpoints and routing. It handles common path formatting issues
// such as missing leading slashes and trailing slashes.
//
// Examples:
//
//	NormalizeBasePath("")        // Returns: "/"
//	NormalizeBasePath("/")       // Returns: "/"
//	NormalizeBasePath("api")     // Returns: "/api"
//	NormalizeBasePath("/api/")   // Returns: "/api"
func NormalizeBasePath(p string) string {
	if p == "" || p == "/" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return strings.TrimRight(p, "/")
}

// JoinPath appends p to the normalized base path.
//
//	JoinPath("", "/health")     // Returns: "/health"
//	JoinPath("/api/", "health") // Returns: "/api/health"
func JoinPath(base, p string) string {
	b := NormalizeBasePath(base)
	p = strings.TrimLeft(p, "/")
	if b == "/" {
		return "/" + p
	}
	return b + "/" + p
}

// JoinID rebuilds a two-segment identifier from its path parts.
func JoinID(prefix, suffix string) string {
	if suffix == "" {
		return prefix
	}
	return prefix + "/" + suffix
}

// ContainsFold reports whether list holds s, ignoring case.
func ContainsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
