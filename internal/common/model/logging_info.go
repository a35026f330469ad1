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

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// Logging entry types.
const (
	LogTypeOnboard = "onboard"
	LogTypeUpdate  = "update"
	LogTypeAudit   = "audit"
	LogTypeDraft   = "draft"
	LogTypeMove    = "move"
)

// Logging entry actions.
const (
	ActionRegistered     = "registered"
	ActionApproved       = "approved"
	ActionRejected       = "rejected"
	ActionUpdated        = "updated"
	ActionUpdatedVersion = "updated version"
	ActionActivated      = "activated"
	ActionDeactivated    = "deactivated"
	ActionSuspended      = "suspended"
	ActionUnsuspended    = "unsuspended"
	ActionValid          = "valid"
	ActionInvalid        = "invalid"
	ActionDrafted        = "drafted"
	ActionMoved          = "moved"
)

// Now is the clock used for metadata and logging dates.
var Now = time.Now

// NowMillis returns the current time as an epoch-millisecond string.
func NowMillis() string {
	return strconv.FormatInt(Now().UnixMilli(), 10)
}

// LoggingInfo is one entry of a bundle's history.
type LoggingInfo struct {
	Date         string `json:"date"`
	UserEmail    string `json:"userEmail,omitempty"`
	UserFullName string `json:"userFullName,omitempty"`
	UserRole     string `json:"userRole,omitempty"`
	Type         string `json:"type"`
	Comment      string `json:"comment,omitempty"`
	ActionType   string `json:"actionType"`
}

// NewLoggingInfo stamps a history entry with the current time.
func NewLoggingInfo(email, fullName, role, logType, action, comment string) LoggingInfo {
	return LoggingInfo{
		Date:         NowMillis(),
		UserEmail:    email,
		UserFullName: fullName,
		UserRole:     role,
		Type:         logType,
		ActionType:   action,
		Comment:      comment,
	}
}

// Millis parses the entry date. Unparseable dates sort first.
func (l LoggingInfo) Millis() int64 {
	v, err := strconv.ParseInt(l.Date, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func (l LoggingInfo) String() string {
	return fmt.Sprintf("%s/%s by %s at %s", l.Type, l.ActionType, l.UserEmail, l.Date)
}

// SortLoggingInfo orders entries by date, oldest first.
func SortLoggingInfo(list []LoggingInfo) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Millis() < list[j].Millis()
	})
}

// LatestOfType returns a copy of the newest entry of the given type, or nil.
func LatestOfType(list []LoggingInfo, logType string) *LoggingInfo {
	var latest *LoggingInfo
	for i := range list {
		if list[i].Type != logType {
			continue
		}
		if latest == nil || list[i].Millis() >= latest.Millis() {
			entry := list[i]
			latest = &entry
		}
	}
	return latest
}

// DetermineAuditState derives the audit state from a logging history.
func DetermineAuditState(list []LoggingInfo) string {
	audit := LatestOfType(list, LogTypeAudit)
	if audit == nil {
		return AuditNotAudited
	}
	if audit.ActionType != ActionInvalid {
		return AuditValid
	}
	update := LatestOfType(list, LogTypeUpdate)
	if update != nil && update.Millis() > audit.Millis() {
		return AuditInvalidAndUpdated
	}
	return AuditInvalidAndNotUpdated
}

// LoggingInfoList is the body of history endpoints.
type LoggingInfoList []LoggingInfo

// Secure anonymises every entry of the list.
func (l LoggingInfoList) Secure(s Sanitizer) {
	for i := range l {
		s.AnonymizeLoggingInfo(&l[i])
	}
}
