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

package security

import (
	"context"
	"reflect"
	"strings"

	"github.com/madgik/resource-catalogue-go/internal/common"
	"github.com/madgik/resource-catalogue-go/internal/common/log"
	"github.com/madgik/resource-catalogue-go/internal/common/model"
)

// Directory looks up the people allowed to administer catalogue entries.
type Directory interface {
	ProviderUsers(ctx context.Context, providerID string) ([]model.User, error)
	CatalogueUsers(ctx context.Context, catalogueID string) ([]model.User, error)
	// ResourceProviders returns the providers owning a resource of any kind.
	ResourceProviders(ctx context.Context, resourceID string) ([]string, error)
	AdapterAdmins(ctx context.Context, adapterID string) ([]model.User, error)
}

// Service answers ownership questions for guards and secure responses.
type Service struct {
	dir               Directory
	registrationEmail string
}

func NewService(dir Directory, registrationEmail string) *Service {
	return &Service{dir: dir, registrationEmail: registrationEmail}
}

// UserIsProviderAdmin reports whether p is listed among the users of provider.
func (s *Service) UserIsProviderAdmin(p *Principal, provider *model.ProviderBundle) bool {
	if p == nil || !p.Authenticated || provider == nil || !provider.HasPayload() {
		return false
	}
	return provider.Payload.HasUser(p.Email)
}

// IsProviderAdmin reports whether p administers providerID.
func (s *Service) IsProviderAdmin(ctx context.Context, p *Principal, providerID string) bool {
	if !p.Authenticated || providerID == "" {
		return false
	}
	users, err := s.dir.ProviderUsers(ctx, providerID)
	if err != nil {
		log.L(ctx).Debugf("Provider %s not resolvable for admin check: %v", providerID, err)
		return false
	}
	return model.ContainsUser(users, p.Email)
}

// HasAdminAccess allows catalogue admins and the provider's users.
func (s *Service) HasAdminAccess(ctx context.Context, p *Principal, providerID string) bool {
	return p.IsAdminOrEPOT() || s.IsProviderAdmin(ctx, p, providerID)
}

// IsCatalogueAdmin reports whether p is a user of catalogueID.
func (s *Service) IsCatalogueAdmin(ctx context.Context, p *Principal, catalogueID string) bool {
	if !p.Authenticated || catalogueID == "" {
		return false
	}
	users, err := s.dir.CatalogueUsers(ctx, catalogueID)
	if err != nil {
		return false
	}
	return model.ContainsUser(users, p.Email)
}

// IsResourceAdmin reports whether p administers a provider owning resourceID
// or is an admin of the adapter resourceID.
func (s *Service) IsResourceAdmin(ctx context.Context, p *Principal, resourceID string) bool {
	if !p.Authenticated || resourceID == "" {
		return false
	}
	if providers, err := s.dir.ResourceProviders(ctx, resourceID); err == nil {
		for _, id := range providers {
			if s.IsProviderAdmin(ctx, p, id) {
				return true
			}
		}
	}
	if admins, err := s.dir.AdapterAdmins(ctx, resourceID); err == nil {
		return model.ContainsUser(admins, p.Email)
	}
	return false
}

// CanAccess is the guard used by owner-or-admin endpoints.
func (s *Service) CanAccess(ctx context.Context, p *Principal, resourceType, id string) bool {
	if p.IsAdminOrEPOT() {
		return true
	}
	switch resourceType {
	case model.TypeProvider:
		return s.IsProviderAdmin(ctx, p, id)
	case model.TypeCatalogue:
		return s.IsCatalogueAdmin(ctx, p, id)
	default:
		return s.IsResourceAdmin(ctx, p, id)
	}
}

// Guard returns a 401 or 403 error when p may not manage the entry.
func (s *Service) Guard(ctx context.Context, p *Principal, resourceType, id string) error {
	if !p.Authenticated {
		return common.NewErrUnauthorized("full authentication is required to access this resource")
	}
	if !s.CanAccess(ctx, p, resourceType, id) {
		return common.NewErrForbidden("access is denied")
	}
	return nil
}

// Sanitizer returns the response sanitizer of p.
func (s *Service) Sanitizer(ctx context.Context, p *Principal) model.Sanitizer {
	return &sanitizer{ctx: ctx, svc: s, principal: p}
}

// SecureBody hides private data in body unless p administers the whole catalogue.
// Bundles, payloads, pages, logging histories and slices or maps of them are handled.
func (s *Service) SecureBody(ctx context.Context, p *Principal, body interface{}) {
	if body == nil || p.IsAdminOrEPOT() {
		return
	}
	secureValue(reflect.ValueOf(body), s.Sanitizer(ctx, p))
}

func secureValue(v reflect.Value, sn model.Sanitizer) {
	if !v.IsValid() {
		return
	}
	if (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface || v.Kind() == reflect.Map || v.Kind() == reflect.Slice) && v.IsNil() {
		return
	}
	if v.CanInterface() {
		if sc, ok := v.Interface().(model.Securable); ok {
			sc.Secure(sn)
			return
		}
	}
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		secureValue(v.Elem(), sn)
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			elem := v.Index(i)
			if elem.Kind() != reflect.Ptr && elem.Kind() != reflect.Interface && elem.CanAddr() {
				elem = elem.Addr()
			}
			secureValue(elem, sn)
		}
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			secureValue(iter.Value(), sn)
		}
	}
}

type sanitizer struct {
	ctx       context.Context
	svc       *Service
	principal *Principal
}

func (s *sanitizer) CanSeePrivate(resourceType, id string) bool {
	if s.principal.IsAdminOrEPOT() {
		return true
	}
	if !s.principal.Authenticated {
		return false
	}
	return s.svc.CanAccess(s.ctx, s.principal, resourceType, id)
}

func (s *sanitizer) AnonymizeLoggingInfo(li *model.LoggingInfo) {
	switch strings.ToUpper(li.UserRole) {
	case RoleAdmin:
		li.UserEmail = s.svc.registrationEmail
		li.UserFullName = "Administrator"
	case RoleEPOT:
		li.UserEmail = s.svc.registrationEmail
		li.UserFullName = "EPOT"
	default:
		li.UserEmail = ""
	}
	li.UserRole = ""
}
