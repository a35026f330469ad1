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

// Package security authenticates callers and decides what they may see.
//
// Requests carrying a bearer token are verified against the configured OIDC
// provider and then against the shared-secret verifier. Requests without an
// Authorization header continue as the anonymous principal; guards on the
// individual routes reject them where authentication is required.
package security

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/madgik/resource-catalogue-go/internal/common"
	"github.com/madgik/resource-catalogue-go/internal/common/log"
	"github.com/madgik/resource-catalogue-go/internal/common/model"
)

// Authenticator resolves the principal of each request.
type Authenticator struct {
	verifiers []TokenVerifier
	roles     RoleMapper
}

func NewAuthenticator(roles RoleMapper, verifiers ...TokenVerifier) *Authenticator {
	return &Authenticator{verifiers: verifiers, roles: roles}
}

// SetupSecurity builds the authenticator from cfg and installs it on r.
func SetupSecurity(ctx context.Context, cfg *common.Config, r chi.Router) (*Authenticator, error) {
	var verifiers []TokenVerifier
	if cfg.OIDC.Enabled {
		o, err := NewOIDC(ctx, OIDCSettings{
			Issuer:   cfg.OIDC.Issuer,
			Audience: cfg.OIDC.Audience,
			JWKSFile: cfg.OIDC.JWKSFile,
		})
		if err != nil {
			return nil, err
		}
		verifiers = append(verifiers, o)
	}
	if cfg.JWT.Enabled {
		h, err := NewHMAC(cfg.JWT.Secret, cfg.JWT.Issuer)
		if err != nil {
			return nil, err
		}
		verifiers = append(verifiers, h)
	}
	if len(verifiers) == 0 {
		log.Component("security").Warnf("⚠️ No token verifier configured, every request is anonymous")
	}
	a := NewAuthenticator(RoleMapper{Admins: cfg.Catalogue.Admins, OnboardingTeam: cfg.Catalogue.OnboardingTeam}, verifiers...)
	r.Use(a.Middleware)
	return a, nil
}

func (a *Authenticator) authenticate(ctx context.Context, raw string) (*Principal, error) {
	var lastErr error
	for _, v := range a.verifiers {
		claims, err := v.Verify(ctx, raw)
		if err == nil {
			return a.roles.Principal(claims), nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = errors.New("no token verifier configured")
	}
	return nil, lastErr
}

// Middleware stores the caller's principal in the request context.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if authz == "" {
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), Anonymous)))
			return
		}
		if !strings.HasPrefix(authz, "Bearer ") {
			writeError(w, common.NewErrUnauthorized("missing or invalid Authorization header"), http.StatusUnauthorized, "Unauthenticated")
			return
		}
		p, err := a.authenticate(r.Context(), strings.TrimPrefix(authz, "Bearer "))
		if err != nil {
			log.L(r.Context()).Infof("❌ Token verification failed: %v", err)
			writeError(w, common.NewErrUnauthorized("invalid token"), http.StatusUnauthorized, "Unauthenticated")
			return
		}
		ctx := WithPrincipal(r.Context(), p)
		ctx = log.WithLogField(ctx, "user", p.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeError(w http.ResponseWriter, err error, status int, info string) {
	resp := common.NewErrorResponse(err, status, "Middleware", "Authenticate", info)
	_ = model.EncodeJSONResponse(resp.Body, &resp.Code, w)
}

// RequireAuthenticated rejects anonymous callers with 401.
func RequireAuthenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !FromContext(r.Context()).Authenticated {
			writeError(w, common.NewErrUnauthorized("full authentication is required to access this resource"), http.StatusUnauthorized, "Unauthenticated")
			return
		}
		next(w, r)
	}
}

// RequireAnyRole rejects callers lacking all of roles: 401 when anonymous, 403 otherwise.
func RequireAnyRole(roles ...string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return RequireAuthenticated(func(w http.ResponseWriter, r *http.Request) {
			if !FromContext(r.Context()).HasAnyRole(roles...) {
				writeError(w, common.NewErrForbidden("access is denied"), http.StatusForbidden, "Denied")
				return
			}
			next(w, r)
		})
	}
}

// RequireAdmin allows ROLE_ADMIN and ROLE_EPOT.
var RequireAdmin = RequireAnyRole(RoleAdmin, RoleEPOT)

// RequireSuperAdmin allows ROLE_ADMIN only.
var RequireSuperAdmin = RequireAnyRole(RoleAdmin)
