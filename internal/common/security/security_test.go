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
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	jose "gopkg.in/go-jose/go-jose.v2"

	"github.com/madgik/resource-catalogue-go/internal/common"
	"github.com/madgik/resource-catalogue-go/internal/common/model"
)

func TestRoleMapper(t *testing.T) {
	m := RoleMapper{Admins: []string{"Admin@example.org"}, OnboardingTeam: []string{"epot@example.org"}}

	p := m.Principal(Claims{
		"sub":          "u1",
		"email":        "admin@example.org",
		"given_name":   "Ada",
		"family_name":  "Lovelace",
		"roles":        []any{"provider"},
		"realm_access": map[string]any{"roles": []any{"offline_access"}},
	})
	assert.True(t, p.Authenticated)
	assert.Equal(t, "Ada Lovelace", p.FullName())
	assert.True(t, p.HasRole(RoleAdmin))
	assert.True(t, p.HasRole(RoleProvider))
	assert.True(t, p.HasRole("ROLE_OFFLINE_ACCESS"))
	assert.True(t, p.HasRole(RoleUser))
	assert.False(t, p.HasRole(RoleEPOT))
	assert.Equal(t, RoleAdmin, p.Role())

	epot := m.Principal(Claims{"email": "epot@example.org"})
	assert.True(t, epot.IsAdminOrEPOT())
	assert.Equal(t, RoleEPOT, epot.Role())
}

func TestFromContextDefaultsToAnonymous(t *testing.T) {
	p := FromContext(context.Background())
	assert.False(t, p.Authenticated)
	assert.False(t, p.HasRole(RoleUser))
}

func newHMACAuthenticator(t *testing.T) (*Authenticator, *HMAC) {
	h, err := NewHMAC("s3cr3t", "catalogue")
	require.NoError(t, err)
	return NewAuthenticator(RoleMapper{Admins: []string{"root@example.org"}}, h), h
}

func TestMiddleware(t *testing.T) {
	a, h := newHMACAuthenticator(t)
	var seen *Principal
	handler := a.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))

	t.Run("anonymous", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, seen.Authenticated)
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := h.Sign(Claims{"sub": "1", "email": "root@example.org"}, time.Minute)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "root@example.org", seen.Email)
		assert.True(t, seen.HasRole(RoleAdmin))
	})

	t.Run("invalid token", func(t *testing.T) {
		other, _ := NewHMAC("other", "catalogue")
		token, _ := other.Sign(Claims{"sub": "1"}, time.Minute)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid token")
	})

	t.Run("expired token", func(t *testing.T) {
		token, _ := h.Sign(Claims{"sub": "1"}, -time.Minute)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("basic scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic abc")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestGuards(t *testing.T) {
	ok := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }
	user := &Principal{Authenticated: true, Email: "u@example.org", Roles: []string{RoleUser}}
	admin := &Principal{Authenticated: true, Roles: []string{RoleAdmin, RoleUser}}

	tests := []struct {
		name    string
		handler http.HandlerFunc
		p       *Principal
		want    int
	}{
		{"authenticated passes", RequireAuthenticated(ok), user, http.StatusNoContent},
		{"anonymous rejected", RequireAuthenticated(ok), Anonymous, http.StatusUnauthorized},
		{"admin guard rejects user", RequireAdmin(ok), user, http.StatusForbidden},
		{"admin guard rejects anonymous", RequireAdmin(ok), Anonymous, http.StatusUnauthorized},
		{"admin guard passes admin", RequireAdmin(ok), admin, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(WithPrincipal(req.Context(), tt.p))
			rec := httptest.NewRecorder()
			tt.handler(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestOIDCWithStaticKeySet(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	jwks, err := json.Marshal(jose.JSONWebKeySet{Keys: []jose.JSONWebKey{
		{Key: &priv.PublicKey, KeyID: "k1", Algorithm: "RS256", Use: "sig"},
	}})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "jwks.json")
	require.NoError(t, os.WriteFile(path, jwks, 0o600))

	o, err := NewOIDC(context.Background(), OIDCSettings{Issuer: "https://aai.example.org", Audience: "catalogue", JWKSFile: path})
	require.NoError(t, err)

	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.RS256, Key: priv},
		(&jose.SignerOptions{}).WithType("JWT").WithHeader("kid", "k1"))
	require.NoError(t, err)
	payload, _ := json.Marshal(map[string]any{
		"iss":   "https://aai.example.org",
		"aud":   "catalogue",
		"sub":   "user-1",
		"email": "user@example.org",
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	obj, err := signer.Sign(payload)
	require.NoError(t, err)
	raw, err := obj.CompactSerialize()
	require.NoError(t, err)

	claims, err := o.Verify(context.Background(), raw)
	require.NoError(t, err)
	email, _ := claims.GetString("email")
	assert.Equal(t, "user@example.org", email)

	_, err = o.Verify(context.Background(), raw[:len(raw)-4]+"AAAA")
	assert.Error(t, err)
}

type fakeDirectory struct {
	providers  map[string][]model.User
	catalogues map[string][]model.User
	owners     map[string][]string
	adapters   map[string][]model.User
}

func (d fakeDirectory) ProviderUsers(_ context.Context, id string) ([]model.User, error) {
	if u, ok := d.providers[id]; ok {
		return u, nil
	}
	return nil, common.NewErrNotFound(id)
}

func (d fakeDirectory) CatalogueUsers(_ context.Context, id string) ([]model.User, error) {
	if u, ok := d.catalogues[id]; ok {
		return u, nil
	}
	return nil, common.NewErrNotFound(id)
}

func (d fakeDirectory) ResourceProviders(_ context.Context, id string) ([]string, error) {
	if o, ok := d.owners[id]; ok {
		return o, nil
	}
	return nil, common.NewErrNotFound(id)
}

func (d fakeDirectory) AdapterAdmins(_ context.Context, id string) ([]model.User, error) {
	if u, ok := d.adapters[id]; ok {
		return u, nil
	}
	return nil, common.NewErrNotFound(id)
}

func newTestService() *Service {
	return NewService(fakeDirectory{
		providers: map[string][]model.User{"pro/1": {{Email: "owner@example.org"}}},
		owners:    map[string][]string{"ser/1": {"pro/1"}},
		adapters:  map[string][]model.User{"ada/1": {{Email: "dev@example.org"}}},
	}, "registration@example.org")
}

func TestServiceOwnership(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	owner := &Principal{Authenticated: true, Email: "OWNER@example.org"}
	dev := &Principal{Authenticated: true, Email: "dev@example.org"}

	assert.True(t, svc.IsProviderAdmin(ctx, owner, "pro/1"))
	assert.False(t, svc.IsProviderAdmin(ctx, dev, "pro/1"))
	assert.True(t, svc.IsResourceAdmin(ctx, owner, "ser/1"))
	assert.True(t, svc.IsResourceAdmin(ctx, dev, "ada/1"))
	assert.False(t, svc.IsResourceAdmin(ctx, dev, "ser/1"))
	assert.False(t, svc.IsCatalogueAdmin(ctx, owner, "eosc"))
	assert.True(t, svc.HasAdminAccess(ctx, &Principal{Authenticated: true, Roles: []string{RoleEPOT}}, "pro/2"))

	assert.True(t, common.IsErrUnauthorized(svc.Guard(ctx, Anonymous, model.TypeProvider, "pro/1")))
	assert.True(t, common.IsErrForbidden(svc.Guard(ctx, dev, model.TypeProvider, "pro/1")))
	assert.NoError(t, svc.Guard(ctx, owner, model.TypeService, "ser/1"))
}

func providerBundle() *model.ProviderBundle {
	b := model.NewBundle(&model.Provider{
		ID:          "pro/1",
		Name:        "Provider",
		MainContact: &model.MainContact{Email: "contact@example.org"},
		Users:       []model.User{{Email: "owner@example.org"}},
	})
	b.Metadata = &model.Metadata{Terms: []string{"owner@example.org"}}
	b.LoggingInfo = []model.LoggingInfo{
		{UserEmail: "root@example.org", UserRole: RoleAdmin, Type: model.LogTypeOnboard, ActionType: model.ActionApproved},
		{UserEmail: "owner@example.org", UserRole: RoleProvider, Type: model.LogTypeUpdate, ActionType: model.ActionUpdated},
	}
	return b
}

func TestSecureBody(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	t.Run("anonymous caller sees no private data", func(t *testing.T) {
		b := providerBundle()
		page := model.NewPaging(1, 0, []*model.ProviderBundle{b}, nil)
		svc.SecureBody(ctx, Anonymous, page)

		assert.Nil(t, b.Payload.MainContact)
		assert.Nil(t, b.Payload.Users)
		assert.Nil(t, b.Metadata.Terms)
		assert.Equal(t, "registration@example.org", b.LoggingInfo[0].UserEmail)
		assert.Equal(t, "Administrator", b.LoggingInfo[0].UserFullName)
		assert.Empty(t, b.LoggingInfo[1].UserEmail)
		assert.Empty(t, b.LoggingInfo[1].UserRole)
	})

	t.Run("provider admin keeps contacts", func(t *testing.T) {
		b := providerBundle()
		svc.SecureBody(ctx, &Principal{Authenticated: true, Email: "owner@example.org"}, []*model.ProviderBundle{b})
		assert.NotNil(t, b.Payload.MainContact)
		assert.Empty(t, b.LoggingInfo[0].UserRole)
	})

	t.Run("admin is untouched", func(t *testing.T) {
		b := providerBundle()
		svc.SecureBody(ctx, &Principal{Authenticated: true, Roles: []string{RoleAdmin}}, b)
		assert.NotNil(t, b.Payload.MainContact)
		assert.Equal(t, RoleAdmin, b.LoggingInfo[0].UserRole)
	})

	t.Run("bare payload and map bodies", func(t *testing.T) {
		p := providerBundle().Payload
		svc.SecureBody(ctx, Anonymous, map[string]interface{}{"provider": p})
		assert.Nil(t, p.MainContact)
	})
}
