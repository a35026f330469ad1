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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/coreos/go-oidc"
	jose "gopkg.in/go-jose/go-jose.v2"

	"github.com/madgik/resource-catalogue-go/internal/common/log"
)

// TokenVerifier verifies a raw bearer token and returns its claims.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (Claims, error)
}

// OIDC verifies id tokens issued by an OpenID Connect provider.
type OIDC struct {
	verifier *oidc.IDTokenVerifier
}

type OIDCSettings struct {
	Issuer   string
	Audience string
	// JWKSFile holds a static key set. When set the provider is not contacted.
	JWKSFile string
}

func NewOIDC(ctx context.Context, s OIDCSettings) (*OIDC, error) {
	logger := log.Component("security")
	logger.Infof("🔐 Initializing OIDC verifier...")
	config := &oidc.Config{ClientID: s.Audience, SkipClientIDCheck: s.Audience == ""}

	if s.JWKSFile != "" {
		data, err := os.ReadFile(s.JWKSFile)
		if err != nil {
			return nil, fmt.Errorf("read key set: %w", err)
		}
		keys, err := NewStaticKeySet(data)
		if err != nil {
			return nil, err
		}
		logger.Infof("✅ OIDC verifier created from static key set. Issuer=%s Audience=%s", s.Issuer, s.Audience)
		return &OIDC{verifier: oidc.NewVerifier(s.Issuer, keys, config)}, nil
	}

	provider, err := oidc.NewProvider(ctx, s.Issuer)
	if err != nil {
		return nil, err
	}
	logger.Infof("✅ OIDC verifier created. Issuer=%s Audience=%s", s.Issuer, s.Audience)
	return &OIDC{verifier: provider.Verifier(config)}, nil
}

// Verify implements TokenVerifier.
func (o *OIDC) Verify(ctx context.Context, raw string) (Claims, error) {
	idToken, err := o.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, err
	}
	var rm json.RawMessage
	if err := idToken.Claims(&rm); err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(rm))
	dec.UseNumber()
	var c Claims
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("invalid claims: %w", err)
	}
	return c, nil
}

// StaticKeySet verifies token signatures against a fixed JSON Web Key Set.
type StaticKeySet struct {
	keys jose.JSONWebKeySet
}

// NewStaticKeySet parses a JWKS document.
func NewStaticKeySet(jwks []byte) (*StaticKeySet, error) {
	var set jose.JSONWebKeySet
	if err := json.Unmarshal(jwks, &set); err != nil {
		return nil, fmt.Errorf("parse key set: %w", err)
	}
	if len(set.Keys) == 0 {
		return nil, errors.New("key set contains no keys")
	}
	return &StaticKeySet{keys: set}, nil
}

// VerifySignature implements oidc.KeySet.
func (s *StaticKeySet) VerifySignature(_ context.Context, raw string) ([]byte, error) {
	jws, err := jose.ParseSigned(raw)
	if err != nil {
		return nil, fmt.Errorf("malformed token: %w", err)
	}
	candidates := s.keys.Keys
	if len(jws.Signatures) > 0 && jws.Signatures[0].Header.KeyID != "" {
		if byID := s.keys.Key(jws.Signatures[0].Header.KeyID); len(byID) > 0 {
			candidates = byID
		}
	}
	for _, key := range candidates {
		if payload, err := jws.Verify(key.Public()); err == nil {
			return payload, nil
		}
	}
	return nil, errors.New("failed to verify token signature")
}
