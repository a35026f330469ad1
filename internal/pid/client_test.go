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

package pid

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madgik/resource-catalogue-go/internal/common"
	"github.com/madgik/resource-catalogue-go/internal/common/model"
)

func newTestClient() (*Client, *http.Client) {
	mockedClient := &http.Client{}
	httpmock.ActivateNonDefault(mockedClient)
	return NewClient(common.PIDConfig{
		Enabled:             true,
		Endpoint:            "http://handles.example.com",
		User:                "0.NA/21.T15999",
		UserIndex:           "300",
		Password:            "secret",
		MarketplaceEndpoint: "https://marketplace.example.com/",
	}, mockedClient), mockedClient
}

func TestRegisterSendsHandleValues(t *testing.T) {
	c, _ := newTestClient()
	defer httpmock.DeactivateAndReset()

	var body map[string]interface{}
	var authz string
	httpmock.RegisterResponder("PUT", "http://handles.example.com/api/handles/21.T15999/abc123",
		func(req *http.Request) (*http.Response, error) {
			authz = req.Header.Get("Authorization")
			raw, _ := io.ReadAll(req.Body)
			_ = jsoniter.Unmarshal(raw, &body)
			return httpmock.NewJsonResponderOrPanic(201, map[string]interface{}{"responseCode": 1})(req)
		})

	err := c.Register(context.Background(), "21.T15999/abc123", model.TypeService)
	require.NoError(t, err)

	assert.Equal(t, "Basic "+base64.StdEncoding.EncodeToString([]byte("0.NA/21.T15999:secret")), authz)
	values := body["values"].([]interface{})
	require.Len(t, values, 3)
	admin := values[0].(map[string]interface{})
	assert.Equal(t, "HS_ADMIN", admin["type"])
	assert.EqualValues(t, 100, admin["index"])
	adminData := admin["data"].(map[string]interface{})["value"].(map[string]interface{})
	assert.Equal(t, "300", adminData["index"])
	assert.Equal(t, "011111110011", adminData["permissions"])
	url := values[2].(map[string]interface{})["data"].(map[string]interface{})["value"]
	assert.Equal(t, "https://marketplace.example.com/services/21.T15999/abc123", url)
}

func TestRegisterWithoutMarketplace(t *testing.T) {
	c := NewClient(common.PIDConfig{User: "u", UserIndex: "300"}, nil)
	values := c.Values("21.T15999/x", model.TypeProvider)
	assert.Len(t, values, 2)
	assert.Equal(t, "id", values[1].Type)
}

func TestRegisterFailure(t *testing.T) {
	c, _ := newTestClient()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("PUT", "http://handles.example.com/api/handles/21.T15999/abc123",
		httpmock.NewStringResponder(500, `{"error":"boom"}`))

	err := c.Register(context.Background(), "21.T15999/abc123", model.TypeProvider)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "boom")
}

func TestResolve(t *testing.T) {
	c, _ := newTestClient()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "http://handles.example.com/api/handles/21.T15999/abc123",
		httpmock.NewJsonResponderOrPanic(200, map[string]interface{}{
			"responseCode": 1,
			"handle":       "21.T15999/abc123",
			"values": []map[string]interface{}{
				{"index": 1, "type": "id", "data": map[string]interface{}{"format": "string", "value": "21.T15999/abc123"}},
			},
		}))
	httpmock.RegisterResponder("GET", "http://handles.example.com/api/handles/21.T15999/missing",
		httpmock.NewStringResponder(404, `{"responseCode":100}`))

	h, err := c.Resolve(context.Background(), "21.T15999/abc123")
	require.NoError(t, err)
	assert.Equal(t, "21.T15999/abc123", h.Handle)
	require.Len(t, h.Values, 1)

	_, err = c.Resolve(context.Background(), "21.T15999/missing")
	assert.True(t, common.IsErrNotFound(err))
}
