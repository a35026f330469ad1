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

// Package pid registers and resolves handle PIDs of public catalogue entries.
package pid

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/madgik/resource-catalogue-go/internal/common"
	"github.com/madgik/resource-catalogue-go/internal/common/log"
	"github.com/madgik/resource-catalogue-go/internal/common/model"
)

const adminPermissions = "011111110011"

// kindPaths maps resource types to the marketplace path their PID points at.
var kindPaths = map[string]string{
	model.TypeProvider:               "providers/",
	model.TypeService:                "services/",
	model.TypeTrainingResource:       "trainings/",
	model.TypeInteroperabilityRecord: "guidelines/",
	model.TypeDeployableService:      "tools/",
	model.TypeAdapter:                "tools/",
}

// Registrar is implemented by the handle client and by no-op registrars.
type Registrar interface {
	Register(ctx context.Context, pid, resourceType string) error
}

// Noop accepts every registration without calling out.
type Noop struct{}

func (Noop) Register(context.Context, string, string) error { return nil }

// HandleValue is one entry of a handle record.
type HandleValue struct {
	Index int        `json:"index"`
	Type  string     `json:"type"`
	Data  HandleData `json:"data"`
}

type HandleData struct {
	Format string      `json:"format"`
	Value  interface{} `json:"value"`
}

type adminValue struct {
	Handle      string `json:"handle"`
	Index       string `json:"index"`
	Permissions string `json:"permissions"`
}

// Handle is the body of a handle record.
type Handle struct {
	ResponseCode int           `json:"responseCode,omitempty"`
	Handle       string        `json:"handle,omitempty"`
	Values       []HandleValue `json:"values"`
}

// Client talks to the handle service over HTTP.
type Client struct {
	client   *resty.Client
	cfg      common.PIDConfig
	endpoint string
}

// NewClient builds a client. A nil httpClient uses a client with a 30s timeout.
func NewClient(cfg common.PIDConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	endpoint := cfg.Endpoint
	if endpoint != "" && !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}
	c := &Client{
		client:   resty.NewWithClient(httpClient),
		cfg:      cfg,
		endpoint: endpoint,
	}
	c.client.SetBasicAuth(cfg.User, cfg.Password)
	c.client.SetHeader("Content-Type", "application/json")

	c.client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		l := log.L(req.Context())
		l.Infof("==> %s %s", req.Method, req.URL)
		return nil
	})
	c.client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		if resp == nil {
			return nil
		}
		l := log.L(resp.Request.Context())
		l.Infof("<== %s %s [%d] (%.2fms)", resp.Request.Method, resp.Request.URL, resp.StatusCode(), float64(resp.Time().Microseconds())/1000.0)
		return nil
	})
	return c
}

func (c *Client) handleURL(pid string) string {
	return c.endpoint + "api/handles/" + pid
}

// Values builds the handle record of pid for a resource type.
func (c *Client) Values(pid, resourceType string) []HandleValue {
	values := []HandleValue{
		{
			Index: 100,
			Type:  "HS_ADMIN",
			Data: HandleData{Format: "admin", Value: adminValue{
				Handle:      c.cfg.User,
				Index:       c.cfg.UserIndex,
				Permissions: adminPermissions,
			}},
		},
		{Index: 1, Type: "id", Data: HandleData{Format: "string", Value: pid}},
	}
	if c.cfg.MarketplaceEndpoint != "" {
		values = append(values, HandleValue{
			Index: 2,
			Type:  "url",
			Data:  HandleData{Format: "string", Value: c.cfg.MarketplaceEndpoint + kindPaths[resourceType] + pid},
		})
	}
	return values
}

// Register creates or replaces the handle record of pid.
func (c *Client) Register(ctx context.Context, pid, resourceType string) error {
	res, err := c.client.R().
		SetContext(ctx).
		SetBody(&Handle{Values: c.Values(pid, resourceType)}).
		Put(c.handleURL(pid))
	if err != nil {
		return fmt.Errorf("register pid %s: %w", pid, err)
	}
	if !res.IsSuccess() {
		return wrapRestErr(res, "register pid "+pid)
	}
	log.L(ctx).Infof("Resource with ID [%s] has been posted with PID [%s]", pid, pid)
	return nil
}

// Resolve fetches the handle record of pid.
func (c *Client) Resolve(ctx context.Context, pid string) (*Handle, error) {
	var h Handle
	res, err := c.client.R().
		SetContext(ctx).
		SetResult(&h).
		Get(c.handleURL(pid))
	if err != nil {
		return nil, fmt.Errorf("resolve pid %s: %w", pid, err)
	}
	if res.StatusCode() == http.StatusNotFound {
		return nil, common.NewErrNotFound(pid)
	}
	if !res.IsSuccess() {
		return nil, wrapRestErr(res, "resolve pid "+pid)
	}
	return &h, nil
}

func wrapRestErr(res *resty.Response, op string) error {
	body := res.String()
	if len(body) > 256 {
		body = body[:256] + "..."
	}
	return fmt.Errorf("%s failed with status %d: %s", op, res.StatusCode(), body)
}
