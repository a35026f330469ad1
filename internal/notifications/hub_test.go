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

package notifications

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T, svr *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(svr.URL, "http") + "/events" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func waitForListeners(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.Listeners() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d listeners, have %d", n, h.Listeners())
		}
		time.Sleep(time.Millisecond)
	}
}

func TestHubDeliversMatchingTopics(t *testing.T) {
	h := NewHub(context.Background(), 10)
	svr := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	defer svr.Close()
	defer h.Close()

	all := connect(t, svr, "")
	defer all.Close()
	providers := connect(t, svr, "?topic=provider.")
	defer providers.Close()
	waitForListeners(t, h, 2)

	h.Publish(New("service", "ser/1", ActionCreate, nil))
	h.Publish(New("provider", "pro/1", ActionUpdate, map[string]string{"id": "pro/1"}))

	var got Notification
	require.NoError(t, all.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, all.ReadJSON(&got))
	assert.Equal(t, "service.create", got.Topic)
	require.NoError(t, all.ReadJSON(&got))
	assert.Equal(t, "provider.update", got.Topic)

	require.NoError(t, providers.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, providers.ReadJSON(&got))
	assert.Equal(t, "provider.update", got.Topic)
	assert.Equal(t, "pro/1", got.ResourceID)
	assert.NotEmpty(t, got.ID)
}

func TestHubRemovesClosedListeners(t *testing.T) {
	h := NewHub(context.Background(), 1)
	svr := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	defer svr.Close()
	defer h.Close()

	conn := connect(t, svr, "")
	waitForListeners(t, h, 1)
	require.NoError(t, conn.Close())
	waitForListeners(t, h, 0)
}

func TestNewNotification(t *testing.T) {
	n := New("adapter", "ada/1", ActionDelete, nil)
	assert.Equal(t, "adapter.delete", n.Topic)
	assert.Equal(t, ActionDelete, n.Action)
	assert.False(t, n.Timestamp.IsZero())
	Discard{}.Publish(n)
}
