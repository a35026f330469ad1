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

// Package notifications streams catalogue changes to websocket listeners.
package notifications

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/madgik/resource-catalogue-go/internal/common/log"
)

// Actions carried by notifications.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Notification describes one change of a catalogue entry.
type Notification struct {
	ID           string      `json:"id"`
	Topic        string      `json:"topic"`
	ResourceType string      `json:"resourceType"`
	ResourceID   string      `json:"resourceId"`
	Action       string      `json:"action"`
	Timestamp    time.Time   `json:"timestamp"`
	Payload      interface{} `json:"payload,omitempty"`
}

// New builds a notification with topic {resourceType}.{action}.
func New(resourceType, resourceID, action string, payload interface{}) *Notification {
	return &Notification{
		ID:           uuid.NewString(),
		Topic:        resourceType + "." + action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Action:       action,
		Timestamp:    time.Now().UTC(),
		Payload:      payload,
	}
}

// Publisher is implemented by the hub and by no-op publishers.
type Publisher interface {
	Publish(n *Notification)
}

// Discard drops every notification.
type Discard struct{}

func (Discard) Publish(*Notification) {}

// Hub fans notifications out to the connected listeners. A listener whose
// queue is full is disconnected.
type Hub struct {
	ctx       context.Context
	cancelCtx func()
	mux       sync.Mutex
	clients   map[string]*listener
	upgrader  websocket.Upgrader
	queueLen  int
}

func NewHub(ctx context.Context, queueLength int) *Hub {
	if queueLength <= 0 {
		queueLength = 100
	}
	h := &Hub{
		clients:  map[string]*listener{},
		queueLen: queueLength,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// CORS is handled by the router
				return true
			},
		},
	}
	h.ctx, h.cancelCtx = context.WithCancel(log.WithLogField(ctx, "role", "notification-hub"))
	return h
}

// ServeWS upgrades the request and registers the listener. The optional
// topic query parameter restricts the stream to topics with that prefix.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.L(h.ctx).Errorf("WebSocket upgrade failed: %s", err)
		return
	}
	l := newListener(h, conn, r.URL.Query().Get("topic"))
	h.mux.Lock()
	h.clients[l.id] = l
	h.mux.Unlock()
	log.L(l.ctx).Debugf("Listener connected (topic=%q)", l.topic)
}

// Publish queues n for every matching listener without blocking.
func (h *Hub) Publish(n *Notification) {
	h.mux.Lock()
	var slow []*listener
	for _, l := range h.clients {
		if !l.matches(n) {
			continue
		}
		select {
		case l.queue <- n:
		default:
			slow = append(slow, l)
		}
	}
	h.mux.Unlock()
	for _, l := range slow {
		log.L(l.ctx).Warnf("Listener too slow, dropping connection")
		l.close()
	}
}

// Listeners returns the number of connected listeners.
func (h *Hub) Listeners() int {
	h.mux.Lock()
	defer h.mux.Unlock()
	return len(h.clients)
}

// Close disconnects every listener and waits for them to stop.
func (h *Hub) Close() {
	h.cancelCtx()
	h.mux.Lock()
	active := make([]*listener, 0, len(h.clients))
	for _, l := range h.clients {
		active = append(active, l)
	}
	h.mux.Unlock()
	for _, l := range active {
		l.close()
		l.waitClose()
	}
}

func (h *Hub) remove(id string) {
	h.mux.Lock()
	delete(h.clients, id)
	h.mux.Unlock()
}

type listener struct {
	ctx          context.Context
	cancelCtx    func()
	hub          *Hub
	conn         *websocket.Conn
	id           string
	topic        string
	queue        chan *Notification
	senderDone   chan struct{}
	receiverDone chan struct{}
	mux          sync.Mutex
	closed       bool
}

func newListener(h *Hub, conn *websocket.Conn, topic string) *listener {
	id := uuid.NewString()
	ctx, cancel := context.WithCancel(log.WithLogField(h.ctx, "listener", id))
	l := &listener{
		ctx:          ctx,
		cancelCtx:    cancel,
		hub:          h,
		conn:         conn,
		id:           id,
		topic:        topic,
		queue:        make(chan *Notification, h.queueLen),
		senderDone:   make(chan struct{}),
		receiverDone: make(chan struct{}),
	}
	go l.sendLoop()
	go l.receiveLoop()
	return l
}

func (l *listener) matches(n *Notification) bool {
	return l.topic == "" || strings.HasPrefix(n.Topic, l.topic)
}

func (l *listener) sendLoop() {
	defer close(l.senderDone)
	defer l.close()
	for {
		select {
		case n := <-l.queue:
			if err := l.conn.WriteJSON(n); err != nil {
				log.L(l.ctx).Errorf("Write failed on socket: %s", err)
				return
			}
		case <-l.receiverDone:
			return
		case <-l.ctx.Done():
			return
		}
	}
}

// receiveLoop discards inbound messages and detects the peer closing.
func (l *listener) receiveLoop() {
	defer close(l.receiverDone)
	for {
		if _, _, err := l.conn.NextReader(); err != nil {
			log.L(l.ctx).Debugf("Listener closed: %s", err)
			return
		}
	}
}

func (l *listener) close() {
	l.mux.Lock()
	didClose := !l.closed
	if didClose {
		l.closed = true
		_ = l.conn.Close()
		l.cancelCtx()
	}
	l.mux.Unlock()
	if didClose {
		l.hub.remove(l.id)
	}
}

func (l *listener) waitClose() {
	<-l.senderDone
	<-l.receiverDone
}
