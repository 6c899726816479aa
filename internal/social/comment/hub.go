// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeWait bounds a single frame write to a subscriber.
	writeWait = 10 * time.Second
	// pongWait is how long a subscriber may stay silent before it is dropped.
	pongWait = 60 * time.Second
	// pingPeriod must be shorter than pongWait.
	pingPeriod = pongWait * 9 / 10
)

// Publisher receives comment changes for fan-out to live readers.
type Publisher interface {
	Publish(event Event)
}

// subscriber wraps one WebSocket connection.
//
// gorilla/websocket allows one concurrent writer per connection; mu serialises
// broadcasts and keep-alive pings.
type subscriber struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (sub *subscriber) write(messageType int, payload []byte) error {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return sub.conn.WriteMessage(messageType, payload)
}

// Hub fans comment events out to the readers of each chapter.
type Hub struct {
	mu     sync.Mutex
	rooms  map[string]map[*subscriber]struct{}
	logger *slog.Logger
}

// NewHub creates an empty [Hub].
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{rooms: make(map[string]map[*subscriber]struct{}), logger: logger}
}

func (hub *Hub) join(chapterID string, conn *websocket.Conn) *subscriber {
	sub := &subscriber{conn: conn}

	hub.mu.Lock()
	defer hub.mu.Unlock()

	room, ok := hub.rooms[chapterID]
	if !ok {
		room = make(map[*subscriber]struct{})
		hub.rooms[chapterID] = room
	}
	room[sub] = struct{}{}
	return sub
}

// leave removes the subscriber and closes its connection. Safe to call twice.
func (hub *Hub) leave(chapterID string, sub *subscriber) {
	hub.mu.Lock()
	if room, ok := hub.rooms[chapterID]; ok {
		delete(room, sub)
		if len(room) == 0 {
			delete(hub.rooms, chapterID)
		}
	}
	hub.mu.Unlock()

	_ = sub.conn.Close()
}

// Subscribers returns the number of live readers of a chapter.
func (hub *Hub) Subscribers(chapterID string) int {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	return len(hub.rooms[chapterID])
}

// Publish sends the event to every reader of its chapter.
//
// Subscribers whose write fails are dropped. The room is copied first so a
// slow connection never blocks join or leave.
func (hub *Hub) Publish(event Event) {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		hub.logger.Error("comment_event_encode_failed", slog.Any("error", err))
		return
	}

	hub.mu.Lock()
	targets := make([]*subscriber, 0, len(hub.rooms[event.ChapterID]))
	for sub := range hub.rooms[event.ChapterID] {
		targets = append(targets, sub)
	}
	hub.mu.Unlock()

	for _, sub := range targets {
		if err := sub.write(websocket.TextMessage, payload); err != nil {
			hub.logger.Debug("comment_subscriber_dropped",
				slog.String("chapter_id", event.ChapterID),
				slog.Any("error", err),
			)
			hub.leave(event.ChapterID, sub)
		}
	}
}

/*
serve runs a subscriber until the peer goes away.

Description: Reader frames are discarded; the feed is one-way. Pings keep
intermediaries from closing idle connections, and a missing pong drops the
subscriber after pongWait.
*/
func (hub *Hub) serve(chapterID string, conn *websocket.Conn) {
	sub := hub.join(chapterID, conn)
	defer hub.leave(chapterID, sub)

	done := make(chan struct{})
	defer close(done)

	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := sub.write(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
