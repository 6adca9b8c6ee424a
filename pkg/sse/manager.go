// Package sse streams server-sent events to connected clients, one channel
// per user, so the frontend can follow sync progress live.
package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/gin-gonic/gin"
)

// Event is one message pushed to a user's stream
type Event struct {
	UserID string
	Name   string
	Data   interface{}
}

type client struct {
	userID string
	ch     chan Event
}

// Manager fans events out to every open connection of the target user
type Manager struct {
	register   chan *client
	unregister chan *client
	events     chan Event

	mu      sync.RWMutex
	clients map[*client]struct{}
}

func NewManager() *Manager {
	return &Manager{
		register:   make(chan *client),
		unregister: make(chan *client),
		events:     make(chan Event, 64),
		clients:    make(map[*client]struct{}),
	}
}

// Run processes registrations and event dispatch; call once in a goroutine
func (m *Manager) Run() {
	for {
		select {
		case c := <-m.register:
			m.mu.Lock()
			m.clients[c] = struct{}{}
			m.mu.Unlock()

		case c := <-m.unregister:
			m.mu.Lock()
			if _, ok := m.clients[c]; ok {
				delete(m.clients, c)
				close(c.ch)
			}
			m.mu.Unlock()

		case event := <-m.events:
			m.mu.RLock()
			for c := range m.clients {
				if c.userID != event.UserID {
					continue
				}
				select {
				case c.ch <- event:
				default:
					// Slow consumer, drop the event rather than block the loop
				}
			}
			m.mu.RUnlock()
		}
	}
}

// SendToUser queues an event for every open connection of the user
func (m *Manager) SendToUser(userID, name string, data interface{}) {
	select {
	case m.events <- Event{UserID: userID, Name: name, Data: data}:
	default:
		log.Printf("[SSE] Event queue full, dropping %s event for user %s", name, userID)
	}
}

// ServeHTTP upgrades the gin request to an SSE stream for the user
func (m *Manager) ServeHTTP(c *gin.Context, userID string) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	cl := &client{
		userID: userID,
		ch:     make(chan Event, 16),
	}
	m.register <- cl
	defer func() { m.unregister <- cl }()

	c.Stream(func(w io.Writer) bool {
		event, ok := <-cl.ch
		if !ok {
			return false
		}
		payload, err := json.Marshal(event.Data)
		if err != nil {
			return true
		}
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Name, payload)
		return true
	})
}
