// Package ws keeps one WebSocket connection per open UI surface and fans
// queue updates out to all of them, so the reception desk, the doctor panel
// and the public display stay in sync without polling each other.
package ws

import (
	"encoding/json"
	"log"

	"github.com/gorilla/websocket"
)

// Client is one connected view.
type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

// Hub tracks connected clients and broadcasts messages to all of them. A Hub
// is constructed in main and injected where broadcasting is needed.
type Hub struct {
	Clients    map[*Client]bool
	Broadcast  chan []byte
	Register   chan *Client
	Unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte, 16),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.Clients[client] = true
		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
			}
		case message := <-h.Broadcast:
			for client := range h.Clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.Clients, client)
				}
			}
		}
	}
}

// BroadcastJSON marshals v and queues it for every client. Best effort: a
// marshal failure is logged, never propagated to queue state.
func (h *Hub) BroadcastJSON(event string, v interface{}) {
	msg, err := json.Marshal(map[string]interface{}{
		"event": event,
		"data":  v,
	})
	if err != nil {
		log.Printf("ws: marshal broadcast: %v", err)
		return
	}
	select {
	case h.Broadcast <- msg:
	default:
		log.Printf("ws: broadcast channel full, dropping %s", event)
	}
}
