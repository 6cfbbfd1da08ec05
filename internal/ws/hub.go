package ws

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2/log"
)

// Event is the wire envelope for every real-time message.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type message struct {
	room    uint // 0 targets every connected client
	payload []byte
}

type joinRequest struct {
	client *Client
	room   uint
}

// Hub fans inspection events out to subscribed clients. A single
// dispatch goroutine owns all membership state, which also guarantees
// FIFO emission order per channel. Sends never block a mutation: a
// client whose buffer is full is dropped.
type Hub struct {
	clients map[*Client]bool
	rooms   map[uint]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	join       chan joinRequest
	broadcast  chan message
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[uint]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		join:       make(chan joinRequest),
		broadcast:  make(chan message, 256),
		done:       make(chan struct{}),
	}
}

// Run owns the dispatch loop. Call it once, in its own goroutine. It
// returns after Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			return

		case client := <-h.register:
			h.clients[client] = true

		case client := <-h.unregister:
			h.drop(client)

		case req := <-h.join:
			if !h.clients[req.client] {
				continue
			}
			if h.rooms[req.room] == nil {
				h.rooms[req.room] = make(map[*Client]bool)
			}
			h.rooms[req.room][req.client] = true
			req.client.rooms[req.room] = true

		case msg := <-h.broadcast:
			if msg.room == 0 {
				for client := range h.clients {
					h.deliver(client, msg.payload)
				}
				continue
			}
			for client := range h.rooms[msg.room] {
				h.deliver(client, msg.payload)
			}
		}
	}
}

func (h *Hub) deliver(client *Client, payload []byte) {
	select {
	case client.send <- payload:
	default:
		h.drop(client)
	}
}

func (h *Hub) drop(client *Client) {
	if !h.clients[client] {
		return
	}
	delete(h.clients, client)
	for room := range client.rooms {
		delete(h.rooms[room], client)
		if len(h.rooms[room]) == 0 {
			delete(h.rooms, room)
		}
	}
	close(client.send)
}

// Stop terminates the dispatch loop. Call it at most once, during
// application shutdown.
func (h *Hub) Stop() {
	close(h.done)
}

// BroadcastGlobal delivers an event to every connected client.
func (h *Hub) BroadcastGlobal(event string, data interface{}) {
	h.publish(0, event, data)
}

// BroadcastRoom delivers an event to the clients subscribed to one
// inspection's channel.
func (h *Hub) BroadcastRoom(inspectionID uint, event string, data interface{}) {
	h.publish(inspectionID, event, data)
}

func (h *Hub) publish(room uint, event string, data interface{}) {
	payload, err := json.Marshal(Event{Event: event, Data: data})
	if err != nil {
		log.Warnf("dropping %s event: %v", event, err)
		return
	}
	select {
	case h.broadcast <- message{room: room, payload: payload}:
	default:
		log.Warnf("dropping %s event: broadcast queue full", event)
	}
}
