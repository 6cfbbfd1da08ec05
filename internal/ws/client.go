package ws

import (
	"encoding/json"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2/log"
)

const clientBufferSize = 64

// Client is one websocket connection and its room memberships. The
// rooms set is only touched by the hub's dispatch goroutine.
type Client struct {
	conn  *websocket.Conn
	send  chan []byte
	rooms map[uint]bool
}

type clientCommand struct {
	Action       string `json:"action"`
	InspectionID uint   `json:"inspectionId"`
}

// ServeClient runs a connection until it closes. It is meant to be
// wrapped by websocket.New in the route table.
func (h *Hub) ServeClient(conn *websocket.Conn) {
	client := &Client{
		conn:  conn,
		send:  make(chan []byte, clientBufferSize),
		rooms: make(map[uint]bool),
	}
	h.register <- client

	go client.writeLoop()
	h.readLoop(client)
}

func (h *Hub) readLoop(client *Client) {
	defer func() {
		h.unregister <- client
		client.conn.Close()
	}()

	for {
		_, raw, err := client.conn.ReadMessage()
		if err != nil {
			return
		}
		var cmd clientCommand
		if err := json.Unmarshal(raw, &cmd); err != nil {
			log.Debugf("ignoring malformed client message: %v", err)
			continue
		}
		if cmd.Action == "join-inspection" && cmd.InspectionID != 0 {
			h.join <- joinRequest{client: client, room: cmd.InspectionID}
		}
	}
}

func (c *Client) writeLoop() {
	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, nil)
}
