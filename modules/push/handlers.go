package push

import (
	"encoding/json"
	"log"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// ackMessage is written back for every frame a client sends. The socket is
// primarily server-to-client; inbound frames only confirm liveness.
type ackMessage struct {
	Type string          `json:"type"`
	Echo json.RawMessage `json:"echo,omitempty"`
}

// handleWebSocket serves one client connection. The caller has already
// authenticated the user; the resolved user ID is stored in conn locals.
func (m *PushModule) handleWebSocket(c *websocket.Conn) {
	userID, _ := c.Locals("userID").(string)
	if userID == "" {
		_ = c.Close()
		return
	}

	client := &Client{
		ID:     uuid.New().String(),
		UserID: userID,
		Conn:   c,
	}
	m.hub.Register(client)

	defer func() {
		m.hub.Unregister(client)
		_ = c.Close()
	}()

	for {
		_, msgBytes, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[push] WebSocket error for user %s: %v", userID, err)
			}
			return
		}

		ack := ackMessage{Type: "ack", Echo: json.RawMessage(msgBytes)}
		if !json.Valid(msgBytes) {
			// Non-JSON frames are echoed as a JSON string.
			quoted, _ := json.Marshal(string(msgBytes))
			ack.Echo = quoted
		}
		data, err := json.Marshal(ack)
		if err != nil {
			continue
		}
		// Acks share the conn with hub pushes; Write serializes them.
		if err := client.Write(data); err != nil {
			return
		}
	}
}
