package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket upgrades the connection and registers the client against
// the tenant whose board it watches.
func HandleWebSocket(c echo.Context, hub *Hub, userID, tenantID primitive.ObjectID) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &Client{
		UserID:   userID,
		TenantID: tenantID,
		Conn:     conn,
	}

	hub.register <- client

	conn.WriteJSON(Event{
		Type:     "connected",
		Message:  "WebSocket connection established",
		TenantID: tenantID.Hex(),
	})

	// Reader goroutine; clients send nothing meaningful, we just detect
	// disconnects
	go func() {
		defer func() {
			hub.unregister <- client
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()

	return nil
}
