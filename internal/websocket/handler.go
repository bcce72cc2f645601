package websocket

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/websocket/v2"

	"guarded-chat-be/internal/pkg/logger"
)

// ServeWs runs one connection until the peer goes away. The session is closed,
// cancelling any active turn, before the connection is released.
func ServeWs(hub *Hub, conn *websocket.Conn, userID string, newSession SessionFactory, validate *validator.Validate, log logger.ILogger) {
	client := newClient(hub, conn, userID, validate, log)
	client.session = newSession(client.ID, client)

	if !hub.Register(client) {
		client.session.Close()
		client.shutdown()
		return
	}

	log.Info("WS_CLIENT", "Connection opened", map[string]interface{}{
		"connection_id": client.ID,
		"user_id":       userID,
	})

	writerExited := make(chan struct{})
	go client.writePump(writerExited)
	client.readPump()

	client.session.Close()
	hub.Unregister(client)
	client.close()
	<-writerExited

	log.Info("WS_CLIENT", "Connection closed", map[string]interface{}{
		"connection_id": client.ID,
		"user_id":       userID,
	})
}
