package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"guarded-chat-be/internal/pkg/logger"
	"guarded-chat-be/internal/pkg/serverutils"
	internalWS "guarded-chat-be/internal/websocket"
)

type ChatHandler struct {
	hub        *internalWS.Hub
	newSession internalWS.SessionFactory
	jwtSecret  string
	validate   *validator.Validate
	logger     logger.ILogger
}

func NewChatHandler(
	hub *internalWS.Hub,
	newSession internalWS.SessionFactory,
	jwtSecret string,
	validate *validator.Validate,
	log logger.ILogger,
) *ChatHandler {
	return &ChatHandler{
		hub:        hub,
		newSession: newSession,
		jwtSecret:  jwtSecret,
		validate:   validate,
		logger:     log,
	}
}

func (h *ChatHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/chat/ws", h.ServeWs)
}

// ServeWs upgrades the request to the chat protocol. When a JWT secret is
// configured the handshake must carry a valid token, either as a Bearer header
// or as the "token" query parameter.
func (h *ChatHandler) ServeWs(c *fiber.Ctx) error {
	userID := "anonymous"
	if h.jwtSecret != "" {
		sub, err := serverutils.ParseToken(serverutils.BearerToken(c), h.jwtSecret)
		if err != nil {
			h.logger.Warn("ChatHandler", "Rejected WS handshake", map[string]interface{}{
				"error": err.Error(),
				"ip":    c.IP(),
			})
			return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, err.Error()))
		}
		userID = sub
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	return websocket.New(func(conn *websocket.Conn) {
		internalWS.ServeWs(h.hub, conn, userID, h.newSession, h.validate, h.logger)
	})(c)
}
