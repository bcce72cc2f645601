package controller

import (
	"github.com/gofiber/fiber/v2"

	"guarded-chat-be/internal/dto"
	"guarded-chat-be/internal/pkg/serverutils"
	"guarded-chat-be/internal/service"
)

// ConnectionCounter reports live chat connections.
type ConnectionCounter interface {
	Count() int
}

type IKnowledgeController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
	ListDocuments(ctx *fiber.Ctx) error
	Verify(ctx *fiber.Ctx) error
}

type knowledgeController struct {
	service     service.IKnowledgeService
	connections ConnectionCounter
	generator   string
	auth        fiber.Handler
}

func NewKnowledgeController(
	service service.IKnowledgeService,
	connections ConnectionCounter,
	generator string,
	auth fiber.Handler,
) IKnowledgeController {
	return &knowledgeController{
		service:     service,
		connections: connections,
		generator:   generator,
		auth:        auth,
	}
}

func (c *knowledgeController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
	r.Get("/knowledge/documents", c.auth, c.ListDocuments)
	r.Post("/grounding/verify", c.auth, c.Verify)
}

func (c *knowledgeController) Health(ctx *fiber.Ctx) error {
	docs, err := c.service.ListDocuments(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("ok", dto.HealthResponse{
		Status:            "ok",
		Documents:         len(docs),
		ActiveConnections: c.connections.Count(),
		Generator:         c.generator,
	}))
}

func (c *knowledgeController) ListDocuments(ctx *fiber.Ctx) error {
	res, err := c.service.ListDocuments(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list knowledge documents", res))
}

// Verify runs the grounding check on an arbitrary query and reply pair.
func (c *knowledgeController) Verify(ctx *fiber.Ctx) error {
	var req dto.VerifyGroundingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Verify(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success verify grounding", res))
}
