package controller

import (
	"pws-mentor-be/internal/dto"
	"pws-mentor-be/internal/pkg/serverutils"
	"pws-mentor-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IKnowledgeController interface {
	RegisterRoutes(r fiber.Router)
	Ingest(ctx *fiber.Ctx) error
	Reindex(ctx *fiber.Ctx) error
	Count(ctx *fiber.Ctx) error
}

type knowledgeController struct {
	knowledgeService service.IKnowledgeService
}

func NewKnowledgeController(knowledgeService service.IKnowledgeService) IKnowledgeController {
	return &knowledgeController{
		knowledgeService: knowledgeService,
	}
}

func (c *knowledgeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/knowledge/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("ingest", c.Ingest)
	h.Post("reindex", c.Reindex)
	h.Get("count", c.Count)
}

func (c *knowledgeController) Ingest(ctx *fiber.Ctx) error {
	var req dto.IngestDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.knowledgeService.IngestDocument(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success ingest document", res))
}

func (c *knowledgeController) Reindex(ctx *fiber.Ctx) error {
	source := ctx.Query("source")
	if source == "" {
		return fiber.NewError(fiber.StatusBadRequest, "source query param is required")
	}

	count, err := c.knowledgeService.ReindexSource(ctx.Context(), source)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success queue reindex", fiber.Map{"queued": count}))
}

func (c *knowledgeController) Count(ctx *fiber.Ctx) error {
	count, err := c.knowledgeService.CountChunks(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success count chunks", fiber.Map{"count": count}))
}
