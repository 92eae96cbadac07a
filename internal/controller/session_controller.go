package controller

import (
	"pws-mentor-be/internal/dto"
	"pws-mentor-be/internal/pkg/serverutils"
	"pws-mentor-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	SwitchPersona(ctx *fiber.Ctx) error
	Diagnosis(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Personas(ctx *fiber.Ctx) error
}

type sessionController struct {
	sessionService service.ISessionService
}

func NewSessionController(sessionService service.ISessionService) ISessionController {
	return &sessionController{
		sessionService: sessionService,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session/v1")
	h.Get("personas", c.Personas)
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Get(":id/history", c.History)
	h.Put(":id/persona", c.SwitchPersona)
	h.Get(":id/diagnosis", c.Diagnosis)
	h.Delete(":id", c.Delete)
}

func (c *sessionController) Create(ctx *fiber.Ctx) error {
	userId := requestUserId(ctx)

	var req dto.CreateSessionRequest
	if err := ctx.BodyParser(&req); err != nil && len(ctx.Body()) > 0 {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.CreateSession(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *sessionController) List(ctx *fiber.Ctx) error {
	userId := requestUserId(ctx)

	res, err := c.sessionService.GetAllSessions(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list sessions", res))
}

func (c *sessionController) History(ctx *fiber.Ctx) error {
	userId := requestUserId(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.sessionService.GetHistory(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get history", res))
}

func (c *sessionController) SwitchPersona(ctx *fiber.Ctx) error {
	userId := requestUserId(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	var req dto.SwitchPersonaRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.sessionService.SwitchPersona(ctx.Context(), userId, id, &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success switch persona", nil))
}

func (c *sessionController) Diagnosis(ctx *fiber.Ctx) error {
	userId := requestUserId(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.sessionService.GetDiagnosis(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get diagnosis", res))
}

func (c *sessionController) Delete(ctx *fiber.Ctx) error {
	userId := requestUserId(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	if err := c.sessionService.DeleteSession(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete session", nil))
}

func (c *sessionController) Personas(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success list personas", c.sessionService.ListPersonas()))
}

func requestUserId(ctx *fiber.Ctx) uuid.UUID {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	return userId
}
