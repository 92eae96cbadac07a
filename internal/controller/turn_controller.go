package controller

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"pws-mentor-be/internal/dto"
	"pws-mentor-be/internal/pkg/serverutils"
	"pws-mentor-be/internal/service"
)

type ITurnController interface {
	RegisterRoutes(r fiber.Router)
	Stream(ctx *fiber.Ctx) error
}

type turnController struct {
	conversationService service.IConversationService
}

func NewTurnController(conversationService service.IConversationService) ITurnController {
	return &turnController{
		conversationService: conversationService,
	}
}

func (c *turnController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/turn/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("stream", c.Stream)
}

// Stream runs one mentoring turn and streams the reply as server-sent
// events. Text arrives as "chunk" events; a final "record" event carries the
// turn summary. Disconnecting cancels the stream and the partial reply is
// kept with a truncation flag.
func (c *turnController) Stream(ctx *fiber.Ctx) error {
	userId := requestUserId(ctx)

	var req dto.SendTurnRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	// Synchronous failures (validation, unknown session, turn already in
	// flight) surface as regular JSON errors before any bytes stream.
	stream, err := c.conversationService.ProcessTurn(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	ctx.Set("Content-Type", "text/event-stream")
	ctx.Set("Cache-Control", "no-cache")
	ctx.Set("Connection", "keep-alive")
	ctx.Set("X-Accel-Buffering", "no")

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		for text := range stream.Chunks() {
			if err := writeEvent(w, "chunk", dto.TurnChunk{Text: text}); err != nil {
				// Client is gone. Cancel and drain so the turn goroutine can
				// commit the partial reply.
				stream.Cancel()
				for range stream.Chunks() {
				}
				break
			}
		}

		record, err := stream.Record(context.Background())
		if err != nil || record == nil {
			return
		}
		_ = writeEvent(w, "record", record)
	}))

	return nil
}

func writeEvent(w *bufio.Writer, event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	return w.Flush()
}
