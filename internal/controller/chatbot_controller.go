package controller

import (
	"learnandtry-be/internal/dto"
	"learnandtry-be/internal/pkg/serverutils"
	"learnandtry-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatbotController interface {
	RegisterRoutes(r fiber.Router)
	Converse(ctx *fiber.Ctx) error
}

type chatbotController struct {
	conversationService service.IConversationService
}

func NewChatbotController(conversationService service.IConversationService) IChatbotController {
	return &chatbotController{
		conversationService: conversationService,
	}
}

func (c *chatbotController) RegisterRoutes(r fiber.Router) {
	r.Post("chatbot", c.Converse)
}

func (c *chatbotController) Converse(ctx *fiber.Ctx) error {
	var req dto.AdvanceConversationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(conversationError("Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(conversationError(err.Error()))
	}

	res := c.conversationService.Advance(ctx.Context(), &req)
	return ctx.JSON(res)
}

// conversationError keeps a friendly bot message on the reply even when the
// request itself was malformed, so the chat window never goes silent.
func conversationError(detail string) *dto.AdvanceConversationResponse {
	return &dto.AdvanceConversationResponse{
		BotMessage: "I'm sorry, I'm having trouble understanding that. Could you try again?",
		Success:    false,
		Error:      detail,
	}
}
