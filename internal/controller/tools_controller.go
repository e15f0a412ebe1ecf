package controller

import (
	"learnandtry-be/internal/dto"
	"learnandtry-be/internal/pkg/serverutils"
	"learnandtry-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IToolsController interface {
	RegisterRoutes(r fiber.Router)
	SortTools(ctx *fiber.Ctx) error
}

type toolsController struct {
	rankingService service.IRankingService
}

func NewToolsController(rankingService service.IRankingService) IToolsController {
	return &toolsController{
		rankingService: rankingService,
	}
}

func (c *toolsController) RegisterRoutes(r fiber.Router) {
	r.Post("sort-tools", c.SortTools)
}

func (c *toolsController) SortTools(ctx *fiber.Ctx) error {
	var req dto.SortToolsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(&dto.SortToolsResponse{
			Tools:   []dto.ToolRecord{},
			Success: false,
			Error:   "Invalid request body",
		})
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(&dto.SortToolsResponse{
			Tools:   []dto.ToolRecord{},
			Success: false,
			Error:   err.Error(),
		})
	}

	res := c.rankingService.SortTools(ctx.Context(), &req)
	return ctx.JSON(res)
}
