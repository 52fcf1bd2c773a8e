package controller

import (
	"github.com/gofiber/fiber/v2"

	"tripplanner/middleware"
	"tripplanner/services"
	"tripplanner/utils"
)

type GroupController struct {
	Service *services.GroupService
}

func NewGroupController(service *services.GroupService) *GroupController {
	return &GroupController{Service: service}
}

func (gc *GroupController) CreateGroup(c *fiber.Ctx) error {
	var input services.CreateGroupInput
	if err := utils.ParseBody(c, &input); err != nil {
		return err
	}

	group, err := gc.Service.Create(c.UserContext(), middleware.CurrentUser(c), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Group created",
		"group":   group,
	})
}

func (gc *GroupController) ListGroups(c *fiber.Ctx) error {
	groups, err := gc.Service.List(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"groups": groups})
}

func (gc *GroupController) GetGroup(c *fiber.Ctx) error {
	group, err := gc.Service.Get(c.UserContext(), middleware.CurrentUser(c), c.Params("slug"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"group": group})
}
