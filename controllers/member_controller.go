package controller

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"tripplanner/middleware"
	"tripplanner/services"
	"tripplanner/utils"
)

type MemberController struct {
	Service *services.MembershipService
}

func NewMemberController(service *services.MembershipService) *MemberController {
	return &MemberController{Service: service}
}

// ListMembers serves ?limit&after&search
func (mc *MemberController) ListMembers(c *fiber.Ctx) error {
	query := services.ListMembersQuery{
		After:  c.Query("after"),
		Search: c.Query("search"),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return utils.NewValidationError("limit must be a positive integer")
		}
		query.Limit = limit
	}

	page, err := mc.Service.List(c.UserContext(), middleware.CurrentUser(c), c.Params("slug"), query)
	if err != nil {
		return err
	}
	return c.JSON(page)
}

func (mc *MemberController) AddMember(c *fiber.Ctx) error {
	var input services.AddMemberInput
	if err := utils.ParseBody(c, &input); err != nil {
		return err
	}

	result, err := mc.Service.Add(c.UserContext(), middleware.CurrentUser(c), c.Params("slug"), input)
	if err != nil {
		return err
	}

	status := fiber.StatusOK
	if result.Added {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(result)
}

func (mc *MemberController) RemoveMember(c *fiber.Ctx) error {
	userID, err := utils.ParamID(c, "memberId")
	if err != nil {
		return err
	}

	if err := mc.Service.Remove(c.UserContext(), middleware.CurrentUser(c), c.Params("slug"), userID); err != nil {
		return err
	}
	return utils.MessageResponse(c, fiber.StatusOK, "Member removed from group")
}
