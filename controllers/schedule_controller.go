package controller

import (
	"github.com/gofiber/fiber/v2"

	"tripplanner/middleware"
	"tripplanner/services"
	"tripplanner/utils"
)

type ScheduleController struct {
	Service *services.ScheduleService
}

func NewScheduleController(service *services.ScheduleService) *ScheduleController {
	return &ScheduleController{Service: service}
}

// ListSchedule serves ?userId&date
func (sc *ScheduleController) ListSchedule(c *fiber.Ctx) error {
	query := services.ScheduleQuery{Date: c.Query("date")}
	if raw := c.Query("userId"); raw != "" {
		userID, err := utils.ParseID(raw, "userId")
		if err != nil {
			return err
		}
		query.UserID = userID
	}

	rows, err := sc.Service.List(c.UserContext(), middleware.CurrentUser(c), c.Params("slug"), query)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"schedule": rows})
}

func (sc *ScheduleController) CreateSchedule(c *fiber.Ctx) error {
	var input services.CreateScheduleInput
	if err := utils.ParseBody(c, &input); err != nil {
		return err
	}

	row, err := sc.Service.Create(c.UserContext(), middleware.CurrentUser(c), c.Params("slug"), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"schedule": row})
}

func (sc *ScheduleController) UpdateSchedule(c *fiber.Ctx) error {
	scheduleID, err := utils.ParamID(c, "scheduleId")
	if err != nil {
		return err
	}

	var input services.UpdateScheduleInput
	if err := utils.ParseBody(c, &input); err != nil {
		return err
	}

	row, err := sc.Service.Update(c.UserContext(), middleware.CurrentUser(c), c.Params("slug"), scheduleID, input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"schedule": row})
}

func (sc *ScheduleController) DeleteSchedule(c *fiber.Ctx) error {
	scheduleID, err := utils.ParamID(c, "scheduleId")
	if err != nil {
		return err
	}

	if err := sc.Service.Delete(c.UserContext(), middleware.CurrentUser(c), c.Params("slug"), scheduleID); err != nil {
		return err
	}
	return utils.MessageResponse(c, fiber.StatusOK, "Schedule entry deleted")
}
