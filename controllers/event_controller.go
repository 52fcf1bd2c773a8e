package controller

import (
	"github.com/gofiber/fiber/v2"

	"tripplanner/middleware"
	"tripplanner/services"
	"tripplanner/utils"
)

type EventController struct {
	Service *services.EventService
}

func NewEventController(service *services.EventService) *EventController {
	return &EventController{Service: service}
}

func (ec *EventController) CreateEvent(c *fiber.Ctx) error {
	var input services.CreateEventInput
	if err := utils.ParseBody(c, &input); err != nil {
		return err
	}

	event, err := ec.Service.Create(c.UserContext(), middleware.CurrentUser(c), c.Params("slug"), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"event": event})
}

func (ec *EventController) ListEvents(c *fiber.Ctx) error {
	events, err := ec.Service.List(c.UserContext(), middleware.CurrentUser(c), c.Params("slug"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"events": events})
}

func (ec *EventController) UpdateEvent(c *fiber.Ctx) error {
	eventID, err := utils.ParamID(c, "eventId")
	if err != nil {
		return err
	}

	var input services.UpdateEventInput
	if err := utils.ParseBody(c, &input); err != nil {
		return err
	}

	event, err := ec.Service.Update(c.UserContext(), middleware.CurrentUser(c), c.Params("slug"), eventID, input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"event": event})
}

func (ec *EventController) DeleteEvent(c *fiber.Ctx) error {
	eventID, err := utils.ParamID(c, "eventId")
	if err != nil {
		return err
	}

	if err := ec.Service.Delete(c.UserContext(), middleware.CurrentUser(c), c.Params("slug"), eventID); err != nil {
		return err
	}
	return utils.MessageResponse(c, fiber.StatusOK, "Event deleted")
}
