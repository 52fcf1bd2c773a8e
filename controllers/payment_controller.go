package controller

import (
	"github.com/gofiber/fiber/v2"

	"tripplanner/middleware"
	"tripplanner/services"
	"tripplanner/utils"
)

type PaymentController struct {
	Service *services.ExpenseService
}

func NewPaymentController(service *services.ExpenseService) *PaymentController {
	return &PaymentController{Service: service}
}

func (pc *PaymentController) AddPayment(c *fiber.Ctx) error {
	var input services.CreateExpenseInput
	if err := utils.ParseBody(c, &input); err != nil {
		return err
	}

	expense, err := pc.Service.Create(c.UserContext(), middleware.CurrentUser(c), c.Params("slug"), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Expense recorded",
		"expense": expense,
	})
}

func (pc *PaymentController) ListExpenses(c *fiber.Ctx) error {
	expenses, err := pc.Service.List(c.UserContext(), middleware.CurrentUser(c), c.Params("slug"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"expenses": expenses})
}

func (pc *PaymentController) GetBalances(c *fiber.Ctx) error {
	report, err := pc.Service.Balances(c.UserContext(), middleware.CurrentUser(c), c.Params("slug"))
	if err != nil {
		return err
	}
	return c.JSON(report)
}
