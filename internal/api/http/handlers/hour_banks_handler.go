package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pedro17pedroo/tts-sub001/internal/api/dto"
	"github.com/pedro17pedroo/tts-sub001/internal/service"
)

// HourBanksHandler manages hour-bank endpoints.
type HourBanksHandler struct {
	service *service.HourBankService
}

// NewHourBanksHandler constructs handler.
func NewHourBanksHandler(hourBankService *service.HourBankService) *HourBanksHandler {
	return &HourBanksHandler{service: hourBankService}
}

// CreateBank POST /hour-banks.
func (h *HourBanksHandler) CreateBank(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateHourBankRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	view, err := h.service.CreateBank(c.UserContext(), principal.TenantID, service.HourBankInput{
		CustomerID: req.CustomerID,
		Name:       req.Name,
		TotalHours: req.TotalHours,
		HourlyRate: req.HourlyRate,
		ExpiresAt:  req.ExpiresAt,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.HourBankFromView(view)})
}

// ListBanks GET /hour-banks?customer_id=...
func (h *HourBanksHandler) ListBanks(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var customerID *string
	if v := c.Query("customer_id"); v != "" {
		customerID = &v
	}
	views, err := h.service.ListBanks(c.UserContext(), principal.TenantID, customerID)
	if err != nil {
		return err
	}
	items := make([]dto.HourBankResponse, 0, len(views))
	for i := range views {
		items = append(items, dto.HourBankFromView(&views[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetBank GET /hour-banks/:id.
func (h *HourBanksHandler) GetBank(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	view, err := h.service.GetBank(c.UserContext(), principal.TenantID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.HourBankFromView(view)})
}
