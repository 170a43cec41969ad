package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pedro17pedroo/tts-sub001/internal/api/dto"
	"github.com/pedro17pedroo/tts-sub001/internal/service"
)

// TimeEntriesHandler manages time-entry endpoints: timer start/stop and
// manual entries.
type TimeEntriesHandler struct {
	service *service.HourBankService
}

// NewTimeEntriesHandler constructs handler.
func NewTimeEntriesHandler(hourBankService *service.HourBankService) *TimeEntriesHandler {
	return &TimeEntriesHandler{service: hourBankService}
}

// CreateEntry POST /time-entries. With duration_hours the entry is manual
// and debits immediately; without it a timer starts.
func (h *TimeEntriesHandler) CreateEntry(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateTimeEntryRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	view, err := h.service.CreateEntry(c.UserContext(), principal.TenantID, principal.User.ID, service.TimeEntryInput{
		TicketID:      req.TicketID,
		HourBankID:    req.HourBankID,
		StartTime:     req.StartTime,
		DurationHours: req.DurationHours,
		Description:   req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.TimeEntryFromView(view)})
}

// StopEntry PATCH /time-entries/:id. Stopping is the only mutation a time
// entry supports.
func (h *TimeEntriesHandler) StopEntry(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.StopTimeEntryRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}

	view, err := h.service.StopEntry(c.UserContext(), principal.TenantID, c.Params("id"), req.EndTime)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TimeEntryFromView(view)})
}

// ListEntries GET /tickets/:id/time-entries.
func (h *TimeEntriesHandler) ListEntries(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	views, err := h.service.ListEntries(c.UserContext(), principal.TenantID, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.TimeEntryResponse, 0, len(views))
	for i := range views {
		items = append(items, dto.TimeEntryFromView(&views[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
