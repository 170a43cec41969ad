package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pedro17pedroo/tts-sub001/internal/api/dto"
	"github.com/pedro17pedroo/tts-sub001/internal/service"
	apperrors "github.com/pedro17pedroo/tts-sub001/pkg/util"
)

// SlaHandler manages SLA config, alert and report endpoints.
type SlaHandler struct {
	service *service.SlaService
}

// NewSlaHandler constructs handler.
func NewSlaHandler(slaService *service.SlaService) *SlaHandler {
	return &SlaHandler{service: slaService}
}

// CreateConfig POST /sla/configs.
func (h *SlaHandler) CreateConfig(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateSlaConfigRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	cfg, err := h.service.CreateConfig(c.UserContext(), principal.TenantID, service.SlaConfigInput{
		Priority:             req.Priority,
		CategoryID:           req.CategoryID,
		FirstResponseMinutes: req.FirstResponseMinutes,
		ResolutionMinutes:    req.ResolutionMinutes,
		BusinessHoursStart:   req.BusinessHoursStart,
		BusinessHoursEnd:     req.BusinessHoursEnd,
		BusinessDays:         req.BusinessDays,
		Timezone:             req.Timezone,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.SlaConfigFromDomain(cfg)})
}

// ListConfigs GET /sla/configs.
func (h *SlaHandler) ListConfigs(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	configs, err := h.service.ListConfigs(c.UserContext(), principal.TenantID)
	if err != nil {
		return err
	}
	items := make([]dto.SlaConfigResponse, 0, len(configs))
	for i := range configs {
		items = append(items, dto.SlaConfigFromDomain(&configs[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetConfig GET /sla/configs/:id.
func (h *SlaHandler) GetConfig(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	cfg, err := h.service.GetConfig(c.UserContext(), principal.TenantID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SlaConfigFromDomain(cfg)})
}

// UpdateConfig PATCH /sla/configs/:id.
func (h *SlaHandler) UpdateConfig(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateSlaConfigRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	cfg, err := h.service.UpdateConfig(c.UserContext(), principal.TenantID, c.Params("id"), service.SlaConfigUpdate{
		FirstResponseMinutes: req.FirstResponseMinutes,
		ResolutionMinutes:    req.ResolutionMinutes,
		BusinessHoursStart:   req.BusinessHoursStart,
		BusinessHoursEnd:     req.BusinessHoursEnd,
		BusinessDays:         req.BusinessDays,
		Timezone:             req.Timezone,
		IsActive:             req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SlaConfigFromDomain(cfg)})
}

// DeactivateConfig DELETE /sla/configs/:id.
func (h *SlaHandler) DeactivateConfig(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	if err := h.service.DeactivateConfig(c.UserContext(), principal.TenantID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListAlerts GET /sla/alerts.
func (h *SlaHandler) ListAlerts(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	alerts, err := h.service.ListOpenAlerts(c.UserContext(), principal.TenantID)
	if err != nil {
		return err
	}
	items := make([]dto.SlaAlertResponse, 0, len(alerts))
	for i := range alerts {
		items = append(items, dto.SlaAlertFromDomain(&alerts[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ResolveAlert POST /sla/alerts/:id/resolve.
func (h *SlaHandler) ResolveAlert(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	if err := h.service.ResolveAlert(c.UserContext(), principal.TenantID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Report GET /sla/reports?start_date=...&end_date=...
func (h *SlaHandler) Report(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	start := parseTime(c.Query("start_date"))
	end := parseTime(c.Query("end_date"))
	if start == nil || end == nil {
		return apperrors.NewValidationError("start_date and end_date required (RFC 3339)", nil)
	}
	if end.Before(*start) {
		return apperrors.NewValidationError("end_date must not precede start_date", nil)
	}

	report, err := h.service.Report(c.UserContext(), principal.TenantID, *start, *end)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SlaReportFromDomain(report)})
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}
