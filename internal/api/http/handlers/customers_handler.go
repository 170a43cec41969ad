package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pedro17pedroo/tts-sub001/internal/api/dto"
	"github.com/pedro17pedroo/tts-sub001/internal/service"
)

// CustomersHandler manages customer registry endpoints.
type CustomersHandler struct {
	service *service.CustomerService
}

// NewCustomersHandler constructs handler.
func NewCustomersHandler(customerService *service.CustomerService) *CustomersHandler {
	return &CustomersHandler{service: customerService}
}

// CreateCustomer POST /customers.
func (h *CustomersHandler) CreateCustomer(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateCustomerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	customer, err := h.service.Create(c.UserContext(), principal.TenantID, service.CustomerInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.CustomerFromDomain(customer)})
}

// ListCustomers GET /customers.
func (h *CustomersHandler) ListCustomers(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	customers, err := h.service.List(c.UserContext(), principal.TenantID)
	if err != nil {
		return err
	}
	items := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		items = append(items, dto.CustomerFromDomain(&customers[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetCustomer GET /customers/:id.
func (h *CustomersHandler) GetCustomer(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	customer, err := h.service.Get(c.UserContext(), principal.TenantID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.CustomerFromDomain(customer)})
}

// UpdateCustomer PATCH /customers/:id.
func (h *CustomersHandler) UpdateCustomer(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateCustomerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	customer, err := h.service.Update(c.UserContext(), principal.TenantID, c.Params("id"), service.CustomerUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		IsActive: req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.CustomerFromDomain(customer)})
}
