// Package handlers contains the fiber HTTP handlers. Handlers parse and
// validate payloads, resolve the tenant from the authenticated principal
// and delegate to services; they never touch repositories directly.
package handlers

import (
	"bytes"
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/pedro17pedroo/tts-sub001/internal/api/dto"
	"github.com/pedro17pedroo/tts-sub001/internal/auth"
	apperrors "github.com/pedro17pedroo/tts-sub001/pkg/util"
)

// parseBody decodes a JSON body strictly and runs struct validation.
// Unknown fields are rejected so a typoed field name fails loudly instead
// of being silently dropped.
func parseBody(c *fiber.Ctx, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperrors.NewValidationError("invalid payload", map[string]any{"body": err.Error()})
	}
	return dto.Validate(dst)
}

// requirePrincipal extracts the authenticated caller or fails.
func requirePrincipal(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal, nil
}
