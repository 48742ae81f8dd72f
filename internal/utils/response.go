// response.go
//
// Inventory, supplier and product change-history service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of inventario.
// inventario is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// inventario is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with inventario.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/inventario/internal/logging"
	"github.com/localnerve/inventario/internal/types"
)

// SuccessResponse writes data as JSON with status.
func SuccessResponse(c *fiber.Ctx, data interface{}, status int) error {
	return c.Status(status).JSON(data)
}

// ErrorResponse writes the error envelope.
func ErrorResponse(c *fiber.Ctx, message string, status int, errorType string) error {
	return c.Status(status).JSON(ErrorResponseStruct{
		Success: false,
		Error:   message,
		Type:    errorType,
	})
}

// HandleError maps err onto the error envelope. CustomErrors keep their
// status, type and field messages; anything else is logged and reported as a
// generic 500.
func HandleError(c *fiber.Ctx, err error) error {
	var ce *types.CustomError
	if errors.As(err, &ce) {
		return c.Status(ce.Code).JSON(ErrorResponseStruct{
			Success: false,
			Error:   ce.Message,
			Type:    ce.Type,
			Fields:  ce.Fields,
		})
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return ErrorResponse(c, fe.Message, fe.Code, "http")
	}

	logging.Error(c.UserContext()).
		Err(err).
		Str("method", c.Method()).
		Str("url", c.OriginalURL()).
		Msg("request failed")
	return ErrorResponse(c, "internal server error", fiber.StatusInternalServerError, types.TypeInternal)
}

// NotFoundResponse writes a 404 envelope.
func NotFoundResponse(c *fiber.Ctx, message string) error {
	return ErrorResponse(c, message, fiber.StatusNotFound, types.TypeNotFound)
}

// ErrorResponseStruct is the error envelope of every JSON endpoint.
type ErrorResponseStruct struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Type    string            `json:"type,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// MessageResponseStruct is returned by endpoints that only report an outcome.
type MessageResponseStruct struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
