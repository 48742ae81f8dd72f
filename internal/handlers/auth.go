// auth.go
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

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/inventario/internal/middleware"
	"github.com/localnerve/inventario/internal/services"
	"github.com/localnerve/inventario/internal/utils"
	"gorm.io/gorm"
)

// AuthHandler handles login, logout and user routes
type AuthHandler struct {
	DB   *gorm.DB
	Auth *middleware.Auth
}

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Login handles POST /api/auth/login
// @Summary Log in
// @Description Starts a session and sets the session cookie.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} models.User
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body LoginRequest
	if err := parseBody(c, &body); err != nil {
		return utils.HandleError(c, err)
	}

	user, err := services.Authenticate(c.UserContext(), h.DB, body.Username, body.Password)
	if err != nil {
		return utils.HandleError(c, err)
	}
	if err := h.Auth.Login(c, user); err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "user": user})
}

// Logout handles POST /api/auth/logout
// @Summary Log out
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.MessageResponseStruct
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.Auth.Logout(c); err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(utils.MessageResponseStruct{Success: true, Message: "Logged out"})
}

// Me handles GET /api/auth/me
// @Summary Current user
// @Tags Auth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "user": middleware.CurrentUser(c)})
}

// CreateUser handles POST /api/users
// @Summary Create a user
// @Tags Users
// @Accept json
// @Produce json
// @Param body body services.CreateUserInput true "User"
// @Success 201 {object} models.User
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /users [post]
func (h *AuthHandler) CreateUser(c *fiber.Ctx) error {
	var input services.CreateUserInput
	if err := parseBody(c, &input); err != nil {
		return utils.HandleError(c, err)
	}
	user, err := services.CreateUser(c.UserContext(), h.DB, input)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "user": user})
}

// SearchUsers handles GET /api/users/search
// @Summary Username autocomplete
// @Description Up to ten active users whose username starts with q.
// @Tags Users
// @Produce json
// @Param q query string true "Username prefix"
// @Success 200 {array} models.User
// @Security CookieAuth
// @Router /users/search [get]
func (h *AuthHandler) SearchUsers(c *fiber.Ctx) error {
	users, err := services.SearchUsers(c.UserContext(), h.DB, c.Query("q"))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "users": users})
}
