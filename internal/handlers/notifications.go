// notifications.go
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
	"github.com/localnerve/inventario/internal/types"
	"github.com/localnerve/inventario/internal/utils"
	"gorm.io/gorm"
)

// NotificationHandler handles notification routes. Every route works on the
// current user's notifications only.
type NotificationHandler struct {
	DB *gorm.DB
}

// ProcessMentionsRequest is the body of POST /api/notifications/process-mentions
type ProcessMentionsRequest struct {
	Text     string                  `json:"text"`
	Mentions types.FlexList[string]  `json:"mentions"`
	Context  services.MentionContext `json:"context"`
}

// ProcessMentions handles POST /api/notifications/process-mentions
// @Summary Notify mentioned users
// @Description Creates one mention notification per existing @username in text, excluding the sender.
// @Tags Notifications
// @Accept json
// @Produce json
// @Param body body ProcessMentionsRequest true "Mention"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /notifications/process-mentions [post]
func (h *NotificationHandler) ProcessMentions(c *fiber.Ctx) error {
	var body ProcessMentionsRequest
	if err := parseBody(c, &body); err != nil {
		return utils.HandleError(c, err)
	}
	if body.Text == "" {
		return utils.HandleError(c, types.NewFieldError("text", "is required"))
	}

	actor := middleware.CurrentActor(c)
	created, err := services.ProcessMentions(c.UserContext(), h.DB, services.MentionRequest{
		Text:       body.Text,
		SenderID:   actor.ID,
		SenderName: actor.Name,
		Mentions:   body.Mentions.Slice(),
		Context:    body.Context,
	})
	if err != nil {
		return utils.HandleError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":              true,
		"notificationsCreated": len(created),
		"message":              "Mentions processed",
	})
}

// ListNotifications handles GET /api/notifications
// @Summary List notifications
// @Tags Notifications
// @Produce json
// @Param page query int false "Page, from 1"
// @Param limit query int false "Page size, 1 to 50, default 20"
// @Success 200 {object} services.NotificationPage
// @Security CookieAuth
// @Router /notifications [get]
func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	page, err := services.ListNotifications(c.UserContext(), h.DB, user.ID, queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":       true,
		"notifications": page.Notifications,
		"pagination":    page.Pagination,
	})
}

// UnreadCount handles GET /api/notifications/unread-count
// @Summary Unread notification count
// @Tags Notifications
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security CookieAuth
// @Router /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	count, err := services.UnreadCount(c.UserContext(), h.DB, middleware.CurrentUser(c).ID)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "count": count})
}

// MarkRead handles PATCH /api/notifications/:id/read
// @Summary Mark a notification read
// @Tags Notifications
// @Produce json
// @Param id path int true "Notification ID"
// @Success 200 {object} models.Notification
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.HandleError(c, err)
	}
	notification, err := services.MarkNotificationRead(c.UserContext(), h.DB, id, middleware.CurrentUser(c).ID)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "notification": notification})
}

// MarkAllRead handles PATCH /api/notifications/mark-all-read
// @Summary Mark all notifications read
// @Tags Notifications
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security CookieAuth
// @Router /notifications/mark-all-read [patch]
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	count, err := services.MarkAllNotificationsRead(c.UserContext(), h.DB, middleware.CurrentUser(c).ID)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "updated": count})
}

// DeleteNotification handles DELETE /api/notifications/:id
// @Summary Delete a notification
// @Tags Notifications
// @Produce json
// @Param id path int true "Notification ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /notifications/{id} [delete]
func (h *NotificationHandler) DeleteNotification(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.HandleError(c, err)
	}
	if _, err := services.DeleteNotification(c.UserContext(), h.DB, id, middleware.CurrentUser(c).ID); err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(utils.MessageResponseStruct{Success: true, Message: "Notification deleted"})
}
