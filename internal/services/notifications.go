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

package services

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/localnerve/inventario/internal/logging"
	"github.com/localnerve/inventario/internal/metrics"
	"github.com/localnerve/inventario/internal/models"
	"github.com/localnerve/inventario/internal/types"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/hints"
)

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 50
)

// NotificationInput is what producers hand to CreateNotification.
type NotificationInput struct {
	RecipientID string
	SenderID    string
	Type        string
	Message     string
	RedirectURL string
	Metadata    map[string]interface{}
}

// NotificationPage is one page of a recipient's notifications.
type NotificationPage struct {
	Notifications []models.Notification `json:"notifications"`
	Pagination    Pagination            `json:"pagination"`
}

// CreateNotification stores one notification. The message is stored as given.
func CreateNotification(ctx context.Context, db *gorm.DB, input NotificationInput) (*models.Notification, error) {
	if input.RecipientID == "" {
		return nil, types.NewFieldError("recipientId", "is required")
	}
	if strings.TrimSpace(input.Message) == "" {
		return nil, types.NewFieldError("message", "is required")
	}
	notificationType := input.Type
	if notificationType == "" {
		notificationType = models.NotificationGeneral
	}
	if !models.IsValidNotificationType(notificationType) {
		return nil, types.NewFieldError("type", fmt.Sprintf("unknown notification type %q", notificationType))
	}

	notification := &models.Notification{
		UserID:      input.RecipientID,
		Type:        notificationType,
		Message:     input.Message,
		RedirectURL: input.RedirectURL,
	}
	if input.SenderID != "" {
		senderID := input.SenderID
		notification.SenderID = &senderID
	}
	if input.Metadata != nil {
		notification.Metadata = datatypes.JSONMap(maps.Clone(input.Metadata))
	}

	if err := db.WithContext(ctx).Create(notification).Error; err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	metrics.NotificationsCreated.WithLabelValues(notificationType).Inc()
	return notification, nil
}

// ListNotifications returns a page of userID's notifications, newest first.
func ListNotifications(ctx context.Context, db *gorm.DB, userID string, page, limit int) (*NotificationPage, error) {
	page, limit = clampPage(page, limit, defaultNotificationLimit, maxNotificationLimit)

	var total int64
	items := []models.Notification{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return db.WithContext(gctx).
			Model(&models.Notification{}).
			Where("user_id = ?", userID).
			Count(&total).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).
			Clauses(hints.Comment("select", "list_notifications")).
			Where("user_id = ?", userID).
			Order("created_at DESC").
			Order("id DESC").
			Limit(limit).
			Offset(offset(page, limit)).
			Find(&items).Error
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	return &NotificationPage{
		Notifications: items,
		Pagination:    newPagination(page, limit, total),
	}, nil
}

// UnreadCount returns how many of userID's notifications are unread.
func UnreadCount(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// findOwnedNotification loads a notification only when userID is its recipient.
// Someone else's notification is reported exactly like a missing one.
func findOwnedNotification(ctx context.Context, db *gorm.DB, id uint64, userID string) (*models.Notification, error) {
	var notification models.Notification
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewNotFoundError(fmt.Sprintf("notification %d not found", id))
		}
		return nil, fmt.Errorf("failed to load notification %d: %w", id, err)
	}
	return &notification, nil
}

// MarkNotificationRead flags one notification as read. Marking a read
// notification again returns it unchanged.
func MarkNotificationRead(ctx context.Context, db *gorm.DB, id uint64, userID string) (*models.Notification, error) {
	notification, err := findOwnedNotification(ctx, db, id, userID)
	if err != nil {
		return nil, err
	}
	if notification.IsRead {
		return notification, nil
	}

	now := time.Now().UTC()
	err = db.WithContext(ctx).
		Model(notification).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to mark notification %d read: %w", id, err)
	}
	notification.IsRead = true
	notification.ReadAt = &now
	return notification, nil
}

// MarkAllNotificationsRead flags every unread notification of userID and
// returns how many changed.
func MarkAllNotificationsRead(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	result := db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": time.Now().UTC()})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteNotification removes one of userID's notifications.
func DeleteNotification(ctx context.Context, db *gorm.DB, id uint64, userID string) (bool, error) {
	result := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Notification{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete notification %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return false, types.NewNotFoundError(fmt.Sprintf("notification %d not found", id))
	}

	logging.Debug(ctx).Uint64("notification_id", id).Msg("notification deleted")
	return true, nil
}
