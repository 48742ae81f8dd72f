// notification.go
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

package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification types
const (
	NotificationMention  = "mention"
	NotificationSystem   = "system"
	NotificationProduct  = "product"
	NotificationSupplier = "supplier"
	NotificationGeneral  = "general"
)

// Notification is an in-app message addressed to one recipient.
// Message is stored as TEXT and never truncated.
type Notification struct {
	ID          uint64            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      string            `gorm:"column:user_id;type:char(36);not null;index:idx_notifications_recipient" json:"recipientId"`
	SenderID    *string           `gorm:"column:sender_id;type:char(36)" json:"senderId,omitempty"`
	Type        string            `gorm:"size:32;not null;default:'general'" json:"type"`
	Message     string            `gorm:"type:text;not null" json:"message"`
	IsRead      bool              `gorm:"not null;default:false;index:idx_notifications_recipient" json:"isRead"`
	ReadAt      *time.Time        `json:"readAt,omitempty"`
	RedirectURL string            `gorm:"column:link;type:text" json:"redirectUrl"`
	Metadata    datatypes.JSONMap `gorm:"column:metadata" json:"metadata"`
	CreatedAt   time.Time         `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// TableName overrides the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}

// IsValidNotificationType reports whether t is a known notification type.
func IsValidNotificationType(t string) bool {
	switch t {
	case NotificationMention, NotificationSystem, NotificationProduct, NotificationSupplier, NotificationGeneral:
		return true
	}
	return false
}
