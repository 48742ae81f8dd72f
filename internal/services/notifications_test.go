// notifications_test.go
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
	"fmt"
	"testing"

	"github.com/localnerve/inventario/internal/models"
	"github.com/localnerve/inventario/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) notify(t *testing.T, recipient *models.User, message string) *models.Notification {
	t.Helper()
	n, err := CreateNotification(f.ctx, f.db, NotificationInput{
		RecipientID: recipient.ID,
		Type:        models.NotificationSystem,
		Message:     message,
	})
	require.NoError(t, err)
	return n
}

func TestCreateNotificationValidation(t *testing.T) {
	f := newFixture(t)

	_, err := CreateNotification(f.ctx, f.db, NotificationInput{Message: "hi"})
	assert.True(t, types.IsType(err, types.TypeValidation))

	_, err = CreateNotification(f.ctx, f.db, NotificationInput{RecipientID: f.user.ID, Message: "  "})
	assert.True(t, types.IsType(err, types.TypeValidation))

	_, err = CreateNotification(f.ctx, f.db, NotificationInput{RecipientID: f.user.ID, Message: "hi", Type: "carrier-pigeon"})
	assert.True(t, types.IsType(err, types.TypeValidation))

	n, err := CreateNotification(f.ctx, f.db, NotificationInput{RecipientID: f.user.ID, Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, models.NotificationGeneral, n.Type)
	assert.Nil(t, n.SenderID)
}

func TestListNotificationsPaginates(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 5; i++ {
		f.notify(t, f.user, fmt.Sprintf("message %d", i))
	}
	f.notify(t, f.admin, "for someone else")

	page, err := ListNotifications(f.ctx, f.db, f.user.ID, 1, 2)
	require.NoError(t, err)
	require.Len(t, page.Notifications, 2)
	assert.Equal(t, "message 4", page.Notifications[0].Message)
	assert.Equal(t, "message 3", page.Notifications[1].Message)
	assert.Equal(t, Pagination{CurrentPage: 1, TotalPages: 3, TotalItems: 5, ItemsPerPage: 2}, page.Pagination)

	page, err = ListNotifications(f.ctx, f.db, f.user.ID, 3, 2)
	require.NoError(t, err)
	require.Len(t, page.Notifications, 1)
	assert.Equal(t, "message 0", page.Notifications[0].Message)

	page, err = ListNotifications(f.ctx, f.db, f.user.ID, 0, 500)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Pagination.CurrentPage)
	assert.Equal(t, maxNotificationLimit, page.Pagination.ItemsPerPage)

	page, err = ListNotifications(f.ctx, f.db, f.user.ID, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, defaultNotificationLimit, page.Pagination.ItemsPerPage)
}

func TestMarkNotificationRead(t *testing.T) {
	f := newFixture(t)
	n := f.notify(t, f.user, "read me")
	f.notify(t, f.user, "leave me")

	count, err := UnreadCount(f.ctx, f.db, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	read, err := MarkNotificationRead(f.ctx, f.db, n.ID, f.user.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)
	require.NotNil(t, read.ReadAt)
	firstReadAt := *read.ReadAt

	again, err := MarkNotificationRead(f.ctx, f.db, n.ID, f.user.ID)
	require.NoError(t, err)
	assert.True(t, again.IsRead)
	require.NotNil(t, again.ReadAt)
	assert.True(t, firstReadAt.Equal(*again.ReadAt))

	count, err = UnreadCount(f.ctx, f.db, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestNotificationOwnership(t *testing.T) {
	f := newFixture(t)
	n := f.notify(t, f.user, "private")

	_, err := MarkNotificationRead(f.ctx, f.db, n.ID, f.admin.ID)
	assert.True(t, types.IsType(err, types.TypeNotFound))

	_, err = DeleteNotification(f.ctx, f.db, n.ID, f.admin.ID)
	assert.True(t, types.IsType(err, types.TypeNotFound))

	var stored models.Notification
	require.NoError(t, f.db.First(&stored, n.ID).Error)
	assert.False(t, stored.IsRead)
}

func TestMarkAllAndDelete(t *testing.T) {
	f := newFixture(t)
	first := f.notify(t, f.user, "one")
	f.notify(t, f.user, "two")
	f.notify(t, f.admin, "untouched")

	_, err := MarkNotificationRead(f.ctx, f.db, first.ID, f.user.ID)
	require.NoError(t, err)

	changed, err := MarkAllNotificationsRead(f.ctx, f.db, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	count, err := UnreadCount(f.ctx, f.db, f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	deleted, err := DeleteNotification(f.ctx, f.db, first.ID, f.user.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = DeleteNotification(f.ctx, f.db, first.ID, f.user.ID)
	assert.True(t, types.IsType(err, types.TypeNotFound))

	page, err := ListNotifications(f.ctx, f.db, f.user.ID, 1, 10)
	require.NoError(t, err)
	assert.Len(t, page.Notifications, 1)
}
