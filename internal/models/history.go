// history.go
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
)

// History actions
const (
	ActionCreate     = "CREATE"
	ActionUpdate     = "UPDATE"
	ActionDelete     = "DELETE"
	ActionBulkUpdate = "BULK_UPDATE"
	ActionRevert     = "REVERT"
)

// ProductHistory is one immutable entry of the product audit trail.
// ProductID carries no foreign key constraint so entries outlive deleted products.
type ProductHistory struct {
	ID              uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID       string    `gorm:"column:product_id;type:char(36);not null;index" json:"productId"`
	Action          string    `gorm:"size:32;not null" json:"action"`
	OldData         Snapshot  `gorm:"column:old_data" json:"oldData"`
	NewData         Snapshot  `gorm:"column:new_data" json:"newData"`
	ChangedFields   ChangeSet `gorm:"column:changed_fields" json:"changedFields"`
	UserName        string    `gorm:"column:user_name;size:255" json:"userName"`
	UserID          *string   `gorm:"column:user_id;type:char(36);index" json:"userId,omitempty"`
	BulkOperationID *string   `gorm:"column:bulk_operation_id;size:64;index" json:"bulkOperationId,omitempty"`
	CreatedAt       time.Time `gorm:"index" json:"createdAt"`
}

// TableName overrides the table name for ProductHistory
func (ProductHistory) TableName() string {
	return "product_histories"
}
