// spreadsheet.go
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

// Spreadsheet is an ad-hoc grid owned by a user.
type Spreadsheet struct {
	ID        string              `gorm:"type:char(36);primaryKey" json:"id"`
	Name      string              `gorm:"size:255;not null" json:"name"`
	OwnerID   string              `gorm:"column:owner_id;type:char(36);index" json:"ownerId"`
	Columns   []SpreadsheetColumn `gorm:"foreignKey:SpreadsheetID" json:"columns,omitempty"`
	Rows      []SpreadsheetRow    `gorm:"foreignKey:SpreadsheetID" json:"rows,omitempty"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// SpreadsheetColumn is a named column at a position.
type SpreadsheetColumn struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	SpreadsheetID string    `gorm:"column:spreadsheet_id;type:char(36);not null;index" json:"spreadsheetId"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	Position      int       `gorm:"not null;default:0" json:"position"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// SpreadsheetRow groups the cells of one row.
type SpreadsheetRow struct {
	ID            uint64            `gorm:"primaryKey;autoIncrement" json:"id"`
	SpreadsheetID string            `gorm:"column:spreadsheet_id;type:char(36);not null;index" json:"spreadsheetId"`
	Position      int               `gorm:"not null;default:0" json:"position"`
	Cells         []SpreadsheetCell `gorm:"foreignKey:RowID" json:"cells,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// SpreadsheetCell holds the value at (row, column).
type SpreadsheetCell struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	RowID     uint64    `gorm:"column:row_id;not null;uniqueIndex:idx_cell_position" json:"rowId"`
	ColumnID  uint64    `gorm:"column:column_id;not null;uniqueIndex:idx_cell_position" json:"columnId"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName overrides the table name for Spreadsheet
func (Spreadsheet) TableName() string {
	return "spreadsheets"
}

// TableName overrides the table name for SpreadsheetColumn
func (SpreadsheetColumn) TableName() string {
	return "spreadsheet_columns"
}

// TableName overrides the table name for SpreadsheetRow
func (SpreadsheetRow) TableName() string {
	return "spreadsheet_rows"
}

// TableName overrides the table name for SpreadsheetCell
func (SpreadsheetCell) TableName() string {
	return "spreadsheet_cells"
}
