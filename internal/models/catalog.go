// catalog.go
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

	"github.com/shopspring/decimal"
)

// Supplier is a vendor products are bought from.
type Supplier struct {
	ID          string    `gorm:"type:char(36);primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null;index" json:"name" validate:"required,max=255"`
	ContactName string    `gorm:"size:255" json:"contactName" validate:"max=255"`
	Email       string    `gorm:"size:255" json:"email" validate:"omitempty,email,max=255"`
	Phone       string    `gorm:"size:64" json:"phone" validate:"max=64"`
	Notes       string    `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// OutsourceTechnician is an external technician hired for repairs.
type OutsourceTechnician struct {
	ID         string          `gorm:"type:char(36);primaryKey" json:"id"`
	Name       string          `gorm:"size:255;not null;index" json:"name" validate:"required,max=255"`
	Specialty  string          `gorm:"size:255" json:"specialty" validate:"max=255"`
	Phone      string          `gorm:"size:64" json:"phone" validate:"max=64"`
	Email      string          `gorm:"size:255" json:"email" validate:"omitempty,email,max=255"`
	HourlyRate decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"hourlyRate"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// Transport is a carrier used to move stock.
type Transport struct {
	ID           string    `gorm:"type:char(36);primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null;index" json:"name" validate:"required,max=255"`
	Carrier      string    `gorm:"size:255" json:"carrier" validate:"max=255"`
	VehiclePlate string    `gorm:"size:32" json:"vehiclePlate" validate:"max=32"`
	Phone        string    `gorm:"size:64" json:"phone" validate:"max=64"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TableName overrides the table name for Supplier
func (Supplier) TableName() string {
	return "suppliers"
}

// TableName overrides the table name for OutsourceTechnician
func (OutsourceTechnician) TableName() string {
	return "outsource_technicians"
}

// TableName overrides the table name for Transport
func (Transport) TableName() string {
	return "transports"
}

// GetID and SetID let the catalog service treat all three entities alike.
func (s *Supplier) GetID() string   { return s.ID }
func (s *Supplier) SetID(id string) { s.ID = id }

func (t *OutsourceTechnician) GetID() string   { return t.ID }
func (t *OutsourceTechnician) SetID(id string) { t.ID = id }

func (t *Transport) GetID() string   { return t.ID }
func (t *Transport) SetID(id string) { t.ID = id }
