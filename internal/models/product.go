// product.go
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
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Product categories
const (
	CategoryMissing          = "Faltantes"
	CategoryOnOrder          = "Bajo Pedido"
	CategorySupplierOut      = "Agotados con el Proveedor"
	CategoryOverstock        = "Demasiadas Existencias"
	CategoryDone             = "Realizado"
	CategoryDiscontinued     = "Descontinuado"
	CategoryReplaced         = "Reemplazado"
	DefaultProductImportance = 3
)

// UserCategories can be set by any authenticated user.
var UserCategories = []string{CategoryMissing, CategoryOnOrder, CategorySupplierOut, CategoryOverstock}

// AdminCategories can only be set by admins.
var AdminCategories = []string{CategoryDone, CategoryDiscontinued, CategoryReplaced}

// Product is an inventory item tracked through its restocking lifecycle.
type Product struct {
	ID            string          `gorm:"type:char(36);primaryKey" json:"id"`
	SKU           string          `gorm:"column:sku;size:64;not null;index" json:"sku"`
	Name          string          `gorm:"size:255;not null" json:"name"`
	Quantity      int             `gorm:"not null;default:0" json:"quantity"`
	Category      string          `gorm:"size:64;not null;default:'Faltantes';index" json:"category"`
	Importance    int             `gorm:"not null;default:3" json:"importance"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"purchasePrice"`
	Supplier      string          `gorm:"size:255" json:"supplier"`
	Brand         string          `gorm:"size:255" json:"brand"`
	Ready         bool            `gorm:"not null;default:false" json:"ready"`
	Notes         string          `gorm:"type:text" json:"notes"`
	CreatedBy     string          `gorm:"size:255" json:"createdBy"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// TableName overrides the table name for Product
func (Product) TableName() string {
	return "products"
}

// ProductNote is one entry of the product notes thread.
type ProductNote struct {
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
	Mentions  []string  `json:"mentions"`
}

// productSnapshot lists the fields captured in history snapshots.
type productSnapshot struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Quantity      int             `json:"quantity"`
	Category      string          `json:"category"`
	Importance    int             `json:"importance"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	Supplier      string          `json:"supplier"`
	Brand         string          `json:"brand"`
	Ready         bool            `json:"ready"`
	Notes         string          `json:"notes"`
	CreatedBy     string          `json:"createdBy"`
}

// Snapshot captures the product's domain fields. Values go through a JSON
// round trip so they compare equal to snapshots read back from the database.
func (p *Product) Snapshot() Snapshot {
	b, err := json.Marshal(productSnapshot{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		Quantity:      p.Quantity,
		Category:      p.Category,
		Importance:    p.Importance,
		PurchasePrice: p.PurchasePrice,
		Supplier:      p.Supplier,
		Brand:         p.Brand,
		Ready:         p.Ready,
		Notes:         p.Notes,
		CreatedBy:     p.CreatedBy,
	})
	if err != nil {
		return nil
	}
	out := Snapshot{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil
	}
	return out
}

// ApplySnapshot overwrites the fields present in s. The id is never changed.
func (p *Product) ApplySnapshot(s Snapshot) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	current := productSnapshot{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		Quantity:      p.Quantity,
		Category:      p.Category,
		Importance:    p.Importance,
		PurchasePrice: p.PurchasePrice,
		Supplier:      p.Supplier,
		Brand:         p.Brand,
		Ready:         p.Ready,
		Notes:         p.Notes,
		CreatedBy:     p.CreatedBy,
	}
	if err := json.Unmarshal(b, &current); err != nil {
		return err
	}
	p.SKU = current.SKU
	p.Name = current.Name
	p.Quantity = current.Quantity
	p.Category = current.Category
	p.Importance = current.Importance
	p.PurchasePrice = current.PurchasePrice
	p.Supplier = current.Supplier
	p.Brand = current.Brand
	p.Ready = current.Ready
	p.Notes = current.Notes
	p.CreatedBy = current.CreatedBy
	return nil
}

// NoteList decodes the notes blob. Legacy plain-text notes become a single entry.
func (p *Product) NoteList() []ProductNote {
	raw := strings.TrimSpace(p.Notes)
	if raw == "" {
		return []ProductNote{}
	}
	var notes []ProductNote
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &notes); err == nil {
			return notes
		}
	}
	return []ProductNote{{Text: p.Notes}}
}

// SetNotes encodes the notes thread back into the blob.
func (p *Product) SetNotes(notes []ProductNote) error {
	b, err := json.Marshal(notes)
	if err != nil {
		return err
	}
	p.Notes = string(b)
	return nil
}

// IsValidCategory reports whether c is one of the known categories.
func IsValidCategory(c string) bool {
	return IsUserCategory(c) || IsAdminCategory(c)
}

// IsUserCategory reports whether c may be set by a non-admin.
func IsUserCategory(c string) bool {
	for _, v := range UserCategories {
		if v == c {
			return true
		}
	}
	return false
}

// IsAdminCategory reports whether c requires the admin role.
func IsAdminCategory(c string) bool {
	for _, v := range AdminCategories {
		if v == c {
			return true
		}
	}
	return false
}

// IsActiveCategory reports whether products in c take part in SKU uniqueness.
func IsActiveCategory(c string) bool {
	return IsUserCategory(c)
}
