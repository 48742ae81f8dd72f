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

package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/localnerve/inventario/internal/models"
	"gorm.io/gorm"
)

// CatalogEntity is implemented by the flat admin-managed entities.
type CatalogEntity interface {
	GetID() string
	SetID(id string)
}

// CatalogService is the CRUD shared by suppliers, technicians and
// transports. PT is the pointer type of T.
type CatalogService[T any, PT interface {
	*T
	CatalogEntity
}] struct {
	Label string
}

// The catalog services in use.
var (
	Suppliers   = CatalogService[models.Supplier, *models.Supplier]{Label: "supplier"}
	Technicians = CatalogService[models.OutsourceTechnician, *models.OutsourceTechnician]{Label: "technician"}
	Transports  = CatalogService[models.Transport, *models.Transport]{Label: "transport"}
)

// List returns every entity ordered by name, optionally filtered by a name
// substring.
func (s CatalogService[T, PT]) List(ctx context.Context, db *gorm.DB, search string) ([]T, error) {
	items := []T{}
	query := db.WithContext(ctx).Model(new(T))
	if search = strings.TrimSpace(search); search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if err := query.Order("name").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list %ss: %w", s.Label, err)
	}
	return items, nil
}

// Get loads one entity by id.
func (s CatalogService[T, PT]) Get(ctx context.Context, db *gorm.DB, id string) (*T, error) {
	item := new(T)
	if err := db.WithContext(ctx).Where("id = ?", id).First(item).Error; err != nil {
		return nil, notFoundOr(err, "%s %s not found", s.Label, id)
	}
	return item, nil
}

// Create validates and stores a new entity under a fresh id.
func (s CatalogService[T, PT]) Create(ctx context.Context, db *gorm.DB, item *T) (*T, error) {
	if err := validateStruct(item); err != nil {
		return nil, err
	}
	PT(item).SetID(uuid.NewString())
	if err := db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", s.Label, err)
	}
	return item, nil
}

// Update replaces every writable field of the entity with id.
func (s CatalogService[T, PT]) Update(ctx context.Context, db *gorm.DB, id string, item *T) (*T, error) {
	if err := validateStruct(item); err != nil {
		return nil, err
	}

	existing := new(T)
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(existing).Error; err != nil {
			return notFoundOr(err, "%s %s not found", s.Label, id)
		}
		PT(item).SetID(id)
		if err := tx.Model(existing).Select("*").Omit("ID", "CreatedAt").Updates(item).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(existing).Error
	})
	if err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete removes the entity with id.
func (s CatalogService[T, PT]) Delete(ctx context.Context, db *gorm.DB, id string) error {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if result.Error != nil {
		return fmt.Errorf("failed to delete %s %s: %w", s.Label, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return notFoundOr(gorm.ErrRecordNotFound, "%s %s not found", s.Label, id)
	}
	return nil
}
