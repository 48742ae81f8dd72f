// json.go
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
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// jsonColumnType picks the JSON column type for each database driver.
// MSSQL does not support the 'json' data type.
func jsonColumnType(db *gorm.DB) string {
	switch db.Dialector.Name() {
	case "mysql":
		return "JSON"
	case "postgres":
		return "JSONB"
	case "sqlserver", "mssql":
		return "NVARCHAR(MAX)"
	case "sqlite":
		return "JSON"
	}
	return "TEXT"
}

// Snapshot is a full field-map capture of an entity at one point in time.
// A nil Snapshot is stored as SQL NULL.
type Snapshot map[string]any

// Value stores the snapshot as JSON text, or NULL when empty.
func (s Snapshot) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return datatypes.JSONMap(s).Value()
}

// Scan decodes a JSON column into the snapshot; NULL yields a nil snapshot.
func (s *Snapshot) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	var m datatypes.JSONMap
	if err := m.Scan(value); err != nil {
		return err
	}
	if m == nil {
		*s = nil
		return nil
	}
	*s = Snapshot(normalizeNumbers(map[string]any(m)).(map[string]any))
	return nil
}

// GormDataType gives gorm's schema parser a data type for the map kind.
func (Snapshot) GormDataType() string {
	return "json"
}

// GormDBDataType ensures the correct data type is used for each database driver.
func (Snapshot) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return jsonColumnType(db)
}

// normalizeNumbers turns json.Number values produced by datatypes.JSONMap into
// float64 so snapshots read from the database compare equal to freshly built ones.
func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, inner := range t {
			t[k] = normalizeNumbers(inner)
		}
		return t
	case []any:
		for i, inner := range t {
			t[i] = normalizeNumbers(inner)
		}
		return t
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return t.String()
		}
		return f
	}
	return v
}

// FieldChange holds the before and after value of a single field.
type FieldChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// ChangeSet maps a field name to its change.
type ChangeSet map[string]FieldChange

// Value stores the change set as JSON text.
func (c ChangeSet) Value() (driver.Value, error) {
	if c == nil {
		c = ChangeSet{}
	}
	b, err := json.Marshal(map[string]FieldChange(c))
	return string(b), err
}

// Scan decodes a JSON column into the change set.
func (c *ChangeSet) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*c = ChangeSet{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("ChangeSet: unsupported scan type %T", value)
	}
	out := map[string]FieldChange{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*c = ChangeSet(out)
	return nil
}

// GormDataType gives gorm's schema parser a data type for the map kind.
func (ChangeSet) GormDataType() string {
	return "json"
}

// GormDBDataType ensures the correct data type is used for each database driver.
func (ChangeSet) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return jsonColumnType(db)
}
