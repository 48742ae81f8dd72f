// types_test.go
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

package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexIntUnmarshal(t *testing.T) {
	var body struct {
		A FlexInt  `json:"a"`
		B FlexInt  `json:"b"`
		C *FlexInt `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 4, "b": " 12 ", "c": null}`), &body))
	assert.Equal(t, 4, body.A.Int())
	assert.Equal(t, 12, body.B.Int())
	assert.Nil(t, IntPtr(body.C))

	err := json.Unmarshal([]byte(`{"a": "four"}`), &body)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`{"a": true}`), &body)
	assert.Error(t, err)

	out, err := json.Marshal(FlexInt(7))
	require.NoError(t, err)
	assert.Equal(t, "7", string(out))
}

func TestFlexListUnmarshal(t *testing.T) {
	var body struct {
		Mentions FlexList[string] `json:"mentions"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"mentions": "carol"}`), &body))
	assert.Equal(t, []string{"carol"}, body.Mentions.Slice())

	body.Mentions = nil
	require.NoError(t, json.Unmarshal([]byte(`{"mentions": ["a", "b"]}`), &body))
	assert.Equal(t, []string{"a", "b"}, body.Mentions.Slice())

	body.Mentions = nil
	require.NoError(t, json.Unmarshal([]byte(`{"mentions": null}`), &body))
	assert.Empty(t, body.Mentions)
}

func TestFlexListUnmarshalObjects(t *testing.T) {
	type item struct {
		ID       string `json:"id"`
		Quantity int    `json:"quantity"`
	}
	var body struct {
		Items FlexList[item] `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"items": {"id": "p1", "quantity": 2}}`), &body))
	assert.Equal(t, []item{{ID: "p1", Quantity: 2}}, body.Items.Slice())

	body.Items = nil
	require.NoError(t, json.Unmarshal([]byte(`{"items": [{"id": "p1"}, {"id": "p2"}]}`), &body))
	assert.Len(t, body.Items, 2)
	assert.Equal(t, "p2", body.Items[1].ID)
}

func TestCustomErrorMatching(t *testing.T) {
	wrapped := fmt.Errorf("revert: %w", ErrNoPriorState)
	assert.True(t, errors.Is(wrapped, ErrNoPriorState))
	assert.True(t, IsType(wrapped, TypeNoPriorState))

	ce, ok := AsCustomError(wrapped)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, ce.Code)

	notFound := NewNotFoundError("product 1 not found")
	assert.False(t, errors.Is(notFound, ErrNoPriorState))
	assert.Equal(t, http.StatusNotFound, notFound.Code)
	assert.Equal(t, http.StatusConflict, NewConflictError("dup").Code)
	assert.Equal(t, http.StatusForbidden, NewAuthorizationError("no").Code)

	field := NewFieldError("sku", "is required")
	assert.Equal(t, map[string]string{"sku": "is required"}, field.Fields)

	_, ok = AsCustomError(errors.New("plain"))
	assert.False(t, ok)
	assert.False(t, IsType(nil, TypeNotFound))
}
