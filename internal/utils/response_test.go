// response_test.go
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

package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/inventario/internal/logging"
	"github.com/localnerve/inventario/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	logging.SetOutput(io.Discard)

	tests := []struct {
		name   string
		err    error
		status int
		want   ErrorResponseStruct
	}{
		{
			name:   "custom error keeps fields",
			err:    types.NewFieldError("sku", "is required"),
			status: http.StatusBadRequest,
			want:   ErrorResponseStruct{Error: "is required", Type: types.TypeValidation, Fields: map[string]string{"sku": "is required"}},
		},
		{
			name:   "wrapped custom error",
			err:    errors.Join(errors.New("context"), types.NewNotFoundError("product 1 not found")),
			status: http.StatusNotFound,
			want:   ErrorResponseStruct{Error: "product 1 not found", Type: types.TypeNotFound},
		},
		{
			name:   "fiber error",
			err:    fiber.NewError(http.StatusMethodNotAllowed, "Method Not Allowed"),
			status: http.StatusMethodNotAllowed,
			want:   ErrorResponseStruct{Error: "Method Not Allowed", Type: "http"},
		},
		{
			name:   "anything else is hidden",
			err:    errors.New("dial tcp: connection refused"),
			status: http.StatusInternalServerError,
			want:   ErrorResponseStruct{Error: "internal server error", Type: types.TypeInternal},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return HandleError(c, tt.err)
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var got ErrorResponseStruct
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPingService(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	require.NoError(t, PingService("tcp://"+listener.Addr().String(), time.Second))

	addr := listener.Addr().String()
	require.NoError(t, listener.Close())
	assert.Error(t, PingService("tcp://"+addr, 200*time.Millisecond))
	assert.Error(t, PingService("://bad", time.Second))
}
