// error.go
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
	"errors"
	"fmt"
	"net/http"
)

// Error types reported in the "type" field of error envelopes
const (
	TypeValidation    = "validation"
	TypeNotFound      = "not_found"
	TypeConflict      = "conflict"
	TypeAuthorization = "authorization"
	TypeNoPriorState  = "history.no_prior_state"
	TypeInternal      = "internal"
)

// CustomError is the single error shape services hand back to handlers.
// Code is the HTTP status the error maps to.
type CustomError struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Type    string            `json:"type"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

// Is matches on Type so errors.Is(err, ErrNoPriorState) works with wrapped copies.
func (e *CustomError) Is(target error) bool {
	t, ok := target.(*CustomError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

// ErrNoPriorState is returned when a history row has nothing to revert to.
var ErrNoPriorState = &CustomError{
	Code:    http.StatusBadRequest,
	Message: "history entry has no prior state to revert to",
	Type:    TypeNoPriorState,
}

// NewValidationError reports malformed input with optional per-field messages.
func NewValidationError(message string, fields map[string]string) *CustomError {
	return &CustomError{Code: http.StatusBadRequest, Message: message, Type: TypeValidation, Fields: fields}
}

// NewFieldError is a shorthand for a validation error on a single field.
func NewFieldError(field, message string) *CustomError {
	return NewValidationError(message, map[string]string{field: message})
}

func NewNotFoundError(message string) *CustomError {
	return &CustomError{Code: http.StatusNotFound, Message: message, Type: TypeNotFound}
}

func NewConflictError(message string) *CustomError {
	return &CustomError{Code: http.StatusConflict, Message: message, Type: TypeConflict}
}

func NewAuthorizationError(message string) *CustomError {
	return &CustomError{Code: http.StatusForbidden, Message: message, Type: TypeAuthorization}
}

// AsCustomError unwraps err into a *CustomError when it carries one.
func AsCustomError(err error) (*CustomError, bool) {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsType reports whether err carries a CustomError of the given type.
func IsType(err error, errorType string) bool {
	ce, ok := AsCustomError(err)
	return ok && ce.Type == errorType
}
