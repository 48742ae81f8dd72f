// health.go
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
	"net"
	"time"

	"github.com/localnerve/inventario/internal/config"
	"github.com/localnerve/inventario/internal/logging"
	"github.com/localnerve/inventario/internal/utils"
	"gorm.io/gorm"
)

const healthPingTimeout = 1500 * time.Millisecond

type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// HealthCheck pings the database server and the database itself.
func HealthCheck(ctx context.Context, cfg *config.Config, db *gorm.DB) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}
	result.Details["database_type"] = cfg.DBType

	// Network reachability first, file databases have no server
	if cfg.DBType != "sqlite" {
		address := "tcp://" + net.JoinHostPort(cfg.DBHost, cfg.DBPort)
		if err := utils.PingService(address, healthPingTimeout); err != nil {
			result.Status = "unhealthy"
			result.Database = "unreachable"
			result.Details["database_host_error"] = err.Error()
			result.ErrorMessage = fmt.Sprintf("Database host unreachable: %v", err)
			logging.Error(ctx).Err(err).Str("address", address).Msg("health check failed - database host")
			return result
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		result.Status = "unhealthy"
		result.Database = "error"
		result.Details["database_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Database connection error: %v", err)
		logging.Error(ctx).Err(err).Msg("health check failed - database connection")
		return result
	}

	pingCtx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		result.Status = "unhealthy"
		result.Database = "unreachable"
		result.Details["database_ping_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Database ping failed: %v", err)
		logging.Error(ctx).Err(err).Msg("health check failed - database ping")
		return result
	}

	result.Database = "ok"
	result.Details["database_name"] = cfg.DBDatabase
	logging.Debug(ctx).Msg("health check passed")
	return result
}
