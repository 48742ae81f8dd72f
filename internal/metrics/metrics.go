// metrics.go
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

// Package metrics holds the domain counters exported on /metrics next to the
// HTTP metrics collected by fiberprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HistoryRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "inventario",
		Name:      "history_records_total",
		Help:      "Product history rows written, by action.",
	}, []string{"action"})

	HistoryWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "inventario",
		Name:      "history_write_failures_total",
		Help:      "Product history rows that could not be written.",
	})

	Reverts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "inventario",
		Name:      "reverts_total",
		Help:      "Revert attempts per product, by result.",
	}, []string{"result"})

	NotificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "inventario",
		Name:      "notifications_created_total",
		Help:      "Notifications created, by type.",
	}, []string{"type"})
)
