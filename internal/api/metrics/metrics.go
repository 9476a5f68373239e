// Package metrics defines the custom Prometheus metrics of the admin service.
// It is the single source of truth for metric names, labels and help strings.
// Metrics are registered with the default registry on package init (promauto);
// HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "admin"

// ── Users ─────────────────────────────────────────────────────────────────────

// UsersCreatedTotal counts users persisted through the API.
var UsersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of users created.",
	},
)

// PasswordChangesTotal counts password change attempts.
// Label:
//   - result: "changed", "rejected" (wrong current password, unknown user or invalid new password) or "error"
var PasswordChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_changes_total",
		Help:      "Total number of password change attempts, by result.",
	},
	[]string{"result"},
)

// DefaultRoleProvisionsTotal counts calls that ensured the default role.
// Label:
//   - outcome: "created" (first use), "existing", or "raced" (lost a concurrent insert and re-read)
var DefaultRoleProvisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "default_role_provisions_total",
		Help:      "Total number of default-role provisioning calls, by outcome.",
	},
	[]string{"outcome"},
)

// ── Reference data ────────────────────────────────────────────────────────────

// GeoCacheTotal counts geographic reference cache lookups.
// Label:
//   - result: "hit", "miss" or "error" (cache unavailable, served from storage)
var GeoCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "geo_cache_total",
		Help:      "Total number of geographic cache lookups, by result.",
	},
	[]string{"result"},
)
