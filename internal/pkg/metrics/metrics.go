// Package metrics defines and registers all custom Prometheus metrics for the
// subscription manager. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry on package init through
// promauto; HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "subscriptions"

// ── Assignment lifecycle ──────────────────────────────────────────────────────

// AssignmentEventsTotal counts lifecycle changes applied to assignments.
// Label:
//   - type: "assigned", "renewed", "payment_toggled", "released", "deleted", "cascade_deleted"
var AssignmentEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "assignment_events_total",
		Help:      "Total number of assignment lifecycle changes, by event type.",
	},
	[]string{"type"},
)

// AssignmentRejectionsTotal counts create requests refused by a business rule.
// Label:
//   - reason: "duplicate_active", "in_progress", "profile_not_found", "account_not_found"
var AssignmentRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "assignment_rejections_total",
		Help:      "Total number of assignment creations rejected, by reason.",
	},
	[]string{"reason"},
)

// DoubleBookingsTotal counts assignments created on a profile that already
// had an active assignment. These are allowed but worth watching.
var DoubleBookingsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "double_bookings_total",
		Help:      "Total number of assignments created on an already occupied profile.",
	},
)

// ── Audit trail ───────────────────────────────────────────────────────────────

// AuditEventsTotal counts audit records handled by the dispatcher.
// Label:
//   - result: "stored", "failed", "dropped"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of assignment audit events, labelled by outcome.",
	},
	[]string{"result"},
)

// AuditQueueDepth tracks the number of audit events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Security ──────────────────────────────────────────────────────────────────

// VaultDecryptFailuresTotal counts stored passwords that could not be decrypted.
var VaultDecryptFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "vault_decrypt_failures_total",
		Help:      "Total number of credential decryptions that failed and returned an empty value.",
	},
)

// AdminLoginsTotal counts admin login attempts.
// Label:
//   - result: "success" or "failure"
var AdminLoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_logins_total",
		Help:      "Total number of admin login attempts, by result.",
	},
	[]string{"result"},
)
