// Package metrics defines and registers all custom Prometheus metrics for the
// Gestora API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry at package init
// via promauto; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gestora"

// ── Task metrics ──────────────────────────────────────────────────────────────

// TasksCreatedTotal counts newly created tasks.
// Label:
//   - path: "admin" (batch-create with responsibles) or "self_service"
var TasksCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_created_total",
		Help:      "Total number of tasks created, by creation path.",
	},
	[]string{"path"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsEnqueuedTotal counts notifications accepted by the dispatcher.
// Label:
//   - kind: notification kind (e.g. "task_assignment", "welcome")
var NotificationsEnqueuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_enqueued_total",
		Help:      "Total number of notifications accepted into the dispatch queue.",
	},
	[]string{"kind"},
)

// NotificationsDroppedTotal counts notifications dropped because a worker
// buffer was full. Dropping is the designed behaviour: enqueue must never
// block the triggering mutation.
var NotificationsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_dropped_total",
		Help:      "Total number of notifications dropped due to full worker buffers.",
	},
)

// NotifyQueueDepth tracks the current number of notifications waiting in each
// worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var NotifyQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notify_queue_depth",
		Help:      "Current number of notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Email metrics ─────────────────────────────────────────────────────────────

// EmailsTotal counts delivery outcomes recorded by the email service.
// Labels:
//   - kind: notification kind
//   - status: "sent" or "failed"
var EmailsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emails_total",
		Help:      "Total number of email delivery attempts, by kind and outcome.",
	},
	[]string{"kind", "status"},
)
