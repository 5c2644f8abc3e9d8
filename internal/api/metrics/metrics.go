// Package metrics defines and registers all custom Prometheus metrics for the
// bookstore API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry through promauto
// when the package is first imported.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bookstore"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthFailuresTotal counts rejected requests at the authentication layer.
// Label:
//   - reason: "missing_or_malformed", "invalid_or_expired", "revoked", "invalid_credentials"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of authentication failures, by reason.",
	},
	[]string{"reason"},
)

// LoginsTotal counts successful logins.
var LoginsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of successful logins.",
	},
)

// AccessDeniedTotal counts authenticated requests refused by an authorization check.
// Label:
//   - check: "role" or "ownership"
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of requests refused by the role gate or ownership check.",
	},
	[]string{"check"},
)

// ── Catalog metrics ───────────────────────────────────────────────────────────

// BookMutationsTotal counts successful book writes.
// Label:
//   - op: "create", "edit", "delete", "add_stock"
var BookMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "book_mutations_total",
		Help:      "Total number of successful book mutations, by operation.",
	},
	[]string{"op"},
)

// ImageUploadsTotal counts image upload attempts.
// Labels:
//   - kind: "profile_picture" or "book_image"
//   - result: "ok" or "rejected"
var ImageUploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "image_uploads_total",
		Help:      "Total number of image uploads, by kind and result.",
	},
	[]string{"kind", "result"},
)

// ── Cleaner metrics ───────────────────────────────────────────────────────────

// CleanupTotal counts background deletions of replaced objects.
// Label:
//   - result: "deleted", "failed" or "dropped" (queue full)
var CleanupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "object_cleanup_total",
		Help:      "Total number of replaced-object deletions, by result.",
	},
	[]string{"result"},
)

// CleanupQueueDepth tracks the number of locators waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var CleanupQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "object_cleanup_queue_depth",
		Help:      "Current number of locators pending in each cleaner worker channel.",
	},
	[]string{"worker_id"},
)

// ── HTTP error metrics ────────────────────────────────────────────────────────

// HTTPErrorsTotal counts error responses rendered by the error handler.
// Labels:
//   - code: HTTP status code
//   - kind: the machine-readable error kind, or "internal"
var HTTPErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_errors_total",
		Help:      "Total number of error responses, by status code and error kind.",
	},
	[]string{"code", "kind"},
)
