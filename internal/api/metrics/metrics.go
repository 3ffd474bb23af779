// Package metrics defines and registers all custom Prometheus metrics for the
// storefront service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register themselves with the default Prometheus registry via
// promauto at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── Cart reconciliation metrics ───────────────────────────────────────────────

// CartFetchTotal counts remote cart fetches.
// Label:
//   - result: "success" or "error"
var CartFetchTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_fetch_total",
		Help:      "Total number of remote cart fetches, by result.",
	},
	[]string{"result"},
)

// CartFetchRetriesTotal counts the bounded cart re-fetches.
// Label:
//   - reason: "authorization" (401 on first attempt) or "empty_snapshot"
//     (fresh remote load came back empty)
var CartFetchRetriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_fetch_retries_total",
		Help:      "Total number of bounded cart fetch retries, by reason.",
	},
	[]string{"reason"},
)

// CartTransitionsTotal counts reconciler phase transitions.
// Labels:
//   - from, to: reconciler phase names (e.g. "uninitialized", "remote_loaded")
var CartTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_transitions_total",
		Help:      "Total number of cart reconciler phase transitions.",
	},
	[]string{"from", "to"},
)

// CartFetchDuration measures how long a remote cart fetch takes end-to-end,
// including the single authorization retry when it happens.
// Label:
//   - result: "success" or "error"
var CartFetchDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "cart_fetch_duration_seconds",
		Help:      "Duration of remote cart fetches from request to snapshot replacement.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"result"},
)

// GuestCartMutationsTotal counts local guest-mode cart edits.
// Label:
//   - op: "add", "remove", or "update"
var GuestCartMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guest_cart_mutations_total",
		Help:      "Total number of guest-mode cart mutations, by operation.",
	},
	[]string{"op"},
)

// ── Order metrics ─────────────────────────────────────────────────────────────

// OrdersCreatedTotal counts orders placed at checkout.
var OrdersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders created at checkout.",
	},
)
