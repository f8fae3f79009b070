// Package metrics defines and registers all custom Prometheus metrics for
// the PhotoShare auth core. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register themselves with the default Prometheus registry via
// promauto at package init; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "photoshare"

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "failure" (unknown email or wrong password), or
//     "banned"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RefreshesTotal counts refresh-token redemptions.
// Label:
//   - result: "success", "invalid" (bad token or unknown account), or
//     "replayed" (row already gone — double redemption or revoked session)
var RefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refreshes_total",
		Help:      "Total number of refresh token redemptions, by result.",
	},
	[]string{"result"},
)

// LogoutsTotal counts successful logouts.
var LogoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logouts_total",
		Help:      "Total number of successful logouts.",
	},
)

// ── Resolve metrics ───────────────────────────────────────────────────────────

// ResolveCacheTotal counts principal lookups against the user cache.
// Label:
//   - result: "hit" or "miss"
var ResolveCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resolve_cache_total",
		Help:      "Total number of user cache lookups during resolve, by result.",
	},
	[]string{"result"},
)

// BlacklistHitsTotal counts resolves rejected because the presented access
// token was revoked by logout before its natural expiry.
var BlacklistHitsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "blacklist_hits_total",
		Help:      "Total number of access tokens rejected via the logout blacklist.",
	},
)

// ── Maintenance metrics ───────────────────────────────────────────────────────

// SweptRowsTotal counts expired refresh and blacklist rows removed by the
// periodic sweep.
var SweptRowsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "swept_token_rows_total",
		Help:      "Total number of expired token rows removed by the sweeper.",
	},
)
