// Package metrics exposes prometheus instrumentation for the remote
// client: outbound request outcomes and lookup-cache effectiveness.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RemoteRequests counts outbound calls to the Zammad API by outcome:
	// ok, rejected (4xx), unavailable (5xx), transport, policy.
	RemoteRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zammad_remote_requests_total",
			Help: "Outbound Zammad API requests by outcome.",
		},
		[]string{"outcome"},
	)

	// CacheHits counts lookup-cache hits by entity kind.
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zammad_lookup_cache_hits_total",
			Help: "Lookup cache hits by entity kind.",
		},
		[]string{"entity"},
	)

	// CacheMisses counts lookup-cache misses by entity kind.
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zammad_lookup_cache_misses_total",
			Help: "Lookup cache misses by entity kind.",
		},
		[]string{"entity"},
	)

	// ToolCalls counts MCP tool invocations by tool name and status.
	ToolCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcp_tool_calls_total",
			Help: "MCP tool invocations by tool and status.",
		},
		[]string{"tool", "status"},
	)
)
