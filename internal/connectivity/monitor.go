// Package connectivity tracks whether the remote service is reachable.
// The monitor is the single writer of the online/offline state; everything
// else reads it from the mirror or consumes transition events.
package connectivity

import (
	"context"
	"log/slog"
	"net"
	"time"
)

// Prober answers the two questions that define "online": is there a usable
// network interface, and is the internet actually reachable. A connected
// network behind a captive portal fails the second check and counts as
// offline.
type Prober interface {
	HasInterface() bool
	Reachable(ctx context.Context) bool
}

// StatusSink receives connectivity state updates. *mirror.Mirror satisfies it.
type StatusSink interface {
	SetOnline(online bool)
}

// Monitor polls the prober and raises transition events. Duplicate
// notifications that carry no actual state change are debounced: only a real
// offline-to-online transition produces an event.
type Monitor struct {
	prober   Prober
	sink     StatusSink
	interval time.Duration

	online  bool
	started bool
	events  chan struct{}
}

// NewMonitor creates a Monitor polling at the given interval.
func NewMonitor(prober Prober, sink StatusSink, interval time.Duration) *Monitor {
	return &Monitor{
		prober:   prober,
		sink:     sink,
		interval: interval,
		// Buffer of one: transitions arriving while the orchestrator is
		// mid-pass coalesce into a single pending trigger.
		events: make(chan struct{}, 1),
	}
}

// Online returns the channel that receives one event per transition into
// the online state.
func (m *Monitor) Online() <-chan struct{} {
	return m.events
}

// Run starts the monitor loop. It probes immediately on start, then on each
// tick. Blocks until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	slog.Info("worker started",
		"component", "connectivity",
		"action", "worker_started",
	)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	// Initial explicit poll at startup
	m.probe(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("worker stopped",
				"component", "connectivity",
				"action", "worker_stopped",
				"reason", "context_cancelled",
			)
			return
		case <-ticker.C:
			m.probe(ctx)
		}
	}
}

// probe evaluates the current state and handles transitions.
func (m *Monitor) probe(ctx context.Context) {
	online := m.prober.HasInterface() && m.prober.Reachable(ctx)

	// First observation always publishes; afterwards only transitions do.
	if m.started && online == m.online {
		return
	}
	m.started = true
	m.online = online
	m.sink.SetOnline(online)

	slog.Info("connectivity changed",
		"component", "connectivity",
		"action", "state_transition",
		"online", online,
	)

	if online {
		// Exactly one event per transition; drop if one is already pending.
		select {
		case m.events <- struct{}{}:
		default:
		}
	}
}

// Pinger checks end-to-end reachability of the remote service.
// *remote.Client satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HTTPProber is the default Prober: link state from the OS interface list,
// reachability from a health-endpoint round trip.
type HTTPProber struct {
	pinger Pinger
}

// NewHTTPProber creates a prober that confirms reachability against the
// given service.
func NewHTTPProber(pinger Pinger) *HTTPProber {
	return &HTTPProber{pinger: pinger}
}

// HasInterface reports whether any non-loopback interface is up.
func (p *HTTPProber) HasInterface() bool {
	ifaces, err := net.Interfaces()
	if err != nil {
		return false
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp != 0 && iface.Flags&net.FlagLoopback == 0 {
			return true
		}
	}
	return false
}

// Reachable reports whether the remote service answers a health probe.
func (p *HTTPProber) Reachable(ctx context.Context) bool {
	return p.pinger.Ping(ctx) == nil
}
