package connectivity

import (
	"context"
	"testing"
	"time"
)

type fakeProber struct {
	hasInterface bool
	reachable    bool
}

func (p *fakeProber) HasInterface() bool                 { return p.hasInterface }
func (p *fakeProber) Reachable(ctx context.Context) bool { return p.reachable }

type fakeSink struct {
	states []bool
}

func (s *fakeSink) SetOnline(online bool) { s.states = append(s.states, online) }

func drainEvents(m *Monitor) int {
	count := 0
	for {
		select {
		case <-m.Online():
			count++
		default:
			return count
		}
	}
}

func TestMonitor_OfflineToOnlineRaisesOneEvent(t *testing.T) {
	prober := &fakeProber{hasInterface: false, reachable: false}
	sink := &fakeSink{}
	m := NewMonitor(prober, sink, time.Minute)
	ctx := context.Background()

	m.probe(ctx)
	if got := drainEvents(m); got != 0 {
		t.Fatalf("events while offline = %d, want 0", got)
	}

	prober.hasInterface = true
	prober.reachable = true
	m.probe(ctx)

	if got := drainEvents(m); got != 1 {
		t.Errorf("events after transition = %d, want exactly 1", got)
	}
	if len(sink.states) != 2 || sink.states[0] != false || sink.states[1] != true {
		t.Errorf("sink states = %v, want [false true]", sink.states)
	}
}

func TestMonitor_DebouncesDuplicateOnlineSignals(t *testing.T) {
	prober := &fakeProber{hasInterface: true, reachable: true}
	sink := &fakeSink{}
	m := NewMonitor(prober, sink, time.Minute)
	ctx := context.Background()

	// A flapping platform may deliver the same "online" signal repeatedly
	m.probe(ctx)
	m.probe(ctx)
	m.probe(ctx)

	if got := drainEvents(m); got != 1 {
		t.Errorf("events after duplicate signals = %d, want 1", got)
	}
	if len(sink.states) != 1 {
		t.Errorf("sink updates = %d, want 1 (transitions only)", len(sink.states))
	}
}

func TestMonitor_CaptivePortalCountsAsOffline(t *testing.T) {
	// Interface up but internet unreachable
	prober := &fakeProber{hasInterface: true, reachable: false}
	sink := &fakeSink{}
	m := NewMonitor(prober, sink, time.Minute)

	m.probe(context.Background())

	if got := drainEvents(m); got != 0 {
		t.Errorf("events = %d, want 0", got)
	}
	if len(sink.states) != 1 || sink.states[0] != false {
		t.Errorf("sink states = %v, want [false]", sink.states)
	}
}

func TestMonitor_EventBufferCoalescesStorm(t *testing.T) {
	prober := &fakeProber{hasInterface: true, reachable: true}
	m := NewMonitor(prober, &fakeSink{}, time.Minute)
	ctx := context.Background()

	// online → offline → online twice with nobody consuming: pending
	// triggers coalesce into one
	m.probe(ctx)
	prober.reachable = false
	m.probe(ctx)
	prober.reachable = true
	m.probe(ctx)

	if got := drainEvents(m); got != 1 {
		t.Errorf("pending events = %d, want 1 (coalesced)", got)
	}
}

func TestMonitor_RunStopsOnCancel(t *testing.T) {
	prober := &fakeProber{}
	m := NewMonitor(prober, &fakeSink{}, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}
}
