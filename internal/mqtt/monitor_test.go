package mqtt

import (
	"testing"
	"time"

	"github.com/AaronLay10/nina-sequence-editor/internal/sequence"
)

func testSequence() *sequence.Sequence {
	return sequence.New("Deploy test")
}

func TestMonitor_HandleRegistration(t *testing.T) {
	monitor := NewMonitor(map[string]ObservatorySpec{
		"obs-1": {Required: true},
		"obs-2": {Required: true},
	}, 2.0)

	result := monitor.HandleRegistration(validPayload("obs-1"))
	if !result.Valid {
		t.Fatalf("expected valid registration, got %v", result.Errors)
	}
	state := monitor.State("obs-1")
	if state == nil || !state.Connected || state.HeartbeatSec != 5 {
		t.Errorf("expected connected state with heartbeat 5, got %+v", state)
	}
	if !monitor.Registry().Exists("obs-1") {
		t.Error("expected valid registration to populate the registry")
	}

	if missing := monitor.MissingRequired(); len(missing) != 1 || missing[0] != "obs-2" {
		t.Errorf("expected obs-2 missing, got %v", missing)
	}

	if monitor.HandleRegistration(validPayload("intruder")).Valid {
		t.Error("expected unknown observatory rejected")
	}
	if monitor.Registry().Exists("intruder") || monitor.State("intruder") != nil {
		t.Error("expected rejected observatory not to be tracked")
	}
}

func TestMonitor_HeartbeatTimeout(t *testing.T) {
	monitor := NewMonitor(nil, 2.0)
	now := time.Date(2026, 1, 10, 22, 0, 0, 0, time.UTC)
	monitor.now = func() time.Time { return now }

	monitor.HandleRegistration(validPayload("obs-1"))

	now = now.Add(9 * time.Second)
	monitor.checkHealth()
	if !monitor.State("obs-1").Connected {
		t.Error("expected observatory connected within tolerance")
	}

	now = now.Add(2 * time.Second)
	monitor.checkHealth()
	if monitor.State("obs-1").Connected {
		t.Error("expected observatory disconnected after 2x heartbeat")
	}
	if len(monitor.Connected()) != 0 {
		t.Errorf("expected no connected observatories, got %v", monitor.Connected())
	}

	monitor.Touch("obs-1")
	if !monitor.State("obs-1").Connected {
		t.Error("expected status message to revive observatory")
	}
	if ids := monitor.Connected(); len(ids) != 1 || ids[0] != "obs-1" {
		t.Errorf("expected [obs-1], got %v", ids)
	}

	monitor.Touch("unknown")
	if monitor.State("unknown") != nil {
		t.Error("expected touch of unknown observatory to be ignored")
	}
}

func TestMonitor_StartStop(t *testing.T) {
	monitor := NewMonitor(nil, 0)
	if monitor.tolerance != 2.0 {
		t.Errorf("expected default tolerance 2.0, got %v", monitor.tolerance)
	}
	monitor.Start(10 * time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	monitor.Stop()
}
