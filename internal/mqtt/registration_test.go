package mqtt

import (
	"testing"
)

func TestParseRegistration(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr bool
	}{
		{
			name: "valid v1 registration",
			json: `{
				"version": 1,
				"observatory": {
					"id": "obs-backyard",
					"name": "Backyard RC8",
					"software": "NINA 3.1",
					"heartbeat_sec": 10
				},
				"topics": {
					"status": "ninaseq/obs-backyard/status",
					"commands": "ninaseq/obs-backyard/commands"
				}
			}`,
			wantErr: false,
		},
		{
			name:    "unsupported version",
			json:    `{"version": 2, "observatory": {"id": "obs-1"}}`,
			wantErr: true,
		},
		{
			name:    "missing observatory id",
			json:    `{"version": 1, "observatory": {"name": "rig"}}`,
			wantErr: true,
		},
		{
			name:    "invalid json",
			json:    `{invalid}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := ParseRegistration([]byte(tt.json))
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if payload.Observatory.ID != "obs-backyard" {
				t.Errorf("expected obs-backyard, got %s", payload.Observatory.ID)
			}
			if payload.Topics.Commands != "ninaseq/obs-backyard/commands" {
				t.Errorf("expected command topic, got %s", payload.Topics.Commands)
			}
		})
	}
}

func TestParseRegistrationDefaultsHeartbeat(t *testing.T) {
	payload, err := ParseRegistration([]byte(`{"version":1,"observatory":{"id":"obs-1"}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Observatory.HeartbeatSec != DefaultHeartbeatSec {
		t.Errorf("expected heartbeat %d, got %d", DefaultHeartbeatSec, payload.Observatory.HeartbeatSec)
	}
}

func validPayload(id string) *RegistrationPayload {
	return &RegistrationPayload{
		Version:     1,
		Observatory: ObservatoryInfo{ID: id, Name: id, HeartbeatSec: 5},
		Topics: ObservatoryTopics{
			Status:   "ninaseq/" + id + "/status",
			Commands: "ninaseq/" + id + "/commands",
		},
	}
}

func TestValidateRegistration(t *testing.T) {
	specs := map[string]ObservatorySpec{
		"obs-1": {Name: "Main", Required: true},
	}

	if result := ValidateRegistration(validPayload("obs-1"), specs); !result.Valid {
		t.Errorf("expected valid, got errors: %v", result.Errors)
	}

	result := ValidateRegistration(validPayload("obs-stranger"), specs)
	if result.Valid {
		t.Error("expected unknown observatory to be rejected")
	}

	// Without configuration every observatory is accepted.
	if result := ValidateRegistration(validPayload("obs-stranger"), nil); !result.Valid {
		t.Errorf("expected valid with no specs, got %v", result.Errors)
	}

	p := validPayload("obs-1")
	p.Topics.Commands = ""
	if result := ValidateRegistration(p, specs); result.Valid {
		t.Error("expected missing command topic to be rejected")
	}

	p = validPayload("obs-1")
	p.Topics.Status = ""
	result = ValidateRegistration(p, specs)
	if !result.Valid || len(result.Warnings) != 1 {
		t.Errorf("expected valid with one warning, got %+v", result)
	}
}

func TestRequiredObservatories(t *testing.T) {
	specs := map[string]ObservatorySpec{
		"b": {Required: true},
		"a": {Required: true},
		"c": {},
	}
	got := RequiredObservatories(specs)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("expected [a b], got %v", got)
	}
}
