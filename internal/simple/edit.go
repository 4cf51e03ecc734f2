package simple

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"github.com/AaronLay10/nina-sequence-editor/internal/sequence"
)

// DuplicateTarget inserts a copy of the target right after it. The copy gets
// fresh ids, a " (Copy)" suffix and reset progress.
func (s *Sequence) DuplicateTarget(id string) (*Target, error) {
	for i, t := range s.Targets {
		if t.ID != id {
			continue
		}
		cpy := *t
		cpy.ID = sequence.NewID()
		cpy.Name = t.Name + " (Copy)"
		cpy.Status = sequence.StatusCreated
		cpy.Exposures = make([]*Exposure, len(t.Exposures))
		for j, e := range t.Exposures {
			ec := e.clone()
			ec.ID = sequence.NewID()
			ec.ProgressCount = 0
			ec.Status = sequence.StatusCreated
			cpy.Exposures[j] = ec
		}
		s.Targets = append(s.Targets[:i+1], append([]*Target{&cpy}, s.Targets[i+1:]...)...)
		return &cpy, nil
	}
	return nil, fmt.Errorf("target not found: %s", id)
}

// RemoveTarget deletes a target.
func (s *Sequence) RemoveTarget(id string) error {
	for i, t := range s.Targets {
		if t.ID == id {
			s.Targets = append(s.Targets[:i:i], s.Targets[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("target not found: %s", id)
}

// DuplicateExposure inserts a copy of the exposure after it, with a fresh id
// and no progress.
func (s *Sequence) DuplicateExposure(targetID, exposureID string) (*Exposure, error) {
	t := s.FindTarget(targetID)
	if t == nil {
		return nil, fmt.Errorf("target not found: %s", targetID)
	}
	i, e := t.findExposure(exposureID)
	if e == nil {
		return nil, fmt.Errorf("exposure not found: %s", exposureID)
	}
	cpy := e.clone()
	cpy.ID = sequence.NewID()
	cpy.ProgressCount = 0
	cpy.Status = sequence.StatusCreated
	t.Exposures = append(t.Exposures[:i+1], append([]*Exposure{cpy}, t.Exposures[i+1:]...)...)
	return cpy, nil
}

// ResetProgress zeroes progress on a target's exposures, or on every
// target when targetID is empty.
func (s *Sequence) ResetProgress(targetID string) error {
	for _, t := range s.Targets {
		if targetID != "" && t.ID != targetID {
			continue
		}
		t.Status = sequence.StatusCreated
		for _, e := range t.Exposures {
			e.ProgressCount = 0
			e.Status = sequence.StatusCreated
		}
		if targetID != "" {
			return nil
		}
	}
	if targetID != "" {
		return fmt.Errorf("target not found: %s", targetID)
	}
	return nil
}

// CopyExposuresToAllTargets replaces every other target's exposure plan
// with fresh copies of the source target's plan.
func (s *Sequence) CopyExposuresToAllTargets(sourceID string) error {
	src := s.FindTarget(sourceID)
	if src == nil {
		return fmt.Errorf("target not found: %s", sourceID)
	}
	for _, t := range s.Targets {
		if t.ID == sourceID {
			continue
		}
		t.Exposures = make([]*Exposure, len(src.Exposures))
		for i, e := range src.Exposures {
			cpy := e.clone()
			cpy.ID = sequence.NewID()
			cpy.ProgressCount = 0
			cpy.Status = sequence.StatusCreated
			t.Exposures[i] = cpy
		}
	}
	return nil
}

// Statistics summarises a target set.
type Statistics struct {
	TargetCount        int     `json:"targetCount"`
	TotalExposures     int     `json:"totalExposures"`
	CompletedExposures int     `json:"completedExposures"`
	RemainingExposures int     `json:"remainingExposures"`
	TotalRuntime       float64 `json:"totalRuntime"`
	IntegrationTime    float64 `json:"integrationTime"`
	ProgressPercent    float64 `json:"progressPercent"`
}

// Statistics computes totals, runtime in seconds and progress.
func (s *Sequence) Statistics() Statistics {
	st := Statistics{TargetCount: len(s.Targets)}
	for _, t := range s.Targets {
		st.TotalRuntime += t.Runtime(s.EstimatedDownloadTime)
		for _, e := range t.Exposures {
			st.TotalExposures += e.TotalCount
			st.CompletedExposures += min(e.ProgressCount, e.TotalCount)
			st.RemainingExposures += e.Remaining()
			if e.Enabled {
				st.IntegrationTime += float64(e.TotalCount) * e.ExposureTime
			}
		}
	}
	if st.TotalExposures > 0 {
		st.ProgressPercent = float64(st.CompletedExposures) / float64(st.TotalExposures) * 100
	}
	return st
}

// LoadFile reads a target set from JSON.
func LoadFile(path string) (*Sequence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read target set: %w", err)
	}
	var s Sequence
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse target set: %w", err)
	}
	if s.Targets == nil {
		s.Targets = []*Target{}
	}
	return &s, nil
}

// SaveFile writes the target set as indented JSON.
func SaveFile(path string, s *Sequence) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal target set: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
