package editor

import (
	"fmt"

	"github.com/AaronLay10/nina-sequence-editor/internal/sequence"
)

// ViewMode selects how the presentation layer renders the sequence.
type ViewMode string

const (
	ViewTree   ViewMode = "tree"
	ViewGraph  ViewMode = "graph"
	ViewSimple ViewMode = "simple"
)

// View holds presentation flags that share the store but never enter
// history.
type View struct {
	ActiveArea       sequence.Area `json:"activeArea"`
	Mode             ViewMode      `json:"viewMode"`
	LeftPanelWidth   int           `json:"leftPanelWidth"`
	RightPanelWidth  int           `json:"rightPanelWidth"`
	BottomPanelSize  int           `json:"bottomPanelHeight"`
	SearchQuery      string        `json:"searchQuery"`
	CategoryFilter   string        `json:"categoryFilter"`
	ShowDisabled     bool          `json:"showDisabled"`
	PropertiesPanel  bool          `json:"propertiesPanelOpen"`
	ToolboxCollapsed bool          `json:"toolboxCollapsed"`
}

func defaultView() View {
	return View{
		ActiveArea:      sequence.AreaTarget,
		Mode:            ViewTree,
		LeftPanelWidth:  280,
		RightPanelWidth: 320,
		BottomPanelSize: 200,
		ShowDisabled:    true,
		PropertiesPanel: true,
	}
}

// Validate checks the enumerated fields and panel sizes.
func (v View) Validate() error {
	if !v.ActiveArea.Valid() {
		return fmt.Errorf("unknown area: %q", v.ActiveArea)
	}
	switch v.Mode {
	case ViewTree, ViewGraph, ViewSimple:
	default:
		return fmt.Errorf("unknown view mode: %q", v.Mode)
	}
	if v.LeftPanelWidth < 0 || v.RightPanelWidth < 0 || v.BottomPanelSize < 0 {
		return fmt.Errorf("panel sizes must not be negative")
	}
	return nil
}

// View returns the current view state.
func (s *Store) View() View {
	return s.view
}

// SetView replaces the view state after validating it.
func (s *Store) SetView(v View) error {
	if err := v.Validate(); err != nil {
		return err
	}
	s.view = v
	return nil
}

// SetActiveArea switches the area used by select-all and paste.
func (s *Store) SetActiveArea(area sequence.Area) bool {
	if !area.Valid() {
		s.warn("setActiveArea", "", "unknown area "+string(area))
		return false
	}
	s.view.ActiveArea = area
	return true
}
