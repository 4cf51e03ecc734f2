// Package sequence defines the NINA advanced sequence tree edited by the
// editor: a sequence with three root item lists, nested containers and the
// conditions and triggers attached to them.
package sequence

import "fmt"

// Status represents the lifecycle state of a sequence entity.
type Status string

const (
	StatusCreated  Status = "CREATED"
	StatusRunning  Status = "RUNNING"
	StatusFinished Status = "FINISHED"
	StatusFailed   Status = "FAILED"
	StatusSkipped  Status = "SKIPPED"
	StatusDisabled Status = "DISABLED"
)

// Area names one of the three root lists of a sequence.
// The area is never stored on an item; it is implied by the list holding it.
type Area string

const (
	AreaStart  Area = "start"
	AreaTarget Area = "target"
	AreaEnd    Area = "end"
)

// Areas lists the areas in search order.
var Areas = []Area{AreaStart, AreaTarget, AreaEnd}

// Valid returns true if a is one of the three known areas.
func (a Area) Valid() bool {
	return a == AreaStart || a == AreaTarget || a == AreaEnd
}

// ParseArea converts a string into an Area.
func ParseArea(s string) (Area, error) {
	a := Area(s)
	if !a.Valid() {
		return "", fmt.Errorf("unknown area: %q", s)
	}
	return a, nil
}

// Item is a node of the sequence tree.
// A node is a container iff Items is non-nil (an empty slice still counts).
// Conditions and Triggers are only meaningful on containers.
type Item struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	Category    string         `json:"category,omitempty"`
	Description string         `json:"description,omitempty"`
	Status      Status         `json:"status"`
	Enabled     bool           `json:"enabled"`
	IsExpanded  bool           `json:"isExpanded,omitempty"`
	Data        map[string]any `json:"data"`
	Items       []*Item        `json:"items"`
	Conditions  []*Condition   `json:"conditions"`
	Triggers    []*Trigger     `json:"triggers"`
}

// IsContainer returns true if the item may hold children.
func (it *Item) IsContainer() bool {
	return it != nil && it.Items != nil
}

// Condition is a leaf attached to a container that controls looping.
type Condition struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Name     string         `json:"name"`
	Category string         `json:"category"`
	Data     map[string]any `json:"data"`
}

// Trigger is a leaf attached to a container (or the sequence itself)
// that fires side instructions while the container runs.
type Trigger struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Name     string         `json:"name"`
	Category string         `json:"category"`
	Data     map[string]any `json:"data"`
}

// Sequence is the unit of undo history and of persistence.
type Sequence struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	StartItems     []*Item    `json:"startItems"`
	TargetItems    []*Item    `json:"targetItems"`
	EndItems       []*Item    `json:"endItems"`
	GlobalTriggers []*Trigger `json:"globalTriggers"`
}

// DefaultTitle is used when a sequence is created without a title.
const DefaultTitle = "New Sequence"

// New creates an empty sequence with a fresh id.
func New(title string) *Sequence {
	if title == "" {
		title = DefaultTitle
	}
	return &Sequence{
		ID:             NewID(),
		Title:          title,
		StartItems:     []*Item{},
		TargetItems:    []*Item{},
		EndItems:       []*Item{},
		GlobalTriggers: []*Trigger{},
	}
}

// Root returns a pointer to the root list of an area so callers can splice it.
// Returns nil for an unknown area.
func (s *Sequence) Root(area Area) *[]*Item {
	switch area {
	case AreaStart:
		return &s.StartItems
	case AreaTarget:
		return &s.TargetItems
	case AreaEnd:
		return &s.EndItems
	}
	return nil
}

// Items returns the root list of an area (nil for an unknown area).
func (s *Sequence) Items(area Area) []*Item {
	if root := s.Root(area); root != nil {
		return *root
	}
	return nil
}

// normalize replaces nil root lists with empty ones.
func (s *Sequence) normalize() {
	if s.StartItems == nil {
		s.StartItems = []*Item{}
	}
	if s.TargetItems == nil {
		s.TargetItems = []*Item{}
	}
	if s.EndItems == nil {
		s.EndItems = []*Item{}
	}
	if s.GlobalTriggers == nil {
		s.GlobalTriggers = []*Trigger{}
	}
}
