// Package catalog holds the entity type definitions the editor uses to
// create new sequence items, conditions and triggers.
package catalog

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AaronLay10/nina-sequence-editor/internal/sequence"
)

// Kind distinguishes the three entity families.
type Kind string

const (
	KindItem      Kind = "item"
	KindCondition Kind = "condition"
	KindTrigger   Kind = "trigger"
)

// Definition describes one entity type and its default data.
type Definition struct {
	Type        string         `yaml:"type" json:"type"`
	Kind        Kind           `yaml:"kind" json:"kind"`
	Name        string         `yaml:"name" json:"name"`
	Category    string         `yaml:"category" json:"category"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Container   bool           `yaml:"container,omitempty" json:"container,omitempty"`
	Defaults    map[string]any `yaml:"defaults,omitempty" json:"defaults,omitempty"`
}

// Catalog is an index of definitions keyed by type.
type Catalog struct {
	defs map[string]*Definition
}

// Builtin returns a catalog seeded with the built-in definitions.
func Builtin() *Catalog {
	c := &Catalog{defs: make(map[string]*Definition)}
	for i := range builtinDefinitions {
		def := builtinDefinitions[i]
		c.defs[def.Type] = &def
	}
	return c
}

type catalogFile struct {
	Version     int          `yaml:"version"`
	Definitions []Definition `yaml:"definitions"`
}

// LoadFile reads a YAML catalog file and merges it over the built-in
// definitions. Entries with a known type replace the built-in one.
func LoadFile(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f catalogFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if f.Version != 1 {
		return nil, fmt.Errorf("unsupported catalog version: %d", f.Version)
	}

	c := Builtin()
	for i := range f.Definitions {
		def := f.Definitions[i]
		if def.Type == "" {
			return nil, fmt.Errorf("catalog entry %d has no type", i)
		}
		switch def.Kind {
		case KindItem, KindCondition, KindTrigger:
		case "":
			def.Kind = KindItem
		default:
			return nil, fmt.Errorf("catalog entry %s: unknown kind %q", def.Type, def.Kind)
		}
		if def.Name == "" {
			def.Name = ShortTypeName(def.Type)
		}
		if def.Kind == KindItem && IsContainerType(def.Type) {
			def.Container = true
		}
		c.defs[def.Type] = &def
	}
	return c, nil
}

// Lookup returns the definition for a type, or nil.
func (c *Catalog) Lookup(typ string) *Definition {
	return c.defs[typ]
}

// Definitions returns all definitions of a kind sorted by category then name.
// An empty kind returns every definition.
func (c *Catalog) Definitions(kind Kind) []Definition {
	out := make([]Definition, 0, len(c.defs))
	for _, def := range c.defs {
		if kind != "" && def.Kind != kind {
			continue
		}
		out = append(out, *def)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// IsContainer reports whether items of this type hold children.
func (c *Catalog) IsContainer(typ string) bool {
	if def := c.defs[typ]; def != nil && def.Kind == KindItem {
		return def.Container
	}
	return IsContainerType(typ)
}

// NewItem creates an item of the given type with a fresh id and a copy of
// the default data. Unknown types still produce an item.
func (c *Catalog) NewItem(typ string) *sequence.Item {
	it := &sequence.Item{
		ID:      sequence.NewID(),
		Type:    typ,
		Name:    ShortTypeName(typ),
		Status:  sequence.StatusCreated,
		Enabled: true,
		Data:    map[string]any{},
	}
	if def := c.defs[typ]; def != nil {
		it.Name = def.Name
		it.Category = def.Category
		it.Description = def.Description
		if def.Defaults != nil {
			it.Data = sequence.CloneData(def.Defaults)
		}
	} else {
		it.Category = TypeCategory(typ)
	}
	if c.IsContainer(typ) {
		it.Items = []*sequence.Item{}
		it.Conditions = []*sequence.Condition{}
		it.Triggers = []*sequence.Trigger{}
		it.IsExpanded = true
	}
	return it
}

// NewCondition creates a condition of the given type.
func (c *Catalog) NewCondition(typ string) *sequence.Condition {
	cond := &sequence.Condition{
		ID:   sequence.NewID(),
		Type: typ,
		Name: ShortTypeName(typ),
		Data: map[string]any{},
	}
	if def := c.defs[typ]; def != nil {
		cond.Name = def.Name
		cond.Category = def.Category
		if def.Defaults != nil {
			cond.Data = sequence.CloneData(def.Defaults)
		}
	} else {
		cond.Category = TypeCategory(typ)
	}
	return cond
}

// NewTrigger creates a trigger of the given type.
func (c *Catalog) NewTrigger(typ string) *sequence.Trigger {
	trig := &sequence.Trigger{
		ID:   sequence.NewID(),
		Type: typ,
		Name: ShortTypeName(typ),
		Data: map[string]any{},
	}
	if def := c.defs[typ]; def != nil {
		trig.Name = def.Name
		trig.Category = def.Category
		if def.Defaults != nil {
			trig.Data = sequence.CloneData(def.Defaults)
		}
	} else {
		trig.Category = TypeCategory(typ)
	}
	return trig
}

// IsContainerType reports whether a NINA type name denotes a container.
func IsContainerType(typ string) bool {
	return strings.Contains(typ, "Container") ||
		strings.Contains(typ, "SmartExposure") ||
		strings.Contains(typ, "InstructionSet")
}

// ShortTypeName extracts the class name from a fully-qualified NINA type,
// e.g. "NINA.Sequencer.SequenceItem.Camera.CoolCamera, NINA.Sequencer" -> "CoolCamera".
func ShortTypeName(full string) string {
	typePath, _, _ := strings.Cut(full, ",")
	if i := strings.LastIndex(typePath, "."); i >= 0 {
		return typePath[i+1:]
	}
	return typePath
}

// TypeCategory extracts the namespace segment preceding the class name,
// e.g. "Camera" for the CoolCamera type. Returns "Unknown" when absent.
func TypeCategory(full string) string {
	typePath, _, _ := strings.Cut(full, ",")
	parts := strings.Split(typePath, ".")
	if len(parts) >= 2 {
		return parts[len(parts)-2]
	}
	return "Unknown"
}
