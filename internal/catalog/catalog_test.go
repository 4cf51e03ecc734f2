package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestShortTypeNameAndCategory(t *testing.T) {
	full := "NINA.Sequencer.SequenceItem.Camera.CoolCamera, NINA.Sequencer"
	if got := ShortTypeName(full); got != "CoolCamera" {
		t.Errorf("expected CoolCamera, got %s", got)
	}
	if got := TypeCategory(full); got != "Camera" {
		t.Errorf("expected Camera, got %s", got)
	}
	if got := ShortTypeName("TakeExposure"); got != "TakeExposure" {
		t.Errorf("expected TakeExposure, got %s", got)
	}
	if got := TypeCategory("TakeExposure"); got != "Unknown" {
		t.Errorf("expected Unknown, got %s", got)
	}
}

func TestIsContainerType(t *testing.T) {
	for _, typ := range []string{TypeSequentialContainer, TypeDeepSkyContainer, TypeSmartExposure, "Sequential Container", "Foo.InstructionSet"} {
		if !IsContainerType(typ) {
			t.Errorf("expected %s to be a container", typ)
		}
	}
	for _, typ := range []string{TypeTakeExposure, TypeCoolCamera, "TakeExposure"} {
		if IsContainerType(typ) {
			t.Errorf("expected %s to be a leaf", typ)
		}
	}
}

func TestNewItemContainer(t *testing.T) {
	c := Builtin()
	it := c.NewItem(TypeSequentialContainer)
	if it.ID == "" {
		t.Fatal("expected id to be assigned")
	}
	if !it.IsContainer() || it.Conditions == nil || it.Triggers == nil {
		t.Error("expected container with empty conditions and triggers")
	}
	if it.Name != "Sequential Container" {
		t.Errorf("expected catalog name, got %s", it.Name)
	}
	if !it.Enabled || it.Status != "CREATED" {
		t.Errorf("expected enabled CREATED item, got enabled=%v status=%s", it.Enabled, it.Status)
	}
}

func TestNewItemCopiesDefaults(t *testing.T) {
	c := Builtin()
	a := c.NewItem(TypeTakeExposure)
	b := c.NewItem(TypeTakeExposure)
	if a.IsContainer() {
		t.Error("expected leaf item")
	}
	if a.ID == b.ID {
		t.Error("expected distinct ids")
	}
	a.Data["binning"].(map[string]any)["x"] = 4.0
	if b.Data["binning"].(map[string]any)["x"] != 1.0 {
		t.Error("expected default data to be copied per item")
	}
	if c.Lookup(TypeTakeExposure).Defaults["binning"].(map[string]any)["x"] != 1.0 {
		t.Error("expected catalog defaults to be untouched")
	}
}

func TestNewUnknownType(t *testing.T) {
	c := Builtin()
	it := c.NewItem("Vendor.Plugin.Thing, Vendor")
	if it.Name != "Thing" || it.Category != "Plugin" {
		t.Errorf("expected derived name/category, got %s/%s", it.Name, it.Category)
	}
	if it.Data == nil || len(it.Data) != 0 {
		t.Errorf("expected empty data, got %v", it.Data)
	}

	cond := c.NewCondition(TypeLoopCondition)
	if cond.Data["iterations"] != 1.0 {
		t.Errorf("expected loop default iterations, got %v", cond.Data["iterations"])
	}
	trig := c.NewTrigger(TypeMeridianFlip)
	if trig.Name != "Meridian Flip" {
		t.Errorf("expected Meridian Flip, got %s", trig.Name)
	}
}

func TestDefinitionsByKind(t *testing.T) {
	c := Builtin()
	for _, def := range c.Definitions(KindTrigger) {
		if def.Kind != KindTrigger {
			t.Errorf("expected only triggers, got %s", def.Kind)
		}
	}
	if len(c.Definitions("")) != len(builtinDefinitions) {
		t.Errorf("expected %d definitions, got %d", len(builtinDefinitions), len(c.Definitions("")))
	}
}

func TestLoadFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := `version: 1
definitions:
  - type: "NINA.Sequencer.SequenceItem.Camera.CoolCamera, NINA.Sequencer"
    kind: item
    name: Cool Camera
    category: Camera
    defaults:
      temperature: -20
  - type: "Vendor.Plugin.FlatPanelContainer, Vendor"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	it := c.NewItem(TypeCoolCamera)
	if it.Data["temperature"] != -20 {
		t.Errorf("expected overridden temperature -20, got %v", it.Data["temperature"])
	}
	added := c.Lookup("Vendor.Plugin.FlatPanelContainer, Vendor")
	if added == nil || added.Kind != KindItem || !added.Container || added.Name != "FlatPanelContainer" {
		t.Errorf("expected added container definition, got %+v", added)
	}
}

func TestLoadFileRejectsVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte("version: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected version error")
	}
}
