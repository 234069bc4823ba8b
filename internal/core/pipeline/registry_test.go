package pipeline

import (
	"strings"
	"testing"
)

func TestRegistryBuildFromNames(t *testing.T) {
	var ran []string
	registry := NewRegistry()
	registry.Register("one", func(deps *Dependencies) (Step, error) {
		return &mockStep{name: "one", ran: &ran}, nil
	})
	registry.Register("two", func(deps *Dependencies) (Step, error) {
		return &mockStep{name: "two", ran: &ran}, nil
	})

	p, err := registry.BuildFromNames([]string{"two", "one"}, &Dependencies{})
	if err != nil {
		t.Fatalf("BuildFromNames() error = %v", err)
	}

	steps := p.Steps()
	if len(steps) != 2 || steps[0].Name() != "two" || steps[1].Name() != "one" {
		t.Errorf("expected steps in requested order, got %v", steps)
	}
}

func TestRegistryUnknownStep(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.BuildFromNames([]string{"missing"}, &Dependencies{})
	if err == nil {
		t.Fatalf("BuildFromNames() expected an error for an unknown step")
	}
	if !strings.Contains(err.Error(), "missing") {
		t.Errorf("expected the unknown step name in the error, got %q", err.Error())
	}
}

func TestGetPreset(t *testing.T) {
	steps, ok := GetPreset("auto-label")
	if !ok {
		t.Fatalf("expected the auto-label preset to exist")
	}
	if steps[len(steps)-1] != "label_applier" {
		t.Errorf("expected auto-label to end with label_applier, got %v", steps)
	}

	preview, ok := GetPreset("preview")
	if !ok {
		t.Fatalf("expected the preview preset to exist")
	}
	for _, s := range preview {
		if s == "label_applier" {
			t.Errorf("preview preset must not apply labels, got %v", preview)
		}
	}

	if _, ok := GetPreset("nope"); ok {
		t.Errorf("did not expect an unknown preset to resolve")
	}
}

func TestResolveSteps(t *testing.T) {
	tests := []struct {
		name     string
		explicit []string
		workflow string
		want     string // first step expected, "" means default preset
	}{
		{"explicit wins", []string{"label_resolver"}, "auto-label", "label_resolver"},
		{"workflow preset", nil, "preview", "gatekeeper"},
		{"unknown workflow falls back to default", nil, "bogus", "gatekeeper"},
		{"empty falls back to default", nil, "", "gatekeeper"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveSteps(tt.explicit, tt.workflow)
			if len(got) == 0 || got[0] != tt.want {
				t.Errorf("ResolveSteps() = %v, expected to start with %q", got, tt.want)
			}
		})
	}

	// The default is the full auto-label preset.
	got := ResolveSteps(nil, "")
	if len(got) != len(Presets["auto-label"]) {
		t.Errorf("expected the default to be the auto-label preset, got %v", got)
	}
}
