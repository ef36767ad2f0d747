package bot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultPersonalitiesAreValid(t *testing.T) {
	defaults := DefaultPersonalities()
	if len(defaults) == 0 {
		t.Fatal("no default personalities")
	}
	seen := map[string]bool{}
	for _, p := range defaults {
		if p.Name == "" {
			t.Error("default personality with empty name")
		}
		if seen[p.Name] {
			t.Errorf("duplicate personality name %s", p.Name)
		}
		seen[p.Name] = true
		if !p.Weights.Valid() {
			t.Errorf("%s has invalid weights, sum %f", p.Name, p.Weights.Sum())
		}
	}
}

func TestWeightsValid(t *testing.T) {
	cases := []struct {
		w    Weights
		want bool
	}{
		{Weights{Attack: 0.25, Defense: 0.25, Risk: 0.25, CardDraw: 0.25}, true},
		{Weights{Attack: 0.55, Defense: 0.10, Risk: 0.25, CardDraw: 0.10}, true},
		{Weights{Attack: 0.251, Defense: 0.25, Risk: 0.25, CardDraw: 0.25}, true}, // within tolerance
		{Weights{Attack: 1.0, Defense: 0.5}, false},
		{Weights{Attack: 1.5, Defense: -0.5}, false},
		{Weights{}, false},
	}
	for i, c := range cases {
		if got := c.w.Valid(); got != c.want {
			t.Errorf("case %d: Valid() = %v, want %v (sum %f)", i, got, c.want, c.w.Sum())
		}
	}
}

func TestLoadPersonalitiesSkipsInvalidEntries(t *testing.T) {
	in := `[
		{"name": "Good", "weights": {"attack": 0.4, "defense": 0.3, "risk": 0.2, "card_draw": 0.1}},
		{"name": "BadSum", "weights": {"attack": 0.9, "defense": 0.9, "risk": 0.0, "card_draw": 0.0}},
		{"name": "", "weights": {"attack": 0.25, "defense": 0.25, "risk": 0.25, "card_draw": 0.25}}
	]`
	got, err := LoadPersonalities(strings.NewReader(in))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Good" {
		t.Errorf("expected only Good to survive, got %+v", got)
	}
}

func TestLoadPersonalitiesNoValidEntries(t *testing.T) {
	in := `[{"name": "Broken", "weights": {"attack": 2.0}}]`
	if _, err := LoadPersonalities(strings.NewReader(in)); err == nil {
		t.Fatal("expected an error when every entry is invalid")
	}
}

func TestLoadPersonalitiesBadJSON(t *testing.T) {
	if _, err := LoadPersonalities(strings.NewReader("{not json")); err == nil {
		t.Fatal("expected a decode error")
	}
}

func TestLoadPersonalitiesFileFallsBackToDefaults(t *testing.T) {
	got, err := LoadPersonalitiesFile("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != len(DefaultPersonalities()) {
		t.Errorf("expected the default set, got %d entries", len(got))
	}
}

func TestLoadPersonalitiesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "personalities.json")
	body := `[{"name": "Custom", "weights": {"attack": 0.5, "defense": 0.2, "risk": 0.2, "card_draw": 0.1}}]`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := LoadPersonalitiesFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Custom" {
		t.Errorf("expected Custom, got %+v", got)
	}
	if got[0].Weights.Attack != 0.5 {
		t.Errorf("expected attack 0.5, got %f", got[0].Weights.Attack)
	}

	if _, err := LoadPersonalitiesFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestAssignerRoundRobin(t *testing.T) {
	ps := []Personality{{Name: "A"}, {Name: "B"}, {Name: "C"}}
	a := NewAssigner(ps)
	want := []string{"A", "B", "C", "A", "B"}
	for i, name := range want {
		if got := a.Next(); got.Name != name {
			t.Errorf("draw %d: expected %s, got %s", i, name, got.Name)
		}
	}
}

func TestByName(t *testing.T) {
	ps := DefaultPersonalities()
	p, ok := ByName(ps, "Gambler")
	if !ok || p.Name != "Gambler" {
		t.Errorf("expected to find Gambler, got %+v (%v)", p, ok)
	}
	if _, ok := ByName(ps, "Nobody"); ok {
		t.Error("found a personality that does not exist")
	}
}
