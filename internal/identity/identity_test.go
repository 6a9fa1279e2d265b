package identity

import (
	"math"
	"testing"

	"github.com/louisbranch/undercroft/internal/derr"
	"github.com/louisbranch/undercroft/internal/society"
)

func TestNewState(t *testing.T) {
	state := NewState("pc-1", "Maris Duskwell")
	if state.TrueIdentity.Kind != KindTrue {
		t.Fatalf("expected true identity kind, got %q", state.TrueIdentity.Kind)
	}
	if state.CurrentPersonaID != state.TrueIdentity.ID {
		t.Fatal("expected true identity active")
	}
}

func TestCreateAlias(t *testing.T) {
	state := NewState("pc-1", "Maris Duskwell")
	state, alias := CreateAlias(state, "Joren the Gray", "a traveling scribe", "eastmarch")

	if alias.Kind != KindAlias {
		t.Fatalf("expected alias kind, got %q", alias.Kind)
	}
	if len(state.Aliases) != 1 {
		t.Fatalf("expected 1 alias, got %d", len(state.Aliases))
	}
	if len(alias.EstablishedIn) != 1 || alias.EstablishedIn[0] != "eastmarch" {
		t.Fatalf("expected alias established in eastmarch, got %v", alias.EstablishedIn)
	}
}

func TestSwitchPersona(t *testing.T) {
	state := NewState("pc-1", "Maris Duskwell")
	state, alias := CreateAlias(state, "Joren the Gray", "", "eastmarch")

	state, err := SwitchPersona(state, alias.ID)
	if err != nil {
		t.Fatalf("switch to alias: %v", err)
	}
	if state.CurrentPersonaID != alias.ID {
		t.Fatalf("expected persona %q, got %q", alias.ID, state.CurrentPersonaID)
	}

	state, err = SwitchPersona(state, state.TrueIdentity.ID)
	if err != nil {
		t.Fatalf("switch back to true identity: %v", err)
	}
	if state.CurrentPersonaID != state.TrueIdentity.ID {
		t.Fatal("expected true identity active")
	}
}

func TestSwitchPersonaUnknown(t *testing.T) {
	state := NewState("pc-1", "Maris Duskwell")
	_, err := SwitchPersona(state, "nobody")
	if derr.CodeOf(err) != derr.CodeIdentityUnknownPersona {
		t.Fatalf("expected unknown persona error, got %v", err)
	}
}

func TestLearnSecretIdempotent(t *testing.T) {
	state := NewState("pc-1", "Maris Duskwell")
	secret := society.Secret{ID: "s-1", SubjectID: "npc-1", Content: "a debt"}

	state = LearnSecret(state, secret)
	state = LearnSecret(state, secret)
	if len(state.KnownSecrets) != 1 {
		t.Fatalf("expected 1 known secret, got %d", len(state.KnownSecrets))
	}
}

func TestExposeSecret(t *testing.T) {
	state := NewState("pc-1", "Maris Duskwell")
	state = LearnSecret(state, society.Secret{ID: "s-1"})

	state = ExposeSecret(state, "s-1")
	if len(state.KnownSecrets) != 0 {
		t.Fatalf("expected secret removed from known, got %d", len(state.KnownSecrets))
	}
	if len(state.ExposedSecrets) != 1 {
		t.Fatalf("expected 1 exposed secret, got %d", len(state.ExposedSecrets))
	}

	// Exposing an unknown id is a no-op.
	state = ExposeSecret(state, "s-2")
	if len(state.ExposedSecrets) != 1 {
		t.Fatal("expected no-op for unknown secret")
	}
}

func TestEquipAndRemoveDisguise(t *testing.T) {
	state := NewState("pc-1", "Maris Duskwell")
	state = EquipDisguise(state, Disguise{ID: "d-1", Quality: 15})
	if state.ActiveDisguise == nil || state.ActiveDisguise.ID != "d-1" {
		t.Fatal("expected disguise equipped")
	}
	state = RemoveDisguise(state)
	if state.ActiveDisguise != nil {
		t.Fatal("expected disguise cleared")
	}
}

func TestDetectionRiskTrueIdentity(t *testing.T) {
	state := NewState("pc-1", "Maris Duskwell")
	if risk := DetectionRisk(state, 20); risk != 0 {
		t.Fatalf("expected zero risk for true identity, got %v", risk)
	}
}

func TestDetectionRiskUndisguisedAlias(t *testing.T) {
	state := NewState("pc-1", "Maris Duskwell")
	state, alias := CreateAlias(state, "Joren", "", "eastmarch")
	state.Aliases[0].Credibility = 50
	state, err := SwitchPersona(state, alias.ID)
	if err != nil {
		t.Fatalf("switch persona: %v", err)
	}

	// 0.5 - 0.2 + 0.3 = 0.6
	if risk := DetectionRisk(state, 0); math.Abs(risk-0.6) > 1e-9 {
		t.Fatalf("expected risk 0.6, got %v", risk)
	}
}

func TestDetectionRiskDisguisedAlias(t *testing.T) {
	state := NewState("pc-1", "Maris Duskwell")
	state, alias := CreateAlias(state, "Joren", "", "eastmarch")
	state.Aliases[0].Credibility = 50
	state, err := SwitchPersona(state, alias.ID)
	if err != nil {
		t.Fatalf("switch persona: %v", err)
	}
	state = EquipDisguise(state, Disguise{ID: "d-1", TargetAppearance: "Joren of the eastern roads", Quality: 10})

	// 0.5 - 0.2 - 10/50 - 0.1 + 2*0.05 = 0.1
	if risk := DetectionRisk(state, 2); math.Abs(risk-0.1) > 1e-9 {
		t.Fatalf("expected risk 0.1, got %v", risk)
	}
}

func TestDetectionRiskClamps(t *testing.T) {
	state := NewState("pc-1", "Maris Duskwell")
	state, alias := CreateAlias(state, "Joren", "", "eastmarch")
	state.Aliases[0].Credibility = 100
	state, err := SwitchPersona(state, alias.ID)
	if err != nil {
		t.Fatalf("switch persona: %v", err)
	}
	state = EquipDisguise(state, Disguise{ID: "d-1", TargetAppearance: "Joren", Quality: 100})
	if risk := DetectionRisk(state, 0); risk != 0 {
		t.Fatalf("expected risk clamped to 0, got %v", risk)
	}

	state = RemoveDisguise(state)
	state.Aliases[0].Credibility = 0
	if risk := DetectionRisk(state, 20); risk != 1 {
		t.Fatalf("expected risk clamped to 1, got %v", risk)
	}
}

func TestCheckDisguise(t *testing.T) {
	disguise := Disguise{Quality: 15}

	result := CheckDisguise(disguise, 10, 0)
	if result.Detected || !result.Success {
		t.Fatal("expected disguise to hold against perception 10")
	}
	if result.Margin != 5 {
		t.Fatalf("expected margin 5, got %v", result.Margin)
	}

	result = CheckDisguise(disguise, 12, 3)
	if !result.Detected || result.Success {
		t.Fatal("expected detection when total meets quality")
	}
	if result.Margin != 0 {
		t.Fatalf("expected margin 0, got %v", result.Margin)
	}
}

func TestCheckVulnerabilities(t *testing.T) {
	disguise := Disguise{Vulnerabilities: []string{
		"bright light reveals the seams",
		"close inspection of the hands",
	}}

	triggered := CheckVulnerabilities(disguise, []string{"Bright Light", "crowded room"})
	if len(triggered) != 1 {
		t.Fatalf("expected 1 triggered vulnerability, got %d", len(triggered))
	}
	if triggered[0] != "bright light reveals the seams" {
		t.Fatalf("unexpected vulnerability %q", triggered[0])
	}

	if triggered := CheckVulnerabilities(disguise, []string{"rain"}); len(triggered) != 0 {
		t.Fatalf("expected none triggered, got %v", triggered)
	}
}

func TestTransitionsDoNotMutateInput(t *testing.T) {
	state := NewState("pc-1", "Maris Duskwell")
	state = LearnSecret(state, society.Secret{ID: "s-1"})

	LearnSecret(state, society.Secret{ID: "s-2"})
	if len(state.KnownSecrets) != 1 {
		t.Fatal("input state mutated by LearnSecret")
	}

	EquipDisguise(state, Disguise{ID: "d-1"})
	if state.ActiveDisguise != nil {
		t.Fatal("input state mutated by EquipDisguise")
	}
}
