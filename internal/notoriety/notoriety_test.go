package notoriety

import (
	"testing"
	"time"
)

func TestCalculateRiskBaseOnly(t *testing.T) {
	state := NewState()
	if risk := CalculateRisk(state, "loc1", CrimeTheft); risk != 20 {
		t.Fatalf("expected risk 20, got %v", risk)
	}
}

func TestCalculateRiskWithLocalHeat(t *testing.T) {
	state := NewState()
	state.LocalHeat["loc1"] = 50
	if risk := CalculateRisk(state, "loc1", CrimeTheft); risk != 45 {
		t.Fatalf("expected risk 45, got %v", risk)
	}
}

func TestCalculateRiskClamps(t *testing.T) {
	state := NewState()
	state.GlobalHeat = 100
	state.LocalHeat["loc1"] = 100
	if risk := CalculateRisk(state, "loc1", CrimeMurder); risk != 95 {
		t.Fatalf("expected risk clamped to 95, got %v", risk)
	}
	if risk := CalculateRisk(NewState(), "loc1", CrimeType("gossip")); risk < 5 {
		t.Fatalf("expected risk floored at 5, got %v", risk)
	}
}

func TestHeatLevelThresholds(t *testing.T) {
	tests := []struct {
		value float64
		want  HeatLevel
	}{
		{0, HeatUnknown},
		{9.9, HeatUnknown},
		{10, HeatSuspected},
		{39.9, HeatSuspected},
		{40, HeatWanted},
		{79.9, HeatWanted},
		{80, HeatHunted},
		{100, HeatHunted},
	}
	for _, tt := range tests {
		if got := HeatLevelOf(tt.value); got != tt.want {
			t.Fatalf("heat %v: expected %v, got %v", tt.value, tt.want, got)
		}
	}
}

func TestGenerateBountyBelowThreshold(t *testing.T) {
	crime := Crime{Type: CrimeTheft, Severity: 29}
	if _, issued := GenerateBounty(crime, "pc-1", "guard-1", time.Now()); issued {
		t.Fatal("expected no bounty below severity 30")
	}
}

func TestGenerateBountyAtThreshold(t *testing.T) {
	crime := Crime{Type: CrimeBurglary, Severity: 30}
	bounty, issued := GenerateBounty(crime, "pc-1", "guard-1", time.Now())
	if !issued {
		t.Fatal("expected bounty at severity 30")
	}
	if bounty.Amount != 300 {
		t.Fatalf("expected amount 300, got %d", bounty.Amount)
	}
	if bounty.Conditions != ConditionsAlive {
		t.Fatalf("expected alive conditions, got %q", bounty.Conditions)
	}
	if !bounty.IsActive {
		t.Fatal("expected bounty active")
	}
}

func TestGenerateBountyMurder(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	crime := Crime{Type: CrimeMurder, Severity: 100}
	bounty, issued := GenerateBounty(crime, "pc-1", "crown", now)
	if !issued {
		t.Fatal("expected bounty")
	}
	if bounty.Amount != 1500 {
		t.Fatalf("expected amount 1500, got %d", bounty.Amount)
	}
	if bounty.Conditions != ConditionsDeadOrAlive {
		t.Fatalf("expected dead-or-alive conditions, got %q", bounty.Conditions)
	}
	if want := now.Add(7 * 24 * time.Hour); !bounty.Expiration.Equal(want) {
		t.Fatalf("expected expiration %v, got %v", want, bounty.Expiration)
	}
}

func TestCommitCrimeWitnessedHeat(t *testing.T) {
	state := NewState()
	crime := Crime{ID: "c1", Type: CrimeTheft, LocationID: "loc1", Severity: 10, Witnessed: true}

	updated, bounty := CommitCrime(state, crime, "pc-1", "", time.Now())
	if bounty != nil {
		t.Fatal("expected no bounty for severity 10")
	}
	if got := updated.LocalHeat["loc1"]; got != 20 {
		t.Fatalf("expected local heat 20, got %v", got)
	}
	if updated.GlobalHeat != 2 {
		t.Fatalf("expected global heat 2, got %v", updated.GlobalHeat)
	}
	if len(updated.KnownCrimes) != 1 {
		t.Fatalf("expected 1 known crime, got %d", len(updated.KnownCrimes))
	}
}

func TestCommitCrimeUnwitnessedHeat(t *testing.T) {
	state := NewState()
	crime := Crime{ID: "c1", Type: CrimeTheft, LocationID: "loc1", Severity: 10, Witnessed: false}

	updated, _ := CommitCrime(state, crime, "pc-1", "", time.Now())
	if got := updated.LocalHeat["loc1"]; got != 5 {
		t.Fatalf("expected local heat 5, got %v", got)
	}
	if updated.GlobalHeat != 0.5 {
		t.Fatalf("expected global heat 0.5, got %v", updated.GlobalHeat)
	}
}

func TestCommitCrimeAttachesBounty(t *testing.T) {
	state := NewState()
	crime := Crime{ID: "c1", Type: CrimeMurder, LocationID: "loc1", Severity: 90, Witnessed: true}

	updated, bounty := CommitCrime(state, crime, "pc-1", "crown", time.Now())
	if bounty == nil {
		t.Fatal("expected a bounty for severity 90")
	}
	if len(updated.Bounties) != 1 {
		t.Fatalf("expected bounty recorded, got %d", len(updated.Bounties))
	}
	if bounty.Conditions != ConditionsDeadOrAlive {
		t.Fatalf("expected dead-or-alive, got %q", bounty.Conditions)
	}
}

func TestCommitCrimeClampsHeat(t *testing.T) {
	state := NewState()
	state.GlobalHeat = 99
	state.LocalHeat["loc1"] = 99
	crime := Crime{Type: CrimeMurder, LocationID: "loc1", Severity: 100, Witnessed: true}

	updated, _ := CommitCrime(state, crime, "pc-1", "", time.Now())
	if updated.LocalHeat["loc1"] != 100 {
		t.Fatalf("expected local heat clamped to 100, got %v", updated.LocalHeat["loc1"])
	}
	if updated.GlobalHeat != 100 {
		t.Fatalf("expected global heat clamped to 100, got %v", updated.GlobalHeat)
	}
}

func TestCommitCrimeDoesNotMutateInput(t *testing.T) {
	state := NewState()
	state.LocalHeat["loc1"] = 10
	crime := Crime{Type: CrimeTheft, LocationID: "loc1", Severity: 10, Witnessed: true}

	CommitCrime(state, crime, "pc-1", "", time.Now())
	if state.LocalHeat["loc1"] != 10 {
		t.Fatalf("input state mutated: local heat %v", state.LocalHeat["loc1"])
	}
	if len(state.KnownCrimes) != 0 {
		t.Fatal("input state mutated: crimes appended")
	}
}

func TestDecayHeat(t *testing.T) {
	state := NewState()
	state.GlobalHeat = 50
	state.LocalHeat["loc1"] = 30
	state.LocalHeat["loc2"] = 5

	updated := DecayHeat(state, 10)
	if updated.GlobalHeat != 49 {
		t.Fatalf("expected global heat 49, got %v", updated.GlobalHeat)
	}
	if updated.LocalHeat["loc1"] != 20 {
		t.Fatalf("expected loc1 heat 20, got %v", updated.LocalHeat["loc1"])
	}
	if updated.LocalHeat["loc2"] != 0 {
		t.Fatalf("expected loc2 heat floored at 0, got %v", updated.LocalHeat["loc2"])
	}
}

func TestLowerHeatLocal(t *testing.T) {
	state := NewState()
	state.GlobalHeat = 40
	state.LocalHeat["loc1"] = 30

	updated := LowerHeat(state, 20, "loc1")
	if updated.LocalHeat["loc1"] != 10 {
		t.Fatalf("expected loc1 heat 10, got %v", updated.LocalHeat["loc1"])
	}
	if updated.GlobalHeat != 40 {
		t.Fatalf("expected global heat untouched, got %v", updated.GlobalHeat)
	}
}

func TestLowerHeatEverywhere(t *testing.T) {
	state := NewState()
	state.GlobalHeat = 40
	state.LocalHeat["loc1"] = 30
	state.LocalHeat["loc2"] = 10

	updated := LowerHeat(state, 20, "")
	if updated.GlobalHeat != 20 {
		t.Fatalf("expected global heat 20, got %v", updated.GlobalHeat)
	}
	if updated.LocalHeat["loc1"] != 10 {
		t.Fatalf("expected loc1 heat 10, got %v", updated.LocalHeat["loc1"])
	}
	if updated.LocalHeat["loc2"] != 0 {
		t.Fatalf("expected loc2 heat 0, got %v", updated.LocalHeat["loc2"])
	}
}

func TestExpireBounties(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	state := NewState()
	state.Bounties = []Bounty{
		{ID: "b1", IsActive: true, Expiration: now.Add(-time.Hour)},
		{ID: "b2", IsActive: true, Expiration: now.Add(time.Hour)},
	}

	updated := ExpireBounties(state, now)
	if updated.Bounties[0].IsActive {
		t.Fatal("expected expired bounty deactivated")
	}
	if !updated.Bounties[1].IsActive {
		t.Fatal("expected live bounty still active")
	}
}
