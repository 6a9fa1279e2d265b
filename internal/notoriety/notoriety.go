// Package notoriety tracks crimes, heat, and bounties for a character.
//
// Every function is a pure transformation: state goes in, a new state comes
// out, and the input is never mutated. Heat values are clamped to [0, 100]
// and risk values to [5, 95]; out-of-range inputs are clamped, never
// rejected.
package notoriety

import (
	"time"

	"github.com/louisbranch/undercroft/internal/id"
)

// bountyExpiry is how long an issued bounty remains collectible.
const bountyExpiry = 7 * 24 * time.Hour

// bountySeverityThreshold is the minimum crime severity that draws a bounty.
const bountySeverityThreshold = 30

// baseRisk is the detection risk floor for each crime category before heat
// is applied.
var baseRisk = map[CrimeType]float64{
	CrimeVandalism:     10,
	CrimePickpocketing: 15,
	CrimeTheft:         20,
	CrimeSmuggling:     25,
	CrimeForgery:       25,
	CrimeBurglary:      30,
	CrimeBlackmail:     35,
	CrimeAssault:       40,
	CrimeArson:         45,
	CrimeMurder:        60,
}

// BaseRisk returns the base detection risk for a crime category. Unlisted
// categories fall back to the theft baseline.
func BaseRisk(crimeType CrimeType) float64 {
	if risk, ok := baseRisk[crimeType]; ok {
		return risk
	}
	return baseRisk[CrimeTheft]
}

// CalculateRisk computes the detection risk of committing a crime at a
// location, clamped to [5, 95].
func CalculateRisk(state State, locationID string, crimeType CrimeType) float64 {
	risk := BaseRisk(crimeType) + state.LocalHeat[locationID]*0.5 + state.GlobalHeat*0.2
	return clamp(5, 95, risk)
}

// HeatLevelOf classifies a heat value.
func HeatLevelOf(value float64) HeatLevel {
	switch {
	case value < 10:
		return HeatUnknown
	case value < 40:
		return HeatSuspected
	case value < 80:
		return HeatWanted
	default:
		return HeatHunted
	}
}

// GenerateBounty issues a bounty for a crime when its severity clears the
// threshold. The second return value reports whether a bounty was issued.
func GenerateBounty(crime Crime, targetID, issuerID string, now time.Time) (Bounty, bool) {
	if crime.Severity < bountySeverityThreshold {
		return Bounty{}, false
	}

	amount := crime.Severity * 10
	if crime.Type == CrimeMurder {
		amount += 500
	}

	conditions := ConditionsAlive
	if crime.Severity > 80 {
		conditions = ConditionsDeadOrAlive
	}

	return Bounty{
		ID:         id.New(),
		TargetID:   targetID,
		IssuerID:   issuerID,
		Amount:     amount,
		Conditions: conditions,
		IsActive:   true,
		Expiration: now.Add(bountyExpiry),
	}, true
}

// CommitCrime appends the crime, raises local and global heat, and attaches
// a bounty when one is generated. Witnessed crimes heat up at four times the
// rate of unwitnessed ones.
func CommitCrime(state State, crime Crime, targetID, issuerID string, now time.Time) (State, *Bounty) {
	out := state.clone()
	out.KnownCrimes = append(out.KnownCrimes, crime)

	severity := float64(crime.Severity)
	localDelta, globalDelta := severity*0.5, severity*0.05
	if crime.Witnessed {
		localDelta, globalDelta = severity*2, severity*0.2
	}

	out.LocalHeat[crime.LocationID] = clamp(0, 100, out.LocalHeat[crime.LocationID]+localDelta)
	out.GlobalHeat = clamp(0, 100, out.GlobalHeat+globalDelta)

	bounty, issued := GenerateBounty(crime, targetID, issuerID, now)
	if !issued {
		return out, nil
	}
	out.Bounties = append(out.Bounties, bounty)
	return out, &bounty
}

// DecayHeat cools the state linearly over elapsed time: local heat drops one
// point per hour, global heat at a tenth of that rate, both floored at zero.
func DecayHeat(state State, hoursPassed float64) State {
	if hoursPassed <= 0 {
		return state.clone()
	}

	out := state.clone()
	out.GlobalHeat = clamp(0, 100, out.GlobalHeat-hoursPassed*0.1)
	for location, heat := range out.LocalHeat {
		out.LocalHeat[location] = clamp(0, 100, heat-hoursPassed)
	}
	return out
}

// LowerHeat reduces heat by a deliberate act (bribes, lying low). With a
// location it cools only that location; without one it cools global heat and
// every local value.
func LowerHeat(state State, amount float64, locationID string) State {
	out := state.clone()
	if amount <= 0 {
		return out
	}

	if locationID != "" {
		out.LocalHeat[locationID] = clamp(0, 100, out.LocalHeat[locationID]-amount)
		return out
	}

	out.GlobalHeat = clamp(0, 100, out.GlobalHeat-amount)
	for location, heat := range out.LocalHeat {
		out.LocalHeat[location] = clamp(0, 100, heat-amount)
	}
	return out
}

// ExpireBounties deactivates bounties whose expiration has passed.
func ExpireBounties(state State, now time.Time) State {
	out := state.clone()
	for i, bounty := range out.Bounties {
		if bounty.IsActive && now.After(bounty.Expiration) {
			out.Bounties[i].IsActive = false
		}
	}
	return out
}

func clamp(min, max, value float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
