// Package heist owns the heist-plan state machine: phase progression, crew
// and intel management, and per-action resolution.
//
// Phases advance in a fixed order (Recon, Planning, Infiltration,
// Execution, Escape, Complete) and never skip or rewind. Every transition
// function returns a new plan; inputs are never mutated.
package heist

import (
	"fmt"

	"github.com/louisbranch/undercroft/internal/derr"
	"github.com/louisbranch/undercroft/internal/id"
)

// defaultMaxAlertLevel caps accumulated suspicion on a fresh plan.
const defaultMaxAlertLevel = 100

// lookoutAlertReduction is subtracted from a failed action's alert gain when
// a crew member other than the actor holds the lookout role.
const lookoutAlertReduction = 5

// approachAffinity maps each approach to the action category it favors.
var approachAffinity = map[ApproachKind]ActionCategory{
	ApproachStealth:   CategoryStealth,
	ApproachForce:     CategoryCombat,
	ApproachDeception: CategorySocial,
}

// StartPlanning creates a fresh plan in the recon phase with the three fixed
// approaches and the leader as the only crew member.
func StartPlanning(targetLocationID, leaderID string) Plan {
	return Plan{
		ID:               id.New(),
		TargetLocationID: targetLocationID,
		LeaderID:         leaderID,
		Crew:             []CrewMember{{CharacterID: leaderID, Role: RoleLeader}},
		Phase:            PhaseRecon,
		MaxAlertLevel:    defaultMaxAlertLevel,
		Approaches: []Approach{
			{
				Kind:           ApproachStealth,
				Description:    "Slip in unseen and leave no trace.",
				RiskModifier:   -10,
				TimeMultiplier: 1.5,
				RequiredSkills: []string{"Stealth", "Thieves' Tools"},
			},
			{
				Kind:           ApproachForce,
				Description:    "Kick the door in and take what you came for.",
				RiskModifier:   20,
				TimeMultiplier: 0.5,
				RequiredSkills: []string{"Athletics", "Intimidation"},
			},
			{
				Kind:           ApproachDeception,
				Description:    "Walk in the front door under a borrowed face.",
				RiskModifier:   0,
				TimeMultiplier: 1.0,
				RequiredSkills: []string{"Deception", "Persuasion"},
			},
		},
	}
}

// AssignCrew upserts a crew entry for the character.
func AssignCrew(plan Plan, characterID string, role Role) Plan {
	out := plan.clone()
	for i, member := range out.Crew {
		if member.CharacterID == characterID {
			out.Crew[i].Role = role
			return out
		}
	}
	out.Crew = append(out.Crew, CrewMember{CharacterID: characterID, Role: role})
	return out
}

// AddIntel appends a piece of gathered intelligence.
func AddIntel(plan Plan, intel string) Plan {
	out := plan.clone()
	out.CollectedIntel = append(out.CollectedIntel, intel)
	return out
}

// SelectApproach records the chosen approach. The kind must be one of the
// plan's approaches.
func SelectApproach(plan Plan, kind ApproachKind) (Plan, error) {
	for _, approach := range plan.Approaches {
		if approach.Kind == kind {
			out := plan.clone()
			out.SelectedApproach = kind
			return out, nil
		}
	}
	return Plan{}, derr.New(derr.CodeHeistUnknownApproach,
		fmt.Sprintf("approach %q is not available for this heist", kind))
}

// AdvancePhase moves the plan to the next phase. Leaving the planning phase
// requires a selected approach, and a complete plan cannot advance.
func AdvancePhase(plan Plan) (Plan, error) {
	if plan.Phase == PhaseComplete {
		return Plan{}, derr.New(derr.CodeHeistAlreadyComplete, "the heist is already complete")
	}
	if plan.Phase == PhasePlanning && plan.SelectedApproach == "" {
		return Plan{}, derr.New(derr.CodeHeistApproachNotSelected,
			"an approach must be selected before moving past planning")
	}

	out := plan.clone()
	out.Phase = plan.Phase + 1
	return out, nil
}

// ActionSuccessChance computes the percent chance of an action succeeding,
// clamped to [5, 95]: base 100 minus difficulty and alert, +10 when the
// selected approach favors the action's category, +25 when the actor holds
// the action's required role.
func ActionSuccessChance(plan Plan, action Action, actorRole Role) int {
	chance := 100 - action.Difficulty - plan.AlertLevel
	if plan.SelectedApproach != "" && approachAffinity[plan.SelectedApproach] == action.Category {
		chance += 10
	}
	if action.RequiredRole != "" && actorRole == action.RequiredRole {
		chance += 25
	}
	return clampInt(5, 95, chance)
}

// PerformAction resolves one heist action against a [0, 100] roll. Success
// generates the action's noise in alert; failure generates its risk, reduced
// by a flat amount when a lookout other than the actor is on the crew. The
// alert level stays within [0, MaxAlertLevel] and the turn counter advances
// on every call.
func PerformAction(plan Plan, action Action, actorID string, roll int) ActionResult {
	chance := ActionSuccessChance(plan, action, crewRole(plan, actorID))
	success := roll <= chance

	alertGenerated := action.Noise
	message := fmt.Sprintf("%s succeeds: %s", actorID, action.Description)
	if !success {
		alertGenerated = action.Risk
		if hasOtherLookout(plan, actorID) {
			alertGenerated -= lookoutAlertReduction
			if alertGenerated < 0 {
				alertGenerated = 0
			}
		}
		message = fmt.Sprintf("%s fails: %s", actorID, action.Description)
	}

	out := plan.clone()
	out.AlertLevel = clampInt(0, out.MaxAlertLevel, out.AlertLevel+alertGenerated)
	out.TurnsElapsed++

	return ActionResult{
		Success:        success,
		AlertGenerated: alertGenerated,
		Plan:           out,
		Message:        message,
	}
}

// crewRole returns the actor's assigned role, or empty when the actor is not
// on the crew.
func crewRole(plan Plan, characterID string) Role {
	for _, member := range plan.Crew {
		if member.CharacterID == characterID {
			return member.Role
		}
	}
	return ""
}

// hasOtherLookout reports whether a crew member other than the actor holds
// the lookout role.
func hasOtherLookout(plan Plan, actorID string) bool {
	for _, member := range plan.Crew {
		if member.Role == RoleLookout && member.CharacterID != actorID {
			return true
		}
	}
	return false
}

func clampInt(min, max, value int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
