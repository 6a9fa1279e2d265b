// Package leverage resolves attempts to use a known secret as coercion
// against a target.
//
// An attempt rolls once against the target's resistance and lands on exactly
// one of three outcomes: success, failure, or backfire. Success and backfire
// both burn the secret; only backfire turns the target hostile.
package leverage

import (
	"fmt"

	"github.com/louisbranch/undercroft/internal/random"
	"github.com/louisbranch/undercroft/internal/society"
)

// Goal is what the coercer wants out of the target.
type Goal string

const (
	GoalBlackmail   Goal = "blackmail"
	GoalFavor       Goal = "favor"
	GoalInformation Goal = "information"
	GoalSafePassage Goal = "safe_passage"
	GoalForcedSale  Goal = "forced_sale"
)

// Outcome is the resolution of one leverage attempt.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeFailure  Outcome = "failure"
	OutcomeBackfire Outcome = "backfire"
)

// verifiedMultiplier sweetens rewards when the secret has been verified.
const verifiedMultiplier = 1.5

// backfireReputationPenalty and failureReputationPenalty are the standing
// costs of a botched or merely refused attempt.
const (
	backfireReputationPenalty = -20
	failureReputationPenalty  = -5
)

// Target is the entity being coerced.
type Target struct {
	ID         string
	Name       string
	Power      int
	Reputation int
}

// Attempt is an ephemeral record of one coercion transaction.
type Attempt struct {
	ID       string
	ActorID  string
	SecretID string
	TargetID string
	Goal     Goal
}

// Result reports the outcome of a leverage attempt, including every reward
// or penalty the caller must book.
type Result struct {
	Outcome          Outcome
	Roll             int
	Resistance       float64
	SecretBurned     bool
	TargetHostile    bool
	GoldGained       int
	ReputationChange int
	DiscountPercent  int
	Lead             string
	Message          string
}

// Resistance computes how hard a target is to coerce with a given secret,
// clamped to [5, 95]. Powerful targets resist; damning secrets and fragile
// reputations give way.
func Resistance(secret society.Secret, targetPower, targetReputation int) float64 {
	resistance := float64(targetPower)/2 - float64(secret.Value)*5 - float64(targetReputation)/5 + 50
	if resistance < 5 {
		return 5
	}
	if resistance > 95 {
		return 95
	}
	return resistance
}

// Apply resolves one leverage attempt with a single 1-100 roll from the
// injected source. Backfire burns the secret and turns the target hostile;
// failure costs a little standing but leaves the secret live; success burns
// the secret and pays out according to the goal.
func Apply(rng random.Source, attempt Attempt, secret society.Secret, target Target) Result {
	resistance := Resistance(secret, target.Power, target.Reputation)
	roll := rng.IntBetween(1, 100)

	result := Result{
		Roll:       roll,
		Resistance: resistance,
	}

	switch {
	case float64(roll) < resistance/2 || roll <= 5:
		result.Outcome = OutcomeBackfire
		result.SecretBurned = true
		result.TargetHostile = true
		result.ReputationChange = backfireReputationPenalty
		result.Message = fmt.Sprintf("%s laughs off the threat and spreads word of the clumsy attempt", target.Name)
	case float64(roll) < resistance:
		result.Outcome = OutcomeFailure
		result.ReputationChange = failureReputationPenalty
		result.Message = fmt.Sprintf("%s refuses to bend, for now", target.Name)
	default:
		result.Outcome = OutcomeSuccess
		result.SecretBurned = true
		applyReward(&result, attempt.Goal, secret, target)
	}

	return result
}

// applyReward fills in the per-goal payout of a successful attempt.
func applyReward(result *Result, goal Goal, secret society.Secret, target Target) {
	multiplier := 1.0
	if secret.Verified {
		multiplier = verifiedMultiplier
	}

	switch goal {
	case GoalBlackmail:
		result.GoldGained = int(float64(secret.Value*100) * multiplier)
		result.Message = fmt.Sprintf("%s pays %d gold for silence", target.Name, result.GoldGained)
	case GoalFavor:
		result.ReputationChange = int(float64(secret.Value*2) * multiplier)
		result.Message = fmt.Sprintf("%s owes a public favor", target.Name)
	case GoalInformation:
		result.Lead = fmt.Sprintf("%s whispers a name better left unspoken", target.Name)
		result.Message = result.Lead
	case GoalSafePassage:
		result.Message = fmt.Sprintf("%s guarantees safe passage through their holdings", target.Name)
	case GoalForcedSale:
		discount := 20 + secret.Value*3
		if discount > 50 {
			discount = 50
		}
		result.DiscountPercent = discount
		result.Message = fmt.Sprintf("%s sells at %d%% under value, teeth gritted", target.Name, discount)
	default:
		result.Message = fmt.Sprintf("%s yields", target.Name)
	}
}
