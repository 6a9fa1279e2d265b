// Package intent dispatches requests into the simulation engines and folds
// the results into patches and an append-only event journal.
//
// The dispatcher is the only layer that touches stores; the engines below it
// are pure. Missing aggregates (no active heist, no guild membership) make
// an intent a no-op with an empty patch; domain validation failures surface
// as typed errors.
package intent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/undercroft/internal/derr"
	"github.com/louisbranch/undercroft/internal/guild"
	"github.com/louisbranch/undercroft/internal/heist"
	"github.com/louisbranch/undercroft/internal/id"
	"github.com/louisbranch/undercroft/internal/identity"
	"github.com/louisbranch/undercroft/internal/leverage"
	"github.com/louisbranch/undercroft/internal/notoriety"
	"github.com/louisbranch/undercroft/internal/random"
	"github.com/louisbranch/undercroft/internal/society"
	"github.com/louisbranch/undercroft/internal/storage"
)

// TargetLookup resolves a coercion target from host-application data.
type TargetLookup func(targetID string) (leverage.Target, bool)

// Dispatcher routes intents into the engines and persists the outcomes.
type Dispatcher struct {
	stores       storage.Stores
	rng          random.Source
	lookupTarget TargetLookup
	now          func() time.Time
	tracer       trace.Tracer
}

// New creates a dispatcher. lookup may be nil when the host exposes no
// coercion targets; leverage intents then no-op.
func New(stores storage.Stores, rng random.Source, lookup TargetLookup) *Dispatcher {
	return &Dispatcher{
		stores:       stores,
		rng:          rng,
		lookupTarget: lookup,
		now:          time.Now,
		tracer:       otel.Tracer("undercroft/intent"),
	}
}

// Dispatch runs one intent, journals it, and returns the resulting patch.
func (d *Dispatcher) Dispatch(ctx context.Context, in Intent) (Patch, error) {
	ctx, span := d.tracer.Start(ctx, "intent.dispatch", trace.WithAttributes(
		attribute.String("intent.kind", string(in.Kind)),
	))
	defer span.End()

	if in.CharacterID == "" {
		err := derr.New(derr.CodeIntentMissingCharacter, "intent requires a character id")
		span.RecordError(err)
		return Patch{}, err
	}

	patch, err := d.apply(ctx, in)
	if err != nil {
		span.RecordError(err)
		return Patch{}, err
	}
	span.SetAttributes(attribute.Bool("intent.noop", patch.Empty()))

	if err := d.journal(ctx, in, patch); err != nil {
		span.RecordError(err)
		return Patch{}, err
	}
	return patch, nil
}

func (d *Dispatcher) apply(ctx context.Context, in Intent) (Patch, error) {
	switch in.Kind {
	case KindStartHeistPlanning:
		return d.startHeistPlanning(ctx, in)
	case KindAddHeistIntel:
		return d.withHeist(ctx, in, func(plan heist.Plan) (heist.Plan, Patch, error) {
			updated := heist.AddIntel(plan, in.Intel)
			return updated, Patch{HeistPlan: &updated}, nil
		})
	case KindSelectHeistApproach:
		return d.withHeist(ctx, in, func(plan heist.Plan) (heist.Plan, Patch, error) {
			updated, err := heist.SelectApproach(plan, in.Approach)
			if err != nil {
				return plan, Patch{}, err
			}
			return updated, Patch{HeistPlan: &updated}, nil
		})
	case KindAssignHeistCrew:
		return d.withHeist(ctx, in, func(plan heist.Plan) (heist.Plan, Patch, error) {
			updated := heist.AssignCrew(plan, in.CrewCharacterID, in.CrewRole)
			return updated, Patch{HeistPlan: &updated}, nil
		})
	case KindAdvanceHeistPhase:
		return d.advanceHeistPhase(ctx, in)
	case KindPerformHeistAction:
		return d.performHeistAction(ctx, in)
	case KindAbortHeist:
		return d.abortHeist(ctx, in)
	case KindCommitCrime:
		return d.commitCrime(ctx, in)
	case KindLowerHeat:
		return d.lowerHeat(ctx, in)
	case KindJoinGuild:
		return d.joinGuild(ctx, in)
	case KindAcceptGuildJob, KindCompleteGuildJob, KindAbandonGuildJob,
		KindUseGuildService, KindSetAvailableGuildJobs:
		return d.guildIntent(ctx, in)
	case KindCreateAlias:
		return d.withIdentity(ctx, in, func(state identity.State) (identity.State, Patch, error) {
			updated, alias := identity.CreateAlias(state, in.AliasName, in.AliasHistory, in.Region)
			patch := Patch{Identity: &updated, Log: []string{fmt.Sprintf("a new name takes root: %s", alias.Name)}}
			return updated, patch, nil
		})
	case KindSwitchPersona:
		return d.withIdentity(ctx, in, func(state identity.State) (identity.State, Patch, error) {
			updated, err := identity.SwitchPersona(state, in.PersonaID)
			if err != nil {
				return state, Patch{}, err
			}
			return updated, Patch{Identity: &updated}, nil
		})
	case KindEquipDisguise:
		if in.Disguise == nil {
			return Patch{}, derr.New(derr.CodeIntentMissingPayload, "equip disguise requires a disguise")
		}
		return d.withIdentity(ctx, in, func(state identity.State) (identity.State, Patch, error) {
			updated := identity.EquipDisguise(state, *in.Disguise)
			return updated, Patch{Identity: &updated}, nil
		})
	case KindRemoveDisguise:
		return d.withIdentity(ctx, in, func(state identity.State) (identity.State, Patch, error) {
			updated := identity.RemoveDisguise(state)
			return updated, Patch{Identity: &updated}, nil
		})
	case KindLearnSecret:
		return d.learnSecret(ctx, in)
	case KindVerifyDisguise:
		return d.verifyDisguise(ctx, in)
	case KindUseLeverage:
		return d.useLeverage(ctx, in)
	default:
		return Patch{}, derr.New(derr.CodeIntentUnknownKind,
			fmt.Sprintf("unknown intent kind %q", in.Kind))
	}
}

func (d *Dispatcher) startHeistPlanning(ctx context.Context, in Intent) (Patch, error) {
	leaderID := in.LeaderID
	if leaderID == "" {
		leaderID = in.CharacterID
	}
	plan := heist.StartPlanning(in.TargetLocationID, leaderID)
	plan.GuildJobID = in.JobID
	if err := d.stores.Heists.PutHeist(ctx, in.CharacterID, plan); err != nil {
		return Patch{}, fmt.Errorf("store heist plan: %w", err)
	}
	return Patch{
		HeistPlan: &plan,
		Log:       []string{fmt.Sprintf("the crew starts casing %s", in.TargetLocationID)},
	}, nil
}

// withHeist loads the active plan, applies fn, and stores the result. A
// missing plan makes the intent a no-op.
func (d *Dispatcher) withHeist(ctx context.Context, in Intent, fn func(heist.Plan) (heist.Plan, Patch, error)) (Patch, error) {
	plan, ok, err := d.loadHeist(ctx, in.CharacterID)
	if err != nil {
		return Patch{}, err
	}
	if !ok {
		return Patch{}, nil
	}
	updated, patch, err := fn(plan)
	if err != nil {
		return Patch{}, err
	}
	if err := d.stores.Heists.PutHeist(ctx, in.CharacterID, updated); err != nil {
		return Patch{}, fmt.Errorf("store heist plan: %w", err)
	}
	return patch, nil
}

func (d *Dispatcher) advanceHeistPhase(ctx context.Context, in Intent) (Patch, error) {
	plan, ok, err := d.loadHeist(ctx, in.CharacterID)
	if err != nil {
		return Patch{}, err
	}
	if !ok {
		return Patch{}, nil
	}

	updated, err := heist.AdvancePhase(plan)
	if err != nil {
		return Patch{}, err
	}

	if updated.Phase == heist.PhaseComplete {
		if err := d.stores.Heists.ClearHeist(ctx, in.CharacterID); err != nil {
			return Patch{}, fmt.Errorf("clear heist plan: %w", err)
		}
		return Patch{
			HeistCleared: true,
			Log:          []string{"the job is done and the crew scatters"},
		}, nil
	}

	if err := d.stores.Heists.PutHeist(ctx, in.CharacterID, updated); err != nil {
		return Patch{}, fmt.Errorf("store heist plan: %w", err)
	}
	return Patch{HeistPlan: &updated}, nil
}

func (d *Dispatcher) performHeistAction(ctx context.Context, in Intent) (Patch, error) {
	if in.Action == nil {
		return Patch{}, derr.New(derr.CodeIntentMissingPayload, "perform heist action requires an action")
	}
	return d.withHeist(ctx, in, func(plan heist.Plan) (heist.Plan, Patch, error) {
		actorID := in.ActorID
		if actorID == "" {
			actorID = in.CharacterID
		}
		roll := d.rng.IntBetween(0, 100)
		if in.Roll != nil {
			roll = *in.Roll
		}

		result := heist.PerformAction(plan, *in.Action, actorID, roll)
		patch := Patch{HeistPlan: &result.Plan, Log: []string{result.Message}}
		return result.Plan, patch, nil
	})
}

func (d *Dispatcher) abortHeist(ctx context.Context, in Intent) (Patch, error) {
	_, ok, err := d.loadHeist(ctx, in.CharacterID)
	if err != nil {
		return Patch{}, err
	}
	if !ok {
		return Patch{}, nil
	}
	if err := d.stores.Heists.ClearHeist(ctx, in.CharacterID); err != nil {
		return Patch{}, fmt.Errorf("clear heist plan: %w", err)
	}
	return Patch{
		HeistCleared: true,
		Log:          []string{"the heist is called off"},
	}, nil
}

func (d *Dispatcher) commitCrime(ctx context.Context, in Intent) (Patch, error) {
	state, err := d.loadNotoriety(ctx, in.CharacterID)
	if err != nil {
		return Patch{}, err
	}

	now := d.now().UTC()
	crime := notoriety.Crime{
		ID:         id.New(),
		Type:       in.CrimeType,
		LocationID: in.LocationID,
		Timestamp:  now,
		Severity:   in.Severity,
		Witnessed:  in.Witnessed,
	}

	updated, bounty := notoriety.CommitCrime(state, crime, in.CharacterID, in.IssuerID, now)
	if err := d.stores.Notoriety.PutNotoriety(ctx, in.CharacterID, updated); err != nil {
		return Patch{}, fmt.Errorf("store notoriety: %w", err)
	}

	patch := Patch{Notoriety: &updated, Bounty: bounty}
	if bounty != nil {
		patch.Log = []string{fmt.Sprintf("a bounty of %d gold is posted", bounty.Amount)}
	}
	return patch, nil
}

func (d *Dispatcher) lowerHeat(ctx context.Context, in Intent) (Patch, error) {
	state, err := d.loadNotoriety(ctx, in.CharacterID)
	if err != nil {
		return Patch{}, err
	}
	updated := notoriety.LowerHeat(state, in.Amount, in.LocationID)
	if err := d.stores.Notoriety.PutNotoriety(ctx, in.CharacterID, updated); err != nil {
		return Patch{}, fmt.Errorf("store notoriety: %w", err)
	}
	return Patch{Notoriety: &updated}, nil
}

func (d *Dispatcher) joinGuild(ctx context.Context, in Intent) (Patch, error) {
	membership, err := d.loadMembership(ctx, in.CharacterID)
	if err != nil {
		return Patch{}, err
	}
	updated := guild.Join(membership, in.GuildID)
	if err := d.stores.Guild.PutMembership(ctx, in.CharacterID, updated); err != nil {
		return Patch{}, fmt.Errorf("store membership: %w", err)
	}
	return Patch{Membership: &updated}, nil
}

// guildIntent handles every member-only guild operation. A character who has
// not joined gets an empty patch.
func (d *Dispatcher) guildIntent(ctx context.Context, in Intent) (Patch, error) {
	membership, err := d.loadMembership(ctx, in.CharacterID)
	if err != nil {
		return Patch{}, err
	}
	if !membership.Joined {
		return Patch{}, nil
	}

	var (
		updated guild.Membership
		logs    []string
	)

	switch in.Kind {
	case KindAcceptGuildJob:
		updated, err = guild.AcceptJob(membership, in.JobID)
		if err != nil {
			return Patch{}, err
		}
	case KindCompleteGuildJob:
		var outcome guild.JobOutcome
		updated, outcome = guild.CompleteJob(membership)
		if outcome.GoldReward > 0 {
			logs = append(logs, fmt.Sprintf("the guild pays out %d gold", outcome.GoldReward))
		}
		if outcome.Promoted {
			logs = append(logs, fmt.Sprintf("promoted to %s", outcome.NewRank))
		}
	case KindAbandonGuildJob:
		updated = guild.AbandonJob(membership)
	case KindUseGuildService:
		if in.Service == nil {
			return Patch{}, derr.New(derr.CodeIntentMissingPayload, "use guild service requires a service")
		}
		var outcome guild.ServiceOutcome
		updated, outcome = guild.UseService(membership, *in.Service)
		logs = append(logs, outcome.Message)
	case KindSetAvailableGuildJobs:
		updated = guild.SetAvailableJobs(membership, in.Jobs)
	default:
		return Patch{}, derr.New(derr.CodeGuildUnknownIntent,
			fmt.Sprintf("unhandled guild intent %q", in.Kind))
	}

	if err := d.stores.Guild.PutMembership(ctx, in.CharacterID, updated); err != nil {
		return Patch{}, fmt.Errorf("store membership: %w", err)
	}
	return Patch{Membership: &updated, Log: logs}, nil
}

// withIdentity loads (or initializes) the identity state, applies fn, and
// stores the result.
func (d *Dispatcher) withIdentity(ctx context.Context, in Intent, fn func(identity.State) (identity.State, Patch, error)) (Patch, error) {
	state, err := d.loadIdentity(ctx, in.CharacterID)
	if err != nil {
		return Patch{}, err
	}
	updated, patch, err := fn(state)
	if err != nil {
		return Patch{}, err
	}
	if err := d.stores.Identity.PutIdentity(ctx, in.CharacterID, updated); err != nil {
		return Patch{}, fmt.Errorf("store identity: %w", err)
	}
	return patch, nil
}

func (d *Dispatcher) learnSecret(ctx context.Context, in Intent) (Patch, error) {
	if in.Secret == nil {
		return Patch{}, derr.New(derr.CodeIntentMissingPayload, "learn secret requires a secret")
	}
	return d.withIdentity(ctx, in, func(state identity.State) (identity.State, Patch, error) {
		secret := in.Secret.WithKnower(in.CharacterID)
		if err := d.stores.Secrets.PutSecret(ctx, secret); err != nil {
			return state, Patch{}, fmt.Errorf("store secret: %w", err)
		}
		updated := identity.LearnSecret(state, secret)
		return updated, Patch{Identity: &updated}, nil
	})
}

func (d *Dispatcher) verifyDisguise(ctx context.Context, in Intent) (Patch, error) {
	state, err := d.loadIdentity(ctx, in.CharacterID)
	if err != nil {
		return Patch{}, err
	}
	if !in.Detected || state.ActiveDisguise == nil {
		return Patch{}, nil
	}

	updated := identity.RemoveDisguise(state)
	if err := d.stores.Identity.PutIdentity(ctx, in.CharacterID, updated); err != nil {
		return Patch{}, fmt.Errorf("store identity: %w", err)
	}
	return Patch{
		Identity: &updated,
		Log:      []string{fmt.Sprintf("%s sees through the disguise", in.NpcID)},
	}, nil
}

func (d *Dispatcher) useLeverage(ctx context.Context, in Intent) (Patch, error) {
	state, err := d.loadIdentity(ctx, in.CharacterID)
	if err != nil {
		return Patch{}, err
	}

	known, ok := findKnownSecret(state, in.SecretID)
	if !ok {
		return Patch{}, nil
	}
	if d.lookupTarget == nil {
		return Patch{}, nil
	}
	target, ok := d.lookupTarget(in.TargetID)
	if !ok {
		return Patch{}, nil
	}

	attempt := leverage.Attempt{
		ID:       id.New(),
		ActorID:  in.CharacterID,
		SecretID: in.SecretID,
		TargetID: in.TargetID,
		Goal:     in.Goal,
	}
	result := leverage.Apply(d.rng, attempt, known, target)

	patch := Patch{Leverage: &result, Log: []string{result.Message}}
	if result.SecretBurned {
		updated := identity.ExposeSecret(state, in.SecretID)
		if err := d.stores.Identity.PutIdentity(ctx, in.CharacterID, updated); err != nil {
			return Patch{}, fmt.Errorf("store identity: %w", err)
		}
		patch.Identity = &updated
	}
	return patch, nil
}

// journal appends the dispatched intent and a summary of its patch to the
// event store.
func (d *Dispatcher) journal(ctx context.Context, in Intent, patch Patch) error {
	payload, err := json.Marshal(struct {
		Intent Intent
		NoOp   bool
		Log    []string
	}{Intent: in, NoOp: patch.Empty(), Log: patch.Log})
	if err != nil {
		return fmt.Errorf("encode intent payload: %w", err)
	}

	evt := storage.Event{
		ID:          id.New(),
		Timestamp:   d.now().UTC(),
		Kind:        string(in.Kind),
		CharacterID: in.CharacterID,
		EntityType:  "character",
		EntityID:    in.CharacterID,
		PayloadJSON: payload,
	}
	if err := d.stores.Events.AppendEvent(ctx, evt); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

func (d *Dispatcher) loadNotoriety(ctx context.Context, characterID string) (notoriety.State, error) {
	state, err := d.stores.Notoriety.GetNotoriety(ctx, characterID)
	if err == nil {
		return state, nil
	}
	if errors.Is(err, storage.ErrNotFound) {
		return notoriety.NewState(), nil
	}
	return notoriety.State{}, fmt.Errorf("load notoriety: %w", err)
}

func (d *Dispatcher) loadHeist(ctx context.Context, characterID string) (heist.Plan, bool, error) {
	plan, err := d.stores.Heists.GetHeist(ctx, characterID)
	if err == nil {
		return plan, true, nil
	}
	if errors.Is(err, storage.ErrNotFound) {
		return heist.Plan{}, false, nil
	}
	return heist.Plan{}, false, fmt.Errorf("load heist: %w", err)
}

func (d *Dispatcher) loadIdentity(ctx context.Context, characterID string) (identity.State, error) {
	state, err := d.stores.Identity.GetIdentity(ctx, characterID)
	if err == nil {
		return state, nil
	}
	if errors.Is(err, storage.ErrNotFound) {
		return identity.NewState(characterID, characterID), nil
	}
	return identity.State{}, fmt.Errorf("load identity: %w", err)
}

func (d *Dispatcher) loadMembership(ctx context.Context, characterID string) (guild.Membership, error) {
	membership, err := d.stores.Guild.GetMembership(ctx, characterID)
	if err == nil {
		return membership, nil
	}
	if errors.Is(err, storage.ErrNotFound) {
		return guild.Membership{}, nil
	}
	return guild.Membership{}, fmt.Errorf("load membership: %w", err)
}

func findKnownSecret(state identity.State, secretID string) (society.Secret, bool) {
	for _, known := range state.KnownSecrets {
		if known.ID == secretID {
			return known, true
		}
	}
	return society.Secret{}, false
}
