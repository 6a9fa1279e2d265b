// Package identity tracks a character's true identity, aliases, disguises,
// and the secrets they hold.
//
// State transitions are pure: each function returns a new State and never
// mutates its input. The current persona always resolves to the true
// identity or one of the aliases; switching to anything else is a typed
// domain error.
package identity

import (
	"fmt"
	"strings"

	"github.com/louisbranch/undercroft/internal/derr"
	"github.com/louisbranch/undercroft/internal/id"
	"github.com/louisbranch/undercroft/internal/society"
)

// IdentityKind distinguishes the true identity from fabricated ones.
type IdentityKind string

const (
	// KindTrue is the character's real identity, created once and immutable.
	KindTrue IdentityKind = "true"
	// KindAlias is a fabricated persona.
	KindAlias IdentityKind = "alias"
)

// Identity is a name a character can go by.
type Identity struct {
	ID      string
	Name    string
	Kind    IdentityKind
	History string
	Fame    int
}

// Alias is a fabricated persona with its own credibility and the regions
// where it is established.
type Alias struct {
	Identity
	Credibility   float64
	EstablishedIn []string
}

// Disguise is a temporary physical cover. At most one is active at a time.
type Disguise struct {
	ID               string
	TargetAppearance string
	Quality          float64
	Vulnerabilities  []string
	TurnsRemaining   int
}

// CheckResult reports one observer's attempt to see through a disguise.
type CheckResult struct {
	Success  bool
	Detected bool
	Margin   float64
}

// State is the full identity picture for one player character.
type State struct {
	CharacterID      string
	TrueIdentity     Identity
	ActiveDisguise   *Disguise
	CurrentPersonaID string
	Aliases          []Alias
	KnownSecrets     []society.Secret
	ExposedSecrets   []society.Secret
}

// NewState creates the identity state for a character, with the true
// identity active.
func NewState(characterID, name string) State {
	trueIdentity := Identity{
		ID:   id.New(),
		Name: name,
		Kind: KindTrue,
	}
	return State{
		CharacterID:      characterID,
		TrueIdentity:     trueIdentity,
		CurrentPersonaID: trueIdentity.ID,
	}
}

// clone returns a deep copy so transitions never mutate their input.
func (s State) clone() State {
	out := s
	out.Aliases = append([]Alias(nil), s.Aliases...)
	out.KnownSecrets = append([]society.Secret(nil), s.KnownSecrets...)
	out.ExposedSecrets = append([]society.Secret(nil), s.ExposedSecrets...)
	if s.ActiveDisguise != nil {
		disguise := *s.ActiveDisguise
		out.ActiveDisguise = &disguise
	}
	return out
}

// CreateAlias fabricates a new persona, established in the given region.
func CreateAlias(state State, name, history, region string) (State, Alias) {
	alias := Alias{
		Identity: Identity{
			ID:      id.New(),
			Name:    name,
			Kind:    KindAlias,
			History: history,
		},
		Credibility:   10,
		EstablishedIn: []string{region},
	}
	out := state.clone()
	out.Aliases = append(out.Aliases, alias)
	return out, alias
}

// EquipDisguise sets the active disguise, replacing any current one.
func EquipDisguise(state State, disguise Disguise) State {
	out := state.clone()
	out.ActiveDisguise = &disguise
	return out
}

// RemoveDisguise clears the active disguise.
func RemoveDisguise(state State) State {
	out := state.clone()
	out.ActiveDisguise = nil
	return out
}

// LearnSecret records a secret the character has learned. Learning the same
// secret twice is a no-op.
func LearnSecret(state State, secret society.Secret) State {
	for _, known := range state.KnownSecrets {
		if known.ID == secret.ID {
			return state.clone()
		}
	}
	out := state.clone()
	out.KnownSecrets = append(out.KnownSecrets, secret)
	return out
}

// ExposeSecret moves a known secret to the exposed list. Exposing an unknown
// or already-exposed secret is a no-op.
func ExposeSecret(state State, secretID string) State {
	out := state.clone()
	for i, known := range out.KnownSecrets {
		if known.ID == secretID {
			out.ExposedSecrets = append(out.ExposedSecrets, known)
			out.KnownSecrets = append(out.KnownSecrets[:i], out.KnownSecrets[i+1:]...)
			return out
		}
	}
	return out
}

// SwitchPersona changes the active persona. The target must be the true
// identity or an existing alias.
func SwitchPersona(state State, targetID string) (State, error) {
	if targetID != state.TrueIdentity.ID && lookupAlias(state, targetID) == nil {
		return State{}, derr.New(derr.CodeIdentityUnknownPersona,
			fmt.Sprintf("persona %q is neither the true identity nor a known alias", targetID))
	}
	out := state.clone()
	out.CurrentPersonaID = targetID
	return out, nil
}

// DetectionRisk estimates the chance in [0, 1] that an observer sees through
// the current persona. The true identity carries no risk; an alias starts at
// even odds, lowered by credibility and a fitting disguise, raised by going
// undisguised and by the observer's perception.
func DetectionRisk(state State, observerPerception float64) float64 {
	if state.CurrentPersonaID == state.TrueIdentity.ID {
		return 0
	}
	alias := lookupAlias(state, state.CurrentPersonaID)
	if alias == nil {
		// Invariant breach: the persona no longer resolves. Treat as fully
		// exposed rather than guessing.
		return 1
	}

	risk := 0.5
	risk -= alias.Credibility / 100 * 0.4
	if state.ActiveDisguise != nil {
		risk -= state.ActiveDisguise.Quality / 50
		if strings.Contains(
			strings.ToLower(state.ActiveDisguise.TargetAppearance),
			strings.ToLower(alias.Name),
		) {
			risk -= 0.1
		}
	} else {
		risk += 0.3
	}
	risk += observerPerception * 0.05

	if risk < 0 {
		return 0
	}
	if risk > 1 {
		return 1
	}
	return risk
}

// CheckDisguise resolves one observer's inspection of a disguise. Detection
// occurs when perception plus modifiers meets the disguise quality; margin is
// how decisively either side won.
func CheckDisguise(disguise Disguise, observerPerception, modifiers float64) CheckResult {
	total := observerPerception + modifiers
	detected := total >= disguise.Quality
	margin := total - disguise.Quality
	if margin < 0 {
		margin = -margin
	}
	return CheckResult{
		Success:  !detected,
		Detected: detected,
		Margin:   margin,
	}
}

// CheckVulnerabilities returns every disguise vulnerability triggered by the
// environment, matched by case-insensitive substring in either direction's
// phrasing.
func CheckVulnerabilities(disguise Disguise, environmentTags []string) []string {
	var triggered []string
	for _, vulnerability := range disguise.Vulnerabilities {
		lowered := strings.ToLower(vulnerability)
		for _, tag := range environmentTags {
			loweredTag := strings.ToLower(tag)
			if strings.Contains(lowered, loweredTag) || strings.Contains(loweredTag, lowered) {
				triggered = append(triggered, vulnerability)
				break
			}
		}
	}
	return triggered
}

// lookupAlias finds an alias by id.
func lookupAlias(state State, aliasID string) *Alias {
	for i := range state.Aliases {
		if state.Aliases[i].ID == aliasID {
			return &state.Aliases[i]
		}
	}
	return nil
}
