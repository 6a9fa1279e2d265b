// Package society generates the social backdrop for intrigue: secrets built
// from weighted templates, and noble houses with members, heraldry, and
// reciprocal political relationships.
//
// # Determinism
//
// Every generator draws exclusively from an injected random source (or a
// source derived from an explicit seed), so identical seeds reproduce
// identical houses, members, and secrets, field for field.
package society

import (
	"fmt"

	"github.com/louisbranch/undercroft/internal/random"
)

// SecretCategory tags a secret with the kind of leverage it offers.
type SecretCategory string

const (
	CategoryAffair   SecretCategory = "affair"
	CategoryDebt     SecretCategory = "debt"
	CategoryCrime    SecretCategory = "crime"
	CategoryHeresy   SecretCategory = "heresy"
	CategoryTreason  SecretCategory = "treason"
	CategoryScandal  SecretCategory = "scandal"
	CategoryLineage  SecretCategory = "lineage"
	CategorySmuggled SecretCategory = "smuggling"
)

// Secret is a piece of leverage-capable information about a subject. Its
// content is immutable once created; Verified may only be upgraded to true
// and KnownBy only grows.
type Secret struct {
	ID        string
	SubjectID string
	Content   string
	Verified  bool
	Value     int
	KnownBy   []string
	Tags      []SecretCategory
}

// Knows reports whether the entity already knows the secret.
func (s Secret) Knows(entityID string) bool {
	for _, knower := range s.KnownBy {
		if knower == entityID {
			return true
		}
	}
	return false
}

// WithKnower returns a copy of the secret with the entity added to KnownBy.
func (s Secret) WithKnower(entityID string) Secret {
	if s.Knows(entityID) {
		return s
	}
	out := s
	out.KnownBy = append(append([]string(nil), s.KnownBy...), entityID)
	return out
}

// Verify returns a copy of the secret marked verified. Verification is never
// downgraded.
func (s Secret) Verify() Secret {
	out := s
	out.Verified = true
	return out
}

type secretTemplate struct {
	template  string
	category  SecretCategory
	baseValue int
}

var secretTemplates = []secretTemplate{
	{"%s keeps a lover in the lower city", CategoryAffair, 4},
	{"%s owes a ruinous sum to a foreign moneylender", CategoryDebt, 3},
	{"%s paid to have a rival's warehouse burned", CategoryCrime, 7},
	{"%s attends forbidden rites below the old temple", CategoryHeresy, 6},
	{"%s has corresponded with the enemy crown", CategoryTreason, 9},
	{"%s was seen fleeing the masque in borrowed regalia", CategoryScandal, 2},
	{"%s is not the trueborn heir the family claims", CategoryLineage, 8},
	{"%s moves untaxed cargo through the night docks", CategorySmuggled, 5},
	{"%s bribed the magistrate to bury an inquest", CategoryCrime, 6},
	{"%s sold the family seal to cover gambling losses", CategoryScandal, 4},
}

// GenerateSecret builds a secret about a subject from a random template. The
// subject always starts in KnownBy.
func GenerateSecret(rng random.Source, secretID, subjectID, subjectName string) Secret {
	template := secretTemplates[rng.Pick(len(secretTemplates))]
	value := template.baseValue + int(rng.Float64()*5) - 2
	if value < 1 {
		value = 1
	}
	if value > 10 {
		value = 10
	}

	return Secret{
		ID:        secretID,
		SubjectID: subjectID,
		Content:   fmt.Sprintf(template.template, subjectName),
		Verified:  rng.Float64() > 0.3,
		Value:     value,
		KnownBy:   []string{subjectID},
		Tags:      []SecretCategory{template.category},
	}
}
