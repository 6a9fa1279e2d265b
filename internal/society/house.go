package society

import (
	"fmt"
	"strings"

	"github.com/louisbranch/undercroft/internal/random"
)

// Relationship classifies how two noble houses regard each other. A pair of
// houses holds at most one relationship, mirrored on both sides.
type Relationship string

const (
	RelationAlly  Relationship = "ally"
	RelationEnemy Relationship = "enemy"
	RelationRival Relationship = "rival"
)

// Heraldry is a house's coat of arms.
type Heraldry struct {
	Tincture string
	Charge   string
}

// NobleMember is one generated member of a house. PersonalSecretIDs link
// into the secret store.
type NobleMember struct {
	ID                string
	Name              string
	Age               int
	Station           string
	Traits            []string
	Cunning           int
	Influence         int
	Martial           int
	PersonalSecretIDs []string
}

// NobleHouse is a procedurally generated faction. The Allies, Enemies, and
// Rivals lists hold house IDs and are kept symmetric with the houses they
// name.
type NobleHouse struct {
	ID            string
	Name          string
	Motto         string
	Heraldry      Heraldry
	Members       []NobleMember
	HouseSecretID string
	Allies        []string
	Enemies       []string
	Rivals        []string
}

var (
	houseNames = []string{
		"Ashveil", "Briarmont", "Corvane", "Duskwell", "Everhart",
		"Faelorn", "Greywater", "Halloweck", "Ironmere", "Karsivain",
		"Lamberay", "Morvaine", "Nightbrook", "Ostermark", "Pellingford",
	}
	mottoOpeners  = []string{"Ever", "Never", "Always", "First", "Last"}
	mottoClosers  = []string{"vigilant", "unbowed", "in shadow", "to endure", "the blade"}
	tinctures     = []string{"sable", "argent", "azure", "gules", "vert", "or"}
	charges       = []string{"a rampant wolf", "twin ravens", "a broken tower", "a crescent moon", "crossed keys", "a thorned rose"}
	memberNames   = []string{"Aldric", "Brynn", "Cassia", "Darrow", "Elowen", "Fenric", "Giselle", "Hadrian", "Isolde", "Joren", "Kateline", "Lucan", "Maris", "Nerissa", "Osmund"}
	stations      = []string{"head of house", "heir", "spymaster", "castellan", "ward", "dowager", "chaplain"}
	memberTraits  = []string{"ambitious", "pious", "spendthrift", "ruthless", "sentimental", "paranoid", "charming", "vindictive"}
	relationKinds = []Relationship{RelationAlly, RelationEnemy, RelationRival}
)

// GenerateNobleHouse deterministically builds one house and its secrets from
// a seed.
func GenerateNobleHouse(seed int64) (NobleHouse, []Secret) {
	rng := random.NewSeeded(seed)
	return generateHouse(rng, 0)
}

// generateHouse draws one house from the shared stream. The index keeps ids
// unique when several houses come from one stream.
func generateHouse(rng random.Source, index int) (NobleHouse, []Secret) {
	name := houseNames[rng.Pick(len(houseNames))]
	houseID := fmt.Sprintf("house-%d-%s", index, strings.ToLower(name))

	house := NobleHouse{
		ID:    houseID,
		Name:  fmt.Sprintf("House %s", name),
		Motto: fmt.Sprintf("%s %s", mottoOpeners[rng.Pick(len(mottoOpeners))], mottoClosers[rng.Pick(len(mottoClosers))]),
		Heraldry: Heraldry{
			Tincture: tinctures[rng.Pick(len(tinctures))],
			Charge:   charges[rng.Pick(len(charges))],
		},
	}

	var secrets []Secret

	memberCount := rng.IntBetween(2, 5)
	for m := 0; m < memberCount; m++ {
		memberID := fmt.Sprintf("%s-member-%d", houseID, m)
		member := NobleMember{
			ID:        memberID,
			Name:      memberNames[rng.Pick(len(memberNames))],
			Age:       rng.IntBetween(16, 75),
			Station:   stations[rng.Pick(len(stations))],
			Traits:    pickTraits(rng),
			Cunning:   rng.IntBetween(1, 10),
			Influence: rng.IntBetween(1, 10),
			Martial:   rng.IntBetween(1, 10),
		}

		secretCount := rng.IntBetween(0, 2)
		for s := 0; s < secretCount; s++ {
			secretID := fmt.Sprintf("%s-secret-%d", memberID, s)
			secret := GenerateSecret(rng, secretID, memberID, member.Name)
			member.PersonalSecretIDs = append(member.PersonalSecretIDs, secret.ID)
			secrets = append(secrets, secret)
		}

		house.Members = append(house.Members, member)
	}

	// Some houses guard a secret of their own.
	if rng.Float64() < 0.4 {
		secretID := fmt.Sprintf("%s-secret", houseID)
		secret := GenerateSecret(rng, secretID, houseID, house.Name)
		house.HouseSecretID = secret.ID
		secrets = append(secrets, secret)
	}

	return house, secrets
}

// pickTraits draws one or two distinct traits.
func pickTraits(rng random.Source) []string {
	count := rng.IntBetween(1, 2)
	first := rng.Pick(len(memberTraits))
	traits := []string{memberTraits[first]}
	if count == 2 {
		second := rng.Pick(len(memberTraits))
		if second == first {
			second = (second + 1) % len(memberTraits)
		}
		traits = append(traits, memberTraits[second])
	}
	return traits
}
