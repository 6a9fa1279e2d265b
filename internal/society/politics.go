package society

import "github.com/louisbranch/undercroft/internal/random"

// GenerateRegionalPolitics deterministically builds n houses and weaves 1-2
// reciprocal relationships per house. Relationships are symmetric, mutually
// exclusive per pair, and never self-referential.
func GenerateRegionalPolitics(seed int64, n int) ([]NobleHouse, []Secret) {
	if n <= 0 {
		return nil, nil
	}

	rng := random.NewSeeded(seed)

	houses := make([]NobleHouse, 0, n)
	var secrets []Secret
	for i := 0; i < n; i++ {
		house, houseSecrets := generateHouse(rng, i)
		houses = append(houses, house)
		secrets = append(secrets, houseSecrets...)
	}
	if n == 1 {
		return houses, secrets
	}

	for i := range houses {
		desired := rng.IntBetween(1, 2)
		for attempt := 0; attempt < desired*4 && relationCount(houses[i]) < desired; attempt++ {
			j := rng.Pick(n)
			if j == i || related(houses[i], houses[j].ID) {
				continue
			}
			kind := relationKinds[rng.Pick(len(relationKinds))]
			link(&houses[i], &houses[j], kind)
		}
	}

	return houses, secrets
}

// link records a reciprocal relationship between two houses.
func link(a, b *NobleHouse, kind Relationship) {
	switch kind {
	case RelationAlly:
		a.Allies = append(a.Allies, b.ID)
		b.Allies = append(b.Allies, a.ID)
	case RelationEnemy:
		a.Enemies = append(a.Enemies, b.ID)
		b.Enemies = append(b.Enemies, a.ID)
	case RelationRival:
		a.Rivals = append(a.Rivals, b.ID)
		b.Rivals = append(b.Rivals, a.ID)
	}
}

// related reports whether the house already holds any relationship with the
// other house.
func related(house NobleHouse, otherID string) bool {
	for _, list := range [][]string{house.Allies, house.Enemies, house.Rivals} {
		for _, entry := range list {
			if entry == otherID {
				return true
			}
		}
	}
	return false
}

func relationCount(house NobleHouse) int {
	return len(house.Allies) + len(house.Enemies) + len(house.Rivals)
}
