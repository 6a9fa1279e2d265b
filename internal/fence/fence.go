// Package fence prices and executes sales of stolen goods against generated
// black-market buyers.
//
// A fence pays below market value (their cut), only deals in categories they
// accept, and discounts goods still hot from a recent job. Transactions are
// pure: new copies of both parties come back, inputs are never touched.
package fence

import (
	"fmt"
	"math"
	"time"

	"github.com/louisbranch/undercroft/internal/id"
	"github.com/louisbranch/undercroft/internal/random"
)

// hotWindow is how long an item stays "hot" after it was acquired.
const hotWindow = 24 * time.Hour

// hotPenalty is the price multiplier applied to hot goods.
const hotPenalty = 0.8

// acceptedVocabulary is the pool of categories a generated fence may deal in.
var acceptedVocabulary = []string{
	"jewelry", "weapons", "documents", "antiques", "gems", "textiles", "relics", "curios",
}

// wildcardTags always find a buyer regardless of the fence's specialties.
var wildcardTags = []string{"valuable", "art"}

var fenceFirstNames = []string{"Silas", "Wren", "Odo", "Petra", "Calloway", "Imre", "Dusa", "Fletch"}
var fenceEpithets = []string{"the Quiet", "Two-Fingers", "of the Night Market", "the Broker", "Half-Coin", "the Gull"}

// Fence is a black-market buyer of stolen goods.
type Fence struct {
	ID                 string
	Name               string
	LocationID         string
	Cut                float64
	AcceptedCategories []string
	Gold               int
}

// Item is a tradeable good in a character's inventory.
type Item struct {
	ID         string
	Name       string
	Value      int
	Tags       []string
	AcquiredAt time.Time
}

// Seller is the trading view of a character: wallet, inventory, and the
// charisma that sweetens a deal.
type Seller struct {
	CharacterID string
	Gold        int
	Charisma    int
	Inventory   []Item
}

// SaleResult reports one attempted sale. Refusals are narrative, not errors.
type SaleResult struct {
	Accepted      bool
	Message       string
	GoldEarned    int
	HeatGenerated int
}

// Generate creates a fence at a location: a cut between 20% and 50%, two to
// four specialties, and a purse of 500 to 2500 gold.
func Generate(rng random.Source, locationID string) Fence {
	fence := Fence{
		ID:         id.New(),
		Name:       fmt.Sprintf("%s %s", fenceFirstNames[rng.Pick(len(fenceFirstNames))], fenceEpithets[rng.Pick(len(fenceEpithets))]),
		LocationID: locationID,
		Cut:        0.2 + rng.Float64()*0.3,
		Gold:       rng.IntBetween(500, 2500),
	}

	count := rng.IntBetween(2, 4)
	chosen := map[int]bool{}
	for len(fence.AcceptedCategories) < count {
		pick := rng.Pick(len(acceptedVocabulary))
		if chosen[pick] {
			continue
		}
		chosen[pick] = true
		fence.AcceptedCategories = append(fence.AcceptedCategories, acceptedVocabulary[pick])
	}
	return fence
}

// EvaluateItem prices an item for the fence. The second return value is
// false when the fence refuses to deal in the item at all.
func (f Fence) EvaluateItem(item Item, seller Seller, now time.Time) (int, bool) {
	if !f.accepts(item) {
		return 0, false
	}

	socialBonus := float64((seller.Charisma-10)/2) * 0.02
	if socialBonus < 0 {
		socialBonus = 0
	}
	if socialBonus > 0.2 {
		socialBonus = 0.2
	}

	offer := float64(item.Value) * (1 - f.Cut) * (1 + socialBonus)
	if now.Sub(item.AcquiredAt) < hotWindow {
		offer *= hotPenalty
	}
	return int(math.Floor(offer)), true
}

// Sell attempts a sale without committing it; the result carries narrative
// refusals for items the fence will not buy or cannot afford.
func (f Fence) Sell(item Item, seller Seller, now time.Time) SaleResult {
	offer, accepted := f.EvaluateItem(item, seller, now)
	if !accepted {
		return SaleResult{
			Message: fmt.Sprintf("%s wants nothing to do with %s", f.Name, item.Name),
		}
	}
	if offer > f.Gold {
		return SaleResult{
			Message: fmt.Sprintf("%s doesn't have enough coin for %s", f.Name, item.Name),
		}
	}
	return SaleResult{
		Accepted:      true,
		Message:       fmt.Sprintf("%s pays %d gold for %s", f.Name, offer, item.Name),
		GoldEarned:    offer,
		HeatGenerated: item.Value / 100,
	}
}

// ProcessTransaction applies a sale atomically: the seller gains the offer
// and loses the item, the fence loses the gold. Both parties come back as
// new copies; on refusal they come back unchanged.
func ProcessTransaction(seller Seller, f Fence, itemID string, now time.Time) (Seller, Fence, SaleResult) {
	item, found := lookupItem(seller, itemID)
	if !found {
		return cloneSeller(seller), f, SaleResult{
			Message: fmt.Sprintf("%s has nothing like that to sell", seller.CharacterID),
		}
	}

	result := f.Sell(item, seller, now)
	if !result.Accepted {
		return cloneSeller(seller), f, result
	}

	updatedSeller := cloneSeller(seller)
	updatedSeller.Gold += result.GoldEarned
	for i, held := range updatedSeller.Inventory {
		if held.ID == itemID {
			updatedSeller.Inventory = append(updatedSeller.Inventory[:i], updatedSeller.Inventory[i+1:]...)
			break
		}
	}

	updatedFence := f
	updatedFence.AcceptedCategories = append([]string(nil), f.AcceptedCategories...)
	updatedFence.Gold -= result.GoldEarned

	return updatedSeller, updatedFence, result
}

// accepts reports whether the item carries an accepted category or a
// wildcard tag.
func (f Fence) accepts(item Item) bool {
	for _, tag := range item.Tags {
		for _, wildcard := range wildcardTags {
			if tag == wildcard {
				return true
			}
		}
		for _, category := range f.AcceptedCategories {
			if tag == category {
				return true
			}
		}
	}
	return false
}

func lookupItem(seller Seller, itemID string) (Item, bool) {
	for _, item := range seller.Inventory {
		if item.ID == itemID {
			return item, true
		}
	}
	return Item{}, false
}

func cloneSeller(seller Seller) Seller {
	out := seller
	out.Inventory = append([]Item(nil), seller.Inventory...)
	return out
}
