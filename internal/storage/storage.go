// Package storage defines the persistence interfaces for the simulation's
// projection state and its event journal.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/louisbranch/undercroft/internal/guild"
	"github.com/louisbranch/undercroft/internal/heist"
	"github.com/louisbranch/undercroft/internal/identity"
	"github.com/louisbranch/undercroft/internal/notoriety"
	"github.com/louisbranch/undercroft/internal/society"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// Event is one journal entry: an intent that was dispatched and the summary
// of what it did.
type Event struct {
	ID          string
	Timestamp   time.Time
	Kind        string
	CharacterID string
	EntityType  string
	EntityID    string
	PayloadJSON []byte
}

// EventStore persists the append-only intent journal.
type EventStore interface {
	AppendEvent(ctx context.Context, evt Event) error
	ListEvents(ctx context.Context, characterID string) ([]Event, error)
}

// NotorietyStore persists per-character notoriety state.
type NotorietyStore interface {
	PutNotoriety(ctx context.Context, characterID string, state notoriety.State) error
	GetNotoriety(ctx context.Context, characterID string) (notoriety.State, error)
}

// HeistStore persists the character's active heist plan, at most one.
type HeistStore interface {
	PutHeist(ctx context.Context, characterID string, plan heist.Plan) error
	GetHeist(ctx context.Context, characterID string) (heist.Plan, error)
	ClearHeist(ctx context.Context, characterID string) error
}

// IdentityStore persists per-character identity state.
type IdentityStore interface {
	PutIdentity(ctx context.Context, characterID string, state identity.State) error
	GetIdentity(ctx context.Context, characterID string) (identity.State, error)
}

// GuildStore persists per-character guild membership.
type GuildStore interface {
	PutMembership(ctx context.Context, characterID string, membership guild.Membership) error
	GetMembership(ctx context.Context, characterID string) (guild.Membership, error)
}

// HouseStore persists generated noble houses.
type HouseStore interface {
	PutHouse(ctx context.Context, house society.NobleHouse) error
	GetHouse(ctx context.Context, houseID string) (society.NobleHouse, error)
	ListHouses(ctx context.Context) ([]society.NobleHouse, error)
}

// SecretStore persists generated secrets.
type SecretStore interface {
	PutSecret(ctx context.Context, secret society.Secret) error
	GetSecret(ctx context.Context, secretID string) (society.Secret, error)
}

// Stores bundles every projection store plus the journal.
type Stores struct {
	Events    EventStore
	Notoriety NotorietyStore
	Heists    HeistStore
	Identity  IdentityStore
	Guild     GuildStore
	Houses    HouseStore
	Secrets   SecretStore
}
