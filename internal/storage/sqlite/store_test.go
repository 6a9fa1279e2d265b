package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/undercroft/internal/guild"
	"github.com/louisbranch/undercroft/internal/heist"
	"github.com/louisbranch/undercroft/internal/identity"
	"github.com/louisbranch/undercroft/internal/notoriety"
	"github.com/louisbranch/undercroft/internal/society"
	"github.com/louisbranch/undercroft/internal/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "game.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestEventJournal(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := storage.Event{
		ID:          "evt-1",
		Timestamp:   time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		Kind:        "COMMIT_CRIME",
		CharacterID: "pc-1",
		EntityType:  "notoriety",
		EntityID:    "pc-1",
		PayloadJSON: []byte(`{"severity":40}`),
	}
	second := first
	second.ID = "evt-2"
	second.Timestamp = first.Timestamp.Add(time.Minute)

	if err := store.AppendEvent(ctx, first); err != nil {
		t.Fatalf("append event: %v", err)
	}
	if err := store.AppendEvent(ctx, second); err != nil {
		t.Fatalf("append event: %v", err)
	}

	events, err := store.ListEvents(ctx, "pc-1")
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].ID != "evt-1" || events[1].ID != "evt-2" {
		t.Fatalf("expected append order, got %q then %q", events[0].ID, events[1].ID)
	}
	if !events[0].Timestamp.Equal(first.Timestamp) {
		t.Fatalf("expected timestamp %v, got %v", first.Timestamp, events[0].Timestamp)
	}
}

func TestNotorietyRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.GetNotoriety(ctx, "pc-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	state := notoriety.NewState()
	state.GlobalHeat = 12.5
	state.LocalHeat["loc-1"] = 40
	state.KnownCrimes = []notoriety.Crime{{
		ID: "c-1", Type: notoriety.CrimeTheft, LocationID: "loc-1",
		Timestamp: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), Severity: 20, Witnessed: true,
	}}

	if err := store.PutNotoriety(ctx, "pc-1", state); err != nil {
		t.Fatalf("put notoriety: %v", err)
	}
	loaded, err := store.GetNotoriety(ctx, "pc-1")
	if err != nil {
		t.Fatalf("get notoriety: %v", err)
	}
	if loaded.GlobalHeat != 12.5 || loaded.LocalHeat["loc-1"] != 40 {
		t.Fatalf("unexpected heat after round trip: %+v", loaded)
	}
	if len(loaded.KnownCrimes) != 1 || loaded.KnownCrimes[0].ID != "c-1" {
		t.Fatalf("unexpected crimes after round trip: %+v", loaded.KnownCrimes)
	}
}

func TestHeistRoundTripAndClear(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	plan := heist.StartPlanning("vault-1", "pc-1")
	if err := store.PutHeist(ctx, "pc-1", plan); err != nil {
		t.Fatalf("put heist: %v", err)
	}

	loaded, err := store.GetHeist(ctx, "pc-1")
	if err != nil {
		t.Fatalf("get heist: %v", err)
	}
	if loaded.ID != plan.ID || len(loaded.Approaches) != 3 {
		t.Fatalf("unexpected plan after round trip: %+v", loaded)
	}

	if err := store.ClearHeist(ctx, "pc-1"); err != nil {
		t.Fatalf("clear heist: %v", err)
	}
	if _, err := store.GetHeist(ctx, "pc-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after clear, got %v", err)
	}
}

func TestIdentityRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	state := identity.NewState("pc-1", "Maris Duskwell")
	state = identity.LearnSecret(state, society.Secret{ID: "s-1", Value: 4})
	state = identity.EquipDisguise(state, identity.Disguise{ID: "d-1", Quality: 15})

	if err := store.PutIdentity(ctx, "pc-1", state); err != nil {
		t.Fatalf("put identity: %v", err)
	}
	loaded, err := store.GetIdentity(ctx, "pc-1")
	if err != nil {
		t.Fatalf("get identity: %v", err)
	}
	if loaded.CurrentPersonaID != state.TrueIdentity.ID {
		t.Fatal("expected persona preserved")
	}
	if loaded.ActiveDisguise == nil || loaded.ActiveDisguise.ID != "d-1" {
		t.Fatal("expected disguise preserved")
	}
	if len(loaded.KnownSecrets) != 1 {
		t.Fatalf("expected 1 known secret, got %d", len(loaded.KnownSecrets))
	}
}

func TestMembershipRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	membership := guild.Join(guild.Membership{}, "night-market")
	membership = guild.SetAvailableJobs(membership, []guild.Job{{ID: "j-1", Name: "rooftop run"}})

	if err := store.PutMembership(ctx, "pc-1", membership); err != nil {
		t.Fatalf("put membership: %v", err)
	}
	loaded, err := store.GetMembership(ctx, "pc-1")
	if err != nil {
		t.Fatalf("get membership: %v", err)
	}
	if !loaded.Joined || loaded.GuildID != "night-market" || len(loaded.AvailableJobs) != 1 {
		t.Fatalf("unexpected membership after round trip: %+v", loaded)
	}
}

func TestHouseAndSecretRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	house, secrets := society.GenerateNobleHouse(42)
	if err := store.PutHouse(ctx, house); err != nil {
		t.Fatalf("put house: %v", err)
	}
	for _, secret := range secrets {
		if err := store.PutSecret(ctx, secret); err != nil {
			t.Fatalf("put secret: %v", err)
		}
	}

	loaded, err := store.GetHouse(ctx, house.ID)
	if err != nil {
		t.Fatalf("get house: %v", err)
	}
	if loaded.Name != house.Name || len(loaded.Members) != len(house.Members) {
		t.Fatalf("unexpected house after round trip: %+v", loaded)
	}

	houses, err := store.ListHouses(ctx)
	if err != nil {
		t.Fatalf("list houses: %v", err)
	}
	if len(houses) != 1 {
		t.Fatalf("expected 1 house, got %d", len(houses))
	}

	for _, secret := range secrets {
		loadedSecret, err := store.GetSecret(ctx, secret.ID)
		if err != nil {
			t.Fatalf("get secret %s: %v", secret.ID, err)
		}
		if loadedSecret.Content != secret.Content || loadedSecret.Value != secret.Value {
			t.Fatalf("unexpected secret after round trip: %+v", loadedSecret)
		}
	}
}

func TestPutUpserts(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	state := notoriety.NewState()
	state.GlobalHeat = 10
	if err := store.PutNotoriety(ctx, "pc-1", state); err != nil {
		t.Fatalf("put notoriety: %v", err)
	}
	state.GlobalHeat = 20
	if err := store.PutNotoriety(ctx, "pc-1", state); err != nil {
		t.Fatalf("put notoriety again: %v", err)
	}

	loaded, err := store.GetNotoriety(ctx, "pc-1")
	if err != nil {
		t.Fatalf("get notoriety: %v", err)
	}
	if loaded.GlobalHeat != 20 {
		t.Fatalf("expected upserted heat 20, got %v", loaded.GlobalHeat)
	}
}
