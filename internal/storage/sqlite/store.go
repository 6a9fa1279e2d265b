// Package sqlite provides the SQLite-backed projection and journal store.
//
// Aggregates are stored as JSON documents keyed by their owning id; the
// event journal is append-only. Migrations are embedded and applied on open.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/louisbranch/undercroft/internal/guild"
	"github.com/louisbranch/undercroft/internal/heist"
	"github.com/louisbranch/undercroft/internal/identity"
	"github.com/louisbranch/undercroft/internal/notoriety"
	"github.com/louisbranch/undercroft/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/undercroft/internal/society"
	"github.com/louisbranch/undercroft/internal/storage"
	"github.com/louisbranch/undercroft/internal/storage/sqlite/migrations"
)

// Store persists simulation state in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open opens a SQLite store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Stores returns the store bundled behind every interface it implements.
func (s *Store) Stores() storage.Stores {
	return storage.Stores{
		Events:    s,
		Notoriety: s,
		Heists:    s,
		Identity:  s,
		Guild:     s,
		Houses:    s,
		Secrets:   s,
	}
}

// AppendEvent inserts one journal entry.
func (s *Store) AppendEvent(ctx context.Context, evt storage.Event) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO events (id, ts, kind, character_id, entity_type, entity_id, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		evt.ID, evt.Timestamp.UTC().UnixMilli(), evt.Kind, evt.CharacterID,
		evt.EntityType, evt.EntityID, evt.PayloadJSON)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// ListEvents returns a character's journal in append order.
func (s *Store) ListEvents(ctx context.Context, characterID string) ([]storage.Event, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, ts, kind, character_id, entity_type, entity_id, payload
		 FROM events WHERE character_id = ? ORDER BY ts, id`, characterID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []storage.Event
	for rows.Next() {
		var evt storage.Event
		var millis int64
		if err := rows.Scan(&evt.ID, &millis, &evt.Kind, &evt.CharacterID,
			&evt.EntityType, &evt.EntityID, &evt.PayloadJSON); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		evt.Timestamp = time.UnixMilli(millis).UTC()
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// PutNotoriety upserts a character's notoriety state.
func (s *Store) PutNotoriety(ctx context.Context, characterID string, state notoriety.State) error {
	return s.putDocument(ctx, "notoriety", "character_id", characterID, state)
}

// GetNotoriety loads a character's notoriety state.
func (s *Store) GetNotoriety(ctx context.Context, characterID string) (notoriety.State, error) {
	var state notoriety.State
	if err := s.getDocument(ctx, "notoriety", "character_id", characterID, &state); err != nil {
		return notoriety.State{}, err
	}
	if state.LocalHeat == nil {
		state.LocalHeat = map[string]float64{}
	}
	return state, nil
}

// PutHeist upserts a character's active heist plan.
func (s *Store) PutHeist(ctx context.Context, characterID string, plan heist.Plan) error {
	return s.putDocument(ctx, "heists", "character_id", characterID, plan)
}

// GetHeist loads a character's active heist plan.
func (s *Store) GetHeist(ctx context.Context, characterID string) (heist.Plan, error) {
	var plan heist.Plan
	if err := s.getDocument(ctx, "heists", "character_id", characterID, &plan); err != nil {
		return heist.Plan{}, err
	}
	return plan, nil
}

// ClearHeist removes a character's active heist plan.
func (s *Store) ClearHeist(ctx context.Context, characterID string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM heists WHERE character_id = ?`, characterID); err != nil {
		return fmt.Errorf("clear heist: %w", err)
	}
	return nil
}

// PutIdentity upserts a character's identity state.
func (s *Store) PutIdentity(ctx context.Context, characterID string, state identity.State) error {
	return s.putDocument(ctx, "identities", "character_id", characterID, state)
}

// GetIdentity loads a character's identity state.
func (s *Store) GetIdentity(ctx context.Context, characterID string) (identity.State, error) {
	var state identity.State
	if err := s.getDocument(ctx, "identities", "character_id", characterID, &state); err != nil {
		return identity.State{}, err
	}
	return state, nil
}

// PutMembership upserts a character's guild membership.
func (s *Store) PutMembership(ctx context.Context, characterID string, membership guild.Membership) error {
	return s.putDocument(ctx, "guild_memberships", "character_id", characterID, membership)
}

// GetMembership loads a character's guild membership.
func (s *Store) GetMembership(ctx context.Context, characterID string) (guild.Membership, error) {
	var membership guild.Membership
	if err := s.getDocument(ctx, "guild_memberships", "character_id", characterID, &membership); err != nil {
		return guild.Membership{}, err
	}
	return membership, nil
}

// PutHouse upserts a generated noble house.
func (s *Store) PutHouse(ctx context.Context, house society.NobleHouse) error {
	return s.putDocument(ctx, "houses", "id", house.ID, house)
}

// GetHouse loads a noble house.
func (s *Store) GetHouse(ctx context.Context, houseID string) (society.NobleHouse, error) {
	var house society.NobleHouse
	if err := s.getDocument(ctx, "houses", "id", houseID, &house); err != nil {
		return society.NobleHouse{}, err
	}
	return house, nil
}

// ListHouses returns every stored house.
func (s *Store) ListHouses(ctx context.Context) ([]society.NobleHouse, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT data FROM houses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list houses: %w", err)
	}
	defer rows.Close()

	var houses []society.NobleHouse
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan house: %w", err)
		}
		var house society.NobleHouse
		if err := json.Unmarshal(data, &house); err != nil {
			return nil, fmt.Errorf("decode house: %w", err)
		}
		houses = append(houses, house)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate houses: %w", err)
	}
	return houses, nil
}

// PutSecret upserts a generated secret.
func (s *Store) PutSecret(ctx context.Context, secret society.Secret) error {
	return s.putDocument(ctx, "secrets", "id", secret.ID, secret)
}

// GetSecret loads a secret.
func (s *Store) GetSecret(ctx context.Context, secretID string) (society.Secret, error) {
	var secret society.Secret
	if err := s.getDocument(ctx, "secrets", "id", secretID, &secret); err != nil {
		return society.Secret{}, err
	}
	return secret, nil
}

// putDocument upserts one JSON document row.
func (s *Store) putDocument(ctx context.Context, table, keyColumn, key string, value any) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%s key is required", table)
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s document: %w", table, err)
	}
	query := fmt.Sprintf(
		`INSERT INTO %s (%s, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(%s) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		table, keyColumn, keyColumn)
	if _, err := s.sqlDB.ExecContext(ctx, query, key, data, s.now().UTC().UnixMilli()); err != nil {
		return fmt.Errorf("put %s document: %w", table, err)
	}
	return nil
}

// getDocument loads one JSON document row into target.
func (s *Store) getDocument(ctx context.Context, table, keyColumn, key string, target any) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	query := fmt.Sprintf(`SELECT data FROM %s WHERE %s = ?`, table, keyColumn)
	var data []byte
	err := s.sqlDB.QueryRowContext(ctx, query, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get %s document: %w", table, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode %s document: %w", table, err)
	}
	return nil
}

// ready guards against a nil receiver and a canceled context.
func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}
