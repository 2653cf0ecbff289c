package store

// postgres.go is the database-backed store for shared deployments: one row
// per session and one row per configuration document, each holding a jsonb
// payload upserted by name. The schema is created on startup by Migrate.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"rosteraudit/internal/roster"
	"rosteraudit/internal/rules"
)

// DBTX is the subset of database operations the store needs.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres stores sessions and configuration in PostgreSQL. It implements
// SessionStore and ConfigStore.
type Postgres struct {
	db DBTX
}

// NewPostgres wraps a connection pool (or transaction) in a store.
func NewPostgres(db DBTX) *Postgres {
	return &Postgres{db: db}
}

// Migrate creates the storage schema if missing and seeds the factory
// configuration documents on first run.
func (s *Postgres) Migrate(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS roster_sessions (
			name     text PRIMARY KEY,
			saved_at timestamptz NOT NULL,
			players  jsonb NOT NULL
		);
		CREATE TABLE IF NOT EXISTS roster_config (
			key        text PRIMARY KEY,
			payload    jsonb NOT NULL,
			updated_at timestamptz NOT NULL
		);`
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate store schema: %w", err)
	}

	if err := s.seedConfig(ctx, "rules", rules.Defaults()); err != nil {
		return err
	}
	return s.seedConfig(ctx, "equivalences", rules.DefaultEquivalences())
}

func (s *Postgres) seedConfig(ctx context.Context, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode default %s: %w", key, err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO roster_config (key, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO NOTHING`, key, payload)
	if err != nil {
		return fmt.Errorf("seed %s: %w", key, err)
	}
	return nil
}

// ----------------------------------------------------------------------------
// SessionStore
// ----------------------------------------------------------------------------

func (s *Postgres) List(ctx context.Context) ([]SessionInfo, error) {
	rows, err := s.db.Query(ctx, `
		SELECT name, saved_at, jsonb_array_length(players)
		FROM roster_sessions
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var infos []SessionInfo
	for rows.Next() {
		var info SessionInfo
		if err := rows.Scan(&info.Name, &info.SavedAt, &info.Count); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

func (s *Postgres) Load(ctx context.Context, name string) (*roster.Table, error) {
	var payload []byte
	err := s.db.QueryRow(ctx,
		`SELECT players FROM roster_sessions WHERE name = $1`, name).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %q: %w", name, err)
	}

	var players []*roster.Player
	if err := json.Unmarshal(payload, &players); err != nil {
		return nil, fmt.Errorf("decode session %q: %w", name, err)
	}
	return &roster.Table{Players: players}, nil
}

func (s *Postgres) Save(ctx context.Context, name string, t *roster.Table) error {
	payload, err := json.Marshal(t.Players)
	if err != nil {
		return fmt.Errorf("encode session %q: %w", name, err)
	}
	// Last write wins at the session-name boundary.
	_, err = s.db.Exec(ctx, `
		INSERT INTO roster_sessions (name, saved_at, players)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET saved_at = EXCLUDED.saved_at, players = EXCLUDED.players`,
		name, time.Now().UTC(), payload)
	if err != nil {
		return fmt.Errorf("save session %q: %w", name, err)
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, name string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM roster_sessions WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("delete session %q: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Postgres) Rename(ctx context.Context, oldName, newName string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE roster_sessions SET name = $2 WHERE name = $1`, oldName, newName)
	if err != nil {
		return fmt.Errorf("rename session %q: %w", oldName, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ----------------------------------------------------------------------------
// ConfigStore
// ----------------------------------------------------------------------------

func (s *Postgres) loadConfig(ctx context.Context, key string, v any) (bool, error) {
	var payload []byte
	err := s.db.QueryRow(ctx,
		`SELECT payload FROM roster_config WHERE key = $1`, key).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load config %q: %w", key, err)
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return false, fmt.Errorf("decode config %q: %w", key, err)
	}
	return true, nil
}

func (s *Postgres) saveConfig(ctx context.Context, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode config %q: %w", key, err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO roster_config (key, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`,
		key, payload)
	if err != nil {
		return fmt.Errorf("save config %q: %w", key, err)
	}
	return nil
}

func (s *Postgres) Rules(ctx context.Context) (rules.Config, error) {
	cfg := rules.Config{}
	ok, err := s.loadConfig(ctx, "rules", &cfg)
	if err != nil {
		return nil, err
	}
	if !ok || len(cfg) == 0 {
		return rules.Defaults(), nil
	}
	return cfg, nil
}

func (s *Postgres) SaveRules(ctx context.Context, cfg rules.Config) error {
	return s.saveConfig(ctx, "rules", cfg)
}

func (s *Postgres) Equivalences(ctx context.Context) (rules.Equivalences, error) {
	eq := rules.Equivalences{}
	ok, err := s.loadConfig(ctx, "equivalences", &eq)
	if err != nil {
		return nil, err
	}
	if !ok || len(eq) == 0 {
		return rules.DefaultEquivalences(), nil
	}
	return eq, nil
}

func (s *Postgres) SaveEquivalences(ctx context.Context, eq rules.Equivalences) error {
	return s.saveConfig(ctx, "equivalences", eq)
}

func (s *Postgres) Categories(ctx context.Context) (rules.Categories, error) {
	cats := rules.Categories{}
	if _, err := s.loadConfig(ctx, "team_categories", &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (s *Postgres) SaveCategories(ctx context.Context, cats rules.Categories) error {
	return s.saveConfig(ctx, "team_categories", cats)
}
