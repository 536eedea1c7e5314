package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/warden/internal/config"
	"github.com/udisondev/warden/internal/model"
)

// ErrProfileNotFound is returned by Load for an unknown profile name.
var ErrProfileNotFound = errors.New("behavior profile not found")

// Profile is a named behavior config plus the patrol route it ships with.
type Profile struct {
	Name     string
	Behavior config.Behavior
	Route    []model.Vec3
}

// ProfileRepository stores behavior profiles. The config is kept as YAML text
// so new tunables do not need schema changes.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new profile repository.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// Save inserts or replaces a profile and its route in one transaction.
func (r *ProfileRepository) Save(ctx context.Context, p Profile) error {
	if err := p.Behavior.Validate(); err != nil {
		return fmt.Errorf("saving profile %q: %w", p.Name, err)
	}
	doc, err := config.MarshalBehavior(p.Behavior)
	if err != nil {
		return fmt.Errorf("saving profile %q: %w", p.Name, err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	_, err = tx.Exec(ctx, `
		INSERT INTO behavior_profiles (name, config_yaml, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET config_yaml = EXCLUDED.config_yaml, updated_at = now()
	`, p.Name, string(doc))
	if err != nil {
		return fmt.Errorf("upserting profile %q: %w", p.Name, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM patrol_waypoints WHERE profile_name = $1`, p.Name); err != nil {
		return fmt.Errorf("deleting old waypoints for %q: %w", p.Name, err)
	}

	if len(p.Route) > 0 {
		rows := make([][]any, 0, len(p.Route))
		for i, wp := range p.Route {
			rows = append(rows, []any{p.Name, int32(i), wp.X, wp.Y, wp.Z})
		}
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"patrol_waypoints"},
			[]string{"profile_name", "seq", "x", "y", "z"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("inserting waypoints for %q: %w", p.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing profile %q: %w", p.Name, err)
	}

	slog.Debug("saved behavior profile",
		"profile", p.Name,
		"waypoints", len(p.Route))
	return nil
}

// Load returns the named profile. Unknown names yield ErrProfileNotFound.
func (r *ProfileRepository) Load(ctx context.Context, name string) (Profile, error) {
	var doc string
	err := r.pool.QueryRow(ctx,
		`SELECT config_yaml FROM behavior_profiles WHERE name = $1`, name,
	).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, fmt.Errorf("loading profile %q: %w", name, ErrProfileNotFound)
	}
	if err != nil {
		return Profile{}, fmt.Errorf("querying profile %q: %w", name, err)
	}

	cfg, err := config.ParseBehavior([]byte(doc))
	if err != nil {
		return Profile{}, fmt.Errorf("decoding profile %q: %w", name, err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT x, y, z
		FROM patrol_waypoints
		WHERE profile_name = $1
		ORDER BY seq
	`, name)
	if err != nil {
		return Profile{}, fmt.Errorf("querying waypoints for %q: %w", name, err)
	}
	defer rows.Close()

	route := make([]model.Vec3, 0, 8)
	for rows.Next() {
		var wp model.Vec3
		if err := rows.Scan(&wp.X, &wp.Y, &wp.Z); err != nil {
			return Profile{}, fmt.Errorf("scanning waypoint row: %w", err)
		}
		route = append(route, wp)
	}
	if err := rows.Err(); err != nil {
		return Profile{}, fmt.Errorf("iterating waypoint rows: %w", err)
	}

	return Profile{Name: name, Behavior: cfg, Route: route}, nil
}

// Delete removes a profile and its route. Unknown names are not an error.
func (r *ProfileRepository) Delete(ctx context.Context, name string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM behavior_profiles WHERE name = $1`, name); err != nil {
		return fmt.Errorf("deleting profile %q: %w", name, err)
	}
	return nil
}

// Names lists stored profile names in order.
func (r *ProfileRepository) Names(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT name FROM behavior_profiles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	return names, nil
}
