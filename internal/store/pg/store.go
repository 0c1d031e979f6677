// Package pg implementa SchemaStore sobre Postgres usando pgx.
package pg

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/gqlgate/internal/domain/types"
	"github.com/dropDatabas3/gqlgate/internal/security/token"
	"github.com/dropDatabas3/gqlgate/internal/store/core"
)

type Store struct{ pool *pgxpool.Pool }

// Config tuning opcional del pool.
type Config struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

func New(ctx context.Context, dsn string, cfg Config) (*Store, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		pcfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	// Mapear MaxIdleConns → MinConns (pgxpool)
	if cfg.MaxIdleConns > 0 {
		pcfg.MinConns = int32(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime != "" {
		if d, err := time.ParseDuration(cfg.ConnMaxLifetime); err == nil {
			pcfg.MaxConnLifetime = d
			pcfg.MaxConnIdleTime = d
		}
	}
	if pcfg.MaxConns == 0 {
		pcfg.MaxConns = 8
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Pool expone el pool interno para usos avanzados (metrics/migraciones).
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *Store) Close() error {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
	return nil
}

const schemaCols = `id, uid, name, access_token, scope, enabled, expiry_date, is_public`

func scanSchema(row pgx.Row) (*types.Schema, error) {
	var (
		out      types.Schema
		tok      *string
		scopeRaw []byte
		expiry   *time.Time
	)
	err := row.Scan(&out.ID, &out.UID, &out.Name, &tok, &scopeRaw, &out.Enabled, &expiry, &out.IsPublic)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	if tok != nil {
		out.AccessToken = *tok
	}
	out.ExpiryDate = expiry
	if len(scopeRaw) > 0 {
		if err := json.Unmarshal(scopeRaw, &out.Scope); err != nil {
			return nil, err
		}
	}
	return &out, nil
}

func (s *Store) GetSchemaByToken(ctx context.Context, accessToken string) (*types.Schema, error) {
	if accessToken == "" {
		return nil, core.ErrNotFound
	}
	const q = `SELECT ` + schemaCols + ` FROM gql_schema WHERE access_token = $1`
	return scanSchema(s.pool.QueryRow(ctx, q, accessToken))
}

func (s *Store) GetSchemaByID(ctx context.Context, id int64) (*types.Schema, error) {
	const q = `SELECT ` + schemaCols + ` FROM gql_schema WHERE id = $1`
	return scanSchema(s.pool.QueryRow(ctx, q, id))
}

func (s *Store) GetSchemaByUID(ctx context.Context, uid string) (*types.Schema, error) {
	const q = `SELECT ` + schemaCols + ` FROM gql_schema WHERE uid = $1`
	return scanSchema(s.pool.QueryRow(ctx, q, uid))
}

func (s *Store) GetPublicSchema(ctx context.Context) (*types.Schema, error) {
	const q = `SELECT ` + schemaCols + ` FROM gql_schema WHERE is_public LIMIT 1`
	return scanSchema(s.pool.QueryRow(ctx, q))
}

func (s *Store) ListSchemas(ctx context.Context) ([]*types.Schema, error) {
	const q = `SELECT ` + schemaCols + ` FROM gql_schema ORDER BY id`
	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*types.Schema
	for rows.Next() {
		sc, err := scanSchema(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (s *Store) SaveSchema(ctx context.Context, sc *types.Schema) error {
	scopeRaw, err := json.Marshal(sc.Scope)
	if err != nil {
		return err
	}

	if sc.ID == 0 {
		if !sc.IsPublic && sc.AccessToken == "" {
			t, err := token.GenerateAccessToken(32)
			if err != nil {
				return err
			}
			sc.AccessToken = t
		}
		if !sc.IsPublic && sc.AccessToken == "" {
			return core.ErrMissingToken
		}
		sc.UID = uuid.NewString()

		const q = `
			INSERT INTO gql_schema (uid, name, access_token, scope, enabled, expiry_date, is_public)
			VALUES ($1, $2, NULLIF($3,''), $4, $5, $6, $7)
			RETURNING id`
		err = s.pool.QueryRow(ctx, q,
			sc.UID, sc.Name, sc.AccessToken, scopeRaw, sc.Enabled, sc.ExpiryDate, sc.IsPublic,
		).Scan(&sc.ID)
		return mapConstraint(err)
	}

	if !sc.IsPublic && sc.AccessToken == "" {
		return core.ErrMissingToken
	}

	// uid inmutable: no se toca en updates.
	const q = `
		UPDATE gql_schema
		SET name = $2, access_token = NULLIF($3,''), scope = $4, enabled = $5,
		    expiry_date = $6, is_public = $7
		WHERE id = $1`
	tag, err := s.pool.Exec(ctx, q,
		sc.ID, sc.Name, sc.AccessToken, scopeRaw, sc.Enabled, sc.ExpiryDate, sc.IsPublic,
	)
	if err != nil {
		return mapConstraint(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteSchemaByID(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM gql_schema WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

// mapConstraint traduce violaciones de unicidad a errores del dominio.
func mapConstraint(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "gql_schema_access_token_key":
			return core.ErrDuplicateToken
		case "gql_schema_single_public":
			return core.ErrPublicSchemaExists
		}
	}
	return err
}
