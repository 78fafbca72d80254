// Package apikey validates API keys against PostgreSQL. Keys are stored as
// SHA-256 hashes; the raw key is only ever seen at creation time.
package apikey

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Document-Search-Service/pkg/postgres"
)

const schema = `
CREATE TABLE IF NOT EXISTS api_keys (
	key_hash   TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	revoked_at TIMESTAMPTZ
)`

// Key is the metadata for one API key. The raw secret is never stored.
type Key struct {
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

// Validator checks presented API keys against the api_keys table.
type Validator struct {
	client *postgres.Client
	logger *slog.Logger
}

// NewValidator creates a Validator and ensures the api_keys table exists.
func NewValidator(ctx context.Context, client *postgres.Client) (*Validator, error) {
	if _, err := client.DB.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("creating api_keys table: %w", err)
	}
	return &Validator{
		client: client,
		logger: slog.Default().With("component", "apikey"),
	}, nil
}

// Validate reports whether rawKey is a known, non-revoked key.
func (v *Validator) Validate(ctx context.Context, rawKey string) (bool, error) {
	var revoked sql.NullTime
	err := v.client.DB.QueryRowContext(ctx,
		`SELECT revoked_at FROM api_keys WHERE key_hash = $1`,
		hash(rawKey),
	).Scan(&revoked)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying api key: %w", err)
	}
	return !revoked.Valid, nil
}

// CreateKey generates a new random key under the given name and returns the
// raw secret. This is the only moment the secret is available.
func (v *Validator) CreateKey(ctx context.Context, name string) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generating api key: %w", err)
	}
	secret := hex.EncodeToString(raw)

	_, err := v.client.DB.ExecContext(ctx,
		`INSERT INTO api_keys (key_hash, name) VALUES ($1, $2)`,
		hash(secret), name,
	)
	if err != nil {
		return "", fmt.Errorf("storing api key: %w", err)
	}
	v.logger.Info("api key created", "name", name)
	return secret, nil
}

// RevokeKey marks the named key as revoked, reporting whether it existed.
func (v *Validator) RevokeKey(ctx context.Context, name string) (bool, error) {
	res, err := v.client.DB.ExecContext(ctx,
		`UPDATE api_keys SET revoked_at = now() WHERE name = $1 AND revoked_at IS NULL`,
		name,
	)
	if err != nil {
		return false, fmt.Errorf("revoking api key: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("revoking api key: %w", err)
	}
	if rows > 0 {
		v.logger.Info("api key revoked", "name", name)
	}
	return rows > 0, nil
}

// ListKeys returns the metadata for every key, newest first.
func (v *Validator) ListKeys(ctx context.Context) ([]Key, error) {
	rows, err := v.client.DB.QueryContext(ctx,
		`SELECT name, created_at, revoked_at FROM api_keys ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing api keys: %w", err)
	}
	defer rows.Close()

	var keys []Key
	for rows.Next() {
		var k Key
		var revoked sql.NullTime
		if err := rows.Scan(&k.Name, &k.CreatedAt, &revoked); err != nil {
			return nil, fmt.Errorf("scanning api key row: %w", err)
		}
		if revoked.Valid {
			t := revoked.Time
			k.RevokedAt = &t
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func hash(rawKey string) string {
	sum := sha256.Sum256([]byte(rawKey))
	return hex.EncodeToString(sum[:])
}
