package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/uploadkit"
	"github.com/dmitrymomot/uploadkit/pkg/db"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Repository persists artifacts in PostgreSQL. Safe for concurrent use;
// all synchronization is delegated to the database.
type Repository struct {
	pool *pgxpool.Pool
}

var _ uploadkit.Repository = (*Repository)(nil)

// NewRepository wraps an established connection pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Migrate applies the embedded schema migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool, table string, log *slog.Logger) error {
	return db.Migrate(ctx, pool, migrations, table, log)
}

// FindByHash returns the artifact with the exact hash and size, or
// uploadkit.ErrArtifactNotFound.
func (r *Repository) FindByHash(ctx context.Context, hash string, size int64) (*uploadkit.Artifact, error) {
	const q = `
		SELECT id, hash, size, extension, filename, width, height, url, etag, secure, owner_id, created_at
		FROM uploads
		WHERE hash = $1 AND size = $2`

	var a uploadkit.Artifact
	err := r.pool.QueryRow(ctx, q, hash, size).Scan(
		&a.ID, &a.Hash, &a.Size, &a.Extension, &a.Filename,
		&a.Width, &a.Height, &a.URL, &a.ETag, &a.Secure,
		&a.OwnerID, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, uploadkit.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("postgres: find upload by hash: %w", err)
	}
	return &a, nil
}

// Insert stores a new artifact. A hash collision with an existing row
// maps to uploadkit.ErrDuplicateHash.
func (r *Repository) Insert(ctx context.Context, a *uploadkit.Artifact) error {
	const q = `
		INSERT INTO uploads (id, hash, size, extension, filename, width, height, url, etag, secure, owner_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	_, err := r.pool.Exec(ctx, q,
		a.ID, a.Hash, a.Size, a.Extension, a.Filename,
		a.Width, a.Height, a.URL, a.ETag, a.Secure,
		a.OwnerID, a.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return uploadkit.ErrDuplicateHash
		}
		return fmt.Errorf("postgres: insert upload: %w", err)
	}
	return nil
}

// LinkOwnership appends an ownership link. Duplicate
// (principal, artifact) pairs are allowed; every call creates a row.
func (r *Repository) LinkOwnership(ctx context.Context, principalID, artifactID uuid.UUID) (*uploadkit.OwnershipLink, error) {
	const q = `
		INSERT INTO upload_ownerships (id, principal_id, artifact_id, created_at)
		VALUES ($1, $2, $3, $4)`

	link := uploadkit.OwnershipLink{
		ID:          uuid.New(),
		PrincipalID: principalID,
		ArtifactID:  artifactID,
		CreatedAt:   time.Now(),
	}
	if _, err := r.pool.Exec(ctx, q, link.ID, link.PrincipalID, link.ArtifactID, link.CreatedAt); err != nil {
		return nil, fmt.Errorf("postgres: link upload ownership: %w", err)
	}
	return &link, nil
}

// uniqueViolation is the PostgreSQL SQLSTATE for unique index conflicts.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
