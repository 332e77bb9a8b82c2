package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/your-org/faceauth/internal/config"
	"github.com/your-org/faceauth/internal/models"
)

var (
	// ErrUnavailable wraps transport-level failures talking to a backing store.
	ErrUnavailable = errors.New("store unavailable")
	// ErrNotFound is returned when a targeted row no longer exists.
	ErrNotFound = errors.New("not found")
)

// PostgresStore is the user directory. It owns the pgx pool shared with the
// pgvector face index.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(cfg config.DatabaseConfig) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Pool exposes the underlying connection pool so the face index can share it.
func (s *PostgresStore) Pool() *pgxpool.Pool {
	return s.pool
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// CreateUser inserts an identity row with null biometric fields and returns
// its assigned id.
func (s *PostgresStore) CreateUser(ctx context.Context, name string, age int) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (name, age) VALUES ($1, $2) RETURNING id`,
		name, age,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create user: %w: %w", ErrUnavailable, err)
	}
	return id, nil
}

// LinkBiometric sets the face template id and optional photo URL on an
// existing row. The unique index on face_id rejects a template id already
// owned by another row.
func (s *PostgresStore) LinkBiometric(ctx context.Context, userID int64, faceID uuid.UUID, photoURL *string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET face_id = $1, profile_photo_url = $2 WHERE id = $3`,
		faceID, photoURL, userID)
	if err != nil {
		return fmt.Errorf("link biometric: %w: %w", ErrUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("link biometric: user %d: %w", userID, ErrNotFound)
	}
	return nil
}

// GetUserByFaceID returns the row owning the given template id, or nil when
// no row is linked to it.
func (s *PostgresStore) GetUserByFaceID(ctx context.Context, faceID uuid.UUID) (*models.User, error) {
	u := &models.User{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, age, face_id, profile_photo_url, created_at FROM users WHERE face_id = $1`,
		faceID,
	).Scan(&u.ID, &u.Name, &u.Age, &u.FaceID, &u.ProfilePhotoURL, &u.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by face id: %w: %w", ErrUnavailable, err)
	}
	return u, nil
}

// GetUser returns a row by primary key, or nil when absent.
func (s *PostgresStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	u := &models.User{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, age, face_id, profile_photo_url, created_at FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Name, &u.Age, &u.FaceID, &u.ProfilePhotoURL, &u.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w: %w", ErrUnavailable, err)
	}
	return u, nil
}

// ListUsers returns all rows in insertion order.
func (s *PostgresStore) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, age, face_id, profile_photo_url, created_at FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w: %w", ErrUnavailable, err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Age, &u.FaceID, &u.ProfilePhotoURL, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, nil
}

// ListOrphans returns rows that were created but never linked to a template.
// Used by the reconcile CLI, never by request handling.
func (s *PostgresStore) ListOrphans(ctx context.Context) ([]models.User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, age, face_id, profile_photo_url, created_at FROM users WHERE face_id IS NULL ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list orphans: %w: %w", ErrUnavailable, err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Age, &u.FaceID, &u.ProfilePhotoURL, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, nil
}
