// Package service holds the registration and authentication orchestrators.
// They are the only components with cross-subsystem invariants; everything
// they talk to is a narrow capability interface so partial failures can be
// exercised in tests.
package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/your-org/faceauth/internal/models"
)

// Directory is the relational user store the orchestrators depend on.
// Implemented by storage.PostgresStore.
type Directory interface {
	CreateUser(ctx context.Context, name string, age int) (int64, error)
	LinkBiometric(ctx context.Context, userID int64, faceID uuid.UUID, photoURL *string) error
	GetUserByFaceID(ctx context.Context, faceID uuid.UUID) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

// ObjectStore places profile photos. Implemented by storage.MinIOStore;
// nil when the deployment runs without object storage.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	ObjectURL(key string) string
}

// EventPublisher emits identity events after successful operations. Events
// are advisory: a publish failure is logged, never surfaced to the caller.
type EventPublisher interface {
	PublishEnrolled(ctx context.Context, user *models.User) error
	PublishIdentified(ctx context.Context, user *models.User, similarity float64) error
}
