package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/your-org/faceauth/internal/config"
	"github.com/your-org/faceauth/internal/faceindex"
)

// Bootstrapper makes sure the active collection exists before the service
// takes traffic. It runs once at startup; a failure here is fatal to the
// process, never swallowed.
type Bootstrapper struct {
	index faceindex.Index
}

func NewBootstrapper(index faceindex.Index) *Bootstrapper {
	return &Bootstrapper{index: index}
}

// EnsureCollection applies the configured reset policy. Under
// create-if-absent it is idempotent: when the collection already exists no
// create is issued. Under recreate-if-exists the existing collection and
// every template in it are destroyed first — a maintenance operation for
// development resets, never for a deployment holding live enrollments.
func (b *Bootstrapper) EnsureCollection(ctx context.Context, name, policy string) error {
	existing, err := b.index.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	exists := slices.Contains(existing, name)

	switch policy {
	case config.ResetPolicyCreateIfAbsent:
		if exists {
			slog.Info("collection present", "collection", name)
			return nil
		}

	case config.ResetPolicyRecreate:
		if exists {
			slog.Warn("DESTRUCTIVE reset: deleting existing collection and all enrolled templates",
				"collection", name)
			if err := b.index.DeleteCollection(ctx, name); err != nil {
				return fmt.Errorf("delete collection %s: %w", name, err)
			}
		}

	default:
		return fmt.Errorf("unknown reset policy %q", policy)
	}

	if err := b.index.CreateCollection(ctx, name); err != nil {
		return fmt.Errorf("create collection %s: %w", name, err)
	}
	slog.Info("collection created", "collection", name, "policy", policy)
	return nil
}
