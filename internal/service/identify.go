package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/your-org/faceauth/internal/faceindex"
	"github.com/your-org/faceauth/internal/models"
	"github.com/your-org/faceauth/internal/observability"
)

// Identifier authenticates an incoming photo against enrolled identities.
type Identifier struct {
	index  faceindex.Index
	dir    Directory
	events EventPublisher
}

// NewIdentifier wires the identification orchestrator. events may be nil.
func NewIdentifier(index faceindex.Index, dir Directory, events EventPublisher) *Identifier {
	return &Identifier{index: index, dir: dir, events: events}
}

// Identify matches the photo against the active collection and resolves the
// owning user. ErrNoMatch means no template matched at all;
// ErrUnknownBiometric means a template matched but no directory row owns it
// (divergence from a failed link). Both are authentication failures, but
// they are reported distinctly.
func (i *Identifier) Identify(ctx context.Context, photo []byte) (user *models.User, similarity float64, err error) {
	outcome := "error"
	defer func() {
		observability.Identifications.WithLabelValues(outcome).Inc()
	}()

	matches, err := i.index.SearchByImage(ctx, photo, 1, faceindex.QualityMedium)
	if err != nil {
		return nil, 0, fmt.Errorf("search: %w", err)
	}
	if len(matches) == 0 {
		outcome = "no_match"
		return nil, 0, ErrNoMatch
	}

	top := matches[0]
	user, err = i.dir.GetUserByFaceID(ctx, top.TemplateID)
	if err != nil {
		return nil, 0, fmt.Errorf("resolve user: %w", err)
	}
	if user == nil {
		outcome = "unknown_biometric"
		return nil, 0, fmt.Errorf("%w: template %s", ErrUnknownBiometric, top.TemplateID)
	}

	outcome = "identified"
	slog.Info("identity matched", "user_id", user.ID, "similarity", top.Similarity)

	if i.events != nil {
		if err := i.events.PublishIdentified(ctx, user, top.Similarity); err != nil {
			slog.Warn("publish identified event", "user_id", user.ID, "error", err)
		}
	}

	return user, top.Similarity, nil
}
