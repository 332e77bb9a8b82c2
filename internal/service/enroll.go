package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/your-org/faceauth/internal/config"
	"github.com/your-org/faceauth/internal/faceindex"
	"github.com/your-org/faceauth/internal/models"
	"github.com/your-org/faceauth/internal/observability"
)

// avatarKey derives the object key for a user's profile photo. Deterministic
// per user id, so a retried Put overwrites instead of piling up objects.
func avatarKey(userID int64) string {
	return fmt.Sprintf("user_avatar_%d.jpeg", userID)
}

// Enroller registers a new identity across the face index, the user
// directory and (optionally) the object store. Steps run strictly in order
// and fail closed: the first failing step aborts the attempt, nothing is
// retried internally, and each failure keeps its specific kind so the caller
// can decide between retrying the whole attempt and paging an operator.
type Enroller struct {
	index  faceindex.Index
	dir    Directory
	photos ObjectStore
	events EventPublisher

	dedupThreshold float64

	// mu serializes the dedup-then-enroll sequence when configured. Without
	// it two concurrent registrations of the same face can both pass the
	// dedup check and enroll twice.
	mu *sync.Mutex
}

// NewEnroller wires the enrollment orchestrator. photos may be nil (no
// object storage: enrollment indexes raw bytes and photo URLs stay unset);
// events may be nil.
func NewEnroller(index faceindex.Index, dir Directory, photos ObjectStore, events EventPublisher, cfg config.FaceIndexConfig) *Enroller {
	e := &Enroller{
		index:          index,
		dir:            dir,
		photos:         photos,
		events:         events,
		dedupThreshold: cfg.DedupThreshold,
	}
	if cfg.SerializeEnrollment {
		e.mu = &sync.Mutex{}
	}
	return e
}

// Register runs one registration attempt. Retrying a failed attempt is
// always safe: the dedup check stops a second identity from being enrolled
// for the same face, and a retry creates a fresh row rather than touching
// the orphan a previous attempt may have left.
func (e *Enroller) Register(ctx context.Context, name string, age int, photo []byte) (user *models.User, err error) {
	outcome := "error"
	defer func() {
		observability.Registrations.WithLabelValues(outcome).Inc()
	}()

	if e.mu != nil {
		e.mu.Lock()
		defer e.mu.Unlock()
	}

	// Step 1: dedup. Aborting here has no side effects.
	matches, err := e.index.SearchByImage(ctx, photo, 1, faceindex.QualityMedium)
	if err != nil {
		return nil, fmt.Errorf("dedup search: %w", err)
	}
	if len(matches) > 0 && matches[0].Similarity > e.dedupThreshold {
		outcome = "already_registered"
		return nil, fmt.Errorf("%w: template %s at %.1f%%", ErrAlreadyRegistered, matches[0].TemplateID, matches[0].Similarity)
	}

	// Step 2: the identity row must exist before a template can be linked to
	// it. From here on a failure leaves the row behind as an orphan.
	userID, err := e.dir.CreateUser(ctx, name, age)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	// Step 3 (optional): durable photo placement.
	ref := faceindex.FromBytes(photo)
	var photoURL *string
	if e.photos != nil {
		key := avatarKey(userID)
		if err := e.photos.Put(ctx, key, photo, "image/jpeg"); err != nil {
			outcome = "photo_store_failed"
			return nil, fmt.Errorf("%w: user %d: %w", ErrProfilePhotoStore, userID, err)
		}
		url := e.photos.ObjectURL(key)
		photoURL = &url
		ref = faceindex.FromObject(key)
	}

	// Step 4: enroll into the face index.
	templateID, err := e.index.EnrollImage(ctx, ref, faceindex.QualityMedium)
	if err != nil {
		outcome = "enrollment_failed"
		return nil, fmt.Errorf("%w: user %d: %w", ErrFaceEnrollment, userID, err)
	}

	// Step 5: link. A failure here is the one place index and directory can
	// diverge (template without a linked row); surfaced, not auto-healed.
	if err := e.dir.LinkBiometric(ctx, userID, templateID, photoURL); err != nil {
		outcome = "link_failed"
		return nil, fmt.Errorf("%w: user %d template %s: %w", ErrLink, userID, templateID, err)
	}

	user, err = e.dir.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read back user %d: %w", userID, err)
	}

	outcome = "enrolled"
	slog.Info("identity enrolled", "user_id", userID, "template_id", templateID)

	if e.events != nil {
		if err := e.events.PublishEnrolled(ctx, user); err != nil {
			slog.Warn("publish enrolled event", "user_id", userID, "error", err)
		}
	}

	return user, nil
}
