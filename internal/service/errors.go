package service

import "errors"

// Orchestration failure kinds. Each failing step wraps its kind together
// with the underlying cause, so callers can errors.Is on the kind and still
// unwrap the cause. Gateway-level kinds (faceindex.ErrNoFace,
// faceindex.ErrUnavailable, storage.ErrUnavailable, storage.ErrNotFound)
// propagate through unchanged.
var (
	// ErrAlreadyRegistered rejects a registration whose photo matches an
	// enrolled face above the dedup threshold. Nothing was written.
	ErrAlreadyRegistered = errors.New("face already registered")
	// ErrProfilePhotoStore means the photo could not be placed in object
	// storage. The identity row already exists and stays behind as an orphan.
	ErrProfilePhotoStore = errors.New("profile photo store failed")
	// ErrFaceEnrollment means the face index rejected or failed the enroll.
	// The identity row stays behind as an orphan.
	ErrFaceEnrollment = errors.New("face enrollment failed")
	// ErrLink means the template exists in the index but the directory row
	// could not be linked to it. Index and directory have diverged; this is
	// an operational reconciliation case, not retried here.
	ErrLink = errors.New("biometric link failed")
	// ErrNoMatch means no template matched the photo at all.
	ErrNoMatch = errors.New("no matching face")
	// ErrUnknownBiometric means a template matched but no directory row owns
	// it (divergence left behind by a failed link).
	ErrUnknownBiometric = errors.New("matched face not linked to any user")
)
