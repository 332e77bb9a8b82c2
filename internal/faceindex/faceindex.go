// Package faceindex defines the capability contract of the biometric face
// index and its pgvector-backed implementation. The orchestration layer only
// sees opaque template ids; what a template is made of stays inside the index.
package faceindex

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrUnavailable wraps transport or backend failures of the index.
	ErrUnavailable = errors.New("face index unavailable")
	// ErrNoFace means the submitted image holds no usable face. Signaled
	// distinctly from transport errors so callers can tell a bad photo from
	// an outage.
	ErrNoFace = errors.New("no detectable face")
)

// QualityFilter gates low-confidence detections before they reach the index.
type QualityFilter string

const (
	QualityNone   QualityFilter = "NONE"
	QualityAuto   QualityFilter = "AUTO"
	QualityLow    QualityFilter = "LOW"
	QualityMedium QualityFilter = "MEDIUM"
	QualityHigh   QualityFilter = "HIGH"
)

// MinConfidence returns the detector confidence floor (0-1) for the filter.
// Detections below the floor are treated as if no face was found.
func (q QualityFilter) MinConfidence() float32 {
	switch q {
	case QualityNone:
		return 0
	case QualityLow:
		return 0.3
	case QualityHigh:
		return 0.8
	default: // MEDIUM and AUTO
		return 0.5
	}
}

// Match is one search result, similarity on a 0-100 scale.
type Match struct {
	TemplateID uuid.UUID `json:"template_id"`
	Similarity float64   `json:"similarity"`
}

// ImageRef addresses a photo either by raw bytes or by an object-store key.
// Exactly one of the two is set.
type ImageRef struct {
	Bytes     []byte
	ObjectKey string
}

// FromBytes builds an ImageRef around raw photo bytes.
func FromBytes(data []byte) ImageRef {
	return ImageRef{Bytes: data}
}

// FromObject builds an ImageRef pointing at an already-stored object.
func FromObject(key string) ImageRef {
	return ImageRef{ObjectKey: key}
}

// Index is the face index capability surface the orchestrators depend on.
type Index interface {
	// SearchByImage returns up to maxResults matches ordered by descending
	// similarity. An empty result is not an error.
	SearchByImage(ctx context.Context, photo []byte, maxResults int, filter QualityFilter) ([]Match, error)
	// EnrollImage indexes the referenced photo and returns the new template id.
	EnrollImage(ctx context.Context, ref ImageRef, filter QualityFilter) (uuid.UUID, error)
	// ListEntries returns every template id in the active collection.
	ListEntries(ctx context.Context) ([]uuid.UUID, error)

	// Collection lifecycle, used only by the bootstrapper and operator tooling.
	ListCollections(ctx context.Context) ([]string, error)
	CreateCollection(ctx context.Context, name string) error
	DeleteCollection(ctx context.Context, name string) error
}

// Embedder produces a face embedding and detector confidence from image
// bytes. Implemented by vision.Extractor.
type Embedder interface {
	EmbedImage(imageData []byte) ([]float32, float32, error)
}

// ObjectGetter fetches stored photo bytes when enrolling from an
// object-store reference. Implemented by storage.MinIOStore.
type ObjectGetter interface {
	Get(ctx context.Context, key string) ([]byte, error)
}
