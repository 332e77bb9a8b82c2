package faceindex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/your-org/faceauth/internal/observability"
	"github.com/your-org/faceauth/internal/vision"
)

// PgvectorIndex implements Index on Postgres with the pgvector extension.
// Templates are embeddings in face_templates, namespaced by collection.
// The active collection name is fixed at construction and immutable after
// bootstrap.
type PgvectorIndex struct {
	pool       *pgxpool.Pool
	embed      Embedder
	objects    ObjectGetter
	collection string
	// matchThreshold is the minimum 0-100 similarity for a search hit.
	matchThreshold float64
}

// NewPgvectorIndex builds the index over an existing pool. embed may be nil
// for operator tooling that only lists or manages collections; objects may be
// nil when the deployment runs without object storage.
func NewPgvectorIndex(pool *pgxpool.Pool, embed Embedder, objects ObjectGetter, collection string, matchThreshold float64) *PgvectorIndex {
	return &PgvectorIndex{
		pool:           pool,
		embed:          embed,
		objects:        objects,
		collection:     collection,
		matchThreshold: matchThreshold,
	}
}

// Collection returns the active collection name.
func (x *PgvectorIndex) Collection() string {
	return x.collection
}

func (x *PgvectorIndex) embedFiltered(photo []byte, filter QualityFilter) ([]float32, error) {
	if x.embed == nil {
		return nil, fmt.Errorf("%w: no embedder configured", ErrUnavailable)
	}
	embedding, confidence, err := x.embed.EmbedImage(photo)
	if err != nil {
		if errors.Is(err, vision.ErrNoFace) {
			return nil, fmt.Errorf("%w: %w", ErrNoFace, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if confidence < filter.MinConfidence() {
		return nil, fmt.Errorf("%w: detection confidence %.2f below %s floor", ErrNoFace, confidence, filter)
	}
	return embedding, nil
}

// SearchByImage embeds the photo and returns the closest templates in the
// active collection, similarity 0-100 descending, empty when nothing clears
// the match threshold.
func (x *PgvectorIndex) SearchByImage(ctx context.Context, photo []byte, maxResults int, filter QualityFilter) ([]Match, error) {
	start := time.Now()
	defer func() {
		observability.IndexOpDuration.WithLabelValues("search").Observe(time.Since(start).Seconds())
	}()

	if maxResults <= 0 {
		maxResults = 1
	}

	embedding, err := x.embedFiltered(photo, filter)
	if err != nil {
		return nil, err
	}
	vec := pgvector.NewVector(embedding)

	rows, err := x.pool.Query(ctx,
		`SELECT id, (1 - (embedding <=> $1)) * 100 AS similarity
		 FROM face_templates
		 WHERE collection = $2
		   AND (1 - (embedding <=> $1)) * 100 >= $3
		 ORDER BY embedding <=> $1
		 LIMIT $4`,
		vec, x.collection, x.matchThreshold, maxResults)
	if err != nil {
		return nil, fmt.Errorf("search templates: %w: %w", ErrUnavailable, err)
	}
	defer rows.Close()

	matches := []Match{}
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.TemplateID, &m.Similarity); err != nil {
			return nil, fmt.Errorf("scan match: %w: %w", ErrUnavailable, err)
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// EnrollImage embeds the referenced photo and stores it as a new template.
func (x *PgvectorIndex) EnrollImage(ctx context.Context, ref ImageRef, filter QualityFilter) (uuid.UUID, error) {
	start := time.Now()
	defer func() {
		observability.IndexOpDuration.WithLabelValues("enroll").Observe(time.Since(start).Seconds())
	}()

	photo := ref.Bytes
	if ref.ObjectKey != "" {
		if x.objects == nil {
			return uuid.Nil, fmt.Errorf("%w: no object store configured for ref %q", ErrUnavailable, ref.ObjectKey)
		}
		data, err := x.objects.Get(ctx, ref.ObjectKey)
		if err != nil {
			return uuid.Nil, fmt.Errorf("%w: fetch %q: %w", ErrUnavailable, ref.ObjectKey, err)
		}
		photo = data
	}

	embedding, err := x.embedFiltered(photo, filter)
	if err != nil {
		return uuid.Nil, err
	}
	vec := pgvector.NewVector(embedding)

	id := uuid.New()
	_, err = x.pool.Exec(ctx,
		`INSERT INTO face_templates (id, collection, embedding) VALUES ($1, $2, $3)`,
		id, x.collection, vec)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert template: %w: %w", ErrUnavailable, err)
	}
	return id, nil
}

// ListEntries returns every template id in the active collection in
// enrollment order.
func (x *PgvectorIndex) ListEntries(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := x.pool.Query(ctx,
		`SELECT id FROM face_templates WHERE collection = $1 ORDER BY created_at`,
		x.collection)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w: %w", ErrUnavailable, err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan template id: %w: %w", ErrUnavailable, err)
		}
		ids = append(ids, id)
	}
	observability.EnrolledTemplates.Set(float64(len(ids)))
	return ids, nil
}

func (x *PgvectorIndex) ListCollections(ctx context.Context) ([]string, error) {
	rows, err := x.pool.Query(ctx, `SELECT name FROM face_collections ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w: %w", ErrUnavailable, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan collection: %w: %w", ErrUnavailable, err)
		}
		names = append(names, name)
	}
	return names, nil
}

func (x *PgvectorIndex) CreateCollection(ctx context.Context, name string) error {
	_, err := x.pool.Exec(ctx, `INSERT INTO face_collections (name) VALUES ($1)`, name)
	if err != nil {
		return fmt.Errorf("create collection %s: %w: %w", name, ErrUnavailable, err)
	}
	return nil
}

// DeleteCollection removes the collection and, via cascade, every template
// enrolled in it.
func (x *PgvectorIndex) DeleteCollection(ctx context.Context, name string) error {
	_, err := x.pool.Exec(ctx, `DELETE FROM face_collections WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("delete collection %s: %w: %w", name, ErrUnavailable, err)
	}
	return nil
}
