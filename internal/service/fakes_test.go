package service_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/your-org/faceauth/internal/faceindex"
	"github.com/your-org/faceauth/internal/models"
)

// memIndex is an in-memory face index. Search results are scripted per test;
// enrolls are recorded so tests can assert what reached the index.
type memIndex struct {
	searchResults []faceindex.Match
	searchErr     error
	enrollErr     error

	enrolled    []faceindex.ImageRef
	collections []string
	createCalls int
	deleteCalls int
	listErr     error
}

func (m *memIndex) SearchByImage(ctx context.Context, photo []byte, maxResults int, filter faceindex.QualityFilter) ([]faceindex.Match, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if len(m.searchResults) > maxResults {
		return m.searchResults[:maxResults], nil
	}
	return m.searchResults, nil
}

func (m *memIndex) EnrollImage(ctx context.Context, ref faceindex.ImageRef, filter faceindex.QualityFilter) (uuid.UUID, error) {
	if m.enrollErr != nil {
		return uuid.Nil, m.enrollErr
	}
	m.enrolled = append(m.enrolled, ref)
	return uuid.New(), nil
}

func (m *memIndex) ListEntries(ctx context.Context) ([]uuid.UUID, error) {
	return nil, nil
}

func (m *memIndex) ListCollections(ctx context.Context) ([]string, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.collections, nil
}

func (m *memIndex) CreateCollection(ctx context.Context, name string) error {
	m.createCalls++
	m.collections = append(m.collections, name)
	return nil
}

func (m *memIndex) DeleteCollection(ctx context.Context, name string) error {
	m.deleteCalls++
	for i, c := range m.collections {
		if c == name {
			m.collections = append(m.collections[:i], m.collections[i+1:]...)
			break
		}
	}
	return nil
}

// memDirectory is an in-memory user directory with per-call failure toggles.
type memDirectory struct {
	users  map[int64]*models.User
	nextID int64

	createErr error
	linkErr   error
}

func newMemDirectory() *memDirectory {
	return &memDirectory{users: make(map[int64]*models.User)}
}

func (d *memDirectory) CreateUser(ctx context.Context, name string, age int) (int64, error) {
	if d.createErr != nil {
		return 0, d.createErr
	}
	d.nextID++
	d.users[d.nextID] = &models.User{
		ID:        d.nextID,
		Name:      name,
		Age:       age,
		CreatedAt: time.Now(),
	}
	return d.nextID, nil
}

func (d *memDirectory) LinkBiometric(ctx context.Context, userID int64, faceID uuid.UUID, photoURL *string) error {
	if d.linkErr != nil {
		return d.linkErr
	}
	u, ok := d.users[userID]
	if !ok {
		return errors.New("no such user")
	}
	u.FaceID = &faceID
	u.ProfilePhotoURL = photoURL
	return nil
}

func (d *memDirectory) GetUserByFaceID(ctx context.Context, faceID uuid.UUID) (*models.User, error) {
	for _, u := range d.users {
		if u.FaceID != nil && *u.FaceID == faceID {
			return u, nil
		}
	}
	return nil, nil
}

func (d *memDirectory) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return d.users[id], nil
}

func (d *memDirectory) ListUsers(ctx context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(d.users))
	for _, u := range d.users {
		out = append(out, *u)
	}
	return out, nil
}

func (d *memDirectory) orphans() []*models.User {
	var out []*models.User
	for _, u := range d.users {
		if u.FaceID == nil {
			out = append(out, u)
		}
	}
	return out
}

// memObjectStore records puts; putErr makes every Put fail.
type memObjectStore struct {
	objects map[string][]byte
	putErr  error
}

func newMemObjectStore() *memObjectStore {
	return &memObjectStore{objects: make(map[string][]byte)}
}

func (s *memObjectStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.objects[key] = data
	return nil
}

func (s *memObjectStore) ObjectURL(key string) string {
	return fmt.Sprintf("http://objects.test/photos/%s", key)
}

// memEvents records published events.
type memEvents struct {
	enrolled   []int64
	identified []int64
	err        error
}

func (e *memEvents) PublishEnrolled(ctx context.Context, user *models.User) error {
	if e.err != nil {
		return e.err
	}
	e.enrolled = append(e.enrolled, user.ID)
	return nil
}

func (e *memEvents) PublishIdentified(ctx context.Context, user *models.User, similarity float64) error {
	if e.err != nil {
		return e.err
	}
	e.identified = append(e.identified, user.ID)
	return nil
}
