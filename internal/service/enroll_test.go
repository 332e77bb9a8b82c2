package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/your-org/faceauth/internal/config"
	"github.com/your-org/faceauth/internal/faceindex"
	"github.com/your-org/faceauth/internal/service"
)

func enrollConfig() config.FaceIndexConfig {
	return config.FaceIndexConfig{Collection: "test", DedupThreshold: 80}
}

var photo = []byte("jpeg-bytes")

func TestRegisterHappyPath(t *testing.T) {
	index := &memIndex{}
	dir := newMemDirectory()
	photos := newMemObjectStore()
	events := &memEvents{}
	e := service.NewEnroller(index, dir, photos, events, enrollConfig())

	user, err := e.Register(context.Background(), "alice", 30, photo)
	require.NoError(t, err)
	require.NotNil(t, user)
	require.Equal(t, "alice", user.Name)
	require.Equal(t, 30, user.Age)
	require.True(t, user.Enrolled())
	require.NotNil(t, user.ProfilePhotoURL)
	require.Contains(t, *user.ProfilePhotoURL, "user_avatar_1.jpeg")

	// photo landed under the user-derived key and the index was given the
	// stored object, not raw bytes
	require.Contains(t, photos.objects, "user_avatar_1.jpeg")
	require.Len(t, index.enrolled, 1)
	require.Equal(t, "user_avatar_1.jpeg", index.enrolled[0].ObjectKey)

	require.Equal(t, []int64{user.ID}, events.enrolled)
}

func TestRegisterWithoutObjectStore(t *testing.T) {
	index := &memIndex{}
	dir := newMemDirectory()
	e := service.NewEnroller(index, dir, nil, nil, enrollConfig())

	user, err := e.Register(context.Background(), "bob", 41, photo)
	require.NoError(t, err)
	require.True(t, user.Enrolled())
	require.Nil(t, user.ProfilePhotoURL)

	// without object storage the index gets the raw bytes
	require.Len(t, index.enrolled, 1)
	require.Equal(t, photo, index.enrolled[0].Bytes)
	require.Empty(t, index.enrolled[0].ObjectKey)
}

func TestRegisterDuplicateFace(t *testing.T) {
	index := &memIndex{
		searchResults: []faceindex.Match{{Similarity: 93.5}},
	}
	dir := newMemDirectory()
	e := service.NewEnroller(index, dir, nil, nil, enrollConfig())

	_, err := e.Register(context.Background(), "alice", 30, photo)
	require.ErrorIs(t, err, service.ErrAlreadyRegistered)

	// the attempt aborted before any write
	require.Empty(t, dir.users)
	require.Empty(t, index.enrolled)
}

func TestRegisterMatchAtThresholdProceeds(t *testing.T) {
	// a match exactly at the threshold is not a duplicate; only strictly
	// above counts
	index := &memIndex{
		searchResults: []faceindex.Match{{Similarity: 80}},
	}
	dir := newMemDirectory()
	e := service.NewEnroller(index, dir, nil, nil, enrollConfig())

	user, err := e.Register(context.Background(), "alice", 30, photo)
	require.NoError(t, err)
	require.True(t, user.Enrolled())
}

func TestRegisterNoFaceInPhoto(t *testing.T) {
	index := &memIndex{searchErr: faceindex.ErrNoFace}
	dir := newMemDirectory()
	e := service.NewEnroller(index, dir, nil, nil, enrollConfig())

	_, err := e.Register(context.Background(), "alice", 30, photo)
	require.ErrorIs(t, err, faceindex.ErrNoFace)
	require.Empty(t, dir.users)
}

func TestRegisterIndexUnavailable(t *testing.T) {
	index := &memIndex{searchErr: faceindex.ErrUnavailable}
	dir := newMemDirectory()
	e := service.NewEnroller(index, dir, nil, nil, enrollConfig())

	_, err := e.Register(context.Background(), "alice", 30, photo)
	require.ErrorIs(t, err, faceindex.ErrUnavailable)
	require.Empty(t, dir.users)
}

func TestRegisterPhotoStoreFailureLeavesOrphan(t *testing.T) {
	index := &memIndex{}
	dir := newMemDirectory()
	photos := newMemObjectStore()
	photos.putErr = errors.New("bucket gone")
	e := service.NewEnroller(index, dir, photos, nil, enrollConfig())

	_, err := e.Register(context.Background(), "alice", 30, photo)
	require.ErrorIs(t, err, service.ErrProfilePhotoStore)

	// row stays behind unlinked; the index was never touched
	require.Len(t, dir.orphans(), 1)
	require.Empty(t, index.enrolled)
}

func TestRegisterEnrollFailureLeavesOrphan(t *testing.T) {
	index := &memIndex{enrollErr: faceindex.ErrNoFace}
	dir := newMemDirectory()
	e := service.NewEnroller(index, dir, nil, nil, enrollConfig())

	_, err := e.Register(context.Background(), "alice", 30, photo)
	require.ErrorIs(t, err, service.ErrFaceEnrollment)
	require.ErrorIs(t, err, faceindex.ErrNoFace)
	require.Len(t, dir.orphans(), 1)
}

func TestRegisterLinkFailure(t *testing.T) {
	index := &memIndex{}
	dir := newMemDirectory()
	dir.linkErr = errors.New("connection reset")
	e := service.NewEnroller(index, dir, nil, nil, enrollConfig())

	_, err := e.Register(context.Background(), "alice", 30, photo)
	require.ErrorIs(t, err, service.ErrLink)

	// the template reached the index but the row never linked
	require.Len(t, index.enrolled, 1)
	require.Len(t, dir.orphans(), 1)
}

func TestRegisterRetryAfterFailureCreatesFreshRow(t *testing.T) {
	index := &memIndex{enrollErr: faceindex.ErrUnavailable}
	dir := newMemDirectory()
	e := service.NewEnroller(index, dir, nil, nil, enrollConfig())

	_, err := e.Register(context.Background(), "alice", 30, photo)
	require.ErrorIs(t, err, service.ErrFaceEnrollment)

	index.enrollErr = nil
	user, err := e.Register(context.Background(), "alice", 30, photo)
	require.NoError(t, err)
	require.True(t, user.Enrolled())

	// the orphan from the failed attempt is untouched
	require.Equal(t, int64(2), user.ID)
	require.Len(t, dir.orphans(), 1)
}

func TestRegisterEventFailureDoesNotFailRegistration(t *testing.T) {
	index := &memIndex{}
	dir := newMemDirectory()
	events := &memEvents{err: errors.New("nats down")}
	e := service.NewEnroller(index, dir, nil, events, enrollConfig())

	user, err := e.Register(context.Background(), "alice", 30, photo)
	require.NoError(t, err)
	require.True(t, user.Enrolled())
}
