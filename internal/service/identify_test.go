package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/your-org/faceauth/internal/faceindex"
	"github.com/your-org/faceauth/internal/service"
)

func TestIdentifyMatch(t *testing.T) {
	index := &memIndex{}
	dir := newMemDirectory()
	events := &memEvents{}
	enroller := service.NewEnroller(index, dir, nil, nil, enrollConfig())

	enrolled, err := enroller.Register(context.Background(), "alice", 30, photo)
	require.NoError(t, err)

	index.searchResults = []faceindex.Match{{TemplateID: *enrolled.FaceID, Similarity: 97.2}}
	identifier := service.NewIdentifier(index, dir, events)

	user, similarity, err := identifier.Identify(context.Background(), photo)
	require.NoError(t, err)
	require.Equal(t, enrolled.ID, user.ID)
	require.Equal(t, 97.2, similarity)
	require.Equal(t, []int64{enrolled.ID}, events.identified)
}

func TestIdentifyNoMatch(t *testing.T) {
	index := &memIndex{}
	dir := newMemDirectory()
	identifier := service.NewIdentifier(index, dir, nil)

	_, _, err := identifier.Identify(context.Background(), photo)
	require.ErrorIs(t, err, service.ErrNoMatch)
}

func TestIdentifyNoFaceInPhoto(t *testing.T) {
	index := &memIndex{searchErr: faceindex.ErrNoFace}
	identifier := service.NewIdentifier(index, newMemDirectory(), nil)

	_, _, err := identifier.Identify(context.Background(), photo)
	require.ErrorIs(t, err, faceindex.ErrNoFace)
}

func TestIdentifyUnknownBiometric(t *testing.T) {
	// a template matched but no directory row owns it: the divergence a
	// failed link leaves behind
	orphanTemplate := uuid.New()
	index := &memIndex{
		searchResults: []faceindex.Match{{TemplateID: orphanTemplate, Similarity: 95}},
	}
	identifier := service.NewIdentifier(index, newMemDirectory(), nil)

	_, _, err := identifier.Identify(context.Background(), photo)
	require.ErrorIs(t, err, service.ErrUnknownBiometric)
	require.NotErrorIs(t, err, service.ErrNoMatch)
	require.Contains(t, err.Error(), orphanTemplate.String())
}

func TestIdentifyIndexUnavailable(t *testing.T) {
	index := &memIndex{searchErr: faceindex.ErrUnavailable}
	identifier := service.NewIdentifier(index, newMemDirectory(), nil)

	_, _, err := identifier.Identify(context.Background(), photo)
	require.ErrorIs(t, err, faceindex.ErrUnavailable)
}
