package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/your-org/faceauth/internal/config"
	"github.com/your-org/faceauth/internal/service"
)

func TestEnsureCollectionCreatesWhenAbsent(t *testing.T) {
	index := &memIndex{}
	b := service.NewBootstrapper(index)

	err := b.EnsureCollection(context.Background(), "faces", config.ResetPolicyCreateIfAbsent)
	require.NoError(t, err)
	require.Equal(t, []string{"faces"}, index.collections)
	require.Equal(t, 1, index.createCalls)
	require.Zero(t, index.deleteCalls)
}

func TestEnsureCollectionIdempotentWhenPresent(t *testing.T) {
	index := &memIndex{collections: []string{"faces"}}
	b := service.NewBootstrapper(index)

	err := b.EnsureCollection(context.Background(), "faces", config.ResetPolicyCreateIfAbsent)
	require.NoError(t, err)

	// no create and no delete were issued against the existing collection
	require.Zero(t, index.createCalls)
	require.Zero(t, index.deleteCalls)
}

func TestEnsureCollectionRecreateDropsExisting(t *testing.T) {
	index := &memIndex{collections: []string{"faces"}}
	b := service.NewBootstrapper(index)

	err := b.EnsureCollection(context.Background(), "faces", config.ResetPolicyRecreate)
	require.NoError(t, err)
	require.Equal(t, 1, index.deleteCalls)
	require.Equal(t, 1, index.createCalls)
	require.Equal(t, []string{"faces"}, index.collections)
}

func TestEnsureCollectionRecreateWhenAbsent(t *testing.T) {
	index := &memIndex{}
	b := service.NewBootstrapper(index)

	err := b.EnsureCollection(context.Background(), "faces", config.ResetPolicyRecreate)
	require.NoError(t, err)
	require.Zero(t, index.deleteCalls)
	require.Equal(t, 1, index.createCalls)
}

func TestEnsureCollectionUnknownPolicy(t *testing.T) {
	b := service.NewBootstrapper(&memIndex{})

	err := b.EnsureCollection(context.Background(), "faces", "drop-everything")
	require.Error(t, err)
	require.Contains(t, err.Error(), "drop-everything")
}

func TestEnsureCollectionListFailure(t *testing.T) {
	index := &memIndex{listErr: errors.New("connection refused")}
	b := service.NewBootstrapper(index)

	err := b.EnsureCollection(context.Background(), "faces", config.ResetPolicyCreateIfAbsent)
	require.Error(t, err)
	require.Zero(t, index.createCalls)
}
