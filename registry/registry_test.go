package registry

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/vecstore/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	registry, err := NewRegistry(NewMemoryMetadataService(), nil)
	require.NoError(t, err, "Expected NewRegistry to not return an error")
	return registry
}

func TestNewRegistry(t *testing.T) {
	t.Run("Valid call NewRegistry", func(t *testing.T) {
		registry, err := NewRegistry(NewMemoryMetadataService(), nil)

		require.NoError(t, err)
		require.NotNil(t, registry, "Expected NewRegistry to return a non-nil instance")
	})

	t.Run("Invalid call NewRegistry with nil service", func(t *testing.T) {
		_, err := NewRegistry(nil, nil)

		assert.Error(t, err, "Expected error when creating Registry with nil service")
		assert.Contains(t, err.Error(), "metadata service is nil")
	})
}

func TestRegister(t *testing.T) {
	t.Run("Registers a new database with metadata", func(t *testing.T) {
		registry := newTestRegistry(t)

		info, err := registry.Register("documents", model.DatabaseTypeVector, "owner-1", "test database")

		require.NoError(t, err)
		require.NotNil(t, info)
		assert.Equal(t, "documents", info.Name)
		assert.Equal(t, model.DatabaseTypeVector, info.Type)
		assert.Equal(t, "owner-1", info.Owner)
		assert.Equal(t, "test database", info.Description)
		assert.NotEqual(t, uuid.Nil, info.RID, "Expected a generated RID")
		assert.WithinDuration(t, time.Now(), info.CreatedAt, 2*time.Second, "Expected CreatedAt to be set")
	})

	t.Run("Duplicate name fails", func(t *testing.T) {
		registry := newTestRegistry(t)

		_, err := registry.Register("documents", model.DatabaseTypeVector, "owner-1", "")
		require.NoError(t, err)

		_, err = registry.Register("documents", model.DatabaseTypeVector, "owner-2", "")

		require.Error(t, err)
		assert.Equal(t, "Database already exists", err.Error())
	})

	t.Run("Empty name fails", func(t *testing.T) {
		registry := newTestRegistry(t)

		_, err := registry.Register("", model.DatabaseTypeVector, "owner-1", "")

		assert.Error(t, err, "Expected error when registering with empty name")
	})
}

func TestUnregister(t *testing.T) {
	t.Run("Removes the entry and its metadata", func(t *testing.T) {
		registry := newTestRegistry(t)

		_, err := registry.Register("documents", model.DatabaseTypeVector, "owner-1", "")
		require.NoError(t, err)

		err = registry.Unregister("documents")
		require.NoError(t, err)

		info, err := registry.Get("documents")
		require.NoError(t, err)
		assert.Nil(t, info, "Expected entry to be gone after unregister")
	})

	t.Run("Unknown name fails", func(t *testing.T) {
		registry := newTestRegistry(t)

		err := registry.Unregister("missing")

		require.Error(t, err)
		assert.Equal(t, "Database not found", err.Error())
	})

	t.Run("Name can be re-registered after unregister", func(t *testing.T) {
		registry := newTestRegistry(t)

		_, err := registry.Register("documents", model.DatabaseTypeVector, "owner-1", "")
		require.NoError(t, err)

		err = registry.Unregister("documents")
		require.NoError(t, err)

		_, err = registry.Register("documents", model.DatabaseTypeGraph, "owner-2", "")
		assert.NoError(t, err, "Expected re-registration after unregister to succeed")
	})
}

func TestGet(t *testing.T) {
	t.Run("Returns the registered entry", func(t *testing.T) {
		registry := newTestRegistry(t)

		registered, err := registry.Register("documents", model.DatabaseTypeVector, "owner-1", "")
		require.NoError(t, err)

		info, err := registry.Get("documents")

		require.NoError(t, err)
		require.NotNil(t, info)
		assert.Equal(t, registered.RID, info.RID)
	})

	t.Run("Unknown name returns nil without an error", func(t *testing.T) {
		registry := newTestRegistry(t)

		info, err := registry.Get("missing")

		require.NoError(t, err)
		assert.Nil(t, info)
	})
}

func TestList(t *testing.T) {
	t.Run("Returns newest first", func(t *testing.T) {
		registry := newTestRegistry(t)

		first, err := registry.Register("first", model.DatabaseTypeVector, "owner-1", "")
		require.NoError(t, err)
		// Distinct creation times so ordering is observable.
		second := &model.DatabaseInfo{
			Name:      "second",
			RID:       uuid.New(),
			Type:      model.DatabaseTypeVector,
			CreatedAt: first.CreatedAt.Add(time.Second),
		}
		require.NoError(t, registry.service.Put(second))

		infos, err := registry.List("")

		require.NoError(t, err)
		require.Len(t, infos, 2)
		assert.Equal(t, "second", infos[0].Name, "Expected the newest entry first")
		assert.Equal(t, "first", infos[1].Name)
	})

	t.Run("Filters by database type", func(t *testing.T) {
		registry := newTestRegistry(t)

		_, err := registry.Register("vectors", model.DatabaseTypeVector, "owner-1", "")
		require.NoError(t, err)
		_, err = registry.Register("graphs", model.DatabaseTypeGraph, "owner-1", "")
		require.NoError(t, err)

		infos, err := registry.List(model.DatabaseTypeVector)

		require.NoError(t, err)
		require.Len(t, infos, 1)
		assert.Equal(t, "vectors", infos[0].Name)
	})

	t.Run("Empty registry returns empty slice", func(t *testing.T) {
		registry := newTestRegistry(t)

		infos, err := registry.List("")

		require.NoError(t, err)
		assert.Empty(t, infos)
	})
}
