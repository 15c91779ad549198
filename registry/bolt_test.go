package registry

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/vecstore/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBoltService(t *testing.T) *BoltMetadataService {
	t.Helper()
	service, err := NewBoltMetadataService(filepath.Join(t.TempDir(), "registry.db"))
	require.NoError(t, err, "Expected NewBoltMetadataService to not return an error")
	t.Cleanup(func() { service.Close() })
	return service
}

func testInfo(name string) *model.DatabaseInfo {
	return &model.DatabaseInfo{
		Name:      name,
		RID:       uuid.New(),
		Type:      model.DatabaseTypeVector,
		Owner:     "owner-1",
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestBoltMetadataService(t *testing.T) {
	t.Run("Put and get round-trip", func(t *testing.T) {
		service := newTestBoltService(t)
		info := testInfo("documents")

		err := service.Put(info)
		require.NoError(t, err)

		found, err := service.Get("documents")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, info.Name, found.Name)
		assert.Equal(t, info.RID, found.RID)
		assert.Equal(t, info.Owner, found.Owner)
		assert.True(t, info.CreatedAt.Equal(found.CreatedAt), "Expected CreatedAt to round-trip")
	})

	t.Run("Get unknown name returns nil", func(t *testing.T) {
		service := newTestBoltService(t)

		found, err := service.Get("missing")

		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("Delete removes the entry", func(t *testing.T) {
		service := newTestBoltService(t)
		require.NoError(t, service.Put(testInfo("documents")))

		err := service.Delete("documents")
		require.NoError(t, err)

		found, err := service.Get("documents")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("List returns every entry", func(t *testing.T) {
		service := newTestBoltService(t)
		require.NoError(t, service.Put(testInfo("first")))
		require.NoError(t, service.Put(testInfo("second")))

		infos, err := service.List()

		require.NoError(t, err)
		assert.Len(t, infos, 2)
	})

	t.Run("Entries survive reopening the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "registry.db")

		service, err := NewBoltMetadataService(path)
		require.NoError(t, err)
		require.NoError(t, service.Put(testInfo("documents")))
		require.NoError(t, service.Close())

		reopened, err := NewBoltMetadataService(path)
		require.NoError(t, err)
		defer reopened.Close()

		found, err := reopened.Get("documents")
		require.NoError(t, err)
		require.NotNil(t, found, "Expected entry to survive a restart")
	})

	t.Run("Registry works on top of the bolt service", func(t *testing.T) {
		service := newTestBoltService(t)
		registry, err := NewRegistry(service, nil)
		require.NoError(t, err)

		_, err = registry.Register("documents", model.DatabaseTypeVector, "owner-1", "")
		require.NoError(t, err)

		_, err = registry.Register("documents", model.DatabaseTypeVector, "owner-1", "")
		require.Error(t, err)
		assert.Equal(t, "Database already exists", err.Error())
	})
}
