// Package registry tracks named logical databases and their metadata.
// The registry enforces name uniqueness and delegates persistence to a
// MetadataService backend.
package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/vecstore/helper"
	"github.com/siherrmann/vecstore/model"
)

// MetadataService is the backing store the registry delegates to.
// Get returns nil without an error for unknown names.
type MetadataService interface {
	Put(info *model.DatabaseInfo) error
	Get(name string) (*model.DatabaseInfo, error)
	Delete(name string) error
	List() ([]*model.DatabaseInfo, error)
	Close() error
}

// Registry tracks database existence and prevents duplicate names.
type Registry struct {
	service MetadataService
	logger  *slog.Logger
}

// NewRegistry creates a registry over the given metadata service.
// A nil logger falls back to the default slog logger.
func NewRegistry(service MetadataService, logger *slog.Logger) (*Registry, error) {
	if service == nil {
		return nil, helper.NewError("metadata service validation", fmt.Errorf("metadata service is nil"))
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Registry{
		service: service,
		logger:  logger,
	}, nil
}

// Register creates a registry entry and its backing metadata.
// Duplicate names fail with ErrDatabaseExists.
func (r *Registry) Register(name string, databaseType model.DatabaseType, owner string, description string) (*model.DatabaseInfo, error) {
	if name == "" {
		return nil, helper.NewError("database name validation", fmt.Errorf("database name is empty"))
	}

	existing, err := r.service.Get(name)
	if err != nil {
		return nil, helper.NewError("get database", err)
	}
	if existing != nil {
		return nil, model.ErrDatabaseExists
	}

	info := &model.DatabaseInfo{
		Name:        name,
		RID:         uuid.New(),
		Type:        databaseType,
		Owner:       owner,
		Description: description,
		CreatedAt:   time.Now(),
	}

	err = r.service.Put(info)
	if err != nil {
		return nil, helper.NewError("put database", err)
	}

	r.logger.Info("Registered database", slog.String("name", name), slog.String("type", string(databaseType)))

	return info, nil
}

// Unregister removes the registry entry and its backing metadata.
// Unknown names fail with ErrDatabaseNotFound.
func (r *Registry) Unregister(name string) error {
	existing, err := r.service.Get(name)
	if err != nil {
		return helper.NewError("get database", err)
	}
	if existing == nil {
		return model.ErrDatabaseNotFound
	}

	err = r.service.Delete(name)
	if err != nil {
		return helper.NewError("delete database", err)
	}

	r.logger.Info("Unregistered database", slog.String("name", name))

	return nil
}

// Get returns the entry for a name, or nil without an error when unknown.
func (r *Registry) Get(name string) (*model.DatabaseInfo, error) {
	info, err := r.service.Get(name)
	if err != nil {
		return nil, helper.NewError("get database", err)
	}
	return info, nil
}

// List returns the registered databases newest-first by creation time,
// optionally filtered by type. An empty type matches every database.
func (r *Registry) List(databaseType model.DatabaseType) ([]*model.DatabaseInfo, error) {
	infos, err := r.service.List()
	if err != nil {
		return nil, helper.NewError("list databases", err)
	}

	filtered := make([]*model.DatabaseInfo, 0, len(infos))
	for _, info := range infos {
		if databaseType != "" && info.Type != databaseType {
			continue
		}
		filtered = append(filtered, info)
	}

	// Newest first, ties broken by name for deterministic ordering.
	sort.Slice(filtered, func(i, j int) bool {
		if !filtered[i].CreatedAt.Equal(filtered[j].CreatedAt) {
			return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
		}
		return filtered[i].Name < filtered[j].Name
	})

	return filtered, nil
}

// Close closes the backing metadata service.
func (r *Registry) Close() error {
	return r.service.Close()
}
